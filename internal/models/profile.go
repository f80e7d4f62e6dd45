package models

import (
	"time"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/currency"
	"github.com/jengzang/activity-ranks/internal/ranks"
	"github.com/jengzang/activity-ranks/internal/stats"
)

// UserProfile is the persisted gamification snapshot of one user
type UserProfile struct {
	ID            int64              `json:"-" db:"id"`
	Username      string             `json:"username" db:"username"`
	RankName      string             `json:"rank_name" db:"rank_name"`
	RankEmoji     string             `json:"rank_emoji" db:"rank_emoji"`
	TotalHours    float64            `json:"total_hours" db:"total_hours"`
	Coins         currency.Coins     `json:"coins"`
	Achievements  achievement.Result `json:"achievements" db:"achievements"`
	Stats         stats.Summary      `json:"stats" db:"stats"`
	MaxMetrics    stats.MaxMetrics   `json:"max_metrics"`
	ActivityCount int                `json:"activity_count" db:"activity_count"`

	// Metadata
	UploadID  string    `json:"upload_id,omitempty" db:"upload_id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ActivityRecord is the persisted, display-ready view of one activity
type ActivityRecord struct {
	ActivityID      string         `json:"id" db:"activity_id"`
	Name            string         `json:"name" db:"name"`
	Type            string         `json:"type" db:"type"`
	Date            *time.Time     `json:"date,omitempty" db:"date"`
	DistanceKm      float64        `json:"distance" db:"distance"`
	DurationHours   float64        `json:"duration" db:"duration"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"` // minutes past the whole hour
	ElevationGainM  float64        `json:"elevation_gain" db:"elevation_gain"`
	Calories        float64        `json:"calories" db:"calories"`
	Heartbeats      int            `json:"heartbeats" db:"heartbeats"`
	Coins           currency.Coins `json:"coins"`
	Link            string         `json:"link" db:"link"`
}

// ActivityFilter selects a page of a user's activities
type ActivityFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// ActivitiesResponse is a paginated list of activity records, newest first
type ActivitiesResponse struct {
	Data       []ActivityRecord `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// Dashboard is everything needed to render one user's page
type Dashboard struct {
	Profile    *UserProfile        `json:"user"`
	RankInfo   ranks.Info          `json:"rank_info"`
	Activities *ActivitiesResponse `json:"activities"`
	Ranks      []ranks.Level       `json:"ranks"`
}

// UploadSummary is returned after a successful upload
type UploadSummary struct {
	Username      string        `json:"username"`
	UploadID      string        `json:"upload_id"`
	ActivityCount int           `json:"activity_count"`
	RankInfo      ranks.Info    `json:"rank_info"`
	Stats         stats.Summary `json:"stats"`
}
