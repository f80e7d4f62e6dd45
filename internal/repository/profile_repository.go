package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/database"
	"github.com/jengzang/activity-ranks/internal/models"
	"github.com/jengzang/activity-ranks/internal/profile"
)

const timeLayout = "2006-01-02 15:04:05"

const profileColumns = `id, username, rank_name, rank_emoji, total_hours,
	coins_everest, coins_pizza, coins_heartbeat, achievements, stats,
	max_elevation, max_elevation_link, max_duration, max_duration_link,
	max_distance, max_distance_link, activity_count, upload_id, updated_at`

// ProfileRepository handles database operations for user profiles and
// their activity records
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// SaveSnapshot replaces everything stored for the snapshot's user: the
// profile row is upserted and the activity records are deleted and
// reinserted, all in one transaction
func (r *ProfileRepository) SaveSnapshot(ctx context.Context, snap *profile.Snapshot) error {
	p := snap.Profile
	achievements, err := json.Marshal(p.Achievements)
	if err != nil {
		return fmt.Errorf("failed to encode achievements: %w", err)
	}
	summary, err := json.Marshal(p.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		upsert := `INSERT INTO users (
				username, rank_name, rank_emoji, total_hours,
				coins_everest, coins_pizza, coins_heartbeat, achievements, stats,
				max_elevation, max_elevation_link, max_duration, max_duration_link,
				max_distance, max_distance_link, activity_count, upload_id, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(username) DO UPDATE SET
				rank_name = excluded.rank_name,
				rank_emoji = excluded.rank_emoji,
				total_hours = excluded.total_hours,
				coins_everest = excluded.coins_everest,
				coins_pizza = excluded.coins_pizza,
				coins_heartbeat = excluded.coins_heartbeat,
				achievements = excluded.achievements,
				stats = excluded.stats,
				max_elevation = excluded.max_elevation,
				max_elevation_link = excluded.max_elevation_link,
				max_duration = excluded.max_duration,
				max_duration_link = excluded.max_duration_link,
				max_distance = excluded.max_distance,
				max_distance_link = excluded.max_distance_link,
				activity_count = excluded.activity_count,
				upload_id = excluded.upload_id,
				updated_at = excluded.updated_at
			RETURNING id`

		var userID int64
		err := tx.QueryRowContext(ctx, upsert,
			p.Username, p.RankName, p.RankEmoji, p.TotalHours,
			p.Coins.Everest, p.Coins.Pizza, p.Coins.Heartbeat, string(achievements), string(summary),
			p.MaxMetrics.Elevation.Value, p.MaxMetrics.Elevation.Link,
			p.MaxMetrics.Duration.Value, p.MaxMetrics.Duration.Link,
			p.MaxMetrics.Distance.Value, p.MaxMetrics.Distance.Link,
			p.ActivityCount, p.UploadID, p.UpdatedAt.UTC().Format(timeLayout),
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM activities WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete activities: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO activities (
				user_id, position, activity_id, name, type, date, distance, duration,
				duration_minutes, elevation_gain, calories, heartbeats,
				coins_everest, coins_pizza, coins_heartbeat, link
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, a := range snap.Activities {
			var date sql.NullString
			if a.Date != nil {
				date = sql.NullString{String: a.Date.Format(timeLayout), Valid: true}
			}
			_, err := stmt.ExecContext(ctx,
				userID, i, a.ActivityID, a.Name, a.Type, date, a.DistanceKm, a.DurationHours,
				a.DurationMinutes, a.ElevationGainM, a.Calories, a.Heartbeats,
				a.Coins.Everest, a.Coins.Pizza, a.Coins.Heartbeat, a.Link,
			)
			if err != nil {
				return fmt.Errorf("failed to insert activity %s: %w", a.ActivityID, err)
			}
		}
		return nil
	})
}

// GetProfile retrieves a profile by username. It returns nil, nil when the
// user does not exist.
func (r *ProfileRepository) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM users WHERE username = ?", username)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListProfiles retrieves every stored profile
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+profileColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// ListActivities retrieves a page of a user's activity records, newest
// first with undated records last, and the total number of records
func (r *ProfileRepository) ListActivities(ctx context.Context, username string, filter models.ActivityFilter) ([]models.ActivityRecord, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities a
		JOIN users u ON u.id = a.user_id WHERE u.username = ?`, username).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `SELECT a.activity_id, a.name, a.type, a.date, a.distance, a.duration,
			a.duration_minutes, a.elevation_gain, a.calories, a.heartbeats,
			a.coins_everest, a.coins_pizza, a.coins_heartbeat, a.link
		FROM activities a JOIN users u ON u.id = a.user_id
		WHERE u.username = ?
		ORDER BY a.date IS NULL, a.date DESC, a.position ASC`
	args := []interface{}{username}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	records := []models.ActivityRecord{}
	for rows.Next() {
		var a models.ActivityRecord
		var date sql.NullString
		err := rows.Scan(
			&a.ActivityID, &a.Name, &a.Type, &date, &a.DistanceKm, &a.DurationHours,
			&a.DurationMinutes, &a.ElevationGainM, &a.Calories, &a.Heartbeats,
			&a.Coins.Everest, &a.Coins.Pizza, &a.Coins.Heartbeat, &a.Link,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		if date.Valid {
			if t, ok := parseTime(date.String); ok {
				a.Date = &t
			}
		}
		records = append(records, a)
	}
	return records, total, rows.Err()
}

// MigrateAchievements rewrites stored achievements that still use a legacy
// badge shape. It returns the number of profiles rewritten.
func (r *ProfileRepository) MigrateAchievements(ctx context.Context) (int, error) {
	var rewritten int
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT id, achievements FROM users")
		if err != nil {
			return fmt.Errorf("failed to query achievements: %w", err)
		}
		updates := make(map[int64]string)
		for rows.Next() {
			var id int64
			var raw string
			if err := rows.Scan(&id, &raw); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan achievements: %w", err)
			}
			res, err := achievement.NormalizeLegacy([]byte(raw))
			if err != nil {
				rows.Close()
				return fmt.Errorf("user %d: %w", id, err)
			}
			enc, err := json.Marshal(res)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to encode achievements: %w", err)
			}
			if string(enc) != raw {
				updates[id] = string(enc)
			}
		}
		if err := rows.Close(); err != nil {
			return err
		}

		for id, enc := range updates {
			if _, err := tx.ExecContext(ctx, "UPDATE users SET achievements = ? WHERE id = ?", enc, id); err != nil {
				return fmt.Errorf("failed to update achievements: %w", err)
			}
		}
		rewritten = len(updates)
		return nil
	})
	return rewritten, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(s scanner) (*models.UserProfile, error) {
	var p models.UserProfile
	var achievements, summary string
	var maxElev, maxDur, maxDist sql.NullFloat64
	var elevLink, durLink, distLink, uploadID, updatedAt sql.NullString

	err := s.Scan(
		&p.ID, &p.Username, &p.RankName, &p.RankEmoji, &p.TotalHours,
		&p.Coins.Everest, &p.Coins.Pizza, &p.Coins.Heartbeat, &achievements, &summary,
		&maxElev, &elevLink, &maxDur, &durLink, &maxDist, &distLink,
		&p.ActivityCount, &uploadID, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Achievements, err = achievement.NormalizeLegacy([]byte(achievements))
	if err != nil {
		return nil, err
	}
	if summary != "" {
		if err := json.Unmarshal([]byte(summary), &p.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode stats: %w", err)
		}
	}
	p.MaxMetrics.Elevation.Value, p.MaxMetrics.Elevation.Link = maxElev.Float64, elevLink.String
	p.MaxMetrics.Duration.Value, p.MaxMetrics.Duration.Link = maxDur.Float64, durLink.String
	p.MaxMetrics.Distance.Value, p.MaxMetrics.Distance.Link = maxDist.Float64, distLink.String
	p.UploadID = uploadID.String
	if updatedAt.Valid {
		if t, ok := parseTime(updatedAt.String); ok {
			p.UpdatedAt = t
		}
	}
	return &p, nil
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
