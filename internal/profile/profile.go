package profile

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/activity"
	"github.com/jengzang/activity-ranks/internal/currency"
	"github.com/jengzang/activity-ranks/internal/models"
	"github.com/jengzang/activity-ranks/internal/ranks"
	"github.com/jengzang/activity-ranks/internal/stats"
)

// DefaultLinkBase prefixes activity ids to build reference links
const DefaultLinkBase = "https://www.strava.com/activities/"

// ErrEmptyUsername is returned when no username is given
var ErrEmptyUsername = errors.New("username is required")

// Options tune how a snapshot is built
type Options struct {
	LinkBase string
	UploadID uuid.UUID
	Now      func() time.Time
	Engine   *achievement.Engine
}

// Snapshot is the full derived state of one upload. The caller persists it
// by replacing whatever was stored for the user.
type Snapshot struct {
	Profile    models.UserProfile      `json:"profile"`
	Activities []models.ActivityRecord `json:"activities"`
	RankInfo   ranks.Info              `json:"rank_info"`
}

// FromTable normalizes t and builds the snapshot. Only a missing column
// (*activity.ValidationError) or a missing username fails.
func FromTable(username string, t *activity.Table, opts Options) (*Snapshot, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}
	acts, err := activity.Normalize(t)
	if err != nil {
		return nil, err
	}
	return Build(username, acts, opts)
}

// Build derives the profile and per-activity records from acts
func Build(username string, acts []activity.Activity, opts Options) (*Snapshot, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	opts = opts.withDefaults()
	link := opts.link

	summary := stats.Summarize(acts)
	engine := opts.Engine
	achievements := engine.Evaluate(acts)
	coins := currency.Totals(acts)
	info := ranks.RankInfo(summary.Hours)

	snap := &Snapshot{
		Profile: models.UserProfile{
			Username:      username,
			RankName:      info.Current.Name,
			RankEmoji:     info.Current.Emoji,
			TotalHours:    summary.Hours,
			Coins:         coins,
			Achievements:  achievements,
			Stats:         summary,
			MaxMetrics:    stats.Highlights(acts, link),
			ActivityCount: len(acts),
			UploadID:      opts.UploadID.String(),
			UpdatedAt:     opts.Now().UTC(),
		},
		Activities: make([]models.ActivityRecord, 0, len(acts)),
		RankInfo:   info,
	}
	for _, a := range acts {
		snap.Activities = append(snap.Activities, record(a, link))
	}

	sanitize(snap)
	return snap, nil
}

func record(a activity.Activity, link stats.LinkFunc) models.ActivityRecord {
	alloc := currency.ForActivity(a)
	return models.ActivityRecord{
		ActivityID:      a.ID,
		Name:            a.Name,
		Type:            a.Type,
		Date:            a.Timestamp,
		DistanceKm:      a.DistanceM / 1000,
		DurationHours:   a.MovingTimeS / 3600,
		DurationMinutes: int(math.Mod(a.MovingTimeS, 3600) / 60),
		ElevationGainM:  a.ElevationGainM,
		Calories:        a.Calories,
		Heartbeats:      alloc.Heartbeats,
		Coins:           alloc.Coins,
		Link:            link(a.ID),
	}
}

func (o Options) withDefaults() Options {
	if o.LinkBase == "" {
		o.LinkBase = DefaultLinkBase
	}
	if o.UploadID == uuid.Nil {
		o.UploadID = uuid.New()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Engine == nil {
		o.Engine = achievement.New(achievement.DefaultConfig)
	}
	return o
}

func (o Options) link(id string) string {
	return o.LinkBase + id
}
