package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/activity"
	"github.com/jengzang/activity-ranks/internal/models"
	"github.com/jengzang/activity-ranks/internal/profile"
	"github.com/jengzang/activity-ranks/internal/ranks"
	"github.com/jengzang/activity-ranks/internal/repository"
	"github.com/jengzang/activity-ranks/internal/stats"
)

const (
	defaultPageSize = 200
	maxPageSize     = 1000
)

var (
	// ErrNotFound is returned when no profile exists for a username
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidFile is returned when an upload cannot be read as CSV
	ErrInvalidFile = errors.New("invalid CSV file")
)

// KeyAchievements are the badges counted on the leaderboard
var KeyAchievements = []string{
	achievement.MarathonMaster,
	achievement.ClimbingKing,
	achievement.Speedster,
	achievement.ConsistencyChampion,
}

// ProfileService handles uploads, dashboards and the leaderboard
type ProfileService struct {
	repo *repository.ProfileRepository
	opts profile.Options
}

// NewProfileService creates a new profile service. opts sets the link base
// and badge engine for every upload; each upload gets its own id.
func NewProfileService(repo *repository.ProfileRepository, opts profile.Options) *ProfileService {
	return &ProfileService{
		repo: repo,
		opts: opts,
	}
}

// Upload reads an activity export, rebuilds the user's profile from it and
// replaces whatever was stored for the user
func (s *ProfileService) Upload(ctx context.Context, username string, r io.Reader) (*profile.Snapshot, error) {
	table, err := activity.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	opts := s.opts
	opts.UploadID = uuid.New()
	snap, err := profile.FromTable(username, table, opts)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	log.Info().
		Str("username", snap.Profile.Username).
		Str("upload_id", snap.Profile.UploadID).
		Int("activities", snap.Profile.ActivityCount).
		Float64("hours", snap.Profile.TotalHours).
		Str("rank", snap.Profile.RankName).
		Msg("profile uploaded")

	return snap, nil
}

// Profile retrieves a stored profile
func (s *ProfileService) Profile(ctx context.Context, username string) (*models.UserProfile, error) {
	p, err := s.repo.GetProfile(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", username, ErrNotFound)
	}
	return p, nil
}

// Dashboard retrieves a profile with its rank progress and one page of
// activity records
func (s *ProfileService) Dashboard(ctx context.Context, username string, filter models.ActivityFilter) (*models.Dashboard, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	p, err := s.Profile(ctx, username)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.ListActivities(ctx, username, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	return &models.Dashboard{
		Profile:  p,
		RankInfo: ranks.RankInfo(p.TotalHours),
		Activities: &models.ActivitiesResponse{
			Data:       records,
			Total:      total,
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
		},
		Ranks: ranks.Ladder(),
	}, nil
}

// Leaderboard ranks every stored profile, highest tier first and then by
// hours
func (s *ProfileService) Leaderboard(ctx context.Context) (*models.LeaderboardResponse, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	hours := make([]float64, len(profiles))
	for i, p := range profiles {
		hours[i] = p.TotalHours
	}

	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		counts := make(map[string]int, len(KeyAchievements))
		for _, name := range KeyAchievements {
			counts[name] = p.Achievements.Count(name)
		}
		entries = append(entries, models.LeaderboardEntry{
			Username:       p.Username,
			TotalHours:     p.TotalHours,
			RankName:       p.RankName,
			RankEmoji:      p.RankEmoji,
			CoinsEverest:   p.Coins.Everest,
			CoinsPizza:     p.Coins.Pizza,
			CoinsHeartbeat: p.Coins.Heartbeat,
			Percentile:     stats.Round(stats.PercentileRank(hours, p.TotalHours), 1),
			BadgesCounts:   counts,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := tier(entries[i]), tier(entries[j])
		if a != b {
			return a > b
		}
		return entries[i].TotalHours > entries[j].TotalHours
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &models.LeaderboardResponse{
		Leaderboard: entries,
		TotalUsers:  len(entries),
	}, nil
}

// tier is the ladder position of an entry's stored rank. Names the ladder
// no longer knows fall back to the rank the hours earn.
func tier(e models.LeaderboardEntry) int {
	if i, ok := ranks.Index(e.RankName); ok {
		return i
	}
	current, _, _ := ranks.RankOf(e.TotalHours)
	i, _ := ranks.Index(current.Name)
	return i
}

// MigrateAchievements rewrites legacy achievements in structured form
func (s *ProfileService) MigrateAchievements(ctx context.Context) (int, error) {
	n, err := s.repo.MigrateAchievements(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to migrate achievements: %w", err)
	}
	log.Info().Int("rewritten", n).Msg("achievements migrated")
	return n, nil
}
