package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/activity"
	"github.com/jengzang/activity-ranks/internal/database"
	"github.com/jengzang/activity-ranks/internal/models"
	"github.com/jengzang/activity-ranks/internal/profile"
	"github.com/jengzang/activity-ranks/internal/repository"
)

const header = "Activity ID,Activity Date,Activity Name,Activity Type,Activity Description,Elapsed Time,Distance,Max Heart Rate,Moving Time,Distance,Elevation Gain,Calories\n"

const aliceExport = header +
	`1,"Jan 1, 2024, 8:00:00 AM",Long run,Run,,15000,42.2,175,14400,42200,1200,3100
2,"Jan 3, 2024, 6:00:00 PM",Spin,Ride,,3700,30,150,3600,30000,5,700
`

const bobExport = header +
	`7,"Feb 1, 2024, 7:00:00 AM",Jog,Run,,1900,5,140,1800,5000,20,300
`

func newService(t *testing.T) *ProfileService {
	t.Helper()
	conn, err := database.Open(context.Background(), database.Config{Path: filepath.Join(t.TempDir(), "svc.db")})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewProfileService(repository.NewProfileRepository(conn), profile.Options{LinkBase: "https://example.test/a/"})
}

func upload(t *testing.T, s *ProfileService, username, export string) {
	t.Helper()
	if _, err := s.Upload(context.Background(), username, strings.NewReader(export)); err != nil {
		t.Fatalf("Upload(%s) error: %v", username, err)
	}
}

func TestUploadAndDashboard(t *testing.T) {
	s := newService(t)
	snap, err := s.Upload(context.Background(), "alice", strings.NewReader(aliceExport))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if snap.Profile.TotalHours != 5 || snap.Profile.ActivityCount != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap.Profile)
	}

	dash, err := s.Dashboard(context.Background(), "alice", models.ActivityFilter{})
	if err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if dash.Profile.Username != "alice" || dash.RankInfo.Current.Name != "Bronze 3" {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
	if dash.Activities.Page != 1 || dash.Activities.PageSize != defaultPageSize || dash.Activities.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", dash.Activities)
	}
	if len(dash.Activities.Data) != 2 || dash.Activities.Data[0].ActivityID != "2" {
		t.Fatalf("expected newest activity first: %+v", dash.Activities.Data)
	}
	if dash.Activities.Data[0].Link != "https://example.test/a/2" {
		t.Fatalf("unexpected link: %s", dash.Activities.Data[0].Link)
	}
	if len(dash.Ranks) != 121 {
		t.Fatalf("expected full ladder, got %d levels", len(dash.Ranks))
	}
}

func TestDashboardPageClamp(t *testing.T) {
	s := newService(t)
	upload(t, s, "alice", aliceExport)

	dash, err := s.Dashboard(context.Background(), "alice", models.ActivityFilter{Page: 2, PageSize: 5000})
	if err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if dash.Activities.PageSize != maxPageSize || len(dash.Activities.Data) != 0 || dash.Activities.Total != 2 {
		t.Fatalf("unexpected page: %+v", dash.Activities)
	}
}

func TestDashboardNotFound(t *testing.T) {
	s := newService(t)
	_, err := s.Dashboard(context.Background(), "ghost", models.ActivityFilter{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadMissingColumn(t *testing.T) {
	s := newService(t)
	_, err := s.Upload(context.Background(), "alice", strings.NewReader("Activity ID,Activity Date\n1,2024-01-01\n"))
	var verr *activity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Column != activity.ColName {
		t.Fatalf("unexpected column: %s", verr.Column)
	}
	if _, err := s.Profile(context.Background(), "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed upload must not store a profile, got %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	s := newService(t)
	upload(t, s, "bob", bobExport)
	upload(t, s, "alice", aliceExport)

	board, err := s.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard error: %v", err)
	}
	if board.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", board.TotalUsers)
	}
	got := board.Leaderboard[0]
	want := models.LeaderboardEntry{
		Rank:           1,
		Username:       "alice",
		TotalHours:     5,
		RankName:       "Bronze 3",
		RankEmoji:      "🥉",
		CoinsEverest:   0.14,
		CoinsPizza:     3.8,
		CoinsHeartbeat: 325,
		Percentile:     100,
		BadgesCounts: map[string]int{
			achievement.MarathonMaster:      1,
			achievement.ClimbingKing:        1,
			achievement.Speedster:           0,
			achievement.ConsistencyChampion: 0,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
	if second := board.Leaderboard[1]; second.Rank != 2 || second.Username != "bob" || second.Percentile != 50 {
		t.Fatalf("unexpected second entry: %+v", second)
	}
}

func TestLeaderboardOrdersByTier(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{Username: "a", RankName: "Bronze 3", TotalHours: 10},
		{Username: "b", RankName: "Silver 3", TotalHours: 460},
		{Username: "c", RankName: "Bronze 3", TotalHours: 120},
	}
	if tier(entries[1]) <= tier(entries[0]) {
		t.Fatalf("Silver 3 must outrank Bronze 3")
	}
	if tier(models.LeaderboardEntry{RankName: "Retired tier", TotalHours: 460}) != tier(entries[1]) {
		t.Fatal("unknown rank names should fall back to the earned tier")
	}
}

func TestLeaderboardHighestTierFirst(t *testing.T) {
	s := newService(t)
	upload(t, s, "bob", bobExport)
	upload(t, s, "silvia", header+`9,"Mar 1, 2024, 7:00:00 AM",Ultra block,Ride,,1620000,900,150,1620000,900000,100,1000
`)
	upload(t, s, "alice", aliceExport)

	board, err := s.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard error: %v", err)
	}
	var got []string
	for _, e := range board.Leaderboard {
		got = append(got, fmt.Sprintf("%d %s %s", e.Rank, e.Username, e.RankName))
	}
	want := []string{"1 silvia Silver 3", "2 alice Bronze 3", "3 bob Bronze 3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestUploadUsesConfiguredBadges(t *testing.T) {
	conn, err := database.Open(context.Background(), database.Config{Path: filepath.Join(t.TempDir(), "svc.db")})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	cfg := achievement.DefaultConfig
	cfg.Occasions = []achievement.Occasion{{Name: "Third of January", Emoji: "3️⃣", Dates: []string{"01-03"}}}
	s := NewProfileService(repository.NewProfileRepository(conn), profile.Options{Engine: achievement.New(cfg)})

	snap, err := s.Upload(context.Background(), "alice", strings.NewReader(aliceExport))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if n := snap.Profile.Achievements.Count("Third of January"); n != 1 {
		t.Fatalf("expected configured occasion once, got %d", n)
	}
	if n := snap.Profile.Achievements.Count("Christmas Run"); n != 0 {
		t.Fatalf("default occasions must be replaced, got %d", n)
	}
}
