package achievement

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jengzang/activity-ranks/internal/activity"
)

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
	return &t
}

func counts(badges []Badge) []int {
	out := make([]int, len(badges))
	for i, b := range badges {
		out[i] = b.Count
	}
	return out
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		acts []activity.Activity
		want int
	}{
		{"empty", nil, 0},
		{"undated only", []activity.Activity{{ID: "x"}}, 0},
		{"single", []activity.Activity{{Timestamp: at(2024, 1, 1)}}, 1},
		{
			"gap",
			[]activity.Activity{
				{Timestamp: at(2024, 1, 5)},
				{Timestamp: at(2024, 1, 1)},
				{Timestamp: at(2024, 1, 2)},
				{Timestamp: at(2024, 1, 3)},
			},
			3,
		},
		{
			"same day twice and month boundary",
			[]activity.Activity{
				{Timestamp: at(2024, 1, 31)},
				{Timestamp: at(2024, 1, 31)},
				{Timestamp: at(2024, 2, 1)},
				{},
				{Timestamp: at(2024, 2, 2)},
			},
			3,
		},
		{
			"leap day",
			[]activity.Activity{
				{Timestamp: at(2024, 2, 28)},
				{Timestamp: at(2024, 2, 29)},
				{Timestamp: at(2024, 3, 1)},
			},
			3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.acts)
			if got := res[LongestStreak][0].Count; got != tt.want {
				t.Fatalf("longest streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDistanceAndDurationBadges(t *testing.T) {
	acts := []activity.Activity{
		{DistanceM: 150000, MovingTimeS: 3 * 3600},
		{DistanceM: 300000, MovingTimeS: 12 * 3600},
		{DistanceM: 99999.9, MovingTimeS: 179 * 60},
	}
	res := Evaluate(acts)
	if diff := cmp.Diff([]int{2, 1, 1}, counts(res[DistanceBadges])); diff != "" {
		t.Fatalf("distance counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 1, 1}, counts(res[DurationBadges])); diff != "" {
		t.Fatalf("duration counts (-want +got):\n%s", diff)
	}
	if th := res[DistanceBadges][0].Threshold; th == nil || *th != 100 {
		t.Fatalf("unexpected threshold: %v", th)
	}
}

func TestSingleDistanceBadge(t *testing.T) {
	res := Evaluate([]activity.Activity{{DistanceM: 150000}})
	if diff := cmp.Diff([]int{1, 0, 0}, counts(res[DistanceBadges])); diff != "" {
		t.Fatalf("distance counts (-want +got):\n%s", diff)
	}
}

func TestWeeklyBadges(t *testing.T) {
	// 2024-01-01 is a Monday
	acts := []activity.Activity{
		{Timestamp: at(2024, 1, 1), MovingTimeS: 3 * 3600},
		{Timestamp: at(2024, 1, 7), MovingTimeS: 3 * 3600},
		{Timestamp: at(2024, 1, 8), MovingTimeS: 4 * 3600},
		{MovingTimeS: 100 * 3600},
	}
	res := Evaluate(acts)
	if diff := cmp.Diff([]int{1, 0, 0}, counts(res[WeeklyBadges])); diff != "" {
		t.Fatalf("weekly counts (-want +got):\n%s", diff)
	}
}

func TestWeekStartsOnMonday(t *testing.T) {
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if got := weekStart(sunday); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("weekStart(sunday) = %v", got)
	}
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if got := weekStart(monday); !got.Equal(monday) {
		t.Fatalf("weekStart(monday) = %v", got)
	}
}

func TestSpecialOccasions(t *testing.T) {
	acts := []activity.Activity{
		{Timestamp: at(2023, 1, 1)},
		{Timestamp: at(2024, 1, 1)},
		{Timestamp: at(2024, 12, 25)},
		{Timestamp: at(2024, 12, 26)},
		{},
	}
	res := Evaluate(acts)
	if diff := cmp.Diff([]int{2, 1}, counts(res[SpecialOccasions])); diff != "" {
		t.Fatalf("occasion counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"12-25"}, res[SpecialOccasions][1].Dates); diff != "" {
		t.Fatalf("occasion dates (-want +got):\n%s", diff)
	}
}

func TestMarathonExclusivity(t *testing.T) {
	speed := 9.0
	slow := 8.0
	acts := []activity.Activity{
		{Type: "Run", DistanceM: 42195},
		{Type: "Trail Run", DistanceM: 21097.5},
		{Type: "virtualrun", DistanceM: 42194.9},
		{Type: "Ride", DistanceM: 100000, MaxSpeedMPS: &speed},
		{Type: "Ride", DistanceM: 1000, MaxSpeedMPS: &slow},
	}
	res := Evaluate(acts)
	if got := res.Count(MarathonMaster); got != 1 {
		t.Fatalf("marathons = %d, want 1", got)
	}
	if got := res.Count(HalfMarathonMaster); got != 2 {
		t.Fatalf("half marathons = %d, want 2", got)
	}
	if got := res.Count(Speedster); got != 1 {
		t.Fatalf("speedster = %d, want 1", got)
	}
}

func TestAggregateAchievements(t *testing.T) {
	acts := []activity.Activity{
		{ElevationGainM: 1500, Calories: 1999},
		{ElevationGainM: 600, Calories: 2002},
	}
	res := Evaluate(acts)
	if got := res.Count(ClimbingKing); got != 2 {
		t.Fatalf("climbing king = %d, want 2", got)
	}
	if got := res.Count(DailyKcalBurner); got != 2 {
		t.Fatalf("kcal burner = %d, want 2", got)
	}
	if got := res.Count(Speedster); got != 0 {
		t.Fatalf("speedster without max speed = %d, want 0", got)
	}
}

func TestConsistencyChampion(t *testing.T) {
	var acts []activity.Activity
	for d := 1; d <= 29; d++ {
		acts = append(acts, activity.Activity{Timestamp: at(2024, 2, d)})
	}
	for d := 1; d <= 30; d++ {
		acts = append(acts, activity.Activity{Timestamp: at(2023, 3, d)})
	}
	for d := 1; d <= 28; d++ {
		acts = append(acts, activity.Activity{Timestamp: at(2023, 2, d)})
	}
	res := Evaluate(acts)
	if got := res.Count(ConsistencyChampion); got != 2 {
		t.Fatalf("consistency champion = %d, want 2", got)
	}
	if got := res[LongestStreak][0].Count; got != 58 {
		t.Fatalf("longest streak = %d, want 58", got)
	}
}

func TestEmptyResultIsAllZero(t *testing.T) {
	res := Evaluate(nil)
	if len(res) != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), len(res))
	}
	if res.Total() != 0 {
		t.Fatalf("expected zero counts, got %d", res.Total())
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	acts := []activity.Activity{
		{Type: "Run", Timestamp: at(2024, 1, 1), DistanceM: 42195, MovingTimeS: 4 * 3600, ElevationGainM: 300, Calories: 2500},
		{Type: "Ride", Timestamp: at(2024, 1, 2), DistanceM: 120000, MovingTimeS: 5 * 3600, ElevationGainM: 900, Calories: 3000},
	}
	a, err := json.Marshal(Evaluate(acts))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(Evaluate(acts))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("evaluation not deterministic:\n%s\n%s", a, b)
	}
}

func TestMonotonicThresholdCounts(t *testing.T) {
	base := []activity.Activity{
		{Type: "Run", Timestamp: at(2024, 1, 1), DistanceM: 150000, MovingTimeS: 4 * 3600, ElevationGainM: 999, Calories: 1999},
	}
	before := Evaluate(base)
	after := Evaluate(append(base, activity.Activity{Type: "Run", DistanceM: 50000, MovingTimeS: 200 * 60, ElevationGainM: 1, Calories: 1}))
	for _, key := range []string{DistanceBadges, DurationBadges, AdditionalAchievements} {
		for i := range before[key] {
			if after[key][i].Count < before[key][i].Count {
				t.Fatalf("%s/%s decreased", key, before[key][i].Name)
			}
		}
	}
	if after.Count(ClimbingKing) != 1 || after.Count(DailyKcalBurner) != 1 {
		t.Fatalf("expected aggregate badges to tick over, got %d/%d", after.Count(ClimbingKing), after.Count(DailyKcalBurner))
	}
}
