package achievement

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jengzang/activity-ranks/internal/activity"
)

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "badges.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write badge table: %v", err)
	}
	return path
}

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	cfg.Occasions[0].Dates[0] = "02-02"
	if DefaultConfig.Occasions[0].Dates[0] != "01-01" {
		t.Fatal("LoadConfig must not share the default tables")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeTable(t, `{
		"occasions": [{"name": "Leap Day Run", "emoji": "🐸", "dates": ["02-29"]}],
		"weekly": []
	}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig.Distance, cfg.Distance); diff != "" {
		t.Fatalf("omitted table must keep defaults (-want +got):\n%s", diff)
	}
	if len(cfg.Weekly) != 0 {
		t.Fatalf("explicit empty table must disable it, got %v", cfg.Weekly)
	}

	leap := time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)
	res := New(cfg).Evaluate([]activity.Activity{{ID: "1", Type: "Run", Timestamp: &leap}})
	want := []Badge{{Name: "Leap Day Run", Emoji: "🐸", Dates: []string{"02-29"}, Count: 1}}
	if diff := cmp.Diff(want, res[SpecialOccasions]); diff != "" {
		t.Fatalf("occasions mismatch (-want +got):\n%s", diff)
	}
	if len(res[WeeklyBadges]) != 0 {
		t.Fatalf("expected no weekly badges, got %v", res[WeeklyBadges])
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"missing file":  "",
		"bad json":      `{"distance": 5}`,
		"no value":      `{"distance": [{"name": "x"}]}`,
		"bad date":      `{"occasions": [{"name": "x", "dates": ["Dec 25"]}]}`,
		"month too big": `{"occasions": [{"name": "x", "dates": ["13-01"]}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.json")
			if body != "" {
				path = writeTable(t, body)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
