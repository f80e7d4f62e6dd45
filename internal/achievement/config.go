package achievement

import (
	"encoding/json"
	"fmt"
	"os"
)

// Threshold is a badge earned by meeting or exceeding Value
type Threshold struct {
	Name  string  `json:"name"`
	Emoji string  `json:"emoji"`
	Value float64 `json:"value"`
}

// Occasion is a badge earned by an activity on one of Dates (MM-DD)
type Occasion struct {
	Name  string   `json:"name"`
	Emoji string   `json:"emoji"`
	Dates []string `json:"dates"`
}

// Config holds the badge tables the engine evaluates
type Config struct {
	// Distance thresholds in kilometers, per activity
	Distance []Threshold `json:"distance"`
	// Duration thresholds in minutes, per activity
	Duration []Threshold `json:"duration"`
	// Weekly thresholds in hours, per Monday-based week
	Weekly    []Threshold `json:"weekly"`
	Occasions []Occasion  `json:"occasions"`
}

// Names of the composite achievements
const (
	MarathonMaster      = "Marathon Master"
	HalfMarathonMaster  = "Half Marathon Master"
	ClimbingKing        = "Climbing King"
	Speedster           = "Speedster"
	ConsistencyChampion = "Consistency Champion"
	DailyKcalBurner     = "Daily kcal Burner"
)

// DefaultConfig is the stock badge table
var DefaultConfig = Config{
	Distance: []Threshold{
		{Name: "100 km", Emoji: "💯", Value: 100},
		{Name: "200 km", Emoji: "🔱", Value: 200},
		{Name: "300 km", Emoji: "⚜️", Value: 300},
	},
	Duration: []Threshold{
		{Name: "3 Hours", Emoji: "⌛", Value: 180},
		{Name: "6 Hours", Emoji: "⏱️", Value: 360},
		{Name: "12 Hours", Emoji: "🌇", Value: 720},
	},
	Weekly: []Threshold{
		{Name: "5 Hours Week", Emoji: "💰", Value: 5},
		{Name: "10 Hours Week", Emoji: "🧈", Value: 10},
		{Name: "20 Hours Week", Emoji: "💎", Value: 20},
	},
	Occasions: []Occasion{
		{Name: "New Year Run", Emoji: "🎉", Dates: []string{"01-01"}},
		{Name: "Christmas Run", Emoji: "🎄", Dates: []string{"12-25"}},
	},
}

// LoadConfig reads a badge table from a JSON file. Tables the file leaves
// out keep their defaults; an empty path yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig.clone()
	if path == "" {
		return cfg, nil
	}
	val, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var file Config
	if err := json.Unmarshal(val, &file); err != nil {
		return Config{}, fmt.Errorf("failed to decode badge table %s: %w", path, err)
	}
	if file.Distance != nil {
		cfg.Distance = file.Distance
	}
	if file.Duration != nil {
		cfg.Duration = file.Duration
	}
	if file.Weekly != nil {
		cfg.Weekly = file.Weekly
	}
	if file.Occasions != nil {
		cfg.Occasions = file.Occasions
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid badge table %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) clone() Config {
	out := Config{
		Distance:  append([]Threshold(nil), c.Distance...),
		Duration:  append([]Threshold(nil), c.Duration...),
		Weekly:    append([]Threshold(nil), c.Weekly...),
		Occasions: make([]Occasion, len(c.Occasions)),
	}
	for i, o := range c.Occasions {
		o.Dates = append([]string(nil), o.Dates...)
		out.Occasions[i] = o
	}
	return out
}

func (c Config) validate() error {
	for _, ts := range [][]Threshold{c.Distance, c.Duration, c.Weekly} {
		for _, t := range ts {
			if t.Name == "" || t.Value <= 0 {
				return fmt.Errorf("threshold %q needs a name and a positive value", t.Name)
			}
		}
	}
	for _, o := range c.Occasions {
		if o.Name == "" || len(o.Dates) == 0 {
			return fmt.Errorf("occasion %q needs a name and dates", o.Name)
		}
		for _, d := range o.Dates {
			var m, day int
			if n, err := fmt.Sscanf(d, "%02d-%02d", &m, &day); err != nil || n != 2 || len(d) != 5 || m < 1 || m > 12 || day < 1 || day > 31 {
				return fmt.Errorf("occasion %q has invalid date %q, expected MM-DD", o.Name, d)
			}
		}
	}
	return nil
}
