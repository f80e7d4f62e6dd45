package achievement

import (
	"math"
	"strings"

	"github.com/jengzang/activity-ranks/internal/activity"
)

const (
	marathonMeters     = 42195.0
	halfMarathonMeters = 21097.5
	everestClimbMeters = 1000.0
	speedsterKmh       = 30.0
	dailyKcal          = 2000.0
)

// Engine evaluates every badge category over an activity collection
type Engine struct {
	cfg Config
}

// New creates an engine for the given badge table
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

var defaultEngine = New(DefaultConfig)

// Evaluate runs the default engine
func Evaluate(acts []activity.Activity) Result {
	return defaultEngine.Evaluate(acts)
}

// Evaluate recomputes every badge count from scratch
func (e *Engine) Evaluate(acts []activity.Activity) Result {
	return Result{
		LongestStreak:          []Badge{{Name: "Longest Streak", Emoji: "🔥", Count: longestStreak(acts)}},
		DistanceBadges:         e.distance(acts),
		DurationBadges:         e.duration(acts),
		WeeklyBadges:           e.weekly(acts),
		SpecialOccasions:       e.occasions(acts),
		AdditionalAchievements: additional(acts),
	}
}

// longestStreak is the longest run of consecutive active days
func longestStreak(acts []activity.Activity) int {
	days := distinctDays(acts)
	if len(days) == 0 {
		return 0
	}
	best, current := 1, 1
	for i := 1; i < len(days); i++ {
		if consecutive(days[i-1], days[i]) {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 1
		}
	}
	return best
}

func (e *Engine) distance(acts []activity.Activity) []Badge {
	return perActivity(e.cfg.Distance, acts, func(a *activity.Activity, t float64) bool {
		return a.DistanceM >= t*1000
	})
}

func (e *Engine) duration(acts []activity.Activity) []Badge {
	return perActivity(e.cfg.Duration, acts, func(a *activity.Activity, t float64) bool {
		return a.MovingTimeS/60 >= t
	})
}

// perActivity counts, for each threshold, the activities meeting it
func perActivity(ts []Threshold, acts []activity.Activity, meets func(*activity.Activity, float64) bool) []Badge {
	badges := make([]Badge, 0, len(ts))
	for _, t := range ts {
		var n int
		for i := range acts {
			if meets(&acts[i], t.Value) {
				n++
			}
		}
		badges = append(badges, Badge{Name: t.Name, Emoji: t.Emoji, Threshold: threshold(t.Value), Count: n})
	}
	return badges
}

// weekly counts the distinct weeks whose moving time reaches each threshold
func (e *Engine) weekly(acts []activity.Activity) []Badge {
	// group moving time into weeks starting on Monday
	seconds := make(map[int64]float64)
	for i := range acts {
		day, ok := acts[i].Date()
		if !ok {
			continue
		}
		seconds[weekStart(day).Unix()] += acts[i].MovingTimeS
	}

	badges := make([]Badge, 0, len(e.cfg.Weekly))
	for _, t := range e.cfg.Weekly {
		var n int
		for _, s := range seconds {
			if s/3600 >= t.Value {
				n++
			}
		}
		badges = append(badges, Badge{Name: t.Name, Emoji: t.Emoji, Threshold: threshold(t.Value), Count: n})
	}
	return badges
}

func (e *Engine) occasions(acts []activity.Activity) []Badge {
	keys := make([]string, 0, len(acts))
	for _, day := range dated(acts) {
		keys = append(keys, monthDay(day))
	}

	badges := make([]Badge, 0, len(e.cfg.Occasions))
	for _, o := range e.cfg.Occasions {
		var n int
		for _, k := range keys {
			for _, d := range o.Dates {
				if k == d {
					n++
					break
				}
			}
		}
		dates := make([]string, len(o.Dates))
		copy(dates, o.Dates)
		badges = append(badges, Badge{Name: o.Name, Emoji: o.Emoji, Dates: dates, Count: n})
	}
	return badges
}

func additional(acts []activity.Activity) []Badge {
	var marathons, halves, fast int
	var climb, kcal float64
	for i := range acts {
		a := &acts[i]
		if isRun(a.Type) {
			switch {
			case a.DistanceM >= marathonMeters:
				marathons++
			case a.DistanceM >= halfMarathonMeters:
				halves++
			}
		}
		if a.MaxSpeedMPS != nil && *a.MaxSpeedMPS*3.6 > speedsterKmh {
			fast++
		}
		climb += a.ElevationGainM
		kcal += a.Calories
	}

	return []Badge{
		{Name: MarathonMaster, Emoji: "4️⃣2️⃣🏃", Description: "Completed a marathon (42.195 km)", Count: marathons},
		{Name: HalfMarathonMaster, Emoji: "2️⃣1️⃣🏃", Description: "Completed a half marathon (21.0975 km)", Count: halves},
		{Name: ClimbingKing, Emoji: "🧗‍♂️", Description: "Total elevation gain over 1000m", Count: floorCount(climb / everestClimbMeters)},
		{Name: Speedster, Emoji: "🏎️", Description: "Achieved an average speed over 30 km/h", Count: fast},
		{Name: ConsistencyChampion, Emoji: "🔁", Description: "Logged activities every day for a month", Count: fullMonths(acts)},
		{Name: DailyKcalBurner, Emoji: "🔥", Description: "Burned over 2000 kcal", Count: floorCount(kcal / dailyKcal)},
	}
}

func isRun(kind string) bool {
	return strings.Contains(strings.ToLower(kind), "run")
}

// fullMonths counts calendar months with an activity on every day
func fullMonths(acts []activity.Activity) int {
	active := make(map[month]map[int]struct{})
	for _, day := range dated(acts) {
		key := month{year: day.Year(), month: day.Month()}
		if active[key] == nil {
			active[key] = make(map[int]struct{})
		}
		active[key][day.Day()] = struct{}{}
	}

	var n int
	for m, days := range active {
		if len(days) == daysIn(m.year, m.month) {
			n++
		}
	}
	return n
}

// floorCount converts a non-negative ratio into a whole count
func floorCount(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Floor(v))
}
