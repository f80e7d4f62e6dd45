package ranks

import (
	"fmt"
	"math"
)

// Level is one rung of the rank ladder. Points are cumulative hours.
type Level struct {
	Name      string  `json:"name"`
	Emoji     string  `json:"emoji"`
	MinPoints float64 `json:"minPoints"`
}

// Info bundles everything a view needs to render rank progress
type Info struct {
	Current           Level   `json:"current_rank"`
	Next              Level   `json:"next_rank"`
	ProgressPercent   float64 `json:"progress_percent"`
	CurrentPoints     float64 `json:"current_points"`
	NextRankMinPoints float64 `json:"next_rank_minPoints"`
}

const (
	prestigeBase      = 3150
	prestigeIncrement = 75
	prestigeLast      = 100
)

var named = []Level{
	{Name: "Bronze 3", Emoji: "🥉", MinPoints: 0},
	{Name: "Bronze 2", Emoji: "🥉", MinPoints: 150},
	{Name: "Bronze 1", Emoji: "🥉", MinPoints: 300},
	{Name: "Silver 3", Emoji: "🥈", MinPoints: 450},
	{Name: "Silver 2", Emoji: "🥈", MinPoints: 600},
	{Name: "Silver 1", Emoji: "🥈", MinPoints: 750},
	{Name: "Gold 3", Emoji: "🥇", MinPoints: 900},
	{Name: "Gold 2", Emoji: "🥇", MinPoints: 1050},
	{Name: "Gold 1", Emoji: "🥇", MinPoints: 1200},
	{Name: "Platinum 3", Emoji: "🏆", MinPoints: 1350},
	{Name: "Platinum 2", Emoji: "🏆", MinPoints: 1500},
	{Name: "Platinum 1", Emoji: "🏆", MinPoints: 1650},
	{Name: "Diamond 3", Emoji: "💎", MinPoints: 1800},
	{Name: "Diamond 2", Emoji: "💎", MinPoints: 1950},
	{Name: "Diamond 1", Emoji: "💎", MinPoints: 2100},
	{Name: "Master 3", Emoji: "🔥", MinPoints: 2250},
	{Name: "Master 2", Emoji: "🔥", MinPoints: 2400},
	{Name: "Master 1", Emoji: "🔥", MinPoints: 2550},
	{Name: "Grandmaster 3", Emoji: "🚀", MinPoints: 2700},
	{Name: "Grandmaster 2", Emoji: "🚀", MinPoints: 2850},
	{Name: "Grandmaster 1", Emoji: "🚀", MinPoints: 3000},
	{Name: "Challenger", Emoji: "🌟", MinPoints: prestigeBase},
}

var (
	ladder []Level
	index  map[string]int
)

func init() {
	ladder = make([]Level, 0, len(named)+prestigeLast-1)
	ladder = append(ladder, named...)
	for i := 2; i <= prestigeLast; i++ {
		ladder = append(ladder, Level{
			Name:      fmt.Sprintf("Master Prestige %d", i),
			Emoji:     "⭐",
			MinPoints: float64(prestigeBase + (i-1)*prestigeIncrement),
		})
	}
	index = make(map[string]int, len(ladder))
	for i, l := range ladder {
		index[l.Name] = i
	}
}

// Ladder returns a copy of the ordered rank ladder
func Ladder() []Level {
	out := make([]Level, len(ladder))
	copy(out, ladder)
	return out
}

// Index returns the position of the named tier in the ladder
func Index(name string) (int, bool) {
	i, ok := index[name]
	return i, ok
}

// RankOf returns the current level for totalHours, the level after it and
// the percentage of the way between them. At the top of the ladder next is
// the current level and progress is 100.
func RankOf(totalHours float64) (current, next Level, progressPercent float64) {
	if math.IsNaN(totalHours) {
		totalHours = 0
	}
	pos := 0
	for i, l := range ladder {
		if totalHours < l.MinPoints {
			break
		}
		pos = i
	}
	current = ladder[pos]
	next = current
	if pos+1 < len(ladder) {
		next = ladder[pos+1]
	}

	band := next.MinPoints - current.MinPoints
	if band <= 0 {
		return current, next, 100
	}
	progressPercent = 100 * (totalHours - current.MinPoints) / band
	progressPercent = math.Max(0, math.Min(100, progressPercent))
	return current, next, progressPercent
}

// RankInfo is RankOf rounded for display
func RankInfo(totalHours float64) Info {
	current, next, progress := RankOf(totalHours)
	return Info{
		Current:           current,
		Next:              next,
		ProgressPercent:   round1(progress),
		CurrentPoints:     round1(totalHours),
		NextRankMinPoints: next.MinPoints,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
