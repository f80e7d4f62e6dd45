package achievement

// Category keys of a Result, in display order
const (
	LongestStreak          = "longestStreak"
	DistanceBadges         = "distanceBadges"
	DurationBadges         = "durationBadges"
	WeeklyBadges           = "weeklyBadges"
	SpecialOccasions       = "specialOccasions"
	AdditionalAchievements = "additionalAchievements"
)

// Categories lists every category key in display order
var Categories = []string{
	LongestStreak,
	DistanceBadges,
	DurationBadges,
	WeeklyBadges,
	SpecialOccasions,
	AdditionalAchievements,
}

// Badge is one achievement and how many times it was earned
type Badge struct {
	Name        string   `json:"name"`
	Emoji       string   `json:"emoji"`
	Description string   `json:"description,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
	Dates       []string `json:"dates,omitempty"`
	Count       int      `json:"count"`
}

// Result maps a category key to its badges
type Result map[string][]Badge

// Count returns the count of the first badge with the given name, or 0
func (r Result) Count(name string) int {
	for _, key := range Categories {
		for _, b := range r[key] {
			if b.Name == name {
				return b.Count
			}
		}
	}
	return 0
}

// Total sums every badge count
func (r Result) Total() int {
	var n int
	for _, badges := range r {
		for _, b := range badges {
			n += b.Count
		}
	}
	return n
}

func threshold(v float64) *float64 {
	return &v
}
