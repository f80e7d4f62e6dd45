package achievement

import (
	"sort"
	"time"

	"github.com/jengzang/activity-ranks/internal/activity"
)

type month struct {
	year  int
	month time.Month
}

// dated returns the calendar day of every activity with a timestamp
func dated(acts []activity.Activity) []time.Time {
	days := make([]time.Time, 0, len(acts))
	for i := range acts {
		if d, ok := acts[i].Date(); ok {
			days = append(days, d)
		}
	}
	return days
}

// distinctDays returns the sorted set of active days
func distinctDays(acts []activity.Activity) []time.Time {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, d := range dated(acts) {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// weekStart returns the Monday of the week containing day
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// daysIn returns the number of days in the given month
func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthDay(day time.Time) string {
	return day.Format("01-02")
}

func consecutive(prev, next time.Time) bool {
	return prev.AddDate(0, 0, 1).Equal(next)
}
