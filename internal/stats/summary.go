package stats

import (
	"github.com/jengzang/activity-ranks/internal/activity"
)

// PlaceholderLink is used for highlights when there are no activities
const PlaceholderLink = "#"

// Summary holds the lifetime totals of an export, each rounded to 1 decimal
type Summary struct {
	Hours      float64 `json:"hours"`
	DistanceKm float64 `json:"distance"`
	ElevationM float64 `json:"elevation"`
	Calories   float64 `json:"calories"`
}

// Highlight is the single best activity for one metric
type Highlight struct {
	Value float64 `json:"value"`
	Link  string  `json:"link"`
}

// MaxMetrics are the best activities by elevation, duration (hours) and
// distance (km)
type MaxMetrics struct {
	Elevation Highlight `json:"max_elevation"`
	Duration  Highlight `json:"max_duration"`
	Distance  Highlight `json:"max_distance"`
}

// LinkFunc turns an activity id into a reference link
type LinkFunc func(id string) string

// Column extracts one numeric field from every activity
func Column(acts []activity.Activity, f func(*activity.Activity) float64) []float64 {
	out := make([]float64, len(acts))
	for i := range acts {
		out[i] = f(&acts[i])
	}
	return out
}

func movingTime(a *activity.Activity) float64 { return a.MovingTimeS }
func distance(a *activity.Activity) float64   { return a.DistanceM }
func elevation(a *activity.Activity) float64  { return a.ElevationGainM }
func calories(a *activity.Activity) float64   { return a.Calories }

// Summarize totals hours, kilometers, elevation and calories
func Summarize(acts []activity.Activity) Summary {
	return Summary{
		Hours:      Round(Sum(Column(acts, movingTime))/3600, 1),
		DistanceKm: Round(Sum(Column(acts, distance))/1000, 1),
		ElevationM: Round(Sum(Column(acts, elevation)), 1),
		Calories:   Round(Sum(Column(acts, calories)), 1),
	}
}

// Highlights finds the best activity per metric. Elevation is reported as
// is; duration and distance are rounded to 2 decimals.
func Highlights(acts []activity.Activity, link LinkFunc) MaxMetrics {
	if len(acts) == 0 {
		empty := Highlight{Value: 0, Link: PlaceholderLink}
		return MaxMetrics{Elevation: empty, Duration: empty, Distance: empty}
	}

	pick := func(f func(*activity.Activity) float64, scale float64, places int) Highlight {
		i := ArgMax(Column(acts, f))
		v := f(&acts[i]) / scale
		if places >= 0 {
			v = Round(v, places)
		}
		return Highlight{Value: v, Link: link(acts[i].ID)}
	}

	return MaxMetrics{
		Elevation: pick(elevation, 1, -1),
		Duration:  pick(movingTime, 3600, 2),
		Distance:  pick(distance, 1000, 2),
	}
}
