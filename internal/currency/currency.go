// Package currency converts activity totals into the three virtual coins.
//
// Heartbeat figures are an approximation: max heart rate multiplied by
// moving minutes stands in for total heartbeats. It is not a measured
// quantity.
package currency

import (
	"math"

	"github.com/jengzang/activity-ranks/internal/activity"
	"github.com/jengzang/activity-ranks/internal/stats"
)

// Conversion ratios
const (
	EverestMeters = 8848.0
	PizzaKcal     = 1000.0
)

// Coins are the lifetime currency balances of a profile
type Coins struct {
	Everest   float64 `json:"everest"`
	Pizza     float64 `json:"pizza"`
	Heartbeat int     `json:"heartbeat"`
}

// Allocation is the currency earned by a single activity
type Allocation struct {
	Coins
	// Heartbeats approximates beats as max heart rate times moving minutes
	Heartbeats int `json:"heartbeats"`
}

// Totals converts the summed elevation, calories and max heart rate
func Totals(acts []activity.Activity) Coins {
	var elev, kcal, hr float64
	for i := range acts {
		elev += acts[i].ElevationGainM
		kcal += acts[i].Calories
		hr += acts[i].MaxHeartRate
	}
	return Coins{
		Everest:   stats.Round(elev/EverestMeters, 2),
		Pizza:     stats.Round(kcal/PizzaKcal, 2),
		Heartbeat: whole(hr),
	}
}

// ForActivity applies the same ratios to one activity
func ForActivity(a activity.Activity) Allocation {
	beats := whole(a.MaxHeartRate * (a.MovingTimeS / 60))
	return Allocation{
		Coins: Coins{
			Everest:   stats.Round(a.ElevationGainM/EverestMeters, 2),
			Pizza:     stats.Round(a.Calories/PizzaKcal, 2),
			Heartbeat: beats,
		},
		Heartbeats: beats,
	}
}

// whole truncates toward zero, mapping non-finite values to 0
func whole(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}
