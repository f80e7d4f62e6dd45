package activity

import "time"

// Activity is one normalized row of an export. Numeric fields are never
// absent: cells that could not be read are 0. Timestamp is nil when the
// date cell could not be parsed.
type Activity struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Description    string     `json:"description,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	DistanceM      float64    `json:"distance_m"`
	MovingTimeS    float64    `json:"moving_time_s"`
	ElevationGainM float64    `json:"elevation_gain_m"`
	Calories       float64    `json:"calories"`
	MaxHeartRate   float64    `json:"max_heart_rate"`
	MaxSpeedMPS    *float64   `json:"max_speed_mps,omitempty"`
}

// Date returns the calendar day of the activity at midnight UTC
func (a *Activity) Date() (time.Time, bool) {
	if a.Timestamp == nil {
		return time.Time{}, false
	}
	y, m, d := a.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
