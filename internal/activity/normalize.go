package activity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical column names of an activity export
const (
	ColID          = "Activity ID"
	ColDate        = "Activity Date"
	ColName        = "Activity Name"
	ColType        = "Activity Type"
	ColDescription = "Activity Description"
	ColMovingTime  = "Moving Time"
	ColDistance    = "Distance"
	ColDistanceM   = "Distance_m"
	ColMaxHR       = "Max Heart Rate"
	ColCalories    = "Calories"
	ColElevation   = "Elevation Gain"
	ColMaxSpeed    = "Max Speed"
)

// RequiredColumns must all be present after aliasing
var RequiredColumns = []string{
	ColID, ColDate, ColName, ColType, ColDescription,
	ColMovingTime, ColDistance, ColMaxHR, ColCalories, ColElevation,
}

var dateLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006 3:04:05 PM",
	"January 2, 2006, 3:04:05 PM",
	"2 Jan 2006, 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Normalize validates t and converts every row into an Activity, keeping
// row order. The only error is a *ValidationError for a missing column.
func Normalize(t *Table) ([]Activity, error) {
	cols := columns(t.Header)
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &ValidationError{Column: name}
		}
	}

	distM, haveMeters := cols[ColDistanceM]
	speedCol, haveSpeed := cols[ColMaxSpeed]

	acts := make([]Activity, 0, len(t.Rows))
	for i := range t.Rows {
		cell := func(name string) string {
			return t.Cell(i, cols[name])
		}
		a := Activity{
			ID:             strings.TrimSpace(cell(ColID)),
			Name:           cell(ColName),
			Type:           strings.TrimSpace(cell(ColType)),
			Description:    cell(ColDescription),
			Timestamp:      ParseTimestamp(cell(ColDate)),
			MovingTimeS:    ParseNumber(cell(ColMovingTime)),
			ElevationGainM: ParseNumber(cell(ColElevation)),
			Calories:       ParseNumber(cell(ColCalories)),
			MaxHeartRate:   ParseNumber(cell(ColMaxHR)),
		}
		if haveMeters {
			a.DistanceM = ParseNumber(t.Cell(i, distM))
		} else {
			a.DistanceM = ParseNumber(cell(ColDistance)) * 1000
		}
		if haveSpeed {
			v := ParseNumber(t.Cell(i, speedCol))
			a.MaxSpeedMPS = &v
		}
		acts = append(acts, a)
	}
	return acts, nil
}

// columns maps canonical names to indexes. A repeated distance column is
// the meters variant and a repeated moving time column replaces the first.
func columns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if strings.HasSuffix(h, ".1") {
			switch {
			case strings.Contains(h, ColDistance):
				name = ColDistanceM
			case strings.Contains(h, ColMovingTime):
				name = ColMovingTime
			}
		}
		cols[name] = i
	}
	return cols
}

// ParseNumber reads a numeric cell. Every activity measure is a
// non-negative quantity, so anything unreadable, non-finite or negative
// is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// ParseTimestamp reads a date cell as a wall clock time in UTC. It returns
// nil when no known layout matches.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		return &wall
	}
	return nil
}
