package types

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date form the store keeps and compares as text.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

type Station struct {
	ID        string   `json:"station"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

// Measurement is one observation row. Precipitation is nil when the source
// row has no value.
type Measurement struct {
	StationID     string
	Date          time.Time
	Precipitation *float64
	Temperature   float64
}

// DateRange is inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the range cannot contain any date (Start after End).
func (r DateRange) Empty() bool {
	return r.Start.After(r.End)
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}

// WindowMode selects the date range a most-active ranking is computed over.
type WindowMode string

const (
	// WindowTrailing365 ranks inside the 365 days ending at the latest date.
	WindowTrailing365 WindowMode = "trailing365"
	// WindowFull ranks over every row in the store.
	WindowFull WindowMode = "full"
)

func ParseWindowMode(s string) (WindowMode, error) {
	switch WindowMode(s) {
	case "", WindowTrailing365:
		return WindowTrailing365, nil
	case WindowFull:
		return WindowFull, nil
	default:
		return "", fmt.Errorf("invalid window mode %q (allowed: %s, %s)", s, WindowTrailing365, WindowFull)
	}
}

type StationActivity struct {
	StationID string `json:"station"`
	Count     int    `json:"count"`
}

type TemperatureStats struct {
	Min   float64 `json:"TMIN"`
	Avg   float64 `json:"TAVG"`
	Max   float64 `json:"TMAX"`
	Count int     `json:"count"`
}

type Observation struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
}

type TemperatureSeries struct {
	StationID    string
	StationName  *string
	Window       DateRange
	Ranking      WindowMode
	Observations []Observation
}

// PrecipitationSeries maps an ISO date to its precipitation reading.
type PrecipitationSeries map[string]*float64

type DatasetSummary struct {
	FirstDate time.Time
	LastDate  time.Time
	Stats     *TemperatureStats
}

// StatsReport is a TemperatureStats result labelled with the resolved range.
type StatsReport struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Station string `json:"station,omitempty"`
	*TemperatureStats
}
