package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
)

const (
	msgNoDataset = "no data available in the dataset"
	msgNoRange   = "no data available for the specified date range"
)

var indexRoutes = []views.Route{
	{Path: "/api/v1.0/precipitation", Description: "precipitation by date for the last 365 days; optional ?start= and ?end="},
	{Path: "/api/v1.0/stations", Description: "every station in the dataset"},
	{Path: "/api/v1.0/tobs", Description: "temperature observations of the most active station; ?mode=trailing365 or ?mode=full"},
	{Path: "/api/v1.0/summary", Description: "dataset date span and overall temperature statistics"},
	{Path: "/api/v1.0/<start>", Description: "TMIN, TAVG and TMAX from start to the latest date; optional ?station="},
	{Path: "/api/v1.0/<start>/<end>", Description: "TMIN, TAVG and TMAX for an inclusive date range; optional ?station="},
}

func parseDate(name, raw string) (time.Time, error) {
	t, err := types.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid '%s' (expected YYYY-MM-DD)", name)
	}
	return t, nil
}

// parseOptionalDate returns nil when the query parameter is absent or blank.
func parseOptionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(name, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parsePrecipitationQuery(r *http.Request) (start, end *time.Time, err error) {
	if start, err = parseOptionalDate(r, "start"); err != nil {
		return nil, nil, err
	}
	if end, err = parseOptionalDate(r, "end"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// parseStatsPath reads {start} and the optional {end} path values.
func parseStatsPath(r *http.Request) (start time.Time, end *time.Time, err error) {
	start, err = parseDate("start", r.PathValue("start"))
	if err != nil {
		return time.Time{}, nil, err
	}
	if raw := r.PathValue("end"); raw != "" {
		e, err := parseDate("end", raw)
		if err != nil {
			return time.Time{}, nil, err
		}
		end = &e
	}
	return start, end, nil
}

func parseMode(r *http.Request) (types.WindowMode, error) {
	return types.ParseWindowMode(r.URL.Query().Get("mode"))
}

func stationParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("station"))
}
