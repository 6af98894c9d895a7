package service

import (
	"context"
	"sort"
	"time"

	"climate-server/internal/modules/climate/types"
)

// fakeStore is an in-memory Store with the same filtering and ordering
// contract as the SQLite repository.
type fakeStore struct {
	rows     []types.Measurement
	stations map[string]string

	// activityOrder, when set, replaces CountByStation output ordering so
	// tests can check that ranking does not depend on store order.
	activityOrder func([]types.StationActivity)

	err error

	scans  []scanCall
	counts []*types.DateRange
}

type scanCall struct {
	rng       types.DateRange
	stationID string
}

func day(s string) time.Time {
	t, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func (f *fakeStore) add(station, date string, prcp *float64, tobs float64) {
	f.rows = append(f.rows, types.Measurement{
		StationID:     station,
		Date:          day(date),
		Precipitation: prcp,
		Temperature:   tobs,
	})
}

func (f *fakeStore) MaxDate(_ context.Context) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	if len(f.rows) == 0 {
		return time.Time{}, false, nil
	}
	out := f.rows[0].Date
	for _, m := range f.rows[1:] {
		if m.Date.After(out) {
			out = m.Date
		}
	}
	return out, true, nil
}

func (f *fakeStore) MinDate(_ context.Context) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	if len(f.rows) == 0 {
		return time.Time{}, false, nil
	}
	out := f.rows[0].Date
	for _, m := range f.rows[1:] {
		if m.Date.Before(out) {
			out = m.Date
		}
	}
	return out, true, nil
}

func (f *fakeStore) ScanByDateRange(_ context.Context, rng types.DateRange, stationID string) ([]types.Measurement, error) {
	f.scans = append(f.scans, scanCall{rng: rng, stationID: stationID})
	if f.err != nil {
		return nil, f.err
	}
	var out []types.Measurement
	for _, m := range f.rows {
		if m.Date.Before(rng.Start) || m.Date.After(rng.End) {
			continue
		}
		if stationID != "" && m.StationID != stationID {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StationID < out[j].StationID
	})
	return out, nil
}

func (f *fakeStore) CountByStation(_ context.Context, rng *types.DateRange) ([]types.StationActivity, error) {
	f.counts = append(f.counts, rng)
	if f.err != nil {
		return nil, f.err
	}
	counts := map[string]int{}
	var order []string
	for _, m := range f.rows {
		if rng != nil && (m.Date.Before(rng.Start) || m.Date.After(rng.End)) {
			continue
		}
		if _, seen := counts[m.StationID]; !seen {
			order = append(order, m.StationID)
		}
		counts[m.StationID]++
	}
	out := make([]types.StationActivity, 0, len(order))
	for _, id := range order {
		out = append(out, types.StationActivity{StationID: id, Count: counts[id]})
	}
	if f.activityOrder != nil {
		f.activityOrder(out)
	}
	return out, nil
}

func (f *fakeStore) StationMaxDate(_ context.Context, stationID string) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	var (
		out   time.Time
		found bool
	)
	for _, m := range f.rows {
		if m.StationID == stationID && (!found || m.Date.After(out)) {
			out, found = m.Date, true
		}
	}
	return out, found, nil
}

func (f *fakeStore) StationName(_ context.Context, stationID string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	name, ok := f.stations[stationID]
	return name, ok, nil
}

func (f *fakeStore) Stations(_ context.Context) ([]types.Station, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.Station, 0, len(f.stations))
	for id, name := range f.stations {
		out = append(out, types.Station{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
