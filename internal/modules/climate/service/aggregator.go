package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"climate-server/internal/modules/climate/types"
)

// Aggregator answers the climate queries over one store handle. It keeps no
// state between calls; build one per request over the borrowed connection.
type Aggregator struct {
	store Store
}

// NewAggregator returns an Aggregator reading from store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// PrecipitationSeries returns date -> precipitation for every row in rng, or
// in the trailing window when rng is nil. Rows arrive ordered by (date,
// station), so when several stations report the same date the last station in
// that order wins. Missing readings stay nil.
func (a *Aggregator) PrecipitationSeries(ctx context.Context, rng *types.DateRange) (types.PrecipitationSeries, error) {
	window, err := a.windowOrTrailing(ctx, rng)
	if err != nil {
		return nil, err
	}
	out := types.PrecipitationSeries{}
	if window.Empty() {
		return out, nil
	}

	rows, err := a.store.ScanByDateRange(ctx, window, "")
	if err != nil {
		return nil, fmt.Errorf("scan precipitation %s: %w", window, err)
	}
	for _, m := range rows {
		out[types.FormatDate(m.Date)] = m.Precipitation
	}
	return out, nil
}

// MostActiveStationSeries picks the station with the most observations and
// returns its temperature observations for a 365-day window. With
// WindowTrailing365 both the ranking and the observations use the window
// ending at the store's latest date. With WindowFull the ranking covers every
// row and the window ends at the winner's own latest date. Ties go to the
// lexicographically smallest station id.
func (a *Aggregator) MostActiveStationSeries(ctx context.Context, mode types.WindowMode) (*types.TemperatureSeries, error) {
	var (
		window    types.DateRange
		rankRange *types.DateRange
		err       error
	)
	switch mode {
	case types.WindowTrailing365:
		window, err = TrailingWindow(ctx, a.store)
		if err != nil {
			return nil, err
		}
		rankRange = &window
	case types.WindowFull:
	default:
		return nil, fmt.Errorf("unknown window mode %q", mode)
	}

	activity, err := a.store.CountByStation(ctx, rankRange)
	if err != nil {
		return nil, fmt.Errorf("count by station: %w", err)
	}
	top, ok := MostActive(activity)
	if !ok {
		return nil, ErrNoData
	}

	if mode == types.WindowFull {
		window, err = a.stationTrailingWindow(ctx, top.StationID)
		if err != nil {
			return nil, err
		}
	}

	series := &types.TemperatureSeries{
		StationID:    top.StationID,
		Window:       window,
		Ranking:      mode,
		Observations: []types.Observation{},
	}

	name, found, err := a.store.StationName(ctx, top.StationID)
	if err != nil {
		return nil, fmt.Errorf("station name %q: %w", top.StationID, err)
	}
	if found {
		series.StationName = &name
	}

	rows, err := a.store.ScanByDateRange(ctx, window, top.StationID)
	if err != nil {
		return nil, fmt.Errorf("scan observations %q %s: %w", top.StationID, window, err)
	}
	for _, m := range rows {
		series.Observations = append(series.Observations, types.Observation{
			Date:        types.FormatDate(m.Date),
			Temperature: m.Temperature,
		})
	}
	return series, nil
}

// TemperatureStats aggregates temperature over [start, end] inclusive. A nil
// end means the latest date in the store; an empty stationID means every
// station. A range matching no rows, including start after end, yields nil
// stats and a nil error.
func (a *Aggregator) TemperatureStats(ctx context.Context, start time.Time, end *time.Time, stationID string) (*types.TemperatureStats, error) {
	window, err := ResolveWindow(ctx, &start, end, a.store)
	if err != nil {
		return nil, err
	}
	return a.statsFor(ctx, window, stationID)
}

// StatsReport is TemperatureStats labelled with the resolved window. It is nil
// when the range holds no matching rows.
func (a *Aggregator) StatsReport(ctx context.Context, start time.Time, end *time.Time, stationID string) (*types.StatsReport, error) {
	window, err := ResolveWindow(ctx, &start, end, a.store)
	if err != nil {
		return nil, err
	}
	stats, err := a.statsFor(ctx, window, stationID)
	if err != nil || stats == nil {
		return nil, err
	}
	return &types.StatsReport{
		Start:            types.FormatDate(window.Start),
		End:              types.FormatDate(window.End),
		Station:          stationID,
		TemperatureStats: stats,
	}, nil
}

// DatasetSummary reports the dataset's date span and the statistics over it.
func (a *Aggregator) DatasetSummary(ctx context.Context) (*types.DatasetSummary, error) {
	window, err := FullWindow(ctx, a.store)
	if err != nil {
		return nil, err
	}
	stats, err := a.statsFor(ctx, window, "")
	if err != nil {
		return nil, err
	}
	return &types.DatasetSummary{FirstDate: window.Start, LastDate: window.End, Stats: stats}, nil
}

// Stations lists every station ordered by id.
func (a *Aggregator) Stations(ctx context.Context) ([]types.Station, error) {
	stations, err := a.store.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return stations, nil
}

// stationTrailingWindow is the 365-day range ending at stationID's latest date.
func (a *Aggregator) stationTrailingWindow(ctx context.Context, stationID string) (types.DateRange, error) {
	end, ok, err := a.store.StationMaxDate(ctx, stationID)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("station max date %q: %w", stationID, err)
	}
	if !ok {
		return types.DateRange{}, ErrNoData
	}
	return trailingFrom(end), nil
}

func (a *Aggregator) statsFor(ctx context.Context, window types.DateRange, stationID string) (*types.TemperatureStats, error) {
	if window.Empty() {
		return nil, nil
	}
	rows, err := a.store.ScanByDateRange(ctx, window, stationID)
	if err != nil {
		return nil, fmt.Errorf("scan temperatures %s: %w", window, err)
	}
	return Summarize(rows), nil
}

func (a *Aggregator) windowOrTrailing(ctx context.Context, rng *types.DateRange) (types.DateRange, error) {
	if rng != nil {
		return *rng, nil
	}
	return TrailingWindow(ctx, a.store)
}

// Summarize returns min/avg/max temperature over rows, or nil for no rows.
// Avg is the plain float64 mean, unrounded.
func Summarize(rows []types.Measurement) *types.TemperatureStats {
	if len(rows) == 0 {
		return nil
	}
	stats := &types.TemperatureStats{
		Min:   rows[0].Temperature,
		Max:   rows[0].Temperature,
		Count: len(rows),
	}
	var sum float64
	for _, m := range rows {
		stats.Min = min(stats.Min, m.Temperature)
		stats.Max = max(stats.Max, m.Temperature)
		sum += m.Temperature
	}
	stats.Avg = sum / float64(len(rows))
	return stats
}

// MostActive returns the entry with the highest count, breaking ties by the
// smallest station id. The input order does not matter.
func MostActive(activity []types.StationActivity) (types.StationActivity, bool) {
	if len(activity) == 0 {
		return types.StationActivity{}, false
	}
	ranked := make([]types.StationActivity, len(activity))
	copy(ranked, activity)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].StationID < ranked[j].StationID
	})
	if ranked[0].Count <= 0 {
		return types.StationActivity{}, false
	}
	return ranked[0], true
}
