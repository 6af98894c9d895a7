package service

import (
	"context"
	"errors"
	"time"

	"climate-server/internal/modules/climate/types"
)

// ErrNoData means the store holds no measurements, so no date bound can be
// resolved. A query that simply matches zero rows is not an error.
var ErrNoData = errors.New("no data available in the dataset")

// DateBounds reports the earliest and latest measurement dates. ok is false
// when the store is empty.
type DateBounds interface {
	MaxDate(ctx context.Context) (t time.Time, ok bool, err error)
	MinDate(ctx context.Context) (t time.Time, ok bool, err error)
}

// Store is the read-only measurement store the aggregations run against.
type Store interface {
	DateBounds

	// ScanByDateRange returns rows with Start <= date <= End ordered by
	// (date, station). An empty stationID matches every station.
	ScanByDateRange(ctx context.Context, rng types.DateRange, stationID string) ([]types.Measurement, error)

	// CountByStation counts rows per station, over rng when non-nil.
	CountByStation(ctx context.Context, rng *types.DateRange) ([]types.StationActivity, error)

	// StationMaxDate is the latest date stationID reported on. ok is false
	// when the station has no rows.
	StationMaxDate(ctx context.Context, stationID string) (t time.Time, ok bool, err error)

	StationName(ctx context.Context, stationID string) (name string, ok bool, err error)

	Stations(ctx context.Context) ([]types.Station, error)
}
