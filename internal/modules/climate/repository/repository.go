package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-max-date.sql
var getMaxDateSQL string

//go:embed sql/get-min-date.sql
var getMinDateSQL string

//go:embed sql/get-station-max-date.sql
var getStationMaxDateSQL string

//go:embed sql/scan-measurements.sql
var scanMeasurementsSQL string

//go:embed sql/count-by-station.sql
var countByStationSQL string

//go:embed sql/count-by-station-in-range.sql
var countByStationInRangeSQL string

//go:embed sql/get-station-name.sql
var getStationNameSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositoryImpl struct {
	q Querier
}

// NewRepository returns a measurement store reading through q.
func NewRepository(q Querier) service.Store {
	return &repositoryImpl{q: q}
}

func (r *repositoryImpl) MaxDate(ctx context.Context) (time.Time, bool, error) {
	return r.dateBound(ctx, getMaxDateSQL)
}

func (r *repositoryImpl) MinDate(ctx context.Context) (time.Time, bool, error) {
	return r.dateBound(ctx, getMinDateSQL)
}

func (r *repositoryImpl) StationMaxDate(ctx context.Context, stationID string) (time.Time, bool, error) {
	return r.dateBound(ctx, getStationMaxDateSQL, stationID)
}

func (r *repositoryImpl) dateBound(ctx context.Context, query string, args ...any) (time.Time, bool, error) {
	var s sql.NullString
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&s); err != nil {
		return time.Time{}, false, err
	}
	// MAX/MIN over zero rows is NULL
	if !s.Valid {
		return time.Time{}, false, nil
	}
	t, err := types.ParseDate(s.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (r *repositoryImpl) ScanByDateRange(ctx context.Context, rng types.DateRange, stationID string) ([]types.Measurement, error) {
	rows, err := r.q.QueryContext(ctx, scanMeasurementsSQL,
		types.FormatDate(rng.Start), types.FormatDate(rng.End), stationID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close measurement rows", "error", err)
		}
	}()
	return scanMeasurements(rows)
}

func scanMeasurements(rows *sql.Rows) ([]types.Measurement, error) {
	var out []types.Measurement
	for rows.Next() {
		var (
			m    types.Measurement
			date string
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&m.StationID, &date, &prcp, &m.Temperature); err != nil {
			return nil, err
		}
		t, err := types.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("measurement %s: %w", m.StationID, err)
		}
		m.Date = t
		if prcp.Valid {
			v := prcp.Float64
			m.Precipitation = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) CountByStation(ctx context.Context, rng *types.DateRange) ([]types.StationActivity, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if rng == nil {
		rows, err = r.q.QueryContext(ctx, countByStationSQL)
	} else {
		rows, err = r.q.QueryContext(ctx, countByStationInRangeSQL,
			types.FormatDate(rng.Start), types.FormatDate(rng.End))
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close station activity rows", "error", err)
		}
	}()

	var out []types.StationActivity
	for rows.Next() {
		var a types.StationActivity
		if err := rows.Scan(&a.StationID, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) StationName(ctx context.Context, stationID string) (string, bool, error) {
	var name sql.NullString
	err := r.q.QueryRowContext(ctx, getStationNameSQL, stationID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !name.Valid {
		return "", false, nil
	}
	return name.String, true, nil
}

func (r *repositoryImpl) Stations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.q.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()

	out := []types.Station{}
	for rows.Next() {
		var (
			s             types.Station
			lat, lng, elv sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Name, &lat, &lng, &elv); err != nil {
			return nil, err
		}
		s.Latitude = nullFloat(lat)
		s.Longitude = nullFloat(lng)
		s.Elevation = nullFloat(elv)
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
