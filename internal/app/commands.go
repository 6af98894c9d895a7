package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"climate-server/internal/config"
	"climate-server/internal/db"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

// ErrNoStats reports a stats query whose range matched no rows.
var ErrNoStats = errors.New("no data available for the specified date range")

// PrintStats writes the temperature stats report for [start, end] as indented
// JSON. A nil end runs to the latest date in the store.
func PrintStats(ctx context.Context, cfg config.Config, w io.Writer, start time.Time, end *time.Time, stationID string) error {
	dbConn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	store, release, err := repository.NewPool(dbConn).Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	report, err := service.NewAggregator(store).StatsReport(ctx, start, end, stationID)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrNoStats
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
