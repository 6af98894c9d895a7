package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"climate-server/internal/app"
	"climate-server/internal/config"
	"climate-server/internal/logging"
	"climate-server/internal/modules/climate/types"
)

const appName = "climate-server"

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Read-only HTTP API over the Hawaii weather station dataset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			cfg = loaded
			// stdout is reserved for command output such as stats JSON
			slog.SetDefault(logging.New(os.Stderr, cfg, version, appName))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	var station string
	statsCmd := &cobra.Command{
		Use:   "stats START [END]",
		Short: "Print TMIN, TAVG and TMAX for a date range as JSON",
		Long: "Print temperature statistics over [START, END] inclusive. Dates use YYYY-MM-DD.\n" +
			"Without END the range runs to the latest date in the dataset.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseStatsArgs(args)
			if err != nil {
				return err
			}
			return app.PrintStats(cmd.Context(), cfg, cmd.OutOrStdout(), start, end, station)
		},
	}
	statsCmd.Flags().StringVarP(&station, "station", "s", "", "restrict to one station id (e.g. USC00519281)")

	rootCmd.AddCommand(serveCmd, statsCmd)
	return rootCmd
}

func serve(parent context.Context, cfg config.Config) error {
	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		return err
	}

	slog.Info("shutting down")
	return nil
}

func parseStatsArgs(args []string) (time.Time, *time.Time, error) {
	start, err := types.ParseDate(args[0])
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid START: %w", err)
	}
	if len(args) < 2 {
		return start, nil, nil
	}
	end, err := types.ParseDate(args[1])
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid END: %w", err)
	}
	return start, &end, nil
}
