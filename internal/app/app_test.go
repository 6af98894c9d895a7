package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-server/internal/config"
	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:             "dev",
		HTTPAddr:           "127.0.0.1:0",
		ShutdownTimeout:    2 * time.Second,
		SQLiteDriver:       "sqlite3",
		SQLitePath:         filepath.Join(t.TempDir(), "hawaii.sqlite"),
		SQLiteMaxOpenConns: 2,
		SQLiteMaxIdleConns: 2,
	}
}

const testSchema = `
CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT NOT NULL UNIQUE, name TEXT, latitude REAL, longitude REAL, elevation REAL);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT NOT NULL, date TEXT NOT NULL, prcp REAL, tobs REAL NOT NULL);
`

// seedFile creates the dataset file at path and runs stmts against it.
func seedFile(t *testing.T, path string, stmts ...string) {
	t.Helper()
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { require.NoError(t, conn.Close()) }()
	for _, s := range append([]string{testSchema}, stmts...) {
		_, err := conn.Exec(s)
		require.NoError(t, err)
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestPrintStats(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	seedFile(t, cfg.SQLitePath, `
		INSERT INTO measurement (station, date, prcp, tobs) VALUES
			('USC00519281', '2017-08-21', 0.0, 70),
			('USC00519281', '2017-08-22', NULL, 74),
			('USC00519397', '2017-08-23', 0.2, 84)`)

	var out bytes.Buffer
	require.NoError(t, PrintStats(ctx, cfg, &out, date(t, "2017-08-21"), nil, ""))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "2017-08-21", got["start"])
	assert.Equal(t, "2017-08-23", got["end"])
	assert.Equal(t, 70.0, got["TMIN"])
	assert.Equal(t, 76.0, got["TAVG"])
	assert.Equal(t, 84.0, got["TMAX"])
	assert.Equal(t, 3.0, got["count"])
	assert.NotContains(t, got, "station")

	out.Reset()
	end := date(t, "2017-08-22")
	require.NoError(t, PrintStats(ctx, cfg, &out, date(t, "2017-08-21"), &end, "USC00519281"))
	assert.Contains(t, out.String(), `"station": "USC00519281"`)
	assert.Contains(t, out.String(), `"TMAX": 74`)
}

func TestPrintStats_absentAndEmpty(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	seedFile(t, cfg.SQLitePath)

	end := date(t, "2017-01-31")
	err := PrintStats(ctx, cfg, &bytes.Buffer{}, date(t, "2017-01-01"), &end, "")
	assert.ErrorIs(t, err, ErrNoStats)

	err = PrintStats(ctx, cfg, &bytes.Buffer{}, date(t, "2017-01-01"), nil, "")
	assert.ErrorIs(t, err, service.ErrNoData)
}

func TestRun_shutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	seedFile(t, cfg.SQLitePath)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "Run() = %v; want context.Canceled", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_listenFailure(t *testing.T) {
	cfg := testConfig(t)
	seedFile(t, cfg.SQLitePath)
	cfg.HTTPAddr = "256.0.0.1:bad"

	err := Run(context.Background(), cfg)
	require.Error(t, err)
}

func TestRun_missingDatabase(t *testing.T) {
	cfg := testConfig(t)

	err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping")
}
