package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux wires the operational routes. Feature modules register theirs on the
// returned mux. reg also receives the database pool collector.
func NewMux(db *sql.DB, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)

	reg.MustRegister(collectors.NewDBStatsCollector(db, metricsNamespace))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
