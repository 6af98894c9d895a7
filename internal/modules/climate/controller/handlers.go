package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

type tobsResponse struct {
	Station      string              `json:"station"`
	Name         *string             `json:"name"`
	Start        string              `json:"start"`
	End          string              `json:"end"`
	Ranking      types.WindowMode    `json:"ranking"`
	Observations []types.Observation `json:"observations"`
}

type summaryResponse struct {
	FirstDate string                  `json:"first_date"`
	LastDate  string                  `json:"last_date"`
	Stats     *types.TemperatureStats `json:"stats"`
}

// acquire borrows a connection for the request. On failure it has already
// written the error response; otherwise the caller must defer release.
func (c *climateControllerImpl) acquire(w http.ResponseWriter, r *http.Request) (service.Store, func(), bool) {
	store, release, err := c.stores.Acquire(r.Context())
	if err != nil {
		slog.Error("acquire store failed", "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return nil, nil, false
	}
	return store, release, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNoData) {
		utils.WriteError(w, http.StatusNotFound, msgNoDataset)
		return
	}
	slog.Error("query failed", "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to query measurements")
}

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	store, release, ok := c.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	data := views.IndexData{Title: "Hawaii Climate API", Routes: indexRoutes}
	span, err := service.FullWindow(r.Context(), store)
	switch {
	case err == nil:
		data.HasData = true
		data.FirstDate = types.FormatDate(span.Start)
		data.LastDate = types.FormatDate(span.End)
	case !errors.Is(err, service.ErrNoData):
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, &data); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePrecipitationQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	store, release, ok := c.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	var rng *types.DateRange
	if start != nil || end != nil {
		resolved, err := service.ResolveWindow(r.Context(), start, end, store)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		rng = &resolved
	}

	series, err := service.NewAggregator(store).PrecipitationSeries(r.Context(), rng)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, series)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	store, release, ok := c.acquire(w, r)
	if !ok {
		return
	}
	defer release()
	agg := service.NewAggregator(store)

	stations, err := agg.Stations(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	store, release, ok := c.acquire(w, r)
	if !ok {
		return
	}
	defer release()
	agg := service.NewAggregator(store)

	series, err := agg.MostActiveStationSeries(r.Context(), mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tobsResponse{
		Station:      series.StationID,
		Name:         series.StationName,
		Start:        types.FormatDate(series.Window.Start),
		End:          types.FormatDate(series.Window.End),
		Ranking:      series.Ranking,
		Observations: series.Observations,
	})
}

func (c *climateControllerImpl) handleSummary(w http.ResponseWriter, r *http.Request) {
	store, release, ok := c.acquire(w, r)
	if !ok {
		return
	}
	defer release()
	agg := service.NewAggregator(store)

	summary, err := agg.DatasetSummary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summaryResponse{
		FirstDate: types.FormatDate(summary.FirstDate),
		LastDate:  types.FormatDate(summary.LastDate),
		Stats:     summary.Stats,
	})
}

// handleStats serves both /api/v1.0/{start} and /api/v1.0/{start}/{end}.
func (c *climateControllerImpl) handleStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseStatsPath(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	store, release, ok := c.acquire(w, r)
	if !ok {
		return
	}
	defer release()
	agg := service.NewAggregator(store)

	report, err := agg.StatsReport(r.Context(), start, end, stationParam(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if report == nil {
		utils.WriteError(w, http.StatusNotFound, msgNoRange)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}
