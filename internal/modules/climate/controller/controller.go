package controller

import (
	"context"
	"net/http"

	"climate-server/internal/modules/climate/service"
)

// StoreAcquirer lends a store bound to one pooled connection. release must be
// called exactly once when the request is done with it.
type StoreAcquirer interface {
	Acquire(ctx context.Context) (store service.Store, release func(), err error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	stores StoreAcquirer
}

func NewClimateController(stores StoreAcquirer) ClimateController {
	return &climateControllerImpl{stores: stores}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/summary", c.handleSummary)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleStats)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleStats)
}
