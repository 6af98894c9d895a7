package climate

import (
	"net/http"

	"climate-server/internal/modules/climate/controller"
	"climate-server/internal/modules/climate/repository"
)

func RegisterFeature(mux *http.ServeMux, pool *repository.Pool) {
	climateController := controller.NewClimateController(pool)
	climateController.RegisterRoutes(mux)
}
