package api

import (
	"ev-route-service/internal/api/handlers"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies the HTTP layer needs. Gatherer is optional; without it /metrics is not served.
type Deps struct {
	Logger   zerolog.Logger
	Planner  *services.TripPlanner
	Stations ports.StationRepository
	Metrics  *obs.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	tripHandler := &handlers.TripHandler{Planner: d.Planner}
	stationHandler := &handlers.StationHandler{Repo: d.Stations, Metrics: d.Metrics}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/trip/plan", tripHandler.Plan).Methods(http.MethodPost)
	r.HandleFunc("/stations", stationHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/station/{id}/reserve", stationHandler.Reserve).Methods(http.MethodPost)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	// Wrapped outside the router so unmatched requests are logged too.
	return requestMiddleware(d.Logger)(r)
}
