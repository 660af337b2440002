package handlers

import (
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// StationHandler exposes the station list and reservation endpoints.
type StationHandler struct {
	Repo    ports.StationRepository
	Metrics *obs.Metrics
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Repo.ListStations(r.Context())
	if err != nil {
		writeServiceError(w, r, "stations.list", err)
		return
	}

	// The collection goes out exactly as stored.
	if stations == nil {
		stations = []domain.Station{}
	}
	writeJSON(w, r, http.StatusOK, stations)
}

func (h *StationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req dto.ReserveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("startTime: %v", err))
		return
	}
	end, err := domain.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("endTime: %v", err))
		return
	}

	id := mux.Vars(r)["id"]
	st, err := services.ReserveStation(r.Context(), h.Repo, h.Metrics, id,
		domain.ReservationInterval{Start: start, End: end})
	if err != nil {
		writeServiceError(w, r, "stations.reserve", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReserveResponse{
		Success: true,
		Message: "Reservation created.",
		Station: st,
	})
}
