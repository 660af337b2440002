package handlers

import (
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/services"
	"fmt"
	"net/http"
	"strings"
)

type TripHandler struct {
	Planner *services.TripPlanner
}

// Plan decodes a trip, fills defaults from the engine config and returns the recommendation.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.TripPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.toTripRequest(req)
	if err != nil {
		writeServiceError(w, r, "trip.plan", err)
		return
	}

	rec, err := h.Planner.Plan(r.Context(), trip)
	if err != nil {
		writeServiceError(w, r, "trip.plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripPlanResponse(rec))
}

func (h *TripHandler) toTripRequest(req dto.TripPlanRequest) (domain.TripRequest, error) {
	origin, err := coordinate("origin", req.Origin)
	if err != nil {
		return domain.TripRequest{}, err
	}
	dest, err := coordinate("destination", req.Destination)
	if err != nil {
		return domain.TripRequest{}, err
	}

	cfg := h.Planner.Config()

	charge := cfg.DefaultStartingChargePercent
	if req.StartingChargePercent != nil {
		charge = *req.StartingChargePercent
	}

	departure := strings.TrimSpace(req.DepartureTime)
	if departure == "" {
		departure = cfg.DefaultDeparture
	}
	dep, err := domain.ParseTimeOfDay(departure)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	return domain.TripRequest{
		Origin:                origin,
		Destination:           dest,
		VehicleID:             strings.TrimSpace(req.VehicleID),
		StartingChargePercent: charge,
		Departure:             dep,
	}, nil
}

func coordinate(field string, c *dto.CoordinateRequest) (domain.Coordinate, error) {
	if c == nil || c.Lat == nil || c.Lng == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %s with lat and lng is required", domain.ErrInvalidRequest, field)
	}
	return domain.Coordinate{Lat: *c.Lat, Lng: *c.Lng}, nil
}
