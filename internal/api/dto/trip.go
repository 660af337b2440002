package dto

import (
	"encoding/json"
	"ev-route-service/internal/domain"
)

type CoordinateRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Optional fields fall back to the engine defaults when omitted.
type TripPlanRequest struct {
	Origin                *CoordinateRequest `json:"origin"`
	Destination           *CoordinateRequest `json:"destination"`
	VehicleID             string             `json:"vehicleId"`
	StartingChargePercent *float64           `json:"startingChargePercent"`
	DepartureTime         string             `json:"departureTime"`
}

type RouteSummaryResponse struct {
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes float64 `json:"durationMinutes"`
}

type OptionResponse struct {
	Message  string               `json:"message"`
	Geometry json.RawMessage      `json:"geometry,omitempty"`
	Summary  RouteSummaryResponse `json:"summary"`
	Station  *domain.Station      `json:"station,omitempty"`

	RemainingChargePercent float64 `json:"remainingChargePercent"`
	ArrivalChargePercent   float64 `json:"arrivalChargePercent,omitempty"`
	DriveToStationMinutes  float64 `json:"driveToStationMinutes,omitempty"`
	ChargingMinutes        float64 `json:"chargingMinutes"`
	WaitMinutes            float64 `json:"waitMinutes"`
	TotalMinutes           float64 `json:"totalMinutes"`
	ChargingCost           float64 `json:"chargingCost"`

	Score             domain.Score `json:"score"`
	RangeInsufficient bool         `json:"rangeInsufficient"`
	Impossible        bool         `json:"impossible"`
}

type TripPlanResponse struct {
	Recommended OptionResponse `json:"recommended"`
	Direct      OptionResponse `json:"direct"`
}
