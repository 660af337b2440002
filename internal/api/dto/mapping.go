package dto

import (
	"ev-route-service/internal/domain"
	"math"
)

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// NewOptionResponse rounds figures the way clients display them.
func NewOptionResponse(o domain.EvaluatedOption) OptionResponse {
	res := OptionResponse{
		Message:  o.Message,
		Geometry: o.Route.Geometry,
		Summary: RouteSummaryResponse{
			DistanceKm:      round(o.Route.DistanceKm, 1),
			DurationMinutes: round(o.Route.DurationMinutes, 0),
		},
		RemainingChargePercent: round(o.RemainingChargePercent, 1),
		ArrivalChargePercent:   round(o.ArrivalChargePercent, 1),
		DriveToStationMinutes:  round(o.DriveToStationMinutes, 0),
		ChargingMinutes:        round(o.ChargingMinutes, 0),
		WaitMinutes:            round(o.WaitMinutes, 0),
		TotalMinutes:           round(o.TotalMinutes, 0),
		ChargingCost:           round(o.ChargingCost, 2),
		Score:                  o.Score,
		RangeInsufficient:      o.RangeInsufficient,
		Impossible:             o.Impossible,
	}
	if o.Station != nil {
		st := *o.Station
		res.Station = &st
	}
	return res
}

func NewTripPlanResponse(rec domain.Recommendation) TripPlanResponse {
	return TripPlanResponse{
		Recommended: NewOptionResponse(rec.Recommended),
		Direct:      NewOptionResponse(rec.Direct),
	}
}
