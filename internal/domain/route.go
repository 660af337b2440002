package domain

import "encoding/json"

// Routed distance and duration returned by the routing collaborator.
// Geometry is opaque to the engine.
type RouteSummary struct {
	DistanceKm      float64         `json:"distanceKm"`
	DurationMinutes float64         `json:"durationMinutes"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
}

// Represents one way of completing a trip: the direct path (Station == nil)
// or a single charging stop. Percentages may go negative to signal infeasibility.
type EvaluatedOption struct {
	Message string
	Station *Station
	Route   RouteSummary

	RemainingChargePercent float64
	ArrivalChargePercent   float64
	DriveToStationMinutes  float64
	ChargingMinutes        float64
	WaitMinutes            float64
	TotalMinutes           float64
	ChargingCost           float64
	Score                  Score

	RangeInsufficient bool
	Impossible        bool
}

func (o EvaluatedOption) IsDirect() bool { return o.Station == nil }

// Recommendation is the engine output. Direct is always the unmodified baseline.
type Recommendation struct {
	Recommended EvaluatedOption
	Direct      EvaluatedOption
}
