package domain

import "fmt"

// TripRequest describes a single EV trip to plan.
type TripRequest struct {
	Origin                Coordinate
	Destination           Coordinate
	VehicleID             string
	StartingChargePercent float64
	Departure             TimeOfDay
}

// Validate checks field ranges. Presence of origin/destination is checked at the edge.
func (r TripRequest) Validate() error {
	if r.StartingChargePercent < 0 || r.StartingChargePercent > 100 {
		return fmt.Errorf("%w: starting charge %.1f must be between 0 and 100", ErrInvalidRequest, r.StartingChargePercent)
	}
	if r.Departure < 0 || r.Departure >= MinutesPerDay {
		return fmt.Errorf("%w: departure %d is outside the day", ErrInvalidRequest, int(r.Departure))
	}
	if !r.Origin.valid() {
		return fmt.Errorf("%w: origin %v is not a valid coordinate", ErrInvalidRequest, r.Origin)
	}
	if !r.Destination.valid() {
		return fmt.Errorf("%w: destination %v is not a valid coordinate", ErrInvalidRequest, r.Destination)
	}
	if r.Origin == r.Destination {
		return fmt.Errorf("%w: origin and destination must differ", ErrInvalidRequest)
	}
	return nil
}
