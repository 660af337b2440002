package domain

import (
	"encoding/json"
	"fmt"
)

// PowerClass distinguishes fast (DC) from slow (AC) chargers.
type PowerClass string

const (
	PowerFast PowerClass = "fast"
	PowerSlow PowerClass = "slow"
)

// UnmarshalJSON also accepts the legacy station file spellings.
func (p *PowerClass) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	switch s {
	case "fast", "hizli":
		*p = PowerFast
	case "slow", "yavas":
		*p = PowerSlow
	default:
		return fmt.Errorf("unknown power class %q", s)
	}
	return nil
}

func (p PowerClass) IsFast() bool { return p == PowerFast }

// A busy window on a station's charger, within a single calendar day.
type ReservationInterval struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Validate enforces start < end. Windows crossing midnight are rejected.
func (r ReservationInterval) Validate() error {
	if r.Start < 0 || r.End > MinutesPerDay {
		return fmt.Errorf("%w: reservation %s-%s is outside a single day", ErrInvalidRequest, r.Start, r.End)
	}
	if r.Start >= r.End {
		return fmt.Errorf("%w: reservation start %s must be before end %s", ErrInvalidRequest, r.Start, r.End)
	}
	return nil
}

// Overlaps reports whether [from, to) intersects the interval.
func (r ReservationInterval) Overlaps(from, to float64) bool {
	return from < float64(r.End) && to > float64(r.Start)
}

// Represents a charging station as stored by the station repository.
// Reservations keep their insertion order.
type Station struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Coordinate   Coordinate            `json:"coordinate"`
	PowerClass   PowerClass            `json:"powerClass"`
	PricePerKWh  float64               `json:"pricePerKWh"`
	Reservations []ReservationInterval `json:"reservations"`
}
