package services

import (
	"cmp"
	"ev-route-service/internal/domain"
	"slices"
)

// ConflictWait returns how long a vehicle must wait at a station, in minutes.
//
// Arrival is departure plus the drive time; the vehicle then occupies the charger
// for chargingMinutes. Arithmetic does not wrap past midnight.
func ConflictWait(
	policy ConflictPolicy,
	reservations []domain.ReservationInterval,
	departure domain.TimeOfDay,
	driveMinutes float64,
	chargingMinutes float64,
) float64 {
	if len(reservations) == 0 {
		return 0
	}

	arrival := float64(departure) + driveMinutes

	if policy == ClearSlot {
		return clearSlotWait(reservations, arrival, chargingMinutes)
	}

	leave := arrival + chargingMinutes
	for _, r := range reservations {
		if r.Overlaps(arrival, leave) {
			return float64(r.End) - arrival
		}
	}
	return 0
}

// clearSlotWait delays the start until no reservation overlaps the charging window.
func clearSlotWait(reservations []domain.ReservationInterval, arrival, chargingMinutes float64) float64 {
	sorted := slices.Clone(reservations)
	slices.SortStableFunc(sorted, func(a, b domain.ReservationInterval) int {
		return cmp.Compare(a.Start, b.Start)
	})

	start := arrival
	for moved := true; moved; {
		moved = false
		for _, r := range sorted {
			if r.Overlaps(start, start+chargingMinutes) {
				// Every move lands on a later reservation end, so this terminates.
				start = float64(r.End)
				moved = true
			}
		}
	}
	return start - arrival
}
