package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Port: a boundary for reading stations and appending reservations.
type StationRepository interface {
	// Retrieve all stations in stored order.
	ListStations(ctx context.Context) ([]domain.Station, error)
	// AddReservation appends an interval to the station's reservations as one atomic
	// read-modify-write. Unknown ids yield domain.ErrStationNotFound.
	AddReservation(ctx context.Context, stationID string, r domain.ReservationInterval) (domain.Station, error)
}
