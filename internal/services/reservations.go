package services

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ReserveStation validates the interval and appends it to the station's reservations.
func ReserveStation(
	ctx context.Context,
	repo ports.StationRepository,
	metrics *obs.Metrics,
	stationID string,
	interval domain.ReservationInterval,
) (_ domain.Station, err error) {
	defer obs.Time(ctx, "reservations.ReserveStation")(&err)

	stationID = strings.TrimSpace(stationID)
	if stationID == "" {
		metrics.Reservation("invalid")
		return domain.Station{}, fmt.Errorf("reserve station: %w: station id is required", domain.ErrInvalidRequest)
	}
	if err := interval.Validate(); err != nil {
		metrics.Reservation("invalid")
		return domain.Station{}, fmt.Errorf("reserve station %q: %w", stationID, err)
	}

	st, err := repo.AddReservation(ctx, stationID, interval)
	if err != nil {
		if errors.Is(err, domain.ErrStationNotFound) {
			metrics.Reservation("not_found")
		} else {
			metrics.Reservation("error")
		}
		return domain.Station{}, fmt.Errorf("reserve station %q: %w", stationID, err)
	}

	metrics.Reservation("ok")
	zerolog.Ctx(ctx).Info().
		Str("station_id", st.ID).
		Str("start", interval.Start.String()).
		Str("end", interval.End.String()).
		Msg("reservation created")

	return st, nil
}
