package services

import (
	"context"
	"ev-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveStationAppendsInterval(t *testing.T) {
	repo := &stubStations{stations: []domain.Station{{ID: "1", Name: "One"}}}
	interval := domain.ReservationInterval{Start: hhmm("10:00"), End: hhmm("10:30")}

	st, err := ReserveStation(context.Background(), repo, nil, "1", interval)
	require.NoError(t, err)
	assert.Equal(t, []domain.ReservationInterval{interval}, st.Reservations)

	all, err := repo.ListStations(context.Background())
	require.NoError(t, err)
	assert.Len(t, all[0].Reservations, 1)
}

func TestReserveStationUnknownStation(t *testing.T) {
	repo := &stubStations{}
	_, err := ReserveStation(context.Background(), repo, nil, "404",
		domain.ReservationInterval{Start: hhmm("10:00"), End: hhmm("10:30")})
	assert.ErrorIs(t, err, domain.ErrStationNotFound)
}

func TestReserveStationRejectsInvalidInterval(t *testing.T) {
	repo := &stubStations{stations: []domain.Station{{ID: "1"}}}

	_, err := ReserveStation(context.Background(), repo, nil, "1",
		domain.ReservationInterval{Start: hhmm("11:00"), End: hhmm("10:30")})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = ReserveStation(context.Background(), repo, nil, "  ",
		domain.ReservationInterval{Start: hhmm("10:00"), End: hhmm("10:30")})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	all, _ := repo.ListStations(context.Background())
	assert.Empty(t, all[0].Reservations)
}
