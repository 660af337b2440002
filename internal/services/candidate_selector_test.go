package services

import (
	"ev-route-service/internal/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationIDs(cands []Candidate) []string {
	ids := make([]string, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.Station.ID)
	}
	return ids
}

func TestTypeMultiplier(t *testing.T) {
	cases := []struct {
		class  domain.PowerClass
		charge float64
		want   float64
	}{
		{domain.PowerFast, 95, 1.0},
		{domain.PowerSlow, 81, 3.0},
		{domain.PowerSlow, 80, 2.0},
		{domain.PowerSlow, 51, 2.0},
		{domain.PowerSlow, 50, 1.2},
		{domain.PowerSlow, 31, 1.2},
		{domain.PowerSlow, 30, 1.0},
		{domain.PowerSlow, 10, 1.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, typeMultiplier(tc.class, tc.charge), "%s@%v", tc.class, tc.charge)
	}
}

func TestSelectCandidatesNormalMode(t *testing.T) {
	cfg := testConfig()
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	dest := domain.Coordinate{Lat: 4, Lng: 0}

	stations := []domain.Station{
		{ID: "pricey", Coordinate: domain.Coordinate{Lat: 2, Lng: 0}, PowerClass: domain.PowerFast, PricePerKWh: 12},
		{ID: "cheap", Coordinate: domain.Coordinate{Lat: 2, Lng: 0}, PowerClass: domain.PowerFast, PricePerKWh: 7},
		{ID: "detour", Coordinate: domain.Coordinate{Lat: 2, Lng: 5}, PowerClass: domain.PowerFast, PricePerKWh: 1},
		{ID: "slow", Coordinate: domain.Coordinate{Lat: 1, Lng: 0}, PowerClass: domain.PowerSlow, PricePerKWh: 6},
		{ID: "mid", Coordinate: domain.Coordinate{Lat: 3, Lng: 0.5}, PowerClass: domain.PowerFast, PricePerKWh: 8},
		{ID: "mid2", Coordinate: domain.Coordinate{Lat: 3, Lng: 0.5}, PowerClass: domain.PowerFast, PricePerKWh: 9},
	}

	// At 90% the slow station is tripled: 6*3 = 18.
	sel := SelectCandidates(cfg, stations, origin, dest, 90)
	require.False(t, sel.Critical)
	assert.Equal(t, 5.0, sel.SafetyMarginPercent)
	assert.Equal(t, []string{"cheap", "mid", "mid2", "pricey"}, stationIDs(sel.Candidates))

	// "detour" has deviation (sqrt(29)*2)/4 ~ 2.69 and is filtered out.
	for _, c := range sel.Candidates {
		assert.Less(t, c.DeviationFactor, 2.5)
	}

	// At 40% the slow station only gets 1.2: 6*1.2 = 7.2, second place.
	sel = SelectCandidates(cfg, stations, origin, dest, 40)
	assert.Equal(t, []string{"cheap", "slow", "mid", "mid2"}, stationIDs(sel.Candidates))
}

func TestSelectCandidatesCriticalMode(t *testing.T) {
	cfg := testConfig()
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	dest := domain.Coordinate{Lat: 4, Lng: 0}

	stations := make([]domain.Station, 0, 10)
	for i := 10; i > 0; i-- {
		// Stations behind the origin would fail the detour filter in normal mode.
		stations = append(stations, domain.Station{
			ID:          fmt.Sprintf("s%d", i),
			Coordinate:  domain.Coordinate{Lat: -(3 + 0.1*float64(i)), Lng: 0},
			PowerClass:  domain.PowerSlow,
			PricePerKWh: float64(i),
		})
	}

	sel := SelectCandidates(cfg, stations, origin, dest, 20)
	require.True(t, sel.Critical)
	assert.Equal(t, 0.0, sel.SafetyMarginPercent)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}, stationIDs(sel.Candidates))

	sel = SelectCandidates(cfg, stations, origin, dest, 21)
	assert.False(t, sel.Critical)
	assert.Empty(t, sel.Candidates)
}

func TestSelectCandidatesStableOnTies(t *testing.T) {
	cfg := testConfig()
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	dest := domain.Coordinate{Lat: 4, Lng: 0}

	stations := []domain.Station{
		{ID: "b", Coordinate: domain.Coordinate{Lat: 2}, PowerClass: domain.PowerFast, PricePerKWh: 8},
		{ID: "a", Coordinate: domain.Coordinate{Lat: 2}, PowerClass: domain.PowerFast, PricePerKWh: 8},
	}

	sel := SelectCandidates(cfg, stations, origin, dest, 60)
	assert.Equal(t, []string{"b", "a"}, stationIDs(sel.Candidates))
}
