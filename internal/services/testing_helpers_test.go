package services

import (
	"context"
	"ev-route-service/internal/domain"
	"sync"
)

type stubStations struct {
	mu       sync.Mutex
	stations []domain.Station
	err      error
}

func (s *stubStations) ListStations(context.Context) ([]domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Station, len(s.stations))
	copy(out, s.stations)
	return out, nil
}

func (s *stubStations) AddReservation(_ context.Context, id string, r domain.ReservationInterval) (domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stations {
		if s.stations[i].ID == id {
			s.stations[i].Reservations = append(s.stations[i].Reservations, r)
			return s.stations[i], nil
		}
	}
	return domain.Station{}, domain.ErrStationNotFound
}

// testConfig uses a 400 km / 50 kWh vehicle so the arithmetic stays readable.
func testConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.Vehicles = map[string]domain.VehicleProfile{
		"test": {ID: "test", Name: "Test EV", RangeKm: 400, CapacityKWh: 50},
	}
	cfg.DefaultVehicleID = "test"
	return cfg
}

// northKm returns a point km kilometres north of the equator origin, using the
// engine's degree conversion.
func northKm(km float64) domain.Coordinate {
	return domain.Coordinate{Lat: km / 111, Lng: 0}
}

func hhmm(s string) domain.TimeOfDay {
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}
