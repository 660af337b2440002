package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"fmt"
	"os"
	"strings"
)

// Initialize the PostgreSQL schema for stations, reservations and the route cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		power_class TEXT NOT NULL CHECK (power_class IN ('fast', 'slow')),
		price_per_kwh DOUBLE PRECISION NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	);
	`

	createReservationsQuery := `
	CREATE TABLE IF NOT EXISTS station_reservations (
		station_id TEXT NOT NULL REFERENCES stations(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		PRIMARY KEY (station_id, position),
		CHECK (start_minute < end_minute)
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		distance_km DOUBLE PRECISION NOT NULL,
		duration_minutes DOUBLE PRECISION NOT NULL,
		geometry JSONB,
		fetched_at TIMESTAMPTZ NOT NULL
	);
	`

	statements := []string{
		createStationsQuery,
		createReservationsQuery,
		createRouteCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ReadSeedFile parses a station JSON file in the persisted record shape.
func ReadSeedFile(jsonPath string) ([]domain.Station, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed stations: read %q: %w", jsonPath, err)
	}

	var data []domain.Station
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed stations: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	for i, st := range data {
		id := strings.TrimSpace(st.ID)
		if id == "" {
			return nil, fmt.Errorf("seed stations: station at index %d has empty id", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("seed stations: duplicate id %q", id)
		}
		seen[id] = struct{}{}

		if st.PricePerKWh < 0 {
			return nil, fmt.Errorf("seed stations: station %q has negative price", id)
		}
		for j, r := range st.Reservations {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("seed stations: station %q reservation #%d: %w", id, j+1, err)
			}
		}
		data[i].ID = id
	}

	return data, nil
}

// Populate the database with station data from a JSON file.
// Existing stations with the same id are replaced with their reservations.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	stations, err := ReadSeedFile(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert, err := tx.PrepareContext(ctx, `
	INSERT INTO stations (id, name, lat, lng, power_class, price_per_kwh, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		power_class = EXCLUDED.power_class,
		price_per_kwh = EXCLUDED.price_per_kwh,
		sort_order = EXCLUDED.sort_order;
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare upsert: %w", err)
	}
	defer upsert.Close()

	insertRes, err := tx.PrepareContext(ctx, `
	INSERT INTO station_reservations (station_id, position, start_minute, end_minute)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare reservation insert: %w", err)
	}
	defer insertRes.Close()

	for i, st := range stations {
		if _, err := upsert.ExecContext(ctx,
			st.ID, st.Name, st.Coordinate.Lat, st.Coordinate.Lng, string(st.PowerClass), st.PricePerKWh, i,
		); err != nil {
			return fmt.Errorf("seed stations: upsert id=%q: %w", st.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM station_reservations WHERE station_id = $1;`, st.ID); err != nil {
			return fmt.Errorf("seed stations: clear reservations id=%q: %w", st.ID, err)
		}
		for pos, r := range st.Reservations {
			if _, err := insertRes.ExecContext(ctx, st.ID, pos+1, r.Start.Minutes(), r.End.Minutes()); err != nil {
				return fmt.Errorf("seed stations: insert reservation id=%q: %w", st.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
