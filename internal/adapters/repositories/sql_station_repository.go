package repositories

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
)

// PostgreSQL-backed implementation of the StationRepository port.
type SQLStationRepository struct{ DB *sql.DB }

func NewSQLStationRepository(db *sql.DB) *SQLStationRepository {
	return &SQLStationRepository{DB: db}
}

// Return all stations with their reservations in insertion order.
func (s *SQLStationRepository) ListStations(ctx context.Context) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql station repository: DB is nil")
	}

	query := `
	SELECT
		s.id,
		s.name,
		s.lat,
		s.lng,
		s.power_class,
		s.price_per_kwh,
		r.start_minute,
		r.end_minute
	FROM stations s
	LEFT JOIN station_reservations r ON r.station_id = s.id
	ORDER BY s.sort_order, s.id, r.position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var (
			st         domain.Station
			powerClass string
			start, end sql.NullInt64
		)
		if err := rows.Scan(
			&st.ID, &st.Name, &st.Coordinate.Lat, &st.Coordinate.Lng,
			&powerClass, &st.PricePerKWh, &start, &end,
		); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}

		if n := len(stations); n == 0 || stations[n-1].ID != st.ID {
			st.PowerClass = domain.PowerClass(powerClass)
			st.Reservations = []domain.ReservationInterval{}
			stations = append(stations, st)
		}
		if start.Valid && end.Valid {
			last := &stations[len(stations)-1]
			last.Reservations = append(last.Reservations, domain.ReservationInterval{
				Start: domain.TimeOfDay(start.Int64),
				End:   domain.TimeOfDay(end.Int64),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}

// AddReservation locks the station row so concurrent writers append in turn.
func (s *SQLStationRepository) AddReservation(
	ctx context.Context,
	stationID string,
	r domain.ReservationInterval,
) (_ domain.Station, err error) {
	defer obs.Time(ctx, "stations.sql.AddReservation")(&err)

	if s.DB == nil {
		return domain.Station{}, errors.New("sql station repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Station{}, fmt.Errorf("add reservation: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		st         domain.Station
		powerClass string
	)
	err = tx.QueryRowContext(ctx, `
	SELECT id, name, lat, lng, power_class, price_per_kwh
	FROM stations
	WHERE id = $1
	FOR UPDATE;
	`, stationID).Scan(&st.ID, &st.Name, &st.Coordinate.Lat, &st.Coordinate.Lng, &powerClass, &st.PricePerKWh)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Station{}, fmt.Errorf("add reservation: id %q: %w", stationID, domain.ErrStationNotFound)
	}
	if err != nil {
		return domain.Station{}, fmt.Errorf("add reservation: lock station %q: %w", stationID, err)
	}
	st.PowerClass = domain.PowerClass(powerClass)

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO station_reservations (station_id, position, start_minute, end_minute)
	SELECT $1, COALESCE(MAX(position), 0) + 1, $2, $3
	FROM station_reservations
	WHERE station_id = $1;
	`, stationID, r.Start.Minutes(), r.End.Minutes()); err != nil {
		return domain.Station{}, fmt.Errorf("add reservation: insert for %q: %w", stationID, err)
	}

	rows, err := tx.QueryContext(ctx, `
	SELECT start_minute, end_minute
	FROM station_reservations
	WHERE station_id = $1
	ORDER BY position;
	`, stationID)
	if err != nil {
		return domain.Station{}, fmt.Errorf("add reservation: reload reservations: %w", err)
	}
	defer rows.Close()

	st.Reservations = []domain.ReservationInterval{}
	for rows.Next() {
		var start, end int
		if err := rows.Scan(&start, &end); err != nil {
			return domain.Station{}, fmt.Errorf("add reservation: scan reservation: %w", err)
		}
		st.Reservations = append(st.Reservations, domain.ReservationInterval{
			Start: domain.TimeOfDay(start),
			End:   domain.TimeOfDay(end),
		})
	}
	if err := rows.Err(); err != nil {
		return domain.Station{}, fmt.Errorf("add reservation: row iteration: %w", err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return domain.Station{}, fmt.Errorf("add reservation: commit tx: %w", err)
	}

	return st, nil
}
