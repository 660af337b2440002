package cache

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"strings"
	"time"
)

// SQLRouteCache is a PostgreSQL-backed cache for routing results.
// Rows older than the TTL are treated as misses.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch a cached route for the waypoint key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.RouteSummary, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.RouteSummary{}, false, errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return domain.RouteSummary{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT distance_km, duration_minutes, geometry, fetched_at
	FROM route_cache
	WHERE cache_key = $1;
	`

	var (
		out        domain.RouteSummary
		geometry  []byte
		fetchedAt time.Time
	)
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&out.DistanceKm, &out.DurationMinutes, &geometry, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RouteSummary{}, false, nil
	}
	if err != nil {
		return domain.RouteSummary{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(fetchedAt) > s.TTL {
		return domain.RouteSummary{}, false, nil
	}

	if len(geometry) > 0 {
		out.Geometry = geometry
	}
	return out, true, nil
}

// Store a route under the waypoint key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, r domain.RouteSummary) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	var geometry []byte
	if len(r.Geometry) > 0 {
		geometry = r.Geometry
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (cache_key, distance_km, duration_minutes, geometry, fetched_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (cache_key) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_minutes = EXCLUDED.duration_minutes,
		geometry = EXCLUDED.geometry,
		fetched_at = EXCLUDED.fetched_at;
	`, key, r.DistanceKm, r.DurationMinutes, geometry, s.now().UTC())
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
