package routing

import (
	"context"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CachedRouteProvider consults a RouteCache before the wrapped provider and
// collapses concurrent lookups of the same waypoint list into one call.
// Failures, including "no route", are never cached.
type CachedRouteProvider struct {
	next    ports.RouteProvider
	cache   ports.RouteCache
	metrics *obs.Metrics
	group   singleflight.Group
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache, metrics *obs.Metrics) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache, metrics: metrics}
}

func (c *CachedRouteProvider) Route(ctx context.Context, waypoints []domain.Coordinate) (domain.RouteSummary, error) {
	key := Key(waypoints)
	logger := zerolog.Ctx(ctx)

	if c.cache != nil {
		summary, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.metrics.RouteCache("error")
			logger.Warn().Err(err).Str("key", key).Msg("route cache read failed")
		case ok:
			c.metrics.RouteCache("hit")
			return summary, nil
		default:
			c.metrics.RouteCache("miss")
		}
	}

	// The shared call outlives any single caller's cancellation since other
	// requests may be waiting on it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		summary, err := c.next.Route(shared, waypoints)
		if err != nil {
			return domain.RouteSummary{}, err
		}

		if c.cache != nil {
			if err := c.cache.Put(shared, key, summary); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("route cache write failed")
			}
		}
		return summary, nil
	})
	if err != nil {
		return domain.RouteSummary{}, err
	}

	return v.(domain.RouteSummary), nil
}
