package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Optional persistent cache for routing results, keyed by waypoint list.
type RouteCache interface {
	Get(ctx context.Context, key string) (domain.RouteSummary, bool, error)
	Put(ctx context.Context, key string, summary domain.RouteSummary) error
}
