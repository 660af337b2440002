package ports

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
)

// ErrNoRoute is the routing collaborator's explicit "no route" outcome.
var ErrNoRoute = errors.New("no route found")

// Contract for retrieving routed distance, duration and geometry.
type RouteProvider interface {
	// Route returns a summary for the ordered waypoints (2 or 3 points).
	// Points not adjacent to a road are snapped within the provider's tolerance.
	Route(ctx context.Context, waypoints []domain.Coordinate) (domain.RouteSummary, error)
}
