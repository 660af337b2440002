package routing

import (
	"context"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"fmt"
	"sync"
)

type MockRoute struct {
	Waypoints []domain.Coordinate
	Summary   domain.RouteSummary
	Err       error
}

// MockRouteProvider serves canned routes keyed by waypoint list. Unknown
// waypoint lists yield ports.ErrNoRoute.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[string]MockRoute
	calls map[string]int
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	m := make(map[string]MockRoute, len(routes))
	for _, r := range routes {
		m[Key(r.Waypoints)] = r
	}
	return &MockRouteProvider{m: m, calls: make(map[string]int)}
}

func (p *MockRouteProvider) Route(ctx context.Context, waypoints []domain.Coordinate) (domain.RouteSummary, error) {
	key := Key(waypoints)

	p.mu.Lock()
	p.calls[key]++
	r, ok := p.m[key]
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.RouteSummary{}, err
	}
	if !ok {
		return domain.RouteSummary{}, fmt.Errorf("mock route %s: %w", key, ports.ErrNoRoute)
	}
	if r.Err != nil {
		return domain.RouteSummary{}, r.Err
	}
	return r.Summary, nil
}

// Calls reports how many times the waypoint list was requested.
func (p *MockRouteProvider) Calls(waypoints ...domain.Coordinate) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[Key(waypoints)]
}
