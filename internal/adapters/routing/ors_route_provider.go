package routing

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"
	"math"
	"net/http"
	"time"
)

// ORSConfig configures the OpenRouteService directions client.
type ORSConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Profile string `json:"profile"`
	// SnapRadiusMeters lets points up to this far from a road snap onto it.
	SnapRadiusMeters float64 `json:"snap_radius_meters"`
	TimeoutSeconds   int     `json:"timeout_seconds"`
	MaxAttempts      int     `json:"max_attempts"`
}

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions endpoint. The provider is safe for concurrent use.
type ORSRouteProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	snapRadius  float64
	maxAttempts int
	backoff     time.Duration
}

func NewORSRouteProvider(cfg ORSConfig) (*ORSRouteProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	provider := &ORSRouteProvider{
		session:     &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		profile:     cfg.Profile,
		snapRadius:  cfg.SnapRadiusMeters,
		maxAttempts: cfg.MaxAttempts,
		backoff:     200 * time.Millisecond,
	}
	if provider.baseURL == "" {
		provider.baseURL = "https://api.openrouteservice.org"
	}
	if provider.profile == "" {
		provider.profile = "driving-car"
	}
	if provider.snapRadius <= 0 {
		provider.snapRadius = 5000
	}
	if provider.maxAttempts <= 0 {
		provider.maxAttempts = 4
	}

	return provider, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Radiuses    []float64   `json:"radiuses"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

// Route fetches a driving route through the waypoints.
// Unroutable points (404) and empty responses map to ports.ErrNoRoute.
func (o *ORSRouteProvider) Route(
	ctx context.Context,
	waypoints []domain.Coordinate,
) (_ domain.RouteSummary, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if len(waypoints) < 2 || len(waypoints) > 3 {
		return domain.RouteSummary{}, fmt.Errorf("ORS route: expected 2 or 3 waypoints, got %d", len(waypoints))
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	bodyObj := directionsRequest{
		Coordinates: make([][]float64, 0, len(waypoints)),
		Radiuses:    make([]float64, 0, len(waypoints)),
	}
	for _, w := range waypoints {
		bodyObj.Coordinates = append(bodyObj.Coordinates, w.LngLat())
		bodyObj.Radiuses = append(bodyObj.Radiuses, o.snapRadius)
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return domain.RouteSummary{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.postWithRetry(ctx, endpoint, payload)
	if err != nil {
		return domain.RouteSummary{}, fmt.Errorf("ORS route: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.RouteSummary{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return domain.RouteSummary{}, fmt.Errorf("ORS route: empty routes: %w", ports.ErrNoRoute)
	}

	r := dr.Routes[0]

	// ORS reports metres and seconds; keep 0.1 km and whole-minute resolution.
	return domain.RouteSummary{
		DistanceKm:      math.Round(r.Summary.Distance/100) / 10,
		DurationMinutes: math.Round(r.Summary.Duration / 60),
		Geometry:        r.Geometry,
	}, nil
}
