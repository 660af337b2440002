package routing

import (
	"context"
	"encoding/json"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, srv *httptest.Server) *ORSRouteProvider {
	t.Helper()
	p, err := NewORSRouteProvider(ORSConfig{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)
	p.backoff = time.Millisecond
	return p
}

func TestORSRouteProviderRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Authorization"))

		var body directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{29.0, 41.0}, {30.0, 40.5}, {32.8, 39.9}}, body.Coordinates)
		assert.Equal(t, []float64{5000, 5000, 5000}, body.Radiuses)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[{"summary":{"distance":452349.7,"duration":16259},"geometry":"abc"}]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	got, err := p.Route(context.Background(), []domain.Coordinate{
		{Lat: 41.0, Lng: 29.0},
		{Lat: 40.5, Lng: 30.0},
		{Lat: 39.9, Lng: 32.8},
	})
	require.NoError(t, err)

	assert.Equal(t, 452.3, got.DistanceKm)
	assert.Equal(t, 271.0, got.DurationMinutes)
	assert.JSONEq(t, `"abc"`, string(got.Geometry))
}

func TestORSRouteProviderNotFoundIsNoRoute(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":2010,"message":"Could not find routable point within a radius of 5000.0 meters"}}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	_, err := p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	assert.ErrorIs(t, err, ports.ErrNoRoute)
	assert.ErrorContains(t, err, "code 2010")
	assert.ErrorContains(t, err, "routable point")
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSRouteProviderEmptyRoutesIsNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	_, err := p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	assert.ErrorIs(t, err, ports.ErrNoRoute)
}

func TestORSRouteProviderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"routes":[{"summary":{"distance":1000,"duration":60}}]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	got, err := p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.DistanceKm)
	assert.Equal(t, int32(3), calls.Load())
}

func TestORSRouteProviderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	_, err := p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNoRoute)
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSRouteProviderRejectsWaypointCount(t *testing.T) {
	p, err := NewORSRouteProvider(ORSConfig{APIKey: "k"})
	require.NoError(t, err)

	_, err = p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}})
	assert.Error(t, err)
}

func TestNewORSRouteProviderRequiresKey(t *testing.T) {
	_, err := NewORSRouteProvider(ORSConfig{})
	assert.Error(t, err)
}

func TestORSRouteProviderRetriesRateLimitWithRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
			return
		}
		_, _ = w.Write([]byte(`{"routes":[{"summary":{"distance":2000,"duration":120}}]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	start := time.Now()
	got, err := p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.NoError(t, err)

	assert.Equal(t, 2.0, got.DistanceKm)
	assert.Equal(t, int32(2), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestORSRouteProviderDecodesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":2004,"message":"Request parameters exceed the server configuration limits."}}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	_, err := p.Route(context.Background(), []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})

	var apiErr *orsAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 2004, apiErr.Code)
	assert.Equal(t, "Request parameters exceed the server configuration limits.", apiErr.Message)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-5", 0},
		{"600", maxRetryAfter},
		{now.Add(4 * time.Second).Format(http.TimeFormat), 4 * time.Second},
		{"soon", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseRetryAfter(tc.in, now))
		})
	}
}
