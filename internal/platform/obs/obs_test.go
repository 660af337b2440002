package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LoggingConfig{Level: "warn"}, "test")

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestNewLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LoggingConfig{Level: "loud"}, "test")

	l.Debug().Msg("debug")
	l.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"message":"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}

func TestTimeLogsError(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := l.WithContext(context.Background())

	err := errors.New("boom")
	Time(ctx, "unit.op")(&err)

	assert.Contains(t, buf.String(), `"op":"unit.op"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveTripPlan("direct", 10*time.Millisecond)
	m.RoutingRequest("candidate", "unavailable")
	m.RoutingRequest("candidate", "unavailable")
	m.Reservation("ok")
	m.RouteCache("hit")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tripPlans.WithLabelValues("direct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.routing.WithLabelValues("candidate", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.routeCache.WithLabelValues("hit")))

	// Registering twice on the same registry reuses collectors.
	again, err := NewMetrics(reg)
	require.NoError(t, err)
	again.Reservation("ok")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues("ok")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveTripPlan("direct", time.Second)
	m.RoutingRequest("direct", "ok")
	m.Reservation("ok")
	m.RouteCache("miss")
}
