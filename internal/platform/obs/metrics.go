package obs

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	tripPlans    *prometheus.CounterVec
	planDuration prometheus.Histogram
	routing      *prometheus.CounterVec
	reservations *prometheus.CounterVec
	routeCache   *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. A nil registerer defaults to the global one.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		tripPlans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_trip_plans_total",
			Help: "Trip plans by outcome",
		}, []string{"outcome"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evroute_trip_plan_duration_seconds",
			Help:    "End-to-end trip planning latency",
			Buckets: prometheus.DefBuckets,
		}),
		routing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_routing_requests_total",
			Help: "Routing requests by option kind and result",
		}, []string{"kind", "result"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_reservations_total",
			Help: "Reservation attempts by result",
		}, []string{"result"}),
		routeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_route_cache_total",
			Help: "Route cache lookups by result",
		}, []string{"result"}),
	}

	var err error
	m.tripPlans = register(reg, m.tripPlans, &err)
	m.planDuration = register(reg, m.planDuration, &err)
	m.routing = register(reg, m.routing, &err)
	m.reservations = register(reg, m.reservations, &err)
	m.routeCache = register(reg, m.routeCache, &err)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// register reuses an already registered collector of the same shape.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, errp *error) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		if *errp == nil {
			*errp = err
		}
	}
	return c
}

func (m *Metrics) ObserveTripPlan(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.tripPlans.WithLabelValues(outcome).Inc()
	m.planDuration.Observe(d.Seconds())
}

func (m *Metrics) RoutingRequest(kind, result string) {
	if m == nil {
		return
	}
	m.routing.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Reservation(result string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(result).Inc()
}

func (m *Metrics) RouteCache(result string) {
	if m == nil {
		return
	}
	m.routeCache.WithLabelValues(result).Inc()
}
