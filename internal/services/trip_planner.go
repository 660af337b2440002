package services

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TripPlanner recommends driving direct or stopping once to charge.
// It is safe for concurrent use; each Plan reads the station list afresh.
type TripPlanner struct {
	cfg      EngineConfig
	stations ports.StationRepository
	routes   ports.RouteProvider
	metrics  *obs.Metrics
}

func NewTripPlanner(
	cfg EngineConfig,
	stations ports.StationRepository,
	routes ports.RouteProvider,
	metrics *obs.Metrics,
) (*TripPlanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new trip planner: %w", err)
	}
	if stations == nil || routes == nil {
		return nil, errors.New("new trip planner: station repository and route provider are required")
	}

	return &TripPlanner{cfg: cfg, stations: stations, routes: routes, metrics: metrics}, nil
}

func (p *TripPlanner) Config() EngineConfig { return p.cfg }

// Plan evaluates the direct route and a bounded set of single-stop alternatives.
func (p *TripPlanner) Plan(ctx context.Context, req domain.TripRequest) (_ domain.Recommendation, err error) {
	start := time.Now()
	outcome := "error"
	defer func() { p.metrics.ObserveTripPlan(outcome, time.Since(start)) }()
	defer obs.Time(ctx, "planner.Plan")(&err)

	if err := req.Validate(); err != nil {
		return domain.Recommendation{}, fmt.Errorf("plan trip: %w", err)
	}

	vehicle, ok := p.cfg.Catalog().Lookup(req.VehicleID)
	if !ok {
		return domain.Recommendation{}, fmt.Errorf("plan trip: no profile for vehicle %q", req.VehicleID)
	}

	logger := zerolog.Ctx(ctx).With().
		Str("vehicle", vehicle.ID).
		Float64("start_charge", req.StartingChargePercent).
		Str("departure", req.Departure.String()).
		Logger()

	stations, err := p.stations.ListStations(ctx)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("plan trip: list stations: %w", err)
	}

	sel := SelectCandidates(p.cfg, stations, req.Origin, req.Destination, req.StartingChargePercent)

	ids := make([]string, 0, len(sel.Candidates))
	for _, c := range sel.Candidates {
		ids = append(ids, c.Station.ID)
	}
	logger.Debug().Bool("critical", sel.Critical).Strs("candidates", ids).Msg("candidates selected")

	directRoute, outcomes, err := fetchRoutes(ctx, p.routes, p.metrics, req.Origin, req.Destination, sel.Candidates)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("plan trip: %w", err)
	}

	direct := evaluateDirect(p.cfg, vehicle, req, directRoute)
	logger.Debug().
		Float64("remaining", direct.RemainingChargePercent).
		Str("score", direct.Score.Kind.String()).
		Msg("direct route evaluated")

	stops := make([]domain.EvaluatedOption, 0, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			continue
		}

		c := sel.Candidates[i]
		opt, err := evaluateStop(p.cfg, vehicle, req, sel.SafetyMarginPercent, c, o.summary)
		if err != nil {
			logger.Debug().Str("station_id", c.Station.ID).Err(err).Msg("candidate eliminated")
			continue
		}
		if opt.WaitMinutes > 0 {
			logger.Info().
				Str("station_id", c.Station.ID).
				Float64("wait_min", opt.WaitMinutes).
				Msg("reservation conflict")
		}
		logger.Debug().
			Str("station_id", c.Station.ID).
			Float64("score", opt.Score.Value).
			Float64("total_min", opt.TotalMinutes).
			Msg("candidate evaluated")

		stops = append(stops, opt)
	}

	rec := decide(p.cfg, direct, stops)
	outcome = outcomeLabel(rec)

	logger.Info().Str("outcome", outcome).Str("message", rec.Recommended.Message).Msg("trip planned")
	return rec, nil
}

func outcomeLabel(rec domain.Recommendation) string {
	switch {
	case rec.Recommended.Impossible:
		return "impossible"
	case rec.Recommended.IsDirect():
		return "direct"
	default:
		return "stop"
	}
}
