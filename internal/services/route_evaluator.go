package services

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// routeOutcome is the settled result of one routing request.
type routeOutcome struct {
	summary domain.RouteSummary
	err     error
}

// fetchRoutes issues the direct request and one origin->station->destination
// request per candidate concurrently, then waits for all of them to settle.
//
// Results keep candidate order regardless of completion order. A failed or empty
// candidate route only drops that candidate; a failed direct route is fatal.
func fetchRoutes(
	ctx context.Context,
	provider ports.RouteProvider,
	metrics *obs.Metrics,
	origin domain.Coordinate,
	destination domain.Coordinate,
	candidates []Candidate,
) (_ domain.RouteSummary, _ []routeOutcome, err error) {
	defer obs.Time(ctx, "evaluator.fetchRoutes")(&err)

	var direct routeOutcome
	outcomes := make([]routeOutcome, len(candidates))

	var g errgroup.Group
	g.Go(func() error {
		direct = requestRoute(ctx, provider, origin, destination)
		return nil
	})
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = requestRoute(ctx, provider, origin, c.Station.Coordinate, destination)
			return nil
		})
	}
	_ = g.Wait()

	if direct.err != nil {
		metrics.RoutingRequest("direct", "unavailable")
		return domain.RouteSummary{}, nil, fmt.Errorf("%w: %w", domain.ErrRouteUnavailable, direct.err)
	}
	metrics.RoutingRequest("direct", "ok")

	logger := zerolog.Ctx(ctx)
	for i, o := range outcomes {
		if o.err != nil {
			metrics.RoutingRequest("candidate", "unavailable")
			logger.Info().
				Str("station_id", candidates[i].Station.ID).
				Err(o.err).
				Msg("candidate route unavailable, dropping option")
			continue
		}
		metrics.RoutingRequest("candidate", "ok")
	}

	return direct.summary, outcomes, nil
}

// requestRoute treats transport failures, "no route" and empty results alike.
func requestRoute(ctx context.Context, provider ports.RouteProvider, waypoints ...domain.Coordinate) routeOutcome {
	summary, err := provider.Route(ctx, waypoints)
	if err != nil {
		return routeOutcome{err: err}
	}
	if summary.DistanceKm <= 0 {
		return routeOutcome{err: fmt.Errorf("empty route: %w", ports.ErrNoRoute)}
	}
	return routeOutcome{summary: summary}
}

// errUnreachable marks a candidate that cannot be reached with the safety margin.
var errUnreachable = errors.New("station unreachable with current charge")

// evaluateStop derives charge, time and cost for a single charging stop.
//
// Range to the station uses the straight-line estimate, while the remaining leg
// uses the routed total minus that estimate. The two quantities are kept apart.
func evaluateStop(
	cfg EngineConfig,
	vehicle domain.VehicleProfile,
	req domain.TripRequest,
	margin float64,
	candidate Candidate,
	route domain.RouteSummary,
) (domain.EvaluatedOption, error) {
	st := candidate.Station

	toStationKm := domain.StraightLineKm(req.Origin, st.Coordinate, cfg.KmPerDegree)
	arrivalCharge := req.StartingChargePercent - vehicle.ConsumedPercent(toStationKm)
	if arrivalCharge < margin {
		return domain.EvaluatedOption{}, fmt.Errorf(
			"%w: arrival charge %.1f%% below margin %.1f%%",
			errUnreachable, arrivalCharge, margin,
		)
	}

	neededPercent := max(0, cfg.TargetChargePercent-arrivalCharge)
	neededKWh := vehicle.EnergyKWh(neededPercent)

	chargingMinutes := 0.0
	if neededPercent > 0 {
		chargingMinutes = neededKWh/cfg.powerKW(st.PowerClass)*60 + cfg.PlugOverheadMinutes
	}

	departureCharge := max(arrivalCharge, cfg.TargetChargePercent)
	finalCharge := departureCharge - vehicle.ConsumedPercent(route.DistanceKm-toStationKm)

	driveToStation := route.DurationMinutes * (toStationKm / route.DistanceKm)
	wait := ConflictWait(cfg.ConflictPolicy, st.Reservations, req.Departure, driveToStation, chargingMinutes)

	total := route.DurationMinutes + chargingMinutes + wait

	score := domain.ScoreOf(total + st.PricePerKWh*cfg.PriceWeight)
	if finalCharge <= 0 {
		score = domain.InfeasibleScore()
	}

	station := st
	return domain.EvaluatedOption{
		Message:                fmt.Sprintf(msgStopRoute, st.Name),
		Station:                &station,
		Route:                  route,
		RemainingChargePercent: finalCharge,
		ArrivalChargePercent:   arrivalCharge,
		DriveToStationMinutes:  driveToStation,
		ChargingMinutes:        chargingMinutes,
		WaitMinutes:            wait,
		TotalMinutes:           total,
		ChargingCost:           neededKWh * st.PricePerKWh,
		Score:                  score,
		RangeInsufficient:      finalCharge <= 0,
	}, nil
}
