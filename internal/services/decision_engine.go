package services

import (
	"ev-route-service/internal/domain"
)

const (
	msgDirect           = "Shortest route (direct)"
	msgDirectNoRange    = "Range insufficient (direct)"
	msgDirectSufficient = "Charge sufficient: direct route recommended"
	msgTripImpossible   = "Insufficient charge: no station can be reached"
	msgStopRoute        = "Smart route via %s"
)

// evaluateDirect scores the direct path against the routed distance.
//
// Negative remaining charge is infeasible. Remaining charge above the ample
// threshold is strongly preferred so that no stop is ever suggested. Otherwise the
// direct route gets a neutral baseline: its duration plus the market price cost
// and a fixed overhead for not charging somewhere cheaper.
func evaluateDirect(cfg EngineConfig, vehicle domain.VehicleProfile, req domain.TripRequest, route domain.RouteSummary) domain.EvaluatedOption {
	remaining := req.StartingChargePercent - vehicle.ConsumedPercent(route.DistanceKm)

	opt := domain.EvaluatedOption{
		Message:                msgDirect,
		Route:                  route,
		RemainingChargePercent: remaining,
		TotalMinutes:           route.DurationMinutes,
	}

	switch {
	case remaining < 0:
		opt.Score = domain.InfeasibleScore()
		opt.Message = msgDirectNoRange
		opt.RangeInsufficient = true
	case remaining > cfg.AmpleChargePercent:
		opt.Score = domain.PreferredScore()
		opt.Message = msgDirectSufficient
	default:
		opt.Score = domain.ScoreOf(route.DurationMinutes + cfg.MarketPricePerKWh*cfg.PriceWeight + cfg.DirectOverheadMinutes)
	}

	return opt
}

// decide picks the best option. Candidates replace the current best only on a
// strictly lower score; the direct option stays the untouched baseline.
func decide(cfg EngineConfig, direct domain.EvaluatedOption, stops []domain.EvaluatedOption) domain.Recommendation {
	best := direct
	for _, s := range stops {
		if s.Score.Less(best.Score) {
			best = s
		}
	}

	if best.IsDirect() && direct.RangeInsufficient {
		best.Message = msgTripImpossible
		best.Impossible = true
	}

	if !direct.RangeInsufficient && direct.RemainingChargePercent > cfg.AmpleChargePercent {
		best = direct
	}

	return domain.Recommendation{Recommended: best, Direct: direct}
}
