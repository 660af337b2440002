package services

import (
	"cmp"
	"ev-route-service/internal/domain"
	"slices"
)

// Candidate is a station that passed pre-filtering, with its ranking inputs.
type Candidate struct {
	Station         domain.Station
	DeviationFactor float64
	Score           float64
	// FromOrigin is the approximate (degree) distance from the trip origin.
	FromOrigin float64
}

// Selection is the bounded candidate set plus the safety margin that applies to it.
type Selection struct {
	Candidates          []Candidate
	SafetyMarginPercent float64
	Critical            bool
}

// typeMultiplier penalises slow stations more the fuller the battery already is.
func typeMultiplier(pc domain.PowerClass, startingCharge float64) float64 {
	if pc.IsFast() {
		return 1.0
	}

	switch {
	case startingCharge > 80:
		return 3.0
	case startingCharge > 50:
		return 2.0
	case startingCharge > 30:
		return 1.2
	default:
		return 1.0
	}
}

// SelectCandidates ranks stations into a small evaluation set to cap routing calls.
//
// At or below the critical charge only reachability matters: the nearest stations
// to the origin are taken and no safety margin applies. Otherwise stations with an
// acceptable detour are ranked by price, power class and detour.
// Sorting is stable, so ties keep the repository's order.
func SelectCandidates(
	cfg EngineConfig,
	stations []domain.Station,
	origin domain.Coordinate,
	destination domain.Coordinate,
	startingCharge float64,
) Selection {
	direct := domain.ApproximateDistance(origin, destination)

	all := make([]Candidate, 0, len(stations))
	for _, st := range stations {
		toStation := domain.ApproximateDistance(origin, st.Coordinate)
		toDestination := domain.ApproximateDistance(st.Coordinate, destination)
		deviation := (toStation + toDestination) / direct

		all = append(all, Candidate{
			Station:         st,
			DeviationFactor: deviation,
			Score:           st.PricePerKWh * typeMultiplier(st.PowerClass, startingCharge) * deviation * deviation,
			FromOrigin:      toStation,
		})
	}

	if startingCharge <= cfg.CriticalChargePercent {
		slices.SortStableFunc(all, func(a, b Candidate) int {
			return cmp.Compare(a.FromOrigin, b.FromOrigin)
		})
		return Selection{
			Candidates:          all[:min(cfg.CriticalCandidates, len(all))],
			SafetyMarginPercent: cfg.CriticalSafetyMargin,
			Critical:            true,
		}
	}

	kept := make([]Candidate, 0, len(all))
	for _, c := range all {
		if c.DeviationFactor < cfg.MaxDeviationFactor {
			kept = append(kept, c)
		}
	}
	slices.SortStableFunc(kept, func(a, b Candidate) int {
		return cmp.Compare(a.Score, b.Score)
	})

	return Selection{
		Candidates:          kept[:min(cfg.MaxCandidates, len(kept))],
		SafetyMarginPercent: cfg.SafetyMarginPercent,
	}
}
