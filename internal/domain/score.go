package domain

import (
	"encoding/json"
	"fmt"
)

// ScoreKind tags how an option ranks before numeric comparison.
type ScoreKind int

const (
	// StronglyPreferred always wins; used when a stop is clearly unnecessary.
	StronglyPreferred ScoreKind = iota
	// Scored compares by Value; lower is better.
	Scored
	// Infeasible always loses.
	Infeasible
)

func (k ScoreKind) String() string {
	switch k {
	case StronglyPreferred:
		return "strongly_preferred"
	case Scored:
		return "scored"
	case Infeasible:
		return "infeasible"
	default:
		return fmt.Sprintf("ScoreKind(%d)", int(k))
	}
}

// Score is a unit-less minimisation target with an explicit total order:
// StronglyPreferred < Scored(a) < Scored(b) (a < b) < Infeasible.
type Score struct {
	Kind  ScoreKind
	Value float64
}

func ScoreOf(v float64) Score { return Score{Kind: Scored, Value: v} }

func InfeasibleScore() Score { return Score{Kind: Infeasible} }

func PreferredScore() Score { return Score{Kind: StronglyPreferred} }

// Less reports whether s ranks strictly before other. Equal scores never replace each other.
func (s Score) Less(other Score) bool {
	if s.Kind != other.Kind {
		return s.Kind < other.Kind
	}
	if s.Kind != Scored {
		return false
	}
	return s.Value < other.Value
}

func (s Score) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  string   `json:"kind"`
		Value *float64 `json:"value,omitempty"`
	}{Kind: s.Kind.String()}
	if s.Kind == Scored {
		v := s.Value
		out.Value = &v
	}
	return json.Marshal(out)
}
