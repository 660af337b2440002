package services

import (
	"errors"
	"ev-route-service/internal/domain"
	"fmt"
)

// ConflictPolicy selects how reservation conflicts turn into wait time.
type ConflictPolicy string

const (
	// FirstOverlap waits for the first overlapping reservation in stored order only.
	FirstOverlap ConflictPolicy = "first-overlap"
	// ClearSlot pushes the arrival past every overlapping reservation until the
	// charging window is free.
	ClearSlot ConflictPolicy = "clear-slot"
)

// EngineConfig holds the vehicle catalog and every tuning constant of the
// route-decision engine.
type EngineConfig struct {
	Vehicles         map[string]domain.VehicleProfile `json:"vehicles"`
	DefaultVehicleID string                           `json:"default_vehicle_id"`

	// Candidate selection.
	MaxCandidates         int     `json:"max_candidates"`
	CriticalCandidates    int     `json:"critical_candidates"`
	CriticalChargePercent float64 `json:"critical_charge_percent"`
	MaxDeviationFactor    float64 `json:"max_deviation_factor"`
	SafetyMarginPercent   float64 `json:"safety_margin_percent"`
	CriticalSafetyMargin  float64 `json:"critical_safety_margin_percent"`

	// Charge and time modelling.
	TargetChargePercent float64 `json:"target_charge_percent"`
	FastPowerKW         float64 `json:"fast_power_kw"`
	SlowPowerKW         float64 `json:"slow_power_kw"`
	PlugOverheadMinutes float64 `json:"plug_overhead_minutes"`
	KmPerDegree         float64 `json:"km_per_degree"`

	// Scoring.
	AmpleChargePercent    float64 `json:"ample_charge_percent"`
	PriceWeight           float64 `json:"price_weight"`
	MarketPricePerKWh     float64 `json:"market_price_per_kwh"`
	DirectOverheadMinutes float64 `json:"direct_overhead_minutes"`

	ConflictPolicy ConflictPolicy `json:"conflict_policy"`

	// Trip defaults applied when the caller omits a field.
	DefaultStartingChargePercent float64 `json:"default_starting_charge_percent"`
	DefaultDeparture             string  `json:"default_departure"`
}

// DefaultEngineConfig returns the production tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Vehicles: map[string]domain.VehicleProfile{
			"togg":  {ID: "togg", Name: "Togg T10X V2", RangeKm: 523, CapacityKWh: 88.5},
			"tesla": {ID: "tesla", Name: "Tesla Model Y LR", RangeKm: 533, CapacityKWh: 75.0},
			"zoe":   {ID: "zoe", Name: "Renault Zoe", RangeKm: 395, CapacityKWh: 52.0},
			"corsa": {ID: "corsa", Name: "Opel Corsa-e", RangeKm: 359, CapacityKWh: 50.0},
		},
		DefaultVehicleID: "togg",

		MaxCandidates:         4,
		CriticalCandidates:    8,
		CriticalChargePercent: 20,
		MaxDeviationFactor:    2.5,
		SafetyMarginPercent:   5,
		CriticalSafetyMargin:  0,

		TargetChargePercent: 80,
		FastPowerKW:         120,
		SlowPowerKW:         22,
		PlugOverheadMinutes: 5,
		KmPerDegree:         111,

		AmpleChargePercent:    20,
		PriceWeight:           5,
		MarketPricePerKWh:     8.5,
		DirectOverheadMinutes: 45,

		ConflictPolicy: FirstOverlap,

		DefaultStartingChargePercent: 100,
		DefaultDeparture:             "09:00",
	}
}

func (c EngineConfig) Validate() error {
	if len(c.Vehicles) == 0 {
		return errors.New("engine config: vehicle catalog is empty")
	}
	if _, ok := c.Vehicles[c.DefaultVehicleID]; !ok {
		return fmt.Errorf("engine config: default vehicle %q is not in the catalog", c.DefaultVehicleID)
	}
	for id, v := range c.Vehicles {
		if v.RangeKm <= 0 || v.CapacityKWh <= 0 {
			return fmt.Errorf("engine config: vehicle %q needs positive range and capacity", id)
		}
	}
	if c.MaxCandidates < 0 || c.CriticalCandidates < 0 {
		return errors.New("engine config: candidate limits must not be negative")
	}
	if c.FastPowerKW <= 0 || c.SlowPowerKW <= 0 {
		return errors.New("engine config: charger powers must be positive")
	}
	if c.TargetChargePercent <= 0 || c.TargetChargePercent > 100 {
		return fmt.Errorf("engine config: target charge %.1f must be in (0, 100]", c.TargetChargePercent)
	}
	if c.KmPerDegree <= 0 {
		return errors.New("engine config: km per degree must be positive")
	}
	if c.MaxDeviationFactor < 1 {
		return fmt.Errorf("engine config: max deviation factor %.2f must be at least 1", c.MaxDeviationFactor)
	}
	switch c.ConflictPolicy {
	case FirstOverlap, ClearSlot:
	default:
		return fmt.Errorf("engine config: unknown conflict policy %q", c.ConflictPolicy)
	}
	if c.DefaultStartingChargePercent < 0 || c.DefaultStartingChargePercent > 100 {
		return errors.New("engine config: default starting charge must be between 0 and 100")
	}
	if _, err := domain.ParseTimeOfDay(c.DefaultDeparture); err != nil {
		return fmt.Errorf("engine config: default departure: %w", err)
	}

	return nil
}

// Catalog exposes the configured vehicles with their default fallback.
func (c EngineConfig) Catalog() domain.VehicleCatalog {
	return domain.VehicleCatalog{Vehicles: c.Vehicles, DefaultID: c.DefaultVehicleID}
}

func (c EngineConfig) powerKW(pc domain.PowerClass) float64 {
	if pc.IsFast() {
		return c.FastPowerKW
	}
	return c.SlowPowerKW
}
