package domain

// Immutable vehicle characteristics used for charge modelling.
type VehicleProfile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RangeKm     float64 `json:"rangeKm"`
	CapacityKWh float64 `json:"capacityKWh"`
}

// ConsumedPercent is the share of a full battery needed to drive km.
func (v VehicleProfile) ConsumedPercent(km float64) float64 {
	return km / v.RangeKm * 100
}

// EnergyKWh converts a charge percentage into energy.
func (v VehicleProfile) EnergyKWh(percent float64) float64 {
	return percent / 100 * v.CapacityKWh
}

// Static vehicle catalog keyed by id.
type VehicleCatalog struct {
	Vehicles  map[string]VehicleProfile
	DefaultID string
}

// Lookup returns the profile for id, falling back to the default vehicle.
func (c VehicleCatalog) Lookup(id string) (VehicleProfile, bool) {
	if v, ok := c.Vehicles[id]; ok {
		return v, true
	}
	v, ok := c.Vehicles[c.DefaultID]
	return v, ok
}
