package domain

import "gonum.org/v1/gonum/floats"

// Immutable geographic coordinate in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinate as [lng, lat] for external API compatibility.
func (c Coordinate) LngLat() []float64 { return []float64{c.Lng, c.Lat} }

func (c Coordinate) valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// ApproximateDistance is the planar Euclidean norm of the raw latitude/longitude delta.
//
// The result is in degrees and is only meaningful for ranking points relative to
// each other. It ignores meridian convergence, so it overstates east-west
// separation away from the equator and is unreliable near the poles.
// It must never be mixed up with a routed distance.
func ApproximateDistance(a, b Coordinate) float64 {
	return floats.Distance([]float64{a.Lat, a.Lng}, []float64{b.Lat, b.Lng}, 2)
}

// StraightLineKm converts an approximate distance to kilometres using a fixed
// km-per-degree factor.
func StraightLineKm(a, b Coordinate, kmPerDegree float64) float64 {
	return ApproximateDistance(a, b) * kmPerDegree
}
