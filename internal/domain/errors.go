package domain

import "errors"

var (
	// ErrInvalidRequest marks missing or malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStationNotFound is returned when a reservation targets an unknown station.
	ErrStationNotFound = errors.New("station not found")
	// ErrRouteUnavailable is returned when the mandatory direct route cannot be computed.
	ErrRouteUnavailable = errors.New("direct route unavailable")
)
