package routing

import (
	"ev-route-service/internal/domain"
	"strconv"
	"strings"
)

// Key builds a stable cache key for a waypoint list (about 1 m precision).
func Key(waypoints []domain.Coordinate) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts,
			strconv.FormatFloat(w.Lat, 'f', 5, 64)+","+strconv.FormatFloat(w.Lng, 'f', 5, 64))
	}
	return strings.Join(parts, ";")
}
