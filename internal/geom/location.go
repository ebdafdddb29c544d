// internal/geom/location.go
//
// Planar locations used for mines, clicks and proximity tests.
// Coordinates are real-valued (inches in the default field geometry).

package geom

import (
	"cmp"
	"math"
)

// Location is a point on the field. It is comparable and can be used
// directly as a map key; two locations are equal iff both coordinates match.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Compare imposes a total order on locations: by X, then by Y.
// Returns a negative number if a < b, zero if equal, positive otherwise.
func Compare(a, b Location) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Location) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// InRange reports whether a and b are strictly closer than d.
func InRange(a, b Location, d float64) bool {
	return Dist(a, b) < d
}
