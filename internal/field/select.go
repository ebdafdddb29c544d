// internal/field/select.go
//
// Click selection: resolve a point to the mine drawn under it.

package field

import (
	"errors"

	"github.com/robalobadob/chainreaction/internal/geom"
)

// ErrNoMine is returned when a click does not land on any mine.
var ErrNoMine = errors.New("field: no mine at that point")

// Select returns the mine nearest to click that lies strictly within radius
// (the mine's drawn radius). Callers reprompt on ErrNoMine.
func Select(s Store, click geom.Location, radius float64) (geom.Location, error) {
	hits := s.NearestWithin(click, radius)
	if len(hits) == 0 {
		return geom.Location{}, ErrNoMine
	}
	return hits[0], nil
}
