// internal/field/field.go
//
// Spatial store for land mines.
// Responsibilities:
//   - Hold the set of unique mine locations for one round.
//   - Answer proximity queries (all mines strictly within a radius, nearest first).
//
// Notes:
//   - Membership is a plain map keyed by geom.Location.
//   - Proximity queries go through an R-tree; points are stored as degenerate rects.

package field

import (
	"slices"

	"github.com/tidwall/rtree"

	"github.com/robalobadob/chainreaction/internal/geom"
)

// Store is the spatial store the propagator and the selection logic rely on.
type Store interface {
	// Add inserts a mine; adding an existing location is a no-op.
	Add(loc geom.Location)

	// Contains reports whether loc is a mine.
	Contains(loc geom.Location) bool

	// NearestWithin returns every mine strictly closer than radius to loc,
	// nearest first, ties broken by geom.Compare. loc itself is included
	// when it is a mine.
	NearestWithin(loc geom.Location, radius float64) []geom.Location

	// Size returns the number of mines.
	Size() int
}

// Field is the R-tree backed Store.
type Field struct {
	tree  rtree.RTreeG[geom.Location]
	mines map[geom.Location]struct{}
}

// New returns an empty field, optionally seeded with locs.
func New(locs ...geom.Location) *Field {
	f := &Field{mines: make(map[geom.Location]struct{}, len(locs))}
	for _, l := range locs {
		f.Add(l)
	}
	return f
}

// Add inserts loc unless it is already present.
func (f *Field) Add(loc geom.Location) {
	if _, ok := f.mines[loc]; ok {
		return
	}
	f.mines[loc] = struct{}{}
	pt := [2]float64{loc.X, loc.Y}
	f.tree.Insert(pt, pt, loc)
}

func (f *Field) Contains(loc geom.Location) bool {
	_, ok := f.mines[loc]
	return ok
}

func (f *Field) Size() int { return len(f.mines) }

// NearestWithin searches the bounding square of the circle and keeps the hits
// strictly inside it.
func (f *Field) NearestWithin(loc geom.Location, radius float64) []geom.Location {
	if radius <= 0 {
		return nil
	}
	lo := [2]float64{loc.X - radius, loc.Y - radius}
	hi := [2]float64{loc.X + radius, loc.Y + radius}

	var out []geom.Location
	f.tree.Search(lo, hi, func(_, _ [2]float64, m geom.Location) bool {
		if geom.InRange(loc, m, radius) {
			out = append(out, m)
		}
		return true
	})
	slices.SortFunc(out, func(a, b geom.Location) int {
		da, db := geom.Dist(loc, a), geom.Dist(loc, b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return geom.Compare(a, b)
	})
	return out
}

// Locations returns all mines in geom.Compare order.
func (f *Field) Locations() []geom.Location {
	out := make([]geom.Location, 0, len(f.mines))
	for l := range f.mines {
		out = append(out, l)
	}
	slices.SortFunc(out, geom.Compare)
	return out
}
