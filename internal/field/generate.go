// internal/field/generate.go
//
// Random field generation by rejection sampling.
// Mines are kept a margin away from the edges and at least MinSeparation
// apart; the same seed always yields the same field.

package field

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/robalobadob/chainreaction/internal/geom"
)

var (
	// ErrInvalidConfig is returned for geometry that cannot hold a field.
	ErrInvalidConfig = errors.New("field: invalid generator config")
	// ErrSaturated is returned when the requested number of mines could not
	// be placed within MaxAttempts proposals.
	ErrSaturated = errors.New("field: could not place all mines")
)

// GenConfig controls random field generation.
type GenConfig struct {
	Width, Height float64 // playing area
	MinMines      int     // inclusive
	MaxMines      int     // inclusive
	MinSeparation float64 // pairwise distance floor, also the edge margin
	MaxAttempts   int     // proposal budget; <= 0 means 10000 per mine
}

// DefaultGenConfig mirrors the classic game: 150–200 mines, 0.15in apart.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:         10,
		Height:        6,
		MinMines:      150,
		MaxMines:      200,
		MinSeparation: 0.15,
	}
}

func (c GenConfig) validate() error {
	switch {
	case c.MinMines <= 0 || c.MaxMines < c.MinMines:
		return fmt.Errorf("%w: mine count range [%d, %d]", ErrInvalidConfig, c.MinMines, c.MaxMines)
	case c.MinSeparation < 0:
		return fmt.Errorf("%w: negative separation", ErrInvalidConfig)
	case c.Width <= 2*c.MinSeparation || c.Height <= 2*c.MinSeparation:
		return fmt.Errorf("%w: %gx%g area too small for margin %g", ErrInvalidConfig, c.Width, c.Height, c.MinSeparation)
	}
	return nil
}

// Generate builds a field by rejection sampling: propose a uniform point
// inside the margins and keep it only if no placed mine is within
// MinSeparation. The same rng state always yields the same field.
func Generate(cfg GenConfig, rng *rand.Rand) (*Field, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	want := cfg.MinMines + rng.Intn(cfg.MaxMines-cfg.MinMines+1)
	budget := cfg.MaxAttempts
	if budget <= 0 {
		budget = want * 10000
	}

	sep := cfg.MinSeparation
	f := New()
	for attempts := 0; f.Size() < want; attempts++ {
		if attempts >= budget {
			return nil, fmt.Errorf("%w: placed %d of %d", ErrSaturated, f.Size(), want)
		}
		p := geom.Location{
			X: sep + rng.Float64()*(cfg.Width-2*sep),
			Y: sep + rng.Float64()*(cfg.Height-2*sep),
		}
		if len(f.NearestWithin(p, sep)) > 0 {
			continue
		}
		f.Add(p)
	}
	return f, nil
}
