// internal/round/types.go
//
// Core type definitions for a Chain Reaction round.
// Defines:
//   - Config: field generation, propagation and scoring settings.
//   - Round: state for a single round (field, selection, outcome).

package round

import (
	"sync"
	"time"

	"github.com/robalobadob/chainreaction/internal/chain"
	"github.com/robalobadob/chainreaction/internal/field"
	"github.com/robalobadob/chainreaction/internal/geom"
)

// Config bundles everything needed to build and play a round.
type Config struct {
	Gen        field.GenConfig
	Chain      chain.Config
	MineRadius float64 // a click selects a mine strictly closer than this
	Scoring    string  // chain.ScoringFixed | ScoringWave | ScoringProximity
	ScoreBase  int
}

// DefaultConfig mirrors the classic game constants.
func DefaultConfig() Config {
	gen := field.DefaultGenConfig()
	return Config{
		Gen:        gen,
		Chain:      chain.DefaultConfig(),
		MineRadius: gen.MinSeparation / 3,
		Scoring:    chain.ScoringWave,
		ScoreBase:  100,
	}
}

// Round holds the state of a single game round.
type Round struct {
	ID        string    // UUID
	Seed      int64     // field generation seed
	Config    Config    // settings the round was built with
	StartedAt time.Time // creation time (UTC)
	Daily     string    // date key of a daily-challenge round; empty in free play

	mu         sync.Mutex
	field      *field.Field
	scorer     chain.Scorer
	selection  *geom.Location
	result     *chain.Result
	finishedAt time.Time
}
