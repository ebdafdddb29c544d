// internal/round/engine.go
//
// Game engine for a single Chain Reaction round.
// Responsibilities:
//   - Build a round from a seed (deterministic field).
//   - Resolve a click to a mine and run the chain reaction.
//   - Track state transitions: armed → detonated.
//
// A round can be detonated once. A click that misses every mine leaves the
// round playable so the caller can reprompt.

package round

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/chainreaction/internal/chain"
	"github.com/robalobadob/chainreaction/internal/field"
	"github.com/robalobadob/chainreaction/internal/geom"
)

// ErrFinished is returned when a detonated round is detonated again.
var ErrFinished = errors.New("round: already detonated")

// Round states as reported by State.
const (
	StateArmed     = "armed"
	StateDetonated = "detonated"
)

// New constructs a round whose field is generated from seed.
func New(cfg Config, seed int64) (*Round, error) {
	scorer, err := chain.ScorerByName(cfg.Scoring, cfg.ScoreBase)
	if err != nil {
		return nil, err
	}
	f, err := field.Generate(cfg.Gen, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("generate field: %w", err)
	}
	return &Round{
		ID:        uuid.NewString(),
		Seed:      seed,
		Config:    cfg,
		StartedAt: time.Now().UTC(),
		field:     f,
		scorer:    scorer,
	}, nil
}

// Detonate selects the mine under click and follows the chain reaction.
func (r *Round) Detonate(click geom.Location) (chain.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.result != nil {
		return chain.Result{}, ErrFinished
	}
	mine, err := field.Select(r.field, click, r.Config.MineRadius)
	if err != nil {
		return chain.Result{}, err
	}
	res, err := chain.Propagate(mine, r.field, r.Config.Chain, r.scorer)
	if err != nil {
		return chain.Result{}, err
	}
	r.selection = &mine
	r.result = &res
	r.finishedAt = time.Now().UTC()
	return res, nil
}

// Mines returns every mine in location order.
func (r *Round) Mines() []geom.Location {
	return r.field.Locations()
}

// Field exposes the spatial store (read-only use).
func (r *Round) Field() field.Store { return r.field }

// State reports "armed" until the round is detonated.
func (r *Round) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result != nil {
		return StateDetonated
	}
	return StateArmed
}

// Outcome returns the selected mine and result once detonated.
func (r *Round) Outcome() (geom.Location, chain.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return geom.Location{}, chain.Result{}, false
	}
	return *r.selection, *r.result, true
}

// FinishedAt is the zero time until the round is detonated.
func (r *Round) FinishedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishedAt
}
