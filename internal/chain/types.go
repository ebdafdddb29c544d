// internal/chain/types.go
//
// Core type definitions for the detonation propagator.
// Defines:
//   - Status: the per-mine state machine (armed → pending → detonated).
//   - Event: one detonation in the event log.
//   - Result: the full log plus the total score of a round.
//   - Config: reach radius and detonation delay.

package chain

import "github.com/robalobadob/chainreaction/internal/geom"

// Status is the lifecycle of a single mine during one propagation.
type Status int

const (
	Armed Status = iota
	Pending
	Detonated
)

func (s Status) String() string {
	switch s {
	case Armed:
		return "armed"
	case Pending:
		return "pending"
	case Detonated:
		return "detonated"
	}
	return "unknown"
}

// Event records one detonation.
type Event struct {
	Location geom.Location `json:"location"`
	Time     float64       `json:"time"`   // logical seconds since the initial detonation
	Wave     int           `json:"wave"`   // hops from the initial mine
	Points   int           `json:"points"` // awarded by the scoring policy
	Source   geom.Location `json:"source"` // the mine that triggered this one; itself for wave 0
}

// Result is the output of a propagation run.
type Result struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

// Config holds the propagation constants.
type Config struct {
	Reach float64 // a detonation triggers armed mines strictly closer than this
	Delay float64 // logical time between a trigger and the triggered detonation
}

// DefaultConfig returns the classic constants: reach 0.45, delay 1.0.
func DefaultConfig() Config {
	return Config{Reach: 0.45, Delay: 1.0}
}
