// internal/chain/score.go
//
// Scoring policies. Every policy is deterministic: the same detonation always
// earns the same points.
//
//   - Fixed:     a flat value per mine.
//   - WaveBonus: Base × (wave + 1); later links in a long chain are worth more.
//   - Proximity: Base / (1 + distance from the initiating mine), rounded.
//
// WaveBonus with Base 100 is the game default.

package chain

import (
	"fmt"
	"math"

	"github.com/robalobadob/chainreaction/internal/geom"
)

// Detonation is what a Scorer sees for each mine.
type Detonation struct {
	Location geom.Location
	Time     float64
	Wave     int
	Origin   geom.Location // the manually detonated mine
	Source   geom.Location // the mine that triggered this one
}

// Scorer assigns points to a detonation.
type Scorer interface {
	Score(d Detonation) int
}

// Fixed awards the same number of points for every mine.
type Fixed struct{ Points int }

func (s Fixed) Score(Detonation) int { return s.Points }

// WaveBonus awards Base × (wave + 1).
type WaveBonus struct{ Base int }

func (s WaveBonus) Score(d Detonation) int { return s.Base * (d.Wave + 1) }

// Proximity awards more for mines close to the origin.
type Proximity struct{ Base int }

func (s Proximity) Score(d Detonation) int {
	return int(math.Round(float64(s.Base) / (1 + geom.Dist(d.Origin, d.Location))))
}

// Scoring policy names accepted by ScorerByName.
const (
	ScoringFixed     = "fixed"
	ScoringWave      = "wave"
	ScoringProximity = "proximity"
)

// ScorerByName maps a configured policy name to a Scorer.
func ScorerByName(name string, base int) (Scorer, error) {
	switch name {
	case ScoringFixed:
		return Fixed{Points: base}, nil
	case ScoringWave, "":
		return WaveBonus{Base: base}, nil
	case ScoringProximity:
		return Proximity{Base: base}, nil
	}
	return nil, fmt.Errorf("chain: unknown scoring policy %q", name)
}
