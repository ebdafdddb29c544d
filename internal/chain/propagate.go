// internal/chain/propagate.go
//
// Detonation propagation over the proximity graph of a mine field.
//
// Algorithm (wave / BFS):
//   1. Every mine starts Armed except the initial one, which is Pending at t=0.
//   2. Pending mines sit in a frontier ordered by (time, discovery sequence).
//   3. Popping a mine detonates it, scores it, and makes every Armed mine in
//      reach Pending at t+delay. The first trigger wins; nothing is rescheduled.
//   4. The run ends when the frontier is empty.
//
// Each mine changes state at most twice, so the run is bounded by field size.
// Propagate is pure: it never sleeps and has no side effects on the store.

package chain

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/robalobadob/chainreaction/internal/field"
	"github.com/robalobadob/chainreaction/internal/geom"
)

var (
	// ErrInvalidSelection is returned when the initial location is not a mine.
	ErrInvalidSelection = errors.New("chain: initial location is not a mine")
	// ErrEmptyField is returned when propagation is asked to run on no mines.
	ErrEmptyField = errors.New("chain: empty mine field")
)

// Propagate runs the chain reaction started at initial and returns the event
// log in nondecreasing time order together with the total score.
// A nil scorer means Fixed{Points: 1}.
func Propagate(initial geom.Location, f field.Store, cfg Config, scorer Scorer) (Result, error) {
	if f == nil || f.Size() == 0 {
		return Result{}, ErrEmptyField
	}
	if !f.Contains(initial) {
		return Result{}, fmt.Errorf("%w: (%g, %g)", ErrInvalidSelection, initial.X, initial.Y)
	}
	if scorer == nil {
		scorer = Fixed{Points: 1}
	}

	// Absent from the map means Armed.
	status := make(map[geom.Location]Status, f.Size())
	status[initial] = Pending

	var q frontier
	heap.Push(&q, pending{loc: initial, source: initial})
	seq := 1

	res := Result{Events: make([]Event, 0, f.Size())}
	for q.Len() > 0 {
		p := heap.Pop(&q).(pending)
		status[p.loc] = Detonated

		pts := scorer.Score(Detonation{
			Location: p.loc,
			Time:     p.time,
			Wave:     p.wave,
			Origin:   initial,
			Source:   p.source,
		})
		res.Events = append(res.Events, Event{
			Location: p.loc,
			Time:     p.time,
			Wave:     p.wave,
			Points:   pts,
			Source:   p.source,
		})
		res.Total += pts

		for _, m := range f.NearestWithin(p.loc, cfg.Reach) {
			if _, seen := status[m]; seen {
				continue
			}
			status[m] = Pending
			heap.Push(&q, pending{
				loc:    m,
				time:   p.time + cfg.Delay,
				wave:   p.wave + 1,
				seq:    seq,
				source: p.loc,
			})
			seq++
		}
	}
	return res, nil
}

// Waves groups an event log by wave, preserving order within each wave.
func Waves(events []Event) [][]Event {
	var out [][]Event
	for _, ev := range events {
		for len(out) <= ev.Wave {
			out = append(out, nil)
		}
		out[ev.Wave] = append(out[ev.Wave], ev)
	}
	return out
}

// pending is a frontier entry.
type pending struct {
	loc    geom.Location
	time   float64
	wave   int
	seq    int // discovery order, breaks time ties
	source geom.Location
}

// frontier is a min-heap on (time, seq).
type frontier []pending

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(pending)) }
func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
