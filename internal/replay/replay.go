// internal/replay/replay.go
//
// Real-time playback of a propagation result.
// The propagator works in logical time; Player turns its event log into
// presentation calls paced by a wall-clock delay between waves.
//
// Playback order:
//   1. Every mine is rendered armed, then the display is refreshed.
//   2. The initial mine is rendered pending, then refreshed.
//   3. Per wave: render each detonation, render the next wave pending,
//      refresh, wait Delay (skipped after the final wave).

package replay

import (
	"context"
	"time"

	"github.com/robalobadob/chainreaction/internal/chain"
	"github.com/robalobadob/chainreaction/internal/geom"
)

// Sink is a presentation target for mine state transitions.
type Sink interface {
	RenderArmed(loc geom.Location)
	RenderPending(loc geom.Location)
	RenderDetonated(loc geom.Location, value int)
	Refresh()
}

// Player replays event logs into a Sink.
type Player struct {
	Sink  Sink
	Delay time.Duration // wall-clock pause between waves; zero replays instantly
}

// Play renders the field and then the chain reaction. It returns ctx.Err()
// if the context is cancelled during a pause.
func (p *Player) Play(ctx context.Context, mines []geom.Location, res chain.Result) error {
	for _, m := range mines {
		p.Sink.RenderArmed(m)
	}
	p.Sink.Refresh()

	waves := chain.Waves(res.Events)
	if len(waves) == 0 {
		return nil
	}
	for _, ev := range waves[0] {
		p.Sink.RenderPending(ev.Location)
	}
	p.Sink.Refresh()

	for i, wave := range waves {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ev := range wave {
			p.Sink.RenderDetonated(ev.Location, ev.Points)
		}
		if i+1 < len(waves) {
			for _, ev := range waves[i+1] {
				p.Sink.RenderPending(ev.Location)
			}
		}
		p.Sink.Refresh()

		if i+1 < len(waves) {
			if err := p.wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Player) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
