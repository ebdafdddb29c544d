// internal/replay/sinks.go
//
// Stock sinks: zerolog output, fan-out, and a call recorder for tests.

package replay

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/chainreaction/internal/geom"
)

// LogSink writes one structured log line per transition.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) RenderArmed(loc geom.Location) {
	s.Log.Trace().Float64("x", loc.X).Float64("y", loc.Y).Msg("mine armed")
}

func (s LogSink) RenderPending(loc geom.Location) {
	s.Log.Debug().Float64("x", loc.X).Float64("y", loc.Y).Msg("mine pending")
}

func (s LogSink) RenderDetonated(loc geom.Location, value int) {
	s.Log.Info().Float64("x", loc.X).Float64("y", loc.Y).Int("points", value).Msg("mine detonated")
}

func (s LogSink) Refresh() {}

// MultiSink fans every call out to each sink in order.
type MultiSink []Sink

func (m MultiSink) RenderArmed(loc geom.Location) {
	for _, s := range m {
		s.RenderArmed(loc)
	}
}

func (m MultiSink) RenderPending(loc geom.Location) {
	for _, s := range m {
		s.RenderPending(loc)
	}
}

func (m MultiSink) RenderDetonated(loc geom.Location, value int) {
	for _, s := range m {
		s.RenderDetonated(loc, value)
	}
}

func (m MultiSink) Refresh() {
	for _, s := range m {
		s.Refresh()
	}
}

// Recorder keeps a textual trace of every call, e.g. "pending (0.4,0)".
type Recorder struct {
	Calls []string
}

func (r *Recorder) RenderArmed(loc geom.Location) {
	r.Calls = append(r.Calls, fmt.Sprintf("armed (%g,%g)", loc.X, loc.Y))
}

func (r *Recorder) RenderPending(loc geom.Location) {
	r.Calls = append(r.Calls, fmt.Sprintf("pending (%g,%g)", loc.X, loc.Y))
}

func (r *Recorder) RenderDetonated(loc geom.Location, value int) {
	r.Calls = append(r.Calls, fmt.Sprintf("detonated (%g,%g) %d", loc.X, loc.Y, value))
}

func (r *Recorder) Refresh() {
	r.Calls = append(r.Calls, "refresh")
}
