// Package sound plays a noise burst for every wave of detonations.
package sound

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/robalobadob/chainreaction/internal/geom"
)

const (
	SampleRate    = beep.SampleRate(44100)
	BurstDuration = 250 * time.Millisecond

	maxLayers = 4 // bursts mixed per refresh, however many mines went off
)

// burst is decaying white noise.
type burst struct {
	position int
	duration int
}

// Burst returns d worth of white noise at rate, fading out quadratically.
func Burst(rate beep.SampleRate, d time.Duration) beep.Streamer {
	return &burst{duration: rate.N(d)}
}

func (b *burst) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.position >= b.duration {
			return i, i > 0
		}
		left := 1 - float64(b.position)/float64(b.duration)
		val := (rand.Float64()*2 - 1) * left * left
		samples[i][0] = val
		samples[i][1] = val
		b.position++
	}
	return len(samples), true
}

func (b *burst) Err() error { return nil }

// Sink implements replay.Sink. Detonations are counted until Refresh, which
// plays one mixed burst for the whole wave.
type Sink struct {
	mu      sync.Mutex
	pending int
	play    func(beep.Streamer) // nil when muted

	Volume float64 // 0..1, applied per burst
}

// New returns a muted sink; call Init to attach the speaker.
func New() *Sink { return &Sink{Volume: 0.6} }

// Init opens the audio device. On error the sink stays muted.
func (s *Sink) Init() error {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.mu.Lock()
	s.play = speaker.Play
	s.mu.Unlock()
	return nil
}

// Close releases the audio device if Init succeeded.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.play != nil {
		speaker.Close()
		s.play = nil
	}
}

func (s *Sink) RenderArmed(geom.Location)   {}
func (s *Sink) RenderPending(geom.Location) {}

func (s *Sink) RenderDetonated(geom.Location, int) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

func (s *Sink) Refresh() {
	s.mu.Lock()
	n, play := s.pending, s.play
	s.pending = 0
	s.mu.Unlock()

	if n == 0 || play == nil {
		return
	}
	play(s.wave(n))
}

// wave layers up to maxLayers bursts of staggered length.
func (s *Sink) wave(n int) beep.Streamer {
	layers := make([]beep.Streamer, 0, maxLayers)
	for i := 0; i < min(n, maxLayers); i++ {
		d := BurstDuration + time.Duration(i)*BurstDuration/4
		layers = append(layers, volume(Burst(SampleRate, d), s.Volume/float64(min(n, maxLayers))))
	}
	return beep.Mix(layers...)
}

func volume(st beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(v)}
}
