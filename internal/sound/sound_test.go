package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/robalobadob/chainreaction/internal/geom"
	"github.com/robalobadob/chainreaction/internal/replay"
)

var _ replay.Sink = (*Sink)(nil)

// drain streams st to the end and returns every sample.
func drain(t *testing.T, st beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := st.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("stream never ended")
	return nil
}

func meanAbs(s [][2]float64) float64 {
	var sum float64
	for _, v := range s {
		sum += math.Abs(v[0])
	}
	return sum / float64(len(s))
}

func TestBurst(t *testing.T) {
	rate := beep.SampleRate(8000)
	b := Burst(rate, 100*time.Millisecond)

	samples := drain(t, b)
	if len(samples) != rate.N(100*time.Millisecond) {
		t.Fatalf("got %d samples, want %d", len(samples), rate.N(100*time.Millisecond))
	}
	for i, v := range samples {
		if v[0] < -1 || v[0] > 1 || v[0] != v[1] {
			t.Fatalf("sample %d = %v", i, v)
		}
	}

	tenth := len(samples) / 10
	if head, tail := meanAbs(samples[:tenth]), meanAbs(samples[len(samples)-tenth:]); tail >= head {
		t.Fatalf("burst does not fade: head %.3f tail %.3f", head, tail)
	}
	if b.Err() != nil {
		t.Fatalf("Err() = %v", b.Err())
	}
	if n, ok := b.Stream(make([][2]float64, 8)); n != 0 || ok {
		t.Fatalf("drained burst streamed (%d, %v)", n, ok)
	}
}

func TestSink_OneBurstPerWave(t *testing.T) {
	var played []beep.Streamer
	s := New()
	s.play = func(st beep.Streamer) { played = append(played, st) }

	loc := geom.Location{X: 1, Y: 1}
	s.RenderArmed(loc)
	s.RenderPending(loc)
	s.Refresh()
	if len(played) != 0 {
		t.Fatalf("refresh without detonations played %d streams", len(played))
	}

	for i := 0; i < 3; i++ {
		s.RenderDetonated(loc, 100)
	}
	s.Refresh()
	s.Refresh()
	if len(played) != 1 {
		t.Fatalf("played %d streams, want 1", len(played))
	}

	// Three layers; the longest sets the length of the mix.
	want := SampleRate.N(BurstDuration + 2*BurstDuration/4)
	if got := len(drain(t, played[0])); got != want {
		t.Fatalf("mixed wave has %d samples, want %d", got, want)
	}
}

func TestSink_MutedIsSilent(t *testing.T) {
	s := New()
	s.RenderDetonated(geom.Location{}, 1)
	s.Refresh()
	if s.pending != 0 {
		t.Fatalf("pending = %d after refresh", s.pending)
	}
	s.Close()
}

func TestSink_ZeroVolume(t *testing.T) {
	var played []beep.Streamer
	s := New()
	s.Volume = 0
	s.play = func(st beep.Streamer) { played = append(played, st) }
	s.RenderDetonated(geom.Location{}, 1)
	s.Refresh()
	for i, v := range drain(t, played[0]) {
		if v[0] != 0 || v[1] != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
}
