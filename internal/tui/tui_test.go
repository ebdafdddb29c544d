package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/chainreaction/internal/chain"
	"github.com/robalobadob/chainreaction/internal/field"
	"github.com/robalobadob/chainreaction/internal/geom"
	"github.com/robalobadob/chainreaction/internal/replay"
	"github.com/robalobadob/chainreaction/internal/round"
)

func newSim(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func cellAt(s tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, w, _ := s.GetContents()
	return cells[y*w+x]
}

func fg(c tcell.SimCell) tcell.Color {
	f, _, _ := c.Style.Decompose()
	return f
}

func statusLine(s tcell.SimulationScreen) string {
	cells, w, h := s.GetContents()
	var b strings.Builder
	for _, c := range cells[(h-1)*w:] {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		}
	}
	return b.String()
}

func smallConfig() round.Config {
	cfg := round.DefaultConfig()
	cfg.Gen.MinMines, cfg.Gen.MaxMines = 40, 40
	return cfg
}

func TestBoard_CellLocationRoundTrip(t *testing.T) {
	s := newSim(t, 80, 24)
	b := NewBoard(s, 10, 6)
	for y := 0; y < 23; y++ {
		for x := 0; x < 80; x++ {
			if gx, gy := b.Cell(b.Location(x, y)); gx != x || gy != y {
				t.Fatalf("cell (%d,%d) maps back to (%d,%d)", x, y, gx, gy)
			}
		}
	}
	// Points outside the field clamp to the border, never onto the status row.
	if x, y := b.Cell(geom.Location{X: 99, Y: 99}); x != 79 || y != 22 {
		t.Fatalf("clamped cell = (%d,%d), want (79,22)", x, y)
	}
}

func TestBoard_Render(t *testing.T) {
	s := newSim(t, 80, 24)
	b := NewBoard(s, 10, 6)

	loc := geom.Location{X: 5, Y: 3}
	x, y := b.Cell(loc)

	b.RenderArmed(loc)
	b.Refresh()
	if c := cellAt(s, x, y); c.Runes[0] != mineRune || fg(c) != tcell.ColorWhite {
		t.Fatalf("armed cell = %q fg %v", c.Runes, fg(c))
	}

	b.RenderPending(loc)
	b.Refresh()
	if c := cellAt(s, x, y); c.Runes[0] != mineRune || fg(c) != tcell.ColorRed {
		t.Fatalf("pending cell = %q fg %v", c.Runes, fg(c))
	}

	b.RenderDetonated(loc, 300)
	b.Refresh()
	for i, want := range "300" {
		if c := cellAt(s, x+i, y); c.Runes[0] != want || fg(c) != tcell.ColorGray {
			t.Fatalf("detonated cell %d = %q fg %v", i, c.Runes, fg(c))
		}
	}

	// Text is clipped at the right edge.
	edge := geom.Location{X: 9.99, Y: 1}
	b.RenderDetonated(edge, 4500)
	b.Refresh()
	ex, ey := b.Cell(edge)
	if ex != 79 || cellAt(s, ex, ey).Runes[0] != '4' {
		t.Fatalf("edge render at (%d,%d) = %q", ex, ey, cellAt(s, ex, ey).Runes)
	}
}

func TestBoard_Status(t *testing.T) {
	s := newSim(t, 40, 10)
	b := NewBoard(s, 10, 6)
	b.Status("hello")
	b.Refresh()
	if got := statusLine(s); !strings.HasPrefix(got, "hello") || len(got) != 40 {
		t.Fatalf("status = %q", got)
	}
	b.Status(strings.Repeat("x", 100))
	b.Refresh()
	if got := statusLine(s); got != strings.Repeat("x", 40) {
		t.Fatalf("long status = %q", got)
	}
}

func TestBoard_MineAt(t *testing.T) {
	s := newSim(t, 80, 24)
	b := NewBoard(s, 10, 6)

	a := geom.Location{X: 2.01, Y: 2.01}
	far := geom.Location{X: 7, Y: 4}
	f := field.New(a, far)

	x, y := b.Cell(a)
	if got, ok := b.MineAt(f, x, y); !ok || got != a {
		t.Fatalf("MineAt(%d,%d) = %v %v, want %v", x, y, got, ok, a)
	}
	if _, ok := b.MineAt(f, 0, 0); ok {
		t.Fatalf("empty cell reported a mine")
	}

	// Two mines in one cell: the one nearer the centre wins.
	centre := b.Location(x, y)
	near := geom.Location{X: centre.X + 0.001, Y: centre.Y}
	f.Add(near)
	if got, _ := b.MineAt(f, x, y); got != near {
		t.Fatalf("shared cell picked %v, want %v", got, near)
	}
}

func TestGame_DetonateReplaysOnScreen(t *testing.T) {
	s := newSim(t, 100, 30)
	g := NewGame(s, Options{Round: smallConfig(), Seed: func() int64 { return 7 }})
	if err := g.newRound(); err != nil {
		t.Fatalf("newRound: %v", err)
	}
	if !strings.Contains(statusLine(s), "40 mines") {
		t.Fatalf("status before play = %q", statusLine(s))
	}

	mine := g.rd.Mines()[0]
	if err := g.detonate(context.Background(), mine); err != nil {
		t.Fatalf("detonate: %v", err)
	}
	_, res, ok := g.rd.Outcome()
	if !ok {
		t.Fatalf("round not finished")
	}
	if st := statusLine(s); !strings.Contains(st, "Score "+chain.FormatScore(res.Total)) {
		t.Fatalf("status after play = %q", st)
	}

	// Nothing is left pending once the replay ends.
	cells, _, _ := s.GetContents()
	for i, c := range cells {
		if fg(c) == tcell.ColorRed {
			t.Fatalf("cell %d still pending", i)
		}
	}
}

// signalSink closes done on the first detonation it sees.
type signalSink struct {
	once sync.Once
	done chan struct{}
}

func (s *signalSink) RenderArmed(geom.Location)   {}
func (s *signalSink) RenderPending(geom.Location) {}
func (s *signalSink) RenderDetonated(geom.Location, int) {
	s.once.Do(func() { close(s.done) })
}
func (s *signalSink) Refresh() {}

func TestGame_RunClickThenQuit(t *testing.T) {
	s := newSim(t, 100, 30)
	cfg := smallConfig()
	sig := &signalSink{done: make(chan struct{})}
	g := NewGame(s, Options{Round: cfg, Seed: func() int64 { return 11 }, Sinks: []replay.Sink{sig}})

	// Same seed, same field: aim at the first mine's cell.
	rd, err := round.New(cfg, 11)
	if err != nil {
		t.Fatalf("round.New: %v", err)
	}
	x, y := NewBoard(s, cfg.Gen.Width, cfg.Gen.Height).Cell(rd.Mines()[0])
	s.InjectMouse(x, y, tcell.Button1, tcell.ModNone)
	s.InjectMouse(x, y, tcell.ButtonNone, tcell.ModNone)

	errc := make(chan error, 1)
	go func() { errc <- g.Run(context.Background()) }()

	select {
	case <-sig.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("click did not set off a chain")
	}
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after q")
	}
}

func TestGame_RunStopsOnContext(t *testing.T) {
	s := newSim(t, 60, 20)
	g := NewGame(s, Options{Round: smallConfig()})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := g.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestIsQuit(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false},
	}
	for _, c := range cases {
		if got := isQuit(c.ev); got != c.want {
			t.Errorf("isQuit(%v) = %v, want %v", c.ev.Name(), got, c.want)
		}
	}
}

func TestGame_PlaybackReleasesContext(t *testing.T) {
	s := newSim(t, 100, 30)
	g := NewGame(s, Options{Round: smallConfig(), Seed: func() int64 { return 5 }})
	if err := g.newRound(); err != nil {
		t.Fatalf("newRound: %v", err)
	}

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := g.startPlayback(parent, g.rd.Mines()[0])
	if err := <-p.done; err != nil {
		t.Fatalf("playback: %v", err)
	}
	if p.ctx.Err() != nil {
		t.Fatalf("replay context ended before stop: %v", p.ctx.Err())
	}
	p.stop()
	if !errors.Is(p.ctx.Err(), context.Canceled) {
		t.Fatalf("replay context err = %v after stop, want Canceled", p.ctx.Err())
	}
	if parent.Err() != nil {
		t.Fatalf("stop leaked into the parent context")
	}
}
