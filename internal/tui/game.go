// internal/tui/game.go
//
// Interactive loop: input is read on its own goroutine, replays run on
// another, and the loop ties both to the screen.

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/robalobadob/chainreaction/internal/chain"
	"github.com/robalobadob/chainreaction/internal/geom"
	"github.com/robalobadob/chainreaction/internal/replay"
	"github.com/robalobadob/chainreaction/internal/round"
)

// Options configures a Game.
type Options struct {
	Round round.Config
	Delay time.Duration // pause between waves during replay
	Sinks []replay.Sink // extra sinks fed alongside the screen (sound, logs)
	Seed  func() int64  // defaults to the wall clock
	Log   zerolog.Logger
}

// Game is the interactive loop: click a mine, watch the chain, click again
// for a new field.
type Game struct {
	screen tcell.Screen
	board  *Board
	opts   Options

	rd      *round.Round
	buttons tcell.ButtonMask
}

// NewGame binds a game to an initialised screen. The caller owns the screen.
func NewGame(s tcell.Screen, opts Options) *Game {
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Game{
		screen: s,
		board:  NewBoard(s, opts.Round.Gen.Width, opts.Round.Gen.Height),
		opts:   opts,
	}
}

// Run processes input until the player quits or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	g.screen.EnableMouse()
	if err := g.newRound(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	var (
		play     *playback
		playDone <-chan error
		finished bool
	)
	defer func() {
		if play != nil {
			play.stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-playDone:
			play.stop()
			play, playDone = nil, nil
			if err != nil {
				return err
			}
			finished = true

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					return nil
				}

			case *tcell.EventResize:
				g.screen.Sync()
				if play == nil {
					g.redraw()
				}

			case *tcell.EventMouse:
				x, y := ev.Position()
				if !g.pressed(ev.Buttons()) || play != nil {
					continue
				}
				if finished {
					finished = false
					if err := g.newRound(); err != nil {
						return err
					}
					continue
				}
				mine, ok := g.board.MineAt(g.rd.Field(), x, y)
				if !ok {
					continue
				}
				play = g.startPlayback(ctx, mine)
				playDone = play.done
			}
		}
	}
}

// playback is one replay running on its own goroutine.
type playback struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan error
}

func (g *Game) startPlayback(parent context.Context, mine geom.Location) *playback {
	ctx, cancel := context.WithCancel(parent)
	p := &playback{ctx: ctx, cancel: cancel, done: make(chan error, 1)}
	go func() { p.done <- g.detonate(ctx, mine) }()
	return p
}

// stop releases the replay context. It is called once the replay has
// reported, and again on exit if one is still running.
func (p *playback) stop() { p.cancel() }

// pressed reports a fresh primary-button press, ignoring drags and releases.
func (g *Game) pressed(b tcell.ButtonMask) bool {
	fresh := b&tcell.Button1 != 0 && g.buttons&tcell.Button1 == 0
	g.buttons = b
	return fresh
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// newRound generates a fresh field and draws it.
func (g *Game) newRound() error {
	rd, err := round.New(g.opts.Round, g.opts.Seed())
	if err != nil {
		return fmt.Errorf("new round: %w", err)
	}
	g.rd = rd
	g.opts.Log.Debug().Str("round", rd.ID).Int64("seed", rd.Seed).Int("mines", len(rd.Mines())).Msg("new field")
	g.redraw()
	return nil
}

func (g *Game) redraw() {
	g.screen.Clear()
	for _, m := range g.rd.Mines() {
		g.board.RenderArmed(m)
	}
	if _, res, ok := g.rd.Outcome(); ok {
		for _, ev := range res.Events {
			g.board.RenderDetonated(ev.Location, ev.Points)
		}
		g.board.Status(summary(res, len(g.rd.Mines())))
	} else {
		g.board.Status(fmt.Sprintf(" %d mines. Click one to set it off. q quits.", len(g.rd.Mines())))
	}
	g.board.Refresh()
}

// detonate sets off mine and replays the chain on every sink.
func (g *Game) detonate(ctx context.Context, mine geom.Location) error {
	res, err := g.rd.Detonate(mine)
	if err != nil {
		return err
	}
	sinks := append(replay.MultiSink{g.board}, g.opts.Sinks...)
	p := replay.Player{Sink: sinks, Delay: g.opts.Delay}
	if err := p.Play(ctx, g.rd.Mines(), res); err != nil {
		return err
	}

	g.opts.Log.Info().
		Str("round", g.rd.ID).
		Int("detonated", len(res.Events)).
		Int("score", res.Total).
		Msg("chain finished")

	g.board.Status(summary(res, len(g.rd.Mines())))
	g.board.Refresh()
	return nil
}

func summary(res chain.Result, mines int) string {
	return fmt.Sprintf(" Score %s: %d of %d mines went off. Click for a new field. q quits.",
		chain.FormatScore(res.Total), len(res.Events), mines)
}
