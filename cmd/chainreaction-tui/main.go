// Command chainreaction-tui plays Chain Reaction in the terminal.
//
// Click a mine to set it off and watch the chain spread wave by wave.
// Field and chain settings come from the same environment variables as the
// server (see internal/config).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/robalobadob/chainreaction/internal/config"
	"github.com/robalobadob/chainreaction/internal/replay"
	"github.com/robalobadob/chainreaction/internal/sound"
	"github.com/robalobadob/chainreaction/internal/tui"
)

func main() {
	var (
		mute    = flag.Bool("mute", false, "disable sound")
		seed    = flag.Int64("seed", 0, "field seed for the first round (0 = random)")
		logFile = flag.String("log", "", "write logs to this file")
	)
	flag.Parse()

	if err := run(*mute, *seed, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "chainreaction: %v\n", err)
		os.Exit(1)
	}
}

func run(mute bool, seed int64, logFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The screen owns stdout/stderr, so logs go to a file or nowhere.
	logger := zerolog.Nop()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = zerolog.New(f).Level(cfg.LogLevel).With().Timestamp().Logger()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	sinks := []replay.Sink{replay.LogSink{Log: logger}}
	if !mute {
		snd := sound.New()
		if err := snd.Init(); err != nil {
			logger.Warn().Err(err).Msg("audio unavailable, playing muted")
		} else {
			defer snd.Close()
			sinks = append(sinks, snd)
		}
	}

	seeds := func() int64 { return time.Now().UnixNano() }
	if seed != 0 {
		first := true
		seeds = func() int64 {
			if first {
				first = false
				return seed
			}
			return time.Now().UnixNano()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := tui.NewGame(screen, tui.Options{
		Round: cfg.Round,
		Delay: time.Duration(cfg.Round.Chain.Delay * float64(time.Second)),
		Sinks: sinks,
		Seed:  seeds,
		Log:   logger,
	})
	return g.Run(ctx)
}
