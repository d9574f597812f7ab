package main

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-spacewar/pkg/config"
	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/input"
	"github.com/opd-ai/go-spacewar/pkg/logging"
	"github.com/opd-ai/go-spacewar/pkg/render"
)

// runTerminal plays the match in a tcell screen. Terminals report key
// presses, not releases, so held buttons come from an input.Latch.
func runTerminal(ctx context.Context, logger *logging.Logger, cfg *config.GameConfig) error {
	table, err := cfg.Bindings()
	if err != nil {
		return logging.WrapError(err, "resolve key bindings")
	}
	latch := input.NewLatch(table)

	game, err := engine.NewGame(cfg, nil, latch, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	game.Setup()

	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "create terminal screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "initialise terminal screen")
	}
	screen.HideCursor()

	term := render.NewTerminalRenderer(0, 0, 1)
	term.AttachScreen(screen)
	fit := func() {
		w, h := term.Size()
		term.SetScale(render.FitArena(cfg.Arena.HalfExtent, w, h))
	}
	fit()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The pump only flags resizes; the renderer is resized on the tick goroutine.
	var resized atomic.Bool
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Fini unblocks PollEvent in the pump.
		defer screen.Fini()
		defer cancel()

		game.Start()
		defer game.Stop()
		err := game.Run(ctx, func(state *engine.GameState) {
			if resized.Swap(false) {
				term.Sync()
				fit()
			}
			if err := term.Render(state); err != nil {
				logger.Error(ctx, "render failed", err, "tick", state.Tick)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return nil
			case *tcell.EventResize:
				resized.Store(true)
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					cancel()
					continue
				}
				latch.Press(render.KeyName(ev.Key(), ev.Rune()))
			}
		}
	})

	err = g.Wait()
	logger.Info(ctx, "terminal match finished", "tick", game.GetGameState().Tick)
	return err
}
