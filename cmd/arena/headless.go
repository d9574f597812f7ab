package main

import (
	"context"

	"github.com/opd-ai/go-spacewar/pkg/config"
	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/input"
	"github.com/opd-ai/go-spacewar/pkg/logging"
	"github.com/opd-ai/go-spacewar/pkg/render"
)

// runHeadless steps the match as fast as possible with nobody at the
// controls. ticks <= 0 runs until ctx is cancelled.
func runHeadless(ctx context.Context, logger *logging.Logger, cfg *config.GameConfig, ticks int) error {
	game, err := engine.NewGame(cfg, nil, input.NewStatic(), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	game.Setup()
	game.Start()
	defer game.Stop()

	out := render.NewNullRenderer(logger)
	for tick := 1; ticks <= 0 || tick <= ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		game.Update()
		state := game.GetGameState()
		if err := out.Render(state); err != nil {
			return err
		}
		if tick%cfg.Simulation.TickRate == 0 {
			logger.Info(ctx, "headless progress",
				"tick", state.Tick,
				"time", state.Time,
				"asteroids", state.Count(entity.KindAsteroid),
				"entities", len(state.Entities),
			)
		}
	}
	return nil
}
