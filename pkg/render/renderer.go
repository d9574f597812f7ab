// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/logging"
)

// Renderer presents snapshots of the game. It never feeds anything back into
// the simulation.
type Renderer interface {
	Render(state *engine.GameState) error
}

// NullRenderer is a Renderer that only logs what it would draw.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging. A nil
// logger selects the environment-configured default.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{
		logger: logger,
	}
}

// Render implements Renderer.
func (d *NullRenderer) Render(state *engine.GameState) error {
	ctx := logging.WithCorrelationID(context.Background(), state.MatchID)
	d.logger.Debug(ctx, "frame rendered",
		"tick", state.Tick,
		"time", state.Time,
		"ships", state.Count(entity.KindShip),
		"asteroids", state.Count(entity.KindAsteroid),
		"projectiles", state.Count(entity.KindProjectile),
		"debris", state.Count(entity.KindDebris),
	)
	return nil
}
