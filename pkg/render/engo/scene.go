// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/logging"
)

// maxCatchUp bounds the simulation ticks run for a single slow frame.
const maxCatchUp = 5

// fixedStep converts variable frame times into whole simulation ticks.
type fixedStep struct {
	step float64
	acc  float64
}

// Advance adds dt seconds and returns how many ticks are due. After a stall
// the backlog is dropped rather than replayed.
func (f *fixedStep) Advance(dt float64) int {
	f.acc += dt
	n := 0
	for f.acc >= f.step && n < maxCatchUp {
		f.acc -= f.step
		n++
	}
	if n == maxCatchUp {
		f.acc = 0
	}
	return n
}

// ArenaScene runs a match inside an engo window. The game is stepped at its
// own fixed rate from the frame loop and every frame shows the newest
// snapshot.
type ArenaScene struct {
	game     *engine.Game
	keyboard *KeyboardProvider
	logger   *logging.Logger
	ctx      context.Context

	viewport Viewport
	assets   *AssetManager
	renderer *EngoRenderer
	clock    fixedStep
	title    string
}

// NewArenaScene creates a scene for game. keyboard must be the input
// provider the game was built with.
func NewArenaScene(game *engine.Game, keyboard *KeyboardProvider, width, height float32, logger *logging.Logger) *ArenaScene {
	return &ArenaScene{
		game:     game,
		keyboard: keyboard,
		logger:   logger,
		ctx:      logging.WithCorrelationID(context.Background(), game.MatchID),
		viewport: NewViewport(game.Config.Arena.HalfExtent, width, height),
		assets:   NewAssetManager(),
		clock:    fixedStep{step: game.TimeStep},
	}
}

// Type returns the scene type (required by Engo)
func (scene *ArenaScene) Type() string {
	return "ArenaScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *ArenaScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *ArenaScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.Black)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	if err := scene.keyboard.Register(); err != nil {
		scene.logger.Error(scene.ctx, "keyboard setup failed", err)
		engo.Exit()
		return
	}

	scene.assets.LoadTextures()
	scene.renderer = NewEngoRenderer(renderSystem, scene.viewport, scene.assets)
	world.AddSystem(&tickSystem{scene: scene})

	scene.game.Start()
	scene.logger.Info(scene.ctx, "window opened",
		"width", scene.viewport.Width,
		"height", scene.viewport.Height,
	)
}

// Exit is called when the window closes.
func (scene *ArenaScene) Exit() {
	scene.game.Stop()
	scene.logger.Info(scene.ctx, "window closed", "tick", scene.game.GetGameState().Tick)
}

// advance runs the ticks due after dt seconds and draws the result.
func (scene *ArenaScene) advance(dt float64) *engine.GameState {
	for n := scene.clock.Advance(dt); n > 0; n-- {
		scene.game.Update()
	}
	state := scene.game.GetGameState()
	if err := scene.renderer.Render(state); err != nil {
		scene.logger.Error(scene.ctx, "render failed", err)
	}
	return state
}

// tickSystem drives the scene from engo's frame loop.
type tickSystem struct {
	scene *ArenaScene
}

// Priority runs the tick before rendering.
func (*tickSystem) Priority() int { return 100 }

// Remove satisfies the ecs.System interface
func (*tickSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (ts *tickSystem) Update(dt float32) {
	scene := ts.scene
	state := scene.advance(float64(dt))

	if title := scene.renderer.HUD().Title(state); title != scene.title {
		scene.title = title
		engo.SetTitle(title)
	}
	if scene.game.QuitRequested() {
		engo.Exit()
	}
}

// Run opens a width x height window and blocks until it closes.
func Run(scene *ArenaScene, title string) {
	engo.Run(engo.RunOptions{
		Title:        title,
		Width:        int(scene.viewport.Width),
		Height:       int(scene.viewport.Height),
		NotResizable: true,
		VSync:        true,
	}, scene)
}
