// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/entity"
)

// Draw order, back to front.
const (
	zDebris float32 = iota + 1
	zAsteroid
	zProjectile
	zShip
	zIndicator
	zHUD
)

// minSpritePixels keeps tiny bodies visible at small window sizes.
const minSpritePixels = 3

var (
	playerColors = []color.NRGBA{
		{80, 220, 120, 255},
		{90, 180, 255, 255},
		{255, 210, 80, 255},
		{230, 110, 230, 255},
	}
	asteroidColor   = color.NRGBA{170, 160, 150, 255}
	projectileColor = color.NRGBA{255, 90, 60, 255}
	debrisColor     = color.NRGBA{200, 200, 200, 160}
)

// spriteSink is the part of common.RenderSystem the renderer drives.
type spriteSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer mirrors game snapshots into engo render entities. Sprites are
// created the first time an entity appears and removed once it is gone.
type EngoRenderer struct {
	sink     spriteSink
	viewport Viewport
	assets   *AssetManager
	hud      *HUDSystem

	sprites map[entity.ID]*sprite
	seen    map[entity.ID]bool
}

// NewEngoRenderer creates a renderer that adds its sprites to sink.
func NewEngoRenderer(sink spriteSink, viewport Viewport, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		sink:     sink,
		viewport: viewport,
		assets:   assets,
		hud:      NewHUDSystem(viewport),
		sprites:  make(map[entity.ID]*sprite),
		seen:     make(map[entity.ID]bool),
	}
}

// Render updates every sprite from state.
func (r *EngoRenderer) Render(state *engine.GameState) error {
	clear(r.seen)
	for _, e := range state.Entities {
		sp, ok := r.sprites[e.ID]
		if !ok {
			sp = &sprite{BasicEntity: ecs.NewBasic()}
			r.place(sp, e)
			r.sprites[e.ID] = sp
			r.sink.Add(&sp.BasicEntity, &sp.RenderComponent, &sp.SpaceComponent)
		} else {
			r.place(sp, e)
		}
		r.seen[e.ID] = true
	}

	for id, sp := range r.sprites {
		if !r.seen[id] {
			r.sink.Remove(sp.BasicEntity)
			delete(r.sprites, id)
		}
	}
	r.hud.forget(state)
	return nil
}

// HUD returns the renderer's HUD.
func (r *EngoRenderer) HUD() *HUDSystem {
	return r.hud
}

// Len returns the number of live sprites.
func (r *EngoRenderer) Len() int {
	return len(r.sprites)
}

func (r *EngoRenderer) place(sp *sprite, e engine.EntityState) {
	v := r.viewport
	size := max(v.Length(2*e.Radius), minSpritePixels)
	rotation := float32(0)

	switch e.Kind {
	case entity.KindShip:
		sp.Drawable = r.assets.Drawable(entity.KindShip)
		sp.Color = playerColors[int(e.Player)%len(playerColors)]
		sp.SetZIndex(zShip)
		rotation = v.Rotation(e.Rotation)
	case entity.KindAsteroid:
		sp.Drawable = r.assets.Drawable(entity.KindAsteroid)
		sp.Color = asteroidColor
		sp.SetZIndex(zAsteroid)
	case entity.KindProjectile:
		sp.Drawable = r.assets.Drawable(entity.KindProjectile)
		sp.Color = projectileColor
		sp.SetZIndex(zProjectile)
	case entity.KindDebris:
		sp.Drawable = r.assets.Drawable(entity.KindDebris)
		sp.Color = debrisColor
		sp.SetZIndex(zDebris)
	case entity.KindShieldIndicator:
		// a ring slightly larger than the hull, fading with the shield
		size *= 1.5
		sp.Drawable = common.Circle{BorderWidth: 2, BorderColor: shieldColor(e.Alpha)}
		sp.Color = color.Transparent
		sp.SetZIndex(zIndicator)
	case entity.KindEnergyDisplay:
		r.hud.place(sp, e)
		return
	}

	sp.Width, sp.Height = size, size
	sp.Rotation = rotation
	sp.SetCenter(v.ToScreen(e.Position))
}

func shieldColor(alpha float64) color.NRGBA {
	return color.NRGBA{120, 200, 255, uint8(255 * entity.Alpha(alpha))}
}
