// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/entity"
)

// HUDSystem lays out the per-ship energy displays. Each display is drawn as
// a bar at the label position whose length follows the shield energy; the
// label text is kept for the window title.
type HUDSystem struct {
	viewport Viewport

	barWidth  float32
	barHeight float32

	fullColor  color.NRGBA
	emptyColor color.NRGBA

	labels map[entity.ID]string
}

// NewHUDSystem creates a HUD for the given viewport.
func NewHUDSystem(viewport Viewport) *HUDSystem {
	return &HUDSystem{
		viewport:   viewport,
		barWidth:   40,
		barHeight:  5,
		fullColor:  color.NRGBA{80, 220, 120, 255},
		emptyColor: color.NRGBA{230, 60, 50, 255},
		labels:     make(map[entity.ID]string),
	}
}

// place sizes the bar for an energy display.
func (hud *HUDSystem) place(sp *sprite, e engine.EntityState) {
	fill := float32(entity.Alpha(e.Energy))
	sp.Drawable = common.Rectangle{}
	sp.Color = hud.barColor(fill)
	sp.SetZIndex(zHUD)
	sp.Width = max(hud.barWidth*fill, 1)
	sp.Height = hud.barHeight
	sp.Rotation = 0

	// Bars grow to the right from the label's anchor.
	anchor := hud.viewport.ToScreen(e.Position)
	sp.Position = engo.Point{X: anchor.X, Y: anchor.Y - hud.barHeight/2}

	hud.labels[e.Owner] = e.Text
}

// barColor blends from the empty color to the full color.
func (hud *HUDSystem) barColor(fill float32) color.NRGBA {
	lerp := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*fill)
	}
	return color.NRGBA{
		R: lerp(hud.emptyColor.R, hud.fullColor.R),
		G: lerp(hud.emptyColor.G, hud.fullColor.G),
		B: lerp(hud.emptyColor.B, hud.fullColor.B),
		A: 255,
	}
}

// Label returns the latest energy text for the ship.
func (hud *HUDSystem) Label(ship entity.ID) (string, bool) {
	text, ok := hud.labels[ship]
	return text, ok
}

// forget drops labels of ships missing from state.
func (hud *HUDSystem) forget(state *engine.GameState) {
	for id := range hud.labels {
		if _, ok := state.Find(id); !ok {
			delete(hud.labels, id)
		}
	}
}

// Title summarises the energy of every ship, for the window title.
func (hud *HUDSystem) Title(state *engine.GameState) string {
	var parts []string
	for _, e := range state.Entities {
		if e.Kind != entity.KindShip {
			continue
		}
		if text, ok := hud.labels[e.ID]; ok {
			parts = append(parts, fmt.Sprintf("P%d %s", e.Player+1, text))
		}
	}
	return strings.Join(parts, "   ")
}
