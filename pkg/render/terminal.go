package render

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-spacewar/pkg/engine"
	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/physics"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

var (
	playerStyles = []tcell.Style{
		tcell.StyleDefault.Foreground(tcell.ColorGreen),
		tcell.StyleDefault.Foreground(tcell.ColorAqua),
		tcell.StyleDefault.Foreground(tcell.ColorYellow),
		tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
	}
	asteroidStyle   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	projectileStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	debrisStyle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	borderStyle     = tcell.StyleDefault.Foreground(tcell.ColorNavy)
)

// TerminalRenderer provides a simple character-based rendering of the arena.
// Frames are drawn into a rune buffer and copied to a tcell screen when one
// is attached.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	styles    [][]tcell.Style
	scale     float64
	centerPos physics.Vector2D
	screen    tcell.Screen
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions. scale is the number of world units per column.
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	r := &TerminalRenderer{scale: scale}
	r.resize(width, height)
	return r
}

// FitArena returns the scale at which an arena of the given half extent
// fills a width x height character grid.
func FitArena(halfExtent float64, width, height int) float64 {
	sx := 2 * halfExtent / float64(width)
	sy := 2 * halfExtent / (float64(height) * cellAspect)
	return math.Max(sx, sy)
}

func (r *TerminalRenderer) resize(width, height int) {
	r.width = max(width, 0)
	r.height = max(height, 0)
	r.buffer = make([][]rune, r.height)
	r.styles = make([][]tcell.Style, r.height)
	for i := range r.buffer {
		r.buffer[i] = make([]rune, r.width)
		r.styles[i] = make([]tcell.Style, r.width)
	}
	r.Clear()
}

// AttachScreen makes Present draw to s. The drawing area becomes the screen
// size minus a one-cell border.
func (r *TerminalRenderer) AttachScreen(s tcell.Screen) {
	r.screen = s
	r.Sync()
}

// Sync adopts the current size of the attached screen.
func (r *TerminalRenderer) Sync() {
	if r.screen == nil {
		return
	}
	w, h := r.screen.Size()
	r.resize(w-2, h-2)
}

// Size returns the drawing area in cells.
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// SetScale sets the number of world units per column.
func (r *TerminalRenderer) SetScale(scale float64) {
	r.scale = scale
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates (y up) to cell coordinates (row 0
// at the top).
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	screenY := math.Floor(float64(r.height)/2 - (pos.Y-r.centerPos.Y)/(r.scale*cellAspect))
	return int(screenX), int(screenY)
}

// Clear blanks the buffer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
			r.styles[y][x] = tcell.StyleDefault
		}
	}
}

func (r *TerminalRenderer) put(x, y int, ch rune, style tcell.Style) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = ch
		r.styles[y][x] = style
	}
}

// Draw renders state into the buffer. Labels are drawn last so they stay
// readable over the bodies they describe.
func (r *TerminalRenderer) Draw(state *engine.GameState) {
	var labels []engine.EntityState
	for _, e := range state.Entities {
		x, y := r.worldToScreen(e.Position)
		switch e.Kind {
		case entity.KindShip:
			r.put(x, y, shipGlyph(e.Rotation), shipStyle(e))
		case entity.KindAsteroid:
			r.put(x, y, asteroidGlyph(e.Scale), asteroidStyle)
		case entity.KindProjectile:
			r.put(x, y, '+', projectileStyle)
		case entity.KindDebris:
			r.put(x, y, '.', debrisStyle)
		case entity.KindEnergyDisplay:
			labels = append(labels, e)
		}
	}
	for _, l := range labels {
		x, y := r.worldToScreen(l.Position)
		for i, ch := range l.Text {
			r.put(x+i, y, ch, tcell.StyleDefault)
		}
	}
}

// Line returns row y of the buffer.
func (r *TerminalRenderer) Line(y int) string {
	if y < 0 || y >= r.height {
		return ""
	}
	return string(r.buffer[y])
}

// Present copies the buffer, framed by a border, to the attached screen.
func (r *TerminalRenderer) Present() error {
	if r.screen == nil {
		return nil
	}
	s := r.screen
	s.Clear()

	right, bottom := r.width+1, r.height+1
	for x := 1; x < right; x++ {
		s.SetContent(x, 0, '-', nil, borderStyle)
		s.SetContent(x, bottom, '-', nil, borderStyle)
	}
	for y := 1; y < bottom; y++ {
		s.SetContent(0, y, '|', nil, borderStyle)
		s.SetContent(right, y, '|', nil, borderStyle)
	}
	for _, c := range [][2]int{{0, 0}, {right, 0}, {0, bottom}, {right, bottom}} {
		s.SetContent(c[0], c[1], '+', nil, borderStyle)
	}

	for y := range r.buffer {
		for x, ch := range r.buffer[y] {
			s.SetContent(x+1, y+1, ch, nil, r.styles[y][x])
		}
	}
	s.Show()
	return nil
}

// Render implements Renderer.
func (r *TerminalRenderer) Render(state *engine.GameState) error {
	r.Clear()
	r.Draw(state)
	return r.Present()
}

// shipGlyph picks an arrow for the nearest of the four compass headings.
func shipGlyph(rotation float64) rune {
	glyphs := [4]rune{'>', '^', '<', 'v'}
	quadrant := int(math.Round(rotation/(math.Pi/2))) % 4
	if quadrant < 0 {
		quadrant += 4
	}
	return glyphs[quadrant]
}

func shipStyle(e engine.EntityState) tcell.Style {
	style := playerStyles[int(e.Player)%len(playerStyles)]
	if e.Alpha < 0.5 {
		return style.Dim(true)
	}
	return style.Bold(true)
}

func asteroidGlyph(scale float64) rune {
	switch {
	case scale >= 4:
		return '@'
	case scale >= 2:
		return 'O'
	default:
		return 'o'
	}
}

// KeyName maps a terminal key (and its rune, for tcell.KeyRune) to the key
// names used in the binding table. Keys without a name map to "".
func KeyName(key tcell.Key, ch rune) string {
	switch key {
	case tcell.KeyUp:
		return "UP"
	case tcell.KeyDown:
		return "DOWN"
	case tcell.KeyLeft:
		return "LEFT"
	case tcell.KeyRight:
		return "RIGHT"
	case tcell.KeyEnter:
		return "ENTER"
	case tcell.KeyEscape:
		return "ESCAPE"
	case tcell.KeyRune:
		if ch == ' ' {
			return "SPACE"
		}
		if ch == utf8.RuneError || !unicode.IsPrint(ch) {
			return ""
		}
		return strings.ToUpper(string(ch))
	}
	return ""
}
