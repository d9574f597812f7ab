package physics

import "math"

// Torus is a square arena whose opposite edges are joined.
type Torus struct {
	HalfExtent float64
}

// Contains reports whether p lies inside [-HalfExtent, HalfExtent] on both axes.
func (t Torus) Contains(p Vector2D) bool {
	return math.Abs(p.X) <= t.HalfExtent && math.Abs(p.Y) <= t.HalfExtent
}

// Wrap maps p back into the arena. Points already inside are returned
// unchanged; the bool reports whether p moved. Excursions of any size are
// handled, not just one arena width.
func (t Torus) Wrap(p Vector2D) (Vector2D, bool) {
	x, wx := t.wrapAxis(p.X)
	y, wy := t.wrapAxis(p.Y)
	return Vector2D{X: x, Y: y}, wx || wy
}

func (t Torus) wrapAxis(v float64) (float64, bool) {
	h := t.HalfExtent
	if h <= 0 || math.IsNaN(v) || math.IsInf(v, 0) || (v >= -h && v <= h) {
		return v, false
	}
	span := 2 * h
	if v > h && v-span <= h {
		return v - span, true
	}
	if v < -h && v+span >= -h {
		return v + span, true
	}
	m := math.Mod(v+h, span)
	if m < 0 {
		m += span
	}
	return m - h, true
}
