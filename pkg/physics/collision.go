// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.Sub(other.Center).LengthSquared() < r*r
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D // unit vector from A towards B
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles
func CheckCollision(a, b Circle) CollisionResult {
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	// Coincident centers have no direction; pick +X so the pair still separates.
	if distance == 0 {
		normal = Vector2D{X: 1}
	} else {
		normal = normal.Scale(1 / distance)
	}

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// Rect represents an axis-aligned rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies inside the rectangle (right/top edges exclusive)
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// QuadTree is the broad-phase spatial index used by Space. It stores body ids.
type QuadTree struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	IDs       []uint64
	Divided   bool
	NorthWest *QuadTree
	NorthEast *QuadTree
	SouthWest *QuadTree
	SouthEast *QuadTree
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree(boundary Rect, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		IDs:      make([]uint64, 0, capacity),
	}
}

// Insert adds a body id at point. Points outside the boundary are rejected.
func (qt *QuadTree) Insert(point Vector2D, id uint64) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if len(qt.Points) < qt.Capacity && !qt.Divided {
		qt.Points = append(qt.Points, point)
		qt.IDs = append(qt.IDs, id)
		return true
	}

	// Stop subdividing once quadrants would be smaller than a unit; the node
	// just grows past capacity instead of recursing forever on stacked points.
	if !qt.Divided {
		if qt.Boundary.Width < 1 || qt.Boundary.Height < 1 {
			qt.Points = append(qt.Points, point)
			qt.IDs = append(qt.IDs, id)
			return true
		}
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, id) ||
		qt.NorthEast.Insert(point, id) ||
		qt.SouthWest.Insert(point, id) ||
		qt.SouthEast.Insert(point, id)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	qt.NorthWest = NewQuadTree(Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.NorthEast = NewQuadTree(Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthWest = NewQuadTree(Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthEast = NewQuadTree(Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.Divided = true
}

// Clear empties the tree while keeping the root allocation.
func (qt *QuadTree) Clear() {
	qt.Points = qt.Points[:0]
	qt.IDs = qt.IDs[:0]
	qt.Divided = false
	qt.NorthWest, qt.NorthEast, qt.SouthWest, qt.SouthEast = nil, nil, nil, nil
}

// Query appends to found the ids of all points inside area and returns it.
func (qt *QuadTree) Query(area Rect, found []uint64) []uint64 {
	if !qt.intersects(area) {
		return found
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			found = append(found, qt.IDs[i])
		}
	}

	if !qt.Divided {
		return found
	}

	found = qt.NorthWest.Query(area, found)
	found = qt.NorthEast.Query(area, found)
	found = qt.SouthWest.Query(area, found)
	return qt.SouthEast.Query(area, found)
}

func (qt *QuadTree) intersects(area Rect) bool {
	return !(area.Center.X-area.Width/2 > qt.Boundary.Center.X+qt.Boundary.Width/2 ||
		area.Center.X+area.Width/2 < qt.Boundary.Center.X-qt.Boundary.Width/2 ||
		area.Center.Y-area.Height/2 > qt.Boundary.Center.Y+qt.Boundary.Height/2 ||
		area.Center.Y+area.Height/2 < qt.Boundary.Center.Y-qt.Boundary.Height/2)
}
