package vg

// Boundary is the image of a rectangle under an affine transform: four
// corner points rather than an axis-aligned box, so a rotated rectangle
// keeps its true extent until Bounds is finally taken.
type Boundary struct {
	// Corners are the transformed corner points, clockwise from the
	// origin corner of the source rectangle.
	Corners [4]Point
}

// NewBoundary creates an untransformed boundary covering r.
func NewBoundary(r Rect) Boundary {
	return Boundary{Corners: r.Corners()}
}

// Transformed returns the boundary with every corner mapped through a.
func (b Boundary) Transformed(a Affine) Boundary {
	var out Boundary
	for i, p := range b.Corners {
		x, y := a.TransformPoint(p.X, p.Y)
		out.Corners[i] = Point{x, y}
	}
	return out
}

// Bounds returns the axis-aligned rectangle enclosing all four corners.
func (b Boundary) Bounds() Rect {
	minX, minY := b.Corners[0].X, b.Corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range b.Corners[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// unionRect accumulates optional rectangles: nil means no geometry seen
// yet. Zero-size rects still contribute their position.
func unionRect(acc *Rect, r Rect) *Rect {
	if acc == nil {
		out := r
		return &out
	}
	out := acc.Union(r)
	return &out
}
