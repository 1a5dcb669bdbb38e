package vg

import "github.com/chewxy/math32"

// Point is a position or displacement in user space.
type Point struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle given as origin and size.
// A Rect with zero width or height is degenerate but still positional:
// union operations keep its location.
type Rect struct {
	X, Y, Width, Height float32
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float32 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float32 { return r.Y + r.Height }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rectangle containing both r and other.
// Both rectangles must be normalized (non-negative size).
func (r Rect) Union(other Rect) Rect {
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.MaxX(), other.MaxX()) - x,
		Height: max(r.MaxY(), other.MaxY()) - y,
	}
}

// ContainsPoint reports whether p lies inside the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Corners returns the four corner points in clockwise order starting at
// the origin corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.MaxX(), r.Y},
		{r.MaxX(), r.MaxY()},
		{r.X, r.MaxY()},
	}
}

// Affine represents a 2D affine transformation matrix.
// The matrix is stored in row-major order as:
//
//	| A  B  C |
//	| D  E  F |
//
// Where a point (x, y) is transformed to:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Affine struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{A: 1, B: 0, C: 0, D: 0, E: 1, F: 0}
}

// Translate creates a translation transformation.
func Translate(x, y float32) Affine {
	return Affine{A: 1, B: 0, C: x, D: 0, E: 1, F: y}
}

// Scale creates a scaling transformation.
func Scale(x, y float32) Affine {
	return Affine{A: x, B: 0, C: 0, D: 0, E: y, F: 0}
}

// Rotate creates a rotation transformation (angle in radians).
func Rotate(angle float32) Affine {
	cos := math32.Cos(angle)
	sin := math32.Sin(angle)
	return Affine{A: cos, B: -sin, C: 0, D: sin, E: cos, F: 0}
}

// SkewX creates a horizontal shear transformation (angle in radians).
func SkewX(angle float32) Affine {
	return Affine{A: 1, B: math32.Tan(angle), C: 0, D: 0, E: 1, F: 0}
}

// SkewY creates a vertical shear transformation (angle in radians).
func SkewY(angle float32) Affine {
	return Affine{A: 1, B: 0, C: 0, D: math32.Tan(angle), E: 1, F: 0}
}

// Multiply returns the product of two affine transformations.
// The result applies b first, then a.
func (a Affine) Multiply(b Affine) Affine {
	return Affine{
		A: a.A*b.A + a.B*b.D,
		B: a.A*b.B + a.B*b.E,
		C: a.A*b.C + a.B*b.F + a.C,
		D: a.D*b.A + a.E*b.D,
		E: a.D*b.B + a.E*b.E,
		F: a.D*b.C + a.E*b.F + a.F,
	}
}

// TransformPoint transforms a point by the affine matrix.
func (a Affine) TransformPoint(x, y float32) (float32, float32) {
	return a.A*x + a.B*y + a.C, a.D*x + a.E*y + a.F
}

// IsIdentity returns true if this is the identity transformation.
func (a Affine) IsIdentity() bool {
	return a.A == 1 && a.B == 0 && a.C == 0 &&
		a.D == 0 && a.E == 1 && a.F == 0
}

// Determinant returns the determinant of the linear part of the matrix.
// A zero determinant means the transform collapses all geometry onto a
// line or point.
func (a Affine) Determinant() float32 {
	return a.A*a.E - a.B*a.D
}
