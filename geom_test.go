package vg

import (
	"testing"

	"github.com/chewxy/math32"
)

func nearf(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestAffineIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("Translate(1,0).IsIdentity() = true")
	}
	x, y := Identity().TransformPoint(3, -7)
	if x != 3 || y != -7 {
		t.Errorf("identity moved the point to (%g, %g)", x, y)
	}
}

func TestAffineMultiplyOrder(t *testing.T) {
	// Multiply applies the right operand first: translate then scale is
	// not scale then translate.
	ts := Scale(2, 2).Multiply(Translate(1, 0))
	x, y := ts.TransformPoint(0, 0)
	if x != 2 || y != 0 {
		t.Errorf("scale∘translate maps origin to (%g, %g), want (2, 0)", x, y)
	}
	st := Translate(1, 0).Multiply(Scale(2, 2))
	x, y = st.TransformPoint(0, 0)
	if x != 1 || y != 0 {
		t.Errorf("translate∘scale maps origin to (%g, %g), want (1, 0)", x, y)
	}
}

func TestAffineRotate(t *testing.T) {
	x, y := Rotate(math32.Pi/2).TransformPoint(1, 0)
	if !nearf(x, 0) || !nearf(y, 1) {
		t.Errorf("quarter turn maps (1,0) to (%g, %g), want (0, 1)", x, y)
	}
}

func TestAffineDeterminant(t *testing.T) {
	if d := Scale(2, 3).Determinant(); d != 6 {
		t.Errorf("Scale(2,3).Determinant() = %g, want 6", d)
	}
	if d := Scale(0, 5).Determinant(); d != 0 {
		t.Errorf("degenerate scale determinant = %g, want 0", d)
	}
	if d := Translate(10, 20).Determinant(); d != 1 {
		t.Errorf("translation determinant = %g, want 1", d)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: -5, Width: 10, Height: 10}
	got := a.Union(b)
	want := Rect{X: 0, Y: -5, Width: 15, Height: 15}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
	// A degenerate rect still contributes its position.
	p := Rect{X: -3, Y: 2}
	got = a.Union(p)
	if got.X != -3 || got.Width != 13 {
		t.Errorf("union with point rect = %+v", got)
	}
}

func TestRectEmptyAndContains(t *testing.T) {
	if (Rect{Width: 1, Height: 1}).IsEmpty() {
		t.Error("unit rect reported empty")
	}
	if !(Rect{Width: 0, Height: 5}).IsEmpty() {
		t.Error("zero-width rect reported non-empty")
	}
	r := Rect{X: 1, Y: 1, Width: 2, Height: 2}
	if !r.ContainsPoint(Point{2, 2}) {
		t.Error("interior point reported outside")
	}
	if r.ContainsPoint(Point{0, 0}) {
		t.Error("exterior point reported inside")
	}
}

func TestBoundaryTransformedBounds(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 2, Height: 1}
	b := NewBoundary(r).Transformed(Rotate(math32.Pi / 2)).Bounds()
	if !nearf(b.X, -1) || !nearf(b.Y, 0) || !nearf(b.Width, 1) || !nearf(b.Height, 2) {
		t.Errorf("rotated bounds = %+v, want {-1 0 1 2}", b)
	}
}
