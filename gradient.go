package vg

import "github.com/chewxy/math32"

// GradientKind discriminates gradient geometries.
type GradientKind uint32

const (
	// GradientLinear interpolates along a line between two endpoints.
	GradientLinear GradientKind = iota
	// GradientRadial interpolates outward from a focal point to a circle.
	GradientRadial
	// GradientSweep interpolates by angle around a center.
	GradientSweep
)

// String returns a human-readable name for the gradient kind.
func (k GradientKind) String() string {
	switch k {
	case GradientLinear:
		return "Linear"
	case GradientRadial:
		return "Radial"
	case GradientSweep:
		return "Sweep"
	default:
		return "Unknown"
	}
}

// SpreadMethod defines how gradients extend beyond their defined bounds.
type SpreadMethod int

const (
	// SpreadPad extends edge colors beyond bounds (default behavior).
	SpreadPad SpreadMethod = iota
	// SpreadReflect mirrors the gradient pattern.
	SpreadReflect
	// SpreadRepeat repeats the gradient pattern.
	SpreadRepeat
)

// String returns a human-readable name for the spread method.
func (s SpreadMethod) String() string {
	switch s {
	case SpreadPad:
		return "Pad"
	case SpreadReflect:
		return "Reflect"
	case SpreadRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// GradientStop represents a color at a specific position in a gradient.
type GradientStop struct {
	// Offset is the position along the gradient in [0, 1].
	Offset float32

	// Color is the stop color. CurrentColor resolves against the
	// referencing node's cascaded value; a gradient reference is invalid
	// here.
	Color Color

	// Opacity multiplies the stop color's alpha, in [0, 1].
	Opacity float32
}

// Coord is an optional gradient coordinate: absent, an absolute value, or
// a fraction of a reference box.
type Coord struct {
	// Value is the coordinate. For fractions it is already normalized
	// (50% is stored as 0.5).
	Value float32

	// Fraction marks Value as a fraction of the reference box rather
	// than an absolute length.
	Fraction bool

	// IsSet distinguishes an explicit zero from an absent coordinate.
	// Absent coordinates inherit along the parent chain, then default.
	IsSet bool
}

// Val returns an absolute coordinate.
func Val(v float32) Coord { return Coord{Value: v, IsSet: true} }

// Frac returns a fractional coordinate. Percentages divide by 100 before
// calling this.
func Frac(v float32) Coord { return Coord{Value: v, Fraction: true, IsSet: true} }

// GradientSpec is a gradient definition as written in a document, before
// parent-chain resolution. Unset fields may be filled from a parent
// gradient and fall back to per-kind defaults.
type GradientSpec struct {
	// Kind selects the geometry.
	Kind GradientKind

	// X1, Y1, X2, Y2 are the linear endpoints.
	X1, Y1, X2, Y2 Coord

	// CX, CY is the center point for radial and sweep gradients, FX, FY
	// the radial focal point, R the radial radius.
	CX, CY, FX, FY, R Coord

	// StartAngle and EndAngle are sweep angles in radians.
	StartAngle, EndAngle Coord

	// Stops is the ordered stop list. Nil means "not declared" and
	// inherits; an empty non-nil slice is a declared empty list.
	Stops []GradientStop

	// Spread selects edge behavior. Nil inherits.
	Spread *SpreadMethod

	// UserSpace selects the coordinate reference: false or absent means
	// coordinates are fractions of the painted object's bounding box,
	// true means document user space.
	UserSpace *bool

	// Transform is the gradient transform. Nil inherits.
	Transform *Affine

	// Parent is the id of the parent gradient for attribute inheritance
	// across definition chains.
	Parent string
}

// mergeFrom fills g's unset fields from a parent gradient. Callers gate
// on matching kinds: a parent of a different kind contributes nothing.
func (g *GradientSpec) mergeFrom(parent *GradientSpec) {
	fillCoord(&g.X1, parent.X1)
	fillCoord(&g.Y1, parent.Y1)
	fillCoord(&g.X2, parent.X2)
	fillCoord(&g.Y2, parent.Y2)
	fillCoord(&g.CX, parent.CX)
	fillCoord(&g.CY, parent.CY)
	fillCoord(&g.FX, parent.FX)
	fillCoord(&g.FY, parent.FY)
	fillCoord(&g.R, parent.R)
	fillCoord(&g.StartAngle, parent.StartAngle)
	fillCoord(&g.EndAngle, parent.EndAngle)
	if g.Stops == nil {
		g.Stops = parent.Stops
	}
	if g.Spread == nil {
		g.Spread = parent.Spread
	}
	if g.UserSpace == nil {
		g.UserSpace = parent.UserSpace
	}
	if g.Transform == nil {
		g.Transform = parent.Transform
	}
}

func fillCoord(dst *Coord, src Coord) {
	if !dst.IsSet {
		*dst = src
	}
}

// applyDefaults fills every still-unset field with its per-kind default:
// linear runs (0,0) to (1,0), radial centers at (0.5,0.5) with radius 0.5
// and focal point at the center, sweeps run a full turn.
func (g *GradientSpec) applyDefaults() {
	switch g.Kind {
	case GradientLinear:
		fillCoord(&g.X1, Frac(0))
		fillCoord(&g.Y1, Frac(0))
		fillCoord(&g.X2, Frac(1))
		fillCoord(&g.Y2, Frac(0))
	case GradientRadial:
		fillCoord(&g.CX, Frac(0.5))
		fillCoord(&g.CY, Frac(0.5))
		fillCoord(&g.R, Frac(0.5))
		fillCoord(&g.FX, g.CX)
		fillCoord(&g.FY, g.CY)
	case GradientSweep:
		fillCoord(&g.CX, Frac(0.5))
		fillCoord(&g.CY, Frac(0.5))
		fillCoord(&g.StartAngle, Val(0))
		// A sweep with no end runs a full turn from the start angle.
		if !g.EndAngle.IsSet {
			g.EndAngle = Val(g.StartAngle.Value + 2*math32.Pi)
		}
	}
	if g.Spread == nil {
		g.Spread = ptr(SpreadPad)
	}
	if g.UserSpace == nil {
		g.UserSpace = ptr(false)
	}
	if g.Transform == nil {
		t := Identity()
		g.Transform = &t
	}
}

// resolveGradientChain walks the parent links of the gradient named by id,
// merging unset attributes downward and applying defaults at the end.
// Parents of a different kind are skipped but the walk continues past
// them. A dangling parent stops the walk with a warning; a cycle does
// too. Returns nil when id does not name a gradient.
func resolveGradientChain(id string, lookup func(string) *GradientSpec, warn Warn) *GradientSpec {
	spec := lookup(id)
	if spec == nil {
		return nil
	}
	out := *spec
	seen := map[string]bool{id: true}
	for parent := out.Parent; parent != ""; {
		if seen[parent] {
			warn.Warnf("vg: gradient %q: parent chain contains a cycle at %q", id, parent)
			break
		}
		seen[parent] = true
		ps := lookup(parent)
		if ps == nil {
			warn.Warnf("vg: gradient %q: parent %q not found", id, parent)
			break
		}
		if ps.Kind == out.Kind {
			out.mergeFrom(ps)
		}
		parent = ps.Parent
	}
	out.Parent = ""
	out.applyDefaults()
	return &out
}

// ResolvedGradient is a gradient instantiated at a leaf: geometry in
// concrete coordinates, stops flattened to plain colors, ready for any
// builder target.
type ResolvedGradient struct {
	// Kind selects the geometry.
	Kind GradientKind

	// Coords holds the instantiated geometry, by kind:
	//   linear: x1, y1, x2, y2
	//   radial: cx, cy, fx, fy, r
	//   sweep:  cx, cy, startAngle, endAngle
	Coords []float32

	// Stops are the flattened stops, offsets non-decreasing.
	Stops []ResolvedStop

	// Spread selects edge behavior.
	Spread SpreadMethod

	// Transform maps gradient coordinates into the leaf's user space.
	// For bounding-box gradients it carries the box mapping composed
	// with the declared gradient transform.
	Transform Affine
}

// ResolvedStop is a flattened gradient stop.
type ResolvedStop struct {
	// Offset is the position in [0, 1].
	Offset float32

	// ARGB is the concrete stop color, non-premultiplied 0xAARRGGBB.
	ARGB uint32
}

// eachFloat visits the geometry, the transform and every stop offset in a
// fixed order. See Brush.eachFloat.
func (g *ResolvedGradient) eachFloat(fn func(float32)) {
	for _, c := range g.Coords {
		fn(c)
	}
	fn(g.Transform.A)
	fn(g.Transform.B)
	fn(g.Transform.C)
	fn(g.Transform.D)
	fn(g.Transform.E)
	fn(g.Transform.F)
	for _, s := range g.Stops {
		fn(s.Offset)
	}
}

// instantiate turns a chain-resolved spec into a concrete gradient for a
// leaf with the given untransformed bounds. Fractional coordinates map
// either through the object bounding box (kept in the transform so radial
// geometry survives non-uniform boxes) or against the user-space
// rectangle. Returns nil when the gradient has no stops.
func (g *GradientSpec) instantiate(objBounds Rect, userSpace func() Rect, currentColor Color, warn Warn) *ResolvedGradient {
	stops := flattenStops(g.Stops, currentColor, warn)
	if len(stops) == 0 {
		return nil
	}

	out := &ResolvedGradient{
		Kind:      g.Kind,
		Spread:    *g.Spread,
		Stops:     stops,
		Transform: *g.Transform,
	}

	if *g.UserSpace {
		us := Rect{}
		if userSpace != nil {
			us = userSpace()
		}
		resolve := func(c Coord, origin, extent float32) float32 {
			if c.Fraction {
				return origin + c.Value*extent
			}
			return c.Value
		}
		// Percentage radii measure against the normalized diagonal.
		diag := math32.Hypot(us.Width, us.Height) / math32.Sqrt2
		switch g.Kind {
		case GradientLinear:
			out.Coords = []float32{
				resolve(g.X1, us.X, us.Width),
				resolve(g.Y1, us.Y, us.Height),
				resolve(g.X2, us.X, us.Width),
				resolve(g.Y2, us.Y, us.Height),
			}
		case GradientRadial:
			out.Coords = []float32{
				resolve(g.CX, us.X, us.Width),
				resolve(g.CY, us.Y, us.Height),
				resolve(g.FX, us.X, us.Width),
				resolve(g.FY, us.Y, us.Height),
				resolve(g.R, 0, diag),
			}
		case GradientSweep:
			out.Coords = []float32{
				resolve(g.CX, us.X, us.Width),
				resolve(g.CY, us.Y, us.Height),
				g.StartAngle.Value,
				g.EndAngle.Value,
			}
		}
		return out
	}

	// Bounding-box units: coordinates stay in the unit square and the
	// box mapping composes ahead of the declared gradient transform, so
	// a radial gradient in a non-square box stays elliptical.
	box := Translate(objBounds.X, objBounds.Y).Multiply(Scale(objBounds.Width, objBounds.Height))
	out.Transform = box.Multiply(*g.Transform)
	switch g.Kind {
	case GradientLinear:
		out.Coords = []float32{g.X1.Value, g.Y1.Value, g.X2.Value, g.Y2.Value}
	case GradientRadial:
		out.Coords = []float32{g.CX.Value, g.CY.Value, g.FX.Value, g.FY.Value, g.R.Value}
	case GradientSweep:
		out.Coords = []float32{g.CX.Value, g.CY.Value, g.StartAngle.Value, g.EndAngle.Value}
	}
	return out
}

// flattenStops clamps offsets into [0, 1], forces them non-decreasing in
// document order and resolves stop colors to concrete values.
func flattenStops(stops []GradientStop, currentColor Color, warn Warn) []ResolvedStop {
	out := make([]ResolvedStop, 0, len(stops))
	prev := float32(0)
	for _, s := range stops {
		off := s.Offset
		if off < 0 {
			off = 0
		}
		if off > 1 {
			off = 1
		}
		if off < prev {
			off = prev
		}
		prev = off

		var argb uint32
		switch s.Color.Kind {
		case ColorValue:
			argb = s.Color.ARGB
		case ColorCurrent:
			if currentColor.Kind == ColorValue {
				argb = currentColor.ARGB
			} else {
				argb = 0xFF000000
			}
		case ColorNone:
			argb = 0x00000000
		default:
			warn.Warnf("vg: gradient stop color %v is not usable, treating as black", s.Color.Kind)
			argb = 0xFF000000
		}
		op := s.Opacity
		if op < 0 {
			op = 0
		}
		if op > 1 {
			op = 1
		}
		a := float32(argb>>24) * op
		argb = argb&0x00FFFFFF | uint32(a+0.5)<<24

		out = append(out, ResolvedStop{Offset: off, ARGB: argb})
	}
	return out
}
