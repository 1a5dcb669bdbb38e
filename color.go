package vg

// ColorKind discriminates the forms a color can take in a document before
// resolution.
type ColorKind uint32

const (
	// ColorInherit takes the value from the inherited paint context.
	ColorInherit ColorKind = iota
	// ColorValue is an explicit color value.
	ColorValue
	// ColorNone paints nothing.
	ColorNone
	// ColorCurrent resolves to the cascaded currentColor value.
	ColorCurrent
	// ColorGradient references a gradient definition by id.
	ColorGradient
)

// String returns a human-readable name for the color kind.
func (k ColorKind) String() string {
	switch k {
	case ColorInherit:
		return "Inherit"
	case ColorValue:
		return "Value"
	case ColorNone:
		return "None"
	case ColorCurrent:
		return "CurrentColor"
	case ColorGradient:
		return "Gradient"
	default:
		return "Unknown"
	}
}

// Color is a paint color as written in a document: an explicit value, a
// keyword, or a gradient reference. The zero value is "inherit".
type Color struct {
	// Kind selects which of the remaining fields is meaningful.
	Kind ColorKind

	// ARGB is the color as non-premultiplied 0xAARRGGBB.
	// Meaningful only when Kind is ColorValue.
	ARGB uint32

	// Gradient is the referenced gradient definition id.
	// Meaningful only when Kind is ColorGradient.
	Gradient string
}

// RGB returns an opaque color from a 0xRRGGBB value.
func RGB(rgb uint32) Color {
	return Color{Kind: ColorValue, ARGB: 0xFF000000 | (rgb & 0xFFFFFF)}
}

// ARGB returns a color from a non-premultiplied 0xAARRGGBB value.
func ARGB(argb uint32) Color {
	return Color{Kind: ColorValue, ARGB: argb}
}

// NoPaint returns the "none" color: the region is not painted.
func NoPaint() Color {
	return Color{Kind: ColorNone}
}

// CurrentColor returns the color that resolves to the cascaded
// currentColor value.
func CurrentColor() Color {
	return Color{Kind: ColorCurrent}
}

// GradientRef returns a color referencing the gradient definition with the
// given id.
func GradientRef(id string) Color {
	return Color{Kind: ColorGradient, Gradient: id}
}

// IsSet reports whether the color carries any value at all, i.e. is not
// "inherit".
func (c Color) IsSet() bool { return c.Kind != ColorInherit }

// scaleAlpha multiplies the alpha channel of a value color by m, clamped
// to [0, 1]. Other kinds pass through unchanged.
func (c Color) scaleAlpha(m float32) Color {
	if c.Kind != ColorValue {
		return c
	}
	c.ARGB = scaleARGB(c.ARGB, m)
	return c
}

// scaleARGB multiplies the alpha byte of an ARGB value by m, clamped to
// [0, 1].
func scaleARGB(argb uint32, m float32) uint32 {
	if m >= 1 {
		return argb
	}
	if m < 0 {
		m = 0
	}
	a := float32(argb>>24) * m
	return argb&0x00FFFFFF | uint32(a+0.5)<<24
}

// BrushKind discriminates resolved paint sources.
type BrushKind uint32

const (
	// BrushNone paints nothing. The zero value.
	BrushNone BrushKind = iota
	// BrushSolid is a flat color.
	BrushSolid
	// BrushGradient is an instantiated gradient.
	BrushGradient
)

// String returns a human-readable name for the brush kind.
func (k BrushKind) String() string {
	switch k {
	case BrushNone:
		return "None"
	case BrushSolid:
		return "Solid"
	case BrushGradient:
		return "Gradient"
	default:
		return "Unknown"
	}
}

// Brush is a fully resolved paint source as seen by builder targets:
// no inherit, no currentColor, no unresolved references.
type Brush struct {
	// Kind selects the paint source.
	Kind BrushKind

	// ARGB is the solid color, non-premultiplied 0xAARRGGBB.
	// Meaningful only when Kind is BrushSolid.
	ARGB uint32

	// Gradient is the instantiated gradient.
	// Non-nil exactly when Kind is BrushGradient.
	Gradient *ResolvedGradient
}

// SolidBrush returns a flat color brush.
func SolidBrush(argb uint32) Brush {
	return Brush{Kind: BrushSolid, ARGB: argb}
}

// IsVisible reports whether drawing with the brush can produce output.
// A solid brush with zero alpha is invisible; gradients always count as
// visible.
func (b Brush) IsVisible() bool {
	switch b.Kind {
	case BrushSolid:
		return b.ARGB>>24 != 0
	case BrushGradient:
		return true
	default:
		return false
	}
}

// eachFloat visits every float component embedded in the brush in a fixed
// order. The dry-run pass interns these into the canonical float table and
// the binary encoder replays the identical walk, which is what keeps
// float-table indices consistent between passes.
func (b Brush) eachFloat(fn func(float32)) {
	if b.Kind != BrushGradient || b.Gradient == nil {
		return
	}
	b.Gradient.eachFloat(fn)
}
