package vg

// LineCap specifies the shape of stroke endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of stroke joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// PaintAttrs is the cascading paint record carried by every node. The
// zero value of every field means "inherit": nil pointers, nil slices and
// zero-kind colors all take the ancestor's value during Cascade.
type PaintAttrs struct {
	// CurrentColor is the value currentColor keywords resolve to at this
	// node and below.
	CurrentColor Color

	// Fill is the interior paint color.
	Fill Color

	// Stroke is the outline paint color.
	Stroke Color

	// FillAlpha and StrokeAlpha are opacity multipliers in [0, 1],
	// baked into the brush alpha at leaf conversion.
	FillAlpha   *float32
	StrokeAlpha *float32

	// StrokeWidth is the stroke width in user units.
	StrokeWidth *float32

	// StrokeMiterLimit bounds the length of miter joins.
	StrokeMiterLimit *float32

	// StrokeDashOffset is the starting offset into the dash pattern.
	StrokeDashOffset *float32

	// StrokeCap selects the endpoint shape.
	StrokeCap *LineCap

	// StrokeJoin selects the corner shape.
	StrokeJoin *LineJoin

	// FillRule fills the shape itself.
	FillRule *FillRule

	// ClipFillRule applies when the shape is used as a clip.
	ClipFillRule *FillRule

	// StrokeDashArray is the dash pattern. Nil inherits; an empty
	// non-nil slice means dashing is explicitly off.
	StrokeDashArray []float32

	// Hidden is the inheritable visibility flag. A child may override an
	// inherited true back to false.
	Hidden *bool

	// MaskID references a mask definition by id. Never inherited; the
	// resolver clears it once consumed.
	MaskID string

	// ClipID references a clip-path definition by id. Never inherited.
	ClipID string

	// InClipPath marks geometry inside a clip-path definition. Clip
	// geometry is never pruned for paint invisibility; at conversion it
	// draws as an opaque fill with no stroke.
	InClipPath bool

	// UserSpace yields the document's user-space rectangle, used to
	// resolve percentage gradient coordinates. Installed on the root and
	// inherited everywhere below.
	UserSpace func() Rect
}

// Cascade merges the node's explicit attributes over the inherited ones:
// set fields win, unset fields take the parent's value. MaskID and ClipID
// stay with the node; InClipPath propagates downward only.
func (p PaintAttrs) Cascade(parent *PaintAttrs) PaintAttrs {
	out := p
	if parent == nil {
		return out
	}
	if out.CurrentColor.Kind == ColorInherit || out.CurrentColor.Kind == ColorCurrent {
		out.CurrentColor = parent.CurrentColor
	}
	if out.Fill.Kind == ColorInherit {
		out.Fill = parent.Fill
	}
	if out.Stroke.Kind == ColorInherit {
		out.Stroke = parent.Stroke
	}
	if out.FillAlpha == nil {
		out.FillAlpha = parent.FillAlpha
	}
	if out.StrokeAlpha == nil {
		out.StrokeAlpha = parent.StrokeAlpha
	}
	if out.StrokeWidth == nil {
		out.StrokeWidth = parent.StrokeWidth
	}
	if out.StrokeMiterLimit == nil {
		out.StrokeMiterLimit = parent.StrokeMiterLimit
	}
	if out.StrokeDashOffset == nil {
		out.StrokeDashOffset = parent.StrokeDashOffset
	}
	if out.StrokeCap == nil {
		out.StrokeCap = parent.StrokeCap
	}
	if out.StrokeJoin == nil {
		out.StrokeJoin = parent.StrokeJoin
	}
	if out.FillRule == nil {
		out.FillRule = parent.FillRule
	}
	if out.ClipFillRule == nil {
		out.ClipFillRule = parent.ClipFillRule
	}
	if out.StrokeDashArray == nil {
		out.StrokeDashArray = parent.StrokeDashArray
	}
	if out.Hidden == nil {
		out.Hidden = parent.Hidden
	}
	out.InClipPath = out.InClipPath || parent.InClipPath
	if out.UserSpace == nil {
		out.UserSpace = parent.UserSpace
	}
	return out
}

// rootPaint is the paint context installed on the document root before
// cascading begins. It supplies a concrete default for every attribute so
// no "inherit" can survive to leaf conversion.
func rootPaint(currentColor Color) PaintAttrs {
	if currentColor.Kind != ColorValue {
		currentColor = RGB(0x000000)
	}
	return PaintAttrs{
		CurrentColor:     currentColor,
		Fill:             RGB(0x000000),
		Stroke:           NoPaint(),
		FillAlpha:        ptr(float32(1)),
		StrokeAlpha:      ptr(float32(1)),
		StrokeWidth:      ptr(float32(1)),
		StrokeMiterLimit: ptr(float32(4)),
		StrokeDashOffset: ptr(float32(0)),
		StrokeCap:        ptr(LineCapButt),
		StrokeJoin:       ptr(LineJoinMiter),
		FillRule:         ptr(FillRuleNonZero),
		ClipFillRule:     ptr(FillRuleNonZero),
		StrokeDashArray:  []float32{},
		Hidden:           ptr(false),
	}
}

// Paint is the fully resolved drawing style attached to a leaf by the
// build traversal. Every field is concrete; hidden geometry never reaches
// a builder.
type Paint struct {
	// Fill is the resolved interior paint source.
	Fill Brush

	// Stroke is the resolved outline paint source.
	Stroke Brush

	// StrokeWidth is the stroke width in user units.
	StrokeWidth float32

	// MiterLimit bounds the length of miter joins.
	MiterLimit float32

	// DashOffset is the starting offset into Dashes.
	DashOffset float32

	// Cap is the shape of stroke endpoints.
	Cap LineCap

	// Join is the shape of stroke joins.
	Join LineJoin

	// FillRule determines the interior of the fill.
	FillRule FillRule

	// ClipRule is the fill rule used when the geometry clips.
	ClipRule FillRule

	// Dashes is the dash pattern; empty means solid.
	Dashes []float32

	// InClipPath marks clip geometry, emitted as ClipPath rather than
	// Path.
	InClipPath bool
}

// Clone creates a copy of the Paint.
func (p *Paint) Clone() *Paint {
	out := *p
	if p.Dashes != nil {
		out.Dashes = append([]float32(nil), p.Dashes...)
	}
	return &out
}

// eachFloat visits the stroke scalars, the dash pattern and every float
// embedded in the fill and stroke brushes, in a fixed order shared by the
// dry-run pass and the binary encoder.
func (p *Paint) eachFloat(fn func(float32)) {
	p.Fill.eachFloat(fn)
	p.Stroke.eachFloat(fn)
	fn(p.StrokeWidth)
	fn(p.MiterLimit)
	if len(p.Dashes) > 0 {
		fn(p.DashOffset)
		for _, d := range p.Dashes {
			fn(d)
		}
	}
}

// ptr returns a pointer to v. Convenience for the optional attribute
// fields.
func ptr[T any](v T) *T { return &v }
