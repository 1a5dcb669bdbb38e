package vg

// FontStyle specifies the slant of a font face.
type FontStyle int

const (
	// StyleNormal is an upright face.
	StyleNormal FontStyle = iota
	// StyleItalic is a cursive italic face.
	StyleItalic
	// StyleOblique is a slanted upright face.
	StyleOblique
)

// String returns a human-readable name for the font style.
func (s FontStyle) String() string {
	switch s {
	case StyleNormal:
		return "Normal"
	case StyleItalic:
		return "Italic"
	case StyleOblique:
		return "Oblique"
	default:
		return "Unknown"
	}
}

// FontWeight is a font weight: inherit (the zero value), one of the nine
// absolute steps 100..900, or a relative adjustment that resolves against
// the inherited weight during cascade.
type FontWeight int

const (
	// WeightInherit takes the inherited weight.
	WeightInherit FontWeight = 0
	// WeightBolder steps the inherited weight up.
	WeightBolder FontWeight = -1
	// WeightLighter steps the inherited weight down.
	WeightLighter FontWeight = -2

	// WeightNormal is the regular weight.
	WeightNormal FontWeight = 400
	// WeightBold is the bold weight.
	WeightBold FontWeight = 700
)

// Weight quantizes a numeric CSS weight to the nearest of the nine
// absolute steps.
func Weight(n int) FontWeight {
	if n < 100 {
		n = 100
	}
	if n > 900 {
		n = 900
	}
	return FontWeight(((n + 50) / 100) * 100)
}

// IsAbsolute reports whether w is one of the nine absolute steps.
func (w FontWeight) IsAbsolute() bool { return w >= 100 }

// resolveAgainst turns a relative weight into an absolute one using the
// CSS bolder/lighter mapping tables. Absolute weights pass through;
// inherit takes the base.
func (w FontWeight) resolveAgainst(base FontWeight) FontWeight {
	switch w {
	case WeightInherit:
		return base
	case WeightBolder:
		switch {
		case base < 400:
			return 400
		case base < 600:
			return 700
		default:
			return 900
		}
	case WeightLighter:
		switch {
		case base < 600:
			return 100
		case base < 800:
			return 400
		default:
			return 700
		}
	default:
		return w
	}
}

// FontSizeKind discriminates font size forms.
type FontSizeKind uint32

const (
	// SizeInherit takes the inherited size.
	SizeInherit FontSizeKind = iota
	// SizeAbsolute is a size in user units.
	SizeAbsolute
	// SizeRelative multiplies the inherited size (em units, percentages,
	// larger/smaller keywords).
	SizeRelative
)

// FontSize is a font size: inherit (the zero value), an absolute value, or
// a multiplier resolved against the inherited size during cascade.
type FontSize struct {
	// Kind selects how Value is interpreted.
	Kind FontSizeKind
	// Value is the size in user units (SizeAbsolute) or the multiplier
	// (SizeRelative).
	Value float32
}

// AbsoluteSize returns a font size in user units.
func AbsoluteSize(v float32) FontSize {
	return FontSize{Kind: SizeAbsolute, Value: v}
}

// RelativeSize returns a font size that multiplies the inherited size.
func RelativeSize(mul float32) FontSize {
	return FontSize{Kind: SizeRelative, Value: mul}
}

// TextAnchor specifies how a text chunk aligns to its position.
type TextAnchor int

const (
	// AnchorStart places the start of the text at the position.
	AnchorStart TextAnchor = iota
	// AnchorMiddle centers the text on the position.
	AnchorMiddle
	// AnchorEnd places the end of the text at the position.
	AnchorEnd
)

// String returns a human-readable name for the anchor.
func (a TextAnchor) String() string {
	switch a {
	case AnchorStart:
		return "Start"
	case AnchorMiddle:
		return "Middle"
	case AnchorEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// TextBaseline specifies the dominant baseline of a text run.
type TextBaseline int

const (
	// BaselineAuto uses the alphabetic baseline.
	BaselineAuto TextBaseline = iota
	// BaselineMiddle centers glyphs vertically on the position.
	BaselineMiddle
	// BaselineHanging hangs glyphs below the position.
	BaselineHanging
)

// TextDecoration specifies a line drawn with the text.
type TextDecoration int

const (
	// DecorationNone draws no decoration line.
	DecorationNone TextDecoration = iota
	// DecorationUnderline draws a line under the text.
	DecorationUnderline
	// DecorationOverline draws a line over the text.
	DecorationOverline
	// DecorationLineThrough strikes the text through.
	DecorationLineThrough
)

// TextAttrs is the cascading text style record. The zero value of every
// field means "inherit".
type TextAttrs struct {
	// Family is the ordered font family list. Nil inherits.
	Family []string

	// Style selects the face slant.
	Style *FontStyle

	// Weight is the face weight. Relative values (bolder, lighter)
	// resolve during cascade, so a cascaded record is always absolute.
	Weight FontWeight

	// Size is the font size. Relative values resolve during cascade.
	Size FontSize

	// Anchor aligns a chunk to its position.
	Anchor *TextAnchor

	// Baseline selects the dominant baseline.
	Baseline *TextBaseline

	// Decoration draws a decoration line.
	Decoration *TextDecoration
}

// Cascade merges the node's explicit attributes over the inherited ones,
// resolving relative weights and sizes eagerly so resolved trees carry
// absolutes only.
func (t TextAttrs) Cascade(parent *TextAttrs) TextAttrs {
	out := t
	if parent == nil {
		return out
	}
	if out.Family == nil {
		out.Family = parent.Family
	}
	if out.Style == nil {
		out.Style = parent.Style
	}
	out.Weight = out.Weight.resolveAgainst(parent.Weight)
	switch out.Size.Kind {
	case SizeInherit:
		out.Size = parent.Size
	case SizeRelative:
		base := parent.Size.Value
		out.Size = AbsoluteSize(base * out.Size.Value)
	}
	if out.Anchor == nil {
		out.Anchor = parent.Anchor
	}
	if out.Baseline == nil {
		out.Baseline = parent.Baseline
	}
	if out.Decoration == nil {
		out.Decoration = parent.Decoration
	}
	return out
}

// rootText is the text context installed on the document root, supplying a
// concrete default for every attribute.
func rootText() TextAttrs {
	return TextAttrs{
		Family:     []string{"Helvetica"},
		Style:      ptr(StyleNormal),
		Weight:     WeightNormal,
		Size:       AbsoluteSize(14),
		Anchor:     ptr(AnchorStart),
		Baseline:   ptr(BaselineAuto),
		Decoration: ptr(DecorationNone),
	}
}
