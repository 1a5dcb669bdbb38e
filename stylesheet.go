package vg

import "strings"

// StyleAttrs is the attribute bundle a stylesheet rule can contribute.
// Paint and Text reuse the cascading records; unset fields there mean
// "this rule does not set it".
type StyleAttrs struct {
	Paint PaintAttrs
	Text  TextAttrs

	// Transform merges multiplicatively ahead of a node's own transform.
	Transform *Affine

	// Alpha is the group opacity.
	Alpha *uint8

	// Blend is the layer blend mode.
	Blend *BlendMode

	// Display false removes matched nodes from the tree.
	Display *bool
}

// Rule is one parsed stylesheet rule. Front ends produce them from CSS
// text; only simple selectors survive parsing (tag, .class, tag.class,
// #id and comma lists of those).
type Rule struct {
	// Tag restricts the rule to one element name. Empty or "*" matches
	// any element.
	Tag string

	// Class restricts the rule to nodes carrying the token. Empty means
	// a tag-level default.
	Class string

	// ID keys the rule to a single element; Tag and Class are ignored
	// when set.
	ID string

	// Attrs is what the rule applies.
	Attrs StyleAttrs
}

// Stylesheet holds parsed style rules indexed for application. The zero
// value is an empty, usable stylesheet.
type Stylesheet struct {
	byTag map[string][]*Rule
	byID  map[string][]*Rule
}

// Add appends one rule, preserving declaration order within its bucket.
func (s *Stylesheet) Add(r Rule) {
	if r.ID != "" {
		if s.byID == nil {
			s.byID = make(map[string][]*Rule)
		}
		s.byID[r.ID] = append(s.byID[r.ID], &r)
		return
	}
	tag := r.Tag
	if tag == "" {
		tag = "*"
	}
	if s.byTag == nil {
		s.byTag = make(map[string][]*Rule)
	}
	s.byTag[tag] = append(s.byTag[tag], &r)
}

// Empty reports whether the stylesheet holds no rules.
func (s *Stylesheet) Empty() bool {
	return len(s.byTag) == 0 && len(s.byID) == 0
}

// apply fills the node's absent attributes from matching rules. Later
// declarations win, so buckets apply in reverse declaration order:
// class-matched rules, then tag-level defaults, for the node's own tag
// and then the wildcard, and finally rules keyed by the node's id.
// Explicit node attributes always beat the stylesheet.
func (s *Stylesheet) apply(base *NodeBase, tag string) {
	if s.Empty() {
		return
	}
	tokens := strings.Fields(base.Class)
	for _, t := range [2]string{tag, "*"} {
		rules := s.byTag[t]
		for i := len(rules) - 1; i >= 0; i-- {
			r := rules[i]
			if r.Class != "" && hasToken(tokens, r.Class) {
				base.ApplyStyle(&r.Attrs)
			}
		}
		for i := len(rules) - 1; i >= 0; i-- {
			r := rules[i]
			if r.Class == "" {
				base.ApplyStyle(&r.Attrs)
			}
		}
	}
	if base.ID != "" {
		rules := s.byID[base.ID]
		for i := len(rules) - 1; i >= 0; i-- {
			base.ApplyStyle(&rules[i].Attrs)
		}
	}
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// ApplyStyle merges one attribute bundle into the node, filling absent
// fields only: attributes the node already sets explicitly always win.
// Transforms compose, bundle ahead of node. The resolver uses it for
// stylesheet rules; front ends use it to layer inline styles over
// presentation attributes.
func (b *NodeBase) ApplyStyle(a *StyleAttrs) {
	b.Paint = b.Paint.fillFrom(&a.Paint)
	b.Text = b.Text.fillFrom(&a.Text)
	if a.Transform != nil {
		if b.Transform != nil {
			b.Transform = ptr(a.Transform.Multiply(*b.Transform))
		} else {
			b.Transform = ptr(*a.Transform)
		}
	}
	if a.Alpha != nil && b.Alpha == nil {
		b.Alpha = ptr(*a.Alpha)
	}
	if a.Blend != nil && b.Blend == BlendNormal {
		b.Blend = *a.Blend
	}
	if a.Display != nil {
		b.Display = b.Display && *a.Display
	}
}

// fillFrom takes a's value for every attribute p leaves unset. Unlike
// Cascade it never resolves relative values and fills the mask and clip
// references too: a stylesheet rule stands in for attributes written on
// the element itself.
func (p PaintAttrs) fillFrom(a *PaintAttrs) PaintAttrs {
	out := p
	if out.CurrentColor.Kind == ColorInherit {
		out.CurrentColor = a.CurrentColor
	}
	if out.Fill.Kind == ColorInherit {
		out.Fill = a.Fill
	}
	if out.Stroke.Kind == ColorInherit {
		out.Stroke = a.Stroke
	}
	if out.FillAlpha == nil {
		out.FillAlpha = a.FillAlpha
	}
	if out.StrokeAlpha == nil {
		out.StrokeAlpha = a.StrokeAlpha
	}
	if out.StrokeWidth == nil {
		out.StrokeWidth = a.StrokeWidth
	}
	if out.StrokeMiterLimit == nil {
		out.StrokeMiterLimit = a.StrokeMiterLimit
	}
	if out.StrokeDashOffset == nil {
		out.StrokeDashOffset = a.StrokeDashOffset
	}
	if out.StrokeCap == nil {
		out.StrokeCap = a.StrokeCap
	}
	if out.StrokeJoin == nil {
		out.StrokeJoin = a.StrokeJoin
	}
	if out.FillRule == nil {
		out.FillRule = a.FillRule
	}
	if out.ClipFillRule == nil {
		out.ClipFillRule = a.ClipFillRule
	}
	if out.StrokeDashArray == nil {
		out.StrokeDashArray = a.StrokeDashArray
	}
	if out.Hidden == nil {
		out.Hidden = a.Hidden
	}
	if out.MaskID == "" {
		out.MaskID = a.MaskID
	}
	if out.ClipID == "" {
		out.ClipID = a.ClipID
	}
	return out
}

// fillFrom takes a's value for every attribute t leaves unset, keeping
// relative weights and sizes unresolved for the later cascade.
func (t TextAttrs) fillFrom(a *TextAttrs) TextAttrs {
	out := t
	if out.Family == nil {
		out.Family = a.Family
	}
	if out.Style == nil {
		out.Style = a.Style
	}
	if out.Weight == WeightInherit {
		out.Weight = a.Weight
	}
	if out.Size.Kind == SizeInherit {
		out.Size = a.Size
	}
	if out.Anchor == nil {
		out.Anchor = a.Anchor
	}
	if out.Baseline == nil {
		out.Baseline = a.Baseline
	}
	if out.Decoration == nil {
		out.Decoration = a.Decoration
	}
	return out
}
