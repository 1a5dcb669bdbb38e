package vg

import "github.com/gogpu/vg/pathdata"

// Build walks a resolved document into target. It runs the traversal
// twice: a dry-run pass against an internal collecting target interns
// every shareable value into fresh canonical tables, then the frozen
// tables are handed to target through Init and the identical traversal
// replays with real calls. One traversal function serves both passes, so
// the indices the real pass emits always exist in the tables.
//
// Building an unresolved document is a programming error and panics.
func Build(doc *Document, target Builder) {
	if doc == nil || !doc.Resolved() {
		panic("vg: build requires a resolved document")
	}
	d := &driver{
		doc:     doc,
		canon:   NewCanon(),
		warn:    doc.warn,
		paints:  make(map[any]*Paint),
		bounds:  make(map[Node]Rect),
		visible: make(map[Node]bool),
	}
	d.b = collector{}
	d.pass()
	d.canon.Freeze()
	d.b = target
	d.pass()
}

// driver owns the per-build state shared by the two passes: the tables
// being built, and memos that keep paint resolution, bounds estimation
// and emptiness decisions identical between passes.
type driver struct {
	doc   *Document
	canon *Canon
	b     Builder
	warn  Warn

	// paints memoizes resolved leaf and span paints, keyed by *node or
	// *span. Resolving once also fires data warnings once.
	paints map[any]*Paint

	// bounds memoizes object bounding boxes used by gradient paints.
	bounds map[Node]Rect

	// visible memoizes the emits decision per node.
	visible map[Node]bool
}

func (d *driver) pass() {
	d.b.Init(d.canon)
	d.b.Vector(d.doc.Width, d.doc.Height, d.tint(), d.doc.TintMode)
	if d.doc.Root != nil && d.emits(d.doc.Root) {
		d.node(d.doc.Root)
	}
	d.b.EndVector()
	d.b.TraversalDone()
}

// tint normalizes the document tint to a value color or no-paint.
func (d *driver) tint() Color {
	t := d.doc.Tint
	switch t.Kind {
	case ColorValue:
		return t
	case ColorCurrent:
		if d.doc.CurrentColor.Kind == ColorValue {
			return d.doc.CurrentColor
		}
		return ARGB(0xFF000000)
	default:
		return NoPaint()
	}
}

// node emits one resolved node. The caller has already checked emits.
func (d *driver) node(n Node) {
	base := n.Base()
	exported := base.Exported && base.ID != ""
	if exported {
		d.b.ExportedID(d.canon.InternString(base.ID))
	}
	switch t := n.(type) {
	case *Group:
		d.group(t, exported)
	case *Masked:
		d.masked(t)
	case *Path:
		d.leaf(base, func() {
			d.pathLike(t, t.Data,
				func() string { return t.Data },
				func(s PathSink) { d.streamData(t.Data, s) })
		})
	case *RectShape:
		rx, ry := rectRadii(t)
		d.leaf(base, func() {
			d.pathLike(t, rectKey{t.X, t.Y, t.W, t.H, rx, ry},
				func() string { return pathdata.RectPath(t.X, t.Y, t.W, t.H, rx, ry) },
				func(s PathSink) { rectVerbs(t, rx, ry, s) })
		})
	case *EllipseShape:
		d.leaf(base, func() {
			d.pathLike(t, ovalKey{t.CX, t.CY, t.RX, t.RY},
				func() string { return pathdata.EllipsePath(t.CX, t.CY, t.RX, t.RY) },
				func(s PathSink) { s.Oval(t.CX, t.CY, t.RX, t.RY) })
		})
	case *PolyShape:
		d.leaf(base, func() {
			d.pathLike(t, t,
				func() string { return pathdata.PolyPath(flattenPoints(t.Points), t.Closed) },
				func(s PathSink) { polyVerbs(t, s) })
		})
	case *Image:
		d.leaf(base, func() {
			d.b.Image(d.canon.InternImage(t.Data))
		})
	case *Text:
		d.leaf(base, func() { d.text(t) })
	default:
		panic("vg: unresolved node reached the build traversal")
	}
	if exported {
		d.b.EndExportedID()
	}
}

// group emits a container, eliding the bracket when it adds nothing: no
// layer attributes, no exported id, and exactly one emitting child. Root
// and Symbol groups elide with any child count.
func (d *driver) group(g *Group, exported bool) {
	kids := g.Children[:0:0]
	for _, c := range g.Children {
		if d.emits(c) {
			kids = append(kids, c)
		}
	}
	wrap := g.hasLayerAttrs() || exported
	if !wrap && g.Kind != GroupRoot && g.Kind != GroupSymbol {
		wrap = len(kids) != 1
	}
	if wrap {
		d.b.Group(g.Transform, g.Alpha, g.Blend)
	}
	for _, c := range kids {
		d.node(c)
	}
	if wrap {
		d.b.EndGroup()
	}
}

func (d *driver) masked(m *Masked) {
	d.b.Masked(m.Bounds, m.LumaOnly)
	d.node(m.Mask)
	d.b.MaskedChild()
	d.node(m.Child)
	d.b.EndMasked()
}

// leaf brackets a leaf emission in a group when the leaf itself carries
// layer attributes.
func (d *driver) leaf(base *NodeBase, emit func()) {
	wrap := base.hasLayerAttrs()
	if wrap {
		d.b.Group(base.Transform, base.Alpha, base.Blend)
	}
	emit()
	if wrap {
		d.b.EndGroup()
	}
}

// pathLike emits one path-shaped leaf: clip geometry as a ClipPath call,
// everything else as a streamed path with a data-string fallback for
// targets that decline the stream.
func (d *driver) pathLike(n Node, key any, data func() string, verbs func(PathSink)) {
	base := n.Base()
	if base.Paint.InClipPath {
		d.b.ClipPath(data(), need(base.Paint.ClipFillRule, "clip fill rule"))
		return
	}
	paint := d.leafPaint(n)
	d.canon.internPaint(paint)
	if sink := d.b.StartPath(paint, key); sink != nil {
		verbs(sink)
		sink.End()
	} else {
		d.b.Path(data(), paint, key)
	}
}

func (d *driver) streamData(data string, s PathSink) {
	if err := pathdata.Parse(data, s); err != nil {
		d.warn.Warnf("vg: path data: %v", err)
	}
}

func (d *driver) text(t *Text) {
	d.b.Text()
	for i := range t.Chunks {
		ch := &t.Chunks[i]
		if !ch.hasContent() {
			continue
		}
		d.b.TextChunk(d.canon.InternFloat(ch.X), d.canon.InternFloat(ch.Y), ch.anchor())
		for j := range ch.Spans {
			sp := &ch.Spans[j]
			paint := d.spanPaint(sp)
			d.canon.internPaint(paint)
			d.b.TextSpan(
				d.canon.InternFloat(sp.DX),
				d.canon.InternFloat(sp.DY),
				d.canon.InternString(sp.Text),
				d.encodeText(&sp.Attrs),
				paint,
			)
		}
	}
	d.b.TextEnd()
}

func (d *driver) encodeText(a *TextAttrs) EncodedTextAttrs {
	if len(a.Family) == 0 {
		panic("vg: unresolved font family reached text conversion")
	}
	if !a.Weight.IsAbsolute() {
		panic("vg: unresolved font weight reached text conversion")
	}
	if a.Size.Kind != SizeAbsolute {
		panic("vg: unresolved font size reached text conversion")
	}
	return EncodedTextAttrs{
		FamiliesIndex: d.canon.InternStringList(a.Family),
		SizeIndex:     d.canon.InternFloat(a.Size.Value),
		Style:         need(a.Style, "font style"),
		Weight:        a.Weight,
		Baseline:      need(a.Baseline, "text baseline"),
		Decoration:    need(a.Decoration, "text decoration"),
	}
}

// emits reports whether n produces any builder call. Hidden nodes and
// leaves whose paint draws nothing are skipped in both passes; clip
// geometry always emits, since its purpose is shape, not paint.
func (d *driver) emits(n Node) bool {
	if v, ok := d.visible[n]; ok {
		return v
	}
	v := d.computeEmits(n)
	d.visible[n] = v
	return v
}

func (d *driver) computeEmits(n Node) bool {
	base := n.Base()
	if base.Paint.Hidden != nil && *base.Paint.Hidden {
		return false
	}
	switch t := n.(type) {
	case *Group:
		for _, c := range t.Children {
			if d.emits(c) {
				return true
			}
		}
		return false
	case *Masked:
		// An empty mask hides everything under it.
		return d.emits(t.Child) && d.emits(t.Mask)
	case *Path, *RectShape, *EllipseShape, *PolyShape:
		if base.Paint.InClipPath {
			return true
		}
		p := d.leafPaint(n)
		return p.Fill.IsVisible() || p.Stroke.IsVisible()
	case *Image:
		return len(t.Data.Encoded) > 0
	case *Text:
		for i := range t.Chunks {
			if t.Chunks[i].hasContent() {
				return true
			}
		}
		return false
	default:
		panic("vg: unresolved node reached the build traversal")
	}
}

// leafPaint resolves and memoizes the paint of a path-shaped leaf.
func (d *driver) leafPaint(n Node) *Paint {
	if p, ok := d.paints[n]; ok {
		return p
	}
	p := d.resolvePaint(&n.Base().Paint, func() Rect { return d.objBounds(n) })
	d.paints[n] = p
	return p
}

// spanPaint resolves and memoizes the paint of a text span. Gradients on
// text resolve against the document user space, since glyph extents are
// unknown before shaping.
func (d *driver) spanPaint(sp *TextSpan) *Paint {
	if p, ok := d.paints[sp]; ok {
		return p
	}
	p := d.resolvePaint(&sp.Paint, func() Rect { return d.doc.UserSpace() })
	d.paints[sp] = p
	return p
}

// resolvePaint converts cascaded attributes into a concrete Paint. Any
// inherit sentinel surviving to this point is a resolver bug and panics.
func (d *driver) resolvePaint(pa *PaintAttrs, objBounds func() Rect) *Paint {
	p := &Paint{
		StrokeWidth: need(pa.StrokeWidth, "stroke width"),
		MiterLimit:  need(pa.StrokeMiterLimit, "stroke miter limit"),
		DashOffset:  need(pa.StrokeDashOffset, "stroke dash offset"),
		Cap:         need(pa.StrokeCap, "stroke cap"),
		Join:        need(pa.StrokeJoin, "stroke join"),
		FillRule:    need(pa.FillRule, "fill rule"),
		ClipRule:    need(pa.ClipFillRule, "clip fill rule"),
		InClipPath:  pa.InClipPath,
	}
	if pa.StrokeDashArray == nil {
		panic("vg: unresolved stroke dash array reached paint conversion")
	}
	if len(pa.StrokeDashArray) > 0 {
		p.Dashes = append([]float32(nil), pa.StrokeDashArray...)
	}
	if pa.InClipPath {
		// Clip geometry contributes shape only: opaque fill, no stroke.
		p.Fill = SolidBrush(0xFFFFFFFF)
		p.Stroke = Brush{}
		return p
	}
	p.Fill = d.brush(pa.Fill, need(pa.FillAlpha, "fill alpha"), pa, objBounds)
	p.Stroke = d.brush(pa.Stroke, need(pa.StrokeAlpha, "stroke alpha"), pa, objBounds)
	return p
}

func (d *driver) brush(c Color, alpha float32, pa *PaintAttrs, objBounds func() Rect) Brush {
	switch c.Kind {
	case ColorNone:
		return Brush{}
	case ColorValue:
		return SolidBrush(scaleARGB(c.ARGB, alpha))
	case ColorCurrent:
		cur := pa.CurrentColor
		if cur.Kind != ColorValue {
			cur = ARGB(0xFF000000)
		}
		return SolidBrush(scaleARGB(cur.ARGB, alpha))
	case ColorGradient:
		return d.gradientBrush(c.Gradient, alpha, pa, objBounds)
	default:
		panic("vg: unresolved inherit reached paint conversion")
	}
}

func (d *driver) gradientBrush(id string, alpha float32, pa *PaintAttrs, objBounds func() Rect) Brush {
	spec := d.doc.gradients[id]
	if spec == nil {
		d.warn.Warnf("vg: gradient %q not found, painting nothing", id)
		return Brush{}
	}
	g := spec.instantiate(objBounds(), d.doc.UserSpace, pa.CurrentColor, d.warn)
	if g == nil {
		d.warn.Warnf("vg: gradient %q has no stops, painting nothing", id)
		return Brush{}
	}
	if len(g.Stops) == 1 {
		// A single stop is a flat color.
		return SolidBrush(scaleARGB(g.Stops[0].ARGB, alpha))
	}
	if alpha < 1 {
		for i := range g.Stops {
			g.Stops[i].ARGB = scaleARGB(g.Stops[i].ARGB, alpha)
		}
	}
	return Brush{Kind: BrushGradient, Gradient: g}
}

// objBounds computes and memoizes the untransformed bounding box of the
// leaf's own geometry, used to place object-space gradients.
func (d *driver) objBounds(n Node) Rect {
	if r, ok := d.bounds[n]; ok {
		return r
	}
	r := d.computeBounds(n)
	d.bounds[n] = r
	return r
}

func (d *driver) computeBounds(n Node) Rect {
	switch t := n.(type) {
	case *Path:
		minX, minY, maxX, maxY, err := pathdata.Bounds(t.Data)
		if err != nil {
			d.warn.Warnf("vg: path data: %v", err)
			return Rect{}
		}
		return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	case *RectShape:
		return Rect{X: t.X, Y: t.Y, Width: t.W, Height: t.H}
	case *EllipseShape:
		return Rect{X: t.CX - t.RX, Y: t.CY - t.RY, Width: 2 * t.RX, Height: 2 * t.RY}
	case *PolyShape:
		var acc *Rect
		for _, p := range t.Points {
			acc = unionRect(acc, Rect{X: p.X, Y: p.Y})
		}
		if acc == nil {
			return Rect{}
		}
		return *acc
	default:
		return d.doc.UserSpace()
	}
}

// need dereferences an attribute that the cascade must have filled.
func need[T any](v *T, what string) T {
	if v == nil {
		panic("vg: unresolved " + what + " reached paint conversion")
	}
	return *v
}

// rectKey and ovalKey are the geometry identity keys for synthesized
// shapes. Polygons key by node identity, their point lists being
// uncomparable.
type rectKey struct{ x, y, w, h, rx, ry float32 }

type ovalKey struct{ cx, cy, rx, ry float32 }

// rectRadii normalizes the corner radii: a single declared radius mirrors
// to the other axis, negatives clamp to zero, and each radius caps at
// half the matching extent.
func rectRadii(t *RectShape) (rx, ry float32) {
	switch {
	case t.RX != nil && t.RY != nil:
		rx, ry = *t.RX, *t.RY
	case t.RX != nil:
		rx, ry = *t.RX, *t.RX
	case t.RY != nil:
		rx, ry = *t.RY, *t.RY
	}
	if rx < 0 {
		rx = 0
	}
	if ry < 0 {
		ry = 0
	}
	if rx > t.W/2 {
		rx = t.W / 2
	}
	if ry > t.H/2 {
		ry = t.H / 2
	}
	return rx, ry
}

func rectVerbs(t *RectShape, rx, ry float32, s PathSink) {
	x, y, w, h := t.X, t.Y, t.W, t.H
	if rx <= 0 || ry <= 0 {
		s.MoveTo(x, y)
		s.LineTo(x+w, y)
		s.LineTo(x+w, y+h)
		s.LineTo(x, y+h)
		s.Close()
		return
	}
	s.MoveTo(x+rx, y)
	s.LineTo(x+w-rx, y)
	s.ArcTo(rx, ry, 0, false, true, x+w, y+ry)
	s.LineTo(x+w, y+h-ry)
	s.ArcTo(rx, ry, 0, false, true, x+w-rx, y+h)
	s.LineTo(x+rx, y+h)
	s.ArcTo(rx, ry, 0, false, true, x, y+h-ry)
	s.LineTo(x, y+ry)
	s.ArcTo(rx, ry, 0, false, true, x+rx, y)
	s.Close()
}

func polyVerbs(t *PolyShape, s PathSink) {
	s.MoveTo(t.Points[0].X, t.Points[0].Y)
	for _, p := range t.Points[1:] {
		s.LineTo(p.X, p.Y)
	}
	if t.Closed {
		s.Close()
	}
}

func flattenPoints(pts []Point) []float32 {
	out := make([]float32, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}

// collector is the dry-run target. Every method is a no-op. The driver
// does the interning itself; the collector only declines path streams so
// the first pass skips path parsing.
type collector struct{}

func (collector) Init(*Canon)                                            {}
func (collector) Vector(_, _ *float32, _ Color, _ TintMode)              {}
func (collector) EndVector()                                             {}
func (collector) Group(*Affine, *uint8, BlendMode)                       {}
func (collector) EndGroup()                                              {}
func (collector) Path(string, *Paint, any)                               {}
func (collector) StartPath(*Paint, any) PathSink                         { return nil }
func (collector) ClipPath(string, FillRule)                              {}
func (collector) Masked(*Rect, bool)                                     {}
func (collector) MaskedChild()                                           {}
func (collector) EndMasked()                                             {}
func (collector) Image(int32)                                            {}
func (collector) Text()                                                  {}
func (collector) TextChunk(int32, int32, TextAnchor)                     {}
func (collector) TextSpan(int32, int32, int32, EncodedTextAttrs, *Paint) {}
func (collector) TextEnd()                                               {}
func (collector) ExportedID(int32)                                       {}
func (collector) EndExportedID()                                         {}
func (collector) TraversalDone()                                         {}
