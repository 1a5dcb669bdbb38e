package vg

import (
	"strings"

	"github.com/gogpu/vg/pathdata"
)

// Resolve turns the raw tree into the renderable form consumed by Build:
// stylesheet rules and inherited attributes are applied, use/mask/clip
// references expanded, gradients chain-resolved, dead content pruned, and
// the document's user space and size established. Data problems (dangling
// references, cycles, degenerate geometry) report through warn and
// degrade by skipping the offending node, never by failing the document.
//
// A document resolves at most once; calling Resolve again panics. warn
// may be nil, in which case diagnostics go to the package logger.
func (d *Document) Resolve(warn func(string)) {
	if d.resolved {
		panic("vg: document already resolved")
	}
	d.warn = Warn(warn)
	if d.Root == nil {
		d.Root = &Group{NodeBase: NodeBase{Display: true}, Kind: GroupRoot}
	}
	if d.IDs == nil {
		d.RebuildIDs(d.warn)
	}

	r := &resolver{doc: d, warn: d.warn}
	r.collectGradients()

	cc := d.CurrentColor
	if cc.Kind != ColorValue {
		cc = ARGB(0xFF000000)
	}
	rp := rootPaint(cc)
	rp.UserSpace = func() Rect { return d.userSpace }
	rt := rootText()

	root, _ := r.resolve(d.Root, &rp, &rt, nil).(*Group)
	if root == nil {
		root = &Group{NodeBase: NodeBase{Display: true}, Kind: GroupRoot}
	}
	d.Root = root

	d.userSpace = r.userSpaceRect(root)
	if d.Width == nil {
		d.Width = ptr(d.userSpace.Width)
	}
	if d.Height == nil {
		d.Height = ptr(d.userSpace.Height)
	}

	// The tree changed shape; the identity map follows it. Duplicate ids
	// from template expansion are expected, so this pass is silent.
	d.RebuildIDs(nil)
	d.resolved = true
}

// resolver carries the per-resolve state.
type resolver struct {
	doc  *Document
	warn Warn
}

// referrers is an immutable linked stack of node identities, pushed on
// the way down and consulted to detect reference cycles.
type referrers struct {
	node Node
	prev *referrers
}

func (r *referrers) push(n Node) *referrers {
	return &referrers{node: n, prev: r}
}

func (r *referrers) contains(n Node) bool {
	for s := r; s != nil; s = s.prev {
		if s.node == n {
			return true
		}
	}
	return false
}

// collectGradients registers every gradient definition by id and resolves
// its parent chain up front, so leaf conversion only instantiates.
func (r *resolver) collectGradients() {
	raw := make(map[string]*GradientSpec)
	walkTree(r.doc.Root, func(n Node) {
		gn, ok := n.(*GradientNode)
		if !ok || gn.ID == "" {
			return
		}
		if _, dup := raw[gn.ID]; !dup {
			raw[gn.ID] = &gn.Grad
		}
	})
	r.doc.gradients = make(map[string]*GradientSpec, len(raw))
	lookup := func(id string) *GradientSpec { return raw[id] }
	for id := range raw {
		if spec := resolveGradientChain(id, lookup, r.warn); spec != nil {
			r.doc.gradients[id] = spec
		}
	}
}

// resolve maps one raw node to its resolved replacement, or nil when the
// node contributes nothing to rendering. The input node is never
// mutated; replacements are fresh copies.
func (r *resolver) resolve(n Node, ip *PaintAttrs, it *TextAttrs, refs *referrers) Node {
	switch t := n.(type) {
	case *Group:
		switch t.Kind {
		case GroupDefs, GroupMask, GroupClip, GroupSymbol:
			// Inert until referenced; ids inside stay resolvable through
			// the identity map.
			return nil
		}
		return r.group(t, ip, it, refs)
	case *Use:
		return r.use(t, ip, it, refs)
	case *GradientNode:
		return nil
	case *Path:
		out := *t
		if !r.enter(&out.NodeBase, "path", ip, it) {
			return nil
		}
		if strings.TrimSpace(out.Data) == "" {
			return nil
		}
		return r.effects(&out, &out.Text, refs)
	case *RectShape:
		out := *t
		if !r.enter(&out.NodeBase, "rect", ip, it) {
			return nil
		}
		if out.W <= 0 || out.H <= 0 {
			return nil
		}
		return r.effects(&out, &out.Text, refs)
	case *EllipseShape:
		out := *t
		tag := "ellipse"
		if t.IsCircle {
			tag = "circle"
		}
		if !r.enter(&out.NodeBase, tag, ip, it) {
			return nil
		}
		if out.RX <= 0 || out.RY <= 0 {
			return nil
		}
		return r.effects(&out, &out.Text, refs)
	case *PolyShape:
		out := *t
		tag := "polyline"
		if t.Closed {
			tag = "polygon"
		}
		if !r.enter(&out.NodeBase, tag, ip, it) {
			return nil
		}
		if len(out.Points) < 2 {
			return nil
		}
		return r.effects(&out, &out.Text, refs)
	case *Image:
		return r.image(t, ip, it, refs)
	case *Text:
		return r.text(t, ip, it, refs)
	case *Masked:
		panic("vg: Masked is synthetic and cannot appear in an unresolved tree")
	default:
		panic("vg: unknown node type in resolve")
	}
}

// enter runs the shared head of every variant: stylesheet application,
// the display check, and the attribute cascade. Returns false when the
// node is display-pruned.
func (r *resolver) enter(base *NodeBase, tag string, ip *PaintAttrs, it *TextAttrs) bool {
	if !base.Display {
		return false
	}
	r.doc.Styles.apply(base, tag)
	if !base.Display {
		return false
	}
	base.Paint = base.Paint.Cascade(ip)
	base.Text = base.Text.Cascade(it)
	return true
}

func (r *resolver) group(g *Group, ip *PaintAttrs, it *TextAttrs, refs *referrers) Node {
	out := *g
	if !r.enter(&out.NodeBase, nodeTag(g), ip, it) {
		return nil
	}
	if out.Transform != nil && out.Transform.Determinant() == 0 {
		r.warn.Warnf("vg: singular transform on %s, pruning", describe(&out.NodeBase, nodeTag(g)))
		return nil
	}
	refs = refs.push(g)
	kids := make([]Node, 0, len(g.Children))
	for _, c := range g.Children {
		if rc := r.resolve(c, &out.Paint, &out.Text, refs); rc != nil {
			kids = append(kids, rc)
		}
	}
	out.Children = kids
	if len(kids) == 0 && out.Kind != GroupRoot {
		return nil
	}
	return r.effects(&out, &out.Text, refs)
}

func (r *resolver) use(u *Use, ip *PaintAttrs, it *TextAttrs, refs *referrers) Node {
	out := *u
	if !r.enter(&out.NodeBase, "use", ip, it) {
		return nil
	}
	if out.Href == "" {
		r.warn.Warnf("vg: use without a target reference, pruning")
		return nil
	}
	target := r.doc.IDs[out.Href]
	if target == nil {
		r.warn.Warnf("vg: use references unknown id %q, pruning", out.Href)
		return nil
	}
	refs = refs.push(u)
	if refs.contains(target) {
		r.warn.Warnf("vg: use of %q forms a reference cycle, pruning", out.Href)
		return nil
	}
	refs = refs.push(target)

	var resolved Node
	var scale *Affine
	if sym, ok := target.(*Group); ok && sym.Kind == GroupSymbol {
		resolved = r.group(sym, &out.Paint, &out.Text, refs)
		if sx, sy := sizeRatio(out.Width, sym.Width), sizeRatio(out.Height, sym.Height); sx != 1 || sy != 1 {
			s := Scale(sx, sy)
			scale = &s
		}
	} else {
		resolved = r.resolve(target, &out.Paint, &out.Text, refs)
	}
	if resolved == nil {
		return nil
	}

	tf := out.Transform
	if scale != nil {
		if tf != nil {
			tf = ptr(tf.Multiply(*scale))
		} else {
			tf = scale
		}
	}
	wrapper := &Group{
		NodeBase: NodeBase{
			ID:        out.ID,
			Exported:  out.Exported,
			Display:   true,
			Transform: tf,
			Alpha:     out.Alpha,
			Blend:     out.Blend,
			Paint:     out.Paint,
			Text:      out.Text,
		},
		Kind:     GroupPlain,
		Children: []Node{resolved},
	}
	return r.effects(wrapper, &out.Text, refs)
}

// sizeRatio maps a symbol's natural dimension onto the requested one,
// falling back to 1 when either side is unspecified or degenerate.
func sizeRatio(want, have *float32) float32 {
	if want == nil || have == nil || *have <= 0 {
		return 1
	}
	return *want / *have
}

func (r *resolver) image(t *Image, ip *PaintAttrs, it *TextAttrs, refs *referrers) Node {
	out := *t
	if !r.enter(&out.NodeBase, "image", ip, it) {
		return nil
	}
	data := out.Data
	if data.Width <= 0 || data.Height <= 0 {
		if w, h, err := data.NaturalSize(); err == nil {
			if data.Width <= 0 {
				data.Width = float32(w)
			}
			if data.Height <= 0 {
				data.Height = float32(h)
			}
		} else if len(data.Encoded) > 0 {
			r.warn.Warnf("vg: cannot probe image size: %v", err)
		}
	}
	if len(data.Encoded) == 0 || data.Width <= 0 || data.Height <= 0 {
		return nil
	}
	out.Data = data
	return r.effects(&out, &out.Text, refs)
}

func (r *resolver) text(t *Text, ip *PaintAttrs, it *TextAttrs, refs *referrers) Node {
	out := *t
	if !r.enter(&out.NodeBase, "text", ip, it) {
		return nil
	}
	chunks := make([]TextChunk, 0, len(t.Chunks))
	for _, ch := range t.Chunks {
		nc := ch
		nc.Spans = make([]TextSpan, len(ch.Spans))
		for i, sp := range ch.Spans {
			sp.Paint = sp.Paint.Cascade(&out.Paint)
			sp.Attrs = sp.Attrs.Cascade(&out.Text)
			nc.Spans[i] = sp
		}
		if nc.hasContent() {
			chunks = append(chunks, nc)
		}
	}
	if len(chunks) == 0 {
		return nil
	}
	out.Chunks = chunks
	return r.effects(&out, &out.Text, refs)
}

// effects applies the node's mask and clip references, wrapping the node
// in the synthetic structure they require. The node's layer attributes
// and identity hoist onto an enclosing group so the composite transforms
// and exports as one unit and the Masked wrapper itself stays normal.
func (r *resolver) effects(n Node, it *TextAttrs, refs *referrers) Node {
	base := n.Base()
	maskID, clipID := base.Paint.MaskID, base.Paint.ClipID
	if maskID == "" && clipID == "" {
		return n
	}
	base.Paint.MaskID, base.Paint.ClipID = "", ""
	cp := base.Paint

	inner := n
	if clipID != "" {
		if clips, ok := r.clipContent(clipID, &cp, it, refs); ok {
			if len(clips) == 0 {
				// An empty clip leaves nothing visible.
				return nil
			}
			inner = &Group{
				NodeBase: NodeBase{Display: true},
				Kind:     GroupPlain,
				Children: append(clips, inner),
			}
		}
	}
	if maskID != "" {
		if mask, ok := r.maskContent(maskID, &cp, it, refs); ok {
			if mask == nil {
				// An empty mask hides everything it covers.
				return nil
			}
			inner = &Masked{
				NodeBase: NodeBase{Display: true},
				Child:    inner,
				Mask:     mask,
				Bounds:   mask.MaskRect,
				LumaOnly: mask.LumaOnly,
			}
		}
	}
	if inner == n {
		return n
	}

	wrapper := &Group{
		NodeBase: NodeBase{
			ID:        base.ID,
			Exported:  base.Exported,
			Display:   true,
			Transform: base.Transform,
			Alpha:     base.Alpha,
			Blend:     base.Blend,
		},
		Kind:     GroupPlain,
		Children: []Node{inner},
	}
	base.ID = ""
	base.Exported = false
	base.Transform = nil
	base.Alpha = nil
	base.Blend = BlendNormal
	return wrapper
}

// maskContent resolves a mask reference. ok is false when the reference
// dangles or cycles (the attribute is dropped); a nil mask with ok true
// means the mask resolved empty and its target must be pruned.
func (r *resolver) maskContent(id string, cp *PaintAttrs, it *TextAttrs, refs *referrers) (mask *Group, ok bool) {
	target := r.doc.IDs[id]
	if target == nil {
		r.warn.Warnf("vg: mask %q not found, ignoring", id)
		return nil, false
	}
	mg, isGroup := target.(*Group)
	if !isGroup || mg.Kind != GroupMask {
		r.warn.Warnf("vg: %q does not name a mask, ignoring", id)
		return nil, false
	}
	if refs.contains(mg) {
		r.warn.Warnf("vg: mask %q references itself, ignoring", id)
		return nil, false
	}
	refs = refs.push(mg)

	out := *mg
	out.Paint = out.Paint.Cascade(cp)
	out.Text = out.Text.Cascade(it)
	kids := make([]Node, 0, len(mg.Children))
	for _, c := range mg.Children {
		if rc := r.resolve(c, &out.Paint, &out.Text, refs); rc != nil {
			kids = append(kids, rc)
		}
	}
	if len(kids) == 0 {
		return nil, true
	}
	out.Children = kids
	return &out, true
}

// clipContent resolves a clip-path reference into the clip leaves to
// prepend ahead of the clipped node. ok is false when the reference
// dangles or cycles; empty leaves with ok true mean the clip resolved
// empty and its target must be pruned.
func (r *resolver) clipContent(id string, cp *PaintAttrs, it *TextAttrs, refs *referrers) (clips []Node, ok bool) {
	target := r.doc.IDs[id]
	if target == nil {
		r.warn.Warnf("vg: clip path %q not found, ignoring", id)
		return nil, false
	}
	cg, isGroup := target.(*Group)
	if !isGroup || cg.Kind != GroupClip {
		r.warn.Warnf("vg: %q does not name a clip path, ignoring", id)
		return nil, false
	}
	if refs.contains(cg) {
		r.warn.Warnf("vg: clip path %q references itself, ignoring", id)
		return nil, false
	}
	refs = refs.push(cg)

	ip := *cp
	ip.InClipPath = true
	clips = make([]Node, 0, len(cg.Children))
	for _, c := range cg.Children {
		if rc := r.resolve(c, &ip, it, refs); rc != nil {
			clips = append(clips, rc)
		}
	}
	return clips, true
}

// userSpaceRect establishes the document's user-space rectangle: the
// declared viewBox, the declared size, or the bounds of the resolved
// geometry, in that order.
func (r *resolver) userSpaceRect(root *Group) Rect {
	d := r.doc
	if d.ViewBox != nil {
		return *d.ViewBox
	}
	if d.Width != nil && d.Height != nil {
		return Rect{Width: *d.Width, Height: *d.Height}
	}
	if b := r.estimate(root, Identity()); b != nil {
		return *b
	}
	return Rect{}
}

// estimate computes the root-space bounding rectangle of a resolved
// subtree, or nil when it has no measurable geometry. Clip geometry does
// not paint and is excluded.
func (r *resolver) estimate(n Node, tf Affine) *Rect {
	base := n.Base()
	if base.Transform != nil {
		tf = tf.Multiply(*base.Transform)
	}
	var local Rect
	switch t := n.(type) {
	case *Group:
		var acc *Rect
		for _, c := range t.Children {
			if cb := r.estimate(c, tf); cb != nil {
				acc = unionRect(acc, *cb)
			}
		}
		return acc
	case *Masked:
		return r.estimate(t.Child, tf)
	case *Path:
		if base.Paint.InClipPath {
			return nil
		}
		minX, minY, maxX, maxY, err := pathdata.Bounds(t.Data)
		if err != nil {
			r.warn.Warnf("vg: path data: %v", err)
			return nil
		}
		local = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	case *RectShape:
		if base.Paint.InClipPath {
			return nil
		}
		local = Rect{X: t.X, Y: t.Y, Width: t.W, Height: t.H}
	case *EllipseShape:
		if base.Paint.InClipPath {
			return nil
		}
		local = Rect{X: t.CX - t.RX, Y: t.CY - t.RY, Width: 2 * t.RX, Height: 2 * t.RY}
	case *PolyShape:
		if base.Paint.InClipPath {
			return nil
		}
		var acc *Rect
		for _, p := range t.Points {
			acc = unionRect(acc, Rect{X: p.X, Y: p.Y})
		}
		if acc == nil {
			return nil
		}
		local = *acc
	case *Image:
		local = Rect{X: t.Data.X, Y: t.Data.Y, Width: t.Data.Width, Height: t.Data.Height}
	case *Text:
		b := textEstimate(t)
		if b == nil {
			return nil
		}
		local = *b
	default:
		return nil
	}
	b := NewBoundary(local).Transformed(tf).Bounds()
	return &b
}

// textEstimate guesses text extents from font sizes and glyph counts.
// Shaping happens far downstream, so a rough advance-width heuristic is
// the best the resolver can do.
func textEstimate(t *Text) *Rect {
	var acc *Rect
	for i := range t.Chunks {
		ch := &t.Chunks[i]
		var width, height float32
		for j := range ch.Spans {
			sp := &ch.Spans[j]
			size := float32(14)
			if sp.Attrs.Size.Kind == SizeAbsolute {
				size = sp.Attrs.Size.Value
			}
			if size > height {
				height = size
			}
			width += 0.6 * size * float32(len([]rune(sp.Text)))
		}
		x := ch.X
		switch ch.anchor() {
		case AnchorMiddle:
			x -= width / 2
		case AnchorEnd:
			x -= width
		}
		acc = unionRect(acc, Rect{X: x, Y: ch.Y - height, Width: width, Height: 1.2 * height})
	}
	return acc
}

// nodeTag names the element a node came from, for stylesheet matching.
func nodeTag(n Node) string {
	switch t := n.(type) {
	case *Group:
		switch t.Kind {
		case GroupRoot:
			return "svg"
		case GroupSymbol:
			return "symbol"
		case GroupDefs:
			return "defs"
		case GroupMask:
			return "mask"
		case GroupClip:
			return "clipPath"
		default:
			return "g"
		}
	case *Use:
		return "use"
	case *Path:
		return "path"
	case *RectShape:
		return "rect"
	case *EllipseShape:
		if t.IsCircle {
			return "circle"
		}
		return "ellipse"
	case *PolyShape:
		if t.Closed {
			return "polygon"
		}
		return "polyline"
	case *GradientNode:
		switch t.Grad.Kind {
		case GradientRadial:
			return "radialGradient"
		case GradientSweep:
			return "sweepGradient"
		default:
			return "linearGradient"
		}
	case *Image:
		return "image"
	case *Text:
		return "text"
	default:
		return ""
	}
}

func describe(base *NodeBase, tag string) string {
	if base.ID != "" {
		return tag + " #" + base.ID
	}
	return tag
}
