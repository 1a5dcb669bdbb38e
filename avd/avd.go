// Package avd parses Android vector drawables into vg document trees.
//
// The parser covers the drawable vector format: the vector viewport,
// nested groups with the Android pivot transform, paths, clip paths and
// aapt:attr gradient payloads. Theme and resource references cannot be
// resolved without a resource table; they warn and fall back to
// defaults.
package avd

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/net/html/charset"

	"github.com/gogpu/vg"
)

// Options configures parsing.
type Options struct {
	// Warn receives non-fatal diagnostics. Nil routes warnings to the
	// package logger.
	Warn vg.Warn

	// ExportedIDs lists android:name values whose bounding boxes the
	// caller wants reported by the build traversal.
	ExportedIDs []string
}

// Parse reads one vector drawable from r.
func Parse(r io.Reader, opts Options) (*vg.Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	l := &loader{
		doc:  &vg.Document{},
		warn: opts.Warn,
	}
	if len(opts.ExportedIDs) > 0 {
		l.exported = make(map[string]bool, len(opts.ExportedIDs))
		for _, id := range opts.ExportedIDs {
			l.exported[id] = true
		}
	}

	skip := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("avd: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if skip > 0 {
				skip++
				continue
			}
			if !l.startElement(t) {
				skip = 1
			}
		case xml.EndElement:
			if skip > 0 {
				skip--
				continue
			}
			l.endElement(t)
		}
	}
	if l.doc.Root == nil {
		return nil, fmt.Errorf("avd: no <vector> root element")
	}
	l.doc.RebuildIDs(l.warn)
	return l.doc, nil
}

// ParseString parses a vector drawable from a string.
func ParseString(s string, opts Options) (*vg.Document, error) {
	return Parse(strings.NewReader(s), opts)
}

// loader is the state of one Parse call.
type loader struct {
	doc      *vg.Document
	warn     vg.Warn
	exported map[string]bool

	stack []*vg.Group

	// defs holds synthesized clip and gradient definitions; created on
	// first use.
	defs    *vg.Group
	clipSeq int
	gradSeq int

	// path is the most recent <path>, the target of aapt:attr payloads.
	path *vg.Path

	// attrTarget is the android attribute an open <aapt:attr> element
	// supplies, "" outside one.
	attrTarget string

	// grad is the gradient payload under construction.
	grad *gradLoader
}

// gradLoader accumulates one <gradient> payload.
type gradLoader struct {
	spec vg.GradientSpec

	// startColor, centerColor and endColor synthesize stops when the
	// payload carries no <item> children.
	start, center, end *uint32
}

func (l *loader) startElement(t xml.StartElement) bool {
	name := t.Name.Local
	if l.grad != nil {
		if name == "item" {
			l.gradientItem(t)
			return true
		}
		l.warn.Warnf("avd: unexpected <%s> inside <gradient>", name)
		return false
	}
	if l.attrTarget != "" {
		if name == "gradient" {
			return l.gradientElement(t)
		}
		l.warn.Warnf("avd: unsupported aapt:attr payload <%s>", name)
		return false
	}
	switch name {
	case "vector":
		return l.vectorElement(t)
	case "group":
		return l.groupElement(t)
	case "path":
		return l.pathElement(t)
	case "clip-path":
		return l.clipElement(t)
	case "attr":
		return l.attrElement(t)
	default:
		l.warn.Warnf("avd: skipping unknown element <%s>", name)
		return false
	}
}

func (l *loader) endElement(t xml.EndElement) {
	switch t.Name.Local {
	case "vector", "group":
		if len(l.stack) > 0 {
			l.stack = l.stack[:len(l.stack)-1]
		}
	case "path":
		l.finishPath()
	case "attr":
		l.attrTarget = ""
	case "gradient":
		l.finishGradient()
	}
}

// append adds one node to the innermost open container.
func (l *loader) append(n vg.Node) {
	if len(l.stack) == 0 {
		l.warn.Warnf("avd: element outside the <vector> root, dropped")
		return
	}
	top := l.stack[len(l.stack)-1]
	top.Children = append(top.Children, n)
}

// attr returns the value of one attribute by local name, covering both
// the android: namespace and aapt:attr's plain name attribute.
func attr(t xml.StartElement, name string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// floatAttr parses one float attribute, warning and returning def on
// failure or absence.
func (l *loader) floatAttr(t xml.StartElement, name string, def float32) float32 {
	raw, ok := attr(t, name)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		l.warn.Warnf("avd: bad %s value %q", name, raw)
		return def
	}
	return float32(v)
}

// dimenAttr parses a dimension attribute, stripping the dp or px suffix.
func (l *loader) dimenAttr(t xml.StartElement, name string, def float32) float32 {
	raw, ok := attr(t, name)
	if !ok {
		return def
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "dp")
	s = strings.TrimSuffix(s, "dip")
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		l.warn.Warnf("avd: bad %s value %q", name, raw)
		return def
	}
	return float32(v)
}

// nameAttr reads android:name into the node id.
func (l *loader) nameAttr(base *vg.NodeBase, t xml.StartElement) {
	if name, ok := attr(t, "name"); ok && name != "" {
		base.ID = name
		if l.exported[name] {
			base.Exported = true
		}
	}
}

func (l *loader) vectorElement(t xml.StartElement) bool {
	if l.doc.Root != nil {
		l.warn.Warnf("avd: nested <vector> ignored")
		return false
	}
	vw := l.floatAttr(t, "viewportWidth", 0)
	vh := l.floatAttr(t, "viewportHeight", 0)
	if vw <= 0 || vh <= 0 {
		l.warn.Warnf("avd: missing viewport size")
		return false
	}
	w := l.dimenAttr(t, "width", vw)
	h := l.dimenAttr(t, "height", vh)

	root := &vg.Group{Kind: vg.GroupRoot}
	root.Display = true
	l.nameAttr(&root.NodeBase, t)
	if w != vw || h != vh {
		tr := vg.Scale(w/vw, h/vh)
		root.Transform = &tr
	}
	if raw, ok := attr(t, "alpha"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
		if err != nil || v < 0 || v > 1 {
			l.warn.Warnf("avd: bad alpha value %q", raw)
		} else if v < 1 {
			a := uint8(v*255 + 0.5)
			root.Alpha = &a
		}
	}
	if raw, ok := attr(t, "tint"); ok {
		argb, err := parseColor(raw)
		if err != nil {
			l.warn.Warnf("%v", err)
		} else {
			l.doc.Tint = vg.ARGB(argb)
			l.doc.TintMode = vg.TintSrcIn
		}
	}
	if raw, ok := attr(t, "tintMode"); ok {
		mode, ok := tintModes[raw]
		if !ok {
			l.warn.Warnf("avd: unknown tintMode %q", raw)
		} else {
			l.doc.TintMode = mode
		}
	}

	root.Width, root.Height = &w, &h
	l.doc.Width, l.doc.Height = &w, &h
	l.doc.ViewBox = &vg.Rect{Width: vw, Height: vh}
	l.doc.Root = root
	l.stack = append(l.stack, root)
	return true
}

var tintModes = map[string]vg.TintMode{
	"src_over": vg.TintSrcOver,
	"src_in":   vg.TintSrcIn,
	"src_atop": vg.TintSrcATop,
	"multiply": vg.TintMultiply,
	"screen":   vg.TintScreen,
	"add":      vg.TintPlus,
}

func (l *loader) groupElement(t xml.StartElement) bool {
	g := &vg.Group{Kind: vg.GroupPlain}
	g.Display = true
	l.nameAttr(&g.NodeBase, t)

	rot := l.floatAttr(t, "rotation", 0)
	px := l.floatAttr(t, "pivotX", 0)
	py := l.floatAttr(t, "pivotY", 0)
	sx := l.floatAttr(t, "scaleX", 1)
	sy := l.floatAttr(t, "scaleY", 1)
	tx := l.floatAttr(t, "translateX", 0)
	ty := l.floatAttr(t, "translateY", 0)
	if rot != 0 || sx != 1 || sy != 1 || tx != 0 || ty != 0 {
		// Android order: translate and pivot, rotate, scale, un-pivot.
		tr := vg.Translate(tx+px, ty+py).
			Multiply(vg.Rotate(rot * math32.Pi / 180)).
			Multiply(vg.Scale(sx, sy)).
			Multiply(vg.Translate(-px, -py))
		g.Transform = &tr
	}
	l.append(g)
	l.stack = append(l.stack, g)
	return true
}

func (l *loader) pathElement(t xml.StartElement) bool {
	p := &vg.Path{}
	p.Display = true
	l.nameAttr(&p.NodeBase, t)
	data, ok := attr(t, "pathData")
	if !ok || strings.TrimSpace(data) == "" {
		l.warn.Warnf("avd: <path> without pathData, dropped")
		return false
	}
	p.Data = data

	if raw, ok := attr(t, "fillColor"); ok {
		p.Paint.Fill = l.colorValue(raw)
	}
	if raw, ok := attr(t, "strokeColor"); ok {
		p.Paint.Stroke = l.colorValue(raw)
	}
	if _, ok := attr(t, "strokeWidth"); ok {
		w := l.floatAttr(t, "strokeWidth", 0)
		p.Paint.StrokeWidth = &w
	}
	if raw, ok := attr(t, "fillAlpha"); ok {
		l.alphaValue(&p.Paint.FillAlpha, "fillAlpha", raw)
	}
	if raw, ok := attr(t, "strokeAlpha"); ok {
		l.alphaValue(&p.Paint.StrokeAlpha, "strokeAlpha", raw)
	}
	if _, ok := attr(t, "strokeMiterLimit"); ok {
		m := l.floatAttr(t, "strokeMiterLimit", 4)
		p.Paint.StrokeMiterLimit = &m
	}
	if raw, ok := attr(t, "strokeLineCap"); ok {
		switch raw {
		case "butt":
			p.Paint.StrokeCap = capPtr(vg.LineCapButt)
		case "round":
			p.Paint.StrokeCap = capPtr(vg.LineCapRound)
		case "square":
			p.Paint.StrokeCap = capPtr(vg.LineCapSquare)
		default:
			l.warn.Warnf("avd: unknown strokeLineCap %q", raw)
		}
	}
	if raw, ok := attr(t, "strokeLineJoin"); ok {
		switch raw {
		case "miter":
			p.Paint.StrokeJoin = joinPtr(vg.LineJoinMiter)
		case "round":
			p.Paint.StrokeJoin = joinPtr(vg.LineJoinRound)
		case "bevel":
			p.Paint.StrokeJoin = joinPtr(vg.LineJoinBevel)
		default:
			l.warn.Warnf("avd: unknown strokeLineJoin %q", raw)
		}
	}
	if raw, ok := attr(t, "fillType"); ok {
		switch raw {
		case "nonZero":
			p.Paint.FillRule = rulePtr(vg.FillRuleNonZero)
		case "evenOdd":
			p.Paint.FillRule = rulePtr(vg.FillRuleEvenOdd)
		default:
			l.warn.Warnf("avd: unknown fillType %q", raw)
		}
	}
	if l.floatAttr(t, "trimPathStart", 0) != 0 ||
		l.floatAttr(t, "trimPathEnd", 1) != 1 ||
		l.floatAttr(t, "trimPathOffset", 0) != 0 {
		l.warn.Warnf("avd: path trimming is not supported")
	}

	l.append(p)
	l.path = p
	return true
}

// finishPath pins down the paint defaults once any aapt:attr payloads
// have landed. Drawable paths never inherit paint: an absent fillColor
// or strokeColor means none.
func (l *loader) finishPath() {
	p := l.path
	if p == nil {
		return
	}
	l.path = nil
	if p.Paint.Fill.Kind == vg.ColorInherit {
		p.Paint.Fill = vg.NoPaint()
	}
	if p.Paint.Stroke.Kind == vg.ColorInherit {
		p.Paint.Stroke = vg.NoPaint()
	}
}

// colorValue parses a color attribute, defaulting to transparent on
// unresolvable references.
func (l *loader) colorValue(raw string) vg.Color {
	argb, err := parseColor(raw)
	if err != nil {
		l.warn.Warnf("%v", err)
		return vg.NoPaint()
	}
	return vg.ARGB(argb)
}

func (l *loader) alphaValue(dst **float32, name, raw string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil || v < 0 || v > 1 {
		l.warn.Warnf("avd: bad %s value %q", name, raw)
		return
	}
	f := float32(v)
	*dst = &f
}

// clipElement synthesizes a clip definition and hangs it off the
// enclosing group. A drawable clip scopes the whole group; a group with
// two clips keeps the first.
func (l *loader) clipElement(t xml.StartElement) bool {
	data, ok := attr(t, "pathData")
	if !ok || strings.TrimSpace(data) == "" {
		l.warn.Warnf("avd: <clip-path> without pathData, ignored")
		return false
	}
	if len(l.stack) == 0 {
		return false
	}
	top := l.stack[len(l.stack)-1]
	if top.Paint.ClipID != "" {
		l.warn.Warnf("avd: group already clipped, extra <clip-path> ignored")
		return false
	}
	l.clipSeq++
	id := fmt.Sprintf("__clip%d", l.clipSeq)
	p := &vg.Path{Data: data}
	p.Display = true
	clip := &vg.Group{Kind: vg.GroupClip, Children: []vg.Node{p}}
	clip.Display = true
	clip.ID = id
	l.nameAttr(&p.NodeBase, t)
	l.defsGroup().Children = append(l.defsGroup().Children, clip)
	top.Paint.ClipID = id
	return true
}

// defsGroup lazily creates the container for synthesized definitions.
func (l *loader) defsGroup() *vg.Group {
	if l.defs == nil {
		l.defs = &vg.Group{Kind: vg.GroupDefs}
		l.defs.Display = true
		l.doc.Root.Children = append(l.doc.Root.Children, l.defs)
	}
	return l.defs
}

// attrElement handles <aapt:attr>, which inlines a gradient payload for
// one android attribute of the enclosing path.
func (l *loader) attrElement(t xml.StartElement) bool {
	name, _ := attr(t, "name")
	target := strings.TrimPrefix(name, "android:")
	if target != "fillColor" && target != "strokeColor" {
		l.warn.Warnf("avd: unsupported aapt:attr target %q", name)
		return false
	}
	if l.path == nil {
		l.warn.Warnf("avd: aapt:attr outside <path>, ignored")
		return false
	}
	l.attrTarget = target
	return true
}

func (l *loader) gradientElement(t xml.StartElement) bool {
	g := &gradLoader{}
	spec := &g.spec
	switch kind, _ := attr(t, "type"); kind {
	case "", "linear":
		spec.Kind = vg.GradientLinear
		spec.X1 = vg.Val(l.floatAttr(t, "startX", 0))
		spec.Y1 = vg.Val(l.floatAttr(t, "startY", 0))
		spec.X2 = vg.Val(l.floatAttr(t, "endX", 0))
		spec.Y2 = vg.Val(l.floatAttr(t, "endY", 0))
	case "radial":
		spec.Kind = vg.GradientRadial
		spec.CX = vg.Val(l.floatAttr(t, "centerX", 0))
		spec.CY = vg.Val(l.floatAttr(t, "centerY", 0))
		spec.R = vg.Val(l.floatAttr(t, "gradientRadius", 0))
	case "sweep":
		spec.Kind = vg.GradientSweep
		spec.CX = vg.Val(l.floatAttr(t, "centerX", 0))
		spec.CY = vg.Val(l.floatAttr(t, "centerY", 0))
	default:
		l.warn.Warnf("avd: unknown gradient type %q", kind)
		return false
	}
	// Drawable gradient coordinates are viewport coordinates.
	spec.UserSpace = boolPtr(true)
	if raw, ok := attr(t, "tileMode"); ok {
		switch raw {
		case "clamp":
			spec.Spread = spreadPtr(vg.SpreadPad)
		case "repeat":
			spec.Spread = spreadPtr(vg.SpreadRepeat)
		case "mirror":
			spec.Spread = spreadPtr(vg.SpreadReflect)
		default:
			l.warn.Warnf("avd: unknown tileMode %q", raw)
		}
	}
	for _, edge := range [3]struct {
		name string
		dst  **uint32
	}{
		{"startColor", &g.start},
		{"centerColor", &g.center},
		{"endColor", &g.end},
	} {
		if raw, ok := attr(t, edge.name); ok {
			argb, err := parseColor(raw)
			if err != nil {
				l.warn.Warnf("%v", err)
				continue
			}
			*edge.dst = &argb
		}
	}
	l.grad = g
	return true
}

// gradientItem handles one <item> stop.
func (l *loader) gradientItem(t xml.StartElement) {
	stop := vg.GradientStop{Opacity: 1}
	stop.Offset = l.floatAttr(t, "offset", 0)
	if stop.Offset < 0 {
		stop.Offset = 0
	}
	if stop.Offset > 1 {
		stop.Offset = 1
	}
	raw, ok := attr(t, "color")
	if !ok {
		l.warn.Warnf("avd: gradient <item> without color, ignored")
		return
	}
	argb, err := parseColor(raw)
	if err != nil {
		l.warn.Warnf("%v", err)
		return
	}
	stop.Color = vg.ARGB(argb)
	l.grad.spec.Stops = append(l.grad.spec.Stops, stop)
}

// finishGradient registers the built gradient under a synthesized id and
// points the pending path attribute at it.
func (l *loader) finishGradient() {
	g := l.grad
	if g == nil {
		return
	}
	l.grad = nil
	if len(g.spec.Stops) == 0 {
		g.spec.Stops = edgeStops(g.start, g.center, g.end)
	}
	if len(g.spec.Stops) == 0 {
		l.warn.Warnf("avd: gradient without stops, ignored")
		return
	}
	if l.path == nil || l.attrTarget == "" {
		return
	}
	l.gradSeq++
	id := fmt.Sprintf("__gradient%d", l.gradSeq)
	gn := &vg.GradientNode{Grad: g.spec}
	gn.Display = true
	gn.ID = id
	l.defsGroup().Children = append(l.defsGroup().Children, gn)
	if l.attrTarget == "fillColor" {
		l.path.Paint.Fill = vg.GradientRef(id)
	} else {
		l.path.Paint.Stroke = vg.GradientRef(id)
	}
}

// edgeStops synthesizes stops from the startColor/centerColor/endColor
// shorthand.
func edgeStops(start, center, end *uint32) []vg.GradientStop {
	var out []vg.GradientStop
	if start != nil {
		out = append(out, vg.GradientStop{Offset: 0, Color: vg.ARGB(*start), Opacity: 1})
	}
	if center != nil {
		out = append(out, vg.GradientStop{Offset: 0.5, Color: vg.ARGB(*center), Opacity: 1})
	}
	if end != nil {
		out = append(out, vg.GradientStop{Offset: 1, Color: vg.ARGB(*end), Opacity: 1})
	}
	return out
}

func boolPtr(v bool) *bool                         { return &v }
func capPtr(v vg.LineCap) *vg.LineCap              { return &v }
func joinPtr(v vg.LineJoin) *vg.LineJoin           { return &v }
func rulePtr(v vg.FillRule) *vg.FillRule           { return &v }
func spreadPtr(v vg.SpreadMethod) *vg.SpreadMethod { return &v }
