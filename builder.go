package vg

import "errors"

// PathSink receives path geometry verb by verb. StartPath hands one out
// for each rendered path; the driver feeds it the parsed path data and
// finishes with End. Coordinates are absolute user-space values, already
// normalized by the path parser (no relative verbs, no smooth
// shorthands).
type PathSink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(cx, cy, x, y float32)
	CubicTo(c1x, c1y, c2x, c2y, x, y float32)
	// ArcTo is an endpoint-parameterized elliptical arc from the current
	// point to (x, y). rotation is in radians.
	ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32)
	// Oval adds a full ellipse as its own subpath.
	Oval(cx, cy, rx, ry float32)
	Close()
	// End marks the path complete. No verbs may follow.
	End()
}

// Builder is the target protocol of the build traversal. The driver walks
// a resolved document twice and calls the same methods in the same order
// both times; a target sees Init, then one Vector..EndVector section, then
// TraversalDone.
//
// Structure calls nest: Group..EndGroup, Masked..MaskedChild..EndMasked
// (mask content between Masked and MaskedChild, masked content after),
// ExportedID..EndExportedID, Text..TextChunk..TextSpan..TextEnd. Leaves
// are Path or StartPath, ClipPath, and Image.
//
// All index arguments refer to the Canon handed to Init. Call-order
// violations are programmer errors and panic; targets decoding external
// input embed a lenient Grammar and surface errors instead.
type Builder interface {
	// Init hands the target the canonical tables before traversal. In the
	// dry-run pass the tables are in building mode and mostly empty; in
	// the real pass they are frozen and complete.
	Init(canon *Canon)

	// Vector opens the document. width and height are the intrinsic size
	// in user-space units, nil when the document declares none. tint is
	// ColorNone when no tint applies.
	Vector(width, height *float32, tint Color, tintMode TintMode)
	EndVector()

	// Group opens a layer. transform is nil for identity, alpha nil for
	// opaque. blend is BlendNormal unless the layer composites specially.
	Group(transform *Affine, alpha *uint8, blend BlendMode)
	EndGroup()

	// Path renders a filled or stroked path given as raw path data. The
	// driver calls it only when StartPath returned nil. key is a
	// comparable identity for the geometry (the data string for freeform
	// paths, a value record for synthesized shapes); deduplicating
	// targets may use it, others ignore it.
	Path(data string, paint *Paint, key any)

	// StartPath begins a streamed path; the driver follows with geometry
	// verbs and End. Returning nil declines the stream: the driver falls
	// back to Path, and the dry-run collector declines so the first pass
	// does no geometry work at all.
	StartPath(paint *Paint, key any) PathSink

	// ClipPath restricts the remaining siblings of the current layer to
	// the given path.
	ClipPath(data string, rule FillRule)

	// Masked opens a masked section. bounds is the precomputed user-space
	// extent of the masked content, nil when unknown. lumaOnly selects
	// luminance masking.
	Masked(bounds *Rect, lumaOnly bool)
	// MaskedChild separates the mask content from the content it masks.
	MaskedChild()
	EndMasked()

	// Image places a canonical image by table index.
	Image(index int32)

	// Text opens a text element. Chunks follow, each with spans.
	Text()
	// TextChunk starts an absolutely positioned run of spans. xIndex and
	// yIndex are canonical float indices of the chunk origin.
	TextChunk(xIndex, yIndex int32, anchor TextAnchor)
	// TextSpan adds one styled span to the open chunk. dxIndex and dyIndex
	// are canonical float indices of the span offset, textIndex the
	// canonical string index of its content.
	TextSpan(dxIndex, dyIndex, textIndex int32, attrs EncodedTextAttrs, paint *Paint)
	TextEnd()

	// ExportedID brackets content addressable from outside the document.
	// index is the canonical string index of the exported name.
	ExportedID(index int32)
	EndExportedID()

	// TraversalDone marks the end of a pass. The driver calls it once per
	// pass; work that needs the complete table contents belongs here.
	TraversalDone()
}

// EncodedTextAttrs is the table-resolved text style the driver attaches
// to each span. Families and size live in the canonical tables; the rest
// are absolute values with inheritance already applied.
type EncodedTextAttrs struct {
	// FamiliesIndex is the canonical string-list index of the font family
	// stack.
	FamiliesIndex int32

	// SizeIndex is the canonical float index of the font size.
	SizeIndex int32

	Style      FontStyle
	Weight     FontWeight
	Baseline   TextBaseline
	Decoration TextDecoration
}

// Grammar checks the builder call protocol. Targets embed one and call
// the matching method at the top of each Builder method; an out-of-order
// call panics, or with Lenient set records the first violation in Err and
// ignores the rest. The binary decoder runs lenient because its call
// stream is external input.
type Grammar struct {
	// Lenient records violations instead of panicking.
	Lenient bool
	// Err holds the first violation seen in lenient mode.
	Err error

	phase grammarPhase
	stack []grammarFrame
	text  textPhase
}

type grammarPhase uint8

const (
	phaseStart grammarPhase = iota
	phaseInited
	phaseOpen
	phaseClosed
	phaseDone
)

type grammarFrame uint8

const (
	frameGroup grammarFrame = iota
	frameMask
	frameMaskChild
	frameExported
)

type textPhase uint8

const (
	textNone textPhase = iota
	textOpen
	textChunk
)

func (g *Grammar) fail(msg string) {
	if g.Lenient {
		if g.Err == nil {
			g.Err = errors.New(msg)
		}
		return
	}
	panic(msg)
}

func (g *Grammar) top() (grammarFrame, bool) {
	if len(g.stack) == 0 {
		return 0, false
	}
	return g.stack[len(g.stack)-1], true
}

// content reports whether a structural or leaf call is legal here.
func (g *Grammar) content(what string) bool {
	if g.Err != nil {
		return false
	}
	if g.phase != phaseOpen {
		g.fail("vg: " + what + " outside Vector..EndVector")
		return false
	}
	if g.text != textNone {
		g.fail("vg: " + what + " inside an open Text")
		return false
	}
	return true
}

// Init validates the Init call.
func (g *Grammar) Init() {
	if g.Err != nil {
		return
	}
	if g.phase != phaseStart {
		g.fail("vg: Init called twice")
		return
	}
	g.phase = phaseInited
}

// Vector validates the Vector call.
func (g *Grammar) Vector() {
	if g.Err != nil {
		return
	}
	if g.phase != phaseInited {
		g.fail("vg: Vector before Init or called twice")
		return
	}
	g.phase = phaseOpen
}

// EndVector validates the EndVector call.
func (g *Grammar) EndVector() {
	if g.Err != nil {
		return
	}
	if g.phase != phaseOpen || g.text != textNone {
		g.fail("vg: EndVector out of order")
		return
	}
	if len(g.stack) != 0 {
		g.fail("vg: EndVector with unclosed sections")
		return
	}
	g.phase = phaseClosed
}

// Group validates the Group call.
func (g *Grammar) Group() {
	if g.content("Group") {
		g.stack = append(g.stack, frameGroup)
	}
}

// EndGroup validates the EndGroup call.
func (g *Grammar) EndGroup() {
	if !g.content("EndGroup") {
		return
	}
	if f, ok := g.top(); !ok || f != frameGroup {
		g.fail("vg: EndGroup without matching Group")
		return
	}
	g.stack = g.stack[:len(g.stack)-1]
}

// Leaf validates a Path, StartPath, ClipPath or Image call.
func (g *Grammar) Leaf(what string) {
	g.content(what)
}

// Masked validates the Masked call.
func (g *Grammar) Masked() {
	if g.content("Masked") {
		g.stack = append(g.stack, frameMask)
	}
}

// MaskedChild validates the MaskedChild call.
func (g *Grammar) MaskedChild() {
	if !g.content("MaskedChild") {
		return
	}
	if f, ok := g.top(); !ok || f != frameMask {
		g.fail("vg: MaskedChild without an open mask section")
		return
	}
	g.stack[len(g.stack)-1] = frameMaskChild
}

// EndMasked validates the EndMasked call.
func (g *Grammar) EndMasked() {
	if !g.content("EndMasked") {
		return
	}
	if f, ok := g.top(); !ok || f != frameMaskChild {
		g.fail("vg: EndMasked before MaskedChild")
		return
	}
	g.stack = g.stack[:len(g.stack)-1]
}

// ExportedID validates the ExportedID call.
func (g *Grammar) ExportedID() {
	if g.content("ExportedID") {
		g.stack = append(g.stack, frameExported)
	}
}

// EndExportedID validates the EndExportedID call.
func (g *Grammar) EndExportedID() {
	if !g.content("EndExportedID") {
		return
	}
	if f, ok := g.top(); !ok || f != frameExported {
		g.fail("vg: EndExportedID without matching ExportedID")
		return
	}
	g.stack = g.stack[:len(g.stack)-1]
}

// Text validates the Text call.
func (g *Grammar) Text() {
	if g.Err != nil {
		return
	}
	if g.phase != phaseOpen {
		g.fail("vg: Text outside Vector..EndVector")
		return
	}
	if g.text != textNone {
		g.fail("vg: Text inside an open Text")
		return
	}
	g.text = textOpen
}

// TextChunk validates the TextChunk call.
func (g *Grammar) TextChunk() {
	if g.Err != nil {
		return
	}
	if g.text == textNone {
		g.fail("vg: TextChunk outside Text")
		return
	}
	g.text = textChunk
}

// TextSpan validates the TextSpan call.
func (g *Grammar) TextSpan() {
	if g.Err != nil {
		return
	}
	if g.text != textChunk {
		g.fail("vg: TextSpan before TextChunk")
		return
	}
}

// TextEnd validates the TextEnd call.
func (g *Grammar) TextEnd() {
	if g.Err != nil {
		return
	}
	if g.text != textChunk {
		g.fail("vg: TextEnd before any TextChunk")
		return
	}
	g.text = textNone
}

// TraversalDone validates the TraversalDone call.
func (g *Grammar) TraversalDone() {
	if g.Err != nil {
		return
	}
	if g.phase != phaseClosed {
		g.fail("vg: TraversalDone before EndVector")
		return
	}
	g.phase = phaseDone
}
