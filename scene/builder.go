package scene

import (
	"github.com/gogpu/vg"
	"github.com/gogpu/vg/pathdata"
)

// Builder materializes a build traversal into a Scene. It implements
// vg.Builder: pass it to vg.Build, then take the result from Scene.
//
// A Builder is single-use and not safe for concurrent use, matching the
// build cycle that drives it.
type Builder struct {
	canon *vg.Canon
	scene *Scene
	g     vg.Grammar

	// containers is the stack of children lists being filled; the top
	// receives appended nodes.
	containers []*[]Node

	// transforms accumulates the group transforms alongside containers,
	// for export bounds measurement.
	transforms []vg.Affine

	// exports are the open ExportedID brackets.
	exports []exportFrame

	// text under construction, nil between Text and TextEnd pairs.
	text *TextNode
}

type exportFrame struct {
	name   string
	bounds vg.Rect
	any    bool
}

// NewBuilder creates a scene builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Scene returns the built scene. Valid after vg.Build returns.
func (b *Builder) Scene() *Scene { return b.scene }

func (b *Builder) container() *[]Node {
	return b.containers[len(b.containers)-1]
}

func (b *Builder) transform() vg.Affine {
	return b.transforms[len(b.transforms)-1]
}

func (b *Builder) append(n Node) {
	c := b.container()
	*c = append(*c, n)
}

// measure unions a leaf's user-space bounds into every open export.
func (b *Builder) measure(local vg.Rect) {
	if len(b.exports) == 0 {
		return
	}
	r := vg.NewBoundary(local).Transformed(b.transform()).Bounds()
	for i := range b.exports {
		f := &b.exports[i]
		if !f.any {
			f.bounds = r
			f.any = true
			continue
		}
		f.bounds = f.bounds.Union(r)
	}
}

// Init receives the canonical tables.
func (b *Builder) Init(canon *vg.Canon) {
	b.g.Init()
	b.canon = canon
}

// Vector opens the document.
func (b *Builder) Vector(width, height *float32, tint vg.Color, tintMode vg.TintMode) {
	b.g.Vector()
	b.scene = &Scene{
		Tint:     tint,
		TintMode: tintMode,
		Exports:  make(map[string]vg.Rect),
	}
	if width != nil {
		b.scene.Width = *width
	}
	if height != nil {
		b.scene.Height = *height
	}
	b.containers = append(b.containers[:0], &b.scene.Root)
	b.transforms = append(b.transforms[:0], vg.Identity())
}

// EndVector closes the document.
func (b *Builder) EndVector() {
	b.g.EndVector()
	b.containers = b.containers[:0]
	b.transforms = b.transforms[:0]
}

// Group opens a layer.
func (b *Builder) Group(transform *vg.Affine, alpha *uint8, blend vg.BlendMode) {
	b.g.Group()
	g := &Group{Transform: transform, Alpha: alpha, Blend: blend}
	b.append(g)
	b.containers = append(b.containers, &g.Children)
	tf := b.transform()
	if transform != nil {
		tf = tf.Multiply(*transform)
	}
	b.transforms = append(b.transforms, tf)
}

// EndGroup closes a layer.
func (b *Builder) EndGroup() {
	b.g.EndGroup()
	b.containers = b.containers[:len(b.containers)-1]
	b.transforms = b.transforms[:len(b.transforms)-1]
}

// Path retains a path given in string form.
func (b *Builder) Path(data string, paint *vg.Paint, key any) {
	b.g.Leaf("Path")
	d := &Draw{Paint: paint}
	// Parse errors were warned by the driver over the same data; keep
	// what parsed.
	_ = pathdata.Parse(data, &pathSink{path: &d.Path})
	b.append(d)
	if r, ok := d.Path.Bounds(); ok {
		b.measure(r)
	}
}

// StartPath retains a streamed path.
func (b *Builder) StartPath(paint *vg.Paint, key any) vg.PathSink {
	b.g.Leaf("StartPath")
	d := &Draw{Paint: paint}
	b.append(d)
	return &pathSink{path: &d.Path, done: func() {
		if r, ok := d.Path.Bounds(); ok {
			b.measure(r)
		}
	}}
}

// ClipPath retains a clip applying to the siblings after it.
func (b *Builder) ClipPath(data string, rule vg.FillRule) {
	b.g.Leaf("ClipPath")
	c := &Clip{Rule: rule}
	_ = pathdata.Parse(data, &pathSink{path: &c.Path})
	b.append(c)
}

// Masked opens a masked section.
func (b *Builder) Masked(bounds *vg.Rect, lumaOnly bool) {
	b.g.Masked()
	m := &MaskGroup{Bounds: bounds, LumaOnly: lumaOnly}
	b.append(m)
	b.containers = append(b.containers, &m.Mask)
	b.transforms = append(b.transforms, b.transform())
}

// MaskedChild switches from mask content to masked content.
func (b *Builder) MaskedChild() {
	b.g.MaskedChild()
	// Replace the mask container with the child container of the same
	// MaskGroup; the transform level stays.
	b.containers = b.containers[:len(b.containers)-1]
	parent := *b.container()
	m := parent[len(parent)-1].(*MaskGroup)
	b.containers = append(b.containers, &m.Child)
}

// EndMasked closes a masked section.
func (b *Builder) EndMasked() {
	b.g.EndMasked()
	b.containers = b.containers[:len(b.containers)-1]
	b.transforms = b.transforms[:len(b.transforms)-1]
}

// Image places a canonical image.
func (b *Builder) Image(index int32) {
	b.g.Leaf("Image")
	n := &ImageNode{Data: b.canon.ImageAt(index)}
	b.append(n)
	b.measure(vg.Rect{X: n.Data.X, Y: n.Data.Y, Width: n.Data.Width, Height: n.Data.Height})
}

// Text opens a text element.
func (b *Builder) Text() {
	b.g.Text()
	b.text = &TextNode{}
	b.append(b.text)
}

// TextChunk starts an anchored run.
func (b *Builder) TextChunk(xIndex, yIndex int32, anchor vg.TextAnchor) {
	b.g.TextChunk()
	b.text.Chunks = append(b.text.Chunks, TextChunk{
		X:      b.canon.FloatAt(xIndex),
		Y:      b.canon.FloatAt(yIndex),
		Anchor: anchor,
	})
}

// TextSpan adds a styled span to the open chunk.
func (b *Builder) TextSpan(dxIndex, dyIndex, textIndex int32, attrs vg.EncodedTextAttrs, paint *vg.Paint) {
	b.g.TextSpan()
	ch := &b.text.Chunks[len(b.text.Chunks)-1]
	size := b.canon.FloatAt(attrs.SizeIndex)
	ch.Spans = append(ch.Spans, TextSpan{
		DX:   b.canon.FloatAt(dxIndex),
		DY:   b.canon.FloatAt(dyIndex),
		Text: b.canon.StringAt(textIndex),
		Query: FontQuery{
			Families: b.canon.StringListAt(attrs.FamiliesIndex),
			Style:    attrs.Style,
			Weight:   attrs.Weight,
		},
		Size:       size,
		Baseline:   attrs.Baseline,
		Decoration: attrs.Decoration,
		Paint:      paint,
	})
	// Shaping happens downstream; the export box can only cover the
	// anchor line.
	b.measure(vg.Rect{X: ch.X, Y: ch.Y - size, Height: size})
}

// TextEnd closes a text element.
func (b *Builder) TextEnd() {
	b.g.TextEnd()
	b.text = nil
}

// ExportedID opens an export bracket.
func (b *Builder) ExportedID(index int32) {
	b.g.ExportedID()
	b.exports = append(b.exports, exportFrame{name: b.canon.StringAt(index)})
}

// EndExportedID closes an export bracket and records the measured box.
func (b *Builder) EndExportedID() {
	b.g.EndExportedID()
	f := b.exports[len(b.exports)-1]
	b.exports = b.exports[:len(b.exports)-1]
	if f.any {
		b.scene.Exports[f.name] = f.bounds
	}
}

// TraversalDone finishes a pass.
func (b *Builder) TraversalDone() {
	b.g.TraversalDone()
}
