package scene

import (
	"testing"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/vg"
)

func buildFixture(t *testing.T, root *vg.Group, opts func(*vg.Document)) *Scene {
	t.Helper()
	doc := &vg.Document{Root: root}
	if opts != nil {
		opts(doc)
	}
	doc.Resolve(func(msg string) { t.Logf("resolve: %s", msg) })
	b := NewBuilder()
	vg.Build(doc, b)
	return b.Scene()
}

func visible(id string) vg.NodeBase {
	return vg.NodeBase{ID: id, Display: true}
}

func TestBuilderBasicScene(t *testing.T) {
	rect := &vg.RectShape{NodeBase: visible(""), X: 0, Y: 0, W: 10, H: 10}
	circle := &vg.EllipseShape{NodeBase: visible(""), CX: 5, CY: 5, RX: 5, RY: 5, IsCircle: true}
	w, h := float32(64), float32(32)
	s := buildFixture(t, &vg.Group{
		NodeBase: vg.NodeBase{Display: true},
		Kind:     vg.GroupRoot,
		Children: []vg.Node{rect, circle},
	}, func(d *vg.Document) {
		d.Width, d.Height = &w, &h
	})

	if s.Width != 64 || s.Height != 32 {
		t.Errorf("scene size = %g×%g", s.Width, s.Height)
	}
	if s.Tint.Kind != vg.ColorNone {
		t.Errorf("tint kind = %v, want None", s.Tint.Kind)
	}
	if len(s.Root) != 2 {
		t.Fatalf("root has %d nodes, want 2", len(s.Root))
	}
	d0, ok := s.Root[0].(*Draw)
	if !ok {
		t.Fatalf("first node is %T, want *Draw", s.Root[0])
	}
	if b, ok := d0.Path.Bounds(); !ok || b != (vg.Rect{Width: 10, Height: 10}) {
		t.Errorf("rect draw bounds = %+v", b)
	}
	if d0.Paint == nil || d0.Paint.Fill.Kind != vg.BrushSolid {
		t.Error("rect paint not resolved to a solid fill")
	}
	d1, ok := s.Root[1].(*Draw)
	if !ok {
		t.Fatalf("second node is %T, want *Draw", s.Root[1])
	}
	if len(d1.Path.Verbs) != 1 || d1.Path.Verbs[0].Op != OpOval {
		t.Errorf("circle verbs = %+v, want a single oval", d1.Path.Verbs)
	}
}

func TestBuilderGroupLayer(t *testing.T) {
	leaf := &vg.RectShape{NodeBase: visible(""), X: 0, Y: 0, W: 4, H: 4}
	g := &vg.Group{NodeBase: vg.NodeBase{Display: true}, Kind: vg.GroupPlain,
		Children: []vg.Node{leaf}}
	tf := vg.Scale(2, 2)
	g.Transform = &tf
	g.Alpha = alphaPtr(100)

	s := buildFixture(t, &vg.Group{
		NodeBase: vg.NodeBase{Display: true},
		Kind:     vg.GroupRoot,
		Children: []vg.Node{g},
	}, nil)

	if len(s.Root) != 1 {
		t.Fatalf("root has %d nodes", len(s.Root))
	}
	layer, ok := s.Root[0].(*Group)
	if !ok {
		t.Fatalf("root node is %T, want *Group", s.Root[0])
	}
	if layer.Transform == nil || *layer.Transform != tf {
		t.Error("layer transform lost")
	}
	if layer.Alpha == nil || *layer.Alpha != 100 {
		t.Error("layer alpha lost")
	}
	if len(layer.Children) != 1 {
		t.Fatalf("layer has %d children", len(layer.Children))
	}
	if _, ok := layer.Children[0].(*Draw); !ok {
		t.Errorf("layer child is %T, want *Draw", layer.Children[0])
	}
}

func TestBuilderMaskGroup(t *testing.T) {
	mask := &vg.Group{
		NodeBase: visible("m"),
		Kind:     vg.GroupMask,
		LumaOnly: true,
		Children: []vg.Node{&vg.RectShape{NodeBase: visible(""), X: 0, Y: 0, W: 8, H: 8}},
	}
	leaf := &vg.RectShape{NodeBase: visible(""), X: 0, Y: 0, W: 16, H: 16}
	leaf.Paint.MaskID = "m"

	s := buildFixture(t, &vg.Group{
		NodeBase: vg.NodeBase{Display: true},
		Kind:     vg.GroupRoot,
		Children: []vg.Node{mask, leaf},
	}, nil)

	if len(s.Root) != 1 {
		t.Fatalf("root has %d nodes", len(s.Root))
	}
	mg, ok := s.Root[0].(*MaskGroup)
	if !ok {
		t.Fatalf("root node is %T, want *MaskGroup", s.Root[0])
	}
	if !mg.LumaOnly {
		t.Error("LumaOnly lost")
	}
	if len(mg.Mask) != 1 || len(mg.Child) != 1 {
		t.Fatalf("mask/child counts = %d/%d, want 1/1", len(mg.Mask), len(mg.Child))
	}
	if _, ok := mg.Mask[0].(*Draw); !ok {
		t.Error("mask content is not a draw")
	}
}

func TestBuilderClipPrecedesContent(t *testing.T) {
	clip := &vg.Group{
		NodeBase: visible("c"),
		Kind:     vg.GroupClip,
		Children: []vg.Node{&vg.Path{NodeBase: visible(""), Data: "M0 0H4V4H0Z"}},
	}
	leaf := &vg.RectShape{NodeBase: visible(""), X: 0, Y: 0, W: 16, H: 16}
	leaf.Paint.ClipID = "c"

	s := buildFixture(t, &vg.Group{
		NodeBase: vg.NodeBase{Display: true},
		Kind:     vg.GroupRoot,
		Children: []vg.Node{clip, leaf},
	}, nil)

	g, ok := s.Root[0].(*Group)
	if !ok {
		t.Fatalf("root node is %T, want the clip container group", s.Root[0])
	}
	if len(g.Children) != 2 {
		t.Fatalf("clip container has %d children", len(g.Children))
	}
	if _, ok := g.Children[0].(*Clip); !ok {
		t.Errorf("first child is %T, want *Clip", g.Children[0])
	}
	if _, ok := g.Children[1].(*Draw); !ok {
		t.Errorf("second child is %T, want *Draw", g.Children[1])
	}
}

func TestBuilderExportsMeasureThroughTransforms(t *testing.T) {
	leaf := &vg.RectShape{NodeBase: visible("box"), X: 1, Y: 1, W: 2, H: 2}
	leaf.Exported = true
	g := &vg.Group{NodeBase: vg.NodeBase{Display: true}, Kind: vg.GroupPlain,
		Children: []vg.Node{leaf, &vg.RectShape{NodeBase: visible(""), X: 9, Y: 9, W: 1, H: 1}}}
	tf := vg.Scale(10, 10)
	g.Transform = &tf

	s := buildFixture(t, &vg.Group{
		NodeBase: vg.NodeBase{Display: true},
		Kind:     vg.GroupRoot,
		Children: []vg.Node{g},
	}, nil)

	got, ok := s.Exports["box"]
	if !ok {
		t.Fatalf("exports = %v, want box", s.Exports)
	}
	want := vg.Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if got != want {
		t.Errorf("export bounds = %+v, want %+v", got, want)
	}
}

func TestBuilderTextNode(t *testing.T) {
	txt := &vg.Text{
		NodeBase: visible(""),
		Chunks: []vg.TextChunk{{
			X: 10, Y: 20,
			Spans: []vg.TextSpan{{
				Text: "hi",
				Attrs: vg.TextAttrs{
					Family: []string{"Menlo", "monospace"},
					Size:   vg.AbsoluteSize(12),
					Weight: vg.WeightBold,
				},
			}},
		}},
	}
	s := buildFixture(t, &vg.Group{
		NodeBase: vg.NodeBase{Display: true},
		Kind:     vg.GroupRoot,
		Children: []vg.Node{txt},
	}, nil)

	tn, ok := s.Root[0].(*TextNode)
	if !ok {
		t.Fatalf("root node is %T, want *TextNode", s.Root[0])
	}
	ch := tn.Chunks[0]
	if ch.X != 10 || ch.Y != 20 {
		t.Errorf("chunk anchor = %g,%g", ch.X, ch.Y)
	}
	sp := ch.Spans[0]
	if sp.Text != "hi" || sp.Size != 12 {
		t.Errorf("span = %+v", sp)
	}
	if len(sp.Query.Families) != 2 || sp.Query.Families[0] != "Menlo" {
		t.Errorf("font families = %v", sp.Query.Families)
	}
	if sp.Query.Weight != vg.WeightBold {
		t.Errorf("font weight = %v", sp.Query.Weight)
	}
	if sp.Paint == nil || sp.Paint.Fill.Kind != vg.BrushSolid {
		t.Error("span paint not resolved")
	}
}

func TestFontQueryAspect(t *testing.T) {
	q := FontQuery{
		Families: []string{"serif"},
		Style:    vg.StyleOblique,
		Weight:   vg.WeightBold,
	}
	a := q.Aspect()
	if a.Style != font.StyleItalic {
		t.Errorf("oblique mapped to %v, want italic", a.Style)
	}
	if a.Weight != font.Weight(vg.WeightBold) {
		t.Errorf("weight = %v", a.Weight)
	}
	fq := q.Query()
	if len(fq.Families) != 1 || fq.Families[0] != "serif" {
		t.Errorf("query families = %v", fq.Families)
	}
}

func TestPathBounds(t *testing.T) {
	var p Path
	s := pathSink{path: &p}
	s.MoveTo(0, 0)
	s.LineTo(10, 5)
	s.Oval(20, 0, 2, 3)
	b, ok := p.Bounds()
	if !ok {
		t.Fatal("Bounds reported no geometry")
	}
	want := vg.Rect{X: 0, Y: -3, Width: 22, Height: 8}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}

	var empty Path
	if _, ok := empty.Bounds(); ok {
		t.Error("empty path reported bounds")
	}
}

func TestPathReplay(t *testing.T) {
	var p Path
	in := pathSink{path: &p}
	in.MoveTo(1, 2)
	in.ArcTo(3, 4, 0.5, true, false, 5, 6)
	in.Close()

	var out Path
	p.Replay(&pathSink{path: &out})
	if len(out.Verbs) != len(p.Verbs) {
		t.Fatalf("replayed %d verbs, want %d", len(out.Verbs), len(p.Verbs))
	}
	arc := out.Verbs[1]
	if arc.Op != OpArcTo || !arc.Large || arc.Sweep || arc.Args != p.Verbs[1].Args {
		t.Errorf("arc verb corrupted: %+v", arc)
	}
}

func alphaPtr(v uint8) *uint8 { return &v }
