package vg

import (
	"fmt"
	"strings"
	"testing"
)

// recorder logs builder calls as compact strings. It embeds a strict
// Grammar so any protocol violation by the driver fails the test by
// panicking. StartPath declines unless streaming is set.
type recorder struct {
	g         Grammar
	canon     *Canon
	calls     []string
	streaming bool
	lastPaint *Paint
}

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Init(c *Canon) { r.g.Init(); r.canon = c; r.log("init") }

func (r *recorder) Vector(w, h *float32, tint Color, mode TintMode) {
	r.g.Vector()
	r.log("vector tint=%v", tint.Kind)
}
func (r *recorder) EndVector() { r.g.EndVector(); r.log("endvector") }

func (r *recorder) Group(tf *Affine, alpha *uint8, blend BlendMode) {
	r.g.Group()
	r.log("group")
}
func (r *recorder) EndGroup() { r.g.EndGroup(); r.log("endgroup") }

func (r *recorder) Path(data string, paint *Paint, key any) {
	r.g.Leaf("Path")
	r.lastPaint = paint
	r.log("path %s", data)
}

func (r *recorder) StartPath(paint *Paint, key any) PathSink {
	if !r.streaming {
		return nil
	}
	r.g.Leaf("StartPath")
	r.lastPaint = paint
	r.log("startpath")
	return &recSink{r: r}
}

func (r *recorder) ClipPath(data string, rule FillRule) {
	r.g.Leaf("ClipPath")
	r.log("clippath %s", data)
}

func (r *recorder) Masked(bounds *Rect, lumaOnly bool) { r.g.Masked(); r.log("masked") }
func (r *recorder) MaskedChild()                       { r.g.MaskedChild(); r.log("maskedchild") }
func (r *recorder) EndMasked()                         { r.g.EndMasked(); r.log("endmasked") }

func (r *recorder) Image(index int32) { r.g.Leaf("Image"); r.log("image %d", index) }

func (r *recorder) Text() { r.g.Text(); r.log("text") }
func (r *recorder) TextChunk(xi, yi int32, anchor TextAnchor) {
	r.g.TextChunk()
	r.log("chunk %g,%g", r.canon.FloatAt(xi), r.canon.FloatAt(yi))
}
func (r *recorder) TextSpan(dxi, dyi, ti int32, attrs EncodedTextAttrs, paint *Paint) {
	r.g.TextSpan()
	r.log("span %q", r.canon.StringAt(ti))
}
func (r *recorder) TextEnd() { r.g.TextEnd(); r.log("textend") }

func (r *recorder) ExportedID(index int32) {
	r.g.ExportedID()
	r.log("export %s", r.canon.StringAt(index))
}
func (r *recorder) EndExportedID() { r.g.EndExportedID(); r.log("endexport") }

func (r *recorder) TraversalDone() { r.g.TraversalDone(); r.log("done") }

// recSink logs streamed path verbs into the owning recorder.
type recSink struct{ r *recorder }

func (s *recSink) MoveTo(x, y float32)              { s.r.log("M%g,%g", x, y) }
func (s *recSink) LineTo(x, y float32)              { s.r.log("L%g,%g", x, y) }
func (s *recSink) QuadTo(cx, cy, x, y float32)      { s.r.log("Q") }
func (s *recSink) CubicTo(a, b, c, d, x, y float32) { s.r.log("C") }
func (s *recSink) ArcTo(rx, ry, rot float32, large, sweep bool, x, y float32) {
	s.r.log("A")
}
func (s *recSink) Oval(cx, cy, rx, ry float32) { s.r.log("O%g,%g,%g,%g", cx, cy, rx, ry) }
func (s *recSink) Close()                      { s.r.log("Z") }
func (s *recSink) End()                        { s.r.log("end") }

func buildLog(t *testing.T, doc *Document, streaming bool) *recorder {
	t.Helper()
	if !doc.Resolved() {
		doc.Resolve(func(string) {})
	}
	rec := &recorder{streaming: streaming}
	Build(doc, rec)
	return rec
}

func joined(r *recorder) string { return strings.Join(r.calls, "; ") }

func TestBuildRequiresResolved(t *testing.T) {
	doc := &Document{Root: testGroup(GroupRoot)}
	mustPanic(t, "requires a resolved document", func() { Build(doc, &recorder{}) })
}

func TestBuildInitSeesFrozenTables(t *testing.T) {
	doc := &Document{Root: testGroup(GroupRoot, testRect("", 0, 0, 10, 10))}
	rec := buildLog(t, doc, false)
	if rec.canon == nil || !rec.canon.Frozen() {
		t.Error("real pass received unfrozen tables")
	}
}

func TestBuildGroupElision(t *testing.T) {
	tests := []struct {
		name string
		root *Group
		want string
	}{
		{
			"plain group with one child elides",
			testGroup(GroupRoot, testGroup(GroupPlain, testRect("", 0, 0, 1, 1))),
			"path",
		},
		{
			"plain group with two children wraps",
			testGroup(GroupRoot, testGroup(GroupPlain,
				testRect("", 0, 0, 1, 1), testRect("", 2, 0, 1, 1))),
			"group; path; path; endgroup",
		},
		{
			"root with two children elides",
			testGroup(GroupRoot, testRect("", 0, 0, 1, 1), testRect("", 2, 0, 1, 1)),
			"path; path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := buildLog(t, &Document{Root: tt.root}, false)
			got := joined(rec)
			// Strip the fixed envelope.
			got = strings.TrimPrefix(got, "init; vector tint=None; ")
			got = strings.TrimSuffix(got, "; endvector; done")
			// Path data varies with geometry; reduce to call names.
			var names []string
			for _, c := range strings.Split(got, "; ") {
				names = append(names, strings.Fields(c)[0])
			}
			if g := strings.Join(names, "; "); g != tt.want {
				t.Errorf("calls = %q, want %q", g, tt.want)
			}
		})
	}
}

func TestBuildLayerAttrsWrapGroup(t *testing.T) {
	leaf := testRect("", 0, 0, 1, 1)
	tf := Translate(5, 5)
	leaf.Transform = &tf
	g := testGroup(GroupPlain, leaf)
	g.Alpha = ptr(uint8(128))
	doc := &Document{Root: testGroup(GroupRoot, g)}
	rec := buildLog(t, doc, false)
	want := "init; vector tint=None; group; group; path"
	if got := joined(rec); !strings.HasPrefix(got, want) {
		t.Errorf("calls = %q, want prefix %q", got, want)
	}
}

func TestBuildExportedIDBrackets(t *testing.T) {
	leaf := testRect("icon", 0, 0, 4, 4)
	leaf.Exported = true
	doc := &Document{Root: testGroup(GroupRoot, leaf, testRect("", 5, 0, 1, 1))}
	rec := buildLog(t, doc, false)
	got := joined(rec)
	if !strings.Contains(got, "export icon; ") || !strings.Contains(got, "; endexport") {
		t.Errorf("exported leaf not bracketed: %q", got)
	}
	if strings.Index(got, "export icon") > strings.Index(got, "path") {
		t.Error("ExportedID must open before the leaf emits")
	}
}

func TestBuildSkipsInvisibleLeaves(t *testing.T) {
	hidden := testRect("", 0, 0, 1, 1)
	hidden.Paint.Hidden = ptr(true)
	unpainted := testRect("", 2, 0, 1, 1)
	unpainted.Paint.Fill = NoPaint()
	visible := testRect("", 4, 0, 1, 1)
	doc := &Document{Root: testGroup(GroupRoot, hidden, unpainted, visible)}
	rec := buildLog(t, doc, false)
	var paths int
	for _, c := range rec.calls {
		if strings.HasPrefix(c, "path") {
			paths++
		}
	}
	if paths != 1 {
		t.Errorf("emitted %d paths, want only the visible one", paths)
	}
}

func TestBuildClipGeometryAlwaysEmits(t *testing.T) {
	clip := &Group{
		NodeBase: NodeBase{ID: "c", Display: true},
		Kind:     GroupClip,
		Children: []Node{&Path{NodeBase: NodeBase{Display: true}, Data: "M0 0H4V4H0Z"}},
	}
	leaf := testRect("", 0, 0, 10, 10)
	leaf.Paint.ClipID = "c"
	doc := &Document{Root: testGroup(GroupRoot, clip, leaf)}
	rec := buildLog(t, doc, false)
	clipAt, pathAt := -1, -1
	for i, c := range rec.calls {
		switch {
		case strings.HasPrefix(c, "clippath "):
			clipAt = i
		case strings.HasPrefix(c, "path "):
			pathAt = i
		}
	}
	if clipAt < 0 {
		t.Fatalf("no ClipPath call: %q", joined(rec))
	}
	if pathAt < 0 || clipAt > pathAt {
		t.Error("clip must precede the content it restricts")
	}
}

func TestBuildMaskedOrder(t *testing.T) {
	mask := &Group{
		NodeBase: NodeBase{ID: "m", Display: true},
		Kind:     GroupMask,
		Children: []Node{testRect("", 0, 0, 10, 10)},
	}
	leaf := testRect("", 0, 0, 10, 10)
	leaf.Paint.MaskID = "m"
	doc := &Document{Root: testGroup(GroupRoot, mask, leaf)}
	rec := buildLog(t, doc, false)
	var names []string
	for _, c := range rec.calls {
		names = append(names, strings.Fields(c)[0])
	}
	got := strings.Join(names, " ")
	want := "init vector masked path maskedchild path endmasked endvector done"
	if got != want {
		t.Errorf("call order = %q, want %q", got, want)
	}
}

func TestBuildStreamedPath(t *testing.T) {
	doc := &Document{Root: testGroup(GroupRoot,
		&Path{NodeBase: NodeBase{Display: true}, Data: "M0 0L4 0"},
		&EllipseShape{NodeBase: NodeBase{Display: true}, CX: 5, CY: 5, RX: 2, RY: 3},
	)}
	rec := buildLog(t, doc, true)
	got := joined(rec)
	if !strings.Contains(got, "startpath; M0,0; L4,0; end") {
		t.Errorf("freeform path not streamed: %q", got)
	}
	if !strings.Contains(got, "startpath; O5,5,2,3; end") {
		t.Errorf("ellipse not streamed as oval: %q", got)
	}
	for _, c := range rec.calls {
		if strings.HasPrefix(c, "path ") {
			t.Errorf("fallback Path call despite streaming: %q", c)
		}
	}
}

func TestBuildPathFallbackData(t *testing.T) {
	doc := &Document{Root: testGroup(GroupRoot,
		&EllipseShape{NodeBase: NodeBase{Display: true}, CX: 5, CY: 5, RX: 2, RY: 2},
	)}
	rec := buildLog(t, doc, false)
	var data string
	for _, c := range rec.calls {
		if strings.HasPrefix(c, "path ") {
			data = strings.TrimPrefix(c, "path ")
		}
	}
	if data == "" {
		t.Fatal("no Path fallback emitted")
	}
	if !strings.HasPrefix(data, "M") {
		t.Errorf("synthesized data %q is not path syntax", data)
	}
}

func TestBuildTintNormalization(t *testing.T) {
	doc := &Document{
		Root: testGroup(GroupRoot, testRect("", 0, 0, 1, 1)),
		Tint: CurrentColor(),
	}
	rec := buildLog(t, doc, false)
	if rec.calls[1] != "vector tint=Value" {
		t.Errorf("currentColor tint did not normalize to a value: %q", rec.calls[1])
	}

	doc2 := &Document{Root: testGroup(GroupRoot, testRect("", 0, 0, 1, 1))}
	rec2 := buildLog(t, doc2, false)
	if rec2.calls[1] != "vector tint=None" {
		t.Errorf("absent tint = %q, want None", rec2.calls[1])
	}
}

func TestBuildFloatDedupAcrossLeaves(t *testing.T) {
	a := testRect("", 0, 0, 10, 10)
	b := testRect("", 20, 0, 10, 10)
	a.Paint.StrokeWidth = ptr(float32(3))
	b.Paint.StrokeWidth = ptr(float32(3))
	a.Paint.Stroke = RGB(0x000000)
	b.Paint.Stroke = RGB(0x000000)
	doc := &Document{Root: testGroup(GroupRoot, a, b)}
	rec := buildLog(t, doc, false)

	count := 0
	for _, v := range rec.canon.Floats() {
		if v == 3 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("stroke width interned %d times, want 1", count)
	}
}

func TestBuildTextSpans(t *testing.T) {
	txt := &Text{
		NodeBase: NodeBase{Display: true},
		Chunks: []TextChunk{{
			X: 5, Y: 10,
			Spans: []TextSpan{
				{Text: "hello "},
				{Text: "world", DX: 1},
			},
		}},
	}
	doc := &Document{Root: testGroup(GroupRoot, txt)}
	rec := buildLog(t, doc, false)
	got := joined(rec)
	want := `text; chunk 5,10; span "hello "; span "world"; textend`
	if !strings.Contains(got, want) {
		t.Errorf("calls = %q, want fragment %q", got, want)
	}
}

func TestBuildLeafPaintResolved(t *testing.T) {
	leaf := testRect("", 0, 0, 10, 10)
	leaf.Paint.Fill = RGB(0x112233)
	leaf.Paint.FillAlpha = ptr(float32(0.5))
	doc := &Document{Root: testGroup(GroupRoot, leaf)}
	rec := buildLog(t, doc, false)
	p := rec.lastPaint
	if p == nil {
		t.Fatal("no paint captured")
	}
	if p.Fill.Kind != BrushSolid {
		t.Fatalf("fill brush kind = %v", p.Fill.Kind)
	}
	if got := p.Fill.ARGB; got != 0x80112233 {
		t.Errorf("fill-opacity not baked into alpha: %08x", got)
	}
	if p.Stroke.Kind != BrushNone {
		t.Errorf("default stroke brush = %v, want None", p.Stroke.Kind)
	}
	if p.StrokeWidth != 1 || p.MiterLimit != 4 {
		t.Errorf("stroke scalars = %g/%g, want defaults 1/4", p.StrokeWidth, p.MiterLimit)
	}
}

func TestBuildGradientFill(t *testing.T) {
	grad := &GradientNode{
		NodeBase: NodeBase{ID: "lg", Display: true},
		Grad: GradientSpec{
			Kind: GradientLinear,
			Stops: []GradientStop{
				{Offset: 0, Color: RGB(0xFF0000), Opacity: 1},
				{Offset: 1, Color: RGB(0x0000FF), Opacity: 1},
			},
		},
	}
	leaf := testRect("", 0, 0, 10, 20)
	leaf.Paint.Fill = GradientRef("lg")
	doc := &Document{Root: testGroup(GroupRoot, grad, leaf)}
	rec := buildLog(t, doc, false)
	p := rec.lastPaint
	if p == nil || p.Fill.Kind != BrushGradient || p.Fill.Gradient == nil {
		t.Fatal("gradient reference did not resolve to a gradient brush")
	}
	rg := p.Fill.Gradient
	if rg.Kind != GradientLinear || len(rg.Stops) != 2 {
		t.Fatalf("resolved gradient = %+v", rg)
	}
	// Bounding-box units: the object box mapping lands in the transform.
	if got, want := rg.Transform, Translate(0, 0).Multiply(Scale(10, 20)); got != want {
		t.Errorf("bbox transform = %+v, want %+v", got, want)
	}
	if rg.Stops[0].ARGB != 0xFFFF0000 || rg.Stops[1].ARGB != 0xFF0000FF {
		t.Errorf("stops = %+v", rg.Stops)
	}
}

func TestBuildGradientSingleStopFlattens(t *testing.T) {
	grad := &GradientNode{
		NodeBase: NodeBase{ID: "one", Display: true},
		Grad: GradientSpec{
			Kind:  GradientLinear,
			Stops: []GradientStop{{Offset: 0, Color: RGB(0x123456), Opacity: 1}},
		},
	}
	leaf := testRect("", 0, 0, 10, 10)
	leaf.Paint.Fill = GradientRef("one")
	leaf.Paint.FillAlpha = ptr(float32(0.5))
	doc := &Document{Root: testGroup(GroupRoot, grad, leaf)}
	rec := buildLog(t, doc, false)
	p := rec.lastPaint
	if p == nil || p.Fill.Kind != BrushSolid {
		t.Fatalf("single-stop gradient fill = %+v, want a solid brush", p)
	}
	if got := p.Fill.ARGB; got != 0x80123456 {
		t.Errorf("flat color = %08x, want 80123456", got)
	}
}

func TestBuildGradientNoStopsWarns(t *testing.T) {
	grad := &GradientNode{NodeBase: NodeBase{ID: "empty", Display: true},
		Grad: GradientSpec{Kind: GradientLinear}}
	leaf := testRect("", 0, 0, 10, 10)
	leaf.Paint.Fill = GradientRef("empty")
	doc := &Document{Root: testGroup(GroupRoot, grad, leaf)}
	var warnings []string
	doc.Resolve(func(msg string) { warnings = append(warnings, msg) })
	rec := &recorder{}
	Build(doc, rec)
	if !hasWarning(warnings, "has no stops") {
		t.Errorf("warnings = %q, want a no-stops warning", warnings)
	}
	// Nothing paints, so the leaf never reaches the target.
	if rec.lastPaint != nil {
		t.Errorf("paintless leaf still emitted: %+v", rec.lastPaint)
	}
}
