package svg

import (
	"encoding/xml"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/vg"
)

// textLoader accumulates the chunks of one <text> element. Absolute
// position lists (x="10 20 30") anchor individual characters, so each
// positioned grapheme cluster becomes its own chunk; once the lists are
// exhausted the remaining text flows into the current chunk as spans.
type textLoader struct {
	node *vg.Text

	// xs, ys are the absolute position lists, consumed one entry per
	// grapheme cluster.
	xs, ys []float32
	used   int

	// spans is the open tspan nesting, outermost first. Index 0 is the
	// text element itself.
	spans []spanState

	chunks  []vg.TextChunk
	curSpan int // index into the open chunk's Spans, -1 when none
}

// spanState carries the style and pending shift of one open tspan.
type spanState struct {
	paint vg.PaintAttrs
	text  vg.TextAttrs

	// dx, dy shift the next span once; consumed marks them spent.
	dx, dy   float32
	consumed bool
}

func newTextLoader(l *loader, t xml.StartElement) (*textLoader, bool) {
	node := &vg.Text{}
	if !l.commonAttrs(&node.NodeBase, t) {
		return nil, false
	}
	tl := &textLoader{node: node, curSpan: -1}
	state := spanState{}
	tl.xs, tl.ys, state.dx, state.dy = l.positionLists(t)
	tl.spans = []spanState{state}
	return tl, true
}

// positionLists parses the x/y/dx/dy attributes. Only the first dx/dy
// entry is honored; per-character relative shifts are rare and fold into
// the span shift.
func (l *loader) positionLists(t xml.StartElement) (xs, ys []float32, dx, dy float32) {
	list := func(name string) []float32 {
		raw, ok := attrVal(t, name)
		if !ok {
			return nil
		}
		vals, err := parseFloatList(raw)
		if err != nil {
			l.warn.Warnf("svg: bad %s list %q", name, raw)
			return nil
		}
		return vals
	}
	xs = list("x")
	ys = list("y")
	if d := list("dx"); len(d) > 0 {
		dx = d[0]
	}
	if d := list("dy"); len(d) > 0 {
		dy = d[0]
	}
	return xs, ys, dx, dy
}

// startSpan opens one <tspan>. A tspan with absolute positions starts
// new chunks; one with only dx/dy shifts the following span.
func (t *textLoader) startSpan(l *loader, e xml.StartElement) {
	var base vg.NodeBase
	l.commonAttrs(&base, e)
	parent := t.spans[len(t.spans)-1]
	state := spanState{
		paint: base.Paint.Cascade(&parent.paint),
		text:  base.Text.Cascade(&parent.text),
	}
	xs, ys, dx, dy := l.positionLists(e)
	state.dx, state.dy = dx, dy
	if len(xs) > 0 || len(ys) > 0 {
		t.xs, t.ys = xs, ys
		t.used = 0
	}
	t.spans = append(t.spans, state)
	t.curSpan = -1
}

func (t *textLoader) endSpan() {
	if len(t.spans) > 1 {
		t.spans = t.spans[:len(t.spans)-1]
	}
	// Text after the tspan belongs to the enclosing style.
	t.curSpan = -1
}

// addText appends one run of character data, splitting positioned
// grapheme clusters into their own chunks.
func (t *textLoader) addText(s string) {
	s = collapseSpace(s)
	if s == "" {
		return
	}
	var it norm.Iter
	it.InitString(norm.NFC, s)
	for !it.Done() {
		cluster := string(it.Next())
		if cluster == " " && t.atChunkStart() {
			continue
		}
		if t.positionsRemain() {
			t.startChunk()
		}
		t.appendCluster(cluster)
	}
}

func (t *textLoader) positionsRemain() bool {
	return t.used < len(t.xs) || t.used < len(t.ys)
}

func (t *textLoader) atChunkStart() bool {
	if len(t.chunks) == 0 {
		return true
	}
	c := &t.chunks[len(t.chunks)-1]
	for _, sp := range c.Spans {
		if sp.Text != "" {
			return false
		}
	}
	return true
}

// startChunk opens a chunk at the next absolute position, inheriting the
// previous chunk's coordinate on whichever axis has run out of entries.
func (t *textLoader) startChunk() {
	var x, y float32
	if len(t.chunks) > 0 {
		last := &t.chunks[len(t.chunks)-1]
		x, y = last.X, last.Y
	}
	if t.used < len(t.xs) {
		x = t.xs[t.used]
	}
	if t.used < len(t.ys) {
		y = t.ys[t.used]
	}
	t.used++
	t.chunks = append(t.chunks, vg.TextChunk{X: x, Y: y})
	t.curSpan = -1
}

func (t *textLoader) appendCluster(cluster string) {
	if len(t.chunks) == 0 {
		t.chunks = append(t.chunks, vg.TextChunk{})
	}
	chunk := &t.chunks[len(t.chunks)-1]
	if t.curSpan < 0 {
		state := &t.spans[len(t.spans)-1]
		span := vg.TextSpan{Paint: state.paint, Attrs: state.text}
		if !state.consumed {
			span.DX, span.DY = state.dx, state.dy
			state.consumed = true
		}
		chunk.Spans = append(chunk.Spans, span)
		t.curSpan = len(chunk.Spans) - 1
	}
	chunk.Spans[t.curSpan].Text += cluster
}

// finish attaches the accumulated chunks to the tree, dropping chunks
// that never received content.
func (t *textLoader) finish(l *loader) {
	if n := len(t.chunks); n > 0 {
		spans := t.chunks[n-1].Spans
		if m := len(spans); m > 0 {
			spans[m-1].Text = strings.TrimRight(spans[m-1].Text, " ")
		}
	}
	out := t.chunks[:0]
	for _, c := range t.chunks {
		keep := false
		for _, sp := range c.Spans {
			if sp.Text != "" {
				keep = true
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return
	}
	t.node.Chunks = out
	l.append(t.node)
}

// collapseSpace folds runs of XML whitespace into single spaces, the
// default SVG text-space handling.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	if space && b.Len() > 0 {
		b.WriteByte(' ')
	}
	return b.String()
}
