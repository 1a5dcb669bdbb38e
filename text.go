package vg

// TextChunk is an independently anchored run of text.
type TextChunk struct {
	// X, Y anchor the chunk in user space.
	X, Y float32

	// Spans are the styled pieces of the chunk, drawn consecutively.
	Spans []TextSpan
}

// TextSpan is a styled piece of a text chunk.
type TextSpan struct {
	// DX, DY shift the span relative to the pen position.
	DX, DY float32

	// Text is the run content.
	Text string

	// Paint carries the span's paint overrides. After resolution it is
	// the fully cascaded context for the span.
	Paint PaintAttrs

	// Attrs carries the span's text style overrides, fully cascaded
	// after resolution.
	Attrs TextAttrs
}

// anchor returns the resolved anchor of the chunk: the first span's
// cascaded anchor, falling back to start. Meaningful only on resolved
// trees.
func (c *TextChunk) anchor() TextAnchor {
	if len(c.Spans) > 0 && c.Spans[0].Attrs.Anchor != nil {
		return *c.Spans[0].Attrs.Anchor
	}
	return AnchorStart
}

// hasContent reports whether any span carries non-empty text.
func (c *TextChunk) hasContent() bool {
	for _, s := range c.Spans {
		if s.Text != "" {
			return true
		}
	}
	return false
}
