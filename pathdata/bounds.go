package pathdata

// Bounds parses data and returns the control-point hull of its
// geometry. Arcs are split to cubics first, so the hull covers them
// too. The result is conservative: control points of a Bezier bound the
// curve but need not touch it.
//
// A path with no coordinates yields a zero hull.
func Bounds(data string) (minX, minY, maxX, maxY float32, err error) {
	var h hullSink
	err = Parse(data, SplitArcs(&h))
	if !h.any {
		return 0, 0, 0, 0, err
	}
	return h.minX, h.minY, h.maxX, h.maxY, err
}

// hullSink accumulates the axis-aligned hull of every point it sees.
type hullSink struct {
	minX, minY float32
	maxX, maxY float32
	any        bool
}

func (h *hullSink) add(x, y float32) {
	if !h.any {
		h.minX, h.maxX = x, x
		h.minY, h.maxY = y, y
		h.any = true
		return
	}
	if x < h.minX {
		h.minX = x
	}
	if x > h.maxX {
		h.maxX = x
	}
	if y < h.minY {
		h.minY = y
	}
	if y > h.maxY {
		h.maxY = y
	}
}

func (h *hullSink) MoveTo(x, y float32) { h.add(x, y) }
func (h *hullSink) LineTo(x, y float32) { h.add(x, y) }

func (h *hullSink) QuadTo(cx, cy, x, y float32) {
	h.add(cx, cy)
	h.add(x, y)
}

func (h *hullSink) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	h.add(c1x, c1y)
	h.add(c2x, c2y)
	h.add(x, y)
}

func (h *hullSink) ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32) {
	// The splitter converts arcs before they get here; direct use still
	// sees the endpoint.
	h.add(x, y)
}

func (h *hullSink) Oval(cx, cy, rx, ry float32) {
	h.add(cx-rx, cy-ry)
	h.add(cx+rx, cy+ry)
}

func (h *hullSink) Close() {}
func (h *hullSink) End()   {}
