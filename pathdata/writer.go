package pathdata

import "strconv"

// Writer builds a path data string from geometry verbs. It satisfies
// Sink, so parser output or a builder path stream can round-trip back
// into the mini-language. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// String returns the accumulated path data.
func (w *Writer) String() string { return string(w.buf) }

// Reset discards the accumulated data.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// MoveTo starts a new subpath at (x, y).
func (w *Writer) MoveTo(x, y float32) {
	w.cmd('M')
	w.coords(x, y)
}

// LineTo draws a line to (x, y).
func (w *Writer) LineTo(x, y float32) {
	w.cmd('L')
	w.coords(x, y)
}

// QuadTo draws a quadratic Bezier curve.
func (w *Writer) QuadTo(cx, cy, x, y float32) {
	w.cmd('Q')
	w.coords(cx, cy, x, y)
}

// CubicTo draws a cubic Bezier curve.
func (w *Writer) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	w.cmd('C')
	w.coords(c1x, c1y, c2x, c2y, x, y)
}

// ArcTo draws an endpoint-parameterized elliptical arc. rotation is in
// radians; the mini-language stores degrees.
func (w *Writer) ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32) {
	w.cmd('A')
	w.coords(rx, ry, rotation*(180/pi))
	w.flag(largeArc)
	w.flag(sweep)
	w.coords(x, y)
}

// Oval writes a full ellipse as a four-segment closed contour; the
// mini-language has no oval command.
func (w *Writer) Oval(cx, cy, rx, ry float32) {
	ovalCubics(cx, cy, rx, ry, w)
}

// Close closes the current subpath.
func (w *Writer) Close() {
	w.cmd('Z')
}

// End is a no-op; the string is available at any point.
func (w *Writer) End() {}

func (w *Writer) cmd(c byte) {
	w.buf = append(w.buf, c)
}

func (w *Writer) coords(vs ...float32) {
	for _, v := range vs {
		// A command letter already separates; digits and flags need a
		// space.
		if n := len(w.buf); n > 0 && !isCommand(w.buf[n-1]) {
			w.buf = append(w.buf, ' ')
		}
		w.buf = strconv.AppendFloat(w.buf, float64(v), 'g', -1, 32)
	}
}

func (w *Writer) flag(f bool) {
	if f {
		w.buf = append(w.buf, ' ', '1')
	} else {
		w.buf = append(w.buf, ' ', '0')
	}
}
