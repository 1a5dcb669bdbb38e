package scene

import "github.com/gogpu/vg"

// PathOp is the opcode of one retained path verb.
type PathOp uint8

const (
	// OpMoveTo starts a subpath: args x, y.
	OpMoveTo PathOp = iota
	// OpLineTo draws a line: args x, y.
	OpLineTo
	// OpQuadTo draws a quadratic Bezier: args cx, cy, x, y.
	OpQuadTo
	// OpCubicTo draws a cubic Bezier: args c1x, c1y, c2x, c2y, x, y.
	OpCubicTo
	// OpArcTo draws an elliptical arc: args rx, ry, rotation, x, y plus
	// the Large and Sweep flags.
	OpArcTo
	// OpOval adds a full ellipse subpath: args cx, cy, rx, ry.
	OpOval
	// OpClose closes the subpath. No args.
	OpClose
)

// PathVerb is one retained geometry verb.
type PathVerb struct {
	// Op selects the verb; Args holds its coordinates in the order
	// documented on each op.
	Op   PathOp
	Args [6]float32

	// Large and Sweep are the arc flags, meaningful for OpArcTo.
	Large, Sweep bool
}

// Path is retained path geometry: a flat verb list in user-space
// coordinates, absolute throughout.
type Path struct {
	Verbs []PathVerb
}

// Replay feeds the retained verbs into a path sink, without the final
// End call.
func (p *Path) Replay(s vg.PathSink) {
	for _, v := range p.Verbs {
		a := v.Args
		switch v.Op {
		case OpMoveTo:
			s.MoveTo(a[0], a[1])
		case OpLineTo:
			s.LineTo(a[0], a[1])
		case OpQuadTo:
			s.QuadTo(a[0], a[1], a[2], a[3])
		case OpCubicTo:
			s.CubicTo(a[0], a[1], a[2], a[3], a[4], a[5])
		case OpArcTo:
			s.ArcTo(a[0], a[1], a[2], v.Large, v.Sweep, a[3], a[4])
		case OpOval:
			s.Oval(a[0], a[1], a[2], a[3])
		case OpClose:
			s.Close()
		}
	}
}

// Bounds returns the control-point hull of the path. Conservative:
// Bezier control points bound the curve but need not touch it, and arcs
// count only their endpoints and radius box.
func (p *Path) Bounds() (vg.Rect, bool) {
	var minX, minY, maxX, maxY float32
	any := false
	add := func(x, y float32) {
		if !any {
			minX, maxX, minY, maxY = x, x, y, y
			any = true
			return
		}
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	for _, v := range p.Verbs {
		a := v.Args
		switch v.Op {
		case OpMoveTo, OpLineTo:
			add(a[0], a[1])
		case OpQuadTo:
			add(a[0], a[1])
			add(a[2], a[3])
		case OpCubicTo:
			add(a[0], a[1])
			add(a[2], a[3])
			add(a[4], a[5])
		case OpArcTo:
			add(a[3]-a[0], a[4]-a[1])
			add(a[3]+a[0], a[4]+a[1])
		case OpOval:
			add(a[0]-a[2], a[1]-a[3])
			add(a[0]+a[2], a[1]+a[3])
		}
	}
	if !any {
		return vg.Rect{}, false
	}
	return vg.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// pathSink collects streamed verbs into a retained Path.
type pathSink struct {
	path *Path
	done func()
}

func (s *pathSink) push(op PathOp, args ...float32) {
	v := PathVerb{Op: op}
	copy(v.Args[:], args)
	s.path.Verbs = append(s.path.Verbs, v)
}

func (s *pathSink) MoveTo(x, y float32) { s.push(OpMoveTo, x, y) }
func (s *pathSink) LineTo(x, y float32) { s.push(OpLineTo, x, y) }

func (s *pathSink) QuadTo(cx, cy, x, y float32) {
	s.push(OpQuadTo, cx, cy, x, y)
}

func (s *pathSink) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	s.push(OpCubicTo, c1x, c1y, c2x, c2y, x, y)
}

func (s *pathSink) ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32) {
	s.path.Verbs = append(s.path.Verbs, PathVerb{
		Op:    OpArcTo,
		Args:  [6]float32{rx, ry, rotation, x, y},
		Large: largeArc,
		Sweep: sweep,
	})
}

func (s *pathSink) Oval(cx, cy, rx, ry float32) {
	s.push(OpOval, cx, cy, rx, ry)
}

func (s *pathSink) Close() { s.push(OpClose) }

func (s *pathSink) End() {
	if s.done != nil {
		s.done()
	}
}
