package pathdata

import "github.com/chewxy/math32"

const pi = math32.Pi

// kappa is the cubic Bezier control point distance for circle
// approximation, 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936

// SplitArcs wraps s so that elliptical arcs and ovals arrive as cubic
// Bezier runs, for targets without native arc support. Everything else
// passes through unchanged.
func SplitArcs(s Sink) Sink {
	return &arcSplitter{dst: s}
}

type arcSplitter struct {
	dst    Sink
	x, y   float32 // current point
	sx, sy float32 // subpath start
}

func (a *arcSplitter) MoveTo(x, y float32) {
	a.dst.MoveTo(x, y)
	a.x, a.y = x, y
	a.sx, a.sy = x, y
}

func (a *arcSplitter) LineTo(x, y float32) {
	a.dst.LineTo(x, y)
	a.x, a.y = x, y
}

func (a *arcSplitter) QuadTo(cx, cy, x, y float32) {
	a.dst.QuadTo(cx, cy, x, y)
	a.x, a.y = x, y
}

func (a *arcSplitter) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	a.dst.CubicTo(c1x, c1y, c2x, c2y, x, y)
	a.x, a.y = x, y
}

func (a *arcSplitter) ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32) {
	arcCubics(a.x, a.y, rx, ry, rotation, largeArc, sweep, x, y, a.dst)
	a.x, a.y = x, y
}

func (a *arcSplitter) Oval(cx, cy, rx, ry float32) {
	ovalCubics(cx, cy, rx, ry, a.dst)
	a.x, a.y = cx+rx, cy
	a.sx, a.sy = cx+rx, cy
}

func (a *arcSplitter) Close() {
	a.dst.Close()
	a.x, a.y = a.sx, a.sy
}

func (a *arcSplitter) End() {
	a.dst.End()
}

// correctRadii scales undersized arc radii up until the endpoints fit on
// the ellipse.
func correctRadii(x1, y1, rx, ry, rot, x2, y2 float32) (float32, float32) {
	sin, cos := math32.Sincos(rot)
	dx := (x1 - x2) / 2
	dy := (y1 - y2) / 2
	x1p := cos*dx + sin*dy
	y1p := -sin*dx + cos*dy
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math32.Sqrt(lambda)
		rx *= s
		ry *= s
	}
	return rx, ry
}

// arcCenter converts an endpoint-parameterized arc to center form,
// returning the ellipse center, the start angle and the signed sweep
// delta in radians.
func arcCenter(x1, y1, rx, ry, rot float32, large, sweep bool, x2, y2 float32) (cx, cy, theta, delta float32) {
	sin, cos := math32.Sincos(rot)
	dx := (x1 - x2) / 2
	dy := (y1 - y2) / 2
	x1p := cos*dx + sin*dy
	y1p := -sin*dx + cos*dy

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	var co float32
	if den != 0 && num > 0 {
		co = math32.Sqrt(num / den)
	}
	if large == sweep {
		co = -co
	}
	cxp := co * rx * y1p / ry
	cyp := -co * ry * x1p / rx
	cx = cos*cxp - sin*cyp + (x1+x2)/2
	cy = sin*cxp + cos*cyp + (y1+y2)/2

	theta = math32.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	end := math32.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta = end - theta
	if sweep && delta < 0 {
		delta += 2 * pi
	}
	if !sweep && delta > 0 {
		delta -= 2 * pi
	}
	return cx, cy, theta, delta
}

// arcCubics emits an endpoint arc as cubic segments of at most a
// quarter turn each.
func arcCubics(x1, y1, rx, ry, rot float32, large, sweep bool, x2, y2 float32, s Sink) {
	if x1 == x2 && y1 == y2 {
		return
	}
	if rx < 0 {
		rx = -rx
	}
	if ry < 0 {
		ry = -ry
	}
	if rx == 0 || ry == 0 {
		s.LineTo(x2, y2)
		return
	}
	rx, ry = correctRadii(x1, y1, rx, ry, rot, x2, y2)
	cx, cy, theta, delta := arcCenter(x1, y1, rx, ry, rot, large, sweep, x2, y2)

	n := int(math32.Ceil(math32.Abs(delta) / (pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float32(n)
	// Control point distance from "Drawing an elliptical arc using
	// polylines, quadratic or cubic Bezier curves". Affine-invariant, so
	// the unit-circle formula serves the rotated ellipse.
	t := math32.Tan(step / 2)
	alpha := math32.Sin(step) * (math32.Sqrt(4+3*t*t) - 1) / 3

	sinR, cosR := math32.Sincos(rot)
	point := func(a float32) (px, py, tx, ty float32) {
		sinA, cosA := math32.Sincos(a)
		px = cx + rx*cosA*cosR - ry*sinA*sinR
		py = cy + rx*cosA*sinR + ry*sinA*cosR
		tx = -rx*sinA*cosR - ry*cosA*sinR
		ty = -rx*sinA*sinR + ry*cosA*cosR
		return px, py, tx, ty
	}

	_, _, tx, ty := point(theta)
	px, py := x1, y1
	for i := 0; i < n; i++ {
		a2 := theta + float32(i+1)*step
		qx, qy, ux, uy := point(a2)
		if i == n-1 {
			qx, qy = x2, y2
		}
		s.CubicTo(px+alpha*tx, py+alpha*ty, qx-alpha*ux, qy-alpha*uy, qx, qy)
		px, py = qx, qy
		tx, ty = ux, uy
	}
}

// ovalCubics emits a full ellipse as a four-segment closed contour.
func ovalCubics(cx, cy, rx, ry float32, s Sink) {
	ox := rx * kappa
	oy := ry * kappa
	s.MoveTo(cx+rx, cy)
	s.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	s.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	s.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	s.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	s.Close()
}
