package pathdata

// RectPath returns path data for a rectangle, rounded when rx and ry
// are positive. The radii are taken as already clamped to the
// rectangle's half-extents.
func RectPath(x, y, w, h, rx, ry float32) string {
	var pw Writer
	if rx <= 0 || ry <= 0 {
		pw.MoveTo(x, y)
		pw.LineTo(x+w, y)
		pw.LineTo(x+w, y+h)
		pw.LineTo(x, y+h)
		pw.Close()
		return pw.String()
	}
	pw.MoveTo(x+rx, y)
	pw.LineTo(x+w-rx, y)
	pw.ArcTo(rx, ry, 0, false, true, x+w, y+ry)
	pw.LineTo(x+w, y+h-ry)
	pw.ArcTo(rx, ry, 0, false, true, x+w-rx, y+h)
	pw.LineTo(x+rx, y+h)
	pw.ArcTo(rx, ry, 0, false, true, x, y+h-ry)
	pw.LineTo(x, y+ry)
	pw.ArcTo(rx, ry, 0, false, true, x+rx, y)
	pw.Close()
	return pw.String()
}

// EllipsePath returns path data for a full ellipse as a four-segment
// cubic contour.
func EllipsePath(cx, cy, rx, ry float32) string {
	var pw Writer
	ovalCubics(cx, cy, rx, ry, &pw)
	return pw.String()
}

// PolyPath returns path data for a polyline over flattened x,y pairs,
// closed into a polygon when closed is set. Fewer than two pairs yield
// an empty string.
func PolyPath(coords []float32, closed bool) string {
	if len(coords) < 4 {
		return ""
	}
	var pw Writer
	pw.MoveTo(coords[0], coords[1])
	for i := 2; i+1 < len(coords); i += 2 {
		pw.LineTo(coords[i], coords[i+1])
	}
	if closed {
		pw.Close()
	}
	return pw.String()
}
