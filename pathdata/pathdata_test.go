package pathdata

import (
	"fmt"
	"strings"
	"testing"
)

// sinkLog records verbs as compact strings for comparison.
type sinkLog struct {
	ops []string
}

func (l *sinkLog) op(format string, args ...any) {
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}

func (l *sinkLog) MoveTo(x, y float32)              { l.op("M%g,%g", x, y) }
func (l *sinkLog) LineTo(x, y float32)              { l.op("L%g,%g", x, y) }
func (l *sinkLog) QuadTo(cx, cy, x, y float32)      { l.op("Q%g,%g,%g,%g", cx, cy, x, y) }
func (l *sinkLog) CubicTo(a, b, c, d, x, y float32) { l.op("C%g,%g,%g,%g,%g,%g", a, b, c, d, x, y) }
func (l *sinkLog) ArcTo(rx, ry, rot float32, large, sweep bool, x, y float32) {
	l.op("A%g,%g,%g,%v,%v,%g,%g", rx, ry, rot, large, sweep, x, y)
}
func (l *sinkLog) Oval(cx, cy, rx, ry float32) { l.op("O%g,%g,%g,%g", cx, cy, rx, ry) }
func (l *sinkLog) Close()                      { l.op("Z") }
func (l *sinkLog) End()                        { l.op("end") }

func (l *sinkLog) String() string { return strings.Join(l.ops, " ") }

func parseLog(t *testing.T, data string) string {
	t.Helper()
	var l sinkLog
	if err := Parse(data, &l); err != nil {
		t.Fatalf("Parse(%q): %v", data, err)
	}
	return l.String()
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"absolute", "M0 0L10 0 10 10Z", "M0,0 L10,0 L10,10 Z"},
		{"relative", "m10 10l5 0v5h-5z", "M10,10 L15,10 L15,15 L10,15 Z"},
		{"implicit relative lineto", "m1 1 2 2", "M1,1 L3,3"},
		{"horizontal vertical", "M1 2H5V6", "M1,2 L5,2 L5,6"},
		{"cubic", "M0 0C0 10 10 10 10 0", "M0,0 C0,10,10,10,10,0"},
		{"quadratic", "M0 0Q5 10 10 0", "M0,0 Q5,10,10,0"},
		{"compact numbers", "M.5.5L-1-2", "M0.5,0.5 L-1,-2"},
		{"exponent", "M1e1 2E0", "M10,2"},
		{"comma separators", "M 0,0 L 10,10", "M0,0 L10,10"},
		{"close resets current point", "M10 10 20 10Zl5 5", "M10,10 L20,10 Z L15,15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLog(t, tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_SmoothShorthands(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			"smooth cubic reflects",
			"M0 0C0 10 10 10 10 0S20 -10 20 0",
			"M0,0 C0,10,10,10,10,0 C10,-10,20,-10,20,0",
		},
		{
			"smooth cubic after non-curve",
			"M0 0S10 10 20 20",
			"M0,0 C0,0,10,10,20,20",
		},
		{
			"smooth quad reflects",
			"M0 0Q5 10 10 0T20 0",
			"M0,0 Q5,10,10,0 Q15,-10,20,0",
		},
		{
			"smooth quad after non-curve",
			"M0 0T10 0",
			"M0,0 Q0,0,10,0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLog(t, tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Arcs(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			"unseparated flags",
			"M0 0a1 1 0 011 0",
			"M0,0 A1,1,0,false,true,1,0",
		},
		{
			"zero radius degrades to line",
			"M0 0A0 5 0 0 1 10 0",
			"M0,0 L10,0",
		},
		{
			"negative radii are absolute",
			"M0 0A-5 -5 0 0 1 10 0",
			"M0,0 A5,5,0,false,true,10,0",
		},
		{
			"same endpoint is dropped",
			"M3 4A5 5 0 0 1 3 4L6 8",
			"M3,4 L6,8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLog(t, tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_UndersizedRadiiScaleUp(t *testing.T) {
	// Endpoints 10 apart cannot sit on a radius-2 circle; the radii
	// scale up to half the chord.
	var l sinkLog
	if err := Parse("M0 0A2 2 0 0 1 10 0", &l); err != nil {
		t.Fatal(err)
	}
	if len(l.ops) != 2 || !strings.HasPrefix(l.ops[1], "A5,5,") {
		t.Errorf("expected radii scaled to 5, got %q", l.String())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no leading command", "10 10"},
		{"missing coordinate", "M5"},
		{"coordinates after close", "M0 0Z5 5"},
		{"bad arc flag", "M0 0A1 1 0 2 1 5 5"},
		{"bare sign", "M+ 5"},
		{"malformed exponent", "M1e 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l sinkLog
			err := Parse(tt.data, &l)
			if err == nil {
				t.Fatalf("Parse(%q): expected error, got %q", tt.data, l.String())
			}
			if !strings.Contains(err.Error(), "at byte") {
				t.Errorf("error %q does not name the byte offset", err)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	var l sinkLog
	if err := Parse("  \n ", &l); err != nil {
		t.Fatalf("whitespace-only input: %v", err)
	}
	if len(l.ops) != 0 {
		t.Errorf("expected no verbs, got %q", l.String())
	}
}

func TestSplitArcs_Semicircle(t *testing.T) {
	// The chord equals the diameter, so the arc is a half turn: two
	// quarter-turn cubics.
	var l sinkLog
	if err := Parse("M0 0A5 5 0 0 1 10 0", SplitArcs(&l)); err != nil {
		t.Fatal(err)
	}
	if len(l.ops) != 3 {
		t.Fatalf("expected M plus 2 cubics, got %q", l.String())
	}
	for _, op := range l.ops[1:] {
		if !strings.HasPrefix(op, "C") {
			t.Errorf("expected cubic, got %q", op)
		}
	}
	last := l.ops[len(l.ops)-1]
	if !strings.HasSuffix(last, ",10,0") {
		t.Errorf("expected final cubic to land on 10,0, got %q", last)
	}
}

func TestSplitArcs_PassThrough(t *testing.T) {
	var l sinkLog
	s := SplitArcs(&l)
	s.MoveTo(1, 2)
	s.QuadTo(3, 4, 5, 6)
	s.Close()
	s.End()
	want := "M1,2 Q3,4,5,6 Z end"
	if got := l.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplitArcs_Oval(t *testing.T) {
	var l sinkLog
	SplitArcs(&l).Oval(10, 10, 5, 3)
	if len(l.ops) != 6 {
		t.Fatalf("expected M, 4 cubics and Z, got %q", l.String())
	}
	if l.ops[0] != "M15,10" {
		t.Errorf("oval contour starts at %q, want M15,10", l.ops[0])
	}
	if l.ops[5] != "Z" {
		t.Errorf("oval contour must close, got %q", l.ops[5])
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name                   string
		data                   string
		minX, minY, maxX, maxY float32
	}{
		{"line", "M0 0L10 5", 0, 0, 10, 5},
		{"cubic hull includes controls", "M0 0C20 30 30 30 40 5", 0, 0, 40, 30},
		{"negative coordinates", "M-5 -5L5 5", -5, -5, 5, 5},
		{"empty", "", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minX, minY, maxX, maxY, err := Bounds(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			if minX != tt.minX || minY != tt.minY || maxX != tt.maxX || maxY != tt.maxY {
				t.Errorf("got (%g,%g)-(%g,%g), want (%g,%g)-(%g,%g)",
					minX, minY, maxX, maxY, tt.minX, tt.minY, tt.maxX, tt.maxY)
			}
		})
	}
}

func TestBounds_ArcCoversBulge(t *testing.T) {
	// A semicircle over y=0 must push one vertical extent past the
	// endpoints.
	minX, minY, maxX, maxY, err := Bounds("M0 0A5 5 0 0 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	if minX > 0 || maxX < 10 {
		t.Errorf("hull (%g..%g) must cover both endpoints", minX, maxX)
	}
	if maxY-minY < 4.9 {
		t.Errorf("hull height %g too small for a radius-5 semicircle", maxY-minY)
	}
}

func TestBounds_Error(t *testing.T) {
	if _, _, _, _, err := Bounds("M0 0L"); err == nil {
		t.Fatal("expected error for truncated data")
	}
}
