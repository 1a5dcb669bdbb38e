package pathdata

import (
	"strings"
	"testing"
)

func TestRectPath_Plain(t *testing.T) {
	got := parseLog(t, RectPath(0, 0, 10, 5, 0, 0))
	want := "M0,0 L10,0 L10,5 L0,5 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRectPath_Rounded(t *testing.T) {
	var l sinkLog
	if err := Parse(RectPath(0, 0, 20, 10, 2, 3), &l); err != nil {
		t.Fatal(err)
	}
	shape := make([]byte, len(l.ops))
	for i, op := range l.ops {
		shape[i] = op[0]
	}
	if string(shape) != "MLALALALAZ" {
		t.Fatalf("unexpected verb sequence %q in %q", shape, l.String())
	}
	for _, op := range l.ops {
		if op[0] == 'A' && !strings.HasPrefix(op, "A2,3,0,false,true,") {
			t.Errorf("corner arc %q should carry radii 2,3 with a small sweep", op)
		}
	}
}

func TestEllipsePath(t *testing.T) {
	var l sinkLog
	if err := Parse(EllipsePath(10, 10, 5, 3), &l); err != nil {
		t.Fatal(err)
	}
	if len(l.ops) != 6 {
		t.Fatalf("expected M, 4 cubics and Z, got %q", l.String())
	}
	if l.ops[0] != "M15,10" {
		t.Errorf("contour starts at %q, want M15,10", l.ops[0])
	}
	for _, op := range l.ops[1:5] {
		if op[0] != 'C' {
			t.Errorf("expected cubic, got %q", op)
		}
	}
}

func TestPolyPath(t *testing.T) {
	tests := []struct {
		name   string
		coords []float32
		closed bool
		want   string
	}{
		{"polygon", []float32{0, 0, 10, 0, 5, 8}, true, "M0,0 L10,0 L5,8 Z"},
		{"polyline", []float32{0, 0, 10, 0, 5, 8}, false, "M0,0 L10,0 L5,8"},
		{"single point", []float32{3, 4}, true, ""},
		{"empty", nil, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := PolyPath(tt.coords, tt.closed)
			if tt.want == "" {
				if data != "" {
					t.Errorf("expected empty data, got %q", data)
				}
				return
			}
			if got := parseLog(t, data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_Output(t *testing.T) {
	var w Writer
	w.MoveTo(1, 2)
	w.LineTo(3, 4)
	w.QuadTo(1, 1, 2, 2)
	w.Close()
	want := "M1 2L3 4Q1 1 2 2Z"
	if got := w.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_ArcFlagsStaySeparated(t *testing.T) {
	// The x coordinate starting with 1 must not fuse with the sweep
	// flag.
	var w Writer
	w.MoveTo(0, 0)
	w.ArcTo(1, 1, 0, false, true, 11, 0)
	got := parseLog(t, w.String())
	want := "M0,0 A1,1,0,false,true,11,0"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	var w Writer
	w.MoveTo(1, 2)
	w.CubicTo(1, 3, 4, 3, 4, 2)
	w.LineTo(-5, 0.5)
	w.ArcTo(3, 2, 0, true, false, 0, 0)
	w.Close()
	w.End()

	got := parseLog(t, w.String())
	want := "M1,2 C1,3,4,3,4,2 L-5,0.5 A3,2,0,true,false,0,0 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_Reset(t *testing.T) {
	var w Writer
	w.MoveTo(1, 1)
	w.Reset()
	w.LineTo(2, 2)
	if got := w.String(); got != "L2 2" {
		t.Errorf("got %q after reset", got)
	}
}
