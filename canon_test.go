package vg

import (
	"reflect"
	"strings"
	"testing"

	"github.com/chewxy/math32"
)

func TestCanonInternDedup(t *testing.T) {
	c := NewCanon()

	if i := c.InternFloat(1.5); i != 0 {
		t.Errorf("first float index = %d, want 0", i)
	}
	if i := c.InternFloat(2.5); i != 1 {
		t.Errorf("second float index = %d, want 1", i)
	}
	if i := c.InternFloat(1.5); i != 0 {
		t.Errorf("repeat float index = %d, want 0", i)
	}

	if i := c.InternString("sans-serif"); i != 0 {
		t.Errorf("first string index = %d, want 0", i)
	}
	if i := c.InternString("sans-serif"); i != 0 {
		t.Errorf("repeat string index = %d, want 0", i)
	}
}

func TestCanonInsertionOrder(t *testing.T) {
	c := NewCanon()
	for _, v := range []float32{3, 1, 2, 1, 3} {
		c.InternFloat(v)
	}
	got := c.Floats()
	want := []float32{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("Floats() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Floats()[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestCanonStringList(t *testing.T) {
	c := NewCanon()
	i := c.InternStringList([]string{"Menlo", "monospace"})
	if i != 0 {
		t.Fatalf("list index = %d, want 0", i)
	}
	// Members intern individually.
	if got := c.InternString("Menlo"); got != 0 {
		t.Errorf("member index = %d, want 0", got)
	}
	if got := c.InternString("monospace"); got != 1 {
		t.Errorf("member index = %d, want 1", got)
	}
	// The same list dedups; a distinct list appends.
	if got := c.InternStringList([]string{"Menlo", "monospace"}); got != 0 {
		t.Errorf("repeat list index = %d, want 0", got)
	}
	if got := c.InternStringList([]string{"monospace"}); got != 1 {
		t.Errorf("new list index = %d, want 1", got)
	}
	if got := strings.Join(c.StringListAt(0), "/"); got != "Menlo/monospace" {
		t.Errorf("StringListAt(0) = %q", got)
	}
}

func TestCanonFrozenMissPanics(t *testing.T) {
	c := NewCanon()
	c.InternFloat(1)
	c.Freeze()
	if !c.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	// Known values still resolve.
	if i := c.InternFloat(1); i != 0 {
		t.Errorf("frozen lookup = %d, want 0", i)
	}
	defer func() {
		if recover() == nil {
			t.Error("interning an unseen value after Freeze did not panic")
		}
	}()
	c.InternFloat(2)
}

func TestCanonNaNPanics(t *testing.T) {
	c := NewCanon()
	defer func() {
		if recover() == nil {
			t.Error("InternFloat(NaN) did not panic")
		}
	}()
	c.InternFloat(math32.NaN())
}

func TestCanonAccessors(t *testing.T) {
	c := NewCanon()
	c.InternString("a")
	c.InternFloat(4.25)
	img := ImageData{Width: 2, Height: 2, Encoded: []byte{1, 2, 3}}
	ii := c.InternImage(img)

	if got := c.StringAt(0); got != "a" {
		t.Errorf("StringAt(0) = %q", got)
	}
	if got := c.FloatAt(0); got != 4.25 {
		t.Errorf("FloatAt(0) = %g", got)
	}
	if got := c.ImageAt(ii); string(got.Encoded) != "\x01\x02\x03" {
		t.Errorf("ImageAt(%d).Encoded = %v", ii, got.Encoded)
	}
	// Same placement and bytes dedup; different placement does not.
	if got := c.InternImage(img); got != ii {
		t.Errorf("repeat image index = %d, want %d", got, ii)
	}
	moved := img
	moved.X = 10
	if got := c.InternImage(moved); got == ii {
		t.Error("image with different placement shared an index")
	}
}

// Canonicalizing the same document twice must yield identical tables:
// the build protocol's indices are only meaningful if interning is a
// pure function of the traversal.
func TestCanonTablesRepeatable(t *testing.T) {
	build := func() *Canon {
		leaf := testRect("tag", 1, 2, 30, 20)
		leaf.Exported = true
		leaf.Paint.StrokeWidth = ptr(float32(2.5))
		txt := &Text{
			NodeBase: NodeBase{Display: true},
			Chunks: []TextChunk{{
				X: 5, Y: 10,
				Spans: []TextSpan{{Text: "hello"}, {Text: "world", DX: 1}},
			}},
		}
		doc := &Document{Root: testGroup(GroupRoot, leaf, txt)}
		return buildLog(t, doc, false).canon
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a.Floats(), b.Floats()) {
		t.Errorf("float tables diverged:\n%v\n%v", a.Floats(), b.Floats())
	}
	if !reflect.DeepEqual(a.Strings(), b.Strings()) {
		t.Errorf("string tables diverged:\n%q\n%q", a.Strings(), b.Strings())
	}
	if !reflect.DeepEqual(a.StringLists(), b.StringLists()) {
		t.Errorf("string list tables diverged:\n%q\n%q", a.StringLists(), b.StringLists())
	}
	if !reflect.DeepEqual(a.Images(), b.Images()) {
		t.Errorf("image tables diverged")
	}
}
