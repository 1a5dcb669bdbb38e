package vg

import (
	"testing"

	"github.com/chewxy/math32"
)

func chainLookup(specs map[string]*GradientSpec) func(string) *GradientSpec {
	return func(id string) *GradientSpec { return specs[id] }
}

func TestGradientChainMerge(t *testing.T) {
	stops := []GradientStop{{Offset: 0, Color: RGB(0xFF0000), Opacity: 1}}
	specs := map[string]*GradientSpec{
		"base": {Kind: GradientLinear, Stops: stops, X1: Val(10)},
		"leaf": {Kind: GradientLinear, Parent: "base", X2: Val(90)},
	}
	got := resolveGradientChain("leaf", chainLookup(specs), nil)
	if got == nil {
		t.Fatal("chain resolution returned nil")
	}
	if len(got.Stops) != 1 {
		t.Error("stops did not inherit from the parent")
	}
	if !got.X1.IsSet || got.X1.Value != 10 {
		t.Errorf("X1 = %+v, want inherited 10", got.X1)
	}
	if got.X2.Value != 90 {
		t.Errorf("X2 = %+v, child value must win", got.X2)
	}
	if got.Parent != "" {
		t.Error("resolved spec still carries a parent link")
	}
}

func TestGradientChainSkipsOtherKinds(t *testing.T) {
	specs := map[string]*GradientSpec{
		"rad":  {Kind: GradientRadial, Parent: "lin", R: Val(7)},
		"lin":  {Kind: GradientLinear, Parent: "rad2", X1: Val(3)},
		"rad2": {Kind: GradientRadial, CX: Val(42)},
	}
	got := resolveGradientChain("rad", chainLookup(specs), nil)
	// The linear link contributes nothing, but the walk continues to the
	// radial grandparent.
	if got.CX.Value != 42 {
		t.Errorf("CX = %+v, want 42 from the grandparent", got.CX)
	}
	if got.R.Value != 7 {
		t.Errorf("R = %+v", got.R)
	}
}

func TestGradientChainCycleAndDangling(t *testing.T) {
	var warnings []string
	warn := Warn(func(msg string) { warnings = append(warnings, msg) })

	cyc := map[string]*GradientSpec{
		"a": {Kind: GradientLinear, Parent: "b"},
		"b": {Kind: GradientLinear, Parent: "a"},
	}
	if got := resolveGradientChain("a", chainLookup(cyc), warn); got == nil {
		t.Error("a cyclic chain should still resolve the reachable prefix")
	}
	if !hasWarning(warnings, "cycle") {
		t.Errorf("warnings = %v, want a cycle warning", warnings)
	}

	warnings = nil
	dangling := map[string]*GradientSpec{
		"a": {Kind: GradientLinear, Parent: "ghost"},
	}
	if got := resolveGradientChain("a", chainLookup(dangling), warn); got == nil {
		t.Error("a dangling parent should not discard the gradient")
	}
	if !hasWarning(warnings, `parent "ghost" not found`) {
		t.Errorf("warnings = %v", warnings)
	}

	if got := resolveGradientChain("nope", chainLookup(nil), warn); got != nil {
		t.Error("an unknown id must resolve to nil")
	}
}

func TestGradientDefaults(t *testing.T) {
	lin := resolveGradientChain("g", chainLookup(map[string]*GradientSpec{
		"g": {Kind: GradientLinear},
	}), nil)
	if lin.X2 != Frac(1) || lin.Y2 != Frac(0) {
		t.Errorf("linear defaults = %+v/%+v, want a horizontal unit run", lin.X2, lin.Y2)
	}
	if *lin.Spread != SpreadPad || *lin.UserSpace != false {
		t.Error("spread/userSpace defaults wrong")
	}
	if lin.Transform == nil || !lin.Transform.IsIdentity() {
		t.Error("transform default is not identity")
	}

	rad := resolveGradientChain("g", chainLookup(map[string]*GradientSpec{
		"g": {Kind: GradientRadial, CX: Val(3)},
	}), nil)
	if rad.R != Frac(0.5) {
		t.Errorf("radial radius default = %+v", rad.R)
	}
	// The focal point mirrors the (possibly explicit) center.
	if rad.FX != Val(3) || rad.FY != Frac(0.5) {
		t.Errorf("focal defaults = %+v/%+v", rad.FX, rad.FY)
	}

	swp := resolveGradientChain("g", chainLookup(map[string]*GradientSpec{
		"g": {Kind: GradientSweep, StartAngle: Val(1)},
	}), nil)
	if !nearf(swp.EndAngle.Value, 1+2*math32.Pi) {
		t.Errorf("sweep end angle = %g, want a full turn past the start", swp.EndAngle.Value)
	}
}

func TestFlattenStopsOrderingAndColors(t *testing.T) {
	stops := flattenStops([]GradientStop{
		{Offset: 0.8, Color: RGB(0x111111), Opacity: 1},
		{Offset: 0.2, Color: CurrentColor(), Opacity: 1},
		{Offset: 2.0, Color: NoPaint(), Opacity: 0.5},
	}, RGB(0x00FF00), nil)

	if len(stops) != 3 {
		t.Fatalf("got %d stops", len(stops))
	}
	// Offsets clamp to [0,1] and never decrease.
	if stops[1].Offset != 0.8 {
		t.Errorf("out-of-order offset = %g, want clamped to 0.8", stops[1].Offset)
	}
	if stops[2].Offset != 1 {
		t.Errorf("overshoot offset = %g, want 1", stops[2].Offset)
	}
	if stops[1].ARGB != 0xFF00FF00 {
		t.Errorf("currentColor stop = %08x", stops[1].ARGB)
	}
	if stops[2].ARGB != 0 {
		t.Errorf("none stop = %08x, want fully transparent", stops[2].ARGB)
	}
}

func TestGradientInstantiateUserSpace(t *testing.T) {
	spec := resolveGradientChain("g", chainLookup(map[string]*GradientSpec{
		"g": {
			Kind:      GradientLinear,
			X1:        Frac(0),
			Y1:        Frac(0),
			X2:        Frac(1),
			Y2:        Frac(0.5),
			UserSpace: ptr(true),
			Stops:     []GradientStop{{Color: RGB(0xFFFFFF), Opacity: 1}},
		},
	}), nil)
	us := Rect{X: 10, Y: 20, Width: 100, Height: 40}
	g := spec.instantiate(Rect{}, func() Rect { return us }, Color{}, nil)
	if g == nil {
		t.Fatal("instantiate returned nil")
	}
	want := []float32{10, 20, 110, 40}
	for i, v := range want {
		if !nearf(g.Coords[i], v) {
			t.Errorf("Coords[%d] = %g, want %g", i, g.Coords[i], v)
		}
	}
	if !g.Transform.IsIdentity() {
		t.Error("user-space gradients must not pick up a box transform")
	}
}

func TestGradientInstantiateNoStops(t *testing.T) {
	spec := resolveGradientChain("g", chainLookup(map[string]*GradientSpec{
		"g": {Kind: GradientLinear},
	}), nil)
	if g := spec.instantiate(Rect{Width: 1, Height: 1}, nil, Color{}, nil); g != nil {
		t.Error("a gradient without stops must instantiate to nil")
	}
}
