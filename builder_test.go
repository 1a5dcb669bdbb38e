package vg

import (
	"strings"
	"testing"
)

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want message containing %q", r, want)
		}
	}()
	fn()
}

func TestGrammarHappyPath(t *testing.T) {
	var g Grammar
	g.Init()
	g.Vector()
	g.Group()
	g.Leaf("Path")
	g.Masked()
	g.Leaf("Path")
	g.MaskedChild()
	g.Leaf("Image")
	g.EndMasked()
	g.ExportedID()
	g.Text()
	g.TextChunk()
	g.TextSpan()
	g.TextEnd()
	g.EndExportedID()
	g.EndGroup()
	g.EndVector()
	g.TraversalDone()
	if g.Err != nil {
		t.Fatalf("well-formed sequence reported %v", g.Err)
	}
}

func TestGrammarStrictPanics(t *testing.T) {
	tests := []struct {
		name string
		want string
		run  func(g *Grammar)
	}{
		{"init twice", "Init called twice", func(g *Grammar) {
			g.Init()
			g.Init()
		}},
		{"vector before init", "Vector before Init", func(g *Grammar) {
			g.Vector()
		}},
		{"leaf outside vector", "Path outside Vector..EndVector", func(g *Grammar) {
			g.Init()
			g.Leaf("Path")
		}},
		{"endgroup unmatched", "EndGroup without matching Group", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.EndGroup()
		}},
		{"endvector with open group", "EndVector with unclosed sections", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.Group()
			g.EndVector()
		}},
		{"maskedchild without mask", "MaskedChild without an open mask section", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.Group()
			g.MaskedChild()
		}},
		{"endmasked before child", "EndMasked before MaskedChild", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.Masked()
			g.EndMasked()
		}},
		{"span before chunk", "TextSpan before TextChunk", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.Text()
			g.TextSpan()
		}},
		{"leaf inside text", "Path inside an open Text", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.Text()
			g.TextChunk()
			g.Leaf("Path")
		}},
		{"done before endvector", "TraversalDone before EndVector", func(g *Grammar) {
			g.Init()
			g.Vector()
			g.TraversalDone()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grammar
			mustPanic(t, tt.want, func() { tt.run(&g) })
		})
	}
}

func TestGrammarLenientRecordsFirstError(t *testing.T) {
	g := Grammar{Lenient: true}
	g.Init()
	g.Vector()
	g.EndGroup() // first violation
	g.EndMasked()
	g.TextSpan()
	if g.Err == nil {
		t.Fatal("lenient grammar recorded no error")
	}
	if !strings.Contains(g.Err.Error(), "EndGroup without matching Group") {
		t.Errorf("Err = %v, want the first violation", g.Err)
	}
}

func TestGrammarLenientStopsAfterError(t *testing.T) {
	g := Grammar{Lenient: true}
	g.Init()
	g.EndVector()
	first := g.Err
	// Legal-looking calls after an error must not clear or replace it.
	g.Vector()
	g.TraversalDone()
	if g.Err != first {
		t.Errorf("Err changed after the first violation: %v", g.Err)
	}
}
