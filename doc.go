// Package vg resolves parsed vector-graphics documents and builds
// renderable representations from them.
//
// # Overview
//
// vg is the middle of a vector-graphics pipeline: a front end (vg/svg or
// vg/avd) parses markup into a raw node tree, vg resolves that tree
// (attribute inheritance, use/mask/gradient reference expansion, stylesheet
// application, pruning), and a builder target turns the resolved tree into
// something renderable: an in-memory scene graph (vg/scene) or a compact
// binary stream (vg/si).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vg"
//	    "github.com/gogpu/vg/scene"
//	    "github.com/gogpu/vg/svg"
//	)
//
//	doc, err := svg.ParseString(markup, svg.Options{})
//	if err != nil {
//	    return err
//	}
//	doc.Resolve(nil)
//	sb := scene.NewBuilder()
//	vg.Build(doc, sb)
//	sc := sb.Scene()
//
// # Architecture
//
// The library is organized into:
//   - Document model: Document, Node variants, PaintAttrs, TextAttrs,
//     GradientSpec
//   - Resolution: Document.Resolve (cascade, references, stylesheets,
//     pruning)
//   - Building: Build runs a dry-run pass that interns shared values into
//     canonical tables, then replays the identical traversal against the
//     real target
//   - Targets: vg/scene (retained scene graph), vg/si (compact binary)
//   - Front ends: vg/svg, vg/avd
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// # Errors and Warnings
//
// Malformed document data (dangling references, cycles, bad attribute
// values) produces warnings through a [Warn] sink and degrades gracefully;
// it never aborts a document. Misuse of the engine itself (resolving twice,
// builder calls out of order, canonical table misses) panics.
package vg

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
