// Package scene materializes a build traversal into a retained scene
// graph: a tree of draw, clip, mask, image and text nodes with resolved
// paints, ready for a renderer to walk. It is the in-memory counterpart
// of the si binary target; both implement vg.Builder and both can be
// reconstructed from the other through si.Decode.
package scene

import (
	"image"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/cache"
)

// Scene is a built document: the node tree plus document-level
// attributes and the bounding boxes of exported ids.
type Scene struct {
	// Width and Height are the document size in user units. Zero when
	// the source declared none and nothing was measurable.
	Width, Height float32

	// Tint composites over the finished artwork; ColorNone means no
	// tint.
	Tint vg.Color

	// TintMode selects how Tint composites.
	TintMode vg.TintMode

	// Root holds the top-level nodes in paint order.
	Root []Node

	// Exports maps exported ids to the user-space bounding box of the
	// content built under them.
	Exports map[string]vg.Rect
}

// Visitor visits scene nodes during Walk. Returning false skips the
// children of container nodes.
type Visitor func(Node) bool

// Walk visits every node depth-first in paint order.
func (s *Scene) Walk(v Visitor) {
	walkNodes(s.Root, v)
}

func walkNodes(nodes []Node, v Visitor) {
	for _, n := range nodes {
		if !v(n) {
			continue
		}
		switch t := n.(type) {
		case *Group:
			walkNodes(t.Children, v)
		case *MaskGroup:
			walkNodes(t.Mask, v)
			walkNodes(t.Child, v)
		}
	}
}

// Node is one element of a scene. The variant set is closed.
type Node interface {
	node()
}

// Group is a layer: a transform, an opacity and a blend mode applied to
// its children as a unit.
type Group struct {
	// Transform is the layer transform, nil for identity.
	Transform *vg.Affine

	// Alpha is the layer opacity 0..255, nil for fully opaque.
	Alpha *uint8

	// Blend composites the layer over what is below it.
	Blend vg.BlendMode

	// Children in paint order.
	Children []Node
}

func (*Group) node() {}

// Draw paints one path.
type Draw struct {
	// Path is the geometry.
	Path Path

	// Paint is the resolved fill and stroke style.
	Paint *vg.Paint
}

func (*Draw) node() {}

// Clip restricts the siblings following it in the same container to the
// given path.
type Clip struct {
	// Path is the clip geometry.
	Path Path

	// Rule determines the clip interior.
	Rule vg.FillRule
}

func (*Clip) node() {}

// MaskGroup composites Child through the coverage of Mask.
type MaskGroup struct {
	// Bounds is the precomputed user-space extent of the mask, nil when
	// unknown.
	Bounds *vg.Rect

	// LumaOnly selects luminance masking rather than alpha.
	LumaOnly bool

	// Mask is the coverage content.
	Mask []Node

	// Child is the content being masked.
	Child []Node
}

func (*MaskGroup) node() {}

// ImageNode places a raster image.
type ImageNode struct {
	// Data is the placement and encoded bytes.
	Data vg.ImageData
}

func (*ImageNode) node() {}

// decodedImages caches decoded pixels keyed by the encoded bytes, so an
// icon embedded in many documents (or deduplicated into several nodes of
// one scene) decodes once per process.
var decodedImages = cache.NewSharded[string, decodeResult](64, cache.StringHasher)

type decodeResult struct {
	img image.Image
	err error
}

// Decode decodes the encoded bytes, serving repeats from a process-wide
// cache. Safe for concurrent use.
func (n *ImageNode) Decode() (image.Image, error) {
	res := decodedImages.GetOrCreate(string(n.Data.Encoded), func() decodeResult {
		img, err := n.Data.Decode()
		return decodeResult{img: img, err: err}
	})
	return res.img, res.err
}

// TextNode places one or more anchored runs of styled text.
type TextNode struct {
	// Chunks in document order.
	Chunks []TextChunk
}

func (*TextNode) node() {}

// TextChunk is one anchored run.
type TextChunk struct {
	// X, Y anchor the chunk in user space.
	X, Y float32

	// Anchor aligns the shaped run to the position.
	Anchor vg.TextAnchor

	// Spans are the styled pieces, drawn consecutively.
	Spans []TextSpan
}

// TextSpan is one styled piece of a chunk. Font selection is exposed as
// a fontscan query so a renderer can resolve a concrete face; shaping
// itself happens downstream.
type TextSpan struct {
	// DX, DY shift the span relative to the pen position.
	DX, DY float32

	// Text is the run content.
	Text string

	// Query selects the font face.
	Query FontQuery

	// Size is the font size in user units.
	Size float32

	// Baseline selects the dominant baseline.
	Baseline vg.TextBaseline

	// Decoration draws a line with the text.
	Decoration vg.TextDecoration

	// Paint is the resolved span paint.
	Paint *vg.Paint
}
