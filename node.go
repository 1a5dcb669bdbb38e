package vg

// Node is one element of a document tree. The set of implementations is
// closed: the resolver and the build traversal switch exhaustively over
// the concrete types in this package.
type Node interface {
	// Base returns the node's common attribute record.
	Base() *NodeBase

	// node restricts implementations to this package.
	node()
}

// NodeBase is the attribute record shared by every node variant.
type NodeBase struct {
	// ID is the element id, "" when absent.
	ID string

	// Exported marks the id for bounding-box export.
	Exported bool

	// Class is the style-class attribute for stylesheet matching,
	// holding whitespace-separated tokens.
	Class string

	// Display is the structural visibility flag. A node with Display
	// false resolves to nothing, subtree included. Front ends set it
	// true on every node they produce; a stylesheet rule may clear it.
	Display bool

	// Transform is the local transform, nil when absent.
	Transform *Affine

	// Alpha is the group opacity 0..255, nil when fully opaque.
	Alpha *uint8

	// Blend is the layer blend mode. The zero value is BlendNormal.
	Blend BlendMode

	// Paint holds the node's paint attribute overrides.
	Paint PaintAttrs

	// Text holds the node's text attribute overrides.
	Text TextAttrs
}

// Base returns the node's common attribute record.
func (b *NodeBase) Base() *NodeBase { return b }

func (*NodeBase) node() {}

// hasLayerAttrs reports whether the node carries attributes that need a
// group bracket of its own: a transform, an alpha layer or a non-normal
// blend.
func (b *NodeBase) hasLayerAttrs() bool {
	return (b.Transform != nil && !b.Transform.IsIdentity()) ||
		b.Alpha != nil ||
		b.Blend != BlendNormal
}

// GroupKind distinguishes structural group flavors.
type GroupKind uint32

const (
	// GroupPlain is an ordinary container.
	GroupPlain GroupKind = iota
	// GroupRoot is the document root.
	GroupRoot
	// GroupSymbol is a reusable template instantiated by Use.
	GroupSymbol
	// GroupDefs holds referenced definitions and renders nothing.
	GroupDefs
	// GroupMask supplies mask geometry and renders nothing directly.
	GroupMask
	// GroupClip supplies clip geometry and renders nothing directly.
	GroupClip
)

// String returns a human-readable name for the group kind.
func (k GroupKind) String() string {
	switch k {
	case GroupPlain:
		return "Plain"
	case GroupRoot:
		return "Root"
	case GroupSymbol:
		return "Symbol"
	case GroupDefs:
		return "Defs"
	case GroupMask:
		return "Mask"
	case GroupClip:
		return "Clip"
	default:
		return "Unknown"
	}
}

// Group is a container node.
type Group struct {
	NodeBase

	// Kind distinguishes structural group flavors.
	Kind GroupKind

	// Children in document order.
	Children []Node

	// Width and Height are the natural size. Meaningful for Root and
	// Symbol groups.
	Width, Height *float32

	// LumaOnly selects luminance masking. Meaningful for Mask groups;
	// SVG masks default to true, Android drawables use false.
	LumaOnly bool

	// MaskRect is the declared mask region, nil when absent. Meaningful
	// for Mask groups.
	MaskRect *Rect
}

// Masked pairs content with a mask. It is synthetic: the resolver
// produces it, front ends never do.
type Masked struct {
	NodeBase

	// Child is the masked content.
	Child Node

	// Mask supplies the mask geometry.
	Mask *Group

	// Bounds is the declared mask region, nil when unknown.
	Bounds *Rect

	// LumaOnly selects luminance masking.
	LumaOnly bool
}

// Use references another node by id for reuse at this position.
type Use struct {
	NodeBase

	// Href is the referenced id.
	Href string

	// Width and Height instantiate symbol templates at an explicit
	// size. Nil leaves the template's natural size.
	Width, Height *float32
}

// Path is a freeform path leaf in the compact path syntax.
type Path struct {
	NodeBase

	// Data is the path data string.
	Data string
}

// RectShape is an axis-aligned rectangle leaf, optionally rounded.
type RectShape struct {
	NodeBase

	// X, Y, W, H place the rectangle.
	X, Y, W, H float32

	// RX and RY are the corner radii. A nil radius mirrors the other
	// one; both nil means sharp corners. Values are capped at half the
	// corresponding extent.
	RX, RY *float32
}

// EllipseShape is an ellipse or circle leaf.
type EllipseShape struct {
	NodeBase

	// CX, CY is the center.
	CX, CY float32

	// RX, RY are the radii. Equal for circles.
	RX, RY float32

	// IsCircle records that the source declared a single radius.
	IsCircle bool
}

// PolyShape is a polygon or polyline leaf.
type PolyShape struct {
	NodeBase

	// Points are the vertices in order.
	Points []Point

	// Closed distinguishes polygon (true) from polyline.
	Closed bool
}

// GradientNode is a gradient definition: color-producing, referenced by
// id from paint colors, never rendered itself.
type GradientNode struct {
	NodeBase

	// Grad is the definition payload.
	Grad GradientSpec
}

// Image is an embedded raster image leaf.
type Image struct {
	NodeBase

	// Data is the placement and encoded bytes.
	Data ImageData
}

// Text is a text leaf holding one or more positioned chunks.
type Text struct {
	NodeBase

	// Chunks are independently anchored runs.
	Chunks []TextChunk
}
