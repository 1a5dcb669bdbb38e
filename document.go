package vg

// Document is a parsed vector-graphics document: the raw node tree, the
// identity map used for reference resolution, and document-level
// attributes. Resolve turns the raw tree into the renderable form
// consumed by Build. A Document resolves at most once; after that the
// tree is immutable.
type Document struct {
	// Root is the tree root.
	Root *Group

	// Width and Height are the declared document size, nil when absent.
	// Resolve back-fills them from the geometry estimate.
	Width, Height *float32

	// ViewBox is the declared user-space rectangle, nil when absent.
	ViewBox *Rect

	// IDs maps element ids to nodes for reference resolution.
	IDs map[string]Node

	// Styles holds the parsed stylesheet rules.
	Styles Stylesheet

	// Tint composites over the finished artwork. The zero (inherit)
	// kind means no tint.
	Tint Color

	// TintMode selects how Tint composites.
	TintMode TintMode

	// CurrentColor seeds the currentColor value at the root. Useful for
	// documents recolored by an external theme.
	CurrentColor Color

	// userSpace is the user-space rectangle established by Resolve.
	userSpace Rect

	// gradients maps gradient ids to their chain-resolved, defaulted
	// specifications. Resolve fills it; Build instantiates from it.
	gradients map[string]*GradientSpec

	// warn is the diagnostic sink threaded through Resolve, kept so
	// Build reports through the same channel.
	warn Warn

	// resolved latches after Resolve; see Resolve.
	resolved bool
}

// Resolved reports whether Resolve has run.
func (d *Document) Resolved() bool { return d.resolved }

// UserSpace returns the user-space rectangle established by Resolve:
// the declared viewBox, the declared size, or the estimated geometry
// bounds, in that order of preference. Meaningful only after Resolve.
func (d *Document) UserSpace() Rect { return d.userSpace }

// Size returns the document size. After Resolve both dimensions are
// always known; before that, undeclared dimensions report zero.
func (d *Document) Size() (w, h float32) {
	if d.Width != nil {
		w = *d.Width
	}
	if d.Height != nil {
		h = *d.Height
	}
	return w, h
}

// RebuildIDs rebuilds the identity map by walking the tree. The first
// registration of an id wins; later duplicates warn and are ignored.
func (d *Document) RebuildIDs(warn Warn) {
	d.IDs = make(map[string]Node)
	if d.Root == nil {
		return
	}
	walkTree(d.Root, func(n Node) {
		id := n.Base().ID
		if id == "" {
			return
		}
		if _, ok := d.IDs[id]; ok {
			warn.Warnf("vg: duplicate id %q, keeping the first occurrence", id)
			return
		}
		d.IDs[id] = n
	})
}

// Clone deep-copies an unresolved document. Cloning a resolved document
// panics: resolved trees may share expanded subtrees and must be treated
// as immutable.
func (d *Document) Clone() *Document {
	if d.resolved {
		panic("vg: cannot clone a resolved document")
	}
	out := *d
	if d.Root != nil {
		out.Root = cloneNode(d.Root).(*Group)
	}
	out.IDs = nil
	out.RebuildIDs(nil)
	return &out
}

// walkTree visits n and every descendant in document order.
func walkTree(n Node, fn func(Node)) {
	fn(n)
	switch t := n.(type) {
	case *Group:
		for _, c := range t.Children {
			walkTree(c, fn)
		}
	case *Masked:
		walkTree(t.Child, fn)
		walkTree(t.Mask, fn)
	}
}

// cloneNode deep-copies the tree structure. Attribute pointers are shared
// between original and clone: the resolver never mutates them in place,
// it builds fresh records.
func cloneNode(n Node) Node {
	switch t := n.(type) {
	case *Group:
		out := *t
		out.Children = make([]Node, len(t.Children))
		for i, c := range t.Children {
			out.Children[i] = cloneNode(c)
		}
		return &out
	case *Masked:
		out := *t
		out.Child = cloneNode(t.Child)
		out.Mask = cloneNode(t.Mask).(*Group)
		return &out
	case *Use:
		out := *t
		return &out
	case *Path:
		out := *t
		return &out
	case *RectShape:
		out := *t
		return &out
	case *EllipseShape:
		out := *t
		return &out
	case *PolyShape:
		out := *t
		out.Points = append([]Point(nil), t.Points...)
		return &out
	case *GradientNode:
		out := *t
		return &out
	case *Image:
		out := *t
		return &out
	case *Text:
		out := *t
		out.Chunks = make([]TextChunk, len(t.Chunks))
		for i, c := range t.Chunks {
			cc := c
			cc.Spans = append([]TextSpan(nil), c.Spans...)
			out.Chunks[i] = cc
		}
		return &out
	default:
		panic("vg: unknown node type in clone")
	}
}
