package si

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/pathdata"
)

// EncodeOptions configures an Encoder.
type EncodeOptions struct {
	// BigFloats stores floats as 64-bit values. The in-memory model is
	// float32 either way; the wide form exists for streams that will be
	// post-processed at higher precision.
	BigFloats bool
}

// Encoder serializes a build traversal into the compact binary format.
// It implements vg.Builder: pass it to vg.Build.
//
// Write errors latch: the first error sticks, further calls become
// no-ops, and Err (or Close) reports it. Builder-protocol violations
// panic, as for every builder.
type Encoder struct {
	w     *bufio.Writer
	canon *vg.Canon
	opts  EncodeOptions
	g     vg.Grammar
	err   error
	sink  pathSink
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer, opts EncodeOptions) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), opts: opts}
}

// Err returns the first write error, or nil.
func (e *Encoder) Err() error { return e.err }

// Close flushes buffered output and returns the first error from the
// whole encode.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}

// fail latches the first write error.
func (e *Encoder) fail(err error) {
	if e.err == nil && err != nil {
		e.err = fmt.Errorf("si: %w", err)
	}
}

func (e *Encoder) byte(b uint8) {
	if e.err != nil {
		return
	}
	e.fail(e.w.WriteByte(b))
}

func (e *Encoder) varint(v uint64) {
	if e.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := e.w.Write(buf[:n])
	e.fail(err)
}

func (e *Encoder) index(i int32) { e.varint(uint64(uint32(i))) }

func (e *Encoder) u32(v uint32) {
	if e.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := e.w.Write(buf[:])
	e.fail(err)
}

func (e *Encoder) float(v float32) {
	if e.err != nil {
		return
	}
	if e.opts.BigFloats {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
		_, err := e.w.Write(buf[:])
		e.fail(err)
		return
	}
	e.u32(math.Float32bits(v))
}

func (e *Encoder) bytes(b []byte) {
	if e.err != nil {
		return
	}
	e.varint(uint64(len(b)))
	if e.err == nil {
		_, err := e.w.Write(b)
		e.fail(err)
	}
}

func (e *Encoder) str(s string) {
	if e.err != nil {
		return
	}
	e.varint(uint64(len(s)))
	if e.err == nil {
		_, err := e.w.WriteString(s)
		e.fail(err)
	}
}

// Init writes the header and the canonical tables.
func (e *Encoder) Init(c *vg.Canon) {
	e.g.Init()
	e.canon = c

	if e.err != nil {
		return
	}
	var hdr [6]byte
	binary.BigEndian.PutUint32(hdr[:4], Magic)
	hdr[4] = Version
	if e.opts.BigFloats {
		hdr[5] |= flagBigFloats
	}
	_, err := e.w.Write(hdr[:])
	e.fail(err)

	images := c.Images()
	e.varint(uint64(len(images)))
	for _, img := range images {
		e.float(img.X)
		e.float(img.Y)
		e.float(img.Width)
		e.float(img.Height)
		e.bytes(img.Encoded)
	}

	strs := c.Strings()
	e.varint(uint64(len(strs)))
	for _, s := range strs {
		e.str(s)
	}

	lists := c.StringLists()
	e.varint(uint64(len(lists)))
	for _, l := range lists {
		e.varint(uint64(len(l)))
		for _, s := range l {
			e.index(c.InternString(s))
		}
	}

	floats := c.Floats()
	e.varint(uint64(len(floats)))
	for _, f := range floats {
		e.float(f)
	}
}

// Vector opens the document.
func (e *Encoder) Vector(width, height *float32, tint vg.Color, tintMode vg.TintMode) {
	e.g.Vector()
	var flags uint8
	if width != nil {
		flags |= vecHasWidth
	}
	if height != nil {
		flags |= vecHasHeight
	}
	if tint.Kind == vg.ColorValue {
		flags |= vecHasTint
	}
	e.byte(opVector)
	e.byte(flags)
	if width != nil {
		e.float(*width)
	}
	if height != nil {
		e.float(*height)
	}
	if flags&vecHasTint != 0 {
		e.byte(colSolid)
		e.u32(tint.ARGB)
		e.byte(uint8(tintMode))
	}
}

// EndVector closes the document.
func (e *Encoder) EndVector() {
	e.g.EndVector()
	e.byte(opEndVector)
}

// Group opens a layer.
func (e *Encoder) Group(transform *vg.Affine, alpha *uint8, blend vg.BlendMode) {
	e.g.Group()
	op := opGroup
	if alpha != nil {
		op = opGroupAlpha
	}
	e.byte(op)
	var operand uint8 = uint8(blend) << 1
	if transform != nil {
		operand |= 1
	}
	e.byte(operand)
	if transform != nil {
		e.float(transform.A)
		e.float(transform.B)
		e.float(transform.C)
		e.float(transform.D)
		e.float(transform.E)
		e.float(transform.F)
	}
	if alpha != nil {
		e.byte(*alpha)
	}
}

// EndGroup closes a layer.
func (e *Encoder) EndGroup() {
	e.g.EndGroup()
	e.byte(opEndGroup)
}

// Path is the string-form fallback. The driver only calls it when
// StartPath declines, which this encoder never does, but the method
// serializes correctly anyway for callers driving the protocol by hand.
func (e *Encoder) Path(data string, paint *vg.Paint, key any) {
	e.g.Leaf("Path")
	e.byte(opStartPath)
	e.paint(paint)
	sink := pathSink{e: e}
	// A parse error cuts the verb run short; the stream stays well formed.
	_ = pathdata.Parse(data, &sink)
	e.byte(opPathEnd)
}

// StartPath begins a streamed path. The verb stream is this format's
// natural form, so it never declines.
func (e *Encoder) StartPath(paint *vg.Paint, key any) vg.PathSink {
	e.g.Leaf("StartPath")
	e.byte(opStartPath)
	e.paint(paint)
	e.sink = pathSink{e: e}
	return &e.sink
}

// ClipPath restricts following siblings to the given path.
func (e *Encoder) ClipPath(data string, rule vg.FillRule) {
	e.g.Leaf("ClipPath")
	e.byte(opClipPath)
	e.byte(uint8(rule))
	e.str(data)
}

// Masked opens a masked section.
func (e *Encoder) Masked(bounds *vg.Rect, lumaOnly bool) {
	e.g.Masked()
	e.byte(opMasked)
	var flags uint8
	if bounds != nil {
		flags |= maskHasBounds
	}
	if lumaOnly {
		flags |= maskLumaOnly
	}
	e.byte(flags)
	if bounds != nil {
		e.float(bounds.X)
		e.float(bounds.Y)
		e.float(bounds.Width)
		e.float(bounds.Height)
	}
}

// MaskedChild separates mask content from masked content.
func (e *Encoder) MaskedChild() {
	e.g.MaskedChild()
	e.byte(opMaskedChild)
}

// EndMasked closes a masked section.
func (e *Encoder) EndMasked() {
	e.g.EndMasked()
	e.byte(opEndMasked)
}

// Image places a canonical image.
func (e *Encoder) Image(index int32) {
	e.g.Leaf("Image")
	e.byte(opImage)
	e.index(index)
}

// Text opens a text element.
func (e *Encoder) Text() {
	e.g.Text()
	e.byte(opText)
}

// TextChunk starts an anchored run of spans.
func (e *Encoder) TextChunk(xIndex, yIndex int32, anchor vg.TextAnchor) {
	e.g.TextChunk()
	e.byte(opTextChunk)
	e.index(xIndex)
	e.index(yIndex)
	e.byte(uint8(anchor))
}

// TextSpan adds one styled span to the open chunk.
func (e *Encoder) TextSpan(dxIndex, dyIndex, textIndex int32, attrs vg.EncodedTextAttrs, paint *vg.Paint) {
	e.g.TextSpan()
	e.byte(opTextSpan)
	e.index(dxIndex)
	e.index(dyIndex)
	e.index(textIndex)
	e.index(attrs.FamiliesIndex)
	e.index(attrs.SizeIndex)
	e.byte(uint8(attrs.Style))
	e.varint(uint64(attrs.Weight))
	e.byte(uint8(attrs.Baseline))
	e.byte(uint8(attrs.Decoration))
	e.paint(paint)
}

// TextEnd closes a text element.
func (e *Encoder) TextEnd() {
	e.g.TextEnd()
	e.byte(opTextEnd)
}

// ExportedID brackets externally addressable content.
func (e *Encoder) ExportedID(index int32) {
	e.g.ExportedID()
	e.byte(opExportedID)
	e.index(index)
}

// EndExportedID closes an exported bracket.
func (e *Encoder) EndExportedID() {
	e.g.EndExportedID()
	e.byte(opEndExportedID)
}

// TraversalDone flushes the stream.
func (e *Encoder) TraversalDone() {
	e.g.TraversalDone()
	e.byte(opTraversalDone)
	if e.err == nil {
		e.fail(e.w.Flush())
	}
}

// paint writes a paint record. Float-valued fields resolve through the
// canonical float table, mirroring vg's interning walk, so every index
// written exists in the table.
func (e *Encoder) paint(p *vg.Paint) {
	e.brush(p.Fill)
	e.brush(p.Stroke)
	e.index(e.canon.InternFloat(p.StrokeWidth))
	e.index(e.canon.InternFloat(p.MiterLimit))
	e.byte(uint8(p.Cap))
	e.byte(uint8(p.Join))
	e.byte(uint8(p.FillRule))
	e.byte(uint8(p.ClipRule))
	e.varint(uint64(len(p.Dashes)))
	if len(p.Dashes) > 0 {
		e.index(e.canon.InternFloat(p.DashOffset))
		for _, d := range p.Dashes {
			e.index(e.canon.InternFloat(d))
		}
	}
}

// brush writes a color record.
func (e *Encoder) brush(b vg.Brush) {
	switch b.Kind {
	case vg.BrushSolid:
		e.byte(colSolid)
		e.u32(b.ARGB)
	case vg.BrushGradient:
		e.byte(colGradient)
		g := b.Gradient
		e.byte(uint8(g.Kind))
		e.byte(uint8(g.Spread))
		e.varint(uint64(len(g.Coords)))
		for _, c := range g.Coords {
			e.index(e.canon.InternFloat(c))
		}
		e.index(e.canon.InternFloat(g.Transform.A))
		e.index(e.canon.InternFloat(g.Transform.B))
		e.index(e.canon.InternFloat(g.Transform.C))
		e.index(e.canon.InternFloat(g.Transform.D))
		e.index(e.canon.InternFloat(g.Transform.E))
		e.index(e.canon.InternFloat(g.Transform.F))
		e.varint(uint64(len(g.Stops)))
		for _, s := range g.Stops {
			e.index(e.canon.InternFloat(s.Offset))
			e.u32(s.ARGB)
		}
	default:
		e.byte(colNone)
	}
}

// pathSink streams path verbs as instructions. Coordinates are written
// raw: path geometry is unshared by construction and canonicalizing it
// would bloat the float table.
type pathSink struct {
	e *Encoder
}

func (s *pathSink) MoveTo(x, y float32) {
	s.e.byte(opMoveTo)
	s.e.float(x)
	s.e.float(y)
}

func (s *pathSink) LineTo(x, y float32) {
	s.e.byte(opLineTo)
	s.e.float(x)
	s.e.float(y)
}

func (s *pathSink) QuadTo(cx, cy, x, y float32) {
	s.e.byte(opQuadTo)
	s.e.float(cx)
	s.e.float(cy)
	s.e.float(x)
	s.e.float(y)
}

func (s *pathSink) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	s.e.byte(opCubicTo)
	s.e.float(c1x)
	s.e.float(c1y)
	s.e.float(c2x)
	s.e.float(c2y)
	s.e.float(x)
	s.e.float(y)
}

func (s *pathSink) ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32) {
	s.e.byte(opArcTo)
	var flags uint8
	if largeArc {
		flags |= arcLarge
	}
	if sweep {
		flags |= arcSweep
	}
	s.e.byte(flags)
	s.e.float(rx)
	s.e.float(ry)
	s.e.float(rotation)
	s.e.float(x)
	s.e.float(y)
}

func (s *pathSink) Oval(cx, cy, rx, ry float32) {
	s.e.byte(opOval)
	s.e.float(cx)
	s.e.float(cy)
	s.e.float(rx)
	s.e.float(ry)
}

func (s *pathSink) Close() {
	s.e.byte(opClose)
}

func (s *pathSink) End() {
	s.e.byte(opPathEnd)
}
