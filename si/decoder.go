package si

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/pathdata"
)

// Decode reads an si stream from r and replays it into b as builder
// calls: the canonical tables reach b through Init, then the instruction
// stream drives the protocol. The bytes are external input, so a
// malformed stream returns an error; it never panics.
//
// Decoding into a scene builder reconstructs the scene a direct build
// would have produced. Decoding into another Encoder re-serializes.
func Decode(r io.Reader, b vg.Builder) error {
	d := &decoder{r: bufio.NewReader(r), b: b}
	d.g.Lenient = true
	if err := d.header(); err != nil {
		return err
	}
	if err := d.tables(); err != nil {
		return err
	}
	d.g.Init()
	b.Init(d.canon)
	return d.stream()
}

type decoder struct {
	r     *bufio.Reader
	b     vg.Builder
	canon *vg.Canon
	g     vg.Grammar
	big   bool

	// table sizes, for index validation
	nImages, nStrings, nLists, nFloats int
}

func (d *decoder) header() error {
	var hdr [6]byte
	if _, err := io.ReadFull(d.r, hdr[:]); err != nil {
		return fmt.Errorf("si: reading header: %w", err)
	}
	if magic := binary.BigEndian.Uint32(hdr[:4]); magic != Magic {
		return fmt.Errorf("si: bad magic 0x%08X", magic)
	}
	if hdr[4] != Version {
		return fmt.Errorf("si: unsupported version %d", hdr[4])
	}
	if hdr[5]&^flagBigFloats != 0 {
		return fmt.Errorf("si: unknown flags 0x%02X", hdr[5])
	}
	d.big = hdr[5]&flagBigFloats != 0
	return nil
}

// count reads a varint table or list length and bounds it.
func (d *decoder) count(what string) (int, error) {
	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		return 0, fmt.Errorf("si: reading %s count: %w", what, err)
	}
	// Each entry costs at least one stream byte, so a count beyond any
	// plausible input size means a corrupt stream, not a huge document.
	const maxCount = 1 << 28
	if n > maxCount {
		return 0, fmt.Errorf("si: %s count %d out of range", what, n)
	}
	return int(n), nil
}

func (d *decoder) byte() (uint8, error) {
	return d.r.ReadByte()
}

func (d *decoder) u32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (d *decoder) float() (float32, error) {
	if d.big {
		var buf [8]byte
		if _, err := io.ReadFull(d.r, buf[:]); err != nil {
			return 0, err
		}
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))), nil
	}
	v, err := d.u32()
	return math.Float32frombits(v), err
}

// index reads a varint table index and validates it against size.
func (d *decoder) index(size int, what string) (int32, error) {
	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		return 0, fmt.Errorf("si: reading %s index: %w", what, err)
	}
	if n >= uint64(size) {
		return 0, fmt.Errorf("si: %s index %d out of range (table holds %d)", what, n, size)
	}
	return int32(n), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.count("string")
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", fmt.Errorf("si: reading string: %w", err)
	}
	return string(buf), nil
}

// tables reads the canonical tables and rebuilds a frozen Canon.
// Interning in file order reproduces the indices the encoder wrote,
// since table entries are unique and insertion-ordered.
func (d *decoder) tables() error {
	c := vg.NewCanon()

	n, err := d.count("image table")
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		var img vg.ImageData
		if img.X, err = d.float(); err == nil {
			if img.Y, err = d.float(); err == nil {
				if img.Width, err = d.float(); err == nil {
					img.Height, err = d.float()
				}
			}
		}
		if err != nil {
			return fmt.Errorf("si: reading image table: %w", err)
		}
		size, err := d.count("image data")
		if err != nil {
			return err
		}
		img.Encoded = make([]byte, size)
		if _, err := io.ReadFull(d.r, img.Encoded); err != nil {
			return fmt.Errorf("si: reading image data: %w", err)
		}
		c.InternImage(img)
	}
	d.nImages = n

	if n, err = d.count("string table"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s, err := d.str()
		if err != nil {
			return err
		}
		c.InternString(s)
	}
	d.nStrings = n

	if n, err = d.count("string list table"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ln, err := d.count("string list")
		if err != nil {
			return err
		}
		list := make([]string, ln)
		for j := range list {
			idx, err := d.index(d.nStrings, "string")
			if err != nil {
				return err
			}
			list[j] = c.StringAt(idx)
		}
		c.InternStringList(list)
	}
	d.nLists = n

	if n, err = d.count("float table"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		v, err := d.float()
		if err != nil {
			return fmt.Errorf("si: reading float table: %w", err)
		}
		if v != v {
			// The encoder never writes NaN and the tables cannot key it.
			return errors.New("si: NaN in float table")
		}
		c.InternFloat(v)
	}
	d.nFloats = n

	// Interning deduplicates, so a well-formed stream ends up with
	// exactly the counts it declared. A mismatch means the indices in
	// the instruction stream cannot be trusted.
	if len(c.Images()) != d.nImages || len(c.Strings()) != d.nStrings ||
		len(c.StringLists()) != d.nLists || len(c.Floats()) != d.nFloats {
		return errors.New("si: canonical table contains duplicate entries")
	}

	c.Freeze()
	d.canon = c
	return nil
}

// stream replays the instruction stream as builder calls, validating
// protocol order as it goes.
func (d *decoder) stream() error {
	for {
		op, err := d.byte()
		if err == io.EOF {
			return errors.New("si: stream ends before traversalDone")
		}
		if err != nil {
			return fmt.Errorf("si: reading opcode: %w", err)
		}
		if err := d.instruction(op); err != nil {
			return err
		}
		if d.g.Err != nil {
			return fmt.Errorf("si: malformed stream: %w", d.g.Err)
		}
		if op == opTraversalDone {
			return nil
		}
	}
}

func (d *decoder) instruction(op uint8) error {
	switch op {
	case opVector:
		return d.vector()
	case opEndVector:
		d.g.EndVector()
		if d.g.Err == nil {
			d.b.EndVector()
		}
		return nil
	case opGroup, opGroupAlpha:
		return d.group(op == opGroupAlpha)
	case opEndGroup:
		d.g.EndGroup()
		if d.g.Err == nil {
			d.b.EndGroup()
		}
		return nil
	case opStartPath:
		return d.path()
	case opClipPath:
		return d.clipPath()
	case opMasked:
		return d.masked()
	case opMaskedChild:
		d.g.MaskedChild()
		if d.g.Err == nil {
			d.b.MaskedChild()
		}
		return nil
	case opEndMasked:
		d.g.EndMasked()
		if d.g.Err == nil {
			d.b.EndMasked()
		}
		return nil
	case opImage:
		idx, err := d.index(d.nImages, "image")
		if err != nil {
			return err
		}
		d.g.Leaf("Image")
		if d.g.Err == nil {
			d.b.Image(idx)
		}
		return nil
	case opText:
		d.g.Text()
		if d.g.Err == nil {
			d.b.Text()
		}
		return nil
	case opTextChunk:
		return d.textChunk()
	case opTextSpan:
		return d.textSpan()
	case opTextEnd:
		d.g.TextEnd()
		if d.g.Err == nil {
			d.b.TextEnd()
		}
		return nil
	case opExportedID:
		idx, err := d.index(d.nStrings, "exported id")
		if err != nil {
			return err
		}
		d.g.ExportedID()
		if d.g.Err == nil {
			d.b.ExportedID(idx)
		}
		return nil
	case opEndExportedID:
		d.g.EndExportedID()
		if d.g.Err == nil {
			d.b.EndExportedID()
		}
		return nil
	case opTraversalDone:
		d.g.TraversalDone()
		if d.g.Err == nil {
			d.b.TraversalDone()
		}
		return nil
	default:
		return fmt.Errorf("si: unexpected opcode 0x%02X", op)
	}
}

func (d *decoder) vector() error {
	flags, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading vector: %w", err)
	}
	var width, height *float32
	if flags&vecHasWidth != 0 {
		v, err := d.float()
		if err != nil {
			return fmt.Errorf("si: reading vector width: %w", err)
		}
		width = &v
	}
	if flags&vecHasHeight != 0 {
		v, err := d.float()
		if err != nil {
			return fmt.Errorf("si: reading vector height: %w", err)
		}
		height = &v
	}
	tint := vg.NoPaint()
	var tintMode vg.TintMode
	if flags&vecHasTint != 0 {
		kind, err := d.byte()
		if err != nil {
			return fmt.Errorf("si: reading tint: %w", err)
		}
		if kind != colSolid {
			return fmt.Errorf("si: tint color kind %d is not solid", kind)
		}
		argb, err := d.u32()
		if err != nil {
			return fmt.Errorf("si: reading tint: %w", err)
		}
		tint = vg.ARGB(argb)
		mode, err := d.byte()
		if err != nil {
			return fmt.Errorf("si: reading tint mode: %w", err)
		}
		tintMode = vg.TintMode(mode)
	}
	d.g.Vector()
	if d.g.Err == nil {
		d.b.Vector(width, height, tint, tintMode)
	}
	return nil
}

func (d *decoder) group(hasAlpha bool) error {
	operand, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading group: %w", err)
	}
	blend := vg.BlendMode(operand >> 1)
	var transform *vg.Affine
	if operand&1 != 0 {
		var t vg.Affine
		for _, f := range []*float32{&t.A, &t.B, &t.C, &t.D, &t.E, &t.F} {
			if *f, err = d.float(); err != nil {
				return fmt.Errorf("si: reading group transform: %w", err)
			}
		}
		transform = &t
	}
	var alpha *uint8
	if hasAlpha {
		a, err := d.byte()
		if err != nil {
			return fmt.Errorf("si: reading group alpha: %w", err)
		}
		alpha = &a
	}
	d.g.Group()
	if d.g.Err == nil {
		d.b.Group(transform, alpha, blend)
	}
	return nil
}

func (d *decoder) path() error {
	paint, err := d.paint()
	if err != nil {
		return err
	}
	d.g.Leaf("StartPath")
	if d.g.Err != nil {
		return nil
	}
	sink := d.b.StartPath(paint, nil)
	if sink != nil {
		return d.verbs(sink)
	}
	// Target declined the stream: render the verbs back to path data and
	// hand them over in string form.
	var w pathdata.Writer
	if err := d.verbs(&w); err != nil {
		return err
	}
	d.b.Path(w.String(), paint, nil)
	return nil
}

// verbs replays one path verb run into sink, ending at opPathEnd.
func (d *decoder) verbs(sink vg.PathSink) error {
	for {
		op, err := d.byte()
		if err != nil {
			return fmt.Errorf("si: reading path verb: %w", err)
		}
		var coords [6]float32
		read := func(n int) error {
			for i := 0; i < n; i++ {
				if coords[i], err = d.float(); err != nil {
					return fmt.Errorf("si: reading path coordinates: %w", err)
				}
			}
			return nil
		}
		switch op {
		case opMoveTo:
			if err := read(2); err != nil {
				return err
			}
			sink.MoveTo(coords[0], coords[1])
		case opLineTo:
			if err := read(2); err != nil {
				return err
			}
			sink.LineTo(coords[0], coords[1])
		case opQuadTo:
			if err := read(4); err != nil {
				return err
			}
			sink.QuadTo(coords[0], coords[1], coords[2], coords[3])
		case opCubicTo:
			if err := read(6); err != nil {
				return err
			}
			sink.CubicTo(coords[0], coords[1], coords[2], coords[3], coords[4], coords[5])
		case opArcTo:
			flags, err := d.byte()
			if err != nil {
				return fmt.Errorf("si: reading arc flags: %w", err)
			}
			if err := read(5); err != nil {
				return err
			}
			sink.ArcTo(coords[0], coords[1], coords[2],
				flags&arcLarge != 0, flags&arcSweep != 0,
				coords[3], coords[4])
		case opOval:
			if err := read(4); err != nil {
				return err
			}
			sink.Oval(coords[0], coords[1], coords[2], coords[3])
		case opClose:
			sink.Close()
		case opPathEnd:
			sink.End()
			return nil
		default:
			return fmt.Errorf("si: unexpected opcode 0x%02X inside a path", op)
		}
	}
}

func (d *decoder) clipPath() error {
	rule, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading clip path: %w", err)
	}
	data, err := d.str()
	if err != nil {
		return err
	}
	d.g.Leaf("ClipPath")
	if d.g.Err == nil {
		d.b.ClipPath(data, vg.FillRule(rule))
	}
	return nil
}

func (d *decoder) masked() error {
	flags, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading masked: %w", err)
	}
	var bounds *vg.Rect
	if flags&maskHasBounds != 0 {
		var r vg.Rect
		for _, f := range []*float32{&r.X, &r.Y, &r.Width, &r.Height} {
			if *f, err = d.float(); err != nil {
				return fmt.Errorf("si: reading mask bounds: %w", err)
			}
		}
		bounds = &r
	}
	d.g.Masked()
	if d.g.Err == nil {
		d.b.Masked(bounds, flags&maskLumaOnly != 0)
	}
	return nil
}

func (d *decoder) textChunk() error {
	x, err := d.index(d.nFloats, "chunk x")
	if err != nil {
		return err
	}
	y, err := d.index(d.nFloats, "chunk y")
	if err != nil {
		return err
	}
	anchor, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading text chunk: %w", err)
	}
	d.g.TextChunk()
	if d.g.Err == nil {
		d.b.TextChunk(x, y, vg.TextAnchor(anchor))
	}
	return nil
}

func (d *decoder) textSpan() error {
	dx, err := d.index(d.nFloats, "span dx")
	if err != nil {
		return err
	}
	dy, err := d.index(d.nFloats, "span dy")
	if err != nil {
		return err
	}
	text, err := d.index(d.nStrings, "span text")
	if err != nil {
		return err
	}
	var attrs vg.EncodedTextAttrs
	if attrs.FamiliesIndex, err = d.index(d.nLists, "font families"); err != nil {
		return err
	}
	if attrs.SizeIndex, err = d.index(d.nFloats, "font size"); err != nil {
		return err
	}
	style, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading span style: %w", err)
	}
	attrs.Style = vg.FontStyle(style)
	weight, err := binary.ReadUvarint(d.r)
	if err != nil {
		return fmt.Errorf("si: reading span weight: %w", err)
	}
	attrs.Weight = vg.FontWeight(weight)
	baseline, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading span baseline: %w", err)
	}
	attrs.Baseline = vg.TextBaseline(baseline)
	deco, err := d.byte()
	if err != nil {
		return fmt.Errorf("si: reading span decoration: %w", err)
	}
	attrs.Decoration = vg.TextDecoration(deco)
	paint, err := d.paint()
	if err != nil {
		return err
	}
	d.g.TextSpan()
	if d.g.Err == nil {
		d.b.TextSpan(dx, dy, text, attrs, paint)
	}
	return nil
}

func (d *decoder) paint() (*vg.Paint, error) {
	var p vg.Paint
	var err error
	if p.Fill, err = d.brush(); err != nil {
		return nil, err
	}
	if p.Stroke, err = d.brush(); err != nil {
		return nil, err
	}
	idx, err := d.index(d.nFloats, "stroke width")
	if err != nil {
		return nil, err
	}
	p.StrokeWidth = d.canon.FloatAt(idx)
	if idx, err = d.index(d.nFloats, "miter limit"); err != nil {
		return nil, err
	}
	p.MiterLimit = d.canon.FloatAt(idx)
	var b uint8
	if b, err = d.byte(); err != nil {
		return nil, fmt.Errorf("si: reading paint: %w", err)
	}
	p.Cap = vg.LineCap(b)
	if b, err = d.byte(); err != nil {
		return nil, fmt.Errorf("si: reading paint: %w", err)
	}
	p.Join = vg.LineJoin(b)
	if b, err = d.byte(); err != nil {
		return nil, fmt.Errorf("si: reading paint: %w", err)
	}
	p.FillRule = vg.FillRule(b)
	if b, err = d.byte(); err != nil {
		return nil, fmt.Errorf("si: reading paint: %w", err)
	}
	p.ClipRule = vg.FillRule(b)
	n, err := d.count("dash")
	if err != nil {
		return nil, err
	}
	if n > 0 {
		if idx, err = d.index(d.nFloats, "dash offset"); err != nil {
			return nil, err
		}
		p.DashOffset = d.canon.FloatAt(idx)
		p.Dashes = make([]float32, n)
		for i := range p.Dashes {
			if idx, err = d.index(d.nFloats, "dash"); err != nil {
				return nil, err
			}
			p.Dashes[i] = d.canon.FloatAt(idx)
		}
	}
	return &p, nil
}

func (d *decoder) brush() (vg.Brush, error) {
	kind, err := d.byte()
	if err != nil {
		return vg.Brush{}, fmt.Errorf("si: reading color record: %w", err)
	}
	switch kind {
	case colNone:
		return vg.Brush{}, nil
	case colSolid:
		argb, err := d.u32()
		if err != nil {
			return vg.Brush{}, fmt.Errorf("si: reading color record: %w", err)
		}
		return vg.SolidBrush(argb), nil
	case colGradient:
		g := &vg.ResolvedGradient{}
		gk, err := d.byte()
		if err != nil {
			return vg.Brush{}, fmt.Errorf("si: reading gradient: %w", err)
		}
		g.Kind = vg.GradientKind(gk)
		spread, err := d.byte()
		if err != nil {
			return vg.Brush{}, fmt.Errorf("si: reading gradient: %w", err)
		}
		g.Spread = vg.SpreadMethod(spread)
		n, err := d.count("gradient coordinate")
		if err != nil {
			return vg.Brush{}, err
		}
		g.Coords = make([]float32, n)
		for i := range g.Coords {
			idx, err := d.index(d.nFloats, "gradient coordinate")
			if err != nil {
				return vg.Brush{}, err
			}
			g.Coords[i] = d.canon.FloatAt(idx)
		}
		for _, f := range []*float32{
			&g.Transform.A, &g.Transform.B, &g.Transform.C,
			&g.Transform.D, &g.Transform.E, &g.Transform.F,
		} {
			idx, err := d.index(d.nFloats, "gradient transform")
			if err != nil {
				return vg.Brush{}, err
			}
			*f = d.canon.FloatAt(idx)
		}
		if n, err = d.count("gradient stop"); err != nil {
			return vg.Brush{}, err
		}
		g.Stops = make([]vg.ResolvedStop, n)
		for i := range g.Stops {
			idx, err := d.index(d.nFloats, "stop offset")
			if err != nil {
				return vg.Brush{}, err
			}
			g.Stops[i].Offset = d.canon.FloatAt(idx)
			if g.Stops[i].ARGB, err = d.u32(); err != nil {
				return vg.Brush{}, fmt.Errorf("si: reading gradient stop: %w", err)
			}
		}
		return vg.Brush{Kind: vg.BrushGradient, Gradient: g}, nil
	default:
		return vg.Brush{}, fmt.Errorf("si: unknown color record kind %d", kind)
	}
}
