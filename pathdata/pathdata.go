// Package pathdata parses and synthesizes the compact path mini-language
// used by path leaves: single-letter commands with absolute and relative
// forms, implicit repetition and smooth shorthand variants. Parsing emits
// normalized geometry (absolute coordinates, no shorthands) into a Sink.
package pathdata

import (
	"fmt"
	"strconv"
)

// Sink receives normalized path geometry verb by verb. It mirrors the
// builder-side path sink so that any path target accepts parser output
// directly.
type Sink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(cx, cy, x, y float32)
	CubicTo(c1x, c1y, c2x, c2y, x, y float32)
	// ArcTo is an endpoint-parameterized elliptical arc from the current
	// point to (x, y). rotation is in radians.
	ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32)
	// Oval adds a full ellipse as its own subpath. The parser never emits
	// it; the method exists so builder path sinks satisfy Sink as is.
	Oval(cx, cy, rx, ry float32)
	Close()
	// End marks the path complete. The parser never calls it; the caller
	// owns path lifetime.
	End()
}

// Parse scans path data and emits normalized verbs into s. Relative
// coordinates are made absolute, smooth shorthands expand against the
// reflected control point, and arc radii are normalized per the usual
// degeneracy rules (zero radius degrades to a line, undersized radii
// scale up). Parse does not call End.
//
// A malformed command returns an error naming the command and the byte
// offset; verbs emitted before the error stand.
func Parse(data string, s Sink) error {
	p := parser{data: data, sink: s}
	return p.run()
}

type parser struct {
	data string
	pos  int
	sink Sink

	cx, cy  float32 // current point
	sx, sy  float32 // subpath start
	kx, ky  float32 // last control point, for smooth shorthands
	last    byte    // last command, uppercase
	lastRel bool    // last command was relative
}

func (p *parser) run() error {
	for {
		p.skipSep()
		if p.pos >= len(p.data) {
			return nil
		}
		c := p.data[p.pos]
		if !isCommand(c) {
			if p.last == 0 {
				return p.errf("path must start with a command, got %q", c)
			}
			if p.last == 'Z' {
				return p.errf("coordinates after close")
			}
			// Implicit repetition keeps the previous command. A moveto
			// repeats as lineto of the same relativity.
			c = p.implicit()
		} else {
			p.pos++
		}
		if err := p.command(c); err != nil {
			return err
		}
	}
}

// implicit returns the command an unprefixed coordinate run continues.
func (p *parser) implicit() byte {
	c := p.last
	if c == 'M' {
		c = 'L'
	}
	if p.lastRel {
		c += 'a' - 'A'
	}
	return c
}

func (p *parser) command(c byte) error {
	rel := c >= 'a'
	u := c
	if rel {
		u -= 'a' - 'A'
	}
	switch u {
	case 'M':
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		p.moveTo(x, y)
	case 'L':
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		p.lineTo(x, y)
	case 'H':
		x, err := p.number(c)
		if err != nil {
			return err
		}
		if rel {
			x += p.cx
		}
		p.lineTo(x, p.cy)
	case 'V':
		y, err := p.number(c)
		if err != nil {
			return err
		}
		if rel {
			y += p.cy
		}
		p.lineTo(p.cx, y)
	case 'C':
		c1x, c1y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		c2x, c2y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		p.cubicTo(c1x, c1y, c2x, c2y, x, y)
	case 'S':
		c2x, c2y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		c1x, c1y := p.reflect('C')
		p.cubicTo(c1x, c1y, c2x, c2y, x, y)
	case 'Q':
		qx, qy, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		p.quadTo(qx, qy, x, y)
	case 'T':
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		qx, qy := p.reflect('Q')
		p.quadTo(qx, qy, x, y)
	case 'A':
		rx, err := p.number(c)
		if err != nil {
			return err
		}
		ry, err := p.number(c)
		if err != nil {
			return err
		}
		rot, err := p.number(c)
		if err != nil {
			return err
		}
		large, err := p.flag(c)
		if err != nil {
			return err
		}
		sweep, err := p.flag(c)
		if err != nil {
			return err
		}
		x, y, err := p.pair(c, rel)
		if err != nil {
			return err
		}
		p.arcTo(rx, ry, rot, large, sweep, x, y)
	case 'Z':
		p.sink.Close()
		p.cx, p.cy = p.sx, p.sy
	default:
		return p.errf("unknown command %q", c)
	}
	p.last = u
	p.lastRel = rel
	return nil
}

func (p *parser) moveTo(x, y float32) {
	p.sink.MoveTo(x, y)
	p.cx, p.cy = x, y
	p.sx, p.sy = x, y
}

func (p *parser) lineTo(x, y float32) {
	p.sink.LineTo(x, y)
	p.cx, p.cy = x, y
}

func (p *parser) quadTo(qx, qy, x, y float32) {
	p.sink.QuadTo(qx, qy, x, y)
	p.kx, p.ky = qx, qy
	p.cx, p.cy = x, y
}

func (p *parser) cubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	p.sink.CubicTo(c1x, c1y, c2x, c2y, x, y)
	p.kx, p.ky = c2x, c2y
	p.cx, p.cy = x, y
}

func (p *parser) arcTo(rx, ry, rotDeg float32, large, sweep bool, x, y float32) {
	if rx < 0 {
		rx = -rx
	}
	if ry < 0 {
		ry = -ry
	}
	if x == p.cx && y == p.cy {
		return
	}
	if rx == 0 || ry == 0 {
		p.lineTo(x, y)
		return
	}
	rot := rotDeg * (pi / 180)
	rx, ry = correctRadii(p.cx, p.cy, rx, ry, rot, x, y)
	p.sink.ArcTo(rx, ry, rot, large, sweep, x, y)
	p.cx, p.cy = x, y
}

// reflect returns the smooth-shorthand control point: the previous
// control mirrored through the current point when the last command was
// of the matching family, the current point otherwise.
func (p *parser) reflect(family byte) (float32, float32) {
	match := p.last == family || p.last == smoothOf(family)
	if !match {
		return p.cx, p.cy
	}
	return 2*p.cx - p.kx, 2*p.cy - p.ky
}

func smoothOf(family byte) byte {
	if family == 'C' {
		return 'S'
	}
	return 'T'
}

// pair scans an x,y coordinate pair, made absolute when rel is set.
func (p *parser) pair(c byte, rel bool) (float32, float32, error) {
	x, err := p.number(c)
	if err != nil {
		return 0, 0, err
	}
	y, err := p.number(c)
	if err != nil {
		return 0, 0, err
	}
	if rel {
		x += p.cx
		y += p.cy
	}
	return x, y, nil
}

// number scans one signed decimal with optional fraction and exponent.
func (p *parser) number(c byte) (float32, error) {
	p.skipSep()
	start := p.pos
	if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
		p.pos++
	}
	digits := false
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
		digits = true
	}
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
			digits = true
		}
	}
	if !digits {
		return 0, p.errAt(start, "expected number in %q command", c)
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		expDigits := false
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
			expDigits = true
		}
		if !expDigits {
			return 0, p.errAt(start, "malformed exponent in %q command", c)
		}
	}
	v, err := strconv.ParseFloat(p.data[start:p.pos], 32)
	if err != nil {
		return 0, p.errAt(start, "bad number %q in %q command", p.data[start:p.pos], c)
	}
	return float32(v), nil
}

// flag scans a single 0 or 1. Arc flags need no separator from the
// value that follows.
func (p *parser) flag(c byte) (bool, error) {
	p.skipSep()
	if p.pos >= len(p.data) || (p.data[p.pos] != '0' && p.data[p.pos] != '1') {
		return false, p.errAt(p.pos, "expected arc flag in %q command", c)
	}
	f := p.data[p.pos] == '1'
	p.pos++
	return f, nil
}

func (p *parser) skipSep() {
	for p.pos < len(p.data) && isSep(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) errf(format string, args ...any) error {
	return p.errAt(p.pos, format, args...)
}

func (p *parser) errAt(off int, format string, args ...any) error {
	return fmt.Errorf("pathdata: "+format+" at byte %d", append(args, off)...)
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c',
		'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSep(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r'
}
