package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gogpu/vg"
)

// splitList splits an attribute value on commas and whitespace, the two
// separators SVG number lists accept interchangeably.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// parseFloat parses one plain number.
func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("svg: bad number %q", s)
	}
	return float32(v), nil
}

// parseFloatList parses a comma/whitespace separated number list.
func parseFloatList(s string) ([]float32, error) {
	fields := splitList(s)
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// cssUnitScale converts absolute CSS units to user units at the usual 96
// dpi. The em scale assumes the 16px default font size, the best a
// unit-only parser can do without a cascade.
var cssUnitScale = map[string]float32{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
	"in": 96,
	"em": 16,
}

// splitUnit separates the numeric part of a length from its unit suffix.
func splitUnit(s string) (num, unit string) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	return s[:i], strings.ToLower(s[i:])
}

// parseLength parses an absolute length with an optional unit suffix.
// Percentages are not lengths; contexts that accept them parse
// separately.
func parseLength(s string) (float32, error) {
	num, unit := splitUnit(s)
	scale, ok := cssUnitScale[unit]
	if !ok {
		return 0, fmt.Errorf("svg: unsupported length unit %q in %q", unit, s)
	}
	v, err := parseFloat(num)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// parseCoord parses a gradient coordinate: a percentage becomes a
// fraction, anything else an absolute value.
func parseCoord(s string) (vg.Coord, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := parseFloat(strings.TrimSuffix(s, "%"))
		if err != nil {
			return vg.Coord{}, err
		}
		return vg.Frac(v / 100), nil
	}
	v, err := parseLength(s)
	if err != nil {
		return vg.Coord{}, err
	}
	return vg.Val(v), nil
}

// parseOpacity parses an opacity value: a number in [0,1] or a
// percentage.
func parseOpacity(s string) (float32, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	v, err := parseFloat(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	if pct {
		v /= 100
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}

// hrefID extracts the fragment id from url(#id), #id or a bare id.
func hrefID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "url(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[4 : len(s)-1])
		s = strings.Trim(s, "'\"")
	}
	return strings.TrimPrefix(s, "#")
}

// parseTransform parses an SVG transform list into one composed affine.
func parseTransform(s string) (vg.Affine, error) {
	out := vg.Identity()
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		clos := strings.IndexByte(rest, ')')
		if open < 0 || clos < open {
			return out, fmt.Errorf("svg: malformed transform %q", s)
		}
		name := strings.TrimSpace(strings.Trim(rest[:open], ", "))
		args, err := parseFloatList(rest[open+1 : clos])
		if err != nil {
			return out, err
		}
		var t vg.Affine
		switch name {
		case "matrix":
			if len(args) != 6 {
				return out, fmt.Errorf("svg: matrix needs 6 values, got %d", len(args))
			}
			// SVG matrix(a b c d e f) is column-major.
			t = vg.Affine{A: args[0], B: args[2], C: args[4], D: args[1], E: args[3], F: args[5]}
		case "translate":
			switch len(args) {
			case 1:
				t = vg.Translate(args[0], 0)
			case 2:
				t = vg.Translate(args[0], args[1])
			default:
				return out, fmt.Errorf("svg: translate needs 1 or 2 values, got %d", len(args))
			}
		case "scale":
			switch len(args) {
			case 1:
				t = vg.Scale(args[0], args[0])
			case 2:
				t = vg.Scale(args[0], args[1])
			default:
				return out, fmt.Errorf("svg: scale needs 1 or 2 values, got %d", len(args))
			}
		case "rotate":
			switch len(args) {
			case 1:
				t = vg.Rotate(radians(args[0]))
			case 3:
				t = vg.Translate(args[1], args[2]).
					Multiply(vg.Rotate(radians(args[0]))).
					Multiply(vg.Translate(-args[1], -args[2]))
			default:
				return out, fmt.Errorf("svg: rotate needs 1 or 3 values, got %d", len(args))
			}
		case "skewX":
			if len(args) != 1 {
				return out, fmt.Errorf("svg: skewX needs 1 value, got %d", len(args))
			}
			t = vg.SkewX(radians(args[0]))
		case "skewY":
			if len(args) != 1 {
				return out, fmt.Errorf("svg: skewY needs 1 value, got %d", len(args))
			}
			t = vg.SkewY(radians(args[0]))
		default:
			return out, fmt.Errorf("svg: unknown transform %q", name)
		}
		out = out.Multiply(t)
		rest = strings.TrimSpace(rest[clos+1:])
	}
	return out, nil
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// parseDashArray parses stroke-dasharray: "none" yields the explicit
// empty (solid) pattern, a list of lengths the pattern itself. An odd
// list repeats doubled, per the CSS rule.
func parseDashArray(s string) ([]float32, error) {
	if strings.TrimSpace(s) == "none" {
		return []float32{}, nil
	}
	fields := splitList(s)
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := parseLength(f)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("svg: negative dash length %q", f)
		}
		out = append(out, v)
	}
	if len(out)%2 == 1 {
		out = append(out, out...)
	}
	return out, nil
}

// parseViewBox parses a four-value viewBox list.
func parseViewBox(s string) (vg.Rect, error) {
	vals, err := parseFloatList(s)
	if err != nil {
		return vg.Rect{}, err
	}
	if len(vals) != 4 {
		return vg.Rect{}, fmt.Errorf("svg: viewBox needs 4 values, got %d", len(vals))
	}
	return vg.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// parsePoints parses a polyline/polygon points list.
func parsePoints(s string) ([]vg.Point, error) {
	vals, err := parseFloatList(s)
	if err != nil {
		return nil, err
	}
	if len(vals)%2 == 1 {
		// Trailing half-coordinate: SVG renders what parsed.
		vals = vals[:len(vals)-1]
	}
	pts := make([]vg.Point, 0, len(vals)/2)
	for i := 0; i+1 < len(vals); i += 2 {
		pts = append(pts, vg.Point{X: vals[i], Y: vals[i+1]})
	}
	return pts, nil
}
