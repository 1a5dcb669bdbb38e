package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/vg"
)

// parseColor parses an SVG paint value: none, currentColor, url(#id)
// gradient references, hex forms, rgb()/rgba() and CSS color names.
func parseColor(s string) (vg.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return vg.Color{}, fmt.Errorf("svg: empty color")
	case strings.EqualFold(s, "none"):
		return vg.NoPaint(), nil
	case strings.EqualFold(s, "transparent"):
		return vg.ARGB(0), nil
	case strings.EqualFold(s, "currentcolor"):
		return vg.CurrentColor(), nil
	case strings.HasPrefix(s, "url("):
		id := hrefID(s)
		if id == "" {
			return vg.Color{}, fmt.Errorf("svg: empty paint reference %q", s)
		}
		return vg.GradientRef(id), nil
	case s[0] == '#':
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGBColor(s)
	}
	if argb, ok := namedColors[strings.ToLower(s)]; ok {
		return vg.ARGB(argb), nil
	}
	return vg.Color{}, fmt.Errorf("svg: unknown color %q", s)
}

// parseHexColor parses the hex digits after '#': RGB, RGBA, RRGGBB or
// RRGGBBAA.
func parseHexColor(hex string) (vg.Color, error) {
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return vg.Color{}, fmt.Errorf("svg: bad hex color #%s", hex)
	}
	n := uint32(v)
	switch len(hex) {
	case 3:
		return vg.RGB(widen4(n>>8)<<16 | widen4(n>>4&0xF)<<8 | widen4(n&0xF)), nil
	case 4:
		rgb := widen4(n>>12)<<16 | widen4(n>>8&0xF)<<8 | widen4(n>>4&0xF)
		return vg.ARGB(widen4(n&0xF)<<24 | rgb), nil
	case 6:
		return vg.RGB(n), nil
	case 8:
		// RRGGBBAA rotates into the ARGB layout.
		return vg.ARGB(n>>8 | (n&0xFF)<<24), nil
	default:
		return vg.Color{}, fmt.Errorf("svg: bad hex color #%s", hex)
	}
}

// widen4 doubles a 4-bit channel into 8 bits (0xF becomes 0xFF).
func widen4(v uint32) uint32 {
	v &= 0xF
	return v<<4 | v
}

// parseRGBColor parses rgb(r,g,b) and rgba(r,g,b,a) with channels as
// 0-255 numbers or percentages and alpha as 0-1 or a percentage.
func parseRGBColor(s string) (vg.Color, error) {
	open := strings.IndexByte(s, '(')
	clos := strings.LastIndexByte(s, ')')
	if open < 0 || clos < open {
		return vg.Color{}, fmt.Errorf("svg: malformed color %q", s)
	}
	fields := splitList(strings.ReplaceAll(s[open+1:clos], "/", " "))
	if len(fields) != 3 && len(fields) != 4 {
		return vg.Color{}, fmt.Errorf("svg: malformed color %q", s)
	}
	var ch [3]uint32
	for i := 0; i < 3; i++ {
		f := fields[i]
		pct := strings.HasSuffix(f, "%")
		v, err := parseFloat(strings.TrimSuffix(f, "%"))
		if err != nil {
			return vg.Color{}, fmt.Errorf("svg: malformed color %q", s)
		}
		if pct {
			v = v * 255 / 100
		}
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		ch[i] = uint32(v + 0.5)
	}
	a := uint32(0xFF)
	if len(fields) == 4 {
		v, err := parseOpacity(fields[3])
		if err != nil {
			return vg.Color{}, fmt.Errorf("svg: malformed color %q", s)
		}
		a = uint32(v*255 + 0.5)
	}
	return vg.ARGB(a<<24 | ch[0]<<16 | ch[1]<<8 | ch[2]), nil
}

// namedColors is the CSS named color table, 0xAARRGGBB.
var namedColors = map[string]uint32{
	"aliceblue":            0xFFF0F8FF,
	"antiquewhite":         0xFFFAEBD7,
	"aqua":                 0xFF00FFFF,
	"aquamarine":           0xFF7FFFD4,
	"azure":                0xFFF0FFFF,
	"beige":                0xFFF5F5DC,
	"bisque":               0xFFFFE4C4,
	"black":                0xFF000000,
	"blanchedalmond":       0xFFFFEBCD,
	"blue":                 0xFF0000FF,
	"blueviolet":           0xFF8A2BE2,
	"brown":                0xFFA52A2A,
	"burlywood":            0xFFDEB887,
	"cadetblue":            0xFF5F9EA0,
	"chartreuse":           0xFF7FFF00,
	"chocolate":            0xFFD2691E,
	"coral":                0xFFFF7F50,
	"cornflowerblue":       0xFF6495ED,
	"cornsilk":             0xFFFFF8DC,
	"crimson":              0xFFDC143C,
	"cyan":                 0xFF00FFFF,
	"darkblue":             0xFF00008B,
	"darkcyan":             0xFF008B8B,
	"darkgoldenrod":        0xFFB8860B,
	"darkgray":             0xFFA9A9A9,
	"darkgreen":            0xFF006400,
	"darkgrey":             0xFFA9A9A9,
	"darkkhaki":            0xFFBDB76B,
	"darkmagenta":          0xFF8B008B,
	"darkolivegreen":       0xFF556B2F,
	"darkorange":           0xFFFF8C00,
	"darkorchid":           0xFF9932CC,
	"darkred":              0xFF8B0000,
	"darksalmon":           0xFFE9967A,
	"darkseagreen":         0xFF8FBC8F,
	"darkslateblue":        0xFF483D8B,
	"darkslategray":        0xFF2F4F4F,
	"darkslategrey":        0xFF2F4F4F,
	"darkturquoise":        0xFF00CED1,
	"darkviolet":           0xFF9400D3,
	"deeppink":             0xFFFF1493,
	"deepskyblue":          0xFF00BFFF,
	"dimgray":              0xFF696969,
	"dimgrey":              0xFF696969,
	"dodgerblue":           0xFF1E90FF,
	"firebrick":            0xFFB22222,
	"floralwhite":          0xFFFFFAF0,
	"forestgreen":          0xFF228B22,
	"fuchsia":              0xFFFF00FF,
	"gainsboro":            0xFFDCDCDC,
	"ghostwhite":           0xFFF8F8FF,
	"gold":                 0xFFFFD700,
	"goldenrod":            0xFFDAA520,
	"gray":                 0xFF808080,
	"green":                0xFF008000,
	"greenyellow":          0xFFADFF2F,
	"grey":                 0xFF808080,
	"honeydew":             0xFFF0FFF0,
	"hotpink":              0xFFFF69B4,
	"indianred":            0xFFCD5C5C,
	"indigo":               0xFF4B0082,
	"ivory":                0xFFFFFFF0,
	"khaki":                0xFFF0E68C,
	"lavender":             0xFFE6E6FA,
	"lavenderblush":        0xFFFFF0F5,
	"lawngreen":            0xFF7CFC00,
	"lemonchiffon":         0xFFFFFACD,
	"lightblue":            0xFFADD8E6,
	"lightcoral":           0xFFF08080,
	"lightcyan":            0xFFE0FFFF,
	"lightgoldenrodyellow": 0xFFFAFAD2,
	"lightgray":            0xFFD3D3D3,
	"lightgreen":           0xFF90EE90,
	"lightgrey":            0xFFD3D3D3,
	"lightpink":            0xFFFFB6C1,
	"lightsalmon":          0xFFFFA07A,
	"lightseagreen":        0xFF20B2AA,
	"lightskyblue":         0xFF87CEFA,
	"lightslategray":       0xFF778899,
	"lightslategrey":       0xFF778899,
	"lightsteelblue":       0xFFB0C4DE,
	"lightyellow":          0xFFFFFFE0,
	"lime":                 0xFF00FF00,
	"limegreen":            0xFF32CD32,
	"linen":                0xFFFAF0E6,
	"magenta":              0xFFFF00FF,
	"maroon":               0xFF800000,
	"mediumaquamarine":     0xFF66CDAA,
	"mediumblue":           0xFF0000CD,
	"mediumorchid":         0xFFBA55D3,
	"mediumpurple":         0xFF9370DB,
	"mediumseagreen":       0xFF3CB371,
	"mediumslateblue":      0xFF7B68EE,
	"mediumspringgreen":    0xFF00FA9A,
	"mediumturquoise":      0xFF48D1CC,
	"mediumvioletred":      0xFFC71585,
	"midnightblue":         0xFF191970,
	"mintcream":            0xFFF5FFFA,
	"mistyrose":            0xFFFFE4E1,
	"moccasin":             0xFFFFE4B5,
	"navajowhite":          0xFFFFDEAD,
	"navy":                 0xFF000080,
	"oldlace":              0xFFFDF5E6,
	"olive":                0xFF808000,
	"olivedrab":            0xFF6B8E23,
	"orange":               0xFFFFA500,
	"orangered":            0xFFFF4500,
	"orchid":               0xFFDA70D6,
	"palegoldenrod":        0xFFEEE8AA,
	"palegreen":            0xFF98FB98,
	"paleturquoise":        0xFFAFEEEE,
	"palevioletred":        0xFFDB7093,
	"papayawhip":           0xFFFFEFD5,
	"peachpuff":            0xFFFFDAB9,
	"peru":                 0xFFCD853F,
	"pink":                 0xFFFFC0CB,
	"plum":                 0xFFDDA0DD,
	"powderblue":           0xFFB0E0E6,
	"purple":               0xFF800080,
	"rebeccapurple":        0xFF663399,
	"red":                  0xFFFF0000,
	"rosybrown":            0xFFBC8F8F,
	"royalblue":            0xFF4169E1,
	"saddlebrown":          0xFF8B4513,
	"salmon":               0xFFFA8072,
	"sandybrown":           0xFFF4A460,
	"seagreen":             0xFF2E8B57,
	"seashell":             0xFFFFF5EE,
	"sienna":               0xFFA0522D,
	"silver":               0xFFC0C0C0,
	"skyblue":              0xFF87CEEB,
	"slateblue":            0xFF6A5ACD,
	"slategray":            0xFF708090,
	"slategrey":            0xFF708090,
	"snow":                 0xFFFFFAFA,
	"springgreen":          0xFF00FF7F,
	"steelblue":            0xFF4682B4,
	"tan":                  0xFFD2B48C,
	"teal":                 0xFF008080,
	"thistle":              0xFFD8BFD8,
	"tomato":               0xFFFF6347,
	"turquoise":            0xFF40E0D0,
	"violet":               0xFFEE82EE,
	"wheat":                0xFFF5DEB3,
	"white":                0xFFFFFFFF,
	"whitesmoke":           0xFFF5F5F5,
	"yellow":               0xFFFFFF00,
	"yellowgreen":          0xFF9ACD32,
}
