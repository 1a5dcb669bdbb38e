package svg

import (
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"

	"github.com/gogpu/vg"
)

// applyDecl applies one CSS declaration to a style bundle. It handles
// the property set shared by stylesheet rules, inline style attributes
// and presentation attributes. Unknown properties return false so the
// caller can decide whether they deserve a warning.
func applyDecl(a *vg.StyleAttrs, prop, value string, warn vg.Warn) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "inherit") {
		return true
	}
	switch strings.ToLower(prop) {
	case "color":
		c, err := parseColor(value)
		if err != nil {
			warn.Warnf("svg: %v", err)
			return true
		}
		a.Paint.CurrentColor = c
	case "fill":
		c, err := parseColor(value)
		if err != nil {
			warn.Warnf("svg: %v", err)
			return true
		}
		a.Paint.Fill = c
	case "stroke":
		c, err := parseColor(value)
		if err != nil {
			warn.Warnf("svg: %v", err)
			return true
		}
		a.Paint.Stroke = c
	case "fill-opacity":
		setOpacity(&a.Paint.FillAlpha, prop, value, warn)
	case "stroke-opacity":
		setOpacity(&a.Paint.StrokeAlpha, prop, value, warn)
	case "opacity":
		v, err := parseOpacity(value)
		if err != nil {
			warn.Warnf("svg: bad %s value %q", prop, value)
			return true
		}
		alpha := uint8(v*255 + 0.5)
		a.Alpha = &alpha
	case "stroke-width":
		setLength(&a.Paint.StrokeWidth, prop, value, warn)
	case "stroke-miterlimit":
		v, err := parseFloat(value)
		if err != nil {
			warn.Warnf("svg: bad %s value %q", prop, value)
			return true
		}
		a.Paint.StrokeMiterLimit = &v
	case "stroke-dashoffset":
		setLength(&a.Paint.StrokeDashOffset, prop, value, warn)
	case "stroke-dasharray":
		dashes, err := parseDashArray(value)
		if err != nil {
			warn.Warnf("svg: bad %s value %q", prop, value)
			return true
		}
		a.Paint.StrokeDashArray = dashes
	case "stroke-linecap":
		switch strings.ToLower(value) {
		case "butt":
			a.Paint.StrokeCap = capPtr(vg.LineCapButt)
		case "round":
			a.Paint.StrokeCap = capPtr(vg.LineCapRound)
		case "square":
			a.Paint.StrokeCap = capPtr(vg.LineCapSquare)
		default:
			warn.Warnf("svg: unknown stroke-linecap %q", value)
		}
	case "stroke-linejoin":
		switch strings.ToLower(value) {
		case "miter":
			a.Paint.StrokeJoin = joinPtr(vg.LineJoinMiter)
		case "round":
			a.Paint.StrokeJoin = joinPtr(vg.LineJoinRound)
		case "bevel":
			a.Paint.StrokeJoin = joinPtr(vg.LineJoinBevel)
		default:
			warn.Warnf("svg: unknown stroke-linejoin %q", value)
		}
	case "fill-rule":
		setFillRule(&a.Paint.FillRule, prop, value, warn)
	case "clip-rule":
		setFillRule(&a.Paint.ClipFillRule, prop, value, warn)
	case "visibility":
		switch strings.ToLower(value) {
		case "visible":
			a.Paint.Hidden = boolPtr(false)
		case "hidden", "collapse":
			a.Paint.Hidden = boolPtr(true)
		default:
			warn.Warnf("svg: unknown visibility %q", value)
		}
	case "display":
		d := !strings.EqualFold(value, "none")
		a.Display = &d
	case "mask":
		a.Paint.MaskID = hrefID(value)
	case "clip-path":
		a.Paint.ClipID = hrefID(value)
	case "mix-blend-mode":
		mode, ok := blendModes[strings.ToLower(value)]
		if !ok {
			warn.Warnf("svg: unknown blend mode %q", value)
			return true
		}
		a.Blend = &mode
	case "transform":
		t, err := parseTransform(value)
		if err != nil {
			warn.Warnf("svg: %v", err)
			return true
		}
		a.Transform = &t
	case "font-family":
		a.Text.Family = parseFamilies(value)
	case "font-style":
		switch strings.ToLower(value) {
		case "normal":
			a.Text.Style = stylePtr(vg.StyleNormal)
		case "italic":
			a.Text.Style = stylePtr(vg.StyleItalic)
		case "oblique":
			a.Text.Style = stylePtr(vg.StyleOblique)
		default:
			warn.Warnf("svg: unknown font-style %q", value)
		}
	case "font-weight":
		w, ok := parseFontWeight(value)
		if !ok {
			warn.Warnf("svg: unknown font-weight %q", value)
			return true
		}
		a.Text.Weight = w
	case "font-size":
		size, ok := parseFontSize(value)
		if !ok {
			warn.Warnf("svg: bad font-size %q", value)
			return true
		}
		a.Text.Size = size
	case "text-anchor":
		switch strings.ToLower(value) {
		case "start":
			a.Text.Anchor = anchorPtr(vg.AnchorStart)
		case "middle":
			a.Text.Anchor = anchorPtr(vg.AnchorMiddle)
		case "end":
			a.Text.Anchor = anchorPtr(vg.AnchorEnd)
		default:
			warn.Warnf("svg: unknown text-anchor %q", value)
		}
	case "dominant-baseline", "alignment-baseline":
		switch strings.ToLower(value) {
		case "auto", "alphabetic", "baseline":
			a.Text.Baseline = baselinePtr(vg.BaselineAuto)
		case "middle", "central":
			a.Text.Baseline = baselinePtr(vg.BaselineMiddle)
		case "hanging", "text-before-edge":
			a.Text.Baseline = baselinePtr(vg.BaselineHanging)
		default:
			warn.Warnf("svg: unknown %s %q", prop, value)
		}
	case "text-decoration", "text-decoration-line":
		switch strings.ToLower(value) {
		case "none":
			a.Text.Decoration = decoPtr(vg.DecorationNone)
		case "underline":
			a.Text.Decoration = decoPtr(vg.DecorationUnderline)
		case "overline":
			a.Text.Decoration = decoPtr(vg.DecorationOverline)
		case "line-through":
			a.Text.Decoration = decoPtr(vg.DecorationLineThrough)
		default:
			warn.Warnf("svg: unknown text-decoration %q", value)
		}
	default:
		return false
	}
	return true
}

func setOpacity(dst **float32, prop, value string, warn vg.Warn) {
	v, err := parseOpacity(value)
	if err != nil {
		warn.Warnf("svg: bad %s value %q", prop, value)
		return
	}
	*dst = &v
}

func setLength(dst **float32, prop, value string, warn vg.Warn) {
	v, err := parseLength(value)
	if err != nil {
		warn.Warnf("svg: bad %s value %q", prop, value)
		return
	}
	*dst = &v
}

func setFillRule(dst **vg.FillRule, prop, value string, warn vg.Warn) {
	switch strings.ToLower(value) {
	case "nonzero":
		r := vg.FillRuleNonZero
		*dst = &r
	case "evenodd":
		r := vg.FillRuleEvenOdd
		*dst = &r
	default:
		warn.Warnf("svg: unknown %s %q", prop, value)
	}
}

// parseFamilies splits a font-family list, stripping quotes.
func parseFamilies(value string) []string {
	var out []string
	for _, f := range strings.Split(value, ",") {
		f = strings.Trim(strings.TrimSpace(f), "'\"")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseFontWeight(value string) (vg.FontWeight, bool) {
	switch strings.ToLower(value) {
	case "normal":
		return vg.WeightNormal, true
	case "bold":
		return vg.WeightBold, true
	case "bolder":
		return vg.WeightBolder, true
	case "lighter":
		return vg.WeightLighter, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return vg.WeightInherit, false
	}
	return vg.Weight(n), true
}

func parseFontSize(value string) (vg.FontSize, bool) {
	switch strings.ToLower(value) {
	case "larger":
		return vg.RelativeSize(1.25), true
	case "smaller":
		return vg.RelativeSize(0.8), true
	}
	if strings.HasSuffix(value, "%") {
		v, err := parseFloat(strings.TrimSuffix(value, "%"))
		if err != nil {
			return vg.FontSize{}, false
		}
		return vg.RelativeSize(v / 100), true
	}
	if num, unit := splitUnit(value); unit == "em" {
		v, err := parseFloat(num)
		if err != nil {
			return vg.FontSize{}, false
		}
		return vg.RelativeSize(v), true
	}
	v, err := parseLength(value)
	if err != nil {
		return vg.FontSize{}, false
	}
	return vg.AbsoluteSize(v), true
}

var blendModes = map[string]vg.BlendMode{
	"normal":      vg.BlendNormal,
	"multiply":    vg.BlendMultiply,
	"screen":      vg.BlendScreen,
	"overlay":     vg.BlendOverlay,
	"darken":      vg.BlendDarken,
	"lighten":     vg.BlendLighten,
	"color-dodge": vg.BlendColorDodge,
	"color-burn":  vg.BlendColorBurn,
	"hard-light":  vg.BlendHardLight,
	"soft-light":  vg.BlendSoftLight,
	"difference":  vg.BlendDifference,
	"exclusion":   vg.BlendExclusion,
	"hue":         vg.BlendHue,
	"saturation":  vg.BlendSaturation,
	"color":       vg.BlendColor,
	"luminosity":  vg.BlendLuminosity,
}

func boolPtr(v bool) *bool                           { return &v }
func capPtr(v vg.LineCap) *vg.LineCap                { return &v }
func joinPtr(v vg.LineJoin) *vg.LineJoin             { return &v }
func stylePtr(v vg.FontStyle) *vg.FontStyle          { return &v }
func anchorPtr(v vg.TextAnchor) *vg.TextAnchor       { return &v }
func baselinePtr(v vg.TextBaseline) *vg.TextBaseline { return &v }
func decoPtr(v vg.TextDecoration) *vg.TextDecoration { return &v }

// applyInlineStyle parses a style="..." attribute and layers it onto the
// node. Inline declarations apply before presentation attributes, so a
// presentation attribute written on the same element loses, matching
// the CSS priority order for SVG.
func applyInlineStyle(base *vg.NodeBase, style string, warn vg.Warn) {
	var a vg.StyleAttrs
	any := false
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		colon := strings.IndexByte(decl, ':')
		if colon < 0 {
			warn.Warnf("svg: malformed style declaration %q", decl)
			continue
		}
		prop := strings.TrimSpace(decl[:colon])
		value := strings.TrimSpace(decl[colon+1:])
		if !applyDecl(&a, prop, value, warn) {
			warn.Warnf("svg: unsupported style property %q", prop)
			continue
		}
		any = true
	}
	if any {
		base.ApplyStyle(&a)
	}
}

// parseStylesheet parses the content of a <style> element into rules.
// Only the selector forms the resolver can index survive: tag, .class,
// tag.class, #id and comma lists of those. Anything more structural is
// skipped with a warning.
func parseStylesheet(sheet *vg.Stylesheet, css string, warn vg.Warn) {
	parsed, err := parser.Parse(css)
	if err != nil {
		warn.Warnf("svg: stylesheet parse error: %v", err)
		return
	}
	for _, rule := range parsed.Rules {
		if len(rule.Selectors) == 0 {
			// At-rules (media, font-face) have no plain selectors.
			warn.Warnf("svg: skipping unsupported stylesheet rule %q", rule.Prelude)
			continue
		}
		var attrs vg.StyleAttrs
		any := false
		for _, decl := range rule.Declarations {
			if !applyDecl(&attrs, decl.Property, decl.Value, warn) {
				warn.Warnf("svg: unsupported style property %q", decl.Property)
				continue
			}
			any = true
		}
		if !any {
			continue
		}
		for _, sel := range rule.Selectors {
			r, ok := parseSelector(sel)
			if !ok {
				warn.Warnf("svg: skipping unsupported selector %q", sel)
				continue
			}
			r.Attrs = attrs
			sheet.Add(r)
		}
	}
}

// parseSelector parses one simple selector: tag, .class, tag.class or
// #id. Combinators, attribute selectors and pseudo-classes are out.
func parseSelector(sel string) (vg.Rule, bool) {
	sel = strings.TrimSpace(sel)
	if sel == "" || strings.ContainsAny(sel, " >+~[]():") {
		return vg.Rule{}, false
	}
	if strings.HasPrefix(sel, "#") {
		id := sel[1:]
		if id == "" || strings.ContainsAny(id, ".#") {
			return vg.Rule{}, false
		}
		return vg.Rule{ID: id}, true
	}
	tag, class, hasClass := strings.Cut(sel, ".")
	if strings.ContainsAny(tag, ".#") || strings.ContainsAny(class, ".#") {
		return vg.Rule{}, false
	}
	if hasClass && class == "" {
		return vg.Rule{}, false
	}
	return vg.Rule{Tag: tag, Class: class}, true
}
