package scene

import (
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"

	"github.com/gogpu/vg"
)

// FontQuery is the face-selection query attached to a text span: an
// ordered family list plus the aspect (style, weight) to match. Query
// converts it to a fontscan.Query for use with a fontscan.FontMap.
type FontQuery struct {
	// Families is the ordered font family stack.
	Families []string

	// Style is the requested slant.
	Style vg.FontStyle

	// Weight is the requested weight, one of the nine absolute steps.
	Weight vg.FontWeight
}

// Query converts to a fontscan query.
func (q FontQuery) Query() fontscan.Query {
	return fontscan.Query{
		Families: q.Families,
		Aspect:   q.Aspect(),
	}
}

// Aspect converts the style and weight to a typesetting font aspect.
func (q FontQuery) Aspect() font.Aspect {
	a := font.Aspect{
		Style:   font.StyleNormal,
		Weight:  font.Weight(q.Weight),
		Stretch: font.StretchNormal,
	}
	if q.Style == vg.StyleItalic || q.Style == vg.StyleOblique {
		// typesetting has no separate oblique; italic is the closest
		// match for both.
		a.Style = font.StyleItalic
	}
	if !q.Weight.IsAbsolute() {
		a.Weight = font.WeightNormal
	}
	return a
}
