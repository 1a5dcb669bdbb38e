package vg

// BlendMode represents a compositing blend mode for a node's layer.
// The zero value is BlendNormal, so an unset mode means ordinary
// source-over compositing.
type BlendMode uint32

// Blend mode constants following the CSS mix-blend-mode set.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// String returns a human-readable name for the blend mode.
func (mode BlendMode) String() string {
	switch mode {
	case BlendNormal:
		return "Normal"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendOverlay:
		return "Overlay"
	case BlendDarken:
		return "Darken"
	case BlendLighten:
		return "Lighten"
	case BlendColorDodge:
		return "ColorDodge"
	case BlendColorBurn:
		return "ColorBurn"
	case BlendHardLight:
		return "HardLight"
	case BlendSoftLight:
		return "SoftLight"
	case BlendDifference:
		return "Difference"
	case BlendExclusion:
		return "Exclusion"
	case BlendHue:
		return "Hue"
	case BlendSaturation:
		return "Saturation"
	case BlendColor:
		return "Color"
	case BlendLuminosity:
		return "Luminosity"
	default:
		return "Unknown"
	}
}

// TintMode represents how a whole-artwork tint color composites over the
// finished drawing (Android vector drawable tinting semantics).
type TintMode uint32

// Tint mode constants. The Android default is TintSrcIn.
const (
	TintSrcOver TintMode = iota
	TintSrcIn
	TintSrcATop
	TintMultiply
	TintScreen
	TintPlus
)

// String returns a human-readable name for the tint mode.
func (mode TintMode) String() string {
	switch mode {
	case TintSrcOver:
		return "SrcOver"
	case TintSrcIn:
		return "SrcIn"
	case TintSrcATop:
		return "SrcATop"
	case TintMultiply:
		return "Multiply"
	case TintScreen:
		return "Screen"
	case TintPlus:
		return "Plus"
	default:
		return "Unknown"
	}
}
