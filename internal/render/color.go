package render

import (
	"fmt"
	"image/color"
	"math"
)

// ColorTheme selects a predefined color scheme for deviation rendering.
type ColorTheme string

const (
	ClassicTheme   ColorTheme = "classic"   // Blue to red transition
	GrayscaleTheme ColorTheme = "grayscale" // Black to white transition
	ThermalTheme   ColorTheme = "thermal"   // Black to red to yellow to white

	defaultColorMapSize = 256
)

// invalidColor marks bins without a defined dB level (non-positive power).
var invalidColor = color.RGBA{A: 255}

// ColorMapper maps a deviation value onto a pre-computed gradient between
// fixed bounds.
type ColorMapper struct {
	colorMap     []color.Color
	min          float64
	unitPerIndex float64
}

// NewColorMapper pre-computes a gradient for values in [minVal, maxVal].
func NewColorMapper(theme ColorTheme, minVal, maxVal float64) (*ColorMapper, error) {
	fn, err := themeFunc(theme)
	if err != nil {
		return nil, err
	}
	if maxVal <= minVal {
		return nil, fmt.Errorf("invalid color bounds: min=%f, max=%f", minVal, maxVal)
	}

	cm := &ColorMapper{
		colorMap:     make([]color.Color, defaultColorMapSize),
		min:          minVal,
		unitPerIndex: (maxVal - minVal) / float64(defaultColorMapSize-1),
	}
	for i := range cm.colorMap {
		cm.colorMap[i] = fn(float64(i) / float64(defaultColorMapSize-1))
	}
	return cm, nil
}

// Color returns the gradient color for a value, clamping out-of-range input
// and mapping NaN to the invalid-bin color.
func (cm *ColorMapper) Color(v float64) color.Color {
	if math.IsNaN(v) {
		return invalidColor
	}

	index := int((v - cm.min) / cm.unitPerIndex)
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= len(cm.colorMap) {
		return cm.colorMap[len(cm.colorMap)-1]
	}
	return cm.colorMap[index]
}

// HSV represents a color in HSV (Hue, Saturation, Value) space.
type HSV struct {
	H float64 // Hue angle in degrees [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value/Brightness [0-1]
}

// RGB converts HSV to RGB color space.
func (hsv HSV) RGB() color.Color {
	if hsv.S <= 0 {
		v := uint8(hsv.V * 255)
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}

	h := hsv.H
	if h >= 360 {
		h -= 360
	}
	h /= 60

	i := int(h)
	f := h - float64(i)

	v := uint8(hsv.V * 255)
	p := uint8((hsv.V * (1 - hsv.S)) * 255)
	q := uint8((hsv.V * (1 - (hsv.S * f))) * 255)
	t := uint8((hsv.V * (1 - (hsv.S * (1 - f)))) * 255)

	switch i {
	case 0:
		return color.RGBA{R: v, G: t, B: p, A: 255}
	case 1:
		return color.RGBA{R: q, G: v, B: p, A: 255}
	case 2:
		return color.RGBA{R: p, G: v, B: t, A: 255}
	case 3:
		return color.RGBA{R: p, G: q, B: v, A: 255}
	case 4:
		return color.RGBA{R: t, G: p, B: v, A: 255}
	default:
		return color.RGBA{R: v, G: p, B: q, A: 255}
	}
}

func themeFunc(theme ColorTheme) (func(float64) color.Color, error) {
	switch theme {
	case ClassicTheme, "":
		return func(v float64) color.Color {
			return HSV{
				H: 240 - (v * 240),
				S: 0.9 + (v * 0.1),
				V: math.Pow(v, 0.7),
			}.RGB()
		}, nil

	case GrayscaleTheme:
		return func(v float64) color.Color {
			g := uint8(math.Pow(v, 0.7) * 255)
			return color.RGBA{R: g, G: g, B: g, A: 255}
		}, nil

	case ThermalTheme:
		return func(v float64) color.Color {
			switch {
			case v < 0.33:
				return color.RGBA{R: uint8(v * 3 * 255), A: 255}
			case v < 0.66:
				return color.RGBA{R: 255, G: uint8((v - 0.33) * 3 * 255), A: 255}
			default:
				return color.RGBA{R: 255, G: 255, B: uint8((v - 0.66) * 3 * 255), A: 255}
			}
		}, nil

	default:
		return nil, fmt.Errorf("unknown color theme '%s'", theme)
	}
}
