package geom

import (
	"image/color"
	"math"
)

// Color is a straight-alpha RGBA color with float32 channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
)

// RGBA creates a color from straight-alpha components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// IsOpaque reports whether alpha is 1.
func (c Color) IsOpaque() bool {
	return c.A >= 1
}

// IsClear reports whether alpha is 0.
func (c Color) IsClear() bool {
	return c.A <= 0
}

// WithAlpha returns c with alpha multiplied by a.
func (c Color) WithAlpha(a float32) Color {
	c.A *= a
	return c
}

// Premultiplied returns the color with channels multiplied by alpha.
func (c Color) Premultiplied() [4]float32 {
	return [4]float32{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// RGBA64 converts to a premultiplied image/color value.
func (c Color) RGBA64() color.RGBA64 {
	p := c.Premultiplied()
	return color.RGBA64{
		R: unit16(p[0]),
		G: unit16(p[1]),
		B: unit16(p[2]),
		A: unit16(p[3]),
	}
}

// NRGBA converts to an 8-bit straight-alpha value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

// ColorFromStd converts any image/color value.
func ColorFromStd(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

func unit8(v float32) uint8 {
	return uint8(math.Round(float64(clamp01(v)) * 0xff))
}

func unit16(v float32) uint16 {
	return uint16(math.Round(float64(clamp01(v)) * 0xffff))
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ColorState identifies the color space pixels are stored in.
type ColorState uint8

// Supported color states.
const (
	ColorStateSRGB ColorState = iota
	ColorStateSRGBLinear
)

// String returns the color state name.
func (cs ColorState) String() string {
	switch cs {
	case ColorStateSRGB:
		return "srgb"
	case ColorStateSRGBLinear:
		return "srgb-linear"
	default:
		return "unknown"
	}
}

// Convert maps a color from cs into dst.
func (cs ColorState) Convert(c Color, dst ColorState) Color {
	if cs == dst {
		return c
	}
	var f func(float32) float32
	switch {
	case cs == ColorStateSRGB && dst == ColorStateSRGBLinear:
		f = srgbToLinear
	case cs == ColorStateSRGBLinear && dst == ColorStateSRGB:
		f = linearToSRGB
	default:
		return c
	}
	return Color{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

func linearToSRGB(v float32) float32 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return float32(1.055*math.Pow(float64(v), 1/2.4) - 0.055)
}
