package cpu

import (
	"image"
	"math"

	"github.com/gogpu/gsk/node"
)

type rgb struct{ r, g, b float64 }

// blendLayers composites top onto bottom in place with mode, using the
// separable and non-separable formulas of the W3C compositing model on
// premultiplied pixels.
func blendLayers(bottom, top *image.RGBA, mode node.BlendMode) {
	for i := 0; i+3 < len(bottom.Pix); i += 4 {
		sa := float64(top.Pix[i+3]) / 255
		if sa == 0 {
			continue
		}
		da := float64(bottom.Pix[i+3]) / 255
		s := rgb{float64(top.Pix[i]) / 255, float64(top.Pix[i+1]) / 255, float64(top.Pix[i+2]) / 255}
		d := rgb{float64(bottom.Pix[i]) / 255, float64(bottom.Pix[i+1]) / 255, float64(bottom.Pix[i+2]) / 255}

		var mixed rgb
		if da > 0 {
			cs := rgb{s.r / sa, s.g / sa, s.b / sa}
			cb := rgb{d.r / da, d.g / da, d.b / da}
			mixed = blendColor(cb, cs, mode)
		}
		out := func(sc, dc, m float64) uint8 {
			return unit8(float32(sc*(1-da) + dc*(1-sa) + sa*da*m))
		}
		bottom.Pix[i] = out(s.r, d.r, mixed.r)
		bottom.Pix[i+1] = out(s.g, d.g, mixed.g)
		bottom.Pix[i+2] = out(s.b, d.b, mixed.b)
		bottom.Pix[i+3] = unit8(float32(sa + da*(1-sa)))
	}
}

// blendColor returns B(cb, cs) for straight colors.
func blendColor(cb, cs rgb, mode node.BlendMode) rgb {
	switch mode {
	case node.BlendColor:
		return setLum(cs, lum(cb))
	case node.BlendHue:
		return setLum(setSat(cs, sat(cb)), lum(cb))
	case node.BlendSaturation:
		return setLum(setSat(cb, sat(cs)), lum(cb))
	case node.BlendLuminosity:
		return setLum(cb, lum(cs))
	}
	f := separable(mode)
	return rgb{f(cb.r, cs.r), f(cb.g, cs.g), f(cb.b, cs.b)}
}

func separable(mode node.BlendMode) func(b, s float64) float64 {
	switch mode {
	case node.BlendMultiply:
		return func(b, s float64) float64 { return b * s }
	case node.BlendScreen:
		return screen
	case node.BlendOverlay:
		return func(b, s float64) float64 { return hardLight(s, b) }
	case node.BlendDarken:
		return math.Min
	case node.BlendLighten:
		return math.Max
	case node.BlendColorDodge:
		return func(b, s float64) float64 {
			switch {
			case b == 0:
				return 0
			case s >= 1:
				return 1
			}
			return math.Min(1, b/(1-s))
		}
	case node.BlendColorBurn:
		return func(b, s float64) float64 {
			switch {
			case b >= 1:
				return 1
			case s <= 0:
				return 0
			}
			return 1 - math.Min(1, (1-b)/s)
		}
	case node.BlendHardLight:
		return func(b, s float64) float64 { return hardLight(b, s) }
	case node.BlendSoftLight:
		return softLight
	case node.BlendDifference:
		return func(b, s float64) float64 { return math.Abs(b - s) }
	case node.BlendExclusion:
		return func(b, s float64) float64 { return b + s - 2*b*s }
	}
	return func(_, s float64) float64 { return s }
}

func screen(b, s float64) float64 { return b + s - b*s }

func hardLight(b, s float64) float64 {
	if s <= 0.5 {
		return b * 2 * s
	}
	return screen(b, 2*s-1)
}

func softLight(b, s float64) float64 {
	if s <= 0.5 {
		return b - (1-2*s)*b*(1-b)
	}
	var d float64
	if b <= 0.25 {
		d = ((16*b-12)*b + 4) * b
	} else {
		d = math.Sqrt(b)
	}
	return b + (2*s-1)*(d-b)
}

func lum(c rgb) float64 { return 0.3*c.r + 0.59*c.g + 0.11*c.b }

func clipColor(c rgb) rgb {
	l := lum(c)
	n := math.Min(c.r, math.Min(c.g, c.b))
	x := math.Max(c.r, math.Max(c.g, c.b))
	if n < 0 {
		c = rgb{l + (c.r-l)*l/(l-n), l + (c.g-l)*l/(l-n), l + (c.b-l)*l/(l-n)}
	}
	if x > 1 {
		c = rgb{l + (c.r-l)*(1-l)/(x-l), l + (c.g-l)*(1-l)/(x-l), l + (c.b-l)*(1-l)/(x-l)}
	}
	return c
}

func setLum(c rgb, l float64) rgb {
	d := l - lum(c)
	return clipColor(rgb{c.r + d, c.g + d, c.b + d})
}

func sat(c rgb) float64 {
	return math.Max(c.r, math.Max(c.g, c.b)) - math.Min(c.r, math.Min(c.g, c.b))
}

func setSat(c rgb, s float64) rgb {
	ch := []*float64{&c.r, &c.g, &c.b}
	// order channels: min, mid, max
	if *ch[0] > *ch[1] {
		ch[0], ch[1] = ch[1], ch[0]
	}
	if *ch[1] > *ch[2] {
		ch[1], ch[2] = ch[2], ch[1]
	}
	if *ch[0] > *ch[1] {
		ch[0], ch[1] = ch[1], ch[0]
	}
	mn, mid, mx := ch[0], ch[1], ch[2]
	if *mx > *mn {
		*mid = (*mid - *mn) * s / (*mx - *mn)
		*mx = s
	} else {
		*mid, *mx = 0, 0
	}
	*mn = 0
	return c
}

// crossFade mixes end into start in place: start·(1-p) + end·p.
func crossFade(start, end *image.RGBA, p float64) {
	q := float32(p)
	for i := range start.Pix {
		s, e := float32(start.Pix[i]), float32(end.Pix[i])
		start.Pix[i] = uint8(s + (e-s)*q + 0.5)
	}
}

// applyMask multiplies src in place by the coverage derived from mask.
func applyMask(src, mask *image.RGBA, mode node.MaskMode) {
	for i := 0; i+3 < len(src.Pix); i += 4 {
		var v float32
		switch mode {
		case node.MaskAlpha, node.MaskInvertedAlpha:
			v = float32(mask.Pix[i+3]) / 255
		case node.MaskLuminance, node.MaskInvertedLuminance:
			// premultiplied channels give luminance times alpha
			v = (0.2126*float32(mask.Pix[i]) + 0.7152*float32(mask.Pix[i+1]) + 0.0722*float32(mask.Pix[i+2])) / 255
		}
		if mode == node.MaskInvertedAlpha || mode == node.MaskInvertedLuminance {
			v = 1 - v
		}
		for c := 0; c < 4; c++ {
			src.Pix[i+c] = uint8(float32(src.Pix[i+c])*v + 0.5)
		}
	}
}
