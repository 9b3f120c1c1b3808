package node

import (
	"math"

	"github.com/gogpu/gsk/geom"
)

// Opacity draws its child with reduced alpha.
type Opacity struct {
	child   Node
	opacity float64
}

// NewOpacity returns a node drawing child with the given opacity, clamped
// to [0, 1].
func NewOpacity(child Node, opacity float64) *Opacity {
	return &Opacity{child: child, opacity: math.Max(0, math.Min(1, opacity))}
}

func (n *Opacity) Kind() Kind        { return KindOpacity }
func (n *Opacity) Bounds() geom.Rect { return n.child.Bounds() }
func (n *Opacity) Child() Node       { return n.child }
func (n *Opacity) Opacity() float64  { return n.opacity }

func (n *Opacity) OpaqueRect() (geom.Rect, bool) {
	if n.opacity < 1 {
		return geom.Rect{}, false
	}
	return n.child.OpaqueRect()
}

// BlurExtent returns how far a blur of the given radius spreads pixels.
func BlurExtent(radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Ceil(radius * 1.5)
}

// ShadowSpec is one shadow cast by a Shadow node.
type ShadowSpec struct {
	Color  geom.Color
	DX, DY float64
	Radius float64
}

// Shadow draws blurred, offset, tinted copies of its child below it.
type Shadow struct {
	child   Node
	shadows []ShadowSpec
	bounds  geom.Rect
}

func NewShadow(child Node, shadows ...ShadowSpec) *Shadow {
	cb := child.Bounds()
	b := cb
	for _, s := range shadows {
		e := BlurExtent(s.Radius)
		b = b.Union(cb.Offset(s.DX, s.DY).Inset(-e))
	}
	return &Shadow{child: child, shadows: shadows, bounds: b}
}

func (n *Shadow) Kind() Kind            { return KindShadow }
func (n *Shadow) Bounds() geom.Rect     { return n.bounds }
func (n *Shadow) Child() Node           { return n.child }
func (n *Shadow) Shadows() []ShadowSpec { return n.shadows }

// The child is drawn on top of its shadows, so its opaque area survives.
func (n *Shadow) OpaqueRect() (geom.Rect, bool) { return n.child.OpaqueRect() }

// Blur draws a gaussian blurred copy of its child.
type Blur struct {
	child  Node
	radius float64
}

func NewBlur(child Node, radius float64) *Blur {
	return &Blur{child: child, radius: math.Max(0, radius)}
}

func (n *Blur) Kind() Kind      { return KindBlur }
func (n *Blur) Child() Node     { return n.child }
func (n *Blur) Radius() float64 { return n.radius }

func (n *Blur) Bounds() geom.Rect {
	return n.child.Bounds().Inset(-BlurExtent(n.radius))
}

func (n *Blur) OpaqueRect() (geom.Rect, bool) {
	o, ok := n.child.OpaqueRect()
	if !ok {
		return geom.Rect{}, false
	}
	o = o.Inset(BlurExtent(n.radius))
	return o, !o.IsEmpty()
}

// BlendMode selects how the top child of a Blend node is combined with the
// bottom one.
type BlendMode uint8

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
	BlendColor
	BlendHue
	BlendSaturation
	BlendLuminosity
)

var blendNames = [...]string{
	BlendNormal:     "normal",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendDarken:     "darken",
	BlendLighten:    "lighten",
	BlendColorDodge: "color-dodge",
	BlendColorBurn:  "color-burn",
	BlendHardLight:  "hard-light",
	BlendSoftLight:  "soft-light",
	BlendDifference: "difference",
	BlendExclusion:  "exclusion",
	BlendColor:      "color",
	BlendHue:        "hue",
	BlendSaturation: "saturation",
	BlendLuminosity: "luminosity",
}

func (m BlendMode) String() string {
	if int(m) < len(blendNames) {
		return blendNames[m]
	}
	return "unknown"
}

// ParseBlendMode returns the mode named s.
func ParseBlendMode(s string) (BlendMode, bool) {
	for i, name := range blendNames {
		if name == s {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

// Blend combines two children with a blend mode.
type Blend struct {
	bottom, top Node
	mode        BlendMode
}

func NewBlend(bottom, top Node, mode BlendMode) *Blend {
	return &Blend{bottom: bottom, top: top, mode: mode}
}

func (n *Blend) Kind() Kind      { return KindBlend }
func (n *Blend) Bottom() Node    { return n.bottom }
func (n *Blend) Top() Node       { return n.top }
func (n *Blend) Mode() BlendMode { return n.mode }

func (n *Blend) Bounds() geom.Rect {
	return n.bottom.Bounds().Union(n.top.Bounds())
}

func (n *Blend) OpaqueRect() (geom.Rect, bool) {
	if n.mode != BlendNormal {
		return geom.Rect{}, false
	}
	b, okb := n.bottom.OpaqueRect()
	t, okt := n.top.OpaqueRect()
	switch {
	case okb && okt:
		return geom.Coverage(b, t), true
	case okb:
		return b, true
	case okt:
		return t, true
	}
	return geom.Rect{}, false
}

// CrossFade interpolates between two children.
type CrossFade struct {
	start, end Node
	progress   float64
}

// NewCrossFade returns a node showing start at progress 0 and end at 1.
func NewCrossFade(start, end Node, progress float64) *CrossFade {
	return &CrossFade{start: start, end: end, progress: math.Max(0, math.Min(1, progress))}
}

func (n *CrossFade) Kind() Kind        { return KindCrossFade }
func (n *CrossFade) Start() Node       { return n.start }
func (n *CrossFade) End() Node         { return n.end }
func (n *CrossFade) Progress() float64 { return n.progress }

func (n *CrossFade) Bounds() geom.Rect {
	return n.start.Bounds().Union(n.end.Bounds())
}

// Only pixels opaque in both children stay opaque throughout the fade.
func (n *CrossFade) OpaqueRect() (geom.Rect, bool) {
	s, ok := n.start.OpaqueRect()
	if !ok {
		return geom.Rect{}, false
	}
	e, ok := n.end.OpaqueRect()
	return opaqueIntersect(s, ok, e)
}

// MaskMode selects which channel of the mask node modulates the source.
type MaskMode uint8

const (
	MaskAlpha MaskMode = iota
	MaskInvertedAlpha
	MaskLuminance
	MaskInvertedLuminance
)

// Mask draws source modulated by mask.
type Mask struct {
	source, mask Node
	mode         MaskMode
}

func NewMask(source, mask Node, mode MaskMode) *Mask {
	return &Mask{source: source, mask: mask, mode: mode}
}

func (n *Mask) Kind() Kind                    { return KindMask }
func (n *Mask) Source() Node                  { return n.source }
func (n *Mask) MaskNode() Node                { return n.mask }
func (n *Mask) Mode() MaskMode                { return n.mode }
func (n *Mask) OpaqueRect() (geom.Rect, bool) { return geom.Rect{}, false }

func (n *Mask) Bounds() geom.Rect {
	if n.mode == MaskInvertedAlpha || n.mode == MaskInvertedLuminance {
		return n.source.Bounds()
	}
	b, _ := n.source.Bounds().Intersect(n.mask.Bounds())
	return b
}
