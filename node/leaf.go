package node

import (
	"image"
	"image/color"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/text"
)

// Color fills a rectangle with a solid color.
type Color struct {
	color geom.Color
	rect  geom.Rect
}

// NewColor returns a node painting rect with c.
func NewColor(c geom.Color, rect geom.Rect) *Color {
	return &Color{color: c, rect: rect}
}

func (n *Color) Kind() Kind        { return KindColor }
func (n *Color) Bounds() geom.Rect { return n.rect }
func (n *Color) Color() geom.Color { return n.color }

func (n *Color) OpaqueRect() (geom.Rect, bool) {
	if !n.color.IsOpaque() || n.rect.IsEmpty() {
		return geom.Rect{}, false
	}
	return n.rect, true
}

// Texture draws an image scaled to a rectangle.
type Texture struct {
	img    image.Image
	rect   geom.Rect
	filter Filter
	opaque bool
	state  geom.ColorState
}

// Filter selects how a texture is sampled when it is scaled.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
)

func (f Filter) String() string {
	if f == FilterNearest {
		return "nearest"
	}
	return "linear"
}

// NewTexture returns a node drawing img into rect. The image is assumed to
// be in sRGB.
func NewTexture(img image.Image, rect geom.Rect) *Texture {
	return &Texture{img: img, rect: rect, opaque: imageIsOpaque(img), state: geom.ColorStateSRGB}
}

// NewTextureScale is like NewTexture with an explicit sampling filter.
func NewTextureScale(img image.Image, rect geom.Rect, filter Filter) *Texture {
	t := NewTexture(img, rect)
	t.filter = filter
	return t
}

func (n *Texture) Kind() Kind                  { return KindTexture }
func (n *Texture) Bounds() geom.Rect           { return n.rect }
func (n *Texture) Image() image.Image          { return n.img }
func (n *Texture) Filter() Filter              { return n.filter }
func (n *Texture) ColorState() geom.ColorState { return n.state }

// WithColorState returns a copy of n whose pixels are interpreted in cs.
func (n *Texture) WithColorState(cs geom.ColorState) *Texture {
	t := *n
	t.state = cs
	return &t
}

func (n *Texture) OpaqueRect() (geom.Rect, bool) {
	if !n.opaque || n.rect.IsEmpty() {
		return geom.Rect{}, false
	}
	return n.rect, true
}

func imageIsOpaque(img image.Image) bool {
	if img == nil {
		return false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel:
		return true
	}
	return false
}

// Text draws a run of shaped glyphs.
// The glyph positions are relative to the origin, which is the baseline
// start of the run.
type Text struct {
	font   *text.Font
	glyphs []text.Glyph
	color  geom.Color
	origin geom.Point
	size   float64
	bounds geom.Rect
}

// NewText returns a node drawing glyphs shaped from font at size with
// their baseline starting at origin. A run without glyphs has empty
// bounds.
func NewText(font *text.Font, glyphs []text.Glyph, c geom.Color, origin geom.Point, size float64) *Text {
	n := &Text{font: font, glyphs: glyphs, color: c, origin: origin, size: size}
	if font != nil && len(glyphs) > 0 {
		n.bounds = font.Bounds(glyphs, size, origin)
	}
	return n
}

func (n *Text) Kind() Kind        { return KindText }
func (n *Text) Bounds() geom.Rect { return n.bounds }

// Text nodes never claim opaque pixels.
func (n *Text) OpaqueRect() (geom.Rect, bool) { return geom.Rect{}, false }

func (n *Text) Font() *text.Font     { return n.font }
func (n *Text) Glyphs() []text.Glyph { return n.glyphs }
func (n *Text) Color() geom.Color    { return n.color }
func (n *Text) Origin() geom.Point   { return n.origin }
func (n *Text) Size() float64        { return n.size }
