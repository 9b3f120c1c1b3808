package ops

import (
	"image"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/clip"
)

// Blend selects how shader output is combined with the target.
type Blend uint8

const (
	BlendOver Blend = iota
	BlendNone
	BlendAdd
	BlendClear
)

var blendNames = [...]string{
	BlendOver:  "over",
	BlendNone:  "none",
	BlendAdd:   "add",
	BlendClear: "clear",
}

func (b Blend) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return "unknown"
}

// LoadOp says what happens to the target contents when a pass begins.
type LoadOp uint8

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

func (l LoadOp) String() string {
	switch l {
	case LoadOpLoad:
		return "load"
	case LoadOpClear:
		return "clear"
	case LoadOpDontCare:
		return "dont-care"
	}
	return "unknown"
}

// PassType distinguishes passes rendering to the final target from
// passes rendering into intermediate images.
type PassType uint8

const (
	PassPresent PassType = iota
	PassExport
	PassOffscreen
)

func (t PassType) String() string {
	switch t {
	case PassPresent:
		return "present"
	case PassExport:
		return "export"
	case PassOffscreen:
		return "offscreen"
	}
	return "unknown"
}

// Filter is the texture sampling filter.
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

// MaskMode selects which channel of the mask image is used.
type MaskMode uint8

const (
	MaskAlpha MaskMode = iota
	MaskInvertedAlpha
	MaskLuminance
	MaskInvertedLuminance
)

var maskModeNames = [...]string{
	MaskAlpha:             "alpha",
	MaskInvertedAlpha:     "inverted-alpha",
	MaskLuminance:         "luminance",
	MaskInvertedLuminance: "inverted-luminance",
}

func (m MaskMode) String() string {
	if int(m) < len(maskModeNames) {
		return maskModeNames[m]
	}
	return "unknown"
}

// ParseMaskMode is the inverse of MaskMode.String.
func ParseMaskMode(s string) (MaskMode, bool) {
	for i, name := range maskModeNames {
		if name == s {
			return MaskMode(i), true
		}
	}
	return MaskAlpha, false
}

// GlobalsOp uploads the uniforms shared by all following shader ops:
// the matrix from scaled to normalized device coordinates, the scale
// from basic to scaled coordinates and the clip in basic coordinates.
type GlobalsOp struct {
	MVP    geom.Matrix
	ScaleX float64
	ScaleY float64
	Clip   geom.RoundedRect
}

func (*GlobalsOp) Kind() Kind   { return KindGlobals }
func (*GlobalsOp) Stage() Stage { return StageCommand }
func (*GlobalsOp) Finish()      {}

func (o *GlobalsOp) Print(p *Printer) {
	p.Line("globals", "scale %g,%g clip %s", o.ScaleX, o.ScaleY, fmtRounded(o.Clip))
}

// ScissorOp sets the device scissor rectangle.
type ScissorOp struct {
	Rect geom.IRect
}

func (*ScissorOp) Kind() Kind   { return KindScissor }
func (*ScissorOp) Stage() Stage { return StageCommand }
func (*ScissorOp) Finish()      {}

func (o *ScissorOp) Print(p *Printer) {
	p.Line("scissor", "%s", fmtIRect(o.Rect))
}

// BlendOp sets the blend mode.
type BlendOp struct {
	Blend Blend
}

func (*BlendOp) Kind() Kind   { return KindBlend }
func (*BlendOp) Stage() Stage { return StageCommand }
func (*BlendOp) Finish()      {}

func (o *BlendOp) Print(p *Printer) {
	p.Line("blend", "%s", o.Blend)
}

// ClearOp overwrites a device rectangle with a color. It ignores clip,
// scissor and blend state.
type ClearOp struct {
	Rect  geom.IRect
	Color geom.Color
}

func (*ClearOp) Kind() Kind   { return KindClear }
func (*ClearOp) Stage() Stage { return StageCommand }
func (*ClearOp) Finish()      {}

func (o *ClearOp) Print(p *Printer) {
	p.Line("clear", "%s %s", fmtIRect(o.Rect), fmtColor(o.Color))
}

// BeginPassOp starts rendering into Target, restricted to Area.
type BeginPassOp struct {
	Target     ImageID
	Area       geom.IRect
	Load       LoadOp
	ClearColor geom.Color
	Pass       PassType
}

func (*BeginPassOp) Kind() Kind   { return KindBeginPass }
func (*BeginPassOp) Stage() Stage { return StageBeginPass }
func (*BeginPassOp) Finish()      {}

func (o *BeginPassOp) Print(p *Printer) {
	if o.Load == LoadOpClear {
		p.Line("begin-pass", "%s %s %s %s %s", p.image(o.Target), o.Pass, fmtIRect(o.Area), o.Load, fmtColor(o.ClearColor))
	} else {
		p.Line("begin-pass", "%s %s %s %s", p.image(o.Target), o.Pass, fmtIRect(o.Area), o.Load)
	}
	p.indent++
}

// EndPassOp finishes the pass started by the matching BeginPassOp.
type EndPassOp struct {
	Target ImageID
	Pass   PassType
}

func (*EndPassOp) Kind() Kind   { return KindEndPass }
func (*EndPassOp) Stage() Stage { return StageEndPass }
func (*EndPassOp) Finish()      {}

func (o *EndPassOp) Print(p *Printer) {
	if p.indent > 0 {
		p.indent--
	}
	p.Line("end-pass", "%s %s", p.image(o.Target), o.Pass)
}

// ColorOp fills Rect, in basic coordinates, with a solid color. The alpha
// of Color includes the opacity in effect when the op was emitted.
type ColorOp struct {
	Clip  clip.ShaderClip
	Rect  geom.Rect
	Color geom.Color
}

func (*ColorOp) Kind() Kind   { return KindColor }
func (*ColorOp) Stage() Stage { return StageShader }
func (*ColorOp) Finish()      {}

func (o *ColorOp) Print(p *Printer) {
	p.Line("color", "%s %s %s", o.Clip, fmtRect(o.Rect), fmtColor(o.Color))
}

// RoundedColorOp fills a rounded rectangle with a solid color.
type RoundedColorOp struct {
	Clip    clip.ShaderClip
	Outline geom.RoundedRect
	Color   geom.Color
}

func (*RoundedColorOp) Kind() Kind   { return KindRoundedColor }
func (*RoundedColorOp) Stage() Stage { return StageShader }
func (*RoundedColorOp) Finish()      {}

func (o *RoundedColorOp) Print(p *Printer) {
	p.Line("rounded-color", "%s %s %s", o.Clip, fmtRounded(o.Outline), fmtColor(o.Color))
}

// TextureOp draws Image stretched so that TexRect maps onto the image
// bounds, restricted to Rect. Both rectangles are in basic coordinates.
type TextureOp struct {
	Clip    clip.ShaderClip
	Rect    geom.Rect
	TexRect geom.Rect
	Image   ImageID
	Filter  Filter
}

func (*TextureOp) Kind() Kind   { return KindTexture }
func (*TextureOp) Stage() Stage { return StageShader }
func (*TextureOp) Finish()      {}

func (o *TextureOp) Print(p *Printer) {
	p.Line("texture", "%s %s %s %s", o.Clip, fmtRect(o.Rect), p.image(o.Image), fmtRect(o.TexRect))
}

// ConvertOp is a TextureOp that also converts between color states and
// applies an opacity.
type ConvertOp struct {
	Clip    clip.ShaderClip
	Rect    geom.Rect
	TexRect geom.Rect
	Image   ImageID
	From    geom.ColorState
	To      geom.ColorState
	Opacity float64
}

func (*ConvertOp) Kind() Kind   { return KindConvert }
func (*ConvertOp) Stage() Stage { return StageShader }
func (*ConvertOp) Finish()      {}

func (o *ConvertOp) Print(p *Printer) {
	p.Line("convert", "%s %s %s %s %s->%s %g", o.Clip, fmtRect(o.Rect), p.image(o.Image), fmtRect(o.TexRect), o.From, o.To, o.Opacity)
}

// UploadOp fills Image with pixels produced on the CPU. Draw receives a
// zeroed image of the image's size.
type UploadOp struct {
	Image ImageID
	Draw  func(dst *image.RGBA)
}

func (*UploadOp) Kind() Kind   { return KindUpload }
func (*UploadOp) Stage() Stage { return StageUpload }

func (o *UploadOp) Finish() {
	o.Draw = nil
}

func (o *UploadOp) Print(p *Printer) {
	p.Line("upload", "%s", p.image(o.Image))
}

// MaskOp draws Source modulated by a channel of Mask.
type MaskOp struct {
	Clip       clip.ShaderClip
	Rect       geom.Rect
	Source     ImageID
	SourceRect geom.Rect
	Mask       ImageID
	MaskRect   geom.Rect
	Mode       MaskMode
	Opacity    float64
}

func (*MaskOp) Kind() Kind   { return KindMask }
func (*MaskOp) Stage() Stage { return StageShader }
func (*MaskOp) Finish()      {}

func (o *MaskOp) Print(p *Printer) {
	p.Line("mask", "%s %s %s %s %s", o.Clip, fmtRect(o.Rect), p.image(o.Source), p.image(o.Mask), o.Mode)
}

// PatternOp fills Rect with a pattern evaluated per pixel on the GPU.
// Data holds the encoded pattern program.
type PatternOp struct {
	Clip    clip.ShaderClip
	Rect    geom.Rect
	Data    []byte
	Opacity float64
}

func (*PatternOp) Kind() Kind   { return KindPattern }
func (*PatternOp) Stage() Stage { return StageShader }

func (o *PatternOp) Finish() {
	o.Data = nil
}

func (o *PatternOp) Print(p *Printer) {
	p.Line("pattern", "%s %s %d bytes", o.Clip, fmtRect(o.Rect), len(o.Data))
}
