// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/clip"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/internal/pattern"
)

func init() {
	Register(BackendSoftware, func() RenderBackend {
		return NewSoftwareBackend()
	})
}

// SoftwareBackend interprets op streams on the CPU.
//
// Every pixel whose center lies inside an op's rectangle, the scissor and
// the shader clip is shaded; there is no anti-aliasing at op edges.
type SoftwareBackend struct {
	mu          sync.Mutex
	initialized bool
}

// NewSoftwareBackend creates a new software backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init initializes the backend.
func (b *SoftwareBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	return nil
}

// Close releases backend resources.
func (b *SoftwareBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = false
}

// Execute runs s against targets.
func (b *SoftwareBackend) Execute(ctx context.Context, s *ops.Stream, targets Targets) error {
	b.mu.Lock()
	ok := b.initialized
	b.mu.Unlock()
	if !ok {
		return ErrNotInitialized
	}

	ex, err := newExecutor(ctx, s, targets)
	if err != nil {
		return err
	}
	if err := ops.Walk(s, ex); err != nil {
		return err
	}
	if ex.target != nil {
		return fmt.Errorf("%w: stream ends inside a pass", ErrUnbalancedPass)
	}
	return nil
}

// executor is the software ops.Commander.
type executor struct {
	ctx    context.Context
	stream *ops.Stream
	images []*image.RGBA

	target   *image.RGBA
	targetCS geom.ColorState
	area     image.Rectangle
	scissor  image.Rectangle
	blend    ops.Blend
	globals  ops.GlobalsOp
	toDevice geom.Matrix
	toBasic  geom.Matrix
}

func newExecutor(ctx context.Context, s *ops.Stream, targets Targets) (*executor, error) {
	ex := &executor{
		ctx:    ctx,
		stream: s,
		images: make([]*image.RGBA, s.NumImages()),
	}
	for i := range ex.images {
		desc := s.Image(ops.ImageID(i))
		if desc.Kind != ops.ImageTarget {
			continue
		}
		img, ok := targets[ops.ImageID(i)]
		if !ok || img == nil {
			return nil, fmt.Errorf("%w: image %d (%s)", ErrMissingTarget, i, desc.Label)
		}
		if b := img.Bounds(); b.Dx() != desc.Width || b.Dy() != desc.Height {
			return nil, fmt.Errorf("%w: image %d is %dx%d, want %dx%d",
				ErrTargetSize, i, b.Dx(), b.Dy(), desc.Width, desc.Height)
		}
		ex.images[i] = img
	}
	return ex, nil
}

// image returns the pixels of id, allocating intermediate images on
// first use.
func (e *executor) image(id ops.ImageID) *image.RGBA {
	if img := e.images[id]; img != nil {
		return img
	}
	desc := e.stream.Image(id)
	img := image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	e.images[id] = img
	return img
}

// Command executes one op.
func (e *executor) Command(s *ops.Stream, id ops.OpID) (ops.OpID, error) {
	next := s.Next(id)
	switch op := s.Op(id).(type) {
	case *ops.UploadOp:
		if err := e.ctx.Err(); err != nil {
			return ops.NoOp, err
		}
		if op.Draw != nil {
			op.Draw(e.image(op.Image))
		}
	case *ops.BeginPassOp:
		if err := e.ctx.Err(); err != nil {
			return ops.NoOp, err
		}
		return next, e.beginPass(op)
	case *ops.EndPassOp:
		if e.target == nil {
			return ops.NoOp, fmt.Errorf("%w: end without begin", ErrUnbalancedPass)
		}
		e.target = nil
	default:
		if e.target == nil {
			return ops.NoOp, fmt.Errorf("%w: %s outside a pass", ErrUnbalancedPass, op.Kind())
		}
		e.command(op)
	}
	return next, nil
}

func (e *executor) beginPass(op *ops.BeginPassOp) error {
	if e.target != nil {
		return fmt.Errorf("%w: nested pass", ErrUnbalancedPass)
	}
	e.target = e.image(op.Target)
	e.targetCS = e.stream.Image(op.Target).ColorState
	e.area = irect(op.Area).Intersect(e.target.Bounds())
	e.scissor = e.area
	e.blend = ops.BlendOver
	e.globals = ops.GlobalsOp{}
	e.toDevice, e.toBasic = geom.Identity(), geom.Identity()

	if op.Load == ops.LoadOpClear {
		fill(e.target, e.area, op.ClearColor)
	}
	return nil
}

func (e *executor) command(op ops.Op) {
	switch op := op.(type) {
	case *ops.GlobalsOp:
		e.setGlobals(*op)
	case *ops.ScissorOp:
		e.scissor = irect(op.Rect).Intersect(e.area)
	case *ops.BlendOp:
		e.blend = op.Blend
	case *ops.ClearOp:
		fill(e.target, irect(op.Rect).Intersect(e.target.Bounds()), op.Color)
	case *ops.ColorOp:
		c := premul(op.Color)
		e.shade(op.Clip, op.Rect, func(geom.Point) [4]float32 { return c })
	case *ops.RoundedColorOp:
		c := premul(op.Color)
		outline := op.Outline
		e.shade(op.Clip, outline.Bounds, func(p geom.Point) [4]float32 {
			if !outline.ContainsPoint(p) {
				return [4]float32{}
			}
			return c
		})
	case *ops.TextureOp:
		src := e.image(op.Image)
		linear := op.Filter == ops.FilterLinear
		e.shade(op.Clip, op.Rect, func(p geom.Point) [4]float32 {
			return sample(src, op.TexRect, p, linear)
		})
	case *ops.ConvertOp:
		src := e.image(op.Image)
		from, to, opacity := op.From, op.To, float32(op.Opacity)
		e.shade(op.Clip, op.Rect, func(p geom.Point) [4]float32 {
			c := unpremul(sample(src, op.TexRect, p, true))
			return premul(from.Convert(c, to).WithAlpha(opacity))
		})
	case *ops.MaskOp:
		src, mask := e.image(op.Source), e.image(op.Mask)
		opacity := float32(op.Opacity)
		e.shade(op.Clip, op.Rect, func(p geom.Point) [4]float32 {
			s := sample(src, op.SourceRect, p, true)
			v := maskValue(sample(mask, op.MaskRect, p, true), op.Mode) * opacity
			return [4]float32{s[0] * v, s[1] * v, s[2] * v, s[3] * v}
		})
	case *ops.PatternOp:
		rec, err := pattern.Decode(op.Data)
		if err != nil {
			return
		}
		c := premul(geom.ColorStateSRGB.Convert(rec.Color, e.targetCS).WithAlpha(float32(op.Opacity)))
		e.shade(op.Clip, op.Rect, func(geom.Point) [4]float32 { return c })
	}
}

// setGlobals derives the mapping between basic and device coordinates.
// The MVP maps scaled coordinates to normalized device coordinates; the
// inverse projection brings those back to pixels.
func (e *executor) setGlobals(g ops.GlobalsOp) {
	e.globals = g
	b := e.target.Bounds()
	proj := geom.Ortho(0, float64(b.Dx()), 0, float64(b.Dy()), -1, 1)
	unproj, _ := proj.Invert()
	m := unproj.Mul(g.MVP).Mul(geom.ScaleMatrix(g.ScaleX, g.ScaleY, 1))

	// Only the z=0 plane matters; decouple z so the inverse is exact.
	m[2], m[6], m[14] = 0, 0, 0
	m[8], m[9], m[10], m[11] = 0, 0, 1, 0
	inv, ok := m.Invert()
	if !ok {
		inv = geom.Matrix{}
	}
	e.toDevice, e.toBasic = m, inv
}

// shade blends fn over every pixel whose center falls inside rect, in
// basic coordinates, the scissor and the shader clip.
func (e *executor) shade(sc clip.ShaderClip, rect geom.Rect, fn func(geom.Point) [4]float32) {
	if rect.IsEmpty() {
		return
	}
	d := e.toDevice.TransformBounds(rect)
	if !d.IsFinite() {
		return
	}
	area := image.Rect(
		int(math.Floor(d.X)), int(math.Floor(d.Y)),
		int(math.Ceil(d.Right())), int(math.Ceil(d.Bottom())),
	).Intersect(e.scissor)

	cr := e.globals.Clip
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			p := e.toBasic.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			if !inside(rect, p) {
				continue
			}
			switch sc {
			case clip.ShaderClipRect:
				if !inside(cr.Bounds, p) {
					continue
				}
			case clip.ShaderClipRounded:
				if !cr.ContainsPoint(p) {
					continue
				}
			}
			e.blendPixel(x, y, fn(p))
		}
	}
}

func (e *executor) blendPixel(x, y int, src [4]float32) {
	i := e.target.PixOffset(x, y)
	px := e.target.Pix[i : i+4 : i+4]
	for c := range 4 {
		dst := float32(px[c]) / 255
		var v float32
		switch e.blend {
		case ops.BlendNone:
			v = src[c]
		case ops.BlendAdd:
			v = src[c] + dst
		case ops.BlendClear:
			v = 0
		default:
			v = src[c] + dst*(1-src[3])
		}
		px[c] = unit8(v)
	}
}

// sample reads img where texRect, in basic coordinates, is stretched over
// its bounds. Coordinates outside clamp to the edge.
func sample(img *image.RGBA, texRect geom.Rect, p geom.Point, linear bool) [4]float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || texRect.W == 0 || texRect.H == 0 {
		return [4]float32{}
	}
	u := (p.X - texRect.X) / texRect.W * float64(w)
	v := (p.Y - texRect.Y) / texRect.H * float64(h)
	if !linear {
		return texel(img, int(math.Floor(u)), int(math.Floor(v)))
	}

	u, v = u-0.5, v-0.5
	x0, y0 := math.Floor(u), math.Floor(v)
	fx, fy := float32(u-x0), float32(v-y0)
	ix, iy := int(x0), int(y0)
	a, c := texel(img, ix, iy), texel(img, ix+1, iy)
	d, f := texel(img, ix, iy+1), texel(img, ix+1, iy+1)
	var out [4]float32
	for k := range 4 {
		top := a[k] + (c[k]-a[k])*fx
		bot := d[k] + (f[k]-d[k])*fx
		out[k] = top + (bot-top)*fy
	}
	return out
}

func texel(img *image.RGBA, x, y int) [4]float32 {
	b := img.Bounds()
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	i := img.PixOffset(x, y)
	px := img.Pix[i : i+4 : i+4]
	return [4]float32{
		float32(px[0]) / 255,
		float32(px[1]) / 255,
		float32(px[2]) / 255,
		float32(px[3]) / 255,
	}
}

// maskValue returns the coverage a premultiplied mask pixel gives.
func maskValue(m [4]float32, mode ops.MaskMode) float32 {
	var v float32
	switch mode {
	case ops.MaskLuminance, ops.MaskInvertedLuminance:
		v = 0.2126*m[0] + 0.7152*m[1] + 0.0722*m[2]
	default:
		v = m[3]
	}
	if mode == ops.MaskInvertedAlpha || mode == ops.MaskInvertedLuminance {
		v = 1 - v
	}
	return v
}

// inside is a half-open containment test, so that pixels on the shared
// edge of adjacent rectangles are shaded once.
func inside(r geom.Rect, p geom.Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func fill(img *image.RGBA, r image.Rectangle, c geom.Color) {
	p := premul(c)
	px := color.RGBA{R: unit8(p[0]), G: unit8(p[1]), B: unit8(p[2]), A: unit8(p[3])}
	draw.Draw(img, r, image.NewUniform(px), image.Point{}, draw.Src)
}

func premul(c geom.Color) [4]float32 {
	return c.Premultiplied()
}

func unpremul(p [4]float32) geom.Color {
	if p[3] <= 0 {
		return geom.Transparent
	}
	return geom.RGBA(p[0]/p[3], p[1]/p[3], p[2]/p[3], p[3])
}

func irect(r geom.IRect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}
