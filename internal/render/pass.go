// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"
	"strings"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/clip"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/internal/transform"
)

// Globals is a set of pass state categories that shader ops depend on.
type Globals uint8

const (
	GlobalMatrix Globals = 1 << iota
	GlobalScale
	GlobalClip
	GlobalScissor
	GlobalBlend
)

// GlobalsAll contains every category.
const GlobalsAll = GlobalMatrix | GlobalScale | GlobalClip | GlobalScissor | GlobalBlend

var globalNames = [...]string{"matrix", "scale", "clip", "scissor", "blend"}

func (g Globals) String() string {
	if g == 0 {
		return "none"
	}
	var parts []string
	for i, name := range globalNames {
		if g&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if g&^GlobalsAll != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// epsilon absorbs float noise when sizing images from scaled rectangles.
const epsilon = 0.001

// Pass is the state of one render target while ops are emitted into it.
//
// Coordinates come in three flavours. Node coordinates are what render
// nodes use. Basic coordinates are node coordinates shifted by the current
// offset; ops and the clip use them. Device coordinates are pixels of the
// target:
//
//	device = modelview · dihedral · (scale ∘ basic)
//
// The projection maps device coordinates to normalized device coordinates.
type Pass struct {
	stream     *ops.Stream
	target     ops.ImageID
	passType   ops.PassType
	ccs        geom.ColorState
	scissor    geom.IRect
	blend      ops.Blend
	clip       clip.Clip
	modelview  *geom.Transform
	projection geom.Matrix
	acc        transform.Accumulator
	opacity    float64
	pending    Globals
}

// init prepares p for rendering the extents of a width x height target
// that shows viewport.
func (p *Pass) init(s *ops.Stream, target ops.ImageID, ccs geom.ColorState, extents geom.IRect, viewport geom.Rect, pt ops.PassType) {
	img := s.Image(target)
	w, h := float64(img.Width), float64(img.Height)

	*p = Pass{
		stream:   s,
		target:   target,
		passType: pt,
		ccs:      ccs,
		scissor:  extents,
		blend:    ops.BlendOver,
		opacity:  1,
		pending:  GlobalsAll,
	}
	if extents == geom.NewIRect(0, 0, img.Width, img.Height) {
		p.clip = clip.Empty(geom.NewRect(0, 0, viewport.W, viewport.H))
	} else {
		sx, sy := viewport.W/w, viewport.H/h
		p.clip = clip.Empty(geom.NewRect(
			sx*float64(extents.X),
			sy*float64(extents.Y),
			sx*float64(extents.W),
			sy*float64(extents.H),
		))
	}
	p.projection = geom.Ortho(0, w, 0, h, -1, 1)
	p.acc = transform.New(geom.DihedralNormal, w/viewport.W, h/viewport.H, geom.Pt(-viewport.X, -viewport.Y))
}

func (p *Pass) offset() geom.Point {
	return p.acc.Offset
}

// mvp returns the matrix from scaled to normalized device coordinates.
func (p *Pass) mvp() geom.Matrix {
	m := p.acc.Matrix()
	if p.modelview != nil {
		m = p.modelview.Matrix().Mul(m)
	}
	return p.projection.Mul(m)
}

func (p *Pass) emitGlobals() {
	p.stream.Globals(ops.GlobalsOp{
		MVP:    p.mvp(),
		ScaleX: p.acc.ScaleX,
		ScaleY: p.acc.ScaleY,
		Clip:   p.clip.Rect,
	})
	p.pending &^= GlobalMatrix | GlobalScale | GlobalClip
}

// syncGlobals emits the pending state that a node ignoring the given
// categories depends on.
func (p *Pass) syncGlobals(ignored Globals) {
	required := p.pending &^ ignored
	if required&(GlobalMatrix|GlobalScale|GlobalClip) != 0 {
		p.emitGlobals()
	}
	if required&GlobalScissor != 0 {
		p.stream.Scissor(ops.ScissorOp{Rect: p.scissor})
		p.pending &^= GlobalScissor
	}
	if required&GlobalBlend != 0 {
		p.stream.Blend(ops.BlendOp{Blend: p.blend})
		p.pending &^= GlobalBlend
	}
}

// setBlend changes the blend mode and returns the previous one.
func (p *Pass) setBlend(b ops.Blend) ops.Blend {
	old := p.blend
	if b != old {
		p.blend = b
		p.pending |= GlobalBlend
	}
	return old
}

// beginPass starts rendering into area of the target. Backends start
// every pass with default state, so all globals become pending.
func (p *Pass) beginPass(area geom.IRect, load ops.LoadOp, c geom.Color) {
	p.stream.BeginPass(ops.BeginPassOp{
		Target:     p.target,
		Area:       area,
		Load:       load,
		ClearColor: c,
		Pass:       p.passType,
	})
	p.pending = GlobalsAll
}

// finish ends the render pass and drops the modelview.
func (p *Pass) finish() {
	p.stream.EndPass(ops.EndPassOp{Target: p.target, Pass: p.passType})
	p.modelview = nil
}

// rectClipToDevice maps a rectangle in basic coordinates to device
// coordinates. It fails when the modelview does not keep rectangles
// axis-aligned.
func (p *Pass) rectClipToDevice(r geom.Rect) (geom.Rect, bool) {
	if p.modelview != nil && p.modelview.Category() < geom.Category2DDihedral {
		return geom.Rect{}, false
	}
	r = p.acc.Dihedral.TransformRect(r.Scale(p.acc.ScaleX, p.acc.ScaleY))
	if p.modelview != nil {
		r = p.modelview.TransformBounds(r)
	}
	return r, r.IsFinite()
}

// rectDeviceToClip is the inverse of rectClipToDevice.
func (p *Pass) rectDeviceToClip(r geom.Rect) (geom.Rect, bool) {
	if p.modelview != nil {
		if p.modelview.Category() < geom.Category2DDihedral {
			return geom.Rect{}, false
		}
		inv, ok := p.modelview.Invert()
		if !ok {
			return geom.Rect{}, false
		}
		r = inv.TransformBounds(r)
	}
	r = p.acc.Dihedral.Invert().TransformRect(r)
	r = r.Scale(1/p.acc.ScaleX, 1/p.acc.ScaleY)
	return r, r.IsFinite()
}

// rectToDeviceShrink returns the pixels fully covered by rect, given in
// node coordinates.
func (p *Pass) rectToDeviceShrink(rect geom.Rect) (geom.IRect, bool) {
	o := p.offset()
	d, ok := p.rectClipToDevice(rect.Offset(o.X, o.Y))
	if !ok {
		return geom.IRect{}, false
	}
	ir := d.Shrink()
	return ir, !ir.IsEmpty()
}

// rectIsInteger reports whether rect, in basic coordinates, maps exactly
// onto device pixels, and returns those pixels.
func (p *Pass) rectIsInteger(rect geom.Rect) (geom.IRect, bool) {
	d, ok := p.rectClipToDevice(rect)
	if !ok {
		return geom.IRect{}, false
	}
	ir := d.Shrink()
	return ir, ir.Rect() == d
}

// clipBounds returns the visible area in node coordinates.
func (p *Pass) clipBounds() geom.Rect {
	bounds := p.clip.Rect.Bounds
	if sc, ok := p.rectDeviceToClip(p.scissor.Rect()); ok {
		if b, ok := sc.Intersect(bounds); ok {
			bounds = b
		} else {
			slogger().Warn("render: clip and scissor do not intersect")
		}
	}
	o := p.offset()
	return bounds.Offset(-o.X, -o.Y)
}

// snapToGrid grows r, in node coordinates, until its edges fall on device
// pixels of the current scale and offset.
func (p *Pass) snapToGrid(r geom.Rect) (geom.Rect, bool) {
	o := p.offset()
	sx, sy := p.acc.ScaleX, p.acc.ScaleY
	x0 := math.Floor((r.X+o.X)*sx+epsilon)/sx - o.X
	y0 := math.Floor((r.Y+o.Y)*sy+epsilon)/sy - o.Y
	x1 := math.Ceil((r.Right()+o.X)*sx-epsilon)/sx - o.X
	y1 := math.Ceil((r.Bottom()+o.Y)*sy-epsilon)/sy - o.Y
	snapped := geom.RectFromPoints(x0, y0, x1, y1)
	return snapped, !snapped.IsEmpty() && snapped.IsFinite()
}

// setScissor restricts rendering to r and resets the clip to match.
func (p *Pass) setScissor(r geom.IRect) {
	p.scissor = r
	cr, ok := p.rectDeviceToClip(r.Rect())
	if !ok {
		panic("render: scissor set under a non-invertible transform")
	}
	p.clip = clip.Empty(cr)
	p.pending |= GlobalClip | GlobalScissor
}

// setTransform replaces the coordinate system and the clip. The clip is
// narrowed to the scissor when the scissor can be expressed in the new
// coordinates.
func (p *Pass) setTransform(acc transform.Accumulator, modelview *geom.Transform, c clip.Clip) {
	matrix := p.modelview != nil || modelview != nil || acc.Dihedral != p.acc.Dihedral
	p.acc = acc
	p.modelview = modelview
	p.clip = c
	p.pending |= GlobalScale | GlobalClip
	if matrix {
		p.pending |= GlobalMatrix
	}
	if sr, ok := p.rectDeviceToClip(p.scissor.Rect()); ok {
		if sc, ok := p.clip.IntersectRect(sr); ok {
			p.clip = sc
		}
	}
}

// pushTranslate shifts the offset and returns the previous one for
// popTranslate.
func (p *Pass) pushTranslate(dx, dy float64) geom.Point {
	old := p.acc.Offset
	p.acc.Offset = old.Add(geom.Pt(dx, dy))
	return old
}

func (p *Pass) popTranslate(old geom.Point) {
	p.acc.Offset = old
}

// passState is what a transform scope saves and restores.
type passState struct {
	clip      clip.Clip
	acc       transform.Accumulator
	modelview *geom.Transform
}

func (p *Pass) save() passState {
	return passState{clip: p.clip, acc: p.acc, modelview: p.modelview}
}

func (p *Pass) restore(s passState) {
	if p.modelview != s.modelview || p.acc.Dihedral != s.acc.Dihedral {
		p.pending |= GlobalMatrix
	}
	p.pending |= GlobalScale | GlobalClip
	p.clip = s.clip
	p.acc = s.acc
	p.modelview = s.modelview
}
