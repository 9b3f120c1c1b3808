// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render compiles render node trees into op streams.
//
// A Frame owns one ops.Stream. Each call to Frame.Render appends the ops
// that draw a node tree into a region of a target image: render passes,
// state changes, shader ops and the uploads and offscreens they need.
// Nodes without an op emitter are rasterized by package cpu and uploaded.
package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/cpu"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/node"
)

// Frame collects the ops for one frame. It is not safe for concurrent
// use.
type Frame struct {
	cfg      Config
	stream   *ops.Stream
	patterns *ops.BufferWriter
	textures map[*node.Texture]ops.ImageID
	stats    Stats
}

// NewFrame returns an empty frame.
func NewFrame(cfg Config) *Frame {
	return &Frame{
		cfg:      cfg,
		stream:   ops.NewStream(),
		patterns: ops.NewBufferWriter(16, nil),
		textures: make(map[*node.Texture]ops.ImageID),
	}
}

// Stream returns the ops recorded so far.
func (f *Frame) Stream() *ops.Stream { return f.stream }

// Config returns the configuration the frame was created with.
func (f *Frame) Config() Config { return f.cfg }

// AddTarget registers a caller-owned image to render into.
func (f *Frame) AddTarget(width, height int, cs geom.ColorState) ops.ImageID {
	return f.stream.AddImage(ops.Image{
		Kind:       ops.ImageTarget,
		Width:      width,
		Height:     height,
		ColorState: cs,
		Label:      "target",
	})
}

// Reset drops all ops and images so the frame can be reused.
func (f *Frame) Reset() {
	f.stream.Reset()
	f.patterns.Reset()
	clear(f.textures)
	f.stats = Stats{}
}

// Render appends the ops drawing root into region of target. viewport is
// the area of node coordinates shown by the whole target. A nil region
// means the whole target; the caller's region is not modified.
//
// The stream is sorted for submission when Render returns.
func (f *Frame) Render(target ops.ImageID, region *geom.Region, root node.Node, viewport geom.Rect, pt ops.PassType) Stats {
	f.stats = Stats{}
	if root == nil || node.IsEmpty(root) {
		return f.stats
	}

	img := f.stream.Image(target)
	full := geom.NewIRect(0, 0, img.Width, img.Height)
	if region == nil {
		region = geom.NewRegion(full)
	} else {
		region = region.Clone()
		region.Intersect(full)
	}
	if region.IsEmpty() {
		return f.stats
	}

	f.process(target, region, root, viewport, pt)
	f.stream.Sort()
	return f.stats
}

// process renders root into region of target, compositing in the
// configured color state and converting at the end when that differs
// from the target.
func (f *Frame) process(target ops.ImageID, region *geom.Region, root node.Node, viewport geom.Rect, pt ops.PassType) {
	targetCS := f.stream.Image(target).ColorState
	ccs := f.cfg.compositing(targetCS)

	if ccs == targetCS {
		p := f.newProcessor(target, ccs, region.Extents(), viewport, pt)
		p.render(region, root, &f.stats)
		return
	}

	slogger().Debug("render: compositing in a different color state", "ccs", ccs, "target", targetCS)
	p := f.newProcessor(target, targetCS, region.Extents(), viewport, pt)
	for _, rect := range region.Rects() {
		p.setScissor(rect)
		p.beginPass(rect, ops.LoadOpClear, geom.Transparent)
		p.setBlend(ops.BlendNone)
		if bounds, ok := p.clipNodeBoundsSnapped(root); ok {
			if img, tex, ok := f.nodeAsImage(ccs, bounds, p.acc.ScaleX, p.acc.ScaleY, root); ok {
				p.imageOp(img, ccs, tex, tex, ops.FilterLinear)
			}
		}
		p.finish()
		f.stats.Subtracted = append(f.stats.Subtracted, rect)
	}
}

// imageSize returns the pixel size of an image showing bounds at the
// given scale.
func imageSize(sx, sy float64, bounds geom.Rect) (int, int) {
	w := max(1, int(math.Ceil(sx*bounds.W-epsilon)))
	h := max(1, int(math.Ceil(sy*bounds.H-epsilon)))
	return w, h
}

// uploadNode rasterizes the part of n inside bounds, in node coordinates,
// into a new sRGB image.
func (f *Frame) uploadNode(sx, sy float64, bounds geom.Rect, n node.Node) ops.ImageID {
	w, h := imageSize(sx, sy, bounds)
	id := f.stream.AddImage(ops.Image{
		Kind:       ops.ImageUpload,
		Width:      w,
		Height:     h,
		ColorState: geom.ColorStateSRGB,
		Label:      n.Kind().String(),
	})
	m := geom.ScaleMatrix(float64(w)/bounds.W, float64(h)/bounds.H, 1).
		Mul(geom.TranslateMatrix(-bounds.X, -bounds.Y, 0))
	f.stream.Upload(ops.UploadOp{
		Image: id,
		Draw: func(dst *image.RGBA) {
			cpu.Draw(dst, n, m)
		},
	})
	f.stats.Rasterized++
	return id
}

// uploadTexture returns the image holding the pixels of tn. Each texture
// is uploaded once per frame.
func (f *Frame) uploadTexture(tn *node.Texture) (ops.ImageID, bool) {
	if id, ok := f.textures[tn]; ok {
		return id, true
	}
	src := tn.Image()
	if src == nil || src.Bounds().Empty() {
		return ops.NoImage, false
	}
	b := src.Bounds()
	id := f.stream.AddImage(ops.Image{
		Kind:       ops.ImageUpload,
		Width:      b.Dx(),
		Height:     b.Dy(),
		ColorState: tn.ColorState(),
		Label:      "texture",
	})
	f.stream.Upload(ops.UploadOp{
		Image: id,
		Draw: func(dst *image.RGBA) {
			draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		},
	})
	f.textures[tn] = id
	return id, true
}

// initDraw starts an offscreen showing viewport, in node coordinates, at
// the given scale. The returned processor draws into it; finishDraw ends
// the pass.
func (f *Frame) initDraw(ccs geom.ColorState, sx, sy float64, viewport geom.Rect, label string) *processor {
	w, h := imageSize(sx, sy, viewport)
	id := f.stream.AddImage(ops.Image{
		Kind:       ops.ImageOffscreen,
		Width:      w,
		Height:     h,
		ColorState: ccs,
		Label:      label,
	})
	f.stats.Offscreens++

	area := geom.NewIRect(0, 0, w, h)
	p := f.newProcessor(id, ccs, area, viewport, ops.PassOffscreen)
	p.beginPass(area, ops.LoadOpClear, geom.Transparent)
	return p
}

func (p *processor) finishDraw() ops.ImageID {
	p.finish()
	return p.target
}

// offscreen renders n into a new image covering viewport.
func (f *Frame) offscreen(ccs geom.ColorState, sx, sy float64, viewport geom.Rect, n node.Node) ops.ImageID {
	p := f.initDraw(ccs, sx, sy, viewport, n.Kind().String())
	p.addNode(n)
	return p.finishDraw()
}

// nodeAsImage returns an image in ccs holding at least the part of n
// inside clipBounds and the rectangle, in node coordinates, it covers.
func (f *Frame) nodeAsImage(ccs geom.ColorState, clipBounds geom.Rect, sx, sy float64, n node.Node) (ops.ImageID, geom.Rect, bool) {
	if c := classFor(n); c != nil && c.asImage != nil {
		return c.asImage(f, ccs, clipBounds, sx, sy, n)
	}
	return f.offscreen(ccs, sx, sy, clipBounds, n), clipBounds, true
}
