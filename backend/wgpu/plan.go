// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gsk/backend"
	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/clip"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/internal/pattern"
)

// Vertex layout: color, shape bounds, corner widths, corner heights,
// position, flags.
const (
	vertexStride  = 76
	globalsSize   = 128
	uniformAlign  = 256
	quadVertices  = 6
	positionAttr  = 64
	flagsAttr     = 72
	widthsAttr    = 32
	heightsAttr   = 48
	boundsAttr    = 16
	vertexFloats  = vertexStride / 4
	noGlobalsSlot = 0
)

// Per-vertex flags, mirrored in shaders/ops.wgsl.
const (
	flagRounded uint32 = 1 << iota
	flagClipRect
	flagClipRounded
	flagDevice
)

// unsupported reports the first op of s the GPU pipelines cannot draw.
// Sampling ops need textures bound per draw; streams using them run on
// the software backend.
func unsupported(s *ops.Stream) (ops.Op, bool) {
	for id := s.First(); id != ops.NoOp; id = s.Next(id) {
		switch op := s.Op(id).(type) {
		case *ops.TextureOp, *ops.ConvertOp, *ops.MaskOp, *ops.UploadOp:
			return op, true
		case *ops.BlendOp:
			if op.Blend != ops.BlendOver && op.Blend != ops.BlendNone {
				return op, true
			}
		}
	}
	return nil, false
}

// drawCall is a run of quads sharing pipeline state.
type drawCall struct {
	blend   ops.Blend
	globals int
	scissor geom.IRect
	first   uint32
	count   uint32
}

// passPlan is one render pass.
type passPlan struct {
	target     ops.ImageID
	clear      bool
	clearColor [4]float32
	draws      []drawCall
}

// plan is a stream translated into vertex data and render passes.
type plan struct {
	passes   []passPlan
	vertices []byte
	uniforms *ops.BufferWriter
	offsets  []int
	targets  []ops.ImageID
}

// planner walks a stream and fills a plan.
type planner struct {
	stream *ops.Stream
	plan   *plan

	pass     *passPlan
	width    int
	height   int
	targetCS geom.ColorState
	area     geom.IRect
	scissor  geom.IRect
	blend    ops.Blend
	globals  int
	seen     map[ops.ImageID]bool
}

// buildPlan translates s. It fails on unbalanced passes; callers check
// unsupported first.
func buildPlan(s *ops.Stream) (*plan, error) {
	p := &planner{
		stream: s,
		plan:   &plan{uniforms: ops.NewBufferWriter(uniformAlign, nil)},
		seen:   make(map[ops.ImageID]bool),
	}
	// Slot 0 holds zeroed globals for device-space draws.
	p.plan.uniforms.Append(4, make([]byte, globalsSize))
	off, _ := p.plan.uniforms.Commit()
	p.plan.offsets = append(p.plan.offsets, off)

	if err := ops.Walk(s, p); err != nil {
		return nil, err
	}
	if p.pass != nil {
		return nil, fmt.Errorf("%w: stream ends inside a pass", backend.ErrUnbalancedPass)
	}
	return p.plan, nil
}

// Command records one op.
func (p *planner) Command(s *ops.Stream, id ops.OpID) (ops.OpID, error) {
	next := s.Next(id)
	switch op := s.Op(id).(type) {
	case *ops.BeginPassOp:
		if p.pass != nil {
			return ops.NoOp, fmt.Errorf("%w: nested pass", backend.ErrUnbalancedPass)
		}
		p.beginPass(op)
	case *ops.EndPassOp:
		if p.pass == nil {
			return ops.NoOp, fmt.Errorf("%w: end without begin", backend.ErrUnbalancedPass)
		}
		p.plan.passes = append(p.plan.passes, *p.pass)
		p.pass = nil
	default:
		if p.pass == nil {
			return ops.NoOp, fmt.Errorf("%w: %s outside a pass", backend.ErrUnbalancedPass, op.Kind())
		}
		p.command(op)
	}
	return next, nil
}

func (p *planner) beginPass(op *ops.BeginPassOp) {
	img := p.stream.Image(op.Target)
	p.width, p.height = img.Width, img.Height
	p.targetCS = img.ColorState
	full := geom.NewIRect(0, 0, img.Width, img.Height)
	p.area, _ = op.Area.Intersect(full)
	p.scissor = p.area
	p.blend = ops.BlendOver
	p.globals = noGlobalsSlot
	p.pass = &passPlan{target: op.Target}
	if !p.seen[op.Target] {
		p.seen[op.Target] = true
		p.plan.targets = append(p.plan.targets, op.Target)
	}

	if op.Load != ops.LoadOpClear {
		return
	}
	if p.area == full {
		p.pass.clear = true
		p.pass.clearColor = op.ClearColor.Premultiplied()
		return
	}
	p.deviceQuad(p.area, op.ClearColor)
}

func (p *planner) command(op ops.Op) {
	switch op := op.(type) {
	case *ops.GlobalsOp:
		w := p.plan.uniforms
		w.AppendMatrix(op.MVP)
		w.AppendVec4(float32(op.ScaleX), float32(op.ScaleY), 0, 0)
		w.AppendRoundedRect(op.Clip)
		off, _ := w.Commit()
		p.plan.offsets = append(p.plan.offsets, off)
		p.globals = len(p.plan.offsets) - 1
	case *ops.ScissorOp:
		p.scissor, _ = op.Rect.Intersect(p.area)
	case *ops.BlendOp:
		p.blend = op.Blend
	case *ops.ClearOp:
		p.deviceQuad(op.Rect, op.Color)
	case *ops.ColorOp:
		p.quad(op.Clip, geom.RoundedFromRect(op.Rect), 0, op.Color.Premultiplied())
	case *ops.RoundedColorOp:
		p.quad(op.Clip, op.Outline, flagRounded, op.Color.Premultiplied())
	case *ops.PatternOp:
		rec, err := pattern.Decode(op.Data)
		if err != nil {
			slogger().Warn("wgpu: dropping undecodable pattern", "err", err)
			return
		}
		c := geom.ColorStateSRGB.Convert(rec.Color, p.targetCS).WithAlpha(float32(op.Opacity))
		p.quad(op.Clip, geom.RoundedFromRect(op.Rect), 0, c.Premultiplied())
	}
}

func clipFlags(sc clip.ShaderClip) uint32 {
	switch sc {
	case clip.ShaderClipRect:
		return flagClipRect
	case clip.ShaderClipRounded:
		return flagClipRounded
	}
	return 0
}

// quad appends two triangles covering shape.Bounds in basic coordinates.
func (p *planner) quad(sc clip.ShaderClip, shape geom.RoundedRect, flags uint32, color [4]float32) {
	r := shape.Bounds
	if r.IsEmpty() || p.scissor.IsEmpty() {
		return
	}
	flags |= clipFlags(sc)
	p.appendQuad(r.X, r.Y, r.Right(), r.Bottom(), shape, flags, color)
	p.addDraw(p.blend, p.globals, p.scissor)
}

// deviceQuad overwrites the pixels of r regardless of scissor and blend.
func (p *planner) deviceQuad(r geom.IRect, c geom.Color) {
	full := geom.NewIRect(0, 0, p.width, p.height)
	r, ok := r.Intersect(full)
	if !ok {
		return
	}
	w, h := float64(p.width), float64(p.height)
	x0, x1 := 2*float64(r.X)/w-1, 2*float64(r.Right())/w-1
	y0, y1 := 1-2*float64(r.Y)/h, 1-2*float64(r.Bottom())/h
	p.appendQuad(x0, y0, x1, y1, geom.RoundedRect{}, flagDevice, c.Premultiplied())
	p.addDraw(ops.BlendNone, noGlobalsSlot, r)
}

func (p *planner) appendQuad(x0, y0, x1, y1 float64, shape geom.RoundedRect, flags uint32, color [4]float32) {
	corners := [6][2]float64{
		{x0, y0}, {x1, y0}, {x0, y1},
		{x0, y1}, {x1, y0}, {x1, y1},
	}
	for _, c := range corners {
		p.plan.vertices = appendVertex(p.plan.vertices, float32(c[0]), float32(c[1]), shape, flags, color)
	}
}

// addDraw extends the last draw call when the state matches.
func (p *planner) addDraw(blend ops.Blend, globals int, scissor geom.IRect) {
	first := uint32(len(p.plan.vertices)/vertexStride) - quadVertices
	draws := p.pass.draws
	if n := len(draws); n > 0 {
		last := &draws[n-1]
		if last.blend == blend && last.globals == globals && last.scissor == scissor && last.first+last.count == first {
			last.count += quadVertices
			return
		}
	}
	p.pass.draws = append(draws, drawCall{
		blend:   blend,
		globals: globals,
		scissor: scissor,
		first:   first,
		count:   quadVertices,
	})
}

func appendVertex(buf []byte, x, y float32, shape geom.RoundedRect, flags uint32, color [4]float32) []byte {
	var v [vertexFloats]float32
	copy(v[0:4], color[:])
	b := shape.Bounds
	v[boundsAttr/4+0] = float32(b.X)
	v[boundsAttr/4+1] = float32(b.Y)
	v[boundsAttr/4+2] = float32(b.W)
	v[boundsAttr/4+3] = float32(b.H)
	for i, c := range shape.Corner {
		v[widthsAttr/4+i] = float32(c.W)
		v[heightsAttr/4+i] = float32(c.H)
	}
	v[positionAttr/4] = x
	v[positionAttr/4+1] = y
	v[flagsAttr/4] = float32(flags)
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
