// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/clip"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/node"
)

// firstNodeInfo tracks the render pass while the occlusion engine looks
// for opaque nodes that let it skip everything painted below them.
type firstNodeInfo struct {
	extents   geom.IRect
	wholeArea bool
	minPixels int

	background    geom.Color
	hasBackground bool
	started       bool
}

// beginRendering makes sure the pass is running and the scissor area
// starts out as clear, or undefined when clear is nil.
func (p *processor) beginRendering(info *firstNodeInfo, clear *geom.Color) {
	if info.started {
		if clear != nil && (!info.hasBackground || *clear != info.background) {
			p.stream.Clear(ops.ClearOp{Rect: p.scissor, Color: *clear})
		}
		return
	}

	var load ops.LoadOp
	var c geom.Color
	switch {
	case !info.wholeArea:
		info.hasBackground = false
		load = ops.LoadOpLoad
	case clear != nil:
		info.background = *clear
		info.hasBackground = true
		load = ops.LoadOpClear
		c = *clear
	default:
		info.hasBackground = false
		load = ops.LoadOpDontCare
	}
	info.started = true
	p.beginPass(info.extents, load, c)

	if !info.wholeArea && clear != nil {
		p.stream.Clear(ops.ClearOp{Rect: p.scissor, Color: *clear})
	}
}

// clipFirstNode narrows the scissor to the pixels covered by opaque, in
// node coordinates. It fails, changing nothing, if the result is too
// small to be worth a sub-pass.
func (p *processor) clipFirstNode(info *firstNodeInfo, opaque geom.Rect) bool {
	d, ok := p.rectToDeviceShrink(opaque)
	if !ok {
		return false
	}
	if d, ok = d.Intersect(p.scissor); !ok {
		return false
	}
	if d.Area() < info.minPixels && d != p.scissor {
		return false
	}
	cr, ok := p.rectDeviceToClip(d.Rect())
	if !ok {
		return false
	}
	p.scissor = d
	p.clip = clip.Empty(cr)
	p.pending |= GlobalScissor | GlobalClip
	return true
}

// addFirstNode tries to start the pass with n, drawing only what is
// visible above its opaque area. On success the scissor covers that area
// and n has been drawn into it.
func (p *processor) addFirstNode(info *firstNodeInfo, n node.Node) bool {
	b := n.Bounds()
	if b.W <= 0 || b.H <= 0 {
		return false
	}
	opaque, ok := n.OpaqueRect()
	if !ok || !p.clip.MayIntersectRect(p.offset(), b) {
		return false
	}

	c := classFor(n)
	if c == nil {
		slogger().Error("render: unknown node kind", "kind", n.Kind())
		return false
	}
	if c.first != nil {
		return c.first(p, info, n)
	}

	if !p.clipFirstNode(info, opaque) {
		return false
	}
	p.beginRendering(info, &geom.Transparent)
	p.addNode(n)
	return true
}

func (p *processor) addFirstNodeClipped(info *firstNodeInfo, clipRect geom.Rect, n node.Node) bool {
	oldScissor, oldClip := p.scissor, p.clip
	if !p.clipFirstNode(info, clipRect) {
		return false
	}
	if p.addFirstNode(info, n) {
		return true
	}
	p.scissor, p.clip = oldScissor, oldClip
	p.pending |= GlobalScissor | GlobalClip
	return false
}

func firstContainer(p *processor, info *firstNodeInfo, n node.Node) bool {
	children := n.(*node.Container).Children()
	if len(children) == 0 {
		return false
	}
	opaque, ok := n.OpaqueRect()
	if !ok || !p.clipFirstNode(info, opaque) {
		return false
	}

	i := len(children) - 1
	for ; i >= 0; i-- {
		if p.addFirstNode(info, children[i]) {
			break
		}
	}
	if i < 0 {
		p.beginRendering(info, &geom.Transparent)
	}
	for _, child := range children[i+1:] {
		p.addNode(child)
	}
	return true
}

func firstColor(p *processor, info *firstNodeInfo, n node.Node) bool {
	if !node.IsFullyOpaque(n) || !p.clipFirstNode(info, n.Bounds()) {
		return false
	}
	c := geom.ColorStateSRGB.Convert(n.(*node.Color).Color(), p.ccs)
	p.beginRendering(info, &c)
	return true
}

// firstNoBlend starts the pass with a fully opaque node that is drawn
// without blending.
func firstNoBlend(p *processor, info *firstNodeInfo, n node.Node) bool {
	if !node.IsFullyOpaque(n) || !p.clipFirstNode(info, n.Bounds()) {
		return false
	}
	p.beginRendering(info, nil)
	old := p.setBlend(ops.BlendNone)
	p.addNode(n)
	p.setBlend(old)
	return true
}

func firstClip(p *processor, info *firstNodeInfo, n node.Node) bool {
	return p.addFirstNodeClipped(info, n.Bounds(), n.(*node.Clip).Child())
}

func firstRoundedClip(p *processor, info *firstNodeInfo, n node.Node) bool {
	rc := n.(*node.RoundedClip)
	cover, ok := rc.ClipRect().LargestCover(p.clipBounds())
	if !ok {
		return false
	}
	return p.addFirstNodeClipped(info, cover, rc.Child())
}

func firstTransform(p *processor, info *firstNodeInfo, n node.Node) bool {
	tn := n.(*node.Transform)
	t := tn.Transform()

	switch cat := t.Category(); {
	case cat >= geom.Category2DTranslate:
		dx, dy := t.ToTranslate()
		old := p.pushTranslate(dx, dy)
		ok := p.addFirstNode(info, tn.Child())
		p.popTranslate(old)
		return ok
	case cat >= geom.Category2DDihedral:
		old := p.save()
		if !p.foldTransform(t) {
			return false
		}
		ok := p.addFirstNode(info, tn.Child())
		p.restore(old)
		return ok
	}
	return false
}

func firstChild(p *processor, info *firstNodeInfo, n node.Node) bool {
	return p.addFirstNode(info, node.Children(n)[0])
}

// render draws root into region of the target. While culling is on, the
// largest dirty rectangle is rendered first, starting from the topmost
// node that covers enough of it with opaque pixels, and the covered part
// is removed from the region. The rest is drawn rectangle by rectangle.
// Everything happens in a single render pass over the region extents.
func (p *processor) render(region *geom.Region, root node.Node, stats *Stats) {
	if stats == nil {
		stats = new(Stats)
	}
	cfg := p.frame.cfg
	img := p.stream.Image(p.target)

	info := firstNodeInfo{extents: region.Extents()}
	info.wholeArea = region.ContainsRect(info.extents)
	info.minPixels = max(int(float64(img.Width*img.Height)*cfg.MinOcclusionPercentage/100), cfg.MinOcclusionPixels)

	culling := cfg.OcclusionCulling
	for culling && !region.IsEmpty() {
		rect := region.Rect(region.Largest())
		if rect.Area() < cfg.MinOcclusionPixels {
			break
		}

		p.setScissor(rect)
		if !p.addFirstNode(&info, root) {
			p.beginRendering(&info, &geom.Transparent)
			p.addNode(root)
			culling = false
			stats.FallbackPasses++
		} else {
			stats.OcclusionPasses++
			if cfg.DebugOcclusion {
				p.syncGlobals(0)
				o := p.offset()
				p.stream.Color(ops.ColorOp{
					Clip:  clip.ShaderClipNone,
					Rect:  geom.NewRect(0, 0, 10000, 10000).Offset(o.X, o.Y),
					Color: geom.ColorStateSRGB.Convert(geom.RGBA(1, 1, 1, 0.6), p.ccs),
				})
			}
		}
		slogger().Debug("render: sub-pass", "scissor", p.scissor, "culling", culling)

		region.Subtract(p.scissor)
		stats.Subtracted = append(stats.Subtracted, p.scissor)
	}

	for _, rect := range region.Rects() {
		p.setScissor(rect)
		// Only a node covering the whole rectangle is worth starting from.
		info.minPixels = rect.Area()
		if p.addFirstNode(&info, root) {
			stats.OcclusionPasses++
		} else {
			p.beginRendering(&info, &geom.Transparent)
			p.addNode(root)
			stats.FallbackPasses++
		}
		stats.Subtracted = append(stats.Subtracted, rect)
	}

	if info.started {
		p.finish()
	}
}
