// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cpu rasterizes render nodes in software.
//
// It backs the universal fallback of the compiler: any node, including
// kinds the op emitters do not handle, can be drawn into an *image.RGBA
// here and uploaded as a texture. Drawing is antialiased coverage
// rasterization with golang.org/x/image/vector and resampling with
// golang.org/x/image/draw; effects work on premultiplied layers.
package cpu

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/node"
)

// Draw renders n into dst. The matrix m maps node coordinates to pixel
// coordinates of dst; only its 2D affine part is used.
func Draw(dst *image.RGBA, n node.Node, m geom.Matrix) {
	if node.IsEmpty(n) {
		return
	}
	area := deviceArea(dst.Bounds(), n.Bounds(), m)
	if area.Empty() {
		return
	}

	switch n := n.(type) {
	case *node.Container:
		for _, c := range n.Children() {
			Draw(dst, c, m)
		}
	case *node.Color:
		p := geom.NewPath()
		p.Rectangle(n.Bounds())
		fillPath(dst, area, p, m, geom.FillRuleNonZero, image.NewUniform(n.Color().NRGBA()))
	case *node.Texture:
		drawTexture(dst, area, n, m)
	case *node.Transform:
		Draw(dst, n.Child(), m.Mul(n.Transform().Matrix()))
	case *node.Opacity:
		layer := renderLayer(area, n.Child(), m)
		alpha := color.Alpha16{A: uint16(math.Round(n.Opacity() * 0xffff))}
		draw.DrawMask(dst, area, layer, area.Min, image.NewUniform(alpha), image.Point{}, draw.Over)
	case *node.Clip:
		p := geom.NewPath()
		p.Rectangle(n.ClipRect())
		drawClipped(dst, area, n.Child(), m, pathMask(area, p, m, geom.FillRuleNonZero))
	case *node.RoundedClip:
		drawClipped(dst, area, n.Child(), m, pathMask(area, RoundedRectPath(n.ClipRect()), m, geom.FillRuleNonZero))
	case *node.Fill:
		drawClipped(dst, area, n.Child(), m, pathMask(area, n.Path(), m, n.FillRule()))
	case *node.Stroke:
		drawClipped(dst, area, n.Child(), m, pathMask(area, strokeOutline(n.Path(), n.Stroke()), m, geom.FillRuleNonZero))
	case *node.Shadow:
		drawShadow(dst, area, n, m)
	case *node.Blur:
		layer := renderLayer(area, n.Child(), m)
		sx, sy := deviceScale(m)
		blurRGBA(layer, n.Radius()*sx/2, n.Radius()*sy/2)
		draw.Draw(dst, area, layer, area.Min, draw.Over)
	case *node.Blend:
		bottom := renderLayer(area, n.Bottom(), m)
		top := renderLayer(area, n.Top(), m)
		blendLayers(bottom, top, n.Mode())
		draw.Draw(dst, area, bottom, area.Min, draw.Over)
	case *node.CrossFade:
		start := renderLayer(area, n.Start(), m)
		end := renderLayer(area, n.End(), m)
		crossFade(start, end, n.Progress())
		draw.Draw(dst, area, start, area.Min, draw.Over)
	case *node.Mask:
		src := renderLayer(area, n.Source(), m)
		mask := renderLayer(area, n.MaskNode(), m)
		applyMask(src, mask, n.Mode())
		draw.Draw(dst, area, src, area.Min, draw.Over)
	case *node.Text:
		drawText(dst, area, n, m)
	case *node.Debug:
		Draw(dst, n.Child(), m)
	case *node.Subsurface:
		Draw(dst, n.Child(), m)
	case node.Drawer:
		n.Draw(dst, m)
	default:
		slogger().Warn("cpu: cannot draw node", "kind", n.Kind())
	}
}

// deviceArea returns the pixels of bounds that n may touch under m.
func deviceArea(clip image.Rectangle, bounds geom.Rect, m geom.Matrix) image.Rectangle {
	d := m.TransformBounds(bounds)
	if !d.IsFinite() {
		return image.Rectangle{}
	}
	r := d.RoundOut()
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom()).Intersect(clip)
}

// deviceScale returns how much m stretches the x and y axes.
func deviceScale(m geom.Matrix) (sx, sy float64) {
	return math.Hypot(m[0], m[4]), math.Hypot(m[1], m[5])
}

func affine(m geom.Matrix) f64.Aff3 {
	return f64.Aff3{m[0], m[1], m[3], m[4], m[5], m[7]}
}

// renderLayer draws n into a transparent image covering area.
func renderLayer(area image.Rectangle, n node.Node, m geom.Matrix) *image.RGBA {
	layer := image.NewRGBA(area)
	Draw(layer, n, m)
	return layer
}

func drawClipped(dst *image.RGBA, area image.Rectangle, child node.Node, m geom.Matrix, mask *image.Alpha) {
	layer := renderLayer(area, child, m)
	draw.DrawMask(dst, area, layer, area.Min, mask, area.Min, draw.Over)
}

func drawTexture(dst *image.RGBA, area image.Rectangle, n *node.Texture, m geom.Matrix) {
	img := n.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	r := n.Bounds()
	toNode := geom.TranslateMatrix(r.X, r.Y, 0).
		Mul(geom.ScaleMatrix(r.W/float64(b.Dx()), r.H/float64(b.Dy()), 1)).
		Mul(geom.TranslateMatrix(-float64(b.Min.X), -float64(b.Min.Y), 0))

	var interp draw.Transformer = draw.BiLinear
	if n.Filter() == node.FilterNearest {
		interp = draw.NearestNeighbor
	}
	sub := dst.SubImage(area).(*image.RGBA)
	interp.Transform(sub, affine(m.Mul(toNode)), img, b, draw.Over, nil)
}

func drawShadow(dst *image.RGBA, area image.Rectangle, n *node.Shadow, m geom.Matrix) {
	sx, sy := deviceScale(m)
	for _, s := range n.Shadows() {
		if s.Color.IsClear() {
			continue
		}
		layer := renderLayer(area, n.Child(), m.Mul(geom.TranslateMatrix(s.DX, s.DY, 0)))
		tint(layer, s.Color)
		blurRGBA(layer, s.Radius*sx/2, s.Radius*sy/2)
		draw.Draw(dst, area, layer, area.Min, draw.Over)
	}
	Draw(dst, n.Child(), m)
}

// tint replaces the color of every pixel with c, keeping its coverage.
func tint(img *image.RGBA, c geom.Color) {
	p := c.Premultiplied()
	for i := 0; i < len(img.Pix); i += 4 {
		a := float32(img.Pix[i+3]) / 0xff
		img.Pix[i+0] = unit8(p[0] * a)
		img.Pix[i+1] = unit8(p[1] * a)
		img.Pix[i+2] = unit8(p[2] * a)
		img.Pix[i+3] = unit8(p[3] * a)
	}
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
