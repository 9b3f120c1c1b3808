package cpu

import (
	"image"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/cache"
	"github.com/gogpu/gsk/node"
	"github.com/gogpu/gsk/text"
)

type glyphKey struct {
	font *text.Font
	id   text.GlyphID
	size float64
}

// glyphOutlines keeps recently drawn outlines; text is usually redrawn
// every frame with the same glyphs.
var glyphOutlines = cache.New[glyphKey, []sfnt.Segment](2048)

func outline(f *text.Font, id text.GlyphID, size float64) []sfnt.Segment {
	return glyphOutlines.GetOrCreate(glyphKey{f, id, size}, func() []sfnt.Segment {
		segs, err := f.Outline(id, size)
		if err != nil {
			slogger().Debug("cpu: glyph outline", "glyph", id, "err", err)
			return nil
		}
		return segs
	})
}

func fixedPoint(origin geom.Point, p fixed.Point26_6) geom.Point {
	return geom.Pt(origin.X+float64(p.X)/64, origin.Y+float64(p.Y)/64)
}

func drawText(dst *image.RGBA, area image.Rectangle, n *node.Text, m geom.Matrix) {
	if n.Font() == nil || n.Color().IsClear() {
		return
	}
	r := newRasterizer(area, m)
	for _, g := range n.Glyphs() {
		o := geom.Pt(n.Origin().X+g.X, n.Origin().Y+g.Y)
		for _, s := range outline(n.Font(), g.ID, n.Size()) {
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				r.moveTo(fixedPoint(o, s.Args[0]))
			case sfnt.SegmentOpLineTo:
				r.lineTo(fixedPoint(o, s.Args[0]))
			case sfnt.SegmentOpQuadTo:
				bx, by := r.pt(fixedPoint(o, s.Args[0]))
				cx, cy := r.pt(fixedPoint(o, s.Args[1]))
				r.z.QuadTo(bx, by, cx, cy)
			case sfnt.SegmentOpCubeTo:
				bx, by := r.pt(fixedPoint(o, s.Args[0]))
				cx, cy := r.pt(fixedPoint(o, s.Args[1]))
				dx, dy := r.pt(fixedPoint(o, s.Args[2]))
				r.z.CubeTo(bx, by, cx, cy, dx, dy)
			}
		}
		r.close()
	}
	r.z.Draw(dst, area, image.NewUniform(n.Color().NRGBA()), image.Point{})
}
