package cpu

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/gsk/geom"
)

// kappa is the cubic control point distance for a quarter ellipse.
const kappa = 0.5522847498307936

// RoundedRectPath returns the outline of rr, clockwise from the top-left
// corner.
func RoundedRectPath(rr geom.RoundedRect) *geom.Path {
	b := rr.Bounds
	tl := rr.Corner[geom.CornerTopLeft]
	tr := rr.Corner[geom.CornerTopRight]
	br := rr.Corner[geom.CornerBottomRight]
	bl := rr.Corner[geom.CornerBottomLeft]

	p := geom.NewPath()
	p.MoveTo(b.X+tl.W, b.Y)
	p.LineTo(b.Right()-tr.W, b.Y)
	if !tr.IsZero() {
		p.CubicTo(b.Right()-tr.W*(1-kappa), b.Y, b.Right(), b.Y+tr.H*(1-kappa), b.Right(), b.Y+tr.H)
	}
	p.LineTo(b.Right(), b.Bottom()-br.H)
	if !br.IsZero() {
		p.CubicTo(b.Right(), b.Bottom()-br.H*(1-kappa), b.Right()-br.W*(1-kappa), b.Bottom(), b.Right()-br.W, b.Bottom())
	}
	p.LineTo(b.X+bl.W, b.Bottom())
	if !bl.IsZero() {
		p.CubicTo(b.X+bl.W*(1-kappa), b.Bottom(), b.X, b.Bottom()-bl.H*(1-kappa), b.X, b.Bottom()-bl.H)
	}
	p.LineTo(b.X, b.Y+tl.H)
	if !tl.IsZero() {
		p.CubicTo(b.X, b.Y+tl.H*(1-kappa), b.X+tl.W*(1-kappa), b.Y, b.X+tl.W, b.Y)
	}
	p.Close()
	return p
}

// rasterizer feeds path elements mapped through a matrix into a vector
// rasterizer whose mask covers area.
type rasterizer struct {
	z    *vector.Rasterizer
	m    geom.Matrix
	ox   float64
	oy   float64
	open bool
}

func newRasterizer(area image.Rectangle, m geom.Matrix) *rasterizer {
	return &rasterizer{
		z:  vector.NewRasterizer(area.Dx(), area.Dy()),
		m:  m,
		ox: float64(area.Min.X),
		oy: float64(area.Min.Y),
	}
}

func (r *rasterizer) pt(p geom.Point) (float32, float32) {
	d := r.m.TransformPoint(p)
	return float32(d.X - r.ox), float32(d.Y - r.oy)
}

func (r *rasterizer) moveTo(p geom.Point) {
	r.close()
	r.z.MoveTo(r.pt(p))
	r.open = true
}

func (r *rasterizer) lineTo(p geom.Point) {
	r.z.LineTo(r.pt(p))
}

func (r *rasterizer) close() {
	if r.open {
		r.z.ClosePath()
		r.open = false
	}
}

func (r *rasterizer) addPath(p *geom.Path) {
	for _, e := range p.Elements() {
		switch e := e.(type) {
		case geom.MoveTo:
			r.moveTo(e.Point)
		case geom.LineTo:
			r.lineTo(e.Point)
		case geom.QuadTo:
			bx, by := r.pt(e.Control)
			cx, cy := r.pt(e.Point)
			r.z.QuadTo(bx, by, cx, cy)
		case geom.CubicTo:
			bx, by := r.pt(e.Control1)
			cx, cy := r.pt(e.Control2)
			dx, dy := r.pt(e.Point)
			r.z.CubeTo(bx, by, cx, cy, dx, dy)
		case geom.Close:
			r.close()
		}
	}
	r.close()
}

// addPolygon adds a closed polygon given in node coordinates.
func (r *rasterizer) addPolygon(pts []geom.Point) {
	if len(pts) < 3 {
		return
	}
	r.moveTo(pts[0])
	for _, p := range pts[1:] {
		r.lineTo(p)
	}
	r.close()
}

func (r *rasterizer) mask(area image.Rectangle) *image.Alpha {
	a := image.NewAlpha(area)
	r.z.Draw(a, area, image.Opaque, image.Point{})
	return a
}

// pathMask returns the coverage of p under m as an alpha mask covering
// area. The rasterizer only knows the nonzero rule; even-odd paths are
// rasterized one subpath at a time and combined with exclusive or, which
// is exact for paths whose subpaths do not intersect themselves.
func pathMask(area image.Rectangle, p *geom.Path, m geom.Matrix, rule geom.FillRule) *image.Alpha {
	if rule != geom.FillRuleEvenOdd {
		r := newRasterizer(area, m)
		r.addPath(p)
		return r.mask(area)
	}

	out := image.NewAlpha(area)
	for _, sub := range splitSubpaths(p) {
		r := newRasterizer(area, m)
		r.addPath(sub)
		a := r.mask(area)
		for i, v := range a.Pix {
			o := int(out.Pix[i])
			s := int(v)
			// a xor b on coverage: a + b - 2ab
			out.Pix[i] = uint8(o + s - 2*o*s/0xff)
		}
	}
	return out
}

func splitSubpaths(p *geom.Path) []*geom.Path {
	var (
		out []*geom.Path
		cur *geom.Path
	)
	for _, e := range p.Elements() {
		switch e := e.(type) {
		case geom.MoveTo:
			cur = geom.NewPath()
			out = append(out, cur)
			cur.MoveTo(e.Point.X, e.Point.Y)
		case geom.LineTo:
			if cur != nil {
				cur.LineTo(e.Point.X, e.Point.Y)
			}
		case geom.QuadTo:
			if cur != nil {
				cur.QuadTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
			}
		case geom.CubicTo:
			if cur != nil {
				cur.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
			}
		case geom.Close:
			if cur != nil {
				cur.Close()
			}
		}
	}
	return out
}

// fillPath composites src over dst inside p.
func fillPath(dst *image.RGBA, area image.Rectangle, p *geom.Path, m geom.Matrix, rule geom.FillRule, src image.Image) {
	if rule == geom.FillRuleEvenOdd {
		draw.DrawMask(dst, area, src, area.Min, pathMask(area, p, m, rule), area.Min, draw.Over)
		return
	}
	r := newRasterizer(area, m)
	r.addPath(p)
	r.z.Draw(dst, area, src, area.Min)
}
