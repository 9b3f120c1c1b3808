package cpu

import (
	"math"

	"github.com/gogpu/gsk/geom"
)

// flattenSegments is the number of lines a curve is split into when
// stroking.
const flattenSegments = 16

// polyline is a flattened subpath.
type polyline struct {
	pts    []geom.Point
	closed bool
}

func flatten(p *geom.Path) []polyline {
	var out []polyline
	cur := -1
	add := func(pt geom.Point) { out[cur].pts = append(out[cur].pts, pt) }
	last := func() geom.Point { return out[cur].pts[len(out[cur].pts)-1] }
	for _, e := range p.Elements() {
		if _, ok := e.(geom.MoveTo); !ok && cur < 0 {
			continue
		}
		switch e := e.(type) {
		case geom.MoveTo:
			out = append(out, polyline{pts: []geom.Point{e.Point}})
			cur = len(out) - 1
		case geom.LineTo:
			add(e.Point)
		case geom.QuadTo:
			p0 := last()
			for i := 1; i <= flattenSegments; i++ {
				t := float64(i) / flattenSegments
				u := 1 - t
				add(geom.Pt(
					u*u*p0.X+2*u*t*e.Control.X+t*t*e.Point.X,
					u*u*p0.Y+2*u*t*e.Control.Y+t*t*e.Point.Y,
				))
			}
		case geom.CubicTo:
			p0 := last()
			for i := 1; i <= flattenSegments; i++ {
				t := float64(i) / flattenSegments
				u := 1 - t
				a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
				add(geom.Pt(
					a*p0.X+b*e.Control1.X+c*e.Control2.X+d*e.Point.X,
					a*p0.Y+b*e.Control1.Y+c*e.Control2.Y+d*e.Point.Y,
				))
			}
		case geom.Close:
			out[cur].closed = true
			// drawing after a close continues from the subpath start
			out = append(out, polyline{pts: []geom.Point{out[cur].pts[0]}})
			cur = len(out) - 1
		}
	}
	return out
}

// strokeOutline returns a path covering the stroke of p. The outline is a
// union of consistently oriented polygons, one per segment, join and cap,
// so it must be filled with the nonzero rule.
func strokeOutline(p *geom.Path, s geom.Stroke) *geom.Path {
	out := geom.NewPath()
	h := s.Width / 2
	if h <= 0 {
		return out
	}
	for _, pl := range flatten(p) {
		pts := dedupe(pl.pts)
		if len(pts) < 2 {
			continue
		}
		n := len(pts)
		for i := 0; i+1 < n; i++ {
			a, b := pts[i], pts[i+1]
			if !pl.closed && s.Cap == geom.LineCapSquare {
				d := unit(b.Sub(a))
				if i == 0 {
					a = a.Sub(scale(d, h))
				}
				if i == n-2 {
					b = b.Add(scale(d, h))
				}
			}
			addPolygon(out, segmentQuad(a, b, h))
		}
		if pl.closed {
			if pts[0] != pts[n-1] {
				addPolygon(out, segmentQuad(pts[n-1], pts[0], h))
				pts = append(pts, pts[0])
				n++
			}
			addJoin(out, pts[n-2], pts[0], pts[1], h, s)
		}
		for i := 1; i+1 < n; i++ {
			addJoin(out, pts[i-1], pts[i], pts[i+1], h, s)
		}
		if !pl.closed && s.Cap == geom.LineCapRound {
			addPolygon(out, circle(pts[0], h))
			addPolygon(out, circle(pts[n-1], h))
		}
	}
	return out
}

func dedupe(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

func addJoin(out *geom.Path, prev, p, next geom.Point, h float64, s geom.Stroke) {
	if s.Join == geom.LineJoinRound {
		addPolygon(out, circle(p, h))
		return
	}
	n0 := normal(p.Sub(prev))
	n1 := normal(next.Sub(p))
	for _, side := range [2]float64{1, -1} {
		a := p.Add(scale(n0, side*h))
		b := p.Add(scale(n1, side*h))
		sum := n0.Add(n1)
		l := math.Hypot(sum.X, sum.Y)
		if s.Join == geom.LineJoinMiter && l > 1e-9 && 2/l <= s.MiterLimit {
			mp := p.Add(scale(sum, side*h*2/(l*l)))
			addPolygon(out, []geom.Point{p, a, mp, b})
			continue
		}
		addPolygon(out, []geom.Point{p, a, b})
	}
}

func segmentQuad(a, b geom.Point, h float64) []geom.Point {
	n := scale(normal(b.Sub(a)), h)
	return []geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
}

func circle(c geom.Point, r float64) []geom.Point {
	const steps = 24
	pts := make([]geom.Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		pts[i] = geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

// addPolygon appends pts as a closed subpath with positive signed area.
func addPolygon(out *geom.Path, pts []geom.Point) {
	if len(pts) < 3 {
		return
	}
	var area float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area == 0 {
		return
	}
	out.MoveTo(pts[0].X, pts[0].Y)
	if area > 0 {
		for _, p := range pts[1:] {
			out.LineTo(p.X, p.Y)
		}
	} else {
		for i := len(pts) - 1; i > 0; i-- {
			out.LineTo(pts[i].X, pts[i].Y)
		}
	}
	out.Close()
}

func unit(v geom.Point) geom.Point {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return geom.Point{}
	}
	return geom.Pt(v.X/l, v.Y/l)
}

func normal(v geom.Point) geom.Point {
	u := unit(v)
	return geom.Pt(-u.Y, u.X)
}

func scale(v geom.Point, f float64) geom.Point {
	return geom.Pt(v.X*f, v.Y*f)
}
