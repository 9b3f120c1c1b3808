package geom

import "math"

// Corner indexes for RoundedRect.Corner.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

var cornerSigns = [4][2]float64{
	CornerTopLeft:     {-1, -1},
	CornerTopRight:    {1, -1},
	CornerBottomRight: {1, 1},
	CornerBottomLeft:  {-1, 1},
}

// RoundedRect is a rectangle whose corners are cut by quarter ellipses.
type RoundedRect struct {
	Bounds Rect
	Corner [4]Size
}

// RoundedFromRect returns a rounded rectangle with square corners.
func RoundedFromRect(r Rect) RoundedRect {
	return RoundedRect{Bounds: r}
}

// NewRoundedRect returns a rounded rectangle with the same circular
// radius on every corner.
func NewRoundedRect(r Rect, radius float64) RoundedRect {
	s := Size{W: radius, H: radius}
	return RoundedRect{Bounds: r, Corner: [4]Size{s, s, s, s}}
}

// IsRectilinear reports whether all corners are square.
func (rr RoundedRect) IsRectilinear() bool {
	for _, c := range rr.Corner {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Offset translates the rounded rectangle.
func (rr RoundedRect) Offset(dx, dy float64) RoundedRect {
	rr.Bounds = rr.Bounds.Offset(dx, dy)
	return rr
}

// ScaleBy multiplies bounds and radii by positive factors.
func (rr RoundedRect) ScaleBy(sx, sy float64) RoundedRect {
	rr.Bounds = rr.Bounds.Scale(sx, sy)
	for i := range rr.Corner {
		rr.Corner[i].W *= sx
		rr.Corner[i].H *= sy
	}
	return rr
}

// Dihedral maps the rounded rectangle through d around the origin.
func (rr RoundedRect) Dihedral(d Dihedral) RoundedRect {
	m := d.Matrix()
	out := RoundedRect{Bounds: d.TransformRect(rr.Bounds)}
	for i, c := range rr.Corner {
		sx, sy := m.Apply(cornerSigns[i][0], cornerSigns[i][1])
		if d.Swaps() {
			c.W, c.H = c.H, c.W
		}
		out.Corner[cornerIndex(sx, sy)] = c
	}
	return out
}

func cornerIndex(sx, sy float64) int {
	for i, s := range cornerSigns {
		if s[0] == sx && s[1] == sy {
			return i
		}
	}
	return CornerTopLeft
}

// CornerPoint returns the bounding box corner i.
func (rr RoundedRect) CornerPoint(i int) Point {
	b := rr.Bounds
	switch i {
	case CornerTopRight:
		return Pt(b.Right(), b.Y)
	case CornerBottomRight:
		return Pt(b.Right(), b.Bottom())
	case CornerBottomLeft:
		return Pt(b.X, b.Bottom())
	}
	return Pt(b.X, b.Y)
}

// CornerBox returns the rectangle occupied by corner i.
func (rr RoundedRect) CornerBox(i int) Rect {
	p := rr.CornerPoint(i)
	c := rr.Corner[i]
	return RectFromPoints(p.X, p.Y, p.X-cornerSigns[i][0]*c.W, p.Y-cornerSigns[i][1]*c.H)
}

// ContainsPoint reports whether p lies inside the rounded rectangle.
func (rr RoundedRect) ContainsPoint(p Point) bool {
	if !rr.Bounds.ContainsPoint(p) {
		return false
	}
	for i, c := range rr.Corner {
		if c.IsZero() {
			continue
		}
		box := rr.CornerBox(i)
		if !box.ContainsPoint(p) {
			continue
		}
		corner := rr.CornerPoint(i)
		cx := corner.X - cornerSigns[i][0]*c.W
		cy := corner.Y - cornerSigns[i][1]*c.H
		dx := (p.X - cx) / c.W
		dy := (p.Y - cy) / c.H
		if dx*dx+dy*dy > 1+1e-9 {
			return false
		}
	}
	return true
}

// ContainsRect reports whether r lies completely inside.
func (rr RoundedRect) ContainsRect(r Rect) bool {
	if !rr.Bounds.Contains(r) {
		return false
	}
	return rr.ContainsPoint(Pt(r.X, r.Y)) &&
		rr.ContainsPoint(Pt(r.Right(), r.Y)) &&
		rr.ContainsPoint(Pt(r.Right(), r.Bottom())) &&
		rr.ContainsPoint(Pt(r.X, r.Bottom()))
}

// IntersectsRect reports whether r may overlap the rounded rectangle.
// The answer is exact for rectangles that stay inside one corner box and
// conservative otherwise.
func (rr RoundedRect) IntersectsRect(r Rect) bool {
	if !rr.Bounds.Intersects(r) {
		return false
	}
	for i, c := range rr.Corner {
		if c.IsZero() || !rr.CornerBox(i).Contains(r) {
			continue
		}
		// Only the point of r closest to the ellipse center matters.
		corner := rr.CornerPoint(i)
		cx := corner.X - cornerSigns[i][0]*c.W
		cy := corner.Y - cornerSigns[i][1]*c.H
		px := math.Max(r.X, math.Min(cx, r.Right()))
		py := math.Max(r.Y, math.Min(cy, r.Bottom()))
		dx := (px - cx) / c.W
		dy := (py - cy) / c.H
		return dx*dx+dy*dy < 1
	}
	return true
}

// InnerWide returns the widest rectangle inside that spans the full width.
func (rr RoundedRect) InnerWide() Rect {
	top := math.Max(rr.Corner[CornerTopLeft].H, rr.Corner[CornerTopRight].H)
	bottom := math.Max(rr.Corner[CornerBottomLeft].H, rr.Corner[CornerBottomRight].H)
	b := rr.Bounds
	return Rect{X: b.X, Y: b.Y + top, W: b.W, H: b.H - top - bottom}
}

// InnerHigh returns the tallest rectangle inside that spans the full
// height.
func (rr RoundedRect) InnerHigh() Rect {
	left := math.Max(rr.Corner[CornerTopLeft].W, rr.Corner[CornerBottomLeft].W)
	right := math.Max(rr.Corner[CornerTopRight].W, rr.Corner[CornerBottomRight].W)
	b := rr.Bounds
	return Rect{X: b.X + left, Y: b.Y, W: b.W - left - right, H: b.H}
}

// LargestCover returns a large rectangle inside both rr and r.
func (rr RoundedRect) LargestCover(r Rect) (Rect, bool) {
	if rr.ContainsRect(r) {
		return r, !r.IsEmpty()
	}
	wide, okWide := rr.InnerWide().Intersect(r)
	high, okHigh := rr.InnerHigh().Intersect(r)
	switch {
	case okWide && okHigh:
		if high.Area() > wide.Area() {
			return high, true
		}
		return wide, true
	case okWide:
		return wide, true
	case okHigh:
		return high, true
	}
	return Rect{}, false
}

// OpaqueRect returns the larger of the wide and high inner rectangles.
func (rr RoundedRect) OpaqueRect() (Rect, bool) {
	wide, high := rr.InnerWide(), rr.InnerHigh()
	if high.Area() > wide.Area() {
		wide = high
	}
	return wide, !wide.IsEmpty()
}

// IntersectResult describes the outcome of a rounded intersection.
type IntersectResult uint8

// Intersection outcomes.
const (
	IntersectNonEmpty IntersectResult = iota
	IntersectEmpty
	IntersectUnrepresentable
)

// IntersectRect intersects with a plain rectangle.
func (rr RoundedRect) IntersectRect(r Rect) (RoundedRect, IntersectResult) {
	bounds, ok := rr.Bounds.Intersect(r)
	if !ok {
		return RoundedRect{}, IntersectEmpty
	}
	out := RoundedRect{Bounds: bounds}
	for i, c := range rr.Corner {
		if !c.IsZero() && r.Contains(rr.CornerBox(i)) {
			out.Corner[i] = c
			continue
		}
		if !rr.ContainsPoint(out.CornerPoint(i)) {
			return RoundedRect{}, IntersectUnrepresentable
		}
	}
	return out, IntersectNonEmpty
}

// IntersectRounded intersects two rounded rectangles. Only cases where
// every corner of the result comes from one of the inputs are
// representable.
func (rr RoundedRect) IntersectRounded(o RoundedRect) (RoundedRect, IntersectResult) {
	switch {
	case o.IsRectilinear():
		return rr.IntersectRect(o.Bounds)
	case rr.IsRectilinear():
		return o.IntersectRect(rr.Bounds)
	case rr.ContainsRoundedRect(o):
		return o, IntersectNonEmpty
	case o.ContainsRoundedRect(rr):
		return rr, IntersectNonEmpty
	}
	bounds, ok := rr.Bounds.Intersect(o.Bounds)
	if !ok {
		return RoundedRect{}, IntersectEmpty
	}
	out := RoundedRect{Bounds: bounds}
	for i := range out.Corner {
		p := out.CornerPoint(i)
		onA := rr.CornerPoint(i) == p
		onB := o.CornerPoint(i) == p
		a, b := rr.Corner[i], o.Corner[i]
		switch {
		case onA && onB:
			switch {
			case a.W >= b.W && a.H >= b.H:
				out.Corner[i] = a
			case b.W >= a.W && b.H >= a.H:
				out.Corner[i] = b
			default:
				return RoundedRect{}, IntersectUnrepresentable
			}
		case onA:
			if !o.ContainsRect(rr.CornerBox(i)) {
				return RoundedRect{}, IntersectUnrepresentable
			}
			out.Corner[i] = a
		case onB:
			if !rr.ContainsRect(o.CornerBox(i)) {
				return RoundedRect{}, IntersectUnrepresentable
			}
			out.Corner[i] = b
		default:
			if !rr.ContainsPoint(p) || !o.ContainsPoint(p) {
				return RoundedRect{}, IntersectUnrepresentable
			}
		}
	}
	if !out.cornersFit() {
		return RoundedRect{}, IntersectUnrepresentable
	}
	return out, IntersectNonEmpty
}

// ContainsRoundedRect reports whether o lies completely inside rr.
func (rr RoundedRect) ContainsRoundedRect(o RoundedRect) bool {
	if !rr.Bounds.Contains(o.Bounds) {
		return false
	}
	for i := range o.Corner {
		if o.Corner[i].IsZero() {
			if !rr.ContainsPoint(o.CornerPoint(i)) {
				return false
			}
			continue
		}
		// A corner of o nested in a larger-or-equal corner of rr at the
		// same position, or lying in the straight part of rr, is inside.
		if rr.CornerPoint(i) == o.CornerPoint(i) {
			if rr.Corner[i].W > o.Corner[i].W || rr.Corner[i].H > o.Corner[i].H {
				return false
			}
			continue
		}
		if !rr.ContainsRect(o.CornerBox(i)) {
			return false
		}
	}
	return true
}

func (rr RoundedRect) cornersFit() bool {
	c := rr.Corner
	w, h := rr.Bounds.W, rr.Bounds.H
	return c[CornerTopLeft].W+c[CornerTopRight].W <= w &&
		c[CornerBottomLeft].W+c[CornerBottomRight].W <= w &&
		c[CornerTopLeft].H+c[CornerBottomLeft].H <= h &&
		c[CornerTopRight].H+c[CornerBottomRight].H <= h
}
