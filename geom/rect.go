// Package geom provides the geometry shared by render nodes, the clip
// engine and the op compiler: points, rectangles, rounded rectangles,
// regions, 4x4 matrices and classified transforms.
package geom

import "math"

// Point represents a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect represents a rectangle with float64 coordinates.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromPoints creates the rectangle spanned by two corners.
func RectFromPoints(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X: math.Min(x0, x1),
		Y: math.Min(y0, y1),
		W: math.Abs(x1 - x0),
		H: math.Abs(y1 - y0),
	}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Area returns W*H, or 0 for empty rectangles.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// IsFinite reports whether all components are finite numbers.
func (r Rect) IsFinite() bool {
	for _, v := range [4]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ContainsPoint returns true if the point is inside the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Contains reports whether other lies completely inside r.
// Edges may touch.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Intersects reports whether the two rectangles share a region of
// positive area. Rectangles that only touch do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return other.X < r.Right() && r.X < other.Right() &&
		other.Y < r.Bottom() && r.Y < other.Bottom()
}

// Intersect returns the intersection of two rectangles and whether it is
// non-empty. The returned rectangle is the zero Rect when it is empty.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Union returns the smallest rectangle containing both rectangles.
// Empty rectangles are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.Right(), other.Right())
	y1 := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Scale multiplies position and size by (sx, sy). Negative factors
// produce a normalized rectangle.
func (r Rect) Scale(sx, sy float64) Rect {
	return RectFromPoints(r.X*sx, r.Y*sy, r.Right()*sx, r.Bottom()*sy)
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Equal reports exact equality.
func (r Rect) Equal(other Rect) bool {
	return r.X == other.X && r.Y == other.Y && r.W == other.W && r.H == other.H
}

// Shrink returns the largest integer rectangle inside r.
func (r Rect) Shrink() IRect {
	x := math.Ceil(r.X)
	y := math.Ceil(r.Y)
	w := math.Floor(r.Right()) - x
	h := math.Floor(r.Bottom()) - y
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return IRect{X: int(x), Y: int(y), W: int(w), H: int(h)}
}

// RoundOut returns the smallest integer rectangle containing r.
func (r Rect) RoundOut() IRect {
	x := math.Floor(r.X)
	y := math.Floor(r.Y)
	return IRect{
		X: int(x),
		Y: int(y),
		W: int(math.Ceil(r.Right()) - x),
		H: int(math.Ceil(r.Bottom()) - y),
	}
}

// IsInteger reports whether all edges lie on integer coordinates.
func (r Rect) IsInteger() bool {
	return r.X == math.Floor(r.X) && r.Y == math.Floor(r.Y) &&
		r.Right() == math.Floor(r.Right()) && r.Bottom() == math.Floor(r.Bottom())
}

// Coverage returns the largest rectangle contained in the union of r1 and
// r2. It is the larger of the two inputs unless the rectangles overlap in
// a way that allows a bigger rectangle spanning both.
func Coverage(r1, r2 Rect) Rect {
	best := r1
	size := r1.Area()
	if a := r2.Area(); a > size {
		best, size = r2, a
	}

	x1min := math.Min(r1.X, r2.X)
	y1min := math.Min(r1.Y, r2.Y)
	x1max := math.Max(r1.X, r2.X)
	y1max := math.Max(r1.Y, r2.Y)
	x2min := math.Min(r1.Right(), r2.Right())
	y2min := math.Min(r1.Bottom(), r2.Bottom())
	x2max := math.Max(r1.Right(), r2.Right())
	y2max := math.Max(r1.Bottom(), r2.Bottom())

	if x2min < x1max || y2min < y1max {
		return best
	}
	// Tall rectangle over the shared columns.
	if w, h := x2min-x1max, y2max-y1min; w*h > size {
		best, size = Rect{X: x1max, Y: y1min, W: w, H: h}, w*h
	}
	// Wide rectangle over the shared rows.
	if w, h := x2max-x1min, y2min-y1max; w*h > size {
		best = Rect{X: x1min, Y: y1max, W: w, H: h}
	}
	return best
}

// IRect is an integer rectangle in device pixels.
type IRect struct {
	X, Y, W, H int
}

// NewIRect creates an IRect from position and size.
func NewIRect(x, y, w, h int) IRect {
	return IRect{X: x, Y: y, W: w, H: h}
}

// Right returns X+W.
func (r IRect) Right() int { return r.X + r.W }

// Bottom returns Y+H.
func (r IRect) Bottom() int { return r.Y + r.H }

// IsEmpty reports whether the rectangle covers no pixels.
func (r IRect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns the number of pixels covered.
func (r IRect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// Rect converts to a float rectangle.
func (r IRect) Rect() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// Contains reports whether other lies completely inside r.
func (r IRect) Contains(other IRect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Intersect returns the intersection and whether it is non-empty.
func (r IRect) Intersect(other IRect) (IRect, bool) {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.Right(), other.Right())
	y1 := min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return IRect{}, false
	}
	return IRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Union returns the bounding box of both rectangles.
func (r IRect) Union(other IRect) IRect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.Right(), other.Right())
	y1 := max(r.Bottom(), other.Bottom())
	return IRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
