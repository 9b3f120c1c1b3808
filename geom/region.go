// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

// Region is a set of pixels described by non-overlapping integer
// rectangles. The zero value is an empty region.
type Region struct {
	rects []IRect
}

// NewRegion creates a region covering the union of rects.
func NewRegion(rects ...IRect) *Region {
	r := &Region{}
	for _, rect := range rects {
		r.Union(rect)
	}
	return r
}

// Clone returns an independent copy.
func (r *Region) Clone() *Region {
	return &Region{rects: append([]IRect(nil), r.rects...)}
}

// IsEmpty reports whether the region covers no pixels.
func (r *Region) IsEmpty() bool {
	return len(r.rects) == 0
}

// NumRects returns the number of rectangles in the region.
func (r *Region) NumRects() int {
	return len(r.rects)
}

// Rect returns the i-th rectangle.
func (r *Region) Rect(i int) IRect {
	return r.rects[i]
}

// Rects returns a copy of the rectangles.
func (r *Region) Rects() []IRect {
	return append([]IRect(nil), r.rects...)
}

// Area returns the number of covered pixels.
func (r *Region) Area() int {
	n := 0
	for _, rect := range r.rects {
		n += rect.Area()
	}
	return n
}

// Extents returns the bounding box of the region.
func (r *Region) Extents() IRect {
	var ext IRect
	for _, rect := range r.rects {
		ext = ext.Union(rect)
	}
	return ext
}

// Largest returns the index of the rectangle with the biggest area, or -1
// for an empty region. Ties keep the first one.
func (r *Region) Largest() int {
	best, bestArea := -1, -1
	for i, rect := range r.rects {
		if a := rect.Area(); a > bestArea {
			best, bestArea = i, a
		}
	}
	return best
}

// Union adds rect to the region.
func (r *Region) Union(rect IRect) {
	if rect.IsEmpty() {
		return
	}
	pieces := []IRect{rect}
	for _, existing := range r.rects {
		pieces = subtractAll(pieces, existing)
		if len(pieces) == 0 {
			return
		}
	}
	r.rects = append(r.rects, pieces...)
}

// Subtract removes rect from the region.
func (r *Region) Subtract(rect IRect) {
	if rect.IsEmpty() || len(r.rects) == 0 {
		return
	}
	r.rects = subtractAll(r.rects, rect)
}

// Intersect limits the region to rect.
func (r *Region) Intersect(rect IRect) {
	out := r.rects[:0]
	for _, existing := range r.rects {
		if i, ok := existing.Intersect(rect); ok {
			out = append(out, i)
		}
	}
	r.rects = out
}

// ContainsRect reports whether every pixel of rect is in the region.
func (r *Region) ContainsRect(rect IRect) bool {
	if rect.IsEmpty() {
		return true
	}
	pieces := []IRect{rect}
	for _, existing := range r.rects {
		pieces = subtractAll(pieces, existing)
		if len(pieces) == 0 {
			return true
		}
	}
	return false
}

func subtractAll(rects []IRect, cut IRect) []IRect {
	var out []IRect
	for _, rect := range rects {
		out = appendDifference(out, rect, cut)
	}
	return out
}

// appendDifference appends rect minus cut as at most four bands.
func appendDifference(out []IRect, rect, cut IRect) []IRect {
	inter, ok := rect.Intersect(cut)
	if !ok {
		return append(out, rect)
	}
	if inter.Y > rect.Y {
		out = append(out, IRect{X: rect.X, Y: rect.Y, W: rect.W, H: inter.Y - rect.Y})
	}
	if inter.X > rect.X {
		out = append(out, IRect{X: rect.X, Y: inter.Y, W: inter.X - rect.X, H: inter.H})
	}
	if inter.Right() < rect.Right() {
		out = append(out, IRect{X: inter.Right(), Y: inter.Y, W: rect.Right() - inter.Right(), H: inter.H})
	}
	if inter.Bottom() < rect.Bottom() {
		out = append(out, IRect{X: rect.X, Y: inter.Bottom(), W: rect.W, H: rect.Bottom() - inter.Bottom()})
	}
	return out
}
