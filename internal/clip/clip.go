// Package clip tracks the clip region while a render node tree is compiled
// into ops. A Clip lives in the processor's clip coordinate system (node
// coordinates plus the running offset) and only ever shrinks: callers
// intersect, never union. When an intersection cannot be represented the
// operation reports false and the caller has to pick a more conservative
// path, so the clip never under-clips.
package clip

import (
	"github.com/gogpu/gsk/geom"
)

// Type classifies a clip by what the shaders have to do to honor it.
type Type uint8

// Clip types.
const (
	// TypeAllClipped means nothing can be drawn.
	TypeAllClipped Type = iota
	// TypeNone means no clipping is required. The rectangle still bounds
	// the framebuffer for later intersections.
	TypeNone
	// TypeContained means everything drawn is known to be inside the
	// rectangle.
	TypeContained
	// TypeRect is an axis-aligned rectangular clip.
	TypeRect
	// TypeRounded is a rounded rectangle clip.
	TypeRounded
)

// TypeUnknown is returned by ParseType for names it does not know.
const TypeUnknown Type = 0xff

var typeNames = [...]string{
	TypeAllClipped: "all-clipped",
	TypeNone:       "none",
	TypeContained:  "contained",
	TypeRect:       "rect",
	TypeRounded:    "rounded",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return TypeUnknown, false
}

// ShaderClip is the clipping work left for a single draw call.
type ShaderClip uint8

// Shader clip modes.
const (
	ShaderClipNone ShaderClip = iota
	ShaderClipRect
	ShaderClipRounded
)

func (s ShaderClip) String() string {
	switch s {
	case ShaderClipNone:
		return "none"
	case ShaderClipRect:
		return "rect"
	case ShaderClipRounded:
		return "rounded"
	default:
		return "unknown"
	}
}

// Clip is a value type; copies are independent.
type Clip struct {
	Type Type
	Rect geom.RoundedRect
}

// Empty returns an unclipped state bounded by rect.
func Empty(rect geom.Rect) Clip {
	return Clip{Type: TypeNone, Rect: geom.RoundedFromRect(rect)}
}

// Contained returns a clip known to contain everything drawn.
func Contained(rect geom.Rect) Clip {
	return Clip{Type: TypeContained, Rect: geom.RoundedFromRect(rect)}
}

// FromRect returns a rectangular clip.
func FromRect(rect geom.Rect) Clip {
	return Clip{Type: TypeRect, Rect: geom.RoundedFromRect(rect)}
}

// Bounds returns the bounding box of the clip.
func (c Clip) Bounds() geom.Rect {
	return c.Rect.Bounds
}

// IsAllClipped reports whether nothing can be drawn.
func (c Clip) IsAllClipped() bool {
	return c.Type == TypeAllClipped
}

func afterIntersection(rr geom.RoundedRect, res geom.IntersectResult) (Clip, bool) {
	switch res {
	case geom.IntersectEmpty:
		return Clip{Type: TypeAllClipped}, true
	case geom.IntersectNonEmpty:
		if rr.IsRectilinear() {
			return Clip{Type: TypeRect, Rect: rr}, true
		}
		return Clip{Type: TypeRounded, Rect: rr}, true
	}
	return Clip{}, false
}

// narrowed returns c with a Contained claim turned into an explicit
// rectangle. The claim only holds for the node it was made for, not for
// the descendants drawn under a narrower clip.
func (c Clip) narrowed() Clip {
	if c.Type == TypeContained {
		return FromRect(c.Rect.Bounds)
	}
	return c
}

// IntersectRect intersects c with rect. It returns false if the result
// is not representable; the returned clip must not be used then.
func (c Clip) IntersectRect(rect geom.Rect) (Clip, bool) {
	if c.Type == TypeAllClipped {
		return c, true
	}
	if rect.Contains(c.Rect.Bounds) {
		return c.narrowed(), true
	}
	switch c.Type {
	case TypeNone, TypeContained, TypeRect:
		b, ok := c.Rect.Bounds.Intersect(rect)
		if !ok {
			return Clip{Type: TypeAllClipped}, true
		}
		return FromRect(b), true
	case TypeRounded:
		return afterIntersection(c.Rect.IntersectRect(rect))
	}
	return Clip{}, false
}

// IntersectRoundedRect intersects c with a rounded rectangle. It returns
// false if the result is not representable.
func (c Clip) IntersectRoundedRect(rr geom.RoundedRect) (Clip, bool) {
	if c.Type == TypeAllClipped {
		return c, true
	}
	if rr.ContainsRect(c.Rect.Bounds) {
		return c.narrowed(), true
	}
	switch c.Type {
	case TypeNone, TypeContained, TypeRect:
		return afterIntersection(rr.IntersectRect(c.Rect.Bounds))
	case TypeRounded:
		return afterIntersection(c.Rect.IntersectRounded(rr))
	}
	return Clip{}, false
}

// Scale maps the clip into a child coordinate system: the dihedral d is
// applied first, then both axes are divided by the scale factors.
func (c Clip) Scale(d geom.Dihedral, sx, sy float64) Clip {
	if c.Type == TypeAllClipped {
		return c
	}
	c.Rect = c.Rect.Dihedral(d).ScaleBy(1/sx, 1/sy)
	return c
}

// Transform maps the clip through the inverse of t, the transform from
// child to parent space. viewport is the child area used when the clip
// is Contained. Only axis-preserving transforms succeed.
func (c Clip) Transform(t geom.Transform, viewport geom.Rect) (Clip, bool) {
	switch c.Type {
	case TypeAllClipped:
		return c, true
	case TypeContained:
		return Contained(viewport), true
	}
	switch cat := t.Category(); {
	case cat == geom.CategoryIdentity:
		return c, true
	case cat == geom.Category2DTranslate:
		dx, dy := t.ToTranslate()
		c.Rect = c.Rect.Offset(-dx, -dy)
		return c, true
	case cat >= geom.Category2DDihedral:
		d, sx, sy, dx, dy := t.ToDihedral()
		c.Rect = c.Rect.Offset(-dx, -dy)
		return c.Scale(d.Invert(), 1, 1).Scale(geom.DihedralNormal, sx, sy), true
	}
	return Clip{}, false
}

// ContainsRect reports whether rect, shifted by offset, is completely
// inside the clip.
func (c Clip) ContainsRect(offset geom.Point, rect geom.Rect) bool {
	r := rect.Offset(offset.X, offset.Y)
	switch c.Type {
	case TypeAllClipped:
		return false
	case TypeNone, TypeContained, TypeRect:
		return c.Rect.Bounds.Contains(r)
	case TypeRounded:
		return c.Rect.ContainsRect(r)
	}
	return false
}

// MayIntersectRect reports whether rect, shifted by offset, can touch
// any visible pixel.
func (c Clip) MayIntersectRect(offset geom.Point, rect geom.Rect) bool {
	r := rect.Offset(offset.X, offset.Y)
	switch c.Type {
	case TypeAllClipped:
		return false
	case TypeNone, TypeContained, TypeRect:
		return c.Rect.Bounds.Intersects(r)
	case TypeRounded:
		return c.Rect.IntersectsRect(r)
	}
	return false
}

// ShaderClip returns the clipping a shader has to perform when drawing
// rect shifted by offset.
func (c Clip) ShaderClip(offset geom.Point, rect geom.Rect) ShaderClip {
	switch {
	case c.Type == TypeNone || c.Type == TypeContained:
		return ShaderClipNone
	case c.ContainsRect(offset, rect):
		return ShaderClipNone
	case c.Type == TypeRect:
		return ShaderClipRect
	}
	return ShaderClipRounded
}
