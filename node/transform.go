package node

import "github.com/gogpu/gsk/geom"

// Transform draws its child with a transform applied.
type Transform struct {
	child  Node
	t      geom.Transform
	bounds geom.Rect
}

// NewTransform returns a node drawing child transformed by t.
func NewTransform(child Node, t geom.Transform) *Transform {
	return &Transform{child: child, t: t, bounds: t.TransformBounds(child.Bounds())}
}

func (n *Transform) Kind() Kind                { return KindTransform }
func (n *Transform) Bounds() geom.Rect         { return n.bounds }
func (n *Transform) Child() Node               { return n.child }
func (n *Transform) Transform() geom.Transform { return n.t }

// OpaqueRect is only known for transforms that keep axis-aligned
// rectangles axis-aligned.
func (n *Transform) OpaqueRect() (geom.Rect, bool) {
	if n.t.Category() < geom.Category2DDihedral {
		return geom.Rect{}, false
	}
	o, ok := n.child.OpaqueRect()
	if !ok {
		return geom.Rect{}, false
	}
	return n.t.TransformBounds(o), true
}

// Clip restricts its child to a rectangle.
type Clip struct {
	child  Node
	clip   geom.Rect
	bounds geom.Rect
}

// NewClip returns a node drawing child clipped to rect.
func NewClip(child Node, rect geom.Rect) *Clip {
	b, _ := child.Bounds().Intersect(rect)
	return &Clip{child: child, clip: rect, bounds: b}
}

func (n *Clip) Kind() Kind          { return KindClip }
func (n *Clip) Bounds() geom.Rect   { return n.bounds }
func (n *Clip) Child() Node         { return n.child }
func (n *Clip) ClipRect() geom.Rect { return n.clip }

func (n *Clip) OpaqueRect() (geom.Rect, bool) {
	o, ok := n.child.OpaqueRect()
	return opaqueIntersect(o, ok, n.clip)
}

// RoundedClip restricts its child to a rounded rectangle.
type RoundedClip struct {
	child  Node
	clip   geom.RoundedRect
	bounds geom.Rect
}

// NewRoundedClip returns a node drawing child clipped to rr.
func NewRoundedClip(child Node, rr geom.RoundedRect) *RoundedClip {
	b, _ := child.Bounds().Intersect(rr.Bounds)
	return &RoundedClip{child: child, clip: rr, bounds: b}
}

func (n *RoundedClip) Kind() Kind                 { return KindRoundedClip }
func (n *RoundedClip) Bounds() geom.Rect          { return n.bounds }
func (n *RoundedClip) Child() Node                { return n.child }
func (n *RoundedClip) ClipRect() geom.RoundedRect { return n.clip }

// OpaqueRect picks the larger of the child's opaque area inside the wide
// and the high inner rectangle of the clip.
func (n *RoundedClip) OpaqueRect() (geom.Rect, bool) {
	o, ok := n.child.OpaqueRect()
	if !ok {
		return geom.Rect{}, false
	}
	wide, okWide := o.Intersect(n.clip.InnerWide())
	high, okHigh := o.Intersect(n.clip.InnerHigh())
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
	return geom.Rect{}, false
}

// Debug attaches a message to a subtree without changing its rendering.
type Debug struct {
	child   Node
	message string
}

func NewDebug(child Node, message string) *Debug {
	return &Debug{child: child, message: message}
}

func (n *Debug) Kind() Kind                    { return KindDebug }
func (n *Debug) Bounds() geom.Rect             { return n.child.Bounds() }
func (n *Debug) OpaqueRect() (geom.Rect, bool) { return n.child.OpaqueRect() }
func (n *Debug) Child() Node                   { return n.child }
func (n *Debug) Message() string               { return n.message }

// Subsurface marks content that a compositor could place on its own
// surface. The renderer always draws the child itself.
type Subsurface struct {
	child Node
}

func NewSubsurface(child Node) *Subsurface {
	return &Subsurface{child: child}
}

func (n *Subsurface) Kind() Kind                    { return KindSubsurface }
func (n *Subsurface) Bounds() geom.Rect             { return n.child.Bounds() }
func (n *Subsurface) OpaqueRect() (geom.Rect, bool) { return n.child.OpaqueRect() }
func (n *Subsurface) Child() Node                   { return n.child }
