package node

import "github.com/gogpu/gsk/geom"

// Fill paints its child only inside a path.
type Fill struct {
	child  Node
	path   *geom.Path
	rule   geom.FillRule
	bounds geom.Rect
}

func NewFill(child Node, path *geom.Path, rule geom.FillRule) *Fill {
	b, _ := child.Bounds().Intersect(path.Bounds())
	return &Fill{child: child, path: path, rule: rule, bounds: b}
}

func (n *Fill) Kind() Kind                    { return KindFill }
func (n *Fill) Bounds() geom.Rect             { return n.bounds }
func (n *Fill) Child() Node                   { return n.child }
func (n *Fill) Path() *geom.Path              { return n.path }
func (n *Fill) FillRule() geom.FillRule       { return n.rule }
func (n *Fill) OpaqueRect() (geom.Rect, bool) { return geom.Rect{}, false }

// Stroke paints its child only along the outline of a path.
type Stroke struct {
	child  Node
	path   *geom.Path
	stroke geom.Stroke
	bounds geom.Rect
}

func NewStroke(child Node, path *geom.Path, stroke geom.Stroke) *Stroke {
	outline := path.Bounds().Inset(-stroke.Extent())
	b, _ := child.Bounds().Intersect(outline)
	return &Stroke{child: child, path: path, stroke: stroke, bounds: b}
}

func (n *Stroke) Kind() Kind                    { return KindStroke }
func (n *Stroke) Bounds() geom.Rect             { return n.bounds }
func (n *Stroke) Child() Node                   { return n.child }
func (n *Stroke) Path() *geom.Path              { return n.path }
func (n *Stroke) Stroke() geom.Stroke           { return n.stroke }
func (n *Stroke) OpaqueRect() (geom.Rect, bool) { return geom.Rect{}, false }
