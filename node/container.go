package node

import "github.com/gogpu/gsk/geom"

// Container draws its children in order.
type Container struct {
	children []Node
	bounds   geom.Rect
	opaque   geom.Rect
	isOpaque bool
	disjoint bool
}

// NewContainer returns a container of the given children. Nil children
// are dropped.
func NewContainer(children ...Node) *Container {
	c := &Container{children: make([]Node, 0, len(children)), disjoint: true}
	for _, child := range children {
		if child == nil {
			continue
		}
		b := child.Bounds()
		if len(c.children) == 0 {
			c.bounds = b
		} else {
			if c.bounds.Intersects(b) {
				c.disjoint = false
			}
			c.bounds = c.bounds.Union(b)
		}
		c.children = append(c.children, child)

		if o, ok := child.OpaqueRect(); ok {
			if c.isOpaque {
				c.opaque = geom.Coverage(c.opaque, o)
			} else {
				c.opaque, c.isOpaque = o, true
			}
		}
	}
	return c
}

func (c *Container) Kind() Kind        { return KindContainer }
func (c *Container) Bounds() geom.Rect { return c.bounds }

func (c *Container) OpaqueRect() (geom.Rect, bool) {
	return c.opaque, c.isOpaque
}

// Children returns the children in paint order. The slice must not be
// modified.
func (c *Container) Children() []Node { return c.children }

// IsDisjoint reports whether no two children overlap.
func (c *Container) IsDisjoint() bool { return c.disjoint }
