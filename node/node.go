// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package node defines the immutable render node tree consumed by the
// compiler.
//
// Every node kind is a separate struct type implementing Node. Nodes are
// constructed once and never mutated, so subtrees may be shared freely
// between trees and across frames.
package node

import (
	"image"

	"github.com/gogpu/gsk/geom"
)

// Kind identifies the type of a render node.
type Kind uint8

// Node kinds.
const (
	KindContainer Kind = iota
	KindColor
	KindTexture
	KindTransform
	KindOpacity
	KindClip
	KindRoundedClip
	KindShadow
	KindBlur
	KindBlend
	KindCrossFade
	KindMask
	KindStroke
	KindFill
	KindText
	KindDebug
	KindSubsurface

	// NumKinds is the number of known kinds. Tables indexed by Kind
	// have this size.
	NumKinds = int(iota)
)

// KindUnknown is returned by ParseKind for names it does not know.
const KindUnknown Kind = 0xff

var kindNames = [...]string{
	KindContainer:   "container",
	KindColor:       "color",
	KindTexture:     "texture",
	KindTransform:   "transform",
	KindOpacity:     "opacity",
	KindClip:        "clip",
	KindRoundedClip: "rounded-clip",
	KindShadow:      "shadow",
	KindBlur:        "blur",
	KindBlend:       "blend",
	KindCrossFade:   "cross-fade",
	KindMask:        "mask",
	KindStroke:      "stroke",
	KindFill:        "fill",
	KindText:        "text",
	KindDebug:       "debug",
	KindSubsurface:  "subsurface",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}

// Node is a render node.
type Node interface {
	// Kind returns the node type.
	Kind() Kind
	// Bounds returns the area the node may draw to.
	Bounds() geom.Rect
	// OpaqueRect returns a rectangle inside Bounds that the node covers
	// with fully opaque pixels, or false if there is none.
	OpaqueRect() (geom.Rect, bool)
}

// Drawer is implemented by node types defined outside this package.
// Such nodes have no op emitter; the compiler rasterizes them by calling
// Draw with a matrix from node to dst pixel coordinates.
type Drawer interface {
	Node
	Draw(dst *image.RGBA, m geom.Matrix)
}

// IsFullyOpaque reports whether n covers all of its bounds with opaque
// pixels.
func IsFullyOpaque(n Node) bool {
	r, ok := n.OpaqueRect()
	return ok && r == n.Bounds()
}

// IsEmpty reports whether n has zero width or height and can therefore
// never draw anything.
func IsEmpty(n Node) bool {
	b := n.Bounds()
	return b.W <= 0 || b.H <= 0
}

// Children returns the direct children of n in paint order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Container:
		return n.children
	case *Transform:
		return []Node{n.child}
	case *Opacity:
		return []Node{n.child}
	case *Clip:
		return []Node{n.child}
	case *RoundedClip:
		return []Node{n.child}
	case *Shadow:
		return []Node{n.child}
	case *Blur:
		return []Node{n.child}
	case *Blend:
		return []Node{n.bottom, n.top}
	case *CrossFade:
		return []Node{n.start, n.end}
	case *Mask:
		return []Node{n.source, n.mask}
	case *Stroke:
		return []Node{n.child}
	case *Fill:
		return []Node{n.child}
	case *Debug:
		return []Node{n.child}
	case *Subsurface:
		return []Node{n.child}
	}
	return nil
}

// Walk calls fn for n and all its descendants in depth-first paint order.
// Descent stops below a node for which fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// opaqueIntersect intersects an optional opaque rect with r.
func opaqueIntersect(opaque geom.Rect, ok bool, r geom.Rect) (geom.Rect, bool) {
	if !ok {
		return geom.Rect{}, false
	}
	return opaque.Intersect(r)
}
