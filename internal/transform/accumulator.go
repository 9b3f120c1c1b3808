// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package transform folds render-node transforms into a cheap
// representation: a dihedral, a positive per-axis scale and an offset.
package transform

import (
	"fmt"

	"github.com/gogpu/gsk/geom"
)

// Accumulator maps a point p to Dihedral((p + Offset) * Scale).
//
// Scale components are always positive.
type Accumulator struct {
	Dihedral geom.Dihedral
	ScaleX   float64
	ScaleY   float64
	Offset   geom.Point
}

// New returns an accumulator. It panics if a scale factor is not
// positive.
func New(d geom.Dihedral, sx, sy float64, offset geom.Point) Accumulator {
	if !(sx > 0) || !(sy > 0) {
		panic(fmt.Sprintf("transform: scale must be positive, got %v, %v", sx, sy))
	}
	return Accumulator{Dihedral: d, ScaleX: sx, ScaleY: sy, Offset: offset}
}

// Identity returns the identity accumulator.
func Identity() Accumulator {
	return Accumulator{ScaleX: 1, ScaleY: 1}
}

// Transform folds t, mapping child coordinates to the current ones, into
// the accumulator. It returns false and leaves the receiver untouched if
// t is not a translation, scale or dihedral transform.
func (a *Accumulator) Transform(t geom.Transform) bool {
	switch cat := t.Category(); {
	case cat == geom.CategoryIdentity:
		return true
	case cat == geom.Category2DTranslate:
		dx, dy := t.ToTranslate()
		a.Offset = a.Offset.Add(geom.Pt(dx, dy))
		return true
	case cat >= geom.Category2DDihedral:
		d, tx, ty, dx, dy := t.ToDihedral()
		if !(tx > 0) || !(ty > 0) {
			return false
		}
		// Move the offset in front of the new transform.
		ix, iy := d.Invert().Matrix().Apply(dx+a.Offset.X, dy+a.Offset.Y)
		sx, sy := a.ScaleX, a.ScaleY
		if d.Swaps() {
			sx, sy = sy, sx
		}
		a.Dihedral = a.Dihedral.Compose(d)
		a.ScaleX = sx * tx
		a.ScaleY = sy * ty
		a.Offset = geom.Pt(ix/tx, iy/ty)
		return true
	}
	return false
}

// TransformPoint maps a point: offset, then scale, then dihedral.
func (a Accumulator) TransformPoint(p geom.Point) geom.Point {
	x, y := a.Dihedral.Matrix().Apply((p.X+a.Offset.X)*a.ScaleX, (p.Y+a.Offset.Y)*a.ScaleY)
	return geom.Pt(x, y)
}

// TransformRect maps a rectangle: offset, then scale, then dihedral.
func (a Accumulator) TransformRect(r geom.Rect) geom.Rect {
	r = r.Offset(a.Offset.X, a.Offset.Y).Scale(a.ScaleX, a.ScaleY)
	return a.Dihedral.TransformRect(r)
}

// InvertRect is the inverse of TransformRect.
func (a Accumulator) InvertRect(r geom.Rect) geom.Rect {
	r = a.Dihedral.Invert().TransformRect(r)
	r = r.Scale(1/a.ScaleX, 1/a.ScaleY)
	return r.Offset(-a.Offset.X, -a.Offset.Y)
}

// Matrix returns the dihedral part as a 4x4 matrix.
func (a Accumulator) Matrix() geom.Matrix {
	return geom.DihedralTransform(a.Dihedral).Matrix()
}

// FullMatrix returns the complete mapping as a 4x4 matrix.
func (a Accumulator) FullMatrix() geom.Matrix {
	m := geom.ScaleMatrix(a.ScaleX, a.ScaleY, 1).Mul(geom.TranslateMatrix(a.Offset.X, a.Offset.Y, 0))
	return a.Matrix().Mul(m)
}
