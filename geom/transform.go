package geom

import "math"

// Category classifies a transform by the cheapest representation able to
// express it. Higher values are more restricted.
type Category uint8

// Transform categories, from least to most restricted.
const (
	CategoryUnknown Category = iota
	CategoryAny
	Category3D
	Category2D
	Category2DDihedral
	Category2DNegativeAffine
	Category2DAffine
	Category2DTranslate
	CategoryIdentity
)

var categoryNames = [...]string{
	CategoryUnknown:          "unknown",
	CategoryAny:              "any",
	Category3D:               "3d",
	Category2D:               "2d",
	Category2DDihedral:       "2d-dihedral",
	Category2DNegativeAffine: "2d-negative-affine",
	Category2DAffine:         "2d-affine",
	Category2DTranslate:      "2d-translate",
	CategoryIdentity:         "identity",
}

// String returns the category name.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// ParseCategory is the inverse of String. Unrecognised names return
// CategoryUnknown and false.
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if name == s && Category(i) != CategoryUnknown {
			return Category(i), true
		}
	}
	return CategoryUnknown, false
}

// Transform is an immutable general transform together with its
// category. The zero value is the identity.
type Transform struct {
	m   Matrix
	cat Category
	set bool
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{}
}

// Translate returns a 2D translation.
func Translate(dx, dy float64) Transform {
	return FromMatrix(TranslateMatrix(dx, dy, 0))
}

// Scale returns a 2D scale.
func Scale(sx, sy float64) Transform {
	return FromMatrix(ScaleMatrix(sx, sy, 1))
}

// Rotate returns a clockwise rotation by deg degrees. Multiples of 90
// degrees produce exact dihedral matrices.
func Rotate(deg float64) Transform {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	var c, s float64
	switch deg {
	case 0:
		c, s = 1, 0
	case 90:
		c, s = 0, 1
	case 180:
		c, s = -1, 0
	case 270:
		c, s = 0, -1
	default:
		rad := deg * math.Pi / 180
		c, s = math.Cos(rad), math.Sin(rad)
	}
	m := Identity()
	m[0], m[1] = c, -s
	m[4], m[5] = s, c
	return FromMatrix(m)
}

// DihedralTransform returns the pure dihedral transform d.
func DihedralTransform(d Dihedral) Transform {
	dm := d.Matrix()
	m := Identity()
	m[0], m[1] = dm.XX, dm.XY
	m[4], m[5] = dm.YX, dm.YY
	return FromMatrix(m)
}

// Perspective returns a perspective projection with the given depth.
func Perspective(depth float64) Transform {
	m := Identity()
	m[14] = -1 / depth
	return FromMatrix(m)
}

// FromMatrix wraps a matrix, computing its category.
func FromMatrix(m Matrix) Transform {
	return Transform{m: m, cat: classify(m), set: true}
}

// Then returns the transform that applies t first and then next.
func (t Transform) Then(next Transform) Transform {
	return FromMatrix(next.Matrix().Mul(t.Matrix()))
}

// Matrix returns the 4x4 matrix.
func (t Transform) Matrix() Matrix {
	if !t.set {
		return Identity()
	}
	return t.m
}

// Category returns the transform category.
func (t Transform) Category() Category {
	if !t.set {
		return CategoryIdentity
	}
	return t.cat
}

// Invert returns the inverse transform.
func (t Transform) Invert() (Transform, bool) {
	inv, ok := t.Matrix().Invert()
	if !ok {
		return Transform{}, false
	}
	return FromMatrix(inv), true
}

// TransformPoint maps a point.
func (t Transform) TransformPoint(p Point) Point {
	return t.Matrix().TransformPoint(p)
}

// TransformBounds returns the bounds of the transformed rectangle.
func (t Transform) TransformBounds(r Rect) Rect {
	switch t.Category() {
	case CategoryIdentity:
		return r
	case Category2DTranslate:
		return r.Offset(t.m[3], t.m[7])
	}
	return t.Matrix().TransformBounds(r)
}

// ToTranslate returns the translation of a transform whose category is
// at least Category2DTranslate.
func (t Transform) ToTranslate() (dx, dy float64) {
	m := t.Matrix()
	return m[3], m[7]
}

// ToAffine decomposes a transform of category at least
// Category2DNegativeAffine into scale and translation. Scale factors may
// be negative.
func (t Transform) ToAffine() (sx, sy, dx, dy float64) {
	m := t.Matrix()
	return m[0], m[5], m[3], m[7]
}

// ToDihedral decomposes a transform of category at least
// Category2DDihedral into p' = D(s*p) + d with positive scale factors.
func (t Transform) ToDihedral() (d Dihedral, sx, sy, dx, dy float64) {
	m := t.Matrix()
	sx = math.Abs(m[0]) + math.Abs(m[4])
	sy = math.Abs(m[1]) + math.Abs(m[5])
	d, _ = DihedralFromMatrix(Mat2{
		XX: sign(m[0]), XY: sign(m[1]),
		YX: sign(m[4]), YY: sign(m[5]),
	})
	return d, sx, sy, m[3], m[7]
}

// To2D returns the 2D affine part as xx, yx, xy, yy, dx, dy.
func (t Transform) To2D() (xx, yx, xy, yy, dx, dy float64) {
	m := t.Matrix()
	return m[0], m[4], m[1], m[5], m[3], m[7]
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func classify(m Matrix) Category {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return CategoryUnknown
		}
	}
	if m[12] != 0 || m[13] != 0 || m[14] != 0 || m[15] != 1 {
		return CategoryAny
	}
	if m[2] != 0 || m[6] != 0 || m[8] != 0 || m[9] != 0 ||
		m[10] != 1 || m[11] != 0 {
		return Category3D
	}
	xx, xy, yx, yy := m[0], m[1], m[4], m[5]
	switch {
	case xy == 0 && yx == 0:
		if xx == 0 || yy == 0 {
			return Category2D
		}
		if xx < 0 || yy < 0 {
			return Category2DNegativeAffine
		}
		if xx != 1 || yy != 1 {
			return Category2DAffine
		}
		if m[3] != 0 || m[7] != 0 {
			return Category2DTranslate
		}
		return CategoryIdentity
	case xx == 0 && yy == 0 && xy != 0 && yx != 0:
		return Category2DDihedral
	}
	return Category2D
}
