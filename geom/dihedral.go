package geom

// Dihedral is an element of the symmetry group of the square: a rotation
// by a multiple of 90° clockwise, optionally preceded by a horizontal flip.
type Dihedral uint8

// Dihedral values.
const (
	DihedralNormal Dihedral = iota
	Dihedral90
	Dihedral180
	Dihedral270
	DihedralFlipped
	DihedralFlipped90
	DihedralFlipped180
	DihedralFlipped270
)

// DihedralUnknown is returned by ParseDihedral for unrecognised names.
const DihedralUnknown Dihedral = 0xff

var dihedralNames = [...]string{
	DihedralNormal:     "normal",
	Dihedral90:         "90",
	Dihedral180:        "180",
	Dihedral270:        "270",
	DihedralFlipped:    "flipped",
	DihedralFlipped90:  "flipped-90",
	DihedralFlipped180: "flipped-180",
	DihedralFlipped270: "flipped-270",
}

// Mat2 is a 2x2 matrix: x' = XX*x + XY*y, y' = YX*x + YY*y.
type Mat2 struct {
	XX, XY, YX, YY float64
}

func (m Mat2) mul(n Mat2) Mat2 {
	return Mat2{
		XX: m.XX*n.XX + m.XY*n.YX,
		XY: m.XX*n.XY + m.XY*n.YY,
		YX: m.YX*n.XX + m.YY*n.YX,
		YY: m.YX*n.XY + m.YY*n.YY,
	}
}

// Apply transforms a vector.
func (m Mat2) Apply(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y, m.YX*x + m.YY*y
}

var dihedralMats [8]Mat2

func init() {
	rot := Mat2{XX: 0, XY: -1, YX: 1, YY: 0}
	flip := Mat2{XX: -1, YY: 1}
	m := Mat2{XX: 1, YY: 1}
	for k := 0; k < 4; k++ {
		dihedralMats[k] = m
		dihedralMats[k+4] = m.mul(flip)
		m = rot.mul(m)
	}
}

// String returns the dihedral name.
func (d Dihedral) String() string {
	if int(d) < len(dihedralNames) {
		return dihedralNames[d]
	}
	return "unknown"
}

// ParseDihedral is the inverse of String. Unknown names return
// DihedralUnknown and false.
func ParseDihedral(s string) (Dihedral, bool) {
	for i, name := range dihedralNames {
		if name == s {
			return Dihedral(i), true
		}
	}
	return DihedralUnknown, false
}

// Valid reports whether d is one of the eight group elements.
func (d Dihedral) Valid() bool {
	return d < 8
}

// Matrix returns the rotation/flip matrix.
func (d Dihedral) Matrix() Mat2 {
	return dihedralMats[d&7]
}

// Swaps reports whether the dihedral exchanges the x and y axes.
func (d Dihedral) Swaps() bool {
	return d&1 == 1
}

// Compose returns the dihedral that applies b first and then d.
func (d Dihedral) Compose(b Dihedral) Dihedral {
	r, _ := DihedralFromMatrix(d.Matrix().mul(b.Matrix()))
	return r
}

// Invert returns the inverse element.
func (d Dihedral) Invert() Dihedral {
	m := d.Matrix()
	r, _ := DihedralFromMatrix(Mat2{XX: m.XX, XY: m.YX, YX: m.XY, YY: m.YY})
	return r
}

// DihedralFromMatrix finds the dihedral with exactly the matrix m.
func DihedralFromMatrix(m Mat2) (Dihedral, bool) {
	for i, dm := range dihedralMats {
		if dm == m {
			return Dihedral(i), true
		}
	}
	return DihedralUnknown, false
}

// TransformRect applies the dihedral to a rectangle around the origin.
func (d Dihedral) TransformRect(r Rect) Rect {
	m := d.Matrix()
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.Right(), r.Bottom())
	return RectFromPoints(x0, y0, x1, y1)
}
