package geom

import (
	"math"
	"testing"
)

func TestTransform_Category(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		want Category
	}{
		{"zero value", Transform{}, CategoryIdentity},
		{"identity", IdentityTransform(), CategoryIdentity},
		{"translate", Translate(3, 4), Category2DTranslate},
		{"scale", Scale(2, 3), Category2DAffine},
		{"mirror", Scale(-1, 1), Category2DNegativeAffine},
		{"rotate 90", Rotate(90), Category2DDihedral},
		{"rotate 30", Rotate(30), Category2D},
		{"perspective", Perspective(100), CategoryAny},
		{"scale then translate", Scale(2, 2).Then(Translate(5, 5)), Category2DAffine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategory_RoundTrip(t *testing.T) {
	for c := CategoryAny; c <= CategoryIdentity; c++ {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v, want %v", c.String(), got, ok, c)
		}
	}
	if got, ok := ParseCategory("skewed"); ok || got != CategoryUnknown {
		t.Errorf("ParseCategory(skewed) = %v, %v, want unknown", got, ok)
	}
	if got := Category(42).String(); got != "unknown" {
		t.Errorf("Category(42).String() = %q, want unknown", got)
	}
}

func TestTransform_ToDihedral(t *testing.T) {
	for d := DihedralNormal; d <= DihedralFlipped270; d++ {
		tr := Scale(2, 3).Then(DihedralTransform(d)).Then(Translate(7, -1))
		gotD, sx, sy, dx, dy := tr.ToDihedral()
		if gotD != d || sx != 2 || sy != 3 || dx != 7 || dy != -1 {
			t.Errorf("%v: ToDihedral() = %v, %v, %v, %v, %v", d, gotD, sx, sy, dx, dy)
		}
	}
}

func TestMatrix_Invert(t *testing.T) {
	m := Rotate(30).Then(Scale(2, 0.5)).Then(Translate(10, 20)).Matrix()
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() failed")
	}
	id := m.Mul(inv)
	for i, v := range Identity() {
		if math.Abs(id[i]-v) > 1e-9 {
			t.Fatalf("m*inv(m)[%d] = %v, want %v", i, id[i], v)
		}
	}
	if _, ok := ScaleMatrix(0, 1, 1).Invert(); ok {
		t.Error("Invert() of singular matrix succeeded")
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(0, 200, 0, 100, -1, 1)
	tests := []struct {
		in, want Point
	}{
		{Pt(0, 0), Pt(-1, 1)},
		{Pt(200, 100), Pt(1, -1)},
		{Pt(100, 50), Pt(0, 0)},
	}
	for _, tt := range tests {
		if got := m.TransformPoint(tt.in); math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
			t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDihedral_Group(t *testing.T) {
	for a := DihedralNormal; a <= DihedralFlipped270; a++ {
		if got := a.Compose(a.Invert()); got != DihedralNormal {
			t.Errorf("%v ∘ %v⁻¹ = %v, want normal", a, a, got)
		}
		name := a.String()
		if got, ok := ParseDihedral(name); !ok || got != a {
			t.Errorf("ParseDihedral(%q) = %v, %v", name, got, ok)
		}
	}
	if got := Dihedral90.Compose(Dihedral90); got != Dihedral180 {
		t.Errorf("90 ∘ 90 = %v, want 180", got)
	}
	if !Dihedral270.Swaps() || Dihedral180.Swaps() {
		t.Error("Swaps() wrong for rotations")
	}
	if got, ok := ParseDihedral("45"); ok || got != DihedralUnknown {
		t.Errorf("ParseDihedral(45) = %v, %v, want unknown", got, ok)
	}
}

func TestColorState_Convert(t *testing.T) {
	c := RGBA(0.5, 0.25, 1, 0.5)
	back := ColorStateSRGBLinear.Convert(ColorStateSRGB.Convert(c, ColorStateSRGBLinear), ColorStateSRGB)
	if math.Abs(float64(back.R-c.R)) > 1e-5 || math.Abs(float64(back.G-c.G)) > 1e-5 || back.A != c.A {
		t.Errorf("round trip = %v, want %v", back, c)
	}
}
