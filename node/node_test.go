package node

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gsk/geom"
)

func TestKind_RoundTrip(t *testing.T) {
	for k := Kind(0); int(k) < NumKinds; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("gradient"); ok {
		t.Error("ParseKind(gradient) succeeded")
	}
	if got := KindUnknown.String(); got != "unknown" {
		t.Errorf("KindUnknown.String() = %q", got)
	}
}

func TestBlendMode_RoundTrip(t *testing.T) {
	for m := BlendNormal; m <= BlendLuminosity; m++ {
		if got, ok := ParseBlendMode(m.String()); !ok || got != m {
			t.Errorf("ParseBlendMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
}

func TestColor_Opaque(t *testing.T) {
	r := geom.NewRect(0, 0, 10, 10)
	if !IsFullyOpaque(NewColor(geom.White, r)) {
		t.Error("opaque color not fully opaque")
	}
	if _, ok := NewColor(geom.RGBA(1, 0, 0, 0.5), r).OpaqueRect(); ok {
		t.Error("translucent color has an opaque rect")
	}
}

func TestContainer_DisjointAndCoverage(t *testing.T) {
	a := NewColor(geom.White, geom.NewRect(0, 0, 10, 10))
	b := NewColor(geom.White, geom.NewRect(10, 0, 10, 10))
	c := NewContainer(a, b)
	if !c.IsDisjoint() {
		t.Error("touching children reported as overlapping")
	}
	if got, want := c.Bounds(), geom.NewRect(0, 0, 20, 10); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if !IsFullyOpaque(c) {
		o, _ := c.OpaqueRect()
		t.Errorf("OpaqueRect() = %v, want full bounds", o)
	}

	over := NewContainer(a, NewColor(geom.Black, geom.NewRect(5, 5, 2, 2)))
	if over.IsDisjoint() {
		t.Error("overlapping children reported as disjoint")
	}
}

func TestContainer_SkipsNil(t *testing.T) {
	c := NewContainer(nil, NewColor(geom.White, geom.NewRect(1, 1, 1, 1)), nil)
	if len(c.Children()) != 1 {
		t.Errorf("len(Children()) = %d, want 1", len(c.Children()))
	}
	empty := NewContainer()
	if !IsEmpty(empty) {
		t.Error("empty container has area")
	}
	if _, ok := empty.OpaqueRect(); ok {
		t.Error("empty container is opaque")
	}
}

func TestTransform_OpaqueRect(t *testing.T) {
	child := NewColor(geom.White, geom.NewRect(0, 0, 10, 10))

	tests := []struct {
		name string
		t    geom.Transform
		want geom.Rect
		ok   bool
	}{
		{"translate", geom.Translate(5, 5), geom.NewRect(5, 5, 10, 10), true},
		{"scale", geom.Scale(2, 3), geom.NewRect(0, 0, 20, 30), true},
		{"rotate 45", geom.Rotate(45), geom.Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewTransform(child, tt.t).OpaqueRect()
			if ok != tt.ok || (ok && !rectNear(got, tt.want)) {
				t.Errorf("OpaqueRect() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClip_OpaqueRect(t *testing.T) {
	child := NewColor(geom.White, geom.NewRect(0, 0, 100, 100))
	c := NewClip(child, geom.NewRect(10, 10, 20, 20))
	if got := c.Bounds(); got != geom.NewRect(10, 10, 20, 20) {
		t.Errorf("Bounds() = %v", got)
	}
	if !IsFullyOpaque(c) {
		t.Error("clipped opaque color not fully opaque")
	}

	rc := NewRoundedClip(child, geom.NewRoundedRect(geom.NewRect(0, 0, 100, 50), 10))
	o, ok := rc.OpaqueRect()
	if !ok || o != geom.NewRect(10, 0, 80, 50) && o != geom.NewRect(0, 10, 100, 30) {
		t.Errorf("rounded OpaqueRect() = %v, %v", o, ok)
	}
	if o.Area() != 80*50 {
		t.Errorf("rounded OpaqueRect() area = %v, want the larger inner rect", o.Area())
	}
}

func TestCrossFade_OpaqueIntersection(t *testing.T) {
	a := NewColor(geom.White, geom.NewRect(0, 0, 10, 10))
	b := NewColor(geom.White, geom.NewRect(5, 0, 10, 10))
	o, ok := NewCrossFade(a, b, 0.5).OpaqueRect()
	if !ok || o != geom.NewRect(5, 0, 5, 10) {
		t.Errorf("OpaqueRect() = %v, %v", o, ok)
	}
	if _, ok := NewCrossFade(a, NewColor(geom.White, geom.NewRect(50, 50, 1, 1)), 0.5).OpaqueRect(); ok {
		t.Error("disjoint cross-fade is opaque")
	}
}

func TestOpacity(t *testing.T) {
	child := NewColor(geom.White, geom.NewRect(0, 0, 10, 10))
	if _, ok := NewOpacity(child, 0.5).OpaqueRect(); ok {
		t.Error("half transparent node is opaque")
	}
	if !IsFullyOpaque(NewOpacity(child, 3)) {
		t.Error("opacity clamped to 1 lost opaque rect")
	}
}

func TestShadowAndBlurBounds(t *testing.T) {
	child := NewColor(geom.White, geom.NewRect(0, 0, 10, 10))
	s := NewShadow(child, ShadowSpec{Color: geom.Black, DX: 5, DY: 5, Radius: 2})
	if got, want := s.Bounds(), geom.NewRect(0, 0, 18, 18); got != want {
		t.Errorf("shadow Bounds() = %v, want %v", got, want)
	}
	b := NewBlur(child, 2)
	if got, want := b.Bounds(), geom.NewRect(-3, -3, 16, 16); got != want {
		t.Errorf("blur Bounds() = %v, want %v", got, want)
	}
	if o, ok := b.OpaqueRect(); !ok || o != geom.NewRect(3, 3, 4, 4) {
		t.Errorf("blur OpaqueRect() = %v, %v", o, ok)
	}
}

func TestTexture_Opaque(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range rgba.Pix {
		rgba.Pix[i] = 0xff
	}
	r := geom.NewRect(0, 0, 4, 4)
	if !IsFullyOpaque(NewTexture(rgba, r)) {
		t.Error("opaque RGBA texture not opaque")
	}
	rgba.Set(0, 0, color.RGBA{})
	if _, ok := NewTexture(rgba, r).OpaqueRect(); ok {
		t.Error("texture with a transparent pixel is opaque")
	}
	if !IsFullyOpaque(NewTexture(image.NewGray(image.Rect(0, 0, 1, 1)), r)) {
		t.Error("gray texture not opaque")
	}
}

func TestPathNodes(t *testing.T) {
	child := NewColor(geom.White, geom.NewRect(0, 0, 100, 100))
	p := geom.NewPath()
	p.Rectangle(geom.NewRect(10, 10, 20, 20))

	f := NewFill(child, p, geom.FillRuleNonZero)
	if got := f.Bounds(); got != geom.NewRect(10, 10, 20, 20) {
		t.Errorf("fill Bounds() = %v", got)
	}
	s := NewStroke(child, p, geom.Stroke{Width: 4, Join: geom.LineJoinRound})
	if got := s.Bounds(); got != geom.NewRect(8, 8, 24, 24) {
		t.Errorf("stroke Bounds() = %v", got)
	}
}

func TestWalk(t *testing.T) {
	leaf := NewColor(geom.White, geom.NewRect(0, 0, 1, 1))
	tree := NewContainer(NewOpacity(leaf, 0.5), NewDebug(NewClip(leaf, geom.NewRect(0, 0, 1, 1)), "x"))

	var kinds []Kind
	Walk(tree, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindDebug
	})
	want := []Kind{KindContainer, KindOpacity, KindColor, KindDebug}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visited[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func rectNear(a, b geom.Rect) bool {
	const eps = 1e-9
	near := func(x, y float64) bool { return x-y < eps && y-x < eps }
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.W, b.W) && near(a.H, b.H)
}
