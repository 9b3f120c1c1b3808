package transform

import (
	"math"
	"testing"

	"github.com/gogpu/gsk/geom"
)

const eps = 1e-9

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func nearRect(a, b geom.Rect) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}

func testTransforms() []geom.Transform {
	return []geom.Transform{
		geom.IdentityTransform(),
		geom.Translate(3, -7),
		geom.Scale(2, 0.5),
		geom.Scale(-1, 1),
		geom.Scale(1, -3).Then(geom.Translate(10, 0)),
		geom.Rotate(90),
		geom.Rotate(270).Then(geom.Translate(-4, 9)),
		geom.Scale(3, 2).Then(geom.DihedralTransform(geom.DihedralFlipped90)).Then(geom.Translate(1, 2)),
	}
}

func TestAccumulator_TransformMatchesComposition(t *testing.T) {
	starts := []Accumulator{
		Identity(),
		New(geom.Dihedral90, 2, 3, geom.Pt(5, -1)),
		New(geom.DihedralFlipped, 0.5, 4, geom.Pt(-2, 8)),
	}
	points := []geom.Point{geom.Pt(0, 0), geom.Pt(1, 2), geom.Pt(-13, 7.5)}

	for _, start := range starts {
		for _, tr := range testTransforms() {
			acc := start
			if !acc.Transform(tr) {
				t.Fatalf("Transform(%v) failed", tr.Category())
			}
			for _, p := range points {
				want := start.TransformPoint(tr.TransformPoint(p))
				if got := acc.TransformPoint(p); !near(got, want) {
					t.Errorf("start %+v, %v: TransformPoint(%v) = %v, want %v", start, tr.Category(), p, got, want)
				}
			}
			if !(acc.ScaleX > 0 && acc.ScaleY > 0) {
				t.Errorf("scale not positive: %v, %v", acc.ScaleX, acc.ScaleY)
			}
		}
	}
}

func TestAccumulator_RoundTrip(t *testing.T) {
	rects := []geom.Rect{
		geom.NewRect(0, 0, 10, 10),
		geom.NewRect(-5, 3, 7, 100),
		geom.NewRect(0.25, 0.5, 0.125, 3),
	}
	for d := geom.DihedralNormal; d <= geom.DihedralFlipped270; d++ {
		acc := New(d, 1.5, 3, geom.Pt(4, -2))
		for _, r := range rects {
			if got := acc.InvertRect(acc.TransformRect(r)); !nearRect(got, r) {
				t.Errorf("%v: InvertRect(TransformRect(%v)) = %v", d, r, got)
			}
		}
	}
}

func TestAccumulator_TransformRectOrder(t *testing.T) {
	// Offset first, then scale, then rotate.
	acc := New(geom.Dihedral90, 2, 1, geom.Pt(1, 0))
	got := acc.TransformRect(geom.NewRect(0, 0, 1, 1))
	// (0,0)-(1,1) -> (1,0)-(2,1) -> (2,0)-(4,1) -> rotate (x,y)->(-y,x)
	if want := geom.NewRect(-1, 2, 1, 2); !nearRect(got, want) {
		t.Errorf("TransformRect() = %v, want %v", got, want)
	}
}

func TestAccumulator_RejectsGeneral(t *testing.T) {
	acc := New(geom.Dihedral180, 2, 2, geom.Pt(1, 1))
	before := acc
	for _, tr := range []geom.Transform{geom.Rotate(30), geom.Perspective(50), geom.Scale(0, 1)} {
		if acc.Transform(tr) {
			t.Errorf("Transform(%v) succeeded", tr.Category())
		}
		if acc != before {
			t.Errorf("Transform(%v) modified accumulator", tr.Category())
		}
	}
}

func TestNew_PanicsOnNonPositiveScale(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() with zero scale did not panic")
		}
	}()
	New(geom.DihedralNormal, 0, 1, geom.Point{})
}

func TestAccumulator_FullMatrix(t *testing.T) {
	acc := New(geom.DihedralFlipped270, 2, 5, geom.Pt(3, 4))
	m := acc.FullMatrix()
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(1, -1), geom.Pt(7, 2)} {
		if got, want := m.TransformPoint(p), acc.TransformPoint(p); !near(got, want) {
			t.Errorf("FullMatrix().TransformPoint(%v) = %v, want %v", p, got, want)
		}
	}
}
