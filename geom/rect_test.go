package geom

import "testing"

func TestRect_Intersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		want   Rect
		wantOK bool
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5), true},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 2, 2, 2), NewRect(2, 2, 2, 2), true},
		{"touching", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), Rect{}, false},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 1, 1), Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Intersect() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRect_IntersectAssociative(t *testing.T) {
	rects := []Rect{
		NewRect(0, 0, 100, 100),
		NewRect(10, 20, 50, 70),
		NewRect(-5, 30, 40, 40),
		NewRect(25, 0, 10, 200),
	}
	for _, a := range rects {
		for _, b := range rects {
			for _, c := range rects {
				ab, ok1 := a.Intersect(b)
				abc, ok2 := ab.Intersect(c)
				bc, ok3 := b.Intersect(c)
				abc2, ok4 := a.Intersect(bc)
				if ok1 && ok2 && ok3 && ok4 && abc != abc2 {
					t.Errorf("(%v∩%v)∩%v = %v, %v∩(%v∩%v) = %v", a, b, c, abc, a, b, c, abc2)
				}
			}
		}
	}
}

func TestRect_ShrinkRoundOut(t *testing.T) {
	r := NewRect(0.5, 1.25, 10, 3.5)
	if got, want := r.Shrink(), NewIRect(1, 2, 9, 2); got != want {
		t.Errorf("Shrink() = %v, want %v", got, want)
	}
	if got, want := r.RoundOut(), NewIRect(0, 1, 11, 4); got != want {
		t.Errorf("RoundOut() = %v, want %v", got, want)
	}
	if r.IsInteger() {
		t.Error("IsInteger() = true for fractional rect")
	}
	if !NewRect(1, 2, 3, 4).IsInteger() {
		t.Error("IsInteger() = false for integer rect")
	}
	if got := NewRect(0.2, 0.2, 0.5, 0.5).Shrink(); !got.IsEmpty() {
		t.Errorf("Shrink() of sub-pixel rect = %v, want empty", got)
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 Rect
		want   Rect
	}{
		{"larger wins", NewRect(0, 0, 10, 10), NewRect(0, 0, 5, 5), NewRect(0, 0, 10, 10)},
		{"stacked rows", NewRect(0, 0, 10, 10), NewRect(0, 10, 10, 10), NewRect(0, 0, 10, 20)},
		{"side by side", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), NewRect(0, 0, 20, 10)},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(50, 50, 20, 20), NewRect(50, 50, 20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coverage(tt.r1, tt.r2); got != tt.want {
				t.Errorf("Coverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegion_SubtractUnion(t *testing.T) {
	r := NewRegion(NewIRect(0, 0, 100, 100))
	r.Subtract(NewIRect(25, 25, 50, 50))

	if got, want := r.Area(), 100*100-50*50; got != want {
		t.Fatalf("Area() = %d, want %d", got, want)
	}
	if r.ContainsRect(NewIRect(30, 30, 1, 1)) {
		t.Error("ContainsRect() = true for removed pixel")
	}
	if !r.ContainsRect(NewIRect(0, 0, 100, 25)) {
		t.Error("ContainsRect() = false for kept band")
	}
	for i := 0; i < r.NumRects(); i++ {
		for j := i + 1; j < r.NumRects(); j++ {
			if _, ok := r.Rect(i).Intersect(r.Rect(j)); ok {
				t.Errorf("rects %v and %v overlap", r.Rect(i), r.Rect(j))
			}
		}
	}

	r.Union(NewIRect(0, 0, 100, 100))
	if got := r.Area(); got != 100*100 {
		t.Errorf("Area() after Union = %d, want %d", got, 100*100)
	}
	if got, want := r.Extents(), NewIRect(0, 0, 100, 100); got != want {
		t.Errorf("Extents() = %v, want %v", got, want)
	}
}

func TestRegion_Largest(t *testing.T) {
	r := NewRegion(NewIRect(0, 0, 10, 10), NewIRect(20, 0, 30, 30), NewIRect(60, 0, 5, 5))
	if got := r.Rect(r.Largest()); got != NewIRect(20, 0, 30, 30) {
		t.Errorf("Largest() = %v, want (20,0,30,30)", got)
	}
	if got := (&Region{}).Largest(); got != -1 {
		t.Errorf("Largest() of empty region = %d, want -1", got)
	}
}
