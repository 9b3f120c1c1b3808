package ops

import (
	"image"
	"strings"
	"testing"

	"github.com/gogpu/gsk/geom"
)

func TestKind_RoundTrip(t *testing.T) {
	for k := KindGlobals; k <= KindPattern; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", k.String(), got, ok, k)
		}
	}
	if got, ok := ParseKind("blit"); ok || got != KindUnknown {
		t.Errorf("ParseKind(blit) = %v, %v, want unknown", got, ok)
	}
	if got := Kind(200).String(); got != "unknown" {
		t.Errorf("Kind(200).String() = %q, want unknown", got)
	}
	if got := Stage(42).String(); got != "unknown" {
		t.Errorf("Stage(42).String() = %q, want unknown", got)
	}
}

func TestMaskMode_RoundTrip(t *testing.T) {
	for m := MaskAlpha; m <= MaskInvertedLuminance; m++ {
		if got, ok := ParseMaskMode(m.String()); !ok || got != m {
			t.Errorf("ParseMaskMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseMaskMode("bogus"); ok {
		t.Error("ParseMaskMode(bogus) succeeded")
	}
}

func kinds(s *Stream) []Kind {
	var out []Kind
	for _, op := range s.Ops() {
		out = append(out, op.Kind())
	}
	return out
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStream_EmissionOrder(t *testing.T) {
	s := NewStream()
	if s.First() != NoOp {
		t.Fatal("empty stream has ops")
	}
	target := s.AddImage(Image{Kind: ImageTarget, Width: 10, Height: 10})
	s.BeginPass(BeginPassOp{Target: target, Area: geom.NewIRect(0, 0, 10, 10)})
	s.Globals(GlobalsOp{ScaleX: 1, ScaleY: 1})
	s.Color(ColorOp{Rect: geom.NewRect(0, 0, 5, 5), Color: geom.White})
	s.EndPass(EndPassOp{Target: target})

	want := []Kind{KindBeginPass, KindGlobals, KindColor, KindEndPass}
	if got := kinds(s); !equalKinds(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
	if s.Len() != 4 || s.Count(KindColor) != 1 {
		t.Errorf("Len() = %d, Count(color) = %d", s.Len(), s.Count(KindColor))
	}
}

func TestStream_SortHoistsNestedPasses(t *testing.T) {
	s := NewStream()
	target := s.AddImage(Image{Kind: ImageTarget, Width: 10, Height: 10})
	off := s.AddImage(Image{Kind: ImageOffscreen, Width: 4, Height: 4})
	up := s.AddImage(Image{Kind: ImageUpload, Width: 2, Height: 2})

	s.BeginPass(BeginPassOp{Target: target})
	s.Color(ColorOp{})
	// offscreen emitted while the target pass is open
	s.BeginPass(BeginPassOp{Target: off, Pass: PassOffscreen})
	s.Upload(UploadOp{Image: up})
	s.Texture(TextureOp{Image: up})
	s.EndPass(EndPassOp{Target: off, Pass: PassOffscreen})
	s.Texture(TextureOp{Image: off})
	s.EndPass(EndPassOp{Target: target})

	s.Sort()

	want := []Kind{
		KindUpload,
		KindBeginPass, KindTexture, KindEndPass,
		KindBeginPass, KindColor, KindTexture, KindEndPass,
	}
	if got := kinds(s); !equalKinds(got, want) {
		t.Fatalf("sorted ops = %v, want %v", got, want)
	}
	first := s.Ops()[1].(*BeginPassOp)
	if first.Target != off {
		t.Errorf("first pass targets %d, want offscreen %d", first.Target, off)
	}
}

func TestStream_SortDeeplyNested(t *testing.T) {
	s := NewStream()
	a := s.AddImage(Image{Label: "a"})
	b := s.AddImage(Image{Label: "b"})
	c := s.AddImage(Image{Label: "c"})

	s.BeginPass(BeginPassOp{Target: a})
	s.BeginPass(BeginPassOp{Target: b})
	s.BeginPass(BeginPassOp{Target: c})
	s.EndPass(EndPassOp{Target: c})
	s.Color(ColorOp{})
	s.EndPass(EndPassOp{Target: b})
	s.EndPass(EndPassOp{Target: a})
	s.Sort()

	var targets []ImageID
	for _, op := range s.Ops() {
		if bp, ok := op.(*BeginPassOp); ok {
			targets = append(targets, bp.Target)
		}
	}
	if len(targets) != 3 || targets[0] != c || targets[1] != b || targets[2] != a {
		t.Errorf("pass order = %v, want [%d %d %d]", targets, c, b, a)
	}
}

type countingCommander struct {
	seen  []Kind
	batch bool
}

func (c *countingCommander) Command(s *Stream, id OpID) (OpID, error) {
	c.seen = append(c.seen, s.Op(id).Kind())
	next := s.Next(id)
	if c.batch {
		// swallow consecutive color ops
		for next != NoOp && s.Op(next).Kind() == KindColor && s.Op(id).Kind() == KindColor {
			next = s.Next(next)
		}
	}
	return next, nil
}

func TestWalk_Batching(t *testing.T) {
	s := NewStream()
	s.Color(ColorOp{})
	s.Color(ColorOp{})
	s.Color(ColorOp{})
	s.Clear(ClearOp{})

	c := &countingCommander{batch: true}
	if err := Walk(s, c); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if want := []Kind{KindColor, KindClear}; !equalKinds(c.seen, want) {
		t.Errorf("commands = %v, want %v", c.seen, want)
	}
}

func TestStream_ResetFinishesOps(t *testing.T) {
	s := NewStream()
	s.Upload(UploadOp{Draw: func(*image.RGBA) {}})
	up := s.Op(s.First()).(*UploadOp)
	s.Reset()
	if up.Draw != nil {
		t.Error("Reset() did not finish upload op")
	}
	if s.Len() != 0 || s.First() != NoOp || s.NumImages() != 0 {
		t.Errorf("Reset() left %d ops", s.Len())
	}
	s.Color(ColorOp{Color: geom.Black})
	if got := s.Op(s.First()).(*ColorOp).Color; got != geom.Black {
		t.Errorf("op after Reset() = %v", got)
	}
}

func TestStream_String(t *testing.T) {
	s := NewStream()
	target := s.AddImage(Image{Kind: ImageTarget, Width: 8, Height: 8, Label: "window"})
	s.BeginPass(BeginPassOp{Target: target, Area: geom.NewIRect(0, 0, 8, 8), Load: LoadOpClear, ClearColor: geom.White})
	s.Color(ColorOp{Rect: geom.NewRect(1, 1, 2, 2), Color: geom.Black})
	s.EndPass(EndPassOp{Target: target})

	out := s.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("String() = %q", out)
	}
	if !strings.HasPrefix(lines[0], "begin-pass window#0(8x8)") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  color none [1 1 2 2]") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "end-pass") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestSlab_StablePointers(t *testing.T) {
	var s Slab[ColorOp]
	first := s.Alloc()
	first.Color = geom.White
	for i := 0; i < 3*slabChunk; i++ {
		s.Alloc()
	}
	if first.Color != geom.White {
		t.Error("slab growth moved an allocation")
	}
	s.Reset()
	if p := s.Alloc(); p.Color != (geom.Color{}) {
		t.Errorf("Alloc() after Reset() = %+v, want zero", p)
	}
}
