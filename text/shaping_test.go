package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gsk/geom"
)

func mustParse(t *testing.T) *Font {
	t.Helper()
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error = %v", err)
	}
	return f
}

func TestParseFont(t *testing.T) {
	f := mustParse(t)
	if f.Name() == "" {
		t.Error("Name() is empty")
	}
	if _, err := ParseFont(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("ParseFont(nil) error = %v, want %v", err, ErrEmptyFontData)
	}
	if _, err := ParseFont([]byte("not a font")); err == nil {
		t.Error("ParseFont(garbage) succeeded")
	}
}

func TestShape(t *testing.T) {
	f := mustParse(t)
	glyphs := f.Shape("Hello", 16)
	if len(glyphs) != 5 {
		t.Fatalf("Shape() returned %d glyphs, want 5", len(glyphs))
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].X <= glyphs[i-1].X {
			t.Errorf("glyph %d at x=%v not after glyph %d at x=%v", i, glyphs[i].X, i-1, glyphs[i-1].X)
		}
	}
	if f.Shape("", 16) != nil {
		t.Error("Shape(\"\") returned glyphs")
	}
}

func TestOutline(t *testing.T) {
	f := mustParse(t)
	glyphs := f.Shape("O", 32)
	segs, err := f.Outline(glyphs[0].ID, 32)
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	if len(segs) == 0 {
		t.Fatal("Outline() returned no segments for 'O'")
	}
	if _, err := f.Outline(glyphs[0].ID, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Outline(size 0) error = %v, want %v", err, ErrInvalidSize)
	}
}

func TestBounds(t *testing.T) {
	f := mustParse(t)
	glyphs := f.Shape("Wide text", 20)
	b := f.Bounds(glyphs, 20, geom.Pt(10, 50))
	if b.IsEmpty() {
		t.Fatal("Bounds() is empty")
	}
	if b.Y >= 50 || b.Bottom() <= 50 {
		t.Errorf("Bounds() = %v does not straddle the baseline", b)
	}
	if b.X > 10 {
		t.Errorf("Bounds().X = %v, want <= 10", b.X)
	}
}

func TestBidiRuns(t *testing.T) {
	runs := bidiRuns("abc", 3)
	if len(runs) != 1 || runs[0].rtl || runs[0].start != 0 || runs[0].end != 3 {
		t.Errorf("bidiRuns(abc) = %+v", runs)
	}
	mixed := bidiRuns("ab שלום", 7)
	hasRTL := false
	for _, r := range mixed {
		hasRTL = hasRTL || r.rtl
	}
	if !hasRTL {
		t.Errorf("bidiRuns(mixed) = %+v", mixed)
	}
}
