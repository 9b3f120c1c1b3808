package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphID identifies a glyph within a font.
type GlyphID uint16

// Font is a parsed TrueType/OpenType font. It is safe for concurrent use.
type Font struct {
	name    string
	sfnt    *sfnt.Font
	shaping *font.Font

	// mu guards buf; sfnt.Buffer is not safe for concurrent use.
	mu  sync.Mutex
	buf sfnt.Buffer
}

// ParseFont parses font data. The data must not be modified afterwards.
func ParseFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse sfnt: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	name, _ := sf.Name(nil, sfnt.NameIDFamily)
	return &Font{name: name, sfnt: sf, shaping: face.Font}, nil
}

// Name returns the family name, if the font has one.
func (f *Font) Name() string {
	return f.name
}

// Metrics returns ascent and descent in pixels for the given size. Both
// are positive.
func (f *Font) Metrics(size float64) (ascent, descent float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.sfnt.Metrics(&f.buf, floatToFixed(size), xfont.HintingNone)
	if err != nil {
		return size, size / 4
	}
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
}

// Outline returns the glyph outline scaled to size pixels per em, with
// the y axis pointing down and the origin on the baseline. Glyphs without
// an outline return no segments.
func (f *Font) Outline(id GlyphID, size float64) ([]sfnt.Segment, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	segs, err := f.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(id), floatToFixed(size), nil)
	if err != nil {
		return nil, fmt.Errorf("text: load glyph %d: %w", id, err)
	}
	// segs aliases f.buf.
	return append([]sfnt.Segment(nil), segs...), nil
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
