// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/gsk/geom"
)

// Glyph is a shaped glyph positioned relative to the text origin on the
// baseline, in pixels with y pointing down.
type Glyph struct {
	ID      GlyphID
	X, Y    float64
	Advance float64
}

// HarfbuzzShaper is not safe for concurrent use.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

type run struct {
	start, end int // rune indexes, end exclusive
	rtl        bool
}

// Shape converts s into glyphs laid out on a single line in visual order.
func (f *Font) Shape(s string, size float64) []Glyph {
	if s == "" || size <= 0 {
		return nil
	}
	runes := []rune(s)
	face := font.NewFace(f.shaping)
	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer shaperPool.Put(hb)

	var (
		out []Glyph
		x   float64
	)
	for _, r := range bidiRuns(s, len(runes)) {
		dir := di.DirectionLTR
		if r.rtl {
			dir = di.DirectionRTL
		}
		output := hb.Shape(shaping.Input{
			Text:      runes,
			RunStart:  r.start,
			RunEnd:    r.end,
			Direction: dir,
			Face:      face,
			Size:      floatToFixed(size),
			Script:    detectScript(runes[r.start:r.end]),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range output.Glyphs {
			adv := fixedToFloat(g.XAdvance)
			out = append(out, Glyph{
				ID:      GlyphID(g.GlyphID),
				X:       x + fixedToFloat(g.XOffset),
				Y:       -fixedToFloat(g.YOffset),
				Advance: adv,
			})
			x += adv
		}
	}
	return out
}

// bidiRuns splits text into directional runs in visual order.
func bidiRuns(s string, n int) []run {
	fallback := []run{{start: 0, end: n}}

	p := bidi.Paragraph{}
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return fallback
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return fallback
	}
	runs := make([]run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		// Pos returns inclusive rune indexes.
		start, end := r.Pos()
		if end+1 > n {
			end = n - 1
		}
		if start > end {
			continue
		}
		runs = append(runs, run{start: start, end: end + 1, rtl: r.Direction() == bidi.RightToLeft})
	}
	if len(runs) == 0 {
		return fallback
	}
	return runs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// Bounds returns the ink-independent layout box of glyphs drawn at origin:
// from the ascent to the descent, across the advances.
func (f *Font) Bounds(glyphs []Glyph, size float64, origin geom.Point) geom.Rect {
	if len(glyphs) == 0 {
		return geom.Rect{}
	}
	ascent, descent := f.Metrics(size)
	x0, x1 := glyphs[0].X, glyphs[0].X+glyphs[0].Advance
	for _, g := range glyphs[1:] {
		x0 = min(x0, g.X)
		x1 = max(x1, g.X+g.Advance)
	}
	// Glyphs may overhang their advance slightly; pad by a fraction of an em.
	pad := size / 8
	return geom.RectFromPoints(origin.X+x0-pad, origin.Y-ascent, origin.X+x1+pad, origin.Y+descent)
}
