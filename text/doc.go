// Package text loads fonts and shapes strings into positioned glyphs for
// text render nodes.
//
// Shaping uses the HarfBuzz port from go-text/typesetting, with run
// directions resolved by the Unicode bidirectional algorithm. Glyph
// outlines and metrics come from golang.org/x/image/font/sfnt and are
// consumed by the CPU rasterizer.
//
//	f, err := text.ParseFont(goregular.TTF)
//	if err != nil {
//		return err
//	}
//	glyphs := f.Shape("Hello", 16)
//	n := node.NewText(f, glyphs, geom.Black, geom.Pt(10, 30), 16)
package text
