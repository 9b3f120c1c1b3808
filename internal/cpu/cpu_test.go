package cpu

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/node"
	"github.com/gogpu/gsk/text"
)

var red = geom.RGBA(1, 0, 0, 1)

func newTarget(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -3 && d <= 3
}

func checkPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) || !near(got.A, want.A) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

var (
	opaqueRed   = color.RGBA{R: 255, A: 255}
	transparent = color.RGBA{}
)

func TestDraw_Color(t *testing.T) {
	dst := newTarget(20, 20)
	Draw(dst, node.NewColor(red, geom.NewRect(5, 5, 10, 10)), geom.Identity())
	checkPixel(t, dst, 10, 10, opaqueRed)
	checkPixel(t, dst, 5, 5, opaqueRed)
	checkPixel(t, dst, 4, 10, transparent)
	checkPixel(t, dst, 15, 15, transparent)
}

func TestDraw_TransformScales(t *testing.T) {
	dst := newTarget(20, 20)
	n := node.NewTransform(node.NewColor(red, geom.NewRect(0, 0, 5, 5)), geom.Scale(2, 2))
	Draw(dst, n, geom.Identity())
	checkPixel(t, dst, 9, 9, opaqueRed)
	checkPixel(t, dst, 11, 11, transparent)
}

func TestDraw_ClipAndOpacity(t *testing.T) {
	dst := newTarget(20, 20)
	body := node.NewColor(red, geom.NewRect(0, 0, 20, 20))
	Draw(dst, node.NewOpacity(node.NewClip(body, geom.NewRect(0, 0, 10, 20)), 0.5), geom.Identity())
	checkPixel(t, dst, 5, 5, color.RGBA{R: 128, A: 128})
	checkPixel(t, dst, 15, 5, transparent)
}

func TestDraw_RoundedClipCutsCorners(t *testing.T) {
	dst := newTarget(40, 40)
	body := node.NewColor(red, geom.NewRect(0, 0, 40, 40))
	Draw(dst, node.NewRoundedClip(body, geom.NewRoundedRect(geom.NewRect(0, 0, 40, 40), 15)), geom.Identity())
	checkPixel(t, dst, 20, 20, opaqueRed)
	checkPixel(t, dst, 0, 0, transparent)
	checkPixel(t, dst, 39, 39, transparent)
}

func TestDraw_FillEvenOdd(t *testing.T) {
	p := geom.NewPath()
	p.Rectangle(geom.NewRect(0, 0, 30, 30))
	p.Rectangle(geom.NewRect(10, 10, 10, 10))
	body := node.NewColor(red, geom.NewRect(0, 0, 30, 30))

	dst := newTarget(30, 30)
	Draw(dst, node.NewFill(body, p, geom.FillRuleEvenOdd), geom.Identity())
	checkPixel(t, dst, 15, 15, transparent)
	checkPixel(t, dst, 5, 5, opaqueRed)

	dst = newTarget(30, 30)
	Draw(dst, node.NewFill(body, p, geom.FillRuleNonZero), geom.Identity())
	checkPixel(t, dst, 15, 15, opaqueRed)
}

func TestDraw_Stroke(t *testing.T) {
	p := geom.NewPath()
	p.Rectangle(geom.NewRect(10, 10, 20, 20))
	body := node.NewColor(red, geom.NewRect(0, 0, 40, 40))
	dst := newTarget(40, 40)
	Draw(dst, node.NewStroke(body, p, geom.Stroke{Width: 4, Join: geom.LineJoinMiter, MiterLimit: 4}), geom.Identity())

	checkPixel(t, dst, 20, 10, opaqueRed) // on the top edge
	checkPixel(t, dst, 9, 9, opaqueRed)   // inside the miter
	checkPixel(t, dst, 20, 20, transparent)
	checkPixel(t, dst, 2, 2, transparent)
}

func TestDraw_BlendMultiply(t *testing.T) {
	bottom := node.NewColor(geom.White, geom.NewRect(0, 0, 10, 10))
	top := node.NewColor(geom.RGBA(0, 0, 1, 1), geom.NewRect(0, 0, 10, 10))
	dst := newTarget(10, 10)
	Draw(dst, node.NewBlend(bottom, top, node.BlendMultiply), geom.Identity())
	checkPixel(t, dst, 5, 5, color.RGBA{B: 255, A: 255})

	dst = newTarget(10, 10)
	Draw(dst, node.NewBlend(bottom, top, node.BlendScreen), geom.Identity())
	checkPixel(t, dst, 5, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestDraw_CrossFade(t *testing.T) {
	a := node.NewColor(geom.White, geom.NewRect(0, 0, 10, 10))
	b := node.NewColor(geom.Black, geom.NewRect(0, 0, 10, 10))
	dst := newTarget(10, 10)
	Draw(dst, node.NewCrossFade(a, b, 0.5), geom.Identity())
	checkPixel(t, dst, 5, 5, color.RGBA{R: 128, G: 128, B: 128, A: 255})
}

func TestDraw_Mask(t *testing.T) {
	src := node.NewColor(red, geom.NewRect(0, 0, 20, 10))
	mask := node.NewColor(geom.White, geom.NewRect(0, 0, 10, 10))

	dst := newTarget(20, 10)
	Draw(dst, node.NewMask(src, mask, node.MaskAlpha), geom.Identity())
	checkPixel(t, dst, 5, 5, opaqueRed)
	checkPixel(t, dst, 15, 5, transparent)

	dst = newTarget(20, 10)
	Draw(dst, node.NewMask(src, mask, node.MaskInvertedLuminance), geom.Identity())
	checkPixel(t, dst, 5, 5, transparent)
	checkPixel(t, dst, 15, 5, opaqueRed)
}

func TestDraw_BlurSpreads(t *testing.T) {
	dst := newTarget(40, 40)
	Draw(dst, node.NewBlur(node.NewColor(red, geom.NewRect(10, 10, 20, 20)), 4), geom.Identity())
	if a := dst.RGBAAt(8, 20).A; a == 0 {
		t.Error("blur did not spread outside the source rect")
	}
	if a := dst.RGBAAt(20, 20).A; a < 250 {
		t.Errorf("blur center alpha = %d, want opaque", a)
	}
}

func TestDraw_ShadowBelowChild(t *testing.T) {
	child := node.NewColor(red, geom.NewRect(0, 0, 10, 10))
	s := node.NewShadow(child, node.ShadowSpec{Color: geom.Black, DX: 10, DY: 0})
	dst := newTarget(30, 10)
	Draw(dst, s, geom.Identity())
	checkPixel(t, dst, 5, 5, opaqueRed)
	checkPixel(t, dst, 15, 5, color.RGBA{A: 255})
}

func TestDraw_Text(t *testing.T) {
	f, err := text.ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error = %v", err)
	}
	glyphs := f.Shape("Hi", 24)
	n := node.NewText(f, glyphs, geom.Black, geom.Pt(4, 28), 24)
	dst := newTarget(64, 40)
	Draw(dst, n, geom.Identity())

	var inked int
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("text drew no pixels")
	}
}

func TestConvertImage_RoundTrip(t *testing.T) {
	img := newTarget(1, 1)
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 188, A: 255})
	ConvertImage(img, geom.ColorStateSRGB, geom.ColorStateSRGBLinear)
	if got := img.RGBAAt(0, 0); got.R != 255 || got.G != 0 || got.B >= 188 {
		t.Errorf("linear pixel = %v", got)
	}
	ConvertImage(img, geom.ColorStateSRGBLinear, geom.ColorStateSRGB)
	checkPixel(t, img, 0, 0, color.RGBA{R: 255, G: 0, B: 188, A: 255})
}

func TestStrokeOutline_Empty(t *testing.T) {
	p := geom.NewPath()
	p.MoveTo(1, 1)
	if out := strokeOutline(p, geom.DefaultStroke()); !out.IsEmpty() {
		t.Errorf("stroke of a lone point = %d elements", len(out.Elements()))
	}
	if out := strokeOutline(p, geom.Stroke{}); !out.IsEmpty() {
		t.Error("zero width stroke not empty")
	}
}
