package render

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/image/draw"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/cpu"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/node"
)

// channelTolerance is the largest per-channel difference accepted between
// the compiled output and the CPU reference. Edges differ in antialiasing.
const channelTolerance = 48

// compareWithCPU fails the test if more than a small share of the pixels
// of got differ from cpu.Draw of root.
func compareWithCPU(t *testing.T, got *image.RGBA, root node.Node) {
	t.Helper()
	want := image.NewRGBA(got.Bounds())
	cpu.Draw(want, root, geom.Identity())

	bad := 0
	var first image.Point
	for y := range testHeight {
		for x := range testWidth {
			if !closeRGBA(got.RGBAAt(x, y), want.RGBAAt(x, y)) {
				if bad == 0 {
					first = image.Pt(x, y)
				}
				bad++
			}
		}
	}
	if limit := testWidth * testHeight / 50; bad > limit {
		t.Errorf("%d pixels differ from the CPU reference, want at most %d; first (%d,%d) = %v, want %v",
			bad, limit, first.X, first.Y, got.RGBAAt(first.X, first.Y), want.RGBAAt(first.X, first.Y))
	}
}

func closeRGBA(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= channelTolerance && d(a.G, b.G) <= channelTolerance &&
		d(a.B, b.B) <= channelTolerance && d(a.A, b.A) <= channelTolerance
}

func onWhite(n node.Node) node.Node {
	return node.NewContainer(node.NewColor(geom.White, testViewport), n)
}

// clipped is a subtree with a rectangular clip and an opacity group,
// drawn under every transform below.
func clipped() node.Node {
	return node.NewContainer(
		node.NewClip(
			node.NewColor(geom.RGBA(1, 0, 0, 1), geom.NewRect(0, 0, 120, 80)),
			geom.NewRect(10, 10, 90, 50),
		),
		node.NewOpacity(node.NewContainer(
			node.NewColor(geom.RGBA(0, 0, 1, 1), geom.NewRect(30, 30, 60, 60)),
			node.NewColor(geom.RGBA(0, 1, 0, 1), geom.NewRect(60, 60, 60, 40)),
		), 0.5),
	)
}

func TestProcessor_TransformsMatchCPU(t *testing.T) {
	tests := []struct {
		name string
		t    geom.Transform
	}{
		{"translate", geom.Translate(40, 25)},
		{"flip", geom.Scale(-1, 1).Then(geom.Translate(300, 20))},
		{"rotate 90", geom.Rotate(90).Then(geom.Translate(250, 30))},
		{"scale", geom.Scale(2, 1.5).Then(geom.Translate(20, 40))},
		{"rotate 17", geom.Rotate(17).Then(geom.Translate(120, 20))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := onWhite(node.NewTransform(clipped(), tt.t))
			got, _ := renderSoftware(t, DefaultConfig(), root)
			compareWithCPU(t, got, root)
		})
	}
}

func TestProcessor_RotatedClipDoesNotLeak(t *testing.T) {
	// The clip node lies inside the rotated viewport, but its child is far
	// larger than the clip and must still be cut to it.
	inner := node.NewClip(
		node.NewColor(geom.RGBA(1, 0, 0, 1), geom.NewRect(0, 0, 300, 100)),
		geom.NewRect(150, 50, 50, 200),
	)
	root := onWhite(node.NewTransform(inner, geom.Rotate(17).Then(geom.Translate(50, 0))))

	for _, occlusion := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.OcclusionCulling = occlusion
		got, _ := renderSoftware(t, cfg, root)
		if c := got.RGBAAt(60, 20); c != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("occlusion %v: pixel (60,20) = %v, want white", occlusion, c)
		}
		compareWithCPU(t, got, root)
	}
}

func TestProcessor_PixelAlignedClipUsesScissor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OcclusionCulling = false
	cfg.ClearOptimization = false
	root := onWhite(node.NewClip(
		node.NewColor(geom.RGBA(1, 0, 0, 1), testViewport),
		geom.NewRect(50, 50, 100, 100),
	))

	f := NewFrame(cfg)
	target := f.AddTarget(testWidth, testHeight, geom.ColorStateSRGB)
	f.Render(target, nil, root, testViewport, ops.PassPresent)
	found := false
	for _, op := range opsOf(f.Stream(), ops.KindScissor) {
		if op.(*ops.ScissorOp).Rect == geom.NewIRect(50, 50, 100, 100) {
			found = true
		}
	}
	if !found {
		t.Errorf("no scissor op for the clip rectangle\n%s", f.Stream())
	}

	got, _ := renderSoftware(t, cfg, root)
	wantPixels := []struct {
		x, y int
		want color.RGBA
	}{
		{49, 49, color.RGBA{255, 255, 255, 255}},
		{50, 50, color.RGBA{255, 0, 0, 255}},
		{149, 149, color.RGBA{255, 0, 0, 255}},
		{150, 150, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range wantPixels {
		if c := got.RGBAAt(tt.x, tt.y); c != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestProcessor_OverlappingRoundedClipsUseMask(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OcclusionCulling = false
	root := onWhite(node.NewRoundedClip(
		node.NewRoundedClip(
			node.NewContainer(node.NewColor(geom.RGBA(0, 0, 1, 1), testViewport)),
			geom.NewRoundedRect(geom.NewRect(200, 150, 150, 100), 60),
		),
		geom.NewRoundedRect(geom.NewRect(50, 50, 200, 150), 60),
	))

	f := NewFrame(cfg)
	target := f.AddTarget(testWidth, testHeight, geom.ColorStateSRGB)
	f.Render(target, nil, root, testViewport, ops.PassPresent)
	if n := len(opsOf(f.Stream(), ops.KindMask)); n != 1 {
		t.Errorf("got %d mask ops, want 1\n%s", n, f.Stream())
	}

	got, _ := renderSoftware(t, cfg, root)
	compareWithCPU(t, got, root)
}

// square is a node type defined outside package node.
type square struct {
	rect geom.Rect
	c    color.RGBA
}

func (s square) Kind() node.Kind               { return node.KindUnknown }
func (s square) Bounds() geom.Rect             { return s.rect }
func (s square) OpaqueRect() (geom.Rect, bool) { return geom.Rect{}, false }

func (s square) Draw(dst *image.RGBA, m geom.Matrix) {
	r := m.TransformBounds(s.rect).RoundOut()
	draw.Draw(dst, image.Rect(r.X, r.Y, r.Right(), r.Bottom()), image.NewUniform(s.c), image.Point{}, draw.Src)
}

// opaqueless is a node the compiler has no class for.
type opaqueless struct{ rect geom.Rect }

func (o opaqueless) Kind() node.Kind               { return node.KindUnknown }
func (o opaqueless) Bounds() geom.Rect             { return o.rect }
func (o opaqueless) OpaqueRect() (geom.Rect, bool) { return geom.Rect{}, false }

func TestProcessor_DrawerIsRasterized(t *testing.T) {
	green := color.RGBA{0, 255, 0, 255}
	root := onWhite(square{rect: geom.NewRect(100, 60, 40, 30), c: green})

	got, stats := renderSoftware(t, DefaultConfig(), root)
	if stats.Rasterized != 1 {
		t.Errorf("Rasterized = %d, want 1", stats.Rasterized)
	}
	if c := got.RGBAAt(110, 70); c != green {
		t.Errorf("pixel (110,70) = %v, want %v", c, green)
	}
	if c := got.RGBAAt(99, 70); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (99,70) = %v, want white", c)
	}
}

func TestProcessor_UnknownKindFallsBack(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	f := NewFrame(DefaultConfig())
	target := f.AddTarget(testWidth, testHeight, geom.ColorStateSRGB)
	stats := f.Render(target, nil, onWhite(opaqueless{rect: geom.NewRect(10, 10, 50, 50)}), testViewport, ops.PassPresent)

	if stats.Rasterized != 1 {
		t.Errorf("Rasterized = %d, want 1", stats.Rasterized)
	}
	if n := len(opsOf(f.Stream(), ops.KindUpload)); n != 1 {
		t.Errorf("got %d upload ops, want 1\n%s", n, f.Stream())
	}
	if !strings.Contains(buf.String(), "unknown node kind") || !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("log = %q, want an error about the unknown node kind", buf.String())
	}
}

func TestProcessor_LinearCompositingConverts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinearCompositing = true
	root := whiteWithRed()

	f := NewFrame(cfg)
	target := f.AddTarget(testWidth, testHeight, geom.ColorStateSRGB)
	f.Render(target, nil, root, testViewport, ops.PassPresent)
	if n := len(opsOf(f.Stream(), ops.KindConvert)); n == 0 {
		t.Errorf("no convert op to the target color state\n%s", f.Stream())
	}

	got, _ := renderSoftware(t, cfg, root)
	compareWithCPU(t, got, root)
}
