package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/node"
)

func TestDecodeScene(t *testing.T) {
	s, err := LoadScene("testdata/scene.yaml")
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	if s.Width != 320 || s.Height != 240 {
		t.Errorf("size = %dx%d, want 320x240", s.Width, s.Height)
	}
	vp, err := s.ViewportRect()
	if err != nil {
		t.Fatalf("ViewportRect() error = %v", err)
	}
	if want := geom.NewRect(0, 0, 320, 240); vp != want {
		t.Errorf("ViewportRect() = %v, want %v", vp, want)
	}

	root, err := newSceneBuilder("testdata").build(&s.Root, "root")
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	c, ok := root.(*node.Container)
	if !ok {
		t.Fatalf("root is %T, want *node.Container", root)
	}
	if got := len(c.Children()); got != 5 {
		t.Errorf("len(Children()) = %d, want 5", got)
	}
}

func TestDecodeScene_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "width: 10\nheight: 10\ncolour: red\n"},
		{"zero size", "width: 0\nheight: 10\n"},
		{"not yaml", "width: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeScene(strings.NewReader(tt.yaml)); err == nil {
				t.Error("DecodeScene() error = nil, want error")
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec NodeSpec
	}{
		{"unknown kind", NodeSpec{Kind: "sprite"}},
		{"missing child", NodeSpec{Kind: "opacity", Opacity: 0.5}},
		{"missing top", NodeSpec{Kind: "blend", Bottom: &NodeSpec{Kind: "container"}}},
		{"bad blend mode", NodeSpec{
			Kind:   "blend",
			Mode:   "dodge-ish",
			Bottom: &NodeSpec{Kind: "container"},
			Top:    &NodeSpec{Kind: "container"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSceneBuilder(".").build(&tt.spec, "root")
			if !errors.Is(err, errInvalidScene) {
				t.Errorf("build() error = %v, want %v", err, errInvalidScene)
			}
		})
	}

	// Field errors carry the node path.
	spec := NodeSpec{Kind: "container", Children: []NodeSpec{{Kind: "color", Rect: []float64{1, 2}}}}
	_, err := newSceneBuilder(".").build(&spec, "root")
	if err == nil || !strings.Contains(err.Error(), "root.children[0]") {
		t.Errorf("build() error = %v, want path root.children[0]", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Color
		wantErr bool
	}{
		{"white", geom.White, false},
		{"", geom.Black, false},
		{"#ff0000", geom.RGBA(1, 0, 0, 1), false},
		{"#f00", geom.RGBA(1, 0, 0, 1), false},
		{"#00000000", geom.RGBA(0, 0, 0, 0), false},
		{"ff0000", geom.Color{}, true},
		{"#ff00", geom.Color{}, true},
		{"#gg0000", geom.Color{}, true},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePath(t *testing.T) {
	p, err := parsePath("M 0,0 L 10 0 Q 10 10 5 10 C 4 10 0 5 0 0 Z")
	if err != nil {
		t.Fatalf("parsePath() error = %v", err)
	}
	if p.IsEmpty() {
		t.Error("parsePath() returned an empty path")
	}

	for _, bad := range []string{"", "M 0", "X 1 2", "M a b"} {
		if _, err := parsePath(bad); err == nil {
			t.Errorf("parsePath(%q) error = nil, want error", bad)
		}
	}
}

func TestTransformOf(t *testing.T) {
	got, err := transformOf([]TransformStep{{Translate: []float64{10, 20}}, {Scale: []float64{2, 2}}})
	if err != nil {
		t.Fatalf("transformOf() error = %v", err)
	}
	// Scale first, then translate.
	if p := got.TransformPoint(geom.Pt(1, 1)); p != geom.Pt(12, 22) {
		t.Errorf("TransformPoint(1, 1) = %v, want (12, 22)", p)
	}
	if _, err := transformOf([]TransformStep{{}}); err == nil {
		t.Error("transformOf(empty step) error = nil, want error")
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	if err := run("testdata/scene.yaml", out, false, "software"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("image size = %v, want 320x240", b)
	}
	r, g, b, a := img.At(300, 10).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff || a>>8 != 0xff {
		t.Errorf("background = %x %x %x %x, want white", r>>8, g>>8, b>>8, a>>8)
	}
	r, _, b, _ = img.At(60, 60).RGBA()
	if b>>8 < 0xc0 || r>>8 > 0x40 {
		t.Errorf("clipped rect pixel = r %x b %x, want blue", r>>8, b>>8)
	}
}
