package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/node"
	"github.com/gogpu/gsk/text"
)

var errInvalidScene = errors.New("invalid scene")

// Scene is a render node tree and the target it is drawn into.
type Scene struct {
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	Viewport []float64 `yaml:"viewport,omitempty"`
	Root     NodeSpec  `yaml:"root"`
}

// NodeSpec describes one render node. Kind selects which fields apply.
type NodeSpec struct {
	Kind string `yaml:"kind"`

	Rect     []float64 `yaml:"rect,omitempty"`
	Color    string    `yaml:"color,omitempty"`
	Radius   float64   `yaml:"radius,omitempty"`
	Opacity  float64   `yaml:"opacity,omitempty"`
	Progress float64   `yaml:"progress,omitempty"`
	Mode     string    `yaml:"mode,omitempty"`
	Message  string    `yaml:"message,omitempty"`

	Image  string `yaml:"image,omitempty"`
	Filter string `yaml:"filter,omitempty"`

	Text   string    `yaml:"text,omitempty"`
	Font   string    `yaml:"font,omitempty"`
	Size   float64   `yaml:"size,omitempty"`
	Origin []float64 `yaml:"origin,omitempty"`

	Path      string  `yaml:"path,omitempty"`
	FillRule  string  `yaml:"fill_rule,omitempty"`
	LineWidth float64 `yaml:"line_width,omitempty"`

	Transform []TransformStep `yaml:"transform,omitempty"`
	Shadows   []ShadowSpec    `yaml:"shadows,omitempty"`

	Children []NodeSpec `yaml:"children,omitempty"`
	Child    *NodeSpec  `yaml:"child,omitempty"`
	Bottom   *NodeSpec  `yaml:"bottom,omitempty"`
	Top      *NodeSpec  `yaml:"top,omitempty"`
	Start    *NodeSpec  `yaml:"start,omitempty"`
	End      *NodeSpec  `yaml:"end,omitempty"`
	Source   *NodeSpec  `yaml:"source,omitempty"`
	Mask     *NodeSpec  `yaml:"mask,omitempty"`
}

// TransformStep is one step of a transform. As in CSS, the last step
// applies to node coordinates first.
type TransformStep struct {
	Translate   []float64 `yaml:"translate,omitempty"`
	Scale       []float64 `yaml:"scale,omitempty"`
	Rotate      float64   `yaml:"rotate,omitempty"`
	Perspective float64   `yaml:"perspective,omitempty"`
}

// ShadowSpec is one shadow of a shadow node.
type ShadowSpec struct {
	Color  string  `yaml:"color"`
	DX     float64 `yaml:"dx"`
	DY     float64 `yaml:"dy"`
	Radius float64 `yaml:"radius"`
}

// LoadScene reads a YAML scene from path.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeScene(f)
}

// DecodeScene reads a YAML scene from r. Unknown fields are errors.
func DecodeScene(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", errInvalidScene, s.Width, s.Height)
	}
	return &s, nil
}

// ViewportRect returns the viewport, defaulting to the target size.
func (s *Scene) ViewportRect() (geom.Rect, error) {
	if len(s.Viewport) == 0 {
		return geom.NewRect(0, 0, float64(s.Width), float64(s.Height)), nil
	}
	return rectOf(s.Viewport)
}

// sceneBuilder turns node specs into nodes. Resources are resolved
// relative to dir.
type sceneBuilder struct {
	dir   string
	fonts map[string]*text.Font
}

func newSceneBuilder(dir string) *sceneBuilder {
	return &sceneBuilder{dir: dir, fonts: make(map[string]*text.Font)}
}

func (b *sceneBuilder) build(s *NodeSpec, path string) (node.Node, error) {
	n, err := b.buildNode(s, path)
	if err != nil && !errors.Is(err, errInvalidScene) {
		err = fmt.Errorf("%s: %w", path, err)
	}
	return n, err
}

func (b *sceneBuilder) child(s *NodeSpec, path, field string) (node.Node, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %s: missing %s", errInvalidScene, path, field)
	}
	return b.build(s, path+"."+field)
}

func (b *sceneBuilder) buildNode(s *NodeSpec, path string) (node.Node, error) {
	kind, ok := node.ParseKind(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown kind %q", errInvalidScene, path, s.Kind)
	}

	switch kind {
	case node.KindContainer:
		children := make([]node.Node, 0, len(s.Children))
		for i := range s.Children {
			c, err := b.build(&s.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		return node.NewContainer(children...), nil

	case node.KindColor:
		r, err := rectOf(s.Rect)
		if err != nil {
			return nil, err
		}
		c, err := parseColor(s.Color)
		if err != nil {
			return nil, err
		}
		return node.NewColor(c, r), nil

	case node.KindTexture:
		r, err := rectOf(s.Rect)
		if err != nil {
			return nil, err
		}
		img, err := b.loadImage(s.Image)
		if err != nil {
			return nil, err
		}
		filter := node.FilterLinear
		if s.Filter == "nearest" {
			filter = node.FilterNearest
		}
		return node.NewTextureScale(img, r, filter), nil

	case node.KindText:
		return b.buildText(s)

	case node.KindFill, node.KindStroke:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		p, err := parsePath(s.Path)
		if err != nil {
			return nil, err
		}
		if kind == node.KindStroke {
			st := geom.DefaultStroke()
			if s.LineWidth > 0 {
				st.Width = s.LineWidth
			}
			return node.NewStroke(child, p, st), nil
		}
		rule := geom.FillRuleNonZero
		if s.FillRule == "even-odd" {
			rule = geom.FillRuleEvenOdd
		}
		return node.NewFill(child, p, rule), nil

	case node.KindTransform:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		t, err := transformOf(s.Transform)
		if err != nil {
			return nil, err
		}
		return node.NewTransform(child, t), nil

	case node.KindOpacity:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		return node.NewOpacity(child, s.Opacity), nil

	case node.KindClip:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		r, err := rectOf(s.Rect)
		if err != nil {
			return nil, err
		}
		return node.NewClip(child, r), nil

	case node.KindRoundedClip:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		r, err := rectOf(s.Rect)
		if err != nil {
			return nil, err
		}
		return node.NewRoundedClip(child, geom.NewRoundedRect(r, s.Radius)), nil

	case node.KindShadow:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		shadows := make([]node.ShadowSpec, 0, len(s.Shadows))
		for _, sh := range s.Shadows {
			c, err := parseColor(sh.Color)
			if err != nil {
				return nil, err
			}
			shadows = append(shadows, node.ShadowSpec{Color: c, DX: sh.DX, DY: sh.DY, Radius: sh.Radius})
		}
		return node.NewShadow(child, shadows...), nil

	case node.KindBlur:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		return node.NewBlur(child, s.Radius), nil

	case node.KindBlend:
		bottom, err := b.child(s.Bottom, path, "bottom")
		if err != nil {
			return nil, err
		}
		top, err := b.child(s.Top, path, "top")
		if err != nil {
			return nil, err
		}
		mode, ok := node.ParseBlendMode(s.Mode)
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown blend mode %q", errInvalidScene, path, s.Mode)
		}
		return node.NewBlend(bottom, top, mode), nil

	case node.KindCrossFade:
		start, err := b.child(s.Start, path, "start")
		if err != nil {
			return nil, err
		}
		end, err := b.child(s.End, path, "end")
		if err != nil {
			return nil, err
		}
		return node.NewCrossFade(start, end, s.Progress), nil

	case node.KindMask:
		source, err := b.child(s.Source, path, "source")
		if err != nil {
			return nil, err
		}
		mask, err := b.child(s.Mask, path, "mask")
		if err != nil {
			return nil, err
		}
		mode, err := maskModeOf(s.Mode)
		if err != nil {
			return nil, err
		}
		return node.NewMask(source, mask, mode), nil

	case node.KindDebug:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		return node.NewDebug(child, s.Message), nil

	case node.KindSubsurface:
		child, err := b.child(s.Child, path, "child")
		if err != nil {
			return nil, err
		}
		return node.NewSubsurface(child), nil
	}
	return nil, fmt.Errorf("%w: %s: kind %q cannot be described", errInvalidScene, path, s.Kind)
}

func (b *sceneBuilder) buildText(s *NodeSpec) (node.Node, error) {
	f, err := b.loadFont(s.Font)
	if err != nil {
		return nil, err
	}
	c, err := parseColor(s.Color)
	if err != nil {
		return nil, err
	}
	size := s.Size
	if size <= 0 {
		size = 16
	}
	var origin geom.Point
	switch len(s.Origin) {
	case 0:
	case 2:
		origin = geom.Pt(s.Origin[0], s.Origin[1])
	default:
		return nil, fmt.Errorf("origin needs 2 values, got %d", len(s.Origin))
	}
	return node.NewText(f, f.Shape(s.Text, size), c, origin, size), nil
}

func (b *sceneBuilder) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(b.dir, name)
}

// loadFont returns the font in file name, or Go Regular for "".
func (b *sceneBuilder) loadFont(name string) (*text.Font, error) {
	if f, ok := b.fonts[name]; ok {
		return f, nil
	}
	data := goregular.TTF
	if name != "" {
		var err error
		if data, err = os.ReadFile(b.resolve(name)); err != nil {
			return nil, err
		}
	}
	f, err := text.ParseFont(data)
	if err != nil {
		return nil, err
	}
	b.fonts[name] = f
	return f, nil
}

func (b *sceneBuilder) loadImage(name string) (image.Image, error) {
	if name == "" {
		return nil, errors.New("texture without image")
	}
	f, err := os.Open(b.resolve(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

func rectOf(v []float64) (geom.Rect, error) {
	if len(v) != 4 {
		return geom.Rect{}, fmt.Errorf("rect needs 4 values, got %d", len(v))
	}
	return geom.NewRect(v[0], v[1], v[2], v[3]), nil
}

var namedColors = map[string]geom.Color{
	"":            geom.Black,
	"black":       geom.Black,
	"white":       geom.White,
	"transparent": geom.Transparent,
	"red":         geom.RGBA(1, 0, 0, 1),
	"green":       geom.RGBA(0, 1, 0, 1),
	"blue":        geom.RGBA(0, 0, 1, 1),
}

// parseColor accepts #rgb, #rrggbb, #rrggbbaa and a few names.
func parseColor(s string) (geom.Color, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return geom.Color{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return geom.Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return geom.Color{}, fmt.Errorf("bad color %q", s)
	}
	ch := func(shift uint) float32 { return float32((v>>shift)&0xff) / 255 }
	return geom.RGBA(ch(24), ch(16), ch(8), ch(0)), nil
}

func maskModeOf(s string) (node.MaskMode, error) {
	switch s {
	case "", "alpha":
		return node.MaskAlpha, nil
	case "inverted-alpha":
		return node.MaskInvertedAlpha, nil
	case "luminance":
		return node.MaskLuminance, nil
	case "inverted-luminance":
		return node.MaskInvertedLuminance, nil
	}
	return 0, fmt.Errorf("unknown mask mode %q", s)
}

func transformOf(steps []TransformStep) (geom.Transform, error) {
	t := geom.IdentityTransform()
	for i, st := range steps {
		switch {
		case len(st.Translate) == 2:
			t = geom.Translate(st.Translate[0], st.Translate[1]).Then(t)
		case len(st.Scale) == 2:
			t = geom.Scale(st.Scale[0], st.Scale[1]).Then(t)
		case st.Rotate != 0:
			t = geom.Rotate(st.Rotate).Then(t)
		case st.Perspective != 0:
			t = geom.Perspective(st.Perspective).Then(t)
		default:
			return t, fmt.Errorf("transform step %d is empty", i)
		}
	}
	return t, nil
}

// parsePath reads SVG-style absolute commands: M, L, Q, C and Z, with
// operands separated by spaces or commas.
func parsePath(s string) (*geom.Path, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\n' || r == '\t' })
	p := geom.NewPath()
	args := func(i, n int) ([]float64, error) {
		if i+n > len(fields) {
			return nil, fmt.Errorf("path: %s needs %d operands", fields[i-1], n)
		}
		out := make([]float64, n)
		for j := range out {
			v, err := strconv.ParseFloat(fields[i+j], 64)
			if err != nil {
				return nil, fmt.Errorf("path: %w", err)
			}
			out[j] = v
		}
		return out, nil
	}

	for i := 0; i < len(fields); {
		cmd := fields[i]
		i++
		var n int
		switch cmd {
		case "M", "L":
			n = 2
		case "Q":
			n = 4
		case "C":
			n = 6
		case "Z", "z":
			p.Close()
			continue
		default:
			return nil, fmt.Errorf("path: unknown command %q", cmd)
		}
		a, err := args(i, n)
		if err != nil {
			return nil, err
		}
		i += n
		switch cmd {
		case "M":
			p.MoveTo(a[0], a[1])
		case "L":
			p.LineTo(a[0], a[1])
		case "Q":
			p.QuadTo(a[0], a[1], a[2], a[3])
		case "C":
			p.CubicTo(a[0], a[1], a[2], a[3], a[4], a[5])
		}
	}
	if p.IsEmpty() {
		return nil, errors.New("path: empty")
	}
	return p, nil
}
