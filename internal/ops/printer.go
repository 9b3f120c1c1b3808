package ops

import (
	"fmt"
	"strings"

	"github.com/gogpu/gsk/geom"
)

// Printer formats ops for debugging, one op per line, indenting the
// contents of render passes.
type Printer struct {
	b      strings.Builder
	stream *Stream
	indent int
}

// Line writes one line for an op.
func (p *Printer) Line(name, format string, args ...any) {
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("  ")
	}
	p.b.WriteString(name)
	if format != "" {
		p.b.WriteByte(' ')
		fmt.Fprintf(&p.b, format, args...)
	}
	p.b.WriteByte('\n')
}

func (p *Printer) String() string {
	return p.b.String()
}

func (p *Printer) image(id ImageID) string {
	if p.stream == nil || id < 0 || int(id) >= len(p.stream.images) {
		return fmt.Sprintf("image#%d", id)
	}
	img := p.stream.images[id]
	if img.Label != "" {
		return fmt.Sprintf("%s#%d(%dx%d)", img.Label, id, img.Width, img.Height)
	}
	return fmt.Sprintf("%s#%d(%dx%d)", img.Kind, id, img.Width, img.Height)
}

func fmtRect(r geom.Rect) string {
	return fmt.Sprintf("[%g %g %g %g]", r.X, r.Y, r.W, r.H)
}

func fmtIRect(r geom.IRect) string {
	return fmt.Sprintf("[%d %d %d %d]", r.X, r.Y, r.W, r.H)
}

func fmtRounded(rr geom.RoundedRect) string {
	if rr.IsRectilinear() {
		return fmtRect(rr.Bounds)
	}
	return fmt.Sprintf("%s/%g,%g/%g,%g/%g,%g/%g,%g", fmtRect(rr.Bounds),
		rr.Corner[0].W, rr.Corner[0].H, rr.Corner[1].W, rr.Corner[1].H,
		rr.Corner[2].W, rr.Corner[2].H, rr.Corner[3].W, rr.Corner[3].H)
}

func fmtColor(c geom.Color) string {
	return fmt.Sprintf("rgba(%g,%g,%g,%g)", c.R, c.G, c.B, c.A)
}
