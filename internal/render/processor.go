package render

import (
	"math"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/clip"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/internal/pattern"
	"github.com/gogpu/gsk/internal/transform"
	"github.com/gogpu/gsk/node"
)

// processor walks a node tree and emits ops into one pass.
type processor struct {
	Pass
	frame *Frame
}

func (f *Frame) newProcessor(target ops.ImageID, ccs geom.ColorState, extents geom.IRect, viewport geom.Rect, pt ops.PassType) *processor {
	p := &processor{frame: f}
	p.init(f.stream, target, ccs, extents, viewport, pt)
	return p
}

type (
	addFunc     func(p *processor, n node.Node)
	firstFunc   func(p *processor, info *firstNodeInfo, n node.Node) bool
	asImageFunc func(f *Frame, ccs geom.ColorState, clipBounds geom.Rect, sx, sy float64, n node.Node) (ops.ImageID, geom.Rect, bool)
)

// nodeClass is the per-kind behaviour of the compiler. A nil add draws
// the node on the CPU, a nil first makes the generic opaque-rect logic
// handle it, a nil asImage renders it into an offscreen.
type nodeClass struct {
	ignored        Globals
	handlesOpacity bool
	add            addFunc
	first          firstFunc
	asImage        asImageFunc
}

var nodeTable [node.NumKinds]nodeClass

func init() {
	const structural = GlobalMatrix | GlobalScale | GlobalClip | GlobalScissor
	nodeTable = [node.NumKinds]nodeClass{
		node.KindContainer:   {ignored: structural, handlesOpacity: true, add: addContainer, first: firstContainer},
		node.KindColor:       {handlesOpacity: true, add: addColor, first: firstColor},
		node.KindTexture:     {handlesOpacity: true, add: addTexture, first: firstNoBlend, asImage: textureAsImage},
		node.KindTransform:   {ignored: GlobalsAll, handlesOpacity: true, add: addTransform, first: firstTransform},
		node.KindOpacity:     {ignored: structural, handlesOpacity: true, add: addOpacity},
		node.KindClip:        {ignored: GlobalsAll, handlesOpacity: true, add: addClip, first: firstClip},
		node.KindRoundedClip: {ignored: GlobalsAll, handlesOpacity: true, add: addRoundedClip, first: firstRoundedClip},
		node.KindShadow:      {asImage: cpuAsImage},
		node.KindBlur:        {asImage: cpuAsImage},
		node.KindBlend:       {handlesOpacity: true, asImage: cpuAsImage},
		node.KindCrossFade:   {handlesOpacity: true, asImage: cpuAsImage},
		node.KindMask:        {handlesOpacity: true, add: addMask},
		node.KindStroke:      {handlesOpacity: true, asImage: cpuAsImage},
		node.KindFill:        {handlesOpacity: true, asImage: cpuAsImage},
		node.KindText:        {handlesOpacity: true, asImage: cpuAsImage},
		node.KindDebug:       {ignored: GlobalsAll, handlesOpacity: true, add: addChild, first: firstChild, asImage: childAsImage},
		node.KindSubsurface:  {ignored: GlobalsAll, handlesOpacity: true, add: addChild, first: firstChild, asImage: childAsImage},
	}
	drawerClass = nodeClass{asImage: cpuAsImage}
}

// drawerClass handles node types defined outside package node.
var drawerClass nodeClass

// classFor returns the table entry for n, or nil for kinds the table
// does not know.
func classFor(n node.Node) *nodeClass {
	if _, ok := n.(node.Drawer); ok {
		return &drawerClass
	}
	k := n.Kind()
	if int(k) >= len(nodeTable) {
		return nil
	}
	return &nodeTable[k]
}

// addNode emits the ops drawing n.
func (p *processor) addNode(n node.Node) {
	b := n.Bounds()
	if b.W <= 0 || b.H <= 0 || !p.clip.MayIntersectRect(p.offset(), b) {
		return
	}

	c := classFor(n)
	if c == nil {
		slogger().Error("render: unknown node kind", "kind", n.Kind())
		p.addCPUNode(n)
		return
	}
	if p.opacity < 1 && !c.handlesOpacity {
		p.addWithoutOpacity(n)
		return
	}
	if p.frame.cfg.PatternShaders && pattern.CanEncode(n) && p.addPattern(n) {
		return
	}

	p.syncGlobals(c.ignored)
	if c.add == nil {
		p.addCPUNode(n)
		return
	}
	c.add(p, n)
}

// clipNodeBounds returns the visible part of n in node coordinates.
func (p *processor) clipNodeBounds(n node.Node) (geom.Rect, bool) {
	return p.clipBounds().Intersect(n.Bounds())
}

func (p *processor) clipNodeBoundsSnapped(n node.Node) (geom.Rect, bool) {
	r, ok := p.clipNodeBounds(n)
	if !ok {
		return geom.Rect{}, false
	}
	return p.snapToGrid(r)
}

// nodeAsImage renders the part of n inside bounds into an image in the
// compositing color state. It returns the rectangle the image covers.
func (p *processor) nodeAsImage(bounds geom.Rect, n node.Node) (ops.ImageID, geom.Rect, bool) {
	r, ok := bounds.Intersect(n.Bounds())
	if !ok {
		return ops.NoImage, geom.Rect{}, false
	}
	return p.frame.nodeAsImage(p.ccs, r, p.acc.ScaleX, p.acc.ScaleY, n)
}

// imageOp draws texRect of img into rect, both in node coordinates.
func (p *processor) imageOp(img ops.ImageID, cs geom.ColorState, rect, texRect geom.Rect, filter ops.Filter) {
	p.syncGlobals(0)
	o := p.offset()
	sc := p.clip.ShaderClip(o, rect)
	r := rect.Offset(o.X, o.Y)
	tr := texRect.Offset(o.X, o.Y)
	if p.opacity < 1 || cs != p.ccs {
		p.stream.Convert(ops.ConvertOp{
			Clip:    sc,
			Rect:    r,
			TexRect: tr,
			Image:   img,
			From:    cs,
			To:      p.ccs,
			Opacity: p.opacity,
		})
		return
	}
	p.stream.Texture(ops.TextureOp{Clip: sc, Rect: r, TexRect: tr, Image: img, Filter: filter})
}

// colorOp fills rect, in basic coordinates, with the sRGB color c.
func (p *processor) colorOp(sc clip.ShaderClip, rect geom.Rect, c geom.Color) {
	p.syncGlobals(0)
	c = geom.ColorStateSRGB.Convert(c, p.ccs)
	c.A *= float32(p.opacity)
	p.stream.Color(ops.ColorOp{Clip: sc, Rect: rect, Color: c})
}

// addCPUNode rasterizes the visible part of n and draws the result.
func (p *processor) addCPUNode(n node.Node) {
	bounds, ok := p.clipNodeBoundsSnapped(n)
	if !ok {
		return
	}
	p.syncGlobals(0)
	img := p.frame.uploadNode(p.acc.ScaleX, p.acc.ScaleY, bounds, n)
	p.imageOp(img, geom.ColorStateSRGB, bounds, bounds, ops.FilterLinear)
}

// addWithoutOpacity draws n into an offscreen and blends the result with
// the current opacity.
func (p *processor) addWithoutOpacity(n node.Node) {
	bounds, ok := p.clipNodeBoundsSnapped(n)
	if !ok {
		return
	}
	p.syncGlobals(0)
	img, tex, ok := p.nodeAsImage(bounds, n)
	if !ok {
		return
	}
	p.imageOp(img, p.ccs, tex, tex, ops.FilterLinear)
}

func (p *processor) addPattern(n node.Node) bool {
	w := p.frame.patterns
	if !pattern.CreateForNode(w, n) {
		w.Abort()
		return false
	}
	off, size := w.Commit()
	data := append([]byte(nil), w.Bytes()[off:off+size]...)

	p.syncGlobals(0)
	o := p.offset()
	b := n.Bounds()
	p.stream.Pattern(ops.PatternOp{
		Clip:    p.clip.ShaderClip(o, b),
		Rect:    b.Offset(o.X, o.Y),
		Data:    data,
		Opacity: p.opacity,
	})
	return true
}

func addContainer(p *processor, n node.Node) {
	c := n.(*node.Container)
	if p.opacity < 1 && !c.IsDisjoint() {
		p.addWithoutOpacity(n)
		return
	}

	children := c.Children()
	start := 0
	if p.opacity >= 1 && (p.blend == ops.BlendOver || p.blend == ops.BlendNone) {
		// Children below one that covers the whole container are invisible.
		for i := len(children) - 1; i > 0; i-- {
			if r, ok := children[i].OpaqueRect(); ok && r.Contains(c.Bounds()) {
				start = i
				break
			}
		}
	}
	for _, child := range children[start:] {
		p.addNode(child)
	}
}

func addColor(p *processor, n node.Node) {
	cn := n.(*node.Color)
	c := cn.Color()
	o := p.offset()
	rect := cn.Bounds().Offset(o.X, o.Y)

	if p.frame.cfg.ClearOptimization &&
		c.IsOpaque() &&
		p.opacity >= 1 &&
		(p.blend == ops.BlendOver || p.blend == ops.BlendNone) &&
		cn.Bounds().Area() > 100*100 {
		if clipped, ok := p.clip.Bounds().Intersect(rect); ok {
			if device, ok := p.rectIsInteger(clipped); ok {
				p.clearColor(cn, device, c)
				return
			}
		}
	}

	p.colorOp(p.clip.ShaderClip(o, cn.Bounds()), rect, c)
}

// clearColor fills the device rectangle with an opaque color using clear
// ops. Rounded clip corners are drawn as color strips.
func (p *processor) clearColor(cn *node.Color, device geom.IRect, c geom.Color) {
	device, ok := device.Intersect(p.scissor)
	if !ok {
		return
	}
	o := p.offset()
	if p.clip.Type == clip.TypeRounded {
		full := func() {
			p.colorOp(p.clip.ShaderClip(o, cn.Bounds()), cn.Bounds().Offset(o.X, o.Y), c)
		}
		if p.modelview != nil || p.acc.Dihedral != geom.DihedralNormal {
			full()
			return
		}
		clipped, ok := p.rectDeviceToClip(device.Rect())
		if !ok {
			full()
			return
		}
		sc := p.clip.ShaderClip(geom.Point{}, clipped)
		if sc != clip.ShaderClipNone {
			cover, ok := p.clip.Rect.LargestCover(clipped)
			if !ok {
				full()
				return
			}
			d, ok := p.rectClipToDevice(cover)
			if !ok {
				full()
				return
			}
			device = d.Shrink()
			if device.IsEmpty() {
				full()
				return
			}
			cover, _ = p.rectDeviceToClip(device.Rect())
			p.strips(sc, clipped, cover, c)
		}
	}
	p.syncGlobals(0)
	p.stream.Clear(ops.ClearOp{Rect: device, Color: geom.ColorStateSRGB.Convert(c, p.ccs)})
}

// strips fills outer minus inner, both in basic coordinates, with up to
// four color ops.
func (p *processor) strips(sc clip.ShaderClip, outer, inner geom.Rect, c geom.Color) {
	if inner.X > outer.X {
		p.colorOp(sc, geom.RectFromPoints(outer.X, outer.Y, inner.X, outer.Bottom()), c)
	}
	if inner.Right() < outer.Right() {
		p.colorOp(sc, geom.RectFromPoints(inner.Right(), outer.Y, outer.Right(), outer.Bottom()), c)
	}
	if inner.Y > outer.Y {
		p.colorOp(sc, geom.RectFromPoints(inner.X, outer.Y, inner.Right(), inner.Y), c)
	}
	if inner.Bottom() < outer.Bottom() {
		p.colorOp(sc, geom.RectFromPoints(inner.X, inner.Bottom(), inner.Right(), outer.Bottom()), c)
	}
}

func filterOf(f node.Filter) ops.Filter {
	if f == node.FilterNearest {
		return ops.FilterNearest
	}
	return ops.FilterLinear
}

func addTexture(p *processor, n node.Node) {
	tn := n.(*node.Texture)
	img, ok := p.frame.uploadTexture(tn)
	if !ok {
		return
	}
	p.imageOp(img, tn.ColorState(), tn.Bounds(), tn.Bounds(), filterOf(tn.Filter()))
}

func addOpacity(p *processor, n node.Node) {
	on := n.(*node.Opacity)
	old := p.opacity
	p.opacity *= on.Opacity()
	if p.opacity > 0 {
		p.addNode(on.Child())
	}
	p.opacity = old
}

func addChild(p *processor, n node.Node) {
	p.addNode(node.Children(n)[0])
}

func addTransform(p *processor, n node.Node) {
	tn := n.(*node.Transform)
	child := tn.Child()
	t := tn.Transform()

	switch cat := t.Category(); {
	case cat >= geom.Category2DTranslate:
		dx, dy := t.ToTranslate()
		old := p.pushTranslate(dx, dy)
		p.addNode(child)
		p.popTranslate(old)
		return
	case cat >= geom.Category2DDihedral:
		old := p.save()
		if p.foldTransform(t) {
			p.addNode(child)
			p.restore(old)
			return
		}
	}
	p.addTransformGeneral(tn)
}

// foldTransform folds t into the accumulator and scales the clip to
// match. It reports false, changing nothing, if t cannot be folded.
func (p *processor) foldTransform(t geom.Transform) bool {
	acc := p.acc
	if !acc.Transform(t) {
		return false
	}
	d, sx, sy, _, _ := t.ToDihedral()
	if acc.Dihedral != p.acc.Dihedral {
		p.pending |= GlobalMatrix
	}
	p.acc = acc
	p.clip = p.clip.Scale(d.Invert(), sx, sy)
	p.pending |= GlobalScale | GlobalClip
	return true
}

// addTransformGeneral handles transforms that do not keep rectangles
// axis-aligned by switching to a modelview matrix.
func (p *processor) addTransformGeneral(tn *node.Transform) {
	child := tn.Child()
	o := p.offset()
	toBasic := tn.Transform().Then(geom.Translate(o.X, o.Y))

	var c clip.Clip
	switch {
	case p.clip.ContainsRect(o, tn.Bounds()):
		c = clip.Contained(child.Bounds())
	case p.clip.Type == clip.TypeNone:
		inv, ok := toBasic.Invert()
		if !ok {
			return
		}
		c = clip.Empty(inv.TransformBounds(p.clip.Bounds()))
	default:
		var ok bool
		if c, ok = p.clip.Transform(toBasic, child.Bounds()); !ok {
			// The offscreen starts unclipped, so this does not recurse.
			p.addAsImage(tn)
			return
		}
	}

	old := p.save()
	m := p.acc.Matrix()
	if p.modelview != nil {
		m = p.modelview.Matrix().Mul(m)
	}
	m = m.Mul(geom.ScaleMatrix(p.acc.ScaleX, p.acc.ScaleY, 1)).Mul(toBasic.Matrix())

	sx, sy := extractScale(m)
	if !(sx > 0) || !(sy > 0) || !finite(sx) || !finite(sy) {
		return
	}
	ob, nb := old.clip.Bounds(), c.Bounds()
	oldPixels := max(p.acc.ScaleX*ob.W, p.acc.ScaleY*ob.H)
	newPixels := max(sx*nb.W, sy*nb.H)
	if newPixels > 1.5*oldPixels {
		f := 2 * oldPixels / newPixels
		sx *= f
		sy *= f
	}
	mv := geom.FromMatrix(m.Mul(geom.ScaleMatrix(1/sx, 1/sy, 1)))

	p.setTransform(transform.New(geom.DihedralNormal, sx, sy, geom.Point{}), &mv, c)
	if !p.clip.IsAllClipped() {
		p.addNode(child)
	}
	p.restore(old)
}

// addAsImage draws n through an offscreen of its visible part.
func (p *processor) addAsImage(n node.Node) {
	bounds, ok := p.clipNodeBoundsSnapped(n)
	if !ok {
		return
	}
	p.syncGlobals(0)
	img, tex, ok := p.nodeAsImage(bounds, n)
	if !ok {
		return
	}
	p.imageOp(img, p.ccs, n.Bounds(), tex, ops.FilterLinear)
}

func addClip(p *processor, n node.Node) {
	cn := n.(*node.Clip)
	p.addNodeClipped(cn.Child(), cn.ClipRect())
}

// addNodeClipped draws n restricted to clipRect, given in node
// coordinates. Pixel-aligned clips become scissor rectangles.
func (p *processor) addNodeClipped(n node.Node, clipRect geom.Rect) {
	if clipRect.Contains(n.Bounds()) {
		p.addNode(n)
		return
	}

	o := p.offset()
	cr := clipRect.Offset(o.X, o.Y)
	oldClip := p.clip

	if scissor, ok := p.rectIsInteger(cr); ok {
		scissor, ok = scissor.Intersect(p.scissor)
		if !ok {
			return
		}
		oldScissor := p.scissor
		c, ok := oldClip.IntersectRect(cr)
		if ok {
			if c.IsAllClipped() {
				return
			}
			if (c.Type == clip.TypeRect || c.Type == clip.TypeContained) && c.Bounds().Contains(cr) {
				c.Type = clip.TypeNone
			}
			p.clip = c
		}
		p.scissor = scissor
		p.pending |= GlobalScissor | GlobalClip
		p.addNode(n)
		p.clip = oldClip
		p.scissor = oldScissor
		p.pending |= GlobalScissor | GlobalClip
		return
	}

	if sr, ok := p.rectDeviceToClip(p.scissor.Rect()); ok {
		if cr, ok = sr.Intersect(cr); !ok {
			return
		}
	}
	c, ok := oldClip.IntersectRect(cr)
	if !ok {
		p.syncGlobals(0)
		bounds, ok := p.clipNodeBounds(n)
		if !ok {
			return
		}
		if bounds, ok = bounds.Intersect(clipRect); !ok {
			return
		}
		img, tex, ok := p.nodeAsImage(bounds, n)
		if !ok {
			return
		}
		p.imageOp(img, p.ccs, bounds, tex, ops.FilterLinear)
		return
	}
	if c.IsAllClipped() {
		return
	}
	p.clip = c
	p.pending |= GlobalClip
	p.addNode(n)
	p.clip = oldClip
	p.pending |= GlobalClip
}

func addRoundedClip(p *processor, n node.Node) {
	rc := n.(*node.RoundedClip)
	child := rc.Child()
	rr := rc.ClipRect()
	o := p.offset()

	// Rounded solid backgrounds have their own shader.
	if cn, ok := child.(*node.Color); ok && cn.Bounds().Contains(rr.Bounds) {
		p.syncGlobals(0)
		c := geom.ColorStateSRGB.Convert(cn.Color(), p.ccs)
		c.A *= float32(p.opacity)
		p.stream.RoundedColor(ops.RoundedColorOp{
			Clip:    p.clip.ShaderClip(o, rr.Bounds),
			Outline: rr.Offset(o.X, o.Y),
			Color:   c,
		})
		return
	}

	oldClip := p.clip
	c, ok := oldClip.IntersectRoundedRect(rr.Offset(o.X, o.Y))
	if !ok {
		p.addRoundedClipWithMask(rc)
		return
	}
	if sr, ok := p.rectDeviceToClip(p.scissor.Rect()); ok {
		if sc, ok := c.IntersectRect(sr); ok {
			c = sc
		}
	}
	if c.IsAllClipped() {
		return
	}
	p.clip = c
	p.pending |= GlobalClip
	p.addNode(child)
	p.clip = oldClip
	p.pending |= GlobalClip
}

// addRoundedClipWithMask handles rounded clips that cannot be combined
// with the current clip: the child and the clip shape are rendered
// separately and combined with a mask op.
func (p *processor) addRoundedClipWithMask(rc *node.RoundedClip) {
	bounds, ok := p.clipNodeBoundsSnapped(rc)
	if !ok {
		return
	}
	childImg, childRect, ok := p.nodeAsImage(bounds, rc.Child())
	if !ok {
		return
	}

	other := p.frame.initDraw(p.ccs, p.acc.ScaleX, p.acc.ScaleY, bounds, "rounded-mask")
	other.syncGlobals(0)
	oo := other.offset()
	other.stream.RoundedColor(ops.RoundedColorOp{
		Clip:    other.clip.ShaderClip(oo, rc.Bounds()),
		Outline: rc.ClipRect().Offset(oo.X, oo.Y),
		Color:   geom.White,
	})
	mask := other.finishDraw()

	p.syncGlobals(0)
	o := p.offset()
	p.stream.Mask(ops.MaskOp{
		Clip:       p.clip.ShaderClip(o, bounds),
		Rect:       bounds.Offset(o.X, o.Y),
		Source:     childImg,
		SourceRect: childRect.Offset(o.X, o.Y),
		Mask:       mask,
		MaskRect:   bounds.Offset(o.X, o.Y),
		Mode:       ops.MaskAlpha,
		Opacity:    p.opacity,
	})
}

func maskModeOf(m node.MaskMode) ops.MaskMode {
	switch m {
	case node.MaskInvertedAlpha:
		return ops.MaskInvertedAlpha
	case node.MaskLuminance:
		return ops.MaskLuminance
	case node.MaskInvertedLuminance:
		return ops.MaskInvertedLuminance
	}
	return ops.MaskAlpha
}

func addMask(p *processor, n node.Node) {
	mn := n.(*node.Mask)
	bounds, ok := p.clipNodeBoundsSnapped(mn)
	if !ok {
		return
	}
	maskImg, maskRect, ok := p.nodeAsImage(bounds, mn.MaskNode())
	if !ok {
		if mn.Mode() == node.MaskInvertedAlpha {
			p.addNode(mn.Source())
		}
		return
	}
	srcImg, srcRect, ok := p.nodeAsImage(bounds, mn.Source())
	if !ok {
		return
	}

	p.syncGlobals(0)
	o := p.offset()
	p.stream.Mask(ops.MaskOp{
		Clip:       p.clip.ShaderClip(o, bounds),
		Rect:       bounds.Offset(o.X, o.Y),
		Source:     srcImg,
		SourceRect: srcRect.Offset(o.X, o.Y),
		Mask:       maskImg,
		MaskRect:   maskRect.Offset(o.X, o.Y),
		Mode:       maskModeOf(mn.Mode()),
		Opacity:    p.opacity,
	})
}

func textureAsImage(f *Frame, ccs geom.ColorState, clipBounds geom.Rect, sx, sy float64, n node.Node) (ops.ImageID, geom.Rect, bool) {
	tn := n.(*node.Texture)
	if tn.ColorState() != ccs {
		return f.offscreen(ccs, sx, sy, clipBounds, n), clipBounds, true
	}
	img, ok := f.uploadTexture(tn)
	if !ok {
		return ops.NoImage, geom.Rect{}, false
	}
	return img, tn.Bounds(), true
}

func childAsImage(f *Frame, ccs geom.ColorState, clipBounds geom.Rect, sx, sy float64, n node.Node) (ops.ImageID, geom.Rect, bool) {
	return f.nodeAsImage(ccs, clipBounds, sx, sy, node.Children(n)[0])
}

// cpuAsImage rasterizes kinds without an op emitter directly into an
// upload. CPU drawing happens in sRGB; other color states go through an
// offscreen that converts.
func cpuAsImage(f *Frame, ccs geom.ColorState, clipBounds geom.Rect, sx, sy float64, n node.Node) (ops.ImageID, geom.Rect, bool) {
	if ccs != geom.ColorStateSRGB {
		return f.offscreen(ccs, sx, sy, clipBounds, n), clipBounds, true
	}
	return f.uploadNode(sx, sy, clipBounds, n), clipBounds, true
}

// extractScale returns the length of the images of the x and y unit
// vectors under m.
func extractScale(m geom.Matrix) (sx, sy float64) {
	return math.Hypot(m[0], m[4]), math.Hypot(m[1], m[5])
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
