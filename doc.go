// Package gsk renders trees of render nodes.
//
// A render node tree describes a frame: colors, textures, text, paths,
// clips, transforms and effects. The renderer compiles the tree into a
// stream of GPU-style ops and executes that stream on a backend.
//
// # Quick Start
//
//	r, err := gsk.NewRenderer()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	root := node.NewContainer(
//		node.NewColor(geom.White, geom.NewRect(0, 0, 400, 300)),
//		node.NewRoundedClip(
//			node.NewColor(geom.RGBA(1, 0, 0, 1), geom.NewRect(50, 50, 100, 100)),
//			geom.NewRoundedRect(geom.NewRect(50, 50, 100, 100), 12),
//		),
//	)
//	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
//	stats, err := r.Render(ctx, root, img, nil, geom.NewRect(0, 0, 400, 300))
//
// Target pixels are premultiplied sRGB.
//
// # Occlusion culling
//
// Before drawing a dirty region the renderer looks for the topmost node
// that covers a large part of it with opaque pixels. Everything below
// that node is skipped and the pass starts by clearing to its color or
// drawing it without blending. [WithOcclusionCulling] and the related
// options tune this.
//
// # Backends
//
// The software backend is always available. Importing
// github.com/gogpu/gsk/backend/wgpu registers the GPU backend, which runs
// solid color streams on a Vulkan device and hands the rest to the
// software backend:
//
//	import _ "github.com/gogpu/gsk/backend/wgpu"
//
// # Logging
//
// gsk is silent by default. [SetLogger] enables structured logging
// through log/slog.
package gsk
