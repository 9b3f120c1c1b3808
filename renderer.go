// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gsk

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gsk/backend"
	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/internal/render"
	"github.com/gogpu/gsk/node"
)

// Stats describes the work done for one Render call.
type Stats struct {
	// OcclusionPasses counts sub-passes that started from an opaque node.
	OcclusionPasses int
	// FallbackPasses counts sub-passes that drew the whole tree.
	FallbackPasses int
	// Rendered lists the device rectangles in the order they were drawn.
	Rendered []geom.IRect
	// Ops is the number of ops executed.
	Ops int
	// Rasterized counts nodes drawn on the CPU.
	Rasterized int
	// Offscreens counts intermediate images.
	Offscreens int
}

type deviceSharer interface {
	SetDeviceProvider(gpucontext.DeviceProvider) error
}

// Renderer compiles node trees and executes them on a backend. A
// Renderer is safe for concurrent use; calls are serialized.
type Renderer struct {
	mu      sync.Mutex
	frame   *render.Frame
	backend backend.RenderBackend
	closed  bool
}

// NewRenderer returns a renderer with an initialized backend.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b, err := openBackend(o.backend)
	if err != nil {
		return nil, err
	}
	propagateLogger(b, Logger())
	if o.provider != nil {
		if ds, ok := b.(deviceSharer); ok {
			if err := ds.SetDeviceProvider(o.provider); err != nil {
				b.Close()
				return nil, fmt.Errorf("gsk: share device: %w", err)
			}
		}
	}
	Logger().Debug("gsk: renderer created", "backend", b.Name())

	return &Renderer{
		frame:   render.NewFrame(o.cfg),
		backend: b,
	}, nil
}

func openBackend(name string) (backend.RenderBackend, error) {
	if name == "" {
		b, err := backend.InitDefault()
		if err != nil {
			return nil, fmt.Errorf("gsk: init backend: %w", err)
		}
		return b, nil
	}
	b := backend.Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("gsk: init backend %q: %w", name, err)
	}
	return b, nil
}

// Backend returns the name of the backend in use.
func (r *Renderer) Backend() string {
	return r.backend.Name()
}

// Render draws root into target. viewport is the area of node
// coordinates the whole target shows; when its size differs from the
// target's, nodes are scaled. A nil region renders the whole target;
// otherwise pixels outside region are left untouched.
func (r *Renderer) Render(ctx context.Context, root node.Node, target *image.RGBA, region *geom.Region, viewport geom.Rect) (Stats, error) {
	if target == nil {
		return Stats{}, ErrNilTarget
	}
	if viewport.IsEmpty() {
		return Stats{}, ErrEmptyViewport
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Stats{}, ErrClosed
	}

	id, rs := r.compile(root, target.Bounds().Dx(), target.Bounds().Dy(), region, viewport)
	s := r.frame.Stream()
	stats := Stats{
		OcclusionPasses: rs.OcclusionPasses,
		FallbackPasses:  rs.FallbackPasses,
		Rendered:        rs.Subtracted,
		Ops:             s.Len(),
		Rasterized:      rs.Rasterized,
		Offscreens:      rs.Offscreens,
	}
	if s.Len() == 0 {
		return stats, nil
	}

	if err := r.backend.Execute(ctx, s, backend.Targets{id: target}); err != nil {
		return stats, fmt.Errorf("gsk: execute: %w", err)
	}
	return stats, nil
}

// Ops returns a listing of the ops that rendering root into a width x
// height target would execute. An empty viewport or target yields an
// empty listing.
func (r *Renderer) Ops(root node.Node, width, height int, region *geom.Region, viewport geom.Rect) string {
	if viewport.IsEmpty() || width <= 0 || height <= 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compile(root, width, height, region, viewport)
	return r.frame.Stream().String()
}

func (r *Renderer) compile(root node.Node, width, height int, region *geom.Region, viewport geom.Rect) (ops.ImageID, render.Stats) {
	r.frame.Reset()
	id := r.frame.AddTarget(width, height, geom.ColorStateSRGB)
	return id, r.frame.Render(id, region, root, viewport, ops.PassPresent)
}

// Close releases the backend. Render fails after Close.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.frame.Reset()
	r.backend.Close()
}

// ViewportFromWindow returns the physical pixel size of the window
// client area and the viewport showing it in logical points.
func ViewportFromWindow(w gpucontext.WindowProvider) (width, height int, viewport geom.Rect) {
	lw, lh := w.Size()
	scale := w.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	width = int(float64(lw)*scale + 0.5)
	height = int(float64(lh)*scale + 0.5)
	return width, height, geom.NewRect(0, 0, float64(lw), float64(lh))
}
