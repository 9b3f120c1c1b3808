package gsk

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gsk/internal/render"
)

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Software rendering without occlusion culling
//	r, err := gsk.NewRenderer(
//		gsk.WithBackend("software"),
//		gsk.WithOcclusionCulling(false),
//	)
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	cfg      render.Config
	backend  string
	provider gpucontext.DeviceProvider
}

func defaultOptions() rendererOptions {
	return rendererOptions{cfg: render.DefaultConfig()}
}

// WithOcclusionCulling enables or disables occlusion culling. It is on by
// default.
func WithOcclusionCulling(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.OcclusionCulling = enabled
	}
}

// WithMinOcclusionPixels sets the smallest area, in pixels, worth a
// dedicated occlusion sub-pass. The default is 100000.
func WithMinOcclusionPixels(pixels int) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.MinOcclusionPixels = max(pixels, 0)
	}
}

// WithMinOcclusionPercentage sets the smallest share of the target, in
// percent, that an opaque node must cover to start a sub-pass. The
// default is 10.
func WithMinOcclusionPercentage(percent float64) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.MinOcclusionPercentage = min(max(percent, 0), 100)
	}
}

// WithDebugOcclusion tints every area drawn by an occlusion sub-pass.
func WithDebugOcclusion(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.DebugOcclusion = enabled
	}
}

// WithClearOptimization enables or disables drawing large opaque color
// rectangles with clear ops. It is on by default.
func WithClearOptimization(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.ClearOptimization = enabled
	}
}

// WithPatternShaders draws nodes the pattern encoder supports with
// pattern ops instead of dedicated ops.
func WithPatternShaders(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.PatternShaders = enabled
	}
}

// WithLinearCompositing blends in linear sRGB and converts the result to
// the target color state at the end of the frame.
func WithLinearCompositing(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.LinearCompositing = enabled
	}
}

// WithBackend selects a registered backend by name, such as "software"
// or "gpu". By default the best backend that initializes is used.
func WithBackend(name string) RendererOption {
	return func(o *rendererOptions) {
		o.backend = name
	}
}

// WithDeviceProvider makes GPU backends render on a device shared by the
// host application instead of opening their own. Backends without
// device sharing ignore it.
func WithDeviceProvider(p gpucontext.DeviceProvider) RendererOption {
	return func(o *rendererOptions) {
		o.provider = p
	}
}
