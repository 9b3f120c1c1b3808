package render

import "github.com/gogpu/gsk/geom"

// Config tunes the compiler. The zero value disables every optimization;
// use DefaultConfig.
type Config struct {
	// OcclusionCulling enables opaque sub-passes.
	OcclusionCulling bool
	// MinOcclusionPixels is the smallest dirty rectangle worth an
	// occlusion sub-pass.
	MinOcclusionPixels int
	// MinOcclusionPercentage is the smallest opaque area, in percent of
	// the target, that may narrow a sub-pass.
	MinOcclusionPercentage float64
	// DebugOcclusion tints every occlusion sub-pass.
	DebugOcclusion bool
	// ClearOptimization draws large opaque pixel-aligned color nodes with
	// clear ops.
	ClearOptimization bool
	// PatternShaders draws encodable nodes with the pattern shader.
	PatternShaders bool
	// LinearCompositing blends in linear sRGB and converts to the target
	// color state at the end.
	LinearCompositing bool
}

// DefaultConfig returns the configuration used by renderers.
func DefaultConfig() Config {
	return Config{
		OcclusionCulling:       true,
		MinOcclusionPixels:     100_000,
		MinOcclusionPercentage: 10,
		ClearOptimization:      true,
	}
}

func (c Config) compositing(target geom.ColorState) geom.ColorState {
	if c.LinearCompositing {
		return geom.ColorStateSRGBLinear
	}
	return target
}

// Stats describes the work done by Frame.Render.
type Stats struct {
	// OcclusionPasses counts sub-passes that started from an opaque node.
	OcclusionPasses int
	// FallbackPasses counts sub-passes that drew the whole tree over a
	// transparent background.
	FallbackPasses int
	// Subtracted lists the dirty rectangles in the order they were
	// rendered. Their union is the rendered region.
	Subtracted []geom.IRect
	// Rasterized counts nodes drawn on the CPU.
	Rasterized int
	// Offscreens counts intermediate images.
	Offscreens int
}
