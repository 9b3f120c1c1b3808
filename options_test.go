package gsk

import (
	"testing"

	"github.com/gogpu/gsk/internal/render"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.cfg != render.DefaultConfig() {
		t.Errorf("defaultOptions().cfg = %+v, want %+v", o.cfg, render.DefaultConfig())
	}
	if o.backend != "" || o.provider != nil {
		t.Errorf("defaultOptions() selects backend %q, provider %v", o.backend, o.provider)
	}
}

func TestRendererOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   RendererOption
		check func(o rendererOptions) bool
	}{
		{"culling off", WithOcclusionCulling(false), func(o rendererOptions) bool { return !o.cfg.OcclusionCulling }},
		{"min pixels", WithMinOcclusionPixels(500), func(o rendererOptions) bool { return o.cfg.MinOcclusionPixels == 500 }},
		{"negative min pixels", WithMinOcclusionPixels(-1), func(o rendererOptions) bool { return o.cfg.MinOcclusionPixels == 0 }},
		{"percentage", WithMinOcclusionPercentage(25), func(o rendererOptions) bool { return o.cfg.MinOcclusionPercentage == 25 }},
		{"percentage clamped", WithMinOcclusionPercentage(250), func(o rendererOptions) bool { return o.cfg.MinOcclusionPercentage == 100 }},
		{"debug", WithDebugOcclusion(true), func(o rendererOptions) bool { return o.cfg.DebugOcclusion }},
		{"clear off", WithClearOptimization(false), func(o rendererOptions) bool { return !o.cfg.ClearOptimization }},
		{"patterns", WithPatternShaders(true), func(o rendererOptions) bool { return o.cfg.PatternShaders }},
		{"linear", WithLinearCompositing(true), func(o rendererOptions) bool { return o.cfg.LinearCompositing }},
		{"backend", WithBackend("software"), func(o rendererOptions) bool { return o.backend == "software" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			if !tt.check(o) {
				t.Errorf("option not applied: %+v", o)
			}
		})
	}
}
