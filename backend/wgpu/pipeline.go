//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gsk/internal/ops"
)

//go:embed shaders/ops.wgsl
var opsShaderSource string

// targetFormat is the format of every image the backend renders into.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// pipelines holds the render pipelines for solid color ops, one per
// supported blend mode.
type pipelines struct {
	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	over          hal.RenderPipeline
	none          hal.RenderPipeline
}

func newPipelines(device hal.Device) (*pipelines, error) {
	p := &pipelines{}
	if err := p.create(device); err != nil {
		p.destroy(device)
		return nil, err
	}
	return p, nil
}

func (p *pipelines) create(device hal.Device) error {
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "gsk_ops_shader",
		Source: hal.ShaderSource{WGSL: opsShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile ops shader: %w", err)
	}
	p.shader = shader

	uniformLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gsk_globals_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create globals layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gsk_ops_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create ops pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	if p.over, err = p.createPipeline(device, "gsk_ops_over", &premulBlend); err != nil {
		return err
	}
	if p.none, err = p.createPipeline(device, "gsk_ops_none", nil); err != nil {
		return err
	}
	return nil
}

func (p *pipelines) createPipeline(device hal.Device, label string, blend *gputypes.BlendState) (hal.RenderPipeline, error) {
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return pipeline, nil
}

func (p *pipelines) forBlend(b ops.Blend) hal.RenderPipeline {
	if b == ops.BlendNone {
		return p.none
	}
	return p.over
}

// destroy releases all pipeline resources in reverse creation order.
func (p *pipelines) destroy(device hal.Device) {
	if device == nil {
		return
	}
	if p.none != nil {
		device.DestroyRenderPipeline(p.none)
		p.none = nil
	}
	if p.over != nil {
		device.DestroyRenderPipeline(p.over)
		p.over = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: positionAttr, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: boundsAttr, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x4, Offset: widthsAttr, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x4, Offset: heightsAttr, ShaderLocation: 4},
				{Format: gputypes.VertexFormatFloat32, Offset: flagsAttr, ShaderLocation: 5},
			},
		},
	}
}
