//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gsk/backend"
	"github.com/gogpu/gsk/internal/ops"
)

// copyPitchAlignment is the row alignment CopyTextureToBuffer requires.
const copyPitchAlignment = 256

// renderTexture is an image the plan renders into.
type renderTexture struct {
	id      ops.ImageID
	tex     hal.Texture
	view    hal.TextureView
	staging hal.Buffer
	width   uint32
	height  uint32
	pitch   uint32
	pixels  *image.RGBA
}

// frameResources are the per-Execute GPU objects.
type frameResources struct {
	textures   map[ops.ImageID]*renderTexture
	vertBuf    hal.Buffer
	uniformBuf hal.Buffer
	bindGroups []hal.BindGroup
}

func (r *frameResources) destroy(device hal.Device) {
	for _, bg := range r.bindGroups {
		device.DestroyBindGroup(bg)
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
	}
	if r.vertBuf != nil {
		device.DestroyBuffer(r.vertBuf)
	}
	for _, t := range r.textures {
		if t.staging != nil {
			device.DestroyBuffer(t.staging)
		}
		if t.view != nil {
			device.DestroyTextureView(t.view)
		}
		if t.tex != nil {
			device.DestroyTexture(t.tex)
		}
	}
}

// submit records p into one command buffer, runs it and copies the
// results into the target images.
func (b *Backend) submit(s *ops.Stream, p *plan, targets backend.Targets) error {
	res := &frameResources{textures: make(map[ops.ImageID]*renderTexture)}
	defer res.destroy(b.device)

	for _, id := range p.targets {
		t, err := b.createTexture(s, id, targets)
		if t != nil {
			res.textures[id] = t
		}
		if err != nil {
			return err
		}
	}
	if len(p.vertices) == 0 && len(p.passes) == 0 {
		return nil
	}

	var err error
	if len(p.vertices) > 0 {
		res.vertBuf, err = b.createAndUploadBuffer("gsk_vertices", p.vertices,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
	}
	res.uniformBuf, err = b.createAndUploadBuffer("gsk_globals", p.uniforms.Bytes(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	for i, off := range p.offsets {
		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  fmt.Sprintf("gsk_globals_%d", i),
			Layout: b.pipes.uniformLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: res.uniformBuf.NativeHandle(), Offset: uint64(off), Size: globalsSize,
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("wgpu: create bind group: %w", err)
		}
		res.bindGroups = append(res.bindGroups, bg)
	}

	return b.encodeSubmitReadback(p, res)
}

// createTexture allocates the texture for image id. Caller-owned targets
// are uploaded so that passes loading them see their pixels.
func (b *Backend) createTexture(s *ops.Stream, id ops.ImageID, targets backend.Targets) (*renderTexture, error) {
	desc := s.Image(id)
	t := &renderTexture{
		id:     id,
		width:  uint32(desc.Width),
		height: uint32(desc.Height),
	}
	t.pitch = (t.width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)

	if desc.Kind == ops.ImageTarget {
		img, ok := targets[id]
		if !ok || img == nil {
			return nil, fmt.Errorf("%w: image %d (%s)", backend.ErrMissingTarget, id, desc.Label)
		}
		if r := img.Bounds(); r.Dx() != desc.Width || r.Dy() != desc.Height {
			return nil, fmt.Errorf("%w: image %d is %dx%d, want %dx%d",
				backend.ErrTargetSize, id, r.Dx(), r.Dy(), desc.Width, desc.Height)
		}
		t.pixels = img
	}

	size := hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage: gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	t.tex = tex

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		return t, fmt.Errorf("wgpu: create texture view %q: %w", desc.Label, err)
	}
	t.view = view

	if t.pixels == nil {
		return t, nil
	}
	err = b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		tightRows(t.pixels),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: t.width * 4, RowsPerImage: t.height},
		&size,
	)
	if err != nil {
		return t, fmt.Errorf("wgpu: upload target %q: %w", desc.Label, err)
	}

	t.staging, err = b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label + "_staging",
		Size:  uint64(t.pitch) * uint64(t.height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return t, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	return t, nil
}

func (b *Backend) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: write %s: %w", label, err)
	}
	return buf, nil
}

func (b *Backend) encodeSubmitReadback(p *plan, res *frameResources) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "gsk_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gsk_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	for i := range p.passes {
		pass := &p.passes[i]
		load := gputypes.LoadOpLoad
		if pass.clear {
			load = gputypes.LoadOpClear
		}
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: fmt.Sprintf("gsk_pass_%d", i),
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       res.textures[pass.target].view,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{
					R: float64(pass.clearColor[0]),
					G: float64(pass.clearColor[1]),
					B: float64(pass.clearColor[2]),
					A: float64(pass.clearColor[3]),
				},
			}},
		})
		if res.vertBuf != nil {
			rp.SetVertexBuffer(0, res.vertBuf, 0)
		}
		for _, d := range pass.draws {
			rp.SetPipeline(b.pipes.forBlend(d.blend))
			rp.SetBindGroup(0, res.bindGroups[d.globals], nil)
			rp.SetScissorRect(uint32(d.scissor.X), uint32(d.scissor.Y), uint32(d.scissor.W), uint32(d.scissor.H))
			rp.Draw(d.count, 1, d.first, 0)
		}
		rp.End()
	}

	var readbacks []*renderTexture
	for _, id := range p.targets {
		t := res.textures[id]
		if t.pixels == nil {
			continue
		}
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: t.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		encoder.CopyTextureToBuffer(t.tex, t.staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: t.pitch, RowsPerImage: t.height},
			TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
			Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		}})
		readbacks = append(readbacks, t)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if _, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wgpu: wait for GPU: %w", err)
	}

	for _, t := range readbacks {
		if err := b.readback(t); err != nil {
			return err
		}
	}
	return nil
}

// readback copies the staging buffer of t into its target image.
func (b *Backend) readback(t *renderTexture) error {
	size := uint64(t.pitch) * uint64(t.height)
	mapping, err := b.device.MapBuffer(t.staging, 0, size)
	if err != nil {
		return fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	defer func() { _ = b.device.UnmapBuffer(t.staging) }()
	copyRows(t.pixels, unsafe.Slice((*byte)(mapping.Ptr), size), int(t.pitch))
	return nil
}

// tightRows returns the pixels of img without row padding.
func tightRows(img *image.RGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if img.Stride == w*4 {
		return img.Pix[:w*4*h]
	}
	out := make([]byte, 0, w*4*h)
	for y := range h {
		out = append(out, img.Pix[y*img.Stride:y*img.Stride+w*4]...)
	}
	return out
}

// copyRows copies rows of pitch bytes from data into img.
func copyRows(img *image.RGBA, data []byte, pitch int) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := range h {
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], data[y*pitch:y*pitch+w*4])
	}
}
