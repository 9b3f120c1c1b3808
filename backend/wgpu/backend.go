//go:build !nogpu

package wgpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/gsk/backend"
	"github.com/gogpu/gsk/internal/ops"
)

func init() {
	backend.Register(backend.BackendGPU, func() backend.RenderBackend {
		return New()
	})
}

// ErrNoAdapter is returned by Init when no GPU adapter is found.
var ErrNoAdapter = errors.New("wgpu: no GPU adapter found")

// Backend executes op streams with render pipelines on a hal device.
//
// Solid color ops run on the GPU. Streams that sample images fall back
// to the software backend as a whole.
type Backend struct {
	mu       sync.Mutex
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
	pipes    *pipelines
	fallback *backend.SoftwareBackend
	ready    bool
}

// New returns a backend that opens its own device on Init.
func New() *Backend {
	return &Backend{fallback: backend.NewSoftwareBackend()}
}

// NewWithDevice returns a backend rendering on a device owned by the
// caller. Close does not destroy it.
func NewWithDevice(device hal.Device, queue hal.Queue) *Backend {
	b := New()
	b.device, b.queue, b.external = device, queue, true
	return b
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendGPU
}

// SetLogger sets the logger of the GPU backend package.
func (b *Backend) SetLogger(l *slog.Logger) {
	SetLogger(l)
}

// SetDeviceProvider switches the backend to a device shared by provider,
// which must also expose its hal device and queue through HalDevice() and
// HalQueue().
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.device, b.queue, b.external = device, queue, true
	if err := b.initLocked(); err != nil {
		return err
	}
	slogger().Info("wgpu: switched to shared GPU device")
	return nil
}

// Init opens a device if none was supplied and builds the pipelines.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}
	return b.initLocked()
}

func (b *Backend) initLocked() error {
	if err := b.fallback.Init(); err != nil {
		return err
	}
	if b.device == nil {
		if err := b.openDevice(); err != nil {
			return err
		}
	}
	pipes, err := newPipelines(b.device)
	if err != nil {
		b.releaseLocked()
		return fmt.Errorf("wgpu: %w", err)
	}
	b.pipes = pipes
	b.ready = true
	return nil
}

func (b *Backend) openDevice() error {
	vk, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan", backend.ErrBackendNotAvailable)
	}
	instance, err := vk.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	b.instance = instance
	b.device, b.queue = openDev.Device, openDev.Queue
	slogger().Info("wgpu: opened device", "adapter", selected.Info.Name)
	return nil
}

// Close releases the pipelines and any device the backend opened.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.fallback.Close()
}

func (b *Backend) releaseLocked() {
	if b.pipes != nil {
		b.pipes.destroy(b.device)
		b.pipes = nil
	}
	if !b.external && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
	b.device, b.queue = nil, nil
	b.external = false
	b.ready = false
}

// Execute runs s. Target pixels are uploaded before the first pass and
// read back after the last one.
func (b *Backend) Execute(ctx context.Context, s *ops.Stream, targets backend.Targets) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return backend.ErrNotInitialized
	}
	if op, ok := unsupported(s); ok {
		slogger().Debug("wgpu: running stream on the CPU", "op", op.Kind())
		return b.fallback.Execute(ctx, s, targets)
	}
	p, err := buildPlan(s)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.submit(s, p, targets)
}
