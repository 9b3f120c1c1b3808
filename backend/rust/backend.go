//go:build rust

package rust

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/gogpu/gsk/backend"
	"github.com/gogpu/gsk/internal/ops"
)

func init() {
	backend.Register(backend.BackendRust, func() backend.RenderBackend {
		return New()
	})
}

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

func slogger() *slog.Logger { return loggerPtr.Load() }

// GPUInfo describes the selected adapter.
type GPUInfo struct {
	Vendor      string
	Device      string
	Description string
	BackendType string
	AdapterType string
	VendorID    uint32
	DeviceID    uint32
}

// Backend holds a wgpu-native device.
type Backend struct {
	mu sync.RWMutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     *GPUInfo

	fallback *backend.SoftwareBackend
	ready    bool
}

// New returns an uninitialized backend.
func New() *Backend {
	return &Backend{fallback: backend.NewSoftwareBackend()}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendRust
}

// SetLogger sets the logger of the package. Nil silences it.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Init loads wgpu-native and opens a device on the high performance
// adapter.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}
	if err := wgpu.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrLibraryNotFound, err)
	}

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return fmt.Errorf("rust: create instance: %w", err)
	}
	b.instance = instance

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.releaseLocked()
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapter
	b.info = adapterInfo(adapter)

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		b.releaseLocked()
		return fmt.Errorf("rust: request device: %w", err)
	}
	b.device = device

	b.queue = device.GetQueue()
	if b.queue == nil {
		b.releaseLocked()
		return fmt.Errorf("rust: device has no queue")
	}

	if err := b.fallback.Init(); err != nil {
		b.releaseLocked()
		return err
	}
	b.ready = true
	if b.info != nil {
		slogger().Info("rust: opened device",
			"device", b.info.Device, "backend", b.info.BackendType, "type", b.info.AdapterType)
	}
	return nil
}

// Close releases the device and everything created with it.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.fallback.Close()
	b.ready = false
}

// releaseLocked releases resources in reverse creation order.
func (b *Backend) releaseLocked() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.info = nil
}

// Execute runs s on the software backend. The device only reports
// adapter information.
func (b *Backend) Execute(ctx context.Context, s *ops.Stream, targets backend.Targets) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.ready {
		return backend.ErrNotInitialized
	}
	return b.fallback.Execute(ctx, s, targets)
}

// Info returns the selected adapter, or nil before Init.
func (b *Backend) Info() *GPUInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.info
}

// Device returns the device, or nil before Init.
func (b *Backend) Device() *wgpu.Device {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.device
}

// Queue returns the queue, or nil before Init.
func (b *Backend) Queue() *wgpu.Queue {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}

func adapterInfo(a *wgpu.Adapter) *GPUInfo {
	info, err := a.GetInfo()
	if err != nil {
		return nil
	}
	return &GPUInfo{
		Vendor:      info.Vendor,
		Device:      info.Device,
		Description: info.Description,
		BackendType: backendTypeName(info.BackendType),
		AdapterType: adapterTypeName(info.AdapterType),
		VendorID:    info.VendorID,
		DeviceID:    info.DeviceID,
	}
}

func backendTypeName(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeNull:
		return "null"
	case wgpu.BackendTypeWebGPU:
		return "webgpu"
	case wgpu.BackendTypeD3D11:
		return "d3d11"
	case wgpu.BackendTypeD3D12:
		return "d3d12"
	case wgpu.BackendTypeMetal:
		return "metal"
	case wgpu.BackendTypeVulkan:
		return "vulkan"
	case wgpu.BackendTypeOpenGL:
		return "opengl"
	case wgpu.BackendTypeOpenGLES:
		return "opengles"
	}
	return "unknown"
}

func adapterTypeName(at wgpu.AdapterType) string {
	switch at {
	case wgpu.AdapterTypeDiscreteGPU:
		return "discrete"
	case wgpu.AdapterTypeIntegratedGPU:
		return "integrated"
	case wgpu.AdapterTypeCPU:
		return "cpu"
	}
	return "unknown"
}
