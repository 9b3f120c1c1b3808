//go:build rust

package rust

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gsk/backend"
	"github.com/gogpu/gsk/internal/ops"
)

func TestBackend_Registered(t *testing.T) {
	b := backend.Get(backend.BackendRust)
	if b == nil {
		t.Fatal("Get(rust) = nil")
	}
	if b.Name() != backend.BackendRust {
		t.Errorf("Name() = %q, want %q", b.Name(), backend.BackendRust)
	}
}

func TestBackend_NotInitialized(t *testing.T) {
	b := New()
	if b.Device() != nil || b.Queue() != nil || b.Info() != nil {
		t.Error("device state set before Init")
	}
	err := b.Execute(context.Background(), ops.NewStream(), nil)
	if !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Execute() error = %v, want %v", err, backend.ErrNotInitialized)
	}
}

func TestBackend_Init(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		if errors.Is(err, ErrLibraryNotFound) || errors.Is(err, ErrNoGPU) {
			t.Skipf("no wgpu-native device: %v", err)
		}
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()
	if b.Device() == nil || b.Queue() == nil {
		t.Fatal("Device() or Queue() = nil after Init")
	}

	s := ops.NewStream()
	id := s.AddImage(ops.Image{Kind: ops.ImageTarget, Width: 4, Height: 4, Label: "target"})
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := b.Execute(context.Background(), s, backend.Targets{id: img}); err != nil {
		t.Errorf("Execute() error = %v", err)
	}

	b.Close()
	if b.Device() != nil {
		t.Error("Device() != nil after Close")
	}
}
