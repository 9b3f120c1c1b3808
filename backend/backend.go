package backend

import (
	"context"
	"errors"
	"image"

	"github.com/gogpu/gsk/internal/ops"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrMissingTarget is returned when a stream renders into a target
	// image that was not supplied.
	ErrMissingTarget = errors.New("backend: missing target image")

	// ErrTargetSize is returned when a supplied target does not match the
	// size registered in the stream.
	ErrTargetSize = errors.New("backend: target size mismatch")

	// ErrUnbalancedPass is returned for shader ops outside a render pass,
	// nested passes or an end without a begin.
	ErrUnbalancedPass = errors.New("backend: unbalanced render pass")
)

// Targets maps the target images of a stream to the pixels they render
// into. Pixels are premultiplied and stored in the color state the stream
// registered for the image.
type Targets map[ops.ImageID]*image.RGBA

// RenderBackend executes op streams.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "software", "gpu").
	Name() string

	// Init initializes the backend.
	// This should be called before any rendering operations.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Execute runs the ops of s in submission order. Offscreen and upload
	// images are allocated by the backend; target images come from
	// targets. The stream must have been sorted.
	Execute(ctx context.Context, s *ops.Stream, targets Targets) error
}
