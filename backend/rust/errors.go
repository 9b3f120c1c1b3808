//go:build rust

package rust

import "errors"

var (
	// ErrNoGPU is returned by Init when no adapter is available.
	ErrNoGPU = errors.New("rust: no GPU adapter available")

	// ErrLibraryNotFound is returned by Init when wgpu-native cannot be
	// loaded.
	ErrLibraryNotFound = errors.New("rust: wgpu-native library not found")
)
