// Package rust registers a backend on wgpu-native through the
// go-webgpu/webgpu bindings.
//
// The backend is only built with the rust build tag and needs the
// wgpu-native shared library at run time:
//
//	go build -tags rust ./...
//
// It owns an instance, adapter, device and queue so applications can
// share them. Op streams currently execute on the software backend.
//
// Without the tag the package registers a factory returning nil, so
// backend.Default skips it.
package rust
