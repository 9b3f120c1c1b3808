// Package backend executes compiled op streams.
//
// The node compiler in package render produces an ops.Stream; a backend
// turns it into pixels. The software backend, registered by this package,
// interprets every op on the CPU and is the reference for what the ops
// mean. The GPU backend in backend/wgpu records the same stream into
// render passes on a hal device.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/gsk/backend/wgpu"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b := backend.Get(backend.BackendSoftware)
//	if err := b.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	err := b.Execute(ctx, frame.Stream(), backend.Targets{id: img})
package backend
