// Package wgpu provides the GPU backend for compiled op streams.
//
// The backend records each render pass of a stream into a hal render
// pass: globals become uniform bind groups, scissors become scissor
// rects, and color, rounded-color, pattern and clear ops become quads
// drawn by a single WGSL shader that evaluates rounded corners and the
// shader clip per fragment. Target images are uploaded before the first
// pass and read back when the command buffer has completed.
//
// Streams that sample images (texture, convert and mask ops, and the
// uploads feeding them) are executed by the software backend instead.
//
// Importing the package registers the backend under backend.BackendGPU:
//
//	import _ "github.com/gogpu/gsk/backend/wgpu"
//
// The backend opens its own Vulkan device on Init, or renders on a device
// shared through NewWithDevice or SetDeviceProvider.
package wgpu
