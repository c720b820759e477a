// Package wgpu provides a hardware driver for gpudev using gogpu/wgpu.
//
// The driver talks to the wgpu HAL directly (Vulkan, Metal or DX12,
// whichever backend the HAL exposes on the platform). It registers
// itself on import and is preferred over the soft driver when an
// adapter can be opened:
//
//	import _ "github.com/gogpu/gpudev/driver/wgpu"
//
// Build with the nogpu tag to compile the package out entirely.
//
// An existing HAL device can be shared instead of creating a fresh
// instance: see AdoptProvider, which accepts a gpucontext device
// provider (e.g. from gogpu) exposing HAL handles.
package wgpu
