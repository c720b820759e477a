// Package driver defines the contract between the gpudev resource layer
// and concrete GPU backends.
//
// A backend implements Driver, Device and Queue and registers itself
// via Register(), typically from an init() function:
//
//	import _ "github.com/gogpu/gpudev/driver/soft"
//
// The descriptor structs in this package are plain, unvalidated value
// types; all input validation, handle bookkeeping and queue
// backpressure live in the gpudev package. A driver's only obligations
// are the atomic creation contract (a creation call either returns a
// fully usable resource or fails leaving no backend state behind) and
// in-submission-order execution of command buffers.
//
// # Driver Selection
//
// Use Default() to get the best available driver, or Get() to request
// a specific driver by name:
//
//	// Get the default (best available) driver
//	d := driver.Default()
//
//	// Or request a specific driver
//	d := driver.Get("soft")
//
// # Available Drivers
//
//   - "soft": pure Go driver, always available; shaders are validated
//     with gogpu/naga and command buffers run on a worker goroutine
//   - "wgpu": hardware driver via gogpu/wgpu (Vulkan/Metal/DX12)
package driver
