package driver

import (
	"github.com/gogpu/gputypes"
)

// Driver name constants.
const (
	// DriverSoft is the name of the pure Go software driver.
	DriverSoft = "soft"
	// DriverWGPU is the name of the GPU driver backed by gogpu/wgpu
	// (Vulkan, Metal or DX12 via the wgpu HAL).
	DriverWGPU = "wgpu"
)

// Driver is a named backend that can open devices.
//
// Drivers must be registered via Register() and are selected via
// Get() or Default().
type Driver interface {
	// Name returns the driver identifier (e.g. "soft", "wgpu").
	Name() string

	// Open creates a new device on this driver. Each call returns an
	// independent device with its own resources.
	Open() (Device, error)
}

// Resource is implemented by every backend resource handle.
// Destroy releases the backend-side storage; the handle must not be
// used afterwards.
type Resource interface {
	Destroy()
}

// Marker interfaces for the backend resource variants. They carry no
// behavior beyond Resource; binding, sampling and drawing belong to
// the rendering layers above.
type (
	Buffer         interface{ Resource }
	Texture        interface{ Resource }
	Sampler        interface{ Resource }
	ShaderModule   interface{ Resource }
	RenderPipeline interface{ Resource }
	CommandBuffer  interface{ Resource }
)

// Device is the raw creation surface a backend must implement.
//
// Creation calls are serialized by the layer above; implementations may
// assume no two creation calls run concurrently on the same Device.
// Every call either returns a fully usable resource or fails with no
// backend state left behind.
type Device interface {
	// Limits reports the capability limits of this device.
	Limits() gputypes.Limits

	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	CreateTexture(desc *TextureDescriptor) (Texture, error)
	CreateSampler(desc *SamplerDescriptor) (Sampler, error)
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateQueue allocates an execution queue. The backpressure bound
	// is enforced by the layer above; queues execute whatever they are
	// handed, in submission order.
	CreateQueue() (Queue, error)

	// Destroy releases the device and all backend state. Resources
	// created by this device must not be used afterwards.
	Destroy()
}

// Queue executes command buffers asynchronously, strictly in submission
// order.
type Queue interface {
	// NewCommandBuffer allocates an empty command buffer bound to this
	// queue. Recording is driver-specific and out of scope here.
	NewCommandBuffer() (CommandBuffer, error)

	// Submit hands cb to the backend for execution. done is invoked
	// exactly once, from an arbitrary goroutine, when the backend has
	// finished executing cb (nil error on success). Submit never blocks
	// waiting for earlier buffers; ordering is the queue's job.
	Submit(cb CommandBuffer, done func(error)) error

	// Destroy releases the queue after any already-submitted buffers
	// have run.
	Destroy()
}
