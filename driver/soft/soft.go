// Package soft provides a pure Go software driver for gpudev.
//
// The soft driver is always available and is the fallback when no
// hardware driver is registered. Buffers and textures live in host
// memory, shader programs are validated by compiling WGSL to SPIR-V
// with gogpu/naga, and command buffers execute in submission order on
// a per-queue worker goroutine.
package soft

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
)

// init registers the soft driver on package import.
func init() {
	driver.Register(driver.DriverSoft, func() driver.Driver {
		return &Driver{}
	})
}

// Driver opens software devices.
type Driver struct{}

// Name returns the driver identifier.
func (Driver) Name() string { return driver.DriverSoft }

// Open creates a new software device. It cannot fail: the driver has
// no hardware to probe.
func (Driver) Open() (driver.Device, error) {
	return NewDevice(), nil
}

// Device is a software implementation of driver.Device backed by host
// memory.
type Device struct {
	mu     sync.Mutex
	limits gputypes.Limits
	logger *slog.Logger
	closed bool
}

// NewDevice creates a software device with default limits.
func NewDevice() *Device {
	return &Device{limits: gputypes.DefaultLimits()}
}

// SetLogger configures the device's logger. Called by gpudev.Open.
func (d *Device) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

func (d *Device) log() *slog.Logger {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

// Limits reports the device capability limits.
func (d *Device) Limits() gputypes.Limits { return d.limits }

// CreateBuffer allocates desc.Size bytes of host memory.
func (d *Device) CreateBuffer(desc *driver.BufferDescriptor) (driver.Buffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return &Buffer{
		data:  make([]byte, desc.Size),
		usage: desc.Usage,
		label: desc.Label,
	}, nil
}

// CreateTexture allocates host memory for the described texture.
// Formats the software rasterizer cannot represent are rejected.
func (d *Device) CreateTexture(desc *driver.TextureDescriptor) (driver.Texture, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	texel, ok := texelSize(desc.Format)
	if !ok {
		return nil, fmt.Errorf("soft: unsupported texture format %v", desc.Format)
	}
	size := uint64(desc.Size.Width) * uint64(desc.Size.Height) *
		uint64(desc.Size.DepthOrArrayLayers) * uint64(texel)
	return &Texture{
		data:  make([]byte, size),
		desc:  *desc,
		label: desc.Label,
	}, nil
}

// CreateSampler materializes the sampler configuration. The soft
// driver has nothing to allocate.
func (d *Device) CreateSampler(desc *driver.SamplerDescriptor) (driver.Sampler, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return &Sampler{desc: *desc}, nil
}

// CreateShaderModule validates desc.WGSL by compiling it to SPIR-V
// with naga. Compilation diagnostics surface as the creation error.
func (d *Device) CreateShaderModule(desc *driver.ShaderModuleDescriptor) (driver.ShaderModule, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	spirv, err := compileWGSL(desc.WGSL)
	if err != nil {
		return nil, fmt.Errorf("soft: compile shader %q: %w", desc.Label, err)
	}
	d.log().Debug("soft: shader compiled", "label", desc.Label, "spirv_words", len(spirv)/4)
	return &ShaderModule{spirv: spirv, label: desc.Label}, nil
}

// CreateRenderPipeline links the described pipeline state. The soft
// driver checks stage modules and attachment formats; everything else
// is materialized configuration.
func (d *Device) CreateRenderPipeline(desc *driver.RenderPipelineDescriptor) (driver.RenderPipeline, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	vertex, ok := desc.Vertex.(*ShaderModule)
	if !ok {
		return nil, fmt.Errorf("soft: vertex stage is not a soft shader module")
	}
	var fragment *ShaderModule
	if desc.Fragment != nil {
		fragment, ok = desc.Fragment.(*ShaderModule)
		if !ok {
			return nil, fmt.Errorf("soft: fragment stage is not a soft shader module")
		}
	}
	if _, ok := texelSize(desc.ColorFormat); !ok {
		return nil, fmt.Errorf("soft: unsupported color target format %v", desc.ColorFormat)
	}
	if ds := desc.DepthStencil; ds != nil && ds.Format != gputypes.TextureFormatDepth24PlusStencil8 {
		return nil, fmt.Errorf("soft: unsupported depth/stencil format %v", ds.Format)
	}
	return &RenderPipeline{
		vertex:   vertex,
		fragment: fragment,
		desc:     *desc,
	}, nil
}

// CreateQueue starts a new worker-backed execution queue.
func (d *Device) CreateQueue() (driver.Queue, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return newQueue(), nil
}

// Destroy marks the device closed. Host memory is reclaimed by the
// garbage collector once the layers above drop their handles.
func (d *Device) Destroy() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *Device) checkOpen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("soft: device destroyed")
	}
	return nil
}

// texelSize returns the bytes per texel for the formats the soft
// driver supports.
func texelSize(format gputypes.TextureFormat) (int, bool) {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1, true
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4, true
	case gputypes.TextureFormatDepth24PlusStencil8:
		return 4, true
	}
	return 0, false
}
