//go:build !nogpu

package wgpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Shader entry point conventions, shared with the rest of the gogpu
// ecosystem.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// init registers the wgpu driver on package import.
func init() {
	driver.Register(driver.DriverWGPU, func() driver.Driver {
		return &Driver{}
	})
}

// Driver opens devices on the wgpu HAL.
type Driver struct{}

// Name returns the driver identifier.
func (Driver) Name() string { return driver.DriverWGPU }

// Open creates an instance, picks the best adapter (discrete over
// integrated over anything else) and opens a device on it.
func (Driver) Open() (driver.Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
		if selected == nil && adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	return &Device{
		device:   openDev.Device,
		queue:    openDev.Queue,
		instance: instance,
		limits:   limits,
		name:     selected.Info.Name,
	}, nil
}

// Device implements driver.Device on a hal.Device.
type Device struct {
	mu       sync.Mutex
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // nil for adopted devices
	limits   gputypes.Limits
	name     string
	adopted  bool
	logger   *slog.Logger

	// Empty pipeline layout, created lazily; resource binding is a
	// recording-layer concern, so every pipeline shares it.
	layoutOnce sync.Once
	layout     hal.PipelineLayout
	layoutErr  error
}

// SetLogger configures the device's logger. Called by gpudev.Open.
func (d *Device) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	d.logger = l
	d.mu.Unlock()
	if l != nil {
		l.Info("wgpu: adapter selected", "name", d.name)
	}
}

// Limits reports the device capability limits.
func (d *Device) Limits() gputypes.Limits { return d.limits }

// CreateBuffer allocates a GPU buffer.
func (d *Device) CreateBuffer(desc *driver.BufferDescriptor) (driver.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	return &Buffer{device: d.device, buf: buf}, nil
}

// CreateTexture allocates a GPU texture.
func (d *Device) CreateTexture(desc *driver.TextureDescriptor) (driver.Texture, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D(desc.Size),
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	return &Texture{device: d.device, tex: tex}, nil
}

// CreateSampler creates a GPU sampler.
func (d *Device) CreateSampler(desc *driver.SamplerDescriptor) (driver.Sampler, error) {
	smp, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: desc.AddressModeW,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: desc.MipmapFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	return &Sampler{device: d.device, smp: smp}, nil
}

// CreateShaderModule compiles WGSL on the HAL.
func (d *Device) CreateShaderModule(desc *driver.ShaderModuleDescriptor) (driver.ShaderModule, error) {
	mod, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{WGSL: desc.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader %q: %w", desc.Label, err)
	}
	return &ShaderModule{device: d.device, mod: mod}, nil
}

// CreateRenderPipeline compiles and links the full pipeline state.
func (d *Device) CreateRenderPipeline(desc *driver.RenderPipelineDescriptor) (driver.RenderPipeline, error) {
	vertex, ok := desc.Vertex.(*ShaderModule)
	if !ok {
		return nil, fmt.Errorf("wgpu: vertex stage is not a wgpu shader module")
	}
	layout, err := d.pipelineLayout()
	if err != nil {
		return nil, err
	}

	halDesc := &hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     vertex.mod,
			EntryPoint: vertexEntryPoint,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: desc.FrontFace,
			CullMode:  desc.CullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: desc.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if desc.Fragment != nil {
		fragment, ok := desc.Fragment.(*ShaderModule)
		if !ok {
			return nil, fmt.Errorf("wgpu: fragment stage is not a wgpu shader module")
		}
		halDesc.Fragment = &hal.FragmentState{
			Module:     fragment.mod,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    desc.ColorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		}
	}
	if ds := desc.DepthStencil; ds != nil {
		halDesc.DepthStencil = &hal.DepthStencilState{
			Format:            ds.Format,
			DepthWriteEnabled: ds.DepthWriteEnabled,
			DepthCompare:      ds.DepthCompare,
			StencilFront:      halStencilFace(ds.StencilFront),
			StencilBack:       halStencilFace(ds.StencilBack),
			StencilReadMask:   ds.StencilReadMask,
			StencilWriteMask:  ds.StencilWriteMask,
		}
	}

	pipe, err := d.device.CreateRenderPipeline(halDesc)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create render pipeline %q: %w", desc.Label, err)
	}
	return &RenderPipeline{device: d.device, pipe: pipe}, nil
}

// CreateQueue wraps the device's HAL queue in a worker that waits for
// each submission to drain. HAL devices expose a single hardware queue;
// multiple driver queues share it, each preserving its own submission
// order.
func (d *Device) CreateQueue() (driver.Queue, error) {
	return newQueue(d.device, d.queue), nil
}

// Destroy releases the HAL device. Adopted devices stay alive; their
// owner destroys them.
func (d *Device) Destroy() {
	if d.device != nil && d.layout != nil {
		d.device.DestroyPipelineLayout(d.layout)
		d.layout = nil
	}
	if d.device != nil && !d.adopted {
		d.device.Destroy()
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}

// pipelineLayout lazily creates the shared empty pipeline layout.
func (d *Device) pipelineLayout() (hal.PipelineLayout, error) {
	d.layoutOnce.Do(func() {
		d.layout, d.layoutErr = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            "gpudev_empty_layout",
			BindGroupLayouts: []hal.BindGroupLayout{},
		})
	})
	if d.layoutErr != nil {
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", d.layoutErr)
	}
	return d.layout, nil
}

// halStencilFace converts a driver stencil face to the HAL form.
func halStencilFace(f driver.StencilFace) hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     f.Compare,
		FailOp:      halStencilOp(f.FailOp),
		DepthFailOp: halStencilOp(f.DepthFailOp),
		PassOp:      halStencilOp(f.PassOp),
	}
}

func halStencilOp(op driver.StencilOperation) hal.StencilOperation {
	switch op {
	case driver.StencilOperationZero:
		return hal.StencilOperationZero
	case driver.StencilOperationInvert:
		return hal.StencilOperationInvert
	case driver.StencilOperationIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case driver.StencilOperationDecrementWrap:
		return hal.StencilOperationDecrementWrap
	default:
		return hal.StencilOperationKeep
	}
}
