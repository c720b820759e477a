package gpudev

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
)

// Options configures Open. The zero value selects the best available
// driver and the package logger.
type Options struct {
	// Driver selects a registered driver by name ("soft", "wgpu").
	// Empty means the best available driver.
	Driver string

	// Logger overrides the package logger for this device.
	Logger *slog.Logger
}

// Device is the factory and root authority for GPU resources: the
// single mutable entry point into backend state. Every resource and
// queue it produces is owned by the device and becomes invalid when
// the device is closed.
//
// Creation operations serialize on an internal mutex because backends
// commonly serialize allocation against internal pools; callers need no
// external synchronization. Every creation call either returns a fully
// usable, immediately-ready resource or fails atomically with the
// device state unchanged.
type Device struct {
	mu      sync.Mutex
	drv     driver.Device
	drvName string
	limits  gputypes.Limits
	log     *slog.Logger

	slots  []resourceSlot
	free   []uint32
	queues []*CommandQueue
	closed bool
}

// Open selects a driver from the registry and opens a device on it.
// Import a driver package for its registration side effect:
//
//	import _ "github.com/gogpu/gpudev/driver/soft"
func Open(opts Options) (*Device, error) {
	var (
		drv driver.Driver
		dev driver.Device
		err error
	)
	if opts.Driver != "" {
		drv = driver.Get(opts.Driver)
		if drv == nil {
			return nil, fmt.Errorf("gpudev: driver %q: %w", opts.Driver, ErrNoDriver)
		}
		dev, err = drv.Open()
		if err != nil {
			return nil, fmt.Errorf("gpudev: open %s device: %w", drv.Name(), err)
		}
	} else {
		// Best available: fall through to lower-priority drivers when a
		// higher-priority one cannot open.
		drv, dev, err = driver.OpenDefault()
		if err != nil {
			return nil, fmt.Errorf("gpudev: %w: %w", ErrNoDriver, err)
		}
	}

	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	propagateLogger(dev, log)

	d := &Device{
		drv:     dev,
		drvName: drv.Name(),
		limits:  dev.Limits(),
		log:     log,
	}
	d.log.Info("device opened", "driver", d.drvName)
	return d, nil
}

// OpenDevice wraps an already-open driver device, for callers that
// obtained one outside the registry (e.g. wgpu.AdoptProvider sharing a
// host application's HAL device). The returned Device owns drv and
// destroys it on Close.
func OpenDevice(name string, drv driver.Device, opts Options) (*Device, error) {
	if drv == nil {
		return nil, ErrNoDriver
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	propagateLogger(drv, log)

	d := &Device{
		drv:     drv,
		drvName: name,
		limits:  drv.Limits(),
		log:     log,
	}
	d.log.Info("device opened", "driver", d.drvName)
	return d, nil
}

// DriverName returns the name of the driver backing this device.
func (d *Device) DriverName() string { return d.drvName }

// Limits reports the capability limits of the device.
func (d *Device) Limits() gputypes.Limits { return d.limits }

// ResourceCount returns the number of live resources (excluding
// command queues) owned by the device.
func (d *Device) ResourceCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for i := range d.slots {
		if d.slots[i].live {
			n++
		}
	}
	return n
}

// CreateShaderProgram compiles src into a program that is immediately
// ready for use in a render pipeline. It fails with a
// *ShaderProgramCreationError if the source is empty or the backend
// reports a compilation/link error.
func (d *Device) CreateShaderProgram(src ShaderProgramInput) (ShaderProgram, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ShaderProgram{}, &ShaderProgramCreationError{Label: src.Label, Err: ErrDeviceClosed}
	}
	if err := validateShaderInput(&src); err != nil {
		return ShaderProgram{}, &ShaderProgramCreationError{Label: src.Label, Err: err}
	}

	mod, err := d.drv.CreateShaderModule(&driver.ShaderModuleDescriptor{
		Label: src.Label,
		WGSL:  src.WGSL,
	})
	if err != nil {
		return ShaderProgram{}, &ShaderProgramCreationError{Label: src.Label, Err: err}
	}

	h := d.alloc(kindShaderProgram, src.Label, mod, nil)
	d.log.Debug("shader program created", "label", src.Label)
	return ShaderProgram{dev: d, h: h}, nil
}

// Unbounded requests a command queue with no bound on outstanding
// command buffers.
const Unbounded = 0

// CreateCommandQueue allocates an ordered submission queue. A capacity
// greater than zero bounds the number of outstanding (submitted but
// not yet completed) command buffers to capacity: a submission that
// would exceed the bound blocks until enough buffers complete.
// Unbounded (or any non-positive capacity) means submissions never
// block for capacity reasons and the queue grows as needed.
//
// It fails with a *CommandQueueCreationError if the backend cannot
// allocate the queue.
func (d *Device) CreateCommandQueue(capacity int) (*CommandQueue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, &CommandQueueCreationError{Capacity: capacity, Err: ErrDeviceClosed}
	}

	dq, err := d.drv.CreateQueue()
	if err != nil {
		return nil, &CommandQueueCreationError{Capacity: capacity, Err: err}
	}

	if capacity < 0 {
		capacity = Unbounded
	}
	q := newCommandQueue(d, dq, capacity)
	d.queues = append(d.queues, q)
	d.log.Debug("command queue created", "capacity", capacity)
	return q, nil
}

// CreateBuffer allocates length bytes of GPU-visible memory. A nil
// hints means DefaultBufferHints(); hints are fixed for the buffer's
// lifetime. It fails with a *BufferCreationError on zero length, a
// length above the device's MaxBufferSize limit, or allocation failure.
func (d *Device) CreateBuffer(length uint64, hints *BufferHints) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Buffer{}, &BufferCreationError{Length: length, Err: ErrDeviceClosed}
	}
	if length == 0 {
		return Buffer{}, &BufferCreationError{Length: length, Err: ErrZeroLength}
	}
	if max := d.limits.MaxBufferSize; max > 0 && length > max {
		return Buffer{}, &BufferCreationError{Length: length, Err: ErrLengthExceedsLimit}
	}

	h := DefaultBufferHints()
	if hints != nil {
		h = *hints
	}

	res, err := d.drv.CreateBuffer(&driver.BufferDescriptor{
		Label: h.Label,
		Size:  length,
		Usage: h.Usage,
	})
	if err != nil {
		return Buffer{}, &BufferCreationError{Length: length, Err: err}
	}

	hd := d.alloc(kindBuffer, h.Label, res, bufferInfo{size: length, hints: h})
	d.log.Debug("buffer created", "label", h.Label, "length", length)
	return Buffer{dev: d, h: hd}, nil
}

// CreateTexture allocates a texture described by desc. It fails with a
// *TextureCreationError if the descriptor specifies an unsupported
// format/dimension combination or the backend reports an allocation
// failure.
func (d *Device) CreateTexture(desc TextureDescriptor) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Texture{}, &TextureCreationError{Label: desc.Label, Err: ErrDeviceClosed}
	}
	if err := validateTexture(&desc, d.limits); err != nil {
		return Texture{}, &TextureCreationError{Label: desc.Label, Err: err}
	}
	desc = normalizeTexture(desc)

	res, err := d.drv.CreateTexture(&driver.TextureDescriptor{
		Label:         desc.Label,
		Size:          desc.Size,
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return Texture{}, &TextureCreationError{Label: desc.Label, Err: err}
	}

	h := d.alloc(kindTexture, desc.Label, res, desc)
	d.log.Debug("texture created", "label", desc.Label,
		"width", desc.Size.Width, "height", desc.Size.Height)
	return Texture{dev: d, h: h}, nil
}

// CreateSampler materializes an immutable sampler. It fails with a
// *SamplerCreationError only on invalid descriptor values; no ongoing
// backend work is required. Creation is not memoized: two calls with
// identical descriptors yield independent resources.
func (d *Device) CreateSampler(desc SamplerDescriptor) (Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Sampler{}, &SamplerCreationError{Label: desc.Label, Err: ErrDeviceClosed}
	}
	if err := validateSampler(&desc); err != nil {
		return Sampler{}, &SamplerCreationError{Label: desc.Label, Err: err}
	}
	desc = normalizeSampler(desc)

	res, err := d.drv.CreateSampler(&driver.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  desc.AddressModeU,
		AddressModeV:  desc.AddressModeV,
		AddressModeW:  desc.AddressModeW,
		MagFilter:     desc.MagFilter,
		MinFilter:     desc.MinFilter,
		MipmapFilter:  desc.MipmapFilter,
		LodMinClamp:   desc.LodMinClamp,
		LodMaxClamp:   desc.LodMaxClamp,
		MaxAnisotropy: desc.MaxAnisotropy,
	})
	if err != nil {
		return Sampler{}, &SamplerCreationError{Label: desc.Label, Err: err}
	}

	h := d.alloc(kindSampler, desc.Label, res, desc)
	d.log.Debug("sampler created", "label", desc.Label)
	return Sampler{dev: d, h: h}, nil
}

// CreateDepthStencilState materializes depth/stencil configuration.
// No backend allocation is involved, so the operation cannot fail and
// carries no error channel. On a closed device it returns the zero
// value (Valid() == false).
func (d *Device) CreateDepthStencilState(desc DepthStencilStateDescriptor) DepthStencilState {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return DepthStencilState{}
	}
	desc = normalizeDepthStencil(desc)

	h := d.alloc(kindDepthStencilState, desc.Label, nil, desc)
	d.log.Debug("depth/stencil state created", "label", desc.Label)
	return DepthStencilState{dev: d, h: h}
}

// CreateRenderPipeline compiles and links the full fixed-function and
// programmable pipeline state. This is expensive relative to other
// creation calls: treat it as construction-time only, never per-frame.
// It fails with a *RenderPipelineCreationError on incompatible
// shader/state combinations or stale shader handles.
func (d *Device) CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: ErrDeviceClosed}
	}

	if desc.VertexShader.isZero() {
		return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: ErrMissingVertexShader}
	}
	vertex, err := d.shaderModule(desc.VertexShader)
	if err != nil {
		return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: err}
	}
	var fragment driver.ShaderModule
	if !desc.FragmentShader.isZero() {
		fragment, err = d.shaderModule(desc.FragmentShader)
		if err != nil {
			return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: err}
		}
	}
	if desc.ColorFormat == gputypes.TextureFormatUndefined {
		return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: ErrUndefinedFormat}
	}
	switch desc.SampleCount {
	case 0:
		desc.SampleCount = 1
	case 1, 4:
	default:
		return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: ErrInvalidSampleCount}
	}

	var depthStencil *driver.DepthStencilConfig
	if !desc.DepthStencil.isZero() {
		s := d.lookup(desc.DepthStencil.h, kindDepthStencilState)
		if s == nil || desc.DepthStencil.dev != d {
			return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: ErrStaleHandle}
		}
		dsDesc := s.payload.(DepthStencilStateDescriptor)
		depthStencil = &driver.DepthStencilConfig{
			Format:            dsDesc.Format,
			DepthWriteEnabled: dsDesc.DepthWriteEnabled,
			DepthCompare:      dsDesc.DepthCompare,
			StencilFront:      driverStencilFace(dsDesc.StencilFront),
			StencilBack:       driverStencilFace(dsDesc.StencilBack),
			StencilReadMask:   dsDesc.StencilReadMask,
			StencilWriteMask:  dsDesc.StencilWriteMask,
		}
	}

	res, err := d.drv.CreateRenderPipeline(&driver.RenderPipelineDescriptor{
		Label:        desc.Label,
		Vertex:       vertex,
		Fragment:     fragment,
		Topology:     desc.Topology,
		FrontFace:    desc.FrontFace,
		CullMode:     desc.CullMode,
		ColorFormat:  desc.ColorFormat,
		SampleCount:  desc.SampleCount,
		DepthStencil: depthStencil,
	})
	if err != nil {
		return RenderPipeline{}, &RenderPipelineCreationError{Label: desc.Label, Err: err}
	}

	h := d.alloc(kindRenderPipeline, desc.Label, res, nil)
	d.log.Debug("render pipeline created", "label", desc.Label)
	return RenderPipeline{dev: d, h: h}, nil
}

// Close releases every resource and queue the device created, then
// destroys the backend device. Queues are drained first: Close waits
// for their outstanding command buffers to complete. Close is
// idempotent; all handles become invalid.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	queues := d.queues
	d.queues = nil
	d.mu.Unlock()

	for _, q := range queues {
		q.Release()
	}

	d.mu.Lock()
	for i := range d.slots {
		s := &d.slots[i]
		if !s.live {
			continue
		}
		if s.res != nil {
			s.res.Destroy()
		}
		s.live = false
		s.gen++
		s.res = nil
		s.payload = nil
		s.label = ""
	}
	d.free = d.free[:0]
	d.drv.Destroy()
	d.mu.Unlock()

	d.log.Info("device closed", "driver", d.drvName)
	return nil
}

// driverStencilFace converts a stencil face descriptor to the driver
// contract. The enums share value order.
func driverStencilFace(f StencilFaceDescriptor) driver.StencilFace {
	return driver.StencilFace{
		Compare:     f.Compare,
		FailOp:      driver.StencilOperation(f.FailOp),
		DepthFailOp: driver.StencilOperation(f.DepthFailOp),
		PassOp:      driver.StencilOperation(f.PassOp),
	}
}

// shaderModule resolves a shader program handle to its driver module.
// Caller must hold d.mu.
func (d *Device) shaderModule(p ShaderProgram) (driver.ShaderModule, error) {
	if p.dev != d {
		return nil, ErrStaleHandle
	}
	s := d.lookup(p.h, kindShaderProgram)
	if s == nil {
		return nil, ErrStaleHandle
	}
	return s.res.(driver.ShaderModule), nil
}

// alloc claims an arena slot. Caller must hold d.mu.
func (d *Device) alloc(kind resourceKind, label string, res driver.Resource, payload any) handle {
	var idx uint32
	if n := len(d.free); n > 0 {
		idx = d.free[n-1]
		d.free = d.free[:n-1]
	} else {
		d.slots = append(d.slots, resourceSlot{gen: 1})
		idx = uint32(len(d.slots) - 1)
	}
	s := &d.slots[idx]
	s.live = true
	s.kind = kind
	s.label = label
	s.res = res
	s.payload = payload
	return handle{index: idx, gen: s.gen}
}

// lookup resolves a handle to its slot, or nil if the handle is stale
// or of the wrong kind. Caller must hold d.mu.
func (d *Device) lookup(h handle, kind resourceKind) *resourceSlot {
	if h.gen == 0 || int(h.index) >= len(d.slots) {
		return nil
	}
	s := &d.slots[h.index]
	if !s.live || s.gen != h.gen || s.kind != kind {
		return nil
	}
	return s
}

func (d *Device) validHandle(h handle, kind resourceKind) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookup(h, kind) != nil
}

func (d *Device) slotLabel(h handle, kind resourceKind) string {
	if d == nil {
		return ""
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.lookup(h, kind)
	if s == nil {
		return ""
	}
	return s.label
}

func (d *Device) slotPayload(h handle, kind resourceKind) any {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.lookup(h, kind)
	if s == nil {
		return nil
	}
	return s.payload
}

// releaseHandle frees a slot and bumps its generation so stale copies
// of the handle stop matching.
func (d *Device) releaseHandle(h handle, kind resourceKind) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.lookup(h, kind)
	if s == nil {
		d.log.Warn("release of stale handle", "kind", kind.String())
		return
	}
	if s.res != nil {
		s.res.Destroy()
	}
	s.live = false
	s.gen++
	s.res = nil
	s.payload = nil
	s.label = ""
	d.free = append(d.free, h.index)
	d.log.Debug("resource released", "kind", kind.String())
}
