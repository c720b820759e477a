package gpudev

import (
	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
)

// Resource is the capability shared by every handle a Device creates:
// identity, validity and release. A resource's backing storage is owned
// by the Device; its validity is bounded by the Device's lifetime.
//
// All resources are immutable after creation and may be freely shared
// across goroutines and command buffers. Release frees the backing
// storage; afterwards the handle reports Valid() == false and any
// descriptor that references it fails with ErrStaleHandle. Releasing a
// stale handle is a logged no-op.
type Resource interface {
	// Valid reports whether the handle still refers to a live resource
	// on its device.
	Valid() bool

	// Label returns the debug name given at creation, or "" for a
	// stale handle.
	Label() string

	// Release frees the resource's backing storage.
	Release()
}

// resourceKind tags the variant stored in an arena slot.
type resourceKind uint8

const (
	kindBuffer resourceKind = iota + 1
	kindTexture
	kindSampler
	kindShaderProgram
	kindDepthStencilState
	kindRenderPipeline
)

func (k resourceKind) String() string {
	switch k {
	case kindBuffer:
		return "buffer"
	case kindTexture:
		return "texture"
	case kindSampler:
		return "sampler"
	case kindShaderProgram:
		return "shader program"
	case kindDepthStencilState:
		return "depth/stencil state"
	case kindRenderPipeline:
		return "render pipeline"
	}
	return "unknown"
}

// handle indexes a Device-owned arena slot. The generation detects
// stale handles: releasing a slot bumps its generation, so copies of
// the old handle stop matching.
type handle struct {
	index uint32
	gen   uint32
}

// resourceSlot is one arena entry. The payload carries kind-specific
// metadata (bufferInfo, normalized descriptors).
type resourceSlot struct {
	gen     uint32
	live    bool
	kind    resourceKind
	label   string
	res     driver.Resource // nil for depth/stencil states
	payload any
}

// bufferInfo is the payload of a buffer slot.
type bufferInfo struct {
	size  uint64
	hints BufferHints
}

// Buffer is a handle to linear GPU-visible memory.
type Buffer struct {
	dev *Device
	h   handle
}

func (b Buffer) Valid() bool   { return b.dev.validHandle(b.h, kindBuffer) }
func (b Buffer) Label() string { return b.dev.slotLabel(b.h, kindBuffer) }
func (b Buffer) Release()      { b.dev.releaseHandle(b.h, kindBuffer) }

// Size returns the buffer capacity in bytes, or 0 for a stale handle.
func (b Buffer) Size() uint64 {
	info, ok := b.dev.slotPayload(b.h, kindBuffer).(bufferInfo)
	if !ok {
		return 0
	}
	return info.size
}

// Hints returns the hints the buffer was created with. Hints are fixed
// for the buffer's lifetime.
func (b Buffer) Hints() BufferHints {
	info, _ := b.dev.slotPayload(b.h, kindBuffer).(bufferInfo)
	return info.hints
}

// Texture is a handle to image-layout GPU memory.
type Texture struct {
	dev *Device
	h   handle
}

func (t Texture) Valid() bool   { return t.dev.validHandle(t.h, kindTexture) }
func (t Texture) Label() string { return t.dev.slotLabel(t.h, kindTexture) }
func (t Texture) Release()      { t.dev.releaseHandle(t.h, kindTexture) }

// Descriptor returns the normalized descriptor the texture was created
// from, or the zero value for a stale handle.
func (t Texture) Descriptor() TextureDescriptor {
	desc, _ := t.dev.slotPayload(t.h, kindTexture).(TextureDescriptor)
	return desc
}

// Format returns the texel format the texture was created with.
func (t Texture) Format() gputypes.TextureFormat { return t.Descriptor().Format }

// Size returns the texture extent.
func (t Texture) Size() gputypes.Extent3D { return t.Descriptor().Size }

// Sampler is an immutable description of how shaders sample a texture.
type Sampler struct {
	dev *Device
	h   handle
}

func (s Sampler) Valid() bool   { return s.dev.validHandle(s.h, kindSampler) }
func (s Sampler) Label() string { return s.dev.slotLabel(s.h, kindSampler) }
func (s Sampler) Release()      { s.dev.releaseHandle(s.h, kindSampler) }

// Descriptor returns the normalized descriptor the sampler was created
// from, or the zero value for a stale handle.
func (s Sampler) Descriptor() SamplerDescriptor {
	desc, _ := s.dev.slotPayload(s.h, kindSampler).(SamplerDescriptor)
	return desc
}

// ShaderProgram is a compiled, ready-to-use shader program.
type ShaderProgram struct {
	dev *Device
	h   handle
}

func (p ShaderProgram) Valid() bool   { return p.dev.validHandle(p.h, kindShaderProgram) }
func (p ShaderProgram) Label() string { return p.dev.slotLabel(p.h, kindShaderProgram) }
func (p ShaderProgram) Release()      { p.dev.releaseHandle(p.h, kindShaderProgram) }

// isZero reports whether the program is the descriptor zero value,
// meaning "stage absent" in a pipeline descriptor.
func (p ShaderProgram) isZero() bool { return p.dev == nil && p.h == (handle{}) }

// DepthStencilState is materialized depth/stencil configuration. It
// requires no backend allocation, so creating one cannot fail.
type DepthStencilState struct {
	dev *Device
	h   handle
}

func (d DepthStencilState) Valid() bool   { return d.dev.validHandle(d.h, kindDepthStencilState) }
func (d DepthStencilState) Label() string { return d.dev.slotLabel(d.h, kindDepthStencilState) }
func (d DepthStencilState) Release()      { d.dev.releaseHandle(d.h, kindDepthStencilState) }

// Descriptor returns the normalized descriptor the state was created
// from, or the zero value for a stale handle.
func (d DepthStencilState) Descriptor() DepthStencilStateDescriptor {
	desc, _ := d.dev.slotPayload(d.h, kindDepthStencilState).(DepthStencilStateDescriptor)
	return desc
}

// isZero reports whether the state is the descriptor zero value,
// meaning "no depth/stencil attachment" in a pipeline descriptor.
func (d DepthStencilState) isZero() bool { return d.dev == nil && d.h == (handle{}) }

// RenderPipeline is a fully-baked render pipeline.
type RenderPipeline struct {
	dev *Device
	h   handle
}

func (p RenderPipeline) Valid() bool   { return p.dev.validHandle(p.h, kindRenderPipeline) }
func (p RenderPipeline) Label() string { return p.dev.slotLabel(p.h, kindRenderPipeline) }
func (p RenderPipeline) Release()      { p.dev.releaseHandle(p.h, kindRenderPipeline) }

// Compile-time checks that every handle satisfies Resource.
var (
	_ Resource = Buffer{}
	_ Resource = Texture{}
	_ Resource = Sampler{}
	_ Resource = ShaderProgram{}
	_ Resource = DepthStencilState{}
	_ Resource = RenderPipeline{}
	_ Resource = (*CommandQueue)(nil)
)
