package driver

import (
	"github.com/gogpu/gputypes"
)

// BufferDescriptor describes a buffer to allocate.
type BufferDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the buffer capacity in bytes.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage
}

// TextureDescriptor describes a texture to allocate.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the texture extent.
	Size gputypes.Extent3D

	// MipLevelCount is the number of mip levels (1+).
	MipLevelCount uint32

	// SampleCount is the number of samples per texel (1 for non-MSAA).
	SampleCount uint32

	// Dimension is the texture dimension (1D, 2D, 3D).
	Dimension gputypes.TextureDimension

	// Format is the texel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// SamplerDescriptor describes how shaders sample a texture.
type SamplerDescriptor struct {
	// Label is an optional debug name.
	Label string

	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode

	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode

	LodMinClamp float32
	LodMaxClamp float32

	// MaxAnisotropy is the anisotropic filtering level (1 = disabled).
	MaxAnisotropy uint16
}

// ShaderModuleDescriptor carries shader source for backend compilation.
// The source representation is opaque to the layers above; backends
// validate it at creation time.
type ShaderModuleDescriptor struct {
	// Label is an optional debug name.
	Label string

	// WGSL is the shader source in WGSL form.
	WGSL string
}

// StencilOperation specifies what happens to a stencil value after a
// comparison.
type StencilOperation uint32

// Stencil operations.
const (
	StencilOperationKeep StencilOperation = iota
	StencilOperationZero
	StencilOperationReplace
	StencilOperationInvert
	StencilOperationIncrementClamp
	StencilOperationDecrementClamp
	StencilOperationIncrementWrap
	StencilOperationDecrementWrap
)

// StencilFace configures the stencil test for one triangle facing.
type StencilFace struct {
	Compare     gputypes.CompareFunction
	FailOp      StencilOperation
	DepthFailOp StencilOperation
	PassOp      StencilOperation
}

// DepthStencilConfig configures the depth and stencil stages of a
// render pipeline.
type DepthStencilConfig struct {
	Format            gputypes.TextureFormat
	DepthWriteEnabled bool
	DepthCompare      gputypes.CompareFunction
	StencilFront      StencilFace
	StencilBack       StencilFace
	StencilReadMask   uint32
	StencilWriteMask  uint32
}

// RenderPipelineDescriptor describes a fully-baked render pipeline.
// Constructing one is expensive on most backends; layers above must
// treat it as a construction-time operation.
type RenderPipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Vertex is the vertex stage shader module (required).
	Vertex ShaderModule

	// Fragment is the fragment stage shader module (optional).
	Fragment ShaderModule

	Topology  gputypes.PrimitiveTopology
	FrontFace gputypes.FrontFace
	CullMode  gputypes.CullMode

	// ColorFormat is the color target format.
	ColorFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count (1 or 4).
	SampleCount uint32

	// DepthStencil configures the depth/stencil stages (optional).
	DepthStencil *DepthStencilConfig
}
