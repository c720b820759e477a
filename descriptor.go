package gpudev

import (
	"strings"

	"github.com/gogpu/gputypes"
)

// ShaderProgramInput carries shader source for backend compilation.
// The representation is opaque to this layer beyond "non-empty,
// validated by the backend at creation time"; both drivers consume
// WGSL.
type ShaderProgramInput struct {
	// Label is an optional debug name.
	Label string

	// WGSL is the shader source.
	WGSL string
}

// BufferHints is optional creation-time configuration for a buffer.
// Hints are fixed for the buffer's lifetime and cannot be altered
// afterward. A nil *BufferHints passed to CreateBuffer means
// DefaultBufferHints().
type BufferHints struct {
	// Label is an optional debug name.
	Label string

	// Usage hints how the buffer will be used.
	Usage gputypes.BufferUsage
}

// DefaultBufferHints returns the hints applied when CreateBuffer is
// called without any: a general-purpose buffer usable as copy source,
// copy destination and storage.
func DefaultBufferHints() BufferHints {
	return BufferHints{
		Usage: gputypes.BufferUsageCopySrc |
			gputypes.BufferUsageCopyDst |
			gputypes.BufferUsageStorage,
	}
}

// TextureDescriptor is a fully-specified blueprint for a texture,
// consumed exactly once at creation time.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the texture extent. All dimensions must be non-zero;
	// DepthOrArrayLayers defaults to 1 when left zero.
	Size gputypes.Extent3D

	// MipLevelCount is the number of mip levels. Zero means 1.
	MipLevelCount uint32

	// SampleCount is the MSAA sample count (1 or 4). Zero means 1.
	SampleCount uint32

	// Dimension is the texture dimension (1D, 2D, 3D).
	Dimension gputypes.TextureDimension

	// Format is the texel format. Must not be undefined.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used. Must be non-zero.
	Usage gputypes.TextureUsage
}

// SamplerDescriptor is a fully-specified blueprint for a sampler.
// Zero values are valid defaults (clamp-to-edge addressing, nearest
// filtering, full LOD range).
type SamplerDescriptor struct {
	// Label is an optional debug name.
	Label string

	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode

	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode

	// LodMinClamp and LodMaxClamp bound the mip LOD range. Both zero
	// means "no clamping". LodMinClamp must not exceed LodMaxClamp and
	// neither may be negative.
	LodMinClamp float32
	LodMaxClamp float32

	// MaxAnisotropy is the anisotropic filtering level, at most 16.
	// Zero means 1 (disabled).
	MaxAnisotropy uint16
}

// StencilOperation specifies what happens to a stencil value after a
// comparison.
type StencilOperation uint32

// Stencil operations. The order mirrors the driver contract so the
// values convert directly.
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

// StencilFaceDescriptor configures the stencil test for one triangle
// facing. The zero value keeps the stencil value untouched.
type StencilFaceDescriptor struct {
	Compare     gputypes.CompareFunction
	FailOp      StencilOperation
	DepthFailOp StencilOperation
	PassOp      StencilOperation
}

// DepthStencilStateDescriptor is a fully-specified blueprint for a
// depth/stencil state. Creating the state cannot fail: the descriptor
// is materialized as-is, with defaults applied for zero compare
// functions and masks.
type DepthStencilStateDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Format is the depth/stencil attachment format.
	Format gputypes.TextureFormat

	// DepthWriteEnabled controls depth buffer writes.
	DepthWriteEnabled bool

	// DepthCompare is the depth test function. Zero means Always.
	DepthCompare gputypes.CompareFunction

	StencilFront StencilFaceDescriptor
	StencilBack  StencilFaceDescriptor

	// StencilReadMask and StencilWriteMask select the stencil bits
	// read and written. Zero means all bits (0xFFFFFFFF).
	StencilReadMask  uint32
	StencilWriteMask uint32
}

// RenderPipelineDescriptor is a fully-specified blueprint for a render
// pipeline. Pipeline construction compiles and links the full
// fixed-function and programmable state; treat it as a
// construction-time operation, never per-frame.
type RenderPipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// VertexShader is the vertex stage program (required).
	VertexShader ShaderProgram

	// FragmentShader is the fragment stage program (optional; the zero
	// value means no fragment stage).
	FragmentShader ShaderProgram

	Topology  gputypes.PrimitiveTopology
	FrontFace gputypes.FrontFace
	CullMode  gputypes.CullMode

	// ColorFormat is the color target format. Must not be undefined.
	ColorFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count (1 or 4). Zero means 1.
	SampleCount uint32

	// DepthStencil configures the depth/stencil stages (optional; the
	// zero value means no depth/stencil attachment).
	DepthStencil DepthStencilState
}

// validateTexture checks a texture descriptor against the contract and
// the device limits. Returns the cause on failure.
func validateTexture(desc *TextureDescriptor, limits gputypes.Limits) error {
	if desc.Size.Width == 0 || desc.Size.Height == 0 {
		return ErrZeroExtent
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		return ErrUndefinedFormat
	}
	if desc.Usage == 0 {
		return ErrZeroUsage
	}
	switch desc.SampleCount {
	case 0, 1, 4:
	default:
		return ErrInvalidSampleCount
	}
	if desc.SampleCount > 1 && desc.MipLevelCount > 1 {
		return ErrInvalidMipSampleCombination
	}
	if max := limits.MaxTextureDimension2D; max > 0 && desc.Dimension == gputypes.TextureDimension2D {
		if desc.Size.Width > max || desc.Size.Height > max {
			return ErrExtentExceedsLimit
		}
	}
	return nil
}

// normalizeTexture applies descriptor defaults (mip level count,
// sample count, array layers).
func normalizeTexture(desc TextureDescriptor) TextureDescriptor {
	if desc.MipLevelCount == 0 {
		desc.MipLevelCount = 1
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}
	if desc.Size.DepthOrArrayLayers == 0 {
		desc.Size.DepthOrArrayLayers = 1
	}
	return desc
}

// validateSampler checks a sampler descriptor. Samplers require no
// backend work beyond materializing configuration, so this is the only
// failure source on most drivers.
func validateSampler(desc *SamplerDescriptor) error {
	if desc.LodMinClamp < 0 || desc.LodMaxClamp < 0 {
		return ErrInvalidLODRange
	}
	if desc.LodMaxClamp != 0 && desc.LodMinClamp > desc.LodMaxClamp {
		return ErrInvalidLODRange
	}
	if desc.MaxAnisotropy > 16 {
		return ErrInvalidAnisotropy
	}
	return nil
}

// normalizeSampler applies sampler defaults.
func normalizeSampler(desc SamplerDescriptor) SamplerDescriptor {
	if desc.MaxAnisotropy == 0 {
		desc.MaxAnisotropy = 1
	}
	return desc
}

// normalizeDepthStencil applies depth/stencil defaults: Always for
// zero compare functions, all-bits for zero masks.
func normalizeDepthStencil(desc DepthStencilStateDescriptor) DepthStencilStateDescriptor {
	if desc.DepthCompare == 0 {
		desc.DepthCompare = gputypes.CompareFunctionAlways
	}
	if desc.StencilFront.Compare == 0 {
		desc.StencilFront.Compare = gputypes.CompareFunctionAlways
	}
	if desc.StencilBack.Compare == 0 {
		desc.StencilBack.Compare = gputypes.CompareFunctionAlways
	}
	if desc.StencilReadMask == 0 {
		desc.StencilReadMask = 0xFFFFFFFF
	}
	if desc.StencilWriteMask == 0 {
		desc.StencilWriteMask = 0xFFFFFFFF
	}
	return desc
}

// validateShaderInput checks shader program input before it reaches
// the backend compiler.
func validateShaderInput(src *ShaderProgramInput) error {
	if strings.TrimSpace(src.WGSL) == "" {
		return ErrEmptyShaderSource
	}
	return nil
}
