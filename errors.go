package gpudev

import (
	"errors"
	"fmt"
)

// Sentinel causes for creation failures. Every creation error wraps one
// of these (or a driver-reported error), so callers can match both the
// operation via errors.As and the cause via errors.Is.
var (
	// ErrNoDriver is returned by Open when no driver is registered.
	ErrNoDriver = errors.New("gpudev: no driver registered")

	// ErrDeviceClosed is returned when operating on a closed device.
	ErrDeviceClosed = errors.New("gpudev: device is closed")

	// ErrZeroLength is returned when creating a buffer of length zero.
	ErrZeroLength = errors.New("gpudev: buffer length must be greater than zero")

	// ErrLengthExceedsLimit is returned when a buffer length exceeds
	// the device's MaxBufferSize limit.
	ErrLengthExceedsLimit = errors.New("gpudev: buffer length exceeds device limit")

	// ErrEmptyShaderSource is returned when shader program input holds
	// no source.
	ErrEmptyShaderSource = errors.New("gpudev: shader source is empty")

	// ErrZeroExtent is returned when a texture extent has a zero
	// dimension.
	ErrZeroExtent = errors.New("gpudev: texture extent must be non-zero")

	// ErrUndefinedFormat is returned when a descriptor leaves a
	// required texture format undefined.
	ErrUndefinedFormat = errors.New("gpudev: texture format is undefined")

	// ErrInvalidSampleCount is returned for MSAA sample counts other
	// than 1 or 4.
	ErrInvalidSampleCount = errors.New("gpudev: sample count must be 1 or 4")

	// ErrInvalidMipSampleCombination is returned when a descriptor asks
	// for both mipmapping and multisampling.
	ErrInvalidMipSampleCombination = errors.New("gpudev: multisampled textures cannot have mip levels")

	// ErrZeroUsage is returned when a texture descriptor specifies no
	// usage flags.
	ErrZeroUsage = errors.New("gpudev: texture usage must be specified")

	// ErrExtentExceedsLimit is returned when a texture extent exceeds
	// the device's dimension limit.
	ErrExtentExceedsLimit = errors.New("gpudev: texture extent exceeds device limit")

	// ErrInvalidLODRange is returned when a sampler's LOD clamp range
	// is inverted or negative.
	ErrInvalidLODRange = errors.New("gpudev: invalid sampler LOD clamp range")

	// ErrInvalidAnisotropy is returned when a sampler's anisotropy
	// level is out of range.
	ErrInvalidAnisotropy = errors.New("gpudev: sampler anisotropy must be at most 16")

	// ErrStaleHandle is returned when a descriptor references a
	// released or foreign resource handle.
	ErrStaleHandle = errors.New("gpudev: stale or invalid resource handle")

	// ErrMissingVertexShader is returned when a render pipeline
	// descriptor has no vertex stage.
	ErrMissingVertexShader = errors.New("gpudev: render pipeline requires a vertex shader")

	// ErrQueueReleased is returned when operating on a released
	// command queue.
	ErrQueueReleased = errors.New("gpudev: command queue has been released")

	// ErrAlreadySubmitted is returned when submitting a command buffer
	// twice.
	ErrAlreadySubmitted = errors.New("gpudev: command buffer already submitted")

	// ErrForeignCommandBuffer is returned when submitting a command
	// buffer to a queue it was not created on.
	ErrForeignCommandBuffer = errors.New("gpudev: command buffer belongs to another queue")
)

// ShaderProgramCreationError reports a failed CreateShaderProgram call:
// empty source or a backend compilation/link failure.
type ShaderProgramCreationError struct {
	Label string
	Err   error
}

func (e *ShaderProgramCreationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("gpudev: create shader program %q: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("gpudev: create shader program: %v", e.Err)
}

func (e *ShaderProgramCreationError) Unwrap() error { return e.Err }

// CommandQueueCreationError reports a failed CreateCommandQueue call:
// the backend could not allocate the requested queue.
type CommandQueueCreationError struct {
	Capacity int
	Err      error
}

func (e *CommandQueueCreationError) Error() string {
	if e.Capacity > 0 {
		return fmt.Sprintf("gpudev: create command queue (capacity %d): %v", e.Capacity, e.Err)
	}
	return fmt.Sprintf("gpudev: create command queue (unbounded): %v", e.Err)
}

func (e *CommandQueueCreationError) Unwrap() error { return e.Err }

// BufferCreationError reports a failed CreateBuffer call: invalid
// length or allocation failure.
type BufferCreationError struct {
	Length uint64
	Err    error
}

func (e *BufferCreationError) Error() string {
	return fmt.Sprintf("gpudev: create buffer (length %d): %v", e.Length, e.Err)
}

func (e *BufferCreationError) Unwrap() error { return e.Err }

// TextureCreationError reports a failed CreateTexture call: an
// unsupported descriptor combination or allocation failure.
type TextureCreationError struct {
	Label string
	Err   error
}

func (e *TextureCreationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("gpudev: create texture %q: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("gpudev: create texture: %v", e.Err)
}

func (e *TextureCreationError) Unwrap() error { return e.Err }

// SamplerCreationError reports a failed CreateSampler call: invalid
// descriptor values.
type SamplerCreationError struct {
	Label string
	Err   error
}

func (e *SamplerCreationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("gpudev: create sampler %q: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("gpudev: create sampler: %v", e.Err)
}

func (e *SamplerCreationError) Unwrap() error { return e.Err }

// RenderPipelineCreationError reports a failed CreateRenderPipeline
// call: an incompatible or invalid pipeline state combination.
type RenderPipelineCreationError struct {
	Label string
	Err   error
}

func (e *RenderPipelineCreationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("gpudev: create render pipeline %q: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("gpudev: create render pipeline: %v", e.Err)
}

func (e *RenderPipelineCreationError) Unwrap() error { return e.Err }
