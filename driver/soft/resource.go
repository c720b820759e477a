package soft

import (
	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
)

// Buffer is host memory standing in for a GPU buffer.
type Buffer struct {
	data  []byte
	usage gputypes.BufferUsage
	label string
}

// Destroy implements driver.Resource.
func (b *Buffer) Destroy() { b.data = nil }

// Len returns the buffer capacity in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gputypes.BufferUsage { return b.usage }

// Bytes exposes the backing storage for recording layers.
func (b *Buffer) Bytes() []byte { return b.data }

// Texture is host memory standing in for a GPU texture.
type Texture struct {
	data  []byte
	desc  driver.TextureDescriptor
	label string
}

// Destroy implements driver.Resource.
func (t *Texture) Destroy() { t.data = nil }

// Len returns the allocation size in bytes.
func (t *Texture) Len() int { return len(t.data) }

// Descriptor returns the descriptor the texture was created from.
func (t *Texture) Descriptor() driver.TextureDescriptor { return t.desc }

// Sampler is materialized sampler configuration.
type Sampler struct {
	desc driver.SamplerDescriptor
}

// Destroy implements driver.Resource.
func (s *Sampler) Destroy() {}

// Descriptor returns the descriptor the sampler was created from.
func (s *Sampler) Descriptor() driver.SamplerDescriptor { return s.desc }

// ShaderModule holds the SPIR-V produced by naga from WGSL source.
type ShaderModule struct {
	spirv []byte
	label string
}

// Destroy implements driver.Resource.
func (m *ShaderModule) Destroy() { m.spirv = nil }

// SPIRV returns the compiled SPIR-V words as bytes.
func (m *ShaderModule) SPIRV() []byte { return m.spirv }

// RenderPipeline is materialized pipeline state.
type RenderPipeline struct {
	vertex   *ShaderModule
	fragment *ShaderModule
	desc     driver.RenderPipelineDescriptor
}

// Destroy implements driver.Resource.
func (p *RenderPipeline) Destroy() {
	p.vertex = nil
	p.fragment = nil
}

// Compile-time interface checks.
var (
	_ driver.Buffer         = (*Buffer)(nil)
	_ driver.Texture        = (*Texture)(nil)
	_ driver.Sampler        = (*Sampler)(nil)
	_ driver.ShaderModule   = (*ShaderModule)(nil)
	_ driver.RenderPipeline = (*RenderPipeline)(nil)
	_ driver.Device         = (*Device)(nil)
	_ driver.Driver         = Driver{}
)
