//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/wgpu/hal"
)

// Buffer wraps a hal.Buffer.
type Buffer struct {
	device hal.Device
	buf    hal.Buffer
}

// Destroy implements driver.Resource.
func (b *Buffer) Destroy() {
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
}

// Raw exposes the HAL buffer for recording layers.
func (b *Buffer) Raw() hal.Buffer { return b.buf }

// Texture wraps a hal.Texture.
type Texture struct {
	device hal.Device
	tex    hal.Texture
}

// Destroy implements driver.Resource.
func (t *Texture) Destroy() {
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Raw exposes the HAL texture for recording layers.
func (t *Texture) Raw() hal.Texture { return t.tex }

// Sampler wraps a hal.Sampler.
type Sampler struct {
	device hal.Device
	smp    hal.Sampler
}

// Destroy implements driver.Resource.
func (s *Sampler) Destroy() {
	if s.smp != nil {
		s.device.DestroySampler(s.smp)
		s.smp = nil
	}
}

// Raw exposes the HAL sampler for recording layers.
func (s *Sampler) Raw() hal.Sampler { return s.smp }

// ShaderModule wraps a hal.ShaderModule.
type ShaderModule struct {
	device hal.Device
	mod    hal.ShaderModule
}

// Destroy implements driver.Resource.
func (m *ShaderModule) Destroy() {
	if m.mod != nil {
		m.device.DestroyShaderModule(m.mod)
		m.mod = nil
	}
}

// Raw exposes the HAL shader module for recording layers.
func (m *ShaderModule) Raw() hal.ShaderModule { return m.mod }

// RenderPipeline wraps a hal.RenderPipeline.
type RenderPipeline struct {
	device hal.Device
	pipe   hal.RenderPipeline
}

// Destroy implements driver.Resource.
func (p *RenderPipeline) Destroy() {
	if p.pipe != nil {
		p.device.DestroyRenderPipeline(p.pipe)
		p.pipe = nil
	}
}

// Raw exposes the HAL pipeline for recording layers.
func (p *RenderPipeline) Raw() hal.RenderPipeline { return p.pipe }

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
