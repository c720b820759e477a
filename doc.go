// Package gpudev provides a hardware abstraction layer for GPU devices.
//
// # Overview
//
// gpudev exposes a single Device contract that can be backed by
// different native graphics APIs (Vulkan, Metal, DX12 via gogpu/wgpu,
// or a pure Go software driver) while presenting one stable
// resource-creation and command-submission model. It defines the
// resource/queue abstraction boundary only: recording, binding,
// drawing and presentation belong to the rendering layers built on
// top.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/gpudev"
//		_ "github.com/gogpu/gpudev/driver/soft" // register the software driver
//	)
//
//	dev, err := gpudev.Open(gpudev.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	buf, err := dev.CreateBuffer(1024, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer buf.Release()
//
//	queue, err := dev.CreateCommandQueue(2)
//	if err != nil {
//		log.Fatal(err)
//	}
//	cb, _ := queue.NewCommandBuffer()
//	_ = queue.Submit(cb) // blocks when 2 buffers are outstanding
//	_ = cb.Wait()
//
// # Resources
//
// Every resource a Device creates (Buffer, Texture, Sampler,
// ShaderProgram, DepthStencilState, RenderPipeline) is an immutable,
// cheaply copyable handle into a device-owned arena. Handles share the
// Resource capability: Valid, Label and Release. Released or
// device-closed handles are detectable, never dangling. Creation
// either returns an immediately usable resource or fails atomically
// with a per-operation error kind (BufferCreationError,
// TextureCreationError, ...).
//
// # Command Queues
//
// A CommandQueue created with a positive capacity bounds the number of
// outstanding command buffers: submissions beyond the bound block
// until earlier work completes, in FIFO order (backpressure). An
// unbounded queue never blocks for capacity reasons. Buffers move
// Submitted -> Executing -> Completed strictly in submission order.
//
// # Drivers
//
// Backends register through gpudev/driver. The soft driver is always
// available; the wgpu driver registers when hardware is usable and is
// preferred automatically:
//
//	import (
//		_ "github.com/gogpu/gpudev/driver/soft"
//		_ "github.com/gogpu/gpudev/driver/wgpu"
//	)
package gpudev
