//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// AdoptProvider wraps an externally-owned HAL device as a driver
// device, sharing it instead of creating a fresh instance. The
// provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue (e.g. a gogpu application's
// GPU context provider).
//
// Destroying the returned device does not destroy the shared HAL
// device; its owner remains responsible for it.
func AdoptProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	return &Device{
		device:  device,
		queue:   queue,
		limits:  gputypes.DefaultLimits(),
		name:    "shared",
		adopted: true,
	}, nil
}
