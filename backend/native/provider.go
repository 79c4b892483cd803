package native

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpunode/backend"
	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
)

// halProvider is implemented by device providers that share their HAL
// device, such as gogpu's.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewDeviceProvider returns a handle provider resolving a gfx.Device from
// a host device provider on first use. The host keeps ownership of the HAL
// device; closing the provider only drops the gfx.Device.
func NewDeviceProvider(provider gpucontext.DeviceProvider) *handle.Provider[*gfx.Device] {
	return handle.NewProvider(func() (*gfx.Device, error) {
		return openDevice(provider)
	}, nil)
}

func openDevice(provider any) (*gfx.Device, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}

	b, err := NewBackend(device, func(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) {
		queue.WriteTexture(dst, data, layout, size)
	})
	if err != nil {
		return nil, err
	}
	return gfx.NewDevice(b, "hal"), nil
}

// Register makes provider the device source of the native backend in the
// backend registry.
func Register(provider gpucontext.DeviceProvider) {
	backend.Register(backend.BackendNative, func() (*gfx.Device, error) {
		return openDevice(provider)
	})
}
