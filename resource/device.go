package resource

import (
	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
	"github.com/gogpu/gpunode/node"
)

type devicesKey struct{}

// WithDevices makes p the device provider of ctx and all contexts derived
// from it.
func WithDevices(ctx *node.Context, p *handle.Provider[*gfx.Device]) {
	ctx.Set(devicesKey{}, p)
}

// AcquireDevice acquires a device handle from the provider of ctx. Without
// a provider the handle fails with ErrNoDevice.
func AcquireDevice(ctx *node.Context) *handle.Handle[*gfx.Device] {
	if ctx != nil {
		if p, ok := node.ValueOf[*handle.Provider[*gfx.Device]](ctx, devicesKey{}); ok && p != nil {
			return p.Acquire()
		}
	}
	return handle.Unavailable[*gfx.Device](ErrNoDevice)
}
