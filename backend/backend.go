package backend

import (
	"errors"

	"github.com/gogpu/gpunode/gfx"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendMemory is the name of the in-memory backend. It keeps texture
	// data in host memory and is always registered.
	BackendMemory = "memory"
	// BackendNative is the name of the gogpu/wgpu HAL backend. It is
	// registered by native.Register once the host shares its device.
	BackendNative = "native"
)

// Factory opens a device.
type Factory func() (*gfx.Device, error)

// init registers the memory backend on package import.
func init() {
	Register(BackendMemory, func() (*gfx.Device, error) {
		return gfx.NewDevice(gfx.NewMemoryBackend(), BackendMemory), nil
	})
}
