// Package backend is the registry of graphics device backends.
//
// # Backend Registration
//
// Backends register a Factory under a name. The memory backend is
// registered on import; the native backend is registered by the host once
// it can share a HAL device:
//
//	native.Register(app) // app implements gpucontext.DeviceProvider
//
// # Backend Selection
//
// Use Default to get the best available backend name, Open to create a
// device, or Provider to open it lazily from node contexts:
//
//	resource.WithDevices(ctx, backend.Provider(""))
//
// # Available Backends
//
//   - "memory": host memory textures (always available)
//   - "native": gogpu/wgpu HAL textures
package backend
