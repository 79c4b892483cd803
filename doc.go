// Package gpunode bridges GPU resources into a dataflow graph.
//
// # Overview
//
// A graph node wraps an instance of some engine type (a texture builder, a
// description struct, a render component). Its pins are bound to the
// instance's properties. Writing an input pin marks the node dirty; the next
// read of any output runs an update pass that either keeps the mutated
// instance or rebuilds a fresh one from the cached input values.
//
// GPU resources derived from value-typed descriptions are rebuilt lazily by
// resource builders. Upload data is pinned to a stable address for the
// duration of a single native call and always released afterwards.
//
// # Packages
//
//   - node: descriptions, pins, dirty tracking, update policies, factory
//   - resource: pinning, data providers, texture and texture view builders
//   - gfx: pixel formats, descriptions, devices, textures and views
//   - backend: registry of device backends (memory, native)
//   - backend/native: gfx backend on top of gogpu/wgpu/hal
//   - nodes: graphics node catalogue
//   - diag: diagnostics messages posted by nodes
//   - handle: lazily resolved, reference counted resource handles
//
// # Threading
//
// Everything runs on the host's update loop. Nothing in node or resource
// locks; see node.SetStrictAffinity for a debug check.
package gpunode

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
