// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package resource rebuilds GPU resources lazily from descriptions and
// initial data.
//
// A TextureBuilder holds a texture description, a view description and a
// list of data providers. Setting any of them marks the builder dirty; the
// next Texture call pins every provider, creates the texture and releases
// the pins again, whether the creation succeeded or not. Failures never
// escape the accessor: Texture returns nil and Err tells why.
//
// Pinning is scoped to a single rebuild. A Pinner fixes the address of a
// Go slice or image with runtime.Pinner for exactly as long as the native
// call needs it.
package resource
