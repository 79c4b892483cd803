// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gfx is the graphics device abstraction underneath the resource
// builders: pixel formats, texture and view descriptions, staged upload
// data, and textures with owned views.
//
// A Device forwards native work to a Backend. The in-memory backend in this
// package is used by tests and by the command line runner; backend/native
// provides one on top of wgpu's HAL.
package gfx
