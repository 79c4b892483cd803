// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package handle provides lazily resolved, reference counted resource handles.
//
// A Provider owns an expensive, externally created resource such as a
// graphics device. Nodes acquire a Handle once at construction and dispose
// it once when they are disposed. The provider opens the resource on the
// first resolution and closes it when the last handle is disposed.
//
// Providers and handles are not safe for concurrent use; they are meant to
// be driven from the host's update loop.
package handle

import "errors"

var (
	// ErrDisposed is returned when resolving a handle after Dispose.
	ErrDisposed = errors.New("handle: handle disposed")

	// ErrUnavailable is returned by handles that have no provider.
	ErrUnavailable = errors.New("handle: resource unavailable")
)

// Provider hands out handles to a single shared resource.
type Provider[T any] struct {
	open  func() (T, error)
	close func(T)

	refs   int
	opened bool
	value  T
}

// NewProvider creates a provider. open is called lazily on the first
// resolution; close (optional) is called when the last handle is disposed.
// A failed open is not cached, the next resolution tries again.
func NewProvider[T any](open func() (T, error), close func(T)) *Provider[T] {
	return &Provider[T]{open: open, close: close}
}

// Static returns a provider for an already existing value that is never closed.
func Static[T any](v T) *Provider[T] {
	return NewProvider(func() (T, error) { return v, nil }, nil)
}

// Acquire returns a new handle and increments the reference count.
func (p *Provider[T]) Acquire() *Handle[T] {
	p.refs++
	return &Handle[T]{provider: p}
}

// Refs returns the number of live handles.
func (p *Provider[T]) Refs() int { return p.refs }

// IsOpen reports whether the resource is currently open.
func (p *Provider[T]) IsOpen() bool { return p.opened }

func (p *Provider[T]) resolve() (T, error) {
	if !p.opened {
		v, err := p.open()
		if err != nil {
			var zero T
			return zero, err
		}
		p.value = v
		p.opened = true
	}
	return p.value, nil
}

func (p *Provider[T]) release() {
	p.refs--
	if p.refs > 0 || !p.opened {
		return
	}
	v := p.value
	var zero T
	p.value = zero
	p.opened = false
	if p.close != nil {
		p.close(v)
	}
}

// Handle is one scoped reference to a provider's resource.
type Handle[T any] struct {
	provider *Provider[T]
	err      error
	disposed bool
}

// Unavailable returns a handle that always fails with err,
// or ErrUnavailable when err is nil.
func Unavailable[T any](err error) *Handle[T] {
	if err == nil {
		err = ErrUnavailable
	}
	return &Handle[T]{err: err}
}

// Resource resolves the resource, opening it if needed.
func (h *Handle[T]) Resource() (T, error) {
	var zero T
	if h.disposed {
		return zero, ErrDisposed
	}
	if h.provider == nil {
		return zero, h.err
	}
	return h.provider.resolve()
}

// Dispose releases the reference. It is idempotent.
func (h *Handle[T]) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true
	if h.provider != nil {
		h.provider.release()
	}
}
