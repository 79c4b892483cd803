package resource

import (
	"errors"

	"github.com/gogpu/gpunode/gfx"
)

var (
	// ErrIncompatibleView is recorded when a view format cannot
	// reinterpret the source texture format.
	ErrIncompatibleView = gfx.ErrIncompatibleView

	// ErrNoDevice is returned by device handles of contexts without a
	// device provider.
	ErrNoDevice = errors.New("resource: no graphics device in node context")

	// ErrNativePanic wraps panics recovered from the native layer.
	ErrNativePanic = errors.New("resource: native layer panicked")
)
