package gfx

import "errors"

var (
	// ErrInvalidSize is returned for textures with a zero extent.
	ErrInvalidSize = errors.New("gfx: invalid texture size")

	// ErrInvalidFormat is returned for textures without a pixel format.
	ErrInvalidFormat = errors.New("gfx: invalid pixel format")

	// ErrIncompatibleView is returned when a view format cannot reinterpret
	// the texture format.
	ErrIncompatibleView = errors.New("gfx: incompatible view format")

	// ErrTooManyBoxes is returned when more data boxes than subresources
	// are supplied.
	ErrTooManyBoxes = errors.New("gfx: more data boxes than subresources")

	// ErrTextureDestroyed is returned when deriving a view from a destroyed
	// texture.
	ErrTextureDestroyed = errors.New("gfx: texture has been destroyed")

	// ErrNilBackend is returned by devices created without a backend.
	ErrNilBackend = errors.New("gfx: backend is nil")
)
