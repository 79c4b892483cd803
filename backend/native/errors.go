package native

import "errors"

// Package errors for the HAL backend.
var (
	// ErrNilHALDevice is returned when creating a backend without a device.
	ErrNilHALDevice = errors.New("native: device is nil")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL types.
	ErrNoHALProvider = errors.New("native: provider does not expose HAL types")

	// ErrForeignHandle is returned when a handle was not created by this
	// backend.
	ErrForeignHandle = errors.New("native: handle not created by this backend")
)
