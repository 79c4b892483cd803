package node

import "errors"

var (
	// ErrConstruct wraps errors returned by an instance constructor.
	ErrConstruct = errors.New("node: instance construction failed")

	// ErrOutputWrite is the panic value for writes to output pins.
	ErrOutputWrite = errors.New("node: output pins are read-only")

	// ErrPinType is the panic value for untyped writes of the wrong type.
	ErrPinType = errors.New("node: value type does not match pin type")

	// ErrAffinity is the panic value for pin access from a goroutine other
	// than the one that created the node, when strict affinity is enabled.
	ErrAffinity = errors.New("node: pin accessed off the update loop")

	// ErrDuplicate is returned when registering a description name twice.
	ErrDuplicate = errors.New("node: description already registered")

	// ErrUnknown is returned when looking up an unregistered description.
	ErrUnknown = errors.New("node: unknown description")
)
