package patch

import "errors"

var (
	// ErrDuplicateNode is returned when two blocks share an instance name.
	ErrDuplicateNode = errors.New("patch: duplicate node name")

	// ErrUnknownPin is returned for attributes naming no input, and for
	// links naming no output.
	ErrUnknownPin = errors.New("patch: unknown pin")

	// ErrUnknownNode is returned for links to undeclared nodes.
	ErrUnknownNode = errors.New("patch: unknown node")

	// ErrForwardLink is returned for links to the node itself or to a node
	// declared after it.
	ErrForwardLink = errors.New("patch: link to a later node")

	// ErrLinkType is returned when a link source cannot feed its target.
	ErrLinkType = errors.New("patch: link type mismatch")

	// ErrValue is returned when a literal cannot be converted to the pin
	// type.
	ErrValue = errors.New("patch: invalid value")
)
