// Package node turns arbitrary instance types into dataflow graph nodes.
//
// A Description[T] lists the input and output pins of a node type and how
// to construct its instance. CreateInstance materializes a Node whose pins
// are bound to the instance through getter/setter closures generated when
// the description is built; no reflection is involved in pin access.
//
// # Dirty tracking
//
// Writing an input pin compares the value with the last written one. An
// unequal write applies the setter immediately and marks the node dirty.
// The next read of any output pin runs one update pass:
//
//   - mutate-in-place nodes clear the flag, the instance already holds the
//     new values;
//   - copy-on-write nodes construct a fresh instance and re-apply the last
//     value of every input onto it in declaration order.
//
// Reads are therefore not pure: reading an output may rebuild the instance.
// Repeated reads without writes return the same values.
//
// # Errors
//
// Writing an output pin, or writing a value of the wrong type through the
// untyped surface, is a programming error and panics. A failing constructor
// surfaces as an error from CreateInstance wrapping ErrConstruct.
//
// Nodes are not safe for concurrent use. See SetStrictAffinity.
package node
