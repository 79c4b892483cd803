package node

import "reflect"

// StructRef boxes a value type so that a node can mutate it in place.
type StructRef[S any] struct {
	V S
}

// NewStructNode describes a mutate-in-place node around a value of type S.
// The node has no outputs until AddStateOutput or With adds some.
func NewStructNode[S any](name, category string, initial S) *Description[*StructRef[S]] {
	if name == "" {
		name = typeName(reflect.TypeFor[S]())
	}
	return New(name,
		func(*Context) (*StructRef[S], func(), error) {
			return &StructRef[S]{V: initial}, nil, nil
		},
		Category(category),
		CopyOnWrite(false),
		StateOutput(false),
	)
}

// AddStateOutput adds the output "Output" returning a copy of the value.
func AddStateOutput[S any](d *Description[*StructRef[S]]) *Description[*StructRef[S]] {
	return d.With(Output("Output", func(r *StructRef[S]) S { return r.V }))
}
