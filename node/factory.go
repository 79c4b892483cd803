package node

import (
	"fmt"
	"sort"
)

// Factory is a registry of node descriptions, looked up by name.
//
// Example:
//
//	f := node.NewFactory()
//	_ = f.Register(doublerDesc)
//	n, err := f.Create("Doubler", node.NewContext(1))
type Factory struct {
	entries map[string]Descriptor
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{entries: make(map[string]Descriptor)}
}

// Register adds descriptions. Registration stops at the first name that is
// already taken.
func (f *Factory) Register(descs ...Descriptor) error {
	for _, d := range descs {
		if _, ok := f.entries[d.Name()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, d.Name())
		}
		f.entries[d.Name()] = d
	}
	return nil
}

// Lookup returns the description registered under name.
func (f *Factory) Lookup(name string) (Descriptor, bool) {
	d, ok := f.entries[name]
	return d, ok
}

// Descriptions returns all descriptions sorted by category, then name.
func (f *Factory) Descriptions() []Descriptor {
	out := make([]Descriptor, 0, len(f.entries))
	for _, d := range f.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category() != out[j].Category() {
			return out[i].Category() < out[j].Category()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Create instantiates the description registered under name.
func (f *Factory) Create(name string, ctx *Context) (Node, error) {
	d, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return d.CreateInstance(ctx)
}
