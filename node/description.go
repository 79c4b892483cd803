package node

import (
	"fmt"
	"reflect"
)

// Constructor creates an instance for a node placement. The returned
// disposer (may be nil) releases whatever the constructor acquired besides
// the instance itself.
type Constructor[T any] func(ctx *Context) (T, func(), error)

// Func adapts a plain factory function into a Constructor. The init
// functions run on every new instance, in order.
func Func[T any](newT func() T, init ...func(T)) Constructor[T] {
	return func(*Context) (T, func(), error) {
		v := newT()
		for _, fn := range init {
			fn(v)
		}
		return v, nil, nil
	}
}

// ReplacedPolicy decides what happens to the instance a copy-on-write node
// discards during an update pass.
type ReplacedPolicy int

const (
	// KeepReplaced leaves replaced instances and their disposers alone.
	// Engine objects that may still be referenced by the render loop are
	// not torn down mid-frame; the garbage collector reclaims them.
	KeepReplaced ReplacedPolicy = iota

	// DisposeReplaced tears the replaced instance down and runs its
	// disposer right after the new instance took its place.
	DisposeReplaced
)

// String returns the policy name.
func (p ReplacedPolicy) String() string {
	switch p {
	case KeepReplaced:
		return "keep"
	case DisposeReplaced:
		return "dispose"
	default:
		return fmt.Sprintf("ReplacedPolicy(%d)", int(p))
	}
}

// Option configures a Description.
type Option func(*options)

type options struct {
	category    string
	copyOnWrite bool
	stateOutput bool
	replaced    ReplacedPolicy
}

func defaultOptions() options {
	return options{
		copyOnWrite: true,
		stateOutput: true,
		replaced:    KeepReplaced,
	}
}

// Category sets the category the node is listed under.
func Category(category string) Option {
	return func(o *options) { o.category = category }
}

// CopyOnWrite selects the update policy. With true (the default) every
// update pass rebuilds the instance; with false the instance is mutated in
// place and owned by the node.
func CopyOnWrite(on bool) Option {
	return func(o *options) { o.copyOnWrite = on }
}

// StateOutput controls whether the instance itself is exposed as the first
// output, named "Output". Enabled by default.
func StateOutput(on bool) Option {
	return func(o *options) { o.stateOutput = on }
}

// Replaced sets the policy for instances discarded by copy-on-write updates.
func Replaced(policy ReplacedPolicy) Option {
	return func(o *options) { o.replaced = policy }
}

// Descriptor is the type-erased view of a Description used by factories
// and hosting graphs.
type Descriptor interface {
	Name() string
	Category() string
	Inputs() []PinDescriptor
	Outputs() []PinDescriptor
	CopyOnWrite() bool
	HasStateOutput() bool
	CreateInstance(ctx *Context) (Node, error)
}

// Description describes a node type wrapping instances of T.
//
// A description is built once, with New and With, and then shared by all
// nodes of that type. Pin order is the pin identity and must not change
// after the first CreateInstance.
type Description[T any] struct {
	name string
	ctor Constructor[T]
	opts options

	inputs  []PinDescription[T]
	outputs []PinDescription[T]
}

// New creates a description. An empty name defaults to the name of T.
func New[T any](name string, ctor Constructor[T], opts ...Option) *Description[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if name == "" {
		name = typeName(reflect.TypeFor[T]())
	}
	d := &Description[T]{name: name, ctor: ctor, opts: o}
	if o.stateOutput {
		d.With(Output("Output", func(x T) T { return x }))
	}
	return d
}

// With appends pins. Inputs and outputs keep their relative order.
func (d *Description[T]) With(pins ...PinDescription[T]) *Description[T] {
	for _, p := range pins {
		if p.input {
			d.inputs = append(d.inputs, p)
		} else {
			d.outputs = append(d.outputs, p)
		}
	}
	return d
}

// Name returns the node name.
func (d *Description[T]) Name() string { return d.name }

// Category returns the node category.
func (d *Description[T]) Category() string { return d.opts.category }

// CopyOnWrite reports the update policy.
func (d *Description[T]) CopyOnWrite() bool { return d.opts.copyOnWrite }

// HasStateOutput reports whether the instance is exposed as an output.
func (d *Description[T]) HasStateOutput() bool { return d.opts.stateOutput }

// ReplacedPolicy returns the policy for replaced copy-on-write instances.
func (d *Description[T]) ReplacedPolicy() ReplacedPolicy { return d.opts.replaced }

// Inputs returns the input pin descriptors in declaration order.
func (d *Description[T]) Inputs() []PinDescriptor { return descriptors(d.inputs) }

// Outputs returns the output pin descriptors in declaration order.
func (d *Description[T]) Outputs() []PinDescriptor { return descriptors(d.outputs) }

// CreateInstance constructs the instance and materializes every pin.
// All inputs are applied to the instance before CreateInstance returns.
func (d *Description[T]) CreateInstance(ctx *Context) (Node, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	inst, disposer, err := d.ctor(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConstruct, d.name, err)
	}
	return newInstance(d, ctx, inst, disposer), nil
}

func descriptors[T any](pins []PinDescription[T]) []PinDescriptor {
	out := make([]PinDescriptor, len(pins))
	for i := range pins {
		out[i] = pins[i]
	}
	return out
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}
