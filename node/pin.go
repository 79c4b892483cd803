package node

import (
	"fmt"
	"reflect"
)

// Pin is the untyped surface of a pin used by hosting graphs for generic
// wiring. SetValue applies the same equality and dirty semantics as a typed
// write and panics on output pins and on values of the wrong type.
type Pin interface {
	Name() string
	Type() reflect.Type
	Value() any
	SetValue(v any)
}

// TypedPin is the statically typed surface of a pin.
type TypedPin[V any] interface {
	Pin
	Get() V
	Set(v V)
}

// PinDescriptor describes a pin independently of any node.
type PinDescriptor interface {
	Name() string
	Type() reflect.Type
	// Default returns the declared default value, or nil.
	Default() any
	IsInput() bool
}

// boundPin is a pin materialized for one node.
type boundPin[T any] interface {
	Pin
	// rebind is called after a copy-on-write rebuild placed inst in the
	// node's slot.
	rebind(inst T)
}

// PinDescription is a pin descriptor for nodes wrapping T.
type PinDescription[T any] struct {
	name  string
	typ   reflect.Type
	def   any
	input bool
	bind  func(n *instance[T]) boundPin[T]
}

// Name returns the display name.
func (p PinDescription[T]) Name() string { return p.name }

// Type returns the pin's value type.
func (p PinDescription[T]) Type() reflect.Type { return p.typ }

// Default returns the declared default value, or nil.
func (p PinDescription[T]) Default() any { return p.def }

// IsInput reports whether the pin is an input.
func (p PinDescription[T]) IsInput() bool { return p.input }

// InputOption configures an input pin.
type InputOption[V any] func(*inputConfig[V])

type inputConfig[V any] struct {
	equal      func(a, b V) bool
	def        V
	hasDefault bool
}

// Default sets the pin's initial value. It is applied to every new
// instance and replaces nil writes. Without a default the initial value is
// read from the freshly constructed instance.
func Default[V any](v V) InputOption[V] {
	return func(c *inputConfig[V]) {
		c.def = v
		c.hasDefault = true
	}
}

// Equal sets the comparer deciding whether a write changes the pin.
func Equal[V any](equal func(a, b V) bool) InputOption[V] {
	return func(c *inputConfig[V]) { c.equal = equal }
}

// Input declares an input pin bound to a property of T.
func Input[T, V any](name string, get func(T) V, set func(T, V), opts ...InputOption[V]) PinDescription[T] {
	cfg := inputConfig[V]{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.equal == nil {
		cfg.equal = defaultEqual[V]()
	}
	p := PinDescription[T]{
		name:  displayName(name),
		typ:   reflect.TypeFor[V](),
		input: true,
	}
	if cfg.hasDefault {
		p.def = cfg.def
	}
	p.bind = func(n *instance[T]) boundPin[T] {
		initial := cfg.def
		if !cfg.hasDefault {
			initial = get(n.inst)
		}
		pin := &inputPin[T, V]{
			node:    n,
			name:    p.name,
			get:     get,
			set:     set,
			equal:   cfg.equal,
			initial: initial,
			last:    initial,
			applied: initial,
		}
		set(n.inst, initial)
		return pin
	}
	return p
}

// Output declares an output pin reading a property of T.
func Output[T, V any](name string, get func(T) V) PinDescription[T] {
	p := PinDescription[T]{name: displayName(name), typ: reflect.TypeFor[V]()}
	p.bind = func(n *instance[T]) boundPin[T] {
		return &outputPin[T, V]{node: n, name: p.name, get: get}
	}
	return p
}

// CachedOutput declares an output pin that memoizes its value and calls get
// again only after an update pass ran.
func CachedOutput[T, V any](name string, get func(T) V) PinDescription[T] {
	p := PinDescription[T]{name: displayName(name), typ: reflect.TypeFor[V]()}
	p.bind = func(n *instance[T]) boundPin[T] {
		return &cachedOutputPin[T, V]{
			outputPin: outputPin[T, V]{node: n, name: p.name, get: get},
			cached:    get(n.inst),
			gen:       n.generation,
		}
	}
	return p
}

// ContextCachedOutput is CachedOutput with access to the node's context.
func ContextCachedOutput[T, V any](name string, get func(*Context, T) V) PinDescription[T] {
	p := PinDescription[T]{name: displayName(name), typ: reflect.TypeFor[V]()}
	p.bind = func(n *instance[T]) boundPin[T] {
		g := func(x T) V { return get(n.ctx, x) }
		return &cachedOutputPin[T, V]{
			outputPin: outputPin[T, V]{node: n, name: p.name, get: g},
			cached:    g(n.inst),
			gen:       n.generation,
		}
	}
	return p
}

type inputPin[T, V any] struct {
	node  *instance[T]
	name  string
	get   func(T) V
	set   func(T, V)
	equal func(a, b V) bool

	initial V
	// last is the last externally written value, before nil normalization.
	last V
	// applied is the value last handed to the setter.
	applied V
}

func (p *inputPin[T, V]) Name() string       { return p.name }
func (p *inputPin[T, V]) Type() reflect.Type { return reflect.TypeFor[V]() }
func (p *inputPin[T, V]) Value() any         { return p.Get() }

func (p *inputPin[T, V]) Get() V {
	p.node.checkAffinity()
	return p.get(p.node.inst)
}

func (p *inputPin[T, V]) Set(v V) {
	p.node.checkAffinity()
	if p.equal(v, p.last) {
		return
	}
	p.last = v
	if isNil(v) {
		v = p.initial
	}
	p.applied = v
	p.set(p.node.inst, v)
	p.node.needsUpdate = true
}

// SetValue(nil) restores the default even when V has no nil value.
func (p *inputPin[T, V]) SetValue(v any) {
	if v == nil {
		p.Set(p.initial)
		return
	}
	p.Set(cast[V](p.name, v))
}

func (p *inputPin[T, V]) rebind(inst T) {
	p.set(inst, p.applied)
}

type outputPin[T, V any] struct {
	node *instance[T]
	name string
	get  func(T) V
}

func (p *outputPin[T, V]) Name() string       { return p.name }
func (p *outputPin[T, V]) Type() reflect.Type { return reflect.TypeFor[V]() }
func (p *outputPin[T, V]) Value() any         { return p.Get() }

func (p *outputPin[T, V]) Get() V {
	p.node.checkAffinity()
	p.node.sync()
	return p.get(p.node.inst)
}

func (p *outputPin[T, V]) Set(V) {
	panic(fmt.Errorf("%w: %q", ErrOutputWrite, p.name))
}

func (p *outputPin[T, V]) SetValue(any) {
	panic(fmt.Errorf("%w: %q", ErrOutputWrite, p.name))
}

func (p *outputPin[T, V]) rebind(T) {}

type cachedOutputPin[T, V any] struct {
	outputPin[T, V]
	cached V
	gen    uint64
}

func (p *cachedOutputPin[T, V]) Value() any { return p.Get() }

func (p *cachedOutputPin[T, V]) Get() V {
	p.node.checkAffinity()
	p.node.sync()
	if p.gen != p.node.generation {
		p.cached = p.get(p.node.inst)
		p.gen = p.node.generation
	}
	return p.cached
}

// cast converts an untyped pin write. nil maps to the zero value.
func cast[V any](pin string, v any) V {
	if v == nil {
		var zero V
		return zero
	}
	tv, ok := v.(V)
	if !ok {
		panic(fmt.Errorf("%w: pin %q wants %s, got %T", ErrPinType, pin, reflect.TypeFor[V](), v))
	}
	return tv
}
