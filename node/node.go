package node

import (
	"fmt"
	"io"
	"strings"
)

// Node is one placement of a node type in a graph.
type Node interface {
	Description() Descriptor
	Context() *Context
	Inputs() []Pin
	Outputs() []Pin

	// NeedsUpdate reports whether an input changed since the last update pass.
	NeedsUpdate() bool

	// Update runs the update pass if the node is dirty. Output reads call
	// it implicitly.
	Update()

	// Err returns the error of the last failed copy-on-write rebuild, or nil.
	Err() error

	// Dispose releases the node. It is idempotent.
	Dispose()
}

// instance is the Node implementation for instances of T. It owns the only
// slot holding the current instance; pins read through it.
type instance[T any] struct {
	desc *Description[T]
	ctx  *Context

	inst     T
	disposer func()

	inputs  []boundPin[T]
	outputs []boundPin[T]

	needsUpdate bool
	// generation counts update passes; cached outputs compare against it.
	generation uint64

	update  func()
	dispose func()

	disposed bool
	err      error
	owner    int64
}

func newInstance[T any](d *Description[T], ctx *Context, inst T, disposer func()) *instance[T] {
	n := &instance[T]{
		desc:     d,
		ctx:      ctx,
		inst:     inst,
		disposer: disposer,
		owner:    currentOwner(),
	}

	n.inputs = make([]boundPin[T], len(d.inputs))
	for i, p := range d.inputs {
		n.inputs[i] = p.bind(n)
	}
	n.outputs = make([]boundPin[T], len(d.outputs))
	for i, p := range d.outputs {
		n.outputs[i] = p.bind(n)
	}

	if d.opts.copyOnWrite {
		n.update = n.rebuild
		n.dispose = n.disposeCopyOnWrite
	} else {
		n.update = n.commit
		n.dispose = n.disposeOwned
	}
	return n
}

func (n *instance[T]) Description() Descriptor { return n.desc }
func (n *instance[T]) Context() *Context       { return n.ctx }
func (n *instance[T]) NeedsUpdate() bool       { return n.needsUpdate }
func (n *instance[T]) Err() error              { return n.err }

func (n *instance[T]) Inputs() []Pin  { return pins(n.inputs) }
func (n *instance[T]) Outputs() []Pin { return pins(n.outputs) }

func (n *instance[T]) Update() {
	if n.disposed {
		return
	}
	n.update()
}

func (n *instance[T]) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.dispose()
}

// sync runs the pending update pass before an output read.
func (n *instance[T]) sync() {
	if n.needsUpdate {
		n.Update()
	}
}

// commit is the mutate-in-place update: the setters already ran.
func (n *instance[T]) commit() {
	if !n.needsUpdate {
		return
	}
	n.needsUpdate = false
	n.generation++
}

// rebuild is the copy-on-write update.
func (n *instance[T]) rebuild() {
	if !n.needsUpdate {
		return
	}
	n.needsUpdate = false
	n.generation++

	inst, disposer, err := n.desc.ctor(n.ctx)
	if err != nil {
		n.err = fmt.Errorf("%w: %s: %w", ErrConstruct, n.desc.name, err)
		n.ctx.Logger().Warn("node: copy-on-write rebuild failed, keeping previous instance",
			"node", n.desc.name, "err", err)
		return
	}
	n.err = nil

	for _, p := range n.inputs {
		p.rebind(inst)
	}

	old, oldDisposer := n.inst, n.disposer
	n.inst, n.disposer = inst, disposer
	for _, p := range n.outputs {
		p.rebind(inst)
	}

	if n.desc.opts.replaced == DisposeReplaced {
		teardown(n.ctx, old)
		if oldDisposer != nil {
			oldDisposer()
		}
	}
}

func (n *instance[T]) disposeOwned() {
	teardown(n.ctx, n.inst)
	if n.disposer != nil {
		n.disposer()
	}
}

func (n *instance[T]) disposeCopyOnWrite() {
	if n.desc.opts.replaced == DisposeReplaced {
		teardown(n.ctx, n.inst)
	}
	if n.disposer != nil {
		n.disposer()
	}
}

// teardown runs the instance's own cleanup: Dispose() or Close() error.
func teardown(ctx *Context, v any) {
	switch x := v.(type) {
	case interface{ Dispose() }:
		x.Dispose()
	case io.Closer:
		if err := x.Close(); err != nil {
			ctx.Logger().Warn("node: instance close failed", "err", err)
		}
	}
}

func pins[T any](bound []boundPin[T]) []Pin {
	out := make([]Pin, len(bound))
	for i, p := range bound {
		out[i] = p
	}
	return out
}

// InstanceOf returns the instance currently wrapped by n.
// It reports false if n does not wrap a T.
func InstanceOf[T any](n Node) (T, bool) {
	in, ok := n.(*instance[T])
	if !ok {
		var zero T
		return zero, false
	}
	return in.inst, true
}

// InputAt returns the i-th input pin with its static type.
func InputAt[V any](n Node, i int) (TypedPin[V], bool) {
	return typedAt[V](n.Inputs(), i)
}

// OutputAt returns the i-th output pin with its static type.
func OutputAt[V any](n Node, i int) (TypedPin[V], bool) {
	return typedAt[V](n.Outputs(), i)
}

func typedAt[V any](ps []Pin, i int) (TypedPin[V], bool) {
	if i < 0 || i >= len(ps) {
		return nil, false
	}
	p, ok := ps[i].(TypedPin[V])
	return p, ok
}

// FindInput looks an input pin up by name. Spaces and case are ignored, so
// "ViewDescription" finds "View Description".
func FindInput(n Node, name string) (Pin, bool) { return find(n.Inputs(), name) }

// FindOutput looks an output pin up by name, ignoring spaces and case.
func FindOutput(n Node, name string) (Pin, bool) { return find(n.Outputs(), name) }

func find(ps []Pin, name string) (Pin, bool) {
	key := PinKey(name)
	for _, p := range ps {
		if PinKey(p.Name()) == key {
			return p, true
		}
	}
	return nil, false
}

// PinKey normalizes a pin name for lookups.
func PinKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}
