package node

import (
	"reflect"
	"slices"

	"github.com/gogpu/gpunode/diag"
)

// MultipleParentsWarning is posted while a component is attached to more
// than one parent.
const MultipleParentsWarning = "Component should only be connected to one Entity."

// Enabler is implemented by components that can be switched off.
type Enabler interface {
	Enabled() bool
	SetEnabled(on bool)
}

// ParentTracker keeps track of the parents a component is attached to and
// performs the actual attach and detach calls.
type ParentTracker[P comparable, C any] struct {
	component C
	attach    func(P, C)
	detach    func(P, C)
	parents   []P

	warning   bool
	onWarning func(on bool)
}

func newParentTracker[P comparable, C any](c C, attach, detach func(P, C)) *ParentTracker[P, C] {
	return &ParentTracker[P, C]{component: c, attach: attach, detach: detach}
}

// Component returns the tracked component.
func (t *ParentTracker[P, C]) Component() C { return t.component }

// Parents returns the current parents in attach order.
func (t *ParentTracker[P, C]) Parents() []P { return slices.Clone(t.parents) }

// Warning reports whether the component currently has more than one parent.
func (t *ParentTracker[P, C]) Warning() bool { return t.warning }

// Attach adds the component to parent. Attaching twice to the same parent
// is a no-op.
func (t *ParentTracker[P, C]) Attach(parent P) {
	if slices.Contains(t.parents, parent) {
		return
	}
	t.parents = append(t.parents, parent)
	t.attach(parent, t.component)
	t.refresh()
}

// Detach removes the component from parent.
func (t *ParentTracker[P, C]) Detach(parent P) {
	i := slices.Index(t.parents, parent)
	if i < 0 {
		return
	}
	t.parents = slices.Delete(t.parents, i, i+1)
	t.detach(parent, t.component)
	t.refresh()
}

// DetachAll removes the component from every parent, last attached first.
func (t *ParentTracker[P, C]) DetachAll() {
	for len(t.parents) > 0 {
		t.Detach(t.parents[len(t.parents)-1])
	}
}

func (t *ParentTracker[P, C]) refresh() {
	on := len(t.parents) > 1
	if on == t.warning {
		return
	}
	t.warning = on
	if t.onWarning != nil {
		t.onWarning(on)
	}
}

// Attachments maps live components to their trackers so that parent
// nodes can find the tracker of a component they receive on a pin.
type Attachments struct {
	trackers map[any]any
}

func newAttachments() *Attachments {
	return &Attachments{trackers: make(map[any]any)}
}

// Len returns the number of registered components.
func (a *Attachments) Len() int { return len(a.trackers) }

func (a *Attachments) register(component, tracker any) { a.trackers[component] = tracker }
func (a *Attachments) unregister(component any)        { delete(a.trackers, component) }

func (a *Attachments) lookup(component any) (any, bool) {
	t, ok := a.trackers[component]
	return t, ok
}

// TrackerFor returns the tracker registered for component c.
func TrackerFor[P comparable, C comparable](ctx *Context, c C) (*ParentTracker[P, C], bool) {
	t, ok := ctx.Attachments().lookup(c)
	if !ok {
		return nil, false
	}
	tracker, ok := t.(*ParentTracker[P, C])
	return tracker, ok
}

// NewComponentNode describes a mutate-in-place node wrapping a component
// of type C that parents of type P attach through its ParentTracker.
//
// The tracker is registered with the context's Attachments on construction
// and removed on disposal. While the component has more than one parent a
// MultipleParentsWarning is posted for every element id on the node path.
func NewComponentNode[C comparable, P comparable](category string, newComponent func() C, attach, detach func(P, C)) *Description[C] {
	return New(typeName(reflect.TypeFor[C]()),
		func(ctx *Context) (C, func(), error) {
			c := newComponent()
			tracker := newParentTracker(c, attach, detach)

			var messages []diag.Message
			toggle := func(on bool) {
				if messages == nil {
					messages = make([]diag.Message, 0, len(ctx.Path))
					for _, id := range ctx.Path {
						messages = append(messages, diag.Message{
							ElementID: id,
							Severity:  diag.SeverityWarning,
							Text:      MultipleParentsWarning,
						})
					}
				}
				sink := ctx.Sink()
				for _, m := range messages {
					sink.Toggle(m, on)
				}
			}
			tracker.onWarning = toggle

			registry := ctx.Attachments()
			registry.register(c, tracker)

			return c, func() {
				if tracker.warning {
					toggle(false)
				}
				tracker.onWarning = nil
				tracker.DetachAll()
				registry.unregister(c)
			}, nil
		},
		Category(category),
		CopyOnWrite(false),
	)
}

// WithEnabledPin adds the input "Enabled" (default true).
func WithEnabledPin[C Enabler](d *Description[C]) *Description[C] {
	return d.With(Input("Enabled",
		func(c C) bool { return c.Enabled() },
		func(c C, on bool) { c.SetEnabled(on) },
		Default(true),
	))
}
