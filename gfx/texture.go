package gfx

import (
	"fmt"
	"slices"
	"sync"
)

// callbacks is a set of destroyed callbacks keyed by registration id.
type callbacks struct {
	next uint64
	fns  map[uint64]func()
}

func (c *callbacks) add(mu *sync.Mutex, fn func()) func() {
	mu.Lock()
	defer mu.Unlock()
	if c.fns == nil {
		c.fns = make(map[uint64]func())
	}
	id := c.next
	c.next++
	c.fns[id] = fn
	return func() {
		mu.Lock()
		defer mu.Unlock()
		delete(c.fns, id)
	}
}

// take returns the callbacks in registration order and clears the set.
func (c *callbacks) take() []func() {
	ids := make([]uint64, 0, len(c.fns))
	for id := range c.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(), len(ids))
	for i, id := range ids {
		out[i] = c.fns[id]
	}
	c.fns = nil
	return out
}

// Texture is a texture created by a Device. It owns its default view and
// every view derived with NewView.
type Texture struct {
	mu sync.Mutex

	device *Device
	native any
	desc   TextureDescription

	view      *TextureView
	views     []*TextureView
	destroyed bool
	onDestroy callbacks
}

// Description returns the resolved texture description.
func (t *Texture) Description() TextureDescription { return t.desc }

// Format returns the texture pixel format.
func (t *Texture) Format() PixelFormat { return t.desc.Format }

// Width returns the texture width in texels.
func (t *Texture) Width() uint32 { return t.desc.Size.Width }

// Height returns the texture height in texels.
func (t *Texture) Height() uint32 { return t.desc.Size.Height }

// Device returns the device that created the texture.
func (t *Texture) Device() *Device { return t.device }

// Native returns the backend handle.
func (t *Texture) Native() any { return t.native }

// DefaultView returns the view created together with the texture.
func (t *Texture) DefaultView() *TextureView { return t.view }

// IsDestroyed reports whether Destroy was called.
func (t *Texture) IsDestroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

// NewView creates a view owned by the texture. It is destroyed together
// with the texture.
func (t *Texture) NewView(desc TextureViewDescription) (*TextureView, error) {
	if !ViewCompatible(t.desc.Format, desc.Format) {
		return nil, fmt.Errorf("%w: view %s on texture %s", ErrIncompatibleView, desc.Format, t.desc.Format)
	}
	return t.newView(desc, false)
}

func (t *Texture) newView(desc TextureViewDescription, isDefault bool) (*TextureView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	resolved := desc.resolve(t.desc)
	native, err := t.device.backend.CreateView(t.native, t.desc, resolved)
	if err != nil {
		return nil, fmt.Errorf("gfx: create view of %q: %w", t.desc.Label, err)
	}
	v := &TextureView{texture: t, native: native, desc: resolved, isDefault: isDefault}
	t.views = append(t.views, v)
	return v, nil
}

// OnDestroyed registers fn to run when the texture is destroyed. The
// returned function cancels the registration.
func (t *Texture) OnDestroyed(fn func()) (cancel func()) {
	return t.onDestroy.add(&t.mu, fn)
}

// Destroy destroys the owned views, then the texture, then runs the
// destroyed callbacks. It is idempotent.
func (t *Texture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	views := t.views
	t.views = nil
	fns := t.onDestroy.take()
	t.mu.Unlock()

	for i := len(views) - 1; i >= 0; i-- {
		views[i].destroy()
	}
	t.device.backend.DestroyTexture(t.native)
	for _, fn := range fns {
		fn()
	}
}

func (t *Texture) forget(v *TextureView) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := slices.Index(t.views, v); i >= 0 {
		t.views = slices.Delete(t.views, i, i+1)
	}
}

// TextureView is a view of a Texture.
type TextureView struct {
	mu sync.Mutex

	texture   *Texture
	native    any
	desc      TextureViewDescription
	isDefault bool
	destroyed bool
	onDestroy callbacks
}

// Texture returns the viewed texture.
func (v *TextureView) Texture() *Texture { return v.texture }

// Description returns the resolved view description.
func (v *TextureView) Description() TextureViewDescription { return v.desc }

// Format returns the view format.
func (v *TextureView) Format() PixelFormat { return v.desc.Format }

// Native returns the backend handle.
func (v *TextureView) Native() any { return v.native }

// IsDefault reports whether this is the texture's default view.
func (v *TextureView) IsDefault() bool { return v.isDefault }

// IsDestroyed reports whether the view was destroyed.
func (v *TextureView) IsDestroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}

// OnDestroyed registers fn to run when the view is destroyed, either
// directly or together with its texture.
func (v *TextureView) OnDestroyed(fn func()) (cancel func()) {
	return v.onDestroy.add(&v.mu, fn)
}

// Destroy destroys the view. The default view lives as long as the texture
// and is not destroyed by this call. It is idempotent.
func (v *TextureView) Destroy() {
	if v.isDefault {
		return
	}
	v.texture.forget(v)
	v.destroy()
}

func (v *TextureView) destroy() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.destroyed = true
	fns := v.onDestroy.take()
	v.mu.Unlock()

	v.texture.device.backend.DestroyView(v.native)
	for _, fn := range fns {
		fn()
	}
}
