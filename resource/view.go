package resource

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
	"github.com/gogpu/gpunode/node"
)

// TextureViewBuilder owns a view of an input texture, rebuilt lazily when
// the input or the view description changes. The view is owned by the
// input texture: destroying the texture destroys the view, and the builder
// notices and rebuilds on the next read.
//
// TextureViewBuilder is not safe for concurrent use.
type TextureViewBuilder struct {
	// Recreate forces a rebuild on every TextureView call while set.
	Recreate bool

	input           *gfx.Texture
	viewDescription gfx.TextureViewDescription
	needsRebuild    bool

	view   *gfx.TextureView
	cancel func()
	err    error
	builds int

	device *handle.Handle[*gfx.Device]
	log    *slog.Logger
}

// NewTextureViewBuilder creates a view builder. The device handle of ctx
// is held until Dispose.
func NewTextureViewBuilder(ctx *node.Context) *TextureViewBuilder {
	if ctx == nil {
		ctx = node.NewContext()
	}
	return &TextureViewBuilder{
		needsRebuild: true,
		device:       AcquireDevice(ctx),
		log:          ctx.Logger(),
	}
}

// Input returns the source texture.
func (b *TextureViewBuilder) Input() *gfx.Texture { return b.input }

// SetInput sets the source texture and marks the builder dirty.
func (b *TextureViewBuilder) SetInput(tex *gfx.Texture) {
	b.input = tex
	b.needsRebuild = true
}

// ViewDescription returns the view description.
func (b *TextureViewBuilder) ViewDescription() gfx.TextureViewDescription { return b.viewDescription }

// SetViewDescription sets the view description and marks the builder dirty.
func (b *TextureViewBuilder) SetViewDescription(d gfx.TextureViewDescription) {
	b.viewDescription = d
	b.needsRebuild = true
}

// TextureView returns the view, rebuilding it first if needed. It returns
// nil without an input, for incompatible formats, and after failures.
func (b *TextureViewBuilder) TextureView() *gfx.TextureView {
	if b.needsRebuild || b.Recreate {
		b.rebuild()
		b.needsRebuild = false
	}
	return b.view
}

// Err returns the error of the last build, or nil.
func (b *TextureViewBuilder) Err() error { return b.err }

// Builds returns the number of rebuilds so far.
func (b *TextureViewBuilder) Builds() int { return b.builds }

// Dispose destroys the view and releases the device.
func (b *TextureViewBuilder) Dispose() {
	b.release()
	b.device.Dispose()
}

func (b *TextureViewBuilder) release() {
	if b.view == nil {
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	v := b.view
	b.view, b.cancel = nil, nil
	v.Destroy()
}

func (b *TextureViewBuilder) rebuild() {
	b.builds++
	b.err = nil

	defer func() {
		if r := recover(); r != nil {
			b.view, b.cancel = nil, nil
			b.err = fmt.Errorf("%w: %v", ErrNativePanic, r)
			b.log.Warn("resource: texture view rebuild panicked", "panic", r)
		}
	}()

	b.release()

	tex := b.input
	if tex == nil {
		return
	}
	if !gfx.ViewCompatible(tex.Format(), b.viewDescription.Format) {
		b.err = fmt.Errorf("%w: view %s on texture %s", ErrIncompatibleView, b.viewDescription.Format, tex.Format())
		b.log.Debug("resource: texture view skipped", "err", b.err)
		return
	}
	if _, err := b.device.Resource(); err != nil {
		b.err = err
		return
	}

	view, err := tex.NewView(b.viewDescription)
	if err != nil {
		b.err = err
		b.log.Debug("resource: texture view rebuild failed", "err", err)
		return
	}
	b.view = view
	b.cancel = view.OnDestroyed(func() {
		if b.view == view {
			b.view, b.cancel = nil, nil
			b.needsRebuild = true
		}
	})
}
