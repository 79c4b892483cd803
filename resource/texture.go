package resource

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
	"github.com/gogpu/gpunode/node"
)

// TextureBuilder owns a texture rebuilt lazily from its description, view
// description and initial data.
//
// TextureBuilder is not safe for concurrent use.
type TextureBuilder struct {
	// Recreate forces a rebuild on every Texture call while set.
	Recreate bool

	description     gfx.TextureDescription
	viewDescription gfx.TextureViewDescription
	initialData     []DataProvider
	needsRebuild    bool

	texture *gfx.Texture
	err     error
	builds  int

	device *handle.Handle[*gfx.Device]
	log    *slog.Logger

	// Staging buffers, grown to the largest provider count seen.
	pins  []PinnedData
	boxes []gfx.DataBox
}

// NewTextureBuilder creates a builder using the device of ctx. The device
// handle is held until Dispose.
func NewTextureBuilder(ctx *node.Context) *TextureBuilder {
	if ctx == nil {
		ctx = node.NewContext()
	}
	return &TextureBuilder{
		needsRebuild: true,
		device:       AcquireDevice(ctx),
		log:          ctx.Logger(),
	}
}

// Description returns the texture description.
func (b *TextureBuilder) Description() gfx.TextureDescription { return b.description }

// SetDescription sets the texture description and marks the builder dirty.
func (b *TextureBuilder) SetDescription(d gfx.TextureDescription) {
	b.description = d
	b.needsRebuild = true
}

// ViewDescription returns the description of the default view.
func (b *TextureBuilder) ViewDescription() gfx.TextureViewDescription { return b.viewDescription }

// SetViewDescription sets the default view description and marks the
// builder dirty.
func (b *TextureBuilder) SetViewDescription(d gfx.TextureViewDescription) {
	b.viewDescription = d
	b.needsRebuild = true
}

// InitialData returns the data providers.
func (b *TextureBuilder) InitialData() []DataProvider { return b.initialData }

// SetInitialData sets the data providers, one per subresource, and marks
// the builder dirty. Nil entries leave their subresource uninitialized.
func (b *TextureBuilder) SetInitialData(data []DataProvider) {
	b.initialData = data
	b.needsRebuild = true
}

// Texture returns the texture, rebuilding it first if the builder is dirty
// or Recreate is set. It returns nil if the last build failed.
func (b *TextureBuilder) Texture() *gfx.Texture {
	if b.needsRebuild || b.Recreate {
		b.rebuild()
		b.needsRebuild = false
	}
	return b.texture
}

// Err returns the error of the last build, or nil.
func (b *TextureBuilder) Err() error { return b.err }

// Builds returns the number of rebuilds so far.
func (b *TextureBuilder) Builds() int { return b.builds }

// Dispose destroys the texture and releases the device.
func (b *TextureBuilder) Dispose() {
	if b.texture != nil {
		b.texture.Destroy()
		b.texture = nil
	}
	b.device.Dispose()
}

func (b *TextureBuilder) rebuild() {
	b.builds++

	n := len(b.initialData)
	if cap(b.pins) < n {
		b.pins = make([]PinnedData, n)
		b.boxes = make([]gfx.DataBox, n)
	}
	pins, boxes := b.pins[:n], b.boxes[:n]

	defer func() {
		for i := range pins {
			pins[i].Release()
			pins[i] = PinnedData{}
		}
		clear(boxes)
		if r := recover(); r != nil {
			if b.texture != nil {
				b.texture.Destroy()
				b.texture = nil
			}
			b.err = fmt.Errorf("%w: %v", ErrNativePanic, r)
			b.log.Warn("resource: texture rebuild panicked", "label", b.description.Label, "panic", r)
		}
	}()

	desc := b.description.Resolved()
	for i, p := range b.initialData {
		if p == nil {
			continue
		}
		pins[i] = p.Pin()
		boxes[i] = stageBox(desc, i, p, pins[i])
	}

	if b.texture != nil {
		b.texture.Destroy()
		b.texture = nil
	}

	b.texture, b.err = b.create(boxes)
	if b.err != nil {
		b.log.Debug("resource: texture rebuild failed", "label", b.description.Label, "err", b.err)
		return
	}
	b.log.Debug("resource: texture rebuilt", "label", b.description.Label, "boxes", n)
}

func (b *TextureBuilder) create(boxes []gfx.DataBox) (*gfx.Texture, error) {
	dev, err := b.device.Resource()
	if err != nil {
		return nil, err
	}
	return dev.CreateTexture(b.description, b.viewDescription, boxes)
}

// stageBox builds the data box for subresource i. Missing pitches are
// derived from the subresource extent and the texel size. The box never
// covers more than the provider's SizeInBytes; a provider reporting no
// bytes leaves the subresource uninitialized.
func stageBox(desc gfx.TextureDescription, i int, p DataProvider, pin PinnedData) gfx.DataBox {
	limit := p.SizeInBytes()
	if pin.Pointer == nil || limit <= 0 {
		return gfx.DataBox{}
	}
	box := gfx.DataBox{
		Data:       pin.Pointer,
		RowPitch:   p.RowSizeInBytes(),
		SlicePitch: p.SliceSizeInBytes(),
		Size:       p.SizeInBytes(),
	}
	size := desc.MipSize(uint32(i) % desc.MipLevels)
	if box.RowPitch <= 0 {
		box.RowPitch = int(size.Width) * desc.Format.BlockSize()
	}
	if box.SlicePitch <= 0 {
		box.SlicePitch = box.RowPitch * int(size.Height)
	}
	box.Size = min(limit, box.SlicePitch*int(size.DepthOrArrayLayers))
	return box
}
