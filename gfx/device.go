package gfx

import (
	"fmt"

	"github.com/gogpu/gpunode"
)

// Backend performs the native work for a Device. Handles returned by a
// backend are opaque to this package and passed back unchanged.
//
// CreateTexture must upload every box with non-nil Data before it returns;
// the memory behind the boxes is released right after the call.
type Backend interface {
	CreateTexture(desc TextureDescription, boxes []DataBox) (any, error)
	DestroyTexture(tex any)
	CreateView(tex any, texDesc TextureDescription, desc TextureViewDescription) (any, error)
	DestroyView(view any)
}

// Device creates textures on a Backend.
type Device struct {
	backend Backend
	label   string
}

// NewDevice creates a device. The label is used in log output.
func NewDevice(backend Backend, label string) *Device {
	return &Device{backend: backend, label: label}
}

// Backend returns the device backend.
func (d *Device) Backend() Backend { return d.backend }

// Label returns the device label.
func (d *Device) Label() string { return d.label }

// CreateTexture validates desc, creates the texture with the initial data
// in boxes, and creates its default view from viewDesc.
func (d *Device) CreateTexture(desc TextureDescription, viewDesc TextureViewDescription, boxes []DataBox) (*Texture, error) {
	if d == nil || d.backend == nil {
		return nil, ErrNilBackend
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	desc = desc.Resolved()
	if n := desc.Subresources(); len(boxes) > n {
		return nil, fmt.Errorf("%w: %d boxes, %d subresources", ErrTooManyBoxes, len(boxes), n)
	}
	if !ViewCompatible(desc.Format, viewDesc.Format) {
		return nil, fmt.Errorf("%w: view %s on texture %s", ErrIncompatibleView, viewDesc.Format, desc.Format)
	}

	native, err := d.backend.CreateTexture(desc, boxes)
	if err != nil {
		return nil, fmt.Errorf("gfx: create texture %q: %w", desc.Label, err)
	}
	tex := &Texture{device: d, native: native, desc: desc}

	view, err := tex.newView(viewDesc, true)
	if err != nil {
		d.backend.DestroyTexture(native)
		return nil, err
	}
	tex.view = view

	gpunode.Logger().Debug("gfx: texture created",
		"device", d.label, "label", desc.Label, "format", desc.Format,
		"width", desc.Size.Width, "height", desc.Size.Height, "boxes", len(boxes))
	return tex, nil
}
