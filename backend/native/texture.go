// Package native implements gfx.Backend on top of gogpu/wgpu's HAL.
package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpunode"
	"github.com/gogpu/gpunode/gfx"
)

// TextureDevice is the part of hal.Device used for textures.
type TextureDevice interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
	CreateTextureView(texture hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error)
	DestroyTextureView(view hal.TextureView)
}

// WriteFunc uploads data into a texture region, usually hal.Queue's
// WriteTexture.
type WriteFunc func(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D)

// Backend creates textures through a HAL device.
type Backend struct {
	device TextureDevice
	write  WriteFunc
}

// NewBackend creates a backend. write may be nil if textures are never
// created with initial data.
func NewBackend(device TextureDevice, write WriteFunc) (*Backend, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	return &Backend{device: device, write: write}, nil
}

// CreateTexture implements gfx.Backend. Boxes are ordered by array layer,
// then mip level; each is written with its own row and slice pitch.
func (b *Backend) CreateTexture(desc gfx.TextureDescription, boxes []gfx.DataBox) (any, error) {
	usage := desc.Usage
	if len(boxes) > 0 {
		usage |= gputypes.TextureUsageCopyDst
	}
	halDesc := &hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Size.Width,
			Height:             desc.Size.Height,
			DepthOrArrayLayers: desc.Size.DepthOrArrayLayers,
		},
		MipLevelCount: desc.MipLevels,
		SampleCount:   desc.SampleCount,
		Dimension:     desc.Dimension,
		Format:        desc.Format.GPU(),
		Usage:         usage,
	}

	tex, err := b.device.CreateTexture(halDesc)
	if err != nil {
		return nil, fmt.Errorf("texture creation failed: %w", err)
	}

	mips := max(1, desc.MipLevels)
	uploads := 0
	for i, box := range boxes {
		data := box.Bytes()
		if data == nil {
			continue
		}
		if b.write == nil {
			b.device.DestroyTexture(tex)
			return nil, fmt.Errorf("native: no queue to upload %q", desc.Label)
		}
		mip := uint32(i) % mips
		layer := uint32(i) / mips
		size := desc.MipSize(mip)

		rows := size.Height
		if box.RowPitch > 0 && box.SlicePitch > 0 {
			rows = uint32(box.SlicePitch / box.RowPitch)
		}
		b.write(
			&hal.ImageCopyTexture{
				Texture:  tex,
				MipLevel: mip,
				Origin:   hal.Origin3D{X: 0, Y: 0, Z: layer},
				Aspect:   gputypes.TextureAspectAll,
			},
			data,
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(box.RowPitch),
				RowsPerImage: rows,
			},
			&hal.Extent3D{
				Width:              size.Width,
				Height:             size.Height,
				DepthOrArrayLayers: size.DepthOrArrayLayers,
			},
		)
		uploads++
	}

	gpunode.Logger().Debug("native: texture created",
		"label", desc.Label, "format", halDesc.Format, "uploads", uploads)
	return tex, nil
}

// DestroyTexture implements gfx.Backend.
func (b *Backend) DestroyTexture(tex any) {
	if t, ok := tex.(hal.Texture); ok && t != nil {
		b.device.DestroyTexture(t)
	}
}

// CreateView implements gfx.Backend.
func (b *Backend) CreateView(tex any, _ gfx.TextureDescription, desc gfx.TextureViewDescription) (any, error) {
	t, ok := tex.(hal.Texture)
	if !ok || t == nil {
		return nil, ErrForeignHandle
	}
	view, err := b.device.CreateTextureView(t, &hal.TextureViewDescriptor{
		Label:           desc.Label,
		Format:          desc.Format.GPU(),
		Dimension:       desc.Dimension,
		Aspect:          desc.Aspect,
		BaseMipLevel:    desc.BaseMipLevel,
		MipLevelCount:   desc.MipLevelCount,
		BaseArrayLayer:  desc.BaseArrayLayer,
		ArrayLayerCount: desc.ArrayLayerCount,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture view: %w", err)
	}
	return view, nil
}

// DestroyView implements gfx.Backend.
func (b *Backend) DestroyView(view any) {
	if v, ok := view.(hal.TextureView); ok && v != nil {
		b.device.DestroyTextureView(v)
	}
}
