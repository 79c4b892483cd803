package gfx

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
)

// TextureDescription describes a texture to create. It is a value type; a
// builder compares descriptions to decide whether to rebuild.
type TextureDescription struct {
	// Label is an optional debug name.
	Label string

	Dimension gputypes.TextureDimension

	// Size is the extent; DepthOrArrayLayers is the depth of 3D textures
	// and the array size otherwise.
	Size gputypes.Extent3D

	// MipLevels is the number of mip levels. 0 means 1.
	MipLevels uint32

	// SampleCount is the number of samples per texel. 0 means 1.
	SampleCount uint32

	Format PixelFormat
	Usage  gputypes.TextureUsage
}

// DefaultUsage is the usage of textures created by the New constructors.
const DefaultUsage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst

// New1D describes a 1D texture.
func New1D(width uint32, format PixelFormat, mipLevels, arraySize uint32) TextureDescription {
	return TextureDescription{
		Dimension: gputypes.TextureDimension1D,
		Size:      gputypes.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: arraySize},
		MipLevels: mipLevels,
		Format:    format,
		Usage:     DefaultUsage,
	}
}

// New2D describes a 2D texture.
func New2D(width, height uint32, format PixelFormat, mipLevels, arraySize uint32) TextureDescription {
	return TextureDescription{
		Dimension: gputypes.TextureDimension2D,
		Size:      gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: arraySize},
		MipLevels: mipLevels,
		Format:    format,
		Usage:     DefaultUsage,
	}
}

// New3D describes a 3D texture.
func New3D(width, height, depth uint32, format PixelFormat, mipLevels uint32) TextureDescription {
	return TextureDescription{
		Dimension: gputypes.TextureDimension3D,
		Size:      gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: depth},
		MipLevels: mipLevels,
		Format:    format,
		Usage:     DefaultUsage,
	}
}

// Resolved returns d with zero counts replaced by their defaults.
func (d TextureDescription) Resolved() TextureDescription {
	if d.MipLevels == 0 {
		d.MipLevels = 1
	}
	if d.SampleCount == 0 {
		d.SampleCount = 1
	}
	if d.Size.DepthOrArrayLayers == 0 {
		d.Size.DepthOrArrayLayers = 1
	}
	if d.Size.Height == 0 && d.Dimension == gputypes.TextureDimension1D {
		d.Size.Height = 1
	}
	return d
}

// Validate checks the description.
func (d TextureDescription) Validate() error {
	r := d.Resolved()
	if r.Size.Width == 0 || r.Size.Height == 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, r.Size.Width, r.Size.Height)
	}
	if r.Format == FormatNone || r.Format >= formatCount {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, r.Format)
	}
	return nil
}

// Subresources returns the number of data boxes a texture accepts: one per
// mip level per array layer.
func (d TextureDescription) Subresources() int {
	r := d.Resolved()
	layers := r.Size.DepthOrArrayLayers
	if r.Dimension == gputypes.TextureDimension3D {
		layers = 1
	}
	return int(r.MipLevels * layers)
}

// MipSize returns the extent of mip level mip.
func (d TextureDescription) MipSize(mip uint32) gputypes.Extent3D {
	r := d.Resolved()
	size := gputypes.Extent3D{
		Width:              max(1, r.Size.Width>>mip),
		Height:             max(1, r.Size.Height>>mip),
		DepthOrArrayLayers: 1,
	}
	if r.Dimension == gputypes.TextureDimension3D {
		size.DepthOrArrayLayers = max(1, r.Size.DepthOrArrayLayers>>mip)
	}
	return size
}

// TextureViewDescription describes a view of a texture. Zero fields inherit
// from the texture.
type TextureViewDescription struct {
	Label     string
	Format    PixelFormat
	Dimension gputypes.TextureViewDimension
	Aspect    gputypes.TextureAspect

	BaseMipLevel uint32
	// MipLevelCount 0 means all remaining levels.
	MipLevelCount  uint32
	BaseArrayLayer uint32
	// ArrayLayerCount 0 means all remaining layers.
	ArrayLayerCount uint32
}

// resolve fills inherited fields from the texture description.
func (v TextureViewDescription) resolve(tex TextureDescription) TextureViewDescription {
	if v.Format == FormatNone {
		v.Format = tex.Format
	}
	if v.Dimension == gputypes.TextureViewDimensionUndefined {
		v.Dimension = viewDimension(tex.Dimension)
	}
	if v.Aspect == 0 {
		v.Aspect = gputypes.TextureAspectAll
	}
	if v.MipLevelCount == 0 && v.BaseMipLevel < tex.MipLevels {
		v.MipLevelCount = tex.MipLevels - v.BaseMipLevel
	}
	layers := tex.Size.DepthOrArrayLayers
	if tex.Dimension == gputypes.TextureDimension3D {
		layers = 1
	}
	if v.ArrayLayerCount == 0 && v.BaseArrayLayer < layers {
		v.ArrayLayerCount = layers - v.BaseArrayLayer
	}
	return v
}

func viewDimension(dim gputypes.TextureDimension) gputypes.TextureViewDimension {
	switch dim {
	case gputypes.TextureDimension1D:
		return gputypes.TextureViewDimension1D
	case gputypes.TextureDimension3D:
		return gputypes.TextureViewDimension3D
	default:
		return gputypes.TextureViewDimension2D
	}
}

// DataBox points at the staged bytes of one subresource. A nil Data means
// the subresource is not uploaded.
type DataBox struct {
	Data       unsafe.Pointer
	RowPitch   int
	SlicePitch int
	Size       int
}

// Bytes returns the box contents without copying. The slice is only valid
// while the memory behind Data stays pinned.
func (b DataBox) Bytes() []byte {
	if b.Data == nil || b.Size <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.Data), b.Size)
}
