package resource

import (
	"image"
	"unsafe"
)

// DataProvider describes the initial data of one texture subresource.
type DataProvider interface {
	SizeInBytes() int
	ElementSizeInBytes() int
	RowSizeInBytes() int
	SliceSizeInBytes() int

	// Pin fixes the data in memory. The caller must release the result.
	Pin() PinnedData
}

// Layout is the byte layout of a data source. Zero fields take the
// defaults of the source.
type Layout struct {
	Offset      int
	Size        int
	ElementSize int
	RowSize     int
	SliceSize   int
}

// MemoryDataProvider is a DataProvider backed by a Go slice or an image.
// Reconfiguring it with a source of the same kind reuses its pinner.
type MemoryDataProvider struct {
	pinner Pinner
	layout Layout
}

// NewMemoryDataProvider returns a provider without data.
func NewMemoryDataProvider() *MemoryDataProvider {
	return &MemoryDataProvider{pinner: NonePinner{}}
}

// SetMemoryData makes mem the data of p. The default size is the byte size
// of mem minus the offset, the default element size is the size of T.
// Sizes are clamped to the bytes left after the offset; an offset at or
// past the end leaves p without data. A zero row or slice size is derived
// from the texture by the builder.
func SetMemoryData[T any](p *MemoryDataProvider, mem []T, layout Layout) {
	bp, ok := p.pinner.(*BufferPinner[T])
	if !ok {
		bp = &BufferPinner[T]{}
	}
	bp.Memory = mem
	p.pinner = bp

	elem := int(unsafe.Sizeof(*new(T)))
	layout.Size = clampSize(layout, len(mem)*elem)
	if layout.ElementSize <= 0 {
		layout.ElementSize = elem
	}
	p.layout = layout
}

// SetImageData makes the pixels of img the data of p. Defaults come from
// the image: pixel size, row stride, and row stride times height.
func (p *MemoryDataProvider) SetImageData(img image.Image, layout Layout) {
	ip, ok := p.pinner.(*ImagePinner)
	if !ok {
		ip = &ImagePinner{}
	}
	ip.Image = img
	p.pinner = ip

	size, rowSize, pixelSize := imageInfo(img)
	layout.Size = clampSize(layout, size)
	if layout.ElementSize <= 0 {
		layout.ElementSize = pixelSize
	}
	if layout.RowSize <= 0 {
		layout.RowSize = rowSize
	}
	if layout.SliceSize <= 0 && img != nil {
		layout.SliceSize = layout.RowSize * img.Bounds().Dy()
	}
	p.layout = layout
}

// clampSize returns the byte size of layout over total bytes of data:
// Size, or everything after Offset when Size is unset, never more than
// what is left after Offset.
func clampSize(layout Layout, total int) int {
	left := total - max(0, layout.Offset)
	if left <= 0 {
		return 0
	}
	if layout.Size <= 0 || layout.Size > left {
		return left
	}
	return layout.Size
}

// Clear removes the data.
func (p *MemoryDataProvider) Clear() {
	p.pinner = NonePinner{}
	p.layout = Layout{}
}

// Pinner returns the current pinner.
func (p *MemoryDataProvider) Pinner() Pinner { return p.pinner }

// Layout returns the resolved layout.
func (p *MemoryDataProvider) Layout() Layout { return p.layout }

// SizeInBytes implements DataProvider.
func (p *MemoryDataProvider) SizeInBytes() int { return p.layout.Size }

// ElementSizeInBytes implements DataProvider.
func (p *MemoryDataProvider) ElementSizeInBytes() int { return p.layout.ElementSize }

// RowSizeInBytes implements DataProvider.
func (p *MemoryDataProvider) RowSizeInBytes() int { return p.layout.RowSize }

// SliceSizeInBytes implements DataProvider.
func (p *MemoryDataProvider) SliceSizeInBytes() int { return p.layout.SliceSize }

// Pin implements DataProvider. The offset is applied to the pinned address.
// Without bytes left after the offset nothing is pinned.
func (p *MemoryDataProvider) Pin() PinnedData {
	if p.layout.Size <= 0 {
		return PinnedData{}
	}
	d := Pin(p.pinner)
	if d.Pointer != nil && p.layout.Offset > 0 {
		d.Pointer = unsafe.Add(d.Pointer, p.layout.Offset)
	}
	return d
}

// Pinned is the result of PinSlice and PinImage.
type Pinned struct {
	Pointer        unsafe.Pointer
	SizeInBytes    int
	Stride         int
	RowSizeInBytes int

	pinner Pinner
}

// Release unpins the data. Releasing the zero value is a no-op.
func (p Pinned) Release() {
	if p.pinner != nil {
		p.pinner.Release()
	}
}

// PinSlice pins s for a native call. Stride is the element size. An empty
// slice yields the zero Pinned.
func PinSlice[T any](s []T) Pinned {
	if len(s) == 0 {
		return Pinned{}
	}
	bp := &BufferPinner[T]{Memory: s}
	stride := int(unsafe.Sizeof(s[0]))
	return Pinned{
		Pointer:     bp.Pin(),
		SizeInBytes: stride * len(s),
		Stride:      stride,
		pinner:      bp,
	}
}

// PinImage pins the pixels of img for a native call. Stride is the pixel
// size. A nil image yields the zero Pinned.
func PinImage(img image.Image) Pinned {
	if img == nil {
		return Pinned{}
	}
	ip := &ImagePinner{Image: img}
	size, rowSize, pixelSize := imageInfo(img)
	return Pinned{
		Pointer:        ip.Pin(),
		SizeInBytes:    size,
		Stride:         pixelSize,
		RowSizeInBytes: rowSize,
		pinner:         ip,
	}
}
