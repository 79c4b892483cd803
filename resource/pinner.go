package resource

import (
	"image"
	"runtime"
	"unsafe"

	"golang.org/x/image/draw"
)

// Pinner fixes the address of a data source. The pointer returned by Pin
// stays valid until Release.
type Pinner interface {
	Pin() unsafe.Pointer
	Release()
}

// BufferPinner pins a slice.
type BufferPinner[T any] struct {
	Memory []T

	pinner runtime.Pinner
}

// Pin pins the first element of Memory. It returns nil for an empty slice.
func (p *BufferPinner[T]) Pin() unsafe.Pointer {
	if len(p.Memory) == 0 {
		return nil
	}
	first := &p.Memory[0]
	p.pinner.Pin(first)
	return unsafe.Pointer(first)
}

// Release unpins the slice.
func (p *BufferPinner[T]) Release() { p.pinner.Unpin() }

// ImagePinner pins the pixel bytes of an image. Images with a byte-backed
// Pix buffer are pinned in place; others are converted to RGBA first into
// a buffer reused across pins.
type ImagePinner struct {
	Image image.Image

	pinner    runtime.Pinner
	converted *image.RGBA
}

// Pin pins the pixels. It returns nil for a nil or empty image.
func (p *ImagePinner) Pin() unsafe.Pointer {
	pix, _, _ := p.pixels()
	if len(pix) == 0 {
		return nil
	}
	first := &pix[0]
	p.pinner.Pin(first)
	return unsafe.Pointer(first)
}

// Release unpins the pixels.
func (p *ImagePinner) Release() { p.pinner.Unpin() }

// pixels returns the pixel bytes starting at the image origin, the row
// stride and the pixel size.
func (p *ImagePinner) pixels() (pix []byte, stride, pixelSize int) {
	if p.Image == nil {
		return nil, 0, 0
	}
	if pix, stride, pixelSize, ok := directPixels(p.Image); ok {
		return pix, stride, pixelSize
	}
	b := p.Image.Bounds()
	if p.converted == nil || p.converted.Rect.Size() != b.Size() {
		p.converted = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(p.converted, p.converted.Rect, p.Image, b.Min, draw.Src)
	return p.converted.Pix, p.converted.Stride, 4
}

// directPixels returns the backing bytes of the image types whose layout
// is a plain texel array.
func directPixels(img image.Image) (pix []byte, stride, pixelSize int, ok bool) {
	b := img.Bounds()
	if b.Empty() {
		return nil, 0, 0, true
	}
	switch m := img.(type) {
	case *image.RGBA:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 4, true
	case *image.NRGBA:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 4, true
	case *image.RGBA64:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 8, true
	case *image.NRGBA64:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 8, true
	case *image.Gray:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 1, true
	case *image.Gray16:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 2, true
	case *image.Alpha:
		return m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], m.Stride, 1, true
	}
	return nil, 0, 0, false
}

// imageInfo returns the byte layout the pinner will produce for img.
func imageInfo(img image.Image) (size, rowSize, pixelSize int) {
	if img == nil {
		return 0, 0, 0
	}
	b := img.Bounds()
	rowSize, pixelSize = b.Dx()*4, 4
	if _, stride, ps, ok := directPixels(img); ok {
		rowSize, pixelSize = stride, ps
	}
	if b.Empty() {
		return 0, 0, pixelSize
	}
	// The last row of a sub-image ends before the stride does.
	return rowSize*(b.Dy()-1) + b.Dx()*pixelSize, rowSize, pixelSize
}

// NonePinner is the pinner of providers without data. Pin returns nil.
type NonePinner struct{}

// Pin returns nil.
func (NonePinner) Pin() unsafe.Pointer { return nil }

// Release does nothing.
func (NonePinner) Release() {}

// PinnedData is a pinned address together with the pinner that releases
// it. The zero value holds no data and releases nothing.
type PinnedData struct {
	Pointer unsafe.Pointer

	pinner Pinner
}

// Pin pins p.
func Pin(p Pinner) PinnedData {
	if p == nil {
		return PinnedData{}
	}
	return PinnedData{Pointer: p.Pin(), pinner: p}
}

// Release releases the pin. Releasing the zero value is a no-op.
func (d PinnedData) Release() {
	if d.pinner != nil {
		d.pinner.Release()
	}
}
