package gfx

import (
	"sync"
	"sync/atomic"
)

// MemoryTexture is the native handle of textures created by MemoryBackend.
// Data holds a private copy of every uploaded box, nil for boxes without
// data.
type MemoryTexture struct {
	Desc TextureDescription
	Data [][]byte
}

// MemoryView is the native handle of views created by MemoryBackend.
type MemoryView struct {
	Texture *MemoryTexture
	Desc    TextureViewDescription
}

// MemoryBackend is a Backend keeping textures in Go memory.
//
// Fail, when set, is consulted before every texture creation; a non-nil
// error fails the creation. It may also panic to emulate a crashing
// native layer.
type MemoryBackend struct {
	Fail func(desc TextureDescription) error

	mu   sync.Mutex
	live map[*MemoryTexture]struct{}

	texturesCreated   atomic.Int32
	texturesDestroyed atomic.Int32
	viewsCreated      atomic.Int32
	viewsDestroyed    atomic.Int32
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{live: make(map[*MemoryTexture]struct{})}
}

// CreateTexture implements Backend.
func (b *MemoryBackend) CreateTexture(desc TextureDescription, boxes []DataBox) (any, error) {
	if b.Fail != nil {
		if err := b.Fail(desc); err != nil {
			return nil, err
		}
	}
	tex := &MemoryTexture{Desc: desc, Data: make([][]byte, len(boxes))}
	for i, box := range boxes {
		if data := box.Bytes(); data != nil {
			tex.Data[i] = append([]byte(nil), data...)
		}
	}

	b.mu.Lock()
	b.live[tex] = struct{}{}
	b.mu.Unlock()
	b.texturesCreated.Add(1)
	return tex, nil
}

// DestroyTexture implements Backend.
func (b *MemoryBackend) DestroyTexture(tex any) {
	t, ok := tex.(*MemoryTexture)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.live, t)
	b.mu.Unlock()
	b.texturesDestroyed.Add(1)
}

// CreateView implements Backend.
func (b *MemoryBackend) CreateView(tex any, _ TextureDescription, desc TextureViewDescription) (any, error) {
	t, _ := tex.(*MemoryTexture)
	b.viewsCreated.Add(1)
	return &MemoryView{Texture: t, Desc: desc}, nil
}

// DestroyView implements Backend.
func (b *MemoryBackend) DestroyView(any) {
	b.viewsDestroyed.Add(1)
}

// Live returns the number of textures created and not yet destroyed.
func (b *MemoryBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// TexturesCreated returns the number of successful texture creations.
func (b *MemoryBackend) TexturesCreated() int { return int(b.texturesCreated.Load()) }

// TexturesDestroyed returns the number of texture destructions.
func (b *MemoryBackend) TexturesDestroyed() int { return int(b.texturesDestroyed.Load()) }

// ViewsCreated returns the number of view creations.
func (b *MemoryBackend) ViewsCreated() int { return int(b.viewsCreated.Load()) }

// ViewsDestroyed returns the number of view destructions.
func (b *MemoryBackend) ViewsDestroyed() int { return int(b.viewsDestroyed.Load()) }
