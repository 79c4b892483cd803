package gfx

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// PixelFormat identifies the memory layout of a texel. Typeless formats fix
// the block size but leave the interpretation to the views.
type PixelFormat uint8

// Pixel formats.
const (
	FormatNone PixelFormat = iota
	R8Typeless
	R8UNorm
	R8G8B8A8Typeless
	R8G8B8A8UNorm
	R8G8B8A8UNormSRgb
	B8G8R8A8Typeless
	B8G8R8A8UNorm
	B8G8R8A8UNormSRgb
	R32Typeless
	R32Float
	R32G32Typeless
	R32G32Float
	R32G32B32A32Typeless
	R32G32B32A32Float
	D24UNormS8UInt

	formatCount
)

type formatInfo struct {
	name      string
	blockSize int
	typeless  bool
	gpu       gputypes.TextureFormat
}

var formats = [formatCount]formatInfo{
	FormatNone:           {"None", 0, false, gputypes.TextureFormatUndefined},
	R8Typeless:           {"R8_Typeless", 1, true, gputypes.TextureFormatR8Unorm},
	R8UNorm:              {"R8_UNorm", 1, false, gputypes.TextureFormatR8Unorm},
	R8G8B8A8Typeless:     {"R8G8B8A8_Typeless", 4, true, gputypes.TextureFormatRGBA8Unorm},
	R8G8B8A8UNorm:        {"R8G8B8A8_UNorm", 4, false, gputypes.TextureFormatRGBA8Unorm},
	R8G8B8A8UNormSRgb:    {"R8G8B8A8_UNorm_SRgb", 4, false, gputypes.TextureFormatRGBA8UnormSrgb},
	B8G8R8A8Typeless:     {"B8G8R8A8_Typeless", 4, true, gputypes.TextureFormatBGRA8Unorm},
	B8G8R8A8UNorm:        {"B8G8R8A8_UNorm", 4, false, gputypes.TextureFormatBGRA8Unorm},
	B8G8R8A8UNormSRgb:    {"B8G8R8A8_UNorm_SRgb", 4, false, gputypes.TextureFormatBGRA8UnormSrgb},
	R32Typeless:          {"R32_Typeless", 4, true, gputypes.TextureFormatR32Float},
	R32Float:             {"R32_Float", 4, false, gputypes.TextureFormatR32Float},
	R32G32Typeless:       {"R32G32_Typeless", 8, true, gputypes.TextureFormatRG32Float},
	R32G32Float:          {"R32G32_Float", 8, false, gputypes.TextureFormatRG32Float},
	R32G32B32A32Typeless: {"R32G32B32A32_Typeless", 16, true, gputypes.TextureFormatRGBA32Float},
	R32G32B32A32Float:    {"R32G32B32A32_Float", 16, false, gputypes.TextureFormatRGBA32Float},
	D24UNormS8UInt:       {"D24_UNorm_S8_UInt", 4, false, gputypes.TextureFormatDepth24PlusStencil8},
}

func (f PixelFormat) info() formatInfo {
	if f >= formatCount {
		return formatInfo{name: fmt.Sprintf("PixelFormat(%d)", uint8(f))}
	}
	return formats[f]
}

// String returns the format name, e.g. "R8G8B8A8_UNorm".
func (f PixelFormat) String() string { return f.info().name }

// BlockSize returns the size of one texel in bytes, 0 for FormatNone.
func (f PixelFormat) BlockSize() int { return f.info().blockSize }

// IsTypeless reports whether the format only fixes the memory layout.
func (f PixelFormat) IsTypeless() bool { return f.info().typeless }

// GPU returns the WebGPU format used to allocate textures of this format.
// WebGPU has no typeless formats; they allocate as their UNorm or Float
// sibling.
func (f PixelFormat) GPU() gputypes.TextureFormat { return f.info().gpu }

// ParsePixelFormat parses a format name. Case and underscores are ignored:
// "r8g8b8a8_unorm" and "R8G8B8A8UNorm" both name R8G8B8A8UNorm.
func ParsePixelFormat(s string) (PixelFormat, error) {
	key := formatKey(s)
	for i := range formatCount {
		if formatKey(formats[i].name) == key {
			return i, nil
		}
	}
	return FormatNone, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

func formatKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
}

// MarshalText implements encoding.TextMarshaler.
func (f PixelFormat) MarshalText() ([]byte, error) {
	if f >= formatCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *PixelFormat) UnmarshalText(text []byte) error {
	v, err := ParsePixelFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ViewCompatible reports whether a view of format view can be created on a
// texture of format source: the view inherits the format, matches it
// exactly, or reinterprets a typeless source with the same block size.
func ViewCompatible(source, view PixelFormat) bool {
	switch {
	case view == FormatNone, view == source:
		return true
	case source.IsTypeless():
		return source.BlockSize() == view.BlockSize()
	default:
		return false
	}
}
