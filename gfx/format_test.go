package gfx

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixelFormatInfo(t *testing.T) {
	tests := []struct {
		format    PixelFormat
		name      string
		blockSize int
		typeless  bool
		gpu       gputypes.TextureFormat
	}{
		{FormatNone, "None", 0, false, gputypes.TextureFormatUndefined},
		{R8UNorm, "R8_UNorm", 1, false, gputypes.TextureFormatR8Unorm},
		{R8G8B8A8Typeless, "R8G8B8A8_Typeless", 4, true, gputypes.TextureFormatRGBA8Unorm},
		{R8G8B8A8UNorm, "R8G8B8A8_UNorm", 4, false, gputypes.TextureFormatRGBA8Unorm},
		{B8G8R8A8UNorm, "B8G8R8A8_UNorm", 4, false, gputypes.TextureFormatBGRA8Unorm},
		{R32G32B32A32Float, "R32G32B32A32_Float", 16, false, gputypes.TextureFormatRGBA32Float},
		{D24UNormS8UInt, "D24_UNorm_S8_UInt", 4, false, gputypes.TextureFormatDepth24PlusStencil8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.format.BlockSize(); got != tt.blockSize {
				t.Errorf("BlockSize() = %d, want %d", got, tt.blockSize)
			}
			if got := tt.format.IsTypeless(); got != tt.typeless {
				t.Errorf("IsTypeless() = %v, want %v", got, tt.typeless)
			}
			if got := tt.format.GPU(); got != tt.gpu {
				t.Errorf("GPU() = %v, want %v", got, tt.gpu)
			}
		})
	}

	if got := PixelFormat(200).String(); got != "PixelFormat(200)" {
		t.Errorf("String() of unknown format = %q", got)
	}
}

func TestParsePixelFormat(t *testing.T) {
	for in, want := range map[string]PixelFormat{
		"R8G8B8A8_UNorm":      R8G8B8A8UNorm,
		"r8g8b8a8_unorm":      R8G8B8A8UNorm,
		"R8G8B8A8UNorm":       R8G8B8A8UNorm,
		"R8G8B8A8_UNorm_SRgb": R8G8B8A8UNormSRgb,
		" R32_Typeless ":      R32Typeless,
		"None":                FormatNone,
	} {
		got, err := ParsePixelFormat(in)
		if err != nil {
			t.Errorf("ParsePixelFormat(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePixelFormat(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParsePixelFormat("RGBA9000"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParsePixelFormat(unknown) error = %v, want ErrInvalidFormat", err)
	}
}

func TestPixelFormatText(t *testing.T) {
	var f PixelFormat
	if err := f.UnmarshalText([]byte("B8G8R8A8_UNorm_SRgb")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if f != B8G8R8A8UNormSRgb {
		t.Errorf("UnmarshalText = %v, want B8G8R8A8_UNorm_SRgb", f)
	}
	text, err := f.MarshalText()
	if err != nil || string(text) != "B8G8R8A8_UNorm_SRgb" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
	if err := f.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) succeeded")
	}
	if f != B8G8R8A8UNormSRgb {
		t.Error("failed UnmarshalText modified the format")
	}
	if _, err := PixelFormat(99).MarshalText(); err == nil {
		t.Error("MarshalText of unknown format succeeded")
	}
}

func TestViewCompatible(t *testing.T) {
	tests := []struct {
		source, view PixelFormat
		want         bool
	}{
		{R8G8B8A8UNorm, FormatNone, true},
		{R32G32B32A32Float, FormatNone, true},
		{FormatNone, FormatNone, true},
		{R8G8B8A8UNorm, R8G8B8A8UNorm, true},
		{R8G8B8A8Typeless, R8G8B8A8UNormSRgb, true},
		{R8G8B8A8Typeless, B8G8R8A8UNorm, true},
		{R8G8B8A8Typeless, R32Float, true},
		{R8G8B8A8Typeless, R8UNorm, false},
		{R32G32Typeless, R32G32Float, true},
		{R32G32Typeless, R8G8B8A8UNorm, false},
		{R8G8B8A8UNorm, R8G8B8A8UNormSRgb, false},
		{R8G8B8A8UNorm, B8G8R8A8UNorm, false},
		{R32Float, R8G8B8A8UNorm, false},
	}
	for _, tt := range tests {
		if got := ViewCompatible(tt.source, tt.view); got != tt.want {
			t.Errorf("ViewCompatible(%v, %v) = %v, want %v", tt.source, tt.view, got, tt.want)
		}
	}
}
