package nodes_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
	"github.com/gogpu/gpunode/node"
	"github.com/gogpu/gpunode/nodes"
	"github.com/gogpu/gpunode/resource"
)

func setup(t *testing.T) (*node.Factory, *node.Context, *gfx.MemoryBackend) {
	t.Helper()
	f := node.NewFactory()
	require.NoError(t, nodes.Register(f))

	backend := gfx.NewMemoryBackend()
	ctx := node.NewContext(1)
	resource.WithDevices(ctx, handle.Static(gfx.NewDevice(backend, "memory")))
	return f, ctx, backend
}

func create(t *testing.T, f *node.Factory, ctx *node.Context, name string) node.Node {
	t.Helper()
	n, err := f.Create(name, ctx)
	require.NoError(t, err)
	t.Cleanup(n.Dispose)
	return n
}

func set(t *testing.T, n node.Node, pin string, v any) {
	t.Helper()
	p, ok := node.FindInput(n, pin)
	require.True(t, ok, "input %q", pin)
	p.SetValue(v)
}

func get(t *testing.T, n node.Node, pin string) any {
	t.Helper()
	p, ok := node.FindOutput(n, pin)
	require.True(t, ok, "output %q", pin)
	return p.Value()
}

func TestRegister(t *testing.T) {
	f, _, _ := setup(t)
	var names []string
	for _, d := range f.Descriptions() {
		assert.Equal(t, nodes.Category, d.Category())
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{
		"FloatData", "ImageData", "MemoryData", "Texture",
		"TextureDescription", "TextureView", "TextureViewDescription",
	}, names)
	assert.ErrorIs(t, nodes.Register(f), node.ErrDuplicate)
}

func TestTextureDescriptionNode(t *testing.T) {
	f, ctx, _ := setup(t)
	n := create(t, f, ctx, "TextureDescription")

	names := make([]string, 0)
	for _, p := range n.Inputs() {
		names = append(names, p.Name())
	}
	assert.Contains(t, names, "Depth Or Array Size")
	assert.Contains(t, names, "Mip Levels")

	set(t, n, "Width", uint32(8))
	set(t, n, "Height", uint32(2))
	set(t, n, "Format", gfx.R32Float)

	desc := get(t, n, "Output").(gfx.TextureDescription)
	assert.Equal(t, uint32(8), desc.Size.Width)
	assert.Equal(t, uint32(2), desc.Size.Height)
	assert.Equal(t, gfx.R32Float, desc.Format)
	assert.Equal(t, uint32(1), desc.SampleCount)
}

func TestTextureGraph(t *testing.T) {
	f, ctx, backend := setup(t)
	descNode := create(t, f, ctx.Child(2), "TextureDescription")
	dataNode := create(t, f, ctx.Child(3), "MemoryData")
	texNode := create(t, f, ctx.Child(4), "Texture")
	viewDescNode := create(t, f, ctx.Child(5), "TextureViewDescription")
	viewNode := create(t, f, ctx.Child(6), "TextureView")

	set(t, descNode, "Width", uint32(2))
	set(t, descNode, "Height", uint32(1))
	set(t, descNode, "Format", gfx.R8G8B8A8Typeless)
	set(t, dataNode, "Data", []byte{1, 2, 3, 4, 5, 6, 7, 8})

	set(t, texNode, "Description", get(t, descNode, "Output"))
	set(t, texNode, "InitialData", []resource.DataProvider{get(t, dataNode, "Output").(resource.DataProvider)})

	tex, ok := get(t, texNode, "Output").(*gfx.Texture)
	require.True(t, ok)
	require.NotNil(t, tex)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, tex.Native().(*gfx.MemoryTexture).Data[0])
	assert.Same(t, tex, get(t, texNode, "Output"), "unchanged inputs keep the texture")

	set(t, viewDescNode, "Format", gfx.R8G8B8A8UNormSRgb)
	set(t, viewNode, "Input", tex)
	set(t, viewNode, "ViewDescription", get(t, viewDescNode, "Output"))
	view, _ := get(t, viewNode, "Output").(*gfx.TextureView)
	require.NotNil(t, view)
	assert.Equal(t, gfx.R8G8B8A8UNormSRgb, view.Format())

	set(t, viewDescNode, "Format", gfx.R8UNorm)
	set(t, viewNode, "ViewDescription", get(t, viewDescNode, "Output"))
	assert.Nil(t, get(t, viewNode, "Output"))

	set(t, descNode, "Width", uint32(0))
	set(t, texNode, "Description", get(t, descNode, "Output"))
	assert.Nil(t, get(t, texNode, "Output"))
	assert.True(t, tex.IsDestroyed())
	assert.Equal(t, 0, backend.Live())
}

func TestTextureNodeDisposeReleasesTexture(t *testing.T) {
	f, ctx, backend := setup(t)
	n, err := f.Create("Texture", ctx)
	require.NoError(t, err)

	set(t, n, "Description", gfx.New2D(4, 4, gfx.R8UNorm, 1, 1))
	require.NotNil(t, get(t, n, "Output"))
	require.Equal(t, 1, backend.Live())

	n.Dispose()
	assert.Equal(t, 0, backend.Live())
}

func TestImageDataNode(t *testing.T) {
	f, ctx, _ := setup(t)
	n := create(t, f, ctx, "ImageData")

	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 42})
	set(t, n, "Image", image.Image(img))
	set(t, n, "RowSizeInBytes", 4)

	p := get(t, n, "Output").(resource.DataProvider)
	assert.Equal(t, 4, p.RowSizeInBytes())
	assert.Equal(t, 8, p.SliceSizeInBytes())
	assert.Equal(t, 1, p.ElementSizeInBytes())

	pinned := p.Pin()
	defer pinned.Release()
	require.NotNil(t, pinned.Pointer)
	assert.Equal(t, byte(42), *(*byte)(pinned.Pointer))
}

func TestFloatDataNode(t *testing.T) {
	f, ctx, _ := setup(t)
	n := create(t, f, ctx, "FloatData")

	set(t, n, "Data", []float32{1, 2, 3})
	set(t, n, "OffsetInBytes", 4)
	p := get(t, n, "Output").(resource.DataProvider)
	assert.Equal(t, 8, p.SizeInBytes())
	assert.Equal(t, 4, p.ElementSizeInBytes())

	src, ok := node.InstanceOf[*nodes.DataSource[[]float32]](n)
	require.True(t, ok)
	assert.Same(t, src.Provider(), p)
}
