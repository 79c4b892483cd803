// Package nodes is the catalogue of graphics nodes: texture and view
// descriptions, texture and view builders, and initial data providers.
package nodes

import (
	"image"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/node"
	"github.com/gogpu/gpunode/resource"
)

// Category is the category of every node in this package.
const Category = "Graphics.Textures"

// Register adds the catalogue to f.
func Register(f *node.Factory) error {
	return f.Register(
		TextureDescription(),
		TextureViewDescription(),
		Texture(),
		TextureView(),
		MemoryData[byte]("MemoryData"),
		MemoryData[float32]("FloatData"),
		ImageData(),
	)
}

type textureDesc = node.StructRef[gfx.TextureDescription]

// TextureDescription describes a struct node building gfx.TextureDescription
// values. It starts as a 1x1 R8G8B8A8_UNorm 2D texture.
func TextureDescription() *node.Description[*textureDesc] {
	d := node.NewStructNode("TextureDescription", Category, gfx.New2D(1, 1, gfx.R8G8B8A8UNorm, 1, 1))
	d.With(
		node.Input("Label",
			func(r *textureDesc) string { return r.V.Label },
			func(r *textureDesc, v string) { r.V.Label = v }),
		node.Input("Dimension",
			func(r *textureDesc) gputypes.TextureDimension { return r.V.Dimension },
			func(r *textureDesc, v gputypes.TextureDimension) { r.V.Dimension = v }),
		node.Input("Width",
			func(r *textureDesc) uint32 { return r.V.Size.Width },
			func(r *textureDesc, v uint32) { r.V.Size.Width = v }),
		node.Input("Height",
			func(r *textureDesc) uint32 { return r.V.Size.Height },
			func(r *textureDesc, v uint32) { r.V.Size.Height = v }),
		node.Input("DepthOrArraySize",
			func(r *textureDesc) uint32 { return r.V.Size.DepthOrArrayLayers },
			func(r *textureDesc, v uint32) { r.V.Size.DepthOrArrayLayers = v }),
		node.Input("MipLevels",
			func(r *textureDesc) uint32 { return r.V.MipLevels },
			func(r *textureDesc, v uint32) { r.V.MipLevels = v }),
		node.Input("SampleCount",
			func(r *textureDesc) uint32 { return r.V.SampleCount },
			func(r *textureDesc, v uint32) { r.V.SampleCount = v },
			node.Default[uint32](1)),
		node.Input("Format",
			func(r *textureDesc) gfx.PixelFormat { return r.V.Format },
			func(r *textureDesc, v gfx.PixelFormat) { r.V.Format = v }),
		node.Input("Usage",
			func(r *textureDesc) gputypes.TextureUsage { return r.V.Usage },
			func(r *textureDesc, v gputypes.TextureUsage) { r.V.Usage = v }),
	)
	return node.AddStateOutput(d)
}

type viewDesc = node.StructRef[gfx.TextureViewDescription]

// TextureViewDescription describes a struct node building
// gfx.TextureViewDescription values. Zero fields inherit from the texture.
func TextureViewDescription() *node.Description[*viewDesc] {
	d := node.NewStructNode("TextureViewDescription", Category, gfx.TextureViewDescription{})
	d.With(
		node.Input("Label",
			func(r *viewDesc) string { return r.V.Label },
			func(r *viewDesc, v string) { r.V.Label = v }),
		node.Input("Format",
			func(r *viewDesc) gfx.PixelFormat { return r.V.Format },
			func(r *viewDesc, v gfx.PixelFormat) { r.V.Format = v }),
		node.Input("Dimension",
			func(r *viewDesc) gputypes.TextureViewDimension { return r.V.Dimension },
			func(r *viewDesc, v gputypes.TextureViewDimension) { r.V.Dimension = v }),
		node.Input("BaseMipLevel",
			func(r *viewDesc) uint32 { return r.V.BaseMipLevel },
			func(r *viewDesc, v uint32) { r.V.BaseMipLevel = v }),
		node.Input("MipLevelCount",
			func(r *viewDesc) uint32 { return r.V.MipLevelCount },
			func(r *viewDesc, v uint32) { r.V.MipLevelCount = v }),
		node.Input("BaseArrayLayer",
			func(r *viewDesc) uint32 { return r.V.BaseArrayLayer },
			func(r *viewDesc, v uint32) { r.V.BaseArrayLayer = v }),
		node.Input("ArrayLayerCount",
			func(r *viewDesc) uint32 { return r.V.ArrayLayerCount },
			func(r *viewDesc, v uint32) { r.V.ArrayLayerCount = v }),
	)
	return node.AddStateOutput(d)
}

// Texture describes the texture builder node. Its output rebuilds the
// texture when an input changed; it is nil while the inputs are invalid.
// Initial data providers are compared by identity, set Recreate to pick up
// changes made inside a provider.
func Texture() *node.Description[*resource.TextureBuilder] {
	return node.New("Texture",
		func(ctx *node.Context) (*resource.TextureBuilder, func(), error) {
			return resource.NewTextureBuilder(ctx), nil, nil
		},
		node.Category(Category),
		node.CopyOnWrite(false),
		node.StateOutput(false),
	).With(
		node.Input("Description",
			(*resource.TextureBuilder).Description,
			(*resource.TextureBuilder).SetDescription),
		node.Input("ViewDescription",
			(*resource.TextureBuilder).ViewDescription,
			(*resource.TextureBuilder).SetViewDescription),
		node.Input("InitialData",
			(*resource.TextureBuilder).InitialData,
			func(b *resource.TextureBuilder, v []resource.DataProvider) { b.SetInitialData(slices.Clone(v)) },
			node.Equal(slices.Equal[[]resource.DataProvider])),
		node.Input("Recreate",
			func(b *resource.TextureBuilder) bool { return b.Recreate },
			func(b *resource.TextureBuilder, v bool) { b.Recreate = v },
			node.Default(false)),
		node.Output("Output", (*resource.TextureBuilder).Texture),
	)
}

// TextureView describes the texture view builder node.
func TextureView() *node.Description[*resource.TextureViewBuilder] {
	return node.New("TextureView",
		func(ctx *node.Context) (*resource.TextureViewBuilder, func(), error) {
			return resource.NewTextureViewBuilder(ctx), nil, nil
		},
		node.Category(Category),
		node.CopyOnWrite(false),
		node.StateOutput(false),
	).With(
		node.Input("Input",
			(*resource.TextureViewBuilder).Input,
			(*resource.TextureViewBuilder).SetInput),
		node.Input("ViewDescription",
			(*resource.TextureViewBuilder).ViewDescription,
			(*resource.TextureViewBuilder).SetViewDescription),
		node.Input("Recreate",
			func(b *resource.TextureViewBuilder) bool { return b.Recreate },
			func(b *resource.TextureViewBuilder, v bool) { b.Recreate = v },
			node.Default(false)),
		node.Output("Output", (*resource.TextureViewBuilder).TextureView),
	)
}

// DataSource is the instance of the data provider nodes. It configures its
// MemoryDataProvider from the pin values on every update pass.
type DataSource[S any] struct {
	provider *resource.MemoryDataProvider
	source   S
	layout   resource.Layout
	apply    func(*resource.MemoryDataProvider, S, resource.Layout)
}

// Provider returns the configured provider.
func (d *DataSource[S]) Provider() *resource.MemoryDataProvider { return d.provider }

func (d *DataSource[S]) output() resource.DataProvider {
	d.apply(d.provider, d.source, d.layout)
	return d.provider
}

func layoutPins[S any]() []node.PinDescription[*DataSource[S]] {
	field := func(name string, f func(*resource.Layout) *int) node.PinDescription[*DataSource[S]] {
		return node.Input(name,
			func(d *DataSource[S]) int { return *f(&d.layout) },
			func(d *DataSource[S], v int) { *f(&d.layout) = v },
			node.Default(0))
	}
	return []node.PinDescription[*DataSource[S]]{
		field("OffsetInBytes", func(l *resource.Layout) *int { return &l.Offset }),
		field("SizeInBytes", func(l *resource.Layout) *int { return &l.Size }),
		field("ElementSizeInBytes", func(l *resource.Layout) *int { return &l.ElementSize }),
		field("RowSizeInBytes", func(l *resource.Layout) *int { return &l.RowSize }),
		field("SliceSizeInBytes", func(l *resource.Layout) *int { return &l.SliceSize }),
	}
}

func dataSourceNode[S any](name string, input node.PinDescription[*DataSource[S]], apply func(*resource.MemoryDataProvider, S, resource.Layout)) *node.Description[*DataSource[S]] {
	d := node.New(name,
		func(*node.Context) (*DataSource[S], func(), error) {
			return &DataSource[S]{provider: resource.NewMemoryDataProvider(), apply: apply}, nil, nil
		},
		node.Category(Category),
		node.CopyOnWrite(false),
		node.StateOutput(false),
	)
	d.With(input)
	d.With(layoutPins[S]()...)
	return d.With(node.CachedOutput("Output", (*DataSource[S]).output))
}

// MemoryData describes a node providing a slice of T as initial data.
func MemoryData[T any](name string) *node.Description[*DataSource[[]T]] {
	return dataSourceNode(name,
		node.Input("Data",
			func(d *DataSource[[]T]) []T { return d.source },
			func(d *DataSource[[]T], v []T) { d.source = v }),
		resource.SetMemoryData[T],
	)
}

// ImageData describes a node providing the pixels of an image as initial
// data.
func ImageData() *node.Description[*DataSource[image.Image]] {
	return dataSourceNode("ImageData",
		node.Input("Image",
			func(d *DataSource[image.Image]) image.Image { return d.source },
			func(d *DataSource[image.Image], v image.Image) { d.source = v }),
		(*resource.MemoryDataProvider).SetImageData,
	)
}
