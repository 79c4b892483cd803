package patch_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/handle"
	"github.com/gogpu/gpunode/internal/patch"
	"github.com/gogpu/gpunode/node"
	"github.com/gogpu/gpunode/nodes"
	"github.com/gogpu/gpunode/resource"
)

const chain = `
node "desc" "TextureDescription" {
  Width  = 2
  Height = 2
  Format = "R8G8B8A8_Typeless"
}

node "data" "MemoryData" {
  Data = [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16]
}

node "tex" "Texture" {
  Description = desc.Output
  InitialData = [data.Output]
}

node "viewdesc" "TextureViewDescription" {
  Format = "r8g8b8a8_unorm_srgb"
}

node "view" "TextureView" {
  Input           = tex.Output
  ViewDescription = viewdesc.Output
}
`

type env struct {
	factory *node.Factory
	ctx     *node.Context
	backend *gfx.MemoryBackend
}

func newEnv(t *testing.T) env {
	t.Helper()
	f := node.NewFactory()
	require.NoError(t, nodes.Register(f))
	b := gfx.NewMemoryBackend()
	ctx := node.NewContext()
	resource.WithDevices(ctx, handle.Static(gfx.NewDevice(b, "memory")))
	return env{factory: f, ctx: ctx, backend: b}
}

func (e env) run(t *testing.T, src string) *patch.Patch {
	t.Helper()
	f, err := patch.Parse([]byte(src), "test.hcl")
	require.NoError(t, err)
	p, err := f.Instantiate(e.factory, e.ctx)
	require.NoError(t, err)
	t.Cleanup(p.Dispose)
	return p
}

func TestParse(t *testing.T) {
	f, err := patch.Parse([]byte(chain), "dir/test.hcl")
	require.NoError(t, err)
	require.Equal(t, "dir", f.Dir)

	type decl struct {
		Name, Type string
		Attrs      []string
	}
	var got []decl
	for _, d := range f.Nodes {
		var attrs []string
		for _, a := range d.Attrs {
			attrs = append(attrs, a.Name)
		}
		got = append(got, decl{d.Name, d.Type, attrs})
	}
	want := []decl{
		{"desc", "TextureDescription", []string{"Width", "Height", "Format"}},
		{"data", "MemoryData", []string{"Data"}},
		{"tex", "Texture", []string{"Description", "InitialData"}},
		{"viewdesc", "TextureViewDescription", []string{"Format"}},
		{"view", "TextureView", []string{"Input", "ViewDescription"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, f.Decl("tex"))
	require.Nil(t, f.Decl("missing"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{name: "syntax", src: `node "a" "Texture" {`},
		{name: "missing label", src: `node "a" { }`},
		{name: "nested block", src: `node "a" "Texture" { inner { } }`},
		{name: "unknown block", src: `edge "a" { }`},
		{
			name: "duplicate",
			src:  "node \"a\" \"Texture\" {}\nnode \"a\" \"TextureView\" {}\n",
			is:   patch.ErrDuplicateNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := patch.Parse([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestTextureChain(t *testing.T) {
	e := newEnv(t)
	p := e.run(t, chain)
	p.Step()
	require.Equal(t, 1, p.Frame())

	out, err := p.Output("tex", "Output")
	require.NoError(t, err)
	tex, ok := out.(*gfx.Texture)
	require.True(t, ok)
	require.NotNil(t, tex)
	require.Equal(t, gfx.R8G8B8A8Typeless, tex.Format())

	mem := tex.Native().(*gfx.MemoryTexture)
	want := [][]byte{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}
	if diff := cmp.Diff(want, mem.Data); diff != "" {
		t.Errorf("texture data mismatch (-want +got):\n%s", diff)
	}

	out, err = p.Output("view", "Output")
	require.NoError(t, err)
	view, ok := out.(*gfx.TextureView)
	require.True(t, ok)
	require.NotNil(t, view)
	require.Equal(t, gfx.R8G8B8A8UNormSRgb, view.Format())
	require.Same(t, tex, view.Texture())

	// A second frame with unchanged inputs reuses everything.
	p.Step()
	again, err := p.Output("tex", "Output")
	require.NoError(t, err)
	require.Same(t, tex, again)
	require.Equal(t, 1, e.backend.TexturesCreated())

	// Editing an upstream pin propagates on the next frame.
	desc, ok := p.Node("desc")
	require.True(t, ok)
	height, ok := node.FindInput(desc, "Height")
	require.True(t, ok)
	height.SetValue(uint32(1))
	p.Step()

	out, err = p.Output("tex", "Output")
	require.NoError(t, err)
	require.NotSame(t, tex, out)
	require.True(t, tex.IsDestroyed())
	require.Equal(t, uint32(1), out.(*gfx.Texture).Height())

	out, err = p.Output("view", "Output")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.NotSame(t, view, out)

	p.Dispose()
	require.Equal(t, 0, e.backend.Live())
}

func TestInstantiateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{
			name: "unknown type",
			src:  `node "a" "Nope" {}`,
			is:   node.ErrUnknown,
		},
		{
			name: "unknown input",
			src:  `node "a" "TextureDescription" { Colour = 1 }`,
			is:   patch.ErrUnknownPin,
		},
		{
			name: "unknown node",
			src:  `node "a" "Texture" { Description = missing.Output }`,
			is:   patch.ErrUnknownNode,
		},
		{
			name: "bare identifier",
			src:  `node "a" "TextureDescription" { Format = R8_UNorm }`,
			is:   patch.ErrUnknownNode,
		},
		{
			name: "forward link",
			src: `
node "tex" "Texture" { Description = desc.Output }
node "desc" "TextureDescription" {}
`,
			is: patch.ErrForwardLink,
		},
		{
			name: "forward list link",
			src: `
node "tex" "Texture" { InitialData = [data.Output] }
node "data" "MemoryData" {}
`,
			is: patch.ErrForwardLink,
		},
		{
			name: "keyword list into scalar",
			src:  `node "tex" "Texture" { Recreate = [true] }`,
			is:   patch.ErrValue,
		},
		{
			name: "self link",
			src:  `node "desc" "TextureDescription" { Label = desc.Output }`,
			is:   patch.ErrForwardLink,
		},
		{
			name: "unknown output",
			src: `
node "desc" "TextureDescription" {}
node "tex" "Texture" { Description = desc.Result }
`,
			is: patch.ErrUnknownPin,
		},
		{
			name: "link type mismatch",
			src: `
node "desc" "TextureDescription" {}
node "view" "TextureView" { Input = desc.Output }
`,
			is: patch.ErrLinkType,
		},
		{
			name: "list into scalar",
			src: `
node "desc" "TextureDescription" {}
node "tex" "Texture" { Description = [desc.Output] }
`,
			is: patch.ErrLinkType,
		},
		{
			name: "bad literal",
			src:  `node "desc" "TextureDescription" { Width = "wide" }`,
			is:   patch.ErrValue,
		},
		{
			name: "bad format",
			src:  `node "desc" "TextureDescription" { Format = "R7" }`,
			is:   gfx.ErrInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			f, err := patch.Parse([]byte(tt.src), "bad.hcl")
			require.NoError(t, err)
			p, err := f.Instantiate(e.factory, e.ctx)
			require.ErrorIs(t, err, tt.is)
			require.Nil(t, p)
		})
	}
}

type counted struct{}

func TestInstantiateFailureDisposesCreatedNodes(t *testing.T) {
	e := newEnv(t)
	disposed := 0
	require.NoError(t, e.factory.Register(node.New("Counted",
		func(*node.Context) (*counted, func(), error) {
			return &counted{}, func() { disposed++ }, nil
		})))

	f, err := patch.Parse([]byte(`
node "a" "Counted" {}
node "b" "Counted" {}
node "bad" "Nope" {}
`), "bad.hcl")
	require.NoError(t, err)

	_, err = f.Instantiate(e.factory, e.ctx)
	require.ErrorIs(t, err, node.ErrUnknown)
	require.Equal(t, 2, disposed)
}

func TestLiterals(t *testing.T) {
	e := newEnv(t)
	p := e.run(t, `
node "desc" "TextureDescription" {
  Label       = "atlas"
  Width       = 16
  Height      = 8
  MipLevels   = 3
  SampleCount = null
  Format      = "R32_Float"
}
node "floats" "FloatData" {
  Data          = [0.5, 1.5, 2.5]
  OffsetInBytes = 4
}
node "tex" "Texture" {
  Recreate = true
}
`)
	p.Step()

	out, err := p.Output("desc", "Output")
	require.NoError(t, err)
	desc := out.(gfx.TextureDescription)
	require.Equal(t, "atlas", desc.Label)
	require.Equal(t, uint32(16), desc.Size.Width)
	require.Equal(t, uint32(8), desc.Size.Height)
	require.Equal(t, uint32(3), desc.MipLevels)
	require.Equal(t, uint32(1), desc.SampleCount)
	require.Equal(t, gfx.R32Float, desc.Format)

	out, err = p.Output("floats", "Output")
	require.NoError(t, err)
	provider := out.(resource.DataProvider)
	require.Equal(t, 8, provider.SizeInBytes())
	require.Equal(t, 4, provider.ElementSizeInBytes())

	n, ok := p.Node("tex")
	require.True(t, ok)
	b, ok := node.InstanceOf[*resource.TextureBuilder](n)
	require.True(t, ok)
	require.True(t, b.Recreate)
}

func TestKeywordLiterals(t *testing.T) {
	e := newEnv(t)
	p := e.run(t, `
node "desc" "TextureDescription" {
  SampleCount = null
}
node "tex" "Texture" {
  Recreate = false
}
`)
	p.Step()

	out, err := p.Output("desc", "Output")
	require.NoError(t, err)
	require.Equal(t, uint32(1), out.(gfx.TextureDescription).SampleCount)

	n, ok := p.Node("tex")
	require.True(t, ok)
	b, ok := node.InstanceOf[*resource.TextureBuilder](n)
	require.True(t, ok)
	require.False(t, b.Recreate)
}

func TestImageLiteral(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	fh, err := os.Create(filepath.Join(dir, "checker.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, img))
	require.NoError(t, fh.Close())

	path := filepath.Join(dir, "patch.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
node "desc" "TextureDescription" {
  Width  = 2
  Height = 2
}
node "pixels" "ImageData" {
  Image = "checker.png"
}
node "tex" "Texture" {
  Description = desc.Output
  InitialData = [pixels.Output]
}
`), 0o600))

	f, err := patch.Load(path)
	require.NoError(t, err)
	e := newEnv(t)
	p, err := f.Instantiate(e.factory, e.ctx)
	require.NoError(t, err)
	defer p.Dispose()
	p.Step()

	out, err := p.Output("tex", "Output")
	require.NoError(t, err)
	tex := out.(*gfx.Texture)
	require.NotNil(t, tex)

	data := tex.Native().(*gfx.MemoryTexture).Data[0]
	require.Len(t, data, 16)
	if diff := cmp.Diff([]byte{255, 0, 0, 255}, data[12:16]); diff != "" {
		t.Errorf("pixel (1,1) mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingImage(t *testing.T) {
	e := newEnv(t)
	f, err := patch.Parse([]byte(`node "pixels" "ImageData" { Image = "nope.png" }`), filepath.Join(t.TempDir(), "p.hcl"))
	require.NoError(t, err)
	_, err = f.Instantiate(e.factory, e.ctx)
	require.ErrorIs(t, err, patch.ErrValue)
}

func TestOutputLookup(t *testing.T) {
	e := newEnv(t)
	p := e.run(t, `node "desc" "TextureDescription" {}`)

	_, err := p.Output("nope", "Output")
	require.ErrorIs(t, err, patch.ErrUnknownNode)
	_, err = p.Output("desc", "Nope")
	require.ErrorIs(t, err, patch.ErrUnknownPin)

	var names []string
	for _, in := range p.Instances() {
		names = append(names, in.Name)
	}
	require.Equal(t, []string{"desc"}, names)
}
