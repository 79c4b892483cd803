// Command gpunode loads a patch file, steps it for a number of frames and
// prints the node outputs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gpunode"
	"github.com/gogpu/gpunode/backend"
	"github.com/gogpu/gpunode/diag"
	"github.com/gogpu/gpunode/gfx"
	"github.com/gogpu/gpunode/internal/patch"
	"github.com/gogpu/gpunode/node"
	"github.com/gogpu/gpunode/nodes"
	"github.com/gogpu/gpunode/resource"
)

func main() {
	var (
		patchPath = flag.String("patch", "", "patch file (HCL)")
		frames    = flag.Int("frames", 1, "number of frames to step")
		backendID = flag.String("backend", "", "device backend (default: best available)")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *patchPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gpunode.SetLogger(logger)

	if err := run(os.Stdout, logger, *patchPath, *backendID, *frames); err != nil {
		log.Fatalf("gpunode: %v", err)
	}
}

func run(w io.Writer, logger *slog.Logger, path, backendID string, frames int) error {
	file, err := patch.Load(path)
	if err != nil {
		return err
	}

	factory := node.NewFactory()
	if err := nodes.Register(factory); err != nil {
		return err
	}

	devices := backend.Provider(backendID)
	device := devices.Acquire()
	defer device.Dispose()
	dev, err := device.Resource()
	if err != nil {
		return err
	}

	diagnostics := diag.NewCollector()
	ctx := node.NewContext()
	ctx.Diagnostics = diag.Tee(diagnostics, diag.LogSink{Logger: logger})
	resource.WithDevices(ctx, devices)

	p, err := file.Instantiate(factory, ctx)
	if err != nil {
		return err
	}
	defer p.Dispose()
	logger.Info("patch loaded", "path", path, "nodes", len(p.Instances()), "device", dev.Label())

	for range frames {
		p.Step()
	}

	for _, in := range p.Instances() {
		for _, out := range in.Node.Outputs() {
			fmt.Fprintf(w, "%s.%s = %s\n", in.Name, node.PinKey(out.Name()), describe(out.Value()))
		}
		if err := in.Node.Err(); err != nil {
			fmt.Fprintf(w, "%s: %v\n", in.Name, err)
		}
	}
	for _, m := range diagnostics.Active() {
		fmt.Fprintf(w, "diagnostic %d %s: %s\n", m.ElementID, m.Severity, m.Text)
	}
	fmt.Fprintf(w, "frames=%d\n", p.Frame())
	if mem, ok := dev.Backend().(*gfx.MemoryBackend); ok {
		fmt.Fprintf(w, "textures=%d views=%d\n", mem.Live(), mem.ViewsCreated()-mem.ViewsDestroyed())
	}
	return nil
}

func describe(v any) string {
	switch x := v.(type) {
	case *gfx.Texture:
		if x == nil {
			return "<nil>"
		}
		d := x.Description()
		return fmt.Sprintf("texture %dx%dx%d %s mips=%d", d.Size.Width, d.Size.Height, d.Size.DepthOrArrayLayers, d.Format, d.MipLevels)
	case *gfx.TextureView:
		if x == nil {
			return "<nil>"
		}
		return fmt.Sprintf("view %s", x.Format())
	case resource.DataProvider:
		return fmt.Sprintf("data size=%d row=%d slice=%d", x.SizeInBytes(), x.RowSizeInBytes(), x.SliceSizeInBytes())
	default:
		return fmt.Sprintf("%+v", v)
	}
}
