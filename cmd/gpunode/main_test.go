package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gpunode/backend"
)

func TestRunChecker(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(&out, logger, "testdata/checker.hcl", "memory", 3); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"tex.output = texture 2x2x1 R8G8B8A8_Typeless mips=1",
		"view.output = view R8G8B8A8_UNorm_SRgb",
		"pixels.output = data size=16",
		"frames=3\n",
		"textures=1 views=2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestRunMissingPatch(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(io.Discard, logger, "testdata/missing.hcl", "", 1); err == nil {
		t.Fatal("run with a missing patch succeeded")
	}
}

func TestRunUnknownBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(io.Discard, logger, "testdata/checker.hcl", "nope", 1)
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Fatalf("run error = %v, want ErrBackendNotAvailable", err)
	}
}
