// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package patch loads node graphs from HCL patch files and runs them.
//
// A patch declares one block per node:
//
//	node "desc" "TextureDescription" {
//	  Width  = 4
//	  Format = "R8G8B8A8_UNorm"
//	}
//	node "tex" "Texture" {
//	  Description = desc.Output
//	  InitialData = [data.Output]
//	}
//
// The labels are the instance name and the node type. Attribute names are
// input pin names without spaces. A traversal links an output of an earlier
// node, a tuple of traversals fills a list pin, anything else is a literal
// evaluated once at instantiation.
package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is a parsed patch.
type File struct {
	// Dir resolves relative file names in literals, such as image paths.
	Dir   string
	Nodes []*Decl
}

// Decl is one node block.
type Decl struct {
	Name  string
	Type  string
	Attrs []*hcl.Attribute // source order
	Range hcl.Range
}

type hclFile struct {
	Nodes []*hclNode `hcl:"node,block"`
}

type hclNode struct {
	Name string   `hcl:"name,label"`
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load reads and parses the patch at path.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	return Parse(src, path)
}

// Parse parses patch source. filename is used in diagnostics and as the
// base for relative paths.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("patch: parse %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("patch: decode %s: %w", filename, diags)
	}

	file := &File{Dir: filepath.Dir(filename)}
	seen := make(map[string]hcl.Range, len(parsed.Nodes))
	for _, n := range parsed.Nodes {
		attrs, diags := n.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("patch: node %q: %w", n.Name, diags)
		}
		// Points at the opening of the block body.
		rng := n.Body.MissingItemRange()
		if prev, dup := seen[n.Name]; dup {
			return nil, fmt.Errorf("%w: %q at %s, first declared at %s", ErrDuplicateNode, n.Name, rng, prev)
		}
		seen[n.Name] = rng

		decl := &Decl{Name: n.Name, Type: n.Type, Range: rng}
		for _, a := range attrs {
			decl.Attrs = append(decl.Attrs, a)
		}
		sort.Slice(decl.Attrs, func(i, j int) bool {
			return decl.Attrs[i].Range.Start.Byte < decl.Attrs[j].Range.Start.Byte
		})
		file.Nodes = append(file.Nodes, decl)
	}
	return file, nil
}

// Decl returns the declaration named name, or nil.
func (f *File) Decl(name string) *Decl {
	for _, d := range f.Nodes {
		if d.Name == name {
			return d
		}
	}
	return nil
}
