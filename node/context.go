package node

import (
	"log/slog"

	"github.com/gogpu/gpunode"
	"github.com/gogpu/gpunode/diag"
)

// Context is handed to constructors. It identifies the placement of a node
// in the patch and carries services such as the diagnostics sink or the
// graphics device provider.
//
// Values set on a context are visible to all contexts derived from it with
// Child; a child may shadow them.
type Context struct {
	// Path is the stack of element ids from the patch root to this node.
	// Diagnostics are posted for every id on the path.
	Path []uint32

	// Diagnostics receives messages; nil means discard.
	Diagnostics diag.Sink

	parent      *Context
	values      map[any]any
	attachments *Attachments
}

// NewContext creates a root context.
func NewContext(path ...uint32) *Context {
	return &Context{Path: path}
}

// Child returns a context for a nested element. The child inherits values
// and the diagnostics sink.
func (c *Context) Child(id uint32) *Context {
	path := make([]uint32, len(c.Path), len(c.Path)+1)
	copy(path, c.Path)
	return &Context{
		Path:        append(path, id),
		Diagnostics: c.Diagnostics,
		parent:      c,
	}
}

// Set stores a value under key on this context.
func (c *Context) Set(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

// Value looks key up on this context and its ancestors.
func (c *Context) Value(key any) any {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.values[key]; ok {
			return v
		}
	}
	return nil
}

// Sink returns the diagnostics sink, never nil.
func (c *Context) Sink() diag.Sink {
	if c.Diagnostics == nil {
		return diag.Discard
	}
	return c.Diagnostics
}

// Logger returns the package-wide logger annotated with the node path.
func (c *Context) Logger() *slog.Logger {
	return gpunode.Logger().With("path", c.Path)
}

// Attachments returns the component attachment registry shared by the
// whole context tree.
func (c *Context) Attachments() *Attachments {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	if root.attachments == nil {
		root.attachments = newAttachments()
	}
	return root.attachments
}

// ValueOf returns the value stored under key if it has type V.
func ValueOf[V any](c *Context, key any) (V, bool) {
	v, ok := c.Value(key).(V)
	return v, ok
}
