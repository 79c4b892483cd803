package patch

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"

	"github.com/gogpu/gpunode"
	"github.com/gogpu/gpunode/node"
)

// Instance is a node created for a declaration.
type Instance struct {
	Name string
	Node node.Node
}

// Patch is an instantiated patch.
type Patch struct {
	instances []Instance
	byName    map[string]int
	links     []link
	frame     int
}

// link feeds one input from one output, or a list input from several.
type link struct {
	dst  node.Pin
	srcs []node.Pin
	list bool
}

func (l link) propagate() {
	if !l.list {
		l.dst.SetValue(l.srcs[0].Value())
		return
	}
	s := reflect.MakeSlice(l.dst.Type(), len(l.srcs), len(l.srcs))
	for i, src := range l.srcs {
		if v := src.Value(); v != nil {
			s.Index(i).Set(reflect.ValueOf(v))
		}
	}
	l.dst.SetValue(s.Interface())
}

// Instantiate creates a node for every declaration, in order, applies the
// literals and records the links. A null literal leaves the pin at its
// default. Node i gets ctx.Child(i+1) as context.
// On error every node created so far is disposed.
func (f *File) Instantiate(factory *node.Factory, ctx *node.Context) (p *Patch, err error) {
	if ctx == nil {
		ctx = node.NewContext()
	}
	p = &Patch{byName: make(map[string]int, len(f.Nodes))}
	defer func() {
		if err != nil {
			p.Dispose()
			p = nil
		}
	}()

	// All names are known up front so links to later nodes are reported
	// as forward links rather than unknown nodes.
	for i, d := range f.Nodes {
		if _, dup := p.byName[d.Name]; dup {
			return p, fmt.Errorf("%w: %q", ErrDuplicateNode, d.Name)
		}
		p.byName[d.Name] = i
	}

	for i, d := range f.Nodes {
		n, err := factory.Create(d.Type, ctx.Child(uint32(i+1)))
		if err != nil {
			return p, fmt.Errorf("patch: node %q: %w", d.Name, err)
		}
		p.instances = append(p.instances, Instance{Name: d.Name, Node: n})

		for _, a := range d.Attrs {
			if err := p.bind(f, i, n, a); err != nil {
				return p, fmt.Errorf("patch: %s.%s (%s): %w", d.Name, a.Name, a.Range, err)
			}
		}
	}
	gpunode.Logger().Debug("patch: instantiated", "nodes", len(p.instances), "links", len(p.links))
	return p, nil
}

func (p *Patch) bind(f *File, self int, n node.Node, a *hcl.Attribute) error {
	dst, ok := node.FindInput(n, a.Name)
	if !ok {
		return ErrUnknownPin
	}

	if tr, ok := linkTraversal(a.Expr); ok {
		src, err := p.source(self, tr)
		if err != nil {
			return err
		}
		if !src.Type().AssignableTo(dst.Type()) {
			return fmt.Errorf("%w: %s into %s", ErrLinkType, src.Type(), dst.Type())
		}
		p.links = append(p.links, link{dst: dst, srcs: []node.Pin{src}})
		return nil
	}

	if exprs, diags := hcl.ExprList(a.Expr); !diags.HasErrors() && len(exprs) > 0 {
		if trs, ok := traversals(exprs); ok {
			if dst.Type().Kind() != reflect.Slice {
				return fmt.Errorf("%w: list into %s", ErrLinkType, dst.Type())
			}
			l := link{dst: dst, list: true}
			for _, tr := range trs {
				src, err := p.source(self, tr)
				if err != nil {
					return err
				}
				if !src.Type().AssignableTo(dst.Type().Elem()) {
					return fmt.Errorf("%w: %s into %s", ErrLinkType, src.Type(), dst.Type())
				}
				l.srcs = append(l.srcs, src)
			}
			p.links = append(p.links, l)
			return nil
		}
	}

	val, diags := a.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return nil
	}
	v, err := convert(val, dst.Type(), f.Dir)
	if err != nil {
		return err
	}
	dst.SetValue(v)
	return nil
}

// source resolves "name.Pin" to the output of an earlier node.
func (p *Patch) source(self int, tr hcl.Traversal) (node.Pin, error) {
	name := tr.RootName()
	i, ok := p.byName[name]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	case i >= self:
		return nil, fmt.Errorf("%w: %q", ErrForwardLink, name)
	case len(tr) != 2:
		return nil, fmt.Errorf("%w: want %s.<Output>", ErrUnknownPin, name)
	}
	attr, ok := tr[1].(hcl.TraverseAttr)
	if !ok {
		return nil, fmt.Errorf("%w: want %s.<Output>", ErrUnknownPin, name)
	}
	src, ok := node.FindOutput(p.instances[i].Node, attr.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownPin, name, attr.Name)
	}
	return src, nil
}

func traversals(exprs []hcl.Expression) ([]hcl.Traversal, bool) {
	out := make([]hcl.Traversal, 0, len(exprs))
	for _, e := range exprs {
		tr, ok := linkTraversal(e)
		if !ok {
			return nil, false
		}
		out = append(out, tr)
	}
	return out, true
}

// linkTraversal returns the traversal of a link expression. The keywords
// true, false and null parse as root traversals but are literals.
func linkTraversal(expr hcl.Expression) (hcl.Traversal, bool) {
	tr, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return nil, false
	}
	if len(tr) == 1 {
		switch tr.RootName() {
		case "true", "false", "null":
			return nil, false
		}
	}
	return tr, true
}

// Step runs one frame: links are propagated in declaration order, then
// every node runs its update pass.
func (p *Patch) Step() {
	for _, l := range p.links {
		l.propagate()
	}
	for _, in := range p.instances {
		in.Node.Update()
		if err := in.Node.Err(); err != nil {
			in.Node.Context().Logger().Warn("patch: node failed", "node", in.Name, "err", err)
		}
	}
	p.frame++
}

// Frame returns the number of frames stepped.
func (p *Patch) Frame() int { return p.frame }

// Instances returns the nodes in declaration order.
func (p *Patch) Instances() []Instance { return p.instances }

// Node returns the node declared as name.
func (p *Patch) Node(name string) (node.Node, bool) {
	i, ok := p.byName[name]
	if !ok {
		return nil, false
	}
	return p.instances[i].Node, true
}

// Output reads the output pin of the node declared as name.
func (p *Patch) Output(name, pin string) (any, error) {
	n, ok := p.Node(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	out, ok := node.FindOutput(n, pin)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownPin, name, pin)
	}
	return out.Value(), nil
}

// Dispose disposes every node, last declared first.
func (p *Patch) Dispose() {
	for i := len(p.instances) - 1; i >= 0; i-- {
		p.instances[i].Node.Dispose()
	}
	p.instances = nil
	p.byName = map[string]int{}
	p.links = nil
}
