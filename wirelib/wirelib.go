// Package wirelib is the top-level API tying validation, focus filtering and
// layout together.
package wirelib

import (
	"context"
	"fmt"
	"strings"

	"github.com/wirekit/wirekit/wirefocus"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wirelayouts"
	"github.com/wirekit/wirekit/wiretarget"
)

// GraphError is one structural problem found during validation.
type GraphError struct {
	// Ref is the id of the offending node, edge or container.
	Ref     string
	Message string
}

func (e GraphError) Error() string {
	if e.Ref == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Ref, e.Message)
}

// Validator checks a graph before layout. Implementations report every
// problem they find rather than stopping at the first.
type Validator interface {
	Validate(g *wiregraph.Graph) (bool, []GraphError)
}

// ValidationError aggregates the problems a Validator reported.
type ValidationError struct {
	Errors []GraphError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Error()
	}
	return fmt.Sprintf("invalid graph: %s", strings.Join(msgs, "; "))
}

// Opts configures a layout request.
type Opts struct {
	// Validator, when set, gates layout on graph validity.
	Validator Validator
	// Layout tunes the geometry passes. Nil uses defaults.
	Layout *wirelayouts.Opts
}

// Layout validates and lays out a graph with the given solver.
func Layout(ctx context.Context, g *wiregraph.Graph, solver wirelayouts.Solver, opts *Opts) (*wiretarget.Diagram, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if opts.Validator != nil {
		if ok, errs := opts.Validator.Validate(g); !ok {
			return nil, &ValidationError{Errors: errs}
		}
	}
	return wirelayouts.Layout(ctx, g, solver, opts.Layout)
}

// FocusLayout lays out only the bounded neighborhood of one node. The
// filtered subgraph goes through the same pipeline as a full layout.
func FocusLayout(ctx context.Context, g *wiregraph.Graph, focusID string, fopts wirefocus.Options, solver wirelayouts.Solver, opts *Opts) (*wiretarget.Diagram, error) {
	neighborhood, err := wirefocus.Compute(g, focusID, fopts)
	if err != nil {
		return nil, err
	}
	sub := wirefocus.Apply(g, neighborhood)
	return Layout(ctx, sub, solver, opts)
}

// RefValidator is the stock validator: every edge endpoint must name a known
// node, every parent link a known container, and referenced ports must exist
// on their node.
type RefValidator struct{}

func (RefValidator) Validate(g *wiregraph.Graph) (bool, []GraphError) {
	var errs []GraphError

	for _, n := range g.Nodes {
		if n.Parent != "" && g.Container(n.Parent) == nil {
			errs = append(errs, GraphError{Ref: n.ID, Message: fmt.Sprintf("unknown parent container %q", n.Parent)})
		}
		if n.Width <= 0 || n.Height <= 0 {
			errs = append(errs, GraphError{Ref: n.ID, Message: "node must have positive dimensions"})
		}
	}

	for _, c := range g.Containers {
		if c.Parent != "" && g.Container(c.Parent) == nil {
			errs = append(errs, GraphError{Ref: c.ID, Message: fmt.Sprintf("unknown parent container %q", c.Parent)})
		}
	}

	for _, e := range g.Edges {
		src := g.Node(e.Src)
		dst := g.Node(e.Dst)
		if src == nil {
			errs = append(errs, GraphError{Ref: e.ID, Message: fmt.Sprintf("unknown source node %q", e.Src)})
		}
		if dst == nil {
			errs = append(errs, GraphError{Ref: e.ID, Message: fmt.Sprintf("unknown target node %q", e.Dst)})
		}
		if src != nil && e.SrcPort != "" && src.Port(e.SrcPort) == nil {
			errs = append(errs, GraphError{Ref: e.ID, Message: fmt.Sprintf("unknown source port %q on %q", e.SrcPort, e.Src)})
		}
		if dst != nil && e.DstPort != "" && dst.Port(e.DstPort) == nil {
			errs = append(errs, GraphError{Ref: e.ID, Message: fmt.Sprintf("unknown target port %q on %q", e.DstPort, e.Dst)})
		}
	}

	return len(errs) == 0, errs
}
