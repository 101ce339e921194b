// Package wirelayouts runs the full layout pipeline: a pluggable coarse
// placement solver followed by the geometry passes that turn solver output
// into a drawable diagram.
package wirelayouts

import (
	"context"
	"fmt"

	"cdr.dev/slog"
	"oss.terrastruct.com/util-go/xdefer"

	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/lib/log"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wireports"
	"github.com/wirekit/wirekit/wireroute"
	"github.com/wirekit/wirekit/wiretarget"
)

// Solver produces coarse node and container placement. Implementations wrap
// external layout engines and are treated as black boxes; everything after
// the solver is deterministic geometry.
type Solver interface {
	Name() string
	Layout(ctx context.Context, g *wiregraph.Graph, order NodeOrder) (*Result, error)
}

// Result is the solver's coarse placement in absolute coordinates.
type Result struct {
	// Boxes holds node and container boxes keyed by id.
	Boxes map[string]*geo.Box
	// Bends holds, per edge id, the interior bend points the solver chose.
	// Endpoints are excluded; edges the solver routed straight are absent.
	Bends map[string]geo.Route
}

// Layout runs the pipeline against a solver and assembles the diagram.
func Layout(ctx context.Context, g *wiregraph.Graph, solver Solver, opts *Opts) (_ *wiretarget.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to lay out with %s", solver.Name())

	o := opts.withDefaults()
	dir := g.EffectiveDirection()

	order := ComputeNodeOrder(g.Nodes, g.Edges)

	res, err := solver.Layout(ctx, g, order)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Boxes == nil {
		return nil, fmt.Errorf("solver returned no geometry")
	}

	nodeBoxes := make(map[string]*geo.Box, len(g.Nodes))
	for _, n := range g.Nodes {
		if box := res.Boxes[n.ID]; box != nil {
			nodeBoxes[n.ID] = box
		} else {
			log.Warn(ctx, "solver returned no box for node", slog.F("node", n.ID))
		}
	}

	sides := wireports.ResolveSides(g, nodeBoxes, dir)

	routes, stats := wireroute.BuildRoutes(ctx, g, nodeBoxes, res.Bends, sides, o.routeOpts())
	if stats.DirectFallbacks > 0 {
		log.Info(ctx, "some edges degraded to direct segments",
			slog.F("fallbacks", stats.DirectFallbacks),
			slog.F("budget_exhaustions", stats.BudgetExhaustions))
	}

	wireroute.SeparateParallel(routes, o.SeparationDistance)

	return assemble(g, dir, nodeBoxes, res.Boxes, sides, routes, o), nil
}

func assemble(g *wiregraph.Graph, dir wiregraph.Direction, nodeBoxes, allBoxes map[string]*geo.Box, sides wireports.PortSideMap, routes []wireroute.EdgeRoute, o Opts) *wiretarget.Diagram {
	d := &wiretarget.Diagram{
		Direction: dir,
		PortSides: map[string]map[string]wiregraph.Side{},
	}

	for _, n := range g.Nodes {
		box := nodeBoxes[n.ID]
		if box == nil {
			continue
		}
		shape := wiretarget.Shape{
			ID:     n.ID,
			Parent: n.Parent,
			Box:    box,
		}
		if len(n.Ports) > 0 {
			nodeSides := sides[n.ID]
			positions := wireports.PortPositions(n, box, nodeSides, dir)
			for _, p := range n.Ports {
				side := nodeSides[p.Key]
				if side == "" {
					side = wireports.DefaultSide(dir)
				}
				shape.Ports = append(shape.Ports, wiretarget.PortStub{
					Key:      p.Key,
					Side:     side,
					Position: positions[p.Key],
				})
			}
			d.PortSides[n.ID] = nodeSides
		}
		d.Shapes = append(d.Shapes, shape)
	}

	g.WalkContainers(func(c *wiregraph.Container, _ int) {
		box := allBoxes[c.ID]
		if box == nil {
			return
		}
		d.Groups = append(d.Groups, wiretarget.Group{
			ID:     c.ID,
			Parent: c.Parent,
			Box:    box,
		})
	})

	for _, r := range routes {
		d.Connections = append(d.Connections, wiretarget.Connection{
			ID:        r.Edge.ID,
			Src:       r.Edge.Src,
			Dst:       r.Edge.Dst,
			SrcHandle: r.SrcHandle,
			DstHandle: r.DstHandle,
			Path:      wireroute.Smooth(r.Route, o.CornerRadius),
		})
	}

	return d
}
