// Package wireroute turns cable endpoints, plus whatever routing the layout
// solver emitted, into smooth obstacle-aware drawable paths.
//
// Two interchangeable strategies exist per edge: waypoint refinement when the
// solver supplied bend points, and a grid search over node obstacles when it
// did not. Both degrade to a direct segment whenever geometry is missing or a
// search gives up; nothing here ever errors into the rendering layer.
package wireroute

import (
	"context"

	"cdr.dev/slog"

	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/lib/log"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wireports"
	"github.com/wirekit/wirekit/wiretarget"
)

// Opts are the geometry tuning constants. See wirelayouts.Opts for the
// user-facing documentation and defaults.
type Opts struct {
	BufferLength       float64
	CornerRadius       float64
	GridCell           float64
	Clearance          float64
	MaxExpansions      int
	CollinearTolerance float64
}

// Stats counts fallbacks so degraded routes stay observable without ever
// aborting a layout.
type Stats struct {
	DirectFallbacks   int
	BudgetExhaustions int
}

// EdgeRoute is one cable's polyline route with its attachment handles.
type EdgeRoute struct {
	Edge      *wiregraph.Edge
	Route     geo.Route
	SrcHandle string
	DstHandle string
}

// Request carries one edge's routing input to a strategy.
type Request struct {
	Src, Dst  *geo.Point
	Bends     geo.Route
	SrcNodeID string
	DstNodeID string
}

// Strategy builds a polyline route for a single edge.
type Strategy interface {
	Route(ctx context.Context, req Request) (geo.Route, error)
}

// BuildRoutes routes every edge of the graph. Edges with dangling endpoints
// or no usable geometry are skipped or degraded, never fatal.
func BuildRoutes(ctx context.Context, g *wiregraph.Graph, boxes map[string]*geo.Box, bends map[string]geo.Route, sides wireports.PortSideMap, opts Opts) ([]EdgeRoute, *Stats) {
	stats := &Stats{}
	dir := g.EffectiveDirection()

	nodeBoxes := make(map[string]*geo.Box, len(g.Nodes))
	portPos := make(map[string]map[string]*geo.Point, len(g.Nodes))
	for _, n := range g.Nodes {
		box := boxes[n.ID]
		if box == nil {
			continue
		}
		nodeBoxes[n.ID] = box
		if len(n.Ports) > 0 {
			portPos[n.ID] = wireports.PortPositions(n, box, sides[n.ID], dir)
		}
	}

	refiner := &WaypointRefiner{Opts: opts}
	grid := NewGridRouter(opts, nodeBoxes)

	var out []EdgeRoute
	for _, e := range g.Edges {
		srcNode := g.Node(e.Src)
		dstNode := g.Node(e.Dst)
		if srcNode == nil || dstNode == nil {
			log.Debug(ctx, "skipping edge with dangling endpoint", slog.F("edge", e.ID))
			continue
		}
		srcBox := nodeBoxes[e.Src]
		dstBox := nodeBoxes[e.Dst]
		if srcBox == nil || dstBox == nil {
			log.Debug(ctx, "skipping edge with unmeasured endpoint", slog.F("edge", e.ID))
			continue
		}

		src, srcHandle := attachment(e.Src, e.SrcPort, srcBox, dstBox, portPos)
		dst, dstHandle := attachment(e.Dst, e.DstPort, dstBox, srcBox, portPos)

		req := Request{
			Src:       src,
			Dst:       dst,
			Bends:     bends[e.ID],
			SrcNodeID: e.Src,
			DstNodeID: e.Dst,
		}

		var strategy Strategy = grid
		if len(req.Bends) > 0 {
			strategy = refiner
		}

		route, err := strategy.Route(ctx, req)
		if err != nil {
			// never fail the caller: fall back to a direct segment
			stats.DirectFallbacks++
			if err == errBudgetExhausted {
				stats.BudgetExhaustions++
			}
			log.Warn(ctx, "edge routing degraded to direct segment",
				slog.F("edge", e.ID), slog.Error(err))
			route = geo.Route{src.Copy(), dst.Copy()}
		}

		out = append(out, EdgeRoute{
			Edge:      e,
			Route:     route,
			SrcHandle: srcHandle,
			DstHandle: dstHandle,
		})
	}
	return out, stats
}

func attachment(nodeID, portKey string, box, otherBox *geo.Box, portPos map[string]map[string]*geo.Point) (*geo.Point, string) {
	if portKey != "" {
		if pts, ok := portPos[nodeID]; ok {
			if p, ok := pts[portKey]; ok {
				return p.Copy(), wiretarget.Handle(nodeID, portKey)
			}
		}
		// unknown port key: ignore it rather than fail
	}
	return wireports.BorderAttachment(box, otherBox.Center()), wiretarget.Handle(nodeID, "")
}
