package wireroute

import (
	"context"
	"math"

	"github.com/wirekit/wirekit/lib/geo"
)

// WaypointRefiner is Strategy A: it refines the bend points the layout solver
// already produced instead of searching for a route of its own.
type WaypointRefiner struct {
	Opts Opts
}

func (r *WaypointRefiner) Route(ctx context.Context, req Request) (geo.Route, error) {
	if req.Src == nil || req.Dst == nil {
		return nil, errMissingGeometry
	}
	tol := r.Opts.CollinearTolerance

	if coord, vertical, ok := sharedRoutingLine(req.Bends, tol); ok {
		return r.collapseToRoutingLine(req, coord, vertical), nil
	}

	route := make(geo.Route, 0, len(req.Bends)+2)
	route = append(route, req.Src.Copy())
	for _, p := range req.Bends {
		route = append(route, p.Copy())
	}
	route = append(route, req.Dst.Copy())

	route = RemoveCollinear(route, tol)
	r.insertBuffers(route)
	return route, nil
}

// sharedRoutingLine reports whether all bend points lie on a single vertical
// or horizontal line within tolerance.
func sharedRoutingLine(bends geo.Route, tol float64) (coord float64, vertical, ok bool) {
	if len(bends) == 0 {
		return 0, false, false
	}
	sameX, sameY := true, true
	for _, p := range bends[1:] {
		if math.Abs(p.X-bends[0].X) > tol {
			sameX = false
		}
		if math.Abs(p.Y-bends[0].Y) > tol {
			sameY = false
		}
	}
	if sameX {
		return bends[0].X, true, true
	}
	if sameY {
		return bends[0].Y, false, true
	}
	return 0, false, false
}

// collapseToRoutingLine replaces the bend points with a single routing line
// at the shared coordinate, plus one buffer leg at each end. The buffer legs
// keep a minimum length so the path tolerates later manual node moves
// without recomputation.
func (r *WaypointRefiner) collapseToRoutingLine(req Request, coord float64, vertical bool) geo.Route {
	b := r.Opts.BufferLength
	src, dst := req.Src, req.Dst

	if vertical {
		// routing line is vertical at x=coord; legs leave horizontally
		x := coord
		if math.Abs(x-src.X) < b {
			x = src.X + sign(dst.X-src.X)*b
		}
		if math.Abs(x-dst.X) < b {
			x = dst.X + sign(src.X-dst.X)*b
		}
		return geo.Route{
			src.Copy(),
			geo.NewPoint(x, src.Y),
			geo.NewPoint(x, dst.Y),
			dst.Copy(),
		}
	}
	y := coord
	if math.Abs(y-src.Y) < b {
		y = src.Y + sign(dst.Y-src.Y)*b
	}
	if math.Abs(y-dst.Y) < b {
		y = dst.Y + sign(src.Y-dst.Y)*b
	}
	return geo.Route{
		src.Copy(),
		geo.NewPoint(src.X, y),
		geo.NewPoint(dst.X, y),
		dst.Copy(),
	}
}

// insertBuffers pushes the first and last corner out so the attachment legs
// are at least BufferLength long. Only axis-aligned legs move; anything else
// is left where the solver put it.
func (r *WaypointRefiner) insertBuffers(route geo.Route) {
	b := r.Opts.BufferLength
	tol := r.Opts.CollinearTolerance
	if len(route) < 3 {
		return
	}

	adjust := func(end, corner *geo.Point) {
		dx := corner.X - end.X
		dy := corner.Y - end.Y
		switch {
		case math.Abs(dy) <= tol && math.Abs(dx) < b && dx != 0:
			corner.X = end.X + sign(dx)*b
		case math.Abs(dx) <= tol && math.Abs(dy) < b && dy != 0:
			corner.Y = end.Y + sign(dy)*b
		}
	}

	adjust(route[0], route[1])
	adjust(route[len(route)-1], route[len(route)-2])
}

// RemoveCollinear drops points that lie on the same axis as both of their
// neighbors, keeping only genuine direction-change corners.
func RemoveCollinear(route geo.Route, tol float64) geo.Route {
	if len(route) <= 2 {
		return route
	}
	out := make(geo.Route, 0, len(route))
	out = append(out, route[0])
	for i := 1; i < len(route)-1; i++ {
		prev := out[len(out)-1]
		curr := route[i]
		next := route[i+1]
		sameX := math.Abs(prev.X-curr.X) <= tol && math.Abs(curr.X-next.X) <= tol
		sameY := math.Abs(prev.Y-curr.Y) <= tol && math.Abs(curr.Y-next.Y) <= tol
		if sameX || sameY {
			continue
		}
		out = append(out, curr)
	}
	out = append(out, route[len(route)-1])
	return out
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
