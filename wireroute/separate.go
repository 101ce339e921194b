package wireroute

import (
	"github.com/wirekit/wirekit/lib/geo"
)

// SeparateParallel offsets edges that connect the same unordered node pair so
// they stop rendering on top of each other. For a group of n edges, member i
// is translated by (i-(n-1)/2) * dist along the perpendicular of the group's
// reference segment. Attachment endpoints stay put; only the intermediate
// geometry shifts. Routes are modified in place.
func SeparateParallel(routes []EdgeRoute, dist float64) {
	type group struct {
		members []int
	}
	groups := make(map[[2]string]*group)
	var order [][2]string

	for i, er := range routes {
		if len(er.Route) < 2 {
			continue
		}
		key := pairKey(er.Edge.Src, er.Edge.Dst)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, i)
	}

	for _, key := range order {
		g := groups[key]
		n := len(g.members)
		if n <= 1 {
			continue
		}

		// reference segment: the first member's endpoints, oriented from the
		// canonical (smaller-id) node
		first := routes[g.members[0]]
		refStart := first.Route[0]
		refEnd := first.Route[len(first.Route)-1]
		if first.Edge.Src != key[0] {
			refStart, refEnd = refEnd, refStart
		}
		if refStart.Equals(refEnd) {
			continue
		}
		perpX, perpY := geo.GetUnitNormalVector(refStart.X, refStart.Y, refEnd.X, refEnd.Y)

		for i, ri := range g.members {
			offset := (float64(i) - float64(n-1)/2) * dist
			if offset == 0 {
				continue
			}
			shiftInterior(&routes[ri].Route, perpX*offset, perpY*offset)
		}
	}
}

// shiftInterior translates every point of the route except the two
// attachment endpoints. Direct two-point routes gain interior points first so
// they have geometry to shift.
func shiftInterior(route *geo.Route, dx, dy float64) {
	r := *route
	if len(r) == 2 {
		r = geo.Route{
			r[0],
			r[0].Interpolate(r[1], 1.0/3),
			r[0].Interpolate(r[1], 2.0/3),
			r[1],
		}
		*route = r
	}
	for i := 1; i < len(r)-1; i++ {
		r[i].X += dx
		r[i].Y += dy
	}
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
