package wireports

import (
	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/wiregraph"
)

// AttachmentPoint returns the coordinate on box's side where the port at
// position index out of count sits. Ports sharing a side are spaced evenly in
// port order.
func AttachmentPoint(box *geo.Box, side wiregraph.Side, index, count int) *geo.Point {
	if count < 1 {
		count = 1
	}
	t := float64(index+1) / float64(count+1)
	tl := box.TopLeft
	switch side {
	case wiregraph.North:
		return geo.NewPoint(tl.X+box.Width*t, tl.Y)
	case wiregraph.South:
		return geo.NewPoint(tl.X+box.Width*t, tl.Y+box.Height)
	case wiregraph.West:
		return geo.NewPoint(tl.X, tl.Y+box.Height*t)
	default:
		return geo.NewPoint(tl.X+box.Width, tl.Y+box.Height*t)
	}
}

// PortPositions lays out every port of a node on its resolved side.
func PortPositions(n *wiregraph.Node, box *geo.Box, sides map[string]wiregraph.Side, dir wiregraph.Direction) map[string]*geo.Point {
	bySide := make(map[wiregraph.Side][]string)
	for _, p := range n.Ports {
		s, ok := sides[p.Key]
		if !ok {
			s = DefaultSide(dir)
		}
		bySide[s] = append(bySide[s], p.Key)
	}

	out := make(map[string]*geo.Point, len(n.Ports))
	for side, keys := range bySide {
		for i, key := range keys {
			out[key] = AttachmentPoint(box, side, i, len(keys))
		}
	}
	return out
}

// BorderAttachment returns the point on box's border where the segment from
// its center toward `toward` exits. Falls back to the center when the segment
// never crosses the border (e.g. toward lies inside the box).
func BorderAttachment(box *geo.Box, toward *geo.Point) *geo.Point {
	center := box.Center()
	hits := box.Intersections(*geo.NewSegment(center, toward))
	if len(hits) == 0 {
		return center
	}
	best := hits[0]
	bestD := best.DistanceTo(toward)
	for _, p := range hits[1:] {
		if d := p.DistanceTo(toward); d < bestD {
			best, bestD = p, d
		}
	}
	return best
}
