// Package wireports resolves which side of a device each port faces once the
// layout solver has produced final coordinates, and computes the attachment
// coordinates cables connect to.
//
// Directional ports (In/Out) face the layout's flow sides. Direction-less
// (Bidirectional) ports are resolved from the geometry of the edges they
// serve: each qualifying edge contributes a signed delta along the layout's
// primary axis, and the summed sign picks the side.
package wireports

import (
	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/wiregraph"
)

// PortSideMap maps nodeID -> portKey -> resolved side. A fresh map is built
// per layout pass and never mutated afterward.
type PortSideMap map[string]map[string]wiregraph.Side

// Side returns the resolved side for (nodeID, portKey), defaulting to the
// orientation default when unknown.
func (m PortSideMap) Side(nodeID, portKey string, dir wiregraph.Direction) wiregraph.Side {
	if ports, ok := m[nodeID]; ok {
		if s, ok := ports[portKey]; ok {
			return s
		}
	}
	return DefaultSide(dir)
}

// DefaultSide is the documented fallback side: the flow side of the layout.
// It applies both to ports with no qualifying edges and to an exact zero sum.
func DefaultSide(dir wiregraph.Direction) wiregraph.Side {
	if dir.IsHorizontal() {
		return wiregraph.East
	}
	return wiregraph.South
}

// inSide and outSide are the fixed sides of directional ports.
func inSide(dir wiregraph.Direction) wiregraph.Side {
	switch dir {
	case wiregraph.DirectionLeft:
		return wiregraph.East
	case wiregraph.DirectionDown:
		return wiregraph.North
	case wiregraph.DirectionUp:
		return wiregraph.South
	default:
		return wiregraph.West
	}
}

func outSide(dir wiregraph.Direction) wiregraph.Side {
	switch dir {
	case wiregraph.DirectionLeft:
		return wiregraph.West
	case wiregraph.DirectionDown:
		return wiregraph.South
	case wiregraph.DirectionUp:
		return wiregraph.North
	default:
		return wiregraph.East
	}
}

// ResolveSides resolves a side for every port of every node. boxes holds the
// solver's absolute geometry; nodes without geometry keep their defaults.
func ResolveSides(g *wiregraph.Graph, boxes map[string]*geo.Box, dir wiregraph.Direction) PortSideMap {
	horizontal := dir.IsHorizontal()

	centers := make(map[string]*geo.Point, len(boxes))
	for id, box := range boxes {
		if box != nil {
			centers[id] = box.Center()
		}
	}

	out := make(PortSideMap, len(g.Nodes))
	for _, n := range g.Nodes {
		if len(n.Ports) == 0 {
			continue
		}
		sides := make(map[string]wiregraph.Side, len(n.Ports))
		for _, p := range n.Ports {
			switch p.Alignment {
			case wiregraph.AlignmentIn:
				sides[p.Key] = inSide(dir)
			case wiregraph.AlignmentOut:
				sides[p.Key] = outSide(dir)
			default:
				sides[p.Key] = resolveBidirectional(g, n, p.Key, centers, horizontal, dir)
			}
		}
		out[n.ID] = sides
	}
	return out
}

// resolveBidirectional sums the signed positional delta, along the primary
// axis, between the node and the other endpoint of every edge referencing
// (node, port). When the node is the edge target the sign is inverted so the
// port faces back toward the source it serves.
func resolveBidirectional(g *wiregraph.Graph, n *wiregraph.Node, portKey string, centers map[string]*geo.Point, horizontal bool, dir wiregraph.Direction) wiregraph.Side {
	this, ok := centers[n.ID]
	if !ok {
		return DefaultSide(dir)
	}

	sum := 0.
	qualifying := 0
	for _, e := range g.Edges {
		var otherID string
		invert := false
		switch {
		case e.Src == n.ID && e.SrcPort == portKey:
			otherID = e.Dst
		case e.Dst == n.ID && e.DstPort == portKey:
			otherID = e.Src
			invert = true
		default:
			continue
		}
		other, ok := centers[otherID]
		if !ok {
			// dangling endpoint or unmeasured node
			continue
		}
		var delta float64
		if horizontal {
			delta = other.X - this.X
		} else {
			delta = other.Y - this.Y
		}
		if invert {
			delta = -delta
		}
		sum += delta
		qualifying++
	}

	if qualifying == 0 || sum == 0 {
		return DefaultSide(dir)
	}
	if horizontal {
		if sum > 0 {
			return wiregraph.East
		}
		return wiregraph.West
	}
	if sum > 0 {
		return wiregraph.South
	}
	return wiregraph.North
}
