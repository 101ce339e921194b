package wirelayouts

import (
	"sort"

	"github.com/wirekit/wirekit/wiregraph"
)

// NodeOrder is an advisory ordering hint per node, handed to the layout
// solver as model order. Nodes absent from the map carry no hint and sort
// last. The solver is free to override it.
type NodeOrder map[string]float64

// ComputeNodeOrder averages, for each node, the positional index of the port
// named on the other endpoint of every edge touching the node. A device whose
// cables plug into early ports of its peers should be placed before one whose
// cables plug into late ports.
func ComputeNodeOrder(nodes []*wiregraph.Node, edges []*wiregraph.Edge) NodeOrder {
	byID := make(map[string]*wiregraph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)

	add := func(nodeID, otherID, otherPort string) {
		if otherPort == "" {
			return
		}
		other, ok := byID[otherID]
		if !ok {
			return
		}
		idx := other.PortIndex(otherPort)
		if idx < 0 {
			// unknown port key, pre-filtered upstream
			return
		}
		sums[nodeID] += float64(idx)
		counts[nodeID]++
	}

	for _, e := range edges {
		add(e.Src, e.Dst, e.DstPort)
		add(e.Dst, e.Src, e.SrcPort)
	}

	order := make(NodeOrder, len(counts))
	for id, count := range counts {
		order[id] = sums[id] / float64(count)
	}
	return order
}

// SortedByOrder returns the nodes sorted by their priority ascending, stably,
// with unprioritized nodes last.
func SortedByOrder(nodes []*wiregraph.Node, order NodeOrder) []*wiregraph.Node {
	sorted := make([]*wiregraph.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, oki := order[sorted[i].ID]
		pj, okj := order[sorted[j].ID]
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		return pi < pj
	})
	return sorted
}
