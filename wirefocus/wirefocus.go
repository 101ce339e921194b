// Package wirefocus computes the bounded neighborhood subgraph behind the
// "focus on this device" view. It operates on the raw pre-layout model; the
// filtered subgraph is handed back through the ordinary pipeline as an
// independent layout request.
package wirefocus

import (
	"fmt"

	"github.com/wirekit/wirekit/wiregraph"
)

// Options bounds the neighborhood independently in each edge direction.
type Options struct {
	// Downstream follows edges from source to target.
	Downstream      bool
	DownstreamDepth int
	// Upstream follows edges in reverse, from target to source.
	Upstream      bool
	UpstreamDepth int
}

// DefaultOptions expands one hop both ways.
var DefaultOptions = Options{
	Downstream:      true,
	DownstreamDepth: 1,
	Upstream:        true,
	UpstreamDepth:   1,
}

// Neighborhood holds, per reached node, the minimum hop distance at which it
// was reached in either direction. Recomputed fresh per focus request.
type Neighborhood struct {
	Focus string
	// Distance maps node id to its minimum hop count from the focus.
	Distance map[string]int
}

func (n *Neighborhood) Contains(id string) bool {
	_, ok := n.Distance[id]
	return ok
}

// Compute runs a shortest-hop-count BFS from the focus node in each enabled
// direction and unions the results. The focus itself is always included at
// distance 0.
func Compute(g *wiregraph.Graph, focusID string, opts Options) (*Neighborhood, error) {
	if g.Node(focusID) == nil {
		return nil, fmt.Errorf("focus node %q not found", focusID)
	}

	out := make(map[string][]string, len(g.Nodes))
	in := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if g.Node(e.Src) == nil || g.Node(e.Dst) == nil {
			// dangling endpoints are pre-filtered upstream, skip
			continue
		}
		out[e.Src] = append(out[e.Src], e.Dst)
		in[e.Dst] = append(in[e.Dst], e.Src)
	}

	n := &Neighborhood{
		Focus:    focusID,
		Distance: map[string]int{focusID: 0},
	}
	if opts.Downstream {
		bfs(focusID, opts.DownstreamDepth, out, n.Distance)
	}
	if opts.Upstream {
		bfs(focusID, opts.UpstreamDepth, in, n.Distance)
	}
	return n, nil
}

// bfs expands from the focus up to bound hops, recording the minimum distance
// each node was reached at. A node already reached at a smaller or equal
// distance is not re-enqueued.
func bfs(focus string, bound int, adjacency map[string][]string, dist map[string]int) {
	if bound <= 0 {
		return
	}
	local := map[string]int{focus: 0}
	queue := []string{focus}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		d := local[curr]
		if d == bound {
			continue
		}
		for _, next := range adjacency[curr] {
			if prev, ok := local[next]; ok && prev <= d+1 {
				continue
			}
			local[next] = d + 1
			queue = append(queue, next)
		}
	}
	for id, d := range local {
		if prev, ok := dist[id]; !ok || d < prev {
			dist[id] = d
		}
	}
}

// Apply extracts the filtered subgraph for a neighborhood: nodes in the
// neighborhood, edges with both endpoints retained, and containers with at
// least one direct member node retained. Otherwise-empty ancestor containers
// are dropped with their parent links cleared on orphaned members, so the
// result stays a valid forest.
func Apply(g *wiregraph.Graph, n *Neighborhood) *wiregraph.Graph {
	sub := &wiregraph.Graph{Direction: g.Direction}

	for _, node := range g.Nodes {
		if !n.Contains(node.ID) {
			continue
		}
		nc := *node
		nc.Ports = make([]*wiregraph.Port, 0, len(node.Ports))
		for _, p := range node.Ports {
			pc := *p
			nc.Ports = append(nc.Ports, &pc)
		}
		sub.Nodes = append(sub.Nodes, &nc)
	}

	for _, e := range g.Edges {
		if !n.Contains(e.Src) || !n.Contains(e.Dst) {
			continue
		}
		ec := *e
		sub.Edges = append(sub.Edges, &ec)
	}

	kept := make(map[string]bool, len(g.Containers))
	for _, c := range g.Containers {
		for _, member := range g.MembersOf(c.ID) {
			if n.Contains(member.ID) {
				kept[c.ID] = true
				break
			}
		}
	}
	for _, c := range g.Containers {
		if !kept[c.ID] {
			continue
		}
		cc := *c
		if cc.Parent != "" && !kept[cc.Parent] {
			cc.Parent = ""
		}
		sub.Containers = append(sub.Containers, &cc)
	}
	for _, node := range sub.Nodes {
		if node.Parent != "" && !kept[node.Parent] {
			node.Parent = ""
		}
	}

	return sub
}
