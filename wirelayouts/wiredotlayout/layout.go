// Package wiredotlayout runs Graphviz dot as the coarse placement solver.
// It is the batteries-included default: no external bundle to configure.
//
// Placement is read back from Graphviz's plain output format, which reports
// node centers and edge control points in inches with a y-up origin.
package wiredotlayout

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"oss.terrastruct.com/util-go/xdefer"

	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wirelayouts"
)

// pointsPerInch converts plain output coordinates back to points.
const pointsPerInch = 72.0

// containerPadding pads derived container boxes around their member extents.
// Plain output has no cluster geometry, so container boxes are reconstructed
// from their contents.
const containerPadding = 25.0

type Solver struct{}

func (s *Solver) Name() string { return "dot" }

func (s *Solver) Layout(ctx context.Context, g *wiregraph.Graph, order wirelayouts.NodeOrder) (_ *wirelayouts.Result, err error) {
	defer xdefer.Errorf(&err, "failed to dot layout")

	dot := ToDOT(g, order)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	res, err := ParsePlain(buf.String(), g)
	if err != nil {
		return nil, err
	}
	deriveContainerBoxes(g, res.Boxes)
	return res, nil
}

// ToDOT emits the model as a DOT digraph: containers become clusters, nodes
// get fixed sizes, and the precomputed order drives statement order so dot's
// crossing minimization sees nodes the way the port ordering wants them.
func ToDOT(g *wiregraph.Graph, order wirelayouts.NodeOrder) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(g.EffectiveDirection()))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("\n")

	sorted := wirelayouts.SortedByOrder(g.Nodes, order)
	byParent := make(map[string][]*wiregraph.Node)
	for _, n := range sorted {
		byParent[n.Parent] = append(byParent[n.Parent], n)
	}

	writeNodes := func(indent string, nodes []*wiregraph.Node) {
		for _, n := range nodes {
			fmt.Fprintf(&buf, "%s%q [width=%f, height=%f];\n",
				indent, n.ID, n.Width/pointsPerInch, n.Height/pointsPerInch)
		}
	}

	// clusters open in walk order and close when the depth drops
	depths := []int{}
	closeTo := func(depth int) {
		for len(depths) > 0 && depths[len(depths)-1] >= depth {
			depths = depths[:len(depths)-1]
			buf.WriteString(strings.Repeat("  ", len(depths)+1) + "}\n")
		}
	}
	g.WalkContainers(func(c *wiregraph.Container, depth int) {
		closeTo(depth)
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, "cluster_"+c.ID)
		writeNodes(indent+"  ", byParent[c.ID])
		depths = append(depths, depth)
	})
	closeTo(0)

	writeNodes("  ", byParent[""])
	// nodes with a parent that is not a declared container
	for parent, nodes := range byParent {
		if parent != "" && g.Container(parent) == nil {
			writeNodes("  ", nodes)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if g.Node(e.Src) == nil || g.Node(e.Dst) == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Src, e.Dst)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankdir(dir wiregraph.Direction) string {
	switch dir {
	case wiregraph.DirectionLeft:
		return "RL"
	case wiregraph.DirectionDown:
		return "TB"
	case wiregraph.DirectionUp:
		return "BT"
	default:
		return "LR"
	}
}

// ParsePlain reads Graphviz plain output back into absolute boxes and bend
// routes. Coordinates are flipped into the y-down convention the pipeline
// uses.
func ParsePlain(plain string, g *wiregraph.Graph) (*wirelayouts.Result, error) {
	res := &wirelayouts.Result{
		Boxes: map[string]*geo.Box{},
		Bends: map[string]geo.Route{},
	}

	var graphHeight float64
	edgesByPair := map[[2]string][]*wiregraph.Edge{}
	for _, e := range g.Edges {
		k := [2]string{e.Src, e.Dst}
		edgesByPair[k] = append(edgesByPair[k], e)
	}
	// plain reports one line per drawn edge in input order, so multi-edges
	// between the same pair consume routes in declaration order
	pairSeen := map[[2]string]int{}

	for _, line := range strings.Split(plain, "\n") {
		fields := splitPlainFields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed plain graph line: %q", line)
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("malformed plain graph height: %q", line)
			}
			graphHeight = h
		case "node":
			if len(fields) < 6 {
				return nil, fmt.Errorf("malformed plain node line: %q", line)
			}
			name := fields[1]
			cx, err1 := strconv.ParseFloat(fields[2], 64)
			cy, err2 := strconv.ParseFloat(fields[3], 64)
			w, err3 := strconv.ParseFloat(fields[4], 64)
			h, err4 := strconv.ParseFloat(fields[5], 64)
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				return nil, fmt.Errorf("malformed plain node line: %q", line)
			}
			tl := geo.NewPoint(
				(cx-w/2)*pointsPerInch,
				(graphHeight-cy-h/2)*pointsPerInch,
			)
			res.Boxes[name] = geo.NewBox(tl, w*pointsPerInch, h*pointsPerInch)
		case "edge":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed plain edge line: %q", line)
			}
			tail, head := fields[1], fields[2]
			n, err := strconv.Atoi(fields[3])
			if err != nil || len(fields) < 4+2*n {
				return nil, fmt.Errorf("malformed plain edge line: %q", line)
			}
			k := [2]string{tail, head}
			candidates := edgesByPair[k]
			idx := pairSeen[k]
			pairSeen[k]++
			if idx >= len(candidates) {
				continue
			}
			edge := candidates[idx]

			var pts geo.Route
			for i := 0; i < n; i++ {
				x, err1 := strconv.ParseFloat(fields[4+2*i], 64)
				y, err2 := strconv.ParseFloat(fields[5+2*i], 64)
				if err1 != nil || err2 != nil {
					return nil, fmt.Errorf("malformed plain edge point: %q", line)
				}
				pts = append(pts, geo.NewPoint(x*pointsPerInch, (graphHeight-y)*pointsPerInch))
			}
			// control points include the endpoints, only the interior are bends
			if len(pts) > 2 {
				res.Bends[edge.ID] = pts[1 : len(pts)-1]
			}
		case "stop":
			return res, nil
		}
	}
	return res, nil
}

// splitPlainFields splits a plain line on spaces, honoring the quoted names
// dot emits for identifiers with special characters.
func splitPlainFields(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '"' {
			j := i + 1
			for j < len(line) && line[j] != '"' {
				j++
			}
			fields = append(fields, line[i+1:j])
			i = j + 1
		} else {
			j := i
			for j < len(line) && line[j] != ' ' {
				j++
			}
			fields = append(fields, line[i:j])
			i = j
		}
	}
	return fields
}

// deriveContainerBoxes reconstructs container geometry from member extents,
// bottom-up so nested containers enclose their child containers.
func deriveContainerBoxes(g *wiregraph.Graph, boxes map[string]*geo.Box) {
	type entry struct {
		c     *wiregraph.Container
		depth int
	}
	var order []entry
	g.WalkContainers(func(c *wiregraph.Container, depth int) {
		order = append(order, entry{c, depth})
	})
	// deepest first
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i].c
		var box *geo.Box
		for _, n := range g.MembersOf(c.ID) {
			box = box.Union(boxes[n.ID])
		}
		for _, child := range g.ChildContainersOf(c.ID) {
			box = box.Union(boxes[child.ID])
		}
		if box != nil {
			boxes[c.ID] = box.Expanded(containerPadding)
		}
	}
}
