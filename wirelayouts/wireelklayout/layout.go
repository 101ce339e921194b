// Package wireelklayout drives the JavaScript port of ELK as the coarse
// placement solver.
//
// ELK coordinates are relative to parents; everything is converted to
// absolute before returning.
// See https://www.eclipse.org/elk/documentation/tooldevelopers/graphdatastructure/coordinatesystem.html
package wireelklayout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"oss.terrastruct.com/util-go/xdefer"

	"github.com/wirekit/wirekit/lib/env"
	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/lib/jsrunner"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wirelayouts"
)

// setupJS wraps the promise-based ELK API in a call that resolves within a
// single script evaluation. goja drains the job queue when the script
// returns, so the result is readable from the next RunString.
const setupJS = `
var elk = new ELK();
var elkResult = null;
var elkError = null;
function elkLayoutSync(graph) {
	elk.layout(graph).then(
		function(g) { elkResult = g; },
		function(e) { elkError = String(e); }
	);
}
`

type ELKNode struct {
	ID            string     `json:"id"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	Width         float64    `json:"width"`
	Height        float64    `json:"height"`
	Children      []*ELKNode `json:"children,omitempty"`
	Ports         []*ELKPort `json:"ports,omitempty"`
	LayoutOptions *elkOpts   `json:"layoutOptions,omitempty"`
}

type PortSide string

const (
	South PortSide = "SOUTH"
	North PortSide = "NORTH"
	East  PortSide = "EAST"
	West  PortSide = "WEST"
)

type Direction string

const (
	Down  Direction = "DOWN"
	Up    Direction = "UP"
	Right Direction = "RIGHT"
	Left  Direction = "LEFT"
)

type ELKPort struct {
	ID            string   `json:"id"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	LayoutOptions *elkOpts `json:"layoutOptions,omitempty"`
}

type ELKPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ELKEdgeSection struct {
	Start      ELKPoint   `json:"startPoint"`
	End        ELKPoint   `json:"endPoint"`
	BendPoints []ELKPoint `json:"bendPoints,omitempty"`
}

type ELKEdge struct {
	ID        string           `json:"id"`
	Sources   []string         `json:"sources"`
	Targets   []string         `json:"targets"`
	Sections  []ELKEdgeSection `json:"sections,omitempty"`
	Container string           `json:"container"`
}

type ELKGraph struct {
	ID            string     `json:"id"`
	LayoutOptions *elkOpts   `json:"layoutOptions"`
	Children      []*ELKNode `json:"children,omitempty"`
	Edges         []*ELKEdge `json:"edges,omitempty"`
}

type ConfigurableOpts struct {
	Algorithm       string `json:"elk.algorithm,omitempty"`
	NodeSpacing     int    `json:"spacing.nodeNodeBetweenLayers,omitempty"`
	Padding         string `json:"elk.padding,omitempty"`
	EdgeNodeSpacing int    `json:"spacing.edgeNodeBetweenLayers,omitempty"`
}

var DefaultOpts = ConfigurableOpts{
	Algorithm:       "layered",
	NodeSpacing:     70,
	Padding:         "[top=50,left=50,bottom=50,right=50]",
	EdgeNodeSpacing: 40,
}

type elkOpts struct {
	Thoroughness                 int       `json:"elk.layered.thoroughness,omitempty"`
	EdgeEdgeBetweenLayersSpacing int       `json:"elk.layered.spacing.edgeEdgeBetweenLayers,omitempty"`
	Direction                    Direction `json:"elk.direction,omitempty"`
	HierarchyHandling            string    `json:"elk.hierarchyHandling,omitempty"`
	ForceNodeModelOrder          bool      `json:"elk.layered.crossingMinimization.forceNodeModelOrder,omitempty"`
	ConsiderModelOrder           string    `json:"elk.layered.considerModelOrder.strategy,omitempty"`
	CycleBreakingStrategy        string    `json:"elk.layered.cycleBreaking.strategy,omitempty"`

	NodeSizeConstraints string `json:"elk.nodeSize.constraints,omitempty"`

	PortSide        PortSide `json:"elk.port.side,omitempty"`
	PortConstraints string   `json:"elk.portConstraints,omitempty"`

	ConfigurableOpts
}

// Solver runs elk.js in-process through goja. The bundle is loaded from
// JSPath, or the WIREKIT_ELK_JS environment variable when JSPath is empty.
type Solver struct {
	JSPath string
	Opts   *ConfigurableOpts
}

func (s *Solver) Name() string { return "elk" }

func (s *Solver) jsPath() string {
	if s.JSPath != "" {
		return s.JSPath
	}
	return env.ELKJS()
}

func (s *Solver) Layout(ctx context.Context, g *wiregraph.Graph, order wirelayouts.NodeOrder) (_ *wirelayouts.Result, err error) {
	defer xdefer.Errorf(&err, "failed to ELK layout")

	path := s.jsPath()
	if path == "" {
		return nil, fmt.Errorf("no elk.js bundle configured, set WIREKIT_ELK_JS or pass --elk-js")
	}
	elkJS, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read elk.js bundle: %w", err)
	}

	opts := s.Opts
	if opts == nil {
		opts = &DefaultOpts
	}

	runner := jsrunner.NewJSRunner()
	if _, err := runner.RunString(string(elkJS)); err != nil {
		return nil, err
	}
	if _, err := runner.RunString(setupJS); err != nil {
		return nil, err
	}

	elkGraph, elkNodes, elkEdges := buildELKGraph(g, order, opts)

	raw, err := json.Marshal(elkGraph)
	if err != nil {
		return nil, err
	}
	if _, err := runner.RunString(fmt.Sprintf(`var graph = %s; elkLayoutSync(graph);`, raw)); err != nil {
		return nil, err
	}
	out, err := runner.RunString(`if (elkError !== null) { throw new Error(elkError); } JSON.stringify(elkResult);`)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(out.String()), elkGraph); err != nil {
		return nil, err
	}

	return collect(g, elkGraph, elkNodes, elkEdges)
}

// buildELKGraph mirrors the model as an ELK hierarchy: containers become
// nested ELK nodes holding their members, ports get fixed sides matching the
// alignment convention, and the precomputed order drives model order.
func buildELKGraph(g *wiregraph.Graph, order wirelayouts.NodeOrder, opts *ConfigurableOpts) (*ELKGraph, map[string]*ELKNode, map[string]*ELKEdge) {
	dir := g.EffectiveDirection()

	elkGraph := &ELKGraph{
		LayoutOptions: &elkOpts{
			Thoroughness:                 8,
			EdgeEdgeBetweenLayersSpacing: 50,
			HierarchyHandling:            "INCLUDE_CHILDREN",
			ConsiderModelOrder:           "NODES_AND_EDGES",
			CycleBreakingStrategy:        "GREEDY_MODEL_ORDER",
			NodeSizeConstraints:          "MINIMUM_SIZE",
			Direction:                    elkDirection(dir),
			ConfigurableOpts: ConfigurableOpts{
				Algorithm:       opts.Algorithm,
				NodeSpacing:     opts.NodeSpacing,
				EdgeNodeSpacing: opts.EdgeNodeSpacing,
			},
		},
	}

	elkNodes := make(map[string]*ELKNode, len(g.Nodes)+len(g.Containers))

	appendChild := func(parent string, n *ELKNode) {
		if p, ok := elkNodes[parent]; ok {
			p.Children = append(p.Children, n)
		} else {
			elkGraph.Children = append(elkGraph.Children, n)
		}
	}

	g.WalkContainers(func(c *wiregraph.Container, _ int) {
		n := &ELKNode{
			ID: c.ID,
			LayoutOptions: &elkOpts{
				ForceNodeModelOrder:   true,
				Thoroughness:          8,
				HierarchyHandling:     "INCLUDE_CHILDREN",
				ConsiderModelOrder:    "NODES_AND_EDGES",
				CycleBreakingStrategy: "GREEDY_MODEL_ORDER",
				NodeSizeConstraints:   "MINIMUM_SIZE",
				ConfigurableOpts: ConfigurableOpts{
					NodeSpacing:     opts.NodeSpacing,
					EdgeNodeSpacing: opts.EdgeNodeSpacing,
					Padding:         opts.Padding,
				},
			},
		}
		elkNodes[c.ID] = n
		appendChild(c.Parent, n)
	})

	for _, node := range wirelayouts.SortedByOrder(g.Nodes, order) {
		n := &ELKNode{
			ID:     node.ID,
			Width:  node.Width,
			Height: node.Height,
		}
		if len(node.Ports) > 0 {
			inSide, outSide := portSides(dir)
			constrained := false
			for _, p := range node.Ports {
				port := &ELKPort{ID: portID(node.ID, p.Key)}
				// bidirectional ports stay unconstrained, their side is
				// resolved from the placed geometry afterwards
				switch p.Alignment {
				case wiregraph.AlignmentIn:
					port.LayoutOptions = &elkOpts{PortSide: inSide}
					constrained = true
				case wiregraph.AlignmentOut:
					port.LayoutOptions = &elkOpts{PortSide: outSide}
					constrained = true
				}
				n.Ports = append(n.Ports, port)
			}
			if constrained {
				n.LayoutOptions = &elkOpts{PortConstraints: "FIXED_SIDE"}
			}
		}
		elkNodes[node.ID] = n
		appendChild(node.Parent, n)
	}

	elkEdges := make(map[string]*ELKEdge, len(g.Edges))
	for _, edge := range g.Edges {
		srcNode := g.Node(edge.Src)
		dstNode := g.Node(edge.Dst)
		if srcNode == nil || dstNode == nil {
			continue
		}
		src := edge.Src
		if edge.SrcPort != "" && srcNode.Port(edge.SrcPort) != nil {
			src = portID(edge.Src, edge.SrcPort)
		}
		dst := edge.Dst
		if edge.DstPort != "" && dstNode.Port(edge.DstPort) != nil {
			dst = portID(edge.Dst, edge.DstPort)
		}
		e := &ELKEdge{
			ID:      edge.ID,
			Sources: []string{src},
			Targets: []string{dst},
		}
		elkGraph.Edges = append(elkGraph.Edges, e)
		elkEdges[edge.ID] = e
	}

	return elkGraph, elkNodes, elkEdges
}

// collect converts ELK's parent-relative coordinates into the absolute boxes
// and bend routes the pipeline expects.
func collect(g *wiregraph.Graph, elkGraph *ELKGraph, elkNodes map[string]*ELKNode, elkEdges map[string]*ELKEdge) (*wirelayouts.Result, error) {
	res := &wirelayouts.Result{
		Boxes: make(map[string]*geo.Box, len(elkNodes)),
		Bends: make(map[string]geo.Route),
	}

	origin := func(parent string) (float64, float64) {
		if parent == "" {
			return 0, 0
		}
		box := res.Boxes[parent]
		if box == nil {
			return 0, 0
		}
		return box.TopLeft.X, box.TopLeft.Y
	}

	// WalkContainers is top-down, so parents resolve before children.
	g.WalkContainers(func(c *wiregraph.Container, _ int) {
		n := elkNodes[c.ID]
		if n == nil {
			return
		}
		px, py := origin(c.Parent)
		res.Boxes[c.ID] = geo.NewBox(geo.NewPoint(px+n.X, py+n.Y), n.Width, n.Height)
	})
	for _, node := range g.Nodes {
		n := elkNodes[node.ID]
		if n == nil {
			continue
		}
		px, py := origin(node.Parent)
		res.Boxes[node.ID] = geo.NewBox(geo.NewPoint(px+n.X, py+n.Y), n.Width, n.Height)
	}

	for _, edge := range g.Edges {
		e := elkEdges[edge.ID]
		if e == nil {
			continue
		}
		px, py := origin(e.Container)
		var bends geo.Route
		for _, s := range e.Sections {
			for _, bp := range s.BendPoints {
				bends = append(bends, geo.NewPoint(px+bp.X, py+bp.Y))
			}
		}
		if len(bends) > 0 {
			res.Bends[edge.ID] = bends
		}
	}

	return res, nil
}

func portID(nodeID, key string) string {
	return nodeID + "." + key
}

func elkDirection(dir wiregraph.Direction) Direction {
	switch dir {
	case wiregraph.DirectionDown:
		return Down
	case wiregraph.DirectionUp:
		return Up
	case wiregraph.DirectionLeft:
		return Left
	default:
		return Right
	}
}

// portSides mirrors the resolution convention: in ports face the flow
// source, out ports face the flow target.
func portSides(dir wiregraph.Direction) (in, out PortSide) {
	switch dir {
	case wiregraph.DirectionLeft:
		return East, West
	case wiregraph.DirectionDown:
		return North, South
	case wiregraph.DirectionUp:
		return South, North
	default:
		return West, East
	}
}
