package wireelklayout

import (
	"context"
	"strings"
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wirelayouts"
)

func sampleGraph() *wiregraph.Graph {
	return &wiregraph.Graph{
		Direction: wiregraph.DirectionRight,
		Nodes: []*wiregraph.Node{
			{
				ID: "sw1", Width: 144, Height: 72, Parent: "rack",
				Ports: []*wiregraph.Port{
					{Key: "in0", Alignment: wiregraph.AlignmentIn},
					{Key: "out0", Alignment: wiregraph.AlignmentOut},
					{Key: "mgmt", Alignment: wiregraph.AlignmentBidirectional},
				},
			},
			{ID: "sw2", Width: 144, Height: 72, Parent: "rack"},
			{ID: "router", Width: 144, Height: 72},
		},
		Edges: []*wiregraph.Edge{
			{ID: "c1", Src: "router", Dst: "sw1", DstPort: "in0"},
			{ID: "c2", Src: "sw1", SrcPort: "out0", Dst: "sw2"},
			{ID: "dangling", Src: "router", Dst: "ghost"},
		},
		Containers: []*wiregraph.Container{{ID: "rack"}},
	}
}

func TestBuildELKGraph(t *testing.T) {
	t.Parallel()

	g := sampleGraph()
	elkGraph, elkNodes, elkEdges := buildELKGraph(g, nil, &DefaultOpts)

	assert.Equal(t, Right, elkGraph.LayoutOptions.Direction)
	assert.Equal(t, "INCLUDE_CHILDREN", elkGraph.LayoutOptions.HierarchyHandling)
	assert.Equal(t, "layered", elkGraph.LayoutOptions.Algorithm)

	// container and root node at the top level, members nested
	assert.Equal(t, 2, len(elkGraph.Children))
	rack := elkNodes["rack"]
	assert.Equal(t, 2, len(rack.Children))
	assert.Equal(t, "sw1", rack.Children[0].ID)
	assert.Equal(t, "sw2", rack.Children[1].ID)

	sw1 := elkNodes["sw1"]
	assert.Equal(t, 144.0, sw1.Width)
	assert.Equal(t, "FIXED_SIDE", sw1.LayoutOptions.PortConstraints)
	assert.Equal(t, 3, len(sw1.Ports))
	assert.Equal(t, "sw1.in0", sw1.Ports[0].ID)
	assert.Equal(t, West, sw1.Ports[0].LayoutOptions.PortSide)
	assert.Equal(t, "sw1.out0", sw1.Ports[1].ID)
	assert.Equal(t, East, sw1.Ports[1].LayoutOptions.PortSide)
	// bidirectional ports carry no side constraint
	assert.Equal(t, "sw1.mgmt", sw1.Ports[2].ID)
	if sw1.Ports[2].LayoutOptions != nil {
		t.Fatal("expected no side constraint on a bidirectional port")
	}

	// no port list means no constraints either
	if elkNodes["sw2"].LayoutOptions != nil {
		t.Fatal("expected no layout options on a portless node")
	}

	// edges reference ports when the endpoint declares one
	assert.Equal(t, 2, len(elkGraph.Edges))
	assert.Equal(t, 1, len(elkEdges["c1"].Sources))
	assert.Equal(t, "router", elkEdges["c1"].Sources[0])
	assert.Equal(t, "sw1.in0", elkEdges["c1"].Targets[0])
	assert.Equal(t, "sw1.out0", elkEdges["c2"].Sources[0])
	if _, ok := elkEdges["dangling"]; ok {
		t.Fatal("expected dangling edge dropped")
	}
}

func TestBuildELKGraphModelOrder(t *testing.T) {
	t.Parallel()

	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "zeta", Width: 72, Height: 72},
			{ID: "alpha", Width: 72, Height: 72},
		},
	}
	elkGraph, _, _ := buildELKGraph(g, wirelayouts.NodeOrder{"zeta": 2, "alpha": 1}, &DefaultOpts)

	assert.Equal(t, "alpha", elkGraph.Children[0].ID)
	assert.Equal(t, "zeta", elkGraph.Children[1].ID)
}

func TestBuildELKGraphBidirectionalOnly(t *testing.T) {
	t.Parallel()

	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{
				ID: "hub", Width: 72, Height: 72,
				Ports: []*wiregraph.Port{
					{Key: "p0", Alignment: wiregraph.AlignmentBidirectional},
					{Key: "p1", Alignment: wiregraph.AlignmentBidirectional},
				},
			},
		},
	}
	elkGraph, _, _ := buildELKGraph(g, nil, &DefaultOpts)

	hub := elkGraph.Children[0]
	assert.Equal(t, 2, len(hub.Ports))
	if hub.LayoutOptions != nil {
		t.Fatal("expected no port constraints when every port is bidirectional")
	}
}

func TestPortSides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir     wiregraph.Direction
		in, out PortSide
	}{
		{wiregraph.DirectionRight, West, East},
		{wiregraph.DirectionLeft, East, West},
		{wiregraph.DirectionDown, North, South},
		{wiregraph.DirectionUp, South, North},
	}
	for _, tc := range tests {
		in, out := portSides(tc.dir)
		assert.Equal(t, tc.in, in)
		assert.Equal(t, tc.out, out)
	}
}

func TestCollectAbsoluteCoordinates(t *testing.T) {
	t.Parallel()

	g := sampleGraph()
	elkGraph, elkNodes, elkEdges := buildELKGraph(g, nil, &DefaultOpts)

	// simulate a layout run: ELK coordinates are parent-relative
	elkNodes["rack"].X = 50
	elkNodes["rack"].Y = 100
	elkNodes["rack"].Width = 400
	elkNodes["rack"].Height = 200
	elkNodes["sw1"].X = 50
	elkNodes["sw1"].Y = 50
	elkNodes["sw2"].X = 250
	elkNodes["sw2"].Y = 50
	elkNodes["router"].X = 10
	elkNodes["router"].Y = 10

	elkEdges["c2"].Container = "rack"
	elkEdges["c2"].Sections = []ELKEdgeSection{{
		Start:      ELKPoint{X: 194, Y: 86},
		End:        ELKPoint{X: 250, Y: 86},
		BendPoints: []ELKPoint{{X: 220, Y: 60}, {X: 240, Y: 60}},
	}}

	res, err := collect(g, elkGraph, elkNodes, elkEdges)
	assert.Success(t, err)

	assert.Equal(t, 50.0, res.Boxes["rack"].TopLeft.X)
	assert.Equal(t, 100.0, res.Boxes["rack"].TopLeft.Y)
	assert.Equal(t, 100.0, res.Boxes["sw1"].TopLeft.X)
	assert.Equal(t, 150.0, res.Boxes["sw1"].TopLeft.Y)
	assert.Equal(t, 300.0, res.Boxes["sw2"].TopLeft.X)
	assert.Equal(t, 10.0, res.Boxes["router"].TopLeft.X)

	// bends offset by the containing node's absolute origin
	bends := res.Bends["c2"]
	assert.Equal(t, 2, len(bends))
	assert.Equal(t, 270.0, bends[0].X)
	assert.Equal(t, 160.0, bends[0].Y)
	assert.Equal(t, 290.0, bends[1].X)

	// edges without bend points produce no route hints
	if _, ok := res.Bends["c1"]; ok {
		t.Fatal("expected no bends for a straight edge")
	}
}

func TestLayoutRequiresBundle(t *testing.T) {
	t.Setenv("WIREKIT_ELK_JS", "")

	s := &Solver{}
	assert.Equal(t, "elk", s.Name())

	_, err := s.Layout(context.Background(), sampleGraph(), nil)
	if err == nil || !strings.Contains(err.Error(), "no elk.js bundle configured") {
		t.Fatalf("expected missing bundle error, got %v", err)
	}
}

func TestLayoutMissingBundleFile(t *testing.T) {
	t.Parallel()

	s := &Solver{JSPath: "/nonexistent/elk.js"}
	_, err := s.Layout(context.Background(), sampleGraph(), nil)
	if err == nil || !strings.Contains(err.Error(), "failed to read elk.js bundle") {
		t.Fatalf("expected read error, got %v", err)
	}
}
