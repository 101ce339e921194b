package wireports_test

import (
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/wiregraph"
	"github.com/wirekit/wirekit/wireports"
)

func box(x, y float64) *geo.Box {
	return geo.NewBox(geo.NewPoint(x, y), 100, 60)
}

func TestDirectionalPorts(t *testing.T) {
	t.Parallel()

	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "sw", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "in0", Alignment: wiregraph.AlignmentIn},
				{Key: "out0", Alignment: wiregraph.AlignmentOut},
			}},
		},
	}
	boxes := map[string]*geo.Box{"sw": box(0, 0)}

	tests := []struct {
		dir     wiregraph.Direction
		in, out wiregraph.Side
	}{
		{wiregraph.DirectionRight, wiregraph.West, wiregraph.East},
		{wiregraph.DirectionLeft, wiregraph.East, wiregraph.West},
		{wiregraph.DirectionDown, wiregraph.North, wiregraph.South},
		{wiregraph.DirectionUp, wiregraph.South, wiregraph.North},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.dir), func(t *testing.T) {
			t.Parallel()
			sides := wireports.ResolveSides(g, boxes, tc.dir)
			assert.Equal(t, tc.in, sides["sw"]["in0"])
			assert.Equal(t, tc.out, sides["sw"]["out0"])
		})
	}
}

func TestBidirectionalFollowsGeometry(t *testing.T) {
	t.Parallel()

	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "mid", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "p", Alignment: wiregraph.AlignmentBidirectional},
			}},
			{ID: "east", Width: 100, Height: 60},
			{ID: "west", Width: 100, Height: 60},
		},
		Edges: []*wiregraph.Edge{
			{ID: "e1", Src: "mid", Dst: "east", SrcPort: "p"},
		},
	}
	boxes := map[string]*geo.Box{
		"mid":  box(500, 0),
		"east": box(1000, 0),
		"west": box(0, 0),
	}

	sides := wireports.ResolveSides(g, boxes, wiregraph.DirectionRight)
	assert.Equal(t, wiregraph.East, sides["mid"]["p"])

	// the same port pulled the other way resolves west
	g.Edges[0].Dst = "west"
	sides = wireports.ResolveSides(g, boxes, wiregraph.DirectionRight)
	assert.Equal(t, wiregraph.West, sides["mid"]["p"])
}

func TestBidirectionalSumsAllEdges(t *testing.T) {
	t.Parallel()

	// one edge pulls west, the other pulls farther east
	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "mid", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "p", Alignment: wiregraph.AlignmentBidirectional},
			}},
			{ID: "near-west", Width: 100, Height: 60},
			{ID: "far-east", Width: 100, Height: 60},
		},
		Edges: []*wiregraph.Edge{
			{ID: "e1", Src: "mid", Dst: "near-west", SrcPort: "p"},
			{ID: "e2", Src: "mid", Dst: "far-east", SrcPort: "p"},
		},
	}
	boxes := map[string]*geo.Box{
		"mid":       box(500, 0),
		"near-west": box(400, 0),
		"far-east":  box(1200, 0),
	}
	sides := wireports.ResolveSides(g, boxes, wiregraph.DirectionRight)
	assert.Equal(t, wiregraph.East, sides["mid"]["p"])
}

func TestBidirectionalInvertsAsTarget(t *testing.T) {
	t.Parallel()

	// mid is the edge target; the port faces back toward the source
	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "mid", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "p", Alignment: wiregraph.AlignmentBidirectional},
			}},
			{ID: "src", Width: 100, Height: 60},
		},
		Edges: []*wiregraph.Edge{
			{ID: "e1", Src: "src", Dst: "mid", DstPort: "p"},
		},
	}
	boxes := map[string]*geo.Box{
		"mid": box(500, 0),
		"src": box(0, 0),
	}
	sides := wireports.ResolveSides(g, boxes, wiregraph.DirectionRight)
	assert.Equal(t, wiregraph.East, sides["mid"]["p"])
}

func TestBidirectionalDefaults(t *testing.T) {
	t.Parallel()

	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "lonely", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "p", Alignment: wiregraph.AlignmentBidirectional},
			}},
		},
	}
	boxes := map[string]*geo.Box{"lonely": box(0, 0)}

	// no qualifying edges: orientation default
	sides := wireports.ResolveSides(g, boxes, wiregraph.DirectionRight)
	assert.Equal(t, wiregraph.East, sides["lonely"]["p"])
	sides = wireports.ResolveSides(g, boxes, wiregraph.DirectionDown)
	assert.Equal(t, wiregraph.South, sides["lonely"]["p"])
}

func TestBidirectionalZeroSumDefaults(t *testing.T) {
	t.Parallel()

	// symmetric opposing pulls cancel exactly; the tie goes to the
	// orientation default, the same side as the no-edge case
	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "mid", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "p", Alignment: wiregraph.AlignmentBidirectional},
			}},
			{ID: "left", Width: 100, Height: 60},
			{ID: "right", Width: 100, Height: 60},
		},
		Edges: []*wiregraph.Edge{
			{ID: "e1", Src: "mid", Dst: "left", SrcPort: "p"},
			{ID: "e2", Src: "mid", Dst: "right", SrcPort: "p"},
		},
	}
	boxes := map[string]*geo.Box{
		"mid":   box(500, 0),
		"left":  box(200, 0),
		"right": box(800, 0),
	}
	sides := wireports.ResolveSides(g, boxes, wiregraph.DirectionRight)
	assert.Equal(t, wiregraph.East, sides["mid"]["p"])

	g.Direction = wiregraph.DirectionDown
	boxes["mid"] = box(500, 500)
	boxes["left"] = box(500, 200)
	boxes["right"] = box(500, 800)
	sides = wireports.ResolveSides(g, boxes, wiregraph.DirectionDown)
	assert.Equal(t, wiregraph.South, sides["mid"]["p"])
}

func TestVerticalLayoutNeverEastWest(t *testing.T) {
	t.Parallel()

	g := &wiregraph.Graph{
		Nodes: []*wiregraph.Node{
			{ID: "a", Width: 100, Height: 60, Ports: []*wiregraph.Port{
				{Key: "p", Alignment: wiregraph.AlignmentBidirectional},
			}},
			{ID: "b", Width: 100, Height: 60},
		},
		Edges: []*wiregraph.Edge{
			{ID: "e1", Src: "a", Dst: "b", SrcPort: "p"},
		},
	}
	// b sits far east but slightly north; the vertical layout only looks at Y
	boxes := map[string]*geo.Box{
		"a": box(0, 500),
		"b": box(2000, 400),
	}
	for _, dir := range []wiregraph.Direction{wiregraph.DirectionDown, wiregraph.DirectionUp} {
		sides := wireports.ResolveSides(g, boxes, dir)
		s := sides["a"]["p"]
		if s == wiregraph.East || s == wiregraph.West {
			t.Fatalf("vertical layout resolved bidirectional port to %s", s)
		}
		assert.Equal(t, wiregraph.North, s)
	}
}

func TestAttachmentPoint(t *testing.T) {
	t.Parallel()

	b := geo.NewBox(geo.NewPoint(0, 0), 100, 60)

	p := wireports.AttachmentPoint(b, wiregraph.East, 0, 1)
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, 30.0, p.Y)

	// three ports on the north side sit at quarter spacing
	for i, wantX := range []float64{25, 50, 75} {
		p := wireports.AttachmentPoint(b, wiregraph.North, i, 3)
		assert.Equal(t, wantX, p.X)
		assert.Equal(t, 0.0, p.Y)
	}
}

func TestPortPositionsOnBorder(t *testing.T) {
	t.Parallel()

	n := &wiregraph.Node{
		ID: "sw", Width: 100, Height: 60,
		Ports: []*wiregraph.Port{
			{Key: "a", Alignment: wiregraph.AlignmentIn},
			{Key: "b", Alignment: wiregraph.AlignmentIn},
			{Key: "c", Alignment: wiregraph.AlignmentOut},
		},
	}
	b := geo.NewBox(geo.NewPoint(0, 0), 100, 60)
	sides := map[string]wiregraph.Side{
		"a": wiregraph.West,
		"b": wiregraph.West,
		"c": wiregraph.East,
	}
	positions := wireports.PortPositions(n, b, sides, wiregraph.DirectionRight)

	assert.Equal(t, 0.0, positions["a"].X)
	assert.Equal(t, 0.0, positions["b"].X)
	assert.Equal(t, 100.0, positions["c"].X)
	// shared side spaced in port order
	assert.Equal(t, 20.0, positions["a"].Y)
	assert.Equal(t, 40.0, positions["b"].Y)
}

func TestBorderAttachment(t *testing.T) {
	t.Parallel()

	b := geo.NewBox(geo.NewPoint(0, 0), 100, 60)

	p := wireports.BorderAttachment(b, geo.NewPoint(300, 30))
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, 30.0, p.Y)

	// toward inside the box falls back to the center
	p = wireports.BorderAttachment(b, geo.NewPoint(60, 30))
	assert.Equal(t, 50.0, p.X)
	assert.Equal(t, 30.0, p.Y)
}
