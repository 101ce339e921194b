package wireroute

import (
	"context"
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"github.com/wirekit/wirekit/lib/geo"
)

func gridOpts() Opts {
	return Opts{
		BufferLength:       30,
		CornerRadius:       10,
		GridCell:           10,
		Clearance:          20,
		MaxExpansions:      50000,
		CollinearTolerance: 0.5,
	}
}

func TestGridStraightLine(t *testing.T) {
	t.Parallel()

	r := NewGridRouter(gridOpts(), nil)
	route, cost, err := r.Search(context.Background(), Request{
		Src: geo.NewPoint(5, 5),
		Dst: geo.NewPoint(205, 5),
	})
	assert.Success(t, err)

	// 200 units apart on a 10 unit grid
	assert.Equal(t, 20, cost)
	// no turns on an unobstructed straight shot
	assert.Equal(t, 2, len(route))
	assert.Equal(t, 5.0, route[0].X)
	assert.Equal(t, 205.0, route[len(route)-1].X)
}

func TestGridCostIsManhattan(t *testing.T) {
	t.Parallel()

	r := NewGridRouter(gridOpts(), nil)
	route, cost, err := r.Search(context.Background(), Request{
		Src: geo.NewPoint(5, 5),
		Dst: geo.NewPoint(205, 105),
	})
	assert.Success(t, err)

	// uniform step cost: dx/cell + dy/cell, no detour without obstacles
	assert.Equal(t, 30, cost)
	// the turn tie-break keeps the path an L, not a staircase
	if len(route) > 4 {
		t.Fatalf("expected an L-shaped path, got %d points: %v", len(route), route)
	}
}

func TestGridRoutesAroundObstacle(t *testing.T) {
	t.Parallel()

	opts := gridOpts()
	boxes := map[string]*geo.Box{
		"src":  geo.NewBox(geo.NewPoint(0, 0), 60, 60),
		"dst":  geo.NewBox(geo.NewPoint(600, 0), 60, 60),
		"wall": geo.NewBox(geo.NewPoint(300, -200), 40, 460),
	}
	r := NewGridRouter(opts, boxes)

	route, cost, err := r.Search(context.Background(), Request{
		Src:       geo.NewPoint(60, 30),
		Dst:       geo.NewPoint(600, 30),
		SrcNodeID: "src",
		DstNodeID: "dst",
	})
	assert.Success(t, err)

	// the direct line is 54 cells; the detour must be longer
	if cost <= 54 {
		t.Fatalf("expected a detour, cost %d", cost)
	}

	blocked := boxes["wall"].Expanded(opts.Clearance)
	for _, p := range route[1 : len(route)-1] {
		if blocked.Contains(p) {
			t.Fatalf("route point %v inside expanded obstacle", p)
		}
	}
}

func TestGridOwnEndpointsNotObstacles(t *testing.T) {
	t.Parallel()

	// both attachment points sit on their node borders, inside the nodes'
	// expanded boxes; the edge's own nodes must not block it
	boxes := map[string]*geo.Box{
		"a": geo.NewBox(geo.NewPoint(0, 0), 60, 60),
		"b": geo.NewBox(geo.NewPoint(300, 0), 60, 60),
	}
	r := NewGridRouter(gridOpts(), boxes)

	_, _, err := r.Search(context.Background(), Request{
		Src:       geo.NewPoint(60, 30),
		Dst:       geo.NewPoint(300, 30),
		SrcNodeID: "a",
		DstNodeID: "b",
	})
	assert.Success(t, err)
}

func TestGridBlockedEndpoint(t *testing.T) {
	t.Parallel()

	boxes := map[string]*geo.Box{
		"other": geo.NewBox(geo.NewPoint(190, -30), 60, 60),
	}
	r := NewGridRouter(gridOpts(), boxes)

	_, _, err := r.Search(context.Background(), Request{
		Src: geo.NewPoint(0, 0),
		Dst: geo.NewPoint(220, 0),
	})
	assert.Equal(t, errBlockedEndpoint, err)
}

func TestGridBudgetExhausted(t *testing.T) {
	t.Parallel()

	opts := gridOpts()
	opts.MaxExpansions = 3
	r := NewGridRouter(opts, nil)

	_, _, err := r.Search(context.Background(), Request{
		Src: geo.NewPoint(0, 0),
		Dst: geo.NewPoint(1000, 1000),
	})
	assert.Equal(t, errBudgetExhausted, err)
}

func TestGridCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewGridRouter(gridOpts(), nil)
	_, _, err := r.Search(ctx, Request{
		Src: geo.NewPoint(0, 0),
		Dst: geo.NewPoint(100000, 100000),
	})
	assert.Equal(t, context.Canceled, err)
}

func TestGridMissingGeometry(t *testing.T) {
	t.Parallel()

	r := NewGridRouter(gridOpts(), nil)
	_, _, err := r.Search(context.Background(), Request{Src: geo.NewPoint(0, 0)})
	assert.Equal(t, errMissingGeometry, err)
}
