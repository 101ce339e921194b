package wireroute

import (
	"container/heap"
	"context"
	"errors"
	"math"

	"github.com/wirekit/wirekit/lib/geo"
)

var (
	errMissingGeometry = errors.New("missing endpoint geometry")
	errBlockedEndpoint = errors.New("endpoint cell is blocked")
	errBudgetExhausted = errors.New("search exceeded expansion budget")
	errNoPath          = errors.New("no path between endpoints")
)

// GridRouter is Strategy B: a full obstacle-avoiding search used when the
// solver emitted no bend points, or for explicit on-demand routing. It
// partitions the layout bounds into a uniform grid, blocks cells inside any
// node box expanded by the clearance constant, and runs A* between the
// attachment cells: 4-directional moves, Manhattan heuristic, uniform step
// cost.
//
// The routed edge's own endpoints never count as obstacles, otherwise their
// attachment cells would always be blocked.
type GridRouter struct {
	Opts  Opts
	boxes map[string]*geo.Box
}

func NewGridRouter(opts Opts, nodeBoxes map[string]*geo.Box) *GridRouter {
	return &GridRouter{Opts: opts, boxes: nodeBoxes}
}

type cell struct {
	X, Y int
}

type gridNode struct {
	cell    cell
	steps   int     // accumulated uniform step cost
	penalty float64 // accumulated turn tie-break, keeps paths straight
	hcost   int
	dir     cell // direction we entered this cell from
	parent  *gridNode
	index   int
}

func (n *gridNode) priority() float64 {
	return float64(n.steps+n.hcost) + n.penalty
}

type gridQueue []*gridNode

func (q gridQueue) Len() int { return len(q) }
func (q gridQueue) Less(i, j int) bool {
	if q[i].priority() != q[j].priority() {
		return q[i].priority() < q[j].priority()
	}
	// prefer nodes closer to the goal
	return q[i].hcost < q[j].hcost
}
func (q gridQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *gridQueue) Push(x interface{}) {
	n := x.(*gridNode)
	n.index = len(*q)
	*q = append(*q, n)
}
func (q *gridQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*q = old[:n-1]
	return node
}

// turnPenalty breaks ties toward straighter paths without affecting the
// reported uniform step cost.
const turnPenalty = 1.0 / 1024

func (r *GridRouter) Route(ctx context.Context, req Request) (geo.Route, error) {
	route, _, err := r.Search(ctx, req)
	return route, err
}

// Search routes the edge and also reports the step cost of the found path.
func (r *GridRouter) Search(ctx context.Context, req Request) (geo.Route, int, error) {
	if req.Src == nil || req.Dst == nil {
		return nil, 0, errMissingGeometry
	}

	bounds := r.bounds(req)
	if bounds == nil {
		return nil, 0, errMissingGeometry
	}
	blocked := r.blockedFn(req, bounds)

	start := r.cellOf(bounds, req.Src)
	goal := r.cellOf(bounds, req.Dst)
	if blocked(start) || blocked(goal) {
		return nil, 0, errBlockedEndpoint
	}
	if start == goal {
		return geo.Route{req.Src.Copy(), req.Dst.Copy()}, 0, nil
	}

	manhattan := func(a, b cell) int {
		return abs(a.X-b.X) + abs(a.Y-b.Y)
	}

	open := &gridQueue{}
	heap.Init(open)
	best := make(map[cell]*gridNode)
	closed := make(map[cell]bool)

	startNode := &gridNode{cell: start, hcost: manhattan(start, goal)}
	heap.Push(open, startNode)
	best[start] = startNode

	expansions := 0
	for open.Len() > 0 {
		expansions++
		if expansions > r.Opts.MaxExpansions {
			return nil, 0, errBudgetExhausted
		}
		if expansions&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		curr := heap.Pop(open).(*gridNode)
		if curr.cell == goal {
			return r.reconstruct(bounds, curr, req), curr.steps, nil
		}
		closed[curr.cell] = true

		for _, d := range neighbors4 {
			next := cell{curr.cell.X + d.X, curr.cell.Y + d.Y}
			if closed[next] {
				continue
			}
			if !r.inBounds(bounds, next) || blocked(next) {
				continue
			}
			steps := curr.steps + 1
			penalty := curr.penalty
			if curr.parent != nil && curr.dir != d {
				penalty += turnPenalty
			}
			h := manhattan(next, goal)
			candidate := float64(steps+h) + penalty

			existing, ok := best[next]
			if ok && candidate >= existing.priority() {
				continue
			}
			node := existing
			if node == nil {
				node = &gridNode{cell: next}
				best[next] = node
			}
			node.steps = steps
			node.penalty = penalty
			node.hcost = h
			node.dir = d
			node.parent = curr
			if ok && node.index >= 0 {
				heap.Fix(open, node.index)
			} else {
				heap.Push(open, node)
			}
		}
	}

	return nil, 0, errNoPath
}

var neighbors4 = []cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func (r *GridRouter) bounds(req Request) *geo.Box {
	var b *geo.Box
	for _, box := range r.boxes {
		b = b.Union(box)
	}
	endpoints := geo.NewBox(geo.NewPoint(
		math.Min(req.Src.X, req.Dst.X),
		math.Min(req.Src.Y, req.Dst.Y),
	), math.Abs(req.Src.X-req.Dst.X), math.Abs(req.Src.Y-req.Dst.Y))
	b = b.Union(endpoints)
	if b == nil {
		return nil
	}
	return b.Expanded(r.Opts.Clearance + 2*r.Opts.GridCell)
}

func (r *GridRouter) blockedFn(req Request, bounds *geo.Box) func(cell) bool {
	type obstacle struct{ box *geo.Box }
	var obstacles []obstacle
	for id, box := range r.boxes {
		if id == req.SrcNodeID || id == req.DstNodeID {
			continue
		}
		obstacles = append(obstacles, obstacle{box.Expanded(r.Opts.Clearance)})
	}
	return func(c cell) bool {
		p := r.worldOf(bounds, c)
		for _, o := range obstacles {
			if o.box.Contains(p) {
				return true
			}
		}
		return false
	}
}

func (r *GridRouter) cellOf(bounds *geo.Box, p *geo.Point) cell {
	size := r.Opts.GridCell
	return cell{
		X: int(math.Floor((p.X - bounds.TopLeft.X) / size)),
		Y: int(math.Floor((p.Y - bounds.TopLeft.Y) / size)),
	}
}

func (r *GridRouter) worldOf(bounds *geo.Box, c cell) *geo.Point {
	size := r.Opts.GridCell
	return geo.NewPoint(
		bounds.TopLeft.X+(float64(c.X)+0.5)*size,
		bounds.TopLeft.Y+(float64(c.Y)+0.5)*size,
	)
}

func (r *GridRouter) inBounds(bounds *geo.Box, c cell) bool {
	if c.X < 0 || c.Y < 0 {
		return false
	}
	size := r.Opts.GridCell
	return float64(c.X)*size < bounds.Width && float64(c.Y)*size < bounds.Height
}

// reconstruct walks parent pointers from the goal back to the start, converts
// cells to world coordinates, and snaps the ends onto the real attachment
// points.
func (r *GridRouter) reconstruct(bounds *geo.Box, goal *gridNode, req Request) geo.Route {
	var cells []cell
	for n := goal; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	route := make(geo.Route, 0, len(cells)+2)
	route = append(route, req.Src.Copy())
	for _, c := range cells {
		route = append(route, r.worldOf(bounds, c))
	}
	route = append(route, req.Dst.Copy())

	return RemoveCollinear(route, r.Opts.GridCell/2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
