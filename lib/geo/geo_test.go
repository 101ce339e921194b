package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint(t *testing.T) {
	t.Parallel()

	p := NewPoint(1, 2)
	q := NewPoint(4, 6)

	assert.Equal(t, 5.0, p.DistanceTo(q))
	assert.Equal(t, 7.0, p.ManhattanDistanceTo(q))
	assert.True(t, p.Equals(p.Copy()))
	assert.False(t, p.Equals(q))

	mid := p.Interpolate(q, 0.5)
	assert.Equal(t, 2.5, mid.X)
	assert.Equal(t, 4.0, mid.Y)
}

func TestIntersectionPoint(t *testing.T) {
	t.Parallel()

	p := IntersectionPoint(
		NewPoint(0, 0), NewPoint(10, 10),
		NewPoint(0, 10), NewPoint(10, 0),
	)
	if p == nil {
		t.Fatal("expected intersection")
	}
	assert.Equal(t, 5.0, p.X)
	assert.Equal(t, 5.0, p.Y)

	// parallel
	p = IntersectionPoint(
		NewPoint(0, 0), NewPoint(10, 0),
		NewPoint(0, 1), NewPoint(10, 1),
	)
	assert.Nil(t, p)

	// segments whose lines cross outside the segments
	p = IntersectionPoint(
		NewPoint(0, 0), NewPoint(1, 1),
		NewPoint(10, 0), NewPoint(10, 1),
	)
	assert.Nil(t, p)
}

func TestVector(t *testing.T) {
	t.Parallel()

	v := Vector{3, 4}
	assert.Equal(t, 5.0, v.Length())

	u := v.Unit()
	assert.InDelta(t, 1.0, u.Length(), 0.0001)

	// right turn has negative cross in y-down coordinates
	right := Vector{1, 0}
	down := Vector{0, 1}
	assert.True(t, right.Cross(down) > 0)
	assert.True(t, down.Cross(right) < 0)

	nx, ny := GetUnitNormalVector(0, 0, 10, 0)
	assert.InDelta(t, 0.0, nx, 0.0001)
	assert.InDelta(t, 1.0, math.Abs(ny), 0.0001)
}

func TestBox(t *testing.T) {
	t.Parallel()

	b := NewBox(NewPoint(0, 0), 10, 20)
	assert.True(t, b.Contains(NewPoint(5, 5)))
	assert.False(t, b.Contains(NewPoint(11, 5)))

	c := b.Center()
	assert.Equal(t, 5.0, c.X)
	assert.Equal(t, 10.0, c.Y)

	e := b.Expanded(5)
	assert.Equal(t, -5.0, e.TopLeft.X)
	assert.Equal(t, 20.0, e.Width)
	assert.Equal(t, 30.0, e.Height)

	u := b.Union(NewBox(NewPoint(20, -10), 10, 10))
	assert.Equal(t, 0.0, u.TopLeft.X)
	assert.Equal(t, -10.0, u.TopLeft.Y)
	assert.Equal(t, 30.0, u.Width)
	assert.Equal(t, 30.0, u.Height)

	hits := b.Intersections(*NewSegment(b.Center(), NewPoint(50, 10)))
	if assert.Equal(t, 1, len(hits)) {
		assert.Equal(t, 10.0, hits[0].X)
	}
}

func TestRoute(t *testing.T) {
	t.Parallel()

	r := Route{NewPoint(0, 0), NewPoint(10, 0), NewPoint(10, 10)}
	assert.Equal(t, 20.0, r.Length())

	tl, br := r.GetBoundingBox()
	assert.Equal(t, 0.0, tl.X)
	assert.Equal(t, 0.0, tl.Y)
	assert.Equal(t, 10.0, br.X)
	assert.Equal(t, 10.0, br.Y)

	cp := r.Copy()
	cp[0].X = 99
	assert.Equal(t, 0.0, r[0].X)
}

func TestArc(t *testing.T) {
	t.Parallel()

	// quarter circle from (10,0) to (0,10) around the origin
	a := &Arc{
		Start:     NewPoint(10, 0),
		End:       NewPoint(0, 10),
		Center:    NewPoint(0, 0),
		Radius:    10,
		Clockwise: true,
	}
	assert.InDelta(t, math.Pi/2, math.Abs(a.SweepAngle()), 0.0001)
	assert.InDelta(t, 10*math.Pi/2, a.Length(), 0.0001)
}

func TestPathJSON(t *testing.T) {
	t.Parallel()

	p := Path{
		Segment{Start: NewPoint(0, 0), End: NewPoint(10, 0)},
		&Arc{
			Start:     NewPoint(10, 0),
			End:       NewPoint(20, 10),
			Center:    NewPoint(10, 10),
			Radius:    10,
			Clockwise: false,
		},
		Segment{Start: NewPoint(20, 10), End: NewPoint(20, 30)},
	}

	b, err := json.Marshal(p)
	assert.NoError(t, err)

	var got Path
	assert.NoError(t, json.Unmarshal(b, &got))
	if assert.Equal(t, 3, len(got)) {
		assert.Equal(t, 1, len(got.Arcs()))
		assert.Equal(t, 2, len(got.Lines()))
		assert.True(t, got.Start().Equals(p.Start()))
		assert.True(t, got.End().Equals(p.End()))
	}
}
