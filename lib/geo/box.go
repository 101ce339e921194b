package geo

import "fmt"

type Box struct {
	TopLeft *Point  `json:"topLeft"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

func (b *Box) Copy() *Box {
	if b == nil {
		return nil
	}
	return NewBox(b.TopLeft.Copy(), b.Width, b.Height)
}

func (b *Box) Center() *Point {
	return NewPoint(b.TopLeft.X+b.Width/2, b.TopLeft.Y+b.Height/2)
}

func (b *Box) Contains(p *Point) bool {
	return p.X >= b.TopLeft.X && p.X <= b.TopLeft.X+b.Width &&
		p.Y >= b.TopLeft.Y && p.Y <= b.TopLeft.Y+b.Height
}

// Expanded returns a copy of b grown by margin on every side.
func (b *Box) Expanded(margin float64) *Box {
	return NewBox(
		NewPoint(b.TopLeft.X-margin, b.TopLeft.Y-margin),
		b.Width+2*margin,
		b.Height+2*margin,
	)
}

// Union returns the smallest box containing both b and other.
func (b *Box) Union(other *Box) *Box {
	if b == nil {
		return other.Copy()
	}
	if other == nil {
		return b.Copy()
	}
	minX := b.TopLeft.X
	if other.TopLeft.X < minX {
		minX = other.TopLeft.X
	}
	minY := b.TopLeft.Y
	if other.TopLeft.Y < minY {
		minY = other.TopLeft.Y
	}
	maxX := b.TopLeft.X + b.Width
	if other.TopLeft.X+other.Width > maxX {
		maxX = other.TopLeft.X + other.Width
	}
	maxY := b.TopLeft.Y + b.Height
	if other.TopLeft.Y+other.Height > maxY {
		maxY = other.TopLeft.Y + other.Height
	}
	return NewBox(NewPoint(minX, minY), maxX-minX, maxY-minY)
}

func (b *Box) Intersections(s Segment) []*Point {
	pts := []*Point{}

	tl := b.TopLeft
	tr := NewPoint(tl.X+b.Width, tl.Y)
	br := NewPoint(tr.X, tr.Y+b.Height)
	bl := NewPoint(tl.X, br.Y)

	if p := IntersectionPoint(s.Start, s.End, tl, tr); p != nil {
		pts = append(pts, p)
	}
	if p := IntersectionPoint(s.Start, s.End, tr, br); p != nil {
		pts = append(pts, p)
	}
	if p := IntersectionPoint(s.Start, s.End, br, bl); p != nil {
		pts = append(pts, p)
	}
	if p := IntersectionPoint(s.Start, s.End, bl, tl); p != nil {
		pts = append(pts, p)
	}
	return pts
}

func (b *Box) ToString() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("{TopLeft: %s, Width: %.0f, Height: %.0f}", b.TopLeft.ToString(), b.Width, b.Height)
}
