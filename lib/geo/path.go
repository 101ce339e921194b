package geo

import (
	"encoding/json"
	"fmt"
)

// PathSegment is one drawable piece of a Path: a straight line or a circular
// arc.
type PathSegment interface {
	PathStart() *Point
	PathEnd() *Point
	Length() float64
}

func (s Segment) PathStart() *Point { return s.Start }
func (s Segment) PathEnd() *Point   { return s.End }

func (a *Arc) PathStart() *Point { return a.Start }
func (a *Arc) PathEnd() *Point   { return a.End }

// Path is an ordered sequence of drawable segments from a source attachment
// point to a target attachment point. It is not mutated once built.
type Path []PathSegment

func (p Path) Start() *Point {
	if len(p) == 0 {
		return nil
	}
	return p[0].PathStart()
}

func (p Path) End() *Point {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1].PathEnd()
}

func (p Path) Length() float64 {
	l := 0.
	for _, s := range p {
		l += s.Length()
	}
	return l
}

// Lines returns only the straight segments of the path.
func (p Path) Lines() []Segment {
	var lines []Segment
	for _, s := range p {
		if line, ok := s.(Segment); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// Arcs returns only the arc segments of the path.
func (p Path) Arcs() []*Arc {
	var arcs []*Arc
	for _, s := range p {
		if arc, ok := s.(*Arc); ok {
			arcs = append(arcs, arc)
		}
	}
	return arcs
}

type jsonPathSegment struct {
	Type string `json:"type"`

	Start *Point `json:"start"`
	End   *Point `json:"end"`

	Center    *Point  `json:"center,omitempty"`
	Radius    float64 `json:"radius,omitempty"`
	Clockwise bool    `json:"clockwise,omitempty"`
}

func (p Path) MarshalJSON() ([]byte, error) {
	segs := make([]jsonPathSegment, 0, len(p))
	for _, s := range p {
		switch seg := s.(type) {
		case Segment:
			segs = append(segs, jsonPathSegment{
				Type:  "line",
				Start: seg.Start,
				End:   seg.End,
			})
		case *Arc:
			segs = append(segs, jsonPathSegment{
				Type:      "arc",
				Start:     seg.Start,
				End:       seg.End,
				Center:    seg.Center,
				Radius:    seg.Radius,
				Clockwise: seg.Clockwise,
			})
		default:
			return nil, fmt.Errorf("unknown path segment type %T", s)
		}
	}
	return json.Marshal(segs)
}

func (p *Path) UnmarshalJSON(b []byte) error {
	var segs []jsonPathSegment
	if err := json.Unmarshal(b, &segs); err != nil {
		return err
	}
	out := make(Path, 0, len(segs))
	for _, s := range segs {
		switch s.Type {
		case "line":
			out = append(out, Segment{Start: s.Start, End: s.End})
		case "arc":
			out = append(out, NewArc(s.Start, s.End, s.Center, s.Radius, s.Clockwise))
		default:
			return fmt.Errorf("unknown path segment type %q", s.Type)
		}
	}
	*p = out
	return nil
}
