package geo

import (
	"math"
)

// Arc is a circular arc from Start to End around Center.
// Clockwise is the sweep direction in screen coordinates (y grows down).
type Arc struct {
	Start     *Point  `json:"start"`
	End       *Point  `json:"end"`
	Center    *Point  `json:"center"`
	Radius    float64 `json:"radius"`
	Clockwise bool    `json:"clockwise"`
}

func NewArc(start, end, center *Point, radius float64, clockwise bool) *Arc {
	return &Arc{
		Start:     start,
		End:       end,
		Center:    center,
		Radius:    radius,
		Clockwise: clockwise,
	}
}

func (a *Arc) StartAngle() float64 {
	return math.Atan2(a.Start.Y-a.Center.Y, a.Start.X-a.Center.X)
}

func (a *Arc) EndAngle() float64 {
	return math.Atan2(a.End.Y-a.Center.Y, a.End.X-a.Center.X)
}

// SweepAngle returns the absolute swept angle in radians, in [0, 2π).
func (a *Arc) SweepAngle() float64 {
	diff := a.EndAngle() - a.StartAngle()
	if a.Clockwise {
		for diff < 0 {
			diff += 2 * math.Pi
		}
		return diff
	}
	for diff > 0 {
		diff -= 2 * math.Pi
	}
	return -diff
}

func (a *Arc) Length() float64 {
	return a.Radius * a.SweepAngle()
}
