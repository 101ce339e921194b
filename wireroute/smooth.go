package wireroute

import (
	"math"

	"github.com/wirekit/wirekit/lib/geo"
)

// below this radius a corner stays a plain straight join
const minCornerRadius = 1.0

// Smooth converts a polyline route into a drawable path, replacing every
// interior corner with a circular arc of radius up to `radius`. The incoming
// and outgoing segments are trimmed by the radius, clamped to half the
// shorter adjoining segment so trims never overlap. The arc sweep direction
// follows the sign of the 2-D cross product of the adjoining direction
// vectors.
func Smooth(route geo.Route, radius float64) geo.Path {
	if len(route) < 2 {
		return nil
	}
	if len(route) == 2 || radius <= 0 {
		return polylinePath(route)
	}

	var path geo.Path
	cursor := route[0]

	for i := 1; i < len(route)-1; i++ {
		corner := route[i]
		next := route[i+1]

		inVec := cursor.VectorTo(corner)
		outVec := corner.VectorTo(next)
		inLen := inVec.Length()
		outLen := outVec.Length()
		if inLen == 0 || outLen == 0 {
			continue
		}

		r := math.Min(radius, math.Min(inLen/2, outLen/2))
		cross := inVec.Cross(outVec)
		if r < minCornerRadius || cross == 0 {
			// too tight or straight-through: plain join
			path = append(path, *geo.NewSegment(cursor, corner))
			cursor = corner
			continue
		}

		inDir := inVec.Unit()
		outDir := outVec.Unit()

		trimIn := corner.AddVector(inDir.Multiply(-r))
		trimOut := corner.AddVector(outDir.Multiply(r))

		// angle between the two legs at the corner
		u := inDir.Multiply(-1)
		cos := u[0]*outDir[0] + u[1]*outDir[1]
		cos = math.Max(-1, math.Min(1, cos))
		theta := math.Acos(cos)
		if theta < 1e-3 {
			// hairpin, no room for an arc
			path = append(path, *geo.NewSegment(cursor, corner))
			cursor = corner
			continue
		}

		arcRadius := r * math.Tan(theta/2)
		bisector := u.Add(outDir)
		centerDist := r / math.Cos(theta/2)
		center := corner.AddVector(bisector.Unit().Multiply(centerDist))

		if !cursor.Equals(trimIn) {
			path = append(path, *geo.NewSegment(cursor, trimIn))
		}
		path = append(path, geo.NewArc(trimIn, trimOut, center, arcRadius, cross > 0))
		cursor = trimOut
	}

	last := route[len(route)-1]
	if !cursor.Equals(last) {
		path = append(path, *geo.NewSegment(cursor, last))
	}
	return path
}

func polylinePath(route geo.Route) geo.Path {
	var path geo.Path
	for i := 0; i < len(route)-1; i++ {
		if route[i].Equals(route[i+1]) {
			continue
		}
		path = append(path, *geo.NewSegment(route[i], route[i+1]))
	}
	return path
}
