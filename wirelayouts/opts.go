package wirelayouts

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/wirekit/wirekit/wireroute"
)

// Opts tunes the geometry passes that run after the solver. Zero values fall
// back to the defaults, so a TOML file only needs to name what it changes.
type Opts struct {
	// BufferLength is the minimum length of the first and last leg of a
	// refined path, so attachment legs are never degenerate.
	BufferLength float64 `toml:"buffer_length"`
	// CornerRadius is the fillet radius applied at path corners.
	CornerRadius float64 `toml:"corner_radius"`
	// GridCell is the obstacle-grid cell size for on-demand routing.
	GridCell float64 `toml:"grid_cell"`
	// Clearance expands node boxes when marking blocked grid cells.
	Clearance float64 `toml:"clearance"`
	// MaxExpansions bounds the A* search before it falls back to a direct
	// segment.
	MaxExpansions int `toml:"max_expansions"`
	// SeparationDistance is the perpendicular spacing between visually
	// coincident parallel cables.
	SeparationDistance float64 `toml:"separation_distance"`
	// CollinearTolerance is the coordinate tolerance when collapsing
	// redundant bend points.
	CollinearTolerance float64 `toml:"collinear_tolerance"`
}

var DefaultOpts = Opts{
	BufferLength:       30,
	CornerRadius:       10,
	GridCell:           10,
	Clearance:          20,
	MaxExpansions:      50000,
	SeparationDistance: 12,
	CollinearTolerance: 0.5,
}

// LoadOpts reads a TOML opts file over the defaults.
func LoadOpts(path string) (*Opts, error) {
	opts := DefaultOpts
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return nil, fmt.Errorf("failed to load layout opts %q: %w", path, err)
	}
	return &opts, nil
}

func (o *Opts) withDefaults() Opts {
	out := DefaultOpts
	if o == nil {
		return out
	}
	if o.BufferLength > 0 {
		out.BufferLength = o.BufferLength
	}
	if o.CornerRadius > 0 {
		out.CornerRadius = o.CornerRadius
	}
	if o.GridCell > 0 {
		out.GridCell = o.GridCell
	}
	if o.Clearance > 0 {
		out.Clearance = o.Clearance
	}
	if o.MaxExpansions > 0 {
		out.MaxExpansions = o.MaxExpansions
	}
	if o.SeparationDistance > 0 {
		out.SeparationDistance = o.SeparationDistance
	}
	if o.CollinearTolerance > 0 {
		out.CollinearTolerance = o.CollinearTolerance
	}
	return out
}

func (o Opts) routeOpts() wireroute.Opts {
	return wireroute.Opts{
		BufferLength:       o.BufferLength,
		CornerRadius:       o.CornerRadius,
		GridCell:           o.GridCell,
		Clearance:          o.Clearance,
		MaxExpansions:      o.MaxExpansions,
		CollinearTolerance: o.CollinearTolerance,
	}
}
