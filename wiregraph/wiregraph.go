// Package wiregraph holds the input model of a wiring diagram: devices with
// typed ports, directed cables, and nested grouping containers.
//
// The model is a snapshot. Layout passes never mutate it; everything derived
// (positions, port sides, paths) is returned in fresh structures.
package wiregraph

import (
	"regexp"
)

// Direction is the primary flow direction handed to the layout solver.
type Direction string

const (
	DirectionRight Direction = "right"
	DirectionLeft  Direction = "left"
	DirectionDown  Direction = "down"
	DirectionUp    Direction = "up"
)

func (d Direction) IsHorizontal() bool {
	return d == DirectionRight || d == DirectionLeft
}

// Alignment classifies a port as directional (In/Out) or direction-less.
type Alignment string

const (
	AlignmentIn            Alignment = "in"
	AlignmentOut           Alignment = "out"
	AlignmentBidirectional Alignment = "bidirectional"
)

// Side is a concrete node side a port faces after resolution.
type Side string

const (
	North Side = "north"
	East  Side = "east"
	South Side = "south"
	West  Side = "west"
)

var idRe = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// ValidID reports whether id matches the identifier grammar shared by nodes,
// edges and containers.
func ValidID(id string) bool {
	return idRe.MatchString(id)
}

type Port struct {
	Key       string    `json:"key"`
	Alignment Alignment `json:"alignment"`
}

type Node struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Parent is the id of the containing container, if any.
	Parent string  `json:"parent,omitempty"`
	Ports  []*Port `json:"ports,omitempty"`
}

// Port returns the port with the given key, or nil.
func (n *Node) Port(key string) *Port {
	for _, p := range n.Ports {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// PortIndex returns the positional index of key within the node's port
// ordering, or -1.
func (n *Node) PortIndex(key string) int {
	for i, p := range n.Ports {
		if p.Key == key {
			return i
		}
	}
	return -1
}

type Edge struct {
	ID  string `json:"id"`
	Src string `json:"src"`
	Dst string `json:"dst"`
	// SrcPort and DstPort optionally name ports on the referenced nodes.
	SrcPort string `json:"srcPort,omitempty"`
	DstPort string `json:"dstPort,omitempty"`
}

type Container struct {
	ID     string `json:"id"`
	Parent string `json:"parent,omitempty"`
}

type Graph struct {
	Direction  Direction    `json:"direction,omitempty"`
	Nodes      []*Node      `json:"nodes"`
	Edges      []*Edge      `json:"edges,omitempty"`
	Containers []*Container `json:"containers,omitempty"`
}

// EffectiveDirection returns the graph direction, defaulting to right.
func (g *Graph) EffectiveDirection() Direction {
	switch g.Direction {
	case DirectionRight, DirectionLeft, DirectionDown, DirectionUp:
		return g.Direction
	}
	return DirectionRight
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Container returns the container with the given id, or nil.
func (g *Graph) Container(id string) *Container {
	for _, c := range g.Containers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// MembersOf returns the direct member nodes of a container. Membership is
// derived from node parent links, never stored.
func (g *Graph) MembersOf(containerID string) []*Node {
	var members []*Node
	for _, n := range g.Nodes {
		if n.Parent == containerID {
			members = append(members, n)
		}
	}
	return members
}

// ChildContainersOf returns the direct child containers of a container, or
// the root containers for "".
func (g *Graph) ChildContainersOf(containerID string) []*Container {
	var children []*Container
	for _, c := range g.Containers {
		if c.Parent == containerID {
			children = append(children, c)
		}
	}
	return children
}

// WalkContainers visits every container top-down with its nesting depth.
// Traversal uses an explicit worklist so deeply nested installations cannot
// exhaust the stack. Containers whose parent links form a cycle are never
// reached and are skipped.
func (g *Graph) WalkContainers(fn func(c *Container, depth int)) {
	type item struct {
		c     *Container
		depth int
	}
	var stack []item
	roots := g.ChildContainersOf("")
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, item{roots[i], 0})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(it.c, it.depth)
		children := g.ChildContainersOf(it.c.ID)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{children[i], it.depth + 1})
		}
	}
}

// Copy returns a deep copy of the graph.
func (g *Graph) Copy() *Graph {
	out := &Graph{Direction: g.Direction}
	for _, n := range g.Nodes {
		nc := *n
		nc.Ports = make([]*Port, 0, len(n.Ports))
		for _, p := range n.Ports {
			pc := *p
			nc.Ports = append(nc.Ports, &pc)
		}
		out.Nodes = append(out.Nodes, &nc)
	}
	for _, e := range g.Edges {
		ec := *e
		out.Edges = append(out.Edges, &ec)
	}
	for _, c := range g.Containers {
		cc := *c
		out.Containers = append(out.Containers, &cc)
	}
	return out
}
