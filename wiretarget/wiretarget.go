// Package wiretarget is the contract between the layout core and the
// rendering layer: absolute geometry per node and container, resolved port
// sides, and one drawable path per cable.
package wiretarget

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wirekit/wirekit/lib/geo"
	"github.com/wirekit/wirekit/wiregraph"
)

type Diagram struct {
	Direction wiregraph.Direction `json:"direction"`

	Shapes      []Shape      `json:"shapes"`
	Groups      []Group      `json:"groups,omitempty"`
	Connections []Connection `json:"connections"`

	// PortSides maps nodeID -> portKey -> resolved side. Built fresh on every
	// layout pass.
	PortSides map[string]map[string]wiregraph.Side `json:"portSides,omitempty"`
}

// Shape is a positioned device.
type Shape struct {
	ID     string     `json:"id"`
	Parent string     `json:"parent,omitempty"`
	Box    *geo.Box   `json:"box"`
	Ports  []PortStub `json:"ports,omitempty"`
}

// PortStub is a rendered port: its key, side, and attachment coordinate on
// the node border.
type PortStub struct {
	Key      string         `json:"key"`
	Side     wiregraph.Side `json:"side"`
	Position *geo.Point     `json:"position"`
}

// Group is a positioned container.
type Group struct {
	ID     string   `json:"id"`
	Parent string   `json:"parent,omitempty"`
	Box    *geo.Box `json:"box"`
}

// Connection is a routed cable.
type Connection struct {
	ID  string `json:"id"`
	Src string `json:"src"`
	Dst string `json:"dst"`

	// SrcHandle and DstHandle identify the attachment handles,
	// "nodeID" or "nodeID/portKey". The separator is outside the ID
	// grammar, so the split is unambiguous.
	SrcHandle string `json:"srcHandle"`
	DstHandle string `json:"dstHandle"`

	Path geo.Path `json:"path"`
}

// Handle formats an attachment handle identifier.
func Handle(nodeID, portKey string) string {
	if portKey == "" {
		return nodeID
	}
	return nodeID + "/" + portKey
}

// SplitHandle is the inverse of Handle.
func SplitHandle(handle string) (nodeID, portKey string) {
	if i := strings.LastIndex(handle, "/"); i >= 0 {
		return handle[:i], handle[i+1:]
	}
	return handle, ""
}

func (d *Diagram) Bytes() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal diagram: %w", err)
	}
	return b, nil
}
