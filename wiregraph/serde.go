package wiregraph

import (
	"encoding/json"
	"fmt"
)

// Unmarshal decodes a graph from its JSON form and checks the identifier
// grammar. Referential checks (dangling edge endpoints, unknown port keys,
// parent cycles) belong to the validator collaborator and are not enforced
// here.
func Unmarshal(b []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}

	seen := make(map[string]struct{}, len(g.Nodes)+len(g.Containers))
	for _, n := range g.Nodes {
		if !ValidID(n.ID) {
			return nil, fmt.Errorf("invalid node id %q", n.ID)
		}
		if _, ok := seen[n.ID]; ok {
			return nil, fmt.Errorf("duplicate id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, c := range g.Containers {
		if !ValidID(c.ID) {
			return nil, fmt.Errorf("invalid container id %q", c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("duplicate id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	edgeIDs := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if !ValidID(e.ID) {
			return nil, fmt.Errorf("invalid edge id %q", e.ID)
		}
		if _, ok := edgeIDs[e.ID]; ok {
			return nil, fmt.Errorf("duplicate edge id %q", e.ID)
		}
		edgeIDs[e.ID] = struct{}{}
	}

	return &g, nil
}

func Marshal(g *Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
