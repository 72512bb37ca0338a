package model

// Graph is the character co-occurrence graph returned by every ingestion.
// This schema is the wire contract shared by the HTTP API and the CLI output.
type Graph struct {
	Nodes []Node `json:"nodes"` // One node per canonical character name
	Edges []Edge `json:"edges"` // One edge per co-occurring pair
}

// Node is a character
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Edge links two characters that were named in the same sentence
type Edge struct {
	Src         string       `json:"src"`
	Dst         string       `json:"dst"`
	Type        RelationType `json:"type"`
	Weight      float64      `json:"weight"`      // Pair count / max pair count, 4 decimals
	FromChapter int          `json:"fromChapter"` // First chapter the pair was observed in (1-based)
	ToChapter   int          `json:"toChapter"`   // Last chapter the pair was observed in (1-based)
}

// RelationType classifies an edge
type RelationType string

const (
	RelationCoOccur RelationType = "CO_OCCUR" // Named together in one sentence
)

// EmptyGraph returns a graph with non-nil, empty node and edge lists so that
// it renders as {"nodes":[],"edges":[]}.
func EmptyGraph() *Graph {
	return &Graph{
		Nodes: []Node{},
		Edges: []Edge{},
	}
}

// NodeNames returns node names keyed by node ID
func (g *Graph) NodeNames() map[string]string {
	names := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.ID] = n.Name
	}
	return names
}
