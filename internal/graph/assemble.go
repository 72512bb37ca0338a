package graph

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ppiankov/bookrel/internal/model"
)

// pairStats accumulates one pair across chapters
type pairStats struct {
	total       int
	first, last int
}

// Assembler merges per-chapter counts into the book graph
type Assembler struct {
	ids IDGenerator
}

// NewAssembler creates an assembler using ids for node identifiers
func NewAssembler(ids IDGenerator) *Assembler {
	return &Assembler{ids: ids}
}

// Assemble builds the graph from chapter counts in segmentation order.
// Chapter i of the slice is chapter i+1 of the book.
//
// Without any co-occurring pair the graph is empty. Otherwise every name
// counted in any chapter becomes a node, and every pair an edge weighted by
// its total relative to the most frequent pair, rounded to 4 decimals.
// Nodes are sorted by name, edges by source then target name.
func (a *Assembler) Assemble(chapters []ChapterCounts) (*model.Graph, error) {
	stats := make(map[Pair]*pairStats)
	maxTotal := 0
	for i, ch := range chapters {
		index := i + 1
		for p, c := range ch.Pairs {
			if c <= 0 {
				continue
			}
			s, ok := stats[p]
			if !ok {
				s = &pairStats{first: index}
				stats[p] = s
			}
			s.total += c
			s.last = index
			maxTotal = max(maxTotal, s.total)
		}
	}

	if len(stats) == 0 {
		return model.EmptyGraph(), nil
	}

	people := make(map[string]struct{})
	for _, ch := range chapters {
		for name := range ch.Names {
			people[name] = struct{}{}
		}
	}
	// Pair members are always counted names; kept for hand-built counts
	for p := range stats {
		people[p.A] = struct{}{}
		people[p.B] = struct{}{}
	}

	names := make([]string, 0, len(people))
	for name := range people {
		names = append(names, name)
	}
	slices.Sort(names)

	g := &model.Graph{
		Nodes: make([]model.Node, 0, len(names)),
		Edges: make([]model.Edge, 0, len(stats)),
	}
	idByName := make(map[string]string, len(names))
	for _, name := range names {
		id, err := a.ids.ID(name)
		if err != nil {
			return nil, fmt.Errorf("assign id to %q: %w", name, err)
		}
		idByName[name] = id
		g.Nodes = append(g.Nodes, model.Node{ID: id, Name: name})
	}

	pairs := make([]Pair, 0, len(stats))
	for p := range stats {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(x, y Pair) int {
		if c := strings.Compare(x.A, y.A); c != 0 {
			return c
		}
		return strings.Compare(x.B, y.B)
	})

	for _, p := range pairs {
		s := stats[p]
		g.Edges = append(g.Edges, model.Edge{
			Src:         idByName[p.A],
			Dst:         idByName[p.B],
			Type:        model.RelationCoOccur,
			Weight:      roundWeight(float64(s.total) / float64(maxTotal)),
			FromChapter: s.first,
			ToChapter:   s.last,
		})
	}

	return g, nil
}

func roundWeight(w float64) float64 {
	return math.Round(w*1e4) / 1e4
}
