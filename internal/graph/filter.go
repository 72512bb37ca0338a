package graph

import (
	"errors"
	"math"
	"slices"

	"github.com/ppiankov/bookrel/internal/model"
)

// DefaultSnapshotWindow is the number of chapters a snapshot spans
const DefaultSnapshotWindow = 10

// FilterOptions narrows a graph. Nil/zero fields are inactive.
type FilterOptions struct {
	FromChapter *int     // keep edges still observed at or after this chapter
	ToChapter   *int     // keep edges already observed at or before this chapter
	MinWeight   *float64 // drop edges lighter than this
	Limit       int      // keep the heaviest edges only
}

// Active reports whether any option is set
func (o FilterOptions) Active() bool {
	return o.FromChapter != nil || o.ToChapter != nil || o.MinWeight != nil || o.Limit > 0
}

// Filter returns a filtered copy of g. An edge overlaps the chapter range
// when its toChapter >= FromChapter and its fromChapter <= ToChapter. With
// Limit, edges are ranked by descending weight; ties keep graph order. When
// any option is active, nodes no remaining edge references are dropped.
func Filter(g *model.Graph, opts FilterOptions) *model.Graph {
	out := model.EmptyGraph()
	if g == nil {
		return out
	}
	if !opts.Active() {
		out.Nodes = append(out.Nodes, g.Nodes...)
		out.Edges = append(out.Edges, g.Edges...)
		return out
	}

	for _, e := range g.Edges {
		if opts.FromChapter != nil && e.ToChapter < *opts.FromChapter {
			continue
		}
		if opts.ToChapter != nil && e.FromChapter > *opts.ToChapter {
			continue
		}
		if opts.MinWeight != nil && e.Weight < *opts.MinWeight {
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	if opts.Limit > 0 && len(out.Edges) > opts.Limit {
		slices.SortStableFunc(out.Edges, func(a, b model.Edge) int {
			switch {
			case a.Weight > b.Weight:
				return -1
			case a.Weight < b.Weight:
				return 1
			}
			return 0
		})
		out.Edges = out.Edges[:opts.Limit]
	}

	used := make(map[string]bool, 2*len(out.Edges))
	for _, e := range out.Edges {
		used[e.Src] = true
		used[e.Dst] = true
	}
	for _, n := range g.Nodes {
		if used[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out
}

// ErrNoChapters is returned for a snapshot of a book without chapters
var ErrNoChapters = errors.New("total chapters must be > 0")

// SnapshotRange converts reading progress into the chapter range a reader
// has seen recently. progress defaults to 1 and is clamped to [0, 1]; window
// defaults to DefaultSnapshotWindow. The range ends at
// ceil(progress*totalChapters), clamped to [1, totalChapters], and spans at
// most window chapters.
func SnapshotRange(progress *float64, totalChapters, window int) (from, to int, err error) {
	if totalChapters <= 0 {
		return 0, 0, ErrNoChapters
	}

	p := 1.0
	if progress != nil && !math.IsNaN(*progress) && !math.IsInf(*progress, 0) {
		p = min(max(*progress, 0), 1)
	}
	if window <= 0 {
		window = DefaultSnapshotWindow
	}

	to = int(math.Ceil(p * float64(totalChapters)))
	to = min(max(to, 1), totalChapters)
	from = max(1, to-window+1)
	return from, to, nil
}
