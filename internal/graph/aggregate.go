package graph

import (
	"slices"

	"github.com/ppiankov/bookrel/internal/extract"
	"github.com/ppiankov/bookrel/internal/ner"
)

// Pair is an unordered pair of canonical names stored with A < B
type Pair struct {
	A, B string
}

// NewPair orders two names into a Pair
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// ChapterCounts holds the occurrence counts of one chapter
type ChapterCounts struct {
	// Names counts every person mention, repeats within a sentence included
	Names map[string]int

	// Pairs counts the sentences in which both names of a pair occur
	Pairs map[Pair]int
}

// NewChapterCounts returns empty counts
func NewChapterCounts() ChapterCounts {
	return ChapterCounts{
		Names: make(map[string]int),
		Pairs: make(map[Pair]int),
	}
}

// AggregateChapter counts the person mentions and sentence-level
// co-occurrences of one analyzed chapter. Names are normalized, empty names
// are dropped and the rest are mapped through aliases.
func AggregateChapter(doc *ner.Document, aliases AliasMap) ChapterCounts {
	counts := NewChapterCounts()
	if doc == nil {
		return counts
	}

	for _, sentence := range doc.Sentences {
		var names []string
		for raw := range sentence.Persons() {
			name := extract.NormalizeName(raw)
			if name == "" {
				continue
			}
			name = aliases.Resolve(name)
			counts.Names[name]++
			names = append(names, name)
		}

		for _, p := range sentencePairs(names) {
			counts.Pairs[p]++
		}
	}
	return counts
}

// PersonNames returns every normalized, non-empty person name of a document
// in text order, for alias resolution
func PersonNames(doc *ner.Document) []string {
	var out []string
	for raw := range doc.Persons() {
		if name := extract.NormalizeName(raw); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// sentencePairs returns each unordered pair of distinct names once
func sentencePairs(names []string) []Pair {
	if len(names) < 2 {
		return nil
	}
	uniq := slices.Clone(names)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)

	var pairs []Pair
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			pairs = append(pairs, Pair{A: uniq[i], B: uniq[j]})
		}
	}
	return pairs
}
