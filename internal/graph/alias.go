package graph

import (
	"strings"
	"unicode"

	"github.com/ppiankov/bookrel/internal/extract"
)

// AliasMap maps a single-word name to the full name it abbreviates
// ("Darcy" -> "Mr. Darcy"). It is built once per book and never modified.
type AliasMap map[string]string

// Resolve returns the canonical form of a normalized name
func (m AliasMap) Resolve(name string) string {
	if full, ok := m[name]; ok {
		return full
	}
	return name
}

// ResolveAliases builds the alias map from every normalized person mention of
// a book, in extraction order.
//
// A single-word name is mapped only when it equals the surname (last word)
// of exactly one multi-word mention in the whole book; that surname must be
// title-cased. Repeating the same full name counts every time, so a surname
// is merged only when its multi-word form was mentioned once. Multi-word
// names are never remapped.
func ResolveAliases(mentions []string) AliasMap {
	surnameCounts := make(map[string]int)
	var multi []string
	for _, name := range mentions {
		words := extract.Tokens(name)
		if len(words) < 2 {
			continue
		}
		multi = append(multi, name)
		if surname := words[len(words)-1]; isTitle(surname) {
			surnameCounts[surname]++
		}
	}

	fullBySurname := make(map[string]string)
	for _, name := range multi {
		words := extract.Tokens(name)
		surname := words[len(words)-1]
		if _, seen := fullBySurname[surname]; !seen && surnameCounts[surname] == 1 {
			fullBySurname[surname] = name
		}
	}

	aliases := make(AliasMap)
	for _, name := range mentions {
		if strings.Contains(name, " ") || name == "" {
			continue
		}
		if full, ok := fullBySurname[name]; ok {
			aliases[name] = full
		}
	}
	return aliases
}

// isTitle reports whether s is title-cased: it has at least one cased letter,
// upper-case letters only follow uncased characters and lower-case letters
// only follow cased ones ("Darcy", "O'Brien", "Fitz-William").
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
