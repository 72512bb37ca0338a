package extract

import "strings"

// NormalizeName collapses every whitespace run (newlines included) into a
// single space and trims both ends. The result may be empty.
func NormalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Tokens splits a normalized name into its space-separated words
func Tokens(name string) []string {
	return strings.Fields(name)
}
