package extract

import (
	"strings"
)

// Stripper removes the non-narrative header and footer surrounding a book body
type Stripper struct {
	startMarkers []string
	endMarkers   []string
}

// NewStripper creates a stripper for the given marker strings.
// Markers are literal; the earliest occurrence of any marker wins.
func NewStripper(startMarkers, endMarkers []string) *Stripper {
	return &Stripper{
		startMarkers: nonEmpty(startMarkers),
		endMarkers:   nonEmpty(endMarkers),
	}
}

// Strip returns the trimmed book body.
// Everything up to and including the start marker and everything from the end
// marker onward is discarded. Missing markers are not an error.
func (s *Stripper) Strip(text string) string {
	body := text
	if idx, marker := findFirst(body, s.startMarkers); idx != -1 {
		body = body[idx+len(marker):]
	}
	if idx, _ := findFirst(body, s.endMarkers); idx != -1 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// HasMarkers reports whether both a start and an end marker occur in text
func (s *Stripper) HasMarkers(text string) bool {
	start, _ := findFirst(text, s.startMarkers)
	end, _ := findFirst(text, s.endMarkers)
	return start != -1 && end != -1
}

// findFirst returns the earliest occurrence of any marker in text. On a tie
// the longer marker wins so that the whole marker is removed.
func findFirst(text string, markers []string) (int, string) {
	best, found := -1, ""
	for _, m := range markers {
		idx := strings.Index(text, m)
		if idx == -1 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(m) > len(found)) {
			best, found = idx, m
		}
	}
	return best, found
}

func nonEmpty(markers []string) []string {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
