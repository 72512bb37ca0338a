package ner

import (
	"regexp"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// paragraphBreak is a blank line, possibly holding spaces
var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n`)

// SplitSentences splits text into trimmed, non-empty sentences.
//
// Hard-wrapped lines inside a paragraph are joined first; a blank line always
// ends a sentence. A segment whose last word is an abbreviation (as reported
// by isAbbrev) or a single-letter initial is joined with the next one, so
// "Mr. Darcy" stays in one sentence.
func SplitSentences(text string, isAbbrev func(string) bool) []string {
	var out []string
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}

		var pending string
		seg := sentences.FromString(para)
		for seg.Next() {
			s := strings.TrimSpace(seg.Value())
			if s == "" {
				continue
			}
			if pending != "" {
				s = pending + " " + s
				pending = ""
			}
			if endsWithAbbreviation(s, isAbbrev) {
				pending = s
				continue
			}
			out = append(out, s)
		}
		if pending != "" {
			out = append(out, pending)
		}
	}
	return out
}

func endsWithAbbreviation(s string, isAbbrev func(string) bool) bool {
	if !strings.HasSuffix(s, ".") {
		return false
	}
	fields := strings.Fields(s)
	last := strings.TrimLeft(fields[len(fields)-1], "\"'“‘(")
	if isInitial(last) {
		return true
	}
	return isAbbrev != nil && isAbbrev(last)
}

// isInitial reports whether w is a single upper-case letter followed by a dot.
// The pronoun "I." does not count.
func isInitial(w string) bool {
	return len(w) == 2 && w[1] == '.' && w[0] >= 'A' && w[0] <= 'Z' && w[0] != 'I'
}
