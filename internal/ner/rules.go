package ner

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordPattern matches a word with inner apostrophes and hyphens
// ("O'Brien", "Bennet's", "Fitz-William")
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*`)

// RuleRecognizer tags runs of capitalized words as PERSON mentions.
//
// A run may start with honorifics ("Mr.", "Lady") and continues across
// single spaces; punctuation, lower-case words, all-caps words and
// stop-words end it. A possessive "'s" is dropped and ends the run. Runs made
// only of honorifics are discarded.
type RuleRecognizer struct {
	gazetteer *Gazetteer
}

// NewRuleRecognizer creates a rule-based recognizer
func NewRuleRecognizer(g *Gazetteer) *RuleRecognizer {
	return &RuleRecognizer{gazetteer: g}
}

// Name returns the recognizer name
func (r *RuleRecognizer) Name() string {
	return "rules"
}

// Analyze splits text into sentences and tags person names in each
func (r *RuleRecognizer) Analyze(ctx context.Context, text string) (*Document, error) {
	doc := &Document{}
	for _, s := range SplitSentences(text, r.gazetteer.IsAbbreviation) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Sentences = append(doc.Sentences, Sentence{Text: s, Mentions: r.mentions(s)})
	}
	return doc, nil
}

type run struct {
	start, end int
	names      int
}

func (r *RuleRecognizer) mentions(s string) []Mention {
	var (
		out     []Mention
		cur     *run
		prevEnd int
		prevDot bool // previous word may be followed by its abbreviation dot
	)

	flush := func() {
		if cur != nil && cur.names > 0 {
			out = append(out, NewMention(s[cur.start:cur.end], "PERSON"))
		}
		cur = nil
	}

	locs := wordPattern.FindAllStringIndex(s, -1)
	for i, loc := range locs {
		word, possessive := trimPossessive(s[loc[0]:loc[1]])
		end := loc[0] + len(word)

		if cur != nil && !joins(s[prevEnd:loc[0]], prevDot) {
			flush()
		}

		switch {
		case cur != nil && cur.names > 0 && r.gazetteer.IsParticle(word) &&
			i+1 < len(locs) && joins(s[loc[1]:locs[i+1][0]], false) &&
			isCapitalized(s[locs[i+1][0]:locs[i+1][1]]):
			// kept pending; the next capitalized word extends the run
		case !isCapitalized(word) || isShouting(word) || r.gazetteer.IsStopword(word):
			flush()
		case r.gazetteer.IsTitle(word):
			if cur != nil && cur.names > 0 {
				flush()
			}
			if cur == nil {
				cur = &run{start: loc[0]}
			}
			cur.end = end
		default:
			if cur == nil {
				cur = &run{start: loc[0]}
			}
			cur.end = end
			cur.names++
		}

		if possessive {
			flush()
		}
		prevEnd = loc[1]
		prevDot = r.gazetteer.IsTitle(word) || utf8.RuneCountInString(word) == 1
	}
	flush()

	return out
}

// joins reports whether the gap between two words keeps a run going
func joins(gap string, afterAbbrev bool) bool {
	switch gap {
	case " ":
		return true
	case ". ":
		return afterAbbrev
	}
	return false
}

func trimPossessive(word string) (string, bool) {
	for _, suffix := range []string{"'s", "’s"} {
		if strings.HasSuffix(word, suffix) && len(word) > len(suffix) {
			return strings.TrimSuffix(word, suffix), true
		}
	}
	return word, false
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

// isShouting reports all-caps words of two or more letters ("CHAPTER")
func isShouting(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 1
}
