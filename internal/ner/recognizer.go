package ner

import (
	"context"
	"iter"
	"strings"
)

// Recognizer splits text into sentences and tags the named entities in each
type Recognizer interface {
	// Name returns the recognizer name
	Name() string

	// Analyze returns the sentences of text with their entity mentions
	Analyze(ctx context.Context, text string) (*Document, error)
}

// Kind is the decoded type of an entity mention
type Kind int

const (
	KindOther Kind = iota
	KindPerson
	KindPlace
	KindOrganization
)

// ParseKind decodes an entity label as emitted by a tagger.
// Unknown labels decode to KindOther.
func ParseKind(label string) Kind {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PERSON", "PER":
		return KindPerson
	case "GPE", "LOC", "LOCATION", "PLACE":
		return KindPlace
	case "ORG", "ORGANIZATION":
		return KindOrganization
	default:
		return KindOther
	}
}

func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "PERSON"
	case KindPlace:
		return "PLACE"
	case KindOrganization:
		return "ORG"
	default:
		return "OTHER"
	}
}

// Mention is one entity occurrence inside a sentence
type Mention struct {
	Text string
	Kind Kind
}

// NewMention decodes a raw (text, label) pair
func NewMention(text, label string) Mention {
	return Mention{Text: text, Kind: ParseKind(label)}
}

// Sentence is one sentence with its mentions in text order
type Sentence struct {
	Text     string
	Mentions []Mention
}

// Persons yields the raw text of every PERSON mention in the sentence
func (s Sentence) Persons() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, m := range s.Mentions {
			if m.Kind != KindPerson {
				continue
			}
			if !yield(m.Text) {
				return
			}
		}
	}
}

// Document is the analysis of one text
type Document struct {
	Sentences []Sentence
}

// Mentions yields every mention of the document in text order
func (d *Document) Mentions() iter.Seq[Mention] {
	return func(yield func(Mention) bool) {
		if d == nil {
			return
		}
		for _, s := range d.Sentences {
			for _, m := range s.Mentions {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// Persons yields the raw text of every PERSON mention in text order
func (d *Document) Persons() iter.Seq[string] {
	return func(yield func(string) bool) {
		for m := range d.Mentions() {
			if m.Kind == KindPerson && !yield(m.Text) {
				return
			}
		}
	}
}
