package ner

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var embeddedGazetteer []byte

// Gazetteer holds the word lists driving the rule-based recognizer
type Gazetteer struct {
	Titles        []string `yaml:"titles"`
	Abbreviations []string `yaml:"abbreviations"`
	Particles     []string `yaml:"particles"`
	Stopwords     []string `yaml:"stopwords"`

	titles        map[string]bool
	abbreviations map[string]bool
	particles     map[string]bool
	stopwords     map[string]bool
}

var defaultGazetteer = sync.OnceValues(func() (*Gazetteer, error) {
	return ParseGazetteer(embeddedGazetteer)
})

// DefaultGazetteer returns the built-in gazetteer
func DefaultGazetteer() (*Gazetteer, error) {
	return defaultGazetteer()
}

// LoadGazetteer reads a gazetteer file. A missing file is an error.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: %w", err)
	}
	g, err := ParseGazetteer(data)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer %s: %w", path, err)
	}
	return g, nil
}

// ParseGazetteer decodes a YAML gazetteer
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse gazetteer: %w", err)
	}
	if len(g.Titles) == 0 && len(g.Stopwords) == 0 {
		return nil, fmt.Errorf("parse gazetteer: no titles or stopwords")
	}

	g.titles = toSet(g.Titles, ".")
	g.abbreviations = toSet(g.Abbreviations, "")
	g.particles = toSet(g.Particles, "")
	g.stopwords = toSet(g.Stopwords, "")
	return &g, nil
}

// IsTitle reports whether word is an honorific, with or without its dot
func (g *Gazetteer) IsTitle(word string) bool {
	return g.titles[strings.TrimSuffix(strings.ToLower(word), ".")]
}

// IsAbbreviation reports whether word (including its dot) never ends a sentence
func (g *Gazetteer) IsAbbreviation(word string) bool {
	return g.abbreviations[strings.ToLower(word)]
}

// IsParticle reports whether a lower-case word may join two name parts
// ("Catherine de Bourgh")
func (g *Gazetteer) IsParticle(word string) bool {
	return g.particles[word]
}

// IsStopword reports whether a capitalized word cannot be part of a name
func (g *Gazetteer) IsStopword(word string) bool {
	return g.stopwords[strings.ToLower(word)]
}

func toSet(words []string, trim string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if trim != "" {
			w = strings.TrimSuffix(w, trim)
		}
		if w != "" {
			set[w] = true
		}
	}
	return set
}
