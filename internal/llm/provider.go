package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// ExtractEntities tags the named entities of a batch of sentences
	ExtractEntities(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Entity is one (text, label) pair as returned by a model
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ExtractRequest contains the input for entity extraction
type ExtractRequest struct {
	// Sentences are tagged independently; their order defines the indices
	Sentences []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExtractResponse contains the entities of every requested sentence
type ExtractResponse struct {
	// Entities has one slice per requested sentence, in request order
	Entities [][]Entity

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Strict drops entities whose text does not occur in their sentence
	Strict bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   60,
		Strict:    true,
		MaxTokens: 4000,
	}
}

const systemPrompt = "You are a precise named-entity tagger for English fiction. You answer with JSON only."

// BuildPrompt constructs the default entity extraction prompt
func BuildPrompt(sentences []string) string {
	var b strings.Builder
	b.WriteString(`Tag the named entities in each numbered sentence below.

RULES:
1. Copy every entity's text exactly as it is written in the sentence, including titles such as "Mr." or "Lady".
2. Use these labels: PERSON for people and characters, GPE for countries and towns, LOC for other places, ORG for organizations, OTHER for anything else.
3. Do not resolve pronouns and do not merge different spellings of a name.
4. Include every sentence index, with an empty list when a sentence has no entities.

Respond with a single JSON object of this shape:
{"sentences":[{"index":0,"entities":[{"text":"Mr. Darcy","label":"PERSON"}]}]}

Sentences:
`)
	for i, s := range sentences {
		fmt.Fprintf(&b, "[%d] %s\n", i, s)
	}
	return b.String()
}

func resolveModel(reqModel, configModel, fallback string) string {
	if reqModel != "" {
		return reqModel
	}
	if configModel != "" {
		return configModel
	}
	return fallback
}

func resolveMaxTokens(reqMax, configMax int) int {
	if reqMax != 0 {
		return reqMax
	}
	if configMax != 0 {
		return configMax
	}
	return 4000
}

// ground drops entities that do not occur verbatim in their sentence
func ground(sentences []string, entities [][]Entity) [][]Entity {
	out := make([][]Entity, len(entities))
	for i, list := range entities {
		for _, e := range list {
			if e.Text != "" && strings.Contains(sentences[i], e.Text) {
				out[i] = append(out[i], e)
			}
		}
	}
	return out
}
