package ner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/bookrel/internal/llm"
)

// LLMRecognizer splits sentences locally and asks a language model to tag
// them, a batch at a time
type LLMRecognizer struct {
	provider       llm.Provider
	gazetteer      *Gazetteer
	batchSize      int
	maxBatchTokens int
	countTokens    llm.TokenCounter
	logger         *log.Logger
}

// NewLLMRecognizer wraps an LLM provider. maxBatchTokens > 0 additionally
// bounds each prompt by its token count.
func NewLLMRecognizer(provider llm.Provider, g *Gazetteer, batchSize, maxBatchTokens int, logger *log.Logger) *LLMRecognizer {
	r := &LLMRecognizer{
		provider:       provider,
		gazetteer:      g,
		batchSize:      batchSize,
		maxBatchTokens: maxBatchTokens,
		logger:         logger,
	}
	if maxBatchTokens > 0 {
		r.countTokens = llm.NewTokenCounter()
	}
	return r
}

// Name returns the recognizer name
func (r *LLMRecognizer) Name() string {
	return "llm:" + r.provider.Name()
}

// Analyze tags every sentence of text. Any provider failure fails the call.
func (r *LLMRecognizer) Analyze(ctx context.Context, text string) (*Document, error) {
	sentences := SplitSentences(text, r.gazetteer.IsAbbreviation)
	doc := &Document{Sentences: make([]Sentence, 0, len(sentences))}

	tokens := 0
	for i, batch := range llm.Batch(sentences, r.batchSize, r.maxBatchTokens, r.countTokens) {
		resp, err := r.provider.ExtractEntities(ctx, llm.ExtractRequest{Sentences: batch})
		if err != nil {
			return nil, fmt.Errorf("recognize batch %d: %w", i+1, err)
		}
		tokens += resp.TokensUsed

		for j, s := range batch {
			sentence := Sentence{Text: s}
			if j < len(resp.Entities) {
				for _, e := range resp.Entities[j] {
					sentence.Mentions = append(sentence.Mentions, NewMention(e.Text, e.Label))
				}
			}
			doc.Sentences = append(doc.Sentences, sentence)
		}
	}

	if r.logger != nil {
		r.logger.Debug("llm analysis", "provider", r.provider.Name(), "sentences", len(sentences), "tokens", tokens)
	}
	return doc, nil
}
