package llm

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates prompt sizes
type TokenCounter func(text string) int

// NewTokenCounter returns an o200k_base counter, or a 4-characters-per-token
// estimate when the encoding cannot be loaded
func NewTokenCounter() TokenCounter {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return EstimateTokens
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}
}

// EstimateTokens is a rough token estimate: 1 token ≈ 4 characters
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Batch groups sentences into prompts of at most maxSentences sentences and,
// when maxTokens > 0, at most maxTokens counted tokens. A sentence larger
// than the token budget gets a batch of its own.
func Batch(sentences []string, maxSentences, maxTokens int, count TokenCounter) [][]string {
	if maxSentences <= 0 {
		maxSentences = len(sentences)
	}
	if count == nil {
		count = EstimateTokens
	}

	var (
		out    [][]string
		cur    []string
		tokens int
	)
	for _, s := range sentences {
		n := 0
		if maxTokens > 0 {
			n = count(s)
		}
		full := len(cur) >= maxSentences || (maxTokens > 0 && len(cur) > 0 && tokens+n > maxTokens)
		if full {
			out = append(out, cur)
			cur, tokens = nil, 0
		}
		cur = append(cur, s)
		tokens += n
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
