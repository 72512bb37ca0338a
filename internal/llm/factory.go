package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/bookrel/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the recognizer and HTTP settings to llm.Config
func ConfigFromModel(rc model.RecognizerConfig, hc model.HTTPConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = rc.Provider
	cfg.Model = rc.Model
	cfg.APIKey = rc.APIKey
	cfg.BaseURL = rc.BaseURL
	if rc.Timeout > 0 {
		cfg.Timeout = rc.Timeout
	}
	cfg.HTTPProxy = hc.HTTPProxy
	cfg.HTTPSProxy = hc.HTTPSProxy
	cfg.NoProxy = hc.NoProxy
	return cfg
}
