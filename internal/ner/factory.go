package ner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/bookrel/internal/llm"
	"github.com/ppiankov/bookrel/internal/model"
)

// ErrUnavailable reports a recognizer backend that failed its startup probe
var ErrUnavailable = errors.New("recognizer unavailable")

// New creates the recognizer selected by cfg.Provider.
//
// Every missing resource is reported here, before any text is processed: an
// unreadable gazetteer override, a missing API key, an unknown provider and,
// when cfg.CheckOnStart is set, an unreachable model endpoint.
func New(ctx context.Context, cfg model.RecognizerConfig, httpCfg model.HTTPConfig, logger *log.Logger) (Recognizer, error) {
	gazetteer, err := loadGazetteer(cfg.Gazetteer)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(cfg.Provider)
	if provider == "" || provider == "rules" {
		return NewRuleRecognizer(gazetteer), nil
	}

	p, err := llm.NewProvider(llm.ConfigFromModel(cfg, httpCfg))
	if err != nil {
		return nil, fmt.Errorf("create recognizer: %w", err)
	}

	if cfg.CheckOnStart && !p.IsAvailable(ctx) {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, p.Name())
	}

	return NewLLMRecognizer(p, gazetteer, cfg.BatchSize, cfg.MaxBatchTokens, logger), nil
}

func loadGazetteer(path string) (*Gazetteer, error) {
	if path == "" {
		return DefaultGazetteer()
	}
	return LoadGazetteer(path)
}
