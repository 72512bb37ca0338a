package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/bookrel/internal/model"
	"github.com/ppiankov/bookrel/internal/ner"
	"github.com/ppiankov/bookrel/internal/pipeline"
	"github.com/ppiankov/bookrel/internal/util"
	"github.com/ppiankov/bookrel/internal/worker"
)

func newLogger(cfg *model.Config) *log.Logger {
	return util.NewLogger(os.Stderr, cfg.Output.Verbose)
}

// buildPipeline creates the recognizer, fetcher and pipeline described by cfg.
// A recognizer that cannot be created or reached is an error.
func buildPipeline(ctx context.Context, cfg *model.Config, logger *log.Logger) (*pipeline.Pipeline, error) {
	recognizer, err := ner.New(ctx, cfg.Recognizer, cfg.HTTP, logger)
	if err != nil {
		return nil, fmt.Errorf("init recognizer: %w", err)
	}
	logger.Debug("recognizer ready", "name", recognizer.Name())

	limiter := worker.NewLimiterFromConfig(cfg.RateLimiting)
	fetcher := pipeline.NewFetcherFromConfig(cfg, limiter, logger)

	return pipeline.NewPipeline(cfg, recognizer, fetcher, logger), nil
}
