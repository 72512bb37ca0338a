package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/bookrel/internal/pipeline"
	"github.com/ppiankov/bookrel/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingest service",
	Long: `Serve exposes the ingestion pipeline over HTTP:

  GET  /health
  POST /ingest/url   {"bookId": 1342, "url": "https://..."}
  POST /ingest/text  {"bookId": 1342, "text": "..."}

Both ingest routes accept fromChapter, toChapter, minWeight, limit, progress
and window query parameters.

The recognizer is initialized and probed before listening; failure is fatal.`,
	Args: noArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8001"
	}
	logger := newLogger(cfg)

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := server.NewServer(p, logger, cfg.Server, pipeline.NewRenderer(cfg.Output.Pretty))
	httpServer := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting bookrel", "addr", cfg.Server.Addr, "recognizer", cfg.Recognizer.Provider)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
