package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bookrel/internal/pipeline"
	"github.com/ppiankov/bookrel/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	bookTimeout  time.Duration
	batchNoCache bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Build graphs for many books from a list file",
	Long: `Batch ingests every book listed in a file, in parallel.

Each line is "bookId url" or just "url" (numbered by position). Blank lines
and lines starting with # are skipped. Each graph is written to
<output-dir>/book-<id>.json; a failing book does not stop the others.

Example:
  bookrel batch books.txt
  bookrel batch books.txt --concurrency 8 --output-dir ./graphs
  bookrel batch books.txt --timeout 1h --book-timeout 10m`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("batch requires exactly one book list file")
		}
		return nil
	},
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./bookrel-graphs", "output directory for graphs")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for the batch")
	batchCmd.Flags().DurationVar(&bookTimeout, "book-timeout", 10*time.Minute, "timeout for each book")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable the source cache (force fresh fetch)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchNoCache {
		cfg.Cache.Enabled = false
	}
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Input file:   %s\n", file)
	fmt.Fprintf(out, "  Workers:      %d\n", workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(out, "  Recognizer:   %s\n", cfg.Recognizer.Provider)
	fmt.Fprintf(out, "\n")

	processor := worker.NewBatchProcessor(p, workers, pipeline.NewRenderer(cfg.Output.Pretty), outputDir, bookTimeout, logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return &UsageError{Err: err}
	}

	failures := printBatchSummary(out, results)
	if failures > 0 {
		return fmt.Errorf("%d of %d books failed", failures, len(results))
	}
	return nil
}

// printBatchSummary writes one line per book and returns the failure count
func printBatchSummary(w io.Writer, results []*worker.BookResult) int {
	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			fmt.Fprintf(w, "✗ book %d %s: %v\n", r.Book.ID, r.Book.URL, r.Error)
			continue
		}
		fmt.Fprintf(w, "✓ book %d: %d characters, %d links -> %s\n",
			r.Book.ID, len(r.Result.Graph.Nodes), len(r.Result.Graph.Edges), r.Path)
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Total:     %d books\n", len(results))
	fmt.Fprintf(w, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(w, "  Failures:  %d\n", failures)
	fmt.Fprintf(w, "\n")
	return failures
}
