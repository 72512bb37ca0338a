package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ppiankov/bookrel/internal/graph"
	"github.com/ppiankov/bookrel/internal/pipeline"
	"github.com/ppiankov/bookrel/internal/validate"
)

var (
	sourceURL    string
	sourceFile   string
	bookID       int64
	outPath      string
	graphTimeout time.Duration
	noCache      bool
	provider     string
	modelName    string
	pretty       bool
)

// filterFlags are forwarded to the graph query parser under the same names
var filterFlags = []string{"fromChapter", "toChapter", "minWeight", "limit", "progress", "window"}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the character co-occurrence graph of a book",
	Long: `Graph fetches a book (or reads a local file), strips its boilerplate,
splits it into chapters, recognizes character names and links characters
named in the same sentence.

Example:
  bookrel graph --url https://www.gutenberg.org/files/1342/1342-0.txt --book-id 1342 --out pride.json
  bookrel graph --file pride.txt --minWeight 0.2
  bookrel graph --url https://www.gutenberg.org/files/1342/1342-0.txt --progress 0.5 --window 5`,
	Args: noArgs,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVar(&sourceURL, "url", "", "book URL")
	graphCmd.Flags().StringVar(&sourceFile, "file", "", "local book text file (ingested like /ingest/text)")
	graphCmd.Flags().Int64Var(&bookID, "book-id", 1, "book id, used for deterministic node ids")
	graphCmd.Flags().StringVar(&outPath, "out", "", "output JSON path (default: stdout)")
	graphCmd.Flags().DurationVar(&graphTimeout, "timeout", 10*time.Minute, "overall timeout")
	graphCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the source cache (force fresh fetch)")
	graphCmd.Flags().StringVar(&provider, "recognizer", "", "recognizer (rules, openai, anthropic, ollama)")
	graphCmd.Flags().StringVar(&modelName, "model", "", "LLM model name for LLM recognizers")
	graphCmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	// Filter flags
	graphCmd.Flags().Int("fromChapter", 0, "keep edges observed at or after this chapter")
	graphCmd.Flags().Int("toChapter", 0, "keep edges observed at or before this chapter")
	graphCmd.Flags().Float64("minWeight", 0, "drop edges lighter than this weight")
	graphCmd.Flags().Int("limit", 0, "keep only the N heaviest edges")
	graphCmd.Flags().Float64("progress", 1, "snapshot: reading progress in [0,1]")
	graphCmd.Flags().Int("window", graph.DefaultSnapshotWindow, "snapshot: number of chapters")
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	if (sourceURL == "") == (sourceFile == "") {
		_ = cmd.Usage()
		return usageErrorf("exactly one of --url or --file is required")
	}

	query, err := queryFromFlags(cmd.Flags())
	if err != nil {
		return &UsageError{Err: err}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if provider != "" {
		cfg.Recognizer.Provider = provider
		applyProviderEnv(cfg)
	}
	if modelName != "" {
		cfg.Recognizer.Model = modelName
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), graphTimeout)
	defer cancel()

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var res *pipeline.Result
	if sourceURL != "" {
		res, err = p.IngestURL(ctx, bookID, sourceURL)
	} else {
		var data []byte
		if data, err = os.ReadFile(sourceFile); err != nil {
			return fmt.Errorf("read book: %w", err)
		}
		res, err = p.IngestText(ctx, bookID, string(data))
	}
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	logger.Debug("segmented", "chapters", res.Chapters, "prologue", res.HasPrologue)

	opts, err := query.Options(res.Chapters)
	if err != nil {
		return err
	}
	g := res.Graph
	if opts.Active() {
		g = graph.Filter(g, opts)
	}

	renderer := pipeline.NewRenderer(pretty || cfg.Output.Pretty)
	if outPath == "" {
		return renderer.Encode(cmd.OutOrStdout(), g)
	}
	if err := renderer.RenderJSON(g, outPath); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", outPath)
	return nil
}

// queryFromFlags validates the filter flags the user set, the same way the
// HTTP API validates query parameters
func queryFromFlags(flags *pflag.FlagSet) (validate.GraphQuery, error) {
	values := url.Values{}
	for _, name := range filterFlags {
		if f := flags.Lookup(name); f != nil && f.Changed {
			values.Set(name, f.Value.String())
		}
	}
	return validate.New().Query(values)
}
