package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/bookrel/internal/extract"
	"github.com/ppiankov/bookrel/internal/graph"
	"github.com/ppiankov/bookrel/internal/model"
	"github.com/ppiankov/bookrel/internal/ner"
)

// SourceError wraps any failure to acquire a book source, so callers can tell
// it apart from recognizer failures
type SourceError struct {
	URL string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Pipeline orchestrates one book ingestion: strip, segment, recognize,
// resolve aliases, aggregate and assemble
type Pipeline struct {
	fetcher    *Fetcher
	stripper   *extract.Stripper
	recognizer ner.Recognizer
	config     *model.Config
	logger     *log.Logger
}

// NewPipeline creates a new pipeline. fetcher may be nil when only text is
// ingested.
func NewPipeline(cfg *model.Config, recognizer ner.Recognizer, fetcher *Fetcher, logger *log.Logger) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		stripper:   extract.NewStripper(cfg.Book.StartMarkers, cfg.Book.EndMarkers),
		recognizer: recognizer,
		config:     cfg,
		logger:     logger,
	}
}

// Result is the outcome of one ingestion
type Result struct {
	BookID      int64
	Chapters    int
	HasPrologue bool
	Graph       *model.Graph
}

// IngestURL fetches a book, strips its boilerplate and builds the graph
func (p *Pipeline) IngestURL(ctx context.Context, bookID int64, rawURL string) (*Result, error) {
	if p.fetcher == nil {
		return nil, &SourceError{URL: rawURL, Err: errors.New("no fetcher configured")}
	}

	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, &SourceError{URL: rawURL, Err: err}
	}
	p.logger.Debug("fetched source", "book", bookID, "url", fetched.FinalURL, "bytes", len(fetched.Text), "cached", fetched.Meta.FromCache)

	return p.Build(ctx, bookID, p.stripper.Strip(fetched.Text))
}

// IngestText builds the graph of a supplied text. Boilerplate is stripped
// only when both a start and an end marker are present.
func (p *Pipeline) IngestText(ctx context.Context, bookID int64, text string) (*Result, error) {
	body := text
	if p.stripper.HasMarkers(text) {
		body = p.stripper.Strip(text)
	}
	return p.Build(ctx, bookID, body)
}

// Build segments a stripped book body and assembles its co-occurrence graph.
// Pass 1 harvests person mentions of every chapter for alias resolution;
// pass 2 aggregates chapter by chapter with the finished alias map.
func (p *Pipeline) Build(ctx context.Context, bookID int64, body string) (*Result, error) {
	chapters := extract.SplitChapters(body)
	reuse := p.config.Recognizer.ReuseAnalysis

	docs := make([]*ner.Document, chapters.Len())
	var mentions []string
	for i, text := range chapters.Texts {
		doc, err := p.analyze(ctx, i, text)
		if err != nil {
			return nil, err
		}
		mentions = append(mentions, graph.PersonNames(doc)...)
		if reuse {
			docs[i] = doc
		}
	}

	aliases := graph.ResolveAliases(mentions)
	p.logger.Debug("resolved aliases", "book", bookID, "chapters", chapters.Len(), "mentions", len(mentions), "aliases", len(aliases))

	counts := make([]graph.ChapterCounts, 0, chapters.Len())
	for i, text := range chapters.Texts {
		doc := docs[i]
		if doc == nil {
			var err error
			if doc, err = p.analyze(ctx, i, text); err != nil {
				return nil, err
			}
		}
		counts = append(counts, graph.AggregateChapter(doc, aliases))
	}

	ids, err := graph.NewIDGenerator(p.config.Graph.IDScheme, bookID)
	if err != nil {
		return nil, err
	}
	g, err := graph.NewAssembler(ids).Assemble(counts)
	if err != nil {
		return nil, fmt.Errorf("assemble graph: %w", err)
	}

	p.logger.Info("built graph", "book", bookID, "chapters", chapters.Len(), "nodes", len(g.Nodes), "edges", len(g.Edges))

	return &Result{
		BookID:      bookID,
		Chapters:    chapters.Len(),
		HasPrologue: chapters.HasPrologue,
		Graph:       g,
	}, nil
}

// analyze runs the recognizer on a chapter body, heading excluded
func (p *Pipeline) analyze(ctx context.Context, index int, chapter string) (*ner.Document, error) {
	doc, err := p.recognizer.Analyze(ctx, extract.Body(chapter))
	if err != nil {
		return nil, fmt.Errorf("analyze chapter %d: %w", index+1, err)
	}
	return doc, nil
}
