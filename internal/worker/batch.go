package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/bookrel/internal/pipeline"
)

// Ingester builds the graph of a book at a URL
type Ingester interface {
	IngestURL(ctx context.Context, bookID int64, url string) (*pipeline.Result, error)
}

// Book is one entry of a batch list
type Book struct {
	ID  int64
	URL string
}

// BookResult is the outcome of one batch ingestion
type BookResult struct {
	Book     Book
	Result   *pipeline.Result
	Path     string // Rendered graph file, empty when not written
	Duration time.Duration
	Error    error
}

// BatchProcessor ingests many books concurrently. A failing book does not
// stop the others.
type BatchProcessor struct {
	ingester    Ingester
	concurrency int
	renderer    *pipeline.Renderer
	outputDir   string
	timeout     time.Duration
	logger      *log.Logger
}

// NewBatchProcessor creates a new batch processor. Graphs are written to
// outputDir when it is not empty; timeout bounds each book when positive.
func NewBatchProcessor(ingester Ingester, concurrency int, renderer *pipeline.Renderer, outputDir string, timeout time.Duration, logger *log.Logger) *BatchProcessor {
	return &BatchProcessor{
		ingester:    ingester,
		concurrency: concurrency,
		renderer:    renderer,
		outputDir:   outputDir,
		timeout:     timeout,
		logger:      logger,
	}
}

// OutputPath returns the graph file of a book inside dir
func OutputPath(dir string, bookID int64) string {
	return filepath.Join(dir, fmt.Sprintf("book-%d.json", bookID))
}

// ProcessBooks ingests books concurrently; results follow the input order
func (b *BatchProcessor) ProcessBooks(ctx context.Context, books []Book) []*BookResult {
	if len(books) == 0 {
		return []*BookResult{}
	}

	pool := NewPool[*BookResult](ctx, b.concurrency)
	pool.Start()

	for _, book := range books {
		job := JobFunc[*BookResult](func(ctx context.Context) *BookResult {
			return b.process(ctx, book)
		})
		if !pool.Submit(job) {
			break
		}
	}

	done := pool.Wait()

	// Books dropped by cancellation report the context error
	results := make([]*BookResult, len(books))
	for i, book := range books {
		if i < len(done) && done[i] != nil {
			results[i] = done[i]
			continue
		}
		results[i] = &BookResult{Book: book, Error: ctx.Err()}
	}
	return results
}

// ProcessFile reads a book list and ingests it
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BookResult, error) {
	books, err := ReadBookList(filePath)
	if err != nil {
		return nil, fmt.Errorf("read book list: %w", err)
	}

	return b.ProcessBooks(ctx, books), nil
}

func (b *BatchProcessor) process(ctx context.Context, book Book) *BookResult {
	start := time.Now()
	out := &BookResult{Book: book}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	result, err := b.ingester.IngestURL(ctx, book.ID, book.URL)
	out.Duration = time.Since(start)
	if err != nil {
		out.Error = err
		b.logger.Error("ingest failed", "book", book.ID, "url", book.URL, "err", err)
		return out
	}
	out.Result = result

	if b.outputDir != "" && b.renderer != nil {
		path := OutputPath(b.outputDir, book.ID)
		if err := b.renderer.RenderJSON(result.Graph, path); err != nil {
			out.Error = fmt.Errorf("render book %d: %w", book.ID, err)
			return out
		}
		out.Path = path
	}

	b.logger.Info("ingested", "book", book.ID, "nodes", len(result.Graph.Nodes), "edges", len(result.Graph.Edges), "took", out.Duration.Round(time.Millisecond))
	return out
}

// ReadBookList reads a batch file. Each line is "bookId url" or just "url".
// Blank lines and # comments are skipped, repeated URLs are ingested once.
// Entries without an id are numbered by their position in the list, moving
// to the next free number when another line claims that id. Two lines
// naming the same id for different URLs are an error.
func ReadBookList(filePath string) ([]Book, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var (
		books    []Book
		explicit []bool
	)
	seen := make(map[string]bool)
	taken := make(map[int64]int) // id -> claiming line, -1 for positional ids
	lineNo := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		book, hasID, err := parseBookLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if seen[book.URL] {
			continue
		}
		if hasID {
			if prev, dup := taken[book.ID]; dup {
				return nil, fmt.Errorf("line %d: book id %d already used on line %d", lineNo, book.ID, prev)
			}
			taken[book.ID] = lineNo
		}

		seen[book.URL] = true
		books = append(books, book)
		explicit = append(explicit, hasID)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	for i := range books {
		if explicit[i] {
			continue
		}
		id := int64(i + 1)
		for taken[id] != 0 {
			id++
		}
		taken[id] = -1
		books[i].ID = id
	}

	return books, nil
}

// parseBookLine reports whether the line carried its own id
func parseBookLine(line string) (Book, bool, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		return Book{URL: fields[0]}, false, nil
	case 2:
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || id <= 0 {
			return Book{}, false, fmt.Errorf("invalid book id %q", fields[0])
		}
		return Book{ID: id, URL: fields[1]}, true, nil
	default:
		return Book{}, false, fmt.Errorf("expected \"bookId url\" or \"url\", got %q", line)
	}
}
