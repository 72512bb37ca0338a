package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/bookrel/internal/model"
	"github.com/ppiankov/bookrel/internal/ner"
	"github.com/ppiankov/bookrel/internal/util"
)

// recordingRecognizer runs the rule recognizer and records every input
type recordingRecognizer struct {
	inner ner.Recognizer
	err   error

	mu     sync.Mutex
	inputs []string
}

func newRecordingRecognizer(t *testing.T) *recordingRecognizer {
	t.Helper()
	g, err := ner.DefaultGazetteer()
	if err != nil {
		t.Fatalf("DefaultGazetteer() error: %v", err)
	}
	return &recordingRecognizer{inner: ner.NewRuleRecognizer(g)}
}

func (r *recordingRecognizer) Name() string { return "recording" }

func (r *recordingRecognizer) Analyze(ctx context.Context, text string) (*ner.Document, error) {
	r.mu.Lock()
	r.inputs = append(r.inputs, text)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.inner.Analyze(ctx, text)
}

func newTestPipeline(t *testing.T, rec ner.Recognizer, mutate func(*model.Config)) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	if mutate != nil {
		mutate(cfg)
	}
	fetcher := NewFetcher(cfg.HTTP.Timeout, "test-agent", cfg.HTTP.MaxBodyBytes, false, "", "", "")
	return NewPipeline(cfg, rec, fetcher, util.Discard())
}

func nodeNames(g *model.Graph) []string {
	var names []string
	for _, n := range g.Nodes {
		names = append(names, n.Name)
	}
	return names
}

func edgeNames(g *model.Graph) []string {
	names := g.NodeNames()
	var out []string
	for _, e := range g.Edges {
		out = append(out, fmt.Sprintf("%s|%s", names[e.Src], names[e.Dst]))
	}
	return out
}

func TestIngestText_DarcyJane(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	res, err := p.IngestText(context.Background(), 1, "CHAPTER I\nMr. Darcy loved Jane. Darcy smiled.")
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}

	if got := nodeNames(res.Graph); !reflect.DeepEqual(got, []string{"Jane", "Mr. Darcy"}) {
		t.Errorf("nodes = %q", got)
	}
	if len(res.Graph.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(res.Graph.Edges))
	}
	e := res.Graph.Edges[0]
	if e.Weight != 1.0 || e.FromChapter != 1 || e.ToChapter != 1 || e.Type != model.RelationCoOccur {
		t.Errorf("edge = %+v", e)
	}
	if got := edgeNames(res.Graph); got[0] != "Jane|Mr. Darcy" {
		t.Errorf("edge names = %q", got)
	}
	if res.Chapters != 1 || res.HasPrologue {
		t.Errorf("chapters = %d, prologue = %v", res.Chapters, res.HasPrologue)
	}
}

func TestIngestText_AmbiguousSurnameNotMerged(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	res, err := p.IngestText(context.Background(), 1, "John Smith met Mary Smith. Smith laughed with Jane.")
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}

	want := []string{"Jane", "John Smith", "Mary Smith", "Smith"}
	if got := nodeNames(res.Graph); !reflect.DeepEqual(got, want) {
		t.Errorf("nodes = %q, want %q", got, want)
	}
	if got := edgeNames(res.Graph); !reflect.DeepEqual(got, []string{"Jane|Smith", "John Smith|Mary Smith"}) {
		t.Errorf("edges = %q", got)
	}
}

func TestIngestText_EmptyDocument(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	for _, text := range []string{"", "   \n\n  "} {
		res, err := p.IngestText(context.Background(), 1, text)
		if err != nil {
			t.Fatalf("IngestText(%q) error: %v", text, err)
		}
		if len(res.Graph.Nodes) != 0 || len(res.Graph.Edges) != 0 {
			t.Errorf("IngestText(%q) = %+v, want empty graph", text, res.Graph)
		}
		if res.Graph.Nodes == nil || res.Graph.Edges == nil {
			t.Error("expected non-nil empty lists")
		}
		if res.Chapters != 1 {
			t.Errorf("chapters = %d, want 1", res.Chapters)
		}
	}
}

func TestIngestText_Idempotent(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)
	text := "CHAPTER I\nJane met Bingley. Elizabeth walked with Jane.\n\nCHAPTER II\nBingley danced with Jane."

	first, err := p.IngestText(context.Background(), 7, text)
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}
	second, err := p.IngestText(context.Background(), 7, text)
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}

	if !reflect.DeepEqual(first.Graph, second.Graph) {
		t.Errorf("graphs differ:\n%+v\n%+v", first.Graph, second.Graph)
	}
}

func TestIngestText_WeightsAndChapterRanges(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)
	text := "CHAPTER I\nJane met Bingley.\n\nCHAPTER II\nJane met Bingley. Elizabeth saw Jane.\n\nCHAPTER III\nNothing happened."

	res, err := p.IngestText(context.Background(), 1, text)
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}

	for _, e := range res.Graph.Edges {
		if e.Weight < 0 || e.Weight > 1 {
			t.Errorf("weight %v out of range", e.Weight)
		}
		if e.FromChapter < 1 || e.FromChapter > e.ToChapter || e.ToChapter > res.Chapters {
			t.Errorf("bad chapter range %d..%d", e.FromChapter, e.ToChapter)
		}
	}

	names := res.Graph.NodeNames()
	byPair := make(map[string]model.Edge)
	for _, e := range res.Graph.Edges {
		byPair[names[e.Src]+"|"+names[e.Dst]] = e
	}
	if e := byPair["Bingley|Jane"]; e.Weight != 1 || e.FromChapter != 1 || e.ToChapter != 2 {
		t.Errorf("Bingley|Jane = %+v", e)
	}
	if e := byPair["Elizabeth|Jane"]; e.Weight != 0.5 || e.FromChapter != 2 || e.ToChapter != 2 {
		t.Errorf("Elizabeth|Jane = %+v", e)
	}
}

func TestIngestText_PrologueIsChapterOne(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	res, err := p.IngestText(context.Background(), 1, "Jane met Bingley.\n\nCHAPTER I\nJane met Bingley again.")
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}
	if !res.HasPrologue || res.Chapters != 2 {
		t.Fatalf("chapters = %d, prologue = %v", res.Chapters, res.HasPrologue)
	}
	if e := res.Graph.Edges[0]; e.FromChapter != 1 || e.ToChapter != 2 {
		t.Errorf("edge = %+v", e)
	}
}

func TestIngestText_HeadingLabelDropped(t *testing.T) {
	rec := newRecordingRecognizer(t)
	p := newTestPipeline(t, rec, nil)

	if _, err := p.IngestText(context.Background(), 1, "CHAPTER IV. Lady Catherine\nJane smiled."); err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}
	for _, in := range rec.inputs {
		if strings.Contains(in, "CHAPTER") {
			t.Errorf("recognizer saw chapter label: %q", in)
		}
		if !strings.Contains(in, "Lady Catherine") {
			t.Errorf("recognizer did not see the chapter title: %q", in)
		}
	}
}

func TestIngestText_NamesOnHeadingLine(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	res, err := p.IngestText(context.Background(), 1, "Chapter 1 Elizabeth met Darcy at the ball.\nThen Jane and Bingley danced.")
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}

	got := edgeNames(res.Graph)
	for _, want := range []string{"Bingley|Jane", "Darcy|Elizabeth"} {
		if !slices.Contains(got, want) {
			t.Errorf("edges = %q, missing %s", got, want)
		}
	}
	if len(got) != 2 {
		t.Errorf("edges = %q, want 2 (no pair across sentences)", got)
	}
}

func TestIngestText_ReuseAnalysis(t *testing.T) {
	text := "CHAPTER I\nJane met Bingley.\n\nCHAPTER II\nJane met Bingley."

	for _, tt := range []struct {
		reuse bool
		calls int
	}{
		{true, 2},
		{false, 4},
	} {
		rec := newRecordingRecognizer(t)
		p := newTestPipeline(t, rec, func(c *model.Config) { c.Recognizer.ReuseAnalysis = tt.reuse })

		res, err := p.IngestText(context.Background(), 1, text)
		if err != nil {
			t.Fatalf("IngestText() error: %v", err)
		}
		if len(rec.inputs) != tt.calls {
			t.Errorf("reuse=%v: %d recognizer calls, want %d", tt.reuse, len(rec.inputs), tt.calls)
		}
		if len(res.Graph.Edges) != 1 {
			t.Errorf("reuse=%v: got %d edges", tt.reuse, len(res.Graph.Edges))
		}
	}
}

func TestIngestText_RecognizerErrorPropagates(t *testing.T) {
	rec := newRecordingRecognizer(t)
	rec.err = errors.New("model crashed")
	p := newTestPipeline(t, rec, nil)

	_, err := p.IngestText(context.Background(), 1, "Jane met Bingley.")
	if !errors.Is(err, rec.err) {
		t.Fatalf("expected recognizer error, got %v", err)
	}
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		t.Error("recognizer failure must not be a SourceError")
	}
}

func TestIngestText_Boilerplate(t *testing.T) {
	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	withMarkers := "Produced by Holmes Watson.\n*** START OF THE PROJECT GUTENBERG EBOOK ***\nJane met Bingley.\n*** END OF THE PROJECT GUTENBERG EBOOK ***\nHolmes Watson signed."
	res, err := p.IngestText(context.Background(), 1, withMarkers)
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}
	if got := nodeNames(res.Graph); !reflect.DeepEqual(got, []string{"Bingley", "Jane"}) {
		t.Errorf("nodes = %q", got)
	}

	// Only a start marker: the text is used as-is
	startOnly := "Holmes met Watson.\n*** START OF THE PROJECT GUTENBERG EBOOK ***\nJane met Bingley."
	res, err = p.IngestText(context.Background(), 1, startOnly)
	if err != nil {
		t.Fatalf("IngestText() error: %v", err)
	}
	if len(res.Graph.Edges) != 2 {
		t.Errorf("got %d edges, want 2", len(res.Graph.Edges))
	}
}

func TestIngestURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1342.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, "Header text.\n*** START OF THE PROJECT GUTENBERG EBOOK ***\nCHAPTER I\nMr. Darcy loved Jane. Darcy smiled.\n*** END OF THE PROJECT GUTENBERG EBOOK ***\nFooter by Holmes.")
	}))
	defer server.Close()

	p := newTestPipeline(t, newRecordingRecognizer(t), nil)

	res, err := p.IngestURL(context.Background(), 1342, server.URL+"/1342.txt")
	if err != nil {
		t.Fatalf("IngestURL() error: %v", err)
	}
	if got := nodeNames(res.Graph); !reflect.DeepEqual(got, []string{"Jane", "Mr. Darcy"}) {
		t.Errorf("nodes = %q", got)
	}
	if res.BookID != 1342 {
		t.Errorf("BookID = %d", res.BookID)
	}

	_, err = p.IngestURL(context.Background(), 1, server.URL+"/missing.txt")
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Errorf("expected wrapped StatusError, got %v", err)
	}
}

func TestIngestURL_OversizedSource(t *testing.T) {
	book := "CHAPTER I\nJohn Smith met Anne Brown.\n\nCHAPTER II\nAnne Brown met Walter Scott.\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, book)
	}))
	defer server.Close()

	p := newTestPipeline(t, newRecordingRecognizer(t), func(c *model.Config) { c.HTTP.MaxBodyBytes = 40 })

	res, err := p.IngestURL(context.Background(), 1, server.URL)
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected SourceError wrapping ErrTooLarge, got %v (result %+v)", err, res)
	}

	p = newTestPipeline(t, newRecordingRecognizer(t), func(c *model.Config) { c.HTTP.MaxBodyBytes = 0 })
	res, err = p.IngestURL(context.Background(), 1, server.URL)
	if err != nil {
		t.Fatalf("IngestURL() without limit error: %v", err)
	}
	if res.Chapters != 2 || len(res.Graph.Edges) != 2 {
		t.Errorf("chapters = %d, edges = %q", res.Chapters, edgeNames(res.Graph))
	}
}
