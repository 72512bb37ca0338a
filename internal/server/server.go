package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/bookrel/internal/model"
	"github.com/ppiankov/bookrel/internal/pipeline"
	"github.com/ppiankov/bookrel/internal/validate"
)

// Ingester builds graphs for the ingest routes
type Ingester interface {
	IngestURL(ctx context.Context, bookID int64, url string) (*pipeline.Result, error)
	IngestText(ctx context.Context, bookID int64, text string) (*pipeline.Result, error)
}

// Server is the HTTP front end of bookrel
type Server struct {
	router    chi.Router
	ingester  Ingester
	validator *validate.Validator
	renderer  *pipeline.Renderer
	log       *log.Logger
	cfg       model.ServerConfig
}

// NewServer creates and configures the HTTP server
func NewServer(ingester Ingester, logger *log.Logger, cfg model.ServerConfig, renderer *pipeline.Renderer) *Server {
	s := &Server{
		ingester:  ingester,
		validator: validate.New(),
		renderer:  renderer,
		log:       logger,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server for the configured address and timeouts
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/ingest", func(r chi.Router) {
		r.Post("/url", s.handleIngestURL)
		r.Post("/text", s.handleIngestText)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
