package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ppiankov/bookrel/internal/graph"
	"github.com/ppiankov/bookrel/internal/pipeline"
	"github.com/ppiankov/bookrel/internal/validate"
)

// errBodyTooLarge marks a request body over server.max_body_bytes
var errBodyTooLarge = errors.New("request body too large")

func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req validate.IngestURLRequest
	if !s.decode(w, r, &req) {
		return
	}
	q, ok := s.query(w, r)
	if !ok {
		return
	}

	res, err := s.ingester.IngestURL(r.Context(), *req.BookID, req.URL)
	s.respond(w, res, q, err)
}

func (s *Server) handleIngestText(w http.ResponseWriter, r *http.Request) {
	var req validate.IngestTextRequest
	if !s.decode(w, r, &req) {
		return
	}
	q, ok := s.query(w, r)
	if !ok {
		return
	}

	res, err := s.ingester.IngestText(r.Context(), *req.BookID, *req.Text)
	s.respond(w, res, q, err)
}

// decode reads and validates a JSON body, writing the error response itself
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("%v (limit %d bytes)", errBodyTooLarge, maxErr.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	if err := s.validator.Struct(dst); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) (validate.GraphQuery, bool) {
	q, err := s.validator.Query(r.URL.Query())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return q, false
	}
	return q, true
}

// respond maps ingestion errors to status codes and writes the graph
func (s *Server) respond(w http.ResponseWriter, res *pipeline.Result, q validate.GraphQuery, err error) {
	if err != nil {
		var srcErr *pipeline.SourceError
		if errors.As(err, &srcErr) {
			jsonError(w, err.Error(), http.StatusBadGateway)
			return
		}
		s.log.Error("ingest failed", "err", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	opts, err := q.Options(res.Chapters)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	g := res.Graph
	if opts.Active() {
		g = graph.Filter(g, opts)
	}

	var buf bytes.Buffer
	if err := s.renderer.Encode(&buf, g); err != nil {
		jsonError(w, "encode graph: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Chapter-Count", strconv.Itoa(res.Chapters))
	_, _ = w.Write(buf.Bytes())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
