// Package server exposes the highlighting pipeline over HTTP. It owns
// request-shape dispatch and validation; the core pipeline only ever sees
// well-typed (question, context) strings.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"yashubustudio/highlighter/highlighter"
)

// Highlighter is the single contractual surface the harness depends on.
type Highlighter interface {
	Highlight(ctx context.Context, question, passage string) ([]highlighter.Highlight, error)
}

// Server dispatches envelope requests to the pipeline.
type Server struct {
	svc     Highlighter
	logger  *zap.Logger
	maxBody int64
}

// New builds a server around the given pipeline.
func New(svc Highlighter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, logger: logger, maxBody: 8 << 20}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /highlight", s.handleHighlight)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}
	req, err := parseRequest(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := make([][]highlighter.Highlight, len(req.pairs))
	for i, p := range req.pairs {
		hl, err := s.svc.Highlight(r.Context(), p.Question, p.Context)
		if err != nil {
			s.logger.Error("highlight failed",
				zap.Int("item", i),
				zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "highlighting failed")
			return
		}
		results[i] = hl
	}

	// Mirror the nesting of the input: a single pair yields one highlight
	// list, every batch shape yields a list of lists.
	var payload any
	if req.kind == kindSingle {
		payload = map[string]any{"highlights": results[0]}
	} else {
		payload = map[string]any{"highlights": results}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", zap.Error(err))
		return
	}
	s.logger.Info("served highlight request",
		zap.Int("items", len(req.pairs)),
		zap.Duration("took", time.Since(start)))
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
