// Package http exposes the scoring API plus health, readiness, and metrics
// endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/scoring"
)

// Scorer runs one scoring session per submission.
type Scorer interface {
	Score(ctx context.Context, sub domain.Submission) (*scoring.Result, error)
}

// Server exposes the scoring endpoint alongside health, readiness, and
// metrics routes.
type Server struct {
	httpServer *http.Server
	scorer     Scorer
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/score, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, scorer Scorer, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scorer:   scorer,
		validate: validator.New(),
		logger:   logger,
	}

	mux.HandleFunc("POST /v1/score", s.handleScore)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("malformed request body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	result, err := s.scorer.Score(r.Context(), req.toSubmission())
	if err != nil {
		s.writeScoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newScoreResponse(result))
}

// writeScoreError maps pipeline error kinds to HTTP statuses. Persistence
// failures never reach here: they ride along as warnings on a 200.
func (s *Server) writeScoreError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrUnknownLocation):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrIncompleteInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWeatherUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrModelUnavailable):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
		s.logger.Error("scoring failed", "error", err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
