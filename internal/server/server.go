// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/orchestrator"
)

// Analyzer is the orchestration surface the HTTP layer depends on.
type Analyzer interface {
	AnalyzeSymbol(ctx context.Context, symbol string) (*models.AnalysisResult, error)
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// Server serves the JSON API.
type Server struct {
	analyzer Analyzer
	httpSrv  *http.Server
	log      *zap.SugaredLogger
}

func New(cfg *config.Config, analyzer Analyzer) *Server {
	s := &Server{
		analyzer: analyzer,
		log:      logging.Named("server"),
	}
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

type analyzeRequest struct {
	Symbol string `json:"symbol"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.analyzer.AnalyzeSymbol(r.Context(), req.Symbol)
	if err != nil {
		s.log.Errorw("analysis failed", "symbol", req.Symbol, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeData(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	matches, err := s.analyzer.SearchSymbols(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeData(w, http.StatusOK, matches)
}

// statusFor maps caller mistakes to 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrMissingSymbol),
		errors.Is(err, orchestrator.ErrInvalidSymbol),
		errors.Is(err, orchestrator.ErrShortQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"status": "success", "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": "error", "message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Named("server").Errorw("response encode failed", "error", err)
	}
}
