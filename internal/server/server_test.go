package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/orchestrator"
)

type stubAnalyzer struct {
	result     *models.AnalysisResult
	analyzeErr error
	matches    []models.SymbolMatch
	searchErr  error
}

func (s *stubAnalyzer) AnalyzeSymbol(ctx context.Context, symbol string) (*models.AnalysisResult, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.result, nil
}

func (s *stubAnalyzer) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.matches, nil
}

func newTestServer(analyzer Analyzer) http.Handler {
	return New(config.DefaultConfig(), analyzer).Handler()
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestAnalyzeReturnsReport(t *testing.T) {
	analyzer := &stubAnalyzer{result: &models.AnalysisResult{
		RequestID:   "req-1",
		Symbol:      "AAPL",
		CompanyName: "Apple Inc",
		Timestamp:   time.Now(),
		Report:      &models.Report{Symbol: "AAPL", HTMLContent: "<div>report</div>"},
	}}
	h := newTestServer(analyzer)

	code, env := doRequest(t, h, http.MethodPost, "/api/analyze", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Contains(t, result.Report.HTMLContent, "report")
}

func TestAnalyzeMissingSymbolIsBadRequest(t *testing.T) {
	h := newTestServer(&stubAnalyzer{analyzeErr: core.ErrMissingSymbol})

	code, env := doRequest(t, h, http.MethodPost, "/api/analyze", `{"symbol":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
}

func TestAnalyzeInvalidBodyIsBadRequest(t *testing.T) {
	h := newTestServer(&stubAnalyzer{})

	code, env := doRequest(t, h, http.MethodPost, "/api/analyze", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
}

func TestAnalyzePlanningFailureIsServerError(t *testing.T) {
	h := newTestServer(&stubAnalyzer{
		analyzeErr: &core.PlanningError{Err: context.DeadlineExceeded},
	})

	code, env := doRequest(t, h, http.MethodPost, "/api/analyze", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, env.Message, "planning failed")
}

func TestSearchReturnsMatches(t *testing.T) {
	h := newTestServer(&stubAnalyzer{matches: []models.SymbolMatch{
		{Symbol: "AAPL", Name: "Apple Inc.", Type: "Common Stock", Region: "United States"},
	}})

	code, env := doRequest(t, h, http.MethodGet, "/api/search?q=apple", "")
	assert.Equal(t, http.StatusOK, code)

	var matches []models.SymbolMatch
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "AAPL", matches[0].Symbol)
}

func TestSearchShortQueryIsBadRequest(t *testing.T) {
	h := newTestServer(&stubAnalyzer{searchErr: orchestrator.ErrShortQuery})

	code, env := doRequest(t, h, http.MethodGet, "/api/search?q=a", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
}
