package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finsight-ai/finsight/internal/models"
)

func TestHTMLToTextStripsMarkup(t *testing.T) {
	html := `<div><h1>AAPL Analysis</h1><p>Strong buy &amp; hold.</p><ul><li>PE: 28</li></ul></div>`

	text := htmlToText(html)
	assert.Contains(t, text, "AAPL Analysis")
	assert.Contains(t, text, "Strong buy & hold.")
	assert.Contains(t, text, "PE: 28")
	assert.NotContains(t, text, "<")
}

func TestRenderResultIncludesHeaderAndReport(t *testing.T) {
	result := &models.AnalysisResult{
		RequestID:   "req-1",
		Symbol:      "AAPL",
		CompanyName: "Apple Inc",
		Timestamp:   time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		Report:      &models.Report{HTMLContent: "<p>Buy.</p>"},
	}

	out := RenderResult(result)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "Apple Inc")
	assert.Contains(t, out, "Buy.")
}

func TestRenderMatches(t *testing.T) {
	out := RenderMatches([]models.SymbolMatch{
		{Symbol: "AAPL", Name: "Apple Inc.", Region: "United States"},
	})
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "Apple Inc.")

	assert.Contains(t, RenderMatches(nil), "No matches")
}
