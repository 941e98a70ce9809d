package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// FundamentalsProvider supplies company fundamentals for the financial
// agent.
type FundamentalsProvider interface {
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	GetFinancialMetrics(ctx context.Context, symbol string) (*models.FinancialMetrics, error)
	GetRecentEarnings(ctx context.Context, symbol string) ([]models.EarningsQuarter, error)
}

// FinancialAgent analyzes financial metrics and company fundamentals.
type FinancialAgent struct {
	provider FundamentalsProvider
	log      *zap.SugaredLogger
}

func NewFinancialAgent(provider FundamentalsProvider) *FinancialAgent {
	return &FinancialAgent{provider: provider, log: logging.Named("financial_agent")}
}

func (a *FinancialAgent) Name() string { return "financial_agent" }

func (a *FinancialAgent) Description() string {
	return "Analyzes financial metrics and company fundamentals"
}

func (a *FinancialAgent) ProcessTask(ctx context.Context, payload core.Payload) core.AgentResult {
	symbol := payload.String("stock_symbol")
	if symbol == "" {
		return core.Errorf(a.Name(), "stock_symbol not provided")
	}

	profile, err := a.provider.GetCompanyProfile(ctx, symbol)
	if err != nil {
		a.log.Errorw("company profile fetch failed", "symbol", symbol, "error", err)
		return core.Errorf(a.Name(), fmt.Sprintf("Failed to analyze financial data: %v", err))
	}

	// Metrics and earnings are best-effort: a profile alone is still a
	// usable report section.
	metrics, err := a.provider.GetFinancialMetrics(ctx, symbol)
	if err != nil {
		a.log.Warnw("financial metrics fetch failed", "symbol", symbol, "error", err)
		metrics = &models.FinancialMetrics{}
	}

	earnings, err := a.provider.GetRecentEarnings(ctx, symbol)
	if err != nil {
		a.log.Warnw("earnings fetch failed", "symbol", symbol, "error", err)
		earnings = nil
	}

	data := &models.FinancialData{
		Symbol:         symbol,
		Profile:        *profile,
		Metrics:        *metrics,
		RecentEarnings: earnings,
	}

	return core.Success(a.Name(), map[string]any{"financial_data": data},
		fmt.Sprintf("Financial data analyzed for %s", symbol))
}
