// Package agents holds the specialized workers dispatched by the task
// manager: price, financial, news, sentiment, plus the manager and report
// agents that bracket them.
package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// QuoteResolver resolves a quote for a symbol. It always returns a usable
// quote; degraded synthetic data carries a mock source tag.
type QuoteResolver interface {
	ResolveQuote(ctx context.Context, symbol string) *models.Quote
}

// IndicatorResolver attaches technical indicators to a resolved quote.
type IndicatorResolver interface {
	Resolve(ctx context.Context, symbol string, quote *models.Quote) models.TechnicalIndicators
}

// PriceAgent fetches current price data and technical indicators. It never
// returns an error result for upstream failures: when every provider is
// down the result degrades to synthetic data instead.
type PriceAgent struct {
	resolver   QuoteResolver
	indicators IndicatorResolver
	log        *zap.SugaredLogger
}

func NewPriceAgent(resolver QuoteResolver, indicators IndicatorResolver) *PriceAgent {
	return &PriceAgent{
		resolver:   resolver,
		indicators: indicators,
		log:        logging.Named("price_agent"),
	}
}

func (a *PriceAgent) Name() string { return "price_agent" }

func (a *PriceAgent) Description() string {
	return "Fetches real-time stock price data and technical indicators"
}

func (a *PriceAgent) ProcessTask(ctx context.Context, payload core.Payload) core.AgentResult {
	symbol := payload.String("stock_symbol")
	if symbol == "" {
		return core.Errorf(a.Name(), "stock_symbol not provided")
	}

	quote := a.resolver.ResolveQuote(ctx, symbol)
	indicators := a.indicators.Resolve(ctx, symbol, quote)

	data := &models.PriceData{Quote: *quote, Indicators: indicators}

	message := fmt.Sprintf("Price data fetched for %s", symbol)
	if quote.IsMock() {
		a.log.Warnw("all price providers unavailable, using synthetic data", "symbol", symbol)
		message = fmt.Sprintf("Price data synthesized for %s (providers unavailable)", symbol)
	}

	return core.Success(a.Name(), map[string]any{"price_data": data}, message)
}
