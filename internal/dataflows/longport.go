package dataflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/models"
)

// LongportClient is an optional quote adapter backed by the Longport
// OpenAPI. It is only registered when all three credentials are present.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

// NewLongportClient creates a Longport-backed quote adapter.
func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if !cfg.HasLongport() {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(
		cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

// Name identifies the adapter in resolver priority lists and quote tags.
func (lpc *LongportClient) Name() string { return "longport" }

// FetchQuote derives a current quote from the two most recent daily
// candlesticks.
func (lpc *LongportClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("longport quote context is nil")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	sticks, err := lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, 2, quote.AdjustTypeNo)
	if err != nil {
		return nil, fmt.Errorf("failed to get longport candlesticks for %s: %w", symbol, err)
	}
	if len(sticks) == 0 {
		return nil, fmt.Errorf("no longport data for %s", symbol)
	}

	latest := sticks[len(sticks)-1]
	q := &models.Quote{
		Symbol:    symbol,
		Price:     *latest.Close,
		Volume:    latest.Volume,
		Timestamp: time.Unix(latest.Timestamp, 0),
		Source:    lpc.Name(),
	}

	if len(sticks) >= 2 {
		prev := sticks[len(sticks)-2]
		q.Change = latest.Close.Sub(*prev.Close)
		if prev.Close.IsPositive() {
			pct, _ := q.Change.Div(*prev.Close).Float64()
			q.ChangePercent = fmt.Sprintf("%.2f%%", pct*100)
		}
	}

	return q, nil
}
