package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/finsight-ai/finsight/internal/models"
)

// YahooFinanceClient fetches quotes and historical bars from Yahoo
// Finance. The finance-go API is not context-aware, so calls run in a
// goroutine and the adapter honors the context deadline itself.
type YahooFinanceClient struct{}

// NewYahooFinanceClient creates a Yahoo Finance client.
func NewYahooFinanceClient() *YahooFinanceClient {
	return &YahooFinanceClient{}
}

// Name identifies the adapter in resolver priority lists and quote tags.
func (yf *YahooFinanceClient) Name() string { return "yahoo" }

// FetchQuote returns the current quote for symbol.
func (yf *YahooFinanceClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	type outcome struct {
		quote *models.Quote
		err   error
	}
	ch := make(chan outcome, 1)

	go func() {
		q, err := quote.Get(symbol)
		if err != nil {
			ch <- outcome{err: fmt.Errorf("failed to get yahoo quote for %s: %w", symbol, err)}
			return
		}
		if q == nil {
			ch <- outcome{err: fmt.Errorf("no yahoo quote data for %s", symbol)}
			return
		}
		ch <- outcome{quote: &models.Quote{
			Symbol:        symbol,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			Change:        decimal.NewFromFloat(q.RegularMarketChange),
			ChangePercent: fmt.Sprintf("%.2f%%", q.RegularMarketChangePercent),
			Volume:        int64(q.RegularMarketVolume),
			Timestamp:     time.Now(),
			Source:        yf.Name(),
		}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		return out.quote, out.err
	}
}

// HistoricalCloses returns daily closing prices for the last `days`
// calendar days, oldest first.
func (yf *YahooFinanceClient) HistoricalCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	type outcome struct {
		closes []float64
		err    error
	}
	ch := make(chan outcome, 1)

	go func() {
		end := time.Now()
		start := end.AddDate(0, 0, -days)
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		var closes []float64
		for iter.Next() {
			c, _ := iter.Bar().Close.Float64()
			closes = append(closes, c)
		}
		if err := iter.Err(); err != nil {
			ch <- outcome{err: fmt.Errorf("failed to get yahoo history for %s: %w", symbol, err)}
			return
		}
		ch <- outcome{closes: closes}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		return out.closes, out.err
	}
}
