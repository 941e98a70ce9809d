package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/finsight/internal/models"
)

type fakeSource struct {
	name  string
	delay time.Duration
	quote *models.Quote
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	q := *f.quote
	q.Symbol = symbol
	return &q, nil
}

func validQuote(source string, price float64) *models.Quote {
	return &models.Quote{
		Price:     decimal.NewFromFloat(price),
		Timestamp: time.Now(),
		Source:    source,
	}
}

func TestResolveQuoteTotalFailureYieldsSynthetic(t *testing.T) {
	r := NewResolver([]QuoteSource{
		&fakeSource{name: "a", err: errors.New("down")},
		&fakeSource{name: "b", err: errors.New("down")},
		&fakeSource{name: "c", err: errors.New("down")},
	})

	q := r.ResolveQuote(context.Background(), "AAPL")
	require.NotNil(t, q)
	assert.True(t, q.Price.IsPositive(), "synthetic quote must have a positive price")
	assert.True(t, q.IsMock())
	assert.Equal(t, "AAPL", q.Symbol)
}

func TestSyntheticQuoteIsDeterministic(t *testing.T) {
	first := SyntheticQuote("TSLA")
	second := SyntheticQuote("TSLA")
	assert.True(t, first.Price.Equal(second.Price),
		"same symbol must yield the same synthetic price")

	other := SyntheticQuote("MSFT")
	assert.False(t, first.Price.Equal(other.Price),
		"different symbols should get different synthetic prices")
}

func TestResolvePrefersPriorityOverCompletionOrder(t *testing.T) {
	// Source a is higher priority but slower; it must still win.
	slow := &fakeSource{name: "a", delay: 60 * time.Millisecond, quote: validQuote("a", 101)}
	fast := &fakeSource{name: "b", quote: validQuote("b", 202)}

	r := NewResolver([]QuoteSource{slow, fast})
	q := r.ResolveQuote(context.Background(), "AAPL")

	assert.Equal(t, "a", q.Source)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(101)))
}

func TestResolveFallsThroughFailedSources(t *testing.T) {
	r := NewResolver([]QuoteSource{
		&fakeSource{name: "a", err: errors.New("rate limited")},
		&fakeSource{name: "b", quote: validQuote("b", 55)},
	})

	q := r.ResolveQuote(context.Background(), "NVDA")
	assert.Equal(t, "b", q.Source)
	assert.False(t, q.IsMock())
}

func TestResolveRetriesImplausiblePrice(t *testing.T) {
	// A source that reports success with a non-positive price exercises
	// the defensive retry before the synthetic fallback.
	bogus := &fakeSource{name: "a", quote: &models.Quote{Price: decimal.Zero, Source: "a"}}

	r := NewResolver([]QuoteSource{bogus}, WithRetryPolicy(3, time.Millisecond))
	q := r.ResolveQuote(context.Background(), "AAPL")

	assert.Equal(t, 3, bogus.calls)
	assert.True(t, q.IsMock())
	assert.True(t, q.Price.IsPositive())
}

func TestResolveTimesOutSlowSource(t *testing.T) {
	hung := &fakeSource{name: "a", delay: time.Second, quote: validQuote("a", 10)}
	r := NewResolver([]QuoteSource{hung}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	q := r.ResolveQuote(context.Background(), "AAPL")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, q.IsMock())
}
