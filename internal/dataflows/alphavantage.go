package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/models"
)

// AlphaVantageClient wraps the Alpha Vantage REST API.
type AlphaVantageClient struct {
	client *resty.Client
	apiKey string
	retry  *RetryConfig
}

// NewAlphaVantageClient creates a client with the shared adapter timeout.
func NewAlphaVantageClient(cfg *config.Config) *AlphaVantageClient {
	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(cfg.AdapterTimeout)

	return &AlphaVantageClient{
		client: client,
		apiKey: cfg.AlphaVantageAPIKey,
		retry:  DefaultRetryConfig(),
	}
}

// Name identifies the adapter in resolver priority lists and quote tags.
func (av *AlphaVantageClient) Name() string { return "alphavantage" }

func (av *AlphaVantageClient) query(ctx context.Context, params map[string]string, out any) error {
	if av.apiKey == "" {
		return fmt.Errorf("alpha vantage API key not configured")
	}

	params["apikey"] = av.apiKey
	resp, err := av.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/query")
	if err != nil {
		return fmt.Errorf("alpha vantage request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("alpha vantage API error %d: %s", resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse alpha vantage response: %w", err)
	}
	return nil
}

// FetchQuote returns the current quote for symbol. Quote fetches are
// single-shot: the resolver retries across sources itself.
func (av *AlphaVantageClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	err := av.query(ctx, map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if len(payload.GlobalQuote) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	price, err := decimal.NewFromString(payload.GlobalQuote["05. price"])
	if err != nil {
		return nil, fmt.Errorf("malformed price for %s: %w", symbol, err)
	}
	change, _ := decimal.NewFromString(payload.GlobalQuote["09. change"])
	volume, _ := strconv.ParseInt(payload.GlobalQuote["06. volume"], 10, 64)

	changePercent := payload.GlobalQuote["10. change percent"]
	if changePercent == "" {
		changePercent = "0%"
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        volume,
		Timestamp:     time.Now(),
		Source:        av.Name(),
	}, nil
}

// IsSymbolValid checks whether Alpha Vantage knows the symbol.
func (av *AlphaVantageClient) IsSymbolValid(ctx context.Context, symbol string) (bool, error) {
	q, err := av.FetchQuote(ctx, symbol)
	if err != nil {
		return false, err
	}
	return q.Valid(), nil
}

// CompanyName returns the registered company name for symbol.
func (av *AlphaVantageClient) CompanyName(ctx context.Context, symbol string) (string, error) {
	var payload struct {
		Name string `json:"Name"`
	}
	err := WithRetry(ctx, av.retry, func() error {
		return av.query(ctx, map[string]string{
			"function": "OVERVIEW",
			"symbol":   NormalizeSymbol(symbol),
		}, &payload)
	})
	if err != nil {
		return "", err
	}
	if payload.Name == "" {
		return "", fmt.Errorf("no company overview for %s", symbol)
	}
	return payload.Name, nil
}

// GetSMA returns the latest precomputed 50-day simple moving average.
func (av *AlphaVantageClient) GetSMA(ctx context.Context, symbol string) (float64, error) {
	return av.latestIndicator(ctx, symbol, "SMA", "Technical Analysis: SMA", "50")
}

// GetRSI returns the latest precomputed 14-day relative strength index.
func (av *AlphaVantageClient) GetRSI(ctx context.Context, symbol string) (float64, error) {
	return av.latestIndicator(ctx, symbol, "RSI", "Technical Analysis: RSI", "14")
}

func (av *AlphaVantageClient) latestIndicator(ctx context.Context, symbol, function, field, period string) (float64, error) {
	var payload map[string]json.RawMessage
	err := WithRetry(ctx, av.retry, func() error {
		return av.query(ctx, map[string]string{
			"function":    function,
			"symbol":      NormalizeSymbol(symbol),
			"interval":    "daily",
			"time_period": period,
			"series_type": "close",
		}, &payload)
	})
	if err != nil {
		return 0, err
	}

	raw, ok := payload[field]
	if !ok {
		return 0, fmt.Errorf("no %s data for %s", function, symbol)
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return 0, fmt.Errorf("malformed %s series: %w", function, err)
	}
	if len(series) == 0 {
		return 0, fmt.Errorf("empty %s series for %s", function, symbol)
	}

	// Dates sort lexicographically; the latest is the last key.
	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	latest := series[dates[len(dates)-1]]

	value, err := strconv.ParseFloat(latest[function], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s value: %w", function, err)
	}
	return value, nil
}

// SearchSymbols returns up to limit matches for a search query.
func (av *AlphaVantageClient) SearchSymbols(ctx context.Context, query string, limit int) ([]models.SymbolMatch, error) {
	var payload struct {
		BestMatches []map[string]string `json:"bestMatches"`
	}
	err := WithRetry(ctx, av.retry, func() error {
		return av.query(ctx, map[string]string{
			"function": "SYMBOL_SEARCH",
			"keywords": query,
		}, &payload)
	})
	if err != nil {
		return nil, err
	}
	if len(payload.BestMatches) == 0 {
		return nil, fmt.Errorf("no matches for %q", query)
	}

	matches := make([]models.SymbolMatch, 0, limit)
	for _, m := range payload.BestMatches {
		matches = append(matches, models.SymbolMatch{
			Symbol: m["1. symbol"],
			Name:   m["2. name"],
			Type:   m["3. type"],
			Region: m["4. region"],
		})
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}
