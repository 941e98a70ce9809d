package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/models"
)

// FinnhubClient wraps the Finnhub REST API for quotes, fundamentals,
// analyst ratings, and social sentiment.
type FinnhubClient struct {
	client *resty.Client
	apiKey string
	retry  *RetryConfig
}

// NewFinnhubClient creates a client with the shared adapter timeout.
func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(cfg.AdapterTimeout)

	return &FinnhubClient{
		client: client,
		apiKey: cfg.FinnhubAPIKey,
		retry:  DefaultRetryConfig(),
	}
}

// Name identifies the adapter in resolver priority lists and quote tags.
func (fc *FinnhubClient) Name() string { return "finnhub" }

func (fc *FinnhubClient) get(ctx context.Context, path string, params map[string]string, out any) error {
	if fc.apiKey == "" {
		return fmt.Errorf("finnhub API key not configured")
	}

	params["token"] = fc.apiKey
	resp, err := fc.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("finnhub request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("finnhub API error %d: %s", resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse finnhub response: %w", err)
	}
	return nil
}

// FetchQuote returns the current quote for symbol. Finnhub's quote
// endpoint carries no volume; the field stays zero. Quote fetches are
// single-shot: the resolver retries across sources itself.
func (fc *FinnhubClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var payload struct {
		Current       float64 `json:"c"`
		Change        float64 `json:"d"`
		ChangePercent float64 `json:"dp"`
	}
	if err := fc.get(ctx, "/quote", map[string]string{"symbol": symbol}, &payload); err != nil {
		return nil, err
	}
	if payload.Current <= 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(payload.Current),
		Change:        decimal.NewFromFloat(payload.Change),
		ChangePercent: fmt.Sprintf("%.2f%%", payload.ChangePercent),
		Timestamp:     time.Now(),
		Source:        fc.Name(),
	}, nil
}

// GetCompanyProfile fetches the company profile for symbol.
func (fc *FinnhubClient) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	var payload struct {
		Name            string  `json:"name"`
		MarketCap       float64 `json:"marketCapitalization"`
		FinnhubIndustry string  `json:"finnhubIndustry"`
		Exchange        string  `json:"exchange"`
		IPO             string  `json:"ipo"`
		Logo            string  `json:"logo"`
		WebURL          string  `json:"weburl"`
	}
	err := WithRetry(ctx, fc.retry, func() error {
		return fc.get(ctx, "/stock/profile2", map[string]string{"symbol": NormalizeSymbol(symbol)}, &payload)
	})
	if err != nil {
		return nil, err
	}
	if payload.Name == "" {
		return nil, fmt.Errorf("no company profile for %s", symbol)
	}

	return &models.CompanyProfile{
		Name:      payload.Name,
		MarketCap: payload.MarketCap,
		Industry:  payload.FinnhubIndustry,
		Exchange:  payload.Exchange,
		IPO:       payload.IPO,
		Logo:      payload.Logo,
		Website:   payload.WebURL,
	}, nil
}

// GetFinancialMetrics fetches ratio-style fundamentals for symbol.
func (fc *FinnhubClient) GetFinancialMetrics(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	var payload struct {
		Metric map[string]*float64 `json:"metric"`
	}
	err := WithRetry(ctx, fc.retry, func() error {
		return fc.get(ctx, "/stock/metric", map[string]string{
			"symbol": NormalizeSymbol(symbol),
			"metric": "all",
		}, &payload)
	})
	if err != nil {
		return nil, err
	}
	if payload.Metric == nil {
		return nil, fmt.Errorf("no financial metrics for %s", symbol)
	}

	return &models.FinancialMetrics{
		PERatio:       payload.Metric["peNormalizedAnnual"],
		PBRatio:       payload.Metric["pbAnnual"],
		DividendYield: payload.Metric["dividendYieldIndicatedAnnual"],
		ROE:           payload.Metric["roeRfy"],
		EPSGrowth5Y:   payload.Metric["epsGrowth5Y"],
		DebtToEquity:  payload.Metric["totalDebtToEquityQuarterly"],
		CurrentRatio:  payload.Metric["currentRatioQuarterly"],
	}, nil
}

// GetRecentEarnings returns up to the last four reported quarters.
func (fc *FinnhubClient) GetRecentEarnings(ctx context.Context, symbol string) ([]models.EarningsQuarter, error) {
	var payload []struct {
		Period          string   `json:"period"`
		Actual          *float64 `json:"actual"`
		Estimate        *float64 `json:"estimate"`
		Surprise        *float64 `json:"surprise"`
		SurprisePercent *float64 `json:"surprisePercent"`
	}
	err := WithRetry(ctx, fc.retry, func() error {
		return fc.get(ctx, "/stock/earnings", map[string]string{"symbol": NormalizeSymbol(symbol)}, &payload)
	})
	if err != nil {
		return nil, err
	}

	quarters := make([]models.EarningsQuarter, 0, 4)
	for _, q := range payload {
		quarters = append(quarters, models.EarningsQuarter{
			Period:          q.Period,
			ActualEPS:       q.Actual,
			EstimatedEPS:    q.Estimate,
			Surprise:        q.Surprise,
			SurprisePercent: q.SurprisePercent,
		})
		if len(quarters) == 4 {
			break
		}
	}
	return quarters, nil
}

// GetAnalystRatings returns the most recent recommendation period.
func (fc *FinnhubClient) GetAnalystRatings(ctx context.Context, symbol string) (*models.AnalystRatings, error) {
	var payload []struct {
		Period     string `json:"period"`
		Buy        int    `json:"buy"`
		Hold       int    `json:"hold"`
		Sell       int    `json:"sell"`
		StrongBuy  int    `json:"strongBuy"`
		StrongSell int    `json:"strongSell"`
	}
	err := WithRetry(ctx, fc.retry, func() error {
		return fc.get(ctx, "/stock/recommendation", map[string]string{"symbol": NormalizeSymbol(symbol)}, &payload)
	})
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return &models.AnalystRatings{}, nil
	}

	latest := payload[0]
	return &models.AnalystRatings{
		Period:     latest.Period,
		Buy:        latest.Buy,
		Hold:       latest.Hold,
		Sell:       latest.Sell,
		StrongBuy:  latest.StrongBuy,
		StrongSell: latest.StrongSell,
	}, nil
}

// GetSocialSentiment aggregates Reddit and Twitter mention scores.
func (fc *FinnhubClient) GetSocialSentiment(ctx context.Context, symbol string) (*models.SocialSentiment, error) {
	type mention struct {
		Score   float64 `json:"score"`
		Mention int64   `json:"mention"`
	}
	var payload struct {
		Reddit  []mention `json:"reddit"`
		Twitter []mention `json:"twitter"`
	}
	err := WithRetry(ctx, fc.retry, func() error {
		return fc.get(ctx, "/stock/social-sentiment", map[string]string{
			"symbol": NormalizeSymbol(symbol),
			"from":   time.Now().AddDate(0, -1, 0).Format("2006-01-02"),
		}, &payload)
	})
	if err != nil {
		return nil, err
	}

	avg := func(items []mention) (score float64, mentions int64) {
		for _, it := range items {
			score += it.Score
			mentions += it.Mention
		}
		if len(items) > 0 {
			score /= float64(len(items))
		}
		return score, mentions
	}

	redditScore, redditMentions := avg(payload.Reddit)
	twitterScore, twitterMentions := avg(payload.Twitter)

	return &models.SocialSentiment{
		RedditSentiment:  redditScore,
		TwitterSentiment: twitterScore,
		RedditMentions:   redditMentions,
		TwitterMentions:  twitterMentions,
	}, nil
}
