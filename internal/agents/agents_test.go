package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/dataflows"
	"github.com/finsight-ai/finsight/internal/models"
)

type fakeResolver struct{ quote *models.Quote }

func (f *fakeResolver) ResolveQuote(ctx context.Context, symbol string) *models.Quote {
	if f.quote != nil {
		return f.quote
	}
	return dataflows.SyntheticQuote(symbol)
}

type fakeIndicators struct{}

func (fakeIndicators) Resolve(ctx context.Context, symbol string, quote *models.Quote) models.TechnicalIndicators {
	return dataflows.SyntheticIndicators(symbol, quote)
}

func TestPriceAgentMissingSymbol(t *testing.T) {
	agent := NewPriceAgent(&fakeResolver{}, fakeIndicators{})

	result := agent.ProcessTask(context.Background(), core.Payload{})
	assert.Equal(t, core.StatusError, result.Status)
	assert.Equal(t, "stock_symbol not provided", result.Message)
}

func TestPriceAgentDegradesToSynthetic(t *testing.T) {
	agent := NewPriceAgent(&fakeResolver{}, fakeIndicators{})

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	require.True(t, result.OK())

	data, ok := result.Data["price_data"].(*models.PriceData)
	require.True(t, ok)
	assert.True(t, data.Quote.IsMock())
	assert.True(t, data.Quote.Price.IsPositive())
	assert.Contains(t, result.Message, "synthesized")
}

func TestPriceAgentReportsRealSource(t *testing.T) {
	quote := &models.Quote{
		Symbol: "AAPL",
		Price:  decimal.NewFromFloat(187.42),
		Source: "yahoo",
	}
	agent := NewPriceAgent(&fakeResolver{quote: quote}, fakeIndicators{})

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	require.True(t, result.OK())
	assert.Equal(t, "Price data fetched for AAPL", result.Message)
}

type fakeFundamentals struct {
	profileErr  error
	metricsErr  error
	earningsErr error
}

func (f *fakeFundamentals) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &models.CompanyProfile{Name: "Apple Inc", Industry: "Technology"}, nil
}

func (f *fakeFundamentals) GetFinancialMetrics(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	if f.metricsErr != nil {
		return nil, f.metricsErr
	}
	pe := 28.5
	return &models.FinancialMetrics{PERatio: &pe}, nil
}

func (f *fakeFundamentals) GetRecentEarnings(ctx context.Context, symbol string) ([]models.EarningsQuarter, error) {
	if f.earningsErr != nil {
		return nil, f.earningsErr
	}
	return []models.EarningsQuarter{{Period: "2026-06-30"}}, nil
}

func TestFinancialAgentProfileFailureIsError(t *testing.T) {
	agent := NewFinancialAgent(&fakeFundamentals{profileErr: errors.New("finnhub down")})

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to analyze financial data")
}

func TestFinancialAgentToleratesMetricsFailure(t *testing.T) {
	agent := NewFinancialAgent(&fakeFundamentals{metricsErr: errors.New("rate limited")})

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	require.True(t, result.OK())

	data, ok := result.Data["financial_data"].(*models.FinancialData)
	require.True(t, ok)
	assert.Equal(t, "Apple Inc", data.Profile.Name)
	assert.Nil(t, data.Metrics.PERatio)
}

type fakeNewsFetcher struct {
	articles []models.NewsArticle
	err      error
}

func (f *fakeNewsFetcher) FetchRecentNews(ctx context.Context, symbol, companyName string, pageSize int) ([]models.NewsArticle, error) {
	return f.articles, f.err
}

type fakeNewsAnalyzer struct{ sentiment string }

func (f *fakeNewsAnalyzer) AnalyzeNews(ctx context.Context, symbol string, articles []models.NewsArticle) (*models.NewsAnalysis, error) {
	return &models.NewsAnalysis{OverallSentiment: f.sentiment}, nil
}

type fakeEnricher struct{ text string }

func (f *fakeEnricher) ScrapeText(ctx context.Context, articleURL string, maxLen int) (string, error) {
	return f.text, nil
}

func TestNewsAgentEnrichesEmptyDescriptions(t *testing.T) {
	fetcher := &fakeNewsFetcher{articles: []models.NewsArticle{
		{Title: "with description", Description: "already here", URL: "https://example.com/a"},
		{Title: "without description", URL: "https://example.com/b"},
	}}
	agent := NewNewsAgent(fetcher, &fakeNewsAnalyzer{sentiment: "positive"}, &fakeEnricher{text: "scraped body"})

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	require.True(t, result.OK())

	data, ok := result.Data["news_data"].(*models.NewsData)
	require.True(t, ok)
	assert.Equal(t, "already here", data.Articles[0].Description)
	assert.Equal(t, "scraped body", data.Articles[1].Description)
	assert.Equal(t, "positive", data.Analysis.OverallSentiment)
}

func TestNewsAgentFetchFailureIsError(t *testing.T) {
	agent := NewNewsAgent(&fakeNewsFetcher{err: errors.New("newsapi down")}, &fakeNewsAnalyzer{}, nil)

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to analyze news")
}

type fakeSentimentProvider struct {
	socialErr  error
	ratingsErr error
}

func (f *fakeSentimentProvider) GetSocialSentiment(ctx context.Context, symbol string) (*models.SocialSentiment, error) {
	if f.socialErr != nil {
		return nil, f.socialErr
	}
	return &models.SocialSentiment{RedditSentiment: 0.62, RedditMentions: 120}, nil
}

func (f *fakeSentimentProvider) GetAnalystRatings(ctx context.Context, symbol string) (*models.AnalystRatings, error) {
	if f.ratingsErr != nil {
		return nil, f.ratingsErr
	}
	return &models.AnalystRatings{Period: "2026-08-01", Buy: 20, Hold: 8}, nil
}

type fakeSentimentAnalyzer struct{}

func (fakeSentimentAnalyzer) AnalyzeSentiment(ctx context.Context, symbol string, social models.SocialSentiment, ratings models.AnalystRatings) (*models.SentimentAnalysis, error) {
	return &models.SentimentAnalysis{MarketSentiment: "bullish"}, nil
}

func TestSentimentAgentToleratesProviderFailures(t *testing.T) {
	provider := &fakeSentimentProvider{
		socialErr:  errors.New("no social data"),
		ratingsErr: errors.New("no ratings"),
	}
	agent := NewSentimentAgent(provider, fakeSentimentAnalyzer{})

	result := agent.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	require.True(t, result.OK())

	data, ok := result.Data["sentiment_data"].(*models.SentimentData)
	require.True(t, ok)
	assert.Zero(t, data.SocialSentiment.RedditMentions)
	assert.Equal(t, "bullish", data.Analysis.MarketSentiment)
}

type fakePlanner struct {
	plan *models.Plan
	err  error
}

func (f *fakePlanner) GeneratePlan(ctx context.Context, symbol string) (*models.Plan, error) {
	return f.plan, f.err
}

func TestManagerAgentSkipsUnknownAgents(t *testing.T) {
	tm := core.NewTaskManager()
	tm.RegisterAgent("price_agent", NewPriceAgent(&fakeResolver{}, fakeIndicators{}))

	planner := &fakePlanner{plan: &models.Plan{Items: []models.PlanItem{
		{Agent: "price_agent", Task: "fetch price", Details: "quote and indicators"},
		{Agent: "quantum_agent", Task: "predict the future", Details: "n/a"},
	}}}
	manager := NewManagerAgent(planner, tm)

	result := manager.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	require.True(t, result.OK())

	ids, ok := result.Data["task_ids"].([]string)
	require.True(t, ok)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, tm.PendingTasks())
}

func TestManagerAgentPlanningFailureIsError(t *testing.T) {
	planner := &fakePlanner{err: &core.PlanningError{Err: errors.New("model returned prose")}}
	manager := NewManagerAgent(planner, core.NewTaskManager())

	result := manager.ProcessTask(context.Background(), core.Payload{"stock_symbol": "AAPL"})
	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to create analysis plan")
}

type fakeWriter struct {
	markup string
	err    error
}

func (f *fakeWriter) GenerateReportMarkup(ctx context.Context, data *models.StockData) (string, error) {
	return f.markup, f.err
}

func TestReportAgentInsufficientData(t *testing.T) {
	agent := NewReportAgent(&fakeWriter{})

	result := agent.ProcessTask(context.Background(), core.Payload{})
	assert.Equal(t, core.StatusError, result.Status)
	assert.Equal(t, "Insufficient data to generate report", result.Message)
}

func TestReportAgentSubstitutesSyntheticPrice(t *testing.T) {
	writer := &fakeWriter{markup: "<div><h1>AAPL Analysis</h1></div>"}
	agent := NewReportAgent(writer)

	stockData := &models.StockData{Symbol: "AAPL"}
	result := agent.ProcessTask(context.Background(), core.Payload{"stock_data": stockData})
	require.True(t, result.OK())

	require.NotNil(t, stockData.PriceData)
	assert.True(t, stockData.PriceData.Quote.IsMock())

	report, ok := result.Data["report"].(*models.Report)
	require.True(t, ok)
	assert.Equal(t, "<div><h1>AAPL Analysis</h1></div>", report.HTMLContent)
}

func TestReportAgentWriterFailureIsError(t *testing.T) {
	agent := NewReportAgent(&fakeWriter{err: errors.New("model unavailable")})

	stockData := &models.StockData{Symbol: "AAPL"}
	result := agent.ProcessTask(context.Background(), core.Payload{"stock_data": stockData})
	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to generate report")
}

func TestReportAgentPrefersProfileName(t *testing.T) {
	agent := NewReportAgent(&fakeWriter{markup: "<div>ok</div>"})

	stockData := &models.StockData{
		Symbol:      "AAPL",
		CompanyName: "Apple",
		FinancialData: &models.FinancialData{
			Profile: models.CompanyProfile{Name: "Apple Inc"},
		},
	}
	result := agent.ProcessTask(context.Background(), core.Payload{"stock_data": stockData})
	require.True(t, result.OK())

	report := result.Data["report"].(*models.Report)
	assert.Equal(t, "Apple Inc", report.CompanyName)
}

func TestExtractHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "full document",
			in:   "Here is the report:\n<html><body><p>hi</p></body></html>\nLet me know!",
			want: "<html><body><p>hi</p></body></html>",
		},
		{
			name: "body only",
			in:   "preamble <body class=\"report\"><p>hi</p></body> trailer",
			want: "<body class=\"report\"><p>hi</p></body>",
		},
		{
			name: "fenced html",
			in:   "```html\n<div><p>hi</p></div>\n```",
			want: "<div><p>hi</p></div>",
		},
		{
			name: "bare fragment",
			in:   "Sure! <div id=\"report\"><p>hi</p></div>",
			want: "<div id=\"report\"><p>hi</p></div>",
		},
		{
			name: "fallback strips fences",
			in:   "```html\njust some text\n```",
			want: "just some text",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractHTML(tc.in))
		})
	}
}
