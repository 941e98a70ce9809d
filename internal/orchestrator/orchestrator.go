// Package orchestrator runs the full analysis cycle: symbol validation,
// planning, agent fan-out, data merge, report generation, and caching.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/agents"
	"github.com/finsight-ai/finsight/internal/cache"
	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/dataflows"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// ErrInvalidSymbol marks a symbol the directory definitively rejected.
// Directory outages do not produce this error; analysis proceeds instead.
var ErrInvalidSymbol = errors.New("could not validate stock symbol")

// ErrShortQuery marks a search query below the minimum length.
var ErrShortQuery = errors.New("search query must be at least 2 characters")

const searchLimit = 5

// SymbolDirectory looks up and validates symbols.
type SymbolDirectory interface {
	IsSymbolValid(ctx context.Context, symbol string) (bool, error)
	CompanyName(ctx context.Context, symbol string) (string, error)
	SearchSymbols(ctx context.Context, query string, limit int) ([]models.SymbolMatch, error)
}

// Deps bundles the capability implementations the orchestrator wires into
// agents. Tests swap in fakes; New fills it with the real clients.
type Deps struct {
	Directory    SymbolDirectory
	Planner      agents.Planner
	ReportWriter agents.ReportWriter

	QuoteSources      []dataflows.QuoteSource
	Precomputed       dataflows.IndicatorProvider
	History           dataflows.HistoryProvider
	Fundamentals      agents.FundamentalsProvider
	Sentiment         agents.SentimentProvider
	News              agents.NewsFetcher
	NewsAnalyzer      agents.NewsAnalyzer
	SentimentAnalyzer agents.SentimentAnalyzer
	Enricher          agents.ArticleEnricher
}

// Orchestrator coordinates one analysis per call. Each call builds its
// own task manager so concurrent requests never share queue state.
type Orchestrator struct {
	cfg   *config.Config
	deps  Deps
	cache *cache.Store
	log   *zap.SugaredLogger
}

// New wires the orchestrator with production clients.
func New(ctx context.Context, cfg *config.Config) (*Orchestrator, error) {
	av := dataflows.NewAlphaVantageClient(cfg)
	fh := dataflows.NewFinnhubClient(cfg)
	yf := dataflows.NewYahooFinanceClient()

	sources := []dataflows.QuoteSource{av, fh, yf}
	if cfg.HasLongport() {
		lp, err := dataflows.NewLongportClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("configure longport adapter: %w", err)
		}
		sources = append(sources, lp)
	}

	llmClient, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("configure llm client: %w", err)
	}

	deps := Deps{
		Directory:         av,
		Planner:           llmClient,
		ReportWriter:      llmClient,
		QuoteSources:      sources,
		Precomputed:       av,
		History:           yf,
		Fundamentals:      fh,
		Sentiment:         fh,
		News:              dataflows.NewNewsAPIClient(cfg),
		NewsAnalyzer:      llmClient,
		SentimentAnalyzer: llmClient,
		Enricher:          dataflows.NewArticleScraper(cfg),
	}
	return NewWithDeps(cfg, deps), nil
}

// NewWithDeps wires the orchestrator with explicit dependencies.
func NewWithDeps(cfg *config.Config, deps Deps) *Orchestrator {
	return &Orchestrator{
		cfg:   cfg,
		deps:  deps,
		cache: cache.New(),
		log:   logging.Named("orchestrator"),
	}
}

// AnalyzeSymbol runs the full analysis cycle for one symbol. Reports are
// cached per symbol; a cached report is returned as-is.
func (o *Orchestrator) AnalyzeSymbol(ctx context.Context, symbol string) (*models.AnalysisResult, error) {
	symbol = dataflows.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, core.ErrMissingSymbol
	}
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}

	cacheKey := "report_" + symbol
	if cached, ok := o.cache.Get(cacheKey); ok {
		if result, ok := cached.(*models.AnalysisResult); ok {
			o.log.Infow("returning cached report", "symbol", symbol)
			return result, nil
		}
	}

	if valid, err := o.deps.Directory.IsSymbolValid(ctx, symbol); err != nil {
		// The directory failing is not the symbol failing.
		o.log.Warnw("symbol validation unavailable, proceeding", "symbol", symbol, "error", err)
	} else if !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}

	companyName, err := o.deps.Directory.CompanyName(ctx, symbol)
	if err != nil || companyName == "" {
		if err != nil {
			o.log.Warnw("company name lookup failed", "symbol", symbol, "error", err)
		}
		companyName = symbol
	}

	tm := o.buildTaskManager()
	manager := agents.NewManagerAgent(o.deps.Planner, tm)

	managerResult := manager.ProcessTask(ctx, core.Payload{
		"stock_symbol": symbol,
		"company_name": companyName,
	})
	if !managerResult.OK() {
		return nil, &core.PlanningError{Err: errors.New(managerResult.Message)}
	}

	records := tm.ExecuteAll(ctx)
	stockData := o.mergeResults(symbol, companyName, records)

	reporter := agents.NewReportAgent(o.deps.ReportWriter)
	reportResult := reporter.ProcessTask(ctx, core.Payload{"stock_data": stockData})
	if !reportResult.OK() {
		return nil, &core.ReportError{Err: errors.New(reportResult.Message)}
	}
	report, ok := reportResult.Data["report"].(*models.Report)
	if !ok {
		return nil, &core.ReportError{Err: errors.New("report agent returned no report")}
	}

	result := &models.AnalysisResult{
		RequestID:   uuid.NewString(),
		Symbol:      symbol,
		CompanyName: companyName,
		Timestamp:   time.Now(),
		Report:      report,
	}

	o.cache.Set(cacheKey, result, o.cfg.ReportCacheTTL)
	o.log.Infow("analysis complete", "symbol", symbol, "request_id", result.RequestID)
	return result, nil
}

// SearchSymbols finds up to five symbols matching the query, falling back
// to a static list of widely traded names when the directory is down or
// returns nothing.
func (o *Orchestrator) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrShortQuery
	}

	matches, err := o.deps.Directory.SearchSymbols(ctx, query, searchLimit)
	if err != nil {
		o.log.Warnw("symbol search unavailable, using fallback list", "query", query, "error", err)
		return fallbackSearch(query), nil
	}
	if len(matches) == 0 {
		return fallbackSearch(query), nil
	}
	return matches, nil
}

func (o *Orchestrator) buildTaskManager() *core.TaskManager {
	resolver := dataflows.NewResolver(o.deps.QuoteSources,
		dataflows.WithTimeout(o.cfg.AdapterTimeout))
	indicators := dataflows.NewIndicatorService(o.deps.Precomputed, o.deps.History)

	tm := core.NewTaskManager()
	tm.RegisterAgent("price_agent", agents.NewPriceAgent(resolver, indicators))
	tm.RegisterAgent("financial_agent", agents.NewFinancialAgent(o.deps.Fundamentals))
	tm.RegisterAgent("news_agent", agents.NewNewsAgent(o.deps.News, o.deps.NewsAnalyzer, o.deps.Enricher))
	tm.RegisterAgent("sentiment_agent", agents.NewSentimentAgent(o.deps.Sentiment, o.deps.SentimentAnalyzer))
	return tm
}

// mergeResults folds completed task results into one StockData. Failed
// tasks leave their section nil; the report renders around the gap.
func (o *Orchestrator) mergeResults(symbol, companyName string, records []core.TaskExecution) *models.StockData {
	stockData := &models.StockData{Symbol: symbol, CompanyName: companyName}

	for _, rec := range records {
		if rec.Status != core.TaskCompleted || !rec.Result.OK() {
			if rec.Error != "" {
				o.log.Warnw("task failed", "task_id", rec.TaskID, "error", rec.Error)
			} else if rec.Result.Message != "" {
				o.log.Warnw("agent reported error", "task_id", rec.TaskID, "message", rec.Result.Message)
			}
			continue
		}

		switch rec.Result.AgentName {
		case "price_agent":
			if data, ok := rec.Result.Data["price_data"].(*models.PriceData); ok {
				stockData.PriceData = data
			}
		case "financial_agent":
			if data, ok := rec.Result.Data["financial_data"].(*models.FinancialData); ok {
				stockData.FinancialData = data
			}
		case "news_agent":
			if data, ok := rec.Result.Data["news_data"].(*models.NewsData); ok {
				stockData.NewsData = data
			}
		case "sentiment_agent":
			if data, ok := rec.Result.Data["sentiment_data"].(*models.SentimentData); ok {
				stockData.SentimentData = data
			}
		}
	}
	return stockData
}

var commonStocks = []models.SymbolMatch{
	{Symbol: "AAPL", Name: "Apple Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "Common Stock", Region: "United States"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "GOOGL", Name: "Alphabet Inc. (Class A)", Type: "Common Stock", Region: "United States"},
	{Symbol: "GOOG", Name: "Alphabet Inc. (Class C)", Type: "Common Stock", Region: "United States"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Type: "Common Stock", Region: "United States"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Type: "Common Stock", Region: "United States"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Type: "Common Stock", Region: "United States"},
	{Symbol: "V", Name: "Visa Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "PG", Name: "Procter & Gamble Co.", Type: "Common Stock", Region: "United States"},
	{Symbol: "UNH", Name: "UnitedHealth Group Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "MA", Name: "Mastercard Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "HD", Name: "Home Depot Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "DIS", Name: "Walt Disney Co.", Type: "Common Stock", Region: "United States"},
	{Symbol: "BAC", Name: "Bank of America Corp.", Type: "Common Stock", Region: "United States"},
	{Symbol: "ADBE", Name: "Adobe Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "CRM", Name: "Salesforce.com Inc.", Type: "Common Stock", Region: "United States"},
	{Symbol: "NFLX", Name: "Netflix Inc.", Type: "Common Stock", Region: "United States"},
}

func fallbackSearch(query string) []models.SymbolMatch {
	q := strings.ToLower(query)
	var matches []models.SymbolMatch
	for _, stock := range commonStocks {
		if strings.Contains(strings.ToLower(stock.Symbol), q) ||
			strings.Contains(strings.ToLower(stock.Name), q) {
			matches = append(matches, stock)
			if len(matches) == searchLimit {
				break
			}
		}
	}
	return matches
}
