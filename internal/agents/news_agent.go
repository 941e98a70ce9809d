package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

const (
	newsPageSize   = 10
	maxScrapedDocs = 3
	scrapedMaxLen  = 1200
)

// NewsFetcher retrieves recent articles mentioning a symbol or company.
type NewsFetcher interface {
	FetchRecentNews(ctx context.Context, symbol, companyName string, pageSize int) ([]models.NewsArticle, error)
}

// NewsAnalyzer produces an LLM read of a set of articles. Implementations
// degrade to a neutral analysis on malformed model output.
type NewsAnalyzer interface {
	AnalyzeNews(ctx context.Context, symbol string, articles []models.NewsArticle) (*models.NewsAnalysis, error)
}

// ArticleEnricher pulls body text from an article page. Used to fill in
// descriptions the news feed omits.
type ArticleEnricher interface {
	ScrapeText(ctx context.Context, articleURL string, maxLen int) (string, error)
}

// NewsAgent gathers and analyzes recent news about a stock.
type NewsAgent struct {
	fetcher  NewsFetcher
	analyzer NewsAnalyzer
	enricher ArticleEnricher
	log      *zap.SugaredLogger
}

// NewNewsAgent builds the news agent. enricher may be nil to skip article
// body scraping.
func NewNewsAgent(fetcher NewsFetcher, analyzer NewsAnalyzer, enricher ArticleEnricher) *NewsAgent {
	return &NewsAgent{
		fetcher:  fetcher,
		analyzer: analyzer,
		enricher: enricher,
		log:      logging.Named("news_agent"),
	}
}

func (a *NewsAgent) Name() string { return "news_agent" }

func (a *NewsAgent) Description() string {
	return "Gathers and analyzes recent news about stocks"
}

func (a *NewsAgent) ProcessTask(ctx context.Context, payload core.Payload) core.AgentResult {
	symbol := payload.String("stock_symbol")
	if symbol == "" {
		return core.Errorf(a.Name(), "stock_symbol not provided")
	}
	companyName := payload.String("company_name")

	articles, err := a.fetcher.FetchRecentNews(ctx, symbol, companyName, newsPageSize)
	if err != nil {
		a.log.Errorw("news fetch failed", "symbol", symbol, "error", err)
		return core.Errorf(a.Name(), fmt.Sprintf("Failed to analyze news: %v", err))
	}

	a.enrich(ctx, articles)

	analysis, err := a.analyzer.AnalyzeNews(ctx, symbol, articles)
	if err != nil {
		a.log.Errorw("news analysis failed", "symbol", symbol, "error", err)
		return core.Errorf(a.Name(), fmt.Sprintf("Failed to analyze news: %v", err))
	}

	data := &models.NewsData{Symbol: symbol, Articles: articles, Analysis: *analysis}

	return core.Success(a.Name(), map[string]any{"news_data": data},
		fmt.Sprintf("News analyzed for %s", symbol))
}

// enrich fills empty article descriptions with scraped body text,
// best-effort and capped so a slow site cannot stall the whole task.
func (a *NewsAgent) enrich(ctx context.Context, articles []models.NewsArticle) {
	if a.enricher == nil {
		return
	}
	scraped := 0
	for i := range articles {
		if scraped >= maxScrapedDocs {
			return
		}
		if articles[i].Description != "" || articles[i].URL == "" {
			continue
		}
		text, err := a.enricher.ScrapeText(ctx, articles[i].URL, scrapedMaxLen)
		if err != nil {
			a.log.Debugw("article scrape failed", "url", articles[i].URL, "error", err)
			continue
		}
		articles[i].Description = text
		scraped++
	}
}
