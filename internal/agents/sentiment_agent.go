package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// SentimentProvider supplies social sentiment and analyst recommendation
// data.
type SentimentProvider interface {
	GetSocialSentiment(ctx context.Context, symbol string) (*models.SocialSentiment, error)
	GetAnalystRatings(ctx context.Context, symbol string) (*models.AnalystRatings, error)
}

// SentimentAnalyzer synthesizes sentiment signals into a market read.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, symbol string, social models.SocialSentiment, ratings models.AnalystRatings) (*models.SentimentAnalysis, error)
}

// SentimentAgent analyzes market sentiment and social media trends.
type SentimentAgent struct {
	provider SentimentProvider
	analyzer SentimentAnalyzer
	log      *zap.SugaredLogger
}

func NewSentimentAgent(provider SentimentProvider, analyzer SentimentAnalyzer) *SentimentAgent {
	return &SentimentAgent{
		provider: provider,
		analyzer: analyzer,
		log:      logging.Named("sentiment_agent"),
	}
}

func (a *SentimentAgent) Name() string { return "sentiment_agent" }

func (a *SentimentAgent) Description() string {
	return "Analyzes market sentiment and social media trends"
}

func (a *SentimentAgent) ProcessTask(ctx context.Context, payload core.Payload) core.AgentResult {
	symbol := payload.String("stock_symbol")
	if symbol == "" {
		return core.Errorf(a.Name(), "stock_symbol not provided")
	}

	// Either signal may be missing upstream; the LLM is told what we have.
	social, err := a.provider.GetSocialSentiment(ctx, symbol)
	if err != nil {
		a.log.Warnw("social sentiment fetch failed", "symbol", symbol, "error", err)
		social = &models.SocialSentiment{}
	}

	ratings, err := a.provider.GetAnalystRatings(ctx, symbol)
	if err != nil {
		a.log.Warnw("analyst ratings fetch failed", "symbol", symbol, "error", err)
		ratings = &models.AnalystRatings{}
	}

	analysis, err := a.analyzer.AnalyzeSentiment(ctx, symbol, *social, *ratings)
	if err != nil {
		a.log.Errorw("sentiment analysis failed", "symbol", symbol, "error", err)
		return core.Errorf(a.Name(), fmt.Sprintf("Failed to analyze sentiment: %v", err))
	}

	data := &models.SentimentData{
		Symbol:          symbol,
		SocialSentiment: *social,
		AnalystRatings:  *ratings,
		Analysis:        *analysis,
	}

	return core.Success(a.Name(), map[string]any{"sentiment_data": data},
		fmt.Sprintf("Sentiment analyzed for %s", symbol))
}
