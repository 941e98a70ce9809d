// Package models defines the data shapes shared between agents, data
// providers, and the orchestrator.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a normalized point-in-time price for a symbol. A quote is only
// valid when Price is strictly positive; anything else is treated as a
// failed fetch and never surfaced.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent string          `json:"change_percent"`
	Volume        int64           `json:"volume"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
}

// Valid reports whether the quote can be surfaced to callers.
func (q *Quote) Valid() bool {
	return q != nil && q.Price.IsPositive()
}

// SourceMock marks quotes synthesized after every real provider failed.
const SourceMock = "mock"

// IsMock reports whether the quote was synthesized rather than fetched.
func (q *Quote) IsMock() bool {
	return q != nil && q.Source == SourceMock
}

// MarketData is one historical OHLCV bar.
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}

// TechnicalIndicators carries the indicator set attached to price data.
// RSI14 is always within [0, 100].
type TechnicalIndicators struct {
	SMA50  float64 `json:"sma_50"`
	RSI14  float64 `json:"rsi_14"`
	Source string  `json:"source"`
}

// PriceData is the price agent's contribution to the merged stock data.
type PriceData struct {
	Quote      Quote               `json:"quote"`
	Indicators TechnicalIndicators `json:"technical_indicators"`
}

// CompanyProfile describes a company's static attributes.
type CompanyProfile struct {
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
	Industry  string  `json:"industry"`
	Exchange  string  `json:"exchange"`
	IPO       string  `json:"ipo"`
	Logo      string  `json:"logo"`
	Website   string  `json:"website"`
}

// FinancialMetrics holds ratio-style fundamentals. Pointers distinguish
// "not reported" from zero.
type FinancialMetrics struct {
	PERatio       *float64 `json:"pe_ratio"`
	PBRatio       *float64 `json:"pb_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
	ROE           *float64 `json:"roe"`
	EPSGrowth5Y   *float64 `json:"eps_growth"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
	CurrentRatio  *float64 `json:"current_ratio"`
}

// EarningsQuarter is one reported quarter of earnings.
type EarningsQuarter struct {
	Period          string   `json:"period"`
	ActualEPS       *float64 `json:"actual_eps"`
	EstimatedEPS    *float64 `json:"estimated_eps"`
	Surprise        *float64 `json:"surprise"`
	SurprisePercent *float64 `json:"surprise_percent"`
}

// FinancialData is the financial agent's contribution.
type FinancialData struct {
	Symbol         string            `json:"symbol"`
	Profile        CompanyProfile    `json:"company_profile"`
	Metrics        FinancialMetrics  `json:"financial_metrics"`
	RecentEarnings []EarningsQuarter `json:"recent_earnings"`
}

// NewsArticle is a normalized news item.
type NewsArticle struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
}

// NewsAnalysis is the LLM's read of recent news.
type NewsAnalysis struct {
	OverallSentiment string   `json:"overall_sentiment"`
	KeyPoints        []string `json:"key_points"`
	ImpactAnalysis   string   `json:"impact_analysis"`
}

// NewsData is the news agent's contribution.
type NewsData struct {
	Symbol   string        `json:"symbol"`
	Articles []NewsArticle `json:"articles"`
	Analysis NewsAnalysis  `json:"analysis"`
}

// SocialSentiment aggregates social media sentiment per platform.
type SocialSentiment struct {
	RedditSentiment  float64 `json:"reddit_sentiment"`
	TwitterSentiment float64 `json:"twitter_sentiment"`
	RedditMentions   int64   `json:"reddit_mentions"`
	TwitterMentions  int64   `json:"twitter_mentions"`
}

// AnalystRatings is the most recent analyst recommendation breakdown.
type AnalystRatings struct {
	Period     string `json:"period"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongBuy  int    `json:"strong_buy"`
	StrongSell int    `json:"strong_sell"`
}

// SentimentAnalysis is the LLM's synthesis of sentiment signals.
type SentimentAnalysis struct {
	MarketSentiment string   `json:"market_sentiment"`
	Highlights      []string `json:"highlights"`
	Recommendation  string   `json:"recommendation"`
}

// SentimentData is the sentiment agent's contribution.
type SentimentData struct {
	Symbol          string            `json:"symbol"`
	SocialSentiment SocialSentiment   `json:"social_sentiment"`
	AnalystRatings  AnalystRatings    `json:"analyst_ratings"`
	Analysis        SentimentAnalysis `json:"analysis"`
}

// PlanItem assigns one task to one agent.
type PlanItem struct {
	Agent   string `json:"agent"`
	Task    string `json:"task"`
	Details string `json:"details"`
}

// Plan is the ordered task list produced by the planning capability.
type Plan struct {
	Items []PlanItem `json:"plan"`
}

// StockData is the merged result set handed to the report agent. Any
// section may be nil when the producing agent failed.
type StockData struct {
	Symbol        string         `json:"symbol"`
	CompanyName   string         `json:"company_name"`
	PriceData     *PriceData     `json:"price_data,omitempty"`
	FinancialData *FinancialData `json:"financial_data,omitempty"`
	NewsData      *NewsData      `json:"news_data,omitempty"`
	SentimentData *SentimentData `json:"sentiment_data,omitempty"`
}

// Report is the final rendered analysis.
type Report struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Timestamp   string `json:"timestamp"`
	HTMLContent string `json:"html_content"`
}

// AnalysisResult is the top-level response for one analysis cycle.
type AnalysisResult struct {
	RequestID   string    `json:"request_id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Timestamp   time.Time `json:"timestamp"`
	Report      *Report   `json:"report"`
}

// SymbolMatch is one hit from symbol search.
type SymbolMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`
}
