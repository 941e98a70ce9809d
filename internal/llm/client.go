// Package llm wraps the chat model behind the planning, analysis, and
// report-writing capabilities the agents consume.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/core"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// ChatModel is the narrow slice of the eino model interface the client
// needs; tests substitute a canned implementation.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Client exposes the LLM-backed capabilities.
type Client struct {
	managerModel ChatModel
	agentModel   ChatModel
}

// NewClient builds chat models for the manager (planning, reports) and
// worker agents (news/sentiment analysis). DeepSeek and other
// OpenAI-compatible backends are selected via BaseURL.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	maxTokens := 8192

	managerModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.LLMBaseURL,
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.ManagerModel,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create manager chat model: %w", err)
	}

	agentModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.LLMBaseURL,
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.AgentModel,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent chat model: %w", err)
	}

	return &Client{managerModel: managerModel, agentModel: agentModel}, nil
}

// NewClientWithModels wires explicit chat models; used by tests.
func NewClientWithModels(managerModel, agentModel ChatModel) *Client {
	return &Client{managerModel: managerModel, agentModel: agentModel}
}

// GeneratePlan asks the manager model for an analysis plan. Malformed
// responses are a hard PlanningError: there is no safe default plan.
func (c *Client) GeneratePlan(ctx context.Context, symbol string) (*models.Plan, error) {
	resp, err := c.managerModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(planSystemPrompt),
		schema.UserMessage(planPrompt(symbol)),
	})
	if err != nil {
		return nil, &core.PlanningError{Err: err}
	}

	var plan models.Plan
	if err := decodeJSON(resp.Content, &plan); err != nil {
		return nil, &core.PlanningError{Err: fmt.Errorf("unparseable plan: %w", err)}
	}
	if len(plan.Items) == 0 {
		return nil, &core.PlanningError{Err: fmt.Errorf("plan contains no tasks")}
	}

	logging.Named("llm").Infow("created analysis plan", "symbol", symbol, "tasks", len(plan.Items))
	return &plan, nil
}

// AnalyzeNews summarizes sentiment and key points from articles. A
// malformed model response degrades to a neutral analysis; unlike
// planning, a safe default exists here.
func (c *Client) AnalyzeNews(ctx context.Context, symbol string, articles []models.NewsArticle) (*models.NewsAnalysis, error) {
	if len(articles) == 0 {
		return &models.NewsAnalysis{
			OverallSentiment: "neutral",
			KeyPoints:        []string{},
			ImpactAnalysis:   "No recent news to analyze.",
		}, nil
	}

	resp, err := c.agentModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(newsSystemPrompt),
		schema.UserMessage(newsPrompt(symbol, articles)),
	})
	if err != nil {
		return nil, fmt.Errorf("news analysis failed: %w", err)
	}

	var analysis models.NewsAnalysis
	if err := decodeJSON(resp.Content, &analysis); err != nil {
		logging.Named("llm").Warnw("malformed news analysis, using neutral default",
			"symbol", symbol, "error", err)
		return &models.NewsAnalysis{
			OverallSentiment: "neutral",
			KeyPoints:        []string{},
			ImpactAnalysis:   "Error analyzing news sentiment.",
		}, nil
	}
	return &analysis, nil
}

// AnalyzeSentiment synthesizes social and analyst sentiment signals.
// Malformed model output degrades to a neutral analysis.
func (c *Client) AnalyzeSentiment(ctx context.Context, symbol string, social models.SocialSentiment, ratings models.AnalystRatings) (*models.SentimentAnalysis, error) {
	resp, err := c.agentModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(sentimentSystemPrompt),
		schema.UserMessage(sentimentPrompt(symbol, social, ratings)),
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment analysis failed: %w", err)
	}

	var analysis models.SentimentAnalysis
	if err := decodeJSON(resp.Content, &analysis); err != nil {
		logging.Named("llm").Warnw("malformed sentiment analysis, using neutral default",
			"symbol", symbol, "error", err)
		return &models.SentimentAnalysis{
			MarketSentiment: "neutral",
			Highlights:      []string{},
			Recommendation:  "Error analyzing sentiment data.",
		}, nil
	}
	return &analysis, nil
}

// GenerateReportMarkup renders the final HTML report body. Failures
// surface: no safe default report exists.
func (c *Client) GenerateReportMarkup(ctx context.Context, data *models.StockData) (string, error) {
	resp, err := c.managerModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(reportSystemPrompt),
		schema.UserMessage(reportPrompt(data)),
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// decodeJSON unmarshals model output that may be wrapped in markdown
// code fences.
func decodeJSON(content string, out any) error {
	return json.Unmarshal([]byte(stripFences(content)), out)
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
