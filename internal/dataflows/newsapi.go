package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/models"
)

// NewsAPIClient wraps the NewsAPI.org everything endpoint.
type NewsAPIClient struct {
	client *resty.Client
	apiKey string
	retry  *RetryConfig
}

// NewNewsAPIClient creates a client with the shared adapter timeout.
func NewNewsAPIClient(cfg *config.Config) *NewsAPIClient {
	client := resty.New()
	client.SetBaseURL("https://newsapi.org/v2")
	client.SetTimeout(cfg.AdapterTimeout)

	return &NewsAPIClient{
		client: client,
		apiKey: cfg.NewsAPIKey,
		retry:  DefaultRetryConfig(),
	}
}

// FetchRecentNews returns up to pageSize articles about the symbol (and
// company name when known) from the last seven days, most relevant first.
func (nc *NewsAPIClient) FetchRecentNews(ctx context.Context, symbol, companyName string, pageSize int) ([]models.NewsArticle, error) {
	if nc.apiKey == "" {
		return nil, fmt.Errorf("news API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	query := NormalizeSymbol(symbol)
	if companyName != "" {
		query = fmt.Sprintf("%s OR %s", query, companyName)
	}

	var payload struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			Title  string `json:"title"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			PublishedAt time.Time `json:"publishedAt"`
			URL         string    `json:"url"`
			Description string    `json:"description"`
		} `json:"articles"`
	}
	now := time.Now()
	err := WithRetry(ctx, nc.retry, func() error {
		resp, err := nc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":        query,
				"from":     now.AddDate(0, 0, -7).Format("2006-01-02"),
				"to":       now.Format("2006-01-02"),
				"language": "en",
				"sortBy":   "relevancy",
				"pageSize": fmt.Sprintf("%d", pageSize),
				"apiKey":   nc.apiKey,
			}).
			Get("/everything")
		if err != nil {
			return fmt.Errorf("news request failed: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("news API error %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return fmt.Errorf("failed to parse news response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("news API error: %s", payload.Message)
	}

	articles := make([]models.NewsArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			URL:         a.URL,
			Description: a.Description,
		})
	}
	return articles, nil
}
