package dataflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/finsight-ai/finsight/internal/config"
)

// ArticleScraper fetches a news article page and extracts its readable
// text, used to enrich headline-only articles before LLM analysis.
type ArticleScraper struct {
	client *resty.Client
}

// NewArticleScraper creates a scraper with the shared adapter timeout.
func NewArticleScraper(cfg *config.Config) *ArticleScraper {
	client := resty.New()
	client.SetTimeout(cfg.AdapterTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; FinSight/1.0)")

	return &ArticleScraper{client: client}
}

// ScrapeText returns the article body text at articleURL, truncated to
// maxLen runes.
func (s *ArticleScraper) ScrapeText(ctx context.Context, articleURL string, maxLen int) (string, error) {
	if strings.TrimSpace(articleURL) == "" {
		return "", fmt.Errorf("article URL cannot be empty")
	}

	resp, err := s.client.R().SetContext(ctx).Get(articleURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("HTTP error %d when fetching article", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := ""
	selectors := []string{
		".article-content", ".entry-content", ".post-content",
		".content", "article p", ".article-body", ".story-body",
	}
	for _, selector := range selectors {
		var parts []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			content = strings.Join(parts, "\n")
			break
		}
	}

	if content == "" {
		return "", fmt.Errorf("no article content found at %s", articleURL)
	}

	runes := []rune(content)
	if len(runes) > maxLen {
		content = string(runes[:maxLen])
	}
	return content, nil
}
