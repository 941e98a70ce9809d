// Package display renders analysis results for the terminal.
package display

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finsight-ai/finsight/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2).
			Width(80)

	reportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2).
			Width(80)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

// Banner returns the startup banner.
func Banner() string {
	return titleStyle.Render("FinSight · AI-Powered Stock Analysis")
}

// RenderResult formats a completed analysis for the terminal. The report
// body is produced as HTML for the web UI, so tags are stripped here.
func RenderResult(result *models.AnalysisResult) string {
	var b strings.Builder

	header := fmt.Sprintf("%s · %s", result.Symbol, result.CompanyName)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	meta := fmt.Sprintf("request %s · %s",
		result.RequestID,
		result.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString(labelStyle.Render(meta))
	b.WriteString("\n\n")

	if result.Report != nil {
		b.WriteString(reportStyle.Render(htmlToText(result.Report.HTMLContent)))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderMatches formats symbol search results.
func RenderMatches(matches []models.SymbolMatch) string {
	if len(matches) == 0 {
		return labelStyle.Render("No matches found.")
	}

	var b strings.Builder
	for _, m := range matches {
		b.WriteString(matchStyle.Render(m.Symbol))
		b.WriteString("  ")
		b.WriteString(m.Name)
		if m.Region != "" {
			b.WriteString(labelStyle.Render("  (" + m.Region + ")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

var (
	blockTagPattern = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|li|tr|section|ul|ol|table)>|<br\s*/?>`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	blanksPattern   = regexp.MustCompile(`\n{3,}`)
)

func htmlToText(html string) string {
	text := blockTagPattern.ReplaceAllString(html, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&nbsp;", " ")

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(blanksPattern.ReplaceAllString(text, "\n\n"))
}
