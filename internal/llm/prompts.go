package llm

import (
	"fmt"
	"strings"

	"github.com/finsight-ai/finsight/internal/models"
)

const planSystemPrompt = "You are a stock analysis planning system. Respond only with valid JSON."

func planPrompt(symbol string) string {
	return fmt.Sprintf(`You are the manager of a stock analysis system. Create a detailed plan to analyze the stock %[1]s.
Your response must be a JSON object with a list of tasks in chronological order, where each task includes:
1. The agent responsible (price_agent, financial_agent, news_agent, or sentiment_agent)
2. A description of what they should do
3. The specific data they need to gather or analyze

Example format:
{
    "plan": [
        {
            "agent": "price_agent",
            "task": "Fetch current price data",
            "details": "Retrieve real-time price, daily change, and trading volume for %[1]s"
        }
    ]
}

Consider the following types of analysis:
- Current price data and technical indicators
- Financial metrics and recent earnings
- Recent news and their impact
- Market sentiment analysis

Ensure the plan is comprehensive and will result in an actionable stock analysis report.`, symbol)
}

const newsSystemPrompt = "You are a financial news analyst. Respond only with valid JSON."

func newsPrompt(symbol string, articles []models.NewsArticle) string {
	var sb strings.Builder
	for i, a := range articles {
		if i == 5 {
			break
		}
		fmt.Fprintf(&sb, "Article %d: %s\nSource: %s\nDescription: %s\n\n", i+1, a.Title, a.Source, a.Description)
	}

	return fmt.Sprintf(`Analyze the following recent news articles about %s:

%s
Provide the following in JSON format:
1. overall_sentiment: The overall sentiment toward the stock (positive, negative, or neutral)
2. key_points: A list of 3-5 key points from the news articles
3. impact_analysis: A brief analysis of how these news items might impact the stock

Response format:
{
    "overall_sentiment": "positive/negative/neutral",
    "key_points": ["point 1", "point 2", "point 3"],
    "impact_analysis": "brief analysis..."
}`, symbol, sb.String())
}

const sentimentSystemPrompt = "You are a market sentiment analyst. Respond only with valid JSON."

func sentimentPrompt(symbol string, social models.SocialSentiment, ratings models.AnalystRatings) string {
	return fmt.Sprintf(`Analyze the following sentiment data for %s:

Social Media Sentiment:
- Reddit: %.2f (mentions: %d)
- Twitter: %.2f (mentions: %d)

Analyst Ratings (Period: %s):
- Strong Buy: %d
- Buy: %d
- Hold: %d
- Sell: %d
- Strong Sell: %d

Provide the following in JSON format:
1. market_sentiment: The overall market sentiment (bullish, bearish, or neutral)
2. highlights: 2-3 key highlights from the sentiment data
3. recommendation: A brief recommendation based on sentiment analysis

Response format:
{
    "market_sentiment": "bullish/bearish/neutral",
    "highlights": ["highlight 1", "highlight 2", "highlight 3"],
    "recommendation": "brief recommendation..."
}`, symbol,
		social.RedditSentiment, social.RedditMentions,
		social.TwitterSentiment, social.TwitterMentions,
		ratings.Period, ratings.StrongBuy, ratings.Buy, ratings.Hold, ratings.Sell, ratings.StrongSell)
}

const reportSystemPrompt = "You are a professional stock analyst creating detailed reports. " +
	"Respond with well-formatted HTML only, no markdown code blocks or explanations."

func reportPrompt(data *models.StockData) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Create a comprehensive stock analysis report for %s (%s) based on the following data:\n\n",
		data.Symbol, data.CompanyName)

	if pd := data.PriceData; pd != nil {
		fmt.Fprintf(&sb, `1. Price Data:
- Current Price: $%s
- Change: %s
- Volume: %d
- Technical Indicators: SMA50 = %.2f, RSI14 = %.2f

`, pd.Quote.Price, pd.Quote.ChangePercent, pd.Quote.Volume, pd.Indicators.SMA50, pd.Indicators.RSI14)
	}

	if fd := data.FinancialData; fd != nil {
		fmt.Fprintf(&sb, `2. Company Information:
- Industry: %s
- Market Cap: $%.2f billion
- Exchange: %s

3. Financial Metrics:
- P/E Ratio: %s
- Dividend Yield: %s%%
- ROE: %s%%
- EPS Growth (5Y): %s%%
- Debt to Equity: %s

`, fd.Profile.Industry, fd.Profile.MarketCap/1000, fd.Profile.Exchange,
			fmtMetric(fd.Metrics.PERatio), fmtMetric(fd.Metrics.DividendYield),
			fmtMetric(fd.Metrics.ROE), fmtMetric(fd.Metrics.EPSGrowth5Y),
			fmtMetric(fd.Metrics.DebtToEquity))
	}

	if nd := data.NewsData; nd != nil {
		fmt.Fprintf(&sb, `4. News Sentiment:
- Overall News Sentiment: %s
- Key News: %s
- Potential Impact: %s

`, nd.Analysis.OverallSentiment, strings.Join(nd.Analysis.KeyPoints, "; "), nd.Analysis.ImpactAnalysis)
	}

	if sd := data.SentimentData; sd != nil {
		fmt.Fprintf(&sb, `5. Market Sentiment:
- Market Sentiment: %s
- Analyst Recommendations: %d buys, %d holds, %d sells

`, sd.Analysis.MarketSentiment,
			sd.AnalystRatings.Buy+sd.AnalystRatings.StrongBuy,
			sd.AnalystRatings.Hold,
			sd.AnalystRatings.Sell+sd.AnalystRatings.StrongSell)
	}

	sb.WriteString(`Structure the report with the following sections:
1. Executive Summary (brief overview and investment thesis)
2. Price Analysis (current price, trends, and technical indicators)
3. Company Overview (brief company description and key metrics)
4. Financial Analysis (metrics, trends, and earnings)
5. News Analysis (recent news and their impact)
6. Market Sentiment (analyst ratings and social media sentiment)
7. Investment Recommendation (clear buy/hold/sell recommendation with rationale)

Format the response as a detailed HTML document that can be displayed directly on a web page.
The content will be inserted inside a div, so avoid styles that resize the surrounding layout.
Do not include any markdown code blocks or explanations outside of the HTML.`)

	return sb.String()
}

func fmtMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
