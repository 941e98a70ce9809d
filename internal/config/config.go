package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the analysis service.
type Config struct {
	Env      string `json:"env"`
	LogLevel string `json:"log_level"`
	Port     int    `json:"port"`

	// LLM backend (OpenAI-compatible; DeepSeek works via BaseURL override)
	LLMAPIKey    string `json:"llm_api_key"`
	LLMBaseURL   string `json:"llm_base_url"`
	ManagerModel string `json:"manager_model"`
	AgentModel   string `json:"agent_model"`

	// Market data providers
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`
	FinnhubAPIKey      string `json:"finnhub_api_key"`
	NewsAPIKey         string `json:"news_api_key"`

	// Longport is optional; the quote adapter is only registered when all
	// three credentials are present.
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	AdapterTimeout time.Duration `json:"adapter_timeout"`
	ReportCacheTTL time.Duration `json:"report_cache_ttl"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		Env:      "development",
		LogLevel: "info",
		Port:     8080,

		LLMBaseURL:   "https://api.deepseek.com/v1",
		ManagerModel: "deepseek-chat",
		AgentModel:   "deepseek-chat",

		AdapterTimeout: 5 * time.Second,
		ReportCacheTTL: 300 * time.Second,
	}
}

// Load builds a Config from defaults, a .env file if present, and
// environment variables.
func Load() *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	setString(&cfg.Env, "FINSIGHT_ENV")
	setString(&cfg.LogLevel, "FINSIGHT_LOG_LEVEL")
	setInt(&cfg.Port, "FINSIGHT_PORT")

	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.ManagerModel, "MANAGER_MODEL")
	setString(&cfg.AgentModel, "AGENT_MODEL")

	setString(&cfg.AlphaVantageAPIKey, "ALPHA_VANTAGE_API_KEY")
	setString(&cfg.FinnhubAPIKey, "FINNHUB_API_KEY")
	setString(&cfg.NewsAPIKey, "NEWS_API_KEY")

	setString(&cfg.LongportAppKey, "LONGPORT_APP_KEY")
	setString(&cfg.LongportAppSecret, "LONGPORT_APP_SECRET")
	setString(&cfg.LongportAccessToken, "LONGPORT_ACCESS_TOKEN")

	setDuration(&cfg.AdapterTimeout, "ADAPTER_TIMEOUT")
	setDuration(&cfg.ReportCacheTTL, "REPORT_CACHE_TTL")

	return cfg
}

// HasLongport reports whether the Longport adapter can be configured.
func (c *Config) HasLongport() bool {
	return c.LongportAppKey != "" && c.LongportAppSecret != "" && c.LongportAccessToken != ""
}

// Validate checks settings that have no usable zero value.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AdapterTimeout <= 0 {
		return fmt.Errorf("adapter timeout must be positive, got %s", c.AdapterTimeout)
	}
	if c.ReportCacheTTL <= 0 {
		return fmt.Errorf("report cache TTL must be positive, got %s", c.ReportCacheTTL)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
