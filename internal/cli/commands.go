// Package cli wires the cobra command tree for the finsight binary.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/display"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/orchestrator"
	"github.com/finsight-ai/finsight/internal/server"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "finsight",
		Short: "FinSight - AI-Powered Stock Analysis",
		Long: `FinSight is a multi-agent stock analysis system powered by Large Language Models.
It plans an analysis, fans out to specialized agents for price, financial,
news, and sentiment data, and compiles the findings into a single report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return logging.Init(cfg.LogLevel, cfg.Env)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: prompt for a symbol and analyze it.
			return runAnalyze(cmd.Context(), cfg, "")
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newSearchCmd(cfg))
	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	return rootCmd
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Run stock analysis for a ticker symbol",
		Long: `Run a full multi-agent analysis for a given stock ticker symbol.
Example: finsight analyze AAPL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) > 0 {
				symbol = args[0]
			}
			return runAnalyze(cmd.Context(), cfg, symbol)
		},
	}
}

func newSearchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search for ticker symbols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := orchestrator.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			matches, err := orch.SearchSymbols(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(display.RenderMatches(matches))
			return nil
		},
	}
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  `Serve the analysis API (POST /api/analyze, GET /api/search) over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch, err := orchestrator.New(ctx, cfg)
			if err != nil {
				return err
			}

			fmt.Println(display.Banner())
			return server.New(cfg, orch).Run(ctx)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("FinSight v1.0.0")
			fmt.Println("AI-Powered Stock Analysis System")
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, symbol string) error {
	if symbol == "" {
		var err error
		symbol, err = PromptForSymbol()
		if err != nil {
			return err
		}
	}

	orch, err := orchestrator.New(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Starting analysis for %s\n", symbol)
	result, err := orch.AnalyzeSymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println(display.RenderResult(result))
	return nil
}

func showConfig(cfg *config.Config) {
	fmt.Println("Current FinSight Configuration:")
	fmt.Println("═══════════════════════════════")
	fmt.Printf("Environment:          %s\n", cfg.Env)
	fmt.Printf("Log Level:            %s\n", cfg.LogLevel)
	fmt.Printf("Port:                 %d\n", cfg.Port)
	fmt.Println()
	fmt.Printf("LLM Base URL:         %s\n", cfg.LLMBaseURL)
	fmt.Printf("Manager Model:        %s\n", cfg.ManagerModel)
	fmt.Printf("Agent Model:          %s\n", cfg.AgentModel)
	fmt.Println()
	fmt.Printf("Adapter Timeout:      %s\n", cfg.AdapterTimeout)
	fmt.Printf("Report Cache TTL:     %s\n", cfg.ReportCacheTTL)
	fmt.Println()

	fmt.Println("API Configuration:")
	fmt.Println("──────────────────")
	printKeyStatus("LLM API", cfg.LLMAPIKey != "")
	printKeyStatus("Alpha Vantage API", cfg.AlphaVantageAPIKey != "")
	printKeyStatus("Finnhub API", cfg.FinnhubAPIKey != "")
	printKeyStatus("News API", cfg.NewsAPIKey != "")
	printKeyStatus("Longport API", cfg.HasLongport())
}

func printKeyStatus(name string, configured bool) {
	status := "not configured"
	if configured {
		status = "configured"
	}
	fmt.Printf("%-22s%s\n", name+":", status)
}

func validateConfig(cfg *config.Config) error {
	fmt.Println("Validating FinSight configuration...")

	if err := cfg.Validate(); err != nil {
		return err
	}

	var missing []string
	if cfg.LLMAPIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if cfg.AlphaVantageAPIKey == "" {
		missing = append(missing, "ALPHA_VANTAGE_API_KEY")
	}
	if cfg.FinnhubAPIKey == "" {
		missing = append(missing, "FINNHUB_API_KEY")
	}
	if cfg.NewsAPIKey == "" {
		missing = append(missing, "NEWS_API_KEY")
	}

	if len(missing) > 0 {
		fmt.Println("Missing API keys (analysis degrades without them):")
		for _, key := range missing {
			fmt.Printf("  - %s\n", key)
		}
	} else {
		fmt.Println("All API keys configured.")
	}

	fmt.Println("Configuration is valid.")
	return nil
}
