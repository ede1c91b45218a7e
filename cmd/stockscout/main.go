// StockScout — company-name-to-report stock analysis.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stockscout/stockscout/api"
	"github.com/stockscout/stockscout/internal/agent"
	"github.com/stockscout/stockscout/internal/config"
	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/internal/llm"
	"github.com/stockscout/stockscout/internal/news"
	"github.com/stockscout/stockscout/internal/pipeline"
	"github.com/stockscout/stockscout/internal/report"
	"github.com/stockscout/stockscout/internal/resolver"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set in PersistentPreRunE.
var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	// A .env file is optional; ignore a missing one.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockscout",
	Short: "StockScout — stock analysis from a company name",
	Long: `StockScout resolves free-text company names to ticker symbols,
fetches fundamentals, price history, and news, computes technical
indicators and trading signals, and renders reports — optionally with
an AI analyst write-up on top.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger = setupLogger(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(serveCmd)
}

// setupLogger builds the root logger from the logging config.
func setupLogger(lc config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || lc.Level == "" {
		level = zerolog.InfoLevel
	}

	if lc.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// buildStack wires the resolver, data source, news extractor, and pipeline
// from the loaded config. Shared by the analysis commands.
func buildStack() (*resolver.Resolver, datasource.MarketData, *pipeline.Pipeline) {
	yahoo := datasource.NewYahoo(logger)

	providers := []resolver.CandidateProvider{
		resolver.NewYahooSearchProvider(yahoo),
		resolver.NewProfileValidationProvider(yahoo, cfg.Resolver.MatchThreshold, logger),
	}
	if cfg.Resolver.AlphaVantageKey != "" {
		providers = append(providers, resolver.NewAlphaVantageProvider(cfg.Resolver.AlphaVantageKey))
	}
	if cfg.Resolver.FinnhubKey != "" {
		providers = append(providers, resolver.NewFinnhubProvider(cfg.Resolver.FinnhubKey))
	}
	res := resolver.New(providers, cfg.Resolver.MatchThreshold, logger)

	extractor := news.NewExtractor(cfg.News.Limit, logger)
	lookback := time.Duration(cfg.Market.LookbackDays) * 24 * time.Hour
	pipe := pipeline.New(res, yahoo, extractor, lookback, logger)

	return res, yahoo, pipe
}

// buildSupervisor assembles the LLM analyst sequence from the config.
func buildSupervisor() *agent.Supervisor {
	client := llm.NewFromSettings(llm.ClientConfig{
		Primary:      cfg.LLM.Primary,
		OpenAIKey:    cfg.LLM.OpenAIKey,
		AnthropicKey: cfg.LLM.AnthropicKey,
		OllamaURL:    cfg.LLM.OllamaURL,
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
	}, logger)
	return agent.NewSupervisor(client, logger)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StockScout %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Resolve Command ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [company name]",
	Short: "Resolve a company name to a ticker symbol",
	Long: `Resolve a free-text company name to a ticker symbol and list all
candidates that were considered, ranked by fuzzy match score.

Examples:
  stockscout resolve "Apple"
  stockscout resolve "Advanced Micro Devices"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		res, _, _ := buildStack()

		candidates := res.Candidates(cmd.Context(), name)
		resolved, err := res.Resolve(cmd.Context(), name)
		if err != nil {
			return err
		}

		if !resolved.Found() {
			fmt.Printf("No ticker symbol found for %q\n", name)
		} else {
			fmt.Printf("%s → %s (%s, score %.0f)\n",
				name, resolved.Symbol, resolved.CompanyName, resolved.MatchScore)
		}

		if len(candidates) > 0 {
			fmt.Println("\nCandidates:")
			for _, c := range candidates {
				fmt.Printf("  %-8s %-40s %5.1f  [%s]\n",
					c.Symbol, truncateTo(c.Name, 40), c.MatchScore, c.Source)
			}
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [company name]",
	Short: "Run the full analysis pipeline for a company",
	Long: `Resolve the company, fetch fundamentals, price history, and news,
compute technical indicators and signals, and print the report as
Markdown. With --ai, the LLM analyst sequence appends its write-up.

Examples:
  stockscout analyze "Apple"
  stockscout analyze --ai "Tesla"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		withAI, _ := cmd.Flags().GetBool("ai")

		_, _, pipe := buildStack()
		bundle, err := pipe.Run(cmd.Context(), name)
		if err != nil {
			return err
		}

		md := report.Markdown(bundle)
		fmt.Print(md)

		if withAI && bundle.Resolved() {
			sup := buildSupervisor()
			if !sup.Available() {
				fmt.Fprintln(os.Stderr, "AI analysis skipped: no LLM provider configured")
				return nil
			}
			analysis, err := sup.Run(cmd.Context(), bundle, func(st agent.Status) {
				fmt.Fprintf(os.Stderr, "[%s] %s %s\n", st.State, st.Agent, st.Message)
			})
			if err != nil {
				return fmt.Errorf("AI analysis failed: %w", err)
			}
			fmt.Println()
			fmt.Print(analysis.Markdown)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("ai", false, "append the LLM analyst write-up")
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [company name]",
	Short: "Generate a report file for a company",
	Long: `Run the full analysis pipeline and write the report to a file in
the requested format.

Examples:
  stockscout report "Apple"
  stockscout report --format pdf --out apple.pdf "Apple"
  stockscout report --format html "Microsoft"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format = strings.ToLower(format)
		switch format {
		case "markdown", "html", "pdf":
		default:
			return fmt.Errorf("format must be markdown, html, or pdf")
		}
		if out == "" {
			out = "report." + map[string]string{"markdown": "md", "html": "html", "pdf": "pdf"}[format]
		}

		_, _, pipe := buildStack()
		bundle, err := pipe.Run(cmd.Context(), name)
		if err != nil {
			return err
		}

		md := report.Markdown(bundle)
		title := bundle.CompanyName
		if title == "" {
			title = name
		}

		var data []byte
		switch format {
		case "markdown":
			data = []byte(md)
		case "html":
			html, err := report.HTML(md, title)
			if err != nil {
				return err
			}
			data = []byte(html)
		case "pdf":
			data, err = report.PDF(md, title)
			if err != nil {
				return err
			}
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("Report written to %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	reportCmd.Flags().String("format", "markdown", "output format: markdown, html, or pdf")
	reportCmd.Flags().String("out", "", "output file path (default: report.<ext>)")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [company name]",
	Short: "Fetch recent news headlines for a company",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		res, _, _ := buildStack()

		resolved, err := res.Resolve(cmd.Context(), name)
		if err != nil {
			return err
		}
		if !resolved.Found() {
			return fmt.Errorf("no ticker symbol found for %q", name)
		}

		extractor := news.NewExtractor(cfg.News.Limit, logger)
		articles := extractor.Fetch(cmd.Context(), resolved.Symbol, resolved.CompanyName)
		if len(articles) == 0 {
			fmt.Printf("No recent news for %s\n", resolved.Symbol)
			return nil
		}

		fmt.Printf("Recent news for %s (%s):\n\n", resolved.Symbol, resolved.CompanyName)
		for _, a := range articles {
			sentiment := ""
			if a.Sentiment != "" {
				sentiment = fmt.Sprintf(" [%s]", a.Sentiment)
			}
			fmt.Printf("  %s  %s%s\n", a.Published.Format("2006-01-02"), a.Title, sentiment)
			if a.URL != "" {
				fmt.Printf("      %s\n", a.URL)
			}
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := api.NewServer(cfg, logger)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

func truncateTo(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
