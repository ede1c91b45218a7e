// Package config handles configuration loading for StockScout.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/stockscout/stockscout/internal/match"
)

// Config represents the complete application configuration.
type Config struct {
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	Market   MarketConfig   `mapstructure:"market"   yaml:"market"`
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// ResolverConfig holds symbol-resolution settings. The optional paid search
// providers are enabled simply by supplying their keys; an empty key means
// the provider is skipped silently.
type ResolverConfig struct {
	MatchThreshold  float64 `mapstructure:"match_threshold"   yaml:"match_threshold"` // minimum fuzzy score to accept
	MaxCandidates   int     `mapstructure:"max_candidates"    yaml:"max_candidates"`  // generated ticker guesses per name
	AlphaVantageKey string  `mapstructure:"alpha_vantage_key" yaml:"alpha_vantage_key"`
	FinnhubKey      string  `mapstructure:"finnhub_key"       yaml:"finnhub_key"`
}

// MarketConfig holds market-data settings.
type MarketConfig struct {
	LookbackDays   int `mapstructure:"lookback_days"   yaml:"lookback_days"`   // price history window
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // per outbound call
}

// NewsConfig holds news extraction settings.
type NewsConfig struct {
	Limit      int    `mapstructure:"limit"       yaml:"limit"` // articles kept per source
	NewsAPIKey string `mapstructure:"newsapi_key" yaml:"newsapi_key"`
}

// LLMConfig holds LLM provider configuration for the analysis agents.
type LLMConfig struct {
	Primary      string  `mapstructure:"primary"       yaml:"primary"` // "openai", "ollama", or "anthropic"
	OpenAIKey    string  `mapstructure:"openai_key"    yaml:"openai_key"`
	AnthropicKey string  `mapstructure:"anthropic_key" yaml:"anthropic_key"`
	OllamaURL    string  `mapstructure:"ollama_url"    yaml:"ollama_url"`
	Model        string  `mapstructure:"model"         yaml:"model"`
	Temperature  float64 `mapstructure:"temperature"   yaml:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"    yaml:"max_tokens"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockscout/config.yaml (home directory)
//  3. /etc/stockscout/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKSCOUT_<SECTION>_<KEY>, e.g., STOCKSCOUT_LLM_OPENAI_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockscout"))
	v.AddConfigPath("/etc/stockscout")

	v.SetEnvPrefix("STOCKSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("STOCKSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("resolver.match_threshold", float64(match.DefaultThreshold))
	v.SetDefault("resolver.max_candidates", 10)

	v.SetDefault("market.lookback_days", 365)
	v.SetDefault("market.timeout_seconds", 10)

	v.SetDefault("news.limit", 10)

	v.SetDefault("llm.primary", "openai")
	v.SetDefault("llm.ollama_url", "http://localhost:11434")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 4096)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables,
// including the conventional unprefixed names used by each vendor.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("STOCKSCOUT_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.OpenAIKey == "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && cfg.LLM.AnthropicKey == "" {
		cfg.LLM.AnthropicKey = key
	}
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" && cfg.Resolver.AlphaVantageKey == "" {
		cfg.Resolver.AlphaVantageKey = key
	}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" && cfg.Resolver.FinnhubKey == "" {
		cfg.Resolver.FinnhubKey = key
	}
	if key := os.Getenv("NEWSAPI_KEY"); key != "" && cfg.News.NewsAPIKey == "" {
		cfg.News.NewsAPIKey = key
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
