// Package api — configuration inspection endpoints.
package api

import (
	"net/http"

	"github.com/stockscout/stockscout/internal/config"
)

// ConfigView is the redacted configuration returned by GET /api/v1/config.
// API keys are never echoed back; only their presence is reported via
// GET /api/v1/config/keys.
type ConfigView struct {
	Resolver struct {
		MatchThreshold float64 `json:"match_threshold"`
		MaxCandidates  int     `json:"max_candidates"`
	} `json:"resolver"`
	Market config.MarketConfig `json:"market"`
	News   struct {
		Limit int `json:"limit"`
	} `json:"news"`
	LLM struct {
		Primary     string  `json:"primary"`
		OllamaURL   string  `json:"ollama_url"`
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	} `json:"llm"`
	API     config.APIConfig     `json:"api"`
	Logging config.LoggingConfig `json:"logging"`
}

// handleGetConfig returns the running configuration with secrets stripped.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	var view ConfigView
	view.Resolver.MatchThreshold = s.cfg.Resolver.MatchThreshold
	view.Resolver.MaxCandidates = s.cfg.Resolver.MaxCandidates
	view.Market = s.cfg.Market
	view.News.Limit = s.cfg.News.Limit
	view.LLM.Primary = s.cfg.LLM.Primary
	view.LLM.OllamaURL = s.cfg.LLM.OllamaURL
	view.LLM.Model = s.cfg.LLM.Model
	view.LLM.Temperature = s.cfg.LLM.Temperature
	view.LLM.MaxTokens = s.cfg.LLM.MaxTokens
	view.API = s.cfg.API
	view.Logging = s.cfg.Logging

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    view,
	})
}

// handleConfigKeys reports which optional API keys are configured.
func (s *Server) handleConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]bool{
			"openai":        s.cfg.LLM.OpenAIKey != "",
			"anthropic":     s.cfg.LLM.AnthropicKey != "",
			"alpha_vantage": s.cfg.Resolver.AlphaVantageKey != "",
			"finnhub":       s.cfg.Resolver.FinnhubKey != "",
			"newsapi":       s.cfg.News.NewsAPIKey != "",
		},
	})
}
