// Package api provides the HTTP REST API server for StockScout.
//
// It exposes endpoints for symbol resolution, full report-bundle analysis,
// rendered reports, raw market data, news, and WebSocket streaming of
// analysis progress.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/internal/agent"
	"github.com/stockscout/stockscout/internal/config"
	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/internal/llm"
	"github.com/stockscout/stockscout/internal/news"
	"github.com/stockscout/stockscout/internal/pipeline"
	"github.com/stockscout/stockscout/internal/report"
	"github.com/stockscout/stockscout/internal/resolver"
	"github.com/stockscout/stockscout/pkg/models"
)

// Analyzer produces a report bundle for a company name.
type Analyzer interface {
	Run(ctx context.Context, companyName string) (*models.ReportBundle, error)
}

// SymbolSearcher resolves company names to tickers and lists candidates.
type SymbolSearcher interface {
	Resolve(ctx context.Context, companyName string) (models.ResolvedSymbol, error)
	Candidates(ctx context.Context, companyName string) []models.SymbolCandidate
}

// Advisor runs the LLM analyst sequence over a bundle.
type Advisor interface {
	Available() bool
	Run(ctx context.Context, b *models.ReportBundle, status agent.StatusFunc) (*agent.Analysis, error)
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	pipeline Analyzer
	search   SymbolSearcher
	market   datasource.MarketData
	news     pipeline.NewsFetcher
	advisor  Advisor
	wsHub    *WSHub
	log      zerolog.Logger
}

// NewServer wires the full data path and returns a configured API server.
func NewServer(cfg *config.Config, log zerolog.Logger) *Server {
	yahoo := datasource.NewYahoo(log)

	providers := []resolver.CandidateProvider{
		resolver.NewYahooSearchProvider(yahoo),
		resolver.NewProfileValidationProvider(yahoo, cfg.Resolver.MatchThreshold, log),
	}
	if cfg.Resolver.AlphaVantageKey != "" {
		providers = append(providers, resolver.NewAlphaVantageProvider(cfg.Resolver.AlphaVantageKey))
	}
	if cfg.Resolver.FinnhubKey != "" {
		providers = append(providers, resolver.NewFinnhubProvider(cfg.Resolver.FinnhubKey))
	}
	res := resolver.New(providers, cfg.Resolver.MatchThreshold, log)

	extractor := news.NewExtractor(cfg.News.Limit, log)
	lookback := time.Duration(cfg.Market.LookbackDays) * 24 * time.Hour
	pipe := pipeline.New(res, yahoo, extractor, lookback, log)

	client := llm.NewFromSettings(llm.ClientConfig{
		Primary:      cfg.LLM.Primary,
		OpenAIKey:    cfg.LLM.OpenAIKey,
		AnthropicKey: cfg.LLM.AnthropicKey,
		OllamaURL:    cfg.LLM.OllamaURL,
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
	}, log)

	srv := &Server{
		cfg:      cfg,
		pipeline: pipe,
		search:   res,
		market:   yahoo,
		news:     extractor,
		advisor:  agent.NewSupervisor(client, log),
		wsHub:    NewWSHub(),
		log:      log.With().Str("component", "api").Logger(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()
	s.log.Info().Str("addr", addr).Msg("API server listening")

	<-done
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Resolution
		r.Get("/resolve", s.handleResolve)

		// Analysis
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/report", s.handleReport)

		// Raw market data
		r.Get("/profile/{symbol}", s.handleProfile)
		r.Get("/history/{symbol}", s.handleHistory)
		r.Get("/news/{symbol}", s.handleNews)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/keys", s.handleConfigKeys)

		// WebSocket progress stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Company string `json:"company"`
	WithAI  bool   `json:"with_ai,omitempty"`
}

// AnalyzeResponse pairs a report bundle with the optional AI analysis.
type AnalyzeResponse struct {
	Bundle *models.ReportBundle `json:"bundle"`
	AI     *agent.Analysis      `json:"ai,omitempty"`
}

// ReportRequest is the body for POST /api/v1/report.
type ReportRequest struct {
	Company string `json:"company"`
	Format  string `json:"format,omitempty"` // "markdown" (default), "html", "pdf"
}

// ResolveResponse is the payload for GET /api/v1/resolve.
type ResolveResponse struct {
	Query      string                   `json:"query"`
	Resolved   models.ResolvedSymbol    `json:"resolved"`
	Candidates []models.SymbolCandidate `json:"candidates"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":       "ok",
			"time":         time.Now().UTC().Format(time.RFC3339),
			"ai_available": s.advisor != nil && s.advisor.Available(),
			"ws_clients":   s.wsHub.ClientCount(),
		},
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	resolved, err := s.search.Resolve(ctx, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	candidates := s.search.Candidates(ctx, name)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ResolveResponse{
			Query:      name,
			Resolved:   resolved,
			Candidates: candidates,
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	bundle, err := s.pipeline.Run(ctx, req.Company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := AnalyzeResponse{Bundle: bundle}
	if req.WithAI && bundle.Resolved() && s.advisor != nil && s.advisor.Available() {
		analysis, err := s.advisor.Run(ctx, bundle, func(st agent.Status) {
			s.wsHub.Broadcast(WSMessage{Type: "agent_status", Data: st})
		})
		if err != nil {
			s.log.Warn().Err(err).Str("company", req.Company).Msg("AI analysis failed")
		} else {
			resp.AI = analysis
		}
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"company": bundle.CompanyName,
			"symbol":  bundle.Symbol,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = "markdown"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	bundle, err := s.pipeline.Run(ctx, req.Company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	md := report.Markdown(bundle)
	title := bundle.CompanyName
	if title == "" {
		title = req.Company
	}

	switch format {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(md)) //nolint:errcheck
	case "html":
		html, err := report.HTML(md, title)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html)) //nolint:errcheck
	case "pdf":
		pdf, err := report.PDF(md, title)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(pdf) //nolint:errcheck
	default:
		writeError(w, http.StatusBadRequest, "format must be markdown, html, or pdf")
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	profile, err := s.market.GetProfile(ctx, symbol)
	if err != nil {
		if errors.Is(err, datasource.ErrSymbolNotFound) {
			writeError(w, http.StatusNotFound, "symbol not found")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: profile})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	days := s.cfg.Market.LookbackDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	candles, err := s.market.GetDailyHistory(ctx, symbol, time.Duration(days)*24*time.Hour)
	if err != nil {
		if errors.Is(err, datasource.ErrSymbolNotFound) {
			writeError(w, http.StatusNotFound, "symbol not found")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: candles})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	company := r.URL.Query().Get("company")
	if company == "" {
		company = symbol
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	articles := s.news.Fetch(ctx, symbol, company)
	if articles == nil {
		articles = []models.NewsArticle{}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: articles})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already committed; an encode failure here is unreportable.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
