// Package pipeline assembles the full report bundle for one company name:
// resolution, profile and history fetch, indicator computation, signal
// classification, and news aggregation.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stockscout/stockscout/internal/analysis"
	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/pkg/models"
)

// SymbolResolver resolves a company name to a ticker.
type SymbolResolver interface {
	Resolve(ctx context.Context, companyName string) (models.ResolvedSymbol, error)
}

// NewsFetcher collects recent articles for a symbol.
type NewsFetcher interface {
	Fetch(ctx context.Context, symbol, companyName string) []models.NewsArticle
}

// Pipeline runs the full analysis flow and produces report bundles. All
// downstream consumers (reports, agents, API) work from its output only.
type Pipeline struct {
	resolver SymbolResolver
	market   datasource.MarketData
	news     NewsFetcher
	engine   *analysis.Engine
	lookback time.Duration
	log      zerolog.Logger
}

// New builds a pipeline. news may be nil to skip the news stage.
func New(resolver SymbolResolver, market datasource.MarketData, news NewsFetcher, lookback time.Duration, log zerolog.Logger) *Pipeline {
	if lookback <= 0 {
		lookback = 365 * 24 * time.Hour
	}
	return &Pipeline{
		resolver: resolver,
		market:   market,
		news:     news,
		engine:   analysis.NewEngine(log),
		lookback: lookback,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// Run produces the report bundle for a company name. A name that cannot
// be resolved yields a well-formed empty bundle and a nil error; failed
// upstream fetches degrade the affected sections instead of aborting.
func (p *Pipeline) Run(ctx context.Context, companyName string) (*models.ReportBundle, error) {
	bundle := &models.ReportBundle{
		CompanyName: companyName,
		Signals:     []string{},
		News:        []models.NewsArticle{},
		GeneratedAt: time.Now(),
	}

	resolved, err := p.resolver.Resolve(ctx, companyName)
	if err != nil {
		return bundle, err
	}
	if !resolved.Found() {
		p.log.Info().Str("query", companyName).Msg("no ticker resolved, returning empty bundle")
		return bundle, nil
	}

	bundle.Symbol = resolved.Symbol
	if resolved.CompanyName != "" {
		bundle.CompanyName = resolved.CompanyName
	}

	var (
		profile *datasource.CompanyProfile
		candles []models.OHLCV
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = p.market.GetProfile(gctx, resolved.Symbol)
		if err != nil {
			p.log.Warn().Err(err).Str("symbol", resolved.Symbol).Msg("profile fetch failed")
			profile = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		candles, err = p.market.GetDailyHistory(gctx, resolved.Symbol, p.lookback)
		if err != nil {
			p.log.Warn().Err(err).Str("symbol", resolved.Symbol).Msg("history fetch failed")
			candles = nil
		}
		return nil
	})
	if p.news != nil {
		g.Go(func() error {
			if articles := p.news.Fetch(gctx, resolved.Symbol, bundle.CompanyName); articles != nil {
				bundle.News = articles
			}
			return nil
		})
	}
	_ = g.Wait()

	bundle.BasicInfo = p.engine.BasicInfo(resolved.Symbol, profile)
	if bundle.BasicInfo.CompanyName != "" {
		bundle.CompanyName = bundle.BasicInfo.CompanyName
	}
	bundle.Fundamental = p.engine.Fundamentals(profile)
	bundle.Technical = p.engine.Technicals(candles)
	bundle.Signals = analysis.Signals(bundle.Technical)

	p.log.Info().
		Str("symbol", bundle.Symbol).
		Int("bars", len(candles)).
		Int("signals", len(bundle.Signals)).
		Int("news", len(bundle.News)).
		Msg("bundle assembled")
	return bundle, nil
}
