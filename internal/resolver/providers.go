package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/internal/infra"
	"github.com/stockscout/stockscout/internal/match"
	"github.com/stockscout/stockscout/pkg/models"
)

// CandidateProvider produces ticker candidates for a company name from one
// upstream source. A provider that has nothing to offer returns an empty
// slice and no error.
type CandidateProvider interface {
	Name() string
	Search(ctx context.Context, companyName string) ([]models.SymbolCandidate, error)
}

// --- Yahoo Finance search ---

type yahooSearchProvider struct {
	source datasource.MarketData
}

// NewYahooSearchProvider wraps a market-data client's search endpoint as a
// candidate provider.
func NewYahooSearchProvider(source datasource.MarketData) CandidateProvider {
	return &yahooSearchProvider{source: source}
}

func (p *yahooSearchProvider) Name() string { return "yahoo-search" }

func (p *yahooSearchProvider) Search(ctx context.Context, companyName string) ([]models.SymbolCandidate, error) {
	return p.source.Search(ctx, companyName)
}

// --- Generated-symbol profile validation ---

type profileValidationProvider struct {
	source    datasource.MarketData
	threshold float64
	log       zerolog.Logger
}

// NewProfileValidationProvider guesses ticker symbols from the company name
// and keeps only the guesses whose fetched profile name actually matches.
func NewProfileValidationProvider(source datasource.MarketData, threshold float64, log zerolog.Logger) CandidateProvider {
	return &profileValidationProvider{
		source:    source,
		threshold: threshold,
		log:       log.With().Str("provider", "profile-validation").Logger(),
	}
}

func (p *profileValidationProvider) Name() string { return "profile-validation" }

func (p *profileValidationProvider) Search(ctx context.Context, companyName string) ([]models.SymbolCandidate, error) {
	guesses := GenerateSymbols(companyName)
	if len(guesses) == 0 {
		return nil, nil
	}

	results := make([]*models.SymbolCandidate, len(guesses))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, symbol := range guesses {
		g.Go(func() error {
			profile, err := p.source.GetProfile(gctx, symbol)
			if err != nil {
				// An unknown guess is the expected case, not a failure.
				if !errors.Is(err, datasource.ErrSymbolNotFound) {
					p.log.Debug().Err(err).Str("symbol", symbol).Msg("profile lookup failed")
				}
				return nil
			}
			if profile.LongName == "" {
				return nil
			}
			if !match.Passes(companyName, profile.LongName, p.threshold) {
				return nil
			}
			mu.Lock()
			results[i] = &models.SymbolCandidate{
				Symbol:       profile.Symbol,
				Name:         profile.LongName,
				Exchange:     profile.Exchange,
				SecurityType: "EQUITY",
				Sector:       profile.Sector,
				Industry:     profile.Industry,
				Source:       models.SourceProfileValidation,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Preserve guess order so earlier, stronger guesses win dedupe ties.
	var candidates []models.SymbolCandidate
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, *r)
		}
	}
	return candidates, nil
}

// --- Alpha Vantage SYMBOL_SEARCH ---

const alphaVantageURL = "https://www.alphavantage.co/query"

type alphaVantageProvider struct {
	apiKey  string
	baseURL string
}

// NewAlphaVantageProvider searches Alpha Vantage's SYMBOL_SEARCH endpoint.
// With an empty API key the provider is inert and returns no candidates.
func NewAlphaVantageProvider(apiKey string) CandidateProvider {
	return &alphaVantageProvider{apiKey: apiKey, baseURL: alphaVantageURL}
}

func (p *alphaVantageProvider) Name() string { return "alpha-vantage" }

type avSearchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
		Type   string `json:"3. type"`
		Region string `json:"4. region"`
	} `json:"bestMatches"`
}

func (p *alphaVantageProvider) Search(ctx context.Context, companyName string) ([]models.SymbolCandidate, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", companyName)
	params.Set("apikey", p.apiKey)

	data, err := infra.GetBytes(ctx, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage search: %w", err)
	}

	var resp avSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("alpha vantage search: decode: %w", err)
	}

	candidates := make([]models.SymbolCandidate, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		if m.Symbol == "" {
			continue
		}
		candidates = append(candidates, models.SymbolCandidate{
			Symbol:       models.NormalizeSymbol(m.Symbol),
			Name:         m.Name,
			Exchange:     m.Region,
			SecurityType: m.Type,
			Source:       models.SourceAlphaVantage,
		})
	}
	return candidates, nil
}

// --- Finnhub symbol search ---

const finnhubURL = "https://finnhub.io/api/v1/search"

type finnhubProvider struct {
	apiKey  string
	baseURL string
}

// NewFinnhubProvider searches Finnhub's symbol lookup endpoint. With an
// empty API key the provider is inert and returns no candidates.
func NewFinnhubProvider(apiKey string) CandidateProvider {
	return &finnhubProvider{apiKey: apiKey, baseURL: finnhubURL}
}

func (p *finnhubProvider) Name() string { return "finnhub" }

type fhSearchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Description   string `json:"description"`
		DisplaySymbol string `json:"displaySymbol"`
		Symbol        string `json:"symbol"`
		Type          string `json:"type"`
	} `json:"result"`
}

func (p *finnhubProvider) Search(ctx context.Context, companyName string) ([]models.SymbolCandidate, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", companyName)
	params.Set("token", p.apiKey)

	data, err := infra.GetBytes(ctx, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("finnhub search: %w", err)
	}

	var resp fhSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("finnhub search: decode: %w", err)
	}

	candidates := make([]models.SymbolCandidate, 0, len(resp.Result))
	for _, r := range resp.Result {
		if r.Symbol == "" {
			continue
		}
		candidates = append(candidates, models.SymbolCandidate{
			Symbol:       models.NormalizeSymbol(r.Symbol),
			Name:         r.Description,
			SecurityType: r.Type,
			Source:       models.SourceFinnhub,
		})
	}
	return candidates, nil
}
