// Package resolver turns free-form company names into exchange ticker
// symbols. Candidates are collected from several upstream sources, scored
// against the query with fuzzy string matching, and the best match above
// the configured threshold wins.
package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stockscout/stockscout/internal/match"
	"github.com/stockscout/stockscout/pkg/models"
)

// Resolver resolves company names to ticker symbols using an ordered list
// of candidate providers.
type Resolver struct {
	providers []CandidateProvider
	threshold float64
	log       zerolog.Logger
}

// New builds a Resolver over the given providers. Provider order decides
// which source wins when two report the same symbol.
func New(providers []CandidateProvider, threshold float64, log zerolog.Logger) *Resolver {
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}
	return &Resolver{
		providers: providers,
		threshold: threshold,
		log:       log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve finds the ticker symbol best matching companyName. When no
// candidate scores above the threshold the zero ResolvedSymbol is returned
// with a nil error; an unmatched name is an outcome, not a failure.
func (r *Resolver) Resolve(ctx context.Context, companyName string) (models.ResolvedSymbol, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return models.ResolvedSymbol{}, nil
	}

	candidates := r.Candidates(ctx, companyName)
	if len(candidates) == 0 {
		r.log.Info().Str("query", companyName).Msg("no candidates from any source")
		return models.ResolvedSymbol{}, nil
	}

	best := candidates[0]
	if best.MatchScore <= r.threshold {
		r.log.Info().
			Str("query", companyName).
			Str("best_symbol", best.Symbol).
			Float64("best_score", best.MatchScore).
			Msg("best candidate below threshold")
		return models.ResolvedSymbol{}, nil
	}

	r.log.Info().
		Str("query", companyName).
		Str("symbol", best.Symbol).
		Float64("score", best.MatchScore).
		Str("source", string(best.Source)).
		Msg("resolved")

	return models.ResolvedSymbol{
		Symbol:      best.Symbol,
		CompanyName: best.Name,
		Exchange:    best.Exchange,
		Source:      best.Source,
		MatchScore:  best.MatchScore,
	}, nil
}

// Candidates collects, deduplicates, rescores, and ranks candidates from
// every provider. A failing provider is logged and skipped; the survivors
// still produce a ranking.
func (r *Resolver) Candidates(ctx context.Context, companyName string) []models.SymbolCandidate {
	perProvider := make([][]models.SymbolCandidate, len(r.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range r.providers {
		g.Go(func() error {
			found, err := p.Search(gctx, companyName)
			if err != nil {
				r.log.Warn().Err(err).Str("provider", p.Name()).Msg("candidate source unavailable")
				return nil
			}
			perProvider[i] = found
			return nil
		})
	}
	_ = g.Wait() // provider errors are absorbed above

	// Merge in provider order so the dedupe below is deterministic.
	var merged []models.SymbolCandidate
	for _, found := range perProvider {
		merged = append(merged, found...)
	}

	seen := make(map[string]struct{}, len(merged))
	deduped := merged[:0]
	for _, c := range merged {
		key := strings.ToUpper(c.Symbol)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		c.Symbol = key // symbols are upper-cased, whatever the provider sent
		c.MatchScore = match.Score(companyName, c.Name)
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].MatchScore > deduped[j].MatchScore
	})
	return deduped
}
