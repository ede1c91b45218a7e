package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/pkg/models"
)

type stubProvider struct {
	name       string
	candidates []models.SymbolCandidate
	err        error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, companyName string) ([]models.SymbolCandidate, error) {
	return s.candidates, s.err
}

func cand(symbol, name string, source models.CandidateSource) models.SymbolCandidate {
	return models.SymbolCandidate{Symbol: symbol, Name: name, Source: source}
}

func TestResolvePicksBestMatch(t *testing.T) {
	r := New([]CandidateProvider{
		&stubProvider{name: "a", candidates: []models.SymbolCandidate{
			cand("AAPL", "Apple Inc.", models.SourceYahooSearch),
			cand("APLE", "Apple Hospitality REIT, Inc.", models.SourceYahooSearch),
		}},
	}, 60, zerolog.Nop())

	got, err := r.Resolve(context.Background(), "Apple Inc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.Found() {
		t.Fatal("expected a resolution")
	}
	if got.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", got.Symbol)
	}
	if got.MatchScore <= 60 {
		t.Errorf("MatchScore = %v, want > 60", got.MatchScore)
	}
}

func TestResolveBelowThresholdReturnsEmpty(t *testing.T) {
	r := New([]CandidateProvider{
		&stubProvider{name: "a", candidates: []models.SymbolCandidate{
			cand("ZZZ", "Completely Unrelated Holdings", models.SourceYahooSearch),
		}},
	}, 60, zerolog.Nop())

	got, err := r.Resolve(context.Background(), "Quantum Banana Labs")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Found() {
		t.Errorf("expected no resolution, got %+v", got)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	r := New(nil, 60, zerolog.Nop())
	got, err := r.Resolve(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Found() {
		t.Errorf("expected zero value, got %+v", got)
	}
}

func TestCandidatesDedupeFirstProviderWins(t *testing.T) {
	r := New([]CandidateProvider{
		&stubProvider{name: "first", candidates: []models.SymbolCandidate{
			cand("msft", "Microsoft Corporation", models.SourceYahooSearch),
		}},
		&stubProvider{name: "second", candidates: []models.SymbolCandidate{
			cand("MSFT", "Microsoft Corp duplicate", models.SourceFinnhub),
		}},
	}, 60, zerolog.Nop())

	got := r.Candidates(context.Background(), "Microsoft")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Source != models.SourceYahooSearch {
		t.Errorf("dedupe kept %q, want first provider's entry", got[0].Source)
	}
	if got[0].Symbol != "MSFT" {
		t.Errorf("Symbol = %q, want the upper-cased form", got[0].Symbol)
	}
}

func TestCandidatesSurvivesProviderFailure(t *testing.T) {
	r := New([]CandidateProvider{
		&stubProvider{name: "broken", err: errors.New("upstream down")},
		&stubProvider{name: "working", candidates: []models.SymbolCandidate{
			cand("NVDA", "NVIDIA Corporation", models.SourceYahooSearch),
		}},
	}, 60, zerolog.Nop())

	got := r.Candidates(context.Background(), "NVIDIA")
	if len(got) != 1 || got[0].Symbol != "NVDA" {
		t.Fatalf("candidates = %+v, want the working provider's result", got)
	}
}

func TestCandidatesSortedByScore(t *testing.T) {
	r := New([]CandidateProvider{
		&stubProvider{name: "a", candidates: []models.SymbolCandidate{
			cand("APLE", "Apple Hospitality REIT, Inc.", models.SourceYahooSearch),
			cand("AAPL", "Apple Inc.", models.SourceYahooSearch),
		}},
	}, 60, zerolog.Nop())

	got := r.Candidates(context.Background(), "Apple Inc.")
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].MatchScore > got[i-1].MatchScore {
			t.Errorf("candidates not sorted by descending score: %+v", got)
		}
	}
	if got[0].Symbol != "AAPL" {
		t.Errorf("top candidate = %q, want AAPL", got[0].Symbol)
	}
}
