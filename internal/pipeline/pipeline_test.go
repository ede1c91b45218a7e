package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/pkg/models"
)

type stubResolver struct {
	result models.ResolvedSymbol
	err    error
}

func (s *stubResolver) Resolve(ctx context.Context, companyName string) (models.ResolvedSymbol, error) {
	return s.result, s.err
}

type stubMarket struct {
	profile    *datasource.CompanyProfile
	profileErr error
	candles    []models.OHLCV
	candlesErr error
}

func (s *stubMarket) Search(ctx context.Context, query string) ([]models.SymbolCandidate, error) {
	return nil, nil
}

func (s *stubMarket) GetProfile(ctx context.Context, symbol string) (*datasource.CompanyProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubMarket) GetDailyHistory(ctx context.Context, symbol string, lookback time.Duration) ([]models.OHLCV, error) {
	return s.candles, s.candlesErr
}

type stubNews struct {
	articles []models.NewsArticle
}

func (s *stubNews) Fetch(ctx context.Context, symbol, companyName string) []models.NewsArticle {
	return s.articles
}

func candles(n int) []models.OHLCV {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.OHLCV, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = models.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		}
	}
	return out
}

func TestRunFullBundle(t *testing.T) {
	p := New(
		&stubResolver{result: models.ResolvedSymbol{Symbol: "AAPL", CompanyName: "Apple Inc."}},
		&stubMarket{
			profile: &datasource.CompanyProfile{
				Symbol:       "AAPL",
				LongName:     "Apple Inc.",
				Sector:       "Technology",
				CurrentPrice: models.Num(232.5),
				TrailingPE:   models.Num(35.2),
			},
			candles: candles(260),
		},
		&stubNews{articles: []models.NewsArticle{{Title: "Apple beats estimates"}}},
		0, zerolog.Nop(),
	)

	b, err := p.Run(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !b.Resolved() || b.Symbol != "AAPL" {
		t.Fatalf("bundle not resolved: %+v", b)
	}
	if b.CompanyName != "Apple Inc." {
		t.Errorf("CompanyName = %q", b.CompanyName)
	}
	if !b.Fundamental.PERatio.Valid {
		t.Error("fundamentals not projected")
	}
	if b.Technical.Empty() {
		t.Error("technicals not computed")
	}
	if len(b.Signals) == 0 {
		t.Error("no signals on a trending series")
	}
	if len(b.News) != 1 {
		t.Errorf("news = %d items, want 1", len(b.News))
	}
	if b.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestRunUnresolvedNameYieldsEmptyBundle(t *testing.T) {
	p := New(&stubResolver{}, &stubMarket{}, nil, 0, zerolog.Nop())

	b, err := p.Run(context.Background(), "Quantum Banana Labs")
	if err != nil {
		t.Fatalf("unresolved name must not be an error, got %v", err)
	}
	if b.Resolved() {
		t.Fatalf("bundle should be empty: %+v", b)
	}
	if b.CompanyName != "Quantum Banana Labs" {
		t.Errorf("CompanyName = %q, want the query echoed back", b.CompanyName)
	}
	if b.Signals == nil || b.News == nil {
		t.Error("empty bundle should carry empty, non-nil collections")
	}
	if !b.Technical.Empty() || !b.BasicInfo.Empty() {
		t.Error("empty bundle should carry empty snapshots")
	}
}

func TestRunDegradesOnFetchFailures(t *testing.T) {
	p := New(
		&stubResolver{result: models.ResolvedSymbol{Symbol: "AAPL"}},
		&stubMarket{
			profileErr: errors.New("profile down"),
			candlesErr: errors.New("chart down"),
		},
		nil, 0, zerolog.Nop(),
	)

	b, err := p.Run(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("fetch failures must degrade, not abort: %v", err)
	}
	if !b.Resolved() {
		t.Error("bundle should still carry the resolved symbol")
	}
	if !b.Technical.Empty() {
		t.Error("technicals should be empty when history fails")
	}
	if !b.BasicInfo.Empty() {
		t.Error("basic info should be empty when profile fails")
	}
	if len(b.Signals) != 0 {
		t.Errorf("no signals should fire on empty data, got %v", b.Signals)
	}
}

func TestRunWithoutNewsFetcher(t *testing.T) {
	p := New(
		&stubResolver{result: models.ResolvedSymbol{Symbol: "AAPL"}},
		&stubMarket{candles: candles(30)},
		nil, 0, zerolog.Nop(),
	)
	b, err := p.Run(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(b.News) != 0 {
		t.Errorf("news = %v, want empty without a fetcher", b.News)
	}
}
