package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/pkg/models"
)

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		title string
		want  models.SentimentLabel
	}{
		{"Apple shares surge to record high after strong earnings beat", models.SentimentPositive},
		{"Tesla stock plunges on weak deliveries, analysts cut targets", models.SentimentNegative},
		{"Microsoft schedules annual shareholder meeting", models.SentimentNeutral},
		{"Profits rise despite lawsuit concerns", models.SentimentNeutral}, // balanced
		{"", models.SentimentNeutral},
	}
	for _, tt := range tests {
		got, score := ScoreSentiment(tt.title, "")
		if got != tt.want {
			t.Errorf("ScoreSentiment(%q) = %s (%.2f), want %s", tt.title, got, score, tt.want)
		}
		if score < -1 || score > 1 {
			t.Errorf("score %.2f out of range for %q", score, tt.title)
		}
	}
}

func TestScoreSentimentUsesSummary(t *testing.T) {
	got, _ := ScoreSentiment("Quarterly results", "Revenue growth beats expectations, strong momentum")
	if got != models.SentimentPositive {
		t.Errorf("summary keywords ignored, got %s", got)
	}
}

func newTestExtractor(limit int, sources ...source) *Extractor {
	e := NewExtractor(limit, zerolog.Nop())
	e.sources = sources
	return e
}

func fixed(articles []models.NewsArticle) source {
	return source{
		name: "fixed",
		fetch: func(ctx context.Context, symbol, companyName string) ([]models.NewsArticle, error) {
			return articles, nil
		},
	}
}

func TestFetchDeduplicatesAcrossSources(t *testing.T) {
	now := time.Now()
	e := newTestExtractor(10,
		fixed([]models.NewsArticle{
			{Title: "Apple beats estimates", Source: "A", Published: now},
		}),
		fixed([]models.NewsArticle{
			{Title: "apple beats estimates", Source: "B", Published: now.Add(-time.Hour)},
			{Title: "New iPhone announced", Source: "B", Published: now.Add(-2 * time.Hour)},
		}),
	)

	got := e.Fetch(context.Background(), "AAPL", "Apple")
	if len(got) != 2 {
		t.Fatalf("got %d articles, want 2 after dedupe", len(got))
	}
	if got[0].Source != "A" {
		t.Errorf("dedupe should keep the first source's copy, got %q", got[0].Source)
	}
}

func TestFetchSortsNewestFirstAndLimits(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	e := newTestExtractor(2, fixed([]models.NewsArticle{
		{Title: "oldest", Published: base},
		{Title: "newest", Published: base.Add(48 * time.Hour)},
		{Title: "middle", Published: base.Add(24 * time.Hour)},
	}))

	got := e.Fetch(context.Background(), "AAPL", "Apple")
	if len(got) != 2 {
		t.Fatalf("got %d articles, want limit of 2", len(got))
	}
	if got[0].Title != "newest" || got[1].Title != "middle" {
		t.Errorf("order = [%s, %s], want newest first", got[0].Title, got[1].Title)
	}
}

func TestFetchSurvivesSourceFailure(t *testing.T) {
	broken := source{
		name: "broken",
		fetch: func(ctx context.Context, symbol, companyName string) ([]models.NewsArticle, error) {
			return nil, errors.New("feed down")
		},
	}
	e := newTestExtractor(10, broken, fixed([]models.NewsArticle{
		{Title: "still works", Published: time.Now()},
	}))

	got := e.Fetch(context.Background(), "AAPL", "Apple")
	if len(got) != 1 || got[0].Title != "still works" {
		t.Fatalf("articles = %+v, want the working source's item", got)
	}
}

func TestFetchTagsSymbolAndSentiment(t *testing.T) {
	e := newTestExtractor(10, fixed([]models.NewsArticle{
		{Title: "Shares surge on strong growth", Published: time.Now()},
	}))

	got := e.Fetch(context.Background(), "nvda", "NVIDIA")
	if len(got) != 1 {
		t.Fatalf("got %d articles", len(got))
	}
	if got[0].Symbol != "NVDA" {
		t.Errorf("Symbol = %q, want NVDA", got[0].Symbol)
	}
	if got[0].Sentiment != models.SentimentPositive {
		t.Errorf("Sentiment = %s, want Positive", got[0].Sentiment)
	}
}

func TestParseFinvizTime(t *testing.T) {
	full, ok := parseFinvizTime("Jun-05-25 04:15PM", time.Time{})
	if !ok || full.Year() != 2025 || full.Hour() != 16 {
		t.Fatalf("full timestamp parse failed: %v %v", full, ok)
	}
	bare, ok := parseFinvizTime("09:30AM", full)
	if !ok || bare.Day() != full.Day() || bare.Hour() != 9 {
		t.Fatalf("bare time should reuse previous date: %v %v", bare, ok)
	}
	if _, ok := parseFinvizTime("09:30AM", time.Time{}); ok {
		t.Error("bare time with no prior date should not parse")
	}
}
