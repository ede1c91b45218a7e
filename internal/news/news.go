// Package news aggregates recent stock news from RSS feeds and the Finviz
// quote page, deduplicates it, and attaches a headline tone score.
package news

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stockscout/stockscout/internal/infra"
	"github.com/stockscout/stockscout/pkg/models"
)

const (
	yahooFeedURL      = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"
	googleNewsFeedURL = "https://news.google.com/rss/search?q=%s+stock&hl=en-US&gl=US&ceid=US:en"
	marketWatchURL    = "https://feeds.content.dowjones.io/public/rss/mw_topstories"
	finvizQuoteURL    = "https://finviz.com/quote.ashx?t=%s"
)

// source is one news origin behind the extractor fan-out.
type source struct {
	name  string
	fetch func(ctx context.Context, symbol, companyName string) ([]models.NewsArticle, error)
}

// Extractor collects news for a symbol from several sources concurrently.
// A failing source is logged and contributes nothing.
type Extractor struct {
	limit   int
	sources []source
	parser  *gofeed.Parser
	cache   *infra.Cache
	log     zerolog.Logger
}

// NewExtractor builds an extractor that returns at most limit articles.
func NewExtractor(limit int, log zerolog.Logger) *Extractor {
	e := &Extractor{
		limit:  limit,
		parser: gofeed.NewParser(),
		cache:  infra.NewCache(10 * time.Minute),
		log:    log.With().Str("component", "news").Logger(),
	}
	e.parser.UserAgent = infra.DefaultUserAgent
	e.sources = []source{
		{name: "yahoo-rss", fetch: e.fetchYahooRSS},
		{name: "google-news", fetch: e.fetchGoogleNews},
		{name: "marketwatch", fetch: e.fetchMarketWatch},
		{name: "finviz", fetch: e.fetchFinviz},
	}
	return e
}

// Fetch returns up to the configured limit of recent articles for symbol,
// newest first, with duplicate headlines across sources removed.
func (e *Extractor) Fetch(ctx context.Context, symbol, companyName string) []models.NewsArticle {
	symbol = models.NormalizeSymbol(symbol)
	cacheKey := "news:" + symbol
	if v, ok := e.cache.Get(cacheKey); ok {
		return v.([]models.NewsArticle)
	}

	perSource := make([][]models.NewsArticle, len(e.sources))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range e.sources {
		g.Go(func() error {
			articles, err := s.fetch(gctx, symbol, companyName)
			if err != nil {
				e.log.Warn().Err(err).Str("news_source", s.name).Msg("news source unavailable")
				return nil
			}
			mu.Lock()
			perSource[i] = articles
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.NewsArticle
	for _, batch := range perSource {
		merged = append(merged, batch...)
	}

	articles := e.finalize(merged, symbol)
	e.cache.Set(cacheKey, articles)
	return articles
}

// finalize deduplicates by normalized title, scores sentiment, sorts
// newest first, and applies the article limit.
func (e *Extractor) finalize(merged []models.NewsArticle, symbol string) []models.NewsArticle {
	seen := make(map[string]struct{}, len(merged))
	out := make([]models.NewsArticle, 0, len(merged))
	for _, a := range merged {
		key := strings.ToLower(strings.TrimSpace(a.Title))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		a.Symbol = symbol
		a.Sentiment, a.Score = ScoreSentiment(a.Title, a.Summary)
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	if e.limit > 0 && len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

func (e *Extractor) fetchYahooRSS(ctx context.Context, symbol, _ string) ([]models.NewsArticle, error) {
	return e.fetchFeed(ctx, fmt.Sprintf(yahooFeedURL, url.QueryEscape(symbol)), "Yahoo Finance", "rss")
}

func (e *Extractor) fetchGoogleNews(ctx context.Context, _, companyName string) ([]models.NewsArticle, error) {
	return e.fetchFeed(ctx, fmt.Sprintf(googleNewsFeedURL, url.QueryEscape(companyName)), "Google News", "rss")
}

// fetchMarketWatch pulls the top-stories feed and keeps items mentioning
// the company. The feed is not symbol-scoped, so most items are filtered.
func (e *Extractor) fetchMarketWatch(ctx context.Context, symbol, companyName string) ([]models.NewsArticle, error) {
	articles, err := e.fetchFeed(ctx, marketWatchURL, "MarketWatch", "rss")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(companyName)
	ticker := strings.ToLower(symbol)
	var kept []models.NewsArticle
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Summary)
		if (needle != "" && strings.Contains(text, needle)) || strings.Contains(text, ticker) {
			kept = append(kept, a)
		}
	}
	return kept, nil
}

func (e *Extractor) fetchFeed(ctx context.Context, feedURL, sourceName, method string) ([]models.NewsArticle, error) {
	feed, err := e.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", sourceName, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			Summary: strings.TrimSpace(item.Description),
			URL:     item.Link,
			Source:  sourceName,
			Method:  method,
		}
		if item.PublishedParsed != nil {
			a.Published = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// fetchFinviz scrapes the news table on the Finviz quote page.
func (e *Extractor) fetchFinviz(ctx context.Context, symbol, _ string) ([]models.NewsArticle, error) {
	body, _, err := infra.DoGet(ctx, fmt.Sprintf(finvizQuoteURL, url.QueryEscape(symbol)), nil)
	if err != nil {
		return nil, fmt.Errorf("finviz quote page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("finviz parse: %w", err)
	}

	var articles []models.NewsArticle
	var lastDate time.Time
	doc.Find("table.fullview-news-outer tr, #news-table tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}
		href, _ := link.Attr("href")

		published := lastDate
		if ts := strings.TrimSpace(row.Find("td").First().Text()); ts != "" {
			if t, ok := parseFinvizTime(ts, lastDate); ok {
				published = t
				lastDate = t
			}
		}

		articles = append(articles, models.NewsArticle{
			Title:     title,
			URL:       href,
			Published: published,
			Source:    "Finviz",
			Method:    "scrape",
		})
	})
	return articles, nil
}

// parseFinvizTime handles Finviz's two cell formats: "Jan-02-25 04:15PM"
// on the first row of a day and a bare "04:15PM" on the rest. Bare times
// reuse the date from the previous full timestamp.
func parseFinvizTime(s string, prev time.Time) (time.Time, bool) {
	if t, err := time.Parse("Jan-02-06 03:04PM", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("03:04PM", s); err == nil {
		if prev.IsZero() {
			return time.Time{}, false
		}
		return time.Date(prev.Year(), prev.Month(), prev.Day(),
			t.Hour(), t.Minute(), 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
