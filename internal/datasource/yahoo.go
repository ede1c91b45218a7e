package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/internal/infra"
	"github.com/stockscout/stockscout/pkg/models"
)

const (
	yahooSearchURL       = "https://query2.finance.yahoo.com/v1/finance/search"
	yahooQuoteSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
	yahooChartURL        = "https://query2.finance.yahoo.com/v8/finance/chart"

	profileCacheTTL = 15 * time.Minute
	historyCacheTTL = 30 * time.Minute
	searchCacheTTL  = 10 * time.Minute
)

// Yahoo fetches market data from the public Yahoo Finance JSON endpoints.
// It satisfies MarketData and is safe for concurrent use.
type Yahoo struct {
	cache   *infra.Cache
	limiter *infra.RateLimiter
	log     zerolog.Logger

	searchURL       string
	quoteSummaryURL string
	chartURL        string
}

// NewYahoo builds a Yahoo client with a shared cache and a rate limiter
// tuned to stay under Yahoo's unauthenticated request ceiling.
func NewYahoo(log zerolog.Logger) *Yahoo {
	return &Yahoo{
		cache:           infra.NewCache(5 * time.Minute),
		limiter:         infra.NewRateLimiter(5, time.Second),
		log:             log.With().Str("source", "yahoo").Logger(),
		searchURL:       yahooSearchURL,
		quoteSummaryURL: yahooQuoteSummaryURL,
		chartURL:        yahooChartURL,
	}
}

// Search queries the v1 search endpoint and returns equity candidates.
// Results not backed by Yahoo Finance itself are dropped.
func (y *Yahoo) Search(ctx context.Context, query string) ([]models.SymbolCandidate, error) {
	cacheKey := "yahoo:search:" + strings.ToLower(query)
	if v, ok := y.cache.Get(cacheKey); ok {
		return v.([]models.SymbolCandidate), nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", "10")
	params.Set("newsCount", "0")
	params.Set("enableFuzzyQuery", "false")

	var resp yfSearchResponse
	if err := y.fetchJSON(ctx, y.searchURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("yahoo search %q: %w", query, err)
	}

	candidates := make([]models.SymbolCandidate, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if !q.IsYahooFinance || q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		candidates = append(candidates, models.SymbolCandidate{
			Symbol:       models.NormalizeSymbol(q.Symbol),
			Name:         name,
			Exchange:     q.Exchange,
			SecurityType: q.QuoteType,
			Sector:       q.Sector,
			Industry:     q.Industry,
			Source:       models.SourceYahooSearch,
		})
	}

	y.cache.SetWithTTL(cacheKey, candidates, searchCacheTTL)
	return candidates, nil
}

// GetProfile fetches the company profile via the v10 quoteSummary endpoint.
// Missing numeric fields come back as absent metrics rather than zeros.
func (y *Yahoo) GetProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	symbol = models.NormalizeSymbol(symbol)
	cacheKey := "yahoo:profile:" + symbol
	if v, ok := y.cache.Get(cacheKey); ok {
		return v.(*CompanyProfile), nil
	}

	params := url.Values{}
	params.Set("modules", "assetProfile,summaryDetail,defaultKeyStatistics,financialData,quoteType,price")
	params.Set("corsDomain", "finance.yahoo.com")
	params.Set("formatted", "false")
	u := fmt.Sprintf("%s/%s?%s", y.quoteSummaryURL, url.PathEscape(symbol), params.Encode())

	var resp yfQuoteSummaryResponse
	if err := y.fetchJSON(ctx, u, &resp); err != nil {
		if herr, ok := infra.AsErrHTTP(err); ok && herr.StatusCode == 404 {
			return nil, fmt.Errorf("yahoo profile %s: %w", symbol, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo profile %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo profile %s: %s: %w",
			symbol, resp.QuoteSummary.Error.Description, ErrSymbolNotFound)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo profile %s: %w", symbol, ErrSymbolNotFound)
	}

	profile := buildProfile(symbol, resp.QuoteSummary.Result[0])
	y.cache.SetWithTTL(cacheKey, profile, profileCacheTTL)
	return profile, nil
}

// GetDailyHistory fetches daily candles for the lookback window ending now.
// Rows with a missing close are skipped; candles come back oldest first.
func (y *Yahoo) GetDailyHistory(ctx context.Context, symbol string, lookback time.Duration) ([]models.OHLCV, error) {
	symbol = models.NormalizeSymbol(symbol)
	cacheKey := fmt.Sprintf("yahoo:history:%s:%d", symbol, int64(lookback.Hours()))
	if v, ok := y.cache.Get(cacheKey); ok {
		return v.([]models.OHLCV), nil
	}

	now := time.Now()
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", now.Add(-lookback).Unix()))
	params.Set("period2", fmt.Sprintf("%d", now.Unix()))
	params.Set("interval", "1d")
	params.Set("events", "div,splits")
	u := fmt.Sprintf("%s/%s?%s", y.chartURL, url.PathEscape(symbol), params.Encode())

	var resp yfChartResponse
	if err := y.fetchJSON(ctx, u, &resp); err != nil {
		if herr, ok := infra.AsErrHTTP(err); ok && herr.StatusCode == 404 {
			return nil, fmt.Errorf("yahoo history %s: %w", symbol, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo history %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo history %s: %s: %w",
			symbol, resp.Chart.Error.Description, ErrSymbolNotFound)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo history %s: %w", symbol, ErrNoData)
	}

	candles := buildCandles(resp.Chart.Result[0])
	if len(candles) == 0 {
		return nil, fmt.Errorf("yahoo history %s: %w", symbol, ErrNoData)
	}

	y.cache.SetWithTTL(cacheKey, candles, historyCacheTTL)
	return candles, nil
}

func (y *Yahoo) fetchJSON(ctx context.Context, url string, out any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}
	y.log.Debug().Str("url", url).Msg("fetching")
	body, _, err := infra.DoGet(ctx, url, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func buildProfile(symbol string, r yfQuoteSummaryResult) *CompanyProfile {
	p := &CompanyProfile{Symbol: symbol}

	if qt := r.QuoteType; qt != nil {
		if qt.LongName != "" {
			p.LongName = qt.LongName
		} else {
			p.LongName = qt.ShortName
		}
		p.Exchange = qt.Exchange
	}
	if pr := r.Price; pr != nil {
		if p.LongName == "" {
			p.LongName = pr.LongName
		}
		if p.Exchange == "" {
			p.Exchange = pr.ExchangeName
		}
		p.Currency = pr.Currency
		p.CurrentPrice = metric(pr.RegularMarketPrice)
		p.MarketCap = metric(pr.MarketCap)
	}
	if ap := r.AssetProfile; ap != nil {
		p.Sector = ap.Sector
		p.Industry = ap.Industry
	}
	if sd := r.SummaryDetail; sd != nil {
		if !p.MarketCap.Valid {
			p.MarketCap = metric(sd.MarketCap)
		}
		if p.Currency == "" {
			p.Currency = sd.Currency
		}
		p.TrailingPE = metric(sd.TrailingPE)
		p.ForwardPE = metric(sd.ForwardPE)
		p.PriceToSales = metric(sd.PriceToSales)
		p.DividendRate = metric(sd.DividendRate)
		p.DividendYield = metric(sd.DividendYield)
		p.PayoutRatio = metric(sd.PayoutRatio)
		p.Beta = metric(sd.Beta)
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		p.EnterpriseValue = metric(ks.EnterpriseValue)
		if !p.ForwardPE.Valid {
			p.ForwardPE = metric(ks.ForwardPE)
		}
		p.PegRatio = metric(ks.PegRatio)
		p.PriceToBook = metric(ks.PriceToBook)
		p.EnterpriseToRev = metric(ks.EnterpriseToRevenue)
		p.EnterpriseToEBITDA = metric(ks.EnterpriseToEbitda)
		p.BookValue = metric(ks.BookValue)
		p.NetIncomeToCommon = metric(ks.NetIncomeToCommon)
		if !p.Beta.Valid {
			p.Beta = metric(ks.Beta)
		}
		if !p.ProfitMargins.Valid {
			p.ProfitMargins = metric(ks.ProfitMargins)
		}
	}
	if fd := r.FinancialData; fd != nil {
		if !p.CurrentPrice.Valid {
			p.CurrentPrice = metric(fd.CurrentPrice)
		}
		if !p.ProfitMargins.Valid {
			p.ProfitMargins = metric(fd.ProfitMargins)
		}
		p.OperatingMargins = metric(fd.OperatingMargins)
		p.ReturnOnAssets = metric(fd.ReturnOnAssets)
		p.ReturnOnEquity = metric(fd.ReturnOnEquity)
		p.RevenueGrowth = metric(fd.RevenueGrowth)
		p.EarningsGrowth = metric(fd.EarningsGrowth)
		p.TotalCash = metric(fd.TotalCash)
		p.TotalDebt = metric(fd.TotalDebt)
		p.DebtToEquity = metric(fd.DebtToEquity)
		p.CurrentRatio = metric(fd.CurrentRatio)
		p.QuickRatio = metric(fd.QuickRatio)
		p.FreeCashflow = metric(fd.FreeCashflow)
		p.TotalRevenue = metric(fd.TotalRevenue)
	}
	return p
}

func buildCandles(r yfChartResult) []models.OHLCV {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	quote := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	candles := make([]models.OHLCV, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		c := deref(quote.Close, i)
		if c == nil {
			continue
		}
		candle := models.OHLCV{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *c,
		}
		if v := deref(quote.Open, i); v != nil {
			candle.Open = *v
		} else {
			candle.Open = *c
		}
		if v := deref(quote.High, i); v != nil {
			candle.High = *v
		} else {
			candle.High = *c
		}
		if v := deref(quote.Low, i); v != nil {
			candle.Low = *v
		} else {
			candle.Low = *c
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		if adj != nil {
			if v := deref(adj, i); v != nil {
				candle.AdjClose = *v
			} else {
				candle.AdjClose = *c
			}
		} else {
			candle.AdjClose = *c
		}
		candles = append(candles, candle)
	}
	return candles
}

func metric(v yfValue) models.Metric {
	if v.Raw == nil {
		return models.NA()
	}
	return models.Num(*v.Raw)
}

func deref(s []*float64, i int) *float64 {
	if i >= len(s) {
		return nil
	}
	return s[i]
}
