// Package datasource provides data fetching from external market-data
// sources. It defines the MarketData interface consumed by the resolver and
// the indicator engine, and implements it for Yahoo Finance's public APIs.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/stockscout/stockscout/pkg/models"
)

// ErrSymbolNotFound is returned when a symbol has no data upstream.
var ErrSymbolNotFound = errors.New("symbol not found")

// ErrNoData is returned when an upstream response is well-formed but empty.
var ErrNoData = errors.New("no data returned")

// CompanyProfile is the full company-profile payload from the quote provider.
// Every numeric field is a Metric because upstream omits fields freely.
type CompanyProfile struct {
	Symbol   string `json:"symbol"`
	LongName string `json:"long_name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`

	CurrentPrice models.Metric `json:"current_price"`
	MarketCap    models.Metric `json:"market_cap"`

	// Valuation
	TrailingPE         models.Metric `json:"trailing_pe"`
	ForwardPE          models.Metric `json:"forward_pe"`
	PegRatio           models.Metric `json:"peg_ratio"`
	PriceToBook        models.Metric `json:"price_to_book"`
	PriceToSales       models.Metric `json:"price_to_sales"`
	EnterpriseValue    models.Metric `json:"enterprise_value"`
	EnterpriseToRev    models.Metric `json:"enterprise_to_revenue"`
	EnterpriseToEBITDA models.Metric `json:"enterprise_to_ebitda"`

	// Profitability
	ProfitMargins    models.Metric `json:"profit_margins"`
	OperatingMargins models.Metric `json:"operating_margins"`
	ReturnOnAssets   models.Metric `json:"return_on_assets"`
	ReturnOnEquity   models.Metric `json:"return_on_equity"`
	RevenueGrowth    models.Metric `json:"revenue_growth"`
	EarningsGrowth   models.Metric `json:"earnings_growth"`

	// Balance sheet
	TotalCash    models.Metric `json:"total_cash"`
	TotalDebt    models.Metric `json:"total_debt"`
	DebtToEquity models.Metric `json:"debt_to_equity"`
	CurrentRatio models.Metric `json:"current_ratio"`
	QuickRatio   models.Metric `json:"quick_ratio"`

	// Dividends
	DividendRate  models.Metric `json:"dividend_rate"`
	DividendYield models.Metric `json:"dividend_yield"`
	PayoutRatio   models.Metric `json:"payout_ratio"`

	// Other
	Beta              models.Metric `json:"beta"`
	BookValue         models.Metric `json:"book_value"`
	FreeCashflow      models.Metric `json:"free_cashflow"`
	TotalRevenue      models.Metric `json:"total_revenue"`
	NetIncomeToCommon models.Metric `json:"net_income_to_common"`
}

// MarketData is the interface the symbol resolver and indicator engine
// consume. A single implementation backed by Yahoo Finance is the default;
// tests substitute fakes.
type MarketData interface {
	// Search runs a free-text symbol search and returns candidates flagged
	// as belonging to the provider itself.
	Search(ctx context.Context, query string) ([]models.SymbolCandidate, error)

	// GetProfile fetches the company profile for a symbol.
	GetProfile(ctx context.Context, symbol string) (*CompanyProfile, error)

	// GetDailyHistory fetches daily OHLCV bars for the trailing lookback
	// window, ascending by date. Missing sessions are simply absent.
	GetDailyHistory(ctx context.Context, symbol string, lookback time.Duration) ([]models.OHLCV, error)
}
