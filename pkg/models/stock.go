// Package models defines the core data structures used throughout StockScout.
package models

import (
	"strings"
	"time"
)

// CandidateSource identifies which upstream search produced a SymbolCandidate.
type CandidateSource string

const (
	SourceYahooSearch        CandidateSource = "Yahoo Finance"
	SourceProfileValidation  CandidateSource = "yfinance validation"
	SourceAlphaVantage       CandidateSource = "Alpha Vantage"
	SourceFinnhub            CandidateSource = "Finnhub"
)

// SymbolCandidate is one possible ticker for a searched company name.
// Candidates are produced transiently per search and never persisted.
// Symbol is always non-empty, upper-cased ASCII.
type SymbolCandidate struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Exchange     string          `json:"exchange,omitempty"`
	SecurityType string          `json:"type,omitempty"`
	Sector       string          `json:"sector,omitempty"`
	Industry     string          `json:"industry,omitempty"`
	Source       CandidateSource `json:"source"`
	MatchScore   float64         `json:"match_score"` // 0–100, against the query name
}

// ResolvedSymbol is the accepted top-ranked candidate for a query.
// A zero Symbol means resolution failed; callers treat that as a valid
// "no match" outcome, not an error.
type ResolvedSymbol struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	Exchange    string          `json:"exchange,omitempty"`
	Source      CandidateSource `json:"source,omitempty"`
	MatchScore  float64         `json:"match_score"`
}

// Found reports whether a symbol was actually resolved.
func (r ResolvedSymbol) Found() bool { return r.Symbol != "" }

// OHLCV represents a single daily candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	AdjClose  float64   `json:"adj_close,omitempty"`
}

// BasicInfo is the fixed company-profile projection shown at the top of a
// report. Missing upstream fields carry the NotAvailable marker.
type BasicInfo struct {
	Symbol       string `json:"symbol"`
	CompanyName  string `json:"company_name"`
	Sector       string `json:"sector"`
	Industry     string `json:"industry"`
	CurrentPrice Metric `json:"current_price"`
	MarketCap    Metric `json:"market_cap"`
	Currency     string `json:"currency"`
}

// Empty reports whether the profile fetch yielded nothing at all.
func (b BasicInfo) Empty() bool { return b.Symbol == "" && b.CompanyName == "" }

// FundamentalSnapshot is the fixed set of ratio fields projected from the
// company profile. Every field defaults independently to NotAvailable.
type FundamentalSnapshot struct {
	// Valuation
	PERatio         Metric `json:"pe_ratio"`
	ForwardPE       Metric `json:"forward_pe"`
	PEGRatio        Metric `json:"peg_ratio"`
	PriceToBook     Metric `json:"price_to_book"`
	PriceToSales    Metric `json:"price_to_sales"`
	EnterpriseValue Metric `json:"enterprise_value"`
	EVToRevenue     Metric `json:"ev_to_revenue"`
	EVToEBITDA      Metric `json:"ev_to_ebitda"`

	// Profitability
	ProfitMargin    Metric `json:"profit_margin"`
	OperatingMargin Metric `json:"operating_margin"`
	ReturnOnAssets  Metric `json:"return_on_assets"`
	ReturnOnEquity  Metric `json:"return_on_equity"`
	RevenueGrowth   Metric `json:"revenue_growth"`
	EarningsGrowth  Metric `json:"earnings_growth"`

	// Financial health
	TotalCash    Metric `json:"total_cash"`
	TotalDebt    Metric `json:"total_debt"`
	DebtToEquity Metric `json:"debt_to_equity"`
	CurrentRatio Metric `json:"current_ratio"`
	QuickRatio   Metric `json:"quick_ratio"`

	// Dividends
	DividendRate  Metric `json:"dividend_rate"`
	DividendYield Metric `json:"dividend_yield"`
	PayoutRatio   Metric `json:"payout_ratio"`

	// Other
	Beta         Metric `json:"beta"`
	BookValue    Metric `json:"book_value"`
	FreeCashFlow Metric `json:"free_cash_flow"`
	RevenueTTM   Metric `json:"revenue_ttm"`
	NetIncomeTTM Metric `json:"net_income_ttm"`
}

// TechnicalSnapshot holds the latest values of each technical indicator,
// computed from the final bar of a price series plus its rolling windows.
// Display rounding is 2 decimals, 4 for the MACD family.
type TechnicalSnapshot struct {
	CurrentPrice   Metric `json:"current_price"`
	SMA20          Metric `json:"sma_20"`
	SMA50          Metric `json:"sma_50"`
	SMA200         Metric `json:"sma_200"`
	EMA12          Metric `json:"ema_12"`
	EMA26          Metric `json:"ema_26"`
	RSI            Metric `json:"rsi"`
	MACD           Metric `json:"macd"`
	MACDSignal     Metric `json:"macd_signal"`
	MACDHistogram  Metric `json:"macd_histogram"`
	BollingerUpper Metric `json:"bollinger_upper"`
	BollingerLower Metric `json:"bollinger_lower"`
	StochasticK    Metric `json:"stochastic_k"`
	StochasticD    Metric `json:"stochastic_d"`
	Volume         Metric `json:"volume"`
	WeekHigh52     Metric `json:"week_high_52"`
	WeekLow52      Metric `json:"week_low_52"`
}

// Empty reports whether the snapshot carries no data at all, which is what
// an empty price history produces.
func (t TechnicalSnapshot) Empty() bool { return !t.CurrentPrice.Valid }

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
