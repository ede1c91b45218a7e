package datasource

// --- Yahoo Finance API response types ---

// yfValue is Yahoo's {raw, fmt} wrapper for numeric fields. Raw is a pointer
// so an omitted field is distinguishable from a genuine zero.
type yfValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// yfSearchResponse wraps the v1 search API response.
type yfSearchResponse struct {
	Quotes []yfSearchQuote `json:"quotes"`
}

type yfSearchQuote struct {
	Symbol         string `json:"symbol"`
	ShortName      string `json:"shortname"`
	LongName       string `json:"longname"`
	Exchange       string `json:"exchange"`
	QuoteType      string `json:"quoteType"`
	Sector         string `json:"sector"`
	Industry       string `json:"industry"`
	IsYahooFinance bool   `json:"isYahooFinance"`
}

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	AssetProfile         *yfAssetProfile         `json:"assetProfile"`
	SummaryDetail        *yfSummaryDetail        `json:"summaryDetail"`
	DefaultKeyStatistics *yfDefaultKeyStatistics `json:"defaultKeyStatistics"`
	FinancialData        *yfFinancialData        `json:"financialData"`
	QuoteType            *yfQuoteType            `json:"quoteType"`
	Price                *yfPrice                `json:"price"`
}

type yfAssetProfile struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

type yfQuoteType struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`
	Exchange  string `json:"exchange"`
}

type yfPrice struct {
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	RegularMarketPrice yfValue `json:"regularMarketPrice"`
	MarketCap          yfValue `json:"marketCap"`
}

type yfSummaryDetail struct {
	MarketCap        yfValue `json:"marketCap"`
	TrailingPE       yfValue `json:"trailingPE"`
	ForwardPE        yfValue `json:"forwardPE"`
	PriceToSales     yfValue `json:"priceToSalesTrailing12Months"`
	DividendRate     yfValue `json:"dividendRate"`
	DividendYield    yfValue `json:"dividendYield"`
	PayoutRatio      yfValue `json:"payoutRatio"`
	Beta             yfValue `json:"beta"`
	Currency         string  `json:"currency"`
}

type yfDefaultKeyStatistics struct {
	EnterpriseValue     yfValue `json:"enterpriseValue"`
	ForwardPE           yfValue `json:"forwardPE"`
	PegRatio            yfValue `json:"pegRatio"`
	PriceToBook         yfValue `json:"priceToBook"`
	EnterpriseToRevenue yfValue `json:"enterpriseToRevenue"`
	EnterpriseToEbitda  yfValue `json:"enterpriseToEbitda"`
	ProfitMargins       yfValue `json:"profitMargins"`
	BookValue           yfValue `json:"bookValue"`
	Beta                yfValue `json:"beta"`
	NetIncomeToCommon   yfValue `json:"netIncomeToCommon"`
}

type yfFinancialData struct {
	CurrentPrice     yfValue `json:"currentPrice"`
	ProfitMargins    yfValue `json:"profitMargins"`
	OperatingMargins yfValue `json:"operatingMargins"`
	ReturnOnAssets   yfValue `json:"returnOnAssets"`
	ReturnOnEquity   yfValue `json:"returnOnEquity"`
	RevenueGrowth    yfValue `json:"revenueGrowth"`
	EarningsGrowth   yfValue `json:"earningsGrowth"`
	TotalCash        yfValue `json:"totalCash"`
	TotalDebt        yfValue `json:"totalDebt"`
	DebtToEquity     yfValue `json:"debtToEquity"`
	CurrentRatio     yfValue `json:"currentRatio"`
	QuickRatio       yfValue `json:"quickRatio"`
	FreeCashflow     yfValue `json:"freeCashflow"`
	TotalRevenue     yfValue `json:"totalRevenue"`
}

// yfChartResponse wraps the v8 chart API response.
type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote    []yfOHLCV    `json:"quote"`
		AdjClose []yfAdjClose `json:"adjclose"`
	} `json:"indicators"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
