// Package report renders a ReportBundle into Markdown, HTML, and PDF. The
// Markdown rendering is the canonical one: it is deterministic for a given
// bundle and the other formats derive from it.
package report

import (
	"fmt"
	"strings"

	"github.com/stockscout/stockscout/pkg/models"
)

// Markdown renders the full report for a bundle. Sections with no data
// state that plainly rather than disappearing, so a report for a failed
// resolution is still a complete document.
func Markdown(b *models.ReportBundle) string {
	var sb strings.Builder

	title := b.CompanyName
	if title == "" {
		title = b.Symbol
	}
	if title == "" {
		title = "Unknown Company"
	}
	fmt.Fprintf(&sb, "# Stock Analysis Report: %s\n\n", title)
	if b.Symbol != "" {
		fmt.Fprintf(&sb, "**Symbol:** %s  \n", b.Symbol)
	}
	if !b.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "**Generated:** %s  \n", b.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	sb.WriteString("\n")

	if !b.Resolved() {
		sb.WriteString("No ticker symbol could be resolved for this company. ")
		sb.WriteString("No market data is available.\n")
		return sb.String()
	}

	writeCompanySection(&sb, b)
	writeFundamentalSection(&sb, b.Fundamental)
	writeTechnicalSection(&sb, b.Technical)
	writeSignalSection(&sb, b.Signals)
	writeNewsSection(&sb, b.News)

	return sb.String()
}

func writeCompanySection(sb *strings.Builder, b *models.ReportBundle) {
	sb.WriteString("## Company Overview\n\n")
	info := b.BasicInfo
	if info.Empty() {
		sb.WriteString("Company profile data is not available.\n\n")
		return
	}
	sb.WriteString("| Field | Value |\n|---|---|\n")
	row(sb, "Company", info.CompanyName)
	row(sb, "Sector", info.Sector)
	row(sb, "Industry", info.Industry)
	row(sb, "Current Price", info.CurrentPrice.Format(2))
	row(sb, "Market Cap", formatLarge(info.MarketCap))
	row(sb, "Currency", info.Currency)
	sb.WriteString("\n")
}

func writeFundamentalSection(sb *strings.Builder, f models.FundamentalSnapshot) {
	sb.WriteString("## Fundamental Analysis\n\n")

	sb.WriteString("### Valuation\n\n| Metric | Value |\n|---|---|\n")
	row(sb, "P/E Ratio (TTM)", f.PERatio.Format(2))
	row(sb, "Forward P/E", f.ForwardPE.Format(2))
	row(sb, "PEG Ratio", f.PEGRatio.Format(2))
	row(sb, "Price/Book", f.PriceToBook.Format(2))
	row(sb, "Price/Sales", f.PriceToSales.Format(2))
	row(sb, "Enterprise Value", formatLarge(f.EnterpriseValue))
	row(sb, "EV/Revenue", f.EVToRevenue.Format(2))
	row(sb, "EV/EBITDA", f.EVToEBITDA.Format(2))

	sb.WriteString("\n### Profitability\n\n| Metric | Value |\n|---|---|\n")
	row(sb, "Profit Margin", formatPercent(f.ProfitMargin))
	row(sb, "Operating Margin", formatPercent(f.OperatingMargin))
	row(sb, "Return on Assets", formatPercent(f.ReturnOnAssets))
	row(sb, "Return on Equity", formatPercent(f.ReturnOnEquity))
	row(sb, "Revenue Growth", formatPercent(f.RevenueGrowth))
	row(sb, "Earnings Growth", formatPercent(f.EarningsGrowth))

	sb.WriteString("\n### Financial Health\n\n| Metric | Value |\n|---|---|\n")
	row(sb, "Total Cash", formatLarge(f.TotalCash))
	row(sb, "Total Debt", formatLarge(f.TotalDebt))
	row(sb, "Debt/Equity", f.DebtToEquity.Format(2))
	row(sb, "Current Ratio", f.CurrentRatio.Format(2))
	row(sb, "Quick Ratio", f.QuickRatio.Format(2))

	sb.WriteString("\n### Dividends\n\n| Metric | Value |\n|---|---|\n")
	row(sb, "Dividend Rate", f.DividendRate.Format(2))
	row(sb, "Dividend Yield", formatPercent(f.DividendYield))
	row(sb, "Payout Ratio", formatPercent(f.PayoutRatio))

	sb.WriteString("\n### Other\n\n| Metric | Value |\n|---|---|\n")
	row(sb, "Beta", f.Beta.Format(2))
	row(sb, "Book Value", f.BookValue.Format(2))
	row(sb, "Free Cash Flow", formatLarge(f.FreeCashFlow))
	row(sb, "Revenue (TTM)", formatLarge(f.RevenueTTM))
	row(sb, "Net Income (TTM)", formatLarge(f.NetIncomeTTM))
	sb.WriteString("\n")
}

func writeTechnicalSection(sb *strings.Builder, t models.TechnicalSnapshot) {
	sb.WriteString("## Technical Analysis\n\n")
	if t.Empty() {
		sb.WriteString("No price history is available for technical analysis.\n\n")
		return
	}
	sb.WriteString("| Indicator | Value |\n|---|---|\n")
	row(sb, "Current Price", t.CurrentPrice.Format(2))
	row(sb, "SMA 20", t.SMA20.Format(2))
	row(sb, "SMA 50", t.SMA50.Format(2))
	row(sb, "SMA 200", t.SMA200.Format(2))
	row(sb, "EMA 12", t.EMA12.Format(2))
	row(sb, "EMA 26", t.EMA26.Format(2))
	row(sb, "RSI (14)", t.RSI.Format(2))
	row(sb, "MACD", t.MACD.Format(4))
	row(sb, "MACD Signal", t.MACDSignal.Format(4))
	row(sb, "MACD Histogram", t.MACDHistogram.Format(4))
	row(sb, "Bollinger Upper", t.BollingerUpper.Format(2))
	row(sb, "Bollinger Lower", t.BollingerLower.Format(2))
	row(sb, "Stochastic %K", t.StochasticK.Format(2))
	row(sb, "Stochastic %D", t.StochasticD.Format(2))
	row(sb, "Volume", formatLarge(t.Volume))
	row(sb, "52-Week High", t.WeekHigh52.Format(2))
	row(sb, "52-Week Low", t.WeekLow52.Format(2))
	sb.WriteString("\n")
}

func writeSignalSection(sb *strings.Builder, signals []string) {
	sb.WriteString("## Trading Signals\n\n")
	if len(signals) == 0 {
		sb.WriteString("No trading signals triggered.\n\n")
		return
	}
	for _, s := range signals {
		fmt.Fprintf(sb, "- %s\n", s)
	}
	sb.WriteString("\n")
}

func writeNewsSection(sb *strings.Builder, news []models.NewsArticle) {
	sb.WriteString("## Recent News\n\n")
	if len(news) == 0 {
		sb.WriteString("No recent news found.\n\n")
		return
	}
	for _, a := range news {
		fmt.Fprintf(sb, "- **%s**", a.Title)
		if a.Source != "" {
			fmt.Fprintf(sb, " (%s)", a.Source)
		}
		if a.Sentiment != "" {
			fmt.Fprintf(sb, " — %s", a.Sentiment)
		}
		sb.WriteString("\n")
		if a.Summary != "" {
			fmt.Fprintf(sb, "  %s\n", truncate(a.Summary, 200))
		}
	}
	sb.WriteString("\n")
}

func row(sb *strings.Builder, label, value string) {
	if value == "" {
		value = models.NotAvailable
	}
	fmt.Fprintf(sb, "| %s | %s |\n", label, value)
}

// formatLarge renders big money/volume numbers with T/B/M/K suffixes.
func formatLarge(m models.Metric) string {
	if !m.Valid {
		return models.NotAvailable
	}
	v := m.Value
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return m.Format(2)
	}
}

// formatPercent renders an upstream ratio (0.042 = 4.2%) as a percentage.
func formatPercent(m models.Metric) string {
	if !m.Valid {
		return models.NotAvailable
	}
	return fmt.Sprintf("%.2f%%", m.Value*100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
