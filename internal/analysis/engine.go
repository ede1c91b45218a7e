package analysis

import (
	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/pkg/models"
)

// Engine turns raw upstream data into the report-ready snapshots.
type Engine struct {
	log zerolog.Logger
}

// NewEngine builds an analysis engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "analysis").Logger()}
}

// BasicInfo projects the identity fields of a company profile. A nil
// profile yields the zero value.
func (e *Engine) BasicInfo(symbol string, p *datasource.CompanyProfile) models.BasicInfo {
	if p == nil {
		return models.BasicInfo{}
	}
	return models.BasicInfo{
		Symbol:       symbol,
		CompanyName:  p.LongName,
		Sector:       p.Sector,
		Industry:     p.Industry,
		CurrentPrice: p.CurrentPrice,
		MarketCap:    p.MarketCap,
		Currency:     p.Currency,
	}
}

// Fundamentals projects the fixed ratio set from a company profile. Each
// field carries over independently; a nil profile yields a snapshot of
// absent metrics.
func (e *Engine) Fundamentals(p *datasource.CompanyProfile) models.FundamentalSnapshot {
	if p == nil {
		return models.FundamentalSnapshot{}
	}
	return models.FundamentalSnapshot{
		PERatio:         p.TrailingPE,
		ForwardPE:       p.ForwardPE,
		PEGRatio:        p.PegRatio,
		PriceToBook:     p.PriceToBook,
		PriceToSales:    p.PriceToSales,
		EnterpriseValue: p.EnterpriseValue,
		EVToRevenue:     p.EnterpriseToRev,
		EVToEBITDA:      p.EnterpriseToEBITDA,

		ProfitMargin:    p.ProfitMargins,
		OperatingMargin: p.OperatingMargins,
		ReturnOnAssets:  p.ReturnOnAssets,
		ReturnOnEquity:  p.ReturnOnEquity,
		RevenueGrowth:   p.RevenueGrowth,
		EarningsGrowth:  p.EarningsGrowth,

		TotalCash:    p.TotalCash,
		TotalDebt:    p.TotalDebt,
		DebtToEquity: p.DebtToEquity,
		CurrentRatio: p.CurrentRatio,
		QuickRatio:   p.QuickRatio,

		DividendRate:  p.DividendRate,
		DividendYield: p.DividendYield,
		PayoutRatio:   p.PayoutRatio,

		Beta:         p.Beta,
		BookValue:    p.BookValue,
		FreeCashFlow: p.FreeCashflow,
		RevenueTTM:   p.TotalRevenue,
		NetIncomeTTM: p.NetIncomeToCommon,
	}
}

// Technicals computes the latest-bar snapshot of every indicator from a
// daily candle series. An empty series yields an empty snapshot; a short
// series yields a snapshot whose longer-window indicators are absent.
func (e *Engine) Technicals(candles []models.OHLCV) models.TechnicalSnapshot {
	if len(candles) == 0 {
		return models.TechnicalSnapshot{}
	}

	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}
	last := n - 1

	macd := MACD(closes)
	boll := Bollinger(closes)
	stoch := Stochastic(highs, lows, closes)

	hi52, lo52 := highs[0], lows[0]
	for i := 1; i < n; i++ {
		if highs[i] > hi52 {
			hi52 = highs[i]
		}
		if lows[i] < lo52 {
			lo52 = lows[i]
		}
	}

	snap := models.TechnicalSnapshot{
		CurrentPrice:   round2(models.Num(closes[last])),
		SMA20:          round2(SMA(closes, smaShort)[last]),
		SMA50:          round2(SMA(closes, smaMedium)[last]),
		SMA200:         round2(SMA(closes, smaLong)[last]),
		EMA12:          round2(EMA(closes, emaFast)[last]),
		EMA26:          round2(EMA(closes, emaSlow)[last]),
		RSI:            round2(RSI(closes, rsiPeriod)[last]),
		MACD:           round4(macd.MACD[last]),
		MACDSignal:     round4(macd.Signal[last]),
		MACDHistogram:  round4(macd.Histogram[last]),
		BollingerUpper: round2(boll.Upper[last]),
		BollingerLower: round2(boll.Lower[last]),
		StochasticK:    round2(stoch.K[last]),
		StochasticD:    round2(stoch.D[last]),
		Volume:         models.Num(float64(candles[last].Volume)),
		WeekHigh52:     round2(models.Num(hi52)),
		WeekLow52:      round2(models.Num(lo52)),
	}

	e.log.Debug().
		Int("bars", n).
		Str("rsi", snap.RSI.String()).
		Str("macd", snap.MACD.String()).
		Msg("computed technical snapshot")
	return snap
}

func round2(m models.Metric) models.Metric {
	if !m.Valid {
		return m
	}
	return models.NumRound(m.Value, 2)
}

func round4(m models.Metric) models.Metric {
	if !m.Valid {
		return m
	}
	return models.NumRound(m.Value, 4)
}
