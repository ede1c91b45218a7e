package analysis

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/internal/datasource"
	"github.com/stockscout/stockscout/pkg/models"
)

// makeCandles builds a synthetic daily series from closes, with a small
// fixed spread for highs and lows.
func makeCandles(closes []float64) []models.OHLCV {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.OHLCV, len(closes))
	for i, c := range closes {
		candles[i] = models.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1_000_000,
		}
	}
	return candles
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	return closes
}

func TestTechnicalsEmptyHistory(t *testing.T) {
	e := NewEngine(zerolog.Nop())
	snap := e.Technicals(nil)
	if !snap.Empty() {
		t.Errorf("empty history should produce an empty snapshot, got %+v", snap)
	}
}

func TestTechnicalsShortHistory(t *testing.T) {
	e := NewEngine(zerolog.Nop())
	snap := e.Technicals(makeCandles(risingCloses(5)))
	if snap.Empty() {
		t.Fatal("short history should still carry the current price")
	}
	if snap.SMA20.Valid || snap.SMA200.Valid || snap.RSI.Valid {
		t.Errorf("longer-window indicators should be absent on 5 bars: %+v", snap)
	}
	if !snap.WeekHigh52.Valid || !snap.WeekLow52.Valid {
		t.Error("range extremes should be defined for any non-empty history")
	}
}

func TestTechnicalsFullHistory(t *testing.T) {
	e := NewEngine(zerolog.Nop())
	closes := risingCloses(260)
	snap := e.Technicals(makeCandles(closes))

	if !snap.SMA20.Valid || !snap.SMA50.Valid || !snap.SMA200.Valid {
		t.Fatalf("all SMAs should be defined on 260 bars: %+v", snap)
	}
	if !snap.RSI.Valid || snap.RSI.Value != 100 {
		t.Errorf("RSI on a strictly rising series = %v, want 100", snap.RSI)
	}
	if !snap.MACD.Valid || !snap.MACDSignal.Valid || !snap.MACDHistogram.Valid {
		t.Errorf("MACD family should be defined: %+v", snap)
	}
	// Rising series: shorter averages track price more closely.
	if !(snap.SMA20.Value > snap.SMA50.Value && snap.SMA50.Value > snap.SMA200.Value) {
		t.Errorf("SMA ordering wrong for rising series: %v %v %v",
			snap.SMA20, snap.SMA50, snap.SMA200)
	}
	want := closes[len(closes)-1] + 1
	if snap.WeekHigh52.Value != want {
		t.Errorf("WeekHigh52 = %v, want %v", snap.WeekHigh52, want)
	}
}

func TestBasicInfoProjection(t *testing.T) {
	e := NewEngine(zerolog.Nop())
	p := &datasource.CompanyProfile{
		LongName:     "Apple Inc.",
		Sector:       "Technology",
		Industry:     "Consumer Electronics",
		Currency:     "USD",
		CurrentPrice: models.Num(232.5),
	}
	got := e.BasicInfo("AAPL", p)
	if got.Symbol != "AAPL" || got.CompanyName != "Apple Inc." {
		t.Errorf("BasicInfo = %+v", got)
	}
	if got.MarketCap.Valid {
		t.Error("absent market cap should stay absent")
	}

	if !e.BasicInfo("AAPL", nil).Empty() {
		t.Error("nil profile should project to the empty value")
	}
}

func TestFundamentalsProjectIndependently(t *testing.T) {
	e := NewEngine(zerolog.Nop())
	p := &datasource.CompanyProfile{
		TrailingPE:     models.Num(35.2),
		ReturnOnEquity: models.Num(1.47),
	}
	got := e.Fundamentals(p)
	if !got.PERatio.Valid || got.PERatio.Value != 35.2 {
		t.Errorf("PERatio = %v", got.PERatio)
	}
	if !got.ReturnOnEquity.Valid {
		t.Errorf("ReturnOnEquity = %v", got.ReturnOnEquity)
	}
	if got.ForwardPE.Valid || got.DividendYield.Valid {
		t.Error("absent upstream fields must stay absent")
	}
}
