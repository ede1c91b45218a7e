package analysis

import (
	"reflect"
	"testing"

	"github.com/stockscout/stockscout/pkg/models"
)

func snapshot(price, sma20, sma50, rsi, macd, signal float64) models.TechnicalSnapshot {
	return models.TechnicalSnapshot{
		CurrentPrice: models.Num(price),
		SMA20:        models.Num(sma20),
		SMA50:        models.Num(sma50),
		RSI:          models.Num(rsi),
		MACD:         models.Num(macd),
		MACDSignal:   models.Num(signal),
	}
}

func TestSignalsBullish(t *testing.T) {
	got := Signals(snapshot(110, 100, 95, 25, 1.5, 0.8))
	want := []string{
		"BUY SIGNAL: RSI Oversold (RSI < 30)",
		"BUY SIGNAL: Price above both SMA 20 and 50",
		"BUY SIGNAL: MACD above Signal Line",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Signals = %v, want %v", got, want)
	}
}

func TestSignalsBearish(t *testing.T) {
	got := Signals(snapshot(90, 100, 105, 75, -1.5, -0.8))
	want := []string{
		"SELL SIGNAL: RSI Overbought (RSI > 70)",
		"SELL SIGNAL: Price below both SMA 20 and 50",
		"SELL SIGNAL: MACD below Signal Line",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Signals = %v, want %v", got, want)
	}
}

func TestSignalsNeutralRSIAndMixedSMAs(t *testing.T) {
	// RSI in the neutral band and price between the SMAs: only the MACD
	// rule fires.
	got := Signals(snapshot(100, 99, 101, 50, 0.2, 0.1))
	want := []string{"BUY SIGNAL: MACD above Signal Line"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Signals = %v, want %v", got, want)
	}
}

func TestSignalsRequireFullMovingAverageAlignment(t *testing.T) {
	// Price clear of both SMAs is not enough: the averages themselves
	// must line up (price > SMA20 > SMA50, or the mirror for SELL).
	tests := []struct {
		name                string
		price, sma20, sma50 float64
	}{
		{"above both but SMA20 below SMA50", 120, 100, 110},
		{"below both but SMA20 above SMA50", 80, 110, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Signals(models.TechnicalSnapshot{
				CurrentPrice: models.Num(tt.price),
				SMA20:        models.Num(tt.sma20),
				SMA50:        models.Num(tt.sma50),
			})
			if len(got) != 0 {
				t.Errorf("mixed SMA ordering fired %v", got)
			}
		})
	}
}

func TestSignalsBoundaryValuesDoNotFire(t *testing.T) {
	// RSI exactly at 70 or 30 is not beyond either bound.
	got := Signals(models.TechnicalSnapshot{RSI: models.Num(70)})
	if len(got) != 0 {
		t.Errorf("RSI=70 fired %v", got)
	}
	got = Signals(models.TechnicalSnapshot{RSI: models.Num(30)})
	if len(got) != 0 {
		t.Errorf("RSI=30 fired %v", got)
	}
}

func TestSignalsSkipRulesWithAbsentInputs(t *testing.T) {
	s := models.TechnicalSnapshot{
		CurrentPrice: models.Num(100),
		// SMA20/SMA50 absent: the moving-average rule must not fire.
		MACD:       models.Num(1),
		MACDSignal: models.Num(2),
	}
	got := Signals(s)
	want := []string{"SELL SIGNAL: MACD below Signal Line"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Signals = %v, want %v", got, want)
	}
}

func TestSignalsEmptySnapshot(t *testing.T) {
	got := Signals(models.TechnicalSnapshot{})
	if len(got) != 0 {
		t.Errorf("empty snapshot fired %v", got)
	}
}

func TestSignalsDeterministic(t *testing.T) {
	s := snapshot(110, 100, 95, 25, 1.5, 0.8)
	first := Signals(s)
	for i := 0; i < 5; i++ {
		if got := Signals(s); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}
