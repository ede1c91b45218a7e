package analysis

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func seq(from, to float64) []float64 {
	var out []float64
	if from <= to {
		for v := from; v <= to; v++ {
			out = append(out, v)
		}
	} else {
		for v := from; v >= to; v-- {
			out = append(out, v)
		}
	}
	return out
}

func flat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if got[i].Valid {
			t.Errorf("SMA[%d] should be absent before the window fills", i)
		}
	}
	if !got[2].Valid || !almostEqual(got[2].Value, 2) {
		t.Errorf("SMA[2] = %v, want 2", got[2])
	}
	if !got[4].Valid || !almostEqual(got[4].Value, 4) {
		t.Errorf("SMA[4] = %v, want 4", got[4])
	}
}

func TestEMA(t *testing.T) {
	got := EMA([]float64{1, 2, 3, 4, 5}, 3)
	// Seeded with the simple average of the first three closes.
	if !got[2].Valid || !almostEqual(got[2].Value, 2) {
		t.Errorf("EMA[2] = %v, want 2", got[2])
	}
	// k = 2/(3+1) = 0.5, so EMA[3] = 4*0.5 + 2*0.5 = 3.
	if !got[3].Valid || !almostEqual(got[3].Value, 3) {
		t.Errorf("EMA[3] = %v, want 3", got[3])
	}
	if !got[4].Valid || !almostEqual(got[4].Value, 4) {
		t.Errorf("EMA[4] = %v, want 4", got[4])
	}
}

func TestEMAShortSeries(t *testing.T) {
	for _, m := range EMA([]float64{1, 2}, 12) {
		if m.Valid {
			t.Fatal("EMA over a series shorter than its period must be absent")
		}
	}
}

func TestRSISaturatesRising(t *testing.T) {
	got := RSI(seq(1, 30), rsiPeriod)
	last := got[len(got)-1]
	if !last.Valid || !almostEqual(last.Value, 100) {
		t.Errorf("RSI of strictly rising closes = %v, want 100", last)
	}
}

func TestRSIFloorFalling(t *testing.T) {
	got := RSI(seq(100, 71), rsiPeriod)
	last := got[len(got)-1]
	if !last.Valid || !almostEqual(last.Value, 0) {
		t.Errorf("RSI of strictly falling closes = %v, want 0", last)
	}
}

func TestRSIFlatIsAbsent(t *testing.T) {
	got := RSI(flat(50, 30), rsiPeriod)
	if got[len(got)-1].Valid {
		t.Error("RSI of a flat series should be absent")
	}
}

func TestRSIWarmup(t *testing.T) {
	got := RSI(seq(1, 20), rsiPeriod)
	for i := 0; i < rsiPeriod; i++ {
		if got[i].Valid {
			t.Errorf("RSI[%d] should be absent during warmup", i)
		}
	}
	if !got[rsiPeriod].Valid {
		t.Errorf("RSI[%d] should be the first defined value", rsiPeriod)
	}
}

func TestRSIBalancedMoves(t *testing.T) {
	// Alternating +1/-1 deltas: average gain equals average loss, RSI = 50.
	closes := make([]float64, 31)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	got := RSI(closes, rsiPeriod)
	last := got[len(got)-1]
	if !last.Valid || !almostEqual(last.Value, 50) {
		t.Errorf("RSI of balanced moves = %v, want 50", last)
	}
}

func TestMACDConstantSeries(t *testing.T) {
	res := MACD(flat(42, 60))
	last := len(res.MACD) - 1
	if !res.MACD[last].Valid || !almostEqual(res.MACD[last].Value, 0) {
		t.Errorf("MACD = %v, want 0", res.MACD[last])
	}
	if !res.Signal[last].Valid || !almostEqual(res.Signal[last].Value, 0) {
		t.Errorf("Signal = %v, want 0", res.Signal[last])
	}
	if !res.Histogram[last].Valid || !almostEqual(res.Histogram[last].Value, 0) {
		t.Errorf("Histogram = %v, want 0", res.Histogram[last])
	}
}

func TestMACDWarmup(t *testing.T) {
	res := MACD(flat(10, 60))
	// MACD needs the slow EMA; the signal line needs emaSignal MACD values
	// on top of that.
	if res.MACD[emaSlow-2].Valid {
		t.Error("MACD defined before the slow EMA window fills")
	}
	if !res.MACD[emaSlow-1].Valid {
		t.Error("MACD absent at the first slow-EMA position")
	}
	if res.Signal[emaSlow+emaSignal-3].Valid {
		t.Error("Signal defined too early")
	}
	if !res.Signal[emaSlow+emaSignal-2].Valid {
		t.Error("Signal absent at its first defined position")
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	res := Bollinger(flat(50, 25))
	last := len(res.Upper) - 1
	if !res.Upper[last].Valid || !almostEqual(res.Upper[last].Value, 50) {
		t.Errorf("Upper = %v, want 50 for zero variance", res.Upper[last])
	}
	if !res.Lower[last].Valid || !almostEqual(res.Lower[last].Value, 50) {
		t.Errorf("Lower = %v, want 50 for zero variance", res.Lower[last])
	}
}

func TestBollingerBandsStraddleMean(t *testing.T) {
	res := Bollinger(seq(1, 30))
	last := 29
	mid := SMA(seq(1, 30), bollingerPeriod)[last]
	if !res.Upper[last].Valid || res.Upper[last].Value <= mid.Value {
		t.Errorf("Upper = %v, want above SMA %v", res.Upper[last], mid)
	}
	if !res.Lower[last].Valid || res.Lower[last].Value >= mid.Value {
		t.Errorf("Lower = %v, want below SMA %v", res.Lower[last], mid)
	}
	// Bands are symmetric around the middle.
	up := res.Upper[last].Value - mid.Value
	down := mid.Value - res.Lower[last].Value
	if !almostEqual(up, down) {
		t.Errorf("band widths differ: +%v vs -%v", up, down)
	}
}

func TestStochasticAtExtremes(t *testing.T) {
	n := 20
	highs := flat(110, n)
	lows := flat(90, n)

	closesAtHigh := flat(110, n)
	res := Stochastic(highs, lows, closesAtHigh)
	if last := res.K[n-1]; !last.Valid || !almostEqual(last.Value, 100) {
		t.Errorf("%%K at range high = %v, want 100", last)
	}

	closesAtLow := flat(90, n)
	res = Stochastic(highs, lows, closesAtLow)
	if last := res.K[n-1]; !last.Valid || !almostEqual(last.Value, 0) {
		t.Errorf("%%K at range low = %v, want 0", last)
	}
}

func TestStochasticFlatRangeIsAbsent(t *testing.T) {
	n := 20
	res := Stochastic(flat(100, n), flat(100, n), flat(100, n))
	if res.K[n-1].Valid {
		t.Error("%K should be absent when the window range is zero")
	}
	if res.D[n-1].Valid {
		t.Error("%D should be absent when %K is absent")
	}
}

func TestStochasticDSmoothsK(t *testing.T) {
	n := 20
	highs := flat(110, n)
	lows := flat(90, n)
	closes := flat(100, n)
	closes[n-3], closes[n-2], closes[n-1] = 95, 100, 105

	res := Stochastic(highs, lows, closes)
	// %K values are 25, 50, 75 over the last three bars.
	if last := res.D[n-1]; !last.Valid || !almostEqual(last.Value, 50) {
		t.Errorf("%%D = %v, want 50", last)
	}
}
