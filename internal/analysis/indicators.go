// Package analysis computes technical indicators, projects fundamental
// data, and classifies trading signals from price history and company
// profiles.
package analysis

import (
	"math"

	"github.com/stockscout/stockscout/pkg/models"
)

// Indicator window lengths. These are the conventional daily-chart
// parameters; callers never tune them.
const (
	smaShort  = 20
	smaMedium = 50
	smaLong   = 200

	emaFast   = 12
	emaSlow   = 26
	emaSignal = 9

	rsiPeriod = 14

	bollingerPeriod = 20
	bollingerWidth  = 2.0

	stochasticPeriod = 14
	stochasticSmooth = 3
)

// SMA computes a simple moving average series over closes. Positions with
// fewer than period preceding values are absent.
func SMA(closes []float64, period int) []models.Metric {
	out := make([]models.Metric, len(closes))
	if period <= 0 {
		return out
	}
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = models.Num(sum / float64(period))
		} else {
			out[i] = models.NA()
		}
	}
	return out
}

// EMA computes an exponential moving average series over closes. The first
// defined value is the simple average of the first period closes; later
// values follow the standard recursion with multiplier 2/(period+1).
func EMA(closes []float64, period int) []models.Metric {
	out := make([]models.Metric, len(closes))
	if period <= 0 || len(closes) < period {
		for i := range out {
			out[i] = models.NA()
		}
		return out
	}

	k := 2.0 / float64(period+1)
	var sum float64
	prev := 0.0
	for i, c := range closes {
		switch {
		case i < period-1:
			sum += c
			out[i] = models.NA()
		case i == period-1:
			sum += c
			prev = sum / float64(period)
			out[i] = models.Num(prev)
		default:
			prev = c*k + prev*(1-k)
			out[i] = models.Num(prev)
		}
	}
	return out
}

// RSI computes the relative strength index using rolling simple averages
// of gains and losses over the period. With no losses in the window and at
// least one gain, RSI saturates at 100; a completely flat window yields an
// absent value.
func RSI(closes []float64, period int) []models.Metric {
	out := make([]models.Metric, len(closes))
	for i := range out {
		out[i] = models.NA()
	}
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// Flat window, direction undefined.
		case avgLoss == 0:
			out[i] = models.Num(100)
		default:
			rs := avgGain / avgLoss
			out[i] = models.Num(100 - 100/(1+rs))
		}
	}
	return out
}

// MACDResult bundles the three MACD series.
type MACDResult struct {
	MACD      []models.Metric
	Signal    []models.Metric
	Histogram []models.Metric
}

// MACD computes the moving average convergence divergence line, its signal
// line, and their difference. The signal line is an EMA of the MACD line
// seeded from its first emaSignal defined values.
func MACD(closes []float64) MACDResult {
	n := len(closes)
	res := MACDResult{
		MACD:      make([]models.Metric, n),
		Signal:    make([]models.Metric, n),
		Histogram: make([]models.Metric, n),
	}

	fast := EMA(closes, emaFast)
	slow := EMA(closes, emaSlow)

	for i := 0; i < n; i++ {
		if fast[i].Valid && slow[i].Valid {
			res.MACD[i] = models.Num(fast[i].Value - slow[i].Value)
		} else {
			res.MACD[i] = models.NA()
		}
		res.Signal[i] = models.NA()
		res.Histogram[i] = models.NA()
	}

	// Signal line: EMA over the defined stretch of the MACD series.
	k := 2.0 / float64(emaSignal+1)
	var sum float64
	seen := 0
	prev := 0.0
	for i := 0; i < n; i++ {
		if !res.MACD[i].Valid {
			continue
		}
		seen++
		switch {
		case seen < emaSignal:
			sum += res.MACD[i].Value
		case seen == emaSignal:
			sum += res.MACD[i].Value
			prev = sum / float64(emaSignal)
			res.Signal[i] = models.Num(prev)
		default:
			prev = res.MACD[i].Value*k + prev*(1-k)
			res.Signal[i] = models.Num(prev)
		}
		if res.Signal[i].Valid {
			res.Histogram[i] = models.Num(res.MACD[i].Value - res.Signal[i].Value)
		}
	}
	return res
}

// BollingerResult bundles the upper and lower band series.
type BollingerResult struct {
	Upper []models.Metric
	Lower []models.Metric
}

// Bollinger computes bands at bollingerWidth sample standard deviations
// around the bollingerPeriod simple moving average.
func Bollinger(closes []float64) BollingerResult {
	n := len(closes)
	res := BollingerResult{
		Upper: make([]models.Metric, n),
		Lower: make([]models.Metric, n),
	}
	mid := SMA(closes, bollingerPeriod)
	for i := 0; i < n; i++ {
		if !mid[i].Valid {
			res.Upper[i] = models.NA()
			res.Lower[i] = models.NA()
			continue
		}
		std := sampleStd(closes[i-bollingerPeriod+1:i+1], mid[i].Value)
		res.Upper[i] = models.Num(mid[i].Value + bollingerWidth*std)
		res.Lower[i] = models.Num(mid[i].Value - bollingerWidth*std)
	}
	return res
}

// sampleStd is the n-1 denominator standard deviation around a known mean.
func sampleStd(window []float64, mean float64) float64 {
	if len(window) < 2 {
		return 0
	}
	var ss float64
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(window)-1))
}

// StochasticResult bundles the %K and %D series.
type StochasticResult struct {
	K []models.Metric
	D []models.Metric
}

// Stochastic computes the %K oscillator over highs and lows with a
// stochasticSmooth simple average for %D. A window where the high equals
// the low leaves %K undefined for that position.
func Stochastic(highs, lows, closes []float64) StochasticResult {
	n := len(closes)
	res := StochasticResult{
		K: make([]models.Metric, n),
		D: make([]models.Metric, n),
	}
	for i := 0; i < n; i++ {
		res.K[i] = models.NA()
		res.D[i] = models.NA()
		if i < stochasticPeriod-1 {
			continue
		}
		hi, lo := highs[i], lows[i]
		for j := i - stochasticPeriod + 1; j <= i; j++ {
			hi = math.Max(hi, highs[j])
			lo = math.Min(lo, lows[j])
		}
		if hi == lo {
			continue
		}
		res.K[i] = models.Num((closes[i] - lo) / (hi - lo) * 100)
	}

	for i := stochasticSmooth - 1; i < n; i++ {
		var sum float64
		ok := true
		for j := i - stochasticSmooth + 1; j <= i; j++ {
			if !res.K[j].Valid {
				ok = false
				break
			}
			sum += res.K[j].Value
		}
		if ok {
			res.D[i] = models.Num(sum / float64(stochasticSmooth))
		}
	}
	return res
}
