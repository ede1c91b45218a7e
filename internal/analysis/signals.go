package analysis

import "github.com/stockscout/stockscout/pkg/models"

// RSI classification bounds.
const (
	rsiOverbought = 70
	rsiOversold   = 30
)

// Signals classifies a technical snapshot into human-readable trading
// signals. Rules are evaluated in a fixed order (RSI, moving averages,
// MACD) and every rule whose inputs are present gets a chance to fire;
// absent inputs silently skip their rule. The function is pure: the same
// snapshot always yields the same signals.
func Signals(t models.TechnicalSnapshot) []string {
	signals := []string{}

	if t.RSI.Valid {
		switch {
		case t.RSI.Value > rsiOverbought:
			signals = append(signals, "SELL SIGNAL: RSI Overbought (RSI > 70)")
		case t.RSI.Value < rsiOversold:
			signals = append(signals, "BUY SIGNAL: RSI Oversold (RSI < 30)")
		}
	}

	if t.CurrentPrice.Valid && t.SMA20.Valid && t.SMA50.Valid {
		price := t.CurrentPrice.Value
		// The full alignment price > SMA20 > SMA50 (or its mirror) is
		// required; any other ordering stays silent.
		switch {
		case price > t.SMA20.Value && t.SMA20.Value > t.SMA50.Value:
			signals = append(signals, "BUY SIGNAL: Price above both SMA 20 and 50")
		case price < t.SMA20.Value && t.SMA20.Value < t.SMA50.Value:
			signals = append(signals, "SELL SIGNAL: Price below both SMA 20 and 50")
		}
	}

	if t.MACD.Valid && t.MACDSignal.Valid {
		if t.MACD.Value > t.MACDSignal.Value {
			signals = append(signals, "BUY SIGNAL: MACD above Signal Line")
		} else {
			signals = append(signals, "SELL SIGNAL: MACD below Signal Line")
		}
	}

	return signals
}
