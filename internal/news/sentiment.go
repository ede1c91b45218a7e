package news

import (
	"strings"
	"unicode"

	"github.com/stockscout/stockscout/pkg/models"
)

// Keyword lexicons for headline tone scoring. Deliberately small: headline
// vocabulary in financial news is narrow and these cover the common cases.
var positiveWords = map[string]struct{}{
	"gain": {}, "gains": {}, "surge": {}, "surges": {}, "soar": {}, "soars": {},
	"jump": {}, "jumps": {}, "rally": {}, "rallies": {}, "rise": {}, "rises": {},
	"climb": {}, "climbs": {}, "beat": {}, "beats": {}, "record": {}, "strong": {},
	"growth": {}, "profit": {}, "profits": {}, "upgrade": {}, "upgraded": {},
	"outperform": {}, "bullish": {}, "buy": {}, "success": {}, "boost": {},
	"boosts": {}, "high": {}, "breakthrough": {}, "win": {}, "wins": {},
	"positive": {}, "exceed": {}, "exceeds": {}, "momentum": {},
}

var negativeWords = map[string]struct{}{
	"loss": {}, "losses": {}, "fall": {}, "falls": {}, "drop": {}, "drops": {},
	"plunge": {}, "plunges": {}, "sink": {}, "sinks": {}, "tumble": {}, "tumbles": {},
	"decline": {}, "declines": {}, "miss": {}, "misses": {}, "weak": {},
	"downgrade": {}, "downgraded": {}, "underperform": {}, "bearish": {},
	"sell": {}, "concern": {}, "concerns": {}, "risk": {}, "risks": {},
	"warning": {}, "warns": {}, "lawsuit": {}, "investigation": {}, "recall": {},
	"negative": {}, "cut": {}, "cuts": {}, "layoff": {}, "layoffs": {},
	"crash": {}, "slump": {}, "slumps": {}, "low": {},
}

// ScoreSentiment rates the tone of a headline and summary. The score is
// the keyword balance normalized to [-1, 1]; the label buckets it with a
// neutral dead zone so a single stray word doesn't flip the tone.
func ScoreSentiment(title, summary string) (models.SentimentLabel, float64) {
	text := strings.ToLower(title + " " + summary)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var pos, neg int
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return models.SentimentNeutral, 0
	}
	score := float64(pos-neg) / float64(total)
	switch {
	case score > 0.2:
		return models.SentimentPositive, score
	case score < -0.2:
		return models.SentimentNegative, score
	default:
		return models.SentimentNeutral, score
	}
}
