package models

import "time"

// SentimentLabel classifies a news item's tone.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// NewsArticle is a single stock news item from any source.
type NewsArticle struct {
	Title     string         `json:"title"`
	Summary   string         `json:"summary,omitempty"`
	URL       string         `json:"url,omitempty"`
	Published time.Time      `json:"published,omitempty"`
	Source    string         `json:"source,omitempty"`
	Symbol    string         `json:"symbol,omitempty"`
	Method    string         `json:"extraction_method,omitempty"`
	Sentiment SentimentLabel `json:"sentiment,omitempty"`
	Score     float64        `json:"sentiment_score,omitempty"` // -1..+1
}
