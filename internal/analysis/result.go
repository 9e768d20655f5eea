package analysis

import (
	"github.com/tetraminz/risk_protocol/internal/lexicon"
)

// Sentiment trend labels.
const (
	TrendImproving = "Improving"
	TrendWorsening = "Worsening"
	TrendStable    = "Stable"
)

// Scores are the normalized 0-100 risk scores.
type Scores struct {
	HIV    int `json:"hiv"`
	Mental int `json:"mental"`
}

// Matches are the cumulative phrase tallies per risk category.
type Matches struct {
	HIV    *lexicon.Tally `json:"hiv"`
	Mental *lexicon.Tally `json:"mental"`
}

// UrgentFlag records one critical phrase found in one utterance.
type UrgentFlag struct {
	Phrase    string `json:"phrase"`
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Message   string `json:"message"`
}

// Result is the engine's output for one transcript.
type Result struct {
	Scores         Scores       `json:"scores"`
	Matches        Matches      `json:"matches"`
	Urgent         []UrgentFlag `json:"urgent"`
	SentimentTrend string       `json:"sentiment_trend"`
	RawSentiments  []int        `json:"raw_sentiments"`
}
