// Package analysis aggregates per-utterance scoring into one risk
// assessment for a whole transcript.
package analysis

import (
	"errors"
	"strings"

	"github.com/tetraminz/risk_protocol/internal/lexicon"
	"github.com/tetraminz/risk_protocol/internal/sentiment"
	"github.com/tetraminz/risk_protocol/internal/transcript"
)

// ErrEmptyTranscript is returned when a transcript yields zero parseable
// utterances: the sentiment trend is a mean over an empty window, which
// has no defensible default value.
var ErrEmptyTranscript = errors.New("transcript contains no parseable utterances")

const (
	// normalizationDivisor is a fixed calibration constant: the weight of
	// the single highest-severity keyword category. Raw totals are scaled
	// against it and clamped to 100.
	normalizationDivisor = 120

	// trendWindow is how many leading/trailing sentiment values feed the
	// trend comparison.
	trendWindow = 5
)

// Engine runs the per-utterance scorers and aggregates their output.
// All fields are immutable after construction, so one Engine is safe to
// share across concurrent analyses of independent transcripts.
type Engine struct {
	hiv       lexicon.Lexicon
	mental    lexicon.Lexicon
	sentiment sentiment.Scorer
	urgent    []string
}

// NewEngine builds an engine from the configured lexicons, sentiment
// scorer and urgent-phrase list. Urgent phrases are lower-cased and kept
// in declaration order.
func NewEngine(hiv, mental lexicon.Lexicon, s sentiment.Scorer, urgentPhrases []string) Engine {
	urgent := make([]string, 0, len(urgentPhrases))
	for _, p := range urgentPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			urgent = append(urgent, p)
		}
	}
	return Engine{hiv: hiv, mental: mental, sentiment: s, urgent: urgent}
}

// Analyze scores every utterance in order and returns the aggregated
// result. It fails with ErrEmptyTranscript for zero utterances and returns
// no partial result in that case.
func (e Engine) Analyze(utterances []transcript.Utterance) (*Result, error) {
	if len(utterances) == 0 {
		return nil, ErrEmptyTranscript
	}

	hivTotal := 0
	mentalTotal := 0
	result := &Result{
		Matches: Matches{
			HIV:    lexicon.NewTally(),
			Mental: lexicon.NewTally(),
		},
		Urgent:        make([]UrgentFlag, 0, 4),
		RawSentiments: make([]int, 0, len(utterances)),
	}

	for _, u := range utterances {
		result.RawSentiments = append(result.RawSentiments, e.sentiment.Score(u.Message))

		hivPoints, hivTally := e.hiv.Score(u.Message)
		mentalPoints, mentalTally := e.mental.Score(u.Message)
		hivTotal += hivPoints
		mentalTotal += mentalPoints
		result.Matches.HIV.Merge(hivTally)
		result.Matches.Mental.Merge(mentalTally)

		for _, phrase := range e.detectUrgent(u.Message) {
			result.Urgent = append(result.Urgent, UrgentFlag{
				Phrase:    phrase,
				Timestamp: u.Timestamp,
				Speaker:   u.Speaker,
				Message:   u.Message,
			})
		}
	}

	result.Scores.HIV = normalizeScore(hivTotal)
	result.Scores.Mental = normalizeScore(mentalTotal)
	result.SentimentTrend = classifyTrend(result.RawSentiments)

	return result, nil
}

// detectUrgent returns the urgent phrases contained in the message, in the
// fixed list's declaration order rather than text position order.
func (e Engine) detectUrgent(message string) []string {
	t := strings.ToLower(strings.TrimSpace(message))
	var found []string
	for _, phrase := range e.urgent {
		if strings.Contains(t, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

// normalizeScore scales a raw point total to 0-100. Totals cannot be
// negative by construction, so only the upper bound is clamped.
func normalizeScore(total int) int {
	score := total * 100 / normalizationDivisor
	if score > 100 {
		return 100
	}
	return score
}

// classifyTrend compares the mean of the last trendWindow sentiments with
// the mean of the first trendWindow. Shorter histories use whatever is
// available, so the windows may overlap or coincide.
func classifyTrend(history []int) string {
	first := history
	if len(first) > trendWindow {
		first = first[:trendWindow]
	}
	last := history
	if len(last) > trendWindow {
		last = last[len(last)-trendWindow:]
	}

	firstMean := mean(first)
	lastMean := mean(last)
	switch {
	case lastMean > firstMean:
		return TrendImproving
	case lastMean < firstMean:
		return TrendWorsening
	default:
		return TrendStable
	}
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
