// Package keywords holds the configurable keyword model: the two weighted
// risk lexicons, the urgent-phrase list, and the sentiment word lists.
// The model is plain data so tables can be extended without touching the
// scoring logic. It is built once at startup and shared read-only.
package keywords

import (
	"github.com/tetraminz/risk_protocol/internal/lexicon"
)

// Model is the full keyword configuration for one engine instance.
type Model struct {
	HIV    lexicon.Lexicon
	Mental lexicon.Lexicon

	// UrgentPhrases is scanned in declaration order; flag order within a
	// message follows this order.
	UrgentPhrases []string

	PositiveWords []string
	NegativeWords []string
}

// CriticalOverridePhrases is the subset of urgent phrases that forces the
// mental-health recommendation to the CRITICAL tier regardless of the
// numeric score. Deliberately narrower than UrgentPhrases: "end my life",
// "rape" and "sexual assault" still raise urgent flags but do not trigger
// the override.
var CriticalOverridePhrases = []string{
	"suicide", "kill myself", "self harm", "hurt myself",
}

// Default returns the built-in clinical keyword model.
func Default() Model {
	return Model{
		HIV: lexicon.MustNew([]lexicon.Entry{
			// High-risk exposures
			{Phrase: "unprotected sex", Weight: 35},
			{Phrase: "condomless", Weight: 35},
			{Phrase: "no condom", Weight: 30},
			{Phrase: "sexual assault", Weight: 60},
			{Phrase: "rape", Weight: 60},
			{Phrase: "bleeding after sex", Weight: 35},
			{Phrase: "partner hiv", Weight: 40},
			{Phrase: "partner positive", Weight: 40},
			{Phrase: "multiple partners", Weight: 25},
			{Phrase: "new partner", Weight: 15},
			{Phrase: "sti", Weight: 20},
			{Phrase: "ulcer", Weight: 20},
			{Phrase: "sore", Weight: 15},
			{Phrase: "discharge", Weight: 15},
			{Phrase: "recent exposure", Weight: 30},
			{Phrase: "72 hours", Weight: 30},
		}),
		Mental: lexicon.MustNew([]lexicon.Entry{
			// Emotional distress
			{Phrase: "stressed", Weight: 20},
			{Phrase: "anxious", Weight: 15},
			{Phrase: "anxiety", Weight: 20},
			{Phrase: "panic", Weight: 30},
			{Phrase: "panic attack", Weight: 40},
			// Depression
			{Phrase: "feeling down", Weight: 30},
			{Phrase: "hopeless", Weight: 40},
			{Phrase: "worthless", Weight: 40},
			{Phrase: "can't cope", Weight: 40},
			{Phrase: "overwhelmed", Weight: 30},
			{Phrase: "not sleeping", Weight: 20},
			{Phrase: "insomnia", Weight: 15},
			// Self-harm and suicidality
			{Phrase: "suicide", Weight: 120},
			{Phrase: "kill myself", Weight: 120},
			{Phrase: "end my life", Weight: 120},
			{Phrase: "self harm", Weight: 110},
			{Phrase: "hurt myself", Weight: 110},
		}),
		UrgentPhrases: []string{
			"suicide", "kill myself", "end my life",
			"self harm", "hurt myself", "rape", "sexual assault",
		},
		PositiveWords: []string{"good", "okay", "fine", "better", "improving", "relieved"},
		NegativeWords: []string{"sad", "bad", "angry", "upset", "scared", "worried", "hopeless"},
	}
}
