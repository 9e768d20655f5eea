// Package lexicon implements weighted phrase tables and the substring
// containment scoring used for both risk categories.
//
// Matching is deliberately plain substring containment rather than
// word-boundary matching: a phrase scores whenever it appears anywhere in
// the lowered text, including inside unrelated words. That is an accepted
// false-positive mode of the scoring model and changing it would silently
// shift every score.
package lexicon

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one phrase with its point weight.
type Entry struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Weight int    `yaml:"weight" json:"weight"`
}

// Lexicon is an immutable phrase table. Entries are held in scan order:
// descending phrase length, ties broken by declaration order. The ordering
// only affects tally iteration order, never the total, because every phrase
// is tested independently.
type Lexicon struct {
	entries []Entry
}

// New validates and builds a lexicon. Phrases are lower-cased and trimmed;
// blank phrases and negative weights are rejected.
func New(entries []Entry) (Lexicon, error) {
	if len(entries) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon requires at least one entry")
	}
	normalized := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		phrase := strings.ToLower(strings.TrimSpace(e.Phrase))
		if phrase == "" {
			return Lexicon{}, fmt.Errorf("lexicon entry %d: phrase is empty", i)
		}
		if e.Weight < 0 {
			return Lexicon{}, fmt.Errorf("lexicon phrase %q: weight %d is negative", phrase, e.Weight)
		}
		if _, dup := seen[phrase]; dup {
			return Lexicon{}, fmt.Errorf("lexicon phrase %q: duplicate entry", phrase)
		}
		seen[phrase] = struct{}{}
		normalized = append(normalized, Entry{Phrase: phrase, Weight: e.Weight})
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return len(normalized[i].Phrase) > len(normalized[j].Phrase)
	})
	return Lexicon{entries: normalized}, nil
}

// MustNew is New for static tables that are known to be valid.
func MustNew(entries []Entry) Lexicon {
	l, err := New(entries)
	if err != nil {
		panic(err)
	}
	return l
}

// Score returns the total points for text plus a per-message tally.
// Each contained phrase contributes its full weight exactly once per
// message (presence, not occurrence count), and a longer phrase does not
// suppress a shorter one contained within it.
func (l Lexicon) Score(text string) (int, *Tally) {
	t := strings.ToLower(strings.TrimSpace(text))
	total := 0
	tally := NewTally()
	for _, e := range l.entries {
		if strings.Contains(t, e.Phrase) {
			total += e.Weight
			tally.Add(e.Phrase, 1)
		}
	}
	return total, tally
}

// Len reports the number of phrases.
func (l Lexicon) Len() int {
	return len(l.entries)
}

// Contains reports whether phrase is part of the table.
func (l Lexicon) Contains(phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	for _, e := range l.entries {
		if e.Phrase == phrase {
			return true
		}
	}
	return false
}

// Entries returns a copy of the table in scan order.
func (l Lexicon) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}
