package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tally maps matched phrases to counts while preserving first-insertion
// order, so reports and JSON artifacts list phrases in the order the
// scorer found them rather than alphabetically.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments phrase by n, registering it on first insertion.
func (t *Tally) Add(phrase string, n int) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[phrase]; !ok {
		t.order = append(t.order, phrase)
	}
	t.counts[phrase] += n
}

// Merge adds every count from other into t, preserving other's order for
// phrases t has not seen yet.
func (t *Tally) Merge(other *Tally) {
	if other == nil {
		return
	}
	for _, phrase := range other.order {
		t.Add(phrase, other.counts[phrase])
	}
}

// Count returns the accumulated count for phrase, zero if absent.
func (t *Tally) Count(phrase string) int {
	if t == nil {
		return 0
	}
	return t.counts[phrase]
}

// Len reports the number of distinct phrases.
func (t *Tally) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Phrases returns the phrases in insertion order.
func (t *Tally) Phrases() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// MarshalJSON renders the tally as a JSON object with keys in insertion
// order.
func (t *Tally) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, phrase := range t.order {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(phrase)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		fmt.Fprintf(&b, "%d", t.counts[phrase])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON restores a tally from a JSON object, taking insertion
// order from document order.
func (t *Tally) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tally: expected JSON object, got %v", tok)
	}

	t.order = nil
	t.counts = make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		phrase, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tally: expected string key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("tally: count for %q: %w", phrase, err)
		}
		t.Add(phrase, count)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
