package transcript

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Utterance is a single parsed line of a conversation transcript.
//
// Timestamp is kept verbatim (the conventional format is
// "DD/MM/YYYY, HH:MM" but it is never parsed into a time value).
type Utterance struct {
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Message   string `json:"message"`
}

// linePattern matches "[timestamp] Speaker: message". The speaker group is
// non-greedy, so it ends at the first colon after the closing bracket.
var linePattern = regexp.MustCompile(`^\[(.*?)\]\s*(.*?):\s*(.*)$`)

// Parse extracts utterances from raw transcript text, one per matching line,
// in line order. Lines that do not match the bracketed format are skipped
// without error, so a fully malformed input yields an empty slice.
func Parse(text string) []Utterance {
	utterances := make([]Utterance, 0, 32)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		utterances = append(utterances, Utterance{
			Timestamp: m[1],
			Speaker:   m[2],
			Message:   strings.TrimSpace(m[3]),
		})
	}
	return utterances
}

// LoadFile reads a UTF-8 transcript file and parses it.
func LoadFile(path string) ([]Utterance, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("transcript path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %q: %w", path, err)
	}
	return Parse(string(raw)), nil
}
