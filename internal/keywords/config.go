package keywords

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tetraminz/risk_protocol/internal/lexicon"
)

// fileModel mirrors the YAML layout of a keyword config file. Lexicons are
// lists of phrase/weight pairs so the file's declaration order is kept.
type fileModel struct {
	HIVKeywords       []lexicon.Entry `yaml:"hiv_keywords"`
	MentalKeywords    []lexicon.Entry `yaml:"mental_keywords"`
	UrgentPhrases     []string        `yaml:"urgent_phrases"`
	SentimentPositive []string        `yaml:"sentiment_positive"`
	SentimentNegative []string        `yaml:"sentiment_negative"`
}

// Load reads a YAML keyword config and returns a model where any section
// present in the file replaces the built-in default and any section left
// empty falls back to it.
func Load(path string) (Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("read keyword config %q: %w", path, err)
	}

	var file fileModel
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Model{}, fmt.Errorf("parse keyword config %q: %w", path, err)
	}

	model := Default()

	if len(file.HIVKeywords) > 0 {
		model.HIV, err = lexicon.New(file.HIVKeywords)
		if err != nil {
			return Model{}, fmt.Errorf("keyword config %q: hiv_keywords: %w", path, err)
		}
	}
	if len(file.MentalKeywords) > 0 {
		model.Mental, err = lexicon.New(file.MentalKeywords)
		if err != nil {
			return Model{}, fmt.Errorf("keyword config %q: mental_keywords: %w", path, err)
		}
	}
	if len(file.UrgentPhrases) > 0 {
		phrases, err := normalizePhrases(file.UrgentPhrases)
		if err != nil {
			return Model{}, fmt.Errorf("keyword config %q: urgent_phrases: %w", path, err)
		}
		model.UrgentPhrases = phrases
	}
	if len(file.SentimentPositive) > 0 {
		words, err := normalizePhrases(file.SentimentPositive)
		if err != nil {
			return Model{}, fmt.Errorf("keyword config %q: sentiment_positive: %w", path, err)
		}
		model.PositiveWords = words
	}
	if len(file.SentimentNegative) > 0 {
		words, err := normalizePhrases(file.SentimentNegative)
		if err != nil {
			return Model{}, fmt.Errorf("keyword config %q: sentiment_negative: %w", path, err)
		}
		model.NegativeWords = words
	}

	return model, nil
}

func normalizePhrases(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for i, p := range raw {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return nil, fmt.Errorf("entry %d is empty", i)
		}
		out = append(out, p)
	}
	return out, nil
}
