package keywords

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultModelTables(t *testing.T) {
	t.Parallel()

	model := Default()

	if got := model.HIV.Len(); got != 16 {
		t.Fatalf("hiv lexicon size got %d want 16", got)
	}
	if got := model.Mental.Len(); got != 17 {
		t.Fatalf("mental lexicon size got %d want 17", got)
	}
	if !model.HIV.Contains("unprotected sex") {
		t.Fatalf("hiv lexicon missing %q", "unprotected sex")
	}
	if !model.Mental.Contains("hopeless") {
		t.Fatalf("mental lexicon missing %q", "hopeless")
	}

	wantUrgent := []string{
		"suicide", "kill myself", "end my life",
		"self harm", "hurt myself", "rape", "sexual assault",
	}
	if !reflect.DeepEqual(model.UrgentPhrases, wantUrgent) {
		t.Fatalf("urgent phrases got %v want %v", model.UrgentPhrases, wantUrgent)
	}

	// The override subset excludes "end my life", "rape" and
	// "sexual assault" even though they raise urgent flags.
	wantOverride := []string{"suicide", "kill myself", "self harm", "hurt myself"}
	if !reflect.DeepEqual(CriticalOverridePhrases, wantOverride) {
		t.Fatalf("override phrases got %v want %v", CriticalOverridePhrases, wantOverride)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "risk.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadReplacesPresentSections(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
hiv_keywords:
  - phrase: Needle Sharing
    weight: 45
  - phrase: unprotected sex
    weight: 35
sentiment_negative: [Terrified, miserable]
`)

	model, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if got := model.HIV.Len(); got != 2 {
		t.Fatalf("hiv lexicon size got %d want 2", got)
	}
	if !model.HIV.Contains("needle sharing") {
		t.Fatalf("hiv lexicon missing lower-cased custom phrase")
	}
	if !reflect.DeepEqual(model.NegativeWords, []string{"terrified", "miserable"}) {
		t.Fatalf("negative words got %v", model.NegativeWords)
	}

	// Sections absent from the file keep the defaults.
	if got := model.Mental.Len(); got != 17 {
		t.Fatalf("mental lexicon size got %d want default 17", got)
	}
	if len(model.UrgentPhrases) != 7 {
		t.Fatalf("urgent phrases got %d want default 7", len(model.UrgentPhrases))
	}
	if len(model.PositiveWords) != 6 {
		t.Fatalf("positive words got %d want default 6", len(model.PositiveWords))
	}
}

func TestLoadRejectsNegativeWeight(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
mental_keywords:
  - phrase: hopeless
    weight: -5
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative weight")
	}
}

func TestLoadRejectsBlankUrgentPhrase(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
urgent_phrases: ["suicide", "   "]
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for blank urgent phrase")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "hiv_keywords: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
