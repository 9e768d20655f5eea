package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tetraminz/risk_protocol/internal/analysis"
	"github.com/tetraminz/risk_protocol/internal/keywords"
	"github.com/tetraminz/risk_protocol/internal/sentiment"
	"github.com/tetraminz/risk_protocol/internal/transcript"
)

func analyzeFixture(t *testing.T, text string) (*analysis.Result, []transcript.Utterance) {
	t.Helper()
	model := keywords.Default()
	engine := analysis.NewEngine(
		model.HIV,
		model.Mental,
		sentiment.NewScorer(model.PositiveWords, model.NegativeWords),
		model.UrgentPhrases,
	)
	utterances := transcript.Parse(text)
	result, err := engine.Analyze(utterances)
	if err != nil {
		t.Fatalf("analyze fixture: %v", err)
	}
	return result, utterances
}

func insertFixtureRun(t *testing.T, dbPath, runID, text string) {
	t.Helper()
	result, utterances := analyzeFixture(t, text)

	db, err := openSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := ensureStoreSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := InsertRun(db, StoredRun{
		RunID:         runID,
		SourceFile:    "conversation.txt",
		AnalyzedAtUTC: "2024-01-01T10:00:00Z",
		Utterances:    utterances,
		Result:        result,
	}); err != nil {
		t.Fatalf("insert run: %v", err)
	}
}

func TestInsertRunPersistsAllTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analyses.db")
	insertFixtureRun(t, dbPath, "run_1",
		"[01/01/2024, 10:00] Alice: I had unprotected sex and feel hopeless\n"+
			"[01/01/2024, 10:05] Alice: I want to kill myself\n")

	db, err := openSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&runs); err != nil {
		t.Fatalf("count analyses: %v", err)
	}
	if runs != 1 {
		t.Fatalf("analyses rows got %d want 1", runs)
	}

	var utteranceRows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM utterances WHERE run_id = 'run_1'`).Scan(&utteranceRows); err != nil {
		t.Fatalf("count utterances: %v", err)
	}
	if utteranceRows != 2 {
		t.Fatalf("utterance rows got %d want 2", utteranceRows)
	}

	var flagPhrase string
	if err := db.QueryRow(`
		SELECT phrase FROM urgent_flags WHERE run_id = 'run_1' ORDER BY flag_index LIMIT 1
	`).Scan(&flagPhrase); err != nil {
		t.Fatalf("query urgent flag: %v", err)
	}
	if flagPhrase != "kill myself" {
		t.Fatalf("urgent phrase got %q want %q", flagPhrase, "kill myself")
	}

	var matchCount int
	if err := db.QueryRow(`
		SELECT match_count FROM phrase_matches
		WHERE run_id = 'run_1' AND category = 'hiv' AND phrase = 'unprotected sex'
	`).Scan(&matchCount); err != nil {
		t.Fatalf("query phrase match: %v", err)
	}
	if matchCount != 1 {
		t.Fatalf("match count got %d want 1", matchCount)
	}

	var trend string
	var urgentCount int
	if err := db.QueryRow(`
		SELECT sentiment_trend, urgent_count FROM analyses WHERE run_id = 'run_1'
	`).Scan(&trend, &urgentCount); err != nil {
		t.Fatalf("query analysis summary: %v", err)
	}
	if urgentCount != 1 {
		t.Fatalf("urgent count got %d want 1", urgentCount)
	}
	if trend == "" {
		t.Fatalf("sentiment trend not stored")
	}
}

func TestInsertRunRejectsDuplicateRunID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analyses.db")
	insertFixtureRun(t, dbPath, "run_dup", "[01/01/2024, 10:00] Alice: feeling okay\n")

	result, utterances := analyzeFixture(t, "[01/01/2024, 10:00] Alice: feeling okay\n")
	db, err := openSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	err = InsertRun(db, StoredRun{
		RunID:         "run_dup",
		SourceFile:    "conversation.txt",
		AnalyzedAtUTC: "2024-01-01T11:00:00Z",
		Utterances:    utterances,
		Result:        result,
	})
	if err == nil {
		t.Fatalf("expected duplicate run id to fail")
	}
}

func TestSetupSQLiteResetsStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analyses.db")
	insertFixtureRun(t, dbPath, "run_reset", "[01/01/2024, 10:00] Alice: feeling okay\n")

	if err := SetupSQLite(dbPath); err != nil {
		t.Fatalf("setup: %v", err)
	}

	db, err := openSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&runs); err != nil {
		t.Fatalf("count analyses: %v", err)
	}
	if runs != 0 {
		t.Fatalf("analyses rows after setup got %d want 0", runs)
	}
}

func TestBuildStoreReportAggregatesRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analyses.db")
	insertFixtureRun(t, dbPath, "run_a",
		"[01/01/2024, 10:00] Alice: I had unprotected sex and feel hopeless\n")
	insertFixtureRun(t, dbPath, "run_b",
		"[02/01/2024, 09:00] Bob: I want to kill myself\n")

	report, err := BuildStoreReport(dbPath)
	if err != nil {
		t.Fatalf("BuildStoreReport error: %v", err)
	}

	if report.RunCount != 2 {
		t.Fatalf("run count got %d want 2", report.RunCount)
	}
	if report.UtteranceRows != 2 {
		t.Fatalf("utterance rows got %d want 2", report.UtteranceRows)
	}
	if report.UrgentFlagTotal != 1 {
		t.Fatalf("urgent total got %d want 1", report.UrgentFlagTotal)
	}
	if report.RunsWithUrgent != 1 {
		t.Fatalf("runs with urgent got %d want 1", report.RunsWithUrgent)
	}
	if report.CriticalRunCount != 1 {
		t.Fatalf("critical runs got %d want 1", report.CriticalRunCount)
	}
	if report.MentalScoreMax != 100 {
		t.Fatalf("mental max got %d want 100", report.MentalScoreMax)
	}
	if len(report.TopPhrases) != 3 {
		t.Fatalf("top phrase count got %d want 3", len(report.TopPhrases))
	}
	// All totals are 1, so ties resolve by category then phrase.
	if report.TopPhrases[0].Category != "hiv" || report.TopPhrases[0].Phrase != "unprotected sex" {
		t.Fatalf("top phrase got %s/%s want hiv/unprotected sex",
			report.TopPhrases[0].Category, report.TopPhrases[0].Phrase)
	}
	if len(report.RecentUrgent) != 1 {
		t.Fatalf("recent urgent got %d want 1", len(report.RecentUrgent))
	}
}

func TestFormatStoreReport(t *testing.T) {
	t.Parallel()

	report := storeReport{
		RunCount:       2,
		UtteranceRows:  5,
		HIVScoreAvg:    14.5,
		HIVScoreMax:    29,
		MentalScoreAvg: 66.5,
		MentalScoreMax: 100,
		StableCount:    2,
		TopPhrases:     []phraseTotal{{Category: "mental", Phrase: "hopeless", Total: 3}},
	}
	got := FormatStoreReport(report)

	for _, fragment := range []string{
		"run_count=2",
		"utterance_rows=5",
		"hiv_score_avg=14.50 max=29",
		"mental_score_avg=66.50 max=100",
		"trend_improving=0 trend_worsening=0 trend_stable=2",
		"mental/hopeless x3",
		"recent_urgent:\n  none",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("report missing %q:\n%s", fragment, got)
		}
	}
}
