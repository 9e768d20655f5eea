package main

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/tetraminz/risk_protocol/internal/analysis"
	"github.com/tetraminz/risk_protocol/internal/lexicon"
	"github.com/tetraminz/risk_protocol/internal/transcript"
)

const (
	categoryHIV    = "hiv"
	categoryMental = "mental"
)

const createAnalysesTableSQL = `
CREATE TABLE IF NOT EXISTS analyses (
	run_id TEXT NOT NULL,
	source_file TEXT NOT NULL,
	analyzed_at_utc TEXT NOT NULL,
	utterance_count INTEGER NOT NULL,
	hiv_score INTEGER NOT NULL,
	mental_score INTEGER NOT NULL,
	sentiment_trend TEXT NOT NULL,
	urgent_count INTEGER NOT NULL,
	PRIMARY KEY (run_id)
)`

const createUtterancesTableSQL = `
CREATE TABLE IF NOT EXISTS utterances (
	run_id TEXT NOT NULL,
	utterance_index INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	speaker TEXT NOT NULL,
	message TEXT NOT NULL,
	sentiment INTEGER NOT NULL,
	PRIMARY KEY (run_id, utterance_index)
)`

const createUrgentFlagsTableSQL = `
CREATE TABLE IF NOT EXISTS urgent_flags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	flag_index INTEGER NOT NULL,
	phrase TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	speaker TEXT NOT NULL,
	message TEXT NOT NULL
)`

const createPhraseMatchesTableSQL = `
CREATE TABLE IF NOT EXISTS phrase_matches (
	run_id TEXT NOT NULL,
	category TEXT NOT NULL,
	phrase TEXT NOT NULL,
	match_count INTEGER NOT NULL,
	PRIMARY KEY (run_id, category, phrase)
)`

var createStoreIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_analyses_sentiment_trend ON analyses(sentiment_trend)`,
	`CREATE INDEX IF NOT EXISTS idx_urgent_flags_run ON urgent_flags(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_urgent_flags_phrase ON urgent_flags(phrase)`,
	`CREATE INDEX IF NOT EXISTS idx_phrase_matches_category_phrase ON phrase_matches(category, phrase)`,
}

var dropStoreTablesSQL = []string{
	`DROP TABLE IF EXISTS analyses`,
	`DROP TABLE IF EXISTS utterances`,
	`DROP TABLE IF EXISTS urgent_flags`,
	`DROP TABLE IF EXISTS phrase_matches`,
}

const insertAnalysisSQL = `
INSERT INTO analyses (
	run_id,
	source_file,
	analyzed_at_utc,
	utterance_count,
	hiv_score,
	mental_score,
	sentiment_trend,
	urgent_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const insertUtteranceSQL = `
INSERT INTO utterances (
	run_id,
	utterance_index,
	timestamp,
	speaker,
	message,
	sentiment
) VALUES (?, ?, ?, ?, ?, ?)`

const insertUrgentFlagSQL = `
INSERT INTO urgent_flags (
	run_id,
	flag_index,
	phrase,
	timestamp,
	speaker,
	message
) VALUES (?, ?, ?, ?, ?, ?)`

const insertPhraseMatchSQL = `
INSERT INTO phrase_matches (
	run_id,
	category,
	phrase,
	match_count
) VALUES (?, ?, ?, ?)`

// StoredRun is one analysis run as persisted by the CLI. The engine itself
// never touches the store.
type StoredRun struct {
	RunID         string
	SourceFile    string
	AnalyzedAtUTC string
	Utterances    []transcript.Utterance
	Result        *analysis.Result
}

func openSQLite(dbPath string) (*sql.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

func ensureStoreSchema(db *sql.DB) error {
	tables := []struct {
		name     string
		create   string
		required []string
	}{
		{"analyses", createAnalysesTableSQL, []string{
			"run_id", "source_file", "analyzed_at_utc", "utterance_count",
			"hiv_score", "mental_score", "sentiment_trend", "urgent_count",
		}},
		{"utterances", createUtterancesTableSQL, []string{
			"run_id", "utterance_index", "timestamp", "speaker", "message", "sentiment",
		}},
		{"urgent_flags", createUrgentFlagsTableSQL, []string{
			"id", "run_id", "flag_index", "phrase", "timestamp", "speaker", "message",
		}},
		{"phrase_matches", createPhraseMatchesTableSQL, []string{
			"run_id", "category", "phrase", "match_count",
		}},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.create); err != nil {
			return fmt.Errorf("create %s table: %w", table.name, err)
		}
		missing, err := missingColumns(db, table.name, table.required)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf(
				"incompatible %s schema, missing columns: %s; run `go run . setup --db <path>`",
				table.name, strings.Join(missing, ", "),
			)
		}
	}
	for _, stmt := range createStoreIndexesSQL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create store index: %w", err)
		}
	}
	return nil
}

func missingColumns(db *sql.DB, table string, required []string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s schema: %w", table, err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var cid int
		var name string
		var colType string
		var notNull int
		var defaultValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("scan %s schema: %w", table, err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s schema: %w", table, err)
	}

	var missing []string
	for _, col := range required {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// InsertRun writes one run's summary, utterances, urgent flags and phrase
// tallies in a single transaction.
func InsertRun(db *sql.DB, run StoredRun) error {
	if strings.TrimSpace(run.RunID) == "" {
		return fmt.Errorf("run id is required")
	}
	if run.Result == nil {
		return fmt.Errorf("run result is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin store transaction: %w", err)
	}
	defer tx.Rollback()

	res := run.Result
	if _, err := tx.Exec(insertAnalysisSQL,
		run.RunID,
		run.SourceFile,
		run.AnalyzedAtUTC,
		len(run.Utterances),
		res.Scores.HIV,
		res.Scores.Mental,
		res.SentimentTrend,
		len(res.Urgent),
	); err != nil {
		return fmt.Errorf("insert analysis row: %w", err)
	}

	for i, u := range run.Utterances {
		sentimentValue := 0
		if i < len(res.RawSentiments) {
			sentimentValue = res.RawSentiments[i]
		}
		if _, err := tx.Exec(insertUtteranceSQL,
			run.RunID, i, u.Timestamp, u.Speaker, u.Message, sentimentValue,
		); err != nil {
			return fmt.Errorf("insert utterance row %d: %w", i, err)
		}
	}

	for i, f := range res.Urgent {
		if _, err := tx.Exec(insertUrgentFlagSQL,
			run.RunID, i, f.Phrase, f.Timestamp, f.Speaker, f.Message,
		); err != nil {
			return fmt.Errorf("insert urgent flag row %d: %w", i, err)
		}
	}

	if err := insertTally(tx, run.RunID, categoryHIV, res.Matches.HIV); err != nil {
		return err
	}
	if err := insertTally(tx, run.RunID, categoryMental, res.Matches.Mental); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit store transaction: %w", err)
	}
	return nil
}

func insertTally(tx *sql.Tx, runID, category string, tally *lexicon.Tally) error {
	for _, phrase := range tally.Phrases() {
		if _, err := tx.Exec(insertPhraseMatchSQL, runID, category, phrase, tally.Count(phrase)); err != nil {
			return fmt.Errorf("insert %s phrase match %q: %w", category, phrase, err)
		}
	}
	return nil
}

// SetupSQLite drops and recreates the store schema.
func SetupSQLite(dbPath string) error {
	if strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("db path is required")
	}
	if err := ensureParentDir(dbPath); err != nil {
		return err
	}

	db, err := openSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range dropStoreTablesSQL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("drop store table: %w", err)
		}
	}
	return ensureStoreSchema(db)
}
