package main

import (
	"database/sql"
	"flag"
	"fmt"
	"strings"

	"github.com/tetraminz/risk_protocol/internal/analysis"
	"github.com/tetraminz/risk_protocol/internal/keywords"
)

type storeReport struct {
	RunCount      int
	UtteranceRows int

	HIVScoreAvg    float64
	HIVScoreMax    int
	MentalScoreAvg float64
	MentalScoreMax int

	ImprovingCount int
	WorseningCount int
	StableCount    int

	UrgentFlagTotal  int
	RunsWithUrgent   int
	CriticalRunCount int

	TopPhrases   []phraseTotal
	RecentUrgent []urgentItem
}

type phraseTotal struct {
	Category string
	Phrase   string
	Total    int
}

type urgentItem struct {
	RunID     string
	Phrase    string
	Timestamp string
	Message   string
}

func runReportCmd(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	dbPath := fs.String("db", defaultSQLitePath, "Path to SQLite store file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := BuildStoreReport(*dbPath)
	if err != nil {
		return err
	}
	fmt.Print(FormatStoreReport(report))
	return nil
}

func runSetupCmd(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	dbPath := fs.String("db", defaultSQLitePath, "Path to SQLite store file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := SetupSQLite(*dbPath); err != nil {
		return err
	}
	fmt.Printf("store ready at %s\n", *dbPath)
	return nil
}

// BuildStoreReport summarizes every run recorded in the store.
func BuildStoreReport(dbPath string) (storeReport, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return storeReport{}, err
	}
	defer db.Close()
	if err := ensureStoreSchema(db); err != nil {
		return storeReport{}, err
	}

	report := storeReport{}

	rows, err := db.Query(`
		SELECT hiv_score, mental_score, sentiment_trend, urgent_count
		FROM analyses
	`)
	if err != nil {
		return storeReport{}, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	hivSum := 0
	mentalSum := 0
	for rows.Next() {
		var hivScore, mentalScore, urgentCount int
		var trend string
		if err := rows.Scan(&hivScore, &mentalScore, &trend, &urgentCount); err != nil {
			return storeReport{}, fmt.Errorf("scan analysis row: %w", err)
		}

		report.RunCount++
		hivSum += hivScore
		mentalSum += mentalScore
		if hivScore > report.HIVScoreMax {
			report.HIVScoreMax = hivScore
		}
		if mentalScore > report.MentalScoreMax {
			report.MentalScoreMax = mentalScore
		}

		switch trend {
		case analysis.TrendImproving:
			report.ImprovingCount++
		case analysis.TrendWorsening:
			report.WorseningCount++
		default:
			report.StableCount++
		}

		report.UrgentFlagTotal += urgentCount
		if urgentCount > 0 {
			report.RunsWithUrgent++
		}
	}
	if err := rows.Err(); err != nil {
		return storeReport{}, fmt.Errorf("iterate analysis rows: %w", err)
	}

	if report.RunCount > 0 {
		report.HIVScoreAvg = float64(hivSum) / float64(report.RunCount)
		report.MentalScoreAvg = float64(mentalSum) / float64(report.RunCount)
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM utterances`).Scan(&report.UtteranceRows); err != nil {
		return storeReport{}, fmt.Errorf("count utterance rows: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keywords.CriticalOverridePhrases)), ",")
	args := make([]any, 0, len(keywords.CriticalOverridePhrases))
	for _, phrase := range keywords.CriticalOverridePhrases {
		args = append(args, phrase)
	}
	if err := db.QueryRow(
		`SELECT COUNT(DISTINCT run_id) FROM urgent_flags WHERE phrase IN (`+placeholders+`)`,
		args...,
	).Scan(&report.CriticalRunCount); err != nil {
		return storeReport{}, fmt.Errorf("count critical runs: %w", err)
	}

	topPhrases, err := queryTopPhrases(db)
	if err != nil {
		return storeReport{}, err
	}
	report.TopPhrases = topPhrases

	recentUrgent, err := queryRecentUrgent(db)
	if err != nil {
		return storeReport{}, err
	}
	report.RecentUrgent = recentUrgent

	return report, nil
}

func queryTopPhrases(db *sql.DB) ([]phraseTotal, error) {
	rows, err := db.Query(`
		SELECT category, phrase, SUM(match_count) AS total
		FROM phrase_matches
		GROUP BY category, phrase
		ORDER BY total DESC, category ASC, phrase ASC
		LIMIT ?
	`, storeReportTopPhrases)
	if err != nil {
		return nil, fmt.Errorf("query top phrases: %w", err)
	}
	defer rows.Close()

	var out []phraseTotal
	for rows.Next() {
		var item phraseTotal
		if err := rows.Scan(&item.Category, &item.Phrase, &item.Total); err != nil {
			return nil, fmt.Errorf("scan top phrase row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top phrase rows: %w", err)
	}
	return out, nil
}

func queryRecentUrgent(db *sql.DB) ([]urgentItem, error) {
	rows, err := db.Query(`
		SELECT run_id, phrase, timestamp, message
		FROM urgent_flags
		ORDER BY id DESC
		LIMIT ?
	`, storeReportUrgentItems)
	if err != nil {
		return nil, fmt.Errorf("query urgent flags: %w", err)
	}
	defer rows.Close()

	var out []urgentItem
	for rows.Next() {
		var item urgentItem
		if err := rows.Scan(&item.RunID, &item.Phrase, &item.Timestamp, &item.Message); err != nil {
			return nil, fmt.Errorf("scan urgent flag row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate urgent flag rows: %w", err)
	}
	return out, nil
}

// FormatStoreReport renders the store summary as key=value lines plus the
// top-phrase and urgent backlog sections.
func FormatStoreReport(r storeReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("run_count=%d\n", r.RunCount))
	b.WriteString(fmt.Sprintf("utterance_rows=%d\n", r.UtteranceRows))
	b.WriteString(fmt.Sprintf("hiv_score_avg=%.2f max=%d\n", r.HIVScoreAvg, r.HIVScoreMax))
	b.WriteString(fmt.Sprintf("mental_score_avg=%.2f max=%d\n", r.MentalScoreAvg, r.MentalScoreMax))
	b.WriteString(fmt.Sprintf("trend_improving=%d trend_worsening=%d trend_stable=%d\n",
		r.ImprovingCount, r.WorseningCount, r.StableCount))
	b.WriteString(fmt.Sprintf("urgent_flags_total=%d runs_with_urgent=%d critical_runs=%d\n",
		r.UrgentFlagTotal, r.RunsWithUrgent, r.CriticalRunCount))

	b.WriteString("top_phrases:\n")
	if len(r.TopPhrases) == 0 {
		b.WriteString("  none\n")
	} else {
		for _, item := range r.TopPhrases {
			b.WriteString(fmt.Sprintf("  %s/%s x%d\n", item.Category, item.Phrase, item.Total))
		}
	}

	b.WriteString("recent_urgent:\n")
	if len(r.RecentUrgent) == 0 {
		b.WriteString("  none\n")
	} else {
		for _, item := range r.RecentUrgent {
			b.WriteString(fmt.Sprintf("  !!! %s @ %s (run %s) — %s\n",
				item.Phrase, item.Timestamp, item.RunID, item.Message))
		}
	}
	return b.String()
}
