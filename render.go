package main

import (
	"fmt"
	"strings"

	"github.com/tetraminz/risk_protocol/internal/analysis"
)

// BuildAnalysisReport renders the human-readable report for one analysis.
// Section order: header, scores, sentiment trend, HIV indicators,
// mental-health indicators, urgent flags, treatment plan.
func BuildAnalysisReport(sourceFile string, res *analysis.Result, recommendations []string) string {
	var b strings.Builder

	b.WriteString("========== AI Conversation Risk Analysis ==========\n\n")
	fmt.Fprintf(&b, "Source file: %s\n\n", sourceFile)

	b.WriteString("---- Risk Scores (0–100) ----\n")
	fmt.Fprintf(&b, "HIV acquisition risk: %d\n", res.Scores.HIV)
	fmt.Fprintf(&b, "Mental-health risk: %d\n\n", res.Scores.Mental)

	fmt.Fprintf(&b, "Sentiment trend: %s\n\n", res.SentimentTrend)

	b.WriteString("---- Strongest HIV indicators detected ----\n")
	writeTallySection(&b, res.Matches.HIV.Phrases(), res.Matches.HIV.Count)

	b.WriteString("\n---- Strongest Mental-Health indicators detected ----\n")
	writeTallySection(&b, res.Matches.Mental.Phrases(), res.Matches.Mental.Count)

	b.WriteString("\n---- Urgent Red Flags ----\n")
	if len(res.Urgent) == 0 {
		b.WriteString("  none\n")
	} else {
		for _, f := range res.Urgent {
			fmt.Fprintf(&b, "  !!! %s @ %s — %s\n", f.Phrase, f.Timestamp, f.Message)
		}
	}

	b.WriteString("\n---- NDoH-Aligned Treatment Plan ----\n")
	for _, rec := range recommendations {
		fmt.Fprintf(&b, "• %s\n", rec)
	}

	return b.String()
}

func writeTallySection(b *strings.Builder, phrases []string, count func(string) int) {
	if len(phrases) == 0 {
		b.WriteString("  none\n")
		return
	}
	for _, phrase := range phrases {
		fmt.Fprintf(b, "  - %s (x%d)\n", phrase, count(phrase))
	}
}
