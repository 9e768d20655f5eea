package main

import (
	"strings"
	"testing"

	"github.com/tetraminz/risk_protocol/internal/analysis"
	"github.com/tetraminz/risk_protocol/internal/lexicon"
)

func sampleResult() *analysis.Result {
	hivTally := lexicon.NewTally()
	hivTally.Add("unprotected sex", 1)
	mentalTally := lexicon.NewTally()
	mentalTally.Add("hopeless", 2)
	mentalTally.Add("stressed", 1)

	return &analysis.Result{
		Scores:  analysis.Scores{HIV: 29, Mental: 66},
		Matches: analysis.Matches{HIV: hivTally, Mental: mentalTally},
		Urgent: []analysis.UrgentFlag{
			{Phrase: "suicide", Timestamp: "01/01/2024, 10:00", Speaker: "Alice", Message: "suicide crossed my mind"},
		},
		SentimentTrend: analysis.TrendWorsening,
		RawSentiments:  []int{-1, -2},
	}
}

func TestBuildAnalysisReportSections(t *testing.T) {
	t.Parallel()

	report := BuildAnalysisReport("conversation.txt", sampleResult(), []string{
		"HIV Risk LOW — Routine HTS testing recommended per NDoH policy.",
		"Mental Health CRITICAL — escalate now.",
	})

	wantFragments := []string{
		"========== AI Conversation Risk Analysis ==========",
		"Source file: conversation.txt",
		"HIV acquisition risk: 29",
		"Mental-health risk: 66",
		"Sentiment trend: Worsening",
		"  - unprotected sex (x1)",
		"  - hopeless (x2)",
		"  - stressed (x1)",
		"  !!! suicide @ 01/01/2024, 10:00 — suicide crossed my mind",
		"• HIV Risk LOW",
		"• Mental Health CRITICAL",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(report, fragment) {
			t.Fatalf("report missing %q:\n%s", fragment, report)
		}
	}

	hivSection := strings.Index(report, "Strongest HIV indicators")
	mentalSection := strings.Index(report, "Strongest Mental-Health indicators")
	urgentSection := strings.Index(report, "Urgent Red Flags")
	planSection := strings.Index(report, "NDoH-Aligned Treatment Plan")
	if !(hivSection < mentalSection && mentalSection < urgentSection && urgentSection < planSection) {
		t.Fatalf("report sections out of order:\n%s", report)
	}
}

func TestBuildAnalysisReportTallyOrder(t *testing.T) {
	t.Parallel()

	report := BuildAnalysisReport("conversation.txt", sampleResult(), nil)

	hopeless := strings.Index(report, "- hopeless")
	stressed := strings.Index(report, "- stressed")
	if hopeless == -1 || stressed == -1 || hopeless > stressed {
		t.Fatalf("mental indicators not in tally insertion order:\n%s", report)
	}
}

func TestBuildAnalysisReportEmptySections(t *testing.T) {
	t.Parallel()

	res := &analysis.Result{
		Scores:         analysis.Scores{},
		Matches:        analysis.Matches{HIV: lexicon.NewTally(), Mental: lexicon.NewTally()},
		SentimentTrend: analysis.TrendStable,
		RawSentiments:  []int{0},
	}
	report := BuildAnalysisReport("conversation.txt", res, []string{"a", "b"})

	if got := strings.Count(report, "  none"); got != 3 {
		t.Fatalf("expected 3 none sections, got %d:\n%s", got, report)
	}
}
