// Package recommend maps an analysis result to NDoH-aligned guideline
// text. The policy is deterministic and side-effect free: two strings,
// HIV guidance first, then mental health.
package recommend

import (
	"github.com/tetraminz/risk_protocol/internal/analysis"
	"github.com/tetraminz/risk_protocol/internal/keywords"
)

// Risk tier thresholds shared by both branches.
const (
	highThreshold     = 70
	moderateThreshold = 35
)

const (
	hivHigh = "HIV Risk HIGH — Follow NDoH HTS & PEP guidelines: " +
		"• Immediate HIV test\n" +
		"• If exposure <72h: urgent PEP evaluation\n" +
		"• Screen for STIs\n" +
		"• Offer PrEP for ongoing risk"
	hivModerate = "HIV Risk MODERATE — Recommend HTS testing soon, partner testing, " +
		"and discuss PrEP per NDoH prevention program."
	hivLow = "HIV Risk LOW — Routine HTS testing recommended per NDoH policy."

	mentalCritical = "Mental Health CRITICAL — Follow NDoH 72-hour Emergency Mental-Health policy: " +
		"• Immediate safety assessment\n" +
		"• Do not leave patient alone\n" +
		"• Urgent psychiatric evaluation"
	mentalHigh = "Mental Health HIGH — Urgent referral to mental-health professional. " +
		"Screen with PHQ-9/GAD-7 and initiate brief counselling."
	mentalModerate = "Mental Health MODERATE — Begin supportive counselling, lifestyle interventions, " +
		"and schedule follow-up in 1–2 weeks."
	mentalLow = "Mental Health LOW — Mild symptoms: recommend self-care, sleep hygiene, " +
		"and monitoring for escalation."
)

// Plan returns the ordered recommendation pair for a result.
func Plan(res *analysis.Result) []string {
	return []string{hivRecommendation(res.Scores.HIV), mentalRecommendation(res)}
}

func hivRecommendation(score int) string {
	switch {
	case score >= highThreshold:
		return hivHigh
	case score >= moderateThreshold:
		return hivModerate
	default:
		return hivLow
	}
}

// mentalRecommendation checks the critical override before any numeric
// tier: a single suicidality or self-harm flag forces CRITICAL even when
// the normalized score is zero.
func mentalRecommendation(res *analysis.Result) string {
	if hasCriticalFlag(res.Urgent) {
		return mentalCritical
	}
	switch {
	case res.Scores.Mental >= highThreshold:
		return mentalHigh
	case res.Scores.Mental >= moderateThreshold:
		return mentalModerate
	default:
		return mentalLow
	}
}

func hasCriticalFlag(flags []analysis.UrgentFlag) bool {
	for _, f := range flags {
		for _, phrase := range keywords.CriticalOverridePhrases {
			if f.Phrase == phrase {
				return true
			}
		}
	}
	return false
}
