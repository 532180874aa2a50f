package triage

import (
	"github.com/carewise/triage-api/internal/model"
)

// FallbackAssessment returns the fixed safe-default assessment used
// whenever a real one cannot be produced or validated. The shape is
// complete: every field the client renders is populated, so consumers
// never need to distinguish a degraded answer from a real one. cause, if
// non-nil, is surfaced in the advisory note only.
func FallbackAssessment(cause error) *model.TriageAssessment {
	note := "Automatic fallback response: AI triage was unavailable."
	if cause != nil {
		note += " Upstream error: " + cause.Error()
	}

	return &model.TriageAssessment{
		RiskLevel: model.RiskLevelModerate,
		RiskScore: 50,
		KeyConcerns: []string{
			"Automated triage unavailable - manual clinical review required",
		},
		TriageRecommendation: "Perform a manual triage assessment. Treat as moderate priority until a clinician has reviewed the patient.",
		ClinicalSummary:      "AI analysis could not be completed. Operating in degraded mode; this case requires manual clinician review.",
		TestsAdvised: []string{
			"As indicated by clinical judgment",
		},
		FirstAidSteps: []string{
			"Monitor vital signs",
			"Keep the patient comfortable and under observation",
		},
		WhenToRefer: "Follow the standard referral protocol for the presenting complaint.",
		Note:        note,
	}
}
