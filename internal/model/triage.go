package model

// Risk level values the upstream model is instructed to emit.
const (
	RiskLevelLow      = "Low"
	RiskLevelModerate = "Moderate"
	RiskLevelHigh     = "High"
	RiskLevelCritical = "Critical"
)

// TriageAssessment is the structured triage result returned by POST /analyze.
// risk_level is the only field the server validates; everything else is
// passed through as the model produced it and consumers render defensively.
type TriageAssessment struct {
	RiskLevel            string   `json:"risk_level"`
	RiskScore            int      `json:"risk_score"`
	KeyConcerns          []string `json:"key_concerns"`
	TriageRecommendation string   `json:"triage_recommendation"`
	ClinicalSummary      string   `json:"clinical_summary"`
	TestsAdvised         []string `json:"tests_advised"`
	FirstAidSteps        []string `json:"first_aid_steps"`
	WhenToRefer          string   `json:"when_to_refer"`
	// Note is advisory only. The fallback path uses it to flag degraded
	// responses; no consumer may require it.
	Note string `json:"note,omitempty"`
}

// AnalyzeRequest is the triage request body. Only symptoms is mandatory;
// the handler substitutes "Not provided" for missing optional fields when
// building the model prompt.
type AnalyzeRequest struct {
	PatientName string `json:"patientName"`
	Age         string `json:"age"`
	Symptoms    string `json:"symptoms"`
	Vitals      string `json:"vitals"`
}
