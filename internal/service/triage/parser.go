package triage

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carewise/triage-api/internal/model"
)

// Parse failure reasons, used as metric labels and operator log context.
const (
	failureNoObject = "no_json_object"
	failureBadJSON  = "decode_error"
	failureNoRisk   = "missing_risk_level"
)

// ParseAssessment extracts a TriageAssessment from raw model output. The
// model is instructed to emit JSON only, but prose and code fences around
// the object are tolerated: the substring from the first '{' to the last
// '}' is taken as the candidate document. Any failure - no braces, bad
// JSON, missing risk_level - degrades to the fallback assessment and is
// logged for operators; this function never returns an error.
func ParseAssessment(raw string) *model.TriageAssessment {
	assessment, _ := parseAssessment(raw)
	return assessment
}

// parseAssessment is ParseAssessment plus the failure reason ("" on a
// clean parse) so the service can label its metrics.
func parseAssessment(raw string) (*model.TriageAssessment, string) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		log.Warn().Str("raw", raw).Msg("no JSON object in model output, using fallback")
		return FallbackAssessment(nil), failureNoObject
	}

	var assessment model.TriageAssessment
	if err := json.Unmarshal([]byte(raw[start:end+1]), &assessment); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("failed to decode model output, using fallback")
		return FallbackAssessment(nil), failureBadJSON
	}

	if strings.TrimSpace(assessment.RiskLevel) == "" {
		log.Warn().Str("raw", raw).Msg("model output missing risk_level, using fallback")
		return FallbackAssessment(nil), failureNoRisk
	}

	return &assessment, ""
}
