package triage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewise/triage-api/internal/model"
)

func TestFallbackAssessment_Shape(t *testing.T) {
	a := FallbackAssessment(nil)

	require.NotNil(t, a)
	assert.Equal(t, model.RiskLevelModerate, a.RiskLevel)
	assert.Equal(t, 50, a.RiskScore)
	assert.NotEmpty(t, a.KeyConcerns)
	assert.NotEmpty(t, a.TriageRecommendation)
	assert.NotEmpty(t, a.ClinicalSummary)
	assert.NotEmpty(t, a.TestsAdvised)
	assert.NotEmpty(t, a.FirstAidSteps)
	assert.NotEmpty(t, a.WhenToRefer)
	assert.NotEmpty(t, a.Note)
}

func TestFallbackAssessment_CauseInNote(t *testing.T) {
	a := FallbackAssessment(errors.New("connection refused"))

	assert.Contains(t, a.Note, "connection refused")
	// The cause goes in the advisory note only; the summary stays fixed.
	assert.NotContains(t, a.ClinicalSummary, "connection refused")
}

func TestFallbackAssessment_Deterministic(t *testing.T) {
	first := FallbackAssessment(nil)
	second := FallbackAssessment(nil)

	assert.Equal(t, first, second)
}
