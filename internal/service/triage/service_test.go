package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewise/triage-api/internal/model"
)

type stubGenerator struct {
	output string
	err    error
	delay  time.Duration

	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.output, s.err
}

func analyzeRequest() *model.AnalyzeRequest {
	return &model.AnalyzeRequest{
		PatientName: "Jordan Mills",
		Age:         "42",
		Symptoms:    "severe chest pain radiating to left arm",
		Vitals:      "BP 150/95, HR 110",
	}
}

func TestAnalyze_Success(t *testing.T) {
	gen := &stubGenerator{output: `{"risk_level": "Critical", "risk_score": 92, "clinical_summary": "Suspected MI."}`}
	svc := NewService(gen, time.Second, nil)

	got, err := svc.Analyze(context.Background(), analyzeRequest())

	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelCritical, got.RiskLevel)
	assert.Equal(t, 92, got.RiskScore)
	assert.Equal(t, "Suspected MI.", got.ClinicalSummary)
}

func TestAnalyze_EmptySymptoms(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, time.Second, nil)

	req := analyzeRequest()
	req.Symptoms = "   "

	got, err := svc.Analyze(context.Background(), req)

	assert.ErrorIs(t, err, ErrEmptySymptoms)
	assert.Nil(t, got)
	assert.Empty(t, gen.prompts, "upstream must not be called for empty symptoms")
}

func TestAnalyze_UpstreamErrorFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc := NewService(gen, time.Second, nil)

	got, err := svc.Analyze(context.Background(), analyzeRequest())

	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelModerate, got.RiskLevel)
	assert.Equal(t, 50, got.RiskScore)
	// The literal upstream error lands in the visible summary so
	// operators can diagnose from what the clinician sees.
	assert.Contains(t, got.ClinicalSummary, "quota exceeded")
	assert.Contains(t, got.ClinicalSummary, "manual clinician review")
}

func TestAnalyze_UpstreamTimeoutFallsBack(t *testing.T) {
	gen := &stubGenerator{
		output: `{"risk_level": "Low"}`,
		delay:  200 * time.Millisecond,
	}
	svc := NewService(gen, 10*time.Millisecond, nil)

	got, err := svc.Analyze(context.Background(), analyzeRequest())

	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelModerate, got.RiskLevel)
	assert.Contains(t, got.ClinicalSummary, context.DeadlineExceeded.Error())
}

func TestAnalyze_GarbageOutputFallsBack(t *testing.T) {
	gen := &stubGenerator{output: "I am unable to assess this patient."}
	svc := NewService(gen, time.Second, nil)

	got, err := svc.Analyze(context.Background(), analyzeRequest())

	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelModerate, got.RiskLevel)
	assert.Equal(t, 50, got.RiskScore)
}

func TestAnalyze_ProseWrappedOutputParses(t *testing.T) {
	gen := &stubGenerator{output: "Sure, here you go: {\"risk_level\": \"High\", \"risk_score\": 75}"}
	svc := NewService(gen, time.Second, nil)

	got, err := svc.Analyze(context.Background(), analyzeRequest())

	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelHigh, got.RiskLevel)
}

func TestAnalyze_PromptSubstitutesMissingFields(t *testing.T) {
	gen := &stubGenerator{output: `{"risk_level": "Low"}`}
	svc := NewService(gen, time.Second, nil)

	req := &model.AnalyzeRequest{Symptoms: "headache"}
	_, err := svc.Analyze(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "headache")
	assert.Contains(t, gen.prompts[0], "Not provided")
}

func TestAnalyze_NeverReturnsNilAssessment(t *testing.T) {
	cases := []struct {
		name string
		gen  *stubGenerator
	}{
		{"upstream error", &stubGenerator{err: errors.New("boom")}},
		{"empty output", &stubGenerator{output: ""}},
		{"malformed output", &stubGenerator{output: `{"risk_level":`}},
		{"missing risk level", &stubGenerator{output: `{"risk_score": 10}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.gen, time.Second, nil)
			got, err := svc.Analyze(context.Background(), analyzeRequest())
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.RiskLevel)
		})
	}
}
