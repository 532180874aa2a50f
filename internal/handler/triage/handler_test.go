package triage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewise/triage-api/internal/model"
	triageService "github.com/carewise/triage-api/internal/service/triage"
)

type stubGenerator struct {
	output string
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.output, s.err
}

func setupRouter(gen *stubGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := triageService.NewService(gen, time.Second, nil)
	h := NewHandler(svc)

	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	return r
}

func postAnalyze(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	gen := &stubGenerator{output: `{"risk_level": "Critical", "risk_score": 91, "clinical_summary": "Immediate attention required."}`}
	r := setupRouter(gen)

	w := postAnalyze(t, r, `{"patientName": "A. Patel", "age": "67", "symptoms": "crushing chest pain", "vitals": "BP 90/60"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.TriageAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.RiskLevelCritical, got.RiskLevel)
	assert.Equal(t, 91, got.RiskScore)
}

func TestAnalyzeEndpoint_MissingSymptoms(t *testing.T) {
	r := setupRouter(&stubGenerator{})

	for _, body := range []string{
		`{"patientName": "A. Patel"}`,
		`{"symptoms": ""}`,
		`{"symptoms": "   "}`,
	} {
		w := postAnalyze(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "symptoms are required", resp["error"])
	}
}

func TestAnalyzeEndpoint_InvalidBody(t *testing.T) {
	r := setupRouter(&stubGenerator{})

	w := postAnalyze(t, r, `{"symptoms": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request body", resp["error"])
}

// Upstream failure is still a 200: the degraded answer travels the same
// path as a real one.
func TestAnalyzeEndpoint_UpstreamFailureIsStill200(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	r := setupRouter(gen)

	w := postAnalyze(t, r, `{"symptoms": "fever and cough"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.TriageAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.RiskLevelModerate, got.RiskLevel)
	assert.Equal(t, 50, got.RiskScore)
	assert.Contains(t, got.ClinicalSummary, "upstream unavailable")
}

func TestAnalyzeEndpoint_GarbageModelOutputIsStill200(t *testing.T) {
	gen := &stubGenerator{output: "no structured output here"}
	r := setupRouter(gen)

	w := postAnalyze(t, r, `{"symptoms": "fever and cough"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.TriageAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.RiskLevelModerate, got.RiskLevel)
}
