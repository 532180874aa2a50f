package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carewise/triage-api/internal/ai"
	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/pkg/metrics"
)

var ErrEmptySymptoms = fmt.Errorf("symptoms are required")

const defaultUpstreamTimeout = 30 * time.Second

type Service struct {
	gen     ai.Generator
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewService wires the triage pipeline. m may be nil in tests.
func NewService(gen ai.Generator, timeout time.Duration, m *metrics.Metrics) *Service {
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &Service{
		gen:     gen,
		timeout: timeout,
		metrics: m,
	}
}

// Analyze runs the full triage pipeline: prompt, upstream invocation,
// parse, fallback. The returned assessment always has a non-empty
// risk_level. The only error ever returned is ErrEmptySymptoms; every
// upstream or parse failure is absorbed into the fallback assessment so
// callers see a normally-shaped answer on HTTP 200.
func (s *Service) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.TriageAssessment, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, ErrEmptySymptoms
	}

	prompt := buildPrompt(req)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.Generate(ctx, prompt)
	if s.metrics != nil {
		s.metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		// Upstream failures (network, auth, quota, timeout) are degraded
		// service, not errors: serve the fallback with the literal error
		// message in the visible summary for operator diagnosis.
		log.Error().Err(err).Msg("upstream model invocation failed")
		s.countUpstream("error")
		s.countFallback()
		assessment := FallbackAssessment(err)
		assessment.ClinicalSummary = fmt.Sprintf("AI analysis unavailable (%s). Operating in degraded mode; this case requires manual clinician review.", err.Error())
		return assessment, nil
	}
	s.countUpstream("success")

	assessment, reason := parseAssessment(raw)
	if reason != "" {
		s.countParseFailure(reason)
		s.countFallback()
	}
	return assessment, nil
}

func (s *Service) countUpstream(status string) {
	if s.metrics != nil {
		s.metrics.UpstreamRequests.WithLabelValues(status).Inc()
	}
}

func (s *Service) countParseFailure(reason string) {
	if s.metrics != nil {
		s.metrics.ParseFailures.WithLabelValues(reason).Inc()
	}
}

func (s *Service) countFallback() {
	if s.metrics != nil {
		s.metrics.FallbackTotal.Inc()
	}
}
