package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/carewise/triage-api/internal/model"
)

var (
	ErrAnalysisInFlight = errors.New("an analysis is already in progress")
	ErrSaveInFlight     = errors.New("a save is already in progress")
	ErrNoPendingCase    = errors.New("no pending case to save")
	ErrEmptySymptoms    = errors.New("symptoms are required")
)

const (
	patientCacheKey = "patients"
	patientCacheTTL = 30 * time.Second
)

// PendingCase is the single in-flight intake held by a session: the
// request the clinician submitted and the assessment that came back for
// it. It exists only between a successful Analyze and the explicit Save.
type PendingCase struct {
	Request    model.AnalyzeRequest
	Assessment *model.TriageAssessment
	PatientID  string
	NewPatient bool
}

// Session drives the intake workflow on top of Client. One analysis and
// one save may be in flight at a time; concurrent calls are rejected,
// not queued. A failed save leaves the pending case untouched so the
// clinician can retry deliberately; nothing retries on their behalf.
type Session struct {
	client *Client

	mu      sync.Mutex
	busy    bool
	saving  bool
	pending *PendingCase

	patients *cache.Cache
}

func NewSession(c *Client) *Session {
	return &Session{
		client:   c,
		patients: cache.New(patientCacheTTL, time.Minute),
	}
}

// Pending returns the current pending case, or nil when there is none.
func (s *Session) Pending() *PendingCase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Busy reports whether an analysis is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Analyze submits the intake form. A transport failure is the only
// error the caller sees beyond input validation, and it leaves no
// pending case behind; a successful analysis replaces any previous
// pending case, fallback assessments included.
func (s *Session) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.TriageAssessment, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, ErrEmptySymptoms
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	s.busy = true
	s.mu.Unlock()

	assessment, err := s.client.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.pending = nil
		return nil, err
	}

	s.pending = &PendingCase{
		Request:    *req,
		Assessment: assessment,
		NewPatient: true,
	}
	return assessment, nil
}

// AttachPatient binds the pending case to an existing patient instead
// of creating a new one on save.
func (s *Session) AttachPatient(patientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return ErrNoPendingCase
	}
	s.pending.PatientID = patientID
	s.pending.NewPatient = false
	return nil
}

// Save persists the pending case. It is an explicit action and is
// never retried automatically; while one save is in flight a second
// call is rejected. On success the pending case is cleared and the
// patient roster cache invalidated. On failure the pending case stays
// so the clinician can try again.
func (s *Session) Save(ctx context.Context) (*model.Case, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	if s.pending == nil {
		s.mu.Unlock()
		return nil, ErrNoPendingCase
	}
	s.saving = true
	pending := s.pending
	s.mu.Unlock()

	req := &model.CreateCaseRequest{
		PatientID:   pending.PatientID,
		NewPatient:  pending.NewPatient,
		PatientName: pending.Request.PatientName,
		PatientAge:  pending.Request.Age,
		Symptoms:    pending.Request.Symptoms,
		Vitals:      pending.Request.Vitals,
		Assessment:  pending.Assessment,
	}

	saved, err := s.client.SaveCase(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		return nil, err
	}

	s.pending = nil
	s.patients.Delete(patientCacheKey)
	return saved, nil
}

// Patients returns the patient roster, served from a short-lived cache
// to keep the intake form's patient picker cheap.
func (s *Session) Patients(ctx context.Context) ([]*model.Patient, error) {
	if cached, ok := s.patients.Get(patientCacheKey); ok {
		return cached.([]*model.Patient), nil
	}

	list, err := s.client.ListPatients(ctx)
	if err != nil {
		return nil, err
	}

	s.patients.Set(patientCacheKey, list, cache.DefaultExpiration)
	return list, nil
}
