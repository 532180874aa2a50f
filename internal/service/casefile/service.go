package casefile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/repository"
	apperrors "github.com/carewise/triage-api/pkg/errors"
)

type CaseService interface {
	SaveCase(ctx context.Context, userID uuid.UUID, req *model.CreateCaseRequest) (*model.Case, error)
	GetCase(ctx context.Context, id uuid.UUID) (*model.Case, error)
	ListCases(ctx context.Context, filters *model.CaseFilters) ([]*model.Case, error)
}

type Service struct {
	db          repository.TxBeginner
	caseRepo    repository.CaseRepository
	patientRepo repository.PatientRepository
	outboxRepo  repository.OutboxRepository
}

func NewService(db repository.TxBeginner, caseRepo repository.CaseRepository, patientRepo repository.PatientRepository, outboxRepo repository.OutboxRepository) *Service {
	return &Service{
		db:          db,
		caseRepo:    caseRepo,
		patientRepo: patientRepo,
		outboxRepo:  outboxRepo,
	}
}

// SaveCase persists a pending case in one transaction. When the request
// flags a new patient, the patient row is created first inside the same
// transaction; the case record and its outbox events commit or roll back
// with it. There is no partial save.
func (s *Service) SaveCase(ctx context.Context, userID uuid.UUID, req *model.CreateCaseRequest) (*model.Case, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, apperrors.BadRequest("symptoms are required", nil)
	}
	if req.Assessment == nil || strings.TrimSpace(req.Assessment.RiskLevel) == "" {
		return nil, apperrors.BadRequest("assessment with risk_level is required", nil)
	}

	var patientID uuid.UUID
	var newPatient *model.Patient

	if req.NewPatient {
		if strings.TrimSpace(req.PatientName) == "" {
			return nil, apperrors.BadRequest("patient name is required for a new patient", nil)
		}
		newPatient = &model.Patient{
			Base:   model.Base{ID: uuid.New()},
			Name:   strings.TrimSpace(req.PatientName),
			Age:    strings.TrimSpace(req.PatientAge),
			Status: string(model.PatientStatusActive),
		}
		patientID = newPatient.ID
	} else {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid patient ID", err)
		}
		if _, err := s.patientRepo.Get(ctx, id); err != nil {
			return nil, apperrors.NotFound("patient", err)
		}
		patientID = id
	}

	c := &model.Case{
		Base:       model.Base{ID: uuid.New()},
		PatientID:  patientID,
		Symptoms:   req.Symptoms,
		Vitals:     req.Vitals,
		Assessment: req.Assessment,
		CreatedBy:  userID,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if newPatient != nil {
		if err := s.patientRepo.CreateTx(ctx, tx, newPatient); err != nil {
			return nil, fmt.Errorf("failed to create patient: %w", err)
		}
		s.enqueueEvent(ctx, tx, "PATIENT_CREATE", newPatient)
	}

	if err := s.caseRepo.CreateTx(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	s.enqueueEvent(ctx, tx, "CASE_CREATE", c)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit case: %w", err)
	}

	return c, nil
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*model.Case, error) {
	c, err := s.caseRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("case", err)
	}
	return c, nil
}

func (s *Service) ListCases(ctx context.Context, filters *model.CaseFilters) ([]*model.Case, error) {
	if filters != nil && filters.PatientID != uuid.Nil {
		return s.caseRepo.ListByPatient(ctx, filters.PatientID)
	}
	return s.caseRepo.List(ctx)
}

func (s *Service) enqueueEvent(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal outbox payload")
		return
	}
	if err := s.outboxRepo.CreateTx(ctx, tx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to enqueue outbox event")
	}
}
