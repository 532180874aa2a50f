package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/repository"
)

type caseRepository struct {
	db *sqlx.DB
}

func NewCaseRepository(db *sqlx.DB) repository.CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, c *model.Case) error {
	if c.Assessment != nil {
		data, err := json.Marshal(c.Assessment)
		if err != nil {
			return fmt.Errorf("failed to marshal assessment: %w", err)
		}
		c.AssessmentJSON = string(data)
	}

	query := `
		INSERT INTO cases (id, patient_id, symptoms, vitals, assessment, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		c.ID,
		c.PatientID,
		c.Symptoms,
		c.Vitals,
		c.AssessmentJSON,
		c.CreatedBy,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

func (r *caseRepository) Get(ctx context.Context, id uuid.UUID) (*model.Case, error) {
	query := `SELECT * FROM cases WHERE id = $1`
	var c model.Case
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	if err := decodeAssessment(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Case, error) {
	query := `SELECT * FROM cases WHERE patient_id = $1 ORDER BY created_at DESC`
	var cases []*model.Case
	if err := r.db.SelectContext(ctx, &cases, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	for _, c := range cases {
		if err := decodeAssessment(c); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	query := `SELECT * FROM cases ORDER BY created_at DESC`
	var cases []*model.Case
	if err := r.db.SelectContext(ctx, &cases, query); err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	for _, c := range cases {
		if err := decodeAssessment(c); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

func decodeAssessment(c *model.Case) error {
	if c.AssessmentJSON == "" {
		return nil
	}
	var assessment model.TriageAssessment
	if err := json.Unmarshal([]byte(c.AssessmentJSON), &assessment); err != nil {
		return fmt.Errorf("failed to unmarshal assessment for case %s: %w", c.ID, err)
	}
	c.Assessment = &assessment
	return nil
}
