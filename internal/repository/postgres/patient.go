package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.create(ctx, r.db, patient)
}

func (r *patientRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	return r.create(ctx, tx, patient)
}

func (r *patientRepository) create(ctx context.Context, execer sqlx.ExecerContext, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, name, age, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := execer.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Age,
		patient.Status,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `UPDATE patients SET name = $1, age = $2, status = $3, updated_at = $4 WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, patient.Name, patient.Age, patient.Status, time.Now(), patient.ID)
	return err
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients`
	conditions := []string{}
	args := []interface{}{}
	if filters != nil && filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters != nil && filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY name`

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	return patients, err
}
