package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carewise/triage-api/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type CaseRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, c *model.Case) error
	Get(ctx context.Context, id uuid.UUID) (*model.Case, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Case, error)
	List(ctx context.Context) ([]*model.Case, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type AdminCodeRepository interface {
	// Redeem marks the code used and upgrades the user's role in one
	// transaction. It fails if the code does not exist or was already
	// redeemed.
	Redeem(ctx context.Context, code string, userID uuid.UUID) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error
}

// TxBeginner is satisfied by *sqlx.DB; services use it to run multi-table
// writes atomically.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}
