package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/repository"
)

var (
	ErrCodeNotFound = errors.New("admin code not found")
	ErrCodeUsed     = errors.New("admin code already used")
)

type adminCodeRepository struct {
	db *sqlx.DB
}

func NewAdminCodeRepository(db *sqlx.DB) repository.AdminCodeRepository {
	return &adminCodeRepository{db: db}
}

// Redeem locks the code row, verifies it is unused, marks it redeemed and
// promotes the user to admin. All three steps commit or roll back
// together, so a code can never be spent twice.
func (r *adminCodeRepository) Redeem(ctx context.Context, code string, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ac model.AdminCode
	err = tx.GetContext(ctx, &ac, `SELECT * FROM admin_codes WHERE code = $1 FOR UPDATE`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCodeNotFound
		}
		return fmt.Errorf("failed to load admin code: %w", err)
	}

	if ac.Used {
		return ErrCodeUsed
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE admin_codes SET used = TRUE, used_by = $1, used_at = $2, updated_at = $2 WHERE id = $3`,
		userID, now, ac.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark admin code used: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		model.UserRoleAdmin, now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to upgrade user role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit redemption: %w", err)
	}
	return nil
}
