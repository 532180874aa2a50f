package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func adminCodeRows(id uuid.UUID, code string, used bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "code", "used", "used_by", "used_at"}).
		AddRow(id, now, now, code, used, nil, nil)
}

func TestRedeem_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminCodeRepository(db)

	codeID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM admin_codes WHERE code = \$1 FOR UPDATE`).
		WithArgs("ALPHA-1234").
		WillReturnRows(adminCodeRows(codeID, "ALPHA-1234", false))
	mock.ExpectExec(`UPDATE admin_codes SET used = TRUE`).
		WithArgs(userID, sqlmock.AnyArg(), codeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET role = \$1`).
		WithArgs("admin", sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Redeem(context.Background(), "ALPHA-1234", userID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_UnknownCode(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminCodeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM admin_codes`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "code", "used", "used_by", "used_at"}))
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), "NOPE", uuid.New())

	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A spent code is rejected before any write; the lock plus the used flag
// is what makes the code single-use under concurrent redemption.
func TestRedeem_AlreadyUsed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminCodeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM admin_codes`).
		WithArgs("ALPHA-1234").
		WillReturnRows(adminCodeRows(uuid.New(), "ALPHA-1234", true))
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), "ALPHA-1234", uuid.New())

	assert.ErrorIs(t, err, ErrCodeUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_RoleUpdateFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminCodeRepository(db)

	codeID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM admin_codes`).
		WithArgs("ALPHA-1234").
		WillReturnRows(adminCodeRows(codeID, "ALPHA-1234", false))
	mock.ExpectExec(`UPDATE admin_codes SET used = TRUE`).
		WithArgs(userID, sqlmock.AnyArg(), codeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET role = \$1`).
		WithArgs("admin", sqlmock.AnyArg(), userID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), "ALPHA-1234", userID)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
