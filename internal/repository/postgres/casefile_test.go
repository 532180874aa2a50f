package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewise/triage-api/internal/model"
)

func TestCaseCreateTx_MarshalsAssessment(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCaseRepository(db)

	c := &model.Case{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		Symptoms:  "fever and cough",
		Vitals:    "Temp 39.1C",
		Assessment: &model.TriageAssessment{
			RiskLevel: model.RiskLevelHigh,
			RiskScore: 72,
		},
		CreatedBy: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO cases`).
		WithArgs(c.ID, c.PatientID, c.Symptoms, c.Vitals, sqlmock.AnyArg(), c.CreatedBy, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.CreateTx(context.Background(), tx, c))
	require.NoError(t, tx.Commit())

	assert.Contains(t, c.AssessmentJSON, `"risk_level":"High"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseGet_DecodesAssessment(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCaseRepository(db)

	id := uuid.New()
	patientID := uuid.New()
	createdBy := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "patient_id", "symptoms", "vitals", "assessment", "created_by"}).
		AddRow(id, now, now, patientID, "headache", "", `{"risk_level":"Low","risk_score":10}`, createdBy)

	mock.ExpectQuery(`SELECT \* FROM cases WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, got.Assessment)
	assert.Equal(t, model.RiskLevelLow, got.Assessment.RiskLevel)
	assert.Equal(t, 10, got.Assessment.RiskScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseListByPatient_OrderedQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCaseRepository(db)

	patientID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "patient_id", "symptoms", "vitals", "assessment", "created_by"}).
		AddRow(uuid.New(), now, now, patientID, "second visit", "", "", uuid.New()).
		AddRow(uuid.New(), now.Add(-time.Hour), now.Add(-time.Hour), patientID, "first visit", "", "", uuid.New())

	mock.ExpectQuery(`SELECT \* FROM cases WHERE patient_id = \$1 ORDER BY created_at DESC`).
		WithArgs(patientID).
		WillReturnRows(rows)

	cases, err := repo.ListByPatient(context.Background(), patientID)

	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "second visit", cases[0].Symptoms)
	assert.Nil(t, cases[0].Assessment)
	assert.NoError(t, mock.ExpectationsWereMet())
}
