package model

import (
	"github.com/google/uuid"
)

// Case is a persisted intake record: the symptoms a clinician submitted
// and the triage assessment that was accepted for them. Cases are only
// written through the all-or-nothing save flow; there is no partial case.
type Case struct {
	Base
	PatientID  uuid.UUID         `db:"patient_id" json:"patient_id"`
	Symptoms   string            `db:"symptoms" json:"symptoms"`
	Vitals     string            `db:"vitals" json:"vitals"`
	Assessment *TriageAssessment `db:"-" json:"assessment"`
	// AssessmentJSON is the raw column value; Assessment is the decoded form.
	AssessmentJSON string    `db:"assessment" json:"-"`
	CreatedBy      uuid.UUID `db:"created_by" json:"created_by"`
}

// CreateCaseRequest is the explicit save action for a pending case.
// Either PatientID references an existing patient, or NewPatient is set
// and a patient record is created in the same transaction.
type CreateCaseRequest struct {
	PatientID   string            `json:"patient_id"`
	NewPatient  bool              `json:"new_patient"`
	PatientName string            `json:"patient_name"`
	PatientAge  string            `json:"patient_age"`
	Symptoms    string            `json:"symptoms" binding:"required,notblank"`
	Vitals      string            `json:"vitals"`
	Assessment  *TriageAssessment `json:"assessment" binding:"required"`
}

type CaseFilters struct {
	PatientID uuid.UUID `json:"patient_id" form:"patient_id"`
}
