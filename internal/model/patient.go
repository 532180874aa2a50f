package model

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	Name   string `db:"name" json:"name"`
	Age    string `db:"age" json:"age"`
	Status string `db:"status" json:"status"`
}

type CreatePatientRequest struct {
	Name string `json:"name" binding:"required,notblank"`
	Age  string `json:"age"`
}

type UpdatePatientRequest struct {
	Name   *string `json:"name"`
	Age    *string `json:"age"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type PatientFilters struct {
	Status     string `json:"status" form:"status"`
	SearchTerm string `json:"search_term" form:"search_term"`
}
