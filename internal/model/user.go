package model

import (
	"time"

	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive = "active"
	UserStatusLocked = "locked"
)

// User role constants
const (
	UserRoleDoctor = "doctor"
	UserRoleAdmin  = "admin"
)

// User represents a clinician account
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	Name             string     `json:"name" db:"name"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Role             string     `json:"role" db:"role"`
	Status           string     `json:"status" db:"status"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"-" db:"last_login_attempt"`
}

// AdminCode is a single-use code that upgrades a doctor account to admin.
// Redemption is a transactional read-modify-write: the row is locked,
// checked unused, and marked used in the same transaction that flips the
// user's role.
type AdminCode struct {
	Base
	Code   string     `db:"code" json:"code"`
	Used   bool       `db:"used" json:"used"`
	UsedBy *uuid.UUID `db:"used_by" json:"used_by,omitempty"`
	UsedAt *time.Time `db:"used_at" json:"used_at,omitempty"`
}
