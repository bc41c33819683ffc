package domain

import (
	"strings"
	"time"
)

// Role is the single clinical role held by an account.
type Role string

const (
	RoleDoctor Role = "DOCTOR"
	RoleNurse  Role = "NURSE"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleNurse, RoleAdmin:
		return true
	}
	return false
}

// InferRole maps a free-text specialty to a role. Only the substrings
// "doctor" and "physician" yield DOCTOR; everything else, including
// "Cardiologist" and "Surgeon", yields NURSE.
func InferRole(specialty string) Role {
	s := strings.ToLower(specialty)
	if strings.Contains(s, "doctor") || strings.Contains(s, "physician") {
		return RoleDoctor
	}
	return RoleNurse
}

// Account is a clinician login identity.
type Account struct {
	ID            int64
	Email         string
	PasswordHash  string
	Role          Role
	FirstName     string
	LastName      string
	Hospital      string
	Specialty     string
	LicenseNumber string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// PublicAccount is the account view safe to return to clients.
type PublicAccount struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Hospital      string
	Specialty     string
	LicenseNumber string
	Role          Role
	FullName      string
}

// Public strips credentials from the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:            a.ID,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		Hospital:      a.Hospital,
		Specialty:     a.Specialty,
		LicenseNumber: a.LicenseNumber,
		Role:          a.Role,
		FullName:      a.FullName(),
	}
}
