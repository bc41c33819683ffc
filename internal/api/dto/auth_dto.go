package dto

import (
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
)

// RegisterRequest is the clinician sign-up payload.
type RegisterRequest struct {
	FirstName     string `json:"firstName" validate:"max=100"`
	LastName      string `json:"lastName" validate:"max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Hospital      string `json:"hospital" validate:"max=200"`
	Specialty     string `json:"specialty" validate:"max=100"`
	LicenseNumber string `json:"licenseNumber" validate:"max=100"`
}

// ToInput converts the payload for the account service.
func (r RegisterRequest) ToInput() service.RegistrationInput {
	return service.RegistrationInput{
		Email:         r.Email,
		Password:      r.Password,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Hospital:      r.Hospital,
		Specialty:     r.Specialty,
		LicenseNumber: r.LicenseNumber,
	}
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// UserResponse is the public account view.
type UserResponse struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Hospital      string `json:"hospital"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber"`
	Role          string `json:"role"`
}

// NewUserResponse maps a public account view.
func NewUserResponse(a domain.PublicAccount) UserResponse {
	return UserResponse{
		ID:            a.ID,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		FullName:      a.FullName,
		Email:         a.Email,
		Hospital:      a.Hospital,
		Specialty:     a.Specialty,
		LicenseNumber: a.LicenseNumber,
		Role:          string(a.Role),
	}
}

// AuthData carries the issued token.
type AuthData struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresIn int64        `json:"expiresIn"`
}

// NewAuthData maps a login result.
func NewAuthData(result *service.LoginResult) *AuthData {
	return &AuthData{
		Token:     result.Token,
		User:      NewUserResponse(result.User),
		ExpiresIn: result.ExpiresIn,
	}
}

// AuthResponse is the envelope for register and login.
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    *AuthData `json:"data,omitempty"`
}

// ValidateResponse is the envelope for token validation.
type ValidateResponse struct {
	Success bool          `json:"success"`
	Valid   bool          `json:"valid"`
	User    *UserResponse `json:"user,omitempty"`
	Message string        `json:"message,omitempty"`
}

// UserEnvelope wraps a single account for /auth/me and admin endpoints.
type UserEnvelope struct {
	Success bool          `json:"success"`
	User    *UserResponse `json:"user,omitempty"`
	Message string        `json:"message,omitempty"`
}
