package service

import (
	"net/http"

	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// Sentinel failures. Each is a DomainError so the HTTP edge maps it without
// a lookup table, and each compares with errors.Is.
var (
	ErrDuplicateEmail         error = apperrors.NewDomainError("DUPLICATE_EMAIL", "email already registered", http.StatusConflict, nil)
	ErrInvalidCredentials     error = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)
	ErrAccountDeactivated     error = apperrors.NewDomainError("ACCOUNT_DEACTIVATED", "account is deactivated", http.StatusUnauthorized, nil)
	ErrAccountNotFound        error = apperrors.NewDomainError("ACCOUNT_NOT_FOUND", "account not found", http.StatusNotFound, nil)
	ErrPatientNotFound        error = apperrors.NewDomainError("PATIENT_NOT_FOUND", "patient not found", http.StatusNotFound, nil)
	ErrChartingNotFound       error = apperrors.NewDomainError("CHARTING_NOT_FOUND", "charting category not found", http.StatusNotFound, nil)
	ErrClinicalRecordNotFound error = apperrors.NewDomainError("CLINICAL_RECORD_NOT_FOUND", "clinical record not found", http.StatusNotFound, nil)
)

func required(field, message string) error {
	return apperrors.NewValidationError(message, map[string]any{"field": field})
}
