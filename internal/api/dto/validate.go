package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// Wire formats for dates and timestamps without a zone.
const (
	DateLayout      = "2006-01-02"
	DateTimeLayout  = "2006-01-02T15:04:05"
	DisplayLayout   = "Jan 02, 2006 15:04"
	QueryTimeLayout = "2006-01-02 15:04:05"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tags and reports failures as a validation DomainError
// whose details map json field names to the failed rule.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}

// ParseTime accepts a bare date, a zone-less timestamp or RFC 3339.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateTimeLayout, time.RFC3339, QueryTimeLayout, DateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("invalid date", map[string]any{"value": value})
}

// parseOptionalTime treats nil and blank strings as absent.
func parseOptionalTime(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseTime(*value)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{field: *value})
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateTimeLayout)
	return &s
}
