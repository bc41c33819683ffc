package dto

import (
	"time"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// PatientRequest is the admit/update payload.
type PatientRequest struct {
	MedicalRecordNumber   string  `json:"medicalRecordNumber" validate:"max=50"`
	FirstName             string  `json:"firstName" validate:"required,max=100"`
	LastName              string  `json:"lastName" validate:"required,max=100"`
	DateOfBirth           string  `json:"dateOfBirth" validate:"required"`
	Gender                string  `json:"gender" validate:"required,max=20"`
	RoomNumber            *string `json:"roomNumber" validate:"omitempty,max=20"`
	BedNumber             *string `json:"bedNumber" validate:"omitempty,max=20"`
	AdmissionDate         *string `json:"admissionDate"`
	DischargeDate         *string `json:"dischargeDate"`
	PrimaryPhysician      *string `json:"primaryPhysician" validate:"omitempty,max=100"`
	EmergencyContactName  *string `json:"emergencyContactName" validate:"omitempty,max=100"`
	EmergencyContactPhone *string `json:"emergencyContactPhone" validate:"omitempty,max=20"`
	InsuranceInfo         *string `json:"insuranceInfo"`
}

// ToInput parses dates and converts the payload for the patient service.
func (r PatientRequest) ToInput() (service.PatientInput, error) {
	dob, err := ParseTime(r.DateOfBirth)
	if err != nil {
		return service.PatientInput{}, apperrors.NewValidationError("invalid date", map[string]any{"dateOfBirth": r.DateOfBirth})
	}
	admission, err := parseOptionalTime("admissionDate", r.AdmissionDate)
	if err != nil {
		return service.PatientInput{}, err
	}
	discharge, err := parseOptionalTime("dischargeDate", r.DischargeDate)
	if err != nil {
		return service.PatientInput{}, err
	}

	return service.PatientInput{
		MedicalRecordNumber:   r.MedicalRecordNumber,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		DateOfBirth:           &dob,
		Gender:                r.Gender,
		RoomNumber:            r.RoomNumber,
		BedNumber:             r.BedNumber,
		AdmissionDate:         admission,
		DischargeDate:         discharge,
		PrimaryPhysician:      r.PrimaryPhysician,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		InsuranceInfo:         r.InsuranceInfo,
	}, nil
}

// PatientResponse is the patient view returned by /patients.
type PatientResponse struct {
	ID                    int64   `json:"id"`
	MedicalRecordNumber   string  `json:"medicalRecordNumber"`
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	FullName              string  `json:"fullName"`
	DateOfBirth           string  `json:"dateOfBirth"`
	Age                   int     `json:"age"`
	Gender                string  `json:"gender"`
	RoomNumber            *string `json:"roomNumber"`
	BedNumber             *string `json:"bedNumber"`
	AdmissionDate         string  `json:"admissionDate"`
	DischargeDate         *string `json:"dischargeDate"`
	PrimaryPhysician      *string `json:"primaryPhysician"`
	EmergencyContactName  *string `json:"emergencyContactName"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`
	InsuranceInfo         *string `json:"insuranceInfo"`
	Active                bool    `json:"isActive"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

// NewPatientResponse maps a patient; now drives the age calculation.
func NewPatientResponse(p *domain.Patient, now time.Time) PatientResponse {
	return PatientResponse{
		ID:                    p.ID,
		MedicalRecordNumber:   p.MedicalRecordNumber,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		FullName:              p.FullName(),
		DateOfBirth:           p.DateOfBirth.Format(DateLayout),
		Age:                   p.Age(now),
		Gender:                p.Gender,
		RoomNumber:            p.RoomNumber,
		BedNumber:             p.BedNumber,
		AdmissionDate:         formatTime(p.AdmissionDate),
		DischargeDate:         formatOptionalTime(p.DischargeDate),
		PrimaryPhysician:      p.PrimaryPhysician,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		InsuranceInfo:         p.InsuranceInfo,
		Active:                p.Active,
		CreatedAt:             formatTime(p.CreatedAt),
		UpdatedAt:             formatTime(p.UpdatedAt),
	}
}

// NewPatientList maps a slice, never returning nil.
func NewPatientList(patients []domain.Patient, now time.Time) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, NewPatientResponse(&patients[i], now))
	}
	return out
}
