package dto

import (
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
)

// AllergyRequest records a new allergy.
type AllergyRequest struct {
	Allergen string  `json:"allergen" validate:"required,max=200"`
	Reaction *string `json:"reaction"`
	Severity *string `json:"severity"`
	Notes    *string `json:"notes"`
}

func (r AllergyRequest) ToInput() service.AllergyInput {
	return service.AllergyInput{
		Allergen: r.Allergen,
		Reaction: r.Reaction,
		Severity: r.Severity,
		Notes:    r.Notes,
	}
}

// DiagnosisRequest records a new diagnosis.
type DiagnosisRequest struct {
	Code          *string `json:"diagnosisCode" validate:"omitempty,max=20"`
	Description   string  `json:"diagnosisDescription" validate:"required"`
	Type          string  `json:"diagnosisType"`
	DiagnosedDate *string `json:"diagnosedDate"`
}

func (r DiagnosisRequest) ToInput() (service.DiagnosisInput, error) {
	diagnosed, err := parseOptionalTime("diagnosedDate", r.DiagnosedDate)
	if err != nil {
		return service.DiagnosisInput{}, err
	}
	return service.DiagnosisInput{
		Code:          r.Code,
		Description:   r.Description,
		Type:          r.Type,
		DiagnosedDate: diagnosed,
	}, nil
}

// MedicationRequest records a new medication order.
type MedicationRequest struct {
	Name                 string  `json:"medicationName" validate:"required,max=200"`
	Dosage               string  `json:"dosage" validate:"required,max=100"`
	Route                string  `json:"route" validate:"required"`
	Frequency            string  `json:"frequency" validate:"required,max=100"`
	StartDate            *string `json:"startDate"`
	EndDate              *string `json:"endDate"`
	PrescribingPhysician *string `json:"prescribingPhysician" validate:"omitempty,max=100"`
	SpecialInstructions  *string `json:"specialInstructions"`
}

func (r MedicationRequest) ToInput() (service.MedicationInput, error) {
	start, err := parseOptionalTime("startDate", r.StartDate)
	if err != nil {
		return service.MedicationInput{}, err
	}
	end, err := parseOptionalTime("endDate", r.EndDate)
	if err != nil {
		return service.MedicationInput{}, err
	}
	return service.MedicationInput{
		Name:                 r.Name,
		Dosage:               r.Dosage,
		Route:                r.Route,
		Frequency:            r.Frequency,
		StartDate:            start,
		EndDate:              end,
		PrescribingPhysician: r.PrescribingPhysician,
		SpecialInstructions:  r.SpecialInstructions,
	}, nil
}

type AllergyResponse struct {
	ID        int64   `json:"id"`
	PatientID int64   `json:"patientId"`
	Allergen  string  `json:"allergen"`
	Reaction  *string `json:"reaction"`
	Severity  *string `json:"severity"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"createdAt"`
}

type DiagnosisResponse struct {
	ID            int64   `json:"id"`
	PatientID     int64   `json:"patientId"`
	Code          *string `json:"diagnosisCode"`
	Description   string  `json:"diagnosisDescription"`
	Type          string  `json:"diagnosisType"`
	DiagnosedDate *string `json:"diagnosedDate"`
	ResolvedDate  *string `json:"resolvedDate"`
	Active        bool    `json:"isActive"`
}

type MedicationResponse struct {
	ID                   int64   `json:"id"`
	PatientID            int64   `json:"patientId"`
	Name                 string  `json:"medicationName"`
	Dosage               string  `json:"dosage"`
	Route                string  `json:"route"`
	Frequency            string  `json:"frequency"`
	StartDate            string  `json:"startDate"`
	EndDate              *string `json:"endDate"`
	PrescribingPhysician *string `json:"prescribingPhysician"`
	SpecialInstructions  *string `json:"specialInstructions"`
	Active               bool    `json:"isActive"`
}

func NewAllergyResponse(a *domain.Allergy) AllergyResponse {
	var severity *string
	if a.Severity != nil {
		s := string(*a.Severity)
		severity = &s
	}
	return AllergyResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		Allergen:  a.Allergen,
		Reaction:  a.Reaction,
		Severity:  severity,
		Notes:     a.Notes,
		CreatedAt: formatTime(a.CreatedAt),
	}
}

func NewDiagnosisResponse(d *domain.Diagnosis) DiagnosisResponse {
	return DiagnosisResponse{
		ID:            d.ID,
		PatientID:     d.PatientID,
		Code:          d.Code,
		Description:   d.Description,
		Type:          string(d.Type),
		DiagnosedDate: formatOptionalTime(d.DiagnosedDate),
		ResolvedDate:  formatOptionalTime(d.ResolvedDate),
		Active:        d.Active,
	}
}

func NewMedicationResponse(m *domain.Medication) MedicationResponse {
	return MedicationResponse{
		ID:                   m.ID,
		PatientID:            m.PatientID,
		Name:                 m.Name,
		Dosage:               m.Dosage,
		Route:                string(m.Route),
		Frequency:            m.Frequency,
		StartDate:            formatTime(m.StartDate),
		EndDate:              formatOptionalTime(m.EndDate),
		PrescribingPhysician: m.PrescribingPhysician,
		SpecialInstructions:  m.SpecialInstructions,
		Active:               m.Active,
	}
}

func NewAllergyList(items []domain.Allergy) []AllergyResponse {
	out := make([]AllergyResponse, 0, len(items))
	for i := range items {
		out = append(out, NewAllergyResponse(&items[i]))
	}
	return out
}

func NewDiagnosisList(items []domain.Diagnosis) []DiagnosisResponse {
	out := make([]DiagnosisResponse, 0, len(items))
	for i := range items {
		out = append(out, NewDiagnosisResponse(&items[i]))
	}
	return out
}

func NewMedicationList(items []domain.Medication) []MedicationResponse {
	out := make([]MedicationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewMedicationResponse(&items[i]))
	}
	return out
}
