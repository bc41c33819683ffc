package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/repository"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// PatientChecker confirms a patient exists before child records are written.
type PatientChecker interface {
	Exists(ctx context.Context, id int64) error
}

// ClinicalService manages allergies, diagnoses and medications.
type ClinicalService struct {
	patients    PatientChecker
	allergies   repository.AllergyRepository
	diagnoses   repository.DiagnosisRepository
	medications repository.MedicationRepository
	now         func() time.Time
}

// ClinicalDependencies bundles repositories for ClinicalService.
type ClinicalDependencies struct {
	Patients       PatientChecker
	AllergyRepo    repository.AllergyRepository
	DiagnosisRepo  repository.DiagnosisRepository
	MedicationRepo repository.MedicationRepository
}

func NewClinicalService(deps ClinicalDependencies) *ClinicalService {
	return &ClinicalService{
		patients:    deps.Patients,
		allergies:   deps.AllergyRepo,
		diagnoses:   deps.DiagnosisRepo,
		medications: deps.MedicationRepo,
		now:         time.Now,
	}
}

type AllergyInput struct {
	Allergen string
	Reaction *string
	Severity *string
	Notes    *string
}

type DiagnosisInput struct {
	Code          *string
	Description   string
	Type          string
	DiagnosedDate *time.Time
}

type MedicationInput struct {
	Name                 string
	Dosage               string
	Route                string
	Frequency            string
	StartDate            *time.Time
	EndDate              *time.Time
	PrescribingPhysician *string
	SpecialInstructions  *string
}

func (s *ClinicalService) ListAllergies(ctx context.Context, patientID int64) ([]domain.Allergy, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	allergies, err := s.allergies.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list allergies: %w", err)
	}
	return allergies, nil
}

func (s *ClinicalService) AddAllergy(ctx context.Context, patientID int64, in AllergyInput) (*domain.Allergy, error) {
	if strings.TrimSpace(in.Allergen) == "" {
		return nil, required("allergen", "Allergen is required")
	}
	allergy := &domain.Allergy{
		PatientID: patientID,
		Allergen:  strings.TrimSpace(in.Allergen),
		Reaction:  in.Reaction,
		Notes:     in.Notes,
	}
	if in.Severity != nil && *in.Severity != "" {
		severity := domain.AllergySeverity(strings.ToLower(*in.Severity))
		if !severity.Valid() {
			return nil, apperrors.NewValidationError("unknown allergy severity", map[string]any{"severity": *in.Severity})
		}
		allergy.Severity = &severity
	}

	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.allergies.Create(ctx, allergy); err != nil {
		return nil, fmt.Errorf("create allergy: %w", err)
	}
	return allergy, nil
}

func (s *ClinicalService) DeleteAllergy(ctx context.Context, patientID, allergyID int64) error {
	if err := s.allergies.Delete(ctx, patientID, allergyID); err != nil {
		return notFound(err, ErrClinicalRecordNotFound, "delete allergy")
	}
	return nil
}

func (s *ClinicalService) ListDiagnoses(ctx context.Context, patientID int64) ([]domain.Diagnosis, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	diagnoses, err := s.diagnoses.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	return diagnoses, nil
}

// AddDiagnosis defaults the type to secondary.
func (s *ClinicalService) AddDiagnosis(ctx context.Context, patientID int64, in DiagnosisInput) (*domain.Diagnosis, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, required("description", "Description is required")
	}
	diagnosisType := domain.DiagnosisSecondary
	if in.Type != "" {
		diagnosisType = domain.DiagnosisType(strings.ToLower(in.Type))
		if !diagnosisType.Valid() {
			return nil, apperrors.NewValidationError("unknown diagnosis type", map[string]any{"type": in.Type})
		}
	}

	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	diagnosis := &domain.Diagnosis{
		PatientID:     patientID,
		Code:          in.Code,
		Description:   strings.TrimSpace(in.Description),
		Type:          diagnosisType,
		DiagnosedDate: in.DiagnosedDate,
		Active:        true,
	}
	if err := s.diagnoses.Create(ctx, diagnosis); err != nil {
		return nil, fmt.Errorf("create diagnosis: %w", err)
	}
	return diagnosis, nil
}

func (s *ClinicalService) ResolveDiagnosis(ctx context.Context, patientID, diagnosisID int64) error {
	if err := s.diagnoses.Resolve(ctx, patientID, diagnosisID, s.now()); err != nil {
		return notFound(err, ErrClinicalRecordNotFound, "resolve diagnosis")
	}
	return nil
}

func (s *ClinicalService) ListMedications(ctx context.Context, patientID int64) ([]domain.Medication, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	medications, err := s.medications.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return medications, nil
}

// AddMedication defaults the start date to now.
func (s *ClinicalService) AddMedication(ctx context.Context, patientID int64, in MedicationInput) (*domain.Medication, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, required("name", "Medication name is required")
	case strings.TrimSpace(in.Dosage) == "":
		return nil, required("dosage", "Dosage is required")
	case strings.TrimSpace(in.Frequency) == "":
		return nil, required("frequency", "Frequency is required")
	}
	route := domain.MedicationRoute(in.Route)
	if !route.Valid() {
		return nil, apperrors.NewValidationError("unknown medication route", map[string]any{"route": in.Route})
	}

	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	medication := &domain.Medication{
		PatientID:            patientID,
		Name:                 strings.TrimSpace(in.Name),
		Dosage:               strings.TrimSpace(in.Dosage),
		Route:                route,
		Frequency:            strings.TrimSpace(in.Frequency),
		StartDate:            s.now(),
		EndDate:              in.EndDate,
		PrescribingPhysician: in.PrescribingPhysician,
		SpecialInstructions:  in.SpecialInstructions,
		Active:               true,
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		medication.StartDate = *in.StartDate
	}
	if err := s.medications.Create(ctx, medication); err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	return medication, nil
}

func (s *ClinicalService) DiscontinueMedication(ctx context.Context, patientID, medicationID int64) error {
	if err := s.medications.Discontinue(ctx, patientID, medicationID, s.now()); err != nil {
		return notFound(err, ErrClinicalRecordNotFound, "discontinue medication")
	}
	return nil
}
