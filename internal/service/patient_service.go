package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/repository"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// PatientService manages patient records.
type PatientService struct {
	patients   repository.PatientRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewPatientService builds the service.
func NewPatientService(patients repository.PatientRepository, dispatcher events.Dispatcher) *PatientService {
	return &PatientService{patients: patients, dispatcher: dispatcher, now: time.Now}
}

// PatientInput carries the editable patient fields.
type PatientInput struct {
	MedicalRecordNumber   string
	FirstName             string
	LastName              string
	DateOfBirth           *time.Time
	Gender                string
	RoomNumber            *string
	BedNumber             *string
	AdmissionDate         *time.Time
	DischargeDate         *time.Time
	PrimaryPhysician      *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	InsuranceInfo         *string
}

func (in PatientInput) validate() error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return required("firstName", "First name is required")
	case strings.TrimSpace(in.LastName) == "":
		return required("lastName", "Last name is required")
	case in.DateOfBirth == nil || in.DateOfBirth.IsZero():
		return required("dateOfBirth", "Date of birth is required")
	case strings.TrimSpace(in.Gender) == "":
		return required("gender", "Gender is required")
	}
	return nil
}

// GenerateMRN derives a record number from the millisecond clock.
func GenerateMRN(now time.Time) string {
	return fmt.Sprintf("MRN%06d", now.UnixMilli()%1_000_000)
}

// List returns all active patients.
func (s *PatientService) List(ctx context.Context) ([]domain.Patient, error) {
	return s.list(ctx, repository.PatientFilter{})
}

func (s *PatientService) Get(ctx context.Context, id int64) (*domain.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound, "load patient")
	}
	return patient, nil
}

func (s *PatientService) GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error) {
	patient, err := s.patients.GetByMRN(ctx, mrn)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound, "load patient by mrn")
	}
	return patient, nil
}

// Create admits a patient. A missing MRN is generated and a missing
// admission date defaults to now.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (*domain.Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	patient := &domain.Patient{
		MedicalRecordNumber: strings.TrimSpace(in.MedicalRecordNumber),
		AdmissionDate:       now,
		DischargeDate:       in.DischargeDate,
		Active:              true,
	}
	if patient.MedicalRecordNumber == "" {
		patient.MedicalRecordNumber = GenerateMRN(now)
	}
	if in.AdmissionDate != nil && !in.AdmissionDate.IsZero() {
		patient.AdmissionDate = *in.AdmissionDate
	}
	applyPatientInput(patient, in)

	if err := s.patients.Create(ctx, patient); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("medical record number already exists",
				map[string]any{"mrn": patient.MedicalRecordNumber})
		}
		return nil, fmt.Errorf("create patient: %w", err)
	}

	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventPatientAdmitted, &patient.ID,
		events.PatientPayload{MedicalRecordNumber: patient.MedicalRecordNumber}))
	return patient, nil
}

// Update overwrites the editable fields. The discharge date changes only
// when one is supplied.
func (s *PatientService) Update(ctx context.Context, id int64, in PatientInput) (*domain.Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatientInput(patient, in)
	if in.DischargeDate != nil {
		patient.DischargeDate = in.DischargeDate
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, notFound(err, ErrPatientNotFound, "update patient")
	}
	return patient, nil
}

// Discharge is the only delete: the record becomes inactive with a
// discharge date of now.
func (s *PatientService) Discharge(ctx context.Context, id int64) error {
	if err := s.patients.Discharge(ctx, id, s.now()); err != nil {
		return notFound(err, ErrPatientNotFound, "discharge patient")
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventPatientDischarged, &id, nil))
	return nil
}

func (s *PatientService) SearchByName(ctx context.Context, name string) ([]domain.Patient, error) {
	return s.list(ctx, repository.PatientFilter{NameLike: &name})
}

func (s *PatientService) ListByRoom(ctx context.Context, room string) ([]domain.Patient, error) {
	return s.list(ctx, repository.PatientFilter{RoomNumber: &room})
}

func (s *PatientService) ListByPhysician(ctx context.Context, physician string) ([]domain.Patient, error) {
	return s.list(ctx, repository.PatientFilter{Physician: &physician})
}

func (s *PatientService) ListWithAllergies(ctx context.Context) ([]domain.Patient, error) {
	return s.list(ctx, repository.PatientFilter{WithAllergies: true})
}

func (s *PatientService) ListByAllergen(ctx context.Context, allergen string) ([]domain.Patient, error) {
	return s.list(ctx, repository.PatientFilter{AllergenLike: &allergen})
}

// ListAdmittedBetween is inclusive on both ends.
func (s *PatientService) ListAdmittedBetween(ctx context.Context, start, end time.Time) ([]domain.Patient, error) {
	if end.Before(start) {
		return nil, apperrors.NewValidationError("endDate must not be before startDate", nil)
	}
	return s.list(ctx, repository.PatientFilter{AdmittedFrom: &start, AdmittedTo: &end})
}

func (s *PatientService) CountActive(ctx context.Context) (int64, error) {
	count, err := s.patients.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return count, nil
}

// Exists reports ErrPatientNotFound for unknown ids. Other services use it
// before writing child records.
func (s *PatientService) Exists(ctx context.Context, id int64) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *PatientService) list(ctx context.Context, filter repository.PatientFilter) ([]domain.Patient, error) {
	patients, err := s.patients.ListActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func applyPatientInput(p *domain.Patient, in PatientInput) {
	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.DateOfBirth = *in.DateOfBirth
	p.Gender = in.Gender
	p.RoomNumber = in.RoomNumber
	p.BedNumber = in.BedNumber
	p.PrimaryPhysician = in.PrimaryPhysician
	p.EmergencyContactName = in.EmergencyContactName
	p.EmergencyContactPhone = in.EmergencyContactPhone
	p.InsuranceInfo = in.InsuranceInfo
}

// notFound maps pgx.ErrNoRows to the given sentinel and wraps anything else.
func notFound(err, sentinel error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}
