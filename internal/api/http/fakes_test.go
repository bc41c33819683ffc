package http

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/service"
)

type fakeAccounts struct {
	byEmail map[string]*domain.Account
	active  map[string]bool
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccounts) Register(context.Context, service.RegistrationInput) (*domain.Account, error) {
	return nil, service.ErrDuplicateEmail
}

func (f *fakeAccounts) Login(context.Context, string, string) (*service.LoginResult, error) {
	return nil, service.ErrInvalidCredentials
}

func (f *fakeAccounts) GetCurrentUser(context.Context, string) (*domain.Account, error) {
	return nil, service.ErrAccountNotFound
}

func (f *fakeAccounts) ValidateToken(context.Context, string) (*domain.Account, error) {
	return nil, service.ErrAccountNotFound
}

func (f *fakeAccounts) Logout(context.Context, string) error { return nil }

func (f *fakeAccounts) SetActive(_ context.Context, email string, active bool) (*domain.Account, error) {
	account, ok := f.byEmail[email]
	if !ok {
		return nil, service.ErrAccountNotFound
	}
	f.active[email] = active
	return account, nil
}

type fakePatients struct {
	patients []domain.Patient
	count    int64
	err      error
}

func (f *fakePatients) List(context.Context) ([]domain.Patient, error) { return f.patients, f.err }

func (f *fakePatients) Get(_ context.Context, id int64) (*domain.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.patients {
		if f.patients[i].ID == id {
			return &f.patients[i], nil
		}
	}
	return nil, service.ErrPatientNotFound
}

func (f *fakePatients) GetByMRN(context.Context, string) (*domain.Patient, error) {
	return nil, service.ErrPatientNotFound
}

func (f *fakePatients) Create(_ context.Context, in service.PatientInput) (*domain.Patient, error) {
	return &domain.Patient{ID: 1, FirstName: in.FirstName, LastName: in.LastName, DateOfBirth: *in.DateOfBirth, Active: true}, nil
}

func (f *fakePatients) Update(_ context.Context, id int64, in service.PatientInput) (*domain.Patient, error) {
	return &domain.Patient{ID: id, FirstName: in.FirstName, LastName: in.LastName}, nil
}

func (f *fakePatients) Discharge(context.Context, int64) error { return f.err }

func (f *fakePatients) SearchByName(context.Context, string) ([]domain.Patient, error) {
	return f.patients, f.err
}

func (f *fakePatients) ListByRoom(context.Context, string) ([]domain.Patient, error) {
	return f.patients, f.err
}

func (f *fakePatients) ListByPhysician(context.Context, string) ([]domain.Patient, error) {
	return f.patients, f.err
}

func (f *fakePatients) ListWithAllergies(context.Context) ([]domain.Patient, error) {
	return f.patients, f.err
}

func (f *fakePatients) ListByAllergen(context.Context, string) ([]domain.Patient, error) {
	return f.patients, f.err
}

func (f *fakePatients) ListAdmittedBetween(context.Context, time.Time, time.Time) ([]domain.Patient, error) {
	return f.patients, f.err
}

func (f *fakePatients) CountActive(context.Context) (int64, error) { return f.count, f.err }

type fakeClinical struct{}

func (fakeClinical) ListAllergies(context.Context, int64) ([]domain.Allergy, error) { return nil, nil }

func (fakeClinical) AddAllergy(_ context.Context, patientID int64, in service.AllergyInput) (*domain.Allergy, error) {
	return &domain.Allergy{ID: 1, PatientID: patientID, Allergen: in.Allergen}, nil
}

func (fakeClinical) DeleteAllergy(context.Context, int64, int64) error {
	return service.ErrClinicalRecordNotFound
}

func (fakeClinical) ListDiagnoses(context.Context, int64) ([]domain.Diagnosis, error) { return nil, nil }

func (fakeClinical) AddDiagnosis(_ context.Context, patientID int64, in service.DiagnosisInput) (*domain.Diagnosis, error) {
	return &domain.Diagnosis{ID: 1, PatientID: patientID, Description: in.Description, Type: domain.DiagnosisSecondary, Active: true}, nil
}

func (fakeClinical) ResolveDiagnosis(context.Context, int64, int64) error { return nil }

func (fakeClinical) ListMedications(context.Context, int64) ([]domain.Medication, error) {
	return nil, nil
}

func (fakeClinical) AddMedication(_ context.Context, patientID int64, in service.MedicationInput) (*domain.Medication, error) {
	return &domain.Medication{ID: 1, PatientID: patientID, Name: in.Name, Route: domain.MedicationRoute(in.Route), Active: true}, nil
}

func (fakeClinical) DiscontinueMedication(context.Context, int64, int64) error { return nil }

type fakeVitals struct {
	latest       *domain.VitalSignsEntry
	lastLimit    int
	lastRecorder *service.Recorder
}

func (f *fakeVitals) History(_ context.Context, _ int64, limit int) ([]domain.VitalSignsEntry, error) {
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeVitals) Latest(context.Context, int64) (*domain.VitalSignsEntry, error) {
	return f.latest, nil
}

func (f *fakeVitals) Count(context.Context, int64) (int64, error) { return 4, nil }

func (f *fakeVitals) Since(context.Context, int64, time.Time) ([]domain.VitalSignsEntry, error) {
	return nil, nil
}

func (f *fakeVitals) Record(_ context.Context, patientID int64, recorder *service.Recorder, _ service.VitalsInput) (*domain.VitalSignsEntry, error) {
	f.lastRecorder = recorder
	return &domain.VitalSignsEntry{ID: 1, PatientID: patientID, RecordedAt: time.Now(), CreatedAt: time.Now()}, nil
}

type fakeCharting struct {
	lastActor events.Actor
}

func (f *fakeCharting) List(context.Context, int64) ([]domain.ChartingCategory, error) {
	return []domain.ChartingCategory{{ID: 1, Title: "Vital Signs"}}, nil
}

func (f *fakeCharting) Save(ctx context.Context, patientID int64, in service.ChartingInput) (*domain.ChartingCategory, error) {
	f.lastActor = events.ActorFromContext(ctx)
	return &domain.ChartingCategory{ID: 9, PatientID: patientID, Title: in.Title, Items: in.Items}, nil
}

func (f *fakeCharting) Delete(context.Context, int64, int64) error { return service.ErrChartingNotFound }
