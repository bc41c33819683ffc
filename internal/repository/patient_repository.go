package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
)

// PatientFilter narrows the active-patient listing. Zero value lists all
// active patients.
type PatientFilter struct {
	NameLike      *string
	RoomNumber    *string
	Physician     *string
	AllergenLike  *string
	WithAllergies bool
	AdmittedFrom  *time.Time
	AdmittedTo    *time.Time
}

// PatientRepository encapsulates patient persistence.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	Update(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error)
	ListActive(ctx context.Context, filter PatientFilter) ([]domain.Patient, error)
	CountActive(ctx context.Context) (int64, error)
	Discharge(ctx context.Context, id int64, at time.Time) error
}

type patientRepository struct {
	db DBTX
}

// NewPatientRepository instantiates repository.
func NewPatientRepository(db DBTX) PatientRepository {
	return &patientRepository{db: db}
}

const patientColumns = `p.id, p.medical_record_number, p.first_name, p.last_name, p.date_of_birth, p.gender,
               p.room_number, p.bed_number, p.admission_date, p.discharge_date, p.primary_physician,
               p.emergency_contact_name, p.emergency_contact_phone, p.insurance_info, p.active,
               p.created_at, p.updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `
        INSERT INTO patients (medical_record_number, first_name, last_name, date_of_birth, gender, room_number,
            bed_number, admission_date, discharge_date, primary_physician, emergency_contact_name,
            emergency_contact_phone, insurance_info, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		patient.MedicalRecordNumber,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.RoomNumber,
		patient.BedNumber,
		patient.AdmissionDate,
		patient.DischargeDate,
		patient.PrimaryPhysician,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.InsuranceInfo,
		patient.Active,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	const query = `
        UPDATE patients SET first_name=$1, last_name=$2, date_of_birth=$3, gender=$4, room_number=$5,
            bed_number=$6, discharge_date=$7, primary_physician=$8, emergency_contact_name=$9,
            emergency_contact_phone=$10, insurance_info=$11, updated_at=NOW()
        WHERE id=$12`
	return execAffecting(ctx, r.db, query,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.RoomNumber,
		patient.BedNumber,
		patient.DischargeDate,
		patient.PrimaryPhysician,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.InsuranceInfo,
		patient.ID,
	)
}

func (r *patientRepository) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	return scanPatient(r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients p WHERE p.id=$1`, id))
}

func (r *patientRepository) GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error) {
	return scanPatient(r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients p WHERE p.medical_record_number=$1`, mrn))
}

func (r *patientRepository) ListActive(ctx context.Context, filter PatientFilter) ([]domain.Patient, error) {
	clauses := []string{"p.active = TRUE"}
	args := []any{}

	if filter.NameLike != nil && strings.TrimSpace(*filter.NameLike) != "" {
		args = append(args, likePattern(*filter.NameLike))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.first_name) LIKE %s ESCAPE '\\' OR LOWER(p.last_name) LIKE %s ESCAPE '\\')", placeholder, placeholder))
	}
	if filter.RoomNumber != nil {
		args = append(args, *filter.RoomNumber)
		clauses = append(clauses, fmt.Sprintf("p.room_number=$%d", len(args)))
	}
	if filter.Physician != nil {
		args = append(args, *filter.Physician)
		clauses = append(clauses, fmt.Sprintf("p.primary_physician=$%d", len(args)))
	}
	if filter.AllergenLike != nil {
		args = append(args, likePattern(*filter.AllergenLike))
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM patient_allergies a WHERE a.patient_id = p.id AND LOWER(a.allergen) LIKE $%d ESCAPE '\\')", len(args)))
	} else if filter.WithAllergies {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM patient_allergies a WHERE a.patient_id = p.id)")
	}
	if filter.AdmittedFrom != nil {
		args = append(args, *filter.AdmittedFrom)
		clauses = append(clauses, fmt.Sprintf("p.admission_date >= $%d", len(args)))
	}
	if filter.AdmittedTo != nil {
		args = append(args, *filter.AdmittedTo)
		clauses = append(clauses, fmt.Sprintf("p.admission_date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM patients p WHERE %s ORDER BY p.last_name, p.first_name, p.id`,
		patientColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPatients(rows)
}

func (r *patientRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE active = TRUE`).Scan(&count)
	return count, err
}

// Discharge is the soft delete: the row stays, flagged inactive.
func (r *patientRepository) Discharge(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE patients SET active = FALSE, discharge_date=$1, updated_at=NOW() WHERE id=$2`
	return execAffecting(ctx, r.db, query, at, id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern. The term is
// matched literally; the queries declare backslash as the escape.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var p domain.Patient
	if err := row.Scan(patientFields(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPatients(rows pgx.Rows) ([]domain.Patient, error) {
	result := []domain.Patient{}
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(patientFields(&p)...); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func patientFields(p *domain.Patient) []any {
	return []any{
		&p.ID,
		&p.MedicalRecordNumber,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.RoomNumber,
		&p.BedNumber,
		&p.AdmissionDate,
		&p.DischargeDate,
		&p.PrimaryPhysician,
		&p.EmergencyContactName,
		&p.EmergencyContactPhone,
		&p.InsuranceInfo,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}
