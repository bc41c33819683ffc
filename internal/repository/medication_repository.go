package repository

import (
	"context"
	"time"

	"github.com/spec-kit/charting-service/internal/domain"
)

// MedicationRepository stores medication orders.
type MedicationRepository interface {
	Create(ctx context.Context, medication *domain.Medication) error
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Medication, error)
	Discontinue(ctx context.Context, patientID, id int64, at time.Time) error
}

type medicationRepository struct {
	db DBTX
}

func NewMedicationRepository(db DBTX) MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, m *domain.Medication) error {
	const query = `
        INSERT INTO medications (patient_id, name, dosage, route, frequency, start_date, end_date,
            prescribing_physician, special_instructions, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		m.PatientID,
		m.Name,
		m.Dosage,
		m.Route,
		m.Frequency,
		m.StartDate,
		m.EndDate,
		m.PrescribingPhysician,
		m.SpecialInstructions,
		m.Active,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *medicationRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.Medication, error) {
	const query = `
        SELECT id, patient_id, name, dosage, route, frequency, start_date, end_date,
               prescribing_physician, special_instructions, active, created_at, updated_at
        FROM medications WHERE patient_id=$1 ORDER BY active DESC, start_date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Medication{}
	for rows.Next() {
		var m domain.Medication
		if err := rows.Scan(
			&m.ID,
			&m.PatientID,
			&m.Name,
			&m.Dosage,
			&m.Route,
			&m.Frequency,
			&m.StartDate,
			&m.EndDate,
			&m.PrescribingPhysician,
			&m.SpecialInstructions,
			&m.Active,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *medicationRepository) Discontinue(ctx context.Context, patientID, id int64, at time.Time) error {
	const query = `
        UPDATE medications SET active = FALSE, end_date=$1, updated_at=NOW()
        WHERE id=$2 AND patient_id=$3`
	return execAffecting(ctx, r.db, query, at, id, patientID)
}
