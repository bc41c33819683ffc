package repository

import (
	"context"
	"time"

	"github.com/spec-kit/charting-service/internal/domain"
)

// DiagnosisRepository stores patient diagnoses.
type DiagnosisRepository interface {
	Create(ctx context.Context, diagnosis *domain.Diagnosis) error
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Diagnosis, error)
	Resolve(ctx context.Context, patientID, id int64, at time.Time) error
}

type diagnosisRepository struct {
	db DBTX
}

func NewDiagnosisRepository(db DBTX) DiagnosisRepository {
	return &diagnosisRepository{db: db}
}

func (r *diagnosisRepository) Create(ctx context.Context, d *domain.Diagnosis) error {
	const query = `
        INSERT INTO patient_diagnoses (patient_id, code, description, type, diagnosed_date, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		d.PatientID,
		d.Code,
		d.Description,
		d.Type,
		d.DiagnosedDate,
		d.Active,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// ListByPatient returns active diagnoses first, newest first within each group.
func (r *diagnosisRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.Diagnosis, error) {
	const query = `
        SELECT id, patient_id, code, description, type, diagnosed_date, resolved_date, active, created_at, updated_at
        FROM patient_diagnoses WHERE patient_id=$1 ORDER BY active DESC, created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Diagnosis{}
	for rows.Next() {
		var d domain.Diagnosis
		if err := rows.Scan(
			&d.ID,
			&d.PatientID,
			&d.Code,
			&d.Description,
			&d.Type,
			&d.DiagnosedDate,
			&d.ResolvedDate,
			&d.Active,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *diagnosisRepository) Resolve(ctx context.Context, patientID, id int64, at time.Time) error {
	const query = `
        UPDATE patient_diagnoses SET active = FALSE, resolved_date=$1, updated_at=NOW()
        WHERE id=$2 AND patient_id=$3`
	return execAffecting(ctx, r.db, query, at, id, patientID)
}
