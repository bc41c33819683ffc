package repository

import (
	"context"

	"github.com/spec-kit/charting-service/internal/domain"
)

// AllergyRepository stores patient allergies.
type AllergyRepository interface {
	Create(ctx context.Context, allergy *domain.Allergy) error
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Allergy, error)
	Delete(ctx context.Context, patientID, id int64) error
}

type allergyRepository struct {
	db DBTX
}

func NewAllergyRepository(db DBTX) AllergyRepository {
	return &allergyRepository{db: db}
}

func (r *allergyRepository) Create(ctx context.Context, allergy *domain.Allergy) error {
	const query = `
        INSERT INTO patient_allergies (patient_id, allergen, reaction, severity, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		allergy.PatientID,
		allergy.Allergen,
		allergy.Reaction,
		allergy.Severity,
		allergy.Notes,
	).Scan(&allergy.ID, &allergy.CreatedAt, &allergy.UpdatedAt)
}

func (r *allergyRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.Allergy, error) {
	const query = `
        SELECT id, patient_id, allergen, reaction, severity, notes, created_at, updated_at
        FROM patient_allergies WHERE patient_id=$1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Allergy{}
	for rows.Next() {
		var a domain.Allergy
		if err := rows.Scan(
			&a.ID,
			&a.PatientID,
			&a.Allergen,
			&a.Reaction,
			&a.Severity,
			&a.Notes,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *allergyRepository) Delete(ctx context.Context, patientID, id int64) error {
	return execAffecting(ctx, r.db, `DELETE FROM patient_allergies WHERE id=$1 AND patient_id=$2`, id, patientID)
}
