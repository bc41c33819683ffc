package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
)

// VitalsRepository stores vital-sign entries.
type VitalsRepository interface {
	Create(ctx context.Context, entry *domain.VitalSignsEntry) error
	// History returns newest first; limit <= 0 means no limit.
	History(ctx context.Context, patientID int64, limit int) ([]domain.VitalSignsEntry, error)
	Latest(ctx context.Context, patientID int64) (*domain.VitalSignsEntry, error)
	Count(ctx context.Context, patientID int64) (int64, error)
	Since(ctx context.Context, patientID int64, since time.Time) ([]domain.VitalSignsEntry, error)
}

type vitalsRepository struct {
	db DBTX
}

func NewVitalsRepository(db DBTX) VitalsRepository {
	return &vitalsRepository{db: db}
}

const vitalsColumns = `id, patient_id, user_id, user_name, blood_pressure_systolic, blood_pressure_diastolic,
               temperature, temperature_unit, pulse, respiration, oxygen_saturation, pain_level, notes,
               recorded_at, created_at`

func (r *vitalsRepository) Create(ctx context.Context, v *domain.VitalSignsEntry) error {
	const query = `
        INSERT INTO vital_signs_entries (patient_id, user_id, user_name, blood_pressure_systolic,
            blood_pressure_diastolic, temperature, temperature_unit, pulse, respiration, oxygen_saturation,
            pain_level, notes, recorded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		v.PatientID,
		v.UserID,
		v.UserName,
		v.BloodPressureSystolic,
		v.BloodPressureDiastolic,
		v.Temperature,
		v.TemperatureUnit,
		v.Pulse,
		v.Respiration,
		v.OxygenSaturation,
		v.PainLevel,
		v.Notes,
		v.RecordedAt,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *vitalsRepository) History(ctx context.Context, patientID int64, limit int) ([]domain.VitalSignsEntry, error) {
	query := `SELECT ` + vitalsColumns + ` FROM vital_signs_entries WHERE patient_id=$1 ORDER BY recorded_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.list(ctx, query, patientID)
}

func (r *vitalsRepository) Latest(ctx context.Context, patientID int64) (*domain.VitalSignsEntry, error) {
	query := `SELECT ` + vitalsColumns + ` FROM vital_signs_entries WHERE patient_id=$1 ORDER BY recorded_at DESC, id DESC LIMIT 1`
	var v domain.VitalSignsEntry
	if err := r.db.QueryRow(ctx, query, patientID).Scan(vitalsFields(&v)...); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vitalsRepository) Count(ctx context.Context, patientID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vital_signs_entries WHERE patient_id=$1`, patientID).Scan(&count)
	return count, err
}

func (r *vitalsRepository) Since(ctx context.Context, patientID int64, since time.Time) ([]domain.VitalSignsEntry, error) {
	query := `SELECT ` + vitalsColumns + ` FROM vital_signs_entries WHERE patient_id=$1 AND recorded_at >= $2 ORDER BY recorded_at DESC, id DESC`
	return r.list(ctx, query, patientID, since)
}

func (r *vitalsRepository) list(ctx context.Context, query string, args ...any) ([]domain.VitalSignsEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVitals(rows)
}

func scanVitals(rows pgx.Rows) ([]domain.VitalSignsEntry, error) {
	result := []domain.VitalSignsEntry{}
	for rows.Next() {
		var v domain.VitalSignsEntry
		if err := rows.Scan(vitalsFields(&v)...); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func vitalsFields(v *domain.VitalSignsEntry) []any {
	return []any{
		&v.ID,
		&v.PatientID,
		&v.UserID,
		&v.UserName,
		&v.BloodPressureSystolic,
		&v.BloodPressureDiastolic,
		&v.Temperature,
		&v.TemperatureUnit,
		&v.Pulse,
		&v.Respiration,
		&v.OxygenSaturation,
		&v.PainLevel,
		&v.Notes,
		&v.RecordedAt,
		&v.CreatedAt,
	}
}
