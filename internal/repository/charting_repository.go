package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
)

// ChartingRepository stores charting categories. Items live in a JSONB array.
type ChartingRepository interface {
	Create(ctx context.Context, category *domain.ChartingCategory) error
	UpdateContent(ctx context.Context, category *domain.ChartingCategory) error
	GetByID(ctx context.Context, patientID, id int64) (*domain.ChartingCategory, error)
	ListByPatient(ctx context.Context, patientID int64) ([]domain.ChartingCategory, error)
	Delete(ctx context.Context, patientID, id int64) error
}

type chartingRepository struct {
	db DBTX
}

func NewChartingRepository(db DBTX) ChartingRepository {
	return &chartingRepository{db: db}
}

const chartingColumns = `id, patient_id, title, icon, color, items, display_order, created_at, updated_at`

func (r *chartingRepository) Create(ctx context.Context, c *domain.ChartingCategory) error {
	items, err := encodeItems(c.Items)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO patient_charting_data (patient_id, title, icon, color, items, display_order)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		c.PatientID,
		c.Title,
		c.Icon,
		c.Color,
		items,
		c.DisplayOrder,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateContent rewrites title and items only.
func (r *chartingRepository) UpdateContent(ctx context.Context, c *domain.ChartingCategory) error {
	items, err := encodeItems(c.Items)
	if err != nil {
		return err
	}
	const query = `
        UPDATE patient_charting_data SET title=$1, items=$2, updated_at=NOW()
        WHERE id=$3 AND patient_id=$4
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query, c.Title, items, c.ID, c.PatientID).Scan(&c.UpdatedAt)
}

func (r *chartingRepository) GetByID(ctx context.Context, patientID, id int64) (*domain.ChartingCategory, error) {
	query := `SELECT ` + chartingColumns + ` FROM patient_charting_data WHERE id=$1 AND patient_id=$2`
	return scanCategory(r.db.QueryRow(ctx, query, id, patientID))
}

func (r *chartingRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.ChartingCategory, error) {
	query := `SELECT ` + chartingColumns + ` FROM patient_charting_data WHERE patient_id=$1
        ORDER BY display_order ASC NULLS LAST, id ASC`
	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ChartingCategory{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *category)
	}
	return result, rows.Err()
}

func (r *chartingRepository) Delete(ctx context.Context, patientID, id int64) error {
	return execAffecting(ctx, r.db, `DELETE FROM patient_charting_data WHERE id=$1 AND patient_id=$2`, id, patientID)
}

func scanCategory(row pgx.Row) (*domain.ChartingCategory, error) {
	var (
		c   domain.ChartingCategory
		raw []byte
	)
	if err := row.Scan(
		&c.ID,
		&c.PatientID,
		&c.Title,
		&c.Icon,
		&c.Color,
		&raw,
		&c.DisplayOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Items = decodeItems(raw)
	return &c, nil
}

func encodeItems(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode charting items: %w", err)
	}
	return string(b), nil
}

// decodeItems never fails: unreadable stored items render as an empty list.
func decodeItems(raw []byte) []string {
	items := []string{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
