package domain

import "time"

// ChartingCategory is a patient-specific checklist shown on the chart.
type ChartingCategory struct {
	ID           int64
	PatientID    int64
	Title        string
	Icon         *string
	Color        *string
	Items        []string
	DisplayOrder *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
