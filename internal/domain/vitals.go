package domain

import (
	"fmt"
	"time"
)

// DefaultTemperatureUnit is used when an entry omits the unit.
const DefaultTemperatureUnit = "F"

// VitalSignsEntry is one set of vitals taken at a point in time.
type VitalSignsEntry struct {
	ID                     int64
	PatientID              int64
	UserID                 int64
	UserName               string
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
	Temperature            *float64
	TemperatureUnit        string
	Pulse                  *int
	Respiration            *int
	OxygenSaturation       *int
	PainLevel              *int
	Notes                  *string
	RecordedAt             time.Time
	CreatedAt              time.Time
}

// BloodPressure renders "systolic/diastolic", or "" when either is missing.
func (v *VitalSignsEntry) BloodPressure() string {
	if v.BloodPressureSystolic == nil || v.BloodPressureDiastolic == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", *v.BloodPressureSystolic, *v.BloodPressureDiastolic)
}

// TemperatureDisplay renders e.g. "98.6°F", or "" when no temperature was taken.
func (v *VitalSignsEntry) TemperatureDisplay() string {
	if v.Temperature == nil {
		return ""
	}
	unit := v.TemperatureUnit
	if unit == "" {
		unit = DefaultTemperatureUnit
	}
	return fmt.Sprintf("%.1f°%s", *v.Temperature, unit)
}
