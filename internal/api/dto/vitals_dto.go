package dto

import (
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
)

// VitalsRequest is one set of vitals. userId and userName are only used
// when the request carries no authenticated identity.
type VitalsRequest struct {
	BloodPressureSystolic  *int     `json:"bloodPressureSystolic" validate:"omitempty,min=0"`
	BloodPressureDiastolic *int     `json:"bloodPressureDiastolic" validate:"omitempty,min=0"`
	Temperature            *float64 `json:"temperature"`
	TemperatureUnit        string   `json:"temperatureUnit" validate:"omitempty,oneof=F C"`
	Pulse                  *int     `json:"pulse" validate:"omitempty,min=0"`
	Respiration            *int     `json:"respiration" validate:"omitempty,min=0"`
	OxygenSaturation       *int     `json:"oxygenSaturation" validate:"omitempty,min=0,max=100"`
	PainLevel              *int     `json:"painLevel" validate:"omitempty,min=1,max=10"`
	Notes                  *string  `json:"notes"`
	RecordedAt             string   `json:"recordedAt"`
	UserID                 *int64   `json:"userId"`
	UserName               *string  `json:"userName"`
}

func (r VitalsRequest) ToInput() service.VitalsInput {
	return service.VitalsInput{
		BloodPressureSystolic:  r.BloodPressureSystolic,
		BloodPressureDiastolic: r.BloodPressureDiastolic,
		Temperature:            r.Temperature,
		TemperatureUnit:        r.TemperatureUnit,
		Pulse:                  r.Pulse,
		Respiration:            r.Respiration,
		OxygenSaturation:       r.OxygenSaturation,
		PainLevel:              r.PainLevel,
		Notes:                  r.Notes,
		RecordedAt:             r.RecordedAt,
		UserID:                 r.UserID,
		UserName:               r.UserName,
	}
}

// VitalsResponse includes the display strings the chart renders directly.
type VitalsResponse struct {
	ID                     int64    `json:"id"`
	PatientID              int64    `json:"patientId"`
	UserID                 int64    `json:"userId"`
	UserName               string   `json:"userName"`
	BloodPressureSystolic  *int     `json:"bloodPressureSystolic"`
	BloodPressureDiastolic *int     `json:"bloodPressureDiastolic"`
	BloodPressureString    string   `json:"bloodPressureString"`
	Temperature            *float64 `json:"temperature"`
	TemperatureUnit        string   `json:"temperatureUnit"`
	TemperatureString      string   `json:"temperatureString"`
	Pulse                  *int     `json:"pulse"`
	Respiration            *int     `json:"respiration"`
	OxygenSaturation       *int     `json:"oxygenSaturation"`
	PainLevel              *int     `json:"painLevel"`
	Notes                  *string  `json:"notes"`
	RecordedAt             string   `json:"recordedAt"`
	CreatedAt              string   `json:"createdAt"`
	RecordedAtFormatted    string   `json:"recordedAtFormatted"`
	CreatedAtFormatted     string   `json:"createdAtFormatted"`
}

func NewVitalsResponse(v *domain.VitalSignsEntry) VitalsResponse {
	return VitalsResponse{
		ID:                     v.ID,
		PatientID:              v.PatientID,
		UserID:                 v.UserID,
		UserName:               v.UserName,
		BloodPressureSystolic:  v.BloodPressureSystolic,
		BloodPressureDiastolic: v.BloodPressureDiastolic,
		BloodPressureString:    v.BloodPressure(),
		Temperature:            v.Temperature,
		TemperatureUnit:        v.TemperatureUnit,
		TemperatureString:      v.TemperatureDisplay(),
		Pulse:                  v.Pulse,
		Respiration:            v.Respiration,
		OxygenSaturation:       v.OxygenSaturation,
		PainLevel:              v.PainLevel,
		Notes:                  v.Notes,
		RecordedAt:             formatTime(v.RecordedAt),
		CreatedAt:              formatTime(v.CreatedAt),
		RecordedAtFormatted:    v.RecordedAt.Format(DisplayLayout),
		CreatedAtFormatted:     v.CreatedAt.Format(DisplayLayout),
	}
}

func NewVitalsList(entries []domain.VitalSignsEntry) []VitalsResponse {
	out := make([]VitalsResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewVitalsResponse(&entries[i]))
	}
	return out
}

// CountResponse wraps a bare count.
type CountResponse struct {
	Count int64 `json:"count"`
}
