package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/repository"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

const (
	// RecordedAtLayout is the accepted recordedAt format.
	RecordedAtLayout = "2006-01-02T15:04:05"

	defaultRecorderID   int64 = 1
	defaultRecorderName       = "Unknown User"
)

// Recorder identifies who took a set of vitals.
type Recorder struct {
	UserID   int64
	UserName string
}

// VitalsInput is one submitted vitals entry.
type VitalsInput struct {
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
	Temperature            *float64
	TemperatureUnit        string
	Pulse                  *int
	Respiration            *int
	OxygenSaturation       *int
	PainLevel              *int
	Notes                  *string
	RecordedAt             string
	UserID                 *int64
	UserName               *string
}

// VitalsService logs and reads vital signs.
type VitalsService struct {
	patients   PatientChecker
	vitals     repository.VitalsRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

func NewVitalsService(patients PatientChecker, vitals repository.VitalsRepository, dispatcher events.Dispatcher) *VitalsService {
	return &VitalsService{patients: patients, vitals: vitals, dispatcher: dispatcher, now: time.Now}
}

// History returns newest first. limit <= 0 returns everything.
func (s *VitalsService) History(ctx context.Context, patientID int64, limit int) ([]domain.VitalSignsEntry, error) {
	entries, err := s.vitals.History(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("vitals history: %w", err)
	}
	return entries, nil
}

// Latest returns nil without error when nothing was recorded yet.
func (s *VitalsService) Latest(ctx context.Context, patientID int64) (*domain.VitalSignsEntry, error) {
	entry, err := s.vitals.Latest(ctx, patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest vitals: %w", err)
	}
	return entry, nil
}

func (s *VitalsService) Count(ctx context.Context, patientID int64) (int64, error) {
	count, err := s.vitals.Count(ctx, patientID)
	if err != nil {
		return 0, fmt.Errorf("count vitals: %w", err)
	}
	return count, nil
}

func (s *VitalsService) Since(ctx context.Context, patientID int64, since time.Time) ([]domain.VitalSignsEntry, error) {
	entries, err := s.vitals.Since(ctx, patientID, since)
	if err != nil {
		return nil, fmt.Errorf("vitals since: %w", err)
	}
	return entries, nil
}

// Record stores an entry. The recorder is the authenticated caller when
// there is one, then the body's userId and userName, then a placeholder.
func (s *VitalsService) Record(ctx context.Context, patientID int64, recorder *Recorder, in VitalsInput) (*domain.VitalSignsEntry, error) {
	if in.PainLevel != nil && (*in.PainLevel < 1 || *in.PainLevel > 10) {
		return nil, apperrors.NewValidationError("painLevel must be between 1 and 10", map[string]any{"painLevel": *in.PainLevel})
	}
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}

	who := resolveRecorder(recorder, in)
	entry := &domain.VitalSignsEntry{
		PatientID:              patientID,
		UserID:                 who.UserID,
		UserName:               who.UserName,
		BloodPressureSystolic:  in.BloodPressureSystolic,
		BloodPressureDiastolic: in.BloodPressureDiastolic,
		Temperature:            in.Temperature,
		TemperatureUnit:        domain.DefaultTemperatureUnit,
		Pulse:                  in.Pulse,
		Respiration:            in.Respiration,
		OxygenSaturation:       in.OxygenSaturation,
		PainLevel:              in.PainLevel,
		Notes:                  in.Notes,
		RecordedAt:             s.parseRecordedAt(in.RecordedAt),
	}
	if unit := strings.TrimSpace(in.TemperatureUnit); unit != "" {
		entry.TemperatureUnit = unit
	}

	if err := s.vitals.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record vitals: %w", err)
	}

	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventVitalsRecorded, &patientID,
		events.VitalsRecordedPayload{EntryID: entry.ID, Recorder: entry.UserName}))
	return entry, nil
}

// parseRecordedAt falls back to now when the value is absent or unparseable.
func (s *VitalsService) parseRecordedAt(value string) time.Time {
	if value == "" {
		return s.now()
	}
	parsed, err := time.ParseInLocation(RecordedAtLayout, value, time.Local)
	if err != nil {
		return s.now()
	}
	return parsed
}

func resolveRecorder(recorder *Recorder, in VitalsInput) Recorder {
	if recorder != nil && recorder.UserName != "" {
		return *recorder
	}
	who := Recorder{UserID: defaultRecorderID, UserName: defaultRecorderName}
	if in.UserID != nil {
		who.UserID = *in.UserID
	}
	if in.UserName != nil && strings.TrimSpace(*in.UserName) != "" {
		who.UserName = *in.UserName
	}
	return who
}
