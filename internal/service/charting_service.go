package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/repository"
)

type defaultCategory struct {
	title string
	icon  string
	color string
	items []string
}

// defaultCategories are seeded the first time a patient's chart is read.
var defaultCategories = []defaultCategory{
	{"Activities of Daily Living", "👤", "blue", []string{"Bathing", "Dressing", "Grooming", "Mobility"}},
	{"Cognitive, Psychosocial", "⚠️", "yellow", []string{"Memory", "Orientation", "Behavior", "Social interaction"}},
	{"Health related services", "❤️", "red", []string{"Vital signs", "Medications", "Treatments", "Assessments"}},
	{"Vital Signs", "🩺", "pink", []string{"Blood pressure", "Temperature", "Pulse", "Respiration"}},
	{"Nutrition, dining services", "🍽️", "orange", []string{"Meal assistance", "Hydration", "Special diets", "Feeding"}},
}

// ChartingInput saves a category. A nil ID creates a new one.
type ChartingInput struct {
	ID           *int64
	Title        string
	Icon         *string
	Color        *string
	Items        []string
	DisplayOrder *int
}

// ChartingService manages per-patient charting categories.
type ChartingService struct {
	patients   PatientChecker
	charting   repository.ChartingRepository
	dispatcher events.Dispatcher
}

func NewChartingService(patients PatientChecker, charting repository.ChartingRepository, dispatcher events.Dispatcher) *ChartingService {
	return &ChartingService{patients: patients, charting: charting, dispatcher: dispatcher}
}

// List returns the patient's categories ordered by display order then id,
// seeding the defaults when the patient has none.
func (s *ChartingService) List(ctx context.Context, patientID int64) ([]domain.ChartingCategory, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	categories, err := s.charting.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list charting: %w", err)
	}
	if len(categories) > 0 {
		return categories, nil
	}
	return s.seedDefaults(ctx, patientID)
}

func (s *ChartingService) seedDefaults(ctx context.Context, patientID int64) ([]domain.ChartingCategory, error) {
	seeded := make([]domain.ChartingCategory, 0, len(defaultCategories))
	for i, def := range defaultCategories {
		icon, color, order := def.icon, def.color, i
		category := domain.ChartingCategory{
			PatientID:    patientID,
			Title:        def.title,
			Icon:         &icon,
			Color:        &color,
			Items:        append([]string(nil), def.items...),
			DisplayOrder: &order,
		}
		if err := s.charting.Create(ctx, &category); err != nil {
			return nil, fmt.Errorf("seed charting %q: %w", def.title, err)
		}
		seeded = append(seeded, category)
	}
	return seeded, nil
}

// Save updates title and items of an existing category, or creates one.
func (s *ChartingService) Save(ctx context.Context, patientID int64, in ChartingInput) (*domain.ChartingCategory, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, required("title", "Title is required")
	}
	items := in.Items
	if items == nil {
		items = []string{}
	}

	var (
		category *domain.ChartingCategory
		created  bool
	)
	if in.ID != nil {
		existing, err := s.charting.GetByID(ctx, patientID, *in.ID)
		if err != nil {
			return nil, notFound(err, ErrChartingNotFound, "load charting")
		}
		existing.Title = in.Title
		existing.Items = items
		if err := s.charting.UpdateContent(ctx, existing); err != nil {
			return nil, notFound(err, ErrChartingNotFound, "update charting")
		}
		category = existing
	} else {
		if err := s.patients.Exists(ctx, patientID); err != nil {
			return nil, err
		}
		category = &domain.ChartingCategory{
			PatientID:    patientID,
			Title:        in.Title,
			Icon:         in.Icon,
			Color:        in.Color,
			Items:        items,
			DisplayOrder: in.DisplayOrder,
		}
		if err := s.charting.Create(ctx, category); err != nil {
			return nil, fmt.Errorf("create charting: %w", err)
		}
		created = true
	}

	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventChartingSaved, &patientID,
		events.ChartingSavedPayload{CategoryID: category.ID, Title: category.Title, Created: created}))
	return category, nil
}

func (s *ChartingService) Delete(ctx context.Context, patientID, id int64) error {
	if err := s.charting.Delete(ctx, patientID, id); err != nil {
		return notFound(err, ErrChartingNotFound, "delete charting")
	}
	return nil
}
