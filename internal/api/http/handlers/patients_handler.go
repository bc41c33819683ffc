package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/charting-service/internal/api/dto"
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// PatientService is the subset of *service.PatientService the patient endpoints use.
type PatientService interface {
	List(ctx context.Context) ([]domain.Patient, error)
	Get(ctx context.Context, id int64) (*domain.Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*domain.Patient, error)
	Create(ctx context.Context, in service.PatientInput) (*domain.Patient, error)
	Update(ctx context.Context, id int64, in service.PatientInput) (*domain.Patient, error)
	Discharge(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, name string) ([]domain.Patient, error)
	ListByRoom(ctx context.Context, room string) ([]domain.Patient, error)
	ListByPhysician(ctx context.Context, physician string) ([]domain.Patient, error)
	ListWithAllergies(ctx context.Context) ([]domain.Patient, error)
	ListByAllergen(ctx context.Context, allergen string) ([]domain.Patient, error)
	ListAdmittedBetween(ctx context.Context, start, end time.Time) ([]domain.Patient, error)
	CountActive(ctx context.Context) (int64, error)
}

// PatientsHandler serves /patients.
type PatientsHandler struct {
	patients PatientService
	now      func() time.Time
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(patients PatientService) *PatientsHandler {
	return &PatientsHandler{patients: patients, now: time.Now}
}

// List handles GET /patients.
func (h *PatientsHandler) List(c *fiber.Ctx) error {
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.List(ctx)
	})
}

// Get handles GET /patients/:id.
func (h *PatientsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	patient, err := h.patients.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPatientResponse(patient, h.now()))
}

// GetByMRN handles GET /patients/mrn/:mrn.
func (h *PatientsHandler) GetByMRN(c *fiber.Ctx) error {
	patient, err := h.patients.GetByMRN(c.UserContext(), c.Params("mrn"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPatientResponse(patient, h.now()))
}

// Create handles POST /patients.
func (h *PatientsHandler) Create(c *fiber.Ctx) error {
	var req dto.PatientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return err
	}

	patient, err := h.patients.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPatientResponse(patient, h.now()))
}

// Update handles PUT /patients/:id.
func (h *PatientsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PatientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return err
	}

	patient, err := h.patients.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPatientResponse(patient, h.now()))
}

// Discharge handles DELETE /patients/:id as a soft delete.
func (h *PatientsHandler) Discharge(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.patients.Discharge(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Search handles GET /patients/search?name=.
func (h *PatientsHandler) Search(c *fiber.Ctx) error {
	name, err := requiredQuery(c, "name")
	if err != nil {
		return err
	}
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.SearchByName(ctx, name)
	})
}

// ByRoom handles GET /patients/room/:room.
func (h *PatientsHandler) ByRoom(c *fiber.Ctx) error {
	room := c.Params("room")
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.ListByRoom(ctx, room)
	})
}

// ByPhysician handles GET /patients/physician/:physician.
func (h *PatientsHandler) ByPhysician(c *fiber.Ctx) error {
	physician := c.Params("physician")
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.ListByPhysician(ctx, physician)
	})
}

// WithAllergies handles GET /patients/allergies.
func (h *PatientsHandler) WithAllergies(c *fiber.Ctx) error {
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.ListWithAllergies(ctx)
	})
}

// ByAllergen handles GET /patients/allergen/:allergen.
func (h *PatientsHandler) ByAllergen(c *fiber.Ctx) error {
	allergen := c.Params("allergen")
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.ListByAllergen(ctx, allergen)
	})
}

// AdmittedBetween handles GET /patients/admitted?startDate=&endDate=.
func (h *PatientsHandler) AdmittedBetween(c *fiber.Ctx) error {
	start, err := parseQueryTime(c, "startDate")
	if err != nil {
		return err
	}
	end, err := parseQueryTime(c, "endDate")
	if err != nil {
		return err
	}
	return h.respondList(c, func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.ListAdmittedBetween(ctx, start, end)
	})
}

// Count handles GET /patients/count and returns a bare number.
func (h *PatientsHandler) Count(c *fiber.Ctx) error {
	count, err := h.patients.CountActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(count)
}

func (h *PatientsHandler) respondList(c *fiber.Ctx, load func(context.Context) ([]domain.Patient, error)) error {
	patients, err := load(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPatientList(patients, h.now()))
}

func parseQueryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw, err := requiredQuery(c, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(dto.QueryTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid "+name, map[string]any{
			name:     raw,
			"format": dto.QueryTimeLayout,
		})
	}
	return t, nil
}
