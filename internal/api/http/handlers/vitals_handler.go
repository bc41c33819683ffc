package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/charting-service/internal/api/dto"
	"github.com/spec-kit/charting-service/internal/auth"
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

const defaultVitalsLimit = 10

// VitalsService is the subset of *service.VitalsService used here.
type VitalsService interface {
	History(ctx context.Context, patientID int64, limit int) ([]domain.VitalSignsEntry, error)
	Latest(ctx context.Context, patientID int64) (*domain.VitalSignsEntry, error)
	Count(ctx context.Context, patientID int64) (int64, error)
	Since(ctx context.Context, patientID int64, since time.Time) ([]domain.VitalSignsEntry, error)
	Record(ctx context.Context, patientID int64, recorder *service.Recorder, in service.VitalsInput) (*domain.VitalSignsEntry, error)
}

// VitalsHandler serves /patients/:id/vitals.
type VitalsHandler struct {
	vitals VitalsService
}

func NewVitalsHandler(vitals VitalsService) *VitalsHandler {
	return &VitalsHandler{vitals: vitals}
}

// History handles GET /patients/:id/vitals?limit=. A non-positive limit
// returns the full history.
func (h *VitalsHandler) History(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.vitals.History(c.UserContext(), patientID, c.QueryInt("limit", defaultVitalsLimit))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVitalsList(entries))
}

// Latest handles GET /patients/:id/vitals/latest; {} when nothing was recorded.
func (h *VitalsHandler) Latest(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.vitals.Latest(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	if entry == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(dto.NewVitalsResponse(entry))
}

func (h *VitalsHandler) Count(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	count, err := h.vitals.Count(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(dto.CountResponse{Count: count})
}

// Since handles GET /patients/:id/vitals/since?since=.
func (h *VitalsHandler) Since(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	raw, err := requiredQuery(c, "since")
	if err != nil {
		return err
	}
	since, err := dto.ParseTime(raw)
	if err != nil {
		return apperrors.NewValidationError("invalid since", map[string]any{"since": raw})
	}
	entries, err := h.vitals.Since(c.UserContext(), patientID, since)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVitalsList(entries))
}

// Record handles POST /patients/:id/vitals. An authenticated caller is
// recorded as the author; the body's userId/userName only apply otherwise.
func (h *VitalsHandler) Record(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.VitalsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var recorder *service.Recorder
	if identity, ok := auth.IdentityFromContext(c); ok {
		name := identity.FullName
		if name == "" {
			name = identity.Email
		}
		recorder = &service.Recorder{UserID: identity.UserID, UserName: name}
	}

	entry, err := h.vitals.Record(c.UserContext(), patientID, recorder, req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVitalsResponse(entry))
}
