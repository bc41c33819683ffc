package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/charting-service/internal/api/dto"
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
)

// ChartingService is the subset of *service.ChartingService used here.
type ChartingService interface {
	List(ctx context.Context, patientID int64) ([]domain.ChartingCategory, error)
	Save(ctx context.Context, patientID int64, in service.ChartingInput) (*domain.ChartingCategory, error)
	Delete(ctx context.Context, patientID, id int64) error
}

// ChartingHandler serves /patients/:id/charting.
type ChartingHandler struct {
	charting ChartingService
}

func NewChartingHandler(charting ChartingService) *ChartingHandler {
	return &ChartingHandler{charting: charting}
}

// List seeds the default categories on first read.
func (h *ChartingHandler) List(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	categories, err := h.charting.List(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewChartingList(categories))
}

// Save creates a category, or updates title and items when the body has an id.
func (h *ChartingHandler) Save(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChartingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.charting.Save(c.UserContext(), patientID, req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewChartingResponse(category))
}

func (h *ChartingHandler) Delete(c *fiber.Ctx) error {
	patientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	chartingID, err := paramID(c, "chartingId")
	if err != nil {
		return err
	}
	if err := h.charting.Delete(c.UserContext(), patientID, chartingID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
