package dto

import (
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
)

// ChartingRequest creates a category, or updates one when id is set.
type ChartingRequest struct {
	ID           *int64   `json:"id"`
	Title        string   `json:"title" validate:"required,max=200"`
	Icon         *string  `json:"icon"`
	Color        *string  `json:"color"`
	Items        []string `json:"items"`
	DisplayOrder *int     `json:"displayOrder"`
}

func (r ChartingRequest) ToInput() service.ChartingInput {
	return service.ChartingInput{
		ID:           r.ID,
		Title:        r.Title,
		Icon:         r.Icon,
		Color:        r.Color,
		Items:        r.Items,
		DisplayOrder: r.DisplayOrder,
	}
}

type ChartingResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Icon         *string  `json:"icon"`
	Color        *string  `json:"color"`
	Items        []string `json:"items"`
	DisplayOrder *int     `json:"displayOrder"`
}

func NewChartingResponse(c *domain.ChartingCategory) ChartingResponse {
	items := c.Items
	if items == nil {
		items = []string{}
	}
	return ChartingResponse{
		ID:           c.ID,
		Title:        c.Title,
		Icon:         c.Icon,
		Color:        c.Color,
		Items:        items,
		DisplayOrder: c.DisplayOrder,
	}
}

func NewChartingList(categories []domain.ChartingCategory) []ChartingResponse {
	out := make([]ChartingResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewChartingResponse(&categories[i]))
	}
	return out
}
