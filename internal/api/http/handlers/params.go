package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/charting-service/internal/api/dto"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// bind parses the JSON body into out and runs tag validation.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(out)
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: raw})
	}
	return id, nil
}

func requiredQuery(c *fiber.Ctx, name string) (string, error) {
	value := c.Query(name)
	if value == "" {
		return "", apperrors.NewValidationError(name+" is required", nil)
	}
	return value, nil
}
