package handlers

import (
	"errors"
	"strings"

	"github.com/bizcopilot/backend/internal/agents"
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps service-layer errors onto the HTTP status and error
// code taxonomy. The human-readable cause goes into message.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	code := "validation_error"
	switch {
	case errors.Is(err, agents.ErrValidation):
		status, code = fiber.StatusBadRequest, "validation_error"
	case errors.Is(err, services.ErrPlanForbidden):
		status, code = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrInsufficientCredits):
		status, code = fiber.StatusPaymentRequired, "payment_required"
	case strings.Contains(err.Error(), "not found"):
		status, code = fiber.StatusNotFound, "not_found"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: code, Message: err.Error()})
}
