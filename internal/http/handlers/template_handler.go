package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	templateService *services.TemplateService
	log             *zap.Logger
}

func NewTemplateHandler(templateService *services.TemplateService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, log: log}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templateService.List(c.Context())
	if err != nil {
		h.log.Error("list templates failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: templates})
}

func (h *TemplateHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}
	if req.Key == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "key and body are required"})
	}

	tpl, err := h.templateService.Save(c.Context(), middleware.GetUserID(c), req.Key, req.Description, req.Body)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: tpl})
}
