package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScriptHandler struct {
	scriptService *services.ScriptService
	log           *zap.Logger
}

func NewScriptHandler(scriptService *services.ScriptService, log *zap.Logger) *ScriptHandler {
	return &ScriptHandler{scriptService: scriptService, log: log}
}

func (h *ScriptHandler) List(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "profile_id is required"})
	}

	limit, offset := pagination(c, 20)
	scripts, err := h.scriptService.List(c.Context(), middleware.GetUserID(c), profileID, limit, offset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: scripts})
}

func (h *ScriptHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid script id"})
	}

	script, err := h.scriptService.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: script})
}

func (h *ScriptHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid script id"})
	}

	var req dto.UpdateScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	script, err := h.scriptService.Update(c.Context(), id, middleware.GetUserID(c), req.Title, req.Content)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: script})
}

func (h *ScriptHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid script id"})
	}

	if err := h.scriptService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

// Writing styles

func (h *ScriptHandler) ListStyles(c *fiber.Ctx) error {
	styles, err := h.scriptService.ListStyles(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("list styles failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: styles})
}

func (h *ScriptHandler) GetStyle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid style id"})
	}

	style, err := h.scriptService.GetStyle(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: style})
}

func (h *ScriptHandler) UpdateStyle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid style id"})
	}

	var req dto.UpdateStyleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	style, err := h.scriptService.UpdateStyle(c.Context(), middleware.GetUserID(c), id, services.UpdateStyleInput{
		Name:              req.Name,
		Tone:              req.Tone,
		Vocabulary:        req.Vocabulary,
		SentenceStructure: req.SentenceStructure,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: style})
}

func (h *ScriptHandler) SetDefaultStyle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid style id"})
	}

	if err := h.scriptService.SetDefaultStyle(c.Context(), middleware.GetUserID(c), id); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ScriptHandler) DeleteStyle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid style id"})
	}

	if err := h.scriptService.DeleteStyle(c.Context(), middleware.GetUserID(c), id); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
