package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AgentHandler struct {
	agentService *services.AgentService
	log          *zap.Logger
}

func NewAgentHandler(agentService *services.AgentService, log *zap.Logger) *AgentHandler {
	return &AgentHandler{agentService: agentService, log: log}
}

// ListTools returns the tool catalog with per-plan availability.
func (h *AgentHandler) ListTools(c *fiber.Ctx) error {
	tools := h.agentService.ListTools(middleware.GetUserPlan(c))
	return c.JSON(dto.SuccessResponse{OK: true, Data: tools})
}

func (h *AgentHandler) Run(c *fiber.Ctx) error {
	var req dto.RunAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}
	// Single-tool agents may omit the tool name.
	if req.Tool == "" {
		req.Tool = c.Params("agent")
	}
	if req.Tool == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "tool is required"})
	}

	var profileID *uuid.UUID
	if req.ProfileID != nil {
		id, err := uuid.Parse(*req.ProfileID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile_id"})
		}
		profileID = &id
	}

	userID := middleware.GetUserID(c)
	run, err := h.agentService.Run(c.Context(), userID, req.Tool, profileID, req.Params, req.Background)
	if err != nil {
		return serviceError(c, err)
	}

	status := fiber.StatusCreated
	if req.Background {
		status = fiber.StatusAccepted
	}
	return c.Status(status).JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *AgentHandler) GetRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid run id"})
	}

	run, err := h.agentService.GetRun(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *AgentHandler) ListRuns(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c, 20)

	filter := repositories.InteractionFilter{
		UserID: &userID,
		Agent:  c.Query("agent"),
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}
	if v := c.Query("profile_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile_id"})
		}
		filter.ProfileID = &id
	}

	runs, err := h.agentService.ListRuns(c.Context(), filter)
	if err != nil {
		h.log.Error("list runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: runs})
}
