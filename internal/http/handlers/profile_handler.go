package handlers

import (
	"strconv"

	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	agentService   *services.AgentService
	log            *zap.Logger
}

func NewProfileHandler(profileService *services.ProfileService, agentService *services.AgentService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, agentService: agentService, log: log}
}

func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "name is required"})
	}

	userID := middleware.GetUserID(c)
	profile, err := h.profileService.Create(c.Context(), userID, services.CreateProfileInput{
		Name:           req.Name,
		Website:        req.Website,
		Industry:       req.Industry,
		Description:    req.Description,
		TargetAudience: req.TargetAudience,
		ToneOfVoice:    req.ToneOfVoice,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *ProfileHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c, 20)

	profiles, err := h.profileService.List(c.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error("list profiles failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: profiles})
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile id"})
	}

	profile, err := h.profileService.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile id"})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	profile, err := h.profileService.Update(c.Context(), id, middleware.GetUserID(c), services.UpdateProfileInput{
		Name:                req.Name,
		Website:             req.Website,
		Industry:            req.Industry,
		Description:         req.Description,
		TargetAudience:      req.TargetAudience,
		ToneOfVoice:         req.ToneOfVoice,
		UniqueSellingPoints: req.UniqueSellingPoints,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile id"})
	}

	if err := h.profileService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

// Enrich starts a profile enrichment run for the profile.
func (h *ProfileHandler) Enrich(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile id"})
	}

	var req dto.EnrichProfileRequest
	_ = c.BodyParser(&req)

	params := map[string]any{}
	if req.Website != "" {
		params["website"] = req.Website
	}

	run, err := h.agentService.Run(c.Context(), middleware.GetUserID(c), "profile_enrich", &id, params, req.Background)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{OK: true, Data: run})
}

// pagination reads limit/offset query params with a default limit.
func pagination(c *fiber.Ctx, defaultLimit int) (int, int) {
	limit, offset := defaultLimit, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}
