package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CompetitorHandler struct {
	competitorService *services.CompetitorService
	log               *zap.Logger
}

func NewCompetitorHandler(competitorService *services.CompetitorService, log *zap.Logger) *CompetitorHandler {
	return &CompetitorHandler{competitorService: competitorService, log: log}
}

func (h *CompetitorHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCompetitorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile_id"})
	}

	competitor, err := h.competitorService.Create(c.Context(), middleware.GetUserID(c), profileID, services.CreateCompetitorInput{
		Name:            req.Name,
		Website:         req.Website,
		Summary:         req.Summary,
		Strengths:       req.Strengths,
		Weaknesses:      req.Weaknesses,
		Differentiators: req.Differentiators,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: competitor})
}

func (h *CompetitorHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid competitor id"})
	}

	var req dto.UpdateCompetitorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	competitor, err := h.competitorService.Update(c.Context(), id, middleware.GetUserID(c), services.UpdateCompetitorInput{
		Name:            req.Name,
		Website:         req.Website,
		Summary:         req.Summary,
		Strengths:       req.Strengths,
		Weaknesses:      req.Weaknesses,
		Differentiators: req.Differentiators,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: competitor})
}

func (h *CompetitorHandler) List(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "profile_id is required"})
	}

	limit, offset := pagination(c, 20)
	competitors, err := h.competitorService.List(c.Context(), middleware.GetUserID(c), profileID, limit, offset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: competitors})
}

func (h *CompetitorHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid competitor id"})
	}

	competitor, err := h.competitorService.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: competitor})
}

func (h *CompetitorHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid competitor id"})
	}

	if err := h.competitorService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
