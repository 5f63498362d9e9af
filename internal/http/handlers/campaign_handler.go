package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, log: log}
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile_id"})
	}

	var offerID *uuid.UUID
	if req.OfferID != nil {
		id, err := uuid.Parse(*req.OfferID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid offer_id"})
		}
		offerID = &id
	}

	campaign, err := h.campaignService.Create(c.Context(), middleware.GetUserID(c), services.CreateCampaignInput{
		ProfileID:  profileID,
		OfferID:    offerID,
		Title:      req.Title,
		Objective:  req.Objective,
		Channels:   req.Channels,
		BudgetHint: req.BudgetHint,
		Timeline:   req.Timeline,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "profile_id is required"})
	}

	limit, offset := pagination(c, 20)
	campaigns, err := h.campaignService.List(c.Context(), middleware.GetUserID(c), profileID, c.Query("status"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid campaign id"})
	}

	campaign, err := h.campaignService.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid campaign id"})
	}

	var req dto.UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	campaign, err := h.campaignService.Update(c.Context(), id, middleware.GetUserID(c), services.UpdateCampaignInput{
		Title:      req.Title,
		Objective:  req.Objective,
		Channels:   req.Channels,
		BudgetHint: req.BudgetHint,
		Timeline:   req.Timeline,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid campaign id"})
	}

	var req dto.UpdateCampaignStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "status is required"})
	}

	campaign, err := h.campaignService.UpdateStatus(c.Context(), id, middleware.GetUserID(c), req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid campaign id"})
	}

	if err := h.campaignService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
