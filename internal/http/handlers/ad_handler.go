package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdHandler struct {
	adService *services.AdService
	log       *zap.Logger
}

func NewAdHandler(adService *services.AdService, log *zap.Logger) *AdHandler {
	return &AdHandler{adService: adService, log: log}
}

// List returns ads for one parent, selected by offer_id or campaign_id.
func (h *AdHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if v := c.Query("offer_id"); v != "" {
		offerID, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid offer_id"})
		}
		ads, err := h.adService.ListByOffer(c.Context(), offerID, userID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(dto.SuccessResponse{OK: true, Data: ads})
	}

	if v := c.Query("campaign_id"); v != "" {
		campaignID, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid campaign_id"})
		}
		ads, err := h.adService.ListByCampaign(c.Context(), campaignID, userID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(dto.SuccessResponse{OK: true, Data: ads})
	}

	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "offer_id or campaign_id is required"})
}

func (h *AdHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid ad id"})
	}

	ad, err := h.adService.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: ad})
}

func (h *AdHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid ad id"})
	}

	var req dto.UpdateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	ad, err := h.adService.Update(c.Context(), id, middleware.GetUserID(c), services.UpdateAdInput{
		Headline:     req.Headline,
		Body:         req.Body,
		CallToAction: req.CallToAction,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: ad})
}

func (h *AdHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid ad id"})
	}

	if err := h.adService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
