package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OfferHandler struct {
	offerService *services.OfferService
	log          *zap.Logger
}

func NewOfferHandler(offerService *services.OfferService, log *zap.Logger) *OfferHandler {
	return &OfferHandler{offerService: offerService, log: log}
}

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid profile_id"})
	}

	offer, err := h.offerService.Create(c.Context(), middleware.GetUserID(c), services.CreateOfferInput{
		ProfileID:     profileID,
		Name:          req.Name,
		Description:   req.Description,
		PriceHint:     req.PriceHint,
		ProblemSolved: req.ProblemSolved,
		TargetSegment: req.TargetSegment,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: offer})
}

func (h *OfferHandler) List(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "profile_id is required"})
	}

	limit, offset := pagination(c, 20)
	offers, err := h.offerService.List(c.Context(), middleware.GetUserID(c), profileID, c.Query("status"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: offers})
}

func (h *OfferHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid offer id"})
	}

	offer, err := h.offerService.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: offer})
}

func (h *OfferHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid offer id"})
	}

	var req dto.UpdateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	offer, err := h.offerService.Update(c.Context(), id, middleware.GetUserID(c), services.UpdateOfferInput{
		Name:          req.Name,
		Description:   req.Description,
		PriceHint:     req.PriceHint,
		ProblemSolved: req.ProblemSolved,
		TargetSegment: req.TargetSegment,
		Status:        req.Status,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: offer})
}

func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid offer id"})
	}

	if err := h.offerService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
