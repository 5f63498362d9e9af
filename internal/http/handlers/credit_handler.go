package handlers

import (
	"github.com/bizcopilot/backend/internal/http/dto"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreditHandler struct {
	creditService *services.CreditService
	agentService  *services.AgentService
	log           *zap.Logger
}

func NewCreditHandler(creditService *services.CreditService, agentService *services.AgentService, log *zap.Logger) *CreditHandler {
	return &CreditHandler{creditService: creditService, agentService: agentService, log: log}
}

func (h *CreditHandler) GetWallet(c *fiber.Ctx) error {
	wallet, err := h.creditService.GetWallet(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("get wallet failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: wallet})
}

func (h *CreditHandler) ListTransactions(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50)
	txs, err := h.creditService.ListTransactions(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		h.log.Error("list transactions failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: txs})
}

func (h *CreditHandler) ListPackages(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.creditService.ListPackages()})
}

// Pricing returns per-tool credit costs for the caller's plan.
func (h *CreditHandler) Pricing(c *fiber.Ctx) error {
	tools := h.agentService.ListTools(middleware.GetUserPlan(c))
	return c.JSON(dto.SuccessResponse{OK: true, Data: tools})
}

func (h *CreditHandler) CreateTopup(c *fiber.Ctx) error {
	var req dto.CreatePurchaseRequest
	if err := c.BodyParser(&req); err != nil || req.Package == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "package is required"})
	}

	purchase, err := h.creditService.CreatePurchase(c.Context(), middleware.GetUserID(c), req.Package)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.TopupInfoResponse{
		PurchaseID:    purchase.ID.String(),
		WalletAddress: purchase.DepositAddress,
		Memo:          purchase.DepositMemo,
		AmountTON:     purchase.AmountTON,
		Credits:       purchase.Credits,
		Status:        purchase.Status,
		ExpiresAt:     purchase.ExpiresAt,
	})
}

func (h *CreditHandler) GetTopup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid purchase id"})
	}

	purchase, err := h.creditService.GetPurchase(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: purchase})
}

func (h *CreditHandler) ListTopups(c *fiber.Ctx) error {
	limit, offset := pagination(c, 20)
	purchases, err := h.creditService.ListPurchases(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		h.log.Error("list purchases failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "server_error", Message: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: purchases})
}

// Grant credits to any user. Admin only.
func (h *CreditHandler) Grant(c *fiber.Ctx) error {
	var req dto.GrantCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid request body"})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "invalid user_id"})
	}
	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: "amount must be positive"})
	}

	balance, err := h.creditService.Grant(c.Context(), middleware.GetUserID(c), userID, req.Amount)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"balance": balance}})
}
