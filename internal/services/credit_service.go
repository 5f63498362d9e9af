package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CreditService struct {
	creditRepo *repositories.CreditRepo
	auditRepo  *repositories.AuditRepo
	cfg        *config.Config
	log        *zap.Logger
}

func NewCreditService(creditRepo *repositories.CreditRepo, auditRepo *repositories.AuditRepo, cfg *config.Config, log *zap.Logger) *CreditService {
	return &CreditService{creditRepo: creditRepo, auditRepo: auditRepo, cfg: cfg, log: log}
}

func (s *CreditService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.UserCredit, error) {
	return s.creditRepo.GetOrCreate(ctx, userID)
}

func (s *CreditService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	return s.creditRepo.ListTransactions(ctx, userID, limit, offset)
}

func (s *CreditService) ListPackages() []models.CreditPackage {
	return models.CreditPackages
}

// CreatePurchase starts a TON top-up: the user transfers the package
// price to the hot wallet with the returned memo, and the indexer
// credits the purchase once the transfer lands.
func (s *CreditService) CreatePurchase(ctx context.Context, userID uuid.UUID, packageKey string) (*models.CreditPurchase, error) {
	if s.cfg.TONHotWalletAddress == "" {
		return nil, fmt.Errorf("top-ups are not available")
	}

	pkg := models.FindCreditPackage(packageKey)
	if pkg == nil {
		return nil, fmt.Errorf("unknown credit package %q", packageKey)
	}

	purchase := &models.CreditPurchase{
		UserID:         userID,
		Credits:        pkg.Credits,
		AmountTON:      pkg.AmountTON,
		DepositAddress: s.cfg.TONHotWalletAddress,
		Status:         models.PurchaseStatusAwaiting,
		ExpiresAt:      time.Now().Add(time.Duration(s.cfg.TopupExpiryHours) * time.Hour),
	}
	purchase.DepositMemo = fmt.Sprintf("topup:%s", uuid.New())
	if err := s.creditRepo.CreatePurchase(ctx, purchase); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "credit_purchase_created",
		EntityType:  "credit_purchase",
		EntityID:    &purchase.ID,
		Meta:        map[string]any{"package": packageKey, "credits": pkg.Credits, "amount_ton": pkg.AmountTON},
	})
	return purchase, nil
}

func (s *CreditService) GetPurchase(ctx context.Context, purchaseID, userID uuid.UUID) (*models.CreditPurchase, error) {
	purchase, err := s.creditRepo.GetPurchase(ctx, purchaseID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("purchase not found")
	}
	if err != nil {
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, fmt.Errorf("purchase not found")
	}
	return purchase, nil
}

func (s *CreditService) ListPurchases(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditPurchase, error) {
	return s.creditRepo.ListPurchases(ctx, userID, limit, offset)
}

// Grant adds credits to a user by admin action.
func (s *CreditService) Grant(ctx context.Context, adminID, userID uuid.UUID, amount int64) (int64, error) {
	balance, err := s.creditRepo.Credit(ctx, userID, amount, models.CreditReasonGrant, nil)
	if err != nil {
		return 0, err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "credits_granted",
		EntityType:  "user",
		EntityID:    &userID,
		Meta:        map[string]any{"amount": amount, "balance_after": balance},
	})
	return balance, nil
}
