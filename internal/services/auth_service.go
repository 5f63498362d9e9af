package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizcopilot/backend/internal/auth"
	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo   *repositories.UserRepo
	creditRepo *repositories.CreditRepo
	auditRepo  *repositories.AuditRepo
	cfg        *config.Config
	log        *zap.Logger
}

func NewAuthService(
	userRepo *repositories.UserRepo,
	creditRepo *repositories.CreditRepo,
	auditRepo *repositories.AuditRepo,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		creditRepo: creditRepo,
		auditRepo:  auditRepo,
		cfg:        cfg,
		log:        log,
	}
}

// Register creates a user, grants the signup credits and returns a JWT.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("email already registered")
	} else if err != pgx.ErrNoRows {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Plan:         models.PlanFree,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if s.cfg.SignupGrantCredits > 0 {
		if _, err := s.creditRepo.Credit(ctx, user.ID, s.cfg.SignupGrantCredits, models.CreditReasonGrant, nil); err != nil {
			s.log.Error("signup credit grant failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &user.ID,
		ActorType:   "user",
		Action:      "user_registered",
		EntityType:  "user",
		EntityID:    &user.ID,
	})

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Email, user.Plan, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials and returns a fresh JWT. The error is the
// same for a missing user and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	_ = s.userRepo.UpdateLastActive(ctx, user.ID)

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Email, user.Plan, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
