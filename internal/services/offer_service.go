package services

import (
	"context"
	"fmt"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OfferService struct {
	offerRepo   *repositories.OfferRepo
	profileRepo *repositories.ProfileRepo
	auditRepo   *repositories.AuditRepo
	log         *zap.Logger
}

func NewOfferService(offerRepo *repositories.OfferRepo, profileRepo *repositories.ProfileRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *OfferService {
	return &OfferService{offerRepo: offerRepo, profileRepo: profileRepo, auditRepo: auditRepo, log: log}
}

func (s *OfferService) ownedProfile(ctx context.Context, profileID, userID uuid.UUID) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("profile not found")
	}
	if err != nil {
		return err
	}
	if profile.UserID != userID {
		return fmt.Errorf("profile not found")
	}
	return nil
}

type CreateOfferInput struct {
	ProfileID     uuid.UUID
	Name          string
	Description   *string
	PriceHint     *string
	ProblemSolved *string
	TargetSegment *string
}

func (s *OfferService) Create(ctx context.Context, userID uuid.UUID, input CreateOfferInput) (*models.Offer, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := s.ownedProfile(ctx, input.ProfileID, userID); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		ProfileID:     input.ProfileID,
		Name:          input.Name,
		Description:   input.Description,
		PriceHint:     input.PriceHint,
		ProblemSolved: input.ProblemSolved,
		TargetSegment: input.TargetSegment,
		Status:        models.OfferStatusDraft,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "offer_created",
		EntityType:  "offer",
		EntityID:    &offer.ID,
		Meta:        map[string]any{"name": offer.Name},
	})
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, offerID, userID uuid.UUID) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("offer not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.ownedProfile(ctx, offer.ProfileID, userID); err != nil {
		return nil, fmt.Errorf("offer not found")
	}
	return offer, nil
}

func (s *OfferService) List(ctx context.Context, userID, profileID uuid.UUID, status string, limit, offset int) ([]models.Offer, error) {
	if err := s.ownedProfile(ctx, profileID, userID); err != nil {
		return nil, err
	}
	return s.offerRepo.List(ctx, repositories.OfferFilter{
		ProfileID: &profileID,
		Status:    statusFilter(status),
		Limit:     limit,
		Offset:    offset,
	})
}

// statusFilter turns the handler's query parameter into a list filter;
// an empty status means no filtering.
func statusFilter(status string) *string {
	if status == "" {
		return nil
	}
	return &status
}

type UpdateOfferInput struct {
	Name          *string
	Description   *string
	PriceHint     *string
	ProblemSolved *string
	TargetSegment *string
	Status        *string
}

func (s *OfferService) Update(ctx context.Context, offerID, userID uuid.UUID, input UpdateOfferInput) (*models.Offer, error) {
	offer, err := s.Get(ctx, offerID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		offer.Name = *input.Name
	}
	if input.Description != nil {
		offer.Description = input.Description
	}
	if input.PriceHint != nil {
		offer.PriceHint = input.PriceHint
	}
	if input.ProblemSolved != nil {
		offer.ProblemSolved = input.ProblemSolved
	}
	if input.TargetSegment != nil {
		offer.TargetSegment = input.TargetSegment
	}
	if input.Status != nil {
		switch *input.Status {
		case models.OfferStatusDraft, models.OfferStatusActive, models.OfferStatusArchived:
			offer.Status = *input.Status
		default:
			return nil, fmt.Errorf("invalid status %q", *input.Status)
		}
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *OfferService) Delete(ctx context.Context, offerID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, offerID, userID); err != nil {
		return err
	}
	return s.offerRepo.Delete(ctx, offerID)
}
