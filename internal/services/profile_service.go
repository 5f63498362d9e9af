package services

import (
	"context"
	"fmt"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ProfileService struct {
	profileRepo *repositories.ProfileRepo
	auditRepo   *repositories.AuditRepo
	rdb         *redis.Client
	log         *zap.Logger
}

func NewProfileService(profileRepo *repositories.ProfileRepo, auditRepo *repositories.AuditRepo, rdb *redis.Client, log *zap.Logger) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, auditRepo: auditRepo, rdb: rdb, log: log}
}

type CreateProfileInput struct {
	Name           string
	Website        *string
	Industry       *string
	Description    *string
	TargetAudience *string
	ToneOfVoice    *string
}

func (s *ProfileService) Create(ctx context.Context, userID uuid.UUID, input CreateProfileInput) (*models.BusinessProfile, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	profile := &models.BusinessProfile{
		UserID:         userID,
		Name:           input.Name,
		Website:        input.Website,
		Industry:       input.Industry,
		Description:    input.Description,
		TargetAudience: input.TargetAudience,
		ToneOfVoice:    input.ToneOfVoice,
		Status:         models.ProfileStatusDraft,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "profile_created",
		EntityType:  "business_profile",
		EntityID:    &profile.ID,
		Meta:        map[string]any{"name": profile.Name},
	})

	return profile, nil
}

// Get returns the profile only when userID owns it. Another user's
// profile looks like a missing one.
func (s *ProfileService) Get(ctx context.Context, profileID, userID uuid.UUID) (*models.BusinessProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, fmt.Errorf("profile not found")
	}
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BusinessProfile, error) {
	return s.profileRepo.ListByUser(ctx, userID, limit, offset)
}

type UpdateProfileInput struct {
	Name                *string
	Website             *string
	Industry            *string
	Description         *string
	TargetAudience      *string
	ToneOfVoice         *string
	UniqueSellingPoints []string
}

func (s *ProfileService) Update(ctx context.Context, profileID, userID uuid.UUID, input UpdateProfileInput) (*models.BusinessProfile, error) {
	profile, err := s.Get(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		profile.Name = *input.Name
	}
	if input.Website != nil {
		profile.Website = input.Website
	}
	if input.Industry != nil {
		profile.Industry = input.Industry
	}
	if input.Description != nil {
		profile.Description = input.Description
	}
	if input.TargetAudience != nil {
		profile.TargetAudience = input.TargetAudience
	}
	if input.ToneOfVoice != nil {
		profile.ToneOfVoice = input.ToneOfVoice
	}
	if input.UniqueSellingPoints != nil {
		profile.UniqueSellingPoints = input.UniqueSellingPoints
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	// Hand-edited fields invalidate the cached enrichment.
	s.InvalidateEnrichment(ctx, profileID)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "profile_updated",
		EntityType:  "business_profile",
		EntityID:    &profileID,
	})

	return profile, nil
}

func (s *ProfileService) Delete(ctx context.Context, profileID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, profileID, userID); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, profileID); err != nil {
		return err
	}
	s.InvalidateEnrichment(ctx, profileID)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "profile_deleted",
		EntityType:  "business_profile",
		EntityID:    &profileID,
	})
	return nil
}

func enrichCacheKey(profileID uuid.UUID) string {
	return "enrich:profile:" + profileID.String()
}

func (s *ProfileService) InvalidateEnrichment(ctx context.Context, profileID uuid.UUID) {
	if err := s.rdb.Del(ctx, enrichCacheKey(profileID)).Err(); err != nil {
		s.log.Warn("enrichment cache invalidation failed",
			zap.String("profile_id", profileID.String()), zap.Error(err))
	}
}
