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

type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	profileRepo  *repositories.ProfileRepo
	auditRepo    *repositories.AuditRepo
	log          *zap.Logger
}

func NewCampaignService(campaignRepo *repositories.CampaignRepo, profileRepo *repositories.ProfileRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo, profileRepo: profileRepo, auditRepo: auditRepo, log: log}
}

func (s *CampaignService) ownedProfile(ctx context.Context, profileID, userID uuid.UUID) error {
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

type CreateCampaignInput struct {
	ProfileID  uuid.UUID
	OfferID    *uuid.UUID
	Title      string
	Objective  string
	Channels   []string
	BudgetHint *string
	Timeline   *string
}

// Create makes a manually authored campaign. Generated campaigns come
// from the strategy agent instead.
func (s *CampaignService) Create(ctx context.Context, userID uuid.UUID, input CreateCampaignInput) (*models.Campaign, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Objective == "" {
		return nil, fmt.Errorf("objective is required")
	}
	if err := s.ownedProfile(ctx, input.ProfileID, userID); err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		ProfileID:  input.ProfileID,
		OfferID:    input.OfferID,
		Title:      input.Title,
		Objective:  input.Objective,
		Channels:   input.Channels,
		BudgetHint: input.BudgetHint,
		Timeline:   input.Timeline,
		Status:     models.CampaignStatusDraft,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &campaign.ID,
		Meta:        map[string]any{"title": campaign.Title},
	})

	return campaign, nil
}

func (s *CampaignService) Get(ctx context.Context, campaignID, userID uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("campaign not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.ownedProfile(ctx, campaign.ProfileID, userID); err != nil {
		return nil, fmt.Errorf("campaign not found")
	}
	return campaign, nil
}

func (s *CampaignService) List(ctx context.Context, userID, profileID uuid.UUID, status string, limit, offset int) ([]models.Campaign, error) {
	if err := s.ownedProfile(ctx, profileID, userID); err != nil {
		return nil, err
	}
	return s.campaignRepo.List(ctx, repositories.CampaignFilter{
		ProfileID: &profileID,
		Status:    statusFilter(status),
		Limit:     limit,
		Offset:    offset,
	})
}

type UpdateCampaignInput struct {
	Title      *string
	Objective  *string
	Channels   []string
	BudgetHint *string
	Timeline   *string
}

func (s *CampaignService) Update(ctx context.Context, campaignID, userID uuid.UUID, input UpdateCampaignInput) (*models.Campaign, error) {
	campaign, err := s.Get(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		campaign.Title = *input.Title
	}
	if input.Objective != nil {
		campaign.Objective = *input.Objective
	}
	if input.Channels != nil {
		campaign.Channels = input.Channels
	}
	if input.BudgetHint != nil {
		campaign.BudgetHint = input.BudgetHint
	}
	if input.Timeline != nil {
		campaign.Timeline = input.Timeline
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "campaign_updated",
		EntityType:  "campaign",
		EntityID:    &campaignID,
	})
	return campaign, nil
}

// UpdateStatus moves a campaign between draft, active, completed and
// archived.
func (s *CampaignService) UpdateStatus(ctx context.Context, campaignID, userID uuid.UUID, status string) (*models.Campaign, error) {
	switch status {
	case models.CampaignStatusDraft, models.CampaignStatusActive,
		models.CampaignStatusCompleted, models.CampaignStatusArchived:
	default:
		return nil, fmt.Errorf("invalid status %q", status)
	}

	campaign, err := s.Get(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	oldStatus := campaign.Status
	campaign.Status = status

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      fmt.Sprintf("campaign_status_%s_to_%s", oldStatus, status),
		EntityType:  "campaign",
		EntityID:    &campaignID,
	})
	return campaign, nil
}

func (s *CampaignService) Delete(ctx context.Context, campaignID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, campaignID, userID); err != nil {
		return err
	}
	return s.campaignRepo.Delete(ctx, campaignID)
}
