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

type CompetitorService struct {
	competitorRepo *repositories.CompetitorRepo
	profileRepo    *repositories.ProfileRepo
	log            *zap.Logger
}

func NewCompetitorService(competitorRepo *repositories.CompetitorRepo, profileRepo *repositories.ProfileRepo, log *zap.Logger) *CompetitorService {
	return &CompetitorService{competitorRepo: competitorRepo, profileRepo: profileRepo, log: log}
}

func (s *CompetitorService) ownedProfile(ctx context.Context, profileID, userID uuid.UUID) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("profile not found")
	}
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	if profile.UserID != userID {
		return fmt.Errorf("profile not found")
	}
	return nil
}

type CreateCompetitorInput struct {
	Name            string
	Website         *string
	Summary         *string
	Strengths       *string
	Weaknesses      *string
	Differentiators *string
}

// Create adds a competitor by hand, outside any research run. Matching
// an existing name refreshes that record instead of duplicating it.
func (s *CompetitorService) Create(ctx context.Context, userID, profileID uuid.UUID, input CreateCompetitorInput) (*models.Competitor, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := s.ownedProfile(ctx, profileID, userID); err != nil {
		return nil, err
	}
	competitor := models.Competitor{
		ProfileID:       profileID,
		Name:            input.Name,
		Website:         input.Website,
		Summary:         input.Summary,
		Strengths:       input.Strengths,
		Weaknesses:      input.Weaknesses,
		Differentiators: input.Differentiators,
		Source:          models.CompetitorSourceManual,
	}
	if err := s.competitorRepo.Upsert(ctx, &competitor); err != nil {
		return nil, fmt.Errorf("create competitor: %w", err)
	}
	return &competitor, nil
}

type UpdateCompetitorInput struct {
	Name            *string
	Website         *string
	Summary         *string
	Strengths       *string
	Weaknesses      *string
	Differentiators *string
}

func (s *CompetitorService) Update(ctx context.Context, competitorID, userID uuid.UUID, input UpdateCompetitorInput) (*models.Competitor, error) {
	if input.Name != nil && *input.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	competitor, err := s.Get(ctx, competitorID, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		competitor.Name = *input.Name
	}
	if input.Website != nil {
		competitor.Website = input.Website
	}
	if input.Summary != nil {
		competitor.Summary = input.Summary
	}
	if input.Strengths != nil {
		competitor.Strengths = input.Strengths
	}
	if input.Weaknesses != nil {
		competitor.Weaknesses = input.Weaknesses
	}
	if input.Differentiators != nil {
		competitor.Differentiators = input.Differentiators
	}
	if err := s.competitorRepo.Update(ctx, competitor); err != nil {
		return nil, fmt.Errorf("update competitor: %w", err)
	}
	return competitor, nil
}

func (s *CompetitorService) List(ctx context.Context, userID, profileID uuid.UUID, limit, offset int) ([]models.Competitor, error) {
	if err := s.ownedProfile(ctx, profileID, userID); err != nil {
		return nil, err
	}
	return s.competitorRepo.ListByProfile(ctx, profileID, limit, offset)
}

func (s *CompetitorService) Get(ctx context.Context, competitorID, userID uuid.UUID) (*models.Competitor, error) {
	competitor, err := s.competitorRepo.GetByID(ctx, competitorID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("competitor not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get competitor: %w", err)
	}
	if err := s.ownedProfile(ctx, competitor.ProfileID, userID); err != nil {
		return nil, fmt.Errorf("competitor not found")
	}
	return competitor, nil
}

func (s *CompetitorService) Delete(ctx context.Context, competitorID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, competitorID, userID); err != nil {
		return err
	}
	return s.competitorRepo.Delete(ctx, competitorID)
}
