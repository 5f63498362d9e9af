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

type AdService struct {
	adRepo       *repositories.AdRepo
	offerRepo    *repositories.OfferRepo
	campaignRepo *repositories.CampaignRepo
	profileRepo  *repositories.ProfileRepo
	log          *zap.Logger
}

func NewAdService(adRepo *repositories.AdRepo, offerRepo *repositories.OfferRepo, campaignRepo *repositories.CampaignRepo, profileRepo *repositories.ProfileRepo, log *zap.Logger) *AdService {
	return &AdService{adRepo: adRepo, offerRepo: offerRepo, campaignRepo: campaignRepo, profileRepo: profileRepo, log: log}
}

// ownsParent verifies the offer or campaign behind an ad belongs to the
// user.
func (s *AdService) ownsParent(ctx context.Context, ad *models.Ad, userID uuid.UUID) error {
	var profileID uuid.UUID
	switch {
	case ad.OfferID != nil:
		offer, err := s.offerRepo.GetByID(ctx, *ad.OfferID)
		if err != nil {
			return fmt.Errorf("ad not found")
		}
		profileID = offer.ProfileID
	case ad.CampaignID != nil:
		campaign, err := s.campaignRepo.GetByID(ctx, *ad.CampaignID)
		if err != nil {
			return fmt.Errorf("ad not found")
		}
		profileID = campaign.ProfileID
	default:
		return fmt.Errorf("ad not found")
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil || profile.UserID != userID {
		return fmt.Errorf("ad not found")
	}
	return nil
}

func (s *AdService) Get(ctx context.Context, adID, userID uuid.UUID) (*models.Ad, error) {
	ad, err := s.adRepo.GetByID(ctx, adID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("ad not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.ownsParent(ctx, ad, userID); err != nil {
		return nil, err
	}
	return ad, nil
}

// ListByOffer returns the ad variants generated for an offer.
func (s *AdService) ListByOffer(ctx context.Context, offerID, userID uuid.UUID) ([]models.Ad, error) {
	probe := &models.Ad{OfferID: &offerID}
	if err := s.ownsParent(ctx, probe, userID); err != nil {
		return nil, fmt.Errorf("offer not found")
	}
	return s.adRepo.List(ctx, repositories.AdFilter{OfferID: &offerID})
}

func (s *AdService) ListByCampaign(ctx context.Context, campaignID, userID uuid.UUID) ([]models.Ad, error) {
	probe := &models.Ad{CampaignID: &campaignID}
	if err := s.ownsParent(ctx, probe, userID); err != nil {
		return nil, fmt.Errorf("campaign not found")
	}
	return s.adRepo.List(ctx, repositories.AdFilter{CampaignID: &campaignID})
}

type UpdateAdInput struct {
	Headline     *string
	Body         *string
	CallToAction *string
}

func (s *AdService) Update(ctx context.Context, adID, userID uuid.UUID, input UpdateAdInput) (*models.Ad, error) {
	ad, err := s.Get(ctx, adID, userID)
	if err != nil {
		return nil, err
	}
	if input.Headline != nil {
		ad.Headline = input.Headline
	}
	if input.Body != nil {
		ad.Body = input.Body
	}
	if input.CallToAction != nil {
		ad.CallToAction = input.CallToAction
	}
	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) Delete(ctx context.Context, adID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, adID, userID); err != nil {
		return err
	}
	return s.adRepo.Delete(ctx, adID)
}
