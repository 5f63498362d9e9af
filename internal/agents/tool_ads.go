package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxAdVariants = 5

// AdCopyTool writes ad variants for an offer or a campaign. Exactly one
// of offer_id / campaign_id must be given.
type AdCopyTool struct {
	adRepo       *repositories.AdRepo
	offerRepo    *repositories.OfferRepo
	campaignRepo *repositories.CampaignRepo
	renderer     *Renderer
}

func NewAdCopyTool(adRepo *repositories.AdRepo, offerRepo *repositories.OfferRepo, campaignRepo *repositories.CampaignRepo, renderer *Renderer) *AdCopyTool {
	return &AdCopyTool{adRepo: adRepo, offerRepo: offerRepo, campaignRepo: campaignRepo, renderer: renderer}
}

func (t *AdCopyTool) Name() string  { return "ad_copy" }
func (t *AdCopyTool) Agent() string { return "ads" }
func (t *AdCopyTool) Description() string {
	return "Writes platform-specific ad copy variants for an offer or campaign"
}
func (t *AdCopyTool) CreditCost() int64     { return 2 }
func (t *AdCopyTool) RequiresProfile() bool { return true }

func (t *AdCopyTool) Validate(params map[string]any) error {
	platform := paramString(params, "platform")
	if !models.IsValidAdPlatform(platform) {
		return validationError("platform must be one of facebook, instagram, google, tiktok, linkedin")
	}
	format := paramString(params, "format")
	if !models.IsValidAdFormat(format) {
		return validationError("format must be one of headline, primary_text, full")
	}
	offerID, err := paramUUID(params, "offer_id")
	if err != nil {
		return err
	}
	campaignID, err := paramUUID(params, "campaign_id")
	if err != nil {
		return err
	}
	if (offerID != nil) == (campaignID != nil) {
		return validationError("exactly one of offer_id or campaign_id is required")
	}
	if n := paramInt(params, "variants", 3); n < 1 || n > maxAdVariants {
		return validationError("variants must be between 1 and %d", maxAdVariants)
	}
	return nil
}

// subject loads the offer or campaign the ads promote, verifying it
// belongs to the run's profile.
func (t *AdCopyTool) subject(ctx context.Context, in RunInput) (offerID, campaignID *uuid.UUID, subjectCtx string, err error) {
	offerID, _ = paramUUID(in.Params, "offer_id")
	campaignID, _ = paramUUID(in.Params, "campaign_id")

	if offerID != nil {
		offer, err := t.offerRepo.GetByID(ctx, *offerID)
		if err == pgx.ErrNoRows {
			return nil, nil, "", validationError("offer not found")
		}
		if err != nil {
			return nil, nil, "", fmt.Errorf("get offer: %w", err)
		}
		if offer.ProfileID != in.Profile.ID {
			return nil, nil, "", validationError("offer not found")
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Offer: %s\n", offer.Name)
		if offer.Description != nil {
			fmt.Fprintf(&sb, "Description: %s\n", *offer.Description)
		}
		if offer.PriceHint != nil {
			fmt.Fprintf(&sb, "Price: %s\n", *offer.PriceHint)
		}
		if offer.ProblemSolved != nil {
			fmt.Fprintf(&sb, "Problem solved: %s\n", *offer.ProblemSolved)
		}
		if offer.TargetSegment != nil {
			fmt.Fprintf(&sb, "Target segment: %s\n", *offer.TargetSegment)
		}
		return offerID, nil, sb.String(), nil
	}

	campaign, err := t.campaignRepo.GetByID(ctx, *campaignID)
	if err == pgx.ErrNoRows {
		return nil, nil, "", validationError("campaign not found")
	}
	if err != nil {
		return nil, nil, "", fmt.Errorf("get campaign: %w", err)
	}
	if campaign.ProfileID != in.Profile.ID {
		return nil, nil, "", validationError("campaign not found")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Campaign: %s\n", campaign.Title)
	fmt.Fprintf(&sb, "Objective: %s\n", campaign.Objective)
	if len(campaign.Channels) > 0 {
		fmt.Fprintf(&sb, "Channels: %s\n", strings.Join(campaign.Channels, ", "))
	}
	return nil, campaignID, sb.String(), nil
}

func (t *AdCopyTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	_, _, subjectCtx, err := t.subject(ctx, in)
	if err != nil {
		return "", "", err
	}

	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"ProfileContext": ProfileContext(in.Profile),
		"SubjectContext": subjectCtx,
		"Platform":       paramString(in.Params, "platform"),
		"Format":         paramString(in.Params, "format"),
		"Variants":       paramInt(in.Params, "variants", 3),
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptWriter, user, nil
}

func (t *AdCopyTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	var parsed struct {
		Ads []struct {
			Headline     string `json:"headline"`
			PrimaryText  string `json:"primary_text"`
			CallToAction string `json:"call_to_action"`
		} `json:"ads"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Ads) == 0 {
		return nil, fmt.Errorf("model returned no ads")
	}

	offerID, campaignID, _, err := t.subject(ctx, in)
	if err != nil {
		return nil, err
	}

	// Variant numbering continues from what already exists for the parent.
	base, err := t.adRepo.MaxVariant(ctx, offerID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("max variant: %w", err)
	}

	platform := paramString(in.Params, "platform")
	format := paramString(in.Params, "format")

	var saved []models.Ad
	for i, item := range parsed.Ads {
		if item.Headline == "" && item.PrimaryText == "" {
			continue
		}
		ad := models.Ad{
			OfferID:      offerID,
			CampaignID:   campaignID,
			Platform:     platform,
			Format:       format,
			Headline:     optional(item.Headline),
			Body:         optional(item.PrimaryText),
			CallToAction: optional(item.CallToAction),
			Variant:      base + i + 1,
		}
		if err := t.adRepo.Create(ctx, &ad); err != nil {
			return nil, fmt.Errorf("save ad variant %d: %w", ad.Variant, err)
		}
		saved = append(saved, ad)
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("model returned no usable ads")
	}
	return map[string]any{"ads": saved}, nil
}
