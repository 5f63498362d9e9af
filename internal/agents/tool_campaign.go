package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CampaignStrategyTool plans a multi-step marketing campaign and stores
// it as a draft.
type CampaignStrategyTool struct {
	campaignRepo *repositories.CampaignRepo
	offerRepo    *repositories.OfferRepo
	renderer     *Renderer
}

func NewCampaignStrategyTool(campaignRepo *repositories.CampaignRepo, offerRepo *repositories.OfferRepo, renderer *Renderer) *CampaignStrategyTool {
	return &CampaignStrategyTool{campaignRepo: campaignRepo, offerRepo: offerRepo, renderer: renderer}
}

func (t *CampaignStrategyTool) Name() string  { return "campaign_strategy" }
func (t *CampaignStrategyTool) Agent() string { return "campaign" }
func (t *CampaignStrategyTool) Description() string {
	return "Plans a step-by-step marketing campaign toward a stated objective"
}
func (t *CampaignStrategyTool) CreditCost() int64     { return 8 }
func (t *CampaignStrategyTool) RequiresProfile() bool { return true }

func (t *CampaignStrategyTool) Validate(params map[string]any) error {
	if strings.TrimSpace(paramString(params, "objective")) == "" {
		return validationError("objective is required")
	}
	if _, err := paramUUID(params, "offer_id"); err != nil {
		return err
	}
	return nil
}

func (t *CampaignStrategyTool) offerContext(ctx context.Context, in RunInput) (*uuid.UUID, string, error) {
	offerID, _ := paramUUID(in.Params, "offer_id")
	if offerID == nil {
		return nil, "", nil
	}
	offer, err := t.offerRepo.GetByID(ctx, *offerID)
	if err == pgx.ErrNoRows {
		return nil, "", validationError("offer not found")
	}
	if err != nil {
		return nil, "", fmt.Errorf("get offer: %w", err)
	}
	if offer.ProfileID != in.Profile.ID {
		return nil, "", validationError("offer not found")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Offer: %s\n", offer.Name)
	if offer.Description != nil {
		fmt.Fprintf(&sb, "Description: %s\n", *offer.Description)
	}
	if offer.PriceHint != nil {
		fmt.Fprintf(&sb, "Price: %s\n", *offer.PriceHint)
	}
	return offerID, sb.String(), nil
}

func (t *CampaignStrategyTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	_, offerCtx, err := t.offerContext(ctx, in)
	if err != nil {
		return "", "", err
	}

	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"ProfileContext": ProfileContext(in.Profile),
		"OfferContext":   offerCtx,
		"Objective":      paramString(in.Params, "objective"),
		"BudgetHint":     paramString(in.Params, "budget_hint"),
		"Channels":       strings.Join(paramStringSlice(in.Params, "channels"), ", "),
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptMarketing, user, nil
}

func (t *CampaignStrategyTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	var parsed struct {
		Title      string                `json:"title"`
		Objective  string                `json:"objective"`
		Channels   []string              `json:"channels"`
		BudgetHint string                `json:"budget_hint"`
		Timeline   string                `json:"timeline"`
		Steps      []models.CampaignStep `json:"steps"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Title == "" || len(parsed.Steps) == 0 {
		return nil, fmt.Errorf("model returned an incomplete campaign plan")
	}

	sort.Slice(parsed.Steps, func(i, j int) bool { return parsed.Steps[i].Order < parsed.Steps[j].Order })

	offerID, _, err := t.offerContext(ctx, in)
	if err != nil {
		return nil, err
	}

	objective := parsed.Objective
	if objective == "" {
		objective = paramString(in.Params, "objective")
	}

	c := models.Campaign{
		ProfileID:  in.Profile.ID,
		OfferID:    offerID,
		Title:      parsed.Title,
		Objective:  objective,
		Channels:   parsed.Channels,
		BudgetHint: optional(parsed.BudgetHint),
		Timeline:   optional(parsed.Timeline),
		Strategy:   parsed.Steps,
		Status:     models.CampaignStatusDraft,
	}
	if err := t.campaignRepo.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("save campaign: %w", err)
	}
	return map[string]any{"campaign": c}, nil
}
