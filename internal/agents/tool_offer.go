package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
)

const maxOffersPerRun = 5

// OfferGeneratorTool proposes product or service offers and stores them
// as drafts.
type OfferGeneratorTool struct {
	offerRepo *repositories.OfferRepo
	renderer  *Renderer
}

func NewOfferGeneratorTool(offerRepo *repositories.OfferRepo, renderer *Renderer) *OfferGeneratorTool {
	return &OfferGeneratorTool{offerRepo: offerRepo, renderer: renderer}
}

func (t *OfferGeneratorTool) Name() string  { return "offer_generator" }
func (t *OfferGeneratorTool) Agent() string { return "offer" }
func (t *OfferGeneratorTool) Description() string {
	return "Generates draft product or service offers for the business"
}
func (t *OfferGeneratorTool) CreditCost() int64     { return 3 }
func (t *OfferGeneratorTool) RequiresProfile() bool { return true }

func (t *OfferGeneratorTool) Validate(params map[string]any) error {
	if n := paramInt(params, "count", 3); n < 1 || n > maxOffersPerRun {
		return validationError("count must be between 1 and %d", maxOffersPerRun)
	}
	return nil
}

func (t *OfferGeneratorTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	existing, err := t.offerRepo.List(ctx, repositories.OfferFilter{ProfileID: &in.Profile.ID, Limit: 50})
	if err != nil {
		return "", "", fmt.Errorf("list offers: %w", err)
	}
	names := make([]string, 0, len(existing))
	for _, o := range existing {
		names = append(names, o.Name)
	}

	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"ProfileContext": ProfileContext(in.Profile),
		"Focus":          paramString(in.Params, "focus"),
		"ExistingOffers": strings.Join(names, ", "),
		"Count":          paramInt(in.Params, "count", 3),
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptMarketing, user, nil
}

func (t *OfferGeneratorTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	var parsed struct {
		Offers []struct {
			Name          string `json:"name"`
			Description   string `json:"description"`
			PriceHint     string `json:"price_hint"`
			ProblemSolved string `json:"problem_solved"`
			TargetSegment string `json:"target_segment"`
		} `json:"offers"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Offers) == 0 {
		return nil, fmt.Errorf("model returned no offers")
	}

	var saved []models.Offer
	for _, item := range parsed.Offers {
		if item.Name == "" {
			continue
		}
		o := models.Offer{
			ProfileID:     in.Profile.ID,
			Name:          item.Name,
			Description:   optional(item.Description),
			PriceHint:     optional(item.PriceHint),
			ProblemSolved: optional(item.ProblemSolved),
			TargetSegment: optional(item.TargetSegment),
			Status:        models.OfferStatusDraft,
		}
		if err := t.offerRepo.Create(ctx, &o); err != nil {
			return nil, fmt.Errorf("save offer %q: %w", item.Name, err)
		}
		saved = append(saved, o)
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("model returned no usable offers")
	}
	return map[string]any{"offers": saved}, nil
}
