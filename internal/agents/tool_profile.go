package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/bizcopilot/backend/internal/webscraper"
	"go.uber.org/zap"
)

// ProfileEnrichTool fills the empty fields of a business profile from
// its website plus model knowledge. Hand-entered fields are kept.
type ProfileEnrichTool struct {
	profileRepo *repositories.ProfileRepo
	scraper     *webscraper.Scraper
	renderer    *Renderer
	log         *zap.Logger
}

func NewProfileEnrichTool(profileRepo *repositories.ProfileRepo, scraper *webscraper.Scraper, renderer *Renderer, log *zap.Logger) *ProfileEnrichTool {
	return &ProfileEnrichTool{profileRepo: profileRepo, scraper: scraper, renderer: renderer, log: log}
}

func (t *ProfileEnrichTool) Name() string  { return "profile_enrich" }
func (t *ProfileEnrichTool) Agent() string { return "profile" }
func (t *ProfileEnrichTool) Description() string {
	return "Auto-fills the business profile from its website and model knowledge"
}
func (t *ProfileEnrichTool) CreditCost() int64     { return 2 }
func (t *ProfileEnrichTool) RequiresProfile() bool { return true }

func (t *ProfileEnrichTool) Validate(params map[string]any) error {
	return nil
}

func (t *ProfileEnrichTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	siteCtx := ""
	website := strings.TrimSpace(paramString(in.Params, "website"))
	if website == "" && in.Profile.Website != nil {
		website = *in.Profile.Website
	}
	if website != "" {
		if site, err := t.scraper.Fetch(ctx, website); err == nil {
			siteCtx = site.PromptContext()
		} else {
			t.log.Debug("website scrape failed, enriching from model knowledge only",
				zap.String("website", website), zap.Error(err))
		}
	}

	// With no site content and no description there is nothing to enrich from.
	if siteCtx == "" && (in.Profile.Description == nil || *in.Profile.Description == "") {
		return "", "", validationError("profile has no website to scrape and no description")
	}

	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"ProfileContext": ProfileContext(in.Profile),
		"SiteContext":    siteCtx,
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptAnalyst, user, nil
}

func (t *ProfileEnrichTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	var parsed struct {
		Industry            string   `json:"industry"`
		Description         string   `json:"description"`
		TargetAudience      string   `json:"target_audience"`
		ToneOfVoice         string   `json:"tone_of_voice"`
		UniqueSellingPoints []string `json:"unique_selling_points"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}

	p := in.Profile
	// Only fill what the user has not set themselves.
	if p.Industry == nil || *p.Industry == "" {
		p.Industry = optional(parsed.Industry)
	}
	if p.Description == nil || *p.Description == "" {
		p.Description = optional(parsed.Description)
	}
	if p.TargetAudience == nil || *p.TargetAudience == "" {
		p.TargetAudience = optional(parsed.TargetAudience)
	}
	if p.ToneOfVoice == nil || *p.ToneOfVoice == "" {
		p.ToneOfVoice = optional(parsed.ToneOfVoice)
	}
	if len(p.UniqueSellingPoints) == 0 {
		p.UniqueSellingPoints = parsed.UniqueSellingPoints
	}

	if err := t.profileRepo.MarkEnriched(ctx, p); err != nil {
		return nil, fmt.Errorf("save enriched profile: %w", err)
	}
	return map[string]any{"profile": p}, nil
}
