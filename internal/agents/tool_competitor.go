package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/bizcopilot/backend/internal/webscraper"
	"go.uber.org/zap"
)

const maxCompetitors = 10

// CompetitorResearchTool finds likely competitors for a business and
// stores them as competitor records.
type CompetitorResearchTool struct {
	competitorRepo *repositories.CompetitorRepo
	renderer       *Renderer
	scraper        *webscraper.Scraper
	log            *zap.Logger
}

func NewCompetitorResearchTool(competitorRepo *repositories.CompetitorRepo, renderer *Renderer, scraper *webscraper.Scraper, log *zap.Logger) *CompetitorResearchTool {
	return &CompetitorResearchTool{competitorRepo: competitorRepo, renderer: renderer, scraper: scraper, log: log}
}

func (t *CompetitorResearchTool) Name() string  { return "competitor_research" }
func (t *CompetitorResearchTool) Agent() string { return "competitor" }
func (t *CompetitorResearchTool) Description() string {
	return "Researches likely competitors and how to differentiate against them"
}
func (t *CompetitorResearchTool) CreditCost() int64     { return 5 }
func (t *CompetitorResearchTool) RequiresProfile() bool { return true }

func (t *CompetitorResearchTool) Validate(params map[string]any) error {
	if n := paramInt(params, "count", 5); n < 1 || n > maxCompetitors {
		return validationError("count must be between 1 and %d", maxCompetitors)
	}
	if urls := paramStringSlice(params, "competitor_urls"); len(urls) > maxCompetitors {
		return validationError("competitor_urls must have at most %d entries", maxCompetitors)
	}
	return nil
}

func (t *CompetitorResearchTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	known, err := t.competitorRepo.ListByProfile(ctx, in.Profile.ID, 50, 0)
	if err != nil {
		return "", "", fmt.Errorf("list competitors: %w", err)
	}
	names := make([]string, 0, len(known))
	for _, c := range known {
		names = append(names, c.Name)
	}

	profileCtx := ProfileContext(in.Profile)
	// A fresh website scrape gives the model something concrete to work from.
	if in.Profile.Website != nil && *in.Profile.Website != "" {
		if site, err := t.scraper.Fetch(ctx, *in.Profile.Website); err == nil {
			profileCtx += "\nTheir website says:\n" + site.PromptContext()
		} else {
			t.log.Debug("website scrape failed, continuing without it",
				zap.String("website", *in.Profile.Website), zap.Error(err))
		}
	}

	// Caller-supplied competitor sites are scraped into the prompt too.
	var sites strings.Builder
	for _, rawURL := range paramStringSlice(in.Params, "competitor_urls") {
		site, err := t.scraper.Fetch(ctx, rawURL)
		if err != nil {
			t.log.Debug("competitor site scrape failed, skipping",
				zap.String("url", rawURL), zap.Error(err))
			continue
		}
		fmt.Fprintf(&sites, "Site %s:\n%s\n", rawURL, site.PromptContext())
	}

	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"ProfileContext":   profileCtx,
		"Focus":            paramString(in.Params, "focus"),
		"KnownCompetitors": strings.Join(names, ", "),
		"CompetitorSites":  sites.String(),
		"Count":            paramInt(in.Params, "count", 5),
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptAnalyst, user, nil
}

type competitorItem struct {
	Name            string   `json:"name"`
	Website         string   `json:"website"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Differentiators string   `json:"differentiators"`
}

// parseCompetitorItems accepts the documented {"competitors": [...]}
// envelope, or a bare top-level array when the model drops the wrapper.
func parseCompetitorItems(raw string) ([]competitorItem, error) {
	if body := strings.TrimSpace(stripFences(raw)); strings.HasPrefix(body, "[") {
		var items []competitorItem
		if err := ExtractArray(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var parsed struct {
		Competitors []competitorItem `json:"competitors"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}
	return parsed.Competitors, nil
}

func (t *CompetitorResearchTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	items, err := parseCompetitorItems(raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("model returned no competitors")
	}

	var saved []models.Competitor
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		c := models.Competitor{
			ProfileID:       in.Profile.ID,
			Name:            item.Name,
			Website:         optional(item.Website),
			Summary:         optional(item.Summary),
			Strengths:       optional(strings.Join(item.Strengths, "; ")),
			Weaknesses:      optional(strings.Join(item.Weaknesses, "; ")),
			Differentiators: optional(item.Differentiators),
			Source:          models.CompetitorSourceLLM,
		}
		if err := t.competitorRepo.Upsert(ctx, &c); err != nil {
			return nil, fmt.Errorf("save competitor %q: %w", item.Name, err)
		}
		saved = append(saved, c)
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("model returned no usable competitors")
	}
	return map[string]any{"competitors": saved}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
