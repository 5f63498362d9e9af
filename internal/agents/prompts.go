package agents

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/bizcopilot/backend/internal/models"
	"go.uber.org/zap"
)

// TemplateSource returns a stored prompt override for a key, or nil when
// the compiled-in default should be used.
type TemplateSource interface {
	GetActive(ctx context.Context, key string) (*models.PromptTemplate, error)
}

// Renderer renders prompt templates, preferring stored overrides over
// the compiled-in defaults.
type Renderer struct {
	source   TemplateSource
	log      *zap.Logger
	defaults map[string]*template.Template
}

func NewRenderer(source TemplateSource, log *zap.Logger) *Renderer {
	defaults := make(map[string]*template.Template, len(defaultPrompts))
	for key, body := range defaultPrompts {
		defaults[key] = template.Must(template.New(key).Parse(body))
	}
	return &Renderer{source: source, log: log, defaults: defaults}
}

func (r *Renderer) Render(ctx context.Context, key string, data any) (string, error) {
	if r.source != nil {
		stored, err := r.source.GetActive(ctx, key)
		if err != nil {
			// A broken template store should not take agents down.
			r.log.Warn("prompt template lookup failed, using default", zap.String("key", key), zap.Error(err))
		} else if stored != nil {
			tmpl, err := template.New(key).Parse(stored.Body)
			if err != nil {
				r.log.Warn("stored prompt template does not parse, using default",
					zap.String("key", key), zap.Int("version", stored.Version), zap.Error(err))
			} else {
				return execute(tmpl, data)
			}
		}
	}

	tmpl, ok := r.defaults[key]
	if !ok {
		return "", fmt.Errorf("no prompt template for key %q", key)
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ProfileContext renders a business profile as a prompt block. Empty
// fields are omitted.
func ProfileContext(p *models.BusinessProfile) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business name: %s\n", p.Name)
	if p.Website != nil && *p.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", *p.Website)
	}
	if p.Industry != nil && *p.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", *p.Industry)
	}
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", *p.Description)
	}
	if p.TargetAudience != nil && *p.TargetAudience != "" {
		fmt.Fprintf(&sb, "Target audience: %s\n", *p.TargetAudience)
	}
	if p.ToneOfVoice != nil && *p.ToneOfVoice != "" {
		fmt.Fprintf(&sb, "Tone of voice: %s\n", *p.ToneOfVoice)
	}
	if len(p.UniqueSellingPoints) > 0 {
		fmt.Fprintf(&sb, "Unique selling points: %s\n", strings.Join(p.UniqueSellingPoints, "; "))
	}
	return sb.String()
}

// System prompts are fixed per agent; only user prompts are templated.
const (
	systemPromptMarketing = "You are a marketing strategist for small businesses. " +
		"Answer ONLY with the JSON structure requested, no prose before or after."
	systemPromptWriter = "You are a professional copywriter. " +
		"Answer ONLY with the JSON structure requested, no prose before or after."
	systemPromptAnalyst = "You are a business analyst. " +
		"Answer ONLY with the JSON structure requested, no prose before or after."
)

var defaultPrompts = map[string]string{
	"competitor_research": `Research the competitive landscape for this business:

{{.ProfileContext}}
{{- if .Focus}}
Focus on: {{.Focus}}
{{- end}}
{{- if .KnownCompetitors}}
Already known competitors (do not repeat them): {{.KnownCompetitors}}
{{- end}}
{{- if .CompetitorSites}}
Scraped competitor sites:
{{.CompetitorSites}}
{{- end}}

List up to {{.Count}} likely competitors. Respond with JSON:
{"competitors": [{"name": "...", "website": "...", "summary": "...", "strengths": ["..."], "weaknesses": ["..."], "differentiators": "how this business can stand out against them"}]}`,

	"offer_generator": `Design product or service offers for this business:

{{.ProfileContext}}
{{- if .Focus}}
Focus on: {{.Focus}}
{{- end}}
{{- if .ExistingOffers}}
Existing offers (propose different ones): {{.ExistingOffers}}
{{- end}}

Propose {{.Count}} offers. Respond with JSON:
{"offers": [{"name": "...", "description": "...", "price_hint": "e.g. $49/month", "problem_solved": "...", "target_segment": "..."}]}`,

	"ad_copy": `Write ad copy for this business:

{{.ProfileContext}}

Promoting:
{{.SubjectContext}}

Platform: {{.Platform}}
Format: {{.Format}}
Write {{.Variants}} distinct variants. Respond with JSON:
{"ads": [{"headline": "...", "primary_text": "...", "call_to_action": "..."}]}`,

	"campaign_strategy": `Plan a marketing campaign for this business:

{{.ProfileContext}}
{{- if .OfferContext}}
The campaign promotes this offer:
{{.OfferContext}}
{{- end}}

Objective: {{.Objective}}
{{- if .BudgetHint}}
Budget: {{.BudgetHint}}
{{- end}}
{{- if .Channels}}
Preferred channels: {{.Channels}}
{{- end}}

Respond with JSON:
{"title": "...", "objective": "...", "channels": ["..."], "budget_hint": "...", "timeline": "e.g. 6 weeks", "steps": [{"order": 1, "title": "...", "description": "...", "channel": "...", "timeline": "..."}]}`,

	"style_analyze": `Analyze the writing style of this text sample:

---
{{.Sample}}
---

Respond with JSON:
{"tone": "...", "vocabulary": "characteristic word choices", "sentence_structure": "typical sentence patterns"}`,

	"content_write": `Write content for this business:

{{.ProfileContext}}
{{- if .StyleContext}}
Match this writing style:
{{.StyleContext}}
{{- end}}

Content type: {{.ScriptType}}
Topic: {{.Topic}}
{{- if .LengthHint}}
Length: {{.LengthHint}}
{{- end}}

Respond with JSON:
{"title": "...", "content": "the full text"}`,

	"profile_enrich": `Fill in the missing details of this business profile:

{{.ProfileContext}}
{{- if .SiteContext}}
Scraped from their website:
{{.SiteContext}}
{{- end}}

Respond with JSON:
{"industry": "...", "description": "2-3 sentences", "target_audience": "...", "tone_of_voice": "...", "unique_selling_points": ["..."]}`,
}
