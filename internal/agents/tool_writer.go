package agents

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
)

const (
	maxStyleSamples   = 5
	minStyleSampleLen = 200
	maxStyleSampleLen = 10000
	sampleExcerptLen  = 500
)

// styleSamples collects the writing samples from params. A single
// "sample" string is accepted as shorthand for a one-element list.
func styleSamples(params map[string]any) []string {
	samples := paramStringSlice(params, "samples")
	if len(samples) == 0 {
		if s := strings.TrimSpace(paramString(params, "sample")); s != "" {
			samples = []string{s}
		}
	}
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// truncateUTF8 caps s at max bytes without splitting a multi-byte rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// StyleAnalyzeTool extracts a reusable writing style from a text sample.
type StyleAnalyzeTool struct {
	styleRepo *repositories.StyleRepo
	renderer  *Renderer
}

func NewStyleAnalyzeTool(styleRepo *repositories.StyleRepo, renderer *Renderer) *StyleAnalyzeTool {
	return &StyleAnalyzeTool{styleRepo: styleRepo, renderer: renderer}
}

func (t *StyleAnalyzeTool) Name() string  { return "style_analyze" }
func (t *StyleAnalyzeTool) Agent() string { return "writer" }
func (t *StyleAnalyzeTool) Description() string {
	return "Analyzes a writing sample and saves it as a reusable style"
}
func (t *StyleAnalyzeTool) CreditCost() int64     { return 2 }
func (t *StyleAnalyzeTool) RequiresProfile() bool { return false }

func (t *StyleAnalyzeTool) Validate(params map[string]any) error {
	samples := styleSamples(params)
	if len(samples) == 0 {
		return validationError("at least one sample is required")
	}
	if len(samples) > maxStyleSamples {
		return validationError("at most %d samples are allowed", maxStyleSamples)
	}
	total := 0
	for _, s := range samples {
		if len(s) > maxStyleSampleLen {
			return validationError("each sample must be at most %d characters", maxStyleSampleLen)
		}
		total += len(s)
	}
	if total < minStyleSampleLen {
		return validationError("samples must total at least %d characters", minStyleSampleLen)
	}
	return nil
}

func (t *StyleAnalyzeTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"Sample": strings.Join(styleSamples(in.Params), "\n---\n"),
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptAnalyst, user, nil
}

func (t *StyleAnalyzeTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	var parsed struct {
		Tone              string `json:"tone"`
		Vocabulary        string `json:"vocabulary"`
		SentenceStructure string `json:"sentence_structure"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Tone == "" {
		return nil, fmt.Errorf("model returned no style analysis")
	}

	excerpt := truncateUTF8(styleSamples(in.Params)[0], sampleExcerptLen)

	name := strings.TrimSpace(paramString(in.Params, "name"))
	if name == "" {
		name = "My style"
	}

	// The first saved style becomes the default.
	existing, err := t.styleRepo.ListByUser(ctx, in.User.ID)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}

	style := models.UserStyle{
		UserID:            in.User.ID,
		Name:              name,
		Tone:              optional(parsed.Tone),
		Vocabulary:        optional(parsed.Vocabulary),
		SentenceStructure: optional(parsed.SentenceStructure),
		SampleExcerpt:     optional(excerpt),
		IsDefault:         len(existing) == 0,
	}
	if err := t.styleRepo.Create(ctx, &style); err != nil {
		return nil, fmt.Errorf("save style: %w", err)
	}
	return map[string]any{"style": style}, nil
}

// ContentWriteTool writes a piece of content in the user's saved style.
type ContentWriteTool struct {
	scriptRepo *repositories.ScriptRepo
	styleRepo  *repositories.StyleRepo
	renderer   *Renderer
}

func NewContentWriteTool(scriptRepo *repositories.ScriptRepo, styleRepo *repositories.StyleRepo, renderer *Renderer) *ContentWriteTool {
	return &ContentWriteTool{scriptRepo: scriptRepo, styleRepo: styleRepo, renderer: renderer}
}

func (t *ContentWriteTool) Name() string  { return "content_write" }
func (t *ContentWriteTool) Agent() string { return "writer" }
func (t *ContentWriteTool) Description() string {
	return "Writes blog, email, social or video content in the user's style"
}
func (t *ContentWriteTool) CreditCost() int64     { return 4 }
func (t *ContentWriteTool) RequiresProfile() bool { return true }

func (t *ContentWriteTool) Validate(params map[string]any) error {
	if !models.IsValidScriptType(paramString(params, "script_type")) {
		return validationError("script_type must be one of blog, email, social_post, video")
	}
	if strings.TrimSpace(paramString(params, "topic")) == "" {
		return validationError("topic is required")
	}
	if _, err := paramUUID(params, "style_id"); err != nil {
		return err
	}
	return nil
}

// style resolves the explicit style_id, falling back to the user's
// default style. A nil return means "no style".
func (t *ContentWriteTool) style(ctx context.Context, in RunInput) (*models.UserStyle, error) {
	styleID, _ := paramUUID(in.Params, "style_id")
	if styleID == nil {
		return t.styleRepo.GetDefault(ctx, in.User.ID)
	}
	style, err := t.styleRepo.GetByID(ctx, *styleID)
	if err == pgx.ErrNoRows {
		return nil, validationError("style not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get style: %w", err)
	}
	if style.UserID != in.User.ID {
		return nil, validationError("style not found")
	}
	return style, nil
}

func styleContext(s *models.UserStyle) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	if s.Tone != nil {
		fmt.Fprintf(&sb, "Tone: %s\n", *s.Tone)
	}
	if s.Vocabulary != nil {
		fmt.Fprintf(&sb, "Vocabulary: %s\n", *s.Vocabulary)
	}
	if s.SentenceStructure != nil {
		fmt.Fprintf(&sb, "Sentence structure: %s\n", *s.SentenceStructure)
	}
	if s.SampleExcerpt != nil {
		fmt.Fprintf(&sb, "Sample: %s\n", *s.SampleExcerpt)
	}
	return sb.String()
}

func (t *ContentWriteTool) BuildPrompt(ctx context.Context, in RunInput) (string, string, error) {
	style, err := t.style(ctx, in)
	if err != nil {
		return "", "", err
	}

	user, err := t.renderer.Render(ctx, t.Name(), map[string]any{
		"ProfileContext": ProfileContext(in.Profile),
		"StyleContext":   styleContext(style),
		"ScriptType":     paramString(in.Params, "script_type"),
		"Topic":          paramString(in.Params, "topic"),
		"LengthHint":     paramString(in.Params, "length_hint"),
	})
	if err != nil {
		return "", "", err
	}
	return systemPromptWriter, user, nil
}

func (t *ContentWriteTool) HandleResult(ctx context.Context, in RunInput, raw string) (any, error) {
	var parsed struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := ExtractObject(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Content == "" {
		return nil, fmt.Errorf("model returned no content")
	}
	if parsed.Title == "" {
		parsed.Title = paramString(in.Params, "topic")
	}

	style, err := t.style(ctx, in)
	if err != nil {
		return nil, err
	}

	script := models.Script{
		ProfileID:  in.Profile.ID,
		Title:      parsed.Title,
		ScriptType: paramString(in.Params, "script_type"),
		Content:    parsed.Content,
	}
	if style != nil {
		script.StyleID = &style.ID
	}
	if err := t.scriptRepo.Create(ctx, &script); err != nil {
		return nil, fmt.Errorf("save script: %w", err)
	}
	return map[string]any{"script": script}, nil
}
