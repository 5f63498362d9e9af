package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestAdCopyValidate(t *testing.T) {
	tool := &AdCopyTool{}
	offerID := uuid.New().String()
	campaignID := uuid.New().String()

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{
			name:   "valid with offer",
			params: map[string]any{"platform": "facebook", "format": "full", "offer_id": offerID},
		},
		{
			name:   "valid with campaign",
			params: map[string]any{"platform": "google", "format": "headline", "campaign_id": campaignID},
		},
		{
			name:    "both parents",
			params:  map[string]any{"platform": "facebook", "format": "full", "offer_id": offerID, "campaign_id": campaignID},
			wantErr: true,
		},
		{
			name:    "no parent",
			params:  map[string]any{"platform": "facebook", "format": "full"},
			wantErr: true,
		},
		{
			name:    "bad platform",
			params:  map[string]any{"platform": "myspace", "format": "full", "offer_id": offerID},
			wantErr: true,
		},
		{
			name:    "bad format",
			params:  map[string]any{"platform": "facebook", "format": "jingle", "offer_id": offerID},
			wantErr: true,
		},
		{
			name:    "bad uuid",
			params:  map[string]any{"platform": "facebook", "format": "full", "offer_id": "not-a-uuid"},
			wantErr: true,
		},
		{
			name:    "too many variants",
			params:  map[string]any{"platform": "facebook", "format": "full", "offer_id": offerID, "variants": float64(10)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tool.Validate(tt.params)
			if tt.wantErr {
				if err == nil {
					t.Error("expected validation error")
				} else if !errors.Is(err, ErrValidation) {
					t.Errorf("error should wrap ErrValidation: %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStyleAnalyzeValidate(t *testing.T) {
	tool := &StyleAnalyzeTool{}

	if err := tool.Validate(map[string]any{"sample": "too short"}); err == nil {
		t.Error("short sample should fail")
	}
	if err := tool.Validate(map[string]any{"sample": strings.Repeat("word ", 60)}); err != nil {
		t.Errorf("valid sample rejected: %v", err)
	}
	if err := tool.Validate(map[string]any{"sample": strings.Repeat("x", maxStyleSampleLen+1)}); err == nil {
		t.Error("oversized sample should fail")
	}

	long := strings.Repeat("word ", 60)
	if err := tool.Validate(map[string]any{"samples": []any{long, long}}); err != nil {
		t.Errorf("valid samples list rejected: %v", err)
	}
	if err := tool.Validate(map[string]any{"samples": []any{long, long, long, long, long, long}}); err == nil {
		t.Error("more than five samples should fail")
	}
	if err := tool.Validate(map[string]any{"samples": []any{}}); err == nil {
		t.Error("empty samples should fail")
	}
}

func TestParseCompetitorItems(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"envelope", `{"competitors": [{"name": "Acme"}, {"name": "Globex"}]}`, 2, false},
		{"bare array", `[{"name": "Acme"}, {"name": "Globex"}]`, 2, false},
		{"fenced bare array", "```json\n[{\"name\": \"Acme\"}]\n```", 1, false},
		{"prose around envelope", `Here you go: {"competitors": [{"name": "Acme"}]}`, 1, false},
		{"no JSON at all", "sorry, I cannot help with that", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parseCompetitorItems(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", items)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("got %d items, want %d", len(items), tt.want)
			}
		})
	}
}

func TestTruncateUTF8KeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
	}{
		{"ascii", strings.Repeat("a", 600), 500},
		{"cjk", strings.Repeat("日", 300), 500},
		{"cyrillic", strings.Repeat("ж", 400), 501},
		{"shorter than cap", "short", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateUTF8(tt.in, tt.max)
			if len(got) > tt.max {
				t.Errorf("len = %d, want <= %d", len(got), tt.max)
			}
			if !utf8.ValidString(got) {
				t.Error("result is not valid UTF-8")
			}
			if !strings.HasPrefix(tt.in, got) {
				t.Error("result is not a prefix of the input")
			}
		})
	}
}

func TestContentWriteValidate(t *testing.T) {
	tool := &ContentWriteTool{}

	if err := tool.Validate(map[string]any{"script_type": "blog", "topic": "launch post"}); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	if err := tool.Validate(map[string]any{"script_type": "podcast", "topic": "x"}); err == nil {
		t.Error("bad script_type should fail")
	}
	if err := tool.Validate(map[string]any{"script_type": "blog", "topic": "  "}); err == nil {
		t.Error("empty topic should fail")
	}
}

func TestCampaignStrategyValidate(t *testing.T) {
	tool := &CampaignStrategyTool{}

	if err := tool.Validate(map[string]any{"objective": "get 100 signups"}); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	if err := tool.Validate(map[string]any{}); err == nil {
		t.Error("missing objective should fail")
	}
}

func TestRendererDefaults(t *testing.T) {
	r := NewRenderer(nil, zap.NewNop())

	profile := &models.BusinessProfile{Name: "Acme"}
	out, err := r.Render(context.Background(), "offer_generator", map[string]any{
		"ProfileContext": ProfileContext(profile),
		"Focus":          "",
		"ExistingOffers": "",
		"Count":          3,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Business name: Acme") {
		t.Errorf("rendered prompt missing profile context: %q", out)
	}
	if !strings.Contains(out, "Propose 3 offers") {
		t.Errorf("rendered prompt missing count: %q", out)
	}
	if strings.Contains(out, "Focus on:") {
		t.Errorf("empty focus should be omitted: %q", out)
	}

	if _, err := r.Render(context.Background(), "no_such_key", nil); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&StyleAnalyzeTool{})
	reg.Register(&AdCopyTool{})
	reg.Register(&ContentWriteTool{})

	infos := reg.List()
	if len(infos) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name > infos[i].Name {
			t.Errorf("tools not sorted: %s before %s", infos[i-1].Name, infos[i].Name)
		}
	}
	if _, ok := reg.Get("ad_copy"); !ok {
		t.Error("ad_copy not found in registry")
	}
}
