package agents

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
)

// ErrValidation marks bad input params. Handlers map it to 400.
var ErrValidation = errors.New("validation error")

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RunInput is everything a tool needs for one run. Profile is nil for
// tools that do not require one.
type RunInput struct {
	User    *models.User
	Profile *models.BusinessProfile
	Params  map[string]any
}

// Tool is a single agent capability: it validates its params, builds the
// prompt, and turns the raw model output into persisted domain objects.
type Tool interface {
	Name() string
	Agent() string
	Description() string
	CreditCost() int64
	RequiresProfile() bool
	Validate(params map[string]any) error
	BuildPrompt(ctx context.Context, in RunInput) (systemPrompt, userPrompt string, err error)
	HandleResult(ctx context.Context, in RunInput, raw string) (any, error)
}

// ToolInfo is the catalog entry exposed over the API.
type ToolInfo struct {
	Name            string `json:"name"`
	Agent           string `json:"agent"`
	Description     string `json:"description"`
	CreditCost      int64  `json:"credit_cost"`
	RequiresProfile bool   `json:"requires_profile"`
}

type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, ToolInfo{
			Name:            t.Name(),
			Agent:           t.Agent(),
			Description:     t.Description(),
			CreditCost:      t.CreditCost(),
			RequiresProfile: t.RequiresProfile(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// --- param accessors ---

func paramString(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func paramInt(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64: // JSON numbers decode as float64
		return int(v)
	default:
		return def
	}
}

func paramStringSlice(params map[string]any, key string) []string {
	raw, ok := params[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func paramUUID(params map[string]any, key string) (*uuid.UUID, error) {
	s := paramString(params, key)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, validationError("%s must be a valid UUID", key)
	}
	return &id, nil
}
