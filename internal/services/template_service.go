package services

import (
	"context"
	"fmt"
	"text/template"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateService manages admin-editable prompt template overrides.
type TemplateService struct {
	templateRepo *repositories.TemplateRepo
	auditRepo    *repositories.AuditRepo
	log          *zap.Logger
}

func NewTemplateService(templateRepo *repositories.TemplateRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, auditRepo: auditRepo, log: log}
}

func (s *TemplateService) List(ctx context.Context) ([]models.PromptTemplate, error) {
	return s.templateRepo.List(ctx)
}

// Save stores a new active version of the template after checking it
// parses.
func (s *TemplateService) Save(ctx context.Context, adminID uuid.UUID, key, description, body string) (*models.PromptTemplate, error) {
	if key == "" || body == "" {
		return nil, fmt.Errorf("key and body are required")
	}
	if _, err := template.New(key).Parse(body); err != nil {
		return nil, fmt.Errorf("template does not parse: %w", err)
	}

	t := &models.PromptTemplate{Key: key, Body: body}
	if description != "" {
		t.Description = &description
	}
	if err := s.templateRepo.Upsert(ctx, t); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "prompt_template_saved",
		EntityType:  "prompt_template",
		EntityID:    &t.ID,
		Meta:        map[string]any{"key": key, "version": t.Version},
	})
	return t, nil
}
