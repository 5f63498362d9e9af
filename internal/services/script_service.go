package services

import (
	"context"
	"fmt"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ScriptService covers generated scripts and the user's saved writing
// styles.
type ScriptService struct {
	scriptRepo  *repositories.ScriptRepo
	styleRepo   *repositories.StyleRepo
	profileRepo *repositories.ProfileRepo
	log         *zap.Logger
}

func NewScriptService(scriptRepo *repositories.ScriptRepo, styleRepo *repositories.StyleRepo, profileRepo *repositories.ProfileRepo, log *zap.Logger) *ScriptService {
	return &ScriptService{scriptRepo: scriptRepo, styleRepo: styleRepo, profileRepo: profileRepo, log: log}
}

func (s *ScriptService) ownedProfile(ctx context.Context, profileID, userID uuid.UUID) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("profile not found")
	}
	if err != nil {
		return err
	}
	if profile.UserID != userID {
		return fmt.Errorf("profile not found")
	}
	return nil
}

func (s *ScriptService) Get(ctx context.Context, scriptID, userID uuid.UUID) (*models.Script, error) {
	script, err := s.scriptRepo.GetByID(ctx, scriptID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("script not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.ownedProfile(ctx, script.ProfileID, userID); err != nil {
		return nil, fmt.Errorf("script not found")
	}
	return script, nil
}

func (s *ScriptService) List(ctx context.Context, userID, profileID uuid.UUID, limit, offset int) ([]models.Script, error) {
	if err := s.ownedProfile(ctx, profileID, userID); err != nil {
		return nil, err
	}
	return s.scriptRepo.ListByProfile(ctx, profileID, limit, offset)
}

func (s *ScriptService) Update(ctx context.Context, scriptID, userID uuid.UUID, title, content *string) (*models.Script, error) {
	script, err := s.Get(ctx, scriptID, userID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		if *title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		script.Title = *title
	}
	if content != nil {
		script.Content = *content
	}
	if err := s.scriptRepo.Update(ctx, script); err != nil {
		return nil, err
	}
	return script, nil
}

func (s *ScriptService) Delete(ctx context.Context, scriptID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, scriptID, userID); err != nil {
		return err
	}
	return s.scriptRepo.Delete(ctx, scriptID)
}

// --- styles ---

func (s *ScriptService) ListStyles(ctx context.Context, userID uuid.UUID) ([]models.UserStyle, error) {
	return s.styleRepo.ListByUser(ctx, userID)
}

func (s *ScriptService) GetStyle(ctx context.Context, userID, styleID uuid.UUID) (*models.UserStyle, error) {
	style, err := s.styleRepo.GetByID(ctx, styleID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("style not found")
	}
	if err != nil {
		return nil, err
	}
	if style.UserID != userID {
		return nil, fmt.Errorf("style not found")
	}
	return style, nil
}

type UpdateStyleInput struct {
	Name              *string
	Tone              *string
	Vocabulary        *string
	SentenceStructure *string
}

func (s *ScriptService) UpdateStyle(ctx context.Context, userID, styleID uuid.UUID, input UpdateStyleInput) (*models.UserStyle, error) {
	if input.Name != nil && *input.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	style, err := s.GetStyle(ctx, userID, styleID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		style.Name = *input.Name
	}
	if input.Tone != nil {
		style.Tone = input.Tone
	}
	if input.Vocabulary != nil {
		style.Vocabulary = input.Vocabulary
	}
	if input.SentenceStructure != nil {
		style.SentenceStructure = input.SentenceStructure
	}
	if err := s.styleRepo.Update(ctx, style); err != nil {
		return nil, err
	}
	return style, nil
}

func (s *ScriptService) SetDefaultStyle(ctx context.Context, userID, styleID uuid.UUID) error {
	err := s.styleRepo.SetDefault(ctx, userID, styleID)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("style not found")
	}
	return err
}

func (s *ScriptService) DeleteStyle(ctx context.Context, userID, styleID uuid.UUID) error {
	style, err := s.styleRepo.GetByID(ctx, styleID)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("style not found")
	}
	if err != nil {
		return err
	}
	if style.UserID != userID {
		return fmt.Errorf("style not found")
	}
	return s.styleRepo.Delete(ctx, styleID)
}
