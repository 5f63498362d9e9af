package models

import (
	"time"

	"github.com/google/uuid"
)

// Script types
const (
	ScriptTypeBlog       = "blog"
	ScriptTypeEmail      = "email"
	ScriptTypeSocialPost = "social_post"
	ScriptTypeVideo      = "video"
)

func IsValidScriptType(t string) bool {
	switch t {
	case ScriptTypeBlog, ScriptTypeEmail, ScriptTypeSocialPost, ScriptTypeVideo:
		return true
	}
	return false
}

type Script struct {
	ID         uuid.UUID  `json:"id"`
	ProfileID  uuid.UUID  `json:"profile_id"`
	StyleID    *uuid.UUID `json:"style_id,omitempty"`
	Title      string     `json:"title"`
	ScriptType string     `json:"script_type"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// UserStyle captures a writing style extracted from user samples.
type UserStyle struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Tone              *string   `json:"tone,omitempty"`
	Vocabulary        *string   `json:"vocabulary,omitempty"`
	SentenceStructure *string   `json:"sentence_structure,omitempty"`
	SampleExcerpt     *string   `json:"sample_excerpt,omitempty"`
	IsDefault         bool      `json:"is_default"`
	CreatedAt         time.Time `json:"created_at"`
}
