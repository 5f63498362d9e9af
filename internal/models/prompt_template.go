package models

import (
	"time"

	"github.com/google/uuid"
)

// PromptTemplate is a DB-managed prompt body in text/template syntax.
// Tools load the active template by key and fall back to built-in defaults.
type PromptTemplate struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Description *string   `json:"description,omitempty"`
	Body        string    `json:"body"`
	Version     int       `json:"version"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
