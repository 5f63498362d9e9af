package models

import (
	"time"

	"github.com/google/uuid"
)

// Business profile statuses
const (
	ProfileStatusDraft     = "draft"
	ProfileStatusEnriching = "enriching"
	ProfileStatusReady     = "ready"
)

// BusinessProfile is the central tenant record most other entities reference.
type BusinessProfile struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Name                string     `json:"name"`
	Website             *string    `json:"website,omitempty"`
	Industry            *string    `json:"industry,omitempty"`
	Description         *string    `json:"description,omitempty"`
	TargetAudience      *string    `json:"target_audience,omitempty"`
	ToneOfVoice         *string    `json:"tone_of_voice,omitempty"`
	UniqueSellingPoints []string   `json:"unique_selling_points,omitempty"`
	Status              string     `json:"status"`
	EnrichedAt          *time.Time `json:"enriched_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
