package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer statuses
const (
	OfferStatusDraft    = "draft"
	OfferStatusActive   = "active"
	OfferStatusArchived = "archived"
)

type Offer struct {
	ID            uuid.UUID `json:"id"`
	ProfileID     uuid.UUID `json:"profile_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	PriceHint     *string   `json:"price_hint,omitempty"`
	ProblemSolved *string   `json:"problem_solved,omitempty"`
	TargetSegment *string   `json:"target_segment,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
