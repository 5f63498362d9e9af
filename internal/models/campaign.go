package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusArchived  = "archived"
)

// CampaignStep is one entry in a generated campaign strategy.
type CampaignStep struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Channel     string `json:"channel,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
}

type Campaign struct {
	ID         uuid.UUID      `json:"id"`
	ProfileID  uuid.UUID      `json:"profile_id"`
	OfferID    *uuid.UUID     `json:"offer_id,omitempty"`
	Title      string         `json:"title"`
	Objective  string         `json:"objective"`
	Channels   []string       `json:"channels,omitempty"`
	BudgetHint *string        `json:"budget_hint,omitempty"`
	Timeline   *string        `json:"timeline,omitempty"`
	Strategy   []CampaignStep `json:"strategy,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
