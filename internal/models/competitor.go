package models

import (
	"time"

	"github.com/google/uuid"
)

// Competitor record sources
const (
	CompetitorSourceLLM    = "llm"
	CompetitorSourceScrape = "scrape"
	CompetitorSourceManual = "manual"
)

type Competitor struct {
	ID              uuid.UUID `json:"id"`
	ProfileID       uuid.UUID `json:"profile_id"`
	Name            string    `json:"name"`
	Website         *string   `json:"website,omitempty"`
	Summary         *string   `json:"summary,omitempty"`
	Strengths       *string   `json:"strengths,omitempty"`
	Weaknesses      *string   `json:"weaknesses,omitempty"`
	Differentiators *string   `json:"differentiators,omitempty"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
