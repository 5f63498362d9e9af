package models

import (
	"time"

	"github.com/google/uuid"
)

// User plans
const (
	PlanFree  = "free"
	PlanPro   = "pro"
	PlanAdmin = "admin"
)

func IsValidPlan(plan string) bool {
	return plan == PlanFree || plan == PlanPro || plan == PlanAdmin
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
