package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad platforms
const (
	AdPlatformFacebook  = "facebook"
	AdPlatformInstagram = "instagram"
	AdPlatformGoogle    = "google"
	AdPlatformTikTok    = "tiktok"
	AdPlatformLinkedIn  = "linkedin"
)

// Ad formats
const (
	AdFormatHeadline    = "headline"
	AdFormatPrimaryText = "primary_text"
	AdFormatFull        = "full"
)

func IsValidAdPlatform(p string) bool {
	switch p {
	case AdPlatformFacebook, AdPlatformInstagram, AdPlatformGoogle, AdPlatformTikTok, AdPlatformLinkedIn:
		return true
	}
	return false
}

func IsValidAdFormat(f string) bool {
	switch f {
	case AdFormatHeadline, AdFormatPrimaryText, AdFormatFull:
		return true
	}
	return false
}

// Ad belongs to exactly one of an offer or a campaign.
type Ad struct {
	ID           uuid.UUID  `json:"id"`
	OfferID      *uuid.UUID `json:"offer_id,omitempty"`
	CampaignID   *uuid.UUID `json:"campaign_id,omitempty"`
	Platform     string     `json:"platform"`
	Format       string     `json:"format"`
	Headline     *string    `json:"headline,omitempty"`
	Body         *string    `json:"body,omitempty"`
	CallToAction *string    `json:"call_to_action,omitempty"`
	Variant      int        `json:"variant"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasSingleParent reports whether exactly one of OfferID/CampaignID is set.
func (a *Ad) HasSingleParent() bool {
	return (a.OfferID != nil) != (a.CampaignID != nil)
}
