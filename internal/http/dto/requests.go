package dto

type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profiles

type CreateProfileRequest struct {
	Name           string  `json:"name"`
	Website        *string `json:"website,omitempty"`
	Industry       *string `json:"industry,omitempty"`
	Description    *string `json:"description,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
	ToneOfVoice    *string `json:"tone_of_voice,omitempty"`
}

type UpdateProfileRequest struct {
	Name                *string  `json:"name,omitempty"`
	Website             *string  `json:"website,omitempty"`
	Industry            *string  `json:"industry,omitempty"`
	Description         *string  `json:"description,omitempty"`
	TargetAudience      *string  `json:"target_audience,omitempty"`
	ToneOfVoice         *string  `json:"tone_of_voice,omitempty"`
	UniqueSellingPoints []string `json:"unique_selling_points,omitempty"`
}

// Agents

type RunAgentRequest struct {
	Tool       string         `json:"tool"`
	ProfileID  *string        `json:"profile_id,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	Background bool           `json:"background,omitempty"`
}

type EnrichProfileRequest struct {
	Website    string `json:"website,omitempty"` // overrides the profile website
	Background bool   `json:"background,omitempty"`
}

// Offers

type CreateOfferRequest struct {
	ProfileID     string  `json:"profile_id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	PriceHint     *string `json:"price_hint,omitempty"`
	ProblemSolved *string `json:"problem_solved,omitempty"`
	TargetSegment *string `json:"target_segment,omitempty"`
}

type UpdateOfferRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	PriceHint     *string `json:"price_hint,omitempty"`
	ProblemSolved *string `json:"problem_solved,omitempty"`
	TargetSegment *string `json:"target_segment,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// Campaigns

type CreateCampaignRequest struct {
	ProfileID  string   `json:"profile_id"`
	OfferID    *string  `json:"offer_id,omitempty"`
	Title      string   `json:"title"`
	Objective  string   `json:"objective"`
	Channels   []string `json:"channels,omitempty"`
	BudgetHint *string  `json:"budget_hint,omitempty"`
	Timeline   *string  `json:"timeline,omitempty"`
}

type UpdateCampaignRequest struct {
	Title      *string  `json:"title,omitempty"`
	Objective  *string  `json:"objective,omitempty"`
	Channels   []string `json:"channels,omitempty"`
	BudgetHint *string  `json:"budget_hint,omitempty"`
	Timeline   *string  `json:"timeline,omitempty"`
}

type UpdateCampaignStatusRequest struct {
	Status string `json:"status"`
}

// Competitors

type CreateCompetitorRequest struct {
	ProfileID       string  `json:"profile_id"`
	Name            string  `json:"name"`
	Website         *string `json:"website,omitempty"`
	Summary         *string `json:"summary,omitempty"`
	Strengths       *string `json:"strengths,omitempty"`
	Weaknesses      *string `json:"weaknesses,omitempty"`
	Differentiators *string `json:"differentiators,omitempty"`
}

type UpdateCompetitorRequest struct {
	Name            *string `json:"name,omitempty"`
	Website         *string `json:"website,omitempty"`
	Summary         *string `json:"summary,omitempty"`
	Strengths       *string `json:"strengths,omitempty"`
	Weaknesses      *string `json:"weaknesses,omitempty"`
	Differentiators *string `json:"differentiators,omitempty"`
}

// Ads

type UpdateAdRequest struct {
	Headline     *string `json:"headline,omitempty"`
	Body         *string `json:"body,omitempty"`
	CallToAction *string `json:"call_to_action,omitempty"`
}

// Scripts

type UpdateScriptRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type UpdateStyleRequest struct {
	Name              *string `json:"name,omitempty"`
	Tone              *string `json:"tone,omitempty"`
	Vocabulary        *string `json:"vocabulary,omitempty"`
	SentenceStructure *string `json:"sentence_structure,omitempty"`
}

// Credits

type CreatePurchaseRequest struct {
	Package string `json:"package"`
}

type GrantCreditsRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

type SetPlanRequest struct {
	Plan string `json:"plan"`
}

// Prompt templates (admin)

type SaveTemplateRequest struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	Body        string `json:"body"`
}
