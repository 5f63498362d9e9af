package rbac

import "github.com/bizcopilot/backend/internal/models"

// Permission constants
const (
	PermRunCompetitorResearch = "run_competitor_research"
	PermRunOfferGenerator     = "run_offer_generator"
	PermRunAdCopy             = "run_ad_copy"
	PermRunCampaignStrategy   = "run_campaign_strategy"
	PermRunStyleAnalyze       = "run_style_analyze"
	PermRunContentWrite       = "run_content_write"
	PermRunProfileEnrich      = "run_profile_enrich"
	PermUseBackgroundMode     = "use_background_mode"
	PermManageTemplates       = "manage_templates"
	PermGrantCredits          = "grant_credits"
)

// PlanPermissions defines what each plan can do.
var PlanPermissions = map[string][]string{
	models.PlanFree: {
		PermRunCompetitorResearch, PermRunOfferGenerator, PermRunAdCopy,
		PermRunStyleAnalyze, PermRunContentWrite, PermRunProfileEnrich,
		// Free CANNOT: PermRunCampaignStrategy, PermUseBackgroundMode
	},
	models.PlanPro: {
		PermRunCompetitorResearch, PermRunOfferGenerator, PermRunAdCopy,
		PermRunCampaignStrategy, PermRunStyleAnalyze, PermRunContentWrite,
		PermRunProfileEnrich, PermUseBackgroundMode,
	},
	models.PlanAdmin: {
		PermRunCompetitorResearch, PermRunOfferGenerator, PermRunAdCopy,
		PermRunCampaignStrategy, PermRunStyleAnalyze, PermRunContentWrite,
		PermRunProfileEnrich, PermUseBackgroundMode,
		PermManageTemplates, PermGrantCredits,
	},
}

// ToolPermissions maps each agent tool to the permission that gates it.
var ToolPermissions = map[string]string{
	"competitor_research": PermRunCompetitorResearch,
	"offer_generator":     PermRunOfferGenerator,
	"ad_copy":             PermRunAdCopy,
	"campaign_strategy":   PermRunCampaignStrategy,
	"style_analyze":       PermRunStyleAnalyze,
	"content_write":       PermRunContentWrite,
	"profile_enrich":      PermRunProfileEnrich,
}

// HasPermission checks if a plan has a specific permission.
func HasPermission(plan, permission string) bool {
	perms, ok := PlanPermissions[plan]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// CanRunTool checks if a plan may run the given agent tool. Unknown
// tools are denied.
func CanRunTool(plan, tool string) bool {
	perm, ok := ToolPermissions[tool]
	if !ok {
		return false
	}
	return HasPermission(plan, perm)
}

// IsAdminOperation checks if permission is admin-only.
func IsAdminOperation(permission string) bool {
	return permission == PermManageTemplates || permission == PermGrantCredits
}
