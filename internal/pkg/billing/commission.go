package billing

// Action types recorded by the platform executors. Creation and
// duplication incur commission; status toggles and metadata edits do not.
const (
	ActionCampaignCreate    = "campaign_create"
	ActionCampaignDuplicate = "campaign_duplicate"
	ActionAdSetCreate       = "adset_create"
	ActionAdCreate          = "ad_create"
	ActionBudgetUpdate      = "budget_update"
	ActionStatusToggle      = "status_toggle"
	ActionMetadataUpdate    = "metadata_update"
	ActionAudienceUpdate    = "audience_update"
)

var billableActions = map[string]bool{
	ActionCampaignCreate:    true,
	ActionCampaignDuplicate: true,
	ActionAdSetCreate:       true,
	ActionAdCreate:          true,
	ActionBudgetUpdate:      true,
	ActionStatusToggle:      false,
	ActionMetadataUpdate:    false,
	ActionAudienceUpdate:    false,
}

// CalculateCommission returns floor(spend * rate / 1000) using integer
// arithmetic. Rates are per-mille (1000 = 100%). Negative inputs are
// treated as zero.
func CalculateCommission(spend, ratePerMille int64) int64 {
	if spend <= 0 || ratePerMille <= 0 {
		return 0
	}
	return spend * ratePerMille / 1000
}

// IsBillableAction reports whether the action type incurs a commission.
// Unknown action types are free.
func IsBillableAction(actionType string) bool {
	return billableActions[actionType]
}
