package autopilot

import (
	"github.com/adpilot-io/adpilot/app/models"
)

// A Rule pairs a named, independently testable predicate with the action
// taken when it fires. Pause rules are evaluated in declared order and the
// first match wins for a given target; boost rules are evaluated
// independently of pause rules.
type Rule struct {
	Name           string
	Action         string
	ReasonTemplate string
	Predicate      func(m Metrics, settings models.AutopilotSettings) bool
}

// pauseRules are evaluated when auto_pause_enabled is set. Declaration
// order is the tie-break: earlier rules take priority.
var pauseRules = []Rule{
	{
		Name:           "high_cpa",
		Action:         models.AutopilotActionPauseAd,
		ReasonTemplate: "CPA ${cpa} has exceeded the target by more than 20% for ${days_high_cpa} days",
		Predicate: func(m Metrics, settings models.AutopilotSettings) bool {
			return settings.HasTargetCPA() &&
				m.CPA > settings.TargetCPA*1.2 &&
				m.DaysHighCPA >= 3
		},
	},
	{
		Name:           "creative_fatigue",
		Action:         models.AutopilotActionPauseCreative,
		ReasonTemplate: "CTR trend ${ctr_trend} has been declining for ${days_declining} days",
		Predicate: func(m Metrics, settings models.AutopilotSettings) bool {
			return m.CTRTrend < -0.2 && m.DaysDeclining >= 7
		},
	},
	{
		Name:           "low_ctr",
		Action:         models.AutopilotActionPauseAd,
		ReasonTemplate: "CTR ${ctr} below 0.5% over ${impressions} impressions for ${days_low_ctr} days",
		Predicate: func(m Metrics, settings models.AutopilotSettings) bool {
			return m.CTR < 0.005 && m.Impressions > 1000 && m.DaysLowCTR >= 7
		},
	},
}

// boostRules are evaluated when auto_boost_enabled is set.
var boostRules = []Rule{
	{
		Name:           "high_roas",
		Action:         ActionIncreaseBudget20,
		ReasonTemplate: "ROAS ${roas} above 4 with spend ${spend}, raising budget 20%",
		Predicate: func(m Metrics, settings models.AutopilotSettings) bool {
			return settings.AutoBoostEnabled && m.ROAS > 4 && m.Spend > 1000
		},
	},
}

// ActionIncreaseBudget20 raises the target's budget by 20%.
const ActionIncreaseBudget20 = "increase_budget_20"

// firstMatchingPauseRule returns the first pause rule matching the
// snapshot, or nil.
func firstMatchingPauseRule(m Metrics, settings models.AutopilotSettings) *Rule {
	for i := range pauseRules {
		if pauseRules[i].Predicate(m, settings) {
			return &pauseRules[i]
		}
	}
	return nil
}

// matchingBoostRules returns all boost rules matching the snapshot.
func matchingBoostRules(m Metrics, settings models.AutopilotSettings) []*Rule {
	var matched []*Rule
	for i := range boostRules {
		if boostRules[i].Predicate(m, settings) {
			matched = append(matched, &boostRules[i])
		}
	}
	return matched
}
