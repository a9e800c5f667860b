package autopilot

import (
	"strings"
	"testing"

	"github.com/adpilot-io/adpilot/app/models"
)

func TestHighCPARule(t *testing.T) {
	settings := models.AutopilotSettings{TargetCPA: 100}

	tests := []struct {
		name string
		m    Metrics
		want bool
	}{
		{name: "fires above threshold", m: Metrics{CPA: 121, DaysHighCPA: 3}, want: true},
		{name: "exactly 20 percent over is not enough", m: Metrics{CPA: 120, DaysHighCPA: 5}, want: false},
		{name: "too few days", m: Metrics{CPA: 200, DaysHighCPA: 2}, want: false},
		{name: "sustained and far over", m: Metrics{CPA: 500, DaysHighCPA: 10}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := firstMatchingPauseRule(tt.m, settings)
			got := rule != nil && rule.Name == "high_cpa"
			if got != tt.want {
				t.Fatalf("high_cpa fired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHighCPARuleNeedsTarget(t *testing.T) {
	m := Metrics{CPA: 1000, DaysHighCPA: 30}

	if rule := firstMatchingPauseRule(m, models.AutopilotSettings{}); rule != nil {
		t.Fatalf("without a target CPA no pause rule should fire, got %s", rule.Name)
	}
}

func TestCreativeFatigueRule(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want bool
	}{
		{name: "fires on sustained decline", m: Metrics{CTRTrend: -0.25, DaysDeclining: 7}, want: true},
		{name: "trend at boundary", m: Metrics{CTRTrend: -0.2, DaysDeclining: 10}, want: false},
		{name: "too few days", m: Metrics{CTRTrend: -0.5, DaysDeclining: 6}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := firstMatchingPauseRule(tt.m, models.AutopilotSettings{})
			got := rule != nil && rule.Name == "creative_fatigue"
			if got != tt.want {
				t.Fatalf("creative_fatigue fired = %v, want %v", got, tt.want)
			}
			if tt.want && rule.Action != models.AutopilotActionPauseCreative {
				t.Fatalf("creative_fatigue action = %s, want %s", rule.Action, models.AutopilotActionPauseCreative)
			}
		})
	}
}

func TestLowCTRRule(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want bool
	}{
		{name: "fires on weak sustained CTR", m: Metrics{CTR: 0.004, Impressions: 1001, DaysLowCTR: 7}, want: true},
		{name: "CTR at boundary", m: Metrics{CTR: 0.005, Impressions: 5000, DaysLowCTR: 10}, want: false},
		{name: "too few impressions", m: Metrics{CTR: 0.001, Impressions: 1000, DaysLowCTR: 10}, want: false},
		{name: "too few days", m: Metrics{CTR: 0.001, Impressions: 9999, DaysLowCTR: 6}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := firstMatchingPauseRule(tt.m, models.AutopilotSettings{})
			got := rule != nil && rule.Name == "low_ctr"
			if got != tt.want {
				t.Fatalf("low_ctr fired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPauseRulePriority(t *testing.T) {
	// metrics matching both high_cpa and low_ctr; the earlier rule wins
	settings := models.AutopilotSettings{TargetCPA: 100}
	m := Metrics{CPA: 300, DaysHighCPA: 5, CTR: 0.001, Impressions: 10000, DaysLowCTR: 14}

	rule := firstMatchingPauseRule(m, settings)
	if rule == nil || rule.Name != "high_cpa" {
		t.Fatalf("expected high_cpa to take priority, got %v", rule)
	}
}

func TestHighROASBoostRule(t *testing.T) {
	settings := models.AutopilotSettings{AutoBoostEnabled: true}

	tests := []struct {
		name string
		m    Metrics
		want bool
	}{
		{name: "fires on strong ROAS with spend", m: Metrics{ROAS: 4.1, Spend: 1001}, want: true},
		{name: "ROAS at boundary", m: Metrics{ROAS: 4, Spend: 5000}, want: false},
		{name: "spend at boundary", m: Metrics{ROAS: 10, Spend: 1000}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := matchingBoostRules(tt.m, settings)
			got := len(matched) == 1 && matched[0].Name == "high_roas"
			if got != tt.want {
				t.Fatalf("high_roas fired = %v, want %v", got, tt.want)
			}
			if tt.want && matched[0].Action != ActionIncreaseBudget20 {
				t.Fatalf("high_roas action = %s, want %s", matched[0].Action, ActionIncreaseBudget20)
			}
		})
	}
}

func TestBoostRuleRespectsToggle(t *testing.T) {
	m := Metrics{ROAS: 10, Spend: 100000}

	if matched := matchingBoostRules(m, models.AutopilotSettings{}); len(matched) != 0 {
		t.Fatalf("boost rules must not fire when the toggle is off")
	}
}

func TestFormatReason(t *testing.T) {
	m := Metrics{CPA: 123.456, DaysHighCPA: 4}

	got := formatReason("CPA ${cpa} has exceeded the target by more than 20% for ${days_high_cpa} days", m)
	if got != "CPA 123.46 has exceeded the target by more than 20% for 4 days" {
		t.Fatalf("formatReason = %q", got)
	}
	if strings.Contains(got, "${") {
		t.Fatalf("unresolved placeholder in %q", got)
	}
}
