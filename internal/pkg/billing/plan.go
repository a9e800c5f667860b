package billing

import (
	"strings"

	"github.com/adpilot-io/adpilot/app/models"
)

// PlanSpec is the static pricing definition for one plan. Fees are minor
// currency units, commission rates per-mille as consumed by
// CalculateCommission, quotas per calendar month with
// models.QuotaUnlimited meaning no ceiling.
type PlanSpec struct {
	Name             string
	MonthlyFee       int64
	CommissionRate   int64
	CopywritingQuota int
	ImageQuota       int
}

var planTable = map[string]PlanSpec{
	models.PlanFree: {
		Name:             models.PlanFree,
		MonthlyFee:       0,
		CommissionRate:   1000,
		CopywritingQuota: 0,
		ImageQuota:       0,
	},
	models.PlanPro: {
		Name:             models.PlanPro,
		MonthlyFee:       1500,
		CommissionRate:   500,
		CopywritingQuota: 50,
		ImageQuota:       10,
	},
	models.PlanAgency: {
		Name:             models.PlanAgency,
		MonthlyFee:       7500,
		CommissionRate:   300,
		CopywritingQuota: models.QuotaUnlimited,
		ImageQuota:       50,
	},
}

// PlanByName returns the pricing spec for a plan name.
func PlanByName(name string) (PlanSpec, bool) {
	spec, ok := planTable[strings.ToLower(strings.TrimSpace(name))]
	return spec, ok
}

// DefaultPlan returns the free plan every new subscription starts on.
func DefaultPlan() PlanSpec {
	return planTable[models.PlanFree]
}

func normalizePlan(plan string) string {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case models.PlanPro:
		return models.PlanPro
	case models.PlanAgency:
		return models.PlanAgency
	default:
		return models.PlanFree
	}
}

func planRank(plan string) int {
	switch normalizePlan(plan) {
	case models.PlanAgency:
		return 2
	case models.PlanPro:
		return 1
	default:
		return 0
	}
}
