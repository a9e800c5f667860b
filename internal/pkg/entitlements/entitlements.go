package entitlements

import "strings"

type Tier string

const (
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierAgency       Tier = "agency"
	TierEnterprise   Tier = "enterprise"
)

// Unlimited marks a limit field as having no ceiling.
const Unlimited = -1

// NormalizeTier maps arbitrary input to a known tier, defaulting to starter.
func NormalizeTier(tier string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(tier))) {
	case TierProfessional:
		return TierProfessional
	case TierAgency:
		return TierAgency
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierStarter
	}
}

// Features describes what a tier may see and do on the API surface.
// MaxVisibleInterests truncates recommended-interest lists; Unlimited
// means no truncation.
type Features struct {
	CanViewFullReport   bool
	CanCreateAudience   bool
	CanCreateAd         bool
	HasAPIAccess        bool
	MaxVisibleInterests int
}

var tierFeatures = map[Tier]Features{
	TierStarter: {
		CanViewFullReport:   false,
		CanCreateAudience:   false,
		CanCreateAd:         false,
		HasAPIAccess:        false,
		MaxVisibleInterests: 5,
	},
	TierProfessional: {
		CanViewFullReport:   true,
		CanCreateAudience:   true,
		CanCreateAd:         true,
		HasAPIAccess:        false,
		MaxVisibleInterests: 20,
	},
	TierAgency: {
		CanViewFullReport:   true,
		CanCreateAudience:   true,
		CanCreateAd:         true,
		HasAPIAccess:        true,
		MaxVisibleInterests: Unlimited,
	},
	TierEnterprise: {
		CanViewFullReport:   true,
		CanCreateAudience:   true,
		CanCreateAd:         true,
		HasAPIAccess:        true,
		MaxVisibleInterests: Unlimited,
	},
}

// FeaturesFor returns the feature gates for a tier.
func FeaturesFor(tier Tier) Features {
	return tierFeatures[NormalizeTier(string(tier))]
}

// FilterInterestsByTier truncates a recommended-interest list to what the
// tier is allowed to see.
func FilterInterestsByTier(tier Tier, interests []string) []string {
	max := FeaturesFor(tier).MaxVisibleInterests
	if max == Unlimited || len(interests) <= max {
		return interests
	}
	return interests[:max]
}
