package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adpilot-io/adpilot/app/repository"
	"github.com/adpilot-io/adpilot/internal/pkg/entitlements"
)

// Static interest catalogue the audience recommender draws from. The real
// ranking comes from the platform sync layer; this is the fallback order.
var recommendedInterests = []string{
	"online shopping", "fitness", "travel", "technology", "cooking",
	"fashion", "gaming", "parenting", "personal finance", "home improvement",
	"pets", "photography", "outdoor sports", "beauty", "streaming",
}

// HandleAudienceSuggestions returns recommended interests for a campaign,
// gated by the tier's monthly suggestion quota and truncated to what the
// tier may see.
func HandleAudienceSuggestions(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(uc.UserID)
	if err != nil {
		return internalError(c, "Could not load user")
	}

	tier := entitlements.NormalizeTier(user.Tier)
	now := time.Now()

	decision := entitlements.CheckSuggestionQuota(tier, user.SuggestionCount, user.SuggestionCountResetAt, now)
	if !decision.CanExecute {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":         "quota_exceeded",
			"message":       "Monthly suggestion quota reached",
			"next_reset_at": decision.NextResetAt,
		})
	}

	// Persist the incremented counter together with serving the request.
	count, resetAt := entitlements.Increment(decision.CurrentCount, user.SuggestionCountResetAt, now)
	if err := repo.UpdateUsageCounters(user.ID, nil, nil, &count, &resetAt); err != nil {
		return internalError(c, "Could not update usage counter")
	}

	interests := entitlements.FilterInterestsByTier(tier, recommendedInterests)

	var remaining *int
	if decision.Remaining != nil {
		left := *decision.Remaining - 1
		remaining = &left
	}

	return c.JSON(fiber.Map{
		"interests":             interests,
		"remaining_suggestions": remaining,
		"next_reset_at":         decision.NextResetAt,
	})
}
