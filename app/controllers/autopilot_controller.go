package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/adpilot-io/adpilot/app/models"
	"github.com/adpilot-io/adpilot/app/repository"
	"github.com/adpilot-io/adpilot/internal/pkg/cache"
	"github.com/adpilot-io/adpilot/internal/pkg/entitlements"
)

// ownedAccount loads an ad account and verifies it belongs to the caller.
func ownedAccount(c *fiber.Ctx, userID uint) (*models.AdAccount, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, badRequest(c, "invalid account id")
	}

	repo := repository.GetGlobalFactory().GetAdAccountRepository()
	account, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Ad account not found"})
		}
		return nil, internalError(c, "Could not load ad account")
	}
	if account.UserID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Not your ad account"})
	}
	return account, nil
}

// HandleGetAutopilotSettings returns the autopilot configuration for one account.
func HandleGetAutopilotSettings(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}
	account, err := ownedAccount(c, uc.UserID)
	if account == nil {
		return err
	}
	return c.JSON(fiber.Map{"autopilot": account.Autopilot})
}

type autopilotSettingsRequest struct {
	TargetCPA               float64 `json:"target_cpa" validate:"gte=0"`
	MonthlyBudget           int64   `json:"monthly_budget" validate:"gte=0"`
	GoalType                string  `json:"goal_type" validate:"max=30"`
	AutoPauseEnabled        bool    `json:"auto_pause_enabled"`
	AutoAdjustBudgetEnabled bool    `json:"auto_adjust_budget_enabled"`
	AutoBoostEnabled        bool    `json:"auto_boost_enabled"`
	NotifyBeforeAction      bool    `json:"notify_before_action"`
}

// HandleUpdateAutopilotSettings is the only write path for autopilot
// configuration; the rule engine itself never mutates settings.
func HandleUpdateAutopilotSettings(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}
	account, err := ownedAccount(c, uc.UserID)
	if account == nil {
		return err
	}

	var req autopilotSettingsRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid autopilot settings payload")
	}

	settings := models.AutopilotSettings{
		TargetCPA:               req.TargetCPA,
		MonthlyBudget:           req.MonthlyBudget,
		GoalType:                req.GoalType,
		AutoPauseEnabled:        req.AutoPauseEnabled,
		AutoAdjustBudgetEnabled: req.AutoAdjustBudgetEnabled,
		AutoBoostEnabled:        req.AutoBoostEnabled,
		NotifyBeforeAction:      req.NotifyBeforeAction,
	}

	repo := repository.GetGlobalFactory().GetAdAccountRepository()
	if err := repo.UpdateAutopilotSettings(account.ID, settings); err != nil {
		return internalError(c, "Could not update autopilot settings")
	}

	return c.JSON(fiber.Map{"autopilot": settings})
}

// HandleGetAutopilotLogs returns the execution log, newest first.
func HandleGetAutopilotLogs(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}
	account, err := ownedAccount(c, uc.UserID)
	if account == nil {
		return err
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	repo := repository.GetGlobalFactory().GetAutopilotLogRepository()
	entries, err := repo.GetByAccountID(account.ID, offset, limit)
	if err != nil {
		return internalError(c, "Could not load autopilot logs")
	}

	return c.JSON(fiber.Map{"logs": entries})
}

// HandleTriggerSync requests a platform data sync for one account, rate
// limited by the tier's sync interval. The last-sync timestamp lives in
// the cache with the DB column as fallback.
func HandleTriggerSync(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}
	account, err := ownedAccount(c, uc.UserID)
	if account == nil {
		return err
	}

	tier := entitlements.NormalizeTier(uc.Tier)
	now := time.Now()

	lastSync := account.LastSyncAt
	cacheKey := fmt.Sprintf("adaccount:last_sync:%d", account.ID)
	if raw, err := cache.Get(cacheKey); err == nil {
		if cached, err := time.Parse(time.RFC3339, raw); err == nil {
			lastSync = &cached
		}
	}

	if !entitlements.ShouldSyncNow(tier, lastSync, now) {
		next := entitlements.NextSyncAt(tier, lastSync)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":        "sync_throttled",
			"message":      "Sync not due yet for this tier",
			"next_sync_at": next,
		})
	}

	repo := repository.GetGlobalFactory().GetAdAccountRepository()
	if err := repo.TouchLastSync(account.ID, now); err != nil {
		return internalError(c, "Could not record sync")
	}
	_ = cache.Set(cacheKey, now.Format(time.RFC3339), entitlements.SyncInterval(tier))

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":       "sync_scheduled",
		"next_sync_at": entitlements.NextSyncAt(tier, &now),
	})
}
