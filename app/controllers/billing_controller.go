package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adpilot-io/adpilot/app/repository"
	"github.com/adpilot-io/adpilot/internal/pkg/billing"
	"github.com/adpilot-io/adpilot/internal/pkg/database"
	"github.com/adpilot-io/adpilot/internal/pkg/entitlements"
	"github.com/adpilot-io/adpilot/internal/pkg/ledger"
)

// HandleGetSubscription returns the user's subscription, creating the
// free-plan default on first access.
func HandleGetSubscription(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	sub, err := svc.GetOrCreateSubscription(uc.UserID)
	if err != nil {
		return internalError(c, "Could not load subscription")
	}

	return c.JSON(fiber.Map{"subscription": sub})
}

type upgradePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free pro agency"`
}

// HandleUpgradePlan switches the subscription to a new plan. The fee is
// charged by the scheduled billing job, not here.
func HandleUpgradePlan(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	var req upgradePlanRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, "plan must be one of free, pro, agency")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	sub, err := svc.UpgradePlan(uc.UserID, req.Plan)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			return badRequest(c, "plan must be one of free, pro, agency")
		}
		return internalError(c, "Plan change failed")
	}

	return c.JSON(fiber.Map{"subscription": sub})
}

type billableActionRequest struct {
	ActionType      string `json:"action_type" validate:"required,max=50"`
	Platform        string `json:"platform" validate:"required,oneof=meta google linkedin tiktok reddit line"`
	ActionHistoryID string `json:"action_history_id" validate:"max=64"`
	AdSpendAmount   int64  `json:"ad_spend_amount" validate:"gte=0"`
}

// HandleRecordBillableAction records a chargeable platform operation and
// debits the commission. Insufficient balance blocks the action and is
// reported to the caller; the unbilled record is kept for retry.
func HandleRecordBillableAction(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	var req billableActionRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid billable action payload")
	}

	// Soft monthly action limit per tier. The hard guard for money is the
	// balance check inside the ledger debit, not this counter.
	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(uc.UserID)
	if err != nil {
		return internalError(c, "Could not load user")
	}
	tier := entitlements.NormalizeTier(user.Tier)
	now := time.Now()
	decision := entitlements.CheckActionQuota(tier, user.ActionCount, user.ActionCountResetAt, now)
	if !decision.CanExecute {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":         "quota_exceeded",
			"message":       "Monthly action quota reached",
			"next_reset_at": decision.NextResetAt,
		})
	}
	count, resetAt := entitlements.Increment(decision.CurrentCount, user.ActionCountResetAt, now)
	if err := userRepo.UpdateUsageCounters(user.ID, &count, &resetAt, nil, nil); err != nil {
		return internalError(c, "Could not update usage counter")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	action, err := svc.RecordBillableAction(uc.UserID, req.ActionType, req.Platform, req.ActionHistoryID, req.AdSpendAmount)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) || errors.Is(err, ledger.ErrWalletNotFound) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":   "insufficient_balance",
				"message": "Wallet balance does not cover the commission",
				"action":  action,
			})
		}
		return internalError(c, "Could not record billable action")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"action": action})
}
