package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/adpilot-io/adpilot/internal/pkg/database"
	"github.com/adpilot-io/adpilot/internal/pkg/ledger"
)

type depositRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
}

// HandleDeposit credits the user's wallet.
func HandleDeposit(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	var req depositRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, "amount must be a positive integer")
	}

	svc := ledger.NewServiceFromDB(database.GetDB())
	description := req.Description
	if description == "" {
		description = "Wallet deposit"
	}

	tx, err := svc.Deposit(uc.UserID, req.Amount, description)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return badRequest(c, "amount must be a positive integer")
		}
		return internalError(c, "Deposit failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction": tx,
		"balance":     tx.BalanceAfter,
	})
}

// HandleGetWallet returns the current balance. Users without a wallet see
// a zero balance rather than an error.
func HandleGetWallet(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	svc := ledger.NewServiceFromDB(database.GetDB())
	balance, err := svc.GetBalance(uc.UserID)
	if err != nil {
		return internalError(c, "Could not load wallet")
	}

	return c.JSON(fiber.Map{"balance": balance})
}

// HandleGetWalletTransactions returns the transaction history, most
// recent first.
func HandleGetWalletTransactions(c *fiber.Ctx) error {
	uc, err := requireUser(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	svc := ledger.NewServiceFromDB(database.GetDB())
	entries, err := svc.GetHistory(uc.UserID, limit)
	if err != nil {
		return internalError(c, "Could not load transactions")
	}

	return c.JSON(fiber.Map{"transactions": entries})
}
