package ledger

import "errors"

var (
	// ErrInvalidAmount is returned for non-positive deposit or debit amounts.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")

	// ErrInsufficientBalance is returned when a debit exceeds the wallet
	// balance. The wallet is left unchanged.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrWalletNotFound is returned when a debit targets a user without a wallet.
	ErrWalletNotFound = errors.New("ledger: wallet not found")
)
