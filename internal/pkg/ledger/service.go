package ledger

import (
	"errors"

	"gorm.io/gorm"

	"github.com/adpilot-io/adpilot/app/models"
)

// Service is the sole authority for money movement. All balance changes go
// through Deposit and Debit, which append immutable transactions alongside
// the balance update.
type Service struct {
	repo Repository
}

// NewService creates a ledger service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a ledger service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on
// first use. Idempotent under concurrent callers.
func (s *Service) GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	return s.repo.GetOrCreateWallet(userID)
}

// Deposit credits the wallet and returns the appended transaction. The
// wallet is created lazily if it does not exist yet.
func (s *Service) Deposit(userID uint, amount int64, description string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Credit(userID, Entry{
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Description: description,
	})
}

// Debit removes amount from the wallet, serialized against concurrent
// debits for the same user. Fails with ErrInsufficientBalance without any
// partial effect when the balance does not cover the amount.
func (s *Service) Debit(userID uint, amount int64, txType, description, referenceID, referenceType string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Debit(userID, Entry{
		Type:          txType,
		Amount:        amount,
		Description:   description,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	})
}

// GetBalance returns the current balance, 0 when no wallet exists.
func (s *Service) GetBalance(userID uint) (int64, error) {
	wallet, err := s.repo.GetWallet(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return wallet.Balance, nil
}

// GetHistory returns up to limit transactions, most recent first.
func (s *Service) GetHistory(userID uint, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.History(userID, limit)
}
