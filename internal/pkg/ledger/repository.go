package ledger

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adpilot-io/adpilot/app/models"
)

// Entry carries the fields for a new ledger transaction. Amount is always
// positive; the repository stores the signed value.
type Entry struct {
	Type          string
	Amount        int64
	Description   string
	ReferenceID   string
	ReferenceType string
}

// Repository provides DB operations used by the ledger service. Credit and
// Debit are atomic: balance update and transaction append either both
// happen or neither does.
type Repository interface {
	GetOrCreateWallet(userID uint) (*models.Wallet, error)
	GetWallet(userID uint) (*models.Wallet, error)
	Credit(userID uint, e Entry) (*models.WalletTransaction, error)
	Debit(userID uint, e Entry) (*models.WalletTransaction, error)
	History(userID uint, limit int) ([]models.WalletTransaction, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a ledger repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// GetOrCreateWallet is concurrency-safe: the insert ignores duplicate-key
// conflicts on user_id and the row is re-read afterwards, so two racing
// callers converge on the same wallet.
func (r *gormRepository) GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(wallet).Error; err != nil {
		return nil, err
	}

	var stored models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *gormRepository) GetWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *gormRepository) Credit(userID uint, e Entry) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := r.lockedWallet(tx, userID, true)
		if err != nil {
			return err
		}

		wallet.Balance += e.Amount
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		entry = r.newEntry(wallet, e, e.Amount)
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit serializes concurrent debits for the same user via a row-level
// exclusive lock held until commit. The balance check happens under the
// lock, so two debits can never both pass against a stale balance.
func (r *gormRepository) Debit(userID uint, e Entry) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := r.lockedWallet(tx, userID, false)
		if err != nil {
			return err
		}
		if wallet.Balance < e.Amount {
			return ErrInsufficientBalance
		}

		wallet.Balance -= e.Amount
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		entry = r.newEntry(wallet, e, -e.Amount)
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *gormRepository) History(userID uint, limit int) ([]models.WalletTransaction, error) {
	wallet, err := r.GetWallet(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.WalletTransaction{}, nil
		}
		return nil, err
	}

	var entries []models.WalletTransaction
	err = r.db.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// lockedWallet reads the wallet row FOR UPDATE inside tx. When create is
// set a missing wallet is created first (deposit path); otherwise a
// missing wallet maps to ErrWalletNotFound (debit path).
func (r *gormRepository) lockedWallet(tx *gorm.DB, userID uint, create bool) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !create {
		return nil, ErrWalletNotFound
	}

	fresh := models.Wallet{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *gormRepository) newEntry(wallet *models.Wallet, e Entry, signedAmount int64) *models.WalletTransaction {
	return &models.WalletTransaction{
		WalletID:      wallet.ID,
		Type:          e.Type,
		Amount:        signedAmount,
		BalanceAfter:  wallet.Balance,
		Description:   e.Description,
		ReferenceID:   e.ReferenceID,
		ReferenceType: e.ReferenceType,
	}
}
