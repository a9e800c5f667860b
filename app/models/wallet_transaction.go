package models

import "time"

const (
	TransactionTypeDeposit         = "deposit"
	TransactionTypeSubscriptionFee = "subscription_fee"
	TransactionTypeActionFee       = "action_fee"
	TransactionTypeAIAudience      = "ai_audience"
	TransactionTypeAICopywriting   = "ai_copywriting"
	TransactionTypeAIImage         = "ai_image"
	TransactionTypeRefund          = "refund"
)

// WalletTransaction is an immutable ledger entry. Positive amounts are
// credits, negative amounts are debits. Entries are never updated or
// deleted; corrections are new offsetting entries.
type WalletTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletID      uint      `gorm:"not null;index" json:"wallet_id"`
	Type          string    `gorm:"type:varchar(30);not null;index" json:"type"`
	Amount        int64     `gorm:"not null" json:"amount"`
	BalanceAfter  int64     `gorm:"not null" json:"balance_after"`
	Description   string    `gorm:"type:varchar(255)" json:"description"`
	ReferenceID   string    `gorm:"type:varchar(64);default:''" json:"reference_id,omitempty"`
	ReferenceType string    `gorm:"type:varchar(50);default:''" json:"reference_type,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
