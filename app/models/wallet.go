package models

import (
	"time"
)

// Wallet holds the prepaid balance for a user in minor currency units.
// The balance must always equal the sum of all associated transaction
// amounts; it is only ever changed together with an appended transaction.
type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Transactions []WalletTransaction `gorm:"foreignKey:WalletID" json:"-"`
}
