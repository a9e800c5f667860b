package models

import "time"

// BillableAction records one chargeable platform operation together with
// the commission snapshot taken at charge time. Once IsBilled is set the
// record is immutable.
type BillableAction struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	ActionHistoryID  string     `gorm:"type:varchar(64);default:''" json:"action_history_id"`
	ActionType       string     `gorm:"type:varchar(50);not null" json:"action_type"`
	Platform         string     `gorm:"type:varchar(20);not null" json:"platform"`
	AdSpendAmount    int64      `gorm:"not null;default:0" json:"ad_spend_amount"`
	CommissionRate   int64      `gorm:"not null" json:"commission_rate"`
	CommissionAmount int64      `gorm:"not null" json:"commission_amount"`
	IsBilled         bool       `gorm:"not null;default:false;index" json:"is_billed"`
	BilledAt         *time.Time `gorm:"type:timestamp;default:null" json:"billed_at,omitempty"`
	TransactionID    *uint      `gorm:"default:null" json:"transaction_id,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
