package models

import "time"

const (
	AutopilotStatusExecuted = "executed"
	AutopilotStatusPending  = "pending"
	AutopilotStatusFailed   = "failed"
)

const (
	AutopilotActionPauseAd       = "pause_ad"
	AutopilotActionPauseCreative = "pause_creative"
	AutopilotActionAdjustBudget  = "adjust_budget"
	AutopilotActionBoostBudget   = "boost_budget"
)

// AutopilotLog is the immutable execution record for one autopilot rule
// firing. Only Status may change afterwards, on async completion.
type AutopilotLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AdAccountID      uint      `gorm:"not null;index" json:"ad_account_id"`
	ActionType       string    `gorm:"type:varchar(50);not null" json:"action_type"`
	TargetType       string    `gorm:"type:varchar(30);not null" json:"target_type"`
	TargetID         string    `gorm:"type:varchar(64);not null" json:"target_id"`
	TargetName       string    `gorm:"type:varchar(255)" json:"target_name"`
	Reason           string    `gorm:"type:text" json:"reason"`
	BeforeState      string    `gorm:"type:longtext" json:"before_state"`
	AfterState       string    `gorm:"type:longtext" json:"after_state"`
	EstimatedSavings int64     `gorm:"not null;default:0" json:"estimated_savings"`
	Status           string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ExecutedAt       time.Time `gorm:"type:timestamp;not null" json:"executed_at"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}
