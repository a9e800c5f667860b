package models

import "time"

const (
	PlatformMeta     = "meta"
	PlatformGoogle   = "google"
	PlatformLinkedIn = "linkedin"
	PlatformTikTok   = "tiktok"
	PlatformReddit   = "reddit"
	PlatformLine     = "line"
)

// AutopilotSettings is the per-account autopilot configuration. It is
// read-only input to the rule engine and only changed through an explicit
// user settings update.
type AutopilotSettings struct {
	TargetCPA               float64 `gorm:"default:0" json:"target_cpa"`
	MonthlyBudget           int64   `gorm:"default:0" json:"monthly_budget"`
	GoalType                string  `gorm:"type:varchar(30);default:''" json:"goal_type"`
	AutoPauseEnabled        bool    `gorm:"default:false" json:"auto_pause_enabled"`
	AutoAdjustBudgetEnabled bool    `gorm:"default:false" json:"auto_adjust_budget_enabled"`
	AutoBoostEnabled        bool    `gorm:"default:false" json:"auto_boost_enabled"`
	NotifyBeforeAction      bool    `gorm:"default:false" json:"notify_before_action"`
}

// HasTargetCPA reports whether a target CPA has been configured.
func (s AutopilotSettings) HasTargetCPA() bool {
	return s.TargetCPA > 0
}

// AdAccount is one connected advertising platform account.
type AdAccount struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	Platform   string            `gorm:"type:varchar(20);not null;index" json:"platform"`
	ExternalID string            `gorm:"type:varchar(100);not null;index" json:"external_id"`
	Name       string            `gorm:"type:varchar(255)" json:"name"`
	IsActive   bool              `gorm:"not null;default:true;index" json:"is_active"`
	Autopilot  AutopilotSettings `gorm:"embedded;embeddedPrefix:autopilot_" json:"autopilot"`
	LastSyncAt *time.Time        `gorm:"type:timestamp;default:null" json:"last_sync_at,omitempty"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}
