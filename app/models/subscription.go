package models

import "time"

const (
	PlanFree   = "free"
	PlanPro    = "pro"
	PlanAgency = "agency"
)

// QuotaUnlimited marks an AI quota field as having no ceiling.
const QuotaUnlimited = -1

// Subscription stores the billing plan state for one user. Commission
// rates are per-mille (1000 = 100%), fees are minor currency units.
type Subscription struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	UserID                  uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Plan                    string    `gorm:"type:varchar(50);not null;default:'free'" json:"plan"`
	MonthlyFee              int64     `gorm:"not null;default:0" json:"monthly_fee"`
	CommissionRate          int64     `gorm:"not null;default:1000" json:"commission_rate"`
	MonthlyCopywritingQuota int       `gorm:"not null;default:0" json:"monthly_copywriting_quota"`
	MonthlyImageQuota       int       `gorm:"not null;default:0" json:"monthly_image_quota"`
	MonthlyCopywritingUsed  int       `gorm:"not null;default:0" json:"monthly_copywriting_used"`
	MonthlyImageUsed        int       `gorm:"not null;default:0" json:"monthly_image_used"`
	QuotaResetAt            time.Time `gorm:"type:timestamp;not null" json:"quota_reset_at"`
	IsActive                bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt               time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasCopywritingQuota reports whether another copywriting generation is
// allowed under the current cycle usage.
func (s *Subscription) HasCopywritingQuota() bool {
	return s.MonthlyCopywritingQuota == QuotaUnlimited || s.MonthlyCopywritingUsed < s.MonthlyCopywritingQuota
}

// HasImageQuota reports whether another image generation is allowed under
// the current cycle usage.
func (s *Subscription) HasImageQuota() bool {
	return s.MonthlyImageQuota == QuotaUnlimited || s.MonthlyImageUsed < s.MonthlyImageQuota
}
