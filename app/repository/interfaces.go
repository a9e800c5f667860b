package repository

import (
	"time"

	"github.com/adpilot-io/adpilot/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	UpdateUsageCounters(userID uint, actionCount *int, actionResetAt *time.Time, suggestionCount *int, suggestionResetAt *time.Time) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// AdAccountRepository defines the interface for connected ad-account operations
type AdAccountRepository interface {
	Create(account *models.AdAccount) error
	GetByID(id uint) (*models.AdAccount, error)
	GetByUserID(userID uint) ([]models.AdAccount, error)
	ListAutopilotEnabled() ([]models.AdAccount, error)
	Update(account *models.AdAccount) error
	UpdateAutopilotSettings(id uint, settings models.AutopilotSettings) error
	TouchLastSync(id uint, at time.Time) error
}

// AutopilotLogRepository defines the interface for autopilot execution records
type AutopilotLogRepository interface {
	Create(entry *models.AutopilotLog) error
	GetByAccountID(accountID uint, offset, limit int) ([]models.AutopilotLog, error)
	UpdateStatus(id uint, status string) error
	CountByStatus(accountID uint, status string) (int64, error)
}
