package repository

import (
	"gorm.io/gorm"

	"github.com/adpilot-io/adpilot/app/models"
)

// autopilotLogRepository implements the AutopilotLogRepository interface
type autopilotLogRepository struct {
	db *gorm.DB
}

// NewAutopilotLogRepository creates a new autopilot log repository instance
func NewAutopilotLogRepository(db *gorm.DB) AutopilotLogRepository {
	return &autopilotLogRepository{db: db}
}

func (r *autopilotLogRepository) Create(entry *models.AutopilotLog) error {
	return r.db.Create(entry).Error
}

func (r *autopilotLogRepository) GetByAccountID(accountID uint, offset, limit int) ([]models.AutopilotLog, error) {
	var entries []models.AutopilotLog
	err := r.db.Where("ad_account_id = ?", accountID).
		Order("executed_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, err
}

// UpdateStatus is the only permitted mutation on a log row, used when an
// async platform call completes.
func (r *autopilotLogRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.AutopilotLog{}).Where("id = ?", id).Update("status", status).Error
}

func (r *autopilotLogRepository) CountByStatus(accountID uint, status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AutopilotLog{}).
		Where("ad_account_id = ? AND status = ?", accountID, status).
		Count(&count).Error
	return count, err
}
