package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/adpilot-io/adpilot/app/models"
)

// adAccountRepository implements the AdAccountRepository interface
type adAccountRepository struct {
	db *gorm.DB
}

// NewAdAccountRepository creates a new ad-account repository instance
func NewAdAccountRepository(db *gorm.DB) AdAccountRepository {
	return &adAccountRepository{db: db}
}

func (r *adAccountRepository) Create(account *models.AdAccount) error {
	return r.db.Create(account).Error
}

func (r *adAccountRepository) GetByID(id uint) (*models.AdAccount, error) {
	var account models.AdAccount
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *adAccountRepository) GetByUserID(userID uint) ([]models.AdAccount, error) {
	var accounts []models.AdAccount
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

// ListAutopilotEnabled returns active accounts with at least one autopilot
// toggle on; these are the accounts an evaluation cycle visits.
func (r *adAccountRepository) ListAutopilotEnabled() ([]models.AdAccount, error) {
	var accounts []models.AdAccount
	err := r.db.
		Where("is_active = ?", true).
		Where("autopilot_auto_pause_enabled = ? OR autopilot_auto_boost_enabled = ? OR autopilot_auto_adjust_budget_enabled = ?", true, true, true).
		Order("id ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *adAccountRepository) Update(account *models.AdAccount) error {
	return r.db.Save(account).Error
}

// UpdateAutopilotSettings overwrites only the embedded autopilot settings.
func (r *adAccountRepository) UpdateAutopilotSettings(id uint, settings models.AutopilotSettings) error {
	updates := map[string]interface{}{
		"autopilot_target_cpa":                 settings.TargetCPA,
		"autopilot_monthly_budget":             settings.MonthlyBudget,
		"autopilot_goal_type":                  settings.GoalType,
		"autopilot_auto_pause_enabled":         settings.AutoPauseEnabled,
		"autopilot_auto_adjust_budget_enabled": settings.AutoAdjustBudgetEnabled,
		"autopilot_auto_boost_enabled":         settings.AutoBoostEnabled,
		"autopilot_notify_before_action":       settings.NotifyBeforeAction,
	}
	return r.db.Model(&models.AdAccount{}).Where("id = ?", id).Updates(updates).Error
}

func (r *adAccountRepository) TouchLastSync(id uint, at time.Time) error {
	return r.db.Model(&models.AdAccount{}).Where("id = ?", id).Update("last_sync_at", &at).Error
}
