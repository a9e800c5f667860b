package billing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adpilot-io/adpilot/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetSubscription(userID uint) (*models.Subscription, error)
	CreateSubscription(sub *models.Subscription) error
	SaveSubscription(sub *models.Subscription) error
	ListActiveSubscriptions() ([]models.Subscription, error)
	CreateBillableAction(action *models.BillableAction) error
	MarkActionBilled(actionID uint, transactionID *uint, billedAt time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription ignores duplicate-key conflicts on user_id and
// re-reads, so concurrent first-access callers converge on one row.
func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(sub).Error; err != nil {
		return err
	}

	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) ListActiveSubscriptions() ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("is_active = ?", true).Order("user_id ASC").Find(&subs).Error
	return subs, err
}

func (r *gormRepository) CreateBillableAction(action *models.BillableAction) error {
	return r.db.Create(action).Error
}

func (r *gormRepository) MarkActionBilled(actionID uint, transactionID *uint, billedAt time.Time) error {
	updates := map[string]interface{}{
		"is_billed":      true,
		"billed_at":      &billedAt,
		"transaction_id": transactionID,
	}
	return r.db.Model(&models.BillableAction{}).
		Where("id = ? AND is_billed = ?", actionID, false).
		Updates(updates).Error
}
