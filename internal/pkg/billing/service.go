package billing

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/adpilot-io/adpilot/app/models"
	"github.com/adpilot-io/adpilot/internal/pkg/ledger"
)

var (
	// ErrUnknownPlan is returned for plan names missing from the pricing table.
	ErrUnknownPlan = errors.New("billing: unknown plan")

	// ErrQuotaExceeded is returned when a monthly AI quota is used up.
	ErrQuotaExceeded = errors.New("billing: monthly quota exceeded")
)

// Service sequences subscription lifecycle events against the ledger. It
// owns no storage beyond the subscription and billable-action rows it
// mutates; money always moves through the ledger service.
type Service struct {
	repo   Repository
	ledger *ledger.Service
	now    func() time.Time
}

// NewService creates a billing service from an injected repository and
// ledger.
func NewService(repo Repository, ledgerSvc *ledger.Service) *Service {
	return &Service{repo: repo, ledger: ledgerSvc, now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), ledger.NewServiceFromDB(db))
}

// WithClock replaces the time source. Used by tests to simulate billing
// cycle boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetOrCreateSubscription returns the user's subscription, creating a
// free-plan one on first access.
func (s *Service) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscription(userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	free := DefaultPlan()
	sub = &models.Subscription{
		UserID:                  userID,
		Plan:                    free.Name,
		MonthlyFee:              free.MonthlyFee,
		CommissionRate:          free.CommissionRate,
		MonthlyCopywritingQuota: free.CopywritingQuota,
		MonthlyImageQuota:       free.ImageQuota,
		QuotaResetAt:            s.now(),
		IsActive:                true,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpgradePlan overwrites plan, fee, commission rate and quota ceilings
// from the pricing table. Usage counters are untouched and no charge
// happens here; charging is deferred to the scheduled billing job.
func (s *Service) UpgradePlan(userID uint, planName string) (*models.Subscription, error) {
	spec, ok := PlanByName(planName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, planName)
	}

	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return nil, err
	}

	sub.Plan = spec.Name
	sub.MonthlyFee = spec.MonthlyFee
	sub.CommissionRate = spec.CommissionRate
	sub.MonthlyCopywritingQuota = spec.CopywritingQuota
	sub.MonthlyImageQuota = spec.ImageQuota
	if err := s.repo.SaveSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ChargeSubscriptionFee debits the monthly fee from the wallet. A free
// plan always reports success. Insufficient balance (or a missing wallet)
// reports false without an error so the monthly batch can continue with
// other users; unexpected storage errors are returned as errors.
func (s *Service) ChargeSubscriptionFee(userID uint) (bool, error) {
	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return false, err
	}
	if sub.MonthlyFee == 0 {
		return true, nil
	}

	_, err = s.ledger.Debit(
		userID,
		sub.MonthlyFee,
		models.TransactionTypeSubscriptionFee,
		fmt.Sprintf("Monthly subscription fee (%s)", sub.Plan),
		strconv.FormatUint(uint64(sub.ID), 10),
		"subscription",
	)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) || errors.Is(err, ledger.ErrWalletNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ResetMonthlyQuotas zeroes the AI usage counters for a new billing
// cycle. Quota ceilings are not altered.
func (s *Service) ResetMonthlyQuotas(userID uint) error {
	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return err
	}

	sub.MonthlyCopywritingUsed = 0
	sub.MonthlyImageUsed = 0
	sub.QuotaResetAt = s.now()
	return s.repo.SaveSubscription(sub)
}

// RecordBillableAction creates the billable-action record and debits the
// commission from the wallet. On insufficient balance the record stays
// is_billed=false and the ledger error propagates, so charge attempts are
// never silently dropped.
func (s *Service) RecordBillableAction(userID uint, actionType, platform, actionHistoryID string, adSpendAmount int64) (*models.BillableAction, error) {
	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return nil, err
	}

	commission := int64(0)
	if IsBillableAction(actionType) {
		commission = CalculateCommission(adSpendAmount, sub.CommissionRate)
	}

	action := &models.BillableAction{
		UserID:           userID,
		ActionHistoryID:  actionHistoryID,
		ActionType:       actionType,
		Platform:         platform,
		AdSpendAmount:    adSpendAmount,
		CommissionRate:   sub.CommissionRate,
		CommissionAmount: commission,
	}
	if err := s.repo.CreateBillableAction(action); err != nil {
		return nil, err
	}

	billedAt := s.now()
	if commission == 0 {
		if err := s.repo.MarkActionBilled(action.ID, nil, billedAt); err != nil {
			return action, err
		}
		action.IsBilled = true
		action.BilledAt = &billedAt
		return action, nil
	}

	tx, err := s.ledger.Debit(
		userID,
		commission,
		models.TransactionTypeActionFee,
		fmt.Sprintf("Commission for %s on %s", actionType, platform),
		strconv.FormatUint(uint64(action.ID), 10),
		"billable_action",
	)
	if err != nil {
		return action, err
	}

	if err := s.repo.MarkActionBilled(action.ID, &tx.ID, billedAt); err != nil {
		return action, err
	}
	action.IsBilled = true
	action.BilledAt = &billedAt
	action.TransactionID = &tx.ID
	return action, nil
}

// ConsumeAIQuota spends one unit of the given AI quota kind
// (models.TransactionTypeAICopywriting or models.TransactionTypeAIImage)
// against the subscription's monthly allowance.
func (s *Service) ConsumeAIQuota(userID uint, kind string) error {
	sub, err := s.GetOrCreateSubscription(userID)
	if err != nil {
		return err
	}

	switch kind {
	case models.TransactionTypeAICopywriting:
		if !sub.HasCopywritingQuota() {
			return ErrQuotaExceeded
		}
		sub.MonthlyCopywritingUsed++
	case models.TransactionTypeAIImage:
		if !sub.HasImageQuota() {
			return ErrQuotaExceeded
		}
		sub.MonthlyImageUsed++
	default:
		return fmt.Errorf("billing: unknown AI quota kind %q", kind)
	}
	return s.repo.SaveSubscription(sub)
}
