package billing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adpilot-io/adpilot/app/models"
	"github.com/adpilot-io/adpilot/internal/pkg/ledger"
)

type fakeBillingRepository struct {
	mu     sync.Mutex
	nextID uint
	subs   map[uint]*models.Subscription
	acts   map[uint]*models.BillableAction

	saveErrForUser map[uint]error
}

func newFakeBillingRepository() *fakeBillingRepository {
	return &fakeBillingRepository{
		nextID:         1,
		subs:           make(map[uint]*models.Subscription),
		acts:           make(map[uint]*models.BillableAction),
		saveErrForUser: make(map[uint]error),
	}
}

func (f *fakeBillingRepository) GetSubscription(userID uint) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeBillingRepository) CreateSubscription(sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.subs[sub.UserID]; ok {
		*sub = *existing
		return nil
	}
	sub.ID = f.nextID
	f.nextID++
	cp := *sub
	f.subs[sub.UserID] = &cp
	return nil
}

func (f *fakeBillingRepository) SaveSubscription(sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.saveErrForUser[sub.UserID]; err != nil {
		return err
	}
	cp := *sub
	f.subs[sub.UserID] = &cp
	return nil
}

func (f *fakeBillingRepository) ListActiveSubscriptions() ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subscription
	for _, sub := range f.subs {
		if sub.IsActive {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeBillingRepository) CreateBillableAction(action *models.BillableAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	action.ID = f.nextID
	f.nextID++
	cp := *action
	f.acts[action.ID] = &cp
	return nil
}

func (f *fakeBillingRepository) MarkActionBilled(actionID uint, transactionID *uint, billedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	action, ok := f.acts[actionID]
	if !ok || action.IsBilled {
		return nil
	}
	action.IsBilled = true
	action.BilledAt = &billedAt
	action.TransactionID = transactionID
	return nil
}

func (f *fakeBillingRepository) storedAction(id uint) models.BillableAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.acts[id]
}

// fakeLedgerRepository backs a real ledger.Service with in-memory storage.
type fakeLedgerRepository struct {
	mu      sync.Mutex
	nextID  uint
	wallets map[uint]*models.Wallet
	entries map[uint][]models.WalletTransaction
}

func newFakeLedgerRepository() *fakeLedgerRepository {
	return &fakeLedgerRepository{
		nextID:  1,
		wallets: make(map[uint]*models.Wallet),
		entries: make(map[uint][]models.WalletTransaction),
	}
}

func (f *fakeLedgerRepository) GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.walletLocked(userID)
	return &cp, nil
}

func (f *fakeLedgerRepository) GetWallet(userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeLedgerRepository) Credit(userID uint, e ledger.Entry) (*models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.walletLocked(userID)
	w.Balance += e.Amount
	return f.appendLocked(w, e, e.Amount), nil
}

func (f *fakeLedgerRepository) Debit(userID uint, e ledger.Entry) (*models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok {
		return nil, ledger.ErrWalletNotFound
	}
	if w.Balance < e.Amount {
		return nil, ledger.ErrInsufficientBalance
	}
	w.Balance -= e.Amount
	return f.appendLocked(w, e, -e.Amount), nil
}

func (f *fakeLedgerRepository) History(userID uint, limit int) ([]models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok {
		return []models.WalletTransaction{}, nil
	}
	all := f.entries[w.ID]
	out := make([]models.WalletTransaction, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakeLedgerRepository) walletLocked(userID uint) *models.Wallet {
	if w, ok := f.wallets[userID]; ok {
		return w
	}
	w := &models.Wallet{ID: f.nextID, UserID: userID}
	f.nextID++
	f.wallets[userID] = w
	return w
}

func (f *fakeLedgerRepository) appendLocked(w *models.Wallet, e ledger.Entry, signed int64) *models.WalletTransaction {
	entry := models.WalletTransaction{
		ID:            f.nextID,
		WalletID:      w.ID,
		Type:          e.Type,
		Amount:        signed,
		BalanceAfter:  w.Balance,
		Description:   e.Description,
		ReferenceID:   e.ReferenceID,
		ReferenceType: e.ReferenceType,
	}
	f.nextID++
	f.entries[w.ID] = append(f.entries[w.ID], entry)
	cp := entry
	return &cp
}

func newTestService() (*Service, *fakeBillingRepository, *ledger.Service) {
	repo := newFakeBillingRepository()
	ledgerSvc := ledger.NewService(newFakeLedgerRepository())
	return NewService(repo, ledgerSvc), repo, ledgerSvc
}

func TestGetOrCreateSubscriptionStartsOnFree(t *testing.T) {
	svc, _, _ := newTestService()

	sub, err := svc.GetOrCreateSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, int64(0), sub.MonthlyFee)
	assert.Equal(t, int64(1000), sub.CommissionRate)
	assert.True(t, sub.IsActive)

	again, err := svc.GetOrCreateSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
}

func TestUpgradePlanKeepsUsageCounters(t *testing.T) {
	svc, repo, _ := newTestService()

	sub, err := svc.GetOrCreateSubscription(1)
	require.NoError(t, err)
	sub.MonthlyCopywritingUsed = 7
	require.NoError(t, repo.SaveSubscription(sub))

	upgraded, err := svc.UpgradePlan(1, models.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, upgraded.Plan)
	assert.Equal(t, int64(1500), upgraded.MonthlyFee)
	assert.Equal(t, int64(500), upgraded.CommissionRate)
	assert.Equal(t, 50, upgraded.MonthlyCopywritingQuota)
	assert.Equal(t, 7, upgraded.MonthlyCopywritingUsed, "usage counters survive an upgrade")
}

func TestUpgradePlanUnknownPlan(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpgradePlan(1, "enterprise")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestChargeSubscriptionFeeFreePlanAlwaysSucceeds(t *testing.T) {
	svc, _, _ := newTestService()

	// no wallet exists, yet a free plan charge reports success
	charged, err := svc.ChargeSubscriptionFee(1)
	require.NoError(t, err)
	assert.True(t, charged)
}

func TestChargeSubscriptionFeeInsufficientBalanceIsSoftFailure(t *testing.T) {
	svc, _, ledgerSvc := newTestService()

	_, err := svc.UpgradePlan(1, models.PlanPro)
	require.NoError(t, err)
	_, err = ledgerSvc.Deposit(1, 1000, "topup")
	require.NoError(t, err)

	charged, err := svc.ChargeSubscriptionFee(1)
	require.NoError(t, err)
	assert.False(t, charged)

	balance, err := ledgerSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance, "failed charge must not touch the balance")
}

func TestSubscriptionLifecycle(t *testing.T) {
	svc, _, ledgerSvc := newTestService()

	_, err := ledgerSvc.Deposit(1, 2000, "initial topup")
	require.NoError(t, err)

	_, err = svc.UpgradePlan(1, models.PlanPro)
	require.NoError(t, err)

	charged, err := svc.ChargeSubscriptionFee(1)
	require.NoError(t, err)
	assert.True(t, charged)

	balance, err := ledgerSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	history, err := ledgerSvc.GetHistory(1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.TransactionTypeSubscriptionFee, history[0].Type)
	assert.Equal(t, int64(-1500), history[0].Amount)
	assert.Equal(t, models.TransactionTypeDeposit, history[1].Type)
	assert.Equal(t, int64(2000), history[1].Amount)
}

func TestRecordBillableActionChargesCommission(t *testing.T) {
	svc, repo, ledgerSvc := newTestService()

	_, err := ledgerSvc.Deposit(1, 10000, "topup")
	require.NoError(t, err)
	_, err = svc.UpgradePlan(1, models.PlanAgency)
	require.NoError(t, err)

	action, err := svc.RecordBillableAction(1, ActionCampaignCreate, models.PlatformMeta, "hist-1", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(300), action.CommissionRate)
	assert.Equal(t, int64(3000), action.CommissionAmount)
	assert.True(t, action.IsBilled)
	require.NotNil(t, action.TransactionID)

	balance, err := ledgerSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), balance)

	stored := repo.storedAction(action.ID)
	assert.True(t, stored.IsBilled)
	assert.NotNil(t, stored.BilledAt)
}

func TestRecordBillableActionNonBillableIsFree(t *testing.T) {
	svc, _, ledgerSvc := newTestService()

	action, err := svc.RecordBillableAction(1, ActionStatusToggle, models.PlatformGoogle, "hist-2", 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), action.CommissionAmount)
	assert.True(t, action.IsBilled, "zero-commission actions are settled immediately")
	assert.Nil(t, action.TransactionID)

	balance, err := ledgerSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestRecordBillableActionInsufficientBalanceKeepsUnbilledRecord(t *testing.T) {
	svc, repo, ledgerSvc := newTestService()

	_, err := ledgerSvc.Deposit(1, 100, "topup")
	require.NoError(t, err)

	// free plan: 1000 per-mille of 5000 is 5000, far above the balance
	action, err := svc.RecordBillableAction(1, ActionAdCreate, models.PlatformMeta, "hist-3", 5000)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	require.NotNil(t, action, "the action record survives a failed charge")

	stored := repo.storedAction(action.ID)
	assert.False(t, stored.IsBilled)
	assert.Nil(t, stored.TransactionID)
	assert.Equal(t, int64(5000), stored.CommissionAmount)

	balance, err := ledgerSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestConsumeAIQuota(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpgradePlan(1, models.PlanPro)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.ConsumeAIQuota(1, models.TransactionTypeAIImage))
	}
	err = svc.ConsumeAIQuota(1, models.TransactionTypeAIImage)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// copywriting quota is independent of the exhausted image quota
	require.NoError(t, svc.ConsumeAIQuota(1, models.TransactionTypeAICopywriting))
}

func TestConsumeAIQuotaUnlimited(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpgradePlan(1, models.PlanAgency)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.NoError(t, svc.ConsumeAIQuota(1, models.TransactionTypeAICopywriting))
	}
}

func TestConsumeAIQuotaUnknownKind(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.ConsumeAIQuota(1, "ai_video")
	assert.Error(t, err)
}

func TestResetMonthlyQuotas(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	repo := newFakeBillingRepository()
	svc := NewService(repo, ledger.NewService(newFakeLedgerRepository())).
		WithClock(func() time.Time { return now })

	_, err := svc.UpgradePlan(1, models.PlanPro)
	require.NoError(t, err)
	require.NoError(t, svc.ConsumeAIQuota(1, models.TransactionTypeAICopywriting))
	require.NoError(t, svc.ConsumeAIQuota(1, models.TransactionTypeAIImage))

	require.NoError(t, svc.ResetMonthlyQuotas(1))

	sub, err := svc.GetOrCreateSubscription(1)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.MonthlyCopywritingUsed)
	assert.Equal(t, 0, sub.MonthlyImageUsed)
	assert.Equal(t, now, sub.QuotaResetAt)
	assert.Equal(t, 50, sub.MonthlyCopywritingQuota, "quota ceilings stay untouched")
}
