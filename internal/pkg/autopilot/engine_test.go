package autopilot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpilot-io/adpilot/app/models"
)

type fakeAccountRepo struct {
	accounts []models.AdAccount
	listErr  error
}

func (f *fakeAccountRepo) Create(account *models.AdAccount) error        { return nil }
func (f *fakeAccountRepo) GetByID(id uint) (*models.AdAccount, error)    { return nil, nil }
func (f *fakeAccountRepo) GetByUserID(uint) ([]models.AdAccount, error)  { return nil, nil }
func (f *fakeAccountRepo) Update(account *models.AdAccount) error        { return nil }
func (f *fakeAccountRepo) TouchLastSync(id uint, at time.Time) error     { return nil }
func (f *fakeAccountRepo) ListAutopilotEnabled() ([]models.AdAccount, error) {
	return f.accounts, f.listErr
}
func (f *fakeAccountRepo) UpdateAutopilotSettings(id uint, settings models.AutopilotSettings) error {
	return nil
}

type fakeLogRepo struct {
	entries   []models.AutopilotLog
	createErr error
}

func (f *fakeLogRepo) Create(entry *models.AutopilotLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogRepo) GetByAccountID(accountID uint, offset, limit int) ([]models.AutopilotLog, error) {
	return f.entries, nil
}
func (f *fakeLogRepo) UpdateStatus(id uint, status string) error { return nil }
func (f *fakeLogRepo) CountByStatus(accountID uint, status string) (int64, error) {
	return 0, nil
}

type fakeMetricsProvider struct {
	byAccount map[uint][]EntitySnapshot
	err       map[uint]error
}

func (f *fakeMetricsProvider) EntityMetrics(account *models.AdAccount) ([]EntitySnapshot, error) {
	if err := f.err[account.ID]; err != nil {
		return nil, err
	}
	return f.byAccount[account.ID], nil
}

type executedCall struct {
	accountID uint
	action    string
	targetID  string
}

type fakeExecutor struct {
	calls   []executedCall
	failFor map[string]error
}

func (f *fakeExecutor) Execute(account *models.AdAccount, actionType string, target Target) (string, string, error) {
	f.calls = append(f.calls, executedCall{accountID: account.ID, action: actionType, targetID: target.ID})
	if err := f.failFor[target.ID]; err != nil {
		return "", "", err
	}
	return `{"status":"ACTIVE"}`, `{"status":"PAUSED"}`, nil
}

func pauseEnabledAccount(id uint, targetCPA float64) models.AdAccount {
	return models.AdAccount{
		ID:       id,
		UserID:   1,
		Platform: models.PlatformMeta,
		IsActive: true,
		Autopilot: models.AutopilotSettings{
			TargetCPA:        targetCPA,
			AutoPauseEnabled: true,
		},
	}
}

func snapshot(id string, m Metrics) EntitySnapshot {
	return EntitySnapshot{
		Target:  Target{Type: "ad", ID: id, Name: "Ad " + id},
		Metrics: m,
	}
}

func newTestEngine(accounts *fakeAccountRepo, logs *fakeLogRepo, metrics *fakeMetricsProvider, executor *fakeExecutor) *Engine {
	return NewEngine(accounts, logs, metrics, executor).
		WithClock(func() time.Time { return time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC) })
}

func TestEvaluateAccountSkipsDisabledSettings(t *testing.T) {
	account := models.AdAccount{ID: 1, IsActive: true}
	metrics := &fakeMetricsProvider{}
	executor := &fakeExecutor{}
	engine := newTestEngine(&fakeAccountRepo{}, &fakeLogRepo{}, metrics, executor)

	actions, err := engine.EvaluateAccount(&account)
	require.NoError(t, err)
	assert.Equal(t, 0, actions)
	assert.Empty(t, executor.calls, "metrics must not even be fetched for disabled accounts")
}

func TestEvaluateAccountPausesFirstMatchOnly(t *testing.T) {
	account := pauseEnabledAccount(1, 100)
	// matches both high_cpa and low_ctr
	m := Metrics{CPA: 300, DaysHighCPA: 5, CTR: 0.001, Impressions: 10000, DaysLowCTR: 14, Spend: 9000}
	metrics := &fakeMetricsProvider{byAccount: map[uint][]EntitySnapshot{1: {snapshot("ad-1", m)}}}
	logs := &fakeLogRepo{}
	executor := &fakeExecutor{}
	engine := newTestEngine(&fakeAccountRepo{}, logs, metrics, executor)

	actions, err := engine.EvaluateAccount(&account)
	require.NoError(t, err)
	assert.Equal(t, 1, actions, "only the first matching pause rule fires per entity")

	require.Len(t, logs.entries, 1)
	entry := logs.entries[0]
	assert.Equal(t, models.AutopilotActionPauseAd, entry.ActionType)
	assert.Equal(t, "ad-1", entry.TargetID)
	assert.Equal(t, models.AutopilotStatusExecuted, entry.Status)
	assert.Equal(t, int64(300), entry.EstimatedSavings)
	assert.Contains(t, entry.Reason, "CPA 300.00")
	assert.NotEmpty(t, entry.BeforeState)
	assert.NotEmpty(t, entry.AfterState)
}

func TestEvaluateAccountBoostIsIndependentOfPause(t *testing.T) {
	account := pauseEnabledAccount(1, 100)
	account.Autopilot.AutoBoostEnabled = true
	// pause-worthy CPA and boost-worthy ROAS on the same entity
	m := Metrics{CPA: 300, DaysHighCPA: 5, ROAS: 6, Spend: 3000}
	metrics := &fakeMetricsProvider{byAccount: map[uint][]EntitySnapshot{1: {snapshot("ad-1", m)}}}
	logs := &fakeLogRepo{}
	engine := newTestEngine(&fakeAccountRepo{}, logs, metrics, &fakeExecutor{})

	actions, err := engine.EvaluateAccount(&account)
	require.NoError(t, err)
	assert.Equal(t, 2, actions)

	require.Len(t, logs.entries, 2)
	assert.Equal(t, models.AutopilotActionPauseAd, logs.entries[0].ActionType)
	assert.Equal(t, ActionIncreaseBudget20, logs.entries[1].ActionType)
	assert.Equal(t, int64(0), logs.entries[1].EstimatedSavings, "boosts do not save")
}

func TestEvaluateAccountHealthyEntitiesUntouched(t *testing.T) {
	account := pauseEnabledAccount(1, 100)
	account.Autopilot.AutoBoostEnabled = true
	m := Metrics{CPA: 90, CTR: 0.02, CTRTrend: 0.1, ROAS: 2, Spend: 500, Impressions: 50000}
	metrics := &fakeMetricsProvider{byAccount: map[uint][]EntitySnapshot{1: {snapshot("ad-1", m)}}}
	logs := &fakeLogRepo{}
	executor := &fakeExecutor{}
	engine := newTestEngine(&fakeAccountRepo{}, logs, metrics, executor)

	actions, err := engine.EvaluateAccount(&account)
	require.NoError(t, err)
	assert.Equal(t, 0, actions)
	assert.Empty(t, logs.entries)
	assert.Empty(t, executor.calls)
}

func TestFireRecordsExecutorFailure(t *testing.T) {
	account := pauseEnabledAccount(1, 100)
	m := Metrics{CPA: 300, DaysHighCPA: 5, Spend: 6000}
	metrics := &fakeMetricsProvider{byAccount: map[uint][]EntitySnapshot{1: {
		snapshot("ad-1", m),
		snapshot("ad-2", m),
	}}}
	logs := &fakeLogRepo{}
	executor := &fakeExecutor{failFor: map[string]error{"ad-1": errors.New("platform API 500")}}
	engine := newTestEngine(&fakeAccountRepo{}, logs, metrics, executor)

	actions, err := engine.EvaluateAccount(&account)
	require.NoError(t, err, "an executor failure must not abort the evaluation")
	assert.Equal(t, 2, actions)

	require.Len(t, logs.entries, 2)
	assert.Equal(t, models.AutopilotStatusFailed, logs.entries[0].Status)
	assert.Equal(t, models.AutopilotStatusExecuted, logs.entries[1].Status)
	assert.Len(t, executor.calls, 2, "remaining entities are still processed")
}

func TestRunCycleIsolatesAccountFailures(t *testing.T) {
	m := Metrics{CPA: 300, DaysHighCPA: 5, Spend: 3000}
	accounts := &fakeAccountRepo{accounts: []models.AdAccount{
		pauseEnabledAccount(1, 100),
		pauseEnabledAccount(2, 100),
		pauseEnabledAccount(3, 100),
	}}
	metrics := &fakeMetricsProvider{
		byAccount: map[uint][]EntitySnapshot{
			1: {snapshot("ad-1", m)},
			3: {snapshot("ad-3", m)},
		},
		err: map[uint]error{2: errors.New("metrics store unavailable")},
	}
	logs := &fakeLogRepo{}
	engine := newTestEngine(accounts, logs, metrics, &fakeExecutor{})

	summary, err := engine.RunCycle()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalAccounts)
	assert.Equal(t, 2, summary.ActionsTaken)
	assert.Equal(t, 1, summary.Errors)
	assert.NotEmpty(t, summary.CycleID)
	assert.Len(t, logs.entries, 2)
}

func TestRunCycleListFailure(t *testing.T) {
	accounts := &fakeAccountRepo{listErr: errors.New("db down")}
	engine := newTestEngine(accounts, &fakeLogRepo{}, &fakeMetricsProvider{}, &fakeExecutor{})

	_, err := engine.RunCycle()
	assert.Error(t, err)
}
