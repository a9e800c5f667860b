package autopilot

import (
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/adpilot-io/adpilot/app/models"
	"github.com/adpilot-io/adpilot/app/repository"
)

// Target identifies the ad or creative a rule action applies to.
type Target struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntitySnapshot is one monitored entity with its current metrics.
type EntitySnapshot struct {
	Target  Target
	Metrics Metrics
}

// MetricsProvider fetches current metrics for every monitored entity of
// an ad account. Implemented by the platform sync layer.
type MetricsProvider interface {
	EntityMetrics(account *models.AdAccount) ([]EntitySnapshot, error)
}

// ActionExecutor performs a rule action against the live platform and
// returns the before/after state snapshots. Implemented by the per-platform
// API adapters.
type ActionExecutor interface {
	Execute(account *models.AdAccount, actionType string, target Target) (beforeState, afterState string, err error)
}

// CycleSummary aggregates one evaluation pass over all enabled accounts.
type CycleSummary struct {
	CycleID       string `json:"cycle_id"`
	TotalAccounts int    `json:"total_accounts"`
	ActionsTaken  int    `json:"actions_taken"`
	Errors        int    `json:"errors"`
}

// Engine evaluates autopilot rules per account and records every fired
// action as an immutable log row. It is stateless between cycles.
type Engine struct {
	accounts repository.AdAccountRepository
	logs     repository.AutopilotLogRepository
	metrics  MetricsProvider
	executor ActionExecutor
	now      func() time.Time
}

// NewEngine wires the rule engine to its collaborators.
func NewEngine(accounts repository.AdAccountRepository, logs repository.AutopilotLogRepository, metrics MetricsProvider, executor ActionExecutor) *Engine {
	return &Engine{
		accounts: accounts,
		logs:     logs,
		metrics:  metrics,
		executor: executor,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// RunCycle evaluates every autopilot-enabled account. One account's
// failure is isolated from the others and counted in the summary.
func (e *Engine) RunCycle() (CycleSummary, error) {
	accounts, err := e.accounts.ListAutopilotEnabled()
	if err != nil {
		return CycleSummary{}, err
	}

	summary := CycleSummary{CycleID: uuid.NewString(), TotalAccounts: len(accounts)}
	log.Infof("[Autopilot] cycle %s: evaluating %d accounts", summary.CycleID, summary.TotalAccounts)

	for i := range accounts {
		actions, err := e.EvaluateAccount(&accounts[i])
		if err != nil {
			summary.Errors++
			log.Errorf("[Autopilot] cycle %s: account %d failed: %v", summary.CycleID, accounts[i].ID, err)
			continue
		}
		summary.ActionsTaken += actions
	}

	log.Infof("[Autopilot] cycle %s done: %d actions, %d errors", summary.CycleID, summary.ActionsTaken, summary.Errors)
	return summary, nil
}

// EvaluateAccount runs one evaluation pass for a single account and
// returns the number of actions taken. Pause rules are tested in declared
// order and only the first match fires per entity; boost rules are tested
// independently, so one entity may receive both a pause and a boost in
// the same cycle.
func (e *Engine) EvaluateAccount(account *models.AdAccount) (int, error) {
	settings := account.Autopilot
	if !settings.AutoPauseEnabled && !settings.AutoBoostEnabled {
		return 0, nil
	}

	snapshots, err := e.metrics.EntityMetrics(account)
	if err != nil {
		return 0, err
	}

	actions := 0
	for _, snap := range snapshots {
		if settings.AutoPauseEnabled {
			if rule := firstMatchingPauseRule(snap.Metrics, settings); rule != nil {
				e.fire(account, rule, snap)
				actions++
			}
		}
		if settings.AutoBoostEnabled {
			for _, rule := range matchingBoostRules(snap.Metrics, settings) {
				e.fire(account, rule, snap)
				actions++
			}
		}
	}
	return actions, nil
}

// fire executes one rule action and appends the log row. An executor
// failure is recorded with status failed; it never aborts the cycle, so
// the audit trail is preserved either way.
func (e *Engine) fire(account *models.AdAccount, rule *Rule, snap EntitySnapshot) {
	before, after, execErr := e.executor.Execute(account, rule.Action, snap.Target)

	status := models.AutopilotStatusExecuted
	if execErr != nil {
		status = models.AutopilotStatusFailed
		log.Errorf("[Autopilot] account %d: %s on %s %s failed: %v",
			account.ID, rule.Action, snap.Target.Type, snap.Target.ID, execErr)
	}

	entry := &models.AutopilotLog{
		AdAccountID:      account.ID,
		ActionType:       rule.Action,
		TargetType:       snap.Target.Type,
		TargetID:         snap.Target.ID,
		TargetName:       snap.Target.Name,
		Reason:           formatReason(rule.ReasonTemplate, snap.Metrics),
		BeforeState:      before,
		AfterState:       after,
		EstimatedSavings: estimatedSavings(rule, snap.Metrics),
		Status:           status,
		ExecutedAt:       e.now(),
	}
	if err := e.logs.Create(entry); err != nil {
		log.Errorf("[Autopilot] account %d: failed to persist log for rule %s: %v", account.ID, rule.Name, err)
	}
}

// estimatedSavings approximates one day of the entity's recent spend for
// pause actions. Boosts spend more, they do not save.
func estimatedSavings(rule *Rule, m Metrics) int64 {
	switch rule.Action {
	case models.AutopilotActionPauseAd, models.AutopilotActionPauseCreative:
		return int64(m.Spend / 30)
	default:
		return 0
	}
}
