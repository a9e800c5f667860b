package billing

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// BatchSummary aggregates the outcome of one scheduled billing run.
// Per-user failures are counted, never raised, so one user with an empty
// wallet cannot abort the whole batch.
type BatchSummary struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// ChargeMonthlyFees attempts the subscription fee charge for every active
// subscription. Failures are isolated per user and aggregated.
func (s *Service) ChargeMonthlyFees() (BatchSummary, error) {
	subs, err := s.repo.ListActiveSubscriptions()
	if err != nil {
		return BatchSummary{}, err
	}

	summary := BatchSummary{RunID: uuid.NewString(), Total: len(subs)}
	log.Infof("[Billing] Monthly fee run %s: %d active subscriptions", summary.RunID, summary.Total)

	for _, sub := range subs {
		charged, err := s.ChargeSubscriptionFee(sub.UserID)
		if err != nil {
			summary.Failed++
			log.Errorf("[Billing] run %s: fee charge errored for user %d: %v", summary.RunID, sub.UserID, err)
			continue
		}
		if !charged {
			summary.Failed++
			log.Warnf("[Billing] run %s: insufficient balance for user %d (plan %s)", summary.RunID, sub.UserID, sub.Plan)
			continue
		}
		summary.Succeeded++
	}

	log.Infof("[Billing] run %s done: %d charged, %d failed", summary.RunID, summary.Succeeded, summary.Failed)
	return summary, nil
}

// ResetAllMonthlyQuotas zeroes AI usage counters for every active
// subscription at the start of a billing cycle.
func (s *Service) ResetAllMonthlyQuotas() (BatchSummary, error) {
	subs, err := s.repo.ListActiveSubscriptions()
	if err != nil {
		return BatchSummary{}, err
	}

	summary := BatchSummary{RunID: uuid.NewString(), Total: len(subs)}
	for _, sub := range subs {
		if err := s.ResetMonthlyQuotas(sub.UserID); err != nil {
			summary.Failed++
			log.Errorf("[Billing] quota reset %s: user %d: %v", summary.RunID, sub.UserID, err)
			continue
		}
		summary.Succeeded++
	}

	log.Infof("[Billing] quota reset %s done: %d reset, %d failed", summary.RunID, summary.Succeeded, summary.Failed)
	return summary, nil
}
