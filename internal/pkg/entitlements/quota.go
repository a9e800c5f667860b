package entitlements

import "time"

// Monthly limit tables. A nil entry means the tier is unlimited.
var (
	actionLimits = map[Tier]*int{
		TierStarter:      intPtr(10),
		TierProfessional: nil,
		TierAgency:       nil,
		TierEnterprise:   nil,
	}

	suggestionLimits = map[Tier]*int{
		TierStarter:      intPtr(3),
		TierProfessional: intPtr(5),
		TierAgency:       nil,
		TierEnterprise:   nil,
	}
)

func intPtr(v int) *int { return &v }

// QuotaDecision is the outcome of a quota check. Remaining is nil for
// unlimited tiers. CurrentCount reflects the lazy monthly reset: a count
// from a previous calendar month is reported as 0 without being persisted.
type QuotaDecision struct {
	CanExecute   bool
	CurrentCount int
	Remaining    *int
	NextResetAt  time.Time
}

// CheckActionQuota decides whether another autopilot/platform action may
// execute this month.
func CheckActionQuota(tier Tier, currentCount int, countResetAt *time.Time, now time.Time) QuotaDecision {
	return check(actionLimits[NormalizeTier(string(tier))], currentCount, countResetAt, now)
}

// CheckSuggestionQuota decides whether another AI suggestion may be
// generated this month.
func CheckSuggestionQuota(tier Tier, currentCount int, countResetAt *time.Time, now time.Time) QuotaDecision {
	return check(suggestionLimits[NormalizeTier(string(tier))], currentCount, countResetAt, now)
}

func check(limit *int, currentCount int, countResetAt *time.Time, now time.Time) QuotaDecision {
	if monthPassed(countResetAt, now) {
		currentCount = 0
	}

	decision := QuotaDecision{
		CurrentCount: currentCount,
		NextResetAt:  nextMonthStart(now),
	}

	if limit == nil {
		decision.CanExecute = true
		return decision
	}

	remaining := *limit - currentCount
	if remaining < 0 {
		remaining = 0
	}
	decision.Remaining = &remaining
	decision.CanExecute = remaining > 0
	return decision
}

// Increment advances a usage counter, rolling it over to 1 when a month
// boundary has passed since the last reset. The caller persists the
// returned pair atomically with the action it gates. This is best-effort
// for soft limits; financial operations are guarded by the wallet balance
// check instead.
func Increment(currentCount int, countResetAt *time.Time, now time.Time) (int, time.Time) {
	if monthPassed(countResetAt, now) {
		return 1, now
	}
	return currentCount + 1, resetAnchor(countResetAt, now)
}

// monthPassed reports whether resetAt's (year, month) precedes now's.
func monthPassed(resetAt *time.Time, now time.Time) bool {
	if resetAt == nil {
		return false
	}
	ry, rm, _ := resetAt.Date()
	ny, nm, _ := now.Date()
	return ry < ny || (ry == ny && rm < nm)
}

func resetAnchor(resetAt *time.Time, now time.Time) time.Time {
	if resetAt == nil {
		return now
	}
	return *resetAt
}

// nextMonthStart returns the first day of the next calendar month,
// regardless of when the counter actually reset.
func nextMonthStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
}
