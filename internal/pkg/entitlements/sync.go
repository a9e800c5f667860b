package entitlements

import "time"

// Platform sync cadence per tier, in minutes. Starter accounts sync twice
// a day; paid tiers sync near-continuously.
var syncIntervalMinutes = map[Tier]int{
	TierStarter:      720,
	TierProfessional: 15,
	TierAgency:       15,
	TierEnterprise:   5,
}

// SyncInterval returns the minimum spacing between platform syncs for a tier.
func SyncInterval(tier Tier) time.Duration {
	return time.Duration(syncIntervalMinutes[NormalizeTier(string(tier))]) * time.Minute
}

// NextSyncAt returns the earliest next sync time, or nil when the account
// has never synced (sync allowed immediately).
func NextSyncAt(tier Tier, lastSyncAt *time.Time) *time.Time {
	if lastSyncAt == nil {
		return nil
	}
	next := lastSyncAt.Add(SyncInterval(tier))
	return &next
}

// ShouldSyncNow reports whether a platform sync is due.
func ShouldSyncNow(tier Tier, lastSyncAt *time.Time, now time.Time) bool {
	next := NextSyncAt(tier, lastSyncAt)
	return next == nil || !next.After(now)
}
