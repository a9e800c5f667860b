package platform

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/adpilot-io/adpilot/app/models"
	"github.com/adpilot-io/adpilot/internal/pkg/autopilot"
	"github.com/adpilot-io/adpilot/internal/pkg/cache"
)

// CachedMetrics serves entity metrics from the snapshots the platform
// sync workers write into the cache. It satisfies
// autopilot.MetricsProvider. An account with no snapshot yet simply has
// nothing to evaluate.
type CachedMetrics struct{}

// NewCachedMetrics creates the cache-backed metrics provider.
func NewCachedMetrics() *CachedMetrics {
	return &CachedMetrics{}
}

// MetricsKey is the cache key the sync workers write entity snapshots to.
func MetricsKey(accountID uint) string {
	return fmt.Sprintf("metrics:adaccount:%d", accountID)
}

func (p *CachedMetrics) EntityMetrics(account *models.AdAccount) ([]autopilot.EntitySnapshot, error) {
	raw, err := cache.Get(MetricsKey(account.ID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snapshots []autopilot.EntitySnapshot
	if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
		return nil, fmt.Errorf("metrics snapshot for account %d: %w", account.ID, err)
	}
	return snapshots, nil
}
