package platform

import (
	"fmt"
	"sync"

	"github.com/adpilot-io/adpilot/app/models"
	"github.com/adpilot-io/adpilot/internal/pkg/autopilot"
)

// Adapter is implemented by each advertising platform client (Meta,
// Google, LinkedIn, TikTok, Reddit, LINE). Execute performs the action on
// the live platform and returns the entity state before and after.
type Adapter interface {
	Execute(account *models.AdAccount, actionType string, target autopilot.Target) (beforeState, afterState string, err error)
}

// Executor dispatches autopilot actions to the adapter registered for the
// account's platform. It satisfies autopilot.ActionExecutor.
type Executor struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewExecutor creates an empty executor; platform clients register
// themselves at startup.
func NewExecutor() *Executor {
	return &Executor{adapters: make(map[string]Adapter)}
}

// Register installs the adapter for a platform, replacing any previous one.
func (e *Executor) Register(platform string, adapter Adapter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.adapters[platform] = adapter
}

// Execute routes the action to the account's platform adapter.
func (e *Executor) Execute(account *models.AdAccount, actionType string, target autopilot.Target) (string, string, error) {
	e.mu.RLock()
	adapter, ok := e.adapters[account.Platform]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("platform %s: no adapter registered", account.Platform)
	}
	return adapter.Execute(account, actionType, target)
}
