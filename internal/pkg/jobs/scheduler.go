package jobs

import (
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"

	"github.com/adpilot-io/adpilot/internal/pkg/autopilot"
	"github.com/adpilot-io/adpilot/internal/pkg/billing"
	"github.com/adpilot-io/adpilot/internal/pkg/cache"
)

const (
	billingLockKey   = "jobs:lock:monthly_billing"
	autopilotLockKey = "jobs:lock:autopilot_cycle"
)

// Scheduler owns the recurring background jobs: the monthly fee charge,
// the monthly quota reset, and the autopilot evaluation cycle.
type Scheduler struct {
	cron    *cron.Cron
	billing *billing.Service
	engine  *autopilot.Engine
}

// NewScheduler creates the job scheduler. Jobs run in UTC.
func NewScheduler(billingSvc *billing.Service, engine *autopilot.Engine) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		billing: billingSvc,
		engine:  engine,
	}
}

// Start registers and starts all background jobs.
func (s *Scheduler) Start() {
	// Monthly subscription fees, first of the month.
	s.cron.AddFunc("0 0 1 * *", func() {
		if !s.acquire(billingLockKey, time.Hour) {
			return
		}
		defer cache.ReleaseLock(billingLockKey)

		if _, err := s.billing.ChargeMonthlyFees(); err != nil {
			log.Errorf("[Jobs] monthly fee run failed: %v", err)
		}
	})

	// Quota reset trails the fee run within the same night.
	s.cron.AddFunc("30 0 1 * *", func() {
		if _, err := s.billing.ResetAllMonthlyQuotas(); err != nil {
			log.Errorf("[Jobs] quota reset failed: %v", err)
		}
	})

	// Autopilot evaluation cycle. The lock keeps a slow cycle from
	// overlapping the next tick.
	s.cron.AddFunc("*/15 * * * *", func() {
		if !s.acquire(autopilotLockKey, 14*time.Minute) {
			log.Warn("[Jobs] previous autopilot cycle still running, skipping tick")
			return
		}
		defer cache.ReleaseLock(autopilotLockKey)

		if _, err := s.engine.RunCycle(); err != nil {
			log.Errorf("[Jobs] autopilot cycle failed: %v", err)
		}
	})

	s.cron.Start()
	log.Info("[Jobs] scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("[Jobs] scheduler stopped")
}

func (s *Scheduler) acquire(key string, ttl time.Duration) bool {
	ok, err := cache.AcquireLock(key, ttl)
	if err != nil {
		// Cache down: run anyway, the jobs themselves are idempotent
		// enough to survive a rare double run.
		log.Warnf("[Jobs] lock %s unavailable: %v", key, err)
		return true
	}
	return ok
}
