package utils

import (
	"cryptovest/config"
	"cryptovest/database"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrTickInProgress is returned when a manual trigger overlaps a running tick.
var ErrTickInProgress = errors.New("an accrual tick is already running")

// Exactly one tick may be in flight at a time. An interval shorter than the
// tick duration must not double-accrue a plan.
var accrualTickRunning int32

// TriggerAccrualTick runs one guarded accrual tick against the global
// database. Both the scheduler and the admin trigger endpoint go through it.
func TriggerAccrualTick() (*AccrualSummary, error) {
	if !atomic.CompareAndSwapInt32(&accrualTickRunning, 0, 1) {
		return nil, ErrTickInProgress
	}
	defer atomic.StoreInt32(&accrualTickRunning, 0)

	return RunAccrualTick(database.Database.Db, time.Now(), config.AppConfig.AccrualThresholdMinutes)
}

func runScheduledTick() {
	log.Printf("[PROFIT-SCHEDULER] Running profit calculation at %s", time.Now().Format(time.RFC3339))

	summary, err := TriggerAccrualTick()
	if errors.Is(err, ErrTickInProgress) {
		log.Println("[PROFIT-SCHEDULER] Previous tick still running, skipping this invocation")
		return
	}
	if err != nil {
		// Reported for alerting; the next scheduled invocation retries.
		log.Printf("[PROFIT-SCHEDULER] Profit calculation failed: %v", err)
		return
	}

	log.Printf("[PROFIT-SCHEDULER] Batch %s: %d plans processed, %d users updated, %d failures",
		summary.BatchID, summary.PlansProcessed, summary.UsersUpdated, len(summary.Failures))
}

// InitializeProfitScheduler starts the recurring accrual tick. The cadence
// comes from ACCRUAL_INTERVAL; a reconciliation pass runs once at startup
// before the first tick so a crashed previous run is repaired first.
func InitializeProfitScheduler() *cron.Cron {
	log.Println("[PROFIT-SCHEDULER] Initializing profit scheduler...")

	if summary, err := ReconcileAccruals(database.Database.Db); err != nil {
		log.Printf("[PROFIT-SCHEDULER] Startup reconciliation failed: %v", err)
	} else if summary.Repaired > 0 {
		log.Printf("[PROFIT-SCHEDULER] Startup reconciliation repaired %d of %d plans", summary.Repaired, summary.PlansChecked)
	}

	c := cron.New()

	spec := "@every " + config.AppConfig.AccrualInterval
	if _, err := c.AddFunc(spec, runScheduledTick); err != nil {
		log.Fatalf("[PROFIT-SCHEDULER] Invalid accrual interval %q: %v", config.AppConfig.AccrualInterval, err)
	}

	c.Start()
	log.Printf("[PROFIT-SCHEDULER] Profit scheduler started - runs every %s", config.AppConfig.AccrualInterval)
	return c
}
