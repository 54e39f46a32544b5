/*
refresher.go - Automated recalculation on export changes

PURPOSE:
  Periodically polls the export source and re-runs the calculation when
  the deposited table changes, so the latest balance stays current without
  a manual POST after every download.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Skips recalculation when the export digest matches the latest run
  - An absent export is an expected state and only logged at startup

USAGE:
  refresher := NewRefresher(handler)
  refresher.Start()
  // ... later
  refresher.Stop()

SEE ALSO:
  - handlers.go: Calculate (shared calculation + run recording)
  - source/source.go: Export source contract
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/flextime/flexcore"
	"github.com/warp/flextime/store/sqlite"
)

// Refresher re-runs the calculation whenever the export changes.
type Refresher struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRefresher creates a refresher with a 5 minute check interval.
func NewRefresher(handler *Handler) *Refresher {
	return &Refresher{
		Handler:       handler,
		CheckInterval: 5 * time.Minute,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins polling.
func (rf *Refresher) Start() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if !rf.Enabled {
		log.Println("[Refresher] Disabled, not starting")
		return
	}

	rf.ticker = time.NewTicker(rf.CheckInterval)
	rf.wg.Add(1)
	go rf.run()

	log.Printf("[Refresher] Started with check interval: %v", rf.CheckInterval)
}

// Stop stops polling and waits for an in-flight check to finish.
func (rf *Refresher) Stop() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.ticker != nil {
		rf.ticker.Stop()
		close(rf.stop)
		rf.wg.Wait()
		log.Println("[Refresher] Stopped")
	}
}

func (rf *Refresher) run() {
	defer rf.wg.Done()

	// Check once on start
	rf.checkAndRecalculate()

	for {
		select {
		case <-rf.ticker.C:
			rf.checkAndRecalculate()
		case <-rf.stop:
			return
		}
	}
}

func (rf *Refresher) checkAndRecalculate() {
	ctx := context.Background()

	raw, err := rf.Handler.Source.Fetch(ctx)
	if flexcore.IsAbsent(err) {
		// No export yet; nothing to do.
		return
	}
	if err != nil {
		log.Printf("[Refresher] Error fetching export: %v", err)
		return
	}

	latest, err := rf.Handler.Store.LatestRun(ctx)
	if err != nil {
		log.Printf("[Refresher] Error reading latest run: %v", err)
		return
	}
	policy, _ := rf.Handler.currentPolicy()
	if latest != nil && latest.SourceDigest == digest(raw) && policyUnchanged(*latest, policy) {
		return
	}

	result, run, err := rf.Handler.Calculate(ctx, raw)
	if err != nil {
		log.Printf("[Refresher] Calculation failed: %v", err)
		return
	}
	log.Printf("[Refresher] New balance %s (run %d, last considered %s)",
		result.BalanceLabel, run.ID, result.LastConsideredDate)
}

// policyUnchanged compares the current policy against the snapshot stored
// with a run. A policy update must force a recalculation even when the
// export itself did not change.
func policyUnchanged(run sqlite.Run, policy flexcore.Policy) bool {
	return run.WeeklyHours.Equal(policy.WeeklyHours) &&
		run.StartingBalanceHours.Equal(policy.StartingBalanceHours) &&
		run.PeriodStart == policy.PeriodStart.String() &&
		run.PeriodEnd == policy.PeriodEnd.String()
}

// RunNow triggers an immediate check (for testing/admin).
func (rf *Refresher) RunNow() {
	rf.checkAndRecalculate()
}
