package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/marchcraft/drover/pkg/reasoning"
	"github.com/marchcraft/drover/pkg/work"
)

// RunOnce attempts a single work cycle. If a cycle is already in flight
// the call is skipped outright; the next tick will try again. Safe to
// call from the loop and from a manual host command alike.
func (o *Orchestrator) RunOnce(ctx context.Context) {
	if !o.inflight.TryAcquire(1) {
		o.logger.Debug("Cycle already in flight, skipping")
		o.mu.Lock()
		o.stats.CyclesSkipped++
		o.mu.Unlock()
		return
	}
	defer o.inflight.Release(1)

	o.mu.Lock()
	if o.state == StateStopped {
		// Manual one-shot use without Start.
		o.state = StateIdle
	}
	o.stats.CyclesRun++
	o.stats.LastCycleAt = o.clock()
	o.mu.Unlock()

	o.runCycle(ctx)
}

// runCycle evaluates the gate chain in fixed order and, if every gate
// passes, processes the cycle's slice of ready items sequentially.
func (o *Orchestrator) runCycle(ctx context.Context) {
	cycleID := "cyc-" + uuid.New().String()[:8]

	settings, err := o.settings.Get()
	if err != nil {
		o.logger.Error("Loading settings failed", "cycle", cycleID, "error", err)
		o.setState(StateIdle)
		return
	}

	// Gate 1: external enablement toggle.
	if !settings.Enabled {
		o.logger.Debug("Orchestrator disabled, skipping cycle", "cycle", cycleID)
		o.setState(StateIdle)
		return
	}

	// Gate 2: daily budget counter rollover.
	now := o.clock()
	if settings.TokenBudget.NeedsReset(now) {
		settings.TokenBudget.UsedToday = 0
		settings.TokenBudget.LastReset = now.Format(work.DateLayout)
		if err := o.settings.Save(settings); err != nil {
			o.logger.Error("Persisting budget reset failed", "cycle", cycleID, "error", err)
		} else {
			o.logger.Info("Daily token budget reset", "cycle", cycleID, "date", settings.TokenBudget.LastReset)
		}
	}

	// Gate 3: quiet hours.
	if settings.QuietHours.Active(now) {
		o.logger.Debug("In quiet hours, skipping cycle", "cycle", cycleID)
		o.setState(StateQuietHours)
		return
	}

	// Gate 4: token budget.
	if settings.TokenBudget.Exhausted() {
		o.logger.Info("Daily token budget exhausted", "cycle", cycleID,
			"used", settings.TokenBudget.UsedToday, "cap", settings.TokenBudget.DailyCap)
		o.setState(StateBudgetExhausted)
		return
	}

	// Gate 5: ready items.
	ready, err := o.resolver.GetReadyItems()
	if err != nil {
		o.logger.Error("Resolving ready items failed", "cycle", cycleID, "error", err)
		o.setState(StateIdle)
		return
	}
	if len(ready) == 0 {
		o.logger.Debug("No ready items", "cycle", cycleID)
		o.setState(StateIdle)
		return
	}

	o.setState(StateWorking)
	o.logger.Info("Starting work cycle", "cycle", cycleID, "ready", len(ready))

	if limit := settings.ItemLimit(); len(ready) > limit {
		ready = ready[:limit]
	}

	endState := StateIdle
	for i, item := range ready {
		if ctx.Err() != nil {
			o.logger.Info("Cycle cancelled", "cycle", cycleID)
			break
		}
		// Re-check the budget before each item; a prior item in this
		// cycle may have exhausted it.
		if i > 0 {
			fresh, err := o.settings.Get()
			if err == nil && fresh.TokenBudget.Exhausted() {
				endState = StateBudgetExhausted
				break
			}
		}
		o.processItem(ctx, settings, item)
	}

	o.setState(endState)
}

// processItem drives one item through one pipeline execution and applies
// the status transition its outcome demands. Any fault is contained here:
// a single item's failure never aborts the cycle or strands the item in
// InProgress.
func (o *Orchestrator) processItem(ctx context.Context, settings work.Settings, item *work.WorkItem) {
	prior := item.Status

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Panic while processing item", "item", item.ID, "panic", r)
			o.returnToReady(item.ID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	// Retry pre-check: exhausted items fail without an execution attempt.
	if settings.MaxRetryAttempts > 0 && item.AttemptCount >= settings.MaxRetryAttempts {
		msg := fmt.Sprintf("retry limit reached after %d attempts", item.AttemptCount)
		o.logger.Info("Item exceeded retry limit", "item", item.ID, "attempts", item.AttemptCount)
		if err := o.updateStatus(item.ID, work.StatusFailed, msg, ""); err != nil {
			o.logger.Error("Updating item status failed", "item", item.ID, "error", err)
		}
		o.mu.Lock()
		o.stats.ItemsFailed++
		o.mu.Unlock()
		return
	}

	if err := o.updateStatus(item.ID, work.StatusInProgress, "", ""); err != nil {
		o.logger.Error("Updating item status failed", "item", item.ID, "error", err)
		return
	}

	phase, err := o.pipeline.SelectPhase(item.ID)
	if err != nil {
		o.returnToReady(item.ID, err.Error())
		return
	}

	result, err := o.pipeline.Execute(ctx, item.ID, phase)
	if err != nil {
		o.returnToReady(item.ID, err.Error())
		return
	}

	o.mu.Lock()
	o.stats.ItemsProcessed++
	o.stats.TokensSpent += result.TokensUsed
	o.mu.Unlock()
	o.chargeBudget(result.TokensUsed)

	switch result.Outcome {
	case reasoning.OutcomeCompleted:
		if result.Phase == work.TransformFinalize {
			o.logger.Info("Item complete", "item", item.ID)
			if err := o.updateStatus(item.ID, work.StatusComplete, result.Summary, ""); err != nil {
				o.logger.Error("Updating item status failed", "item", item.ID, "error", err)
			}
			o.mu.Lock()
			o.stats.ItemsCompleted++
			o.mu.Unlock()
		} else {
			// More phases remain; another cycle continues the pipeline.
			if err := o.updateStatus(item.ID, work.StatusReady, result.Summary, ""); err != nil {
				o.logger.Error("Updating item status failed", "item", item.ID, "error", err)
			}
		}

	case reasoning.OutcomeBlocked, reasoning.OutcomeNeedsMoreContext:
		o.logger.Info("Item blocked awaiting answers", "item", item.ID, "phase", result.Phase)
		if err := o.updateStatus(item.ID, work.StatusBlocked, result.Summary, prior); err != nil {
			o.logger.Error("Updating item status failed", "item", item.ID, "error", err)
		}

	case reasoning.OutcomeFailed:
		// Read the attempt count fresh: the pipeline incremented it, and
		// retry-exhaustion timing must reflect the stored value.
		attempts := item.AttemptCount + 1
		if fresh, err := o.items.GetByID(item.ID); err == nil {
			attempts = fresh.AttemptCount
		}
		if settings.MaxRetryAttempts > 0 && attempts >= settings.MaxRetryAttempts {
			o.logger.Info("Item failed terminally", "item", item.ID, "attempts", attempts)
			if err := o.updateStatus(item.ID, work.StatusFailed, result.ErrorMessage, ""); err != nil {
				o.logger.Error("Updating item status failed", "item", item.ID, "error", err)
			}
			o.mu.Lock()
			o.stats.ItemsFailed++
			o.mu.Unlock()
		} else {
			o.returnToReady(item.ID, result.ErrorMessage)
		}
	}
}

// updateStatus persists a status change. Entering Blocked records the
// prior status for later restoration; every other transition clears it.
func (o *Orchestrator) updateStatus(id string, status work.ItemStatus, message string, previous work.ItemStatus) error {
	item, err := o.items.GetByID(id)
	if err != nil {
		return fmt.Errorf("loading item %s: %w", id, err)
	}
	item.Status = status
	item.StatusMessage = message
	if status == work.StatusBlocked {
		item.PreviousStatus = previous
	} else {
		item.PreviousStatus = ""
	}
	item.UpdatedAt = o.clock()
	if err := o.items.Update(item); err != nil {
		return fmt.Errorf("updating item %s: %w", id, err)
	}
	return nil
}

// returnToReady is the item-level fault handler: the item goes back to
// Ready with the fault recorded, and the cycle moves on.
func (o *Orchestrator) returnToReady(id, message string) {
	o.logger.Error("Item processing fault, returning to ready", "item", id, "error", message)
	if err := o.updateStatus(id, work.StatusReady, message, ""); err != nil {
		o.logger.Error("Updating item status failed", "item", id, "error", err)
	}
}

// chargeBudget adds a cycle's token spend to today's counter.
func (o *Orchestrator) chargeBudget(tokens int) {
	if tokens <= 0 {
		return
	}
	settings, err := o.settings.Get()
	if err != nil {
		o.logger.Error("Loading settings for budget charge failed", "error", err)
		return
	}
	settings.TokenBudget.UsedToday += tokens
	if err := o.settings.Save(settings); err != nil {
		o.logger.Error("Persisting token spend failed", "error", err)
	}
}
