// Package orchestrator runs the timer-driven scheduling loop that gates
// work cycles on enablement, quiet hours and token budget, pulls ready
// items from the resolver, and drives each through the transformation
// pipeline while applying the item state machine.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/marchcraft/drover/pkg/pipeline"
	"github.com/marchcraft/drover/pkg/resolver"
	"github.com/marchcraft/drover/pkg/work"
)

const defaultShutdownTimeout = 30 * time.Second

// Config holds orchestrator tuning knobs. Scheduling behavior itself
// (interval, retries, quiet hours, budget) lives in the settings
// repository and is re-read every cycle.
type Config struct {
	ShutdownTimeout time.Duration
	Clock           func() time.Time
	Logger          Logger
}

// Stats are aggregate counters published together as one snapshot.
type Stats struct {
	CyclesRun      int
	CyclesSkipped  int
	ItemsProcessed int
	ItemsCompleted int
	ItemsFailed    int
	TokensSpent    int
	LastCycleAt    time.Time
}

// Orchestrator owns the scheduling loop. One instance per process.
type Orchestrator struct {
	settings work.SettingsRepository
	items    work.ItemRepository
	resolver *resolver.Resolver
	pipeline *pipeline.Pipeline

	logger          Logger
	clock           func() time.Time
	shutdownTimeout time.Duration

	// inflight is the single-flight guard: capacity one, acquired
	// non-blockingly. A tick that arrives during an active cycle is
	// skipped, never queued.
	inflight *semaphore.Weighted
	trigger  chan struct{}

	mu     sync.Mutex
	state  State
	stats  Stats
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped orchestrator.
func New(settings work.SettingsRepository, items work.ItemRepository, res *resolver.Resolver, pipe *pipeline.Pipeline, cfg *Config) *Orchestrator {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = NewDefaultLogger()
	}

	return &Orchestrator{
		settings:        settings,
		items:           items,
		resolver:        res,
		pipeline:        pipe,
		logger:          cfg.Logger,
		clock:           cfg.Clock,
		shutdownTimeout: cfg.ShutdownTimeout,
		inflight:        semaphore.NewWeighted(1),
		trigger:         make(chan struct{}, 1),
		state:           StateStopped,
	}
}

// Start launches the scheduling loop. The first cycle fires immediately;
// subsequent cycles fire at the configured interval.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	if err := o.transition(StateStarting); err != nil {
		o.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})
	if err := o.transition(StateIdle); err != nil {
		o.mu.Unlock()
		cancel()
		return err
	}
	o.mu.Unlock()

	o.logger.Info("Orchestrator started")
	go o.run(ctx)
	return nil
}

// run is the scheduling loop: an immediate first fire, then one fire per
// interval. A manual trigger collapses the next fire to now.
func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-o.trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		o.RunOnce(ctx)

		interval := time.Minute
		if settings, err := o.settings.Get(); err == nil {
			interval = settings.Interval()
		}
		timer.Reset(interval)
	}
}

// TriggerNow collapses the next scheduled fire to now. Non-blocking; if a
// trigger is already pending this is a no-op.
func (o *Orchestrator) TriggerNow() {
	select {
	case o.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the shared context, waits a bounded time for the in-flight
// cycle to observe cancellation, and reaches Stopped unconditionally even
// if the wait times out.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.state == StateStopped {
		o.mu.Unlock()
		return
	}
	o.state = StateStopping
	cancel := o.cancel
	done := o.done
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(o.shutdownTimeout):
			o.logger.Error("Shutdown wait timed out; forcing stop")
		}
	}

	o.mu.Lock()
	o.state = StateStopped
	o.cancel = nil
	o.done = nil
	o.mu.Unlock()
	o.logger.Info("Orchestrator stopped")
}

// Status returns the current scheduling state.
func (o *Orchestrator) Status() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Statistics returns a consistent snapshot of the aggregate counters.
func (o *Orchestrator) Statistics() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// setState applies a transition, logging instead of failing when the
// table rejects it (a stop request may have moved the state underneath a
// finishing cycle).
func (o *Orchestrator) setState(to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.transition(to); err != nil {
		o.logger.Debug("State transition rejected", "error", err)
	}
}
