package work

import (
	"fmt"
	"time"
)

// QuietHours is a time-of-day window during which no work cycles execute.
// Start and End are "HH:MM" in the orchestrator's local clock. A window
// where Start > End wraps past midnight.
type QuietHours struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Start   string `yaml:"start,omitempty" json:"start,omitempty"`
	End     string `yaml:"end,omitempty" json:"end,omitempty"`
}

// Active reports whether now falls inside the quiet-hours window.
// Disabled or unparseable windows are never active.
func (q QuietHours) Active(now time.Time) bool {
	if !q.Enabled {
		return false
	}
	start, err := parseClock(q.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(q.End)
	if err != nil {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if start > end {
		// Overnight window, e.g. 22:00-07:00
		return cur >= start || cur < end
	}
	return cur >= start && cur < end
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// TokenBudget caps the reasoning-service token spend per calendar day.
type TokenBudget struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	DailyCap  int    `yaml:"daily_cap,omitempty" json:"daily_cap,omitempty"`
	UsedToday int    `yaml:"used_today,omitempty" json:"used_today,omitempty"`
	LastReset string `yaml:"last_reset,omitempty" json:"last_reset,omitempty"` // YYYY-MM-DD
}

// Exhausted reports whether today's spend has reached the configured cap.
func (b TokenBudget) Exhausted() bool {
	return b.Enabled && b.DailyCap > 0 && b.UsedToday >= b.DailyCap
}

// NeedsReset reports whether the stored reset date is before today.
// An unset date always resets. Dates compare lexically in YYYY-MM-DD form.
func (b TokenBudget) NeedsReset(now time.Time) bool {
	return b.LastReset < now.Format(DateLayout)
}

// DateLayout is the format of TokenBudget.LastReset.
const DateLayout = "2006-01-02"

// Settings holds the orchestrator configuration owned by the settings
// repository. The engine reads it at the top of every cycle and writes it
// back when the budget counter changes.
type Settings struct {
	Enabled            bool        `yaml:"enabled" json:"enabled"`
	IntervalSeconds    int         `yaml:"interval_seconds" json:"interval_seconds"`
	MaxConcurrentItems int         `yaml:"max_concurrent_items" json:"max_concurrent_items"`
	MaxRetryAttempts   int         `yaml:"max_retry_attempts" json:"max_retry_attempts"`
	QuietHours         QuietHours  `yaml:"quiet_hours" json:"quiet_hours"`
	TokenBudget        TokenBudget `yaml:"token_budget" json:"token_budget"`
}

// DefaultSettings returns the configuration used when no settings file
// exists. The retry cap bounds total attempts per item, so it must exceed
// the number of pipeline phases a clean run takes.
func DefaultSettings() Settings {
	return Settings{
		Enabled:            true,
		IntervalSeconds:    60,
		MaxConcurrentItems: 1,
		MaxRetryAttempts:   10,
	}
}

// Interval returns the scheduling interval as a duration, never below one second.
func (s Settings) Interval() time.Duration {
	if s.IntervalSeconds < 1 {
		return time.Second
	}
	return time.Duration(s.IntervalSeconds) * time.Second
}

// ItemLimit returns the per-cycle item cap, at least one.
func (s Settings) ItemLimit() int {
	if s.MaxConcurrentItems < 1 {
		return 1
	}
	return s.MaxConcurrentItems
}
