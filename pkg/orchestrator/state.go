package orchestrator

import "fmt"

// State is the orchestrator's process-wide scheduling state. A single
// instance exists per service; only the loop mutates it, under the lock.
type State string

const (
	StateStopped         State = "stopped"
	StateStarting        State = "starting"
	StateIdle            State = "idle"
	StateWorking         State = "working"
	StateQuietHours      State = "quiet_hours"
	StateBudgetExhausted State = "budget_exhausted"
	StateStopping        State = "stopping"
)

// validTransitions is the state machine's transition table. Stopping is
// reachable from every running state so shutdown can always proceed.
var validTransitions = map[State][]State{
	StateStopped:         {StateStarting},
	StateStarting:        {StateIdle, StateStopping},
	StateIdle:            {StateWorking, StateQuietHours, StateBudgetExhausted, StateIdle, StateStopping},
	StateWorking:         {StateIdle, StateBudgetExhausted, StateStopping},
	StateQuietHours:      {StateIdle, StateWorking, StateQuietHours, StateBudgetExhausted, StateStopping},
	StateBudgetExhausted: {StateIdle, StateWorking, StateQuietHours, StateBudgetExhausted, StateStopping},
	StateStopping:        {StateStopped},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// transition validates and applies a state change. Callers hold o.mu.
func (o *Orchestrator) transition(to State) error {
	if !canTransition(o.state, to) {
		return fmt.Errorf("invalid state transition: %s -> %s", o.state, to)
	}
	o.state = to
	return nil
}
