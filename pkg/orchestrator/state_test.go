package orchestrator

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateStopped, StateStarting, true},
		{StateStopped, StateWorking, false},
		{StateStarting, StateIdle, true},
		{StateIdle, StateWorking, true},
		{StateIdle, StateQuietHours, true},
		{StateIdle, StateBudgetExhausted, true},
		{StateWorking, StateIdle, true},
		{StateWorking, StateQuietHours, false},
		{StateWorking, StateBudgetExhausted, true},
		{StateQuietHours, StateWorking, true},
		{StateBudgetExhausted, StateIdle, true},
		{StateStopping, StateStopped, true},
		{StateStopping, StateIdle, false},
	}

	for _, tt := range tests {
		if got := canTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("canTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStoppingReachableFromEveryRunningState(t *testing.T) {
	running := []State{StateStarting, StateIdle, StateWorking, StateQuietHours, StateBudgetExhausted}
	for _, from := range running {
		if !canTransition(from, StateStopping) {
			t.Errorf("Stopping must be reachable from %s", from)
		}
	}
}
