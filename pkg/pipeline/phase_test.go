package pipeline

import (
	"testing"
	"time"

	"github.com/marchcraft/drover/pkg/work"
)

func session(phase work.TransformationType, outcome work.SessionOutcome, at time.Time) *work.WorkSession {
	return &work.WorkSession{
		ID:             string(phase) + "-" + at.Format("150405"),
		WorkItemID:     "item-1",
		Transformation: phase,
		Outcome:        outcome,
		StartedAt:      at,
		EndedAt:        at.Add(time.Minute),
	}
}

func TestNextPhaseFreshItem(t *testing.T) {
	got := NextPhase(nil, nil)
	if got != work.TransformInterpret {
		t.Errorf("Expected interpret for fresh item, got %s", got)
	}
}

func TestNextPhaseHappyPath(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sessions []*work.WorkSession
		want     work.TransformationType
	}{
		{
			name:     "after interpret",
			sessions: []*work.WorkSession{session(work.TransformInterpret, work.SessionCompleted, base)},
			want:     work.TransformPlan,
		},
		{
			name: "after plan",
			sessions: []*work.WorkSession{
				session(work.TransformInterpret, work.SessionCompleted, base),
				session(work.TransformPlan, work.SessionCompleted, base.Add(time.Hour)),
			},
			want: work.TransformExecute,
		},
		{
			name: "after execute",
			sessions: []*work.WorkSession{
				session(work.TransformInterpret, work.SessionCompleted, base),
				session(work.TransformPlan, work.SessionCompleted, base.Add(time.Hour)),
				session(work.TransformExecute, work.SessionCompleted, base.Add(2*time.Hour)),
			},
			want: work.TransformFinalize,
		},
		{
			name:     "after refine",
			sessions: []*work.WorkSession{session(work.TransformRefine, work.SessionCompleted, base)},
			want:     work.TransformFinalize,
		},
		{
			name:     "after clarification",
			sessions: []*work.WorkSession{session(work.TransformAskClarification, work.SessionCompleted, base)},
			want:     work.TransformFinalize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextPhase(tt.sessions, nil); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNextPhaseOutcomeBranches(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	blocked := []*work.WorkSession{session(work.TransformExecute, work.SessionBlocked, base)}
	if got := NextPhase(blocked, nil); got != work.TransformAskClarification {
		t.Errorf("Blocked outcome: expected ask_clarification, got %s", got)
	}

	failed := []*work.WorkSession{session(work.TransformExecute, work.SessionFailed, base)}
	if got := NextPhase(failed, nil); got != work.TransformRefine {
		t.Errorf("Failed outcome: expected refine, got %s", got)
	}

	inProgress := []*work.WorkSession{session(work.TransformPlan, work.SessionInProgress, base)}
	if got := NextPhase(inProgress, nil); got != work.TransformPlan {
		t.Errorf("InProgress outcome: expected phase repeat, got %s", got)
	}
}

func TestNextPhaseUnansweredQuestionOverrides(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := []*work.WorkSession{
		session(work.TransformInterpret, work.SessionCompleted, base),
		session(work.TransformPlan, work.SessionCompleted, base.Add(time.Hour)),
	}
	questions := []*work.BlockedQuestion{
		{ID: "q1", WorkItemID: "item-1", Question: "Which database?", CreatedAt: base},
	}

	if got := NextPhase(sessions, questions); got != work.TransformAskClarification {
		t.Errorf("Unanswered question should force ask_clarification, got %s", got)
	}

	// Once answered, the override lifts and the progression resumes.
	questions[0].Answer = "Postgres"
	questions[0].AnsweredAt = base.Add(2 * time.Hour)
	if got := NextPhase(sessions, questions); got != work.TransformExecute {
		t.Errorf("Answered question should not override, got %s", got)
	}
}

func TestNextPhaseUsesLatestSession(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Deliberately unordered input; the newest session decides.
	sessions := []*work.WorkSession{
		session(work.TransformPlan, work.SessionCompleted, base.Add(time.Hour)),
		session(work.TransformInterpret, work.SessionCompleted, base),
	}
	if got := NextPhase(sessions, nil); got != work.TransformExecute {
		t.Errorf("Expected execute from latest session, got %s", got)
	}
}

func TestNextPhaseIsPure(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := []*work.WorkSession{
		session(work.TransformExecute, work.SessionFailed, base.Add(time.Hour)),
		session(work.TransformInterpret, work.SessionCompleted, base),
	}

	first := NextPhase(sessions, nil)
	for i := 0; i < 10; i++ {
		if got := NextPhase(sessions, nil); got != first {
			t.Fatalf("NextPhase not deterministic: %s then %s", first, got)
		}
	}
	// The input slice order is untouched.
	if sessions[0].Transformation != work.TransformExecute {
		t.Error("NextPhase reordered its input slice")
	}
}
