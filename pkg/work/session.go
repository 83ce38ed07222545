package work

import (
	"sort"
	"time"
)

// TransformationType identifies one phase of work on a single item.
type TransformationType string

const (
	TransformInterpret        TransformationType = "interpret"
	TransformPlan             TransformationType = "plan"
	TransformExecute          TransformationType = "execute"
	TransformRefine           TransformationType = "refine"
	TransformAskClarification TransformationType = "ask_clarification"
	TransformFinalize         TransformationType = "finalize"
)

// SessionOutcome is the recorded result of one execution attempt.
type SessionOutcome string

const (
	SessionCompleted  SessionOutcome = "completed"
	SessionBlocked    SessionOutcome = "blocked"
	SessionFailed     SessionOutcome = "failed"
	SessionInProgress SessionOutcome = "in_progress"
)

// WorkSession is an append-only provenance record of one execution attempt.
// Sessions are never mutated after creation; the ordered sequence per item
// is the pipeline's sole memory of what has already happened.
type WorkSession struct {
	ID             string             `yaml:"id" json:"id"`
	WorkItemID     string             `yaml:"work_item_id" json:"work_item_id"`
	Transformation TransformationType `yaml:"transformation" json:"transformation"`
	StartedAt      time.Time          `yaml:"started_at" json:"started_at"`
	EndedAt        time.Time          `yaml:"ended_at,omitempty" json:"ended_at,omitempty"`
	Outcome        SessionOutcome     `yaml:"outcome" json:"outcome"`
	TokensUsed     int                `yaml:"tokens_used,omitempty" json:"tokens_used,omitempty"`
	Summary        string             `yaml:"summary,omitempty" json:"summary,omitempty"`
	ModifiedFiles  []string           `yaml:"modified_files,omitempty" json:"modified_files,omitempty"`
	ErrorMessage   string             `yaml:"error_message,omitempty" json:"error_message,omitempty"`
}

// SortSessions orders sessions by start time ascending, oldest first.
// Repositories may return sessions unordered; callers sort before use.
func SortSessions(sessions []*WorkSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
}
