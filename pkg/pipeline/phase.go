// Package pipeline decides which transformation phase a work item should
// attempt next, renders the phase prompt, delegates to the reasoning
// service, and records the attempt as an immutable session.
package pipeline

import "github.com/marchcraft/drover/pkg/work"

// progression is the forward path through the phases. Refine and
// AskClarification are side branches; once they complete, work jumps to
// Finalize.
var progression = map[work.TransformationType]work.TransformationType{
	work.TransformInterpret:        work.TransformPlan,
	work.TransformPlan:             work.TransformExecute,
	work.TransformExecute:          work.TransformFinalize,
	work.TransformRefine:           work.TransformFinalize,
	work.TransformAskClarification: work.TransformFinalize,
	work.TransformFinalize:         work.TransformFinalize,
}

// NextPhase selects the phase to attempt from an item's full ordered
// session history and its current question set. It is a pure function:
// the same inputs always yield the same phase.
//
// A fresh item starts at Interpret. Any unanswered question forces
// AskClarification regardless of history. Otherwise the most recent
// session decides: Completed advances the progression, Blocked asks for
// clarification, Failed goes to Refine, and a lingering InProgress
// session repeats its phase.
func NextPhase(sessions []*work.WorkSession, questions []*work.BlockedQuestion) work.TransformationType {
	if len(sessions) == 0 {
		return work.TransformInterpret
	}
	if work.HasUnanswered(questions) {
		return work.TransformAskClarification
	}

	ordered := append([]*work.WorkSession(nil), sessions...)
	work.SortSessions(ordered)
	last := ordered[len(ordered)-1]

	switch last.Outcome {
	case work.SessionCompleted:
		return progression[last.Transformation]
	case work.SessionBlocked:
		return work.TransformAskClarification
	case work.SessionFailed:
		return work.TransformRefine
	default:
		// InProgress should not persist; repeat the interrupted phase.
		return last.Transformation
	}
}
