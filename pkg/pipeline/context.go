package pipeline

import (
	"fmt"

	"github.com/marchcraft/drover/pkg/work"
)

// ExecutionContext aggregates everything a phase prompt needs: the item,
// its ordered session history, and the answered questions so far.
type ExecutionContext struct {
	Item              *work.WorkItem
	Sessions          []*work.WorkSession
	AnsweredQuestions []*work.BlockedQuestion
}

// BuildContext loads and orders the inputs for one execution of itemID.
func (p *Pipeline) BuildContext(itemID string) (*ExecutionContext, error) {
	item, err := p.items.GetByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("loading item %s: %w", itemID, err)
	}

	sessions, err := p.sessions.GetByWorkItemID(itemID)
	if err != nil {
		return nil, fmt.Errorf("loading sessions for %s: %w", itemID, err)
	}
	work.SortSessions(sessions)

	questions, err := p.questions.GetByWorkItemID(itemID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for %s: %w", itemID, err)
	}
	var answered []*work.BlockedQuestion
	for _, q := range questions {
		if q.Answered() {
			answered = append(answered, q)
		}
	}

	return &ExecutionContext{
		Item:              item,
		Sessions:          sessions,
		AnsweredQuestions: answered,
	}, nil
}

// SelectPhase loads the item's history and picks the next phase.
func (p *Pipeline) SelectPhase(itemID string) (work.TransformationType, error) {
	sessions, err := p.sessions.GetByWorkItemID(itemID)
	if err != nil {
		return "", fmt.Errorf("loading sessions for %s: %w", itemID, err)
	}
	questions, err := p.questions.GetByWorkItemID(itemID)
	if err != nil {
		return "", fmt.Errorf("loading questions for %s: %w", itemID, err)
	}
	return NextPhase(sessions, questions), nil
}
