package work

import (
	"fmt"
	"time"
)

// AnswerQuestion records an answer on one of an item's open questions and,
// once no unanswered questions remain, restores the item from Blocked to
// the status recorded when it was blocked. This is the host-side half of
// the blocking contract: the engine blocks items, answer arrival unblocks
// them.
func AnswerQuestion(items ItemRepository, questions QuestionRepository, questionID, answer string, now time.Time) error {
	if answer == "" {
		return fmt.Errorf("answer must not be empty")
	}

	question, err := findQuestion(items, questions, questionID)
	if err != nil {
		return err
	}
	if question.Answered() {
		return fmt.Errorf("question %s already answered", questionID)
	}

	question.Answer = answer
	question.AnsweredAt = now
	if err := questions.Update(question); err != nil {
		return fmt.Errorf("saving answer: %w", err)
	}

	remaining, err := questions.GetByWorkItemID(question.WorkItemID)
	if err != nil {
		return fmt.Errorf("loading questions for %s: %w", question.WorkItemID, err)
	}
	if HasUnanswered(remaining) {
		return nil
	}

	item, err := items.GetByID(question.WorkItemID)
	if err != nil {
		return fmt.Errorf("loading item %s: %w", question.WorkItemID, err)
	}
	if item.Status != StatusBlocked {
		return nil
	}

	restored := item.PreviousStatus
	if restored == "" || restored == StatusBlocked || restored == StatusInProgress {
		restored = StatusReady
	}
	item.Status = restored
	item.PreviousStatus = ""
	item.UpdatedAt = now
	if err := items.Update(item); err != nil {
		return fmt.Errorf("restoring item %s: %w", item.ID, err)
	}
	return nil
}

func findQuestion(items ItemRepository, questions QuestionRepository, questionID string) (*BlockedQuestion, error) {
	all, err := items.GetAll()
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	for _, item := range all {
		qs, err := questions.GetByWorkItemID(item.ID)
		if err != nil {
			return nil, fmt.Errorf("loading questions for %s: %w", item.ID, err)
		}
		for _, q := range qs {
			if q.ID == questionID {
				return q, nil
			}
		}
	}
	return nil, fmt.Errorf("question not found: %s", questionID)
}
