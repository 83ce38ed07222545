package work

import "time"

// BlockedQuestion is a question raised during execution that must be
// answered before the item can move past clarification.
type BlockedQuestion struct {
	ID         string    `yaml:"id" json:"id"`
	WorkItemID string    `yaml:"work_item_id" json:"work_item_id"`
	Question   string    `yaml:"question" json:"question"`
	Answer     string    `yaml:"answer,omitempty" json:"answer,omitempty"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at"`
	AnsweredAt time.Time `yaml:"answered_at,omitempty" json:"answered_at,omitempty"`
}

// Answered reports whether the question has received an answer.
func (q *BlockedQuestion) Answered() bool {
	return !q.AnsweredAt.IsZero()
}

// HasUnanswered reports whether any question in the list still awaits an answer.
func HasUnanswered(questions []*BlockedQuestion) bool {
	for _, q := range questions {
		if !q.Answered() {
			return true
		}
	}
	return false
}
