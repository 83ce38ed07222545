package work

import "time"

// ItemStatus represents the current state of a work item.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusReady      ItemStatus = "ready"
	StatusInProgress ItemStatus = "in_progress"
	StatusBlocked    ItemStatus = "blocked"
	StatusComplete   ItemStatus = "complete"
	StatusFailed     ItemStatus = "failed"
)

// IsTerminal reports whether an item in this status will never be scheduled again.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// IsValidItemStatus reports whether s is one of the known item statuses.
func IsValidItemStatus(s ItemStatus) bool {
	switch s {
	case StatusPending, StatusReady, StatusInProgress,
		StatusBlocked, StatusComplete, StatusFailed:
		return true
	}
	return false
}

// WorkItem represents a single unit of backlog work.
type WorkItem struct {
	// From frontmatter
	ID             string     `yaml:"id" json:"id"`
	Title          string     `yaml:"title" json:"title"`
	Status         ItemStatus `yaml:"status" json:"status"`
	DependsOn      []string   `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	AttemptCount   int        `yaml:"attempt_count,omitempty" json:"attempt_count,omitempty"`
	PreviousStatus ItemStatus `yaml:"previous_status,omitempty" json:"previous_status,omitempty"`
	StatusMessage  string     `yaml:"status_message,omitempty" json:"status_message,omitempty"`
	CreatedAt      time.Time  `yaml:"created_at,omitempty" json:"created_at,omitempty"`
	LastWorkedAt   time.Time  `yaml:"last_worked_at,omitempty" json:"last_worked_at,omitempty"`
	UpdatedAt      time.Time  `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`

	// Derived fields
	Description string `yaml:"-" json:"-"` // Content after frontmatter
	Filename    string `yaml:"-" json:"filename,omitempty"`
	FilePath    string `yaml:"-" json:"file_path,omitempty"`
}

// Clone returns a deep copy of the item. Repositories hand out clones so
// callers never share mutable state with the store.
func (w *WorkItem) Clone() *WorkItem {
	c := *w
	c.DependsOn = append([]string(nil), w.DependsOn...)
	return &c
}
