package work

// The engine stays decoupled from persistence: it talks to these narrow
// repository contracts and never creates or deletes work items itself.

// ItemRepository provides access to the work-item backlog.
type ItemRepository interface {
	GetAll() ([]*WorkItem, error)
	GetByID(id string) (*WorkItem, error)
	Update(item *WorkItem) error
}

// GraphStore loads a read-only dependency graph snapshot.
type GraphStore interface {
	LoadGraph() (DependencyGraph, error)
}

// SettingsRepository owns the orchestrator settings.
type SettingsRepository interface {
	Get() (Settings, error)
	Save(settings Settings) error
}

// SessionRepository persists execution provenance records. Sessions are
// append-only; there is no update.
type SessionRepository interface {
	Create(session *WorkSession) error
	GetByWorkItemID(id string) ([]*WorkSession, error)
}

// QuestionRepository persists blocked questions and their answers.
type QuestionRepository interface {
	Create(question *BlockedQuestion) error
	Update(question *BlockedQuestion) error
	GetByWorkItemID(id string) ([]*BlockedQuestion, error)
}
