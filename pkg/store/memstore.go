package store

import (
	"fmt"
	"sync"

	"github.com/marchcraft/drover/pkg/work"
)

// MemoryStore is an in-process implementation of every repository
// contract. It backs the test suites and embeddings that do not want a
// backlog directory.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]*work.WorkItem
	order     []string
	sessions  map[string][]*work.WorkSession
	questions map[string][]*work.BlockedQuestion
	settings  work.Settings
	graph     work.DependencyGraph
}

// NewMemoryStore creates an empty store with default settings.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     make(map[string]*work.WorkItem),
		sessions:  make(map[string][]*work.WorkSession),
		questions: make(map[string][]*work.BlockedQuestion),
		settings:  work.DefaultSettings(),
	}
}

// AddItem seeds the backlog.
func (m *MemoryStore) AddItem(item *work.WorkItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[item.ID]; !exists {
		m.order = append(m.order, item.ID)
	}
	m.items[item.ID] = item.Clone()
}

// SetGraph overrides the derived graph with an explicit snapshot.
func (m *MemoryStore) SetGraph(graph work.DependencyGraph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graph = graph
}

// GetAll returns clones of every item in insertion order.
func (m *MemoryStore) GetAll() ([]*work.WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*work.WorkItem, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.items[id].Clone())
	}
	return items, nil
}

// GetByID returns a clone of one item.
func (m *MemoryStore) GetByID(id string) (*work.WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("work item not found: %s", id)
	}
	return item.Clone(), nil
}

// Update replaces an existing item.
func (m *MemoryStore) Update(item *work.WorkItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return fmt.Errorf("work item not found: %s", item.ID)
	}
	m.items[item.ID] = item.Clone()
	return nil
}

// LoadGraph returns the explicit snapshot if one was set, otherwise a
// graph derived from the items' dependencies.
func (m *MemoryStore) LoadGraph() (work.DependencyGraph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.graph != nil {
		return m.graph, nil
	}
	items := make([]*work.WorkItem, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.items[id])
	}
	return work.BuildGraph(items), nil
}

// Get returns the settings.
func (m *MemoryStore) Get() (work.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

// Save replaces the settings.
func (m *MemoryStore) Save(settings work.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	return nil
}

// Create appends a session record.
func (m *MemoryStore) Create(session *work.WorkSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.WorkItemID] = append(m.sessions[session.WorkItemID], session)
	return nil
}

// GetByWorkItemID returns an item's sessions.
func (m *MemoryStore) GetByWorkItemID(id string) ([]*work.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*work.WorkSession(nil), m.sessions[id]...), nil
}

// Questions returns the question repository view of this store.
func (m *MemoryStore) Questions() *MemoryQuestionStore {
	return &MemoryQuestionStore{store: m}
}

// MemoryQuestionStore implements work.QuestionRepository over a MemoryStore.
type MemoryQuestionStore struct {
	store *MemoryStore
}

// Create appends a question.
func (q *MemoryQuestionStore) Create(question *work.BlockedQuestion) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	q.store.questions[question.WorkItemID] = append(q.store.questions[question.WorkItemID], question)
	return nil
}

// Update replaces an existing question, matched by ID.
func (q *MemoryQuestionStore) Update(question *work.BlockedQuestion) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	list := q.store.questions[question.WorkItemID]
	for i, existing := range list {
		if existing.ID == question.ID {
			list[i] = question
			return nil
		}
	}
	return fmt.Errorf("question not found: %s", question.ID)
}

// GetByWorkItemID returns an item's questions.
func (q *MemoryQuestionStore) GetByWorkItemID(id string) ([]*work.BlockedQuestion, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	return append([]*work.BlockedQuestion(nil), q.store.questions[id]...), nil
}
