package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marchcraft/drover/pkg/work"
)

const (
	metaDirName  = ".drover"
	settingsFile = "settings.yml"
	sessionsDir  = "sessions"
	questionsDir = "questions"
)

// errNotAnItem marks markdown files that are not work items.
var errNotAnItem = errors.New("not a work item")

// FileStore keeps the backlog in a directory: one markdown file per work
// item with YAML frontmatter, and YAML side files for sessions, questions
// and settings under .drover/. It implements every repository contract
// the engine consumes.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore opens a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the backlog root.
func (s *FileStore) Dir() string {
	return s.dir
}

// Init creates the backlog directory layout and a default settings file
// if none exists.
func (s *FileStore) Init() error {
	for _, d := range []string{
		s.dir,
		filepath.Join(s.dir, metaDirName),
		filepath.Join(s.dir, metaDirName, sessionsDir),
		filepath.Join(s.dir, metaDirName, questionsDir),
	} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}

	settingsPath := filepath.Join(s.dir, metaDirName, settingsFile)
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return s.Save(work.DefaultSettings())
	}
	return nil
}

// Work items

// GetAll loads every work item in the backlog directory.
func (s *FileStore) GetAll() ([]*work.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

// GetByID loads a single work item.
func (s *FileStore) GetByID(id string) (*work.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByID(id)
}

// Update rewrites an existing item's file. The store never creates items
// on behalf of the engine; unknown IDs are an error.
func (s *FileStore) Update(item *work.WorkItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findByID(item.ID)
	if err != nil {
		return err
	}
	updated := item.Clone()
	updated.FilePath = existing.FilePath
	updated.Filename = existing.Filename
	if updated.Description == "" {
		updated.Description = existing.Description
	}
	return writeItemFile(updated)
}

// CreateItem adds a new item to the backlog. This is a host-side
// operation: upstream ingestion calls it, the engine never does.
func (s *FileStore) CreateItem(item *work.WorkItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		return fmt.Errorf("work item missing id")
	}
	if _, err := s.findByID(item.ID); err == nil {
		return fmt.Errorf("work item %s already exists", item.ID)
	}
	if item.Status == "" {
		item.Status = work.StatusPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.Filename = item.ID + ".md"
	item.FilePath = filepath.Join(s.dir, item.Filename)
	return writeItemFile(item)
}

// LoadGraph derives the dependency graph snapshot from the items'
// depends_on frontmatter. One load per call; the caller never sees a
// graph that mixes two backlog states.
func (s *FileStore) LoadGraph() (work.DependencyGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	return work.BuildGraph(items), nil
}

func (s *FileStore) loadAll() ([]*work.WorkItem, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading backlog directory: %w", err)
	}

	var items []*work.WorkItem
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		item, err := loadItemFile(path)
		if err != nil {
			if errors.Is(err, errNotAnItem) {
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		item.Filename = entry.Name()
		item.FilePath = path
		items = append(items, item)
	}
	return items, nil
}

func (s *FileStore) findByID(id string) (*work.WorkItem, error) {
	items, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("work item not found: %s", id)
}

func loadItemFile(path string) (*work.WorkItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}
	if _, ok := fm["id"]; !ok {
		return nil, errNotAnItem
	}

	// Round-trip through YAML so numeric and time conversions apply.
	metaBytes, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}
	item := &work.WorkItem{}
	if err := yaml.Unmarshal(metaBytes, item); err != nil {
		return nil, fmt.Errorf("decoding frontmatter: %w", err)
	}

	if item.Status == "" {
		item.Status = work.StatusPending
	}
	if !work.IsValidItemStatus(item.Status) {
		return nil, fmt.Errorf("invalid item status: %s", item.Status)
	}
	item.Description = strings.TrimSpace(string(body))
	return item, nil
}

func writeItemFile(item *work.WorkItem) error {
	meta, err := yaml.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n")
	if item.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(item.Description)
		buf.WriteString("\n")
	}
	return writeAtomic(item.FilePath, buf.Bytes())
}

// Settings

// Get loads the settings, falling back to defaults when no file exists.
func (s *FileStore) Get() (work.Settings, error) {
	path := filepath.Join(s.dir, metaDirName, settingsFile)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return work.DefaultSettings(), nil
	}
	if err != nil {
		return work.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var settings work.Settings
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return work.Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}

// Save persists the settings atomically.
func (s *FileStore) Save(settings work.Settings) error {
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	path := filepath.Join(s.dir, metaDirName, settingsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return writeAtomic(path, content)
}

// Sessions

// Create appends a session to its item's session file. Sessions are
// append-only; existing records are never rewritten.
func (s *FileStore) Create(session *work.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.sessionPath(session.WorkItemID)
	sessions, err := readYAMLList[work.WorkSession](path)
	if err != nil {
		return err
	}
	sessions = append(sessions, session)
	return writeYAMLList(path, sessions)
}

// GetByWorkItemID returns an item's sessions in file order. Callers sort
// by start time.
func (s *FileStore) GetByWorkItemID(id string) ([]*work.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readYAMLList[work.WorkSession](s.sessionPath(id))
}

func (s *FileStore) sessionPath(itemID string) string {
	return filepath.Join(s.dir, metaDirName, sessionsDir, itemID+".yml")
}

// Questions returns the question repository view of this store.
// Sessions and questions share GetByWorkItemID semantics but different
// record types, so the interface methods live on a small wrapper.
func (s *FileStore) Questions() *FileQuestionStore {
	return &FileQuestionStore{store: s}
}

// FileQuestionStore implements work.QuestionRepository over a FileStore.
type FileQuestionStore struct {
	store *FileStore
}

func (q *FileQuestionStore) path(itemID string) string {
	return filepath.Join(q.store.dir, metaDirName, questionsDir, itemID+".yml")
}

// Create appends a question to its item's question file.
func (q *FileQuestionStore) Create(question *work.BlockedQuestion) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	path := q.path(question.WorkItemID)
	questions, err := readYAMLList[work.BlockedQuestion](path)
	if err != nil {
		return err
	}
	questions = append(questions, question)
	return writeYAMLList(path, questions)
}

// Update rewrites an existing question, matched by ID.
func (q *FileQuestionStore) Update(question *work.BlockedQuestion) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	path := q.path(question.WorkItemID)
	questions, err := readYAMLList[work.BlockedQuestion](path)
	if err != nil {
		return err
	}
	for i, existing := range questions {
		if existing.ID == question.ID {
			questions[i] = question
			return writeYAMLList(path, questions)
		}
	}
	return fmt.Errorf("question not found: %s", question.ID)
}

// GetByWorkItemID returns an item's questions.
func (q *FileQuestionStore) GetByWorkItemID(id string) ([]*work.BlockedQuestion, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	return readYAMLList[work.BlockedQuestion](q.path(id))
}

// YAML list files

func readYAMLList[T any](path string) ([]*T, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var list []*T
	if err := yaml.Unmarshal(content, &list); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return list, nil
}

func writeYAMLList[T any](path string, list []*T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content, err := yaml.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return writeAtomic(path, content)
}
