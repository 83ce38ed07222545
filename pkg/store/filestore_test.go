package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marchcraft/drover/pkg/work"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.Init())
	return s
}

func TestInitCreatesLayout(t *testing.T) {
	s := newTestStore(t)

	for _, p := range []string{
		filepath.Join(s.Dir(), ".drover"),
		filepath.Join(s.Dir(), ".drover", "sessions"),
		filepath.Join(s.Dir(), ".drover", "questions"),
		filepath.Join(s.Dir(), ".drover", "settings.yml"),
	} {
		_, err := os.Stat(p)
		assert.NoError(t, err, "missing %s", p)
	}

	settings, err := s.Get()
	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, 60, settings.IntervalSeconds)
}

func TestItemRoundTrip(t *testing.T) {
	s := newTestStore(t)
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateItem(&work.WorkItem{
		ID:          "item-1",
		Title:       "Build the widget",
		DependsOn:   []string{"item-0"},
		CreatedAt:   created,
		Description: "Some longer description.\n\nWith two paragraphs.",
	}))

	item, err := s.GetByID("item-1")
	require.NoError(t, err)
	assert.Equal(t, "Build the widget", item.Title)
	assert.Equal(t, work.StatusPending, item.Status, "status defaults to pending")
	assert.Equal(t, []string{"item-0"}, item.DependsOn)
	assert.True(t, item.CreatedAt.Equal(created))
	assert.Equal(t, "Some longer description.\n\nWith two paragraphs.", item.Description)
	assert.Equal(t, "item-1.md", item.Filename)
}

func TestUpdatePreservesDescription(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateItem(&work.WorkItem{
		ID:          "item-1",
		Title:       "Original",
		Description: "Keep this body.",
	}))

	item, err := s.GetByID("item-1")
	require.NoError(t, err)
	item.Status = work.StatusInProgress
	item.Description = ""
	require.NoError(t, s.Update(item))

	reloaded, err := s.GetByID("item-1")
	require.NoError(t, err)
	assert.Equal(t, work.StatusInProgress, reloaded.Status)
	assert.Equal(t, "Keep this body.", reloaded.Description)
}

func TestUpdateUnknownItem(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(&work.WorkItem{ID: "ghost"})
	assert.Error(t, err)
}

func TestCreateItemRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateItem(&work.WorkItem{ID: "item-1", Title: "First"}))
	assert.Error(t, s.CreateItem(&work.WorkItem{ID: "item-1", Title: "Again"}))
}

func TestGetAllSkipsNonItemFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateItem(&work.WorkItem{ID: "item-1", Title: "Real"}))

	// A README without frontmatter id must not break loading.
	readme := filepath.Join(s.Dir(), "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Notes\n"), 0644))

	items, err := s.GetAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-1", items[0].ID)
}

func TestLoadGraph(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateItem(&work.WorkItem{ID: "a", Title: "A"}))
	require.NoError(t, s.CreateItem(&work.WorkItem{ID: "b", Title: "B", DependsOn: []string{"a"}}))

	graph, err := s.LoadGraph()
	require.NoError(t, err)
	assert.True(t, graph.Contains("b"))
	assert.Equal(t, []string{"a"}, graph.Dependencies("b"))
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	settings := work.DefaultSettings()
	settings.QuietHours = work.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}
	settings.TokenBudget = work.TokenBudget{Enabled: true, DailyCap: 50000, UsedToday: 1234, LastReset: "2026-03-02"}
	require.NoError(t, s.Save(settings))

	loaded, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSessionsAppendOnly(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(&work.WorkSession{
		ID:             "s1",
		WorkItemID:     "item-1",
		Transformation: work.TransformInterpret,
		Outcome:        work.SessionCompleted,
		StartedAt:      base,
		TokensUsed:     500,
	}))
	require.NoError(t, s.Create(&work.WorkSession{
		ID:             "s2",
		WorkItemID:     "item-1",
		Transformation: work.TransformPlan,
		Outcome:        work.SessionFailed,
		StartedAt:      base.Add(time.Hour),
		ErrorMessage:   "plan step crashed",
	}))

	sessions, err := s.GetByWorkItemID("item-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, work.SessionFailed, sessions[1].Outcome)
	assert.Equal(t, "plan step crashed", sessions[1].ErrorMessage)

	// No sessions recorded for another item.
	other, err := s.GetByWorkItemID("item-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestQuestionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	qs := s.Questions()
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, qs.Create(&work.BlockedQuestion{
		ID:         "q1",
		WorkItemID: "item-1",
		Question:   "Which region?",
		CreatedAt:  created,
	}))

	loaded, err := qs.GetByWorkItemID("item-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.False(t, loaded[0].Answered())

	loaded[0].Answer = "eu-west-1"
	loaded[0].AnsweredAt = created.Add(time.Hour)
	require.NoError(t, qs.Update(loaded[0]))

	reloaded, err := qs.GetByWorkItemID("item-1")
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.True(t, reloaded[0].Answered())
	assert.Equal(t, "eu-west-1", reloaded[0].Answer)

	assert.Error(t, qs.Update(&work.BlockedQuestion{ID: "ghost", WorkItemID: "item-1"}))
}
