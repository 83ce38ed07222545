package resolver

import (
	"strings"
	"testing"
	"time"

	"github.com/marchcraft/drover/pkg/store"
	"github.com/marchcraft/drover/pkg/work"
)

func seedStore(items ...*work.WorkItem) *store.MemoryStore {
	s := store.NewMemoryStore()
	for _, item := range items {
		s.AddItem(item)
	}
	return s
}

func itemIDs(items []*work.WorkItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestResolveDiamond(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := seedStore(
		&work.WorkItem{ID: "a", Status: work.StatusComplete, CreatedAt: base},
		&work.WorkItem{ID: "b", Status: work.StatusPending, DependsOn: []string{"a"}, CreatedAt: base.Add(time.Minute)},
		&work.WorkItem{ID: "c", Status: work.StatusPending, DependsOn: []string{"a"}, CreatedAt: base.Add(2 * time.Minute)},
		&work.WorkItem{ID: "d", Status: work.StatusPending, DependsOn: []string{"b", "c"}, CreatedAt: base.Add(3 * time.Minute)},
	)

	r := New(s, s)
	res, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	got := itemIDs(res.Ready)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Expected ready [b c], got %v", got)
	}
	if blocked := itemIDs(res.Blocked); len(blocked) != 1 || blocked[0] != "d" {
		t.Errorf("Expected blocked [d], got %v", blocked)
	}
	if len(res.Cycles) != 0 {
		t.Errorf("Expected no cycles, got %v", res.Cycles)
	}
}

func TestResolveSkipsTerminalAndInProgress(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "done", Status: work.StatusComplete},
		&work.WorkItem{ID: "busy", Status: work.StatusInProgress},
		&work.WorkItem{ID: "stuck", Status: work.StatusBlocked},
		&work.WorkItem{ID: "dead", Status: work.StatusFailed},
		&work.WorkItem{ID: "next", Status: work.StatusPending},
	)

	r := New(s, s)
	ready, err := r.GetReadyItems()
	if err != nil {
		t.Fatalf("GetReadyItems failed: %v", err)
	}
	if got := itemIDs(ready); len(got) != 1 || got[0] != "next" {
		t.Errorf("Expected ready [next], got %v", got)
	}
}

func TestResolveFIFOOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := seedStore(
		&work.WorkItem{ID: "newer", Status: work.StatusPending, CreatedAt: base.Add(time.Hour)},
		&work.WorkItem{ID: "oldest", Status: work.StatusPending, CreatedAt: base},
		&work.WorkItem{ID: "middle", Status: work.StatusPending, CreatedAt: base.Add(time.Minute)},
	)

	r := New(s, s)
	ready, err := r.GetReadyItems()
	if err != nil {
		t.Fatalf("GetReadyItems failed: %v", err)
	}
	got := itemIDs(ready)
	want := []string{"oldest", "middle", "newer"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected FIFO order %v, got %v", want, got)
		}
	}
}

func TestDetectCyclesTwoMember(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "a", Status: work.StatusPending, DependsOn: []string{"b"}},
		&work.WorkItem{ID: "b", Status: work.StatusPending, DependsOn: []string{"a"}},
		&work.WorkItem{ID: "c", Status: work.StatusPending},
	)

	r := New(s, s)
	res, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(res.Cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(res.Cycles))
	}
	cycle := res.Cycles[0]
	if len(cycle) != 2 || cycle[0] != "a" || cycle[1] != "b" {
		t.Errorf("Expected cycle [a b], got %v", cycle)
	}

	// Cyclic items are excluded from scheduling; the rest still resolve.
	if got := itemIDs(res.Ready); len(got) != 1 || got[0] != "c" {
		t.Errorf("Expected ready [c], got %v", got)
	}
}

func TestDetectCyclesSelfLoop(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "loop", Status: work.StatusPending, DependsOn: []string{"loop"}},
	)

	r := New(s, s)
	cycles, err := r.DetectCycles()
	if err != nil {
		t.Fatalf("DetectCycles failed: %v", err)
	}
	if len(cycles) != 1 || len(cycles[0]) != 1 || cycles[0][0] != "loop" {
		t.Errorf("Expected self-loop cycle [[loop]], got %v", cycles)
	}
}

func TestIsReady(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "a", Status: work.StatusComplete},
		&work.WorkItem{ID: "b", Status: work.StatusPending, DependsOn: []string{"a"}},
		&work.WorkItem{ID: "c", Status: work.StatusPending, DependsOn: []string{"b"}},
		&work.WorkItem{ID: "x", Status: work.StatusPending, DependsOn: []string{"y"}},
		&work.WorkItem{ID: "y", Status: work.StatusPending, DependsOn: []string{"x"}},
	)
	r := New(s, s)

	tests := []struct {
		id   string
		want bool
	}{
		{"b", true},     // sole dependency complete
		{"c", false},    // dependency not complete
		{"unknown", true}, // absent from graph
		{"x", false},    // inside a cycle
	}
	for _, tt := range tests {
		got, err := r.IsReady(tt.id)
		if err != nil {
			t.Fatalf("IsReady(%s) failed: %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("IsReady(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestIsReadyUnknownDependency(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "orphan", Status: work.StatusPending, DependsOn: []string{"ghost"}},
	)
	r := New(s, s)

	ready, err := r.IsReady("orphan")
	if err != nil {
		t.Fatalf("IsReady failed: %v", err)
	}
	if ready {
		t.Error("Item depending on an unknown id should not be ready")
	}
}

func TestGetDependencyChain(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "a", Status: work.StatusComplete},
		&work.WorkItem{ID: "b", Status: work.StatusComplete, DependsOn: []string{"a"}},
		&work.WorkItem{ID: "c", Status: work.StatusPending, DependsOn: []string{"a", "b"}},
		&work.WorkItem{ID: "d", Status: work.StatusPending, DependsOn: []string{"c"}},
	)
	r := New(s, s)

	chain, err := r.GetDependencyChain("d")
	if err != nil {
		t.Fatalf("GetDependencyChain failed: %v", err)
	}

	// Deepest first, shared dependencies once.
	want := []string{"a", "b", "c"}
	if len(chain) != len(want) {
		t.Fatalf("Expected chain %v, got %v", want, chain)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("Expected chain %v, got %v", want, chain)
		}
	}
}

func TestMermaidOutput(t *testing.T) {
	s := seedStore(
		&work.WorkItem{ID: "a", Title: "First", Status: work.StatusComplete},
		&work.WorkItem{ID: "b", Title: "Second", Status: work.StatusPending, DependsOn: []string{"a"}},
	)
	r := New(s, s)

	out, err := r.Mermaid()
	if err != nil {
		t.Fatalf("Mermaid failed: %v", err)
	}
	for _, want := range []string{"graph TD", "a --> b", ":::complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid output missing %q:\n%s", want, out)
		}
	}
}
