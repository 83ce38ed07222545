package work

import "testing"

func TestBuildGraph(t *testing.T) {
	items := []*WorkItem{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"a", "b"}},
	}

	graph := BuildGraph(items)

	// Items without dependencies get no node.
	if len(graph) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(graph))
	}
	if graph.Contains("a") {
		t.Error("Dependency-free item must not appear in the graph")
	}
	if !graph.Contains("b") || !graph.Contains("c") {
		t.Error("Graph missing expected nodes")
	}

	deps := graph.Dependencies("c")
	if len(deps) != 2 || deps[0] != "a" || deps[1] != "b" {
		t.Errorf("Expected c to depend on [a b], got %v", deps)
	}
	if deps := graph.Dependencies("a"); deps != nil {
		t.Errorf("Expected nil dependencies for absent node, got %v", deps)
	}
}

func TestBuildGraphCopiesDependencies(t *testing.T) {
	item := &WorkItem{ID: "b", DependsOn: []string{"a"}}
	graph := BuildGraph([]*WorkItem{item})

	item.DependsOn[0] = "changed"
	if graph.Dependencies("b")[0] != "a" {
		t.Error("Graph must snapshot dependencies, not alias the item slice")
	}
}
