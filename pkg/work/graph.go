package work

// DependencyNode holds the direct dependencies of one work item.
type DependencyNode struct {
	DependsOn []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// DependencyGraph maps work-item identity to its dependency node. The graph
// is a read-only snapshot: it is loaded once per resolution and never
// mutated by the engine. An item absent from the graph has no dependencies.
type DependencyGraph map[string]DependencyNode

// Dependencies returns the direct dependencies of id, or nil if the item
// has no node in the graph.
func (g DependencyGraph) Dependencies(id string) []string {
	node, ok := g[id]
	if !ok {
		return nil
	}
	return node.DependsOn
}

// Contains reports whether id has a node in the graph.
func (g DependencyGraph) Contains(id string) bool {
	_, ok := g[id]
	return ok
}

// BuildGraph derives a dependency graph snapshot from a set of work items.
func BuildGraph(items []*WorkItem) DependencyGraph {
	graph := make(DependencyGraph, len(items))
	for _, item := range items {
		if len(item.DependsOn) == 0 {
			continue
		}
		graph[item.ID] = DependencyNode{
			DependsOn: append([]string(nil), item.DependsOn...),
		}
	}
	return graph
}
