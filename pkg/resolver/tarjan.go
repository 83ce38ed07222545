package resolver

import (
	"sort"

	"github.com/marchcraft/drover/pkg/work"
)

// detectCycles finds every dependency cycle using Tarjan's strongly
// connected components algorithm, treating depends-on edges as successor
// edges. Any SCC with more than one member is a cycle, as is a singleton
// whose node depends on itself. Runs in O(V+E).
func detectCycles(graph work.DependencyGraph) [][]string {
	index := 0
	indices := make(map[string]int, len(graph))
	lowlinks := make(map[string]int, len(graph))
	onStack := make(map[string]bool, len(graph))
	var stack []string
	var cycles [][]string

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph.Dependencies(v) {
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				if lowlinks[w] < lowlinks[v] {
					lowlinks[v] = lowlinks[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
			}
		}

		if lowlinks[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 || selfDependent(graph, v) {
				sort.Strings(scc)
				cycles = append(cycles, scc)
			}
		}
	}

	// Deterministic traversal order keeps cycle reporting stable.
	roots := make([]string, 0, len(graph))
	for id := range graph {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	for _, id := range roots {
		if _, seen := indices[id]; !seen {
			strongConnect(id)
		}
	}

	return cycles
}

func selfDependent(graph work.DependencyGraph, id string) bool {
	for _, dep := range graph.Dependencies(id) {
		if dep == id {
			return true
		}
	}
	return false
}
