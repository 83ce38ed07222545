// Package resolver computes which work items are schedulable given a
// dependency graph snapshot: the ready/blocked/cyclic partition, cycle
// detection, and dependency chain queries.
package resolver

import (
	"fmt"
	"sort"

	"github.com/marchcraft/drover/pkg/work"
)

// Resolver partitions the backlog against the dependency graph. It holds
// no state of its own: every query loads a fresh snapshot from its stores.
type Resolver struct {
	graphs work.GraphStore
	items  work.ItemRepository
}

// Resolution is the categorization of one consistent snapshot. All four
// fields derive from a single graph load and a single item load, so the
// ready, blocked and cyclic buckets can never disagree with each other.
type Resolution struct {
	Ready   []*work.WorkItem
	Blocked []*work.WorkItem
	Cyclic  []string
	Cycles  [][]string
}

// New creates a resolver over the given stores.
func New(graphs work.GraphStore, items work.ItemRepository) *Resolver {
	return &Resolver{graphs: graphs, items: items}
}

// Resolve loads one snapshot and computes the full categorization.
func (r *Resolver) Resolve() (*Resolution, error) {
	graph, items, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	return resolve(graph, items), nil
}

// GetReadyItems returns the schedulable items, oldest first.
func (r *Resolver) GetReadyItems() ([]*work.WorkItem, error) {
	res, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	return res.Ready, nil
}

// IsReady reports whether a single item's dependencies are satisfied.
// An item absent from the graph is trivially ready; an item inside a
// cycle never is.
func (r *Resolver) IsReady(id string) (bool, error) {
	graph, items, err := r.snapshot()
	if err != nil {
		return false, err
	}
	if !graph.Contains(id) {
		return true, nil
	}
	for _, cyclic := range cyclicSet(graph) {
		if cyclic == id {
			return false, nil
		}
	}
	statuses := statusIndex(items)
	return depsComplete(graph, statuses, id), nil
}

// DetectCycles reports every dependency cycle in the graph. Each cycle is
// the list of item identities forming one strongly connected component.
func (r *Resolver) DetectCycles() ([][]string, error) {
	graph, err := r.graphs.LoadGraph()
	if err != nil {
		return nil, fmt.Errorf("loading dependency graph: %w", err)
	}
	return detectCycles(graph), nil
}

// GetDependencyChain returns all transitive dependencies of id in
// reverse-topological order, deepest dependency first. Shared
// sub-dependencies appear once.
func (r *Resolver) GetDependencyChain(id string) ([]string, error) {
	graph, err := r.graphs.LoadGraph()
	if err != nil {
		return nil, fmt.Errorf("loading dependency graph: %w", err)
	}

	visited := make(map[string]bool)
	var chain []string

	var visit func(node string)
	visit = func(node string) {
		for _, dep := range graph.Dependencies(node) {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			visit(dep)
			chain = append(chain, dep)
		}
	}
	visit(id)

	return chain, nil
}

// snapshot loads the graph and the item set once each. Both loads feed a
// single categorization to avoid torn reads between derived buckets.
func (r *Resolver) snapshot() (work.DependencyGraph, []*work.WorkItem, error) {
	graph, err := r.graphs.LoadGraph()
	if err != nil {
		return nil, nil, fmt.Errorf("loading dependency graph: %w", err)
	}
	items, err := r.items.GetAll()
	if err != nil {
		return nil, nil, fmt.Errorf("loading work items: %w", err)
	}
	return graph, items, nil
}

// resolve computes the full categorization from one snapshot.
func resolve(graph work.DependencyGraph, items []*work.WorkItem) *Resolution {
	cycles := detectCycles(graph)
	cyclic := make(map[string]bool)
	var cyclicIDs []string
	for _, cycle := range cycles {
		for _, id := range cycle {
			if !cyclic[id] {
				cyclic[id] = true
				cyclicIDs = append(cyclicIDs, id)
			}
		}
	}

	statuses := statusIndex(items)
	res := &Resolution{Cyclic: cyclicIDs, Cycles: cycles}

	for _, item := range items {
		if item.Status != work.StatusPending && item.Status != work.StatusReady {
			continue
		}
		if cyclic[item.ID] {
			continue
		}
		if depsComplete(graph, statuses, item.ID) {
			res.Ready = append(res.Ready, item)
		} else {
			res.Blocked = append(res.Blocked, item)
		}
	}

	// FIFO fairness: oldest items first.
	sort.SliceStable(res.Ready, func(i, j int) bool {
		return res.Ready[i].CreatedAt.Before(res.Ready[j].CreatedAt)
	})

	return res
}

func statusIndex(items []*work.WorkItem) map[string]work.ItemStatus {
	statuses := make(map[string]work.ItemStatus, len(items))
	for _, item := range items {
		statuses[item.ID] = item.Status
	}
	return statuses
}

// depsComplete reports whether every dependency of id is Complete. A
// dependency with no known status counts as incomplete.
func depsComplete(graph work.DependencyGraph, statuses map[string]work.ItemStatus, id string) bool {
	for _, dep := range graph.Dependencies(id) {
		if statuses[dep] != work.StatusComplete {
			return false
		}
	}
	return true
}

func cyclicSet(graph work.DependencyGraph) []string {
	var ids []string
	for _, cycle := range detectCycles(graph) {
		ids = append(ids, cycle...)
	}
	return ids
}
