package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marchcraft/drover/pkg/work"
)

// Mermaid renders the dependency graph as a Mermaid diagram with item
// statuses, for the CLI graph command.
func (r *Resolver) Mermaid() (string, error) {
	graph, items, err := r.snapshot()
	if err != nil {
		return "", err
	}

	statuses := statusIndex(items)

	var lines []string
	lines = append(lines, "graph TD")

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	sort.Strings(ids)

	for _, id := range ids {
		status := statuses[id]
		nodeStyle := ""
		switch status {
		case work.StatusComplete:
			nodeStyle = ":::complete"
		case work.StatusInProgress:
			nodeStyle = ":::inprogress"
		case work.StatusFailed:
			nodeStyle = ":::failed"
		case work.StatusBlocked:
			nodeStyle = ":::blocked"
		}
		lines = append(lines, fmt.Sprintf("  %s[\"%s (%s)\"]%s", id, id, status, nodeStyle))
	}

	for _, id := range ids {
		for _, dep := range graph.Dependencies(id) {
			lines = append(lines, fmt.Sprintf("  %s --> %s", dep, id))
		}
	}

	lines = append(lines, "  classDef complete fill:#90EE90,stroke:#333,stroke-width:2px;")
	lines = append(lines, "  classDef inprogress fill:#87CEEB,stroke:#333,stroke-width:2px;")
	lines = append(lines, "  classDef failed fill:#FFB6C1,stroke:#333,stroke-width:2px;")
	lines = append(lines, "  classDef blocked fill:#FFE4B5,stroke:#333,stroke-width:2px;")

	return strings.Join(lines, "\n"), nil
}
