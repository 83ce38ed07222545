package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/marchcraft/drover/pkg/resolver"
	"github.com/marchcraft/drover/pkg/work"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backlog status",
	Long: `Show every work item in the backlog with its status, plus a
summary of what the dependency resolver would schedule next.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fs, err := openStore()
	if err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	items, err := fs.GetAll()
	if err != nil {
		return fmt.Errorf("load backlog: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("Backlog is empty. Add items with `drover add`.")
		return nil
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })

	res := resolver.New(fs, fs)
	resolution, err := res.Resolve()
	if err != nil {
		return fmt.Errorf("resolve dependencies: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tATTEMPTS\tTITLE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", item.ID, statusLabel(item.Status), item.AttemptCount, item.Title)
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("Ready to work: %d\n", len(resolution.Ready))
	if len(resolution.Cycles) > 0 {
		fmt.Printf("%s Dependency cycles detected:\n", color.RedString("✗"))
		for _, cycle := range resolution.Cycles {
			fmt.Printf("  %s\n", strings.Join(cycle, " -> "))
		}
	}

	settings, err := fs.Get()
	if err == nil && settings.TokenBudget.Enabled {
		fmt.Printf("Token budget: %d/%d used today\n", settings.TokenBudget.UsedToday, settings.TokenBudget.DailyCap)
	}
	return nil
}

func statusLabel(s work.ItemStatus) string {
	switch s {
	case work.StatusComplete:
		return color.GreenString(string(s))
	case work.StatusInProgress:
		return color.CyanString(string(s))
	case work.StatusBlocked:
		return color.YellowString(string(s))
	case work.StatusFailed:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}
