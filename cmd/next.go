package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Run a single orchestration cycle",
	Long: `Run one orchestration cycle and exit. The cycle honors the
same gates as the loop: quiet hours, the token budget, and the
enabled flag all apply.

Requires ANTHROPIC_API_KEY in the environment.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func runNext(cmd *cobra.Command, args []string) error {
	fs, err := openStore()
	if err != nil {
		return err
	}

	orch, err := buildEngine(fs)
	if err != nil {
		return err
	}

	orch.RunOnce(context.Background())

	stats := orch.Statistics()
	fmt.Printf("%s Cycle complete. Items processed: %d, completed: %d, failed: %d, tokens: %d\n",
		color.GreenString("✓"), stats.ItemsProcessed, stats.ItemsCompleted,
		stats.ItemsFailed, stats.TokensSpent)
	return nil
}
