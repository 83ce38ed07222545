package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the orchestrator loop",
	Long: `Start the orchestration loop and work through the backlog
until interrupted. Each cycle re-reads settings, so quiet hours,
the token budget, and the interval can be changed while running.

Requires ANTHROPIC_API_KEY in the environment.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	fs, err := openStore()
	if err != nil {
		return err
	}

	if runInterval > 0 {
		settings, err := fs.Get()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		settings.IntervalSeconds = runInterval
		if err := fs.Save(settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}

	orch, err := buildEngine(fs)
	if err != nil {
		return err
	}

	if err := orch.Start(); err != nil {
		return fmt.Errorf("start orchestrator: %w", err)
	}
	fmt.Printf("%s Orchestrator running. Press Ctrl-C to stop.\n", color.GreenString("✓"))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("\nStopping...")
	orch.Stop()

	stats := orch.Statistics()
	fmt.Printf("%s Stopped. Cycles: %d, items processed: %d, completed: %d, failed: %d, tokens: %d\n",
		color.GreenString("✓"), stats.CyclesRun, stats.ItemsProcessed,
		stats.ItemsCompleted, stats.ItemsFailed, stats.TokensSpent)
	return nil
}
