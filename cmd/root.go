package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drover",
	Short: "Autonomous work orchestration",
	Long: `Drover works through a backlog of markdown work items on its own.
It resolves dependencies between items, runs reasoning sessions against
each ready item through a multi-phase pipeline, and respects quiet hours
and a daily token budget while doing so.`,
	SilenceUsage: true,
}

// Command flags
var (
	backlogDir string

	addTitle     string
	addDependsOn []string
	addBodyFile  string

	graphOutput string

	runInterval int

	versionJSON bool
)

// GetRootCommand returns the drover command tree with all subcommands
// and flags configured.
func GetRootCommand() *cobra.Command {
	rootCmd.PersistentFlags().StringVarP(&backlogDir, "dir", "d", ".", "Backlog directory")

	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Item title")
	addCmd.Flags().StringSliceVar(&addDependsOn, "depends-on", nil, "Dependencies (item IDs)")
	addCmd.Flags().StringVarP(&addBodyFile, "body-file", "f", "", "File containing the item description")

	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file (stdout if not specified)")

	runCmd.Flags().IntVar(&runInterval, "interval", 0, "Override cycle interval in seconds")

	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information in JSON format")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
