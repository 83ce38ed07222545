package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/marchcraft/drover/pkg/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a backlog directory",
	Long: `Initialize a directory as a drover backlog.
Creates the .drover state directory and a default settings file.
If no directory is specified, initializes the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := backlogDir
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create backlog directory: %w", err)
	}

	fs := store.NewFileStore(dir)
	if err := fs.Init(); err != nil {
		return fmt.Errorf("initialize backlog: %w", err)
	}

	fmt.Printf("%s Initialized backlog in %s\n", color.GreenString("✓"), color.CyanString(dir))
	return nil
}
