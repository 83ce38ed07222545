package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information for this binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionJSON {
			info := map[string]string{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
				"go_version": runtime.Version(),
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal version info: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("drover %s (commit %s, built %s, %s)\n", Version, Commit, BuildDate, runtime.Version())
		return nil
	},
}
