package cmd

import (
	"fmt"
	"os"

	"github.com/marchcraft/drover/pkg/resolver"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Visualize the dependency graph",
	Long: `Render the backlog dependency graph as a Mermaid diagram.
Writes to stdout unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	fs, err := openStore()
	if err != nil {
		return err
	}

	res := resolver.New(fs, fs)
	diagram, err := res.Mermaid()
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}

	if graphOutput != "" {
		if err := os.WriteFile(graphOutput, []byte(diagram), 0644); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
		fmt.Printf("Graph written to %s\n", graphOutput)
		return nil
	}
	fmt.Print(diagram)
	return nil
}
