package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/marchcraft/drover/pkg/work"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a work item to the backlog",
	Long: `Add a new work item to the backlog.
The item starts in pending status and becomes ready once every
dependency named with --depends-on is complete.

The item description is read from --body-file, or from stdin when
stdin is not a terminal. An omitted id is generated.

Examples:
  drover add implement-auth -t "Implement authentication"
  drover add write-docs -t "Write docs" --depends-on implement-auth
  echo "Details here" | drover add fix-parser -t "Fix the parser"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	fs, err := openStore()
	if err != nil {
		return err
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		id = "item-" + uuid.New().String()[:8]
	}

	if addTitle == "" {
		return fmt.Errorf("--title is required")
	}

	body, err := readBody()
	if err != nil {
		return err
	}

	item := &work.WorkItem{
		ID:          id,
		Title:       addTitle,
		Status:      work.StatusPending,
		DependsOn:   addDependsOn,
		Description: body,
		CreatedAt:   time.Now(),
	}
	if err := fs.CreateItem(item); err != nil {
		return fmt.Errorf("add work item: %w", err)
	}

	fmt.Printf("%s Added %s: %s\n", color.GreenString("✓"), color.CyanString(id), addTitle)
	if len(addDependsOn) > 0 {
		fmt.Printf("  depends on: %s\n", strings.Join(addDependsOn, ", "))
	}
	return nil
}

func readBody() (string, error) {
	if addBodyFile != "" {
		data, err := os.ReadFile(addBodyFile)
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		return string(data), nil
	}
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", nil
}
