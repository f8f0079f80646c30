/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <task-id>",
	Short: "Show the full record of a task",
	Long: `Show the full record of a task: status, people, dependencies,
result and the discussion log.

Examples:
  crewboard get T001
  crewboard get T001 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	task, err := svc.Store().GetTask(args[0])
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	blocked, err := svc.IsBlocked(task.ID)
	if err != nil {
		return fmt.Errorf("check blocking: %w", err)
	}
	entries, err := svc.Discussion(task.ID)
	if err != nil {
		return fmt.Errorf("read discussion: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{
			"task":       task,
			"blocked":    blocked,
			"discussion": entries,
		})
	}

	ui.RenderTaskDetail(task, blocked)
	if isVerbose() {
		fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("created %s · updated %s",
			task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339))))
	}
	if len(entries) > 0 {
		fmt.Println()
		fmt.Println(ui.StyleSectionTitle.Render("Discussion"))
		ui.RenderDiscussion(task.ID, entries)
	}
	return nil
}
