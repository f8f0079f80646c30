/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
	"github.com/josephgoksu/crewboard/internal/workflow"
	"github.com/josephgoksu/crewboard/models"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks on the board",
	Long: `List tasks on the board.

By default terminal tasks (done, cancelled) are hidden; use --all to
include them. Blocked tasks carry a marker in the ID column.

Examples:
  crewboard list                      # Open tasks
  crewboard list --all                # Including done and cancelled
  crewboard list --status in_review   # Only tasks waiting for review
  crewboard list --executor dev_bob   # One agent's plate
  crewboard list --sprint S001        # One sprint's tasks`,
	RunE: runList,
}

var (
	listStatus   string
	listExecutor string
	listSprint   string
	listAll      bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listExecutor, "executor", "", "Filter by executor")
	listCmd.Flags().StringVar(&listSprint, "sprint", "", "Filter by sprint id")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include done and cancelled tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	var statusFilter models.TaskStatus
	if listStatus != "" {
		s, ok := models.ParseStatus(listStatus)
		if !ok {
			return fmt.Errorf("unknown status %q (one of: %v)", listStatus, models.AllStatuses)
		}
		statusFilter = s
	}

	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	filterFn := func(t models.Task) bool {
		if statusFilter != "" && t.Status != statusFilter {
			return false
		}
		if statusFilter == "" && !listAll && t.Status.IsTerminal() {
			return false
		}
		if listExecutor != "" && t.Executor != listExecutor {
			return false
		}
		if listSprint != "" && (t.SprintID == nil || *t.SprintID != listSprint) {
			return false
		}
		return true
	}

	tasks, err := svc.Store().ListTasks(filterFn, nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	tasks = sortTasksForDisplay(tasks)

	// Blocking is computed against the whole board, not the filtered view.
	allTasks, err := svc.Store().ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	blocked := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		b, err := workflow.IsBlocked(allTasks, t.ID)
		if err != nil {
			return fmt.Errorf("check blocking for %s: %w", t.ID, err)
		}
		blocked[t.ID] = b
	}

	if isJSON() {
		type taskRow struct {
			models.Task
			Blocked bool `json:"blocked"`
		}
		rows := make([]taskRow, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, taskRow{Task: t, Blocked: blocked[t.ID]})
		}
		return printJSON(rows)
	}

	if len(tasks) == 0 {
		cmd.Println("No tasks found.")
		cmd.Println("Add one with: crewboard add \"Task title\" --author <employee>")
		return nil
	}

	ui.RenderTaskList(tasks, blocked)
	return nil
}
