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

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <task-id> <new-status>",
	Short: "Move a task through the workflow",
	Long: `Move a task to a new status, acting as a registered employee.

Transitions are role-gated: the assigned executor moves their own task
forward, a reviewing role judges a task in review, and only the boss or
the executor may cancel.

Examples:
  crewboard status T001 in_progress --as dev_bob
  crewboard status T001 in_review   --as dev_bob
  crewboard status T001 done        --as reviewer_rita
  crewboard status T001 questions   --as dev_bob`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

var statusActor string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusActor, "as", "", "Registered employee performing the transition (required)")
	_ = statusCmd.MarkFlagRequired("as")
}

func runStatus(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	to, ok := models.ParseStatus(args[1])
	if !ok {
		return fmt.Errorf("unknown status %q (one of: %v)", args[1], models.AllStatuses)
	}

	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	task, err := svc.SetStatus(taskID, to, statusActor)
	if err != nil {
		// Show where the task could go instead; the state machine error
		// alone is not always helpful.
		if current, gerr := svc.Store().GetTask(taskID); gerr == nil {
			if next := workflow.NextStatuses(current.Status); len(next) > 0 {
				LogError(fmt.Sprintf("reachable from %s: %v", current.Status, next), nil)
			}
		}
		return fmt.Errorf("set status: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Printf("✓ %s is now %s\n", task.ID, ui.StatusStyle(task.Status).Render(string(task.Status)))
	return nil
}
