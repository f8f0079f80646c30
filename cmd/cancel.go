/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
	"github.com/josephgoksu/crewboard/models"
)

// cancelCmd represents the cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel [task-id]",
	Short: "Cancel a task",
	Long: `Cancel a task, acting as a registered employee.

The boss may cancel any non-terminal task; the executor may cancel
their own task while it is still in their hands. Without a task id an
interactive picker is shown.

Examples:
  crewboard cancel T001 --as boss_kim
  crewboard cancel --as dev_bob`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCancel,
}

var cancelActor string

func init() {
	rootCmd.AddCommand(cancelCmd)

	cancelCmd.Flags().StringVar(&cancelActor, "as", "", "Registered employee performing the cancellation (required)")
	_ = cancelCmd.MarkFlagRequired("as")
}

func runCancel(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	var taskID string
	if len(args) > 0 {
		taskID = args[0]
	} else {
		if !ui.IsInteractive() {
			return fmt.Errorf("task id required in non-interactive mode")
		}
		selected, err := selectTaskInteractive(svc.Store(), func(t models.Task) bool {
			return !t.Status.IsTerminal()
		}, "Select task to cancel")
		if err != nil {
			return err
		}
		taskID = selected.ID
		if !confirmOrAbort(fmt.Sprintf("Cancel %s (%s)? [y/N] ", selected.ID, selected.Title)) {
			return nil
		}
	}

	task, err := svc.SetStatus(taskID, models.StatusCancelled, cancelActor)
	if err != nil {
		return fmt.Errorf("cancel task: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Printf("✓ Cancelled %s: %s\n", task.ID, task.Title)
	return nil
}
