/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// assignCmd represents the assign command
var assignCmd = &cobra.Command{
	Use:   "assign <task-id> <executor>",
	Short: "Assign an executor to a task",
	Long: `Assign a registered employee as a task's executor.

Tasks promoted from the backlog start unassigned, and only the assigned
executor can move a task through the workflow; assign one before the
work starts. Re-assigning hands the task to someone else.

Examples:
  crewboard assign T001 dev_bob`,
	Args: cobra.ExactArgs(2),
	RunE: runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	task, err := svc.AssignExecutor(args[0], args[1])
	if err != nil {
		return fmt.Errorf("assign executor: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Printf("✓ %s is now executed by %s\n", task.ID, task.Executor)
	return nil
}
