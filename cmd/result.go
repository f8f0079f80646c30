/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// resultCmd represents the result command
var resultCmd = &cobra.Command{
	Use:   "result <task-id> <text>",
	Short: "Append to a task's result",
	Long: `Append text to a task's accumulated result.

Results are an append-only record of what execution produced. They stay
writable after the task reaches a terminal state so post-completion
audit notes can be attached.

Examples:
  crewboard result T001 "Login endpoint deployed behind /api/v1/login"
  crewboard result T001 "Follow-up: rate limiting still missing"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runResult,
}

func init() {
	rootCmd.AddCommand(resultCmd)
}

func runResult(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return fmt.Errorf("result text cannot be empty")
	}

	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	task, err := svc.AppendResult(taskID, text)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Printf("✓ Result recorded on %s\n", task.ID)
	return nil
}
