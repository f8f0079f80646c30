/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// dependCmd represents the depend command
var dependCmd = &cobra.Command{
	Use:   "depend <task-id> <depends-on-id>",
	Short: "Add a dependency between two tasks",
	Long: `Record that one task depends on another.

A task with non-terminal dependencies is blocked and cannot sensibly be
started. Edges that would close a cycle are rejected.

Examples:
  crewboard depend T002 T001   # T002 waits for T001`,
	Args: cobra.ExactArgs(2),
	RunE: runDepend,
}

func init() {
	rootCmd.AddCommand(dependCmd)
}

func runDepend(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	task, err := svc.AddDependency(args[0], args[1])
	if err != nil {
		return fmt.Errorf("add dependency: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Printf("✓ %s now depends on %s\n", task.ID, strings.Join(task.DependsOn, ", "))
	return nil
}
