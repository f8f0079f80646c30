/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/board"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the board",
	Long: `Add a task to the board.

The author must be a registered employee; the executor is optional and
can be assigned later. Dependencies are other task ids the new task has
to wait for.

Examples:
  crewboard add "Implement login" --author analyst_anna --executor dev_bob
  crewboard add "Ship release" --author boss_kim --depends-on T001,T002
  crewboard add "Fix flaky test" --author dev_bob --sprint S001`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addAuthor      string
	addExecutor    string
	addSprint      string
	addDependsOn   []string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Longer task description")
	addCmd.Flags().StringVar(&addAuthor, "author", "", "Registered employee creating the task (required)")
	addCmd.Flags().StringVar(&addExecutor, "executor", "", "Registered employee assigned to execute the task")
	addCmd.Flags().StringVar(&addSprint, "sprint", "", "Sprint id the task belongs to")
	addCmd.Flags().StringSliceVar(&addDependsOn, "depends-on", nil, "Task ids this task depends on")
	_ = addCmd.MarkFlagRequired("author")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	task, err := svc.CreateTask(board.CreateTaskRequest{
		Title:       title,
		Description: addDescription,
		Author:      addAuthor,
		Executor:    addExecutor,
		SprintID:    addSprint,
		DependsOn:   addDependsOn,
	})
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Printf("✓ Added %s: %s\n", task.ID, task.Title)
	if task.Executor == "" {
		fmt.Println("  (no executor yet - assign one before starting the task)")
	}
	return nil
}
