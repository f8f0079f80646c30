/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
)

// sprintCmd groups the sprint subcommands.
var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints",
	Long: `Manage sprints.

Creating a sprint is an atomic unit of work: every backlog item flagged
for the next sprint is promoted into a member task, and a finalization
task depending on all of them is created alongside. Boss only.`,
}

var sprintCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a sprint from the flagged backlog",
	Long: `Create a sprint, promoting every backlog item flagged for the
next sprint into a member task.

Examples:
  crewboard sprint create "Auth sprint" --goal "Ship login" --as boss_kim`,
	Args: cobra.ExactArgs(1),
	RunE: runSprintCreate,
}

var sprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sprints",
	RunE:  runSprintList,
}

var sprintTasksCmd = &cobra.Command{
	Use:   "tasks <sprint-id>",
	Short: "List the member tasks of a sprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSprintTasks,
}

var sprintCompleteCmd = &cobra.Command{
	Use:   "complete <sprint-id>",
	Short: "Mark a sprint completed",
	Long: `Mark a sprint completed. Requires the boss, and the sprint's
finalization task must already be terminal.

Examples:
  crewboard sprint complete S001 --as boss_kim`,
	Args: cobra.ExactArgs(1),
	RunE: runSprintComplete,
}

var (
	sprintGoal  string
	sprintActor string
)

func init() {
	rootCmd.AddCommand(sprintCmd)
	sprintCmd.AddCommand(sprintCreateCmd)
	sprintCmd.AddCommand(sprintListCmd)
	sprintCmd.AddCommand(sprintTasksCmd)
	sprintCmd.AddCommand(sprintCompleteCmd)

	sprintCreateCmd.Flags().StringVar(&sprintGoal, "goal", "", "What the sprint is meant to achieve")
	sprintCreateCmd.Flags().StringVar(&sprintActor, "as", "", "Registered boss creating the sprint (required)")
	_ = sprintCreateCmd.MarkFlagRequired("as")

	sprintCompleteCmd.Flags().StringVar(&sprintActor, "as", "", "Registered boss completing the sprint (required)")
	_ = sprintCompleteCmd.MarkFlagRequired("as")
}

func runSprintCreate(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	result, err := svc.CreateSprint(args[0], sprintGoal, sprintActor)
	if err != nil {
		return fmt.Errorf("create sprint: %w", err)
	}

	if isJSON() {
		return printJSON(result)
	}
	fmt.Printf("✓ Created %s: %s\n", result.Sprint.ID, result.Sprint.Name)
	for _, t := range result.Promoted {
		fmt.Printf("  • promoted %s: %s\n", t.ID, t.Title)
	}
	fmt.Printf("  • finalize task %s depends on %d task(s)\n", result.FinalizeTask.ID, len(result.FinalizeTask.DependsOn))
	if len(result.Promoted) == 0 {
		fmt.Println("  (no backlog items were flagged - flag some with: crewboard backlog toggle <id>)")
	}
	return nil
}

func runSprintList(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	sprints, err := svc.Store().ListSprints(nil)
	if err != nil {
		return fmt.Errorf("list sprints: %w", err)
	}

	if isJSON() {
		return printJSON(sprints)
	}
	if len(sprints) == 0 {
		cmd.Println("No sprints yet.")
		cmd.Println("Create one with: crewboard sprint create \"Sprint name\" --as <boss>")
		return nil
	}
	ui.RenderSprintList(sprints)
	return nil
}

func runSprintTasks(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	// SprintTasks already orders by dependency, finalize task last.
	tasks, err := svc.SprintTasks(args[0])
	if err != nil {
		return fmt.Errorf("list sprint tasks: %w", err)
	}

	if isJSON() {
		return printJSON(tasks)
	}
	blocked := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		b, err := svc.IsBlocked(t.ID)
		if err != nil {
			return fmt.Errorf("check blocking for %s: %w", t.ID, err)
		}
		blocked[t.ID] = b
	}
	ui.RenderTaskList(tasks, blocked)
	return nil
}

func runSprintComplete(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	sprint, err := svc.CompleteSprint(args[0], sprintActor)
	if err != nil {
		return fmt.Errorf("complete sprint: %w", err)
	}

	if isJSON() {
		return printJSON(sprint)
	}
	fmt.Printf("✓ Completed %s: %s\n", sprint.ID, sprint.Name)
	return nil
}
