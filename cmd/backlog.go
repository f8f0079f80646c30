/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
	"github.com/josephgoksu/crewboard/models"
)

// backlogCmd groups the backlog subcommands.
var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Manage the backlog",
	Long: `Manage the backlog of future work.

Backlog items are lightweight: a title, a priority and a flag marking
them for the next sprint. Flagged items are promoted into tasks when a
sprint is created; promoted items stay in the backlog as history.`,
}

var backlogAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a backlog item",
	Long: `Add an item to the backlog.

Examples:
  crewboard backlog add "Dark mode" --author analyst_anna --priority low
  crewboard backlog add "Rate limiting" --author boss_kim --priority high`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBacklogAdd,
}

var backlogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backlog items",
	RunE:  runBacklogList,
}

var backlogToggleCmd = &cobra.Command{
	Use:   "toggle <item-id>",
	Short: "Flip an item's next-sprint flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacklogToggle,
}

var backlogRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a backlog item",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacklogRemove,
}

var (
	backlogAuthor      string
	backlogPriority    string
	backlogDescription string
)

func init() {
	rootCmd.AddCommand(backlogCmd)
	backlogCmd.AddCommand(backlogAddCmd)
	backlogCmd.AddCommand(backlogListCmd)
	backlogCmd.AddCommand(backlogToggleCmd)
	backlogCmd.AddCommand(backlogRemoveCmd)

	backlogAddCmd.Flags().StringVar(&backlogAuthor, "author", "", "Registered employee adding the item (required)")
	backlogAddCmd.Flags().StringVar(&backlogPriority, "priority", "medium", "Priority: high, medium or low")
	backlogAddCmd.Flags().StringVarP(&backlogDescription, "description", "d", "", "Longer item description")
	_ = backlogAddCmd.MarkFlagRequired("author")
}

func runBacklogAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	priority, ok := models.ParsePriority(backlogPriority)
	if !ok {
		return fmt.Errorf("unknown priority %q (one of: high, medium, low)", backlogPriority)
	}

	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	if _, err := svc.Store().GetEmployee(backlogAuthor); err != nil {
		return fmt.Errorf("add backlog item: %w", err)
	}

	item := models.NewBacklogItem("", title, backlogAuthor, priority)
	item.Description = backlogDescription
	created, err := svc.Store().CreateBacklogItem(*item)
	if err != nil {
		return fmt.Errorf("add backlog item: %w", err)
	}

	if isJSON() {
		return printJSON(created)
	}
	fmt.Printf("✓ Added %s: %s (%s)\n", created.ID, created.Title, created.Priority)
	return nil
}

func runBacklogList(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	items, err := svc.Store().ListBacklog(nil)
	if err != nil {
		return fmt.Errorf("list backlog: %w", err)
	}
	items = sortBacklogForDisplay(items)

	if isJSON() {
		return printJSON(items)
	}
	if len(items) == 0 {
		cmd.Println("Backlog is empty.")
		cmd.Println("Add an item with: crewboard backlog add \"Item title\" --author <employee>")
		return nil
	}
	ui.RenderBacklogList(items)
	return nil
}

func runBacklogToggle(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	item, err := svc.ToggleBacklog(args[0])
	if err != nil {
		return fmt.Errorf("toggle backlog item: %w", err)
	}

	if isJSON() {
		return printJSON(item)
	}
	if item.NextSprint {
		fmt.Printf("✓ %s is flagged for the next sprint\n", item.ID)
	} else {
		fmt.Printf("✓ %s is no longer flagged\n", item.ID)
	}
	return nil
}

func runBacklogRemove(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	item, err := svc.Store().GetBacklogItem(args[0])
	if err != nil {
		return fmt.Errorf("remove backlog item: %w", err)
	}
	if !confirmOrAbort(fmt.Sprintf("Remove %s (%s)? [y/N] ", item.ID, item.Title)) {
		return nil
	}
	if err := svc.Store().DeleteBacklogItem(item.ID); err != nil {
		return fmt.Errorf("remove backlog item: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]string{"status": "removed", "id": item.ID})
	}
	fmt.Printf("✓ Removed %s\n", item.ID)
	return nil
}
