/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
)

// discussCmd represents the discuss command
var discussCmd = &cobra.Command{
	Use:   "discuss <task-id> [message]",
	Short: "Read or append to a task's discussion",
	Long: `Read or append to a task's discussion log.

With a message the command appends a block signed with the author's
registry role; without one it prints the log. Discussion logs are
append-only and stay writable after the task is terminal.

Examples:
  crewboard discuss T001                                      # Read the log
  crewboard discuss T001 "Blocked on the schema" --as dev_bob # Append`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscuss,
}

var discussAuthor string

func init() {
	rootCmd.AddCommand(discussCmd)

	discussCmd.Flags().StringVar(&discussAuthor, "as", "", "Registered employee writing the message")
}

func runDiscuss(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	message := strings.TrimSpace(strings.Join(args[1:], " "))

	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	if message == "" {
		entries, err := svc.Discussion(taskID)
		if err != nil {
			return fmt.Errorf("read discussion: %w", err)
		}
		if isJSON() {
			return printJSON(entries)
		}
		ui.RenderDiscussion(taskID, entries)
		return nil
	}

	if discussAuthor == "" {
		return fmt.Errorf("--as is required when appending a message")
	}

	entry, err := svc.Discuss(taskID, discussAuthor, message)
	if err != nil {
		return fmt.Errorf("append discussion: %w", err)
	}

	if isJSON() {
		return printJSON(entry)
	}
	fmt.Printf("✓ Noted on %s as %s (%s)\n", taskID, entry.Author, entry.Role)
	return nil
}
