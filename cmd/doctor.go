/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the board's structural invariants",
	Long: `Check the board's structural invariants: the dependency graph
must be acyclic, dependency edges must point at existing tasks, authors
and executors must be registered, and sprint references must resolve.

Exits non-zero when a violation is found, so it can gate automation.

Examples:
  crewboard doctor`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	problems, err := svc.Verify()
	if err != nil {
		return fmt.Errorf("verify board: %w", err)
	}

	if isJSON() {
		if problems == nil {
			problems = []string{}
		}
		if err := printJSON(map[string]any{"ok": len(problems) == 0, "problems": problems}); err != nil {
			return err
		}
	} else if len(problems) == 0 {
		fmt.Println("✓ Board is consistent")
	} else {
		fmt.Println(ui.StyleError.Render(fmt.Sprintf("%d problem(s) found:", len(problems))))
		for _, p := range problems {
			fmt.Printf("  • %s\n", p)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("board has %d consistency problem(s)", len(problems))
	}
	return nil
}
