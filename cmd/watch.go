/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
	"github.com/josephgoksu/crewboard/internal/workflow"
	"github.com/josephgoksu/crewboard/models"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the board and re-render on changes",
	Long: `Watch the board data directory and re-render the open task list
whenever another agent writes to it. Stop with Ctrl-C.

Examples:
  crewboard watch`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	boardDir := GetBoardDirPath()
	if _, err := os.Stat(boardDir); err != nil {
		return fmt.Errorf("board directory %s not found - run 'crewboard init' first", boardDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(boardDir); err != nil {
		return fmt.Errorf("watch %s: %w", boardDir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ui.RenderPageHeader("Crewboard", "watching "+boardDir+" (Ctrl-C to stop)")
	if err := renderOpenTasks(); err != nil {
		return err
	}

	// Writers produce bursts of events (tmp file, rename, checksum);
	// debounce so each save renders once.
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.HasSuffix(event.Name, ".lock") || strings.HasSuffix(event.Name, ".tmp") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(250 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			LogError("watch error", err)
		case <-pending:
			pending = nil
			fmt.Println()
			if err := renderOpenTasks(); err != nil {
				LogError("render failed", err)
			}
		case <-sigCh:
			fmt.Println()
			return nil
		}
	}
}

func renderOpenTasks() error {
	svc, cleanup, err := GetService()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer cleanup()

	allTasks, err := svc.Store().ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	var open []models.Task
	for _, t := range allTasks {
		if !t.Status.IsTerminal() {
			open = append(open, t)
		}
	}
	open = sortTasksForDisplay(open)

	blocked := make(map[string]bool, len(open))
	for _, t := range open {
		b, err := workflow.IsBlocked(allTasks, t.ID)
		if err != nil {
			return fmt.Errorf("check blocking for %s: %w", t.ID, err)
		}
		blocked[t.ID] = b
	}

	fmt.Println(ui.StyleSubtle.Render(time.Now().Format("15:04:05")))
	ui.RenderTaskList(open, blocked)
	return nil
}
