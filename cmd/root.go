/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/crewboard/internal/board"
	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// jsonOut switches command output to machine-readable JSON.
	jsonOut bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crewboard",
	Short: "Crewboard coordinates the shared task board of an agent team.",
	Long: `Crewboard is a file-backed sprint and task board for agent teams.
It keeps tasks, sprints, the backlog and the employee registry in plain
data files so that several agents can plan, execute and review work
against the same board.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		HandleFatalError("Error: "+err.Error(), err)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.crewboard.yaml or ./.crewboard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit machine-readable JSON output")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// GetBoardDirPath returns the full path to the board data directory.
func GetBoardDirPath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.BoardDir)
}

// GetDiscussionsDirPath returns the full path to the discussion log directory.
func GetDiscussionsDirPath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.DiscussionsDir)
}

// GetStore initializes and returns the board store using the unified types.AppConfig.
func GetStore() (store.ProjectStore, error) {
	s := store.NewFileProjectStore()
	config := GetConfig()

	boardDir := GetBoardDirPath()

	err := s.Initialize(map[string]string{
		"boardDir":      boardDir,
		"format":        config.Data.Format,
		"tasksFile":     config.Data.TasksFile,
		"sprintsFile":   config.Data.SprintsFile,
		"backlogFile":   config.Data.BacklogFile,
		"employeesFile": config.Data.EmployeesFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", boardDir, err)
	}
	return s, nil
}

// GetService builds the board service over the configured stores. The
// returned cleanup releases the store locks and must always be called.
func GetService() (*board.Service, func(), error) {
	st, err := GetStore()
	if err != nil {
		return nil, nil, err
	}
	ds, err := store.NewFileDiscussionStore(GetDiscussionsDirPath())
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("failed to initialize discussion store: %w", err)
	}
	cleanup := func() {
		_ = ds.Close()
		_ = st.Close()
	}
	return board.NewService(st, ds), cleanup, nil
}

// selectTaskInteractive presents a prompt to the user to select a task from a list.
// It can be filtered using the provided filter function.
func selectTaskInteractive(boardStore store.ProjectStore, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks, err := boardStore.ListTasks(filterFn, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks for selection: %w", err)
	}

	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} (ID: {{ .ID }}, Status: {{ .Status }})`,
		Inactive: `  {{ .Title | faint }} (ID: {{ .ID }}, Status: {{ .Status }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} (ID: {{ .ID }})`,
		Details: `
--------- Task Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Title:\t" | faint }} {{ .Title }}
{{ "Description:\t" | faint }} {{ .Description }}
{{ "Status:\t" | faint }} {{ .Status }}
{{ "Executor:\t" | faint }} {{ .Executor }}`,
	}

	searcher := func(input string, index int) bool {
		task := tasks[index]
		name := strings.ToLower(task.Title)
		id := task.ID
		input = strings.ToLower(input)
		return strings.Contains(name, input) || strings.Contains(id, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err // Return error as is (includes promptui.ErrInterrupt)
	}

	return tasks[i], nil
}
