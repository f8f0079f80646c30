/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/crewboard/models"
)

var initBoss string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a crewboard in the current directory",
	Long: `Initialize a crewboard project in the current directory.

This creates the .crewboard directory with:
  • board/       - tasks, sprints, backlog and employee data files
  • discussions/ - one append-only markdown log per task

Run this in your project root before using other crewboard commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := GetConfig()
		boardDir := GetBoardDirPath()
		discussionsDir := GetDiscussionsDirPath()

		alreadyInitialized := false
		if _, err := os.Stat(boardDir); err == nil {
			alreadyInitialized = true
		}

		s, err := GetStore()
		if err != nil {
			return fmt.Errorf("initialize board store: %w", err)
		}
		defer func() { _ = s.Close() }()

		if err := os.MkdirAll(discussionsDir, 0o755); err != nil {
			return fmt.Errorf("create discussions directory: %w", err)
		}

		if initBoss != "" {
			if _, err := s.PutEmployee(*models.NewEmployee(initBoss, models.RoleBoss)); err != nil {
				return fmt.Errorf("register boss %q: %w", initBoss, err)
			}
		}

		// Persist the effective configuration so the project carries its
		// own settings. Skipped when a config file already exists.
		configFile := filepath.Join(config.Project.RootDir, configName+".yaml")
		if viper.ConfigFileUsed() == "" {
			if err := viper.SafeWriteConfigAs(configFile); err != nil {
				LogError("could not write config file", err)
			}
		}

		if alreadyInitialized {
			fmt.Println("✓ Crewboard already initialized in this directory")
			if initBoss != "" {
				fmt.Printf("  • registered boss %q\n", initBoss)
			}
			return nil
		}

		fmt.Println("✓ Crewboard initialized")
		fmt.Println("")
		fmt.Println("Created:")
		fmt.Printf("  • %s/\n", boardDir)
		fmt.Printf("  • %s/\n", discussionsDir)
		fmt.Println("")
		fmt.Println("Next steps:")
		fmt.Println("  crewboard employee add boss_kim boss")
		fmt.Println("  crewboard employee add dev_bob developer")
		fmt.Println("  crewboard add \"First task\" --author boss_kim --executor dev_bob")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initBoss, "boss", "", "register this employee as the boss while initializing")
}
