package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/crewboard/types"
)

const (
	configName = ".crewboard"
	envPrefix  = "CREWBOARD"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It is fine if none exists.
	_ = godotenv.Load()

	// Environment variable handling must be set up BEFORE reading the
	// config file so that env vars like CREWBOARD_PROJECT_ROOTDIR can
	// influence where the config file is looked up.
	viper.SetEnvPrefix(envPrefix) // e.g., CREWBOARD_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	// The project root is needed before the full unmarshal to locate the
	// config file itself; fall back to the default directory name.
	potentialProjectConfigDir := viper.GetString("project.rootDir")
	if potentialProjectConfigDir == "" {
		potentialProjectConfigDir = ".crewboard"
	}

	if cfgFileFlag != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(potentialProjectConfigDir); !os.IsNotExist(err) {
			// Project-specific config directory exists. Prioritize it.
			viper.AddConfigPath(potentialProjectConfigDir) // ./.crewboard/.crewboard.yaml
			viper.SetConfigName(configName)
		} else {
			// Fall back to home and current directory for a global config.
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home) // $HOME/.crewboard.yaml
			viper.AddConfigPath(".")  // ./.crewboard.yaml
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Set default values
	viper.SetDefault("project.rootDir", ".crewboard")
	viper.SetDefault("project.boardDir", "board")
	viper.SetDefault("project.discussionsDir", "discussions")
	viper.SetDefault("data.tasksFile", "tasks.json")
	viper.SetDefault("data.sprintsFile", "sprints.json")
	viper.SetDefault("data.backlogFile", "backlog.json")
	viper.SetDefault("data.employeesFile", "employees.json")
	viper.SetDefault("data.format", "json")

	// After all sources are configured, unmarshal into GlobalAppConfig
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// A config file may exist but omit these nested keys; fall back to
	// Viper's defaults so paths are never empty.
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}
	if GlobalAppConfig.Project.BoardDir == "" {
		GlobalAppConfig.Project.BoardDir = viper.GetString("project.boardDir")
	}
	if GlobalAppConfig.Project.DiscussionsDir == "" {
		GlobalAppConfig.Project.DiscussionsDir = viper.GetString("project.discussionsDir")
	}

	// Validate the populated configuration
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
