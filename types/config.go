/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	JSON    bool          `mapstructure:"json"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir        string `mapstructure:"rootDir" validate:"required"`
	BoardDir       string `mapstructure:"boardDir" validate:"required"`
	DiscussionsDir string `mapstructure:"discussionsDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	TasksFile     string `mapstructure:"tasksFile" validate:"required"`
	SprintsFile   string `mapstructure:"sprintsFile" validate:"required"`
	BacklogFile   string `mapstructure:"backlogFile" validate:"required"`
	EmployeesFile string `mapstructure:"employeesFile" validate:"required"`
	Format        string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}
