/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/crewboard/internal/ui"
	"github.com/josephgoksu/crewboard/models"
)

// employeeCmd groups the employee registry subcommands.
var employeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Manage the employee registry",
	Long: `Manage the registry of employees (agents) working the board.

Every author, executor and discussion participant must be registered
here. Names are lowercase identifiers; re-adding a name updates its role.`,
}

var employeeAddCmd = &cobra.Command{
	Use:   "add <name> <role>",
	Short: "Register an employee",
	Long: fmt.Sprintf(`Register an employee, or change the role of an existing one.

Roles: %v

Examples:
  crewboard employee add boss_kim boss
  crewboard employee add dev_bob developer
  crewboard employee add reviewer_rita reviewer`, models.AllRoles),
	Args: cobra.ExactArgs(2),
	RunE: runEmployeeAdd,
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered employees",
	RunE:  runEmployeeList,
}

var (
	employeeModel       string
	employeePromptFile  string
	employeeProfileFile string
)

func init() {
	rootCmd.AddCommand(employeeCmd)
	employeeCmd.AddCommand(employeeAddCmd)
	employeeCmd.AddCommand(employeeListCmd)

	employeeAddCmd.Flags().StringVar(&employeeModel, "model", "", "Model tier the agent runs on (opaque to the board)")
	employeeAddCmd.Flags().StringVar(&employeePromptFile, "prompt-file", "", "Path to the agent's prompt file (opaque to the board)")
	employeeAddCmd.Flags().StringVar(&employeeProfileFile, "profile-file", "", "Path to the agent's profile file (opaque to the board)")
}

func runEmployeeAdd(cmd *cobra.Command, args []string) error {
	role, ok := models.ParseRole(args[1])
	if !ok {
		return fmt.Errorf("unknown role %q (one of: %v)", args[1], models.AllRoles)
	}

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer func() { _ = s.Close() }()

	employee := models.NewEmployee(args[0], role)
	employee.Model = employeeModel
	employee.PromptFile = employeePromptFile
	employee.ProfileFile = employeeProfileFile

	emp, err := s.PutEmployee(*employee)
	if err != nil {
		return fmt.Errorf("register employee: %w", err)
	}

	if isJSON() {
		return printJSON(emp)
	}
	fmt.Printf("✓ Registered %s as %s\n", emp.Name, emp.Role)
	return nil
}

func runEmployeeList(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer func() { _ = s.Close() }()

	employees, err := s.ListEmployees()
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}

	if isJSON() {
		return printJSON(employees)
	}
	if len(employees) == 0 {
		cmd.Println("No employees registered.")
		cmd.Println("Register one with: crewboard employee add <name> <role>")
		return nil
	}
	ui.RenderEmployeeList(employees)
	return nil
}
